package query

import (
	"context"

	"github.com/AguMoya889/Pago-en-Linea/internal/cqrs"
	"github.com/AguMoya889/Pago-en-Linea/internal/models"
	"github.com/AguMoya889/Pago-en-Linea/internal/repository"
)

// AccountQueryService serves the caller's own user+account projection.
type AccountQueryService struct {
	readRepo *repository.AccountReadRepository
}

func NewAccountQueryService(readRepo *repository.AccountReadRepository) *AccountQueryService {
	return &AccountQueryService{readRepo: readRepo}
}

func (s *AccountQueryService) GetOwnAccount(q cqrs.GetOwnAccountQuery) (*models.AccountView, error) {
	return s.readRepo.GetViewByUserID(context.Background(), q.UserID)
}
