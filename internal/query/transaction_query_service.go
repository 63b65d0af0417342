package query

import (
	"context"

	"github.com/AguMoya889/Pago-en-Linea/internal/cqrs"
	"github.com/AguMoya889/Pago-en-Linea/internal/models"
	"github.com/AguMoya889/Pago-en-Linea/internal/repository"
)

// TransactionQueryService serves ledger reads scoped to the caller's account.
// Ownership is resolved through the account directory before any row is
// returned; a transaction that doesn't touch the caller's account reads as
// not found rather than forbidden, so strangers can't probe for valid IDs.
type TransactionQueryService struct {
	readRepo    *repository.TransactionReadRepository
	accountRepo *repository.AccountReadRepository
}

func NewTransactionQueryService(readRepo *repository.TransactionReadRepository, accountRepo *repository.AccountReadRepository) *TransactionQueryService {
	return &TransactionQueryService{readRepo: readRepo, accountRepo: accountRepo}
}

func (s *TransactionQueryService) GetTransaction(q cqrs.GetTransactionQuery) (*models.TransactionView, error) {
	ctx := context.Background()
	accountNumber, err := s.accountRepo.AccountNumberByUserID(ctx, q.UserID)
	if err != nil {
		return nil, err
	}
	view, err := s.readRepo.GetByID(ctx, q.TransactionID)
	if err != nil {
		return nil, err
	}
	if view.FromAccountNumber != accountNumber && view.ToAccountNumber != accountNumber {
		return nil, models.ErrTransactionNotFound
	}
	return view, nil
}

// ListTransactions returns the caller's history, most recent first.
func (s *TransactionQueryService) ListTransactions(q cqrs.ListTransactionsQuery) ([]models.TransactionView, error) {
	ctx := context.Background()
	accountNumber, err := s.accountRepo.AccountNumberByUserID(ctx, q.UserID)
	if err != nil {
		return nil, err
	}
	return s.readRepo.ListByAccountNumber(ctx, accountNumber)
}
