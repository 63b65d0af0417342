package command

import (
	"context"
	"log"
	"time"

	"github.com/AguMoya889/Pago-en-Linea/internal/cqrs"
	"github.com/AguMoya889/Pago-en-Linea/internal/events"
	"github.com/AguMoya889/Pago-en-Linea/internal/models"
	"github.com/AguMoya889/Pago-en-Linea/internal/repository"
	"github.com/AguMoya889/Pago-en-Linea/internal/utils"
)

// RegisterCommandService creates a user together with their account. The two
// rows are written in one database transaction: a user never exists without
// exactly one account.
type RegisterCommandService struct {
	users     *repository.UserRepository
	publisher EventPublisher
}

func NewRegisterCommandService(users *repository.UserRepository, publisher EventPublisher) *RegisterCommandService {
	return &RegisterCommandService{users: users, publisher: publisher}
}

func (s *RegisterCommandService) Register(cmd cqrs.RegisterUserCommand) (*models.User, *models.Account, error) {
	passwordHash, err := utils.HashPassword(cmd.Password)
	if err != nil {
		return nil, nil, err
	}

	now := time.Now().UTC()
	user := &models.User{
		ID:           utils.GenerateID("usr"),
		Name:         cmd.Name,
		Email:        cmd.Email,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	account := &models.Account{
		AccountNumber: utils.GenerateAccountNumber(),
		UserID:        user.ID,
		Balance:       0,
		Currency:      models.DefaultCurrency,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.users.CreateWithAccount(user, account); err != nil {
		return nil, nil, err
	}

	ctx := context.Background()
	if err := s.publisher.Publish(ctx, events.UserEventsStream, events.UserRegistered, events.UserRegisteredEvent{
		UserID:        user.ID,
		Email:         user.Email,
		AccountNumber: account.AccountNumber,
	}); err != nil {
		log.Printf("Failed to publish user.registered event: %v", err)
	}

	return user, account, nil
}
