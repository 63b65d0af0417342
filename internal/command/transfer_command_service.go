package command

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/AguMoya889/Pago-en-Linea/internal/cqrs"
	"github.com/AguMoya889/Pago-en-Linea/internal/events"
	"github.com/AguMoya889/Pago-en-Linea/internal/models"
)

// AccountDirectory resolves account identifiers and maintains account view
// projections. The account number is the canonical identifier everywhere;
// email resolution is a convenience lookup on top of it.
type AccountDirectory interface {
	AccountNumberByUserID(ctx context.Context, userID string) (string, error)
	AccountNumberByEmail(ctx context.Context, email string) (string, error)
	RefreshView(ctx context.Context, accountNumber string)
}

// TransferLedger is the atomic unit of work behind a transfer: both balance
// mutations and the ledger insert commit together or not at all.
type TransferLedger interface {
	ExecuteTransfer(ctx context.Context, fromAccountNumber, toAccountNumber string, amount int64, description string) (*models.Transaction, error)
}

// TransactionViewCache keeps the transaction read model warm after a commit.
type TransactionViewCache interface {
	CacheTransactionView(ctx context.Context, view *models.TransactionView)
}

// EventPublisher emits domain events after state changes have committed.
type EventPublisher interface {
	Publish(ctx context.Context, stream, eventType string, data any) error
}

// TransferCommandService validates and executes balance transfers. All
// invariants that need a consistent view of both balances are enforced by the
// ledger inside its transaction; this service fails fast on everything that
// can be rejected without touching storage.
type TransferCommandService struct {
	directory AccountDirectory
	ledger    TransferLedger
	views     TransactionViewCache
	publisher EventPublisher
}

func NewTransferCommandService(
	directory AccountDirectory,
	ledger TransferLedger,
	views TransactionViewCache,
	publisher EventPublisher,
) *TransferCommandService {
	return &TransferCommandService{
		directory: directory,
		ledger:    ledger,
		views:     views,
		publisher: publisher,
	}
}

// Transfer is deliberately not idempotent: retrying the same logical request
// creates a second transaction. Callers that need retry safety must keep
// their own bookkeeping.
func (s *TransferCommandService) Transfer(cmd cqrs.TransferCommand) (*models.Transaction, error) {
	if cmd.Amount <= 0 {
		return nil, models.ErrInvalidAmount
	}

	ctx := context.Background()

	fromAccountNumber, err := s.directory.AccountNumberByUserID(ctx, cmd.FromUserID)
	if err != nil {
		if errors.Is(err, models.ErrAccountNotFound) {
			return nil, models.ErrSourceNotFound
		}
		return nil, err
	}

	toAccountNumber := cmd.ToAccountNumber
	if toAccountNumber == "" {
		toAccountNumber, err = s.directory.AccountNumberByEmail(ctx, cmd.ToEmail)
		if err != nil {
			if errors.Is(err, models.ErrAccountNotFound) || errors.Is(err, models.ErrUserNotFound) {
				return nil, models.ErrDestinationNotFound
			}
			return nil, err
		}
	}

	if fromAccountNumber == toAccountNumber {
		return nil, models.ErrSameAccount
	}

	description := cmd.Description
	if description == "" {
		description = fmt.Sprintf("Transfer from %s to %s", fromAccountNumber, toAccountNumber)
	}

	transaction, err := s.ledger.ExecuteTransfer(ctx, fromAccountNumber, toAccountNumber, cmd.Amount, description)
	if err != nil {
		return nil, err
	}

	// Post-commit projection upkeep and event fan-out. None of this can fail
	// the transfer: the ledger row is already durable.
	s.views.CacheTransactionView(ctx, transactionToView(transaction))
	s.directory.RefreshView(ctx, fromAccountNumber)
	s.directory.RefreshView(ctx, toAccountNumber)
	if err := s.publisher.Publish(ctx, events.TransferEventsStream, events.TransferCompleted, events.TransferCompletedEvent{
		TransactionID:     transaction.ID,
		FromAccountNumber: transaction.FromAccountNumber,
		ToAccountNumber:   transaction.ToAccountNumber,
		Amount:            transaction.Amount,
	}); err != nil {
		log.Printf("Failed to publish transfer.completed event: %v", err)
	}

	return transaction, nil
}

// HandleTransferEvent is the transfer-stream subscriber handler. Another
// instance may have moved money between the same accounts, so the cached
// account views are re-read from the write store. Balances themselves are
// never touched here; the ledger already committed them.
func (s *TransferCommandService) HandleTransferEvent(ctx context.Context, event events.Event) error {
	if event.Type != events.TransferCompleted {
		return nil
	}
	dataBytes, _ := json.Marshal(event.Data)
	var data events.TransferCompletedEvent
	if err := json.Unmarshal(dataBytes, &data); err != nil {
		return fmt.Errorf("failed to unmarshal transfer.completed event: %w", err)
	}
	s.directory.RefreshView(ctx, data.FromAccountNumber)
	s.directory.RefreshView(ctx, data.ToAccountNumber)
	return nil
}

// transactionToView converts the write model to the read view model.
func transactionToView(t *models.Transaction) *models.TransactionView {
	return &models.TransactionView{
		ID:                t.ID,
		FromAccountNumber: t.FromAccountNumber,
		ToAccountNumber:   t.ToAccountNumber,
		Amount:            t.Amount,
		Currency:          t.Currency,
		Type:              t.Type,
		Description:       t.Description,
		CreatedAt:         t.CreatedAt,
	}
}
