package repository

import (
	"context"
	"database/sql"
	"log"
	"time"

	"github.com/AguMoya889/Pago-en-Linea/internal/models"
	"github.com/AguMoya889/Pago-en-Linea/internal/utils"
)

// LedgerRepository executes balance transfers against PostgreSQL. The whole
// resolve / funds-check / debit / credit / record sequence runs inside one
// database transaction, so a failure at any step leaves no partial mutation.
type LedgerRepository struct {
	db *sql.DB
}

func NewLedgerRepository(db *sql.DB) *LedgerRepository {
	return &LedgerRepository{db: db}
}

// ExecuteTransfer moves amount from one account to the other and appends the
// ledger row. Both account rows are locked with SELECT ... FOR UPDATE before
// the funds check so that two concurrent transfers cannot both pass it
// against a stale balance. Locks are always taken in ascending
// account-number order, whichever direction the money flows, so two opposed
// transfers on the same pair cannot deadlock. A bounded lock_timeout turns a
// stuck lock into ErrTransferFailed instead of a hang.
func (r *LedgerRepository) ExecuteTransfer(ctx context.Context, fromAccountNumber, toAccountNumber string, amount int64, description string) (*models.Transaction, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		log.Printf("transfer: failed to begin transaction: %v", err)
		return nil, models.ErrTransferFailed
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `SET LOCAL lock_timeout = '3s'`); err != nil {
		log.Printf("transfer: failed to set lock timeout: %v", err)
		return nil, models.ErrTransferFailed
	}

	first, second := fromAccountNumber, toAccountNumber
	if second < first {
		first, second = second, first
	}

	balances := make(map[string]int64, 2)
	for _, accountNumber := range []string{first, second} {
		var balance int64
		err := tx.QueryRowContext(ctx,
			`SELECT balance FROM accounts WHERE account_number = $1 FOR UPDATE`,
			accountNumber,
		).Scan(&balance)
		if err == sql.ErrNoRows {
			if accountNumber == fromAccountNumber {
				return nil, models.ErrSourceNotFound
			}
			return nil, models.ErrDestinationNotFound
		}
		if err != nil {
			log.Printf("transfer: failed to lock account %s: %v", accountNumber, err)
			return nil, models.ErrTransferFailed
		}
		balances[accountNumber] = balance
	}

	if balances[fromAccountNumber] < amount {
		return nil, models.ErrInsufficientFunds
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE accounts SET balance = balance - $2, updated_at = NOW()
		WHERE account_number = $1
	`, fromAccountNumber, amount); err != nil {
		log.Printf("transfer: failed to debit %s: %v", fromAccountNumber, err)
		return nil, models.ErrTransferFailed
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE accounts SET balance = balance + $2, updated_at = NOW()
		WHERE account_number = $1
	`, toAccountNumber, amount); err != nil {
		log.Printf("transfer: failed to credit %s: %v", toAccountNumber, err)
		return nil, models.ErrTransferFailed
	}

	transaction := &models.Transaction{
		ID:                utils.GenerateID("tan"),
		FromAccountNumber: fromAccountNumber,
		ToAccountNumber:   toAccountNumber,
		Amount:            amount,
		Currency:          models.DefaultCurrency,
		Type:              models.TransactionTypeTransfer,
		Description:       description,
		CreatedAt:         time.Now().UTC(),
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO transactions (id, from_account_number, to_account_number, amount, currency, type, description, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, transaction.ID, transaction.FromAccountNumber, transaction.ToAccountNumber,
		transaction.Amount, transaction.Currency, transaction.Type,
		nullString(transaction.Description), transaction.CreatedAt,
	); err != nil {
		log.Printf("transfer: failed to record transaction: %v", err)
		return nil, models.ErrTransferFailed
	}

	if err := tx.Commit(); err != nil {
		log.Printf("transfer: failed to commit: %v", err)
		return nil, models.ErrTransferFailed
	}

	return transaction, nil
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{Valid: false}
	}
	return sql.NullString{String: s, Valid: true}
}
