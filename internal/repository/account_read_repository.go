package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/AguMoya889/Pago-en-Linea/internal/models"
	appredis "github.com/AguMoya889/Pago-en-Linea/internal/redis"
	goredis "github.com/redis/go-redis/v9"
)

const accountViewKeyPrefix = "account:view:"

// AccountReadRepository serves account projections and identifier lookups.
// Views are read from Redis first with PostgreSQL as the source of truth on a
// miss; plain identifier resolution always goes straight to PostgreSQL.
type AccountReadRepository struct {
	db    *sql.DB
	cache *appredis.ViewCache[models.AccountView]
}

func NewAccountReadRepository(db *sql.DB, redisClient *goredis.Client) *AccountReadRepository {
	return &AccountReadRepository{
		db:    db,
		cache: appredis.NewViewCache[models.AccountView](redisClient, 0),
	}
}

// GetViewByUserID returns the user+account projection for the caller.
func (r *AccountReadRepository) GetViewByUserID(ctx context.Context, userID string) (*models.AccountView, error) {
	cacheKey := accountViewKeyPrefix + "user:" + userID
	if view, ok := r.cache.Get(ctx, cacheKey); ok {
		return view, nil
	}

	query := `
		SELECT u.id, u.name, u.email, a.account_number, a.balance, a.currency, a.created_at, a.updated_at
		FROM users u
		JOIN accounts a ON a.user_id = u.id
		WHERE u.id = $1
	`
	var view models.AccountView
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&view.UserID, &view.Name, &view.Email, &view.AccountNumber,
		&view.Balance, &view.Currency, &view.CreatedAt, &view.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, models.ErrAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account view: %w", err)
	}

	r.cache.Set(ctx, cacheKey, &view)
	return &view, nil
}

// AccountNumberByUserID resolves the caller's account number. Always hits
// PostgreSQL: transfer source resolution must not trust a stale cache.
func (r *AccountReadRepository) AccountNumberByUserID(ctx context.Context, userID string) (string, error) {
	var accountNumber string
	err := r.db.QueryRowContext(ctx,
		`SELECT account_number FROM accounts WHERE user_id = $1`, userID,
	).Scan(&accountNumber)
	if err == sql.ErrNoRows {
		return "", models.ErrAccountNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to resolve account number: %w", err)
	}
	return accountNumber, nil
}

// AccountNumberByEmail is the convenience lookup layered on top of the
// canonical account-number identifier: transfer destinations may be given as
// the counterpart's email.
func (r *AccountReadRepository) AccountNumberByEmail(ctx context.Context, email string) (string, error) {
	var accountNumber string
	err := r.db.QueryRowContext(ctx, `
		SELECT a.account_number
		FROM accounts a
		JOIN users u ON u.id = a.user_id
		WHERE u.email = $1
	`, email).Scan(&accountNumber)
	if err == sql.ErrNoRows {
		return "", models.ErrAccountNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to resolve account number: %w", err)
	}
	return accountNumber, nil
}

// RefreshView re-reads an account's projection from PostgreSQL and rewrites
// the cache entry. Called after transfers and by the event subscriber.
func (r *AccountReadRepository) RefreshView(ctx context.Context, accountNumber string) {
	query := `
		SELECT u.id, u.name, u.email, a.account_number, a.balance, a.currency, a.created_at, a.updated_at
		FROM accounts a
		JOIN users u ON u.id = a.user_id
		WHERE a.account_number = $1
	`
	var view models.AccountView
	err := r.db.QueryRowContext(ctx, query, accountNumber).Scan(
		&view.UserID, &view.Name, &view.Email, &view.AccountNumber,
		&view.Balance, &view.Currency, &view.CreatedAt, &view.UpdatedAt,
	)
	if err != nil {
		// Leave the cache alone; the next refresh or read-through repairs it.
		return
	}
	r.cache.Set(ctx, accountViewKeyPrefix+"user:"+view.UserID, &view)
}
