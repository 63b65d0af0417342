package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/AguMoya889/Pago-en-Linea/internal/models"
	appredis "github.com/AguMoya889/Pago-en-Linea/internal/redis"
	goredis "github.com/redis/go-redis/v9"
)

const transactionViewKeyPrefix = "transaction:view:"

// TransactionReadRepository handles all read operations for the ledger.
// Single-transaction lookups go to Redis first with PostgreSQL fallback;
// history listings always read PostgreSQL, which only ever holds committed
// rows.
type TransactionReadRepository struct {
	db    *sql.DB
	cache *appredis.ViewCache[models.TransactionView]
}

func NewTransactionReadRepository(db *sql.DB, redisClient *goredis.Client) *TransactionReadRepository {
	return &TransactionReadRepository{
		db:    db,
		cache: appredis.NewViewCache[models.TransactionView](redisClient, 0),
	}
}

// GetByID returns a TransactionView by attempting Redis first, then PostgreSQL.
func (r *TransactionReadRepository) GetByID(ctx context.Context, id string) (*models.TransactionView, error) {
	cacheKey := transactionViewKeyPrefix + id
	if view, ok := r.cache.Get(ctx, cacheKey); ok {
		return view, nil
	}

	query := `
		SELECT id, from_account_number, to_account_number, amount, currency, type, description, created_at
		FROM transactions
		WHERE id = $1
	`
	var view models.TransactionView
	var description sql.NullString

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&view.ID, &view.FromAccountNumber, &view.ToAccountNumber,
		&view.Amount, &view.Currency, &view.Type,
		&description, &view.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, models.ErrTransactionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	if description.Valid {
		view.Description = description.String
	}

	r.CacheTransactionView(ctx, &view)
	return &view, nil
}

// ListByAccountNumber returns every transaction touching the account, most
// recent first.
func (r *TransactionReadRepository) ListByAccountNumber(ctx context.Context, accountNumber string) ([]models.TransactionView, error) {
	query := `
		SELECT id, from_account_number, to_account_number, amount, currency, type, description, created_at
		FROM transactions
		WHERE from_account_number = $1 OR to_account_number = $1
		ORDER BY created_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query, accountNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	var views []models.TransactionView
	for rows.Next() {
		var view models.TransactionView
		var description sql.NullString

		if err := rows.Scan(
			&view.ID, &view.FromAccountNumber, &view.ToAccountNumber,
			&view.Amount, &view.Currency, &view.Type,
			&description, &view.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		if description.Valid {
			view.Description = description.String
		}
		views = append(views, view)
	}
	return views, rows.Err()
}

// CacheTransactionView stores the read model for a transaction in Redis.
// Called by the transfer service immediately after a successful commit.
func (r *TransactionReadRepository) CacheTransactionView(ctx context.Context, view *models.TransactionView) {
	r.cache.Set(ctx, transactionViewKeyPrefix+view.ID, view)
}
