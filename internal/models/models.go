package models

import "time"

type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdTimestamp"`
	UpdatedAt    time.Time `json:"updatedTimestamp"`
}

// Account balances are stored in minor currency units (CLP has none, so the
// balance is the peso amount itself). Only the transfer ledger mutates Balance.
type Account struct {
	AccountNumber string    `json:"accountNumber"`
	UserID        string    `json:"-"`
	Balance       int64     `json:"balance"`
	Currency      string    `json:"currency"`
	CreatedAt     time.Time `json:"createdTimestamp"`
	UpdatedAt     time.Time `json:"updatedTimestamp"`
}

// Transaction is an append-only ledger record. A persisted row means both
// balance mutations of the transfer it describes have already been committed.
type Transaction struct {
	ID                string    `json:"id"`
	FromAccountNumber string    `json:"fromAccountNumber"`
	ToAccountNumber   string    `json:"toAccountNumber"`
	Amount            int64     `json:"amount"`
	Currency          string    `json:"currency"`
	Type              string    `json:"type"`
	Description       string    `json:"description,omitempty"`
	CreatedAt         time.Time `json:"createdTimestamp"`
}

const (
	TransactionTypeTransfer = "TRANSFER"
	DefaultCurrency         = "CLP"
)
