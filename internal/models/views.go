package models

import "time"

// AccountView is the read-optimised "who am I" projection: the owning user
// joined with their account. UserID is kept for ownership checks but the
// password hash never reaches this model.
type AccountView struct {
	UserID        string    `json:"userId"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	AccountNumber string    `json:"accountNumber"`
	Balance       int64     `json:"balance"`
	Currency      string    `json:"currency"`
	CreatedAt     time.Time `json:"createdTimestamp"`
	UpdatedAt     time.Time `json:"updatedTimestamp"`
}

// TransactionView is the read-optimised projection of a ledger row. Both
// account numbers are carried so history can show the counterpart side.
type TransactionView struct {
	ID                string    `json:"id"`
	FromAccountNumber string    `json:"fromAccountNumber"`
	ToAccountNumber   string    `json:"toAccountNumber"`
	Amount            int64     `json:"amount"`
	Currency          string    `json:"currency"`
	Type              string    `json:"type"`
	Description       string    `json:"description,omitempty"`
	CreatedAt         time.Time `json:"createdTimestamp"`
}
