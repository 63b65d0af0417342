package cqrs

// ---------- Account queries ----------

// GetOwnAccountQuery fetches the user+account projection for the caller.
type GetOwnAccountQuery struct {
	UserID string
}

// ---------- Transaction queries ----------

// GetTransactionQuery fetches a single transaction, subject to ownership check.
type GetTransactionQuery struct {
	TransactionID string
	UserID        string
}

// ListTransactionsQuery fetches all transactions touching the caller's account.
type ListTransactionsQuery struct {
	UserID string
}
