package cqrs

type RegisterUserCommand struct {
	Name     string
	Email    string
	Password string
}

// TransferCommand moves money from the authenticated caller's account.
// Exactly one of ToAccountNumber / ToEmail is expected; the account number is
// the canonical identifier and ToEmail is resolved to one before execution.
type TransferCommand struct {
	FromUserID      string
	ToAccountNumber string
	ToEmail         string
	Amount          int64
	Description     string
}

type LoginCommand struct {
	Email    string
	Password string
}

type RefreshTokenCommand struct {
	Token string
}
