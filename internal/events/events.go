package events

import "time"

// Event types
const (
	UserRegistered    = "user.registered"
	TransferCompleted = "transfer.completed"
)

// Stream names
const (
	UserEventsStream     = "user.events"
	TransferEventsStream = "transfer.events"
)

type Event struct {
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
}

type UserRegisteredEvent struct {
	UserID        string `json:"userId"`
	Email         string `json:"email"`
	AccountNumber string `json:"accountNumber"`
}

// TransferCompletedEvent is published after a transfer has committed. Both
// balances already reflect the movement when consumers see this event.
type TransferCompletedEvent struct {
	TransactionID     string `json:"transactionId"`
	FromAccountNumber string `json:"fromAccountNumber"`
	ToAccountNumber   string `json:"toAccountNumber"`
	Amount            int64  `json:"amount"`
}
