package command

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/AguMoya889/Pago-en-Linea/internal/cqrs"
	"github.com/AguMoya889/Pago-en-Linea/internal/models"
)

// fakeBank is an in-memory stand-in for the account directory and the ledger.
// A single mutex gives ExecuteTransfer the same all-or-nothing, serialised
// semantics the SQL implementation gets from row locks.
type fakeBank struct {
	mu           sync.Mutex
	balances     map[string]int64
	byUser       map[string]string
	byEmail      map[string]string
	transactions []*models.Transaction
	cachedViews  int
	refreshes    int
	published    int
}

func newFakeBank() *fakeBank {
	return &fakeBank{
		balances: make(map[string]int64),
		byUser:   make(map[string]string),
		byEmail:  make(map[string]string),
	}
}

func (b *fakeBank) addAccount(userID, email, accountNumber string, balance int64) {
	b.balances[accountNumber] = balance
	b.byUser[userID] = accountNumber
	b.byEmail[email] = accountNumber
}

func (b *fakeBank) AccountNumberByUserID(ctx context.Context, userID string) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	accountNumber, ok := b.byUser[userID]
	if !ok {
		return "", models.ErrAccountNotFound
	}
	return accountNumber, nil
}

func (b *fakeBank) AccountNumberByEmail(ctx context.Context, email string) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	accountNumber, ok := b.byEmail[email]
	if !ok {
		return "", models.ErrAccountNotFound
	}
	return accountNumber, nil
}

func (b *fakeBank) RefreshView(ctx context.Context, accountNumber string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.refreshes++
}

func (b *fakeBank) ExecuteTransfer(ctx context.Context, from, to string, amount int64, description string) (*models.Transaction, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	fromBalance, ok := b.balances[from]
	if !ok {
		return nil, models.ErrSourceNotFound
	}
	if _, ok := b.balances[to]; !ok {
		return nil, models.ErrDestinationNotFound
	}
	if fromBalance < amount {
		return nil, models.ErrInsufficientFunds
	}

	b.balances[from] -= amount
	b.balances[to] += amount
	transaction := &models.Transaction{
		ID:                fmt.Sprintf("tan-%06d", len(b.transactions)+1),
		FromAccountNumber: from,
		ToAccountNumber:   to,
		Amount:            amount,
		Currency:          models.DefaultCurrency,
		Type:              models.TransactionTypeTransfer,
		Description:       description,
	}
	b.transactions = append(b.transactions, transaction)
	return transaction, nil
}

func (b *fakeBank) CacheTransactionView(ctx context.Context, view *models.TransactionView) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.cachedViews++
}

func (b *fakeBank) Publish(ctx context.Context, stream, eventType string, data any) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.published++
	return nil
}

func (b *fakeBank) total() int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	var sum int64
	for _, balance := range b.balances {
		sum += balance
	}
	return sum
}

func newTestService(bank *fakeBank) *TransferCommandService {
	return NewTransferCommandService(bank, bank, bank, bank)
}

func seededBank() *fakeBank {
	bank := newFakeBank()
	bank.addAccount("usr-001", "alicia@example.com", "01000001", 10000)
	bank.addAccount("usr-002", "benito@example.com", "01000002", 500)
	return bank
}

func TestTransferMovesFundsAndRecordsTransaction(t *testing.T) {
	bank := seededBank()
	svc := newTestService(bank)
	before := bank.total()

	transaction, err := svc.Transfer(cqrs.TransferCommand{
		FromUserID:      "usr-001",
		ToAccountNumber: "01000002",
		Amount:          4000,
		Description:     "rent",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if bank.balances["01000001"] != 6000 {
		t.Errorf("source balance = %d, want 6000", bank.balances["01000001"])
	}
	if bank.balances["01000002"] != 4500 {
		t.Errorf("destination balance = %d, want 4500", bank.balances["01000002"])
	}
	if bank.total() != before {
		t.Errorf("total balance changed: %d -> %d", before, bank.total())
	}
	if len(bank.transactions) != 1 {
		t.Fatalf("expected 1 transaction, got %d", len(bank.transactions))
	}
	if transaction.Amount != 4000 || transaction.Type != models.TransactionTypeTransfer {
		t.Errorf("unexpected transaction: %+v", transaction)
	}
	if bank.cachedViews != 1 || bank.published != 1 || bank.refreshes != 2 {
		t.Errorf("post-commit upkeep: cached=%d published=%d refreshes=%d",
			bank.cachedViews, bank.published, bank.refreshes)
	}
}

func TestTransferResolvesDestinationByEmail(t *testing.T) {
	bank := seededBank()
	svc := newTestService(bank)

	transaction, err := svc.Transfer(cqrs.TransferCommand{
		FromUserID: "usr-001",
		ToEmail:    "benito@example.com",
		Amount:     1000,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if transaction.ToAccountNumber != "01000002" {
		t.Errorf("destination = %s, want 01000002", transaction.ToAccountNumber)
	}
	if transaction.Description != "Transfer from 01000001 to 01000002" {
		t.Errorf("default description = %q", transaction.Description)
	}
}

func TestTransferInsufficientFundsLeavesBalancesUntouched(t *testing.T) {
	bank := seededBank()
	svc := newTestService(bank)

	_, err := svc.Transfer(cqrs.TransferCommand{
		FromUserID:      "usr-001",
		ToAccountNumber: "01000002",
		Amount:          10001,
	})
	if !errors.Is(err, models.ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}
	if bank.balances["01000001"] != 10000 || bank.balances["01000002"] != 500 {
		t.Errorf("balances changed on failed transfer: %v", bank.balances)
	}
	if len(bank.transactions) != 0 {
		t.Errorf("expected no transactions, got %d", len(bank.transactions))
	}
	if bank.published != 0 {
		t.Errorf("no event should be published on failure")
	}
}

func TestTransferRejectsNonPositiveAmounts(t *testing.T) {
	bank := seededBank()
	svc := newTestService(bank)

	for _, amount := range []int64{0, -1, -5000} {
		_, err := svc.Transfer(cqrs.TransferCommand{
			FromUserID:      "usr-001",
			ToAccountNumber: "01000002",
			Amount:          amount,
		})
		if !errors.Is(err, models.ErrInvalidAmount) {
			t.Errorf("amount %d: expected ErrInvalidAmount, got %v", amount, err)
		}
	}
	if len(bank.transactions) != 0 {
		t.Errorf("ledger touched by invalid amounts")
	}
}

func TestTransferToOwnAccountFails(t *testing.T) {
	bank := seededBank()
	svc := newTestService(bank)

	// Directly by number and via the caller's own email: both must fail the
	// same way regardless of balance.
	for _, cmd := range []cqrs.TransferCommand{
		{FromUserID: "usr-001", ToAccountNumber: "01000001", Amount: 100},
		{FromUserID: "usr-001", ToEmail: "alicia@example.com", Amount: 100},
	} {
		_, err := svc.Transfer(cmd)
		if !errors.Is(err, models.ErrSameAccount) {
			t.Errorf("expected ErrSameAccount, got %v", err)
		}
	}
}

func TestTransferUnknownAccounts(t *testing.T) {
	bank := seededBank()
	svc := newTestService(bank)

	_, err := svc.Transfer(cqrs.TransferCommand{
		FromUserID:      "usr-999",
		ToAccountNumber: "01000002",
		Amount:          100,
	})
	if !errors.Is(err, models.ErrSourceNotFound) {
		t.Errorf("expected ErrSourceNotFound, got %v", err)
	}

	_, err = svc.Transfer(cqrs.TransferCommand{
		FromUserID:      "usr-001",
		ToAccountNumber: "01999999",
		Amount:          100,
	})
	if !errors.Is(err, models.ErrDestinationNotFound) {
		t.Errorf("expected ErrDestinationNotFound, got %v", err)
	}

	_, err = svc.Transfer(cqrs.TransferCommand{
		FromUserID: "usr-001",
		ToEmail:    "nadie@example.com",
		Amount:     100,
	})
	if !errors.Is(err, models.ErrDestinationNotFound) {
		t.Errorf("expected ErrDestinationNotFound for unknown email, got %v", err)
	}
}

func TestTransferIsNotIdempotent(t *testing.T) {
	bank := seededBank()
	svc := newTestService(bank)

	cmd := cqrs.TransferCommand{FromUserID: "usr-001", ToAccountNumber: "01000002", Amount: 1000, Description: "retry"}
	for i := 0; i < 2; i++ {
		if _, err := svc.Transfer(cmd); err != nil {
			t.Fatalf("transfer %d failed: %v", i+1, err)
		}
	}
	if len(bank.transactions) != 2 {
		t.Errorf("expected 2 transactions for 2 identical requests, got %d", len(bank.transactions))
	}
	if bank.balances["01000001"] != 8000 {
		t.Errorf("source balance = %d, want 8000", bank.balances["01000001"])
	}
}

func TestConcurrentTransfersNeverOverdraw(t *testing.T) {
	bank := seededBank()
	svc := newTestService(bank)
	before := bank.total()

	const workers = 25
	const amount = 1000 // source holds 10000: at most 10 can succeed

	var wg sync.WaitGroup
	results := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Transfer(cqrs.TransferCommand{
				FromUserID:      "usr-001",
				ToAccountNumber: "01000002",
				Amount:          amount,
			})
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var succeeded, insufficient int
	for err := range results {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, models.ErrInsufficientFunds):
			insufficient++
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}

	if succeeded != 10 {
		t.Errorf("succeeded = %d, want exactly 10", succeeded)
	}
	if insufficient != workers-10 {
		t.Errorf("insufficient = %d, want %d", insufficient, workers-10)
	}
	if bank.balances["01000001"] != 0 {
		t.Errorf("source balance = %d, want 0", bank.balances["01000001"])
	}
	if bank.balances["01000001"] < 0 {
		t.Errorf("source balance went negative")
	}
	if bank.total() != before {
		t.Errorf("total balance changed: %d -> %d", before, bank.total())
	}
	if len(bank.transactions) != succeeded {
		t.Errorf("ledger rows = %d, want %d", len(bank.transactions), succeeded)
	}
}
