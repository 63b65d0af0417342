package handler

import (
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/AguMoya889/Pago-en-Linea/internal/cqrs"
	"github.com/AguMoya889/Pago-en-Linea/internal/models"
	"github.com/gin-gonic/gin"
)

// ---- mock implementation ----

type mockTransactionQuerier struct {
	getFn  func(cqrs.GetTransactionQuery) (*models.TransactionView, error)
	listFn func(cqrs.ListTransactionsQuery) ([]models.TransactionView, error)
}

func (m *mockTransactionQuerier) GetTransaction(q cqrs.GetTransactionQuery) (*models.TransactionView, error) {
	if m.getFn != nil {
		return m.getFn(q)
	}
	return nil, fmt.Errorf("not configured")
}
func (m *mockTransactionQuerier) ListTransactions(q cqrs.ListTransactionsQuery) ([]models.TransactionView, error) {
	if m.listFn != nil {
		return m.listFn(q)
	}
	return nil, fmt.Errorf("not configured")
}

// ---- helper ----

func newTxTestRouter(qrys TransactionQuerier, authUserID string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(fakeAuth(authUserID))
	h := NewTransactionHandler(qrys)
	r.GET("/v1/transactions", h.ListTransactions)
	r.GET("/v1/transactions/:transactionId", h.GetTransaction)
	r.GET("/v1/transactions/:transactionId/receipt", h.GetReceipt)
	return r
}

var txTestView = &models.TransactionView{
	ID: "tan-001", FromAccountNumber: "01000001", ToAccountNumber: "01000002",
	Amount: 4000, Currency: "CLP", Type: "TRANSFER", Description: "rent",
	CreatedAt: time.Now(),
}

// ---- tests ----

func TestListTransactions(t *testing.T) {
	tests := []struct {
		name           string
		listFn         func(cqrs.ListTransactionsQuery) ([]models.TransactionView, error)
		expectedStatus int
	}{
		{
			name: "success - history returned",
			listFn: func(q cqrs.ListTransactionsQuery) ([]models.TransactionView, error) {
				return []models.TransactionView{*txTestView}, nil
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "success - empty history is an empty list, not null",
			listFn: func(q cqrs.ListTransactionsQuery) ([]models.TransactionView, error) {
				return nil, nil
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "not found - caller has no account",
			listFn: func(q cqrs.ListTransactionsQuery) ([]models.TransactionView, error) {
				return nil, models.ErrAccountNotFound
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name: "internal error - storage failure",
			listFn: func(q cqrs.ListTransactionsQuery) ([]models.TransactionView, error) {
				return nil, fmt.Errorf("boom")
			},
			expectedStatus: http.StatusInternalServerError,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTxTestRouter(&mockTransactionQuerier{listFn: tt.listFn}, "usr-001")
			w := doRequest(router, http.MethodGet, "/v1/transactions", nil)
			if w.Code != tt.expectedStatus {
				t.Errorf("[%s] expected %d got %d; body: %s", tt.name, tt.expectedStatus, w.Code, w.Body.String())
			}
		})
	}
}

func TestListTransactionsEmptyBody(t *testing.T) {
	router := newTxTestRouter(&mockTransactionQuerier{
		listFn: func(q cqrs.ListTransactionsQuery) ([]models.TransactionView, error) { return nil, nil },
	}, "usr-001")
	w := doRequest(router, http.MethodGet, "/v1/transactions", nil)
	if !strings.Contains(w.Body.String(), `"transactions":[]`) {
		t.Errorf("expected empty transactions array, got %s", w.Body.String())
	}
}

func TestGetTransaction(t *testing.T) {
	tests := []struct {
		name           string
		transactionID  string
		getFn          func(cqrs.GetTransactionQuery) (*models.TransactionView, error)
		expectedStatus int
	}{
		{
			name:          "success - own transaction returned",
			transactionID: "tan-001",
			getFn:         func(q cqrs.GetTransactionQuery) (*models.TransactionView, error) { return txTestView, nil },
			expectedStatus: http.StatusOK,
		},
		{
			name:          "not found - transaction does not exist",
			transactionID: "tan-999",
			getFn: func(q cqrs.GetTransactionQuery) (*models.TransactionView, error) {
				return nil, models.ErrTransactionNotFound
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name:          "not found - transaction belongs to someone else",
			transactionID: "tan-other",
			getFn: func(q cqrs.GetTransactionQuery) (*models.TransactionView, error) {
				return nil, models.ErrTransactionNotFound
			},
			expectedStatus: http.StatusNotFound,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTxTestRouter(&mockTransactionQuerier{getFn: tt.getFn}, "usr-001")
			w := doRequest(router, http.MethodGet, "/v1/transactions/"+tt.transactionID, nil)
			if w.Code != tt.expectedStatus {
				t.Errorf("[%s] expected %d got %d; body: %s", tt.name, tt.expectedStatus, w.Code, w.Body.String())
			}
		})
	}
}

func TestGetReceipt(t *testing.T) {
	router := newTxTestRouter(&mockTransactionQuerier{
		getFn: func(q cqrs.GetTransactionQuery) (*models.TransactionView, error) { return txTestView, nil },
	}, "usr-001")
	w := doRequest(router, http.MethodGet, "/v1/transactions/tan-001/receipt", nil)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d; body: %s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Errorf("expected application/pdf, got %q", ct)
	}
	if !strings.HasPrefix(w.Body.String(), "%PDF") {
		t.Errorf("response body is not a PDF document")
	}
}

func TestGetReceiptNotFound(t *testing.T) {
	router := newTxTestRouter(&mockTransactionQuerier{
		getFn: func(q cqrs.GetTransactionQuery) (*models.TransactionView, error) {
			return nil, models.ErrTransactionNotFound
		},
	}, "usr-001")
	w := doRequest(router, http.MethodGet, "/v1/transactions/tan-999/receipt", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404 got %d", w.Code)
	}
}
