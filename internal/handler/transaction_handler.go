package handler

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/AguMoya889/Pago-en-Linea/internal/cqrs"
	"github.com/AguMoya889/Pago-en-Linea/internal/middleware"
	"github.com/AguMoya889/Pago-en-Linea/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/phpdave11/gofpdf"
)

// TransactionQuerier defines the read-side operations used by TransactionHandler.
type TransactionQuerier interface {
	GetTransaction(cqrs.GetTransactionQuery) (*models.TransactionView, error)
	ListTransactions(cqrs.ListTransactionsQuery) ([]models.TransactionView, error)
}

type TransactionHandler struct {
	queries TransactionQuerier
}

type ListTransactionsResponse struct {
	Transactions []models.TransactionView `json:"transactions"`
}

func NewTransactionHandler(queries TransactionQuerier) *TransactionHandler {
	return &TransactionHandler{queries: queries}
}

func (h *TransactionHandler) ListTransactions(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	views, err := h.queries.ListTransactions(cqrs.ListTransactionsQuery{UserID: userID})
	if err != nil {
		if errors.Is(err, models.ErrAccountNotFound) {
			middleware.RespondWithError(c, http.StatusNotFound, "Account not found")
			return
		}
		middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to list transactions")
		return
	}
	if views == nil {
		views = []models.TransactionView{}
	}

	c.JSON(http.StatusOK, ListTransactionsResponse{Transactions: views})
}

func (h *TransactionHandler) GetTransaction(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	transactionID := c.Param("transactionId")

	view, err := h.queries.GetTransaction(cqrs.GetTransactionQuery{
		TransactionID: transactionID,
		UserID:        userID,
	})
	if err != nil {
		respondTransactionError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

// GetReceipt renders a transaction as a PDF voucher.
func (h *TransactionHandler) GetReceipt(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	transactionID := c.Param("transactionId")

	view, err := h.queries.GetTransaction(cqrs.GetTransactionQuery{
		TransactionID: transactionID,
		UserID:        userID,
	})
	if err != nil {
		respondTransactionError(c, err)
		return
	}

	pdf, err := renderReceiptPDF(view)
	if err != nil {
		middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to render receipt")
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=receipt-%s.pdf", view.ID))
	c.Data(http.StatusOK, "application/pdf", pdf)
}

func respondTransactionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, models.ErrTransactionNotFound):
		middleware.RespondWithError(c, http.StatusNotFound, "Transaction not found")
	case errors.Is(err, models.ErrAccountNotFound):
		middleware.RespondWithError(c, http.StatusNotFound, "Account not found")
	default:
		middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to get transaction")
	}
}

func renderReceiptPDF(view *models.TransactionView) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 12, "Pago en Linea - Transfer Receipt")
	pdf.Ln(16)

	pdf.SetFont("Helvetica", "", 11)
	rows := [][2]string{
		{"Transaction", view.ID},
		{"Date", view.CreatedAt.Format(time.RFC1123)},
		{"From account", view.FromAccountNumber},
		{"To account", view.ToAccountNumber},
		{"Amount", fmt.Sprintf("%d %s", view.Amount, view.Currency)},
		{"Type", view.Type},
		{"Description", view.Description},
	}
	for _, row := range rows {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(40, 8, row[0], "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 11)
		pdf.MultiCell(0, 8, row[1], "", "L", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
