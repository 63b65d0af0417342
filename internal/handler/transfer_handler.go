package handler

import (
	"errors"
	"net/http"

	"github.com/AguMoya889/Pago-en-Linea/internal/cqrs"
	"github.com/AguMoya889/Pago-en-Linea/internal/middleware"
	"github.com/AguMoya889/Pago-en-Linea/internal/models"
	"github.com/gin-gonic/gin"
)

// TransferCommander defines the write-side operation used by TransferHandler.
type TransferCommander interface {
	Transfer(cqrs.TransferCommand) (*models.Transaction, error)
}

type TransferHandler struct {
	commands TransferCommander
}

// TransferRequest identifies the destination by account number or, as a
// convenience, by the counterpart's email. The source is always the
// authenticated caller's account.
type TransferRequest struct {
	ToAccountNumber string `json:"toAccountNumber" validate:"omitempty,len=8"`
	ToEmail         string `json:"toEmail" validate:"omitempty,email"`
	Amount          int64  `json:"amount" validate:"required,gt=0"`
	Description     string `json:"description" validate:"max=255"`
}

func NewTransferHandler(commands TransferCommander) *TransferHandler {
	return &TransferHandler{commands: commands}
}

func (h *TransferHandler) CreateTransfer(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		middleware.RespondWithError(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}
	if req.ToAccountNumber == "" && req.ToEmail == "" {
		middleware.RespondWithError(c, http.StatusBadRequest, "Destination account number or email required")
		return
	}

	transaction, err := h.commands.Transfer(cqrs.TransferCommand{
		FromUserID:      userID,
		ToAccountNumber: req.ToAccountNumber,
		ToEmail:         req.ToEmail,
		Amount:          req.Amount,
		Description:     req.Description,
	})
	if err != nil {
		switch {
		case errors.Is(err, models.ErrInvalidAmount), errors.Is(err, models.ErrSameAccount):
			middleware.RespondWithError(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, models.ErrSourceNotFound), errors.Is(err, models.ErrDestinationNotFound):
			middleware.RespondWithError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, models.ErrInsufficientFunds):
			middleware.RespondWithError(c, http.StatusConflict, "Insufficient funds")
		default:
			middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to complete transfer")
		}
		return
	}

	c.JSON(http.StatusCreated, transaction)
}
