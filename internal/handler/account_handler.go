package handler

import (
	"errors"
	"net/http"

	"github.com/AguMoya889/Pago-en-Linea/internal/cqrs"
	"github.com/AguMoya889/Pago-en-Linea/internal/middleware"
	"github.com/AguMoya889/Pago-en-Linea/internal/models"
	"github.com/gin-gonic/gin"
)

// AccountQuerier defines the read-side operations used by AccountHandler.
type AccountQuerier interface {
	GetOwnAccount(cqrs.GetOwnAccountQuery) (*models.AccountView, error)
}

type AccountHandler struct {
	queries AccountQuerier
}

func NewAccountHandler(queries AccountQuerier) *AccountHandler {
	return &AccountHandler{queries: queries}
}

// GetOwnAccount serves the "who am I" view for the authenticated caller.
func (h *AccountHandler) GetOwnAccount(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		middleware.RespondWithError(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	view, err := h.queries.GetOwnAccount(cqrs.GetOwnAccountQuery{UserID: userID})
	if err != nil {
		if errors.Is(err, models.ErrAccountNotFound) {
			middleware.RespondWithError(c, http.StatusNotFound, "Account not found")
			return
		}
		middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to get account")
		return
	}

	c.JSON(http.StatusOK, view)
}
