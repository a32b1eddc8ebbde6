package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lumina-tracker/lumina_backend/internal/apperrors"
	portssvc "github.com/lumina-tracker/lumina_backend/internal/core/ports/services"
	"github.com/lumina-tracker/lumina_backend/internal/dto"
	"github.com/lumina-tracker/lumina_backend/internal/middleware"
)

// loanHandler handles HTTP requests for peer loans.
type loanHandler struct {
	loanService portssvc.LoanSvcFacade
}

func newLoanHandler(ls portssvc.LoanSvcFacade) *loanHandler {
	return &loanHandler{loanService: ls}
}

// registerLoanRoutes registers routes related to peer loans.
func registerLoanRoutes(rg *gin.RouterGroup, loanService portssvc.LoanSvcFacade) {
	h := newLoanHandler(loanService)

	loans := rg.Group("/loans")
	{
		loans.GET("", h.listTransactions)
		loans.POST("", h.createTransaction)
		loans.PUT("/:id", h.updateTransaction)
		loans.DELETE("/:id", h.deleteTransaction)
		loans.GET("/receivables", h.listReceivables)
		loans.GET("/payables", h.listPayables)
	}
}

// listTransactions godoc
// @Summary List loan transactions
// @Tags loans
// @Produce json
// @Success 200 {array} domain.LoanTransaction
// @Security BearerAuth
// @Router /loans [get]
func (h *loanHandler) listTransactions(c *gin.Context) {
	c.JSON(http.StatusOK, h.loanService.Transactions())
}

// createTransaction godoc
// @Summary Record a loan transaction
// @Tags loans
// @Accept json
// @Produce json
// @Param transaction body dto.CreateLoanTransactionRequest true "Transaction details"
// @Success 201 {object} domain.LoanTransaction
// @Failure 400 {object} map[string]string "Invalid input"
// @Security BearerAuth
// @Router /loans [post]
func (h *loanHandler) createTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateLoanTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateLoanTransaction", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	txn, err := h.loanService.AddTransaction(c.Request.Context(), req)
	if err != nil {
		respondLoanError(c, logger, err, "Failed to create loan transaction")
		return
	}
	c.JSON(http.StatusCreated, txn)
}

// updateTransaction godoc
// @Summary Update a loan transaction
// @Tags loans
// @Accept json
// @Produce json
// @Param id path string true "Transaction ID"
// @Param transaction body dto.UpdateLoanTransactionRequest true "Replacement transaction"
// @Success 200 {object} domain.LoanTransaction
// @Failure 404 {object} map[string]string "Transaction not found"
// @Security BearerAuth
// @Router /loans/{id} [put]
func (h *loanHandler) updateTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.UpdateLoanTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateLoanTransaction", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	req.ID = c.Param("id")

	txn, err := h.loanService.UpdateTransaction(c.Request.Context(), req)
	if err != nil {
		respondLoanError(c, logger, err, "Failed to update loan transaction")
		return
	}
	c.JSON(http.StatusOK, txn)
}

// deleteTransaction godoc
// @Summary Delete a loan transaction
// @Tags loans
// @Produce json
// @Param id path string true "Transaction ID"
// @Success 204 "Deleted"
// @Failure 404 {object} map[string]string "Transaction not found"
// @Security BearerAuth
// @Router /loans/{id} [delete]
func (h *loanHandler) deleteTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	if err := h.loanService.DeleteTransaction(c.Request.Context(), c.Param("id")); err != nil {
		respondLoanError(c, logger, err, "Failed to delete loan transaction")
		return
	}
	c.Status(http.StatusNoContent)
}

// listReceivables godoc
// @Summary List receivables
// @Description Counterparties who owe the user, netted per name, sorted descending by balance
// @Tags loans
// @Produce json
// @Success 200 {array} domain.LoanSummary
// @Security BearerAuth
// @Router /loans/receivables [get]
func (h *loanHandler) listReceivables(c *gin.Context) {
	c.JSON(http.StatusOK, h.loanService.Receivables())
}

// listPayables godoc
// @Summary List payables
// @Description Counterparties the user owes, netted per name, sorted descending by balance
// @Tags loans
// @Produce json
// @Success 200 {array} domain.LoanSummary
// @Security BearerAuth
// @Router /loans/payables [get]
func (h *loanHandler) listPayables(c *gin.Context) {
	c.JSON(http.StatusOK, h.loanService.Payables())
}

func respondLoanError(c *gin.Context, logger *slog.Logger, err error, msg string) {
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		logger.Warn(msg, slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrNotFound):
		logger.Warn(msg, slog.String("error", err.Error()))
		c.JSON(http.StatusNotFound, gin.H{"error": "Loan transaction not found"})
	case errors.Is(err, apperrors.ErrPersistence):
		logger.Error(msg, slog.String("error", err.Error()))
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to persist change, reverted"})
	default:
		logger.Error(msg, slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": msg})
	}
}
