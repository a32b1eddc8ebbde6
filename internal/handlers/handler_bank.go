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

// bankHandler handles HTTP requests for banks, bank transactions and the
// derived balance/statement views.
type bankHandler struct {
	bankService portssvc.BankSvcFacade
}

func newBankHandler(bs portssvc.BankSvcFacade) *bankHandler {
	return &bankHandler{bankService: bs}
}

// registerBankRoutes registers routes related to banks.
func registerBankRoutes(rg *gin.RouterGroup, bankService portssvc.BankSvcFacade) {
	h := newBankHandler(bankService)

	banks := rg.Group("/banks")
	{
		banks.GET("", h.listBanks)
		banks.POST("", h.createBank)
		banks.PUT("/:id", h.updateBank)
		banks.POST("/:id/close", h.closeBank)
		banks.GET("/:id/balance", h.getBalance)
		banks.GET("/:id/statement", h.getStatement)
	}

	transactions := rg.Group("/bank-transactions")
	{
		transactions.GET("", h.listTransactions)
		transactions.POST("", h.createTransaction)
		transactions.PUT("/:id", h.updateTransaction)
		transactions.DELETE("/:id", h.deleteTransaction)
	}
}

// listBanks godoc
// @Summary List bank accounts
// @Tags banks
// @Produce json
// @Success 200 {array} domain.Bank
// @Security BearerAuth
// @Router /banks [get]
func (h *bankHandler) listBanks(c *gin.Context) {
	c.JSON(http.StatusOK, h.bankService.Banks())
}

// createBank godoc
// @Summary Register a bank account
// @Tags banks
// @Accept json
// @Produce json
// @Param bank body dto.CreateBankRequest true "Bank details"
// @Success 201 {object} domain.Bank
// @Failure 400 {object} map[string]string "Invalid input"
// @Security BearerAuth
// @Router /banks [post]
func (h *bankHandler) createBank(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateBankRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateBank", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	bank, err := h.bankService.AddBank(c.Request.Context(), req)
	if err != nil {
		respondBankError(c, logger, err, "Failed to create bank")
		return
	}
	c.JSON(http.StatusCreated, bank)
}

// updateBank godoc
// @Summary Update a bank account
// @Description Opening balance changes are rejected once the bank has transactions
// @Tags banks
// @Accept json
// @Produce json
// @Param id path string true "Bank ID"
// @Param bank body dto.UpdateBankRequest true "Replacement details"
// @Success 200 {object} domain.Bank
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 404 {object} map[string]string "Bank not found"
// @Security BearerAuth
// @Router /banks/{id} [put]
func (h *bankHandler) updateBank(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.UpdateBankRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateBank", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	req.ID = c.Param("id")

	bank, err := h.bankService.UpdateBank(c.Request.Context(), req)
	if err != nil {
		respondBankError(c, logger, err, "Failed to update bank")
		return
	}
	c.JSON(http.StatusOK, bank)
}

// closeBank godoc
// @Summary Close a bank account
// @Description The bank stays visible for reporting but rejects new transactions
// @Tags banks
// @Produce json
// @Param id path string true "Bank ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]string "Bank not found"
// @Security BearerAuth
// @Router /banks/{id}/close [post]
func (h *bankHandler) closeBank(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	if err := h.bankService.CloseBank(c.Request.Context(), c.Param("id")); err != nil {
		respondBankError(c, logger, err, "Failed to close bank")
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "closed"})
}

// getBalance godoc
// @Summary Get current balance
// @Description openingBalance + credits - debits, recomputed from scratch
// @Tags banks
// @Produce json
// @Param id path string true "Bank ID"
// @Success 200 {object} dto.BalanceResponse
// @Security BearerAuth
// @Router /banks/{id}/balance [get]
func (h *bankHandler) getBalance(c *gin.Context) {
	id := c.Param("id")
	c.JSON(http.StatusOK, dto.BalanceResponse{
		BankID:  id,
		Balance: h.bankService.CurrentBalance(id),
	})
}

// getStatement godoc
// @Summary Get a dated statement
// @Description Running-balance view between startDate and endDate inclusive; type and details filters are optional
// @Tags banks
// @Produce json
// @Param id path string true "Bank ID"
// @Param startDate query string true "ISO start date"
// @Param endDate query string true "ISO end date"
// @Param type query string false "DEBIT or CREDIT"
// @Param details query string false "Case-insensitive substring"
// @Success 200 {object} dto.StatementResponse
// @Security BearerAuth
// @Router /banks/{id}/statement [get]
func (h *bankHandler) getStatement(c *gin.Context) {
	statement := h.bankService.Statement(
		c.Param("id"),
		c.Query("startDate"),
		c.Query("endDate"),
		c.Query("type"),
		c.Query("details"),
	)
	c.JSON(http.StatusOK, dto.ToStatementResponse(statement))
}

// listTransactions godoc
// @Summary List bank transactions
// @Tags banks
// @Produce json
// @Success 200 {array} domain.BankTransaction
// @Security BearerAuth
// @Router /bank-transactions [get]
func (h *bankHandler) listTransactions(c *gin.Context) {
	c.JSON(http.StatusOK, h.bankService.Transactions())
}

// createTransaction godoc
// @Summary Record a debit or credit
// @Tags banks
// @Accept json
// @Produce json
// @Param transaction body dto.CreateBankTransactionRequest true "Transaction details"
// @Success 201 {object} domain.BankTransaction
// @Failure 400 {object} map[string]string "Invalid input or closed bank"
// @Security BearerAuth
// @Router /bank-transactions [post]
func (h *bankHandler) createTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateBankTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateBankTransaction", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	txn, err := h.bankService.AddTransaction(c.Request.Context(), req)
	if err != nil {
		respondBankError(c, logger, err, "Failed to create bank transaction")
		return
	}
	c.JSON(http.StatusCreated, txn)
}

// updateTransaction godoc
// @Summary Update a bank transaction
// @Tags banks
// @Accept json
// @Produce json
// @Param id path string true "Transaction ID"
// @Param transaction body dto.UpdateBankTransactionRequest true "Replacement transaction"
// @Success 200 {object} domain.BankTransaction
// @Failure 404 {object} map[string]string "Transaction not found"
// @Security BearerAuth
// @Router /bank-transactions/{id} [put]
func (h *bankHandler) updateTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.UpdateBankTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateBankTransaction", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	req.ID = c.Param("id")

	txn, err := h.bankService.UpdateTransaction(c.Request.Context(), req)
	if err != nil {
		respondBankError(c, logger, err, "Failed to update bank transaction")
		return
	}
	c.JSON(http.StatusOK, txn)
}

// deleteTransaction godoc
// @Summary Delete a bank transaction
// @Tags banks
// @Produce json
// @Param id path string true "Transaction ID"
// @Success 204 "Deleted"
// @Failure 404 {object} map[string]string "Transaction not found"
// @Security BearerAuth
// @Router /bank-transactions/{id} [delete]
func (h *bankHandler) deleteTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	if err := h.bankService.DeleteTransaction(c.Request.Context(), c.Param("id")); err != nil {
		respondBankError(c, logger, err, "Failed to delete bank transaction")
		return
	}
	c.Status(http.StatusNoContent)
}

func respondBankError(c *gin.Context, logger *slog.Logger, err error, msg string) {
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		logger.Warn(msg, slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrNotFound):
		logger.Warn(msg, slog.String("error", err.Error()))
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	case errors.Is(err, apperrors.ErrPersistence):
		logger.Error(msg, slog.String("error", err.Error()))
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to persist change, reverted"})
	default:
		logger.Error(msg, slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": msg})
	}
}
