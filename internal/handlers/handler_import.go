package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/lumina-tracker/lumina_backend/internal/core/ports/services"
	"github.com/lumina-tracker/lumina_backend/internal/dto"
	"github.com/lumina-tracker/lumina_backend/internal/middleware"
)

// importHandler drives the spreadsheet import reconciler.
type importHandler struct {
	importService portssvc.ImportSvcFacade
}

func newImportHandler(is portssvc.ImportSvcFacade) *importHandler {
	return &importHandler{importService: is}
}

// registerImportRoutes registers routes related to the import reconciler.
func registerImportRoutes(rg *gin.RouterGroup, importService portssvc.ImportSvcFacade) {
	h := newImportHandler(importService)

	rg.POST("/import/expenses", h.importExpenses)
}

// importExpenses godoc
// @Summary Import expenses from foreign spreadsheets
// @Description Walks every tab of the named spreadsheets and merges rows not already present; re-running the same import is a no-op
// @Tags import
// @Accept json
// @Produce json
// @Param request body dto.ImportExpensesRequest true "Spreadsheet IDs"
// @Success 200 {object} dto.ImportResult
// @Failure 400 {object} map[string]string "Invalid input"
// @Security BearerAuth
// @Router /import/expenses [post]
func (h *importHandler) importExpenses(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.ImportExpensesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for ImportExpenses", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	result, err := h.importService.ImportExpenses(c.Request.Context(), req.SpreadsheetIDs, func(msg string) {
		logger.Info("Import progress", slog.String("message", msg))
	})
	if err != nil {
		logger.Error("Import run failed", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Import failed"})
		return
	}
	c.JSON(http.StatusOK, result)
}
