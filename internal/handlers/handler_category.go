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

// categoryHandler handles HTTP requests related to the category taxonomy.
type categoryHandler struct {
	categoryService portssvc.CategorySvcFacade
}

func newCategoryHandler(cs portssvc.CategorySvcFacade) *categoryHandler {
	return &categoryHandler{categoryService: cs}
}

// registerCategoryRoutes registers routes related to categories.
func registerCategoryRoutes(rg *gin.RouterGroup, categoryService portssvc.CategorySvcFacade) {
	h := newCategoryHandler(categoryService)

	categories := rg.Group("/categories")
	{
		categories.GET("", h.getTree)
		categories.GET("/records", h.listRecords)
		categories.POST("", h.createCategory)
		categories.PUT("/:id", h.updateCategory)
		categories.DELETE("/:id", h.deleteCategory)
		categories.POST("/import", h.importFromExpenses)
	}
}

// getTree godoc
// @Summary Get the category tree
// @Description Returns the category forest rebuilt from the flat record list
// @Tags categories
// @Produce json
// @Success 200 {array} domain.CategoryNode
// @Security BearerAuth
// @Router /categories [get]
func (h *categoryHandler) getTree(c *gin.Context) {
	c.JSON(http.StatusOK, h.categoryService.Tree())
}

// listRecords godoc
// @Summary List flat category records
// @Tags categories
// @Produce json
// @Success 200 {array} domain.CategoryRecord
// @Security BearerAuth
// @Router /categories/records [get]
func (h *categoryHandler) listRecords(c *gin.Context) {
	c.JSON(http.StatusOK, h.categoryService.Records())
}

// createCategory godoc
// @Summary Create a category
// @Description Creates a category; a duplicate name under the same parent is a silent no-op
// @Tags categories
// @Accept json
// @Produce json
// @Param category body dto.CreateCategoryRequest true "Category details"
// @Success 201 {array} domain.CategoryNode
// @Failure 400 {object} map[string]string "Invalid input"
// @Security BearerAuth
// @Router /categories [post]
func (h *categoryHandler) createCategory(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateCategory", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	if err := h.categoryService.AddCategory(c.Request.Context(), req); err != nil {
		logger.Error("Failed to create category", slog.String("error", err.Error()))
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to persist category"})
		return
	}
	c.JSON(http.StatusCreated, h.categoryService.Tree())
}

// updateCategory godoc
// @Summary Rename a category
// @Description Renames the category and cascades the new name to referencing expenses
// @Tags categories
// @Accept json
// @Produce json
// @Param id path string true "Category ID"
// @Param category body dto.UpdateCategoryRequest true "New name"
// @Success 200 {object} map[string]int "Count of cascaded expense updates"
// @Failure 404 {object} map[string]string "Category not found"
// @Security BearerAuth
// @Router /categories/{id} [put]
func (h *categoryHandler) updateCategory(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateCategory", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	cascaded, err := h.categoryService.UpdateCategory(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
			return
		}
		logger.Error("Failed to rename category", slog.String("error", err.Error()))
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to persist rename"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"cascaded": cascaded})
}

// deleteCategory godoc
// @Summary Delete a category
// @Description Refused (with a reason, not an error) while the category is referenced by expenses or has children
// @Tags categories
// @Produce json
// @Param id path string true "Category ID"
// @Success 200 {object} dto.DeleteCategoryResponse
// @Security BearerAuth
// @Router /categories/{id} [delete]
func (h *categoryHandler) deleteCategory(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	resp, err := h.categoryService.DeleteCategory(c.Request.Context(), c.Param("id"))
	if err != nil {
		logger.Error("Failed to delete category", slog.String("error", err.Error()))
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to persist delete"})
		return
	}
	c.JSON(http.StatusOK, resp)
}

// importFromExpenses godoc
// @Summary Import categories from expenses
// @Description Creates a root category for every distinct expense category string not yet known
// @Tags categories
// @Produce json
// @Success 200 {object} dto.ImportCategoriesResponse
// @Security BearerAuth
// @Router /categories/import [post]
func (h *categoryHandler) importFromExpenses(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	created, err := h.categoryService.ImportFromExpenses(c.Request.Context())
	if err != nil {
		logger.Error("Failed to import categories", slog.String("error", err.Error()))
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to persist imported categories"})
		return
	}
	c.JSON(http.StatusOK, dto.ImportCategoriesResponse{Created: created})
}
