package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/lumina-tracker/lumina_backend/internal/core/ports/services"
	"github.com/lumina-tracker/lumina_backend/internal/dto"
	"github.com/lumina-tracker/lumina_backend/internal/middleware"
)

// analyticsHandler exposes the filter state and the derived analytics view.
type analyticsHandler struct {
	analyticsService portssvc.AnalyticsSvcFacade
}

func newAnalyticsHandler(as portssvc.AnalyticsSvcFacade) *analyticsHandler {
	return &analyticsHandler{analyticsService: as}
}

// registerAnalyticsRoutes registers routes related to analytics.
func registerAnalyticsRoutes(rg *gin.RouterGroup, analyticsService portssvc.AnalyticsSvcFacade) {
	h := newAnalyticsHandler(analyticsService)

	analytics := rg.Group("/analytics")
	{
		analytics.GET("/filter", h.getFilter)
		analytics.PUT("/filter", h.updateFilter)
		analytics.GET("/result", h.getResult)
	}
}

// getFilter godoc
// @Summary Get the current analytics filter
// @Tags analytics
// @Produce json
// @Success 200 {object} domain.FilterState
// @Security BearerAuth
// @Router /analytics/filter [get]
func (h *analyticsHandler) getFilter(c *gin.Context) {
	c.JSON(http.StatusOK, h.analyticsService.Filter())
}

// updateFilter godoc
// @Summary Update the analytics filter
// @Description Merges non-null fields into the current filter; reset clears everything first
// @Tags analytics
// @Accept json
// @Produce json
// @Param filter body dto.UpdateFilterRequest true "Filter changes"
// @Success 200 {object} domain.FilterState
// @Failure 400 {object} map[string]string "Invalid input"
// @Security BearerAuth
// @Router /analytics/filter [put]
func (h *analyticsHandler) updateFilter(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.UpdateFilterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateFilter", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, h.analyticsService.UpdateFilter(req))
}

// getResult godoc
// @Summary Get the derived analytics view
// @Description Total, filtered expenses, per-category distribution and daily trend under the current filter
// @Tags analytics
// @Produce json
// @Success 200 {object} domain.AnalyticsResult
// @Security BearerAuth
// @Router /analytics/result [get]
func (h *analyticsHandler) getResult(c *gin.Context) {
	c.JSON(http.StatusOK, h.analyticsService.Result())
}
