package services

import (
	"github.com/lumina-tracker/lumina_backend/internal/core/domain"
	"github.com/lumina-tracker/lumina_backend/internal/dto"
)

// AnalyticsSvcFacade derives totals, category distribution and daily trend
// from the expense store, the category tree and the current filter. It is a
// pure recomputation with no side effects; it must never mutate upstream
// state.
type AnalyticsSvcFacade interface {
	// UpdateFilter merges the non-nil fields of the request into the
	// current filter and returns the new state.
	UpdateFilter(req dto.UpdateFilterRequest) domain.FilterState
	Filter() domain.FilterState
	Result() domain.AnalyticsResult
}
