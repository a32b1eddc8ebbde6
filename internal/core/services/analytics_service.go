package services

import (
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/lumina-tracker/lumina_backend/internal/core/domain"
	portssvc "github.com/lumina-tracker/lumina_backend/internal/core/ports/services"
	"github.com/lumina-tracker/lumina_backend/internal/core/signal"
	"github.com/lumina-tracker/lumina_backend/internal/dto"
)

// analyticsServiceImpl holds the ephemeral filter and derives results on
// demand from the expense and category stores. It owns no persisted state.
type analyticsServiceImpl struct {
	BaseService
	expenses   portssvc.ExpenseSvcFacade
	categories portssvc.CategorySvcFacade

	mu     sync.Mutex
	filter *signal.Signal[domain.FilterState]
}

// NewAnalyticsService creates the analytics engine. The filter starts at the
// current month and year.
func NewAnalyticsService(expenses portssvc.ExpenseSvcFacade, categories portssvc.CategorySvcFacade) portssvc.AnalyticsSvcFacade {
	return &analyticsServiceImpl{
		expenses:   expenses,
		categories: categories,
		filter:     signal.New(defaultFilter()),
	}
}

var _ portssvc.AnalyticsSvcFacade = (*analyticsServiceImpl)(nil)

func defaultFilter() domain.FilterState {
	now := time.Now()
	month := int(now.Month()) - 1
	year := now.Year()
	return domain.FilterState{Month: &month, Year: &year}
}

func (s *analyticsServiceImpl) UpdateFilter(req dto.UpdateFilterRequest) domain.FilterState {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := s.filter.Get()
	if req.Reset {
		state = defaultFilter()
	}
	if req.StartDate != nil {
		state.StartDate = req.StartDate
	}
	if req.EndDate != nil {
		state.EndDate = req.EndDate
	}
	if req.Month != nil {
		state.Month = req.Month
	}
	if req.Year != nil {
		state.Year = req.Year
	}
	if req.CategoryID != nil {
		state.CategoryID = req.CategoryID
	}
	if req.SpecificDate != nil {
		state.SpecificDate = req.SpecificDate
	}
	s.filter.Set(state)
	return state
}

func (s *analyticsServiceImpl) Filter() domain.FilterState {
	return s.filter.Get()
}

// Result recomputes the analytics view from scratch. Explicit range bounds
// win over a specific date, which wins over month/year; each bound applies
// independently, so a lone start or end date is still a range. The category
// filter matches the selected node and all of its descendants by name; an
// unknown id matches nothing.
func (s *analyticsServiceImpl) Result() domain.AnalyticsResult {
	filter := s.filter.Get()

	var names map[string]struct{}
	if filter.CategoryID != nil && *filter.CategoryID != "" {
		node := domain.FindCategoryNode(s.categories.Tree(), *filter.CategoryID)
		if node != nil {
			names = domain.DescendantNames(node)
		} else {
			names = map[string]struct{}{}
		}
	}

	result := domain.AnalyticsResult{
		Total:                decimal.Zero,
		FilteredExpenses:     []domain.Expense{},
		CategoryDistribution: map[string]decimal.Decimal{},
		DailyTrend:           map[string]decimal.Decimal{},
	}
	for _, e := range s.expenses.Expenses() {
		if !matchesDate(e, filter) {
			continue
		}
		if names != nil {
			if _, ok := names[e.Category]; !ok {
				continue
			}
		}
		result.FilteredExpenses = append(result.FilteredExpenses, e)
		result.Total = result.Total.Add(e.Amount)
		result.CategoryDistribution[e.Category] = result.CategoryDistribution[e.Category].Add(e.Amount)
		day := e.DateOnly()
		result.DailyTrend[day] = result.DailyTrend[day].Add(e.Amount)
	}
	return result
}

func matchesDate(e domain.Expense, filter domain.FilterState) bool {
	date := e.DateOnly()
	hasStart := filter.StartDate != nil && *filter.StartDate != ""
	hasEnd := filter.EndDate != nil && *filter.EndDate != ""
	switch {
	case hasStart || hasEnd:
		if hasStart && date < *filter.StartDate {
			return false
		}
		if hasEnd && date > *filter.EndDate {
			return false
		}
		return true
	case filter.SpecificDate != nil && *filter.SpecificDate != "":
		return date == *filter.SpecificDate
	case filter.Month != nil && filter.Year != nil:
		prefix := fmt.Sprintf("%04d-%02d", *filter.Year, *filter.Month+1)
		return len(date) >= 7 && date[:7] == prefix
	case filter.Year != nil:
		prefix := fmt.Sprintf("%04d", *filter.Year)
		return len(date) >= 4 && date[:4] == prefix
	default:
		return true
	}
}
