package domain

import (
	"github.com/shopspring/decimal"
)

// FilterState is the analytics engine's current filter. Dates are ISO
// YYYY-MM-DD strings; Month is 0-11 to match the stored filter of the
// original data. Nil pointers mean "not set". The state is ephemeral and
// never persisted.
type FilterState struct {
	StartDate    *string `json:"startDate"`
	EndDate      *string `json:"endDate"`
	Month        *int    `json:"month"`
	Year         *int    `json:"year"`
	CategoryID   *string `json:"categoryId"`
	SpecificDate *string `json:"specificDate"`
}

// AnalyticsResult is the derived view over the filtered expense set. The
// ordering of FilteredExpenses is unspecified; ordering is a presentation
// concern.
type AnalyticsResult struct {
	Total                decimal.Decimal            `json:"total"`
	FilteredExpenses     []Expense                  `json:"filteredExpenses"`
	CategoryDistribution map[string]decimal.Decimal `json:"categoryDistribution"`
	DailyTrend           map[string]decimal.Decimal `json:"dailyTrend"`
}
