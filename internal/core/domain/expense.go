package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Expense is a single spending entry. Category is the denormalized category
// name, not an id: the rename cascade and the filter-by-name-closure logic
// both depend on this.
type Expense struct {
	ID       int64           `json:"id"`
	Date     string          `json:"date"` // ISO date, optionally with a time suffix
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
	Note     string          `json:"note"`
	BankID   string          `json:"bankId,omitempty"`
}

// DateOnly returns the YYYY-MM-DD portion of the expense date.
func (e Expense) DateOnly() string {
	return DateOnlyString(e.Date)
}

// DateOnlyString trims an optional time suffix off an ISO date string.
func DateOnlyString(date string) string {
	if i := strings.IndexByte(date, 'T'); i >= 0 {
		return date[:i]
	}
	return date
}

// User is the authenticated spreadsheet owner as reported by the OAuth
// userinfo endpoint.
type User struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}
