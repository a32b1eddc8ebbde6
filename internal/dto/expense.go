package dto

import (
	"github.com/lumina-tracker/lumina_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateExpenseRequest defines the data needed to record a new expense.
type CreateExpenseRequest struct {
	Amount   decimal.Decimal `json:"amount"`
	Category string          `json:"category" binding:"required"`
	Note     string          `json:"note"`
	Date     string          `json:"date" binding:"required,isodate"`
	BankID   string          `json:"bankId"`
}

// UpdateExpenseRequest replaces an existing expense in full. ID is taken
// from the URL path, not the body.
type UpdateExpenseRequest struct {
	ID       int64           `json:"-"`
	Amount   decimal.Decimal `json:"amount"`
	Category string          `json:"category" binding:"required"`
	Note     string          `json:"note"`
	Date     string          `json:"date" binding:"required,isodate"`
	BankID   string          `json:"bankId"`
}

// ImportedExpense is one accepted row from a foreign spreadsheet, before an
// id has been assigned.
type ImportedExpense struct {
	Date     string
	Category string
	Amount   decimal.Decimal
	Note     string
}

// ExpenseTotalsResponse carries the convenience aggregates for the dashboard.
type ExpenseTotalsResponse struct {
	DailyTotal     decimal.Decimal            `json:"dailyTotal"`
	MonthlyTotal   decimal.Decimal            `json:"monthlyTotal"`
	CategoryTotals map[string]decimal.Decimal `json:"categoryTotals"`
}

// ToExpense converts a create request into a domain expense with the given id.
func (r CreateExpenseRequest) ToExpense(id int64) domain.Expense {
	return domain.Expense{
		ID:       id,
		Date:     r.Date,
		Category: r.Category,
		Amount:   r.Amount,
		Note:     r.Note,
		BankID:   r.BankID,
	}
}

// ToExpense converts an update request into the replacement domain expense.
func (r UpdateExpenseRequest) ToExpense() domain.Expense {
	return domain.Expense{
		ID:       r.ID,
		Date:     r.Date,
		Category: r.Category,
		Amount:   r.Amount,
		Note:     r.Note,
		BankID:   r.BankID,
	}
}
