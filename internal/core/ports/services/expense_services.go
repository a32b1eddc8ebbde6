package services

import (
	"context"

	"github.com/lumina-tracker/lumina_backend/internal/core/domain"
	"github.com/lumina-tracker/lumina_backend/internal/dto"
	"github.com/shopspring/decimal"
)

// ExpenseSvcFacade is the expense ledger store: an in-memory authoritative
// collection mutated optimistically against the tabular store, with a local
// snapshot fallback while no remote session is active.
type ExpenseSvcFacade interface {
	// Init performs the one-time Uninitialized -> Loading -> Ready
	// transition. Re-entrant calls are no-ops.
	Init(ctx context.Context) error
	// Reload refreshes the collection from the active backing store.
	Reload(ctx context.Context) error
	// HandleSessionChange reacts to auth edges: none->authenticated loads
	// from the tabular store, authenticated->none falls back to the local
	// snapshot.
	HandleSessionChange(ctx context.Context, user *domain.User)

	Expenses() []domain.Expense
	SubscribeExpenses(fn func([]domain.Expense)) func()

	AddExpense(ctx context.Context, req dto.CreateExpenseRequest) (*domain.Expense, error)
	UpdateExpense(ctx context.Context, req dto.UpdateExpenseRequest) (*domain.Expense, error)
	DeleteExpense(ctx context.Context, id int64) error
	// AppendImported assigns fresh ids to the given rows and appends them
	// as one optimistic batch with a single persistence call.
	AppendImported(ctx context.Context, rows []dto.ImportedExpense) ([]domain.Expense, error)

	DailyTotal() decimal.Decimal
	MonthlyTotal() decimal.Decimal
	CategoryTotals() map[string]decimal.Decimal
}
