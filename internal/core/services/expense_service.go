package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/lumina-tracker/lumina_backend/internal/apperrors"
	"github.com/lumina-tracker/lumina_backend/internal/core/domain"
	portsrepo "github.com/lumina-tracker/lumina_backend/internal/core/ports/repositories"
	portssvc "github.com/lumina-tracker/lumina_backend/internal/core/ports/services"
	"github.com/lumina-tracker/lumina_backend/internal/core/signal"
	"github.com/lumina-tracker/lumina_backend/internal/dto"
	"github.com/lumina-tracker/lumina_backend/internal/utils/mapping"
	"github.com/shopspring/decimal"
)

// expenseServiceImpl is the expense ledger store. The in-memory collection is
// authoritative; mutations are applied optimistically and rolled back when
// the tabular store rejects the write. While no remote session is active,
// every mutation instead overwrites the local snapshot wholesale.
type expenseServiceImpl struct {
	BaseService
	tabular  portsrepo.TabularStore
	snapshot portsrepo.SnapshotStore

	// mu serializes mutations; reads go through the signal.
	mu            sync.Mutex
	expenses      *signal.Signal[[]domain.Expense]
	expensesTable string
	initialized   bool
	authenticated bool
}

// NewExpenseService creates the expense ledger store.
func NewExpenseService(tabular portsrepo.TabularStore, snapshot portsrepo.SnapshotStore) portssvc.ExpenseSvcFacade {
	return &expenseServiceImpl{
		tabular:       tabular,
		snapshot:      snapshot,
		expenses:      signal.New([]domain.Expense{}),
		expensesTable: mapping.DefaultExpensesTable,
	}
}

var _ portssvc.ExpenseSvcFacade = (*expenseServiceImpl)(nil)

func (s *expenseServiceImpl) Init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.initialized {
		return nil
	}
	s.initialized = true
	if s.authenticated {
		return s.loadFromTabular(ctx)
	}
	return s.loadFromSnapshot(ctx)
}

func (s *expenseServiceImpl) Reload(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.authenticated {
		return s.loadFromTabular(ctx)
	}
	return s.loadFromSnapshot(ctx)
}

func (s *expenseServiceImpl) HandleSessionChange(ctx context.Context, user *domain.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.authenticated = user != nil
	s.initialized = true
	if s.authenticated {
		if err := s.loadFromTabular(ctx); err != nil {
			s.LogError(ctx, err, "Failed to load expenses from tabular store")
		}
		return
	}
	if err := s.loadFromSnapshot(ctx); err != nil {
		s.LogError(ctx, err, "Failed to load expenses from local snapshot")
	}
}

func (s *expenseServiceImpl) Expenses() []domain.Expense {
	return s.expenses.Get()
}

func (s *expenseServiceImpl) SubscribeExpenses(fn func([]domain.Expense)) func() {
	return s.expenses.Subscribe(fn)
}

// loadFromSnapshot reads the single local fallback key. A missing snapshot
// yields an empty collection, not an error.
func (s *expenseServiceImpl) loadFromSnapshot(ctx context.Context) error {
	if s.snapshot == nil {
		s.expenses.Set([]domain.Expense{})
		return nil
	}
	expenses, ok, err := s.snapshot.LoadExpenses(ctx)
	if err != nil {
		return fmt.Errorf("load local snapshot: %w", err)
	}
	if !ok {
		expenses = []domain.Expense{}
	}
	s.expenses.Set(expenses)
	return nil
}

// loadFromTabular discovers the expenses tab, reads every row and publishes
// the collection sorted by date descending. Unparseable rows are skipped and
// logged, never fatal.
func (s *expenseServiceImpl) loadFromTabular(ctx context.Context) error {
	tables, err := s.tabular.ListTables(ctx)
	if err != nil {
		return fmt.Errorf("list tables: %w", err)
	}
	for _, name := range tables {
		if !mapping.ReservedTable(name) {
			s.expensesTable = name
			break
		}
	}

	rows, err := s.tabular.ListRows(ctx, s.expensesTable)
	if err != nil {
		return fmt.Errorf("list expenses: %w", err)
	}

	start := 0
	if len(rows) > 0 && len(rows[0]) > 0 && rows[0][0] == "ID" {
		start = 1
	}
	expenses := make([]domain.Expense, 0, len(rows))
	for _, row := range rows[start:] {
		expense, err := mapping.ExpenseFromRow(row)
		if err != nil {
			s.LogWarn(ctx, "Skipping malformed expense row", slog.String("error", err.Error()))
			continue
		}
		expenses = append(expenses, expense)
	}

	sort.SliceStable(expenses, func(i, j int) bool {
		return expenses[i].DateOnly() > expenses[j].DateOnly()
	})
	s.expenses.Set(expenses)
	return nil
}

// nextExpenseID is max-over-collection + 1 rather than a wall-clock id: the
// local fallback mode has no remote sequence to defer to, and time-derived
// ids can collide under rapid creates.
func nextExpenseID(expenses []domain.Expense) int64 {
	var max int64
	for _, e := range expenses {
		if e.ID > max {
			max = e.ID
		}
	}
	return max + 1
}

func (s *expenseServiceImpl) AddExpense(ctx context.Context, req dto.CreateExpenseRequest) (*domain.Expense, error) {
	if req.Amount.IsNegative() {
		return nil, fmt.Errorf("amount must not be negative: %w", apperrors.ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current := s.expenses.Get()
	expense := req.ToExpense(nextExpenseID(current))

	updated := make([]domain.Expense, 0, len(current)+1)
	updated = append(updated, expense)
	updated = append(updated, current...)
	s.expenses.Set(updated)

	if err := s.persistAppend(ctx, []domain.Expense{expense}, updated); err != nil {
		s.expenses.Set(current)
		s.LogError(ctx, err, "Failed to persist expense, reverting", slog.Int64("expense_id", expense.ID))
		return nil, fmt.Errorf("%w: add expense: %v", apperrors.ErrPersistence, err)
	}
	return &expense, nil
}

func (s *expenseServiceImpl) UpdateExpense(ctx context.Context, req dto.UpdateExpenseRequest) (*domain.Expense, error) {
	if req.Amount.IsNegative() {
		return nil, fmt.Errorf("amount must not be negative: %w", apperrors.ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current := s.expenses.Get()
	index := -1
	for i, e := range current {
		if e.ID == req.ID {
			index = i
			break
		}
	}
	if index == -1 {
		return nil, fmt.Errorf("expense %d: %w", req.ID, apperrors.ErrNotFound)
	}

	expense := req.ToExpense()
	updated := make([]domain.Expense, len(current))
	copy(updated, current)
	updated[index] = expense
	s.expenses.Set(updated)

	if err := s.persistUpdate(ctx, expense, updated); err != nil {
		s.expenses.Set(current)
		s.LogError(ctx, err, "Failed to update expense, reverting", slog.Int64("expense_id", expense.ID))
		return nil, fmt.Errorf("%w: update expense: %v", apperrors.ErrPersistence, err)
	}
	return &expense, nil
}

func (s *expenseServiceImpl) DeleteExpense(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current := s.expenses.Get()
	found := false
	updated := make([]domain.Expense, 0, len(current))
	for _, e := range current {
		if e.ID == id {
			found = true
			continue
		}
		updated = append(updated, e)
	}
	if !found {
		return fmt.Errorf("expense %d: %w", id, apperrors.ErrNotFound)
	}
	s.expenses.Set(updated)

	if err := s.persistDelete(ctx, id, updated); err != nil {
		s.expenses.Set(current)
		s.LogError(ctx, err, "Failed to delete expense, reverting", slog.Int64("expense_id", id))
		return fmt.Errorf("%w: delete expense: %v", apperrors.ErrPersistence, err)
	}
	return nil
}

func (s *expenseServiceImpl) AppendImported(ctx context.Context, rows []dto.ImportedExpense) ([]domain.Expense, error) {
	if len(rows) == 0 {
		return nil, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current := s.expenses.Get()
	id := nextExpenseID(current)
	appended := make([]domain.Expense, 0, len(rows))
	for _, row := range rows {
		appended = append(appended, domain.Expense{
			ID:       id,
			Date:     row.Date,
			Category: row.Category,
			Amount:   row.Amount,
			Note:     row.Note,
		})
		id++
	}

	updated := make([]domain.Expense, 0, len(current)+len(appended))
	updated = append(updated, current...)
	updated = append(updated, appended...)
	s.expenses.Set(updated)

	if err := s.persistAppend(ctx, appended, updated); err != nil {
		s.expenses.Set(current)
		s.LogError(ctx, err, "Failed to persist imported batch, reverting", slog.Int("rows", len(appended)))
		return nil, fmt.Errorf("%w: import expenses: %v", apperrors.ErrPersistence, err)
	}
	return appended, nil
}

func (s *expenseServiceImpl) persistAppend(ctx context.Context, added []domain.Expense, updated []domain.Expense) error {
	if !s.authenticated {
		return s.saveSnapshot(ctx, updated)
	}
	rows := make([]portsrepo.Row, 0, len(added))
	for _, e := range added {
		rows = append(rows, mapping.ExpenseToRow(e))
	}
	return s.tabular.AppendRows(ctx, s.expensesTable, rows)
}

func (s *expenseServiceImpl) persistUpdate(ctx context.Context, expense domain.Expense, updated []domain.Expense) error {
	if !s.authenticated {
		return s.saveSnapshot(ctx, updated)
	}
	rowNumber, err := s.findRowNumber(ctx, expense.ID)
	if err != nil {
		return err
	}
	return s.tabular.UpdateRow(ctx, s.expensesTable, rowNumber, mapping.ExpenseToRow(expense))
}

func (s *expenseServiceImpl) persistDelete(ctx context.Context, id int64, updated []domain.Expense) error {
	if !s.authenticated {
		return s.saveSnapshot(ctx, updated)
	}
	rowNumber, err := s.findRowNumber(ctx, id)
	if err != nil {
		return err
	}
	return s.tabular.DeleteRow(ctx, s.expensesTable, rowNumber)
}

func (s *expenseServiceImpl) saveSnapshot(ctx context.Context, expenses []domain.Expense) error {
	if s.snapshot == nil {
		return nil
	}
	return s.snapshot.SaveExpenses(ctx, expenses)
}

// findRowNumber scans the id column for the expense, returning the 1-indexed
// header-inclusive row number the tabular contract expects.
func (s *expenseServiceImpl) findRowNumber(ctx context.Context, id int64) (int, error) {
	rows, err := s.tabular.ListRows(ctx, s.expensesTable)
	if err != nil {
		return 0, fmt.Errorf("find expense row: %w", err)
	}
	want := strconv.FormatInt(id, 10)
	for i, row := range rows {
		if len(row) > 0 && row[0] == want {
			return i + 1, nil
		}
	}
	return 0, fmt.Errorf("expense %d not in sheet: %w", id, apperrors.ErrNotFound)
}

func (s *expenseServiceImpl) DailyTotal() decimal.Decimal {
	return s.totalWithPrefix(time.Now().Format("2006-01-02"))
}

func (s *expenseServiceImpl) MonthlyTotal() decimal.Decimal {
	return s.totalWithPrefix(time.Now().Format("2006-01"))
}

func (s *expenseServiceImpl) totalWithPrefix(prefix string) decimal.Decimal {
	total := decimal.Zero
	for _, e := range s.expenses.Get() {
		if strings.HasPrefix(e.Date, prefix) {
			total = total.Add(e.Amount)
		}
	}
	return total
}

// CategoryTotals sums the current month's spending per category name.
func (s *expenseServiceImpl) CategoryTotals() map[string]decimal.Decimal {
	prefix := time.Now().Format("2006-01")
	totals := make(map[string]decimal.Decimal)
	for _, e := range s.expenses.Get() {
		if !strings.HasPrefix(e.Date, prefix) {
			continue
		}
		totals[e.Category] = totals[e.Category].Add(e.Amount)
	}
	return totals
}
