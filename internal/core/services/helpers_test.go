package services_test

import (
	"context"
	"errors"
	"sync"

	"github.com/lumina-tracker/lumina_backend/internal/core/domain"
	portsrepo "github.com/lumina-tracker/lumina_backend/internal/core/ports/repositories"
)

var errStoreDown = errors.New("spreadsheet unreachable")

// fakeTabularStore is an in-memory spreadsheet: named tables of ordered rows
// with per-operation failure switches for rollback tests.
type fakeTabularStore struct {
	mu         sync.Mutex
	tableOrder []string
	tables     map[string][]portsrepo.Row

	failAppend bool
	failUpdate bool
	failDelete bool
	failList   bool
}

func newFakeTabularStore() *fakeTabularStore {
	return &fakeTabularStore{tables: map[string][]portsrepo.Row{}}
}

func (f *fakeTabularStore) seed(table string, rows ...portsrepo.Row) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.tables[table]; !ok {
		f.tableOrder = append(f.tableOrder, table)
	}
	f.tables[table] = append(f.tables[table], rows...)
}

func (f *fakeTabularStore) rowCount(table string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.tables[table])
}

func (f *fakeTabularStore) rowAt(table string, rowNumber int) portsrepo.Row {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.tables[table][rowNumber-1]
}

func (f *fakeTabularStore) ListTables(ctx context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failList {
		return nil, errStoreDown
	}
	return append([]string{}, f.tableOrder...), nil
}

func (f *fakeTabularStore) ListRows(ctx context.Context, table string) ([]portsrepo.Row, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failList {
		return nil, errStoreDown
	}
	return append([]portsrepo.Row{}, f.tables[table]...), nil
}

func (f *fakeTabularStore) AppendRows(ctx context.Context, table string, rows []portsrepo.Row) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAppend {
		return errStoreDown
	}
	f.tables[table] = append(f.tables[table], rows...)
	return nil
}

func (f *fakeTabularStore) UpdateRow(ctx context.Context, table string, rowNumber int, values portsrepo.Row) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failUpdate {
		return errStoreDown
	}
	rows := f.tables[table]
	for len(rows) < rowNumber {
		rows = append(rows, portsrepo.Row{})
	}
	rows[rowNumber-1] = values
	f.tables[table] = rows
	return nil
}

func (f *fakeTabularStore) DeleteRow(ctx context.Context, table string, rowNumber int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failDelete {
		return errStoreDown
	}
	rows := f.tables[table]
	if rowNumber < 1 || rowNumber > len(rows) {
		return errStoreDown
	}
	f.tables[table] = append(rows[:rowNumber-1], rows[rowNumber:]...)
	return nil
}

func (f *fakeTabularStore) EnsureTable(ctx context.Context, table string, header portsrepo.Row) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.tables[table]; ok {
		return nil
	}
	f.tableOrder = append(f.tableOrder, table)
	f.tables[table] = []portsrepo.Row{header}
	return nil
}

// fakeSnapshotStore is the in-memory local fallback.
type fakeSnapshotStore struct {
	mu       sync.Mutex
	expenses []domain.Expense
	saved    bool
	failSave bool
}

func (f *fakeSnapshotStore) LoadExpenses(ctx context.Context) ([]domain.Expense, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.saved {
		return nil, false, nil
	}
	return append([]domain.Expense{}, f.expenses...), true, nil
}

func (f *fakeSnapshotStore) SaveExpenses(ctx context.Context, expenses []domain.Expense) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failSave {
		return errStoreDown
	}
	f.expenses = append([]domain.Expense{}, expenses...)
	f.saved = true
	return nil
}
