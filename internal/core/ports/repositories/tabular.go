package repositories

import (
	"context"

	"github.com/lumina-tracker/lumina_backend/internal/core/domain"
)

// Row is one spreadsheet row as ordered cell values. By convention row 1 of
// every table is a header; data starts at row 2.
type Row []string

// TabularSource is the read-only view of a spreadsheet, sufficient for the
// import reconciler to walk foreign spreadsheets tab by tab.
type TabularSource interface {
	// ListTables returns the table (sheet/tab) names in workbook order.
	ListTables(ctx context.Context) ([]string, error)
	// ListRows returns every row of the table, header included.
	ListRows(ctx context.Context, table string) ([]Row, error)
}

// TabularStore is the full row-level CRUD contract over the ledger's own
// spreadsheet. Any call may fail transiently (network, permission); ledger
// stores treat such failures as rollback triggers, never as fatal.
type TabularStore interface {
	TabularSource

	// AppendRows appends rows after the existing ones. No positional
	// guarantee beyond "after existing rows".
	AppendRows(ctx context.Context, table string, rows []Row) error
	// UpdateRow replaces one row. rowNumber is 1-indexed and
	// header-inclusive: row 1 is the header, data starts at row 2.
	UpdateRow(ctx context.Context, table string, rowNumber int, values Row) error
	// DeleteRow removes exactly one row, shifting subsequent rows up.
	DeleteRow(ctx context.Context, table string, rowNumber int) error
	// EnsureTable creates the table with the given header if it does not
	// exist yet. Idempotent.
	EnsureTable(ctx context.Context, table string, header Row) error
}

// TabularSourceOpener opens a foreign spreadsheet by its id for reading.
// Used by the import reconciler only.
type TabularSourceOpener interface {
	Open(ctx context.Context, spreadsheetID string) (TabularSource, error)
}

// SnapshotStore is the local fallback persistence: one durable key holding
// the whole serialized expense collection, overwritten wholesale on every
// mutation while no remote session is active.
type SnapshotStore interface {
	// LoadExpenses returns the stored collection and whether a snapshot
	// existed at all.
	LoadExpenses(ctx context.Context) ([]domain.Expense, bool, error)
	SaveExpenses(ctx context.Context, expenses []domain.Expense) error
}
