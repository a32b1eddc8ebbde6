package dto

// ImportExpensesRequest names the foreign spreadsheets to reconcile into the
// expense ledger.
type ImportExpensesRequest struct {
	SpreadsheetIDs []string `json:"spreadsheetIds" binding:"required,min=1"`
}

// ImportResult aggregates an import run. Imported counts accepted rows
// across all tabs; Errors counts tabs or spreadsheets that failed
// (network/permission); Log is the human-readable progress trail.
type ImportResult struct {
	Imported int      `json:"imported"`
	Errors   int      `json:"errors"`
	Log      []string `json:"log"`
}
