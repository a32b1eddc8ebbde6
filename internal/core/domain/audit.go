package domain

import "time"

// AuditFields holds creation and modification timestamps for ledger entities.
// The sheet stores these as RFC3339 strings; parsing failures on load leave
// the zero time rather than rejecting the row.
type AuditFields struct {
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
