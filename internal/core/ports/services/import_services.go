package services

import (
	"context"

	"github.com/lumina-tracker/lumina_backend/internal/dto"
)

// ImportSvcFacade merges rows from foreign spreadsheets into the expense
// store with signature-based duplicate suppression. progress receives
// human-readable messages as the run advances; it may be nil.
type ImportSvcFacade interface {
	ImportExpenses(ctx context.Context, spreadsheetIDs []string, progress func(string)) (dto.ImportResult, error)
}
