package services

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/lumina-tracker/lumina_backend/internal/core/domain"
	portsrepo "github.com/lumina-tracker/lumina_backend/internal/core/ports/repositories"
	portssvc "github.com/lumina-tracker/lumina_backend/internal/core/ports/services"
	"github.com/lumina-tracker/lumina_backend/internal/dto"
	"github.com/lumina-tracker/lumina_backend/internal/utils/mapping"
)

// importServiceImpl walks foreign spreadsheets tab by tab and merges their
// rows into the expense ledger. Duplicate suppression is signature based:
// a row whose date, amount and note already exist is skipped, both against
// the current ledger and within the run itself, so re-running the same
// import is a no-op.
type importServiceImpl struct {
	BaseService
	opener   portsrepo.TabularSourceOpener
	expenses portssvc.ExpenseSvcFacade
}

// NewImportService creates the import reconciler.
func NewImportService(opener portsrepo.TabularSourceOpener, expenses portssvc.ExpenseSvcFacade) portssvc.ImportSvcFacade {
	return &importServiceImpl{opener: opener, expenses: expenses}
}

var _ portssvc.ImportSvcFacade = (*importServiceImpl)(nil)

var amountSanitizer = regexp.MustCompile(`[^0-9.\-]`)

var importDatePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}`)

// parseImportAmount tolerates currency symbols and thousand separators by
// stripping everything that is not a digit, dot or minus before parsing.
func parseImportAmount(raw string) (decimal.Decimal, error) {
	cleaned := amountSanitizer.ReplaceAllString(raw, "")
	if cleaned == "" {
		return decimal.Zero, fmt.Errorf("no numeric content in %q", raw)
	}
	return decimal.NewFromString(cleaned)
}

// expenseSignature is the duplicate-detection key. The pipe separator keeps
// "1|2.00|x" and "1,2.00|x" style collisions from merging distinct rows.
func expenseSignature(date string, amount decimal.Decimal, note string) string {
	return date + "|" + amount.String() + "|" + note
}

func (s *importServiceImpl) ImportExpenses(ctx context.Context, spreadsheetIDs []string, progress func(string)) (dto.ImportResult, error) {
	result := dto.ImportResult{Log: []string{}}
	log := func(msg string) {
		result.Log = append(result.Log, msg)
		if progress != nil {
			progress(msg)
		}
	}

	log("Fetching existing data to check for duplicates...")
	seen := make(map[string]struct{})
	for _, e := range s.expenses.Expenses() {
		seen[expenseSignature(e.DateOnly(), e.Amount, e.Note)] = struct{}{}
	}

	for _, id := range spreadsheetIDs {
		log(fmt.Sprintf("Processing Spreadsheet: %s", id))
		source, err := s.opener.Open(ctx, id)
		if err != nil {
			s.LogError(ctx, err, "Failed to open spreadsheet for import", "spreadsheet_id", id)
			log("  Error processing spreadsheet. Check ID and Permissions.")
			result.Errors++
			continue
		}
		tabs, err := source.ListTables(ctx)
		if err != nil {
			s.LogError(ctx, err, "Failed to list tabs for import", "spreadsheet_id", id)
			log("  Error processing spreadsheet. Check ID and Permissions.")
			result.Errors++
			continue
		}

		for _, tab := range tabs {
			if mapping.ReservedTable(tab) {
				continue
			}
			log(fmt.Sprintf("  > Reading tab: %s", tab))
			rows, err := source.ListRows(ctx, tab)
			if err != nil {
				s.LogError(ctx, err, "Failed to read tab for import", "spreadsheet_id", id, "tab", tab)
				log(fmt.Sprintf("    Error reading tab %s.", tab))
				result.Errors++
				continue
			}
			accepted := s.collectRows(rows, seen)
			if len(accepted) == 0 {
				log("    Skipping empty/header-only tab.")
				continue
			}
			imported, err := s.expenses.AppendImported(ctx, accepted)
			if err != nil {
				s.LogError(ctx, err, "Failed to append imported rows", "spreadsheet_id", id, "tab", tab)
				log(fmt.Sprintf("    Error reading tab %s.", tab))
				result.Errors++
				continue
			}
			result.Imported += len(imported)
			log(fmt.Sprintf("    Imported %d rows.", len(imported)))
		}
	}
	return result, nil
}

// collectRows extracts importable expenses from raw foreign rows. Foreign
// tabs carry date, purpose, amount and description in columns 0 to 3; a
// blank purpose maps to "Uncategorized". The header, rows without a date or
// a parsable amount, and anything whose signature is already present are
// skipped. Accepted signatures are added to seen so a row duplicated across
// tabs is only imported once.
func (s *importServiceImpl) collectRows(rows []portsrepo.Row, seen map[string]struct{}) []dto.ImportedExpense {
	var accepted []dto.ImportedExpense
	for i, row := range rows {
		if i == 0 && isHeaderRow(row) {
			continue
		}
		if len(row) < 3 {
			continue
		}
		date := strings.TrimSpace(row[0])
		if date == "" {
			continue
		}
		amount, err := parseImportAmount(row[2])
		if err != nil {
			continue
		}
		note := ""
		if len(row) > 3 {
			note = row[3]
		}
		sig := expenseSignature(domain.DateOnlyString(date), amount, note)
		if _, dup := seen[sig]; dup {
			continue
		}
		seen[sig] = struct{}{}
		category := strings.TrimSpace(row[1])
		if category == "" {
			category = "Uncategorized"
		}
		accepted = append(accepted, dto.ImportedExpense{
			Date:     date,
			Category: category,
			Amount:   amount,
			Note:     note,
		})
	}
	return accepted
}

// isHeaderRow recognizes a header row by a first cell that is not a date.
func isHeaderRow(row portsrepo.Row) bool {
	return len(row) > 0 && !importDatePattern.MatchString(strings.TrimSpace(row[0]))
}
