package services_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/lumina-tracker/lumina_backend/internal/core/domain"
	portsrepo "github.com/lumina-tracker/lumina_backend/internal/core/ports/repositories"
	portssvc "github.com/lumina-tracker/lumina_backend/internal/core/ports/services"
	"github.com/lumina-tracker/lumina_backend/internal/core/services"
	"github.com/lumina-tracker/lumina_backend/internal/utils/mapping"
)

// foreignHeader is the column layout of foreign sources: date, purpose,
// amount, description.
var foreignHeader = portsrepo.Row{"Date", "Purpose", "Amount", "Description"}

// fakeOpener resolves spreadsheet ids to in-memory sources.
type fakeOpener struct {
	sources map[string]*fakeTabularStore
}

func (f *fakeOpener) Open(ctx context.Context, spreadsheetID string) (portsrepo.TabularSource, error) {
	source, ok := f.sources[spreadsheetID]
	if !ok {
		return nil, fmt.Errorf("spreadsheet %s not accessible", spreadsheetID)
	}
	return source, nil
}

type ImportServiceTestSuite struct {
	suite.Suite
	store    *fakeTabularStore
	opener   *fakeOpener
	expenses portssvc.ExpenseSvcFacade
	service  portssvc.ImportSvcFacade
}

func (suite *ImportServiceTestSuite) SetupTest() {
	suite.store = newFakeTabularStore()
	suite.opener = &fakeOpener{sources: map[string]*fakeTabularStore{}}
	suite.expenses = services.NewExpenseService(suite.store, &fakeSnapshotStore{})
	suite.service = services.NewImportService(suite.opener, suite.expenses)

	suite.store.seed(mapping.DefaultExpensesTable, mapping.ExpenseHeader,
		portsrepo.Row{"1", "2024-01-05", "Transport", "45", "Taxi", ""},
	)
	suite.expenses.HandleSessionChange(context.Background(), &domain.User{Email: "a@b.c"})
}

func (suite *ImportServiceTestSuite) foreign(id string, tabs map[string][]portsrepo.Row) {
	source := newFakeTabularStore()
	for tab, rows := range tabs {
		source.seed(tab, rows...)
	}
	suite.opener.sources[id] = source
}

func (suite *ImportServiceTestSuite) TestImport_MapsForeignColumns() {
	suite.foreign("sheet-a", map[string][]portsrepo.Row{
		"Sheet1": {
			foreignHeader,
			{"2024-02-01", "Travel", "$45.00", "Taxi"},
		},
	})

	result, err := suite.service.ImportExpenses(context.Background(), []string{"sheet-a"}, nil)

	suite.Require().NoError(err)
	suite.Equal(1, result.Imported)
	all := suite.expenses.Expenses()
	suite.Require().Len(all, 2)
	imported := all[len(all)-1]
	suite.Equal("2024-02-01", imported.Date)
	suite.Equal("Travel", imported.Category)
	suite.True(imported.Amount.Equal(decimal.NewFromInt(45)))
	suite.Equal("Taxi", imported.Note)
}

func (suite *ImportServiceTestSuite) TestImport_BlankPurposeDefaultsToUncategorized() {
	suite.foreign("sheet-a", map[string][]portsrepo.Row{
		"Sheet1": {
			foreignHeader,
			{"2024-03-01", "", "10", "Mystery"},
		},
	})

	result, err := suite.service.ImportExpenses(context.Background(), []string{"sheet-a"}, nil)

	suite.Require().NoError(err)
	suite.Equal(1, result.Imported)
	all := suite.expenses.Expenses()
	suite.Equal("Uncategorized", all[len(all)-1].Category)
}

func (suite *ImportServiceTestSuite) TestImport_SkipsDuplicatesBySignature() {
	suite.foreign("sheet-a", map[string][]portsrepo.Row{
		"Sheet1": {
			foreignHeader,
			// Same date/amount/note as the existing Taxi row, with a
			// currency-formatted amount.
			{"2024-01-05", "Cabs", "$45.00", "Taxi"},
			{"2024-01-06", "Food", "12.50", "Lunch"},
		},
	})

	result, err := suite.service.ImportExpenses(context.Background(), []string{"sheet-a"}, nil)

	suite.Require().NoError(err)
	suite.Equal(1, result.Imported)
	suite.Equal(0, result.Errors)
	suite.Len(suite.expenses.Expenses(), 2)
}

func (suite *ImportServiceTestSuite) TestImport_RerunIsNoOp() {
	suite.foreign("sheet-a", map[string][]portsrepo.Row{
		"Sheet1": {
			foreignHeader,
			{"2024-02-01", "Food", "20", "Dinner"},
		},
	})

	first, err := suite.service.ImportExpenses(context.Background(), []string{"sheet-a"}, nil)
	suite.Require().NoError(err)
	suite.Equal(1, first.Imported)

	second, err := suite.service.ImportExpenses(context.Background(), []string{"sheet-a"}, nil)
	suite.Require().NoError(err)
	suite.Equal(0, second.Imported)
	suite.Len(suite.expenses.Expenses(), 2)
}

func (suite *ImportServiceTestSuite) TestImport_DuplicateAcrossTabsImportedOnce() {
	suite.foreign("sheet-a", map[string][]portsrepo.Row{
		"Jan": {
			foreignHeader,
			{"2024-02-01", "Food", "20", "Dinner"},
		},
		"Feb": {
			foreignHeader,
			{"2024-02-01", "Food", "20", "Dinner"},
		},
	})

	result, err := suite.service.ImportExpenses(context.Background(), []string{"sheet-a"}, nil)

	suite.Require().NoError(err)
	suite.Equal(1, result.Imported)
}

func (suite *ImportServiceTestSuite) TestImport_UnreachableSpreadsheetCountsError() {
	result, err := suite.service.ImportExpenses(context.Background(), []string{"missing"}, nil)

	suite.Require().NoError(err)
	suite.Equal(0, result.Imported)
	suite.Equal(1, result.Errors)
	suite.Contains(result.Log, "  Error processing spreadsheet. Check ID and Permissions.")
}

func (suite *ImportServiceTestSuite) TestImport_SkipsReservedAndHeaderOnlyTabs() {
	suite.foreign("sheet-a", map[string][]portsrepo.Row{
		mapping.TableCategories: {
			mapping.CategoryHeader,
			{"c1", "Food", "NULL"},
		},
		"Empty": {foreignHeader},
	})

	result, err := suite.service.ImportExpenses(context.Background(), []string{"sheet-a"}, nil)

	suite.Require().NoError(err)
	suite.Equal(0, result.Imported)
	suite.Equal(0, result.Errors)
	suite.Contains(result.Log, "    Skipping empty/header-only tab.")
}

func (suite *ImportServiceTestSuite) TestImport_ReportsProgress() {
	suite.foreign("sheet-a", map[string][]portsrepo.Row{
		"Sheet1": {
			foreignHeader,
			{"2024-02-01", "Food", "20", "Dinner"},
		},
	})

	var messages []string
	_, err := suite.service.ImportExpenses(context.Background(), []string{"sheet-a"}, func(msg string) {
		messages = append(messages, msg)
	})

	suite.Require().NoError(err)
	suite.Contains(messages, "Fetching existing data to check for duplicates...")
	suite.Contains(messages, "Processing Spreadsheet: sheet-a")
	suite.Contains(messages, "    Imported 1 rows.")
}

func TestImportServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ImportServiceTestSuite))
}
