package services_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/lumina-tracker/lumina_backend/internal/apperrors"
	"github.com/lumina-tracker/lumina_backend/internal/core/domain"
	portsrepo "github.com/lumina-tracker/lumina_backend/internal/core/ports/repositories"
	portssvc "github.com/lumina-tracker/lumina_backend/internal/core/ports/services"
	"github.com/lumina-tracker/lumina_backend/internal/core/services"
	"github.com/lumina-tracker/lumina_backend/internal/dto"
	"github.com/lumina-tracker/lumina_backend/internal/utils/mapping"
)

type ExpenseServiceTestSuite struct {
	suite.Suite
	store    *fakeTabularStore
	snapshot *fakeSnapshotStore
	service  portssvc.ExpenseSvcFacade
}

func (suite *ExpenseServiceTestSuite) SetupTest() {
	suite.store = newFakeTabularStore()
	suite.snapshot = &fakeSnapshotStore{}
	suite.service = services.NewExpenseService(suite.store, suite.snapshot)
}

func (suite *ExpenseServiceTestSuite) signIn(rows ...portsrepo.Row) {
	suite.store.seed(mapping.DefaultExpensesTable, append([]portsrepo.Row{mapping.ExpenseHeader}, rows...)...)
	suite.service.HandleSessionChange(context.Background(), &domain.User{Email: "a@b.c"})
}

func (suite *ExpenseServiceTestSuite) TestInit_WithoutSessionUsesSnapshot() {
	suite.snapshot.expenses = []domain.Expense{{ID: 7, Date: "2024-03-01", Category: "Food", Amount: decimal.NewFromInt(10)}}
	suite.snapshot.saved = true

	suite.Require().NoError(suite.service.Init(context.Background()))

	expenses := suite.service.Expenses()
	suite.Require().Len(expenses, 1)
	suite.Equal(int64(7), expenses[0].ID)
}

func (suite *ExpenseServiceTestSuite) TestHandleSessionChange_LoadsAndSortsFromSheet() {
	suite.signIn(
		portsrepo.Row{"1", "2024-01-05", "Food", "12.50", "", ""},
		portsrepo.Row{"2", "2024-02-01", "Travel", "30", "", ""},
		portsrepo.Row{"bad-id", "2024-02-02", "Travel", "5", "", ""},
	)

	expenses := suite.service.Expenses()
	suite.Require().Len(expenses, 2)
	// Newest first; the malformed row is skipped, not fatal.
	suite.Equal(int64(2), expenses[0].ID)
	suite.Equal(int64(1), expenses[1].ID)
}

func (suite *ExpenseServiceTestSuite) TestAddExpense_AssignsMaxPlusOne() {
	suite.signIn(
		portsrepo.Row{"3", "2024-01-05", "Food", "12.50", "", ""},
		portsrepo.Row{"9", "2024-02-01", "Travel", "30", "", ""},
	)

	expense, err := suite.service.AddExpense(context.Background(), dto.CreateExpenseRequest{
		Amount:   decimal.NewFromInt(5),
		Category: "Food",
		Date:     "2024-02-10",
	})

	suite.Require().NoError(err)
	suite.Equal(int64(10), expense.ID)
	suite.Equal(expense.ID, suite.service.Expenses()[0].ID)
	// Header + 2 seeded + 1 appended.
	suite.Equal(4, suite.store.rowCount(mapping.DefaultExpensesTable))
}

func (suite *ExpenseServiceTestSuite) TestAddExpense_RejectsNegativeAmount() {
	suite.signIn()

	_, err := suite.service.AddExpense(context.Background(), dto.CreateExpenseRequest{
		Amount:   decimal.NewFromInt(-1),
		Category: "Food",
		Date:     "2024-02-10",
	})

	suite.Require().ErrorIs(err, apperrors.ErrValidation)
	suite.Empty(suite.service.Expenses())
}

func (suite *ExpenseServiceTestSuite) TestAddExpense_RollsBackOnPersistFailure() {
	suite.signIn(portsrepo.Row{"1", "2024-01-05", "Food", "12.50", "", ""})
	suite.store.failAppend = true

	_, err := suite.service.AddExpense(context.Background(), dto.CreateExpenseRequest{
		Amount:   decimal.NewFromInt(5),
		Category: "Food",
		Date:     "2024-02-10",
	})

	suite.Require().ErrorIs(err, apperrors.ErrPersistence)
	expenses := suite.service.Expenses()
	suite.Require().Len(expenses, 1)
	suite.Equal(int64(1), expenses[0].ID)
}

func (suite *ExpenseServiceTestSuite) TestUpdateExpense_RollsBackOnPersistFailure() {
	suite.signIn(portsrepo.Row{"1", "2024-01-05", "Food", "12.50", "old note", ""})
	suite.store.failUpdate = true

	_, err := suite.service.UpdateExpense(context.Background(), dto.UpdateExpenseRequest{
		ID:       1,
		Amount:   decimal.NewFromInt(99),
		Category: "Food",
		Note:     "new note",
		Date:     "2024-01-05",
	})

	suite.Require().ErrorIs(err, apperrors.ErrPersistence)
	suite.Equal("old note", suite.service.Expenses()[0].Note)
}

func (suite *ExpenseServiceTestSuite) TestUpdateExpense_UnknownID() {
	suite.signIn()

	_, err := suite.service.UpdateExpense(context.Background(), dto.UpdateExpenseRequest{
		ID:       42,
		Amount:   decimal.NewFromInt(1),
		Category: "Food",
		Date:     "2024-01-05",
	})

	suite.Require().ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *ExpenseServiceTestSuite) TestDeleteExpense_RemovesSheetRow() {
	suite.signIn(
		portsrepo.Row{"1", "2024-01-05", "Food", "12.50", "", ""},
		portsrepo.Row{"2", "2024-02-01", "Travel", "30", "", ""},
	)

	suite.Require().NoError(suite.service.DeleteExpense(context.Background(), 1))

	suite.Require().Len(suite.service.Expenses(), 1)
	suite.Equal(2, suite.store.rowCount(mapping.DefaultExpensesTable))
}

func (suite *ExpenseServiceTestSuite) TestMutationsWithoutSessionHitSnapshot() {
	suite.Require().NoError(suite.service.Init(context.Background()))

	_, err := suite.service.AddExpense(context.Background(), dto.CreateExpenseRequest{
		Amount:   decimal.NewFromInt(5),
		Category: "Food",
		Date:     "2024-02-10",
	})

	suite.Require().NoError(err)
	suite.True(suite.snapshot.saved)
	suite.Equal(0, suite.store.rowCount(mapping.DefaultExpensesTable))
}

func (suite *ExpenseServiceTestSuite) TestAppendImported_AssignsSequentialIDs() {
	suite.signIn(portsrepo.Row{"5", "2024-01-05", "Food", "12.50", "", ""})

	appended, err := suite.service.AppendImported(context.Background(), []dto.ImportedExpense{
		{Date: "2024-03-01", Category: "Food", Amount: decimal.NewFromInt(1)},
		{Date: "2024-03-02", Category: "Travel", Amount: decimal.NewFromInt(2)},
	})

	suite.Require().NoError(err)
	suite.Require().Len(appended, 2)
	suite.Equal(int64(6), appended[0].ID)
	suite.Equal(int64(7), appended[1].ID)
	// Header + 1 seeded + 2 imported in one batch.
	suite.Equal(4, suite.store.rowCount(mapping.DefaultExpensesTable))
}

func (suite *ExpenseServiceTestSuite) TestExpensesTabDiscovery() {
	suite.store.seed(mapping.TableCategories, mapping.CategoryHeader)
	suite.store.seed("MyBudget", mapping.ExpenseHeader,
		portsrepo.Row{"1", "2024-01-05", "Food", "12.50", "", ""})
	suite.service.HandleSessionChange(context.Background(), &domain.User{Email: "a@b.c"})

	suite.Require().Len(suite.service.Expenses(), 1)
}

func TestExpenseServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ExpenseServiceTestSuite))
}
