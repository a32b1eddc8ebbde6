package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/lumina-tracker/lumina_backend/internal/core/domain"
	portsrepo "github.com/lumina-tracker/lumina_backend/internal/core/ports/repositories"
	portssvc "github.com/lumina-tracker/lumina_backend/internal/core/ports/services"
	"github.com/lumina-tracker/lumina_backend/internal/core/services"
	"github.com/lumina-tracker/lumina_backend/internal/dto"
	"github.com/lumina-tracker/lumina_backend/internal/utils/mapping"
)

type CategoryServiceTestSuite struct {
	suite.Suite
	store    *fakeTabularStore
	expenses portssvc.ExpenseSvcFacade
	service  portssvc.CategorySvcFacade
}

func (suite *CategoryServiceTestSuite) SetupTest() {
	suite.store = newFakeTabularStore()
	suite.expenses = services.NewExpenseService(suite.store, &fakeSnapshotStore{})
	suite.service = services.NewCategoryService(suite.store, suite.expenses)
}

func (suite *CategoryServiceTestSuite) initWith(expenseRows []portsrepo.Row, categoryRows ...portsrepo.Row) {
	suite.store.seed(mapping.DefaultExpensesTable, append([]portsrepo.Row{mapping.ExpenseHeader}, expenseRows...)...)
	suite.store.seed(mapping.TableCategories, append([]portsrepo.Row{mapping.CategoryHeader}, categoryRows...)...)
	suite.expenses.HandleSessionChange(context.Background(), &domain.User{Email: "a@b.c"})
	suite.Require().NoError(suite.service.Init(context.Background()))
}

func (suite *CategoryServiceTestSuite) findRoot(name string) *domain.CategoryNode {
	for _, node := range suite.service.Tree() {
		if node.Name == name {
			return node
		}
	}
	return nil
}

func (suite *CategoryServiceTestSuite) TestInit_BuildsTreeAndTreatsDanglingParentAsRoot() {
	suite.initWith(nil,
		portsrepo.Row{"c1", "Food", "NULL"},
		portsrepo.Row{"c2", "Groceries", "c1"},
		portsrepo.Row{"c3", "Orphan", "gone"},
	)

	tree := suite.service.Tree()
	suite.Require().Len(tree, 2)
	food := suite.findRoot("Food")
	suite.Require().NotNil(food)
	suite.Require().Len(food.Children, 1)
	suite.Equal("Groceries", food.Children[0].Name)
	suite.NotNil(suite.findRoot("Orphan"))
}

func (suite *CategoryServiceTestSuite) TestInit_SyncsUnknownExpenseCategories() {
	suite.initWith([]portsrepo.Row{
		{"1", "2024-01-05", "Snacks", "3", "", ""},
	},
		portsrepo.Row{"c1", "Food", "NULL"},
	)

	suite.NotNil(suite.findRoot("Snacks"))
}

func (suite *CategoryServiceTestSuite) TestAddCategory_DuplicateIsSilentNoOp() {
	suite.initWith(nil, portsrepo.Row{"c1", "Food", "NULL"})

	err := suite.service.AddCategory(context.Background(), dto.CreateCategoryRequest{Name: "food"})

	suite.Require().NoError(err)
	suite.Len(suite.service.Records(), 1)
}

func (suite *CategoryServiceTestSuite) TestAddCategory_SameNameUnderDifferentParent() {
	suite.initWith(nil,
		portsrepo.Row{"c1", "Food", "NULL"},
		portsrepo.Row{"c2", "Misc", "NULL"},
	)

	parent := "c2"
	err := suite.service.AddCategory(context.Background(), dto.CreateCategoryRequest{Name: "Food", ParentID: &parent})

	suite.Require().NoError(err)
	suite.Len(suite.service.Records(), 3)
}

func (suite *CategoryServiceTestSuite) TestUpdateCategory_CascadesRenameToExpenses() {
	suite.initWith([]portsrepo.Row{
		{"1", "2024-01-05", "Food", "3", "", ""},
		{"2", "2024-01-06", "Travel", "9", "", ""},
		{"3", "2024-01-07", "Food", "4", "", ""},
	},
		portsrepo.Row{"c1", "Food", "NULL"},
	)

	cascaded, err := suite.service.UpdateCategory(context.Background(), "c1", dto.UpdateCategoryRequest{Name: "Dining"})

	suite.Require().NoError(err)
	suite.Equal(2, cascaded)
	for _, e := range suite.expenses.Expenses() {
		suite.NotEqual("Food", e.Category)
	}
	suite.NotNil(suite.findRoot("Dining"))
}

func (suite *CategoryServiceTestSuite) TestDeleteCategory_RefusedWhileUsedByExpenses() {
	suite.initWith([]portsrepo.Row{
		{"1", "2024-01-05", "Food", "3", "", ""},
	},
		portsrepo.Row{"c1", "Food", "NULL"},
	)

	resp, err := suite.service.DeleteCategory(context.Background(), "c1")

	suite.Require().NoError(err)
	suite.False(resp.Deleted)
	suite.Contains(resp.Reason, "used in expenses")
	suite.Len(suite.service.Records(), 1)
}

func (suite *CategoryServiceTestSuite) TestDeleteCategory_RefusedWhileHasChildren() {
	suite.initWith(nil,
		portsrepo.Row{"c1", "Food", "NULL"},
		portsrepo.Row{"c2", "Groceries", "c1"},
	)

	resp, err := suite.service.DeleteCategory(context.Background(), "c1")

	suite.Require().NoError(err)
	suite.False(resp.Deleted)
	suite.Contains(resp.Reason, "sub-categories")
}

func (suite *CategoryServiceTestSuite) TestDeleteCategory_UnknownIDIsStructuredRejection() {
	suite.initWith(nil)

	resp, err := suite.service.DeleteCategory(context.Background(), "nope")

	suite.Require().NoError(err)
	suite.False(resp.Deleted)
	suite.Equal("category not found", resp.Reason)
}

// Renaming a used category frees the old name, after which the (now
// unreferenced) record can be deleted.
func (suite *CategoryServiceTestSuite) TestRenameThenDelete() {
	suite.initWith([]portsrepo.Row{
		{"1", "2024-01-05", "Food", "3", "", ""},
	},
		portsrepo.Row{"c1", "Food", "NULL"},
		portsrepo.Row{"c2", "Misc", "NULL"},
	)

	_, err := suite.service.UpdateCategory(context.Background(), "c2", dto.UpdateCategoryRequest{Name: "Other"})
	suite.Require().NoError(err)

	resp, err := suite.service.DeleteCategory(context.Background(), "c2")
	suite.Require().NoError(err)
	suite.True(resp.Deleted)
	suite.Len(suite.service.Records(), 1)
}

// A malformed row is skipped at load but still occupies a sheet row; writes
// must land on the row matching the category id, not on a position derived
// from the in-memory list.
func (suite *CategoryServiceTestSuite) TestUpdateAndDelete_LocateSheetRowByID() {
	suite.initWith(nil,
		portsrepo.Row{"c1", "Food", "NULL"},
		portsrepo.Row{"", "Broken", "NULL"},
		portsrepo.Row{"c2", "Misc", "NULL"},
	)
	suite.Require().Len(suite.service.Records(), 2)

	_, err := suite.service.UpdateCategory(context.Background(), "c2", dto.UpdateCategoryRequest{Name: "Other"})
	suite.Require().NoError(err)
	suite.Equal(portsrepo.Row{"c2", "Other", "NULL"}, suite.store.rowAt(mapping.TableCategories, 4))
	suite.Equal("Broken", suite.store.rowAt(mapping.TableCategories, 3)[1])

	resp, err := suite.service.DeleteCategory(context.Background(), "c1")
	suite.Require().NoError(err)
	suite.True(resp.Deleted)
	suite.Equal(3, suite.store.rowCount(mapping.TableCategories))
	suite.Equal("Broken", suite.store.rowAt(mapping.TableCategories, 2)[1])
	suite.Equal("c2", suite.store.rowAt(mapping.TableCategories, 3)[0])
}

func (suite *CategoryServiceTestSuite) TestImportFromExpenses_CountsDistinctNewNames() {
	suite.initWith([]portsrepo.Row{
		{"1", "2024-01-05", "Food", "3", "", ""},
		{"2", "2024-01-06", "travel", "9", "", ""},
		{"3", "2024-01-07", "Travel", "4", "", ""},
	})

	created, err := suite.service.ImportFromExpenses(context.Background())

	suite.Require().NoError(err)
	// Init already synced both names; a second import finds nothing new.
	suite.Equal(0, created)
	suite.Len(suite.service.Records(), 2)
}

func TestCategoryServiceTestSuite(t *testing.T) {
	suite.Run(t, new(CategoryServiceTestSuite))
}
