package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/lumina-tracker/lumina_backend/internal/core/domain"
	portsrepo "github.com/lumina-tracker/lumina_backend/internal/core/ports/repositories"
	portssvc "github.com/lumina-tracker/lumina_backend/internal/core/ports/services"
	"github.com/lumina-tracker/lumina_backend/internal/core/services"
	"github.com/lumina-tracker/lumina_backend/internal/dto"
	"github.com/lumina-tracker/lumina_backend/internal/utils/mapping"
)

type AnalyticsServiceTestSuite struct {
	suite.Suite
	store    *fakeTabularStore
	expenses portssvc.ExpenseSvcFacade
	service  portssvc.AnalyticsSvcFacade
}

func (suite *AnalyticsServiceTestSuite) SetupTest() {
	suite.store = newFakeTabularStore()
	suite.expenses = services.NewExpenseService(suite.store, &fakeSnapshotStore{})
	categories := services.NewCategoryService(suite.store, suite.expenses)
	suite.service = services.NewAnalyticsService(suite.expenses, categories)

	suite.store.seed(mapping.DefaultExpensesTable, mapping.ExpenseHeader,
		portsrepo.Row{"1", "2024-01-05", "Groceries", "10", "", ""},
		portsrepo.Row{"2", "2024-01-05", "Travel", "20", "", ""},
		portsrepo.Row{"3", "2024-01-20", "Groceries", "30", "", ""},
		portsrepo.Row{"4", "2024-02-02", "Dining", "40", "", ""},
	)
	suite.store.seed(mapping.TableCategories, mapping.CategoryHeader,
		portsrepo.Row{"c1", "Food", "NULL"},
		portsrepo.Row{"c2", "Groceries", "c1"},
		portsrepo.Row{"c3", "Dining", "c1"},
		portsrepo.Row{"c4", "Travel", "NULL"},
	)
	suite.expenses.HandleSessionChange(context.Background(), &domain.User{Email: "a@b.c"})
	suite.Require().NoError(categories.Init(context.Background()))
}

func ptr[T any](v T) *T { return &v }

func (suite *AnalyticsServiceTestSuite) TestDefaultFilterIsCurrentMonth() {
	filter := suite.service.Filter()
	now := time.Now()
	suite.Require().NotNil(filter.Month)
	suite.Require().NotNil(filter.Year)
	suite.Equal(int(now.Month())-1, *filter.Month)
	suite.Equal(now.Year(), *filter.Year)
}

func (suite *AnalyticsServiceTestSuite) TestMonthYearFilter() {
	suite.service.UpdateFilter(dto.UpdateFilterRequest{Month: ptr(0), Year: ptr(2024)})

	result := suite.service.Result()
	suite.True(result.Total.Equal(decimal.NewFromInt(60)))
	suite.Len(result.FilteredExpenses, 3)
	suite.True(result.DailyTrend["2024-01-05"].Equal(decimal.NewFromInt(30)))
}

func (suite *AnalyticsServiceTestSuite) TestExplicitRangeBeatsSpecificDate() {
	suite.service.UpdateFilter(dto.UpdateFilterRequest{
		StartDate:    ptr("2024-01-01"),
		EndDate:      ptr("2024-02-28"),
		SpecificDate: ptr("2024-01-05"),
	})

	result := suite.service.Result()
	suite.Len(result.FilteredExpenses, 4)
}

func (suite *AnalyticsServiceTestSuite) TestLoneStartDateSuppressesMonthYear() {
	// A single range bound is still a range; the month/year pair must not
	// resurrect expenses dated before the start.
	suite.service.UpdateFilter(dto.UpdateFilterRequest{
		StartDate: ptr("2024-01-10"),
		Month:     ptr(0),
		Year:      ptr(2024),
	})

	result := suite.service.Result()
	suite.Len(result.FilteredExpenses, 2)
	suite.True(result.Total.Equal(decimal.NewFromInt(70)))
	for _, e := range result.FilteredExpenses {
		suite.GreaterOrEqual(e.Date, "2024-01-10")
	}
}

func (suite *AnalyticsServiceTestSuite) TestLoneEndDateBoundsTheRange() {
	suite.service.UpdateFilter(dto.UpdateFilterRequest{
		EndDate: ptr("2024-01-10"),
		Month:   ptr(1),
		Year:    ptr(2024),
	})

	result := suite.service.Result()
	suite.Len(result.FilteredExpenses, 2)
	suite.True(result.Total.Equal(decimal.NewFromInt(30)))
}

func (suite *AnalyticsServiceTestSuite) TestSpecificDateBeatsMonthYear() {
	suite.service.UpdateFilter(dto.UpdateFilterRequest{
		SpecificDate: ptr("2024-01-05"),
		Month:        ptr(1),
		Year:         ptr(2024),
	})

	result := suite.service.Result()
	suite.Len(result.FilteredExpenses, 2)
	suite.True(result.Total.Equal(decimal.NewFromInt(30)))
}

func (suite *AnalyticsServiceTestSuite) TestCategoryFilterIncludesDescendants() {
	// Selecting Food must include Groceries and Dining via the name closure.
	suite.service.UpdateFilter(dto.UpdateFilterRequest{
		StartDate:  ptr("2024-01-01"),
		EndDate:    ptr("2024-02-28"),
		CategoryID: ptr("c1"),
	})

	result := suite.service.Result()
	suite.True(result.Total.Equal(decimal.NewFromInt(80)))
	suite.Len(result.CategoryDistribution, 2)
	suite.True(result.CategoryDistribution["Groceries"].Equal(decimal.NewFromInt(40)))
	suite.True(result.CategoryDistribution["Dining"].Equal(decimal.NewFromInt(40)))
}

func (suite *AnalyticsServiceTestSuite) TestUnknownCategoryMatchesNothing() {
	suite.service.UpdateFilter(dto.UpdateFilterRequest{
		StartDate:  ptr("2024-01-01"),
		EndDate:    ptr("2024-02-28"),
		CategoryID: ptr("no-such-id"),
	})

	result := suite.service.Result()
	suite.True(result.Total.IsZero())
	suite.Empty(result.FilteredExpenses)
	suite.NotNil(result.CategoryDistribution)
}

func (suite *AnalyticsServiceTestSuite) TestResetRestoresDefaults() {
	suite.service.UpdateFilter(dto.UpdateFilterRequest{CategoryID: ptr("c1"), SpecificDate: ptr("2024-01-05")})
	filter := suite.service.UpdateFilter(dto.UpdateFilterRequest{Reset: true})

	suite.Nil(filter.CategoryID)
	suite.Nil(filter.SpecificDate)
	suite.NotNil(filter.Month)
}

func TestAnalyticsServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AnalyticsServiceTestSuite))
}
