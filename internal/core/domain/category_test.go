package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumina-tracker/lumina_backend/internal/core/domain"
)

func TestBuildCategoryTree_NestsByParentID(t *testing.T) {
	records := []domain.CategoryRecord{
		{ID: "c1", Name: "Food"},
		{ID: "c2", Name: "Groceries", ParentID: "c1"},
		{ID: "c3", Name: "Travel"},
	}

	forest := domain.BuildCategoryTree(records)

	require.Len(t, forest, 2)
	assert.Equal(t, "Food", forest[0].Name)
	require.Len(t, forest[0].Children, 1)
	assert.Equal(t, "Groceries", forest[0].Children[0].Name)
	assert.Empty(t, forest[1].Children)
}

func TestBuildCategoryTree_DanglingParentBecomesRoot(t *testing.T) {
	records := []domain.CategoryRecord{
		{ID: "c1", Name: "Orphan", ParentID: "missing"},
	}

	forest := domain.BuildCategoryTree(records)

	require.Len(t, forest, 1)
	assert.Equal(t, "Orphan", forest[0].Name)
}

func TestDescendantNames_IncludesSelfAndAllDescendants(t *testing.T) {
	forest := domain.BuildCategoryTree([]domain.CategoryRecord{
		{ID: "c1", Name: "Food"},
		{ID: "c2", Name: "Groceries", ParentID: "c1"},
		{ID: "c3", Name: "Produce", ParentID: "c2"},
		{ID: "c4", Name: "Travel"},
	})

	node := domain.FindCategoryNode(forest, "c1")
	require.NotNil(t, node)

	names := domain.DescendantNames(node)
	assert.Len(t, names, 3)
	assert.Contains(t, names, "Food")
	assert.Contains(t, names, "Groceries")
	assert.Contains(t, names, "Produce")
	assert.NotContains(t, names, "Travel")
}

func TestDateOnly_TrimsTimeSuffix(t *testing.T) {
	e := domain.Expense{Date: "2024-01-05T13:45:00Z"}
	assert.Equal(t, "2024-01-05", e.DateOnly())

	e = domain.Expense{Date: "2024-01-05"}
	assert.Equal(t, "2024-01-05", e.DateOnly())
}
