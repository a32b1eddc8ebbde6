package localstore_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumina-tracker/lumina_backend/internal/adapters/localstore"
	"github.com/lumina-tracker/lumina_backend/internal/core/domain"
)

func TestSnapshotStore_MissingFileIsNotAnError(t *testing.T) {
	store := localstore.NewSnapshotStore(filepath.Join(t.TempDir(), "expenses.json"))

	expenses, ok, err := store.LoadExpenses(context.Background())

	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, expenses)
}

func TestSnapshotStore_SaveThenLoad(t *testing.T) {
	store := localstore.NewSnapshotStore(filepath.Join(t.TempDir(), "expenses.json"))
	in := []domain.Expense{
		{ID: 1, Date: "2024-01-05", Category: "Food", Amount: decimal.NewFromInt(10), Note: "Lunch"},
		{ID: 2, Date: "2024-01-06", Category: "Travel", Amount: decimal.RequireFromString("12.50")},
	}

	require.NoError(t, store.SaveExpenses(context.Background(), in))

	out, ok, err := store.LoadExpenses(context.Background())
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, out, 2)
	assert.Equal(t, int64(1), out[0].ID)
	assert.True(t, out[1].Amount.Equal(decimal.RequireFromString("12.50")))
}

func TestSnapshotStore_SaveOverwritesWholesale(t *testing.T) {
	store := localstore.NewSnapshotStore(filepath.Join(t.TempDir(), "expenses.json"))

	require.NoError(t, store.SaveExpenses(context.Background(), []domain.Expense{{ID: 1}, {ID: 2}}))
	require.NoError(t, store.SaveExpenses(context.Background(), []domain.Expense{{ID: 3}}))

	out, ok, err := store.LoadExpenses(context.Background())
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, out, 1)
	assert.Equal(t, int64(3), out[0].ID)
}
