package localstore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/lumina-tracker/lumina_backend/internal/core/domain"
	portsrepo "github.com/lumina-tracker/lumina_backend/internal/core/ports/repositories"
)

// SnapshotStore persists the expense collection as one JSON file. Every save
// rewrites the whole file; the collection is small enough that partial writes
// are not worth their complexity.
type SnapshotStore struct {
	path string
	mu   sync.Mutex
}

// NewSnapshotStore creates a store writing to the given path.
func NewSnapshotStore(path string) *SnapshotStore {
	return &SnapshotStore{path: path}
}

var _ portsrepo.SnapshotStore = (*SnapshotStore)(nil)

func (s *SnapshotStore) LoadExpenses(ctx context.Context) ([]domain.Expense, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("read snapshot %s: %w", s.path, err)
	}
	var expenses []domain.Expense
	if err := json.Unmarshal(data, &expenses); err != nil {
		return nil, false, fmt.Errorf("decode snapshot %s: %w", s.path, err)
	}
	return expenses, true, nil
}

func (s *SnapshotStore) SaveExpenses(ctx context.Context, expenses []domain.Expense) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(expenses, "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	// Write-then-rename so a crash mid-save never truncates the snapshot.
	tmp := s.path + ".tmp"
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create snapshot dir: %w", err)
	}
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace snapshot: %w", err)
	}
	return nil
}
