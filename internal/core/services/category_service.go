package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/lumina-tracker/lumina_backend/internal/apperrors"
	"github.com/lumina-tracker/lumina_backend/internal/core/domain"
	portsrepo "github.com/lumina-tracker/lumina_backend/internal/core/ports/repositories"
	portssvc "github.com/lumina-tracker/lumina_backend/internal/core/ports/services"
	"github.com/lumina-tracker/lumina_backend/internal/core/signal"
	"github.com/lumina-tracker/lumina_backend/internal/dto"
	"github.com/lumina-tracker/lumina_backend/internal/utils/mapping"
)

// categoryServiceImpl maintains the category taxonomy. The flat record list
// holds the known categories; sheet rows are located by id at write time,
// since skipped malformed rows leave the in-memory indices out of step with
// the sheet. The tree is always rebuilt from the flat list, never patched.
type categoryServiceImpl struct {
	BaseService
	tabular  portsrepo.TabularStore
	expenses portssvc.ExpenseSvcFacade

	mu          sync.Mutex
	flat        []domain.CategoryRecord
	tree        *signal.Signal[[]*domain.CategoryNode]
	initialized bool
}

// NewCategoryService creates the category store. The expense facade is used
// for the rename cascade, the delete usage check and import-from-expenses.
func NewCategoryService(tabular portsrepo.TabularStore, expenses portssvc.ExpenseSvcFacade) portssvc.CategorySvcFacade {
	return &categoryServiceImpl{
		tabular:  tabular,
		expenses: expenses,
		tree:     signal.New([]*domain.CategoryNode{}),
	}
}

var _ portssvc.CategorySvcFacade = (*categoryServiceImpl)(nil)

func (s *categoryServiceImpl) Init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.initialized {
		return nil
	}

	if err := s.tabular.EnsureTable(ctx, mapping.TableCategories, mapping.CategoryHeader); err != nil {
		return fmt.Errorf("ensure categories table: %w", err)
	}
	if err := s.load(ctx); err != nil {
		return err
	}
	s.initialized = true

	s.syncWithExpenses(ctx)
	return nil
}

func (s *categoryServiceImpl) load(ctx context.Context) error {
	rows, err := s.tabular.ListRows(ctx, mapping.TableCategories)
	if err != nil {
		return fmt.Errorf("list categories: %w", err)
	}
	flat := make([]domain.CategoryRecord, 0, len(rows))
	if len(rows) > 1 {
		for _, row := range rows[1:] {
			record, err := mapping.CategoryFromRow(row)
			if err != nil {
				s.LogWarn(ctx, "Skipping malformed category row", slog.String("error", err.Error()))
				continue
			}
			flat = append(flat, record)
		}
	}
	s.flat = flat
	s.rebuild()
	return nil
}

// rebuild recomputes the forest from the flat list and publishes it.
// Callers hold s.mu.
func (s *categoryServiceImpl) rebuild() {
	s.tree.Set(domain.BuildCategoryTree(s.flat))
}

// syncWithExpenses creates a root category for every expense category string
// not yet known. Failures are logged per name and never abort the sync.
func (s *categoryServiceImpl) syncWithExpenses(ctx context.Context) {
	known := make(map[string]struct{}, len(s.flat))
	for _, c := range s.flat {
		known[strings.ToLower(c.Name)] = struct{}{}
	}
	for _, e := range s.expenses.Expenses() {
		if e.Category == "" {
			continue
		}
		if _, ok := known[strings.ToLower(e.Category)]; ok {
			continue
		}
		if err := s.addLocked(ctx, e.Category, ""); err != nil {
			s.LogError(ctx, err, "Failed to sync category from expense", slog.String("category", e.Category))
			continue
		}
		known[strings.ToLower(e.Category)] = struct{}{}
	}
}

func (s *categoryServiceImpl) Tree() []*domain.CategoryNode {
	return s.tree.Get()
}

func (s *categoryServiceImpl) SubscribeTree(fn func([]*domain.CategoryNode)) func() {
	return s.tree.Subscribe(fn)
}

func (s *categoryServiceImpl) Records() []domain.CategoryRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	records := make([]domain.CategoryRecord, len(s.flat))
	copy(records, s.flat)
	return records
}

func (s *categoryServiceImpl) AddCategory(ctx context.Context, req dto.CreateCategoryRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	parentID := ""
	if req.ParentID != nil {
		parentID = *req.ParentID
	}
	return s.addLocked(ctx, req.Name, parentID)
}

// addLocked persists a new category and appends it to the flat list. A
// duplicate (same case-insensitive name under the same parent) is a silent
// no-op. Categories are persisted before the in-memory apply; there is no
// optimistic window to roll back.
func (s *categoryServiceImpl) addLocked(ctx context.Context, name, parentID string) error {
	for _, c := range s.flat {
		if domain.EqualFoldName(c.Name, name) && c.ParentID == parentID {
			return nil
		}
	}

	record := domain.CategoryRecord{
		ID:       uuid.NewString(),
		Name:     name,
		ParentID: parentID,
	}
	if err := s.tabular.AppendRows(ctx, mapping.TableCategories, []portsrepo.Row{mapping.CategoryToRow(record)}); err != nil {
		return fmt.Errorf("%w: add category: %v", apperrors.ErrPersistence, err)
	}
	s.flat = append(s.flat, record)
	s.rebuild()
	return nil
}

func (s *categoryServiceImpl) UpdateCategory(ctx context.Context, id string, req dto.UpdateCategoryRequest) (int, error) {
	s.mu.Lock()

	index := -1
	for i, c := range s.flat {
		if c.ID == id {
			index = i
			break
		}
	}
	if index == -1 {
		s.mu.Unlock()
		return 0, fmt.Errorf("category %s: %w", id, apperrors.ErrNotFound)
	}

	oldName := s.flat[index].Name
	renamed := s.flat[index]
	renamed.Name = req.Name

	rowNumber, err := s.findRowNumber(ctx, id)
	if err != nil {
		s.mu.Unlock()
		return 0, err
	}
	if err := s.tabular.UpdateRow(ctx, mapping.TableCategories, rowNumber, mapping.CategoryToRow(renamed)); err != nil {
		s.mu.Unlock()
		return 0, fmt.Errorf("%w: rename category: %v", apperrors.ErrPersistence, err)
	}
	s.flat[index] = renamed
	s.rebuild()
	s.mu.Unlock()

	// Cascade outside the lock: each expense update is an independent
	// optimistic mutation with its own rollback. One failure does not undo
	// the rename or the other cascaded updates.
	cascaded := 0
	for _, e := range s.expenses.Expenses() {
		if e.Category != oldName {
			continue
		}
		_, err := s.expenses.UpdateExpense(ctx, dto.UpdateExpenseRequest{
			ID:       e.ID,
			Amount:   e.Amount,
			Category: req.Name,
			Note:     e.Note,
			Date:     e.Date,
			BankID:   e.BankID,
		})
		if err != nil {
			s.LogError(ctx, err, "Cascade rename failed for expense", slog.Int64("expense_id", e.ID))
			continue
		}
		cascaded++
	}
	return cascaded, nil
}

func (s *categoryServiceImpl) DeleteCategory(ctx context.Context, id string) (dto.DeleteCategoryResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	index := -1
	for i, c := range s.flat {
		if c.ID == id {
			index = i
			break
		}
	}
	if index == -1 {
		return dto.DeleteCategoryResponse{Deleted: false, Reason: "category not found"}, nil
	}
	name := s.flat[index].Name

	// Usage check first, then children, matching the original's order.
	for _, e := range s.expenses.Expenses() {
		if e.Category == name {
			return dto.DeleteCategoryResponse{
				Deleted: false,
				Reason:  fmt.Sprintf("cannot delete category %q because it is used in expenses", name),
			}, nil
		}
	}
	for _, c := range s.flat {
		if c.ParentID == id {
			return dto.DeleteCategoryResponse{
				Deleted: false,
				Reason:  fmt.Sprintf("cannot delete category %q because it has sub-categories", name),
			}, nil
		}
	}

	rowNumber, err := s.findRowNumber(ctx, id)
	if err != nil {
		return dto.DeleteCategoryResponse{Deleted: false, Reason: "failed to persist delete"}, err
	}
	if err := s.tabular.DeleteRow(ctx, mapping.TableCategories, rowNumber); err != nil {
		return dto.DeleteCategoryResponse{Deleted: false, Reason: "failed to persist delete"},
			fmt.Errorf("%w: delete category: %v", apperrors.ErrPersistence, err)
	}
	s.flat = append(s.flat[:index], s.flat[index+1:]...)
	s.rebuild()
	return dto.DeleteCategoryResponse{Deleted: true}, nil
}

// findRowNumber scans the id column for the category, returning the
// 1-indexed header-inclusive row number the tabular contract expects.
func (s *categoryServiceImpl) findRowNumber(ctx context.Context, id string) (int, error) {
	rows, err := s.tabular.ListRows(ctx, mapping.TableCategories)
	if err != nil {
		return 0, fmt.Errorf("%w: find category row: %v", apperrors.ErrPersistence, err)
	}
	for i, row := range rows {
		if len(row) > 0 && row[0] == id {
			return i + 1, nil
		}
	}
	return 0, fmt.Errorf("category %s not in sheet: %w", id, apperrors.ErrNotFound)
}

func (s *categoryServiceImpl) ImportFromExpenses(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	known := make(map[string]struct{}, len(s.flat))
	for _, c := range s.flat {
		known[strings.ToLower(c.Name)] = struct{}{}
	}

	var records []domain.CategoryRecord
	for _, e := range s.expenses.Expenses() {
		if e.Category == "" {
			continue
		}
		if _, ok := known[strings.ToLower(e.Category)]; ok {
			continue
		}
		known[strings.ToLower(e.Category)] = struct{}{}
		records = append(records, domain.CategoryRecord{
			ID:   uuid.NewString(),
			Name: e.Category,
		})
	}
	if len(records) == 0 {
		return 0, nil
	}

	rows := make([]portsrepo.Row, 0, len(records))
	for _, r := range records {
		rows = append(rows, mapping.CategoryToRow(r))
	}
	if err := s.tabular.AppendRows(ctx, mapping.TableCategories, rows); err != nil {
		return 0, fmt.Errorf("%w: import categories: %v", apperrors.ErrPersistence, err)
	}
	s.flat = append(s.flat, records...)
	s.rebuild()
	return len(records), nil
}
