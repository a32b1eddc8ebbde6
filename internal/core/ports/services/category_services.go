package services

import (
	"context"

	"github.com/lumina-tracker/lumina_backend/internal/core/domain"
	"github.com/lumina-tracker/lumina_backend/internal/dto"
)

// CategorySvcFacade maintains the hierarchical category taxonomy: a flat
// persisted record list from which the tree is rebuilt after every change.
type CategorySvcFacade interface {
	Init(ctx context.Context) error

	Tree() []*domain.CategoryNode
	SubscribeTree(fn func([]*domain.CategoryNode)) func()
	Records() []domain.CategoryRecord

	// AddCategory is a silent no-op when a category with the same
	// case-insensitive name already exists under the same parent.
	AddCategory(ctx context.Context, req dto.CreateCategoryRequest) error
	// UpdateCategory renames the category and cascades the new name to
	// every expense referencing the old one. Each cascaded update fails
	// independently; the count of successfully cascaded expenses is
	// returned alongside any rename error.
	UpdateCategory(ctx context.Context, id string, req dto.UpdateCategoryRequest) (int, error)
	// DeleteCategory returns a structured rejection (not an error) when
	// the category is referenced by expenses or has children. The error is
	// reserved for persistence failures.
	DeleteCategory(ctx context.Context, id string) (dto.DeleteCategoryResponse, error)
	// ImportFromExpenses creates a root category for every distinct
	// expense category string not yet known, returning the count created.
	ImportFromExpenses(ctx context.Context) (int, error)
}
