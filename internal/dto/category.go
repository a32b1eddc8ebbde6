package dto

// CreateCategoryRequest defines the data needed to create a category.
// ParentID is nil for a root category.
type CreateCategoryRequest struct {
	Name     string  `json:"name" binding:"required"`
	ParentID *string `json:"parentId"`
}

// UpdateCategoryRequest renames a category. The rename cascades to every
// expense whose category string equals the old name.
type UpdateCategoryRequest struct {
	Name string `json:"name" binding:"required"`
}

// DeleteCategoryResponse reports the outcome of a guarded delete. Deleted is
// false when the category is still referenced by expenses or has children;
// Reason then carries the user-facing explanation.
type DeleteCategoryResponse struct {
	Deleted bool   `json:"deleted"`
	Reason  string `json:"reason,omitempty"`
}

// ImportCategoriesResponse reports how many categories were created from
// expense category strings. Created == 0 means there was nothing to import.
type ImportCategoriesResponse struct {
	Created int `json:"created"`
}
