package mapping

import (
	"fmt"

	"github.com/lumina-tracker/lumina_backend/internal/core/domain"
	portsrepo "github.com/lumina-tracker/lumina_backend/internal/core/ports/repositories"
)

// The sheet has no empty-cell notion for "no parent"; the original data uses
// a literal NULL sentinel.
const nullParentSentinel = "NULL"

// CategoryToRow serializes a category record in CategoryHeader column order.
func CategoryToRow(c domain.CategoryRecord) portsrepo.Row {
	parent := c.ParentID
	if parent == "" {
		parent = nullParentSentinel
	}
	return portsrepo.Row{c.ID, c.Name, parent}
}

// CategoryFromRow parses one data row, mapping the NULL sentinel back to an
// empty ParentID.
func CategoryFromRow(row portsrepo.Row) (domain.CategoryRecord, error) {
	id := cell(row, 0)
	if id == "" {
		return domain.CategoryRecord{}, fmt.Errorf("category row: missing id")
	}
	parent := cell(row, 2)
	if parent == nullParentSentinel {
		parent = ""
	}
	return domain.CategoryRecord{
		ID:       id,
		Name:     cell(row, 1),
		ParentID: parent,
	}, nil
}
