package domain

import "strings"

// CategoryRecord is the flat, persisted form of a category. ParentID is empty
// for root categories (the sheet stores the literal "NULL").
type CategoryRecord struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	ParentID string `json:"parentId,omitempty"`
}

// CategoryNode is a category with its computed children. Children are always
// rebuilt from the flat record set, never mutated independently.
type CategoryNode struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	ParentID string          `json:"parentId,omitempty"`
	Children []*CategoryNode `json:"children"`
}

// BuildCategoryTree converts flat records into a forest. A record whose
// ParentID resolves to a known node becomes that node's child, in input
// order. Records with a missing or dangling ParentID are treated as roots;
// dangling parents are tolerated on purpose, stale sheets must not break the
// tree.
func BuildCategoryTree(records []CategoryRecord) []*CategoryNode {
	nodes := make(map[string]*CategoryNode, len(records))
	for _, rec := range records {
		nodes[rec.ID] = &CategoryNode{
			ID:       rec.ID,
			Name:     rec.Name,
			ParentID: rec.ParentID,
			Children: []*CategoryNode{},
		}
	}

	forest := make([]*CategoryNode, 0, len(records))
	for _, rec := range records {
		if rec.ParentID != "" {
			if parent, ok := nodes[rec.ParentID]; ok {
				parent.Children = append(parent.Children, nodes[rec.ID])
				continue
			}
		}
		forest = append(forest, nodes[rec.ID])
	}
	return forest
}

// FindCategoryNode locates a node by id anywhere in the forest.
func FindCategoryNode(forest []*CategoryNode, id string) *CategoryNode {
	for _, node := range forest {
		if node.ID == id {
			return node
		}
		if found := FindCategoryNode(node.Children, id); found != nil {
			return found
		}
	}
	return nil
}

// DescendantNames collects the node's own name plus the names of every node
// reachable through child links. Expense filtering matches against this set
// because expenses store category names, not ids.
func DescendantNames(node *CategoryNode) map[string]struct{} {
	names := make(map[string]struct{})
	var collect func(n *CategoryNode)
	collect = func(n *CategoryNode) {
		names[n.Name] = struct{}{}
		for _, child := range n.Children {
			collect(child)
		}
	}
	collect(node)
	return names
}

// EqualFoldName reports whether two category names are equal under the
// case-insensitive comparison used for duplicate checks.
func EqualFoldName(a, b string) bool {
	return strings.EqualFold(a, b)
}
