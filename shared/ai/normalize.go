package ai

import (
	"creator-stack/internal/models"
)

// Normalized is a Tree in canonical shape for its category: wrapped schemas
// carry their fields under the category key.
type Normalized struct {
	Category  models.Category
	Tree      Tree
	Rewrapped bool
}

// Normalize reconciles the flat and wrapped shapes a model may return. When
// every field of a wrapped schema sits at the top level, the fields are moved
// under the category key; otherwise the tree is passed through unchanged.
// Fields belonging to a different category are not repaired here.
func Normalize(tree Tree, category models.Category) (Normalized, error) {
	schema, err := SchemaFor(category)
	if err != nil {
		return Normalized{}, err
	}
	if tree == nil {
		tree = Tree{}
	}
	if !schema.Wrapped {
		return Normalized{Category: category, Tree: tree}, nil
	}

	names := schema.FieldNames()
	for _, name := range names {
		if v, ok := tree[name]; !ok || v == nil {
			return Normalized{Category: category, Tree: tree}, nil
		}
	}

	inner := make(map[string]any, len(names))
	for _, name := range names {
		inner[name] = tree[name]
	}
	return Normalized{
		Category:  category,
		Tree:      Tree{string(category): inner},
		Rewrapped: true,
	}, nil
}
