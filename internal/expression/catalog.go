package expression

import (
	"errors"
	"fmt"
	"slices"
)

var (
	ErrInvalidExpression = errors.New("invalid expression")
	ErrEmptyCatalog      = errors.New("expression catalog is empty")
)

// Catalog is the immutable list of expressions loaded at startup.
type Catalog struct {
	items []Expression
	index map[string]int
}

// NewCatalog validates items and indexes them by id. An item without an id
// gets ToID of its display text.
func NewCatalog(items []Expression) (*Catalog, error) {
	if len(items) == 0 {
		return nil, ErrEmptyCatalog
	}
	v, err := newCatalogValidator()
	if err != nil {
		return nil, fmt.Errorf("newCatalogValidator() > %w", err)
	}

	catalog := &Catalog{
		items: make([]Expression, 0, len(items)),
		index: make(map[string]int, len(items)),
	}
	for _, item := range items {
		if item.ID == "" {
			item.ID = ToID(item.Expression)
		}
		if err := v.check(item); err != nil {
			return nil, err
		}
		if _, ok := catalog.index[item.ID]; ok {
			return nil, fmt.Errorf("%w: duplicated id %s", ErrInvalidExpression, item.ID)
		}
		item.Examples = slices.Clone(item.Examples)
		catalog.index[item.ID] = len(catalog.items)
		catalog.items = append(catalog.items, item)
	}
	return catalog, nil
}

func (c *Catalog) Len() int {
	return len(c.items)
}

// Items returns every expression in catalog order
func (c *Catalog) Items() []Expression {
	return slices.Clone(c.items)
}

func (c *Catalog) Find(id string) (Expression, bool) {
	i, ok := c.index[id]
	if !ok {
		return Expression{}, false
	}
	return c.items[i], true
}

// Lookup resolves ids in order and skips the ones the catalog does not know.
func (c *Catalog) Lookup(ids []string) []Expression {
	result := make([]Expression, 0, len(ids))
	for _, id := range ids {
		if item, ok := c.Find(id); ok {
			result = append(result, item)
		}
	}
	return result
}

// FilterByCategories keeps the items in any of categories.
// No categories, or CategoryAll among them, keeps everything.
func (c *Catalog) FilterByCategories(categories []Category) []Expression {
	return FilterByCategories(c.items, categories)
}

func FilterByCategories(items []Expression, categories []Category) []Expression {
	if len(categories) == 0 || slices.Contains(categories, CategoryAll) {
		return slices.Clone(items)
	}
	result := make([]Expression, 0, len(items))
	for _, item := range items {
		if slices.Contains(categories, item.Category) {
			result = append(result, item)
		}
	}
	return result
}
