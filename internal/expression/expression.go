// Package expression holds the catalog of learnable expressions.
package expression

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var ErrUnknownCategory = errors.New("unknown category")

type Category string

const (
	CategoryAll          Category = "All"
	CategoryIdioms       Category = "Idioms"
	CategoryBusiness     Category = "Business"
	CategoryCasual       Category = "Casual"
	CategoryPhrasalVerbs Category = "Phrasal Verbs"
)

// Categories lists the categories an expression can belong to. CategoryAll is a filter only.
var Categories = []Category{
	CategoryIdioms,
	CategoryBusiness,
	CategoryCasual,
	CategoryPhrasalVerbs,
}

func (c Category) IsValid() bool {
	for _, category := range Categories {
		if c == category {
			return true
		}
	}
	return false
}

// ParseCategory is case-insensitive and also accepts slugs such as "phrasal-verbs".
func ParseCategory(value string) (Category, error) {
	normalized := strings.TrimSpace(value)
	if strings.EqualFold(normalized, string(CategoryAll)) {
		return CategoryAll, nil
	}
	for _, category := range Categories {
		if strings.EqualFold(normalized, string(category)) || normalized == ToID(string(category)) {
			return category, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownCategory, value)
}

// Expression is one learnable item. It is read-only once the catalog is loaded.
type Expression struct {
	ID         string   `yaml:"id" json:"id" validate:"required"`
	Expression string   `yaml:"expression" json:"expression" validate:"required"`
	Meaning    string   `yaml:"meaning" json:"meaning" validate:"required"`
	Category   Category `yaml:"category" json:"category" validate:"required,category"`
	Examples   []string `yaml:"examples" json:"examples" validate:"required,min=1,dive,required"`
}

var (
	nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]+`)
	trailingDashes  = regexp.MustCompile(`-+$`)
)

// ToID turns display text into the slug used as an expression id, e.g. "Break the ice" -> "break-the-ice".
func ToID(text string) string {
	id := nonAlphanumeric.ReplaceAllString(strings.ToLower(text), "-")
	return trailingDashes.ReplaceAllString(id, "")
}
