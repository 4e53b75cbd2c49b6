package services

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/glucolog-health/glucolog-engine/pkg/models"
)

//go:embed categories.yaml
var categoriesYAML []byte

// CategoryTable maps curated health topics to canonical search phrases.
type CategoryTable struct {
	categories []models.VideoCategory
	byKey      map[string]models.VideoCategory
	defaultQ   string
}

type categoryFile struct {
	Categories []struct {
		Key   string `yaml:"key"`
		Label string `yaml:"label"`
		Query string `yaml:"query"`
	} `yaml:"categories"`
	DefaultQuery string `yaml:"default_query"`
}

// LoadCategoryTable parses the embedded category table.
func LoadCategoryTable() (*CategoryTable, error) {
	var file categoryFile
	if err := yaml.Unmarshal(categoriesYAML, &file); err != nil {
		return nil, fmt.Errorf("failed to parse category table: %w", err)
	}
	if len(file.Categories) == 0 || file.DefaultQuery == "" {
		return nil, fmt.Errorf("category table is incomplete")
	}

	table := &CategoryTable{
		byKey:    make(map[string]models.VideoCategory, len(file.Categories)),
		defaultQ: file.DefaultQuery,
	}
	for _, c := range file.Categories {
		cat := models.VideoCategory{Key: c.Key, Label: c.Label, Query: c.Query}
		table.categories = append(table.categories, cat)
		table.byKey[c.Key] = cat
	}
	return table, nil
}

// Query returns the canonical search phrase for a category key. Unknown
// keys fall back to the generic default phrase rather than erroring.
func (t *CategoryTable) Query(key string) string {
	if cat, ok := t.byKey[key]; ok {
		return cat.Query
	}
	return t.defaultQ
}

// All returns the curated categories in declaration order.
func (t *CategoryTable) All() []models.VideoCategory {
	return t.categories
}
