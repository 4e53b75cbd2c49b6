package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCategoryTable(t *testing.T) {
	table, err := LoadCategoryTable()
	require.NoError(t, err)

	categories := table.All()
	require.NotEmpty(t, categories)

	keys := make(map[string]bool, len(categories))
	for _, c := range categories {
		assert.NotEmpty(t, c.Key)
		assert.NotEmpty(t, c.Label)
		assert.NotEmpty(t, c.Query)
		assert.False(t, keys[c.Key], "duplicate category key %q", c.Key)
		keys[c.Key] = true
	}

	for _, want := range []string{"diabetes", "nutrition", "exercise", "blood-pressure", "weight-loss", "mental-health"} {
		assert.True(t, keys[want], "missing category %q", want)
	}
}

func TestCategoryTable_Query(t *testing.T) {
	table, err := LoadCategoryTable()
	require.NoError(t, err)

	assert.Equal(t, "diabetes management tips blood sugar control", table.Query("diabetes"))

	fallback := table.Query("no-such-key")
	assert.Equal(t, "healthy living wellness tips", fallback)
	assert.Equal(t, fallback, table.Query(""))
}
