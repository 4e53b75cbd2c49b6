//go:build integration

package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glucolog-health/glucolog-engine/pkg/apperrors"
	"github.com/glucolog-health/glucolog-engine/pkg/models"
	"github.com/glucolog-health/glucolog-engine/pkg/testhelpers"
)

func TestMealRepository_InsertAndListBetween(t *testing.T) {
	engineDB := testhelpers.GetEngineDB(t)
	testhelpers.TruncateTables(t, engineDB.DB, "engine_meals")

	ctx := context.Background()
	repo := NewMealRepository(engineDB.DB)
	userID := uuid.New()

	now := time.Now().UTC()
	require.NoError(t, repo.InsertMeal(ctx, &models.Meal{
		UserID: userID, Name: "Breakfast", Calories: 400, EatenAt: now,
	}))
	require.NoError(t, repo.InsertMeal(ctx, &models.Meal{
		UserID: userID, Name: "Old Meal", Calories: 500, EatenAt: now.AddDate(0, 0, -2),
	}))

	meals, err := repo.ListMealsBetween(ctx, userID, now.Add(-time.Hour), now.Add(time.Hour))
	require.NoError(t, err)
	require.Len(t, meals, 1)
	assert.Equal(t, "Breakfast", meals[0].Name)
}

func TestMealRepository_SaveRecipeConflict(t *testing.T) {
	engineDB := testhelpers.GetEngineDB(t)
	testhelpers.TruncateTables(t, engineDB.DB, "engine_saved_recipes")

	ctx := context.Background()
	repo := NewMealRepository(engineDB.DB)
	userID := uuid.New()

	recipe := &models.Recipe{ID: 42, Title: "Lentil Soup"}
	require.NoError(t, repo.SaveRecipe(ctx, userID, recipe))

	err := repo.SaveRecipe(ctx, userID, recipe)
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	// A different user can save the same recipe.
	require.NoError(t, repo.SaveRecipe(ctx, uuid.New(), recipe))

	saved, err := repo.ListSavedRecipes(ctx, userID)
	require.NoError(t, err)
	require.Len(t, saved, 1)
	assert.Equal(t, "Lentil Soup", saved[0].Title)
}
