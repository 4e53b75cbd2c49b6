package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/glucolog-health/glucolog-engine/pkg/apperrors"
	"github.com/glucolog-health/glucolog-engine/pkg/database"
	"github.com/glucolog-health/glucolog-engine/pkg/models"
)

// MealRepository defines the interface for meal and saved-recipe data access.
type MealRepository interface {
	// InsertMeal stores a logged meal.
	InsertMeal(ctx context.Context, meal *models.Meal) error

	// ListMealsBetween retrieves a user's meals in [from, to), oldest first.
	ListMealsBetween(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]*models.Meal, error)

	// SaveRecipe stores a recipe the user saved from the recipe provider.
	// Returns apperrors.ErrConflict when the recipe is already saved.
	SaveRecipe(ctx context.Context, userID uuid.UUID, recipe *models.Recipe) error

	// ListSavedRecipes retrieves the user's saved recipes, newest first.
	ListSavedRecipes(ctx context.Context, userID uuid.UUID) ([]*models.Recipe, error)
}

// mealRepository implements MealRepository using PostgreSQL.
type mealRepository struct {
	db *database.DB
}

// NewMealRepository creates a new meal repository.
func NewMealRepository(db *database.DB) MealRepository {
	return &mealRepository{db: db}
}

// InsertMeal stores a logged meal.
func (r *mealRepository) InsertMeal(ctx context.Context, meal *models.Meal) error {
	if meal.EatenAt.IsZero() {
		meal.EatenAt = time.Now()
	}

	query := `
		INSERT INTO engine_meals (user_id, name, calories, carbs, protein, fat, fiber, eaten_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`

	err := r.db.QueryRow(ctx, query,
		meal.UserID,
		meal.Name,
		meal.Calories,
		meal.Carbs,
		meal.Protein,
		meal.Fat,
		meal.Fiber,
		meal.EatenAt,
	).Scan(&meal.ID)
	if err != nil {
		return fmt.Errorf("failed to insert meal: %w", err)
	}

	return nil
}

// ListMealsBetween retrieves a user's meals in [from, to), oldest first.
func (r *mealRepository) ListMealsBetween(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]*models.Meal, error) {
	query := `
		SELECT id, user_id, name, calories, carbs, protein, fat, fiber, eaten_at
		FROM engine_meals
		WHERE user_id = $1 AND eaten_at >= $2 AND eaten_at < $3
		ORDER BY eaten_at ASC`

	rows, err := r.db.Query(ctx, query, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list meals: %w", err)
	}
	defer rows.Close()

	var meals []*models.Meal
	for rows.Next() {
		var meal models.Meal
		err := rows.Scan(
			&meal.ID,
			&meal.UserID,
			&meal.Name,
			&meal.Calories,
			&meal.Carbs,
			&meal.Protein,
			&meal.Fat,
			&meal.Fiber,
			&meal.EatenAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan meal: %w", err)
		}
		meals = append(meals, &meal)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating meals: %w", err)
	}

	return meals, nil
}

// SaveRecipe stores a recipe the user saved from the recipe provider.
func (r *mealRepository) SaveRecipe(ctx context.Context, userID uuid.UUID, recipe *models.Recipe) error {
	query := `
		INSERT INTO engine_saved_recipes (user_id, recipe_id, title, image, ready_in_minutes, servings,
			calories, carbs, protein, fat, fiber, sodium, sugar, category, difficulty, source_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`

	_, err := r.db.Exec(ctx, query,
		userID,
		recipe.ID,
		recipe.Title,
		recipe.Image,
		recipe.ReadyInMinutes,
		recipe.Servings,
		recipe.Calories,
		recipe.Carbs,
		recipe.Protein,
		recipe.Fat,
		recipe.Fiber,
		recipe.Sodium,
		recipe.Sugar,
		recipe.Category,
		recipe.Difficulty,
		recipe.SourceURL,
	)
	if err != nil {
		// Unique constraint violation (PostgreSQL error code 23505)
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return apperrors.ErrConflict
		}
		return fmt.Errorf("failed to save recipe: %w", err)
	}

	return nil
}

// ListSavedRecipes retrieves the user's saved recipes, newest first.
func (r *mealRepository) ListSavedRecipes(ctx context.Context, userID uuid.UUID) ([]*models.Recipe, error) {
	query := `
		SELECT recipe_id, title, image, ready_in_minutes, servings,
			calories, carbs, protein, fat, fiber, sodium, sugar, category, difficulty, source_url
		FROM engine_saved_recipes
		WHERE user_id = $1
		ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list saved recipes: %w", err)
	}
	defer rows.Close()

	var recipes []*models.Recipe
	for rows.Next() {
		var recipe models.Recipe
		err := rows.Scan(
			&recipe.ID,
			&recipe.Title,
			&recipe.Image,
			&recipe.ReadyInMinutes,
			&recipe.Servings,
			&recipe.Calories,
			&recipe.Carbs,
			&recipe.Protein,
			&recipe.Fat,
			&recipe.Fiber,
			&recipe.Sodium,
			&recipe.Sugar,
			&recipe.Category,
			&recipe.Difficulty,
			&recipe.SourceURL,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan saved recipe: %w", err)
		}
		recipes = append(recipes, &recipe)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating saved recipes: %w", err)
	}

	return recipes, nil
}

// Ensure mealRepository implements MealRepository at compile time.
var _ MealRepository = (*mealRepository)(nil)
