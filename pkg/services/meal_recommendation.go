package services

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/glucolog-health/glucolog-engine/pkg/models"
	"github.com/glucolog-health/glucolog-engine/pkg/repositories"
)

// DefaultRecommendationLimit caps how many candidates are returned when
// the caller gives no limit.
const DefaultRecommendationLimit = 5

// MealRecommendationService scores the user's saved recipes against the
// macros still available in their daily targets.
type MealRecommendationService interface {
	// Recommend returns the best-fitting saved recipes for what remains
	// of the user's daily targets. targets nil falls back to
	// models.DefaultMacroTargets. Results are deterministically ordered
	// by score, then title.
	Recommend(ctx context.Context, userID uuid.UUID, targets *models.MacroTargets, limit int) ([]models.MealRecommendation, error)
}

type mealRecommendationService struct {
	repo   repositories.MealRepository
	logger *zap.Logger
	now    func() time.Time
}

// NewMealRecommendationService creates a new recommendation service.
func NewMealRecommendationService(repo repositories.MealRepository, logger *zap.Logger) MealRecommendationService {
	return &mealRecommendationService{
		repo:   repo,
		logger: logger,
		now:    time.Now,
	}
}

// Recommend returns the best-fitting saved recipes for the rest of today.
func (s *mealRecommendationService) Recommend(ctx context.Context, userID uuid.UUID, targets *models.MacroTargets, limit int) ([]models.MealRecommendation, error) {
	if targets == nil {
		t := models.DefaultMacroTargets
		targets = &t
	}
	if limit <= 0 {
		limit = DefaultRecommendationLimit
	}

	now := s.now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	meals, err := s.repo.ListMealsBetween(ctx, userID, dayStart, dayStart.AddDate(0, 0, 1))
	if err != nil {
		return nil, fmt.Errorf("failed to load today's meals: %w", err)
	}

	remaining := remainingTargets(targets, meals)

	candidates, err := s.repo.ListSavedRecipes(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load saved recipes: %w", err)
	}

	recs := make([]models.MealRecommendation, 0, len(candidates))
	for _, candidate := range candidates {
		recs = append(recs, models.MealRecommendation{
			Recipe: *candidate,
			Score:  fitScore(candidate, targets, remaining),
		})
	}

	sort.Slice(recs, func(i, j int) bool {
		if recs[i].Score != recs[j].Score {
			return recs[i].Score < recs[j].Score
		}
		return recs[i].Recipe.Title < recs[j].Recipe.Title
	})

	if len(recs) > limit {
		recs = recs[:limit]
	}
	return recs, nil
}

// remainingTargets subtracts today's logged meals from the daily targets,
// clamped at zero.
func remainingTargets(targets *models.MacroTargets, meals []*models.Meal) models.MacroTargets {
	remaining := *targets
	for _, m := range meals {
		remaining.Calories -= m.Calories
		remaining.Carbs -= m.Carbs
		remaining.Protein -= m.Protein
		remaining.Fat -= m.Fat
	}
	remaining.Calories = math.Max(remaining.Calories, 0)
	remaining.Carbs = math.Max(remaining.Carbs, 0)
	remaining.Protein = math.Max(remaining.Protein, 0)
	remaining.Fat = math.Max(remaining.Fat, 0)
	return remaining
}

// fitScore is the normalized absolute distance between a recipe's macros
// and the remaining targets. Lower is a better fit. Normalizing by the
// full daily target keeps the macros comparable.
func fitScore(r *models.Recipe, targets *models.MacroTargets, remaining models.MacroTargets) float64 {
	return math.Abs(float64(r.Calories)-remaining.Calories)/math.Max(targets.Calories, 1) +
		math.Abs(float64(r.Carbs)-remaining.Carbs)/math.Max(targets.Carbs, 1) +
		math.Abs(float64(r.Protein)-remaining.Protein)/math.Max(targets.Protein, 1) +
		math.Abs(float64(r.Fat)-remaining.Fat)/math.Max(targets.Fat, 1)
}

// Ensure mealRecommendationService implements MealRecommendationService at compile time.
var _ MealRecommendationService = (*mealRecommendationService)(nil)
