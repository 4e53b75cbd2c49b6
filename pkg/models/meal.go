package models

import (
	"time"

	"github.com/google/uuid"
)

// Meal is one logged meal with its macro breakdown.
type Meal struct {
	ID       uuid.UUID `json:"id"`
	UserID   uuid.UUID `json:"user_id"`
	Name     string    `json:"name"`
	Calories float64   `json:"calories"`
	Carbs    float64   `json:"carbs"`
	Protein  float64   `json:"protein"`
	Fat      float64   `json:"fat"`
	Fiber    float64   `json:"fiber"`
	EatenAt  time.Time `json:"eaten_at"`
}

// MacroTargets are a user's daily nutrition targets.
type MacroTargets struct {
	Calories float64 `json:"calories"`
	Carbs    float64 `json:"carbs"`
	Protein  float64 `json:"protein"`
	Fat      float64 `json:"fat"`
}

// DefaultMacroTargets are used when a user has not configured targets.
var DefaultMacroTargets = MacroTargets{
	Calories: 2000,
	Carbs:    250,
	Protein:  100,
	Fat:      70,
}

// MealRecommendation is one scored candidate from the recommender.
// Lower scores are better fits for the user's remaining daily targets.
type MealRecommendation struct {
	Recipe Recipe  `json:"recipe"`
	Score  float64 `json:"score"`
}
