package models

import (
	"time"

	"github.com/google/uuid"
)

// Reading kinds tracked by the mobile app.
const (
	ReadingGlucose   = "glucose"
	ReadingSystolic  = "systolic"
	ReadingDiastolic = "diastolic"
	ReadingWeight    = "weight"
)

// ValidReadingKinds contains all supported reading kinds.
var ValidReadingKinds = []string{ReadingGlucose, ReadingSystolic, ReadingDiastolic, ReadingWeight}

// IsValidReadingKind checks if the given kind is supported.
func IsValidReadingKind(kind string) bool {
	for _, k := range ValidReadingKinds {
		if k == kind {
			return true
		}
	}
	return false
}

// HealthReading is one logged measurement (blood sugar, blood pressure
// component, or weight) belonging to a user.
type HealthReading struct {
	ID         uuid.UUID `json:"id"`
	UserID     uuid.UUID `json:"user_id"`
	Kind       string    `json:"kind"`
	Value      float64   `json:"value"`
	Unit       string    `json:"unit"` // "mg/dL", "mmHg", "kg"
	RecordedAt time.Time `json:"recorded_at"`
}

// Trend directions reported by the health summary.
const (
	TrendRising  = "rising"
	TrendFalling = "falling"
	TrendStable  = "stable"
)

// KindSummary aggregates one reading kind over a summary window.
type KindSummary struct {
	Kind        string  `json:"kind"`
	Count       int     `json:"count"`
	Mean        float64 `json:"mean"`
	Min         float64 `json:"min"`
	Max         float64 `json:"max"`
	Trend       string  `json:"trend"`
	TimeInRange float64 `json:"time_in_range,omitempty"` // glucose only, percent
}

// HealthSummary is the aggregation result for one user and window.
type HealthSummary struct {
	UserID   uuid.UUID     `json:"user_id"`
	Days     int           `json:"days"`
	Readings []KindSummary `json:"readings"`
}
