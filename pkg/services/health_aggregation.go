package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/glucolog-health/glucolog-engine/pkg/models"
	"github.com/glucolog-health/glucolog-engine/pkg/repositories"
)

// Glucose readings inside [70, 180] mg/dL count as in range.
const (
	glucoseRangeLow  = 70.0
	glucoseRangeHigh = 180.0
)

// trendBand is the relative band around the older mean inside which the
// trend reports stable.
const trendBand = 0.05

// DefaultSummaryDays is used when the caller gives no window.
const DefaultSummaryDays = 30

// HealthAggregationService summarizes a user's logged readings.
type HealthAggregationService interface {
	// Summarize aggregates the user's readings over the trailing window.
	// Kinds with no readings in the window are omitted.
	Summarize(ctx context.Context, userID uuid.UUID, days int) (*models.HealthSummary, error)
}

type healthAggregationService struct {
	repo   repositories.HealthReadingRepository
	logger *zap.Logger
}

// NewHealthAggregationService creates a new aggregation service.
func NewHealthAggregationService(repo repositories.HealthReadingRepository, logger *zap.Logger) HealthAggregationService {
	return &healthAggregationService{repo: repo, logger: logger}
}

// Summarize aggregates the user's readings over the trailing window.
func (s *healthAggregationService) Summarize(ctx context.Context, userID uuid.UUID, days int) (*models.HealthSummary, error) {
	if days <= 0 {
		days = DefaultSummaryDays
	}
	since := time.Now().AddDate(0, 0, -days)

	summary := &models.HealthSummary{
		UserID: userID,
		Days:   days,
	}

	for _, kind := range models.ValidReadingKinds {
		readings, err := s.repo.ListSince(ctx, userID, kind, since)
		if err != nil {
			return nil, fmt.Errorf("failed to load %s readings: %w", kind, err)
		}
		if len(readings) == 0 {
			continue
		}
		summary.Readings = append(summary.Readings, summarizeKind(kind, readings))
	}

	return summary, nil
}

// summarizeKind computes the aggregate for one reading kind. readings
// must be ordered oldest first.
func summarizeKind(kind string, readings []*models.HealthReading) models.KindSummary {
	ks := models.KindSummary{
		Kind:  kind,
		Count: len(readings),
		Min:   readings[0].Value,
		Max:   readings[0].Value,
	}

	var sum float64
	var inRange int
	for _, r := range readings {
		sum += r.Value
		if r.Value < ks.Min {
			ks.Min = r.Value
		}
		if r.Value > ks.Max {
			ks.Max = r.Value
		}
		if r.Value >= glucoseRangeLow && r.Value <= glucoseRangeHigh {
			inRange++
		}
	}
	ks.Mean = sum / float64(len(readings))
	ks.Trend = trendOf(readings)

	if kind == models.ReadingGlucose {
		ks.TimeInRange = 100 * float64(inRange) / float64(len(readings))
	}

	return ks
}

// trendOf compares the mean of the older half of the window against the
// newer half. Movement within ±5% of the older mean reports stable.
func trendOf(readings []*models.HealthReading) string {
	if len(readings) < 2 {
		return models.TrendStable
	}

	mid := len(readings) / 2
	older := meanOf(readings[:mid])
	newer := meanOf(readings[mid:])

	switch {
	case newer > older*(1+trendBand):
		return models.TrendRising
	case newer < older*(1-trendBand):
		return models.TrendFalling
	default:
		return models.TrendStable
	}
}

func meanOf(readings []*models.HealthReading) float64 {
	var sum float64
	for _, r := range readings {
		sum += r.Value
	}
	return sum / float64(len(readings))
}

// Ensure healthAggregationService implements HealthAggregationService at compile time.
var _ HealthAggregationService = (*healthAggregationService)(nil)
