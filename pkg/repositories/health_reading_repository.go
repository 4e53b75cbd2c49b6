package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/glucolog-health/glucolog-engine/pkg/database"
	"github.com/glucolog-health/glucolog-engine/pkg/models"
)

// HealthReadingRepository defines the interface for health reading data access.
type HealthReadingRepository interface {
	// Insert stores a new reading.
	Insert(ctx context.Context, reading *models.HealthReading) error

	// ListSince retrieves a user's readings of one kind recorded at or
	// after the given time, ordered oldest first.
	ListSince(ctx context.Context, userID uuid.UUID, kind string, since time.Time) ([]*models.HealthReading, error)
}

// healthReadingRepository implements HealthReadingRepository using PostgreSQL.
type healthReadingRepository struct {
	db *database.DB
}

// NewHealthReadingRepository creates a new health reading repository.
func NewHealthReadingRepository(db *database.DB) HealthReadingRepository {
	return &healthReadingRepository{db: db}
}

// Insert stores a new reading.
func (r *healthReadingRepository) Insert(ctx context.Context, reading *models.HealthReading) error {
	if reading.RecordedAt.IsZero() {
		reading.RecordedAt = time.Now()
	}

	query := `
		INSERT INTO engine_health_readings (user_id, kind, value, unit, recorded_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`

	err := r.db.QueryRow(ctx, query,
		reading.UserID,
		reading.Kind,
		reading.Value,
		reading.Unit,
		reading.RecordedAt,
	).Scan(&reading.ID)
	if err != nil {
		return fmt.Errorf("failed to insert reading: %w", err)
	}

	return nil
}

// ListSince retrieves a user's readings of one kind, oldest first.
func (r *healthReadingRepository) ListSince(ctx context.Context, userID uuid.UUID, kind string, since time.Time) ([]*models.HealthReading, error) {
	query := `
		SELECT id, user_id, kind, value, unit, recorded_at
		FROM engine_health_readings
		WHERE user_id = $1 AND kind = $2 AND recorded_at >= $3
		ORDER BY recorded_at ASC`

	rows, err := r.db.Query(ctx, query, userID, kind, since)
	if err != nil {
		return nil, fmt.Errorf("failed to list readings: %w", err)
	}
	defer rows.Close()

	var readings []*models.HealthReading
	for rows.Next() {
		var reading models.HealthReading
		err := rows.Scan(
			&reading.ID,
			&reading.UserID,
			&reading.Kind,
			&reading.Value,
			&reading.Unit,
			&reading.RecordedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan reading: %w", err)
		}
		readings = append(readings, &reading)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating readings: %w", err)
	}

	return readings, nil
}

// Ensure healthReadingRepository implements HealthReadingRepository at compile time.
var _ HealthReadingRepository = (*healthReadingRepository)(nil)
