package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/glucolog-health/glucolog-engine/pkg/apperrors"
	"github.com/glucolog-health/glucolog-engine/pkg/database"
	"github.com/glucolog-health/glucolog-engine/pkg/models"
)

// ServiceCredentialRepository defines the interface for provider API key storage.
// Keys are stored as encrypted TEXT - encryption/decryption is handled by the
// service layer. The proxy only ever reads; writes come from the admin surface.
type ServiceCredentialRepository interface {
	// GetActive retrieves the current credential for a service: the
	// active row with the most recent updated_at (then created_at).
	// When name is non-empty, only rows with that alias are considered.
	// Returns apperrors.ErrNotFound when no active row exists.
	GetActive(ctx context.Context, service, name string) (*models.ServiceCredential, error)

	// List retrieves all credentials, optionally filtered by service.
	List(ctx context.Context, service string) ([]*models.ServiceCredential, error)

	// Insert stores a new credential row.
	Insert(ctx context.Context, cred *models.ServiceCredential) error

	// Deactivate marks all active rows for (service, name) inactive.
	// Returns the number of rows deactivated.
	Deactivate(ctx context.Context, service, name string) (int64, error)
}

// serviceCredentialRepository implements ServiceCredentialRepository using PostgreSQL.
type serviceCredentialRepository struct {
	db *database.DB
}

// NewServiceCredentialRepository creates a new service credential repository.
func NewServiceCredentialRepository(db *database.DB) ServiceCredentialRepository {
	return &serviceCredentialRepository{db: db}
}

// GetActive retrieves the current credential for a service.
func (r *serviceCredentialRepository) GetActive(ctx context.Context, service, name string) (*models.ServiceCredential, error) {
	query := `
		SELECT id, service, name, encrypted_key, active, created_at, updated_at
		FROM engine_service_credentials
		WHERE service = $1 AND active = TRUE AND ($2 = '' OR name = $2)
		ORDER BY updated_at DESC, created_at DESC
		LIMIT 1`

	var cred models.ServiceCredential
	err := r.db.QueryRow(ctx, query, service, name).Scan(
		&cred.ID,
		&cred.Service,
		&cred.Name,
		&cred.EncryptedKey,
		&cred.Active,
		&cred.CreatedAt,
		&cred.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get credential: %w", err)
	}

	return &cred, nil
}

// List retrieves all credentials, optionally filtered by service.
func (r *serviceCredentialRepository) List(ctx context.Context, service string) ([]*models.ServiceCredential, error) {
	query := `
		SELECT id, service, name, encrypted_key, active, created_at, updated_at
		FROM engine_service_credentials
		WHERE ($1 = '' OR service = $1)
		ORDER BY service, updated_at DESC`

	rows, err := r.db.Query(ctx, query, service)
	if err != nil {
		return nil, fmt.Errorf("failed to list credentials: %w", err)
	}
	defer rows.Close()

	var creds []*models.ServiceCredential
	for rows.Next() {
		var cred models.ServiceCredential
		err := rows.Scan(
			&cred.ID,
			&cred.Service,
			&cred.Name,
			&cred.EncryptedKey,
			&cred.Active,
			&cred.CreatedAt,
			&cred.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan credential: %w", err)
		}
		creds = append(creds, &cred)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating credentials: %w", err)
	}

	return creds, nil
}

// Insert stores a new credential row.
func (r *serviceCredentialRepository) Insert(ctx context.Context, cred *models.ServiceCredential) error {
	now := time.Now()
	cred.CreatedAt = now
	cred.UpdatedAt = now

	query := `
		INSERT INTO engine_service_credentials (service, name, encrypted_key, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`

	err := r.db.QueryRow(ctx, query,
		cred.Service,
		cred.Name,
		cred.EncryptedKey,
		cred.Active,
		cred.CreatedAt,
		cred.UpdatedAt,
	).Scan(&cred.ID)
	if err != nil {
		return fmt.Errorf("failed to insert credential: %w", err)
	}

	return nil
}

// Deactivate marks all active rows for (service, name) inactive.
func (r *serviceCredentialRepository) Deactivate(ctx context.Context, service, name string) (int64, error) {
	query := `
		UPDATE engine_service_credentials
		SET active = FALSE, updated_at = $3
		WHERE service = $1 AND active = TRUE AND ($2 = '' OR name = $2)`

	result, err := r.db.Exec(ctx, query, service, name, time.Now())
	if err != nil {
		return 0, fmt.Errorf("failed to deactivate credentials: %w", err)
	}

	return result.RowsAffected(), nil
}

// Ensure serviceCredentialRepository implements ServiceCredentialRepository at compile time.
var _ ServiceCredentialRepository = (*serviceCredentialRepository)(nil)
