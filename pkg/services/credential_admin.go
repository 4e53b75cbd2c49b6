package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/glucolog-health/glucolog-engine/pkg/crypto"
	"github.com/glucolog-health/glucolog-engine/pkg/models"
	"github.com/glucolog-health/glucolog-engine/pkg/repositories"
)

// CredentialAdminService manages provider API keys on behalf of
// administrators. The proxy itself never writes credentials.
type CredentialAdminService interface {
	// Rotate encrypts and stores a new active key for the service.
	// Rotation inserts a new row; the resolver's newest-first selection
	// makes it current immediately. Old rows stay for audit.
	Rotate(ctx context.Context, service, name, plainKey string) (*models.ServiceCredential, error)

	// Deactivate marks all active keys for (service, name) inactive.
	Deactivate(ctx context.Context, service, name string) (int64, error)

	// List returns stored credentials (encrypted keys are not exposed).
	List(ctx context.Context, service string) ([]*models.ServiceCredential, error)
}

type credentialAdminService struct {
	repo      repositories.ServiceCredentialRepository
	encryptor *crypto.CredentialEncryptor
	logger    *zap.Logger
}

// NewCredentialAdminService creates a new credential admin service.
// encryptionKey is the process-wide SERVICE_CREDENTIALS_KEY value.
func NewCredentialAdminService(
	repo repositories.ServiceCredentialRepository,
	encryptionKey string,
	logger *zap.Logger,
) (CredentialAdminService, error) {
	encryptor, err := crypto.NewCredentialEncryptor(encryptionKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create encryptor: %w", err)
	}

	return &credentialAdminService{
		repo:      repo,
		encryptor: encryptor,
		logger:    logger,
	}, nil
}

// Rotate encrypts and stores a new active key for the service.
func (s *credentialAdminService) Rotate(ctx context.Context, service, name, plainKey string) (*models.ServiceCredential, error) {
	if !models.IsValidService(service) {
		return nil, fmt.Errorf("unsupported service %q", service)
	}
	if plainKey == "" {
		return nil, fmt.Errorf("key must not be empty")
	}

	encrypted, err := s.encryptor.Encrypt(plainKey)
	if err != nil {
		return nil, fmt.Errorf("failed to encrypt key: %w", err)
	}

	cred := &models.ServiceCredential{
		Service:      service,
		Name:         name,
		EncryptedKey: encrypted,
		Active:       true,
	}
	if err := s.repo.Insert(ctx, cred); err != nil {
		return nil, fmt.Errorf("failed to store credential: %w", err)
	}

	s.logger.Info("Rotated service credential",
		zap.String("service", service),
		zap.String("name", name),
		zap.String("credential_id", cred.ID.String()))

	return cred, nil
}

// Deactivate marks all active keys for (service, name) inactive.
func (s *credentialAdminService) Deactivate(ctx context.Context, service, name string) (int64, error) {
	if !models.IsValidService(service) {
		return 0, fmt.Errorf("unsupported service %q", service)
	}

	count, err := s.repo.Deactivate(ctx, service, name)
	if err != nil {
		return 0, fmt.Errorf("failed to deactivate credentials: %w", err)
	}

	s.logger.Info("Deactivated service credentials",
		zap.String("service", service),
		zap.String("name", name),
		zap.Int64("count", count))

	return count, nil
}

// List returns stored credentials. EncryptedKey is json:"-" on the model,
// so listings never leak ciphertext either.
func (s *credentialAdminService) List(ctx context.Context, service string) ([]*models.ServiceCredential, error) {
	creds, err := s.repo.List(ctx, service)
	if err != nil {
		return nil, fmt.Errorf("failed to list credentials: %w", err)
	}
	return creds, nil
}

// Ensure credentialAdminService implements CredentialAdminService at compile time.
var _ CredentialAdminService = (*credentialAdminService)(nil)
