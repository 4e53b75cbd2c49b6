package services

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/glucolog-health/glucolog-engine/pkg/apperrors"
	"github.com/glucolog-health/glucolog-engine/pkg/crypto"
	"github.com/glucolog-health/glucolog-engine/pkg/repositories"
)

// KeyResolver resolves the decrypted provider API key for a service.
type KeyResolver interface {
	// ResolveKey returns the decrypted key for the newest active
	// credential of the service. Missing rows and decryption failures
	// both return apperrors.ErrKeyNotFound - callers cannot distinguish
	// an absent key from a corrupt one. The plaintext lives only in the
	// caller's request scope and is never logged.
	ResolveKey(ctx context.Context, service string) (string, error)
}

type keyResolver struct {
	repo      repositories.ServiceCredentialRepository
	encryptor *crypto.CredentialEncryptor
	logger    *zap.Logger
}

// NewKeyResolver creates a new key resolver. encryptionKey is the
// process-wide SERVICE_CREDENTIALS_KEY value.
func NewKeyResolver(
	repo repositories.ServiceCredentialRepository,
	encryptionKey string,
	logger *zap.Logger,
) (KeyResolver, error) {
	encryptor, err := crypto.NewCredentialEncryptor(encryptionKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create encryptor: %w", err)
	}

	return &keyResolver{
		repo:      repo,
		encryptor: encryptor,
		logger:    logger,
	}, nil
}

// ResolveKey returns the decrypted key for the newest active credential.
func (r *keyResolver) ResolveKey(ctx context.Context, service string) (string, error) {
	cred, err := r.repo.GetActive(ctx, service, "")
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			r.logger.Warn("No active credential for service",
				zap.String("service", service))
			return "", apperrors.ErrKeyNotFound
		}
		return "", fmt.Errorf("failed to look up credential: %w", err)
	}

	plainKey, err := r.encryptor.Decrypt(cred.EncryptedKey)
	if err != nil {
		// Collapsed to the same external outcome as a missing key so
		// callers can't probe whether a credential exists but is corrupt.
		r.logger.Error("Failed to decrypt stored credential",
			zap.String("service", service),
			zap.String("credential_id", cred.ID.String()),
			zap.Error(err))
		return "", apperrors.ErrKeyNotFound
	}

	if plainKey == "" {
		r.logger.Error("Stored credential decrypted to empty key",
			zap.String("service", service),
			zap.String("credential_id", cred.ID.String()))
		return "", apperrors.ErrKeyNotFound
	}

	return plainKey, nil
}

// Ensure keyResolver implements KeyResolver at compile time.
var _ KeyResolver = (*keyResolver)(nil)
