package models

import (
	"time"

	"github.com/google/uuid"
)

// ServiceCredential is a stored API key for an external provider.
// EncryptedKey holds the ivHex:tagHex:cipherHex ciphertext; decryption
// happens in the service layer and the plaintext never leaves it.
// Rotation inserts a new active row rather than updating in place, so
// the most-recently-updated active row is always the current key.
type ServiceCredential struct {
	ID           uuid.UUID `json:"id"`
	Service      string    `json:"service"`
	Name         string    `json:"name"` // optional alias, "" when unset
	EncryptedKey string    `json:"-"`    // never serialized
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
