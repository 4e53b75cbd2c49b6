// Package testhelpers provides utilities for testing glucolog-engine components.
package testhelpers

import (
	"encoding/base64"
	"fmt"
)

// GenerateTestJWT creates a test JWT token for use when verification is
// disabled. The token has a valid structure but no signature (alg: none).
// Role should be "authenticated" for regular users or "service_role" for
// admin access.
func GenerateTestJWT(sub, role, email string) string {
	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"none","typ":"JWT"}`))

	payload := fmt.Sprintf(`{"sub":"%s","role":"%s"`, sub, role)
	if email != "" {
		payload += fmt.Sprintf(`,"email":"%s"`, email)
	}
	payload += "}"

	encodedPayload := base64.RawURLEncoding.EncodeToString([]byte(payload))
	return fmt.Sprintf("%s.%s.", header, encodedPayload)
}

// GenerateTestJWTWithBearer returns the token with the "Bearer " prefix
// for the Authorization header.
func GenerateTestJWTWithBearer(sub, role, email string) string {
	return "Bearer " + GenerateTestJWT(sub, role, email)
}
