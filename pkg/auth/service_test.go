package auth

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// mockJWKSClient implements JWKSClientInterface for testing.
type mockJWKSClient struct {
	claims *Claims
	err    error
	tokens []string
}

func (m *mockJWKSClient) ValidateToken(tokenString string) (*Claims, error) {
	m.tokens = append(m.tokens, tokenString)
	if m.err != nil {
		return nil, m.err
	}
	return m.claims, nil
}

func (m *mockJWKSClient) Close() {}

func authenticatedClaims(sub, role string) *Claims {
	return &Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: sub},
		Role:             role,
	}
}

func TestAuthService_ValidateRequest(t *testing.T) {
	jwks := &mockJWKSClient{claims: authenticatedClaims("user-1", RoleAuthenticated)}
	svc := NewAuthService(jwks, zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/api/health/summary", nil)
	req.Header.Set("Authorization", "Bearer token123")

	claims, token, err := svc.ValidateRequest(req)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, "token123", token)
	assert.Equal(t, []string{"token123"}, jwks.tokens)
}

func TestAuthService_MissingHeader(t *testing.T) {
	svc := NewAuthService(&mockJWKSClient{}, zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/api/health/summary", nil)
	_, _, err := svc.ValidateRequest(req)
	assert.ErrorIs(t, err, ErrMissingAuthorization)
}

func TestAuthService_BadHeaderFormat(t *testing.T) {
	svc := NewAuthService(&mockJWKSClient{}, zap.NewNop())

	for _, header := range []string{"token123", "Basic dXNlcjpwYXNz", "Bearer"} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", header)
		_, _, err := svc.ValidateRequest(req)
		assert.ErrorIs(t, err, ErrInvalidAuthFormat, header)
	}
}

func TestAuthService_InvalidToken(t *testing.T) {
	jwks := &mockJWKSClient{err: errors.New("token expired")}
	svc := NewAuthService(jwks, zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer expired")
	_, _, err := svc.ValidateRequest(req)
	assert.Error(t, err)
}

func TestAuthService_RequireServiceRole(t *testing.T) {
	svc := NewAuthService(&mockJWKSClient{}, zap.NewNop())

	assert.NoError(t, svc.RequireServiceRole(authenticatedClaims("admin", RoleServiceRole)))
	assert.ErrorIs(t, svc.RequireServiceRole(authenticatedClaims("user", RoleAuthenticated)), ErrNotServiceRole)
	assert.ErrorIs(t, svc.RequireServiceRole(authenticatedClaims("anon", "")), ErrNotServiceRole)
}
