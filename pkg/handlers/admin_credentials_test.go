package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/glucolog-health/glucolog-engine/pkg/auth"
	"github.com/glucolog-health/glucolog-engine/pkg/models"
)

// mockCredentialAdmin implements services.CredentialAdminService for testing.
type mockCredentialAdmin struct {
	rotated     []string
	deactivated int64
	creds       []*models.ServiceCredential
}

func (m *mockCredentialAdmin) Rotate(_ context.Context, service, name, plainKey string) (*models.ServiceCredential, error) {
	m.rotated = append(m.rotated, plainKey)
	return &models.ServiceCredential{
		ID:      uuid.New(),
		Service: service,
		Name:    name,
		Active:  true,
	}, nil
}

func (m *mockCredentialAdmin) Deactivate(_ context.Context, _, _ string) (int64, error) {
	return m.deactivated, nil
}

func (m *mockCredentialAdmin) List(_ context.Context, _ string) ([]*models.ServiceCredential, error) {
	return m.creds, nil
}

func adminMux(t *testing.T, admin *mockCredentialAdmin, role string) *http.ServeMux {
	t.Helper()
	handler := NewAdminCredentialsHandler(admin, authMiddlewareFor(uuid.New(), role), zap.NewNop())
	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)
	return mux
}

func TestAdminCredentials_Rotate(t *testing.T) {
	admin := &mockCredentialAdmin{}
	mux := adminMux(t, admin, auth.RoleServiceRole)

	req := httptest.NewRequest(http.MethodPost, "/admin/service-credentials",
		strings.NewReader(`{"service":"youtube","key":"fresh-key"}`))
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, []string{"fresh-key"}, admin.rotated)

	// The response must not echo key material.
	var body map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.NotContains(t, rr.Body.String(), "fresh-key")
	assert.NotContains(t, body, "encrypted_key")
}

func TestAdminCredentials_Rotate_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing key", `{"service":"youtube"}`},
		{"unknown service", `{"service":"netflix","key":"k"}`},
		{"bad json", `{"service":`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			admin := &mockCredentialAdmin{}
			mux := adminMux(t, admin, auth.RoleServiceRole)

			req := httptest.NewRequest(http.MethodPost, "/admin/service-credentials", strings.NewReader(tt.body))
			rr := httptest.NewRecorder()
			mux.ServeHTTP(rr, req)

			assert.Equal(t, http.StatusBadRequest, rr.Code)
			assert.Empty(t, admin.rotated)
		})
	}
}

// Admin routes are closed to regular authenticated users.
func TestAdminCredentials_ForbiddenForAuthenticatedRole(t *testing.T) {
	admin := &mockCredentialAdmin{}
	mux := adminMux(t, admin, auth.RoleAuthenticated)

	req := httptest.NewRequest(http.MethodPost, "/admin/service-credentials",
		strings.NewReader(`{"service":"youtube","key":"k"}`))
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.Empty(t, admin.rotated)
}

func TestAdminCredentials_Deactivate(t *testing.T) {
	admin := &mockCredentialAdmin{deactivated: 2}
	mux := adminMux(t, admin, auth.RoleServiceRole)

	req := httptest.NewRequest(http.MethodDelete, "/admin/service-credentials?service=youtube", nil)
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, float64(2), body["deactivated"])
}

func TestAdminCredentials_Deactivate_UnknownService(t *testing.T) {
	mux := adminMux(t, &mockCredentialAdmin{}, auth.RoleServiceRole)

	req := httptest.NewRequest(http.MethodDelete, "/admin/service-credentials?service=netflix", nil)
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestAdminCredentials_List(t *testing.T) {
	admin := &mockCredentialAdmin{creds: []*models.ServiceCredential{
		{ID: uuid.New(), Service: models.ServiceVideo, EncryptedKey: "aa:bb:cc", Active: true},
	}}
	mux := adminMux(t, admin, auth.RoleServiceRole)

	req := httptest.NewRequest(http.MethodGet, "/admin/service-credentials", nil)
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	// EncryptedKey is json:"-" on the model; ciphertext never leaves.
	assert.NotContains(t, rr.Body.String(), "aa:bb:cc")
}
