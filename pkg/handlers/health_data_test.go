package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/glucolog-health/glucolog-engine/pkg/auth"
	"github.com/glucolog-health/glucolog-engine/pkg/models"
)

// stubAuthService implements auth.AuthService, authenticating every
// request as the configured subject.
type stubAuthService struct {
	subject string
	role    string
	err     error
}

func (s *stubAuthService) ValidateRequest(_ *http.Request) (*auth.Claims, string, error) {
	if s.err != nil {
		return nil, "", s.err
	}
	return &auth.Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: s.subject},
		Role:             s.role,
	}, "token", nil
}

func (s *stubAuthService) RequireServiceRole(claims *auth.Claims) error {
	if claims.Role != auth.RoleServiceRole {
		return auth.ErrNotServiceRole
	}
	return nil
}

func authMiddlewareFor(userID uuid.UUID, role string) *auth.Middleware {
	return auth.NewMiddleware(&stubAuthService{subject: userID.String(), role: role}, zap.NewNop())
}

// mockReadingRepo implements repositories.HealthReadingRepository for testing.
type mockReadingRepo struct {
	readings []*models.HealthReading
}

func (m *mockReadingRepo) Insert(_ context.Context, reading *models.HealthReading) error {
	reading.ID = uuid.New()
	reading.RecordedAt = time.Now()
	m.readings = append(m.readings, reading)
	return nil
}

func (m *mockReadingRepo) ListSince(_ context.Context, _ uuid.UUID, _ string, _ time.Time) ([]*models.HealthReading, error) {
	return m.readings, nil
}

// mockAggregation implements services.HealthAggregationService for testing.
type mockAggregation struct {
	summary  *models.HealthSummary
	lastDays int
}

func (m *mockAggregation) Summarize(_ context.Context, userID uuid.UUID, days int) (*models.HealthSummary, error) {
	m.lastDays = days
	if m.summary != nil {
		return m.summary, nil
	}
	return &models.HealthSummary{UserID: userID, Days: days}, nil
}

func TestHealthDataHandler_CreateReading(t *testing.T) {
	userID := uuid.New()
	repo := &mockReadingRepo{}
	handler := NewHealthDataHandler(repo, &mockAggregation{}, authMiddlewareFor(userID, auth.RoleAuthenticated), zap.NewNop())

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)

	req := httptest.NewRequest(http.MethodPost, "/api/health/readings",
		strings.NewReader(`{"kind":"glucose","value":112.5,"unit":"mg/dL"}`))
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusCreated, rr.Code)
	require.Len(t, repo.readings, 1)
	assert.Equal(t, userID, repo.readings[0].UserID)
	assert.Equal(t, "glucose", repo.readings[0].Kind)
	assert.Equal(t, 112.5, repo.readings[0].Value)
}

func TestHealthDataHandler_CreateReading_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"bad json", `{"kind":`},
		{"unknown kind", `{"kind":"cholesterol","value":10}`},
		{"zero value", `{"kind":"glucose","value":0}`},
		{"negative value", `{"kind":"glucose","value":-5}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockReadingRepo{}
			handler := NewHealthDataHandler(repo, &mockAggregation{}, authMiddlewareFor(uuid.New(), auth.RoleAuthenticated), zap.NewNop())

			mux := http.NewServeMux()
			handler.RegisterRoutes(mux)

			req := httptest.NewRequest(http.MethodPost, "/api/health/readings", strings.NewReader(tt.body))
			rr := httptest.NewRecorder()
			mux.ServeHTTP(rr, req)

			assert.Equal(t, http.StatusBadRequest, rr.Code)
			assert.Empty(t, repo.readings)
		})
	}
}

func TestHealthDataHandler_RequiresAuth(t *testing.T) {
	mw := auth.NewMiddleware(&stubAuthService{err: auth.ErrMissingAuthorization}, zap.NewNop())
	handler := NewHealthDataHandler(&mockReadingRepo{}, &mockAggregation{}, mw, zap.NewNop())

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)

	req := httptest.NewRequest(http.MethodGet, "/api/health/summary", nil)
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestHealthDataHandler_Summary(t *testing.T) {
	agg := &mockAggregation{}
	handler := NewHealthDataHandler(&mockReadingRepo{}, agg, authMiddlewareFor(uuid.New(), auth.RoleAuthenticated), zap.NewNop())

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)

	req := httptest.NewRequest(http.MethodGet, "/api/health/summary?days=7", nil)
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 7, agg.lastDays)
}

func TestHealthDataHandler_Summary_BadDays(t *testing.T) {
	handler := NewHealthDataHandler(&mockReadingRepo{}, &mockAggregation{}, authMiddlewareFor(uuid.New(), auth.RoleAuthenticated), zap.NewNop())

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)

	req := httptest.NewRequest(http.MethodGet, "/api/health/summary?days=soon", nil)
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
