package middleware

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"eventhub/internal/delivery/http/helpers"
	"eventhub/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTokenVerifier implements domain.TokenVerifier for tests.
type fakeTokenVerifier struct {
	claims *domain.Claims
	err    error
}

func (f *fakeTokenVerifier) Verify(_ string) (*domain.Claims, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.claims, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestRequireAuth(t *testing.T) {
	valid := &fakeTokenVerifier{claims: &domain.Claims{SubjectID: "user-123", Role: domain.RoleParticipant}}

	tests := []struct {
		name        string
		authHeader  string
		verifier    domain.TokenVerifier
		wantStatus  int
		wantMessage string
		nextCalled  bool
	}{
		{
			name:       "valid token sets context and calls next",
			authHeader: "Bearer valid-token",
			verifier:   valid,
			wantStatus: http.StatusOK,
			nextCalled: true,
		},
		{
			name:        "missing authorization header",
			verifier:    valid,
			wantStatus:  http.StatusUnauthorized,
			wantMessage: "Unauthorized",
		},
		{
			name:        "no Bearer prefix",
			authHeader:  "Basic abc",
			verifier:    valid,
			wantStatus:  http.StatusUnauthorized,
			wantMessage: "Unauthorized",
		},
		{
			name:        "empty token after Bearer",
			authHeader:  "Bearer   ",
			verifier:    valid,
			wantStatus:  http.StatusUnauthorized,
			wantMessage: "Unauthorized",
		},
		{
			name:        "verifier rejects token",
			authHeader:  "Bearer expired-token",
			verifier:    &fakeTokenVerifier{err: domain.ErrInvalidToken},
			wantStatus:  http.StatusForbidden,
			wantMessage: "Forbidden",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nextCalled := false
			var captured *domain.Claims
			next := func(w http.ResponseWriter, r *http.Request) {
				nextCalled = true
				captured, _ = ClaimsFromContext(r.Context())
				w.WriteHeader(http.StatusOK)
			}
			handler := RequireAuth(tt.verifier, testLogger())(next)

			req := httptest.NewRequest(http.MethodGet, "http://test/events", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rr := httptest.NewRecorder()
			handler(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code, "status code")
			assert.Equal(t, tt.nextCalled, nextCalled, "next handler called")
			if tt.nextCalled {
				assert.Equal(t, "user-123", captured.SubjectID)
				return
			}
			var body helpers.ErrorResponse
			require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
			assert.Equal(t, tt.wantMessage, body.Message)
		})
	}
}

func TestRequireRole(t *testing.T) {
	tests := []struct {
		name       string
		claims     *domain.Claims
		wantStatus int
	}{
		{name: "organizer allowed", claims: &domain.Claims{SubjectID: "o", Role: domain.RoleOrganizer}, wantStatus: http.StatusOK},
		{name: "participant forbidden", claims: &domain.Claims{SubjectID: "p", Role: domain.RoleParticipant}, wantStatus: http.StatusForbidden},
		{name: "no claims forbidden", wantStatus: http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := RequireRole(domain.RoleOrganizer, testLogger())(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			})
			req := httptest.NewRequest(http.MethodPost, "/events", nil)
			if tt.claims != nil {
				req = req.WithContext(SetClaims(req.Context(), tt.claims))
			}
			rr := httptest.NewRecorder()
			handler(rr, req)
			assert.Equal(t, tt.wantStatus, rr.Code)
		})
	}
}
