package handler

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/takumi/fukubukuro/internal/middleware"
	"github.com/takumi/fukubukuro/internal/model"
	"golang.org/x/time/rate"
)

type mockHealthChecker struct {
	err error
}

func (m *mockHealthChecker) PingContext(ctx context.Context) error { return m.err }

func newTestRouter(t *testing.T, resolver middleware.SessionResolver) http.Handler {
	t.Helper()

	rl := middleware.NewRateLimiter(middleware.RateLimiterConfig{
		GeneralRate:     rate.Limit(1000),
		GeneralBurst:    1000,
		BookingRate:     rate.Limit(1000),
		BookingBurst:    1000,
		CleanupInterval: time.Minute,
	})
	t.Cleanup(rl.Stop)

	deps := &RouterDeps{
		SessionResolver:   resolver,
		CORSAllowedOrigin: "http://localhost:3000",
		RateLimiter:       rl,
		CSRFConfig:        middleware.CSRFConfig{},
		Logger:            slog.New(slog.NewJSONHandler(io.Discard, nil)),

		IdentityService: &mockIdentityService{},
		SessionService:  &mockSessionService{},
		AuthConfig:      testAuthConfig(),

		BagService:     &mockBagService{},
		BookingService: &mockBookingService{},

		HealthChecker: &mockHealthChecker{},
	}

	return NewRouter(deps)
}

type staticResolver struct {
	user *model.User
}

func (s *staticResolver) Resolve(ctx context.Context, token string) (*model.User, error) {
	if s.user != nil && token == "valid-token" {
		return s.user, nil
	}
	return nil, model.NewUnauthenticatedError()
}

func TestRouter_PublicRoutesDoNotRequireSession(t *testing.T) {
	router := newTestRouter(t, &staticResolver{})

	cases := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/bags"},
		{http.MethodGet, "/health"},
		{http.MethodGet, "/api/csrf-token"},
	}

	for _, tc := range cases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, nil)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			if w.Code == http.StatusUnauthorized {
				t.Errorf("%s %s returned 401, want public access", tc.method, tc.path)
			}
		})
	}
}

func TestRouter_ProtectedRoutesRequireSession(t *testing.T) {
	router := newTestRouter(t, &staticResolver{})

	cases := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/api/bags"},
		{http.MethodPatch, "/api/bags/1"},
		{http.MethodDelete, "/api/bags/1"},
		{http.MethodPost, "/api/bags/1/bookings"},
	}

	for _, tc := range cases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, nil)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			if w.Code != http.StatusUnauthorized {
				t.Errorf("status = %d, want %d", w.Code, http.StatusUnauthorized)
			}
		})
	}
}

// 有効なセッションがあってもCSRFトークンがなければ拒否される。
func TestRouter_StateChangingRequiresCSRFToken(t *testing.T) {
	user := &model.User{ID: 10, Name: "bakery", Role: model.RoleEstablishment}
	router := newTestRouter(t, &staticResolver{user: user})

	req := httptest.NewRequest(http.MethodPost, "/api/bags", nil)
	req.AddCookie(&http.Cookie{Name: "session_id", Value: "valid-token"})
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Errorf("status = %d, want %d", w.Code, http.StatusForbidden)
	}
}

func TestRouter_RequestIDHeaderIsSet(t *testing.T) {
	router := newTestRouter(t, &staticResolver{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Header().Get("X-Request-Id") == "" {
		t.Error("X-Request-Id header not set")
	}
}

func TestRouter_SecurityHeadersAreSet(t *testing.T) {
	router := newTestRouter(t, &staticResolver{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if got := w.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options = %q, want %q", got, "nosniff")
	}
	if got := w.Header().Get("X-Frame-Options"); got != "DENY" {
		t.Errorf("X-Frame-Options = %q, want %q", got, "DENY")
	}
}
