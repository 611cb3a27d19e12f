package http

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"karyadi/internal/delivery/http/controllers"
	"karyadi/internal/delivery/http/middleware"
	"karyadi/internal/domain"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testUserID = "11111111-1111-4111-8111-111111111111"

type stubVerifier struct{}

func (stubVerifier) Verify(token string) (string, []string, error) {
	if token != "good" {
		return "", nil, errors.New("bad token")
	}
	return testUserID, []string{domain.RoleMember}, nil
}

type stubPinger struct{ err error }

func (p stubPinger) PingContext(context.Context) error { return p.err }

type stubProfiles struct {
	domain.ProfileService
	gotUser string
}

func (s *stubProfiles) GetProfile(_ context.Context, userID string) (*domain.Profile, error) {
	s.gotUser = userID
	return &domain.Profile{User: &domain.User{ID: userID}}, nil
}

func newTestRouter(t *testing.T, db Pinger, limiter *middleware.RateLimiter) (*http.ServeMux, *stubProfiles) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	profiles := &stubProfiles{}
	c := Controllers{
		Users:         controllers.NewUserController(logger, nil),
		Profiles:      controllers.NewProfileController(logger, profiles),
		Organizations: controllers.NewOrganizationController(logger, nil),
		Events:        controllers.NewEventController(logger, nil, nil),
		Agenda:        controllers.NewAgendaController(logger, nil, nil),
		Attendance:    controllers.NewAttendanceController(logger, nil),
		Jobs:          controllers.NewJobController(logger, nil),
		Applications:  controllers.NewApplicationController(logger, nil),
		Surveys:       controllers.NewSurveyController(logger, nil),
	}
	return NewRouter(c, stubVerifier{}, limiter, db, logger), profiles
}

func serve(h http.Handler, method, target, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestRouter_Auth(t *testing.T) {
	mux, profiles := newTestRouter(t, stubPinger{}, nil)

	rr := serve(mux, http.MethodGet, "/users/me/profile", "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = serve(mux, http.MethodGet, "/users/me/profile", "expired")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = serve(mux, http.MethodGet, "/users/me/profile", "good")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, testUserID, profiles.gotUser)
}

func TestRouter_OptionalAuth(t *testing.T) {
	mux, _ := newTestRouter(t, stubPinger{}, nil)

	// Anonymous requests reach the handler, which rejects the malformed id.
	rr := serve(mux, http.MethodGet, "/events/not-a-uuid", "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = serve(mux, http.MethodGet, "/events/not-a-uuid", "forged")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestRouter_MethodAndPathMatching(t *testing.T) {
	mux, _ := newTestRouter(t, stubPinger{}, nil)

	assert.Equal(t, http.StatusNotFound, serve(mux, http.MethodGet, "/nowhere", "").Code)
	assert.Equal(t, http.StatusMethodNotAllowed, serve(mux, http.MethodDelete, "/jobs", "").Code)
}

func TestRouter_AuthRateLimit(t *testing.T) {
	mux, _ := newTestRouter(t, stubPinger{}, middleware.NewRateLimiter(0.001, 1))

	login := func() int {
		req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{`))
		rr := httptest.NewRecorder()
		mux.ServeHTTP(rr, req)
		return rr.Code
	}
	assert.Equal(t, http.StatusBadRequest, login())
	assert.Equal(t, http.StatusTooManyRequests, login())
}

func TestRouter_Healthz(t *testing.T) {
	mux, _ := newTestRouter(t, stubPinger{}, nil)
	rr := serve(mux, http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"data":{"status":"ok"},"error":null}`, rr.Body.String())

	mux, _ = newTestRouter(t, stubPinger{err: errors.New("connection refused")}, nil)
	rr = serve(mux, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
}

func TestHandler_Chain(t *testing.T) {
	mux, _ := newTestRouter(t, stubPinger{}, nil)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := Handler(mux, []string{"http://app.karyadi.test"}, middleware.NewMetrics(prometheus.NewRegistry()), logger)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("Origin", "http://app.karyadi.test")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "http://app.karyadi.test", rr.Header().Get("Access-Control-Allow-Origin"))
}
