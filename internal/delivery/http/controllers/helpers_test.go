package controllers

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"karyadi/internal/delivery/http/helpers"
	"karyadi/internal/delivery/http/middleware"

	"github.com/stretchr/testify/require"
)

const (
	userID1  = "11111111-1111-4111-8111-111111111111"
	userID2  = "22222222-2222-4222-8222-222222222222"
	orgID1   = "33333333-3333-4333-8333-333333333333"
	eventID1 = "44444444-4444-4444-8444-444444444444"
	itemID1  = "55555555-5555-4555-8555-555555555555"
	jobID1   = "66666666-6666-4666-8666-666666666666"
	appID1   = "77777777-7777-4777-8777-777777777777"
	surveyID = "88888888-8888-4888-8888-888888888888"
)

type envelope[T any] struct {
	Data  T                 `json:"data"`
	Error *helpers.APIError `json:"error"`
}

type listData[T any] struct {
	Items      []T                    `json:"items"`
	Pagination helpers.PaginationMeta `json:"pagination"`
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
}

// newRequest builds a request authenticated as userID (anonymous when empty).
// pathValues are name/value pairs.
func newRequest(t *testing.T, method, target string, body any, userID string, pathValues ...string) *http.Request {
	t.Helper()
	var r io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		r = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, target, r)
	require.Zero(t, len(pathValues)%2)
	for i := 0; i < len(pathValues); i += 2 {
		req.SetPathValue(pathValues[i], pathValues[i+1])
	}
	if userID != "" {
		req = req.WithContext(middleware.SetUserID(req.Context(), userID))
	}
	return req
}

func decodeEnvelope[T any](t *testing.T, rr *httptest.ResponseRecorder) envelope[T] {
	t.Helper()
	var env envelope[T]
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&env))
	return env
}

func requireErrorCode(t *testing.T, rr *httptest.ResponseRecorder, status int, code string) string {
	t.Helper()
	require.Equal(t, status, rr.Code)
	env := decodeEnvelope[any](t, rr)
	require.NotNil(t, env.Error)
	require.Equal(t, code, env.Error.Code)
	return env.Error.Message
}

func strp(s string) *string { return &s }
