package helpers

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

// PathUUID returns the named path value when it is a valid UUID. Otherwise it writes
// a 400 and returns false.
func PathUUID(w http.ResponseWriter, r *http.Request, name string) (string, bool) {
	raw := r.PathValue(name)
	id, err := uuid.Parse(raw)
	if err != nil {
		WriteJSONError(w, http.StatusBadRequest, ErrCodeBadRequest, "invalid "+name)
		return "", false
	}
	return id.String(), true
}

// QueryUUID returns the named query parameter when it is empty or a valid UUID.
func QueryUUID(w http.ResponseWriter, r *http.Request, name string) (string, bool) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return "", true
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		WriteJSONError(w, http.StatusBadRequest, ErrCodeBadRequest, "invalid "+name)
		return "", false
	}
	return id.String(), true
}

// DateParser turns a query value into a time.
type DateParser interface {
	Parse(s string) (time.Time, error)
}

// QueryTime parses the named query parameter with p. An empty parameter yields nil.
func QueryTime(w http.ResponseWriter, r *http.Request, p DateParser, name string) (*time.Time, bool) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return nil, true
	}
	t, err := p.Parse(raw)
	if err != nil {
		WriteJSONError(w, http.StatusBadRequest, ErrCodeBadRequest, "invalid "+name+": "+err.Error())
		return nil, false
	}
	return &t, true
}
