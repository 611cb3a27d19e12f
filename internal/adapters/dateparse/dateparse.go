// Package dateparse turns user supplied date filters into time values.
// It accepts RFC3339, plain YYYY-MM-DD and English expressions such as
// "tomorrow" or "next friday".
package dateparse

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
)

// ErrUnrecognized is returned when the input matches none of the supported forms.
var ErrUnrecognized = errors.New("unrecognized date")

// Parser parses date expressions relative to a reference clock.
type Parser struct {
	w   *when.Parser
	now func() time.Time
}

// New returns a Parser using the English and common rule sets.
func New() *Parser {
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)
	return &Parser{w: w, now: time.Now}
}

// Parse interprets s. Date-only inputs resolve to midnight UTC.
func (p *Parser) Parse(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, ErrUnrecognized
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, nil
	}
	res, err := p.w.Parse(s, p.now())
	if err != nil {
		return time.Time{}, fmt.Errorf("parse %q: %w", s, err)
	}
	if res == nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrUnrecognized, s)
	}
	return res.Time, nil
}
