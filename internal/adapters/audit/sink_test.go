package audit

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"karyadi/internal/domain"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

type recorder struct {
	mu     sync.Mutex
	events []*domain.AuditEvent
	block  chan struct{}
	err    error
}

func (r *recorder) write(_ context.Context, ev *domain.AuditEvent) error {
	if r.block != nil {
		<-r.block
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	return r.err
}

func (r *recorder) all() []*domain.AuditEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*domain.AuditEvent(nil), r.events...)
}

func TestSink_PublishAndClose(t *testing.T) {
	rec := &recorder{}
	s := newSink(rec.write, 10, testLogger)
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	s.now = func() time.Time { return fixed }

	s.Publish("user-1", domain.AuditEventPublished, "event-9", "event %q published", "GoConf")
	s.Publish("user-2", domain.AuditApplicationStatus, "app-1", "%s -> %s", "pending", "shortlisted")
	require.NoError(t, s.Close(context.Background()))

	got := rec.all()
	require.Len(t, got, 2)
	assert.Equal(t, &domain.AuditEvent{
		Time: fixed, ActorID: "user-1", Action: domain.AuditEventPublished,
		Subject: "event-9", Message: `event "GoConf" published`,
	}, got[0])
	assert.Equal(t, "pending -> shortlisted", got[1].Message)

	// publishing after close is a silent no-op
	s.Publish("user-3", domain.AuditEventCancelled, "event-9", "late")
	assert.Len(t, rec.all(), 2)
	require.NoError(t, s.Close(context.Background()))
}

func TestSink_dropsWhenFull(t *testing.T) {
	rec := &recorder{block: make(chan struct{})}
	s := newSink(rec.write, 1, testLogger)

	finished := make(chan struct{})
	go func() {
		for i := 0; i < 50; i++ {
			s.Publish("u", "a", "s", "n=%d", i)
		}
		close(finished)
	}()
	select {
	case <-finished:
	case <-time.After(2 * time.Second):
		t.Fatal("Publish blocked on a full buffer")
	}

	close(rec.block)
	require.NoError(t, s.Close(context.Background()))
	n := len(rec.all())
	assert.GreaterOrEqual(t, n, 1)
	assert.Less(t, n, 50)
}

func TestSink_writeErrorsDoNotStopFlushing(t *testing.T) {
	rec := &recorder{err: errors.New("db down")}
	s := newSink(rec.write, 5, testLogger)
	s.Publish("u", "a", "s1", "one")
	s.Publish("u", "a", "s2", "two")
	require.NoError(t, s.Close(context.Background()))
	assert.Len(t, rec.all(), 2)
}

func TestSink_disabled(t *testing.T) {
	s, err := NewSink(context.Background(), "", 10, testLogger)
	require.NoError(t, err)
	assert.False(t, s.Enabled())
	s.Publish("u", "a", "s", "ignored")
	require.NoError(t, s.Close(context.Background()))

	var nilSink *Sink
	nilSink.Publish("u", "a", "s", "ignored")
}
