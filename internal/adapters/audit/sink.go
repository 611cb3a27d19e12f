package audit

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"

	"karyadi/internal/domain"
)

const migration = `
CREATE TABLE IF NOT EXISTS audit_events (
	id bigserial primary key,
	time timestamptz not null,
	actor_id text not null,
	action text not null,
	subject text not null,
	message text not null
);

CREATE INDEX IF NOT EXISTS idx_audit_events_time ON audit_events (time);
`

const insertEvent = `INSERT INTO audit_events (time, actor_id, action, subject, message) VALUES ($1, $2, $3, $4, $5)`

// Sink buffers notable user actions and flushes them to postgres in the background.
// Publish never blocks the caller: when the buffer is full the event is dropped and logged.
type Sink struct {
	write  func(ctx context.Context, ev *domain.AuditEvent) error
	logger *slog.Logger
	now    func() time.Time

	mu     sync.RWMutex
	closed bool
	buffer chan *domain.AuditEvent
	done   chan struct{}
}

var _ domain.AuditPublisher = (*Sink)(nil)

// NewSink connects to the audit database and starts the flusher.
// An empty dsn returns a disabled sink whose Publish is a no-op.
func NewSink(ctx context.Context, dsn string, bufferLength int, logger *slog.Logger) (*Sink, error) {
	if dsn == "" {
		return &Sink{logger: logger}, nil
	}
	pool, err := pgxpool.Connect(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("constructing audit db client: %w", err)
	}
	if _, err := pool.Exec(ctx, migration); err != nil {
		pool.Close()
		return nil, fmt.Errorf("audit db migration: %w", err)
	}
	s := newSink(func(ctx context.Context, ev *domain.AuditEvent) error {
		_, err := pool.Exec(ctx, insertEvent, ev.Time, ev.ActorID, ev.Action, ev.Subject, ev.Message)
		return err
	}, bufferLength, logger)
	go func() {
		<-s.done
		pool.Close()
	}()
	return s, nil
}

func newSink(write func(ctx context.Context, ev *domain.AuditEvent) error, bufferLength int, logger *slog.Logger) *Sink {
	if bufferLength < 1 {
		bufferLength = 1
	}
	s := &Sink{
		write:  write,
		logger: logger,
		now:    time.Now,
		buffer: make(chan *domain.AuditEvent, bufferLength),
		done:   make(chan struct{}),
	}
	go s.flush()
	return s
}

func (s *Sink) flush() {
	defer close(s.done)
	for ev := range s.buffer {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := s.write(ctx, ev); err != nil {
			s.logger.Error("flushing audit event", "action", ev.Action, "subject", ev.Subject, "err", err)
		}
		cancel()
	}
}

// Enabled reports whether events are persisted.
func (s *Sink) Enabled() bool { return s != nil && s.buffer != nil }

// Publish records an action. The message is built with fmt.Sprintf(templ, args...).
func (s *Sink) Publish(actorID, action, subject, templ string, args ...any) {
	if !s.Enabled() {
		return
	}
	ev := &domain.AuditEvent{
		Time:    s.now(),
		ActorID: actorID,
		Action:  action,
		Subject: subject,
		Message: fmt.Sprintf(templ, args...),
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return
	}
	select {
	case s.buffer <- ev:
	default:
		s.logger.Warn("audit buffer full, dropping event", "action", action, "subject", subject)
	}
}

// Close stops accepting events and waits until buffered ones are flushed or ctx is done.
func (s *Sink) Close(ctx context.Context) error {
	if !s.Enabled() {
		return nil
	}
	s.mu.Lock()
	if !s.closed {
		s.closed = true
		close(s.buffer)
	}
	s.mu.Unlock()

	select {
	case <-s.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
