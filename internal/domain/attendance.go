package domain

import (
	"context"
	"time"
)

// Attendance statuses.
const (
	AttendanceRegistered = "registered"
	AttendanceCancelled  = "cancelled"
	AttendanceAttended   = "attended"
)

// Attendance represents a user's registration for an event.
// swagger:model Attendance
type Attendance struct {
	ID        string    `json:"id"`
	EventID   string    `json:"event_id"`
	UserID    string    `json:"user_id"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewAttendance creates a new registered Attendance. ID is typically set by the repository on create.
func NewAttendance(eventID, userID string, createdAt time.Time) *Attendance {
	return &Attendance{
		EventID:   eventID,
		UserID:    userID,
		Status:    AttendanceRegistered,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
}

// AttendanceWithEvent bundles a registration with its related event.
type AttendanceWithEvent struct {
	Attendance *Attendance `json:"attendance"`
	Event      *Event      `json:"event"`
}

// Attendee is a registration joined with the attending user's name and email.
// swagger:model Attendee
type Attendee struct {
	Attendance
	Name     string `json:"name"`
	LastName string `json:"last_name"`
	Email    string `json:"email"`
}

// AttendanceRepository defines storage operations for event registrations.
type AttendanceRepository interface {
	// Register stores a registration for a.EventID and a.UserID, re-activating a cancelled
	// one, as long as the event has capacity left (0 means unlimited). The capacity check
	// and the write are atomic. When the user already holds an active registration, a is
	// overwritten with it and false is returned. Returns ErrEventFull when no seat is left.
	Register(ctx context.Context, a *Attendance) (bool, error)
	GetByEventAndUser(ctx context.Context, eventID, userID string) (*Attendance, error)
	// UpdateStatus moves a registration from one status to another. ErrInvalidTransition
	// is returned when the stored status is no longer from.
	UpdateStatus(ctx context.Context, id, from, to string) (*Attendance, error)
	ListByUserID(ctx context.Context, userID string) ([]*Attendance, error)
	ListByEventID(ctx context.Context, eventID string, params PaginationParams) ([]*Attendee, int, error)
}

// AttendanceService defines attendee-facing operations such as event registration.
type AttendanceService interface {
	// RegisterForEvent registers the user for the event. Returns (reg, created, err): created is true if a new registration was created, false if already registered.
	RegisterForEvent(ctx context.Context, eventID, userID string) (*Attendance, bool, error)
	CancelRegistration(ctx context.Context, eventID, userID string) (*Attendance, error)
	MarkAttended(ctx context.Context, eventID, userID, callerID string) (*Attendance, error)
	ListMyRegistrations(ctx context.Context, userID string) ([]*AttendanceWithEvent, error)
	ListEventAttendees(ctx context.Context, eventID, callerID string, params PaginationParams) ([]*Attendee, int, error)
}
