package domain

import "errors"

// Sentinel errors shared by repositories, services and controllers.
var (
	ErrNotFound           = errors.New("not found")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidInput       = errors.New("invalid input")
	ErrConflict           = errors.New("conflict")
	ErrUserNotFound       = errors.New("user not found")
	ErrDuplicateEmail     = errors.New("email already in use")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAlreadyMember      = errors.New("already a member")
	ErrInvalidTransition  = errors.New("invalid status transition")
	ErrAlreadyApplied     = errors.New("already applied to this job")
	ErrJobClosed          = errors.New("job post is not accepting applications")
	ErrAlreadyResponded   = errors.New("survey already answered")
	ErrEventNotPublished  = errors.New("event is not published")
	ErrEventFull          = errors.New("event is full")
)

// ValidationError carries field-level messages for ErrInvalidInput.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	if len(e.Messages) == 0 {
		return ErrInvalidInput.Error()
	}
	msg := e.Messages[0]
	for _, m := range e.Messages[1:] {
		msg += "; " + m
	}
	return msg
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// Invalid returns a ValidationError wrapping ErrInvalidInput.
func Invalid(messages ...string) error {
	return &ValidationError{Messages: messages}
}
