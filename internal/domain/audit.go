package domain

import "time"

// Audit actions.
const (
	AuditEventPublished        = "event.published"
	AuditEventCancelled        = "event.cancelled"
	AuditApplicationStatus     = "application.status_changed"
	AuditOrganizationMemberAdd = "organization.member_added"
)

// AuditEvent records a meaningful action taken by a user.
type AuditEvent struct {
	Time    time.Time
	ActorID string
	Action  string
	Subject string
	Message string
}

// AuditPublisher records audit events. Implementations must not block the caller.
type AuditPublisher interface {
	Publish(actorID, action, subject, templ string, args ...any)
}
