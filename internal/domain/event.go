package domain

import (
	"context"
	"time"
)

// Event statuses.
const (
	EventStatusDraft     = "draft"
	EventStatusPublished = "published"
	EventStatusCancelled = "cancelled"
	EventStatusCompleted = "completed"
)

// Wizard steps in the order the event creation flow visits them.
const (
	WizardStepEvent         = "event"
	WizardStepAgenda        = "agenda"
	WizardStepOrganizers    = "organizers"
	WizardStepPartners      = "partners"
	WizardStepSponsors      = "sponsors"
	WizardStepCollaborators = "collaborators"
	WizardStepReview        = "review"
)

var wizardSteps = []string{
	WizardStepEvent,
	WizardStepAgenda,
	WizardStepOrganizers,
	WizardStepPartners,
	WizardStepSponsors,
	WizardStepCollaborators,
	WizardStepReview,
}

// WizardStepIndex returns the position of step in the creation flow, or -1 if unknown.
func WizardStepIndex(step string) int {
	for i, s := range wizardSteps {
		if s == step {
			return i
		}
	}
	return -1
}

// WizardSteps returns the ordered creation flow steps.
func WizardSteps() []string {
	out := make([]string, len(wizardSteps))
	copy(out, wizardSteps)
	return out
}

// Event represents an event owned by an organization.
// swagger:model Event
type Event struct {
	ID             string    `json:"id"`
	OrganizationID string    `json:"organization_id"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	Category       string    `json:"category"`
	Location       string    `json:"location"`
	IsOnline       bool      `json:"is_online"`
	MeetingURL     string    `json:"meeting_url"`
	StartsAt       time.Time `json:"starts_at"`
	EndsAt         time.Time `json:"ends_at"`
	Capacity       int       `json:"capacity"`
	Status         string    `json:"status"`
	WizardStep     string    `json:"wizard_step"`
	CreatedBy      string    `json:"created_by"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// IsPublic reports whether the event is visible to non-managers.
func (e *Event) IsPublic() bool {
	return e.Status != EventStatusDraft
}

// EventUpdate holds optional event fields. Nil fields are unchanged.
type EventUpdate struct {
	Title       *string
	Description *string
	Category    *string
	Location    *string
	IsOnline    *bool
	MeetingURL  *string
	StartsAt    *time.Time
	EndsAt      *time.Time
	Capacity    *int
}

// EventFilter narrows public event listings.
type EventFilter struct {
	Status         string
	Category       string
	OrganizationID string
	Search         string
	StartsAfter    *time.Time
	StartsBefore   *time.Time
	IncludeDrafts  bool
}

// EventDetails bundles an event with its agenda and organization associations.
type EventDetails struct {
	Event        *Event                          `json:"event"`
	Agenda       []*AgendaItem                   `json:"agenda"`
	Associations map[string][]*EventOrganization `json:"associations"`
}

// EventRepository defines the interface for event storage
type EventRepository interface {
	// Create stores the event and attaches its organization as organizer in one transaction.
	Create(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id string) (*Event, error)
	Update(ctx context.Context, event *Event) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter EventFilter, params PaginationParams) ([]*Event, int, error)
}

// EventService defines the business logic for events and the creation wizard.
type EventService interface {
	CreateEvent(ctx context.Context, event *Event, callerID string) error
	GetEvent(ctx context.Context, eventID, callerID string) (*EventDetails, error)
	UpdateEvent(ctx context.Context, eventID, callerID string, upd EventUpdate) (*Event, error)
	DeleteEvent(ctx context.Context, eventID, callerID string) error
	ListEvents(ctx context.Context, filter EventFilter, params PaginationParams) ([]*Event, int, error)
	ListOrganizationEvents(ctx context.Context, orgID, callerID string, params PaginationParams) ([]*Event, int, error)
	AdvanceWizard(ctx context.Context, eventID, callerID, step string) (*Event, error)
	PublishEvent(ctx context.Context, eventID, callerID string) (*Event, error)
	CancelEvent(ctx context.Context, eventID, callerID string) (*Event, error)
	CompleteEvent(ctx context.Context, eventID, callerID string) (*Event, error)
}
