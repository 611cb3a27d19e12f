package domain

import (
	"context"
	"time"
)

// AgendaItem is a timed sub-session of an event.
// swagger:model AgendaItem
type AgendaItem struct {
	ID          string     `json:"id"`
	EventID     string     `json:"event_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Location    string     `json:"location"`
	StartsAt    time.Time  `json:"starts_at"`
	EndsAt      time.Time  `json:"ends_at"`
	Position    int        `json:"position"`
	Speakers    []*Speaker `json:"speakers"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Within reports whether the item lies inside the event window.
func (a *AgendaItem) Within(event *Event) bool {
	return !a.StartsAt.Before(event.StartsAt) && !a.EndsAt.After(event.EndsAt)
}

// Overlaps reports whether two agenda items share a location and an instant in time.
func (a *AgendaItem) Overlaps(other *AgendaItem) bool {
	if a.Location != other.Location {
		return false
	}
	return a.StartsAt.Before(other.EndsAt) && other.StartsAt.Before(a.EndsAt)
}

// Speaker is a person presenting an agenda item. UserID links to a portal user when known.
// swagger:model Speaker
type Speaker struct {
	ID           string    `json:"id"`
	AgendaItemID string    `json:"agenda_item_id"`
	Name         string    `json:"name"`
	Title        string    `json:"title"`
	Bio          string    `json:"bio"`
	PhotoURL     string    `json:"photo_url"`
	UserID       *string   `json:"user_id"`
	CreatedAt    time.Time `json:"created_at"`
}

// AgendaItemUpdate holds optional agenda item fields. Nil fields are unchanged.
type AgendaItemUpdate struct {
	Title       *string
	Description *string
	Location    *string
	StartsAt    *time.Time
	EndsAt      *time.Time
	Position    *int
}

// AgendaRepository defines storage for agenda items and their speakers.
type AgendaRepository interface {
	CreateItem(ctx context.Context, item *AgendaItem) error
	GetItem(ctx context.Context, id string) (*AgendaItem, error)
	UpdateItem(ctx context.Context, item *AgendaItem) error
	DeleteItem(ctx context.Context, id string) error
	ListByEventID(ctx context.Context, eventID string) ([]*AgendaItem, error)
	CreateSpeaker(ctx context.Context, speaker *Speaker) error
	DeleteSpeaker(ctx context.Context, agendaItemID, speakerID string) error
	ListSpeakersByEventID(ctx context.Context, eventID string) ([]*Speaker, error)
}

// AgendaService defines the business logic for an event's agenda.
type AgendaService interface {
	ListAgenda(ctx context.Context, eventID, callerID string) ([]*AgendaItem, error)
	AddAgendaItem(ctx context.Context, eventID, callerID string, item *AgendaItem) error
	UpdateAgendaItem(ctx context.Context, eventID, itemID, callerID string, upd AgendaItemUpdate) (*AgendaItem, error)
	DeleteAgendaItem(ctx context.Context, eventID, itemID, callerID string) error
	AddSpeaker(ctx context.Context, eventID, itemID, callerID string, speaker *Speaker) error
	RemoveSpeaker(ctx context.Context, eventID, itemID, speakerID, callerID string) error
}
