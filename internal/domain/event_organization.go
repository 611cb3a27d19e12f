package domain

import (
	"context"
	"time"
)

// Association tiers between an organization and an event.
const (
	TierOrganizer    = "organizer"
	TierPartner      = "partner"
	TierSponsor      = "sponsor"
	TierCollaborator = "collaborator"
)

// Sponsor levels, only meaningful for TierSponsor.
const (
	SponsorPlatinum = "platinum"
	SponsorGold     = "gold"
	SponsorSilver   = "silver"
	SponsorBronze   = "bronze"
)

// ValidTier reports whether tier is a known association tier.
func ValidTier(tier string) bool {
	switch tier {
	case TierOrganizer, TierPartner, TierSponsor, TierCollaborator:
		return true
	}
	return false
}

// ValidSponsorLevel reports whether level is a known sponsor level.
func ValidSponsorLevel(level string) bool {
	switch level {
	case SponsorPlatinum, SponsorGold, SponsorSilver, SponsorBronze:
		return true
	}
	return false
}

// EventOrganization is a tiered association between an organization and an event.
// swagger:model EventOrganization
type EventOrganization struct {
	EventID          string    `json:"event_id"`
	OrganizationID   string    `json:"organization_id"`
	OrganizationName string    `json:"organization_name"`
	Tier             string    `json:"tier"`
	SponsorLevel     string    `json:"sponsor_level,omitempty"`
	Contribution     string    `json:"contribution"`
	CreatedAt        time.Time `json:"created_at"`
}

// EventOrganizationRepository defines storage for event associations.
type EventOrganizationRepository interface {
	Attach(ctx context.Context, assoc *EventOrganization) error
	Detach(ctx context.Context, eventID, orgID string) error
	ListByEventID(ctx context.Context, eventID string) ([]*EventOrganization, error)
	CountByTier(ctx context.Context, eventID, tier string) (int, error)
}

// EventOrganizationService defines the business logic for attaching organizations to events.
type EventOrganizationService interface {
	AttachOrganization(ctx context.Context, callerID string, assoc *EventOrganization) error
	DetachOrganization(ctx context.Context, eventID, orgID, callerID string) error
	ListAssociations(ctx context.Context, eventID, callerID, tier string) (map[string][]*EventOrganization, error)
}

// GroupByTier groups associations by tier; every tier key is present.
func GroupByTier(assocs []*EventOrganization) map[string][]*EventOrganization {
	out := map[string][]*EventOrganization{
		TierOrganizer:    {},
		TierPartner:      {},
		TierSponsor:      {},
		TierCollaborator: {},
	}
	for _, a := range assocs {
		out[a.Tier] = append(out[a.Tier], a)
	}
	return out
}
