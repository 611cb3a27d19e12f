package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"karyadi/internal/domain"
)

// withTimeout bounds ctx by d; a zero timeout leaves ctx unbounded.
func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}

// isManager reports whether userID is an owner or admin of orgID.
func isManager(ctx context.Context, orgs domain.OrganizationRepository, orgID, userID string) (bool, error) {
	if userID == "" {
		return false, nil
	}
	m, err := orgs.GetMember(ctx, orgID, userID)
	if errors.Is(err, domain.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("get organization member: %w", err)
	}
	return m.CanManage(), nil
}

func requireManager(ctx context.Context, orgs domain.OrganizationRepository, orgID, userID string) error {
	ok, err := isManager(ctx, orgs, orgID, userID)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrForbidden
	}
	return nil
}

func getEvent(ctx context.Context, events domain.EventRepository, eventID string) (*domain.Event, error) {
	event, err := events.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return event, nil
}

// managedEvent loads the event and checks that callerID manages its organization.
func managedEvent(ctx context.Context, events domain.EventRepository, orgs domain.OrganizationRepository, eventID, callerID string) (*domain.Event, error) {
	event, err := getEvent(ctx, events, eventID)
	if err != nil {
		return nil, err
	}
	if err := requireManager(ctx, orgs, event.OrganizationID, callerID); err != nil {
		return nil, err
	}
	return event, nil
}

// visibleEvent loads the event; drafts are reported missing to anyone but managers.
func visibleEvent(ctx context.Context, events domain.EventRepository, orgs domain.OrganizationRepository, eventID, callerID string) (*domain.Event, bool, error) {
	event, err := getEvent(ctx, events, eventID)
	if err != nil {
		return nil, false, err
	}
	manager, err := isManager(ctx, orgs, event.OrganizationID, callerID)
	if err != nil {
		return nil, false, err
	}
	if !event.IsPublic() && !manager {
		return nil, false, domain.ErrNotFound
	}
	return event, manager, nil
}

type noopAudit struct{}

func (noopAudit) Publish(string, string, string, string, ...any) {}

func auditOrNoop(a domain.AuditPublisher) domain.AuditPublisher {
	if a == nil {
		return noopAudit{}
	}
	return a
}
