package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"karyadi/internal/domain"
)

type eventService struct {
	eventRepo      domain.EventRepository
	agendaRepo     domain.AgendaRepository
	assocRepo      domain.EventOrganizationRepository
	orgRepo        domain.OrganizationRepository
	audit          domain.AuditPublisher
	now            func() time.Time
	contextTimeout time.Duration
}

func NewEventService(
	eventRepo domain.EventRepository,
	agendaRepo domain.AgendaRepository,
	assocRepo domain.EventOrganizationRepository,
	orgRepo domain.OrganizationRepository,
	audit domain.AuditPublisher,
	timeout time.Duration,
) domain.EventService {
	return &eventService{
		eventRepo:      eventRepo,
		agendaRepo:     agendaRepo,
		assocRepo:      assocRepo,
		orgRepo:        orgRepo,
		audit:          auditOrNoop(audit),
		now:            time.Now,
		contextTimeout: timeout,
	}
}

func validateEvent(e *domain.Event) error {
	var problems []string
	if strings.TrimSpace(e.Title) == "" {
		problems = append(problems, "title is required")
	}
	if e.StartsAt.IsZero() || e.EndsAt.IsZero() {
		problems = append(problems, "starts_at and ends_at are required")
	} else if !e.EndsAt.After(e.StartsAt) {
		problems = append(problems, "ends_at must be after starts_at")
	}
	if e.Capacity < 0 {
		problems = append(problems, "capacity cannot be negative")
	}
	if len(problems) > 0 {
		return domain.Invalid(problems...)
	}
	return nil
}

func (s *eventService) CreateEvent(ctx context.Context, event *domain.Event, callerID string) error {
	ctx, cancel := withTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := requireManager(ctx, s.orgRepo, event.OrganizationID, callerID); err != nil {
		return err
	}
	event.Title = strings.TrimSpace(event.Title)
	if err := validateEvent(event); err != nil {
		return err
	}

	now := s.now()
	event.Status = domain.EventStatusDraft
	event.WizardStep = domain.WizardStepAgenda
	event.CreatedBy = callerID
	event.CreatedAt = now
	event.UpdatedAt = now
	if err := s.eventRepo.Create(ctx, event); err != nil {
		return fmt.Errorf("create event: %w", err)
	}
	return nil
}

func (s *eventService) GetEvent(ctx context.Context, eventID, callerID string) (*domain.EventDetails, error) {
	ctx, cancel := withTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, _, err := visibleEvent(ctx, s.eventRepo, s.orgRepo, eventID, callerID)
	if err != nil {
		return nil, err
	}
	agenda, err := loadAgenda(ctx, s.agendaRepo, eventID)
	if err != nil {
		return nil, err
	}
	assocs, err := s.assocRepo.ListByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list associations: %w", err)
	}
	return &domain.EventDetails{
		Event:        event,
		Agenda:       agenda,
		Associations: domain.GroupByTier(assocs),
	}, nil
}

func (s *eventService) UpdateEvent(ctx context.Context, eventID, callerID string, upd domain.EventUpdate) (*domain.Event, error) {
	ctx, cancel := withTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := managedEvent(ctx, s.eventRepo, s.orgRepo, eventID, callerID)
	if err != nil {
		return nil, err
	}
	if event.Status == domain.EventStatusCancelled || event.Status == domain.EventStatusCompleted {
		return nil, domain.Invalid(fmt.Sprintf("a %s event cannot be edited", event.Status))
	}
	if upd.Title != nil {
		event.Title = strings.TrimSpace(*upd.Title)
	}
	if upd.Description != nil {
		event.Description = *upd.Description
	}
	if upd.Category != nil {
		event.Category = strings.TrimSpace(*upd.Category)
	}
	if upd.Location != nil {
		event.Location = strings.TrimSpace(*upd.Location)
	}
	if upd.IsOnline != nil {
		event.IsOnline = *upd.IsOnline
	}
	if upd.MeetingURL != nil {
		event.MeetingURL = strings.TrimSpace(*upd.MeetingURL)
	}
	oldStart, oldEnd := event.StartsAt, event.EndsAt
	if upd.StartsAt != nil {
		event.StartsAt = *upd.StartsAt
	}
	if upd.EndsAt != nil {
		event.EndsAt = *upd.EndsAt
	}
	if upd.Capacity != nil {
		event.Capacity = *upd.Capacity
	}
	if err := validateEvent(event); err != nil {
		return nil, err
	}
	if !event.StartsAt.Equal(oldStart) || !event.EndsAt.Equal(oldEnd) {
		stranded, err := s.itemsOutsideWindow(ctx, event)
		if err != nil {
			return nil, err
		}
		if len(stranded) > 0 {
			return nil, domain.Invalid(fmt.Sprintf("new event window leaves agenda items outside it: %s", strings.Join(stranded, ", ")))
		}
	}
	event.UpdatedAt = s.now()
	if err := s.eventRepo.Update(ctx, event); err != nil {
		return nil, fmt.Errorf("update event: %w", err)
	}
	return event, nil
}

// itemsOutsideWindow returns the titles of agenda items that do not fit the event window.
func (s *eventService) itemsOutsideWindow(ctx context.Context, event *domain.Event) ([]string, error) {
	items, err := s.agendaRepo.ListByEventID(ctx, event.ID)
	if err != nil {
		return nil, fmt.Errorf("list agenda: %w", err)
	}
	var titles []string
	for _, item := range items {
		if !item.Within(event) {
			titles = append(titles, fmt.Sprintf("%q", item.Title))
		}
	}
	return titles, nil
}

func (s *eventService) DeleteEvent(ctx context.Context, eventID, callerID string) error {
	ctx, cancel := withTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := managedEvent(ctx, s.eventRepo, s.orgRepo, eventID, callerID)
	if err != nil {
		return err
	}
	if event.Status != domain.EventStatusDraft {
		return domain.Invalid("only draft events can be deleted")
	}
	if err := s.eventRepo.Delete(ctx, eventID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return err
		}
		return fmt.Errorf("delete event: %w", err)
	}
	return nil
}

func validEventStatus(status string) bool {
	switch status {
	case domain.EventStatusDraft, domain.EventStatusPublished, domain.EventStatusCancelled, domain.EventStatusCompleted:
		return true
	}
	return false
}

func (s *eventService) ListEvents(ctx context.Context, filter domain.EventFilter, params domain.PaginationParams) ([]*domain.Event, int, error) {
	ctx, cancel := withTimeout(ctx, s.contextTimeout)
	defer cancel()

	if filter.Status != "" && !validEventStatus(filter.Status) {
		return nil, 0, domain.Invalid("unknown status " + filter.Status)
	}
	if filter.Status == domain.EventStatusDraft {
		return nil, 0, domain.Invalid("draft events are not listed publicly")
	}
	if filter.StartsAfter != nil && filter.StartsBefore != nil && filter.StartsBefore.Before(*filter.StartsAfter) {
		return nil, 0, domain.Invalid("starts_before must not be before starts_after")
	}
	filter.IncludeDrafts = false
	filter.Search = strings.TrimSpace(filter.Search)
	events, total, err := s.eventRepo.List(ctx, filter, params)
	if err != nil {
		return nil, 0, fmt.Errorf("list events: %w", err)
	}
	return events, total, nil
}

func (s *eventService) ListOrganizationEvents(ctx context.Context, orgID, callerID string, params domain.PaginationParams) ([]*domain.Event, int, error) {
	ctx, cancel := withTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := s.orgRepo.GetByID(ctx, orgID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, 0, err
		}
		return nil, 0, fmt.Errorf("get organization: %w", err)
	}
	manager, err := isManager(ctx, s.orgRepo, orgID, callerID)
	if err != nil {
		return nil, 0, err
	}
	events, total, err := s.eventRepo.List(ctx, domain.EventFilter{OrganizationID: orgID, IncludeDrafts: manager}, params)
	if err != nil {
		return nil, 0, fmt.Errorf("list events: %w", err)
	}
	return events, total, nil
}

func (s *eventService) AdvanceWizard(ctx context.Context, eventID, callerID, step string) (*domain.Event, error) {
	ctx, cancel := withTimeout(ctx, s.contextTimeout)
	defer cancel()

	target := domain.WizardStepIndex(step)
	if target < 0 {
		return nil, domain.Invalid(fmt.Sprintf("unknown wizard step %q", step))
	}
	event, err := managedEvent(ctx, s.eventRepo, s.orgRepo, eventID, callerID)
	if err != nil {
		return nil, err
	}
	if event.Status != domain.EventStatusDraft {
		return nil, domain.Invalid("the creation wizard only applies to draft events")
	}
	current := domain.WizardStepIndex(event.WizardStep)
	if target > current+1 {
		return nil, domain.Invalid(fmt.Sprintf("cannot skip from %q to %q", event.WizardStep, step))
	}
	// Going back to edit an earlier step keeps the furthest step reached.
	if target <= current {
		return event, nil
	}
	event.WizardStep = step
	event.UpdatedAt = s.now()
	if err := s.eventRepo.Update(ctx, event); err != nil {
		return nil, fmt.Errorf("update event: %w", err)
	}
	return event, nil
}

func (s *eventService) PublishEvent(ctx context.Context, eventID, callerID string) (*domain.Event, error) {
	ctx, cancel := withTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := managedEvent(ctx, s.eventRepo, s.orgRepo, eventID, callerID)
	if err != nil {
		return nil, err
	}
	if event.Status != domain.EventStatusDraft {
		return nil, fmt.Errorf("publish %s event: %w", event.Status, domain.ErrInvalidTransition)
	}

	var problems []string
	organizers, err := s.assocRepo.CountByTier(ctx, eventID, domain.TierOrganizer)
	if err != nil {
		return nil, fmt.Errorf("count organizers: %w", err)
	}
	if organizers == 0 {
		problems = append(problems, "at least one organizer is required")
	}
	items, err := s.agendaRepo.ListByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list agenda: %w", err)
	}
	if len(items) == 0 {
		problems = append(problems, "at least one agenda item is required")
	}
	for _, item := range items {
		if !item.Within(event) {
			problems = append(problems, fmt.Sprintf("agenda item %q falls outside the event window", item.Title))
		}
	}
	if !event.StartsAt.After(s.now()) {
		problems = append(problems, "starts_at must be in the future")
	}
	if len(problems) > 0 {
		return nil, domain.Invalid(problems...)
	}

	event.Status = domain.EventStatusPublished
	event.WizardStep = domain.WizardStepReview
	event.UpdatedAt = s.now()
	if err := s.eventRepo.Update(ctx, event); err != nil {
		return nil, fmt.Errorf("update event: %w", err)
	}
	s.audit.Publish(callerID, domain.AuditEventPublished, event.ID, "published %q", event.Title)
	return event, nil
}

func (s *eventService) CancelEvent(ctx context.Context, eventID, callerID string) (*domain.Event, error) {
	return s.setStatus(ctx, eventID, callerID, domain.EventStatusCancelled,
		domain.EventStatusDraft, domain.EventStatusPublished)
}

func (s *eventService) CompleteEvent(ctx context.Context, eventID, callerID string) (*domain.Event, error) {
	return s.setStatus(ctx, eventID, callerID, domain.EventStatusCompleted, domain.EventStatusPublished)
}

func (s *eventService) setStatus(ctx context.Context, eventID, callerID, to string, from ...string) (*domain.Event, error) {
	ctx, cancel := withTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := managedEvent(ctx, s.eventRepo, s.orgRepo, eventID, callerID)
	if err != nil {
		return nil, err
	}
	allowed := false
	for _, f := range from {
		if event.Status == f {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, fmt.Errorf("%s -> %s: %w", event.Status, to, domain.ErrInvalidTransition)
	}
	event.Status = to
	event.UpdatedAt = s.now()
	if err := s.eventRepo.Update(ctx, event); err != nil {
		return nil, fmt.Errorf("update event: %w", err)
	}
	if to == domain.EventStatusCancelled {
		s.audit.Publish(callerID, domain.AuditEventCancelled, event.ID, "cancelled %q", event.Title)
	}
	return event, nil
}
