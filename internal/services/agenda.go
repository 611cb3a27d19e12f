package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"karyadi/internal/domain"
)

type agendaService struct {
	eventRepo      domain.EventRepository
	agendaRepo     domain.AgendaRepository
	orgRepo        domain.OrganizationRepository
	now            func() time.Time
	contextTimeout time.Duration
}

func NewAgendaService(
	eventRepo domain.EventRepository,
	agendaRepo domain.AgendaRepository,
	orgRepo domain.OrganizationRepository,
	timeout time.Duration,
) domain.AgendaService {
	return &agendaService{
		eventRepo:      eventRepo,
		agendaRepo:     agendaRepo,
		orgRepo:        orgRepo,
		now:            time.Now,
		contextTimeout: timeout,
	}
}

// loadAgenda returns the event's agenda items with their speakers attached.
func loadAgenda(ctx context.Context, agenda domain.AgendaRepository, eventID string) ([]*domain.AgendaItem, error) {
	items, err := agenda.ListByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list agenda: %w", err)
	}
	speakers, err := agenda.ListSpeakersByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list speakers: %w", err)
	}
	byItem := make(map[string]*domain.AgendaItem, len(items))
	for _, it := range items {
		it.Speakers = []*domain.Speaker{}
		byItem[it.ID] = it
	}
	for _, sp := range speakers {
		if it, ok := byItem[sp.AgendaItemID]; ok {
			it.Speakers = append(it.Speakers, sp)
		}
	}
	return items, nil
}

func (s *agendaService) ListAgenda(ctx context.Context, eventID, callerID string) ([]*domain.AgendaItem, error) {
	ctx, cancel := withTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, _, err := visibleEvent(ctx, s.eventRepo, s.orgRepo, eventID, callerID); err != nil {
		return nil, err
	}
	return loadAgenda(ctx, s.agendaRepo, eventID)
}

// checkSlot validates item against the event window and the other items of the event.
func (s *agendaService) checkSlot(ctx context.Context, event *domain.Event, item *domain.AgendaItem) error {
	var problems []string
	if item.Title == "" {
		problems = append(problems, "title is required")
	}
	if item.StartsAt.IsZero() || item.EndsAt.IsZero() {
		problems = append(problems, "starts_at and ends_at are required")
	} else {
		if !item.EndsAt.After(item.StartsAt) {
			problems = append(problems, "ends_at must be after starts_at")
		}
		if !item.Within(event) {
			problems = append(problems, "agenda item must fall within the event window")
		}
	}
	if len(problems) > 0 {
		return domain.Invalid(problems...)
	}

	others, err := s.agendaRepo.ListByEventID(ctx, event.ID)
	if err != nil {
		return fmt.Errorf("list agenda: %w", err)
	}
	for _, o := range others {
		if o.ID == item.ID {
			continue
		}
		if item.Overlaps(o) {
			return fmt.Errorf("overlaps %q in %q: %w", o.Title, o.Location, domain.ErrConflict)
		}
	}
	return nil
}

func (s *agendaService) AddAgendaItem(ctx context.Context, eventID, callerID string, item *domain.AgendaItem) error {
	ctx, cancel := withTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := managedEvent(ctx, s.eventRepo, s.orgRepo, eventID, callerID)
	if err != nil {
		return err
	}
	item.EventID = eventID
	item.Title = strings.TrimSpace(item.Title)
	item.Location = strings.TrimSpace(item.Location)
	if err := s.checkSlot(ctx, event, item); err != nil {
		return err
	}
	now := s.now()
	item.CreatedAt = now
	item.UpdatedAt = now
	if err := s.agendaRepo.CreateItem(ctx, item); err != nil {
		return fmt.Errorf("create agenda item: %w", err)
	}
	item.Speakers = []*domain.Speaker{}
	return nil
}

// eventItem loads an agenda item and checks it belongs to eventID.
func (s *agendaService) eventItem(ctx context.Context, eventID, itemID string) (*domain.AgendaItem, error) {
	item, err := s.agendaRepo.GetItem(ctx, itemID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get agenda item: %w", err)
	}
	if item.EventID != eventID {
		return nil, domain.ErrNotFound
	}
	return item, nil
}

func (s *agendaService) UpdateAgendaItem(ctx context.Context, eventID, itemID, callerID string, upd domain.AgendaItemUpdate) (*domain.AgendaItem, error) {
	ctx, cancel := withTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := managedEvent(ctx, s.eventRepo, s.orgRepo, eventID, callerID)
	if err != nil {
		return nil, err
	}
	item, err := s.eventItem(ctx, eventID, itemID)
	if err != nil {
		return nil, err
	}
	if upd.Title != nil {
		item.Title = strings.TrimSpace(*upd.Title)
	}
	if upd.Description != nil {
		item.Description = *upd.Description
	}
	if upd.Location != nil {
		item.Location = strings.TrimSpace(*upd.Location)
	}
	if upd.StartsAt != nil {
		item.StartsAt = *upd.StartsAt
	}
	if upd.EndsAt != nil {
		item.EndsAt = *upd.EndsAt
	}
	if upd.Position != nil {
		item.Position = *upd.Position
	}
	if err := s.checkSlot(ctx, event, item); err != nil {
		return nil, err
	}
	item.UpdatedAt = s.now()
	if err := s.agendaRepo.UpdateItem(ctx, item); err != nil {
		return nil, fmt.Errorf("update agenda item: %w", err)
	}
	return item, nil
}

func (s *agendaService) DeleteAgendaItem(ctx context.Context, eventID, itemID, callerID string) error {
	ctx, cancel := withTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := managedEvent(ctx, s.eventRepo, s.orgRepo, eventID, callerID); err != nil {
		return err
	}
	if _, err := s.eventItem(ctx, eventID, itemID); err != nil {
		return err
	}
	if err := s.agendaRepo.DeleteItem(ctx, itemID); err != nil {
		return fmt.Errorf("delete agenda item: %w", err)
	}
	return nil
}

func (s *agendaService) AddSpeaker(ctx context.Context, eventID, itemID, callerID string, speaker *domain.Speaker) error {
	ctx, cancel := withTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := managedEvent(ctx, s.eventRepo, s.orgRepo, eventID, callerID); err != nil {
		return err
	}
	if _, err := s.eventItem(ctx, eventID, itemID); err != nil {
		return err
	}
	speaker.Name = strings.TrimSpace(speaker.Name)
	if speaker.Name == "" {
		return domain.Invalid("speaker name is required")
	}
	speaker.AgendaItemID = itemID
	speaker.CreatedAt = s.now()
	if err := s.agendaRepo.CreateSpeaker(ctx, speaker); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return err
		}
		return fmt.Errorf("create speaker: %w", err)
	}
	return nil
}

func (s *agendaService) RemoveSpeaker(ctx context.Context, eventID, itemID, speakerID, callerID string) error {
	ctx, cancel := withTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := managedEvent(ctx, s.eventRepo, s.orgRepo, eventID, callerID); err != nil {
		return err
	}
	if _, err := s.eventItem(ctx, eventID, itemID); err != nil {
		return err
	}
	if err := s.agendaRepo.DeleteSpeaker(ctx, itemID, speakerID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return err
		}
		return fmt.Errorf("delete speaker: %w", err)
	}
	return nil
}
