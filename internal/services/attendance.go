package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"karyadi/internal/domain"
)

type attendanceService struct {
	eventRepo      domain.EventRepository
	attendanceRepo domain.AttendanceRepository
	orgRepo        domain.OrganizationRepository
	userRepo       domain.UserRepository
	emailService   domain.EmailService
	logger         *slog.Logger
	now            func() time.Time
	contextTimeout time.Duration
}

// NewAttendanceService creates an AttendanceService with the given repositories.
func NewAttendanceService(
	eventRepo domain.EventRepository,
	attendanceRepo domain.AttendanceRepository,
	orgRepo domain.OrganizationRepository,
	userRepo domain.UserRepository,
	emailService domain.EmailService,
	logger *slog.Logger,
	timeout time.Duration,
) domain.AttendanceService {
	return &attendanceService{
		eventRepo:      eventRepo,
		attendanceRepo: attendanceRepo,
		orgRepo:        orgRepo,
		userRepo:       userRepo,
		emailService:   emailService,
		logger:         logger,
		now:            time.Now,
		contextTimeout: timeout,
	}
}

func (s *attendanceService) RegisterForEvent(ctx context.Context, eventID, userID string) (*domain.Attendance, bool, error) {
	ctx, cancel := withTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := getEvent(ctx, s.eventRepo, eventID)
	if err != nil {
		return nil, false, err
	}
	if event.Status == domain.EventStatusDraft {
		return nil, false, domain.ErrNotFound
	}
	if event.Status != domain.EventStatusPublished {
		return nil, false, domain.ErrEventNotPublished
	}

	// Registration is idempotent; a cancelled one is re-activated.
	reg := domain.NewAttendance(eventID, userID, s.now())
	created, err := s.attendanceRepo.Register(ctx, reg)
	if err != nil {
		if errors.Is(err, domain.ErrEventFull) || errors.Is(err, domain.ErrNotFound) {
			return nil, false, err
		}
		return nil, false, fmt.Errorf("register: %w", err)
	}
	if !created {
		return reg, false, nil
	}

	s.confirm(ctx, event, userID)
	return reg, true, nil
}

func (s *attendanceService) confirm(ctx context.Context, event *domain.Event, userID string) {
	if s.emailService == nil || s.userRepo == nil {
		return
	}
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		s.logger.WarnContext(ctx, "registration email skipped", "user_id", userID, "err", err)
		return
	}
	location := event.Location
	if event.IsOnline {
		location = "Online"
	}
	err = s.emailService.SendEventRegistration(ctx, &domain.EventRegistrationEmailData{
		Email:      user.Email,
		Name:       user.Name,
		EventTitle: event.Title,
		StartsAt:   event.StartsAt.Format("Mon, 02 Jan 2006 15:04 MST"),
		Location:   location,
	})
	if err != nil {
		s.logger.WarnContext(ctx, "registration email failed", "user_id", userID, "event_id", event.ID, "err", err)
	}
}

func (s *attendanceService) CancelRegistration(ctx context.Context, eventID, userID string) (*domain.Attendance, error) {
	ctx, cancel := withTimeout(ctx, s.contextTimeout)
	defer cancel()

	reg, err := s.attendanceRepo.GetByEventAndUser(ctx, eventID, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get registration: %w", err)
	}
	switch reg.Status {
	case domain.AttendanceCancelled:
		return reg, nil
	case domain.AttendanceAttended:
		return nil, fmt.Errorf("attended -> cancelled: %w", domain.ErrInvalidTransition)
	}
	reg, err = s.attendanceRepo.UpdateStatus(ctx, reg.ID, reg.Status, domain.AttendanceCancelled)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidTransition) {
			return nil, err
		}
		return nil, fmt.Errorf("cancel registration: %w", err)
	}
	return reg, nil
}

func (s *attendanceService) MarkAttended(ctx context.Context, eventID, userID, callerID string) (*domain.Attendance, error) {
	ctx, cancel := withTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := managedEvent(ctx, s.eventRepo, s.orgRepo, eventID, callerID); err != nil {
		return nil, err
	}
	reg, err := s.attendanceRepo.GetByEventAndUser(ctx, eventID, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get registration: %w", err)
	}
	if reg.Status != domain.AttendanceRegistered {
		return nil, fmt.Errorf("%s -> attended: %w", reg.Status, domain.ErrInvalidTransition)
	}
	reg, err = s.attendanceRepo.UpdateStatus(ctx, reg.ID, domain.AttendanceRegistered, domain.AttendanceAttended)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidTransition) {
			return nil, err
		}
		return nil, fmt.Errorf("mark attended: %w", err)
	}
	return reg, nil
}

func (s *attendanceService) ListMyRegistrations(ctx context.Context, userID string) ([]*domain.AttendanceWithEvent, error) {
	ctx, cancel := withTimeout(ctx, s.contextTimeout)
	defer cancel()

	regs, err := s.attendanceRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list registrations: %w", err)
	}

	eventsByID := make(map[string]*domain.Event)
	result := make([]*domain.AttendanceWithEvent, 0, len(regs))
	for _, reg := range regs {
		ev, ok := eventsByID[reg.EventID]
		if !ok {
			ev, err = s.eventRepo.GetByID(ctx, reg.EventID)
			if err != nil {
				if errors.Is(err, domain.ErrNotFound) {
					continue
				}
				return nil, fmt.Errorf("get event for registration: %w", err)
			}
			eventsByID[reg.EventID] = ev
		}
		result = append(result, &domain.AttendanceWithEvent{Attendance: reg, Event: ev})
	}
	return result, nil
}

func (s *attendanceService) ListEventAttendees(ctx context.Context, eventID, callerID string, params domain.PaginationParams) ([]*domain.Attendee, int, error) {
	ctx, cancel := withTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := managedEvent(ctx, s.eventRepo, s.orgRepo, eventID, callerID); err != nil {
		return nil, 0, err
	}
	attendees, total, err := s.attendanceRepo.ListByEventID(ctx, eventID, params)
	if err != nil {
		return nil, 0, fmt.Errorf("list attendees: %w", err)
	}
	return attendees, total, nil
}
