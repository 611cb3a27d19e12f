package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"karyadi/internal/domain"
)

type eventOrganizationService struct {
	eventRepo      domain.EventRepository
	assocRepo      domain.EventOrganizationRepository
	orgRepo        domain.OrganizationRepository
	now            func() time.Time
	contextTimeout time.Duration
}

func NewEventOrganizationService(
	eventRepo domain.EventRepository,
	assocRepo domain.EventOrganizationRepository,
	orgRepo domain.OrganizationRepository,
	timeout time.Duration,
) domain.EventOrganizationService {
	return &eventOrganizationService{
		eventRepo:      eventRepo,
		assocRepo:      assocRepo,
		orgRepo:        orgRepo,
		now:            time.Now,
		contextTimeout: timeout,
	}
}

func validateAssociation(a *domain.EventOrganization) error {
	var problems []string
	if !domain.ValidTier(a.Tier) {
		problems = append(problems, fmt.Sprintf("unknown tier %q", a.Tier))
	}
	switch {
	case a.Tier == domain.TierSponsor && a.SponsorLevel == "":
		problems = append(problems, "sponsor_level is required for sponsors")
	case a.Tier == domain.TierSponsor && !domain.ValidSponsorLevel(a.SponsorLevel):
		problems = append(problems, fmt.Sprintf("unknown sponsor_level %q", a.SponsorLevel))
	case a.Tier != domain.TierSponsor && a.SponsorLevel != "":
		problems = append(problems, "sponsor_level is only valid for sponsors")
	}
	if len(problems) > 0 {
		return domain.Invalid(problems...)
	}
	return nil
}

func (s *eventOrganizationService) AttachOrganization(ctx context.Context, callerID string, assoc *domain.EventOrganization) error {
	ctx, cancel := withTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := managedEvent(ctx, s.eventRepo, s.orgRepo, assoc.EventID, callerID); err != nil {
		return err
	}
	assoc.Tier = strings.ToLower(strings.TrimSpace(assoc.Tier))
	assoc.SponsorLevel = strings.ToLower(strings.TrimSpace(assoc.SponsorLevel))
	if err := validateAssociation(assoc); err != nil {
		return err
	}
	org, err := s.orgRepo.GetByID(ctx, assoc.OrganizationID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return err
		}
		return fmt.Errorf("get organization: %w", err)
	}
	assoc.OrganizationName = org.Name
	assoc.CreatedAt = s.now()
	if err := s.assocRepo.Attach(ctx, assoc); err != nil {
		if errors.Is(err, domain.ErrConflict) || errors.Is(err, domain.ErrNotFound) {
			return err
		}
		return fmt.Errorf("attach organization: %w", err)
	}
	return nil
}

func (s *eventOrganizationService) DetachOrganization(ctx context.Context, eventID, orgID, callerID string) error {
	ctx, cancel := withTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := managedEvent(ctx, s.eventRepo, s.orgRepo, eventID, callerID)
	if err != nil {
		return err
	}
	if event.OrganizationID == orgID {
		return domain.Invalid("the owning organization cannot be detached")
	}
	if err := s.assocRepo.Detach(ctx, eventID, orgID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return err
		}
		return fmt.Errorf("detach organization: %w", err)
	}
	return nil
}

func (s *eventOrganizationService) ListAssociations(ctx context.Context, eventID, callerID, tier string) (map[string][]*domain.EventOrganization, error) {
	ctx, cancel := withTimeout(ctx, s.contextTimeout)
	defer cancel()

	if tier != "" && !domain.ValidTier(tier) {
		return nil, domain.Invalid(fmt.Sprintf("unknown tier %q", tier))
	}
	if _, _, err := visibleEvent(ctx, s.eventRepo, s.orgRepo, eventID, callerID); err != nil {
		return nil, err
	}
	assocs, err := s.assocRepo.ListByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list associations: %w", err)
	}
	grouped := domain.GroupByTier(assocs)
	if tier == "" {
		return grouped, nil
	}
	return map[string][]*domain.EventOrganization{tier: grouped[tier]}, nil
}
