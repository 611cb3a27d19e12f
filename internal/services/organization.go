package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"karyadi/internal/domain"
)

var (
	slugRegexp    = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
	nonSlugRegexp = regexp.MustCompile(`[^a-z0-9]+`)
)

// Slugify lowercases s and replaces every run of non-alphanumeric characters with a dash.
func Slugify(s string) string {
	s = nonSlugRegexp.ReplaceAllString(strings.ToLower(s), "-")
	return strings.Trim(s, "-")
}

type organizationService struct {
	orgRepo        domain.OrganizationRepository
	userRepo       domain.UserRepository
	audit          domain.AuditPublisher
	contextTimeout time.Duration
}

func NewOrganizationService(orgRepo domain.OrganizationRepository, userRepo domain.UserRepository, audit domain.AuditPublisher, timeout time.Duration) domain.OrganizationService {
	return &organizationService{
		orgRepo:        orgRepo,
		userRepo:       userRepo,
		audit:          auditOrNoop(audit),
		contextTimeout: timeout,
	}
}

func (s *organizationService) CreateOrganization(ctx context.Context, org *domain.Organization) error {
	ctx, cancel := withTimeout(ctx, s.contextTimeout)
	defer cancel()

	org.Name = strings.TrimSpace(org.Name)
	if org.Name == "" {
		return domain.Invalid("name is required")
	}
	if org.CreatedBy == "" {
		return fmt.Errorf("organization creator is required")
	}
	org.Slug = strings.TrimSpace(org.Slug)
	if org.Slug == "" {
		org.Slug = Slugify(org.Name)
	}
	if !slugRegexp.MatchString(org.Slug) {
		return domain.Invalid("slug must contain only lowercase letters, digits and single dashes")
	}

	now := time.Now()
	org.CreatedAt = now
	org.UpdatedAt = now
	if err := s.orgRepo.Create(ctx, org); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return err
		}
		return fmt.Errorf("create organization: %w", err)
	}
	return nil
}

func (s *organizationService) GetOrganization(ctx context.Context, id string) (*domain.Organization, error) {
	ctx, cancel := withTimeout(ctx, s.contextTimeout)
	defer cancel()

	org, err := s.orgRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("get organization: %w", err)
	}
	return org, nil
}

func (s *organizationService) ListOrganizations(ctx context.Context, filter domain.OrganizationFilter, params domain.PaginationParams) ([]*domain.Organization, int, error) {
	ctx, cancel := withTimeout(ctx, s.contextTimeout)
	defer cancel()

	filter.Search = strings.TrimSpace(filter.Search)
	orgs, total, err := s.orgRepo.List(ctx, filter, params)
	if err != nil {
		return nil, 0, fmt.Errorf("list organizations: %w", err)
	}
	return orgs, total, nil
}

func (s *organizationService) ListMyOrganizations(ctx context.Context, userID string) ([]*domain.Organization, error) {
	ctx, cancel := withTimeout(ctx, s.contextTimeout)
	defer cancel()

	orgs, err := s.orgRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list organizations: %w", err)
	}
	return orgs, nil
}

func (s *organizationService) UpdateOrganization(ctx context.Context, id, callerID string, upd domain.OrganizationUpdate) (*domain.Organization, error) {
	ctx, cancel := withTimeout(ctx, s.contextTimeout)
	defer cancel()

	org, err := s.GetOrganization(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := requireManager(ctx, s.orgRepo, id, callerID); err != nil {
		return nil, err
	}
	if upd.Name != nil {
		name := strings.TrimSpace(*upd.Name)
		if name == "" {
			return nil, domain.Invalid("name cannot be empty")
		}
		org.Name = name
	}
	if upd.Description != nil {
		org.Description = strings.TrimSpace(*upd.Description)
	}
	if upd.Website != nil {
		org.Website = strings.TrimSpace(*upd.Website)
	}
	if upd.LogoURL != nil {
		org.LogoURL = strings.TrimSpace(*upd.LogoURL)
	}
	org.UpdatedAt = time.Now()
	if err := s.orgRepo.Update(ctx, org); err != nil {
		return nil, fmt.Errorf("update organization: %w", err)
	}
	return org, nil
}

func (s *organizationService) AddMember(ctx context.Context, orgID, callerID, email, role string) (*domain.OrganizationMember, error) {
	ctx, cancel := withTimeout(ctx, s.contextTimeout)
	defer cancel()

	if role != domain.OrgRoleAdmin && role != domain.OrgRoleMember {
		return nil, domain.Invalid("role must be admin or member")
	}
	if _, err := s.GetOrganization(ctx, orgID); err != nil {
		return nil, err
	}
	if err := requireManager(ctx, s.orgRepo, orgID, callerID); err != nil {
		return nil, err
	}
	user, err := s.userRepo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	if err := s.orgRepo.AddMember(ctx, orgID, user.ID, role); err != nil {
		if errors.Is(err, domain.ErrAlreadyMember) {
			return nil, err
		}
		return nil, fmt.Errorf("add member: %w", err)
	}
	member, err := s.orgRepo.GetMember(ctx, orgID, user.ID)
	if err != nil {
		return nil, fmt.Errorf("get member: %w", err)
	}
	s.audit.Publish(callerID, domain.AuditOrganizationMemberAdd, orgID, "added %s as %s", user.Email, role)
	return member, nil
}

func (s *organizationService) ListMembers(ctx context.Context, orgID, callerID string) ([]*domain.OrganizationMember, error) {
	ctx, cancel := withTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := s.orgRepo.GetMember(ctx, orgID, callerID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrForbidden
		}
		return nil, fmt.Errorf("get member: %w", err)
	}
	members, err := s.orgRepo.ListMembers(ctx, orgID)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	return members, nil
}

func (s *organizationService) RemoveMember(ctx context.Context, orgID, callerID, userID string) error {
	ctx, cancel := withTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := requireManager(ctx, s.orgRepo, orgID, callerID); err != nil {
		return err
	}
	target, err := s.orgRepo.GetMember(ctx, orgID, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return err
		}
		return fmt.Errorf("get member: %w", err)
	}
	if target.Role == domain.OrgRoleOwner {
		return domain.Invalid("the organization owner cannot be removed")
	}
	if err := s.orgRepo.RemoveMember(ctx, orgID, userID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return err
		}
		return fmt.Errorf("remove member: %w", err)
	}
	return nil
}

func (s *organizationService) CanManage(ctx context.Context, orgID, userID string) (bool, error) {
	ctx, cancel := withTimeout(ctx, s.contextTimeout)
	defer cancel()
	return isManager(ctx, s.orgRepo, orgID, userID)
}
