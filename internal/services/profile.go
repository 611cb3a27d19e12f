package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"karyadi/internal/domain"
)

type profileService struct {
	userRepo       domain.UserRepository
	profileRepo    domain.ProfileRepository
	now            func() time.Time
	contextTimeout time.Duration
}

func NewProfileService(userRepo domain.UserRepository, profileRepo domain.ProfileRepository, timeout time.Duration) domain.ProfileService {
	return &profileService{
		userRepo:       userRepo,
		profileRepo:    profileRepo,
		now:            time.Now,
		contextTimeout: timeout,
	}
}

func (s *profileService) GetProfile(ctx context.Context, userID string) (*domain.Profile, error) {
	ctx, cancel := withTimeout(ctx, s.contextTimeout)
	defer cancel()

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	p := &domain.Profile{User: user}
	if p.Skills, err = s.profileRepo.ListSkills(ctx, userID); err != nil {
		return nil, fmt.Errorf("list skills: %w", err)
	}
	if p.Experience, err = s.profileRepo.ListExperience(ctx, userID); err != nil {
		return nil, fmt.Errorf("list experience: %w", err)
	}
	if p.Certifications, err = s.profileRepo.ListCertifications(ctx, userID); err != nil {
		return nil, fmt.Errorf("list certifications: %w", err)
	}
	if p.Education, err = s.profileRepo.ListEducation(ctx, userID); err != nil {
		return nil, fmt.Errorf("list education: %w", err)
	}
	return p, nil
}

func (s *profileService) AddSkill(ctx context.Context, skill *domain.Skill) error {
	ctx, cancel := withTimeout(ctx, s.contextTimeout)
	defer cancel()

	skill.Name = normalizeSkill(skill.Name)
	skill.Level = strings.ToLower(strings.TrimSpace(skill.Level))
	if skill.Level == "" {
		skill.Level = domain.SkillIntermediate
	}
	var problems []string
	if skill.Name == "" {
		problems = append(problems, "name is required")
	}
	if !domain.ValidSkillLevel(skill.Level) {
		problems = append(problems, fmt.Sprintf("unknown level %q", skill.Level))
	}
	if len(problems) > 0 {
		return domain.Invalid(problems...)
	}

	existing, err := s.profileRepo.ListSkills(ctx, skill.UserID)
	if err != nil {
		return fmt.Errorf("list skills: %w", err)
	}
	for _, e := range existing {
		if strings.EqualFold(e.Name, skill.Name) {
			return fmt.Errorf("skill %q: %w", skill.Name, domain.ErrConflict)
		}
	}
	skill.CreatedAt = s.now()
	if err := s.profileRepo.AddSkill(ctx, skill); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return err
		}
		return fmt.Errorf("add skill: %w", err)
	}
	return nil
}

func (s *profileService) RemoveSkill(ctx context.Context, userID, id string) error {
	ctx, cancel := withTimeout(ctx, s.contextTimeout)
	defer cancel()
	return deleteResult("skill", s.profileRepo.DeleteSkill(ctx, userID, id))
}

// deleteResult passes ErrNotFound through and wraps anything else.
func deleteResult(what string, err error) error {
	if err == nil || errors.Is(err, domain.ErrNotFound) {
		return err
	}
	return fmt.Errorf("delete %s: %w", what, err)
}

func validatePeriod(start time.Time, end *time.Time, startName, endName string) []string {
	var problems []string
	if start.IsZero() {
		problems = append(problems, startName+" is required")
	}
	if end != nil && !start.IsZero() && end.Before(start) {
		problems = append(problems, endName+" must not be before "+startName)
	}
	return problems
}

func validateExperience(exp *domain.Experience) error {
	exp.Title = strings.TrimSpace(exp.Title)
	exp.Company = strings.TrimSpace(exp.Company)
	var problems []string
	if exp.Title == "" {
		problems = append(problems, "title is required")
	}
	if exp.Company == "" {
		problems = append(problems, "company is required")
	}
	if exp.Current && exp.EndDate != nil {
		problems = append(problems, "a current position has no end_date")
	}
	problems = append(problems, validatePeriod(exp.StartDate, exp.EndDate, "start_date", "end_date")...)
	if len(problems) > 0 {
		return domain.Invalid(problems...)
	}
	return nil
}

func (s *profileService) AddExperience(ctx context.Context, exp *domain.Experience) error {
	ctx, cancel := withTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := validateExperience(exp); err != nil {
		return err
	}
	now := s.now()
	exp.CreatedAt = now
	exp.UpdatedAt = now
	if err := s.profileRepo.AddExperience(ctx, exp); err != nil {
		return fmt.Errorf("add experience: %w", err)
	}
	return nil
}

func (s *profileService) UpdateExperience(ctx context.Context, userID, id string, upd domain.ExperienceUpdate) (*domain.Experience, error) {
	ctx, cancel := withTimeout(ctx, s.contextTimeout)
	defer cancel()

	exp, err := s.profileRepo.GetExperience(ctx, userID, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get experience: %w", err)
	}
	upd.Apply(exp)
	if err := validateExperience(exp); err != nil {
		return nil, err
	}
	exp.UpdatedAt = s.now()
	if err := s.profileRepo.UpdateExperience(ctx, exp); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("update experience: %w", err)
	}
	return exp, nil
}

func (s *profileService) DeleteExperience(ctx context.Context, userID, id string) error {
	ctx, cancel := withTimeout(ctx, s.contextTimeout)
	defer cancel()
	return deleteResult("experience", s.profileRepo.DeleteExperience(ctx, userID, id))
}

func (s *profileService) AddCertification(ctx context.Context, cert *domain.Certification) error {
	ctx, cancel := withTimeout(ctx, s.contextTimeout)
	defer cancel()

	cert.Name = strings.TrimSpace(cert.Name)
	cert.Issuer = strings.TrimSpace(cert.Issuer)
	var problems []string
	if cert.Name == "" {
		problems = append(problems, "name is required")
	}
	if cert.Issuer == "" {
		problems = append(problems, "issuer is required")
	}
	problems = append(problems, validatePeriod(cert.IssuedOn, cert.ExpiresOn, "issued_on", "expires_on")...)
	if len(problems) > 0 {
		return domain.Invalid(problems...)
	}
	cert.CreatedAt = s.now()
	if err := s.profileRepo.AddCertification(ctx, cert); err != nil {
		return fmt.Errorf("add certification: %w", err)
	}
	return nil
}

func (s *profileService) DeleteCertification(ctx context.Context, userID, id string) error {
	ctx, cancel := withTimeout(ctx, s.contextTimeout)
	defer cancel()
	return deleteResult("certification", s.profileRepo.DeleteCertification(ctx, userID, id))
}

func validateEducation(edu *domain.Education) error {
	edu.School = strings.TrimSpace(edu.School)
	var problems []string
	if edu.School == "" {
		problems = append(problems, "school is required")
	}
	problems = append(problems, validatePeriod(edu.StartDate, edu.EndDate, "start_date", "end_date")...)
	if len(problems) > 0 {
		return domain.Invalid(problems...)
	}
	return nil
}

func (s *profileService) AddEducation(ctx context.Context, edu *domain.Education) error {
	ctx, cancel := withTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := validateEducation(edu); err != nil {
		return err
	}
	now := s.now()
	edu.CreatedAt = now
	edu.UpdatedAt = now
	if err := s.profileRepo.AddEducation(ctx, edu); err != nil {
		return fmt.Errorf("add education: %w", err)
	}
	return nil
}

func (s *profileService) UpdateEducation(ctx context.Context, userID, id string, upd domain.EducationUpdate) (*domain.Education, error) {
	ctx, cancel := withTimeout(ctx, s.contextTimeout)
	defer cancel()

	edu, err := s.profileRepo.GetEducation(ctx, userID, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get education: %w", err)
	}
	upd.Apply(edu)
	if err := validateEducation(edu); err != nil {
		return nil, err
	}
	edu.UpdatedAt = s.now()
	if err := s.profileRepo.UpdateEducation(ctx, edu); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("update education: %w", err)
	}
	return edu, nil
}

func (s *profileService) DeleteEducation(ctx context.Context, userID, id string) error {
	ctx, cancel := withTimeout(ctx, s.contextTimeout)
	defer cancel()
	return deleteResult("education", s.profileRepo.DeleteEducation(ctx, userID, id))
}
