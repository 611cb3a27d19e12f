package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"karyadi/internal/domain"
)

type jobService struct {
	jobRepo        domain.JobPostRepository
	orgRepo        domain.OrganizationRepository
	now            func() time.Time
	contextTimeout time.Duration
}

func NewJobService(jobRepo domain.JobPostRepository, orgRepo domain.OrganizationRepository, timeout time.Duration) domain.JobService {
	return &jobService{
		jobRepo:        jobRepo,
		orgRepo:        orgRepo,
		now:            time.Now,
		contextTimeout: timeout,
	}
}

func (s *jobService) validate(job *domain.JobPost, checkDeadline bool) error {
	var problems []string
	if job.Title == "" {
		problems = append(problems, "title is required")
	}
	if strings.TrimSpace(job.Description) == "" {
		problems = append(problems, "description is required")
	}
	if !domain.ValidEmploymentType(job.EmploymentType) {
		problems = append(problems, fmt.Sprintf("unknown employment_type %q", job.EmploymentType))
	}
	if !domain.ValidWorkMode(job.WorkMode) {
		problems = append(problems, fmt.Sprintf("unknown work_mode %q", job.WorkMode))
	}
	if job.SalaryMin != nil && *job.SalaryMin < 0 || job.SalaryMax != nil && *job.SalaryMax < 0 {
		problems = append(problems, "salary cannot be negative")
	}
	if job.SalaryMin != nil && job.SalaryMax != nil && *job.SalaryMin > *job.SalaryMax {
		problems = append(problems, "salary_min must not exceed salary_max")
	}
	if checkDeadline && job.Deadline != nil && !job.Deadline.After(s.now()) {
		problems = append(problems, "deadline must be in the future")
	}
	if len(problems) > 0 {
		return domain.Invalid(problems...)
	}
	return nil
}

func (s *jobService) CreateJobPost(ctx context.Context, job *domain.JobPost, callerID string) error {
	ctx, cancel := withTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := requireManager(ctx, s.orgRepo, job.OrganizationID, callerID); err != nil {
		return err
	}
	job.Title = strings.TrimSpace(job.Title)
	job.Location = strings.TrimSpace(job.Location)
	job.Currency = strings.ToUpper(strings.TrimSpace(job.Currency))
	job.Skills = normalizeSkills(job.Skills)
	if err := s.validate(job, true); err != nil {
		return err
	}

	now := s.now()
	job.Status = domain.JobStatusOpen
	job.PostedBy = callerID
	job.CreatedAt = now
	job.UpdatedAt = now
	if err := s.jobRepo.Create(ctx, job); err != nil {
		return fmt.Errorf("create job post: %w", err)
	}
	return nil
}

func (s *jobService) getJob(ctx context.Context, id string) (*domain.JobPost, error) {
	job, err := s.jobRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get job post: %w", err)
	}
	return job, nil
}

func (s *jobService) managedJob(ctx context.Context, id, callerID string) (*domain.JobPost, error) {
	job, err := s.getJob(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := requireManager(ctx, s.orgRepo, job.OrganizationID, callerID); err != nil {
		return nil, err
	}
	return job, nil
}

func (s *jobService) GetJobPost(ctx context.Context, id string) (*domain.JobPost, error) {
	ctx, cancel := withTimeout(ctx, s.contextTimeout)
	defer cancel()
	return s.getJob(ctx, id)
}

func (s *jobService) UpdateJobPost(ctx context.Context, id, callerID string, upd domain.JobPostUpdate) (*domain.JobPost, error) {
	ctx, cancel := withTimeout(ctx, s.contextTimeout)
	defer cancel()

	job, err := s.managedJob(ctx, id, callerID)
	if err != nil {
		return nil, err
	}
	if upd.Title != nil {
		job.Title = strings.TrimSpace(*upd.Title)
	}
	if upd.Description != nil {
		job.Description = *upd.Description
	}
	if upd.Location != nil {
		job.Location = strings.TrimSpace(*upd.Location)
	}
	if upd.EmploymentType != nil {
		job.EmploymentType = *upd.EmploymentType
	}
	if upd.WorkMode != nil {
		job.WorkMode = *upd.WorkMode
	}
	if upd.SalaryMin != nil {
		job.SalaryMin = upd.SalaryMin
	}
	if upd.SalaryMax != nil {
		job.SalaryMax = upd.SalaryMax
	}
	if upd.Currency != nil {
		job.Currency = strings.ToUpper(strings.TrimSpace(*upd.Currency))
	}
	if upd.Skills != nil {
		job.Skills = normalizeSkills(upd.Skills)
	}
	if upd.Deadline != nil {
		job.Deadline = upd.Deadline
	}
	if err := s.validate(job, upd.Deadline != nil); err != nil {
		return nil, err
	}
	job.UpdatedAt = s.now()
	if err := s.jobRepo.Update(ctx, job); err != nil {
		return nil, fmt.Errorf("update job post: %w", err)
	}
	return job, nil
}

func (s *jobService) SetJobStatus(ctx context.Context, id, callerID, status string) (*domain.JobPost, error) {
	ctx, cancel := withTimeout(ctx, s.contextTimeout)
	defer cancel()

	if status != domain.JobStatusOpen && status != domain.JobStatusClosed {
		return nil, domain.Invalid(fmt.Sprintf("unknown status %q", status))
	}
	job, err := s.managedJob(ctx, id, callerID)
	if err != nil {
		return nil, err
	}
	if job.Status == status {
		return job, nil
	}
	if status == domain.JobStatusOpen && job.Deadline != nil && !job.Deadline.After(s.now()) {
		return nil, domain.Invalid("set a future deadline before reopening")
	}
	job.Status = status
	job.UpdatedAt = s.now()
	if err := s.jobRepo.Update(ctx, job); err != nil {
		return nil, fmt.Errorf("update job post: %w", err)
	}
	return job, nil
}

func (s *jobService) ListJobPosts(ctx context.Context, filter domain.JobFilter, params domain.PaginationParams) ([]*domain.JobPost, int, error) {
	ctx, cancel := withTimeout(ctx, s.contextTimeout)
	defer cancel()

	var problems []string
	if filter.EmploymentType != "" && !domain.ValidEmploymentType(filter.EmploymentType) {
		problems = append(problems, fmt.Sprintf("unknown employment_type %q", filter.EmploymentType))
	}
	if filter.WorkMode != "" && !domain.ValidWorkMode(filter.WorkMode) {
		problems = append(problems, fmt.Sprintf("unknown work_mode %q", filter.WorkMode))
	}
	switch filter.Status {
	case "":
		filter.Status = domain.JobStatusOpen
	case domain.JobStatusOpen, domain.JobStatusClosed:
	default:
		problems = append(problems, fmt.Sprintf("unknown status %q", filter.Status))
	}
	if len(problems) > 0 {
		return nil, 0, domain.Invalid(problems...)
	}
	filter.Search = strings.TrimSpace(filter.Search)
	filter.Location = strings.TrimSpace(filter.Location)
	filter.Skill = strings.TrimSpace(filter.Skill)

	jobs, total, err := s.jobRepo.List(ctx, filter, params)
	if err != nil {
		return nil, 0, fmt.Errorf("list job posts: %w", err)
	}
	return jobs, total, nil
}
