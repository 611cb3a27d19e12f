package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"karyadi/internal/domain"
)

type jobApplicationService struct {
	appRepo        domain.JobApplicationRepository
	jobRepo        domain.JobPostRepository
	orgRepo        domain.OrganizationRepository
	userRepo       domain.UserRepository
	emailService   domain.EmailService
	audit          domain.AuditPublisher
	logger         *slog.Logger
	now            func() time.Time
	contextTimeout time.Duration
}

func NewJobApplicationService(
	appRepo domain.JobApplicationRepository,
	jobRepo domain.JobPostRepository,
	orgRepo domain.OrganizationRepository,
	userRepo domain.UserRepository,
	emailService domain.EmailService,
	audit domain.AuditPublisher,
	logger *slog.Logger,
	timeout time.Duration,
) domain.JobApplicationService {
	return &jobApplicationService{
		appRepo:        appRepo,
		jobRepo:        jobRepo,
		orgRepo:        orgRepo,
		userRepo:       userRepo,
		emailService:   emailService,
		audit:          auditOrNoop(audit),
		logger:         logger,
		now:            time.Now,
		contextTimeout: timeout,
	}
}

func (s *jobApplicationService) getJob(ctx context.Context, id string) (*domain.JobPost, error) {
	job, err := s.jobRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get job post: %w", err)
	}
	return job, nil
}

func (s *jobApplicationService) Apply(ctx context.Context, jobPostID, applicantID, coverLetter, resumeURL string) (*domain.JobApplication, error) {
	ctx, cancel := withTimeout(ctx, s.contextTimeout)
	defer cancel()

	job, err := s.getJob(ctx, jobPostID)
	if err != nil {
		return nil, err
	}
	manager, err := isManager(ctx, s.orgRepo, job.OrganizationID, applicantID)
	if err != nil {
		return nil, err
	}
	if manager {
		return nil, domain.ErrForbidden
	}
	now := s.now()
	if !job.AcceptsApplications(now) {
		return nil, domain.ErrJobClosed
	}

	app := &domain.JobApplication{
		JobPostID:   jobPostID,
		ApplicantID: applicantID,
		CoverLetter: strings.TrimSpace(coverLetter),
		ResumeURL:   strings.TrimSpace(resumeURL),
		Status:      domain.ApplicationPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.appRepo.Create(ctx, app); err != nil {
		if errors.Is(err, domain.ErrAlreadyApplied) || errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("create application: %w", err)
	}
	return app, nil
}

// access loads the application and resolves which party the caller acts as.
// Callers who are neither the applicant nor a manager of the hiring organization get ErrForbidden.
func (s *jobApplicationService) access(ctx context.Context, applicationID, callerID string) (*domain.JobApplication, *domain.JobPost, domain.Actor, error) {
	app, err := s.appRepo.GetByID(ctx, applicationID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil, "", domain.ErrNotFound
		}
		return nil, nil, "", fmt.Errorf("get application: %w", err)
	}
	job, err := s.getJob(ctx, app.JobPostID)
	if err != nil {
		return nil, nil, "", err
	}
	if app.ApplicantID == callerID {
		return app, job, domain.ActorApplicant, nil
	}
	manager, err := isManager(ctx, s.orgRepo, job.OrganizationID, callerID)
	if err != nil {
		return nil, nil, "", err
	}
	if !manager {
		return nil, nil, "", domain.ErrForbidden
	}
	return app, job, domain.ActorEmployer, nil
}

func (s *jobApplicationService) ChangeStatus(ctx context.Context, applicationID, callerID string, to domain.ApplicationStatus, note string) (*domain.JobApplication, error) {
	ctx, cancel := withTimeout(ctx, s.contextTimeout)
	defer cancel()

	if !to.Valid() {
		return nil, domain.Invalid(fmt.Sprintf("unknown status %q", to))
	}
	app, job, actor, err := s.access(ctx, applicationID, callerID)
	if err != nil {
		return nil, err
	}
	if !app.Status.CanTransition(to, actor) {
		return nil, fmt.Errorf("%s -> %s by %s: %w", app.Status, to, actor, domain.ErrInvalidTransition)
	}

	change := &domain.ApplicationStatusChange{
		ApplicationID: app.ID,
		From:          app.Status,
		To:            to,
		ChangedBy:     callerID,
		Note:          strings.TrimSpace(note),
	}
	updated, err := s.appRepo.UpdateStatus(ctx, change)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidTransition) {
			return nil, err
		}
		return nil, fmt.Errorf("update application status: %w", err)
	}

	s.audit.Publish(callerID, domain.AuditApplicationStatus, updated.ID, "%s -> %s", change.From, change.To)
	if actor == domain.ActorEmployer {
		s.notify(ctx, updated, job)
	}
	return updated, nil
}

func (s *jobApplicationService) notify(ctx context.Context, app *domain.JobApplication, job *domain.JobPost) {
	if s.emailService == nil || s.userRepo == nil {
		return
	}
	user, err := s.userRepo.GetByID(ctx, app.ApplicantID)
	if err != nil {
		s.logger.WarnContext(ctx, "application status email skipped", "application_id", app.ID, "err", err)
		return
	}
	err = s.emailService.SendApplicationStatus(ctx, &domain.ApplicationStatusEmailData{
		Email:    user.Email,
		Name:     user.Name,
		JobTitle: job.Title,
		Status:   string(app.Status),
		Note:     app.Note,
	})
	if err != nil {
		s.logger.WarnContext(ctx, "application status email failed", "application_id", app.ID, "err", err)
	}
}

func (s *jobApplicationService) Withdraw(ctx context.Context, applicationID, callerID string) (*domain.JobApplication, error) {
	ctx, cancel := withTimeout(ctx, s.contextTimeout)
	defer cancel()

	app, err := s.appRepo.GetByID(ctx, applicationID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get application: %w", err)
	}
	if app.ApplicantID != callerID {
		return nil, domain.ErrForbidden
	}
	return s.ChangeStatus(ctx, applicationID, callerID, domain.ApplicationWithdrawn, "")
}

func (s *jobApplicationService) GetApplication(ctx context.Context, applicationID, callerID string) (*domain.JobApplication, error) {
	ctx, cancel := withTimeout(ctx, s.contextTimeout)
	defer cancel()

	app, _, _, err := s.access(ctx, applicationID, callerID)
	return app, err
}

func (s *jobApplicationService) History(ctx context.Context, applicationID, callerID string) ([]*domain.ApplicationStatusChange, error) {
	ctx, cancel := withTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, _, _, err := s.access(ctx, applicationID, callerID); err != nil {
		return nil, err
	}
	history, err := s.appRepo.ListHistory(ctx, applicationID)
	if err != nil {
		return nil, fmt.Errorf("list application history: %w", err)
	}
	return history, nil
}

func (s *jobApplicationService) ListMyApplications(ctx context.Context, applicantID string) ([]*domain.ApplicationWithJob, error) {
	ctx, cancel := withTimeout(ctx, s.contextTimeout)
	defer cancel()

	apps, err := s.appRepo.ListByApplicantID(ctx, applicantID)
	if err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	jobs := make(map[string]*domain.JobPost)
	result := make([]*domain.ApplicationWithJob, 0, len(apps))
	for _, app := range apps {
		job, ok := jobs[app.JobPostID]
		if !ok {
			job, err = s.getJob(ctx, app.JobPostID)
			if errors.Is(err, domain.ErrNotFound) {
				continue
			}
			if err != nil {
				return nil, err
			}
			jobs[app.JobPostID] = job
		}
		result = append(result, &domain.ApplicationWithJob{Application: app, Job: job})
	}
	return result, nil
}

func (s *jobApplicationService) ListJobApplications(ctx context.Context, jobPostID, callerID string, status domain.ApplicationStatus) ([]*domain.JobApplication, error) {
	ctx, cancel := withTimeout(ctx, s.contextTimeout)
	defer cancel()

	if status != "" && !status.Valid() {
		return nil, domain.Invalid(fmt.Sprintf("unknown status %q", status))
	}
	job, err := s.getJob(ctx, jobPostID)
	if err != nil {
		return nil, err
	}
	if err := requireManager(ctx, s.orgRepo, job.OrganizationID, callerID); err != nil {
		return nil, err
	}
	apps, err := s.appRepo.ListByJobPostID(ctx, jobPostID, status)
	if err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	return apps, nil
}
