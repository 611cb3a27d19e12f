package postgres

import (
	"context"
	"database/sql"
	"errors"

	"karyadi/internal/domain"
)

const applicationColumns = `id, job_post_id, applicant_id, cover_letter, resume_url, status, note, created_at, updated_at`

type jobApplicationRepository struct {
	DB *sql.DB
}

func NewJobApplicationRepository(db *sql.DB) domain.JobApplicationRepository {
	return &jobApplicationRepository{DB: db}
}

func scanApplication(s interface{ Scan(...any) error }) (*domain.JobApplication, error) {
	a := &domain.JobApplication{}
	err := s.Scan(&a.ID, &a.JobPostID, &a.ApplicantID, &a.CoverLetter, &a.ResumeURL, &a.Status, &a.Note, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (r *jobApplicationRepository) Create(ctx context.Context, a *domain.JobApplication) error {
	query := `
		INSERT INTO job_applications (job_post_id, applicant_id, cover_letter, resume_url, status, note, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`
	err := r.DB.QueryRowContext(ctx, query,
		a.JobPostID, a.ApplicantID, a.CoverLetter, a.ResumeURL, a.Status, a.Note, a.CreatedAt, a.UpdatedAt,
	).Scan(&a.ID)
	switch {
	case isUniqueViolation(err):
		return domain.ErrAlreadyApplied
	case isForeignKeyViolation(err):
		return domain.ErrNotFound
	}
	return err
}

func (r *jobApplicationRepository) GetByID(ctx context.Context, id string) (*domain.JobApplication, error) {
	a, err := scanApplication(r.DB.QueryRowContext(ctx, `SELECT `+applicationColumns+` FROM job_applications WHERE id = $1`, id))
	if err != nil {
		return nil, notFound(err)
	}
	return a, nil
}

func (r *jobApplicationRepository) UpdateStatus(ctx context.Context, change *domain.ApplicationStatusChange) (*domain.JobApplication, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	// The status guard makes concurrent transitions from the same state lose cleanly.
	// An empty note keeps the one already on the application.
	query := `
		UPDATE job_applications
		SET status = $1, note = COALESCE(NULLIF($2, ''), note), updated_at = NOW()
		WHERE id = $3 AND status = $4
		RETURNING ` + applicationColumns
	app, err := scanApplication(tx.QueryRowContext(ctx, query, change.To, change.Note, change.ApplicationID, change.From))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrInvalidTransition
		}
		return nil, err
	}

	err = tx.QueryRowContext(ctx, `
		INSERT INTO job_application_status_changes (application_id, from_status, to_status, changed_by, note)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`,
		change.ApplicationID, change.From, change.To, change.ChangedBy, change.Note,
	).Scan(&change.ID, &change.CreatedAt)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return app, nil
}

func (r *jobApplicationRepository) list(ctx context.Context, query string, args ...any) ([]*domain.JobApplication, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	apps := make([]*domain.JobApplication, 0)
	for rows.Next() {
		a, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		apps = append(apps, a)
	}
	return apps, rows.Err()
}

func (r *jobApplicationRepository) ListByApplicantID(ctx context.Context, applicantID string) ([]*domain.JobApplication, error) {
	return r.list(ctx, `SELECT `+applicationColumns+` FROM job_applications WHERE applicant_id = $1 ORDER BY created_at DESC`, applicantID)
}

func (r *jobApplicationRepository) ListByJobPostID(ctx context.Context, jobPostID string, status domain.ApplicationStatus) ([]*domain.JobApplication, error) {
	if status == "" {
		return r.list(ctx, `SELECT `+applicationColumns+` FROM job_applications WHERE job_post_id = $1 ORDER BY created_at`, jobPostID)
	}
	return r.list(ctx, `SELECT `+applicationColumns+` FROM job_applications WHERE job_post_id = $1 AND status = $2 ORDER BY created_at`, jobPostID, status)
}

func (r *jobApplicationRepository) ListHistory(ctx context.Context, applicationID string) ([]*domain.ApplicationStatusChange, error) {
	query := `
		SELECT id, application_id, from_status, to_status, changed_by, note, created_at
		FROM job_application_status_changes
		WHERE application_id = $1
		ORDER BY created_at, id
	`
	rows, err := r.DB.QueryContext(ctx, query, applicationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	history := make([]*domain.ApplicationStatusChange, 0)
	for rows.Next() {
		c := &domain.ApplicationStatusChange{}
		if err := rows.Scan(&c.ID, &c.ApplicationID, &c.From, &c.To, &c.ChangedBy, &c.Note, &c.CreatedAt); err != nil {
			return nil, err
		}
		history = append(history, c)
	}
	return history, rows.Err()
}
