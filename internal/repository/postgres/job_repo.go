package postgres

import (
	"context"
	"database/sql"

	"github.com/lib/pq"

	"karyadi/internal/domain"
)

const jobColumns = `id, organization_id, title, description, location, employment_type, work_mode,
	salary_min, salary_max, currency, skills, status, deadline, posted_by, created_at, updated_at`

type jobPostRepository struct {
	DB *sql.DB
}

func NewJobPostRepository(db *sql.DB) domain.JobPostRepository {
	return &jobPostRepository{DB: db}
}

func scanJob(s interface{ Scan(...any) error }) (*domain.JobPost, error) {
	j := &domain.JobPost{}
	var salaryMin, salaryMax sql.NullInt64
	var deadline sql.NullTime
	var skills pq.StringArray
	err := s.Scan(
		&j.ID, &j.OrganizationID, &j.Title, &j.Description, &j.Location, &j.EmploymentType, &j.WorkMode,
		&salaryMin, &salaryMax, &j.Currency, &skills, &j.Status, &deadline, &j.PostedBy, &j.CreatedAt, &j.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if salaryMin.Valid {
		j.SalaryMin = &salaryMin.Int64
	}
	if salaryMax.Valid {
		j.SalaryMax = &salaryMax.Int64
	}
	j.Deadline = timePtr(deadline)
	j.Skills = []string(skills)
	if j.Skills == nil {
		j.Skills = []string{}
	}
	return j, nil
}

func (r *jobPostRepository) Create(ctx context.Context, j *domain.JobPost) error {
	query := `
		INSERT INTO job_posts (organization_id, title, description, location, employment_type, work_mode,
			salary_min, salary_max, currency, skills, status, deadline, posted_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING id
	`
	err := r.DB.QueryRowContext(ctx, query,
		j.OrganizationID, j.Title, j.Description, j.Location, j.EmploymentType, j.WorkMode,
		nullInt64(j.SalaryMin), nullInt64(j.SalaryMax), j.Currency, pq.Array(j.Skills), j.Status, nullTime(j.Deadline),
		j.PostedBy, j.CreatedAt, j.UpdatedAt,
	).Scan(&j.ID)
	if isForeignKeyViolation(err) {
		return domain.ErrNotFound
	}
	return err
}

func (r *jobPostRepository) GetByID(ctx context.Context, id string) (*domain.JobPost, error) {
	j, err := scanJob(r.DB.QueryRowContext(ctx, `SELECT `+jobColumns+` FROM job_posts WHERE id = $1`, id))
	if err != nil {
		return nil, notFound(err)
	}
	return j, nil
}

func (r *jobPostRepository) Update(ctx context.Context, j *domain.JobPost) error {
	query := `
		UPDATE job_posts
		SET title = $1, description = $2, location = $3, employment_type = $4, work_mode = $5,
			salary_min = $6, salary_max = $7, currency = $8, skills = $9, status = $10, deadline = $11, updated_at = $12
		WHERE id = $13
	`
	res, err := r.DB.ExecContext(ctx, query,
		j.Title, j.Description, j.Location, j.EmploymentType, j.WorkMode,
		nullInt64(j.SalaryMin), nullInt64(j.SalaryMax), j.Currency, pq.Array(j.Skills), j.Status, nullTime(j.Deadline),
		j.UpdatedAt, j.ID,
	)
	if err != nil {
		return err
	}
	return affected(res)
}

func (r *jobPostRepository) List(ctx context.Context, filter domain.JobFilter, params domain.PaginationParams) ([]*domain.JobPost, int, error) {
	var c conditions
	if filter.Status != "" {
		c.add(`status = $%d`, filter.Status)
	}
	if filter.Search != "" {
		c.add(`(title ILIKE $%[1]d OR description ILIKE $%[1]d)`, likePattern(filter.Search))
	}
	if filter.Location != "" {
		c.add(`location ILIKE $%d`, likePattern(filter.Location))
	}
	if filter.EmploymentType != "" {
		c.add(`employment_type = $%d`, filter.EmploymentType)
	}
	if filter.WorkMode != "" {
		c.add(`work_mode = $%d`, filter.WorkMode)
	}
	if filter.OrganizationID != "" {
		c.add(`organization_id = $%d`, filter.OrganizationID)
	}
	if filter.Skill != "" {
		c.add(`EXISTS (SELECT 1 FROM unnest(skills) s WHERE lower(s) = lower($%d))`, filter.Skill)
	}

	var total int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM job_posts`+c.where(), c.args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit, args := c.page(params.Limit(), params.Offset())
	rows, err := r.DB.QueryContext(ctx, `SELECT `+jobColumns+` FROM job_posts`+c.where()+` ORDER BY created_at DESC, id`+limit, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	jobs := make([]*domain.JobPost, 0)
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, 0, err
		}
		jobs = append(jobs, j)
	}
	return jobs, total, rows.Err()
}
