package postgres

import (
	"context"
	"database/sql"

	"karyadi/internal/domain"
)

type profileRepository struct {
	DB *sql.DB
}

// NewProfileRepository returns a domain.ProfileRepository implemented with Postgres.
// Every mutation is scoped by user_id so rows of other users behave as missing.
func NewProfileRepository(db *sql.DB) domain.ProfileRepository {
	return &profileRepository{DB: db}
}

func (r *profileRepository) deleteOwned(ctx context.Context, table, userID, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM `+table+` WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	return affected(res)
}

// Skills

func (r *profileRepository) ListSkills(ctx context.Context, userID string) ([]*domain.Skill, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT id, user_id, name, level, created_at FROM skills WHERE user_id = $1 ORDER BY lower(name)`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	skills := make([]*domain.Skill, 0)
	for rows.Next() {
		s := &domain.Skill{}
		if err := rows.Scan(&s.ID, &s.UserID, &s.Name, &s.Level, &s.CreatedAt); err != nil {
			return nil, err
		}
		skills = append(skills, s)
	}
	return skills, rows.Err()
}

func (r *profileRepository) AddSkill(ctx context.Context, s *domain.Skill) error {
	err := r.DB.QueryRowContext(ctx,
		`INSERT INTO skills (user_id, name, level, created_at) VALUES ($1, $2, $3, $4) RETURNING id`,
		s.UserID, s.Name, s.Level, s.CreatedAt).Scan(&s.ID)
	if isUniqueViolation(err) {
		return domain.ErrConflict
	}
	return err
}

func (r *profileRepository) DeleteSkill(ctx context.Context, userID, id string) error {
	return r.deleteOwned(ctx, "skills", userID, id)
}

// Experience

const experienceColumns = `id, user_id, title, company, location, start_date, end_date, current, description, created_at, updated_at`

func scanExperience(s interface{ Scan(...any) error }) (*domain.Experience, error) {
	e := &domain.Experience{}
	var end sql.NullTime
	if err := s.Scan(&e.ID, &e.UserID, &e.Title, &e.Company, &e.Location, &e.StartDate, &end, &e.Current, &e.Description, &e.CreatedAt, &e.UpdatedAt); err != nil {
		return nil, err
	}
	e.EndDate = timePtr(end)
	return e, nil
}

func (r *profileRepository) ListExperience(ctx context.Context, userID string) ([]*domain.Experience, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT `+experienceColumns+` FROM experiences WHERE user_id = $1 ORDER BY start_date DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := make([]*domain.Experience, 0)
	for rows.Next() {
		e, err := scanExperience(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, e)
	}
	return list, rows.Err()
}

func (r *profileRepository) GetExperience(ctx context.Context, userID, id string) (*domain.Experience, error) {
	e, err := scanExperience(r.DB.QueryRowContext(ctx,
		`SELECT `+experienceColumns+` FROM experiences WHERE id = $1 AND user_id = $2`, id, userID))
	if err != nil {
		return nil, notFound(err)
	}
	return e, nil
}

func (r *profileRepository) AddExperience(ctx context.Context, e *domain.Experience) error {
	query := `
		INSERT INTO experiences (user_id, title, company, location, start_date, end_date, current, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query,
		e.UserID, e.Title, e.Company, e.Location, e.StartDate, nullTime(e.EndDate), e.Current, e.Description, e.CreatedAt, e.UpdatedAt,
	).Scan(&e.ID)
}

func (r *profileRepository) UpdateExperience(ctx context.Context, e *domain.Experience) error {
	query := `
		UPDATE experiences
		SET title = $1, company = $2, location = $3, start_date = $4, end_date = $5, current = $6, description = $7, updated_at = $8
		WHERE id = $9 AND user_id = $10
	`
	res, err := r.DB.ExecContext(ctx, query,
		e.Title, e.Company, e.Location, e.StartDate, nullTime(e.EndDate), e.Current, e.Description, e.UpdatedAt, e.ID, e.UserID)
	if err != nil {
		return err
	}
	return affected(res)
}

func (r *profileRepository) DeleteExperience(ctx context.Context, userID, id string) error {
	return r.deleteOwned(ctx, "experiences", userID, id)
}

// Certifications

func (r *profileRepository) ListCertifications(ctx context.Context, userID string) ([]*domain.Certification, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, user_id, name, issuer, issued_on, expires_on, credential_id, credential_url, created_at
		FROM certifications WHERE user_id = $1 ORDER BY issued_on DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := make([]*domain.Certification, 0)
	for rows.Next() {
		c := &domain.Certification{}
		var expires sql.NullTime
		if err := rows.Scan(&c.ID, &c.UserID, &c.Name, &c.Issuer, &c.IssuedOn, &expires, &c.CredentialID, &c.CredentialURL, &c.CreatedAt); err != nil {
			return nil, err
		}
		c.ExpiresOn = timePtr(expires)
		list = append(list, c)
	}
	return list, rows.Err()
}

func (r *profileRepository) AddCertification(ctx context.Context, c *domain.Certification) error {
	query := `
		INSERT INTO certifications (user_id, name, issuer, issued_on, expires_on, credential_id, credential_url, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query,
		c.UserID, c.Name, c.Issuer, c.IssuedOn, nullTime(c.ExpiresOn), c.CredentialID, c.CredentialURL, c.CreatedAt,
	).Scan(&c.ID)
}

func (r *profileRepository) DeleteCertification(ctx context.Context, userID, id string) error {
	return r.deleteOwned(ctx, "certifications", userID, id)
}

// Education

const educationColumns = `id, user_id, school, degree, field_of_study, start_date, end_date, grade, description, created_at, updated_at`

func scanEducation(s interface{ Scan(...any) error }) (*domain.Education, error) {
	e := &domain.Education{}
	var end sql.NullTime
	if err := s.Scan(&e.ID, &e.UserID, &e.School, &e.Degree, &e.FieldOfStudy, &e.StartDate, &end, &e.Grade, &e.Description, &e.CreatedAt, &e.UpdatedAt); err != nil {
		return nil, err
	}
	e.EndDate = timePtr(end)
	return e, nil
}

func (r *profileRepository) ListEducation(ctx context.Context, userID string) ([]*domain.Education, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT `+educationColumns+` FROM educations WHERE user_id = $1 ORDER BY start_date DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := make([]*domain.Education, 0)
	for rows.Next() {
		e, err := scanEducation(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, e)
	}
	return list, rows.Err()
}

func (r *profileRepository) GetEducation(ctx context.Context, userID, id string) (*domain.Education, error) {
	e, err := scanEducation(r.DB.QueryRowContext(ctx,
		`SELECT `+educationColumns+` FROM educations WHERE id = $1 AND user_id = $2`, id, userID))
	if err != nil {
		return nil, notFound(err)
	}
	return e, nil
}

func (r *profileRepository) AddEducation(ctx context.Context, e *domain.Education) error {
	query := `
		INSERT INTO educations (user_id, school, degree, field_of_study, start_date, end_date, grade, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query,
		e.UserID, e.School, e.Degree, e.FieldOfStudy, e.StartDate, nullTime(e.EndDate), e.Grade, e.Description, e.CreatedAt, e.UpdatedAt,
	).Scan(&e.ID)
}

func (r *profileRepository) UpdateEducation(ctx context.Context, e *domain.Education) error {
	query := `
		UPDATE educations
		SET school = $1, degree = $2, field_of_study = $3, start_date = $4, end_date = $5, grade = $6, description = $7, updated_at = $8
		WHERE id = $9 AND user_id = $10
	`
	res, err := r.DB.ExecContext(ctx, query,
		e.School, e.Degree, e.FieldOfStudy, e.StartDate, nullTime(e.EndDate), e.Grade, e.Description, e.UpdatedAt, e.ID, e.UserID)
	if err != nil {
		return err
	}
	return affected(res)
}

func (r *profileRepository) DeleteEducation(ctx context.Context, userID, id string) error {
	return r.deleteOwned(ctx, "educations", userID, id)
}
