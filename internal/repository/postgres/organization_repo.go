package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"karyadi/internal/domain"
)

const orgColumns = `id, name, slug, description, website, logo_url, created_by, created_at, updated_at`

type organizationRepository struct {
	DB *sql.DB
}

func NewOrganizationRepository(db *sql.DB) domain.OrganizationRepository {
	return &organizationRepository{DB: db}
}

func scanOrganization(s interface{ Scan(...any) error }) (*domain.Organization, error) {
	o := &domain.Organization{}
	err := s.Scan(&o.ID, &o.Name, &o.Slug, &o.Description, &o.Website, &o.LogoURL, &o.CreatedBy, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return o, nil
}

func (r *organizationRepository) Create(ctx context.Context, o *domain.Organization) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `
		INSERT INTO organizations (name, slug, description, website, logo_url, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`
	err = tx.QueryRowContext(ctx, query, o.Name, o.Slug, o.Description, o.Website, o.LogoURL, o.CreatedBy, o.CreatedAt, o.UpdatedAt).Scan(&o.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("slug %q: %w", o.Slug, domain.ErrConflict)
		}
		return err
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO organization_members (organization_id, user_id, role, created_at) VALUES ($1, $2, $3, $4)`,
		o.ID, o.CreatedBy, domain.OrgRoleOwner, o.CreatedAt)
	if err != nil {
		return err
	}
	return tx.Commit()
}

func (r *organizationRepository) GetByID(ctx context.Context, id string) (*domain.Organization, error) {
	query := `SELECT ` + orgColumns + ` FROM organizations WHERE id = $1`
	o, err := scanOrganization(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, notFound(err)
	}
	return o, nil
}

func (r *organizationRepository) Update(ctx context.Context, o *domain.Organization) error {
	query := `
		UPDATE organizations
		SET name = $1, description = $2, website = $3, logo_url = $4, updated_at = $5
		WHERE id = $6
	`
	res, err := r.DB.ExecContext(ctx, query, o.Name, o.Description, o.Website, o.LogoURL, o.UpdatedAt, o.ID)
	if err != nil {
		return err
	}
	return affected(res)
}

func (r *organizationRepository) List(ctx context.Context, filter domain.OrganizationFilter, params domain.PaginationParams) ([]*domain.Organization, int, error) {
	var c conditions
	if filter.Search != "" {
		c.add(`name ILIKE $%d`, likePattern(filter.Search))
	}

	var total int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM organizations`+c.where(), c.args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit, args := c.page(params.Limit(), params.Offset())
	query := `SELECT ` + orgColumns + ` FROM organizations` + c.where() + ` ORDER BY name, id` + limit
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	orgs := make([]*domain.Organization, 0)
	for rows.Next() {
		o, err := scanOrganization(rows)
		if err != nil {
			return nil, 0, err
		}
		orgs = append(orgs, o)
	}
	return orgs, total, rows.Err()
}

func (r *organizationRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.Organization, error) {
	query := `
		SELECT o.id, o.name, o.slug, o.description, o.website, o.logo_url, o.created_by, o.created_at, o.updated_at
		FROM organizations o
		INNER JOIN organization_members m ON m.organization_id = o.id
		WHERE m.user_id = $1
		ORDER BY o.name
	`
	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orgs := make([]*domain.Organization, 0)
	for rows.Next() {
		o, err := scanOrganization(rows)
		if err != nil {
			return nil, err
		}
		orgs = append(orgs, o)
	}
	return orgs, rows.Err()
}

func (r *organizationRepository) AddMember(ctx context.Context, orgID, userID, role string) error {
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO organization_members (organization_id, user_id, role) VALUES ($1, $2, $3)`,
		orgID, userID, role)
	switch {
	case isUniqueViolation(err):
		return domain.ErrAlreadyMember
	case isForeignKeyViolation(err):
		return domain.ErrNotFound
	}
	return err
}

const memberQuery = `
	SELECT m.organization_id, m.user_id, m.role, u.name, u.last_name, u.email, m.created_at
	FROM organization_members m
	INNER JOIN users u ON u.id = m.user_id
`

func scanMember(s interface{ Scan(...any) error }) (*domain.OrganizationMember, error) {
	m := &domain.OrganizationMember{}
	if err := s.Scan(&m.OrganizationID, &m.UserID, &m.Role, &m.Name, &m.LastName, &m.Email, &m.CreatedAt); err != nil {
		return nil, err
	}
	return m, nil
}

func (r *organizationRepository) GetMember(ctx context.Context, orgID, userID string) (*domain.OrganizationMember, error) {
	m, err := scanMember(r.DB.QueryRowContext(ctx, memberQuery+` WHERE m.organization_id = $1 AND m.user_id = $2`, orgID, userID))
	if err != nil {
		return nil, notFound(err)
	}
	return m, nil
}

func (r *organizationRepository) ListMembers(ctx context.Context, orgID string) ([]*domain.OrganizationMember, error) {
	rows, err := r.DB.QueryContext(ctx, memberQuery+` WHERE m.organization_id = $1 ORDER BY m.created_at`, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	members := make([]*domain.OrganizationMember, 0)
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

func (r *organizationRepository) RemoveMember(ctx context.Context, orgID, userID string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM organization_members WHERE organization_id = $1 AND user_id = $2`, orgID, userID)
	if err != nil {
		return err
	}
	return affected(res)
}
