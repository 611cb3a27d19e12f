package postgres

import (
	"context"
	"database/sql"

	"karyadi/internal/domain"
)

type eventOrganizationRepository struct {
	DB *sql.DB
}

func NewEventOrganizationRepository(db *sql.DB) domain.EventOrganizationRepository {
	return &eventOrganizationRepository{DB: db}
}

func (r *eventOrganizationRepository) Attach(ctx context.Context, a *domain.EventOrganization) error {
	var level sql.NullString
	if a.SponsorLevel != "" {
		level = sql.NullString{String: a.SponsorLevel, Valid: true}
	}
	query := `
		INSERT INTO event_organizations (event_id, organization_id, tier, sponsor_level, contribution, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.DB.ExecContext(ctx, query, a.EventID, a.OrganizationID, a.Tier, level, a.Contribution, a.CreatedAt)
	switch {
	case isUniqueViolation(err):
		return domain.ErrConflict
	case isForeignKeyViolation(err):
		return domain.ErrNotFound
	}
	return err
}

func (r *eventOrganizationRepository) Detach(ctx context.Context, eventID, orgID string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM event_organizations WHERE event_id = $1 AND organization_id = $2`, eventID, orgID)
	if err != nil {
		return err
	}
	return affected(res)
}

func (r *eventOrganizationRepository) ListByEventID(ctx context.Context, eventID string) ([]*domain.EventOrganization, error) {
	query := `
		SELECT eo.event_id, eo.organization_id, o.name, eo.tier, eo.sponsor_level, eo.contribution, eo.created_at
		FROM event_organizations eo
		INNER JOIN organizations o ON o.id = eo.organization_id
		WHERE eo.event_id = $1
		ORDER BY eo.created_at, o.name
	`
	rows, err := r.DB.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*domain.EventOrganization, 0)
	for rows.Next() {
		a := &domain.EventOrganization{}
		var level sql.NullString
		if err := rows.Scan(&a.EventID, &a.OrganizationID, &a.OrganizationName, &a.Tier, &level, &a.Contribution, &a.CreatedAt); err != nil {
			return nil, err
		}
		a.SponsorLevel = nullString(level)
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *eventOrganizationRepository) CountByTier(ctx context.Context, eventID, tier string) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM event_organizations WHERE event_id = $1 AND tier = $2`, eventID, tier).Scan(&n)
	return n, err
}
