package postgres

import (
	"context"
	"database/sql"

	"karyadi/internal/domain"
)

const eventColumns = `id, organization_id, title, description, category, location, is_online, meeting_url,
	starts_at, ends_at, capacity, status, wizard_step, created_by, created_at, updated_at`

type eventRepository struct {
	DB *sql.DB
}

func NewEventRepository(db *sql.DB) domain.EventRepository {
	return &eventRepository{
		DB: db,
	}
}

func scanEvent(s interface{ Scan(...any) error }) (*domain.Event, error) {
	e := &domain.Event{}
	err := s.Scan(
		&e.ID, &e.OrganizationID, &e.Title, &e.Description, &e.Category, &e.Location, &e.IsOnline, &e.MeetingURL,
		&e.StartsAt, &e.EndsAt, &e.Capacity, &e.Status, &e.WizardStep, &e.CreatedBy, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return e, nil
}

func (r *eventRepository) Create(ctx context.Context, e *domain.Event) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `
		INSERT INTO events (organization_id, title, description, category, location, is_online, meeting_url,
			starts_at, ends_at, capacity, status, wizard_step, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING id
	`
	err = tx.QueryRowContext(ctx, query,
		e.OrganizationID, e.Title, e.Description, e.Category, e.Location, e.IsOnline, e.MeetingURL,
		e.StartsAt, e.EndsAt, e.Capacity, e.Status, e.WizardStep, e.CreatedBy, e.CreatedAt, e.UpdatedAt,
	).Scan(&e.ID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return err
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO event_organizations (event_id, organization_id, tier, created_at) VALUES ($1, $2, $3, $4)`,
		e.ID, e.OrganizationID, domain.TierOrganizer, e.CreatedAt)
	if err != nil {
		return err
	}
	return tx.Commit()
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`
	e, err := scanEvent(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, notFound(err)
	}
	return e, nil
}

func (r *eventRepository) Update(ctx context.Context, e *domain.Event) error {
	query := `
		UPDATE events
		SET title = $1, description = $2, category = $3, location = $4, is_online = $5, meeting_url = $6,
			starts_at = $7, ends_at = $8, capacity = $9, status = $10, wizard_step = $11, updated_at = $12
		WHERE id = $13
	`
	res, err := r.DB.ExecContext(ctx, query,
		e.Title, e.Description, e.Category, e.Location, e.IsOnline, e.MeetingURL,
		e.StartsAt, e.EndsAt, e.Capacity, e.Status, e.WizardStep, e.UpdatedAt, e.ID,
	)
	if err != nil {
		return err
	}
	return affected(res)
}

func (r *eventRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM events WHERE id = $1`
	result, err := r.DB.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	return affected(result)
}

func (r *eventRepository) List(ctx context.Context, filter domain.EventFilter, params domain.PaginationParams) ([]*domain.Event, int, error) {
	var c conditions
	if filter.Status != "" {
		c.add(`status = $%d`, filter.Status)
	} else if !filter.IncludeDrafts {
		c.addRaw(`status <> 'draft'`)
	}
	if filter.Category != "" {
		c.add(`category = $%d`, filter.Category)
	}
	if filter.OrganizationID != "" {
		c.add(`organization_id = $%d`, filter.OrganizationID)
	}
	if filter.Search != "" {
		c.add(`title ILIKE $%d`, likePattern(filter.Search))
	}
	if filter.StartsAfter != nil {
		c.add(`starts_at >= $%d`, *filter.StartsAfter)
	}
	if filter.StartsBefore != nil {
		c.add(`starts_at <= $%d`, *filter.StartsBefore)
	}

	var total int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM events`+c.where(), c.args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit, args := c.page(params.Limit(), params.Offset())
	rows, err := r.DB.QueryContext(ctx, `SELECT `+eventColumns+` FROM events`+c.where()+` ORDER BY starts_at, id`+limit, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	events := make([]*domain.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, 0, err
		}
		events = append(events, e)
	}
	return events, total, rows.Err()
}
