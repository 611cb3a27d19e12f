package postgres

import (
	"context"
	"database/sql"

	"karyadi/internal/domain"
)

const agendaColumns = `id, event_id, title, description, location, starts_at, ends_at, position, created_at, updated_at`

type agendaRepository struct {
	DB *sql.DB
}

func NewAgendaRepository(db *sql.DB) domain.AgendaRepository {
	return &agendaRepository{DB: db}
}

func scanAgendaItem(s interface{ Scan(...any) error }) (*domain.AgendaItem, error) {
	a := &domain.AgendaItem{Speakers: []*domain.Speaker{}}
	err := s.Scan(&a.ID, &a.EventID, &a.Title, &a.Description, &a.Location, &a.StartsAt, &a.EndsAt, &a.Position, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (r *agendaRepository) CreateItem(ctx context.Context, a *domain.AgendaItem) error {
	query := `
		INSERT INTO agenda_items (event_id, title, description, location, starts_at, ends_at, position, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`
	err := r.DB.QueryRowContext(ctx, query,
		a.EventID, a.Title, a.Description, a.Location, a.StartsAt, a.EndsAt, a.Position, a.CreatedAt, a.UpdatedAt,
	).Scan(&a.ID)
	if isForeignKeyViolation(err) {
		return domain.ErrNotFound
	}
	return err
}

func (r *agendaRepository) GetItem(ctx context.Context, id string) (*domain.AgendaItem, error) {
	a, err := scanAgendaItem(r.DB.QueryRowContext(ctx, `SELECT `+agendaColumns+` FROM agenda_items WHERE id = $1`, id))
	if err != nil {
		return nil, notFound(err)
	}
	return a, nil
}

func (r *agendaRepository) UpdateItem(ctx context.Context, a *domain.AgendaItem) error {
	query := `
		UPDATE agenda_items
		SET title = $1, description = $2, location = $3, starts_at = $4, ends_at = $5, position = $6, updated_at = $7
		WHERE id = $8
	`
	res, err := r.DB.ExecContext(ctx, query, a.Title, a.Description, a.Location, a.StartsAt, a.EndsAt, a.Position, a.UpdatedAt, a.ID)
	if err != nil {
		return err
	}
	return affected(res)
}

func (r *agendaRepository) DeleteItem(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM agenda_items WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return affected(res)
}

func (r *agendaRepository) ListByEventID(ctx context.Context, eventID string) ([]*domain.AgendaItem, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT `+agendaColumns+` FROM agenda_items WHERE event_id = $1 ORDER BY starts_at, position, id`, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]*domain.AgendaItem, 0)
	for rows.Next() {
		a, err := scanAgendaItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, a)
	}
	return items, rows.Err()
}

func (r *agendaRepository) CreateSpeaker(ctx context.Context, s *domain.Speaker) error {
	query := `
		INSERT INTO speakers (agenda_item_id, name, title, bio, photo_url, user_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	var userID sql.NullString
	if s.UserID != nil {
		userID = sql.NullString{String: *s.UserID, Valid: true}
	}
	err := r.DB.QueryRowContext(ctx, query, s.AgendaItemID, s.Name, s.Title, s.Bio, s.PhotoURL, userID, s.CreatedAt).Scan(&s.ID)
	if isForeignKeyViolation(err) {
		return domain.ErrNotFound
	}
	return err
}

func (r *agendaRepository) DeleteSpeaker(ctx context.Context, agendaItemID, speakerID string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM speakers WHERE id = $1 AND agenda_item_id = $2`, speakerID, agendaItemID)
	if err != nil {
		return err
	}
	return affected(res)
}

func (r *agendaRepository) ListSpeakersByEventID(ctx context.Context, eventID string) ([]*domain.Speaker, error) {
	query := `
		SELECT s.id, s.agenda_item_id, s.name, s.title, s.bio, s.photo_url, s.user_id, s.created_at
		FROM speakers s
		INNER JOIN agenda_items a ON a.id = s.agenda_item_id
		WHERE a.event_id = $1
		ORDER BY s.created_at, s.id
	`
	rows, err := r.DB.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	speakers := make([]*domain.Speaker, 0)
	for rows.Next() {
		s := &domain.Speaker{}
		var userID sql.NullString
		if err := rows.Scan(&s.ID, &s.AgendaItemID, &s.Name, &s.Title, &s.Bio, &s.PhotoURL, &userID, &s.CreatedAt); err != nil {
			return nil, err
		}
		if userID.Valid {
			s.UserID = &userID.String
		}
		speakers = append(speakers, s)
	}
	return speakers, rows.Err()
}
