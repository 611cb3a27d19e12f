package postgres

import (
	"context"
	"database/sql"
	"errors"

	"karyadi/internal/domain"
)

const attendanceColumns = `id, event_id, user_id, status, created_at, updated_at`

type attendanceRepository struct {
	DB *sql.DB
}

// NewAttendanceRepository returns a domain.AttendanceRepository implemented with Postgres.
func NewAttendanceRepository(db *sql.DB) domain.AttendanceRepository {
	return &attendanceRepository{DB: db}
}

func scanAttendance(s interface{ Scan(...any) error }) (*domain.Attendance, error) {
	a := &domain.Attendance{}
	if err := s.Scan(&a.ID, &a.EventID, &a.UserID, &a.Status, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return nil, err
	}
	return a, nil
}

func (r *attendanceRepository) Register(ctx context.Context, a *domain.Attendance) (bool, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	// The event row lock serializes registrations for one event, so the seat count
	// below cannot go stale before the write.
	var capacity int
	err = tx.QueryRowContext(ctx, `SELECT capacity FROM events WHERE id = $1 FOR UPDATE`, a.EventID).Scan(&capacity)
	if err != nil {
		return false, notFound(err)
	}

	query := `SELECT ` + attendanceColumns + ` FROM attendances WHERE event_id = $1 AND user_id = $2`
	existing, err := scanAttendance(tx.QueryRowContext(ctx, query, a.EventID, a.UserID))
	switch {
	case err == nil && existing.Status != domain.AttendanceCancelled:
		*a = *existing
		return false, nil
	case err != nil && !errors.Is(err, sql.ErrNoRows):
		return false, err
	}

	if capacity > 0 {
		var taken int
		err = tx.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM attendances WHERE event_id = $1 AND status <> $2`,
			a.EventID, domain.AttendanceCancelled).Scan(&taken)
		if err != nil {
			return false, err
		}
		if taken >= capacity {
			return false, domain.ErrEventFull
		}
	}

	var saved *domain.Attendance
	if existing != nil {
		query = `UPDATE attendances SET status = $1, updated_at = $2 WHERE id = $3 RETURNING ` + attendanceColumns
		saved, err = scanAttendance(tx.QueryRowContext(ctx, query, domain.AttendanceRegistered, a.UpdatedAt, existing.ID))
	} else {
		query = `
			INSERT INTO attendances (event_id, user_id, status, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING ` + attendanceColumns
		saved, err = scanAttendance(tx.QueryRowContext(ctx, query, a.EventID, a.UserID, domain.AttendanceRegistered, a.CreatedAt, a.UpdatedAt))
	}
	if err != nil {
		if isForeignKeyViolation(err) {
			return false, domain.ErrNotFound
		}
		return false, err
	}
	if err := tx.Commit(); err != nil {
		return false, err
	}
	*a = *saved
	return true, nil
}

func (r *attendanceRepository) GetByEventAndUser(ctx context.Context, eventID, userID string) (*domain.Attendance, error) {
	query := `SELECT ` + attendanceColumns + ` FROM attendances WHERE event_id = $1 AND user_id = $2`
	a, err := scanAttendance(r.DB.QueryRowContext(ctx, query, eventID, userID))
	if err != nil {
		return nil, notFound(err)
	}
	return a, nil
}

func (r *attendanceRepository) UpdateStatus(ctx context.Context, id, from, to string) (*domain.Attendance, error) {
	query := `UPDATE attendances SET status = $1, updated_at = NOW() WHERE id = $2 AND status = $3 RETURNING ` + attendanceColumns
	a, err := scanAttendance(r.DB.QueryRowContext(ctx, query, to, id, from))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrInvalidTransition
		}
		return nil, err
	}
	return a, nil
}

func (r *attendanceRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.Attendance, error) {
	query := `SELECT ` + attendanceColumns + ` FROM attendances WHERE user_id = $1 ORDER BY created_at DESC`
	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := make([]*domain.Attendance, 0)
	for rows.Next() {
		a, err := scanAttendance(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, a)
	}
	return list, rows.Err()
}

func (r *attendanceRepository) ListByEventID(ctx context.Context, eventID string, params domain.PaginationParams) ([]*domain.Attendee, int, error) {
	var total int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM attendances WHERE event_id = $1`, eventID).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT a.id, a.event_id, a.user_id, a.status, a.created_at, a.updated_at, u.name, u.last_name, u.email
		FROM attendances a
		INNER JOIN users u ON u.id = a.user_id
		WHERE a.event_id = $1
		ORDER BY a.created_at, a.id
		LIMIT $2 OFFSET $3
	`
	rows, err := r.DB.QueryContext(ctx, query, eventID, params.Limit(), params.Offset())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	list := make([]*domain.Attendee, 0)
	for rows.Next() {
		a := &domain.Attendee{}
		if err := rows.Scan(&a.ID, &a.EventID, &a.UserID, &a.Status, &a.CreatedAt, &a.UpdatedAt, &a.Name, &a.LastName, &a.Email); err != nil {
			return nil, 0, err
		}
		list = append(list, a)
	}
	return list, total, rows.Err()
}
