package postgres

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"karyadi/internal/domain"
)

var eventCols = []string{
	"id", "organization_id", "title", "description", "category", "location", "is_online", "meeting_url",
	"starts_at", "ends_at", "capacity", "status", "wizard_step", "created_by", "created_at", "updated_at",
}

func eventRow(rows *sqlmock.Rows, id, status string, starts time.Time) *sqlmock.Rows {
	return rows.AddRow(id, "org-1", "GoConf", "", "tech", "Jakarta", false, "",
		starts, starts.Add(8*time.Hour), 100, status, domain.WizardStepAgenda, "user-1", starts, starts)
}

func TestEventRepository_Create(t *testing.T) {
	ctx := context.Background()
	starts := time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)
	newEvent := func() *domain.Event {
		return &domain.Event{
			OrganizationID: "org-1", Title: "GoConf", StartsAt: starts, EndsAt: starts.Add(8 * time.Hour),
			Status: domain.EventStatusDraft, WizardStep: domain.WizardStepAgenda, CreatedBy: "user-1",
			CreatedAt: starts, UpdatedAt: starts,
		}
	}

	tests := []struct {
		name   string
		mock   func(mock sqlmock.Sqlmock)
		wantID string
		errIs  error
	}{
		{
			name: "inserts event and organizer association",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery(`INSERT INTO events`).
					WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("ev-1"))
				mock.ExpectExec(`INSERT INTO event_organizations`).
					WithArgs("ev-1", "org-1", domain.TierOrganizer, starts).
					WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectCommit()
			},
			wantID: "ev-1",
		},
		{
			name: "unknown organization",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery(`INSERT INTO events`).
					WillReturnError(&pq.Error{Code: "23503"})
				mock.ExpectRollback()
			},
			errIs: domain.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			e := newEvent()
			err = NewEventRepository(db).Create(ctx, e)
			if tt.errIs != nil {
				require.ErrorIs(t, err, tt.errIs)
			} else {
				require.NoError(t, err)
				require.Equal(t, tt.wantID, e.ID)
			}
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestEventRepository_GetByID(t *testing.T) {
	ctx := context.Background()
	starts := time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		id      string
		mock    func(mock sqlmock.Sqlmock)
		wantErr error
	}{
		{
			name: "success",
			id:   "ev-1",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT id, organization_id, title`).
					WithArgs("ev-1").
					WillReturnRows(eventRow(sqlmock.NewRows(eventCols), "ev-1", domain.EventStatusPublished, starts))
			},
		},
		{
			name: "not found",
			id:   "ev-missing",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT id, organization_id, title`).
					WithArgs("ev-missing").
					WillReturnError(sql.ErrNoRows)
			},
			wantErr: domain.ErrNotFound,
		},
		{
			name: "db error",
			id:   "ev-1",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT id, organization_id, title`).
					WillReturnError(errors.New("connection refused"))
			},
			wantErr: errors.New("connection refused"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			got, err := NewEventRepository(db).GetByID(ctx, tt.id)
			if tt.wantErr != nil {
				require.Error(t, err)
				if errors.Is(tt.wantErr, domain.ErrNotFound) {
					require.ErrorIs(t, err, domain.ErrNotFound)
				}
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "ev-1", got.ID)
			assert.Equal(t, domain.EventStatusPublished, got.Status)
			assert.Equal(t, 100, got.Capacity)
			assert.True(t, got.EndsAt.Equal(starts.Add(8*time.Hour)))
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestEventRepository_List(t *testing.T) {
	ctx := context.Background()
	starts := time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)
	after := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM events WHERE status <> 'draft' AND title ILIKE $1 AND starts_at >= $2`)).
		WithArgs("%go%", after).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	mock.ExpectQuery(regexp.QuoteMeta(`WHERE status <> 'draft' AND title ILIKE $1 AND starts_at >= $2 ORDER BY starts_at, id LIMIT $3 OFFSET $4`)).
		WithArgs("%go%", after, 2, 2).
		WillReturnRows(eventRow(sqlmock.NewRows(eventCols), "ev-3", domain.EventStatusPublished, starts))

	events, total, err := NewEventRepository(db).List(ctx,
		domain.EventFilter{Search: "go", StartsAfter: &after},
		domain.PaginationParams{Page: 2, PageSize: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, events, 1)
	assert.Equal(t, "ev-3", events[0].ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRepository_Delete(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name  string
		rows  int64
		errIs error
	}{
		{name: "deleted", rows: 1},
		{name: "missing", rows: 0, errIs: domain.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			mock.ExpectExec(`DELETE FROM events WHERE id`).
				WithArgs("ev-1").
				WillReturnResult(sqlmock.NewResult(0, tt.rows))

			err = NewEventRepository(db).Delete(ctx, "ev-1")
			if tt.errIs != nil {
				require.ErrorIs(t, err, tt.errIs)
			} else {
				require.NoError(t, err)
			}
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
