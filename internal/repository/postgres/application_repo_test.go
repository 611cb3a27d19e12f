package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"karyadi/internal/domain"
)

var applicationCols = []string{"id", "job_post_id", "applicant_id", "cover_letter", "resume_url", "status", "note", "created_at", "updated_at"}

func TestJobApplicationRepository_Create(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name  string
		err   error
		errIs error
	}{
		{name: "success"},
		{name: "second application", err: &pq.Error{Code: "23505"}, errIs: domain.ErrAlreadyApplied},
		{name: "unknown job", err: &pq.Error{Code: "23503"}, errIs: domain.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			q := mock.ExpectQuery(`INSERT INTO job_applications`)
			if tt.err != nil {
				q.WillReturnError(tt.err)
			} else {
				q.WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("app-1"))
			}

			app := &domain.JobApplication{JobPostID: "job-1", ApplicantID: "user-1", Status: domain.ApplicationPending}
			err = NewJobApplicationRepository(db).Create(ctx, app)
			if tt.errIs != nil {
				require.ErrorIs(t, err, tt.errIs)
			} else {
				require.NoError(t, err)
				assert.Equal(t, "app-1", app.ID)
			}
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestJobApplicationRepository_UpdateStatus(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)

	t.Run("updates and records history", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectQuery(`UPDATE job_applications`).
			WithArgs("shortlisted", "strong profile", "app-1", "pending").
			WillReturnRows(sqlmock.NewRows(applicationCols).
				AddRow("app-1", "job-1", "user-1", "", "", "shortlisted", "strong profile", now, now))
		mock.ExpectQuery(`INSERT INTO job_application_status_changes`).
			WithArgs("app-1", "pending", "shortlisted", "mgr-1", "strong profile").
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow("chg-1", now))
		mock.ExpectCommit()

		change := &domain.ApplicationStatusChange{
			ApplicationID: "app-1", From: domain.ApplicationPending, To: domain.ApplicationShortlisted,
			ChangedBy: "mgr-1", Note: "strong profile",
		}
		app, err := NewJobApplicationRepository(db).UpdateStatus(ctx, change)
		require.NoError(t, err)
		assert.Equal(t, domain.ApplicationShortlisted, app.Status)
		assert.Equal(t, "chg-1", change.ID)
		assert.True(t, change.CreatedAt.Equal(now))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty note keeps the stored one", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectQuery(`UPDATE job_applications\s+SET status = \$1, note = COALESCE\(NULLIF\(\$2, ''\), note\)`).
			WithArgs("withdrawn", "", "app-1", "shortlisted").
			WillReturnRows(sqlmock.NewRows(applicationCols).
				AddRow("app-1", "job-1", "user-1", "", "", "withdrawn", "strong profile", now, now))
		mock.ExpectQuery(`INSERT INTO job_application_status_changes`).
			WithArgs("app-1", "shortlisted", "withdrawn", "user-1", "").
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow("chg-2", now))
		mock.ExpectCommit()

		app, err := NewJobApplicationRepository(db).UpdateStatus(ctx, &domain.ApplicationStatusChange{
			ApplicationID: "app-1", From: domain.ApplicationShortlisted, To: domain.ApplicationWithdrawn, ChangedBy: "user-1",
		})
		require.NoError(t, err)
		assert.Equal(t, "strong profile", app.Note)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("stale status is an invalid transition", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectQuery(`UPDATE job_applications`).
			WillReturnRows(sqlmock.NewRows(applicationCols))
		mock.ExpectRollback()

		_, err = NewJobApplicationRepository(db).UpdateStatus(ctx, &domain.ApplicationStatusChange{
			ApplicationID: "app-1", From: domain.ApplicationPending, To: domain.ApplicationRejected, ChangedBy: "mgr-1",
		})
		require.ErrorIs(t, err, domain.ErrInvalidTransition)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestJobApplicationRepository_ListByJobPostID(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`FROM job_applications WHERE job_post_id = \$1 AND status = \$2`).
		WithArgs("job-1", "pending").
		WillReturnRows(sqlmock.NewRows(applicationCols).
			AddRow("app-1", "job-1", "user-1", "hi", "", "pending", "", now, now).
			AddRow("app-2", "job-1", "user-2", "", "https://cv", "pending", "", now, now))

	apps, err := NewJobApplicationRepository(db).ListByJobPostID(ctx, "job-1", domain.ApplicationPending)
	require.NoError(t, err)
	require.Len(t, apps, 2)
	assert.Equal(t, "https://cv", apps[1].ResumeURL)
	require.NoError(t, mock.ExpectationsWereMet())
}
