package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/lib/pq"

	"karyadi/internal/domain"
)

const surveyColumns = `id, title, description, event_id, created_by, status, created_at, updated_at`

type surveyRepository struct {
	DB *sql.DB
}

func NewSurveyRepository(db *sql.DB) domain.SurveyRepository {
	return &surveyRepository{DB: db}
}

func scanSurvey(s interface{ Scan(...any) error }) (*domain.Survey, error) {
	sv := &domain.Survey{Questions: []*domain.Question{}}
	var eventID sql.NullString
	if err := s.Scan(&sv.ID, &sv.Title, &sv.Description, &eventID, &sv.CreatedBy, &sv.Status, &sv.CreatedAt, &sv.UpdatedAt); err != nil {
		return nil, err
	}
	if eventID.Valid {
		sv.EventID = &eventID.String
	}
	return sv, nil
}

func (r *surveyRepository) Create(ctx context.Context, s *domain.Survey) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var eventID sql.NullString
	if s.EventID != nil {
		eventID = sql.NullString{String: *s.EventID, Valid: true}
	}
	err = tx.QueryRowContext(ctx, `
		INSERT INTO surveys (title, description, event_id, created_by, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`,
		s.Title, s.Description, eventID, s.CreatedBy, s.Status, s.CreatedAt, s.UpdatedAt,
	).Scan(&s.ID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return err
	}
	for _, q := range s.Questions {
		q.SurveyID = s.ID
		err := tx.QueryRowContext(ctx, `
			INSERT INTO survey_questions (survey_id, prompt, kind, options, required, position)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id`,
			q.SurveyID, q.Prompt, q.Kind, pq.Array(q.Options), q.Required, q.Position,
		).Scan(&q.ID)
		if err != nil {
			return fmt.Errorf("insert question %d: %w", q.Position, err)
		}
	}
	return tx.Commit()
}

func (r *surveyRepository) GetByID(ctx context.Context, id string) (*domain.Survey, error) {
	s, err := scanSurvey(r.DB.QueryRowContext(ctx, `SELECT `+surveyColumns+` FROM surveys WHERE id = $1`, id))
	if err != nil {
		return nil, notFound(err)
	}
	if err := r.attachQuestions(ctx, []*domain.Survey{s}); err != nil {
		return nil, err
	}
	return s, nil
}

func (r *surveyRepository) List(ctx context.Context, eventID string) ([]*domain.Survey, error) {
	query := `SELECT ` + surveyColumns + ` FROM surveys ORDER BY created_at DESC`
	args := []any{}
	if eventID != "" {
		query = `SELECT ` + surveyColumns + ` FROM surveys WHERE event_id = $1 ORDER BY created_at DESC`
		args = append(args, eventID)
	}
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	surveys := make([]*domain.Survey, 0)
	for rows.Next() {
		s, err := scanSurvey(rows)
		if err != nil {
			return nil, err
		}
		surveys = append(surveys, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := r.attachQuestions(ctx, surveys); err != nil {
		return nil, err
	}
	return surveys, nil
}

func (r *surveyRepository) attachQuestions(ctx context.Context, surveys []*domain.Survey) error {
	if len(surveys) == 0 {
		return nil
	}
	ids := make([]string, len(surveys))
	byID := make(map[string]*domain.Survey, len(surveys))
	for i, s := range surveys {
		ids[i] = s.ID
		byID[s.ID] = s
	}
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, survey_id, prompt, kind, options, required, position
		FROM survey_questions
		WHERE survey_id = ANY($1)
		ORDER BY position, id`, pq.Array(ids))
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		q := &domain.Question{}
		var options pq.StringArray
		if err := rows.Scan(&q.ID, &q.SurveyID, &q.Prompt, &q.Kind, &options, &q.Required, &q.Position); err != nil {
			return err
		}
		q.Options = []string(options)
		if s, ok := byID[q.SurveyID]; ok {
			s.Questions = append(s.Questions, q)
		}
	}
	return rows.Err()
}

func (r *surveyRepository) SetStatus(ctx context.Context, id, status string) error {
	res, err := r.DB.ExecContext(ctx, `UPDATE surveys SET status = $1, updated_at = NOW() WHERE id = $2`, status, id)
	if err != nil {
		return err
	}
	return affected(res)
}

func (r *surveyRepository) CreateResponse(ctx context.Context, resp *domain.SurveyResponse) error {
	answers, err := json.Marshal(resp.Answers)
	if err != nil {
		return fmt.Errorf("encode answers: %w", err)
	}
	err = r.DB.QueryRowContext(ctx, `
		INSERT INTO survey_responses (survey_id, user_id, answers, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id`,
		resp.SurveyID, resp.UserID, answers, resp.CreatedAt,
	).Scan(&resp.ID)
	switch {
	case isUniqueViolation(err):
		return domain.ErrAlreadyResponded
	case isForeignKeyViolation(err):
		return domain.ErrNotFound
	}
	return err
}

func (r *surveyRepository) ListResponses(ctx context.Context, surveyID string) ([]*domain.SurveyResponse, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, survey_id, user_id, answers, created_at
		FROM survey_responses
		WHERE survey_id = $1
		ORDER BY created_at`, surveyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := make([]*domain.SurveyResponse, 0)
	for rows.Next() {
		resp := &domain.SurveyResponse{}
		var raw []byte
		if err := rows.Scan(&resp.ID, &resp.SurveyID, &resp.UserID, &raw, &resp.CreatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(raw, &resp.Answers); err != nil {
			return nil, fmt.Errorf("decode answers of response %s: %w", resp.ID, err)
		}
		list = append(list, resp)
	}
	return list, rows.Err()
}
