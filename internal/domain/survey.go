package domain

import (
	"context"
	"time"
)

// Survey statuses.
const (
	SurveyOpen   = "open"
	SurveyClosed = "closed"
)

// Question kinds.
const (
	QuestionText           = "text"
	QuestionSingleChoice   = "single_choice"
	QuestionMultipleChoice = "multiple_choice"
	QuestionRating         = "rating"
)

// Rating bounds for rating questions.
const (
	MinRating = 1
	MaxRating = 5
)

// Survey is a questionnaire, optionally attached to an event.
// swagger:model Survey
type Survey struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	EventID     *string     `json:"event_id"`
	CreatedBy   string      `json:"created_by"`
	Status      string      `json:"status"`
	Questions   []*Question `json:"questions"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// Question is one survey question.
// swagger:model Question
type Question struct {
	ID       string   `json:"id"`
	SurveyID string   `json:"survey_id"`
	Prompt   string   `json:"prompt"`
	Kind     string   `json:"kind"`
	Options  []string `json:"options"`
	Required bool     `json:"required"`
	Position int      `json:"position"`
}

// IsChoice reports whether the question is answered by picking options.
func (q *Question) IsChoice() bool {
	return q.Kind == QuestionSingleChoice || q.Kind == QuestionMultipleChoice
}

// Answer answers one question. Which field is used depends on the question kind.
type Answer struct {
	QuestionID string   `json:"question_id"`
	Text       string   `json:"text,omitempty"`
	Choices    []string `json:"choices,omitempty"`
	Rating     int      `json:"rating,omitempty"`
}

// SurveyResponse is one user's submitted answers.
// swagger:model SurveyResponse
type SurveyResponse struct {
	ID        string    `json:"id"`
	SurveyID  string    `json:"survey_id"`
	UserID    string    `json:"user_id"`
	Answers   []Answer  `json:"answers"`
	CreatedAt time.Time `json:"created_at"`
}

// QuestionResult aggregates the answers to one question.
type QuestionResult struct {
	QuestionID    string         `json:"question_id"`
	Prompt        string         `json:"prompt"`
	Kind          string         `json:"kind"`
	Answered      int            `json:"answered"`
	ChoiceCounts  map[string]int `json:"choice_counts,omitempty"`
	RatingCounts  map[int]int    `json:"rating_counts,omitempty"`
	AverageRating float64        `json:"average_rating,omitempty"`
	TextAnswers   []string       `json:"text_answers,omitempty"`
}

// SurveyResults aggregates all responses of a survey.
type SurveyResults struct {
	SurveyID  string            `json:"survey_id"`
	Responses int               `json:"responses"`
	Questions []*QuestionResult `json:"questions"`
}

// SurveyRepository defines storage for surveys, questions and responses.
type SurveyRepository interface {
	Create(ctx context.Context, survey *Survey) error
	GetByID(ctx context.Context, id string) (*Survey, error)
	List(ctx context.Context, eventID string) ([]*Survey, error)
	SetStatus(ctx context.Context, id, status string) error
	CreateResponse(ctx context.Context, resp *SurveyResponse) error
	ListResponses(ctx context.Context, surveyID string) ([]*SurveyResponse, error)
}

// SurveyService defines the business logic for surveys.
type SurveyService interface {
	CreateSurvey(ctx context.Context, survey *Survey) error
	GetSurvey(ctx context.Context, id string) (*Survey, error)
	ListSurveys(ctx context.Context, eventID string) ([]*Survey, error)
	CloseSurvey(ctx context.Context, id, callerID string) (*Survey, error)
	SubmitResponse(ctx context.Context, resp *SurveyResponse) error
	Results(ctx context.Context, id, callerID string) (*SurveyResults, error)
}
