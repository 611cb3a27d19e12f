package controllers

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"karyadi/internal/delivery/http/helpers"
	"karyadi/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSurveyService struct {
	domain.SurveyService
	created   *domain.Survey
	err       error
	listEvent string
	submitted *domain.SurveyResponse
}

func (f *fakeSurveyService) CreateSurvey(_ context.Context, s *domain.Survey) error {
	f.created = s
	if f.err != nil {
		return f.err
	}
	s.ID, s.Status = surveyID, domain.SurveyOpen
	return nil
}

func (f *fakeSurveyService) GetSurvey(_ context.Context, id string) (*domain.Survey, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Survey{ID: id}, nil
}

func (f *fakeSurveyService) ListSurveys(_ context.Context, eventID string) ([]*domain.Survey, error) {
	f.listEvent = eventID
	return nil, f.err
}

func (f *fakeSurveyService) CloseSurvey(_ context.Context, id, _ string) (*domain.Survey, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Survey{ID: id, Status: domain.SurveyClosed}, nil
}

func (f *fakeSurveyService) SubmitResponse(_ context.Context, resp *domain.SurveyResponse) error {
	f.submitted = resp
	return f.err
}

func (f *fakeSurveyService) Results(_ context.Context, id, _ string) (*domain.SurveyResults, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &domain.SurveyResults{SurveyID: id, Responses: 3, Questions: []*domain.QuestionResult{}}, nil
}

func TestSurveyController_CreateSurvey(t *testing.T) {
	t.Run("maps questions", func(t *testing.T) {
		svc := &fakeSurveyService{}
		c := NewSurveyController(testLogger(), svc)
		rr := httptest.NewRecorder()
		body := CreateSurveyRequest{
			Title:   "Feedback",
			EventID: strp(eventID1),
			Questions: []QuestionRequest{
				{Prompt: " How was it? ", Kind: "Rating", Required: true},
				{Prompt: "Favourite track", Kind: "single_choice", Options: []string{"Go", "Rust"}},
			},
		}
		c.CreateSurvey(rr, newRequest(t, http.MethodPost, "/surveys", body, userID1))

		require.Equal(t, http.StatusCreated, rr.Code)
		require.Len(t, svc.created.Questions, 2)
		assert.Equal(t, "How was it?", svc.created.Questions[0].Prompt)
		assert.Equal(t, domain.QuestionRating, svc.created.Questions[0].Kind)
		assert.True(t, svc.created.Questions[0].Required)
		assert.Equal(t, userID1, svc.created.CreatedBy)
		require.NotNil(t, svc.created.EventID)
		assert.Equal(t, eventID1, *svc.created.EventID)
		assert.Equal(t, surveyID, decodeEnvelope[domain.Survey](t, rr).Data.ID)
	})

	t.Run("no questions", func(t *testing.T) {
		c := NewSurveyController(testLogger(), &fakeSurveyService{})
		rr := httptest.NewRecorder()
		c.CreateSurvey(rr, newRequest(t, http.MethodPost, "/surveys", CreateSurveyRequest{Title: "Empty"}, userID1))
		msg := requireErrorCode(t, rr, http.StatusBadRequest, helpers.ErrCodeBadRequest)
		assert.Contains(t, msg, "question")
	})

	t.Run("event not managed", func(t *testing.T) {
		c := NewSurveyController(testLogger(), &fakeSurveyService{err: domain.ErrForbidden})
		rr := httptest.NewRecorder()
		body := CreateSurveyRequest{Title: "x", EventID: strp(eventID1), Questions: []QuestionRequest{{Prompt: "?", Kind: "text"}}}
		c.CreateSurvey(rr, newRequest(t, http.MethodPost, "/surveys", body, userID2))
		requireErrorCode(t, rr, http.StatusForbidden, helpers.ErrCodeForbidden)
	})
}

func TestSurveyController_ListSurveys(t *testing.T) {
	svc := &fakeSurveyService{}
	c := NewSurveyController(testLogger(), svc)
	rr := httptest.NewRecorder()
	c.ListSurveys(rr, newRequest(t, http.MethodGet, "/surveys?event_id="+eventID1, nil, ""))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, eventID1, svc.listEvent)
	assert.JSONEq(t, `{"data":[],"error":null}`, rr.Body.String())
}

func TestSurveyController_SubmitResponse(t *testing.T) {
	body := `{"answers":[{"question_id":"q1","rating":4},{"question_id":"q2","choices":["Go"]}]}`

	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"accepted", nil, http.StatusCreated},
		{"second response", domain.ErrAlreadyResponded, http.StatusConflict},
		{"closed survey", fmt.Errorf("survey is closed: %w", domain.ErrConflict), http.StatusConflict},
		{"rating out of range", domain.Invalid("rating must be between 1 and 5"), http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeSurveyService{err: tt.err}
			c := NewSurveyController(testLogger(), svc)
			rr := httptest.NewRecorder()
			c.SubmitResponse(rr, newRequest(t, http.MethodPost, "/surveys/x/responses", body, userID2, "surveyID", surveyID))

			require.Equal(t, tt.wantStatus, rr.Code)
			require.NotNil(t, svc.submitted)
			assert.Equal(t, userID2, svc.submitted.UserID)
			assert.Equal(t, surveyID, svc.submitted.SurveyID)
			require.Len(t, svc.submitted.Answers, 2)
			assert.Equal(t, 4, svc.submitted.Answers[0].Rating)
		})
	}
}

func TestSurveyController_CloseAndResults(t *testing.T) {
	c := NewSurveyController(testLogger(), &fakeSurveyService{})

	rr := httptest.NewRecorder()
	c.CloseSurvey(rr, newRequest(t, http.MethodPost, "/surveys/x/close", nil, userID1, "surveyID", surveyID))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, domain.SurveyClosed, decodeEnvelope[domain.Survey](t, rr).Data.Status)

	rr = httptest.NewRecorder()
	c.Results(rr, newRequest(t, http.MethodGet, "/surveys/x/results", nil, userID1, "surveyID", surveyID))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 3, decodeEnvelope[domain.SurveyResults](t, rr).Data.Responses)

	c = NewSurveyController(testLogger(), &fakeSurveyService{err: domain.ErrForbidden})
	rr = httptest.NewRecorder()
	c.Results(rr, newRequest(t, http.MethodGet, "/surveys/x/results", nil, userID2, "surveyID", surveyID))
	requireErrorCode(t, rr, http.StatusForbidden, helpers.ErrCodeForbidden)
}
