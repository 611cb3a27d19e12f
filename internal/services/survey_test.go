package services

import (
	"context"
	"testing"
	"time"

	"karyadi/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSurveyFixture() (*eventFixture, *surveyService) {
	f := newEventFixture()
	svc := NewSurveyService(fakeSurveyRepo{f.store}, fakeEventRepo{f.store}, fakeOrgRepo{f.store}, time.Second).(*surveyService)
	svc.now = clock
	return f, svc
}

func sampleSurvey(createdBy string) *domain.Survey {
	return &domain.Survey{
		Title:     "Feedback",
		CreatedBy: createdBy,
		Questions: []*domain.Question{
			{Prompt: "How was it?", Kind: domain.QuestionRating, Required: true},
			{Prompt: "Favourite track", Kind: domain.QuestionSingleChoice, Options: []string{"Go", "Rust", "Go", " "}},
			{Prompt: "Topics", Kind: domain.QuestionMultipleChoice, Options: []string{"APIs", "Data", "Infra"}},
			{Prompt: "Anything else?", Kind: domain.QuestionText},
		},
	}
}

func TestSurveyService_CreateSurvey(t *testing.T) {
	ctx := context.Background()

	t.Run("valid", func(t *testing.T) {
		f, svc := newSurveyFixture()
		s := sampleSurvey(f.outsider.ID)
		require.NoError(t, svc.CreateSurvey(ctx, s))
		assert.Equal(t, domain.SurveyOpen, s.Status)
		assert.Equal(t, []string{"Go", "Rust"}, s.Questions[1].Options)
		assert.Equal(t, 4, s.Questions[3].Position)
	})

	invalid := []struct {
		name   string
		mutate func(*domain.Survey)
	}{
		{"no questions", func(s *domain.Survey) { s.Questions = nil }},
		{"no title", func(s *domain.Survey) { s.Title = "" }},
		{"one option", func(s *domain.Survey) { s.Questions[2].Options = []string{"APIs", "APIs"} }},
		{"options on text", func(s *domain.Survey) { s.Questions[3].Options = []string{"a", "b"} }},
		{"unknown kind", func(s *domain.Survey) { s.Questions[0].Kind = "slider" }},
	}
	for _, tt := range invalid {
		t.Run(tt.name, func(t *testing.T) {
			f, svc := newSurveyFixture()
			s := sampleSurvey(f.outsider.ID)
			tt.mutate(s)
			require.ErrorIs(t, svc.CreateSurvey(ctx, s), domain.ErrInvalidInput)
		})
	}

	t.Run("event survey needs a manager", func(t *testing.T) {
		f, svc := newSurveyFixture()
		ev := f.store.seedEvent(f.org.ID, domain.EventStatusPublished, fixedNow)
		s := sampleSurvey(f.outsider.ID)
		s.EventID = &ev.ID
		require.ErrorIs(t, svc.CreateSurvey(ctx, s), domain.ErrForbidden)

		s = sampleSurvey(f.owner.ID)
		s.EventID = &ev.ID
		require.NoError(t, svc.CreateSurvey(ctx, s))

		list, err := svc.ListSurveys(ctx, ev.ID)
		require.NoError(t, err)
		assert.Len(t, list, 1)
	})
}

func TestSurveyService_SubmitResponse(t *testing.T) {
	tests := []struct {
		name     string
		answers  func(q []*domain.Question) []domain.Answer
		wantKept int
		wantErr  error
	}{
		{
			name: "complete",
			answers: func(q []*domain.Question) []domain.Answer {
				return []domain.Answer{
					{QuestionID: q[0].ID, Rating: 5},
					{QuestionID: q[1].ID, Choices: []string{"Go"}},
					{QuestionID: q[2].ID, Choices: []string{"APIs", "Infra"}},
					{QuestionID: q[3].ID, Text: "More talks"},
				}
			},
			wantKept: 4,
		},
		{
			name: "only required",
			answers: func(q []*domain.Question) []domain.Answer {
				return []domain.Answer{{QuestionID: q[0].ID, Rating: 3}, {QuestionID: q[3].ID, Text: "  "}}
			},
			wantKept: 1,
		},
		{
			name:    "required missing",
			answers: func(q []*domain.Question) []domain.Answer { return []domain.Answer{{QuestionID: q[3].ID, Text: "hi"}} },
			wantErr: domain.ErrInvalidInput,
		},
		{
			name:    "rating out of range",
			answers: func(q []*domain.Question) []domain.Answer { return []domain.Answer{{QuestionID: q[0].ID, Rating: 6}} },
			wantErr: domain.ErrInvalidInput,
		},
		{
			name: "two single choices",
			answers: func(q []*domain.Question) []domain.Answer {
				return []domain.Answer{{QuestionID: q[0].ID, Rating: 1}, {QuestionID: q[1].ID, Choices: []string{"Go", "Rust"}}}
			},
			wantErr: domain.ErrInvalidInput,
		},
		{
			name: "choice not an option",
			answers: func(q []*domain.Question) []domain.Answer {
				return []domain.Answer{{QuestionID: q[0].ID, Rating: 1}, {QuestionID: q[2].ID, Choices: []string{"Cooking"}}}
			},
			wantErr: domain.ErrInvalidInput,
		},
		{
			name: "text on a rating question",
			answers: func(q []*domain.Question) []domain.Answer {
				return []domain.Answer{{QuestionID: q[0].ID, Rating: 4, Text: "great"}}
			},
			wantErr: domain.ErrInvalidInput,
		},
		{
			name: "rating on a text question",
			answers: func(q []*domain.Question) []domain.Answer {
				return []domain.Answer{{QuestionID: q[0].ID, Rating: 4}, {QuestionID: q[3].ID, Rating: 2}}
			},
			wantErr: domain.ErrInvalidInput,
		},
		{
			name: "choices on a rating question",
			answers: func(q []*domain.Question) []domain.Answer {
				return []domain.Answer{{QuestionID: q[0].ID, Choices: []string{"5"}}}
			},
			wantErr: domain.ErrInvalidInput,
		},
		{
			name: "text alongside a choice",
			answers: func(q []*domain.Question) []domain.Answer {
				return []domain.Answer{{QuestionID: q[0].ID, Rating: 4}, {QuestionID: q[1].ID, Choices: []string{"Go"}, Text: "other"}}
			},
			wantErr: domain.ErrInvalidInput,
		},
		{
			name: "blank text on a rating question is ignored",
			answers: func(q []*domain.Question) []domain.Answer {
				return []domain.Answer{{QuestionID: q[0].ID, Rating: 4, Text: "   "}}
			},
			wantKept: 1,
		},
		{
			name: "unknown question",
			answers: func(q []*domain.Question) []domain.Answer {
				return []domain.Answer{{QuestionID: q[0].ID, Rating: 1}, {QuestionID: "question-x", Text: "?"}}
			},
			wantErr: domain.ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			f, svc := newSurveyFixture()
			s := sampleSurvey(f.owner.ID)
			require.NoError(t, svc.CreateSurvey(ctx, s))

			resp := &domain.SurveyResponse{SurveyID: s.ID, UserID: f.outsider.ID, Answers: tt.answers(s.Questions)}
			err := svc.SubmitResponse(ctx, resp)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Len(t, resp.Answers, tt.wantKept)
			again := &domain.SurveyResponse{SurveyID: s.ID, UserID: f.outsider.ID, Answers: tt.answers(s.Questions)}
			require.ErrorIs(t, svc.SubmitResponse(ctx, again), domain.ErrAlreadyResponded)
		})
	}
}

func TestCheckAnswers_strayFieldMessage(t *testing.T) {
	survey := &domain.Survey{Questions: []*domain.Question{
		{ID: "q1", Prompt: "How was it?", Kind: domain.QuestionRating},
	}}
	_, err := checkAnswers(survey, []domain.Answer{{QuestionID: "q1", Text: "fine"}})
	require.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Contains(t, err.Error(), `question "How was it?": text does not apply to rating questions`)
}

func TestSurveyService_CloseAndResults(t *testing.T) {
	ctx := context.Background()
	f, svc := newSurveyFixture()
	s := sampleSurvey(f.owner.ID)
	require.NoError(t, svc.CreateSurvey(ctx, s))
	q := s.Questions

	submit := func(userID string, rating int, track string, text string) {
		answers := []domain.Answer{{QuestionID: q[0].ID, Rating: rating}, {QuestionID: q[1].ID, Choices: []string{track}}}
		if text != "" {
			answers = append(answers, domain.Answer{QuestionID: q[3].ID, Text: text})
		}
		require.NoError(t, svc.SubmitResponse(ctx, &domain.SurveyResponse{SurveyID: s.ID, UserID: userID, Answers: answers}))
	}
	submit(f.owner.ID, 4, "Go", "Great")
	submit(f.outsider.ID, 5, "Go", "")

	_, err := svc.Results(ctx, s.ID, f.outsider.ID)
	require.ErrorIs(t, err, domain.ErrForbidden)

	res, err := svc.Results(ctx, s.ID, f.owner.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Responses)
	require.Len(t, res.Questions, 4)
	assert.Equal(t, map[int]int{1: 0, 2: 0, 3: 0, 4: 1, 5: 1}, res.Questions[0].RatingCounts)
	assert.InDelta(t, 4.5, res.Questions[0].AverageRating, 0.001)
	assert.Equal(t, map[string]int{"Go": 2, "Rust": 0}, res.Questions[1].ChoiceCounts)
	assert.Equal(t, 0, res.Questions[2].Answered)
	assert.Equal(t, []string{"Great"}, res.Questions[3].TextAnswers)

	_, err = svc.CloseSurvey(ctx, s.ID, f.outsider.ID)
	require.ErrorIs(t, err, domain.ErrForbidden)
	closed, err := svc.CloseSurvey(ctx, s.ID, f.owner.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.SurveyClosed, closed.Status)

	stranger := f.store.seedUser("late@x.test", "Lee")
	err = svc.SubmitResponse(ctx, &domain.SurveyResponse{SurveyID: s.ID, UserID: stranger.ID, Answers: []domain.Answer{{QuestionID: q[0].ID, Rating: 3}}})
	require.ErrorIs(t, err, domain.ErrConflict)
}
