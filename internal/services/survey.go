package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"karyadi/internal/domain"
)

type surveyService struct {
	surveyRepo     domain.SurveyRepository
	eventRepo      domain.EventRepository
	orgRepo        domain.OrganizationRepository
	now            func() time.Time
	contextTimeout time.Duration
}

func NewSurveyService(
	surveyRepo domain.SurveyRepository,
	eventRepo domain.EventRepository,
	orgRepo domain.OrganizationRepository,
	timeout time.Duration,
) domain.SurveyService {
	return &surveyService{
		surveyRepo:     surveyRepo,
		eventRepo:      eventRepo,
		orgRepo:        orgRepo,
		now:            time.Now,
		contextTimeout: timeout,
	}
}

func validQuestionKind(kind string) bool {
	switch kind {
	case domain.QuestionText, domain.QuestionSingleChoice, domain.QuestionMultipleChoice, domain.QuestionRating:
		return true
	}
	return false
}

// distinct trims options and drops blanks and exact duplicates.
func distinct(options []string) []string {
	out := make([]string, 0, len(options))
	seen := make(map[string]struct{}, len(options))
	for _, o := range options {
		o = strings.TrimSpace(o)
		if o == "" {
			continue
		}
		if _, ok := seen[o]; ok {
			continue
		}
		seen[o] = struct{}{}
		out = append(out, o)
	}
	return out
}

func validateSurvey(survey *domain.Survey) error {
	var problems []string
	if survey.Title == "" {
		problems = append(problems, "title is required")
	}
	if len(survey.Questions) == 0 {
		problems = append(problems, "at least one question is required")
	}
	for i, q := range survey.Questions {
		q.Prompt = strings.TrimSpace(q.Prompt)
		q.Position = i + 1
		if q.Prompt == "" {
			problems = append(problems, fmt.Sprintf("question %d: prompt is required", i+1))
		}
		if !validQuestionKind(q.Kind) {
			problems = append(problems, fmt.Sprintf("question %d: unknown kind %q", i+1, q.Kind))
			continue
		}
		if q.IsChoice() {
			q.Options = distinct(q.Options)
			if len(q.Options) < 2 {
				problems = append(problems, fmt.Sprintf("question %d: at least two distinct options are required", i+1))
			}
		} else if len(q.Options) > 0 {
			problems = append(problems, fmt.Sprintf("question %d: options are only valid for choice questions", i+1))
		} else {
			q.Options = []string{}
		}
	}
	if len(problems) > 0 {
		return domain.Invalid(problems...)
	}
	return nil
}

func (s *surveyService) CreateSurvey(ctx context.Context, survey *domain.Survey) error {
	ctx, cancel := withTimeout(ctx, s.contextTimeout)
	defer cancel()

	survey.Title = strings.TrimSpace(survey.Title)
	if err := validateSurvey(survey); err != nil {
		return err
	}
	if survey.EventID != nil {
		if _, err := managedEvent(ctx, s.eventRepo, s.orgRepo, *survey.EventID, survey.CreatedBy); err != nil {
			return err
		}
	}
	now := s.now()
	survey.Status = domain.SurveyOpen
	survey.CreatedAt = now
	survey.UpdatedAt = now
	if err := s.surveyRepo.Create(ctx, survey); err != nil {
		return fmt.Errorf("create survey: %w", err)
	}
	return nil
}

func (s *surveyService) getSurvey(ctx context.Context, id string) (*domain.Survey, error) {
	survey, err := s.surveyRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get survey: %w", err)
	}
	return survey, nil
}

func (s *surveyService) GetSurvey(ctx context.Context, id string) (*domain.Survey, error) {
	ctx, cancel := withTimeout(ctx, s.contextTimeout)
	defer cancel()
	return s.getSurvey(ctx, id)
}

func (s *surveyService) ListSurveys(ctx context.Context, eventID string) ([]*domain.Survey, error) {
	ctx, cancel := withTimeout(ctx, s.contextTimeout)
	defer cancel()

	surveys, err := s.surveyRepo.List(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list surveys: %w", err)
	}
	return surveys, nil
}

func (s *surveyService) CloseSurvey(ctx context.Context, id, callerID string) (*domain.Survey, error) {
	ctx, cancel := withTimeout(ctx, s.contextTimeout)
	defer cancel()

	survey, err := s.getSurvey(ctx, id)
	if err != nil {
		return nil, err
	}
	if survey.CreatedBy != callerID {
		return nil, domain.ErrForbidden
	}
	if survey.Status == domain.SurveyClosed {
		return survey, nil
	}
	if err := s.surveyRepo.SetStatus(ctx, id, domain.SurveyClosed); err != nil {
		return nil, fmt.Errorf("close survey: %w", err)
	}
	survey.Status = domain.SurveyClosed
	survey.UpdatedAt = s.now()
	return survey, nil
}

// checkAnswers validates answers against the survey's questions and drops empty optional answers.
func checkAnswers(survey *domain.Survey, answers []domain.Answer) ([]domain.Answer, error) {
	questions := make(map[string]*domain.Question, len(survey.Questions))
	for _, q := range survey.Questions {
		questions[q.ID] = q
	}

	var problems []string
	answered := make(map[string]bool, len(answers))
	kept := make([]domain.Answer, 0, len(answers))
	for _, a := range answers {
		q, ok := questions[a.QuestionID]
		if !ok {
			problems = append(problems, fmt.Sprintf("unknown question %q", a.QuestionID))
			continue
		}
		if answered[q.ID] {
			problems = append(problems, fmt.Sprintf("question %q answered more than once", q.Prompt))
			continue
		}
		a.Text = strings.TrimSpace(a.Text)
		if field := strayField(q, a); field != "" {
			problems = append(problems, fmt.Sprintf("question %q: %s does not apply to %s questions", q.Prompt, field, q.Kind))
			continue
		}
		if isBlank(q, a) {
			continue
		}
		if msg := checkAnswer(q, a); msg != "" {
			problems = append(problems, fmt.Sprintf("question %q: %s", q.Prompt, msg))
			continue
		}
		answered[q.ID] = true
		kept = append(kept, a)
	}
	for _, q := range survey.Questions {
		if q.Required && !answered[q.ID] {
			problems = append(problems, fmt.Sprintf("question %q is required", q.Prompt))
		}
	}
	if len(problems) > 0 {
		return nil, domain.Invalid(problems...)
	}
	return kept, nil
}

// strayField names an answer field that the question's kind does not use.
func strayField(q *domain.Question, a domain.Answer) string {
	switch {
	case q.Kind != domain.QuestionText && a.Text != "":
		return "text"
	case !q.IsChoice() && len(a.Choices) > 0:
		return "choices"
	case q.Kind != domain.QuestionRating && a.Rating != 0:
		return "rating"
	}
	return ""
}

func isBlank(q *domain.Question, a domain.Answer) bool {
	switch {
	case q.Kind == domain.QuestionText:
		return a.Text == ""
	case q.IsChoice():
		return len(a.Choices) == 0
	default:
		return a.Rating == 0
	}
}

func checkAnswer(q *domain.Question, a domain.Answer) string {
	switch q.Kind {
	case domain.QuestionRating:
		if a.Rating < domain.MinRating || a.Rating > domain.MaxRating {
			return fmt.Sprintf("rating must be between %d and %d", domain.MinRating, domain.MaxRating)
		}
	case domain.QuestionSingleChoice, domain.QuestionMultipleChoice:
		if q.Kind == domain.QuestionSingleChoice && len(a.Choices) != 1 {
			return "exactly one choice is required"
		}
		picked := make(map[string]bool, len(a.Choices))
		for _, c := range a.Choices {
			if !contains(q.Options, c) {
				return fmt.Sprintf("%q is not an option", c)
			}
			if picked[c] {
				return fmt.Sprintf("%q chosen twice", c)
			}
			picked[c] = true
		}
	}
	return ""
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func (s *surveyService) SubmitResponse(ctx context.Context, resp *domain.SurveyResponse) error {
	ctx, cancel := withTimeout(ctx, s.contextTimeout)
	defer cancel()

	survey, err := s.getSurvey(ctx, resp.SurveyID)
	if err != nil {
		return err
	}
	if survey.Status != domain.SurveyOpen {
		return fmt.Errorf("survey is closed: %w", domain.ErrConflict)
	}
	answers, err := checkAnswers(survey, resp.Answers)
	if err != nil {
		return err
	}
	resp.Answers = answers
	resp.CreatedAt = s.now()
	if err := s.surveyRepo.CreateResponse(ctx, resp); err != nil {
		if errors.Is(err, domain.ErrAlreadyResponded) {
			return err
		}
		return fmt.Errorf("create survey response: %w", err)
	}
	return nil
}

func (s *surveyService) Results(ctx context.Context, id, callerID string) (*domain.SurveyResults, error) {
	ctx, cancel := withTimeout(ctx, s.contextTimeout)
	defer cancel()

	survey, err := s.getSurvey(ctx, id)
	if err != nil {
		return nil, err
	}
	if survey.CreatedBy != callerID {
		return nil, domain.ErrForbidden
	}
	responses, err := s.surveyRepo.ListResponses(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list survey responses: %w", err)
	}
	return aggregate(survey, responses), nil
}

func aggregate(survey *domain.Survey, responses []*domain.SurveyResponse) *domain.SurveyResults {
	results := &domain.SurveyResults{
		SurveyID:  survey.ID,
		Responses: len(responses),
		Questions: make([]*domain.QuestionResult, 0, len(survey.Questions)),
	}
	byID := make(map[string]*domain.QuestionResult, len(survey.Questions))
	ratingSums := make(map[string]int)
	for _, q := range survey.Questions {
		qr := &domain.QuestionResult{QuestionID: q.ID, Prompt: q.Prompt, Kind: q.Kind}
		switch {
		case q.IsChoice():
			qr.ChoiceCounts = make(map[string]int, len(q.Options))
			for _, o := range q.Options {
				qr.ChoiceCounts[o] = 0
			}
		case q.Kind == domain.QuestionRating:
			qr.RatingCounts = make(map[int]int, domain.MaxRating)
			for r := domain.MinRating; r <= domain.MaxRating; r++ {
				qr.RatingCounts[r] = 0
			}
		default:
			qr.TextAnswers = []string{}
		}
		byID[q.ID] = qr
		results.Questions = append(results.Questions, qr)
	}

	for _, resp := range responses {
		for _, a := range resp.Answers {
			qr, ok := byID[a.QuestionID]
			if !ok {
				continue
			}
			qr.Answered++
			switch {
			case qr.ChoiceCounts != nil:
				for _, c := range a.Choices {
					qr.ChoiceCounts[c]++
				}
			case qr.RatingCounts != nil:
				qr.RatingCounts[a.Rating]++
				ratingSums[qr.QuestionID] += a.Rating
			default:
				qr.TextAnswers = append(qr.TextAnswers, a.Text)
			}
		}
	}
	for _, qr := range results.Questions {
		if qr.RatingCounts != nil && qr.Answered > 0 {
			qr.AverageRating = float64(ratingSums[qr.QuestionID]) / float64(qr.Answered)
		}
	}
	return results
}
