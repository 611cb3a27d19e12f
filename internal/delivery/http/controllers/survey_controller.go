package controllers

import (
	"log/slog"
	"net/http"
	"strings"

	"karyadi/internal/delivery/http/helpers"
	"karyadi/internal/domain"
)

// QuestionRequest is one question of CreateSurveyRequest.
type QuestionRequest struct {
	Prompt   string   `json:"prompt"`
	Kind     string   `json:"kind" example:"single_choice"`
	Options  []string `json:"options"`
	Required bool     `json:"required"`
}

// CreateSurveyRequest is the request body for POST /surveys
type CreateSurveyRequest struct {
	Title       string            `json:"title"`
	Description string            `json:"description"`
	EventID     *string           `json:"event_id"`
	Questions   []QuestionRequest `json:"questions"`
}

// Validate implements Validator.
func (s CreateSurveyRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(s.Title) == "" {
		errs = append(errs, "title is required")
	}
	if s.EventID != nil && !isUUID(*s.EventID) {
		errs = append(errs, "event_id must be a UUID")
	}
	if len(s.Questions) == 0 {
		errs = append(errs, "at least one question is required")
	}
	return errs
}

// SubmitResponseRequest is the request body for POST /surveys/{surveyID}/responses
type SubmitResponseRequest struct {
	Answers []domain.Answer `json:"answers"`
}

// SurveySuccessResponse is the success response envelope for endpoints returning a survey.
type SurveySuccessResponse struct {
	Data  *domain.Survey    `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// SurveysSuccessResponse is the success response envelope for GET /surveys (200).
type SurveysSuccessResponse struct {
	Data  []*domain.Survey  `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// SurveyResponseSuccessResponse is the success response envelope for POST /surveys/{surveyID}/responses (201).
type SurveyResponseSuccessResponse struct {
	Data  *domain.SurveyResponse `json:"data"`
	Error *helpers.APIError      `json:"error"`
}

// SurveyResultsSuccessResponse is the success response envelope for GET /surveys/{surveyID}/results (200).
type SurveyResultsSuccessResponse struct {
	Data  *domain.SurveyResults `json:"data"`
	Error *helpers.APIError     `json:"error"`
}

// SurveyController handles surveys and their responses.
type SurveyController struct {
	Logger  *slog.Logger
	Service domain.SurveyService
}

// NewSurveyController creates a SurveyController.
func NewSurveyController(logger *slog.Logger, svc domain.SurveyService) *SurveyController {
	return &SurveyController{Logger: logger, Service: svc}
}

// CreateSurvey godoc
// @Summary Create a survey
// @Description Choice questions need at least two distinct options. Attaching a survey to an event requires managing that event.
// @Tags surveys
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateSurveyRequest true "Survey"
// @Success 201 {object} controllers.SurveySuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Router /surveys [post]
func (c *SurveyController) CreateSurvey(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	var req CreateSurveyRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	survey := &domain.Survey{
		Title:       req.Title,
		Description: strings.TrimSpace(req.Description),
		CreatedBy:   userID,
	}
	if req.EventID != nil {
		eventID := strings.ToLower(strings.TrimSpace(*req.EventID))
		survey.EventID = &eventID
	}
	for _, q := range req.Questions {
		survey.Questions = append(survey.Questions, &domain.Question{
			Prompt:   strings.TrimSpace(q.Prompt),
			Kind:     strings.ToLower(strings.TrimSpace(q.Kind)),
			Options:  q.Options,
			Required: q.Required,
		})
	}
	if err := c.Service.CreateSurvey(r.Context(), survey); err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, survey)
}

// ListSurveys godoc
// @Summary List surveys
// @Tags surveys
// @Produce json
// @Param event_id query string false "Only surveys of this event (UUID)"
// @Success 200 {object} controllers.SurveysSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Router /surveys [get]
func (c *SurveyController) ListSurveys(w http.ResponseWriter, r *http.Request) {
	eventID, ok := helpers.QueryUUID(w, r, "event_id")
	if !ok {
		return
	}
	surveys, err := c.Service.ListSurveys(r.Context(), eventID)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	if surveys == nil {
		surveys = []*domain.Survey{}
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, surveys)
}

// GetSurvey godoc
// @Summary Get a survey with its questions
// @Tags surveys
// @Produce json
// @Param surveyID path string true "Survey ID (UUID)"
// @Success 200 {object} controllers.SurveySuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /surveys/{surveyID} [get]
func (c *SurveyController) GetSurvey(w http.ResponseWriter, r *http.Request) {
	surveyID, ok := helpers.PathUUID(w, r, "surveyID")
	if !ok {
		return
	}
	survey, err := c.Service.GetSurvey(r.Context(), surveyID)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, survey)
}

// CloseSurvey godoc
// @Summary Close a survey
// @Description Creator only. Closed surveys stop accepting responses.
// @Tags surveys
// @Produce json
// @Security BearerAuth
// @Param surveyID path string true "Survey ID (UUID)"
// @Success 200 {object} controllers.SurveySuccessResponse
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /surveys/{surveyID}/close [post]
func (c *SurveyController) CloseSurvey(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	surveyID, ok := helpers.PathUUID(w, r, "surveyID")
	if !ok {
		return
	}
	survey, err := c.Service.CloseSurvey(r.Context(), surveyID, userID)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, survey)
}

// SubmitResponse godoc
// @Summary Answer a survey
// @Description One response per user. Required questions must be answered; ratings range from 1 to 5.
// @Tags surveys
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param surveyID path string true "Survey ID (UUID)"
// @Param body body SubmitResponseRequest true "Answers"
// @Success 201 {object} controllers.SurveyResponseSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Router /surveys/{surveyID}/responses [post]
func (c *SurveyController) SubmitResponse(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	surveyID, ok := helpers.PathUUID(w, r, "surveyID")
	if !ok {
		return
	}
	var req SubmitResponseRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	resp := &domain.SurveyResponse{SurveyID: surveyID, UserID: userID, Answers: req.Answers}
	if err := c.Service.SubmitResponse(r.Context(), resp); err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, resp)
}

// Results godoc
// @Summary Survey results
// @Description Creator only. Choice counts, rating histogram with average, and text answers per question.
// @Tags surveys
// @Produce json
// @Security BearerAuth
// @Param surveyID path string true "Survey ID (UUID)"
// @Success 200 {object} controllers.SurveyResultsSuccessResponse
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /surveys/{surveyID}/results [get]
func (c *SurveyController) Results(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	surveyID, ok := helpers.PathUUID(w, r, "surveyID")
	if !ok {
		return
	}
	results, err := c.Service.Results(r.Context(), surveyID, userID)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, results)
}
