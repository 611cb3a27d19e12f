package controllers

import (
	"log/slog"
	"net/http"
	"strings"

	"karyadi/internal/delivery/http/helpers"
	"karyadi/internal/domain"
)

// ApplyRequest is the request body for POST /jobs/{jobID}/applications
type ApplyRequest struct {
	CoverLetter string `json:"cover_letter"`
	ResumeURL   string `json:"resume_url"`
}

// ChangeStatusRequest is the request body for POST /applications/{applicationID}/status
type ChangeStatusRequest struct {
	Status string `json:"status" example:"shortlisted"`
	Note   string `json:"note"`
}

// Validate implements Validator.
func (s ChangeStatusRequest) Validate() []string {
	if strings.TrimSpace(s.Status) == "" {
		return []string{"status is required"}
	}
	return nil
}

// ApplicationSuccessResponse is the success response envelope for endpoints returning an application.
type ApplicationSuccessResponse struct {
	Data  *domain.JobApplication `json:"data"`
	Error *helpers.APIError      `json:"error"`
}

// ApplicationsSuccessResponse is the success response envelope for GET /jobs/{jobID}/applications (200).
type ApplicationsSuccessResponse struct {
	Data  []*domain.JobApplication `json:"data"`
	Error *helpers.APIError        `json:"error"`
}

// MyApplicationsSuccessResponse is the success response envelope for GET /users/me/applications (200).
type MyApplicationsSuccessResponse struct {
	Data  []*domain.ApplicationWithJob `json:"data"`
	Error *helpers.APIError            `json:"error"`
}

// HistorySuccessResponse is the success response envelope for GET /applications/{applicationID}/history (200).
type HistorySuccessResponse struct {
	Data  []*domain.ApplicationStatusChange `json:"data"`
	Error *helpers.APIError                 `json:"error"`
}

// ApplicationController handles job applications and their status workflow.
type ApplicationController struct {
	Logger  *slog.Logger
	Service domain.JobApplicationService
}

// NewApplicationController creates an ApplicationController.
func NewApplicationController(logger *slog.Logger, svc domain.JobApplicationService) *ApplicationController {
	return &ApplicationController{Logger: logger, Service: svc}
}

// Apply godoc
// @Summary Apply to a job
// @Description One application per member and job. The post must be open and before its deadline.
// @Tags applications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param jobID path string true "Job post ID (UUID)"
// @Param body body ApplyRequest true "Application"
// @Success 201 {object} controllers.ApplicationSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Router /jobs/{jobID}/applications [post]
func (c *ApplicationController) Apply(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	jobID, ok := helpers.PathUUID(w, r, "jobID")
	if !ok {
		return
	}
	var req ApplyRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	app, err := c.Service.Apply(r.Context(), jobID, userID, strings.TrimSpace(req.CoverLetter), strings.TrimSpace(req.ResumeURL))
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, app)
}

// ListJobApplications godoc
// @Summary List a job's applications
// @Description Managers of the posting organization only.
// @Tags applications
// @Produce json
// @Security BearerAuth
// @Param jobID path string true "Job post ID (UUID)"
// @Param status query string false "pending, shortlisted, rejected, hired or withdrawn"
// @Success 200 {object} controllers.ApplicationsSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /jobs/{jobID}/applications [get]
func (c *ApplicationController) ListJobApplications(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	jobID, ok := helpers.PathUUID(w, r, "jobID")
	if !ok {
		return
	}
	status := domain.ApplicationStatus(strings.ToLower(queryParam(r, "status")))
	apps, err := c.Service.ListJobApplications(r.Context(), jobID, userID, status)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, apps)
}

// ListMyApplications godoc
// @Summary List my applications
// @Tags applications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.MyApplicationsSuccessResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Router /users/me/applications [get]
func (c *ApplicationController) ListMyApplications(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	apps, err := c.Service.ListMyApplications(r.Context(), userID)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, apps)
}

// GetApplication godoc
// @Summary Get an application
// @Description Visible to the applicant and to managers of the posting organization.
// @Tags applications
// @Produce json
// @Security BearerAuth
// @Param applicationID path string true "Application ID (UUID)"
// @Success 200 {object} controllers.ApplicationSuccessResponse
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /applications/{applicationID} [get]
func (c *ApplicationController) GetApplication(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	appID, ok := helpers.PathUUID(w, r, "applicationID")
	if !ok {
		return
	}
	app, err := c.Service.GetApplication(r.Context(), appID, userID)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, app)
}

// ChangeStatus godoc
// @Summary Move an application through the workflow
// @Description Employers move pending to shortlisted or rejected and shortlisted to hired or rejected. Applicants may only withdraw.
// @Tags applications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param applicationID path string true "Application ID (UUID)"
// @Param body body ChangeStatusRequest true "Target status"
// @Success 200 {object} controllers.ApplicationSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Router /applications/{applicationID}/status [post]
func (c *ApplicationController) ChangeStatus(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	appID, ok := helpers.PathUUID(w, r, "applicationID")
	if !ok {
		return
	}
	var req ChangeStatusRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	to := domain.ApplicationStatus(strings.ToLower(strings.TrimSpace(req.Status)))
	app, err := c.Service.ChangeStatus(r.Context(), appID, userID, to, strings.TrimSpace(req.Note))
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, app)
}

// Withdraw godoc
// @Summary Withdraw my application
// @Tags applications
// @Produce json
// @Security BearerAuth
// @Param applicationID path string true "Application ID (UUID)"
// @Success 200 {object} controllers.ApplicationSuccessResponse
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Router /applications/{applicationID}/withdraw [post]
func (c *ApplicationController) Withdraw(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	appID, ok := helpers.PathUUID(w, r, "applicationID")
	if !ok {
		return
	}
	app, err := c.Service.Withdraw(r.Context(), appID, userID)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, app)
}

// History godoc
// @Summary Application status history
// @Tags applications
// @Produce json
// @Security BearerAuth
// @Param applicationID path string true "Application ID (UUID)"
// @Success 200 {object} controllers.HistorySuccessResponse
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /applications/{applicationID}/history [get]
func (c *ApplicationController) History(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	appID, ok := helpers.PathUUID(w, r, "applicationID")
	if !ok {
		return
	}
	history, err := c.Service.History(r.Context(), appID, userID)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, history)
}
