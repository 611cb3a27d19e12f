package controllers

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"karyadi/internal/delivery/http/helpers"
	"karyadi/internal/domain"
)

// CreateJobRequest is the request body for POST /jobs
type CreateJobRequest struct {
	OrganizationID string     `json:"organization_id"`
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	Location       string     `json:"location"`
	EmploymentType string     `json:"employment_type" example:"full_time"`
	WorkMode       string     `json:"work_mode" example:"remote"`
	SalaryMin      *int64     `json:"salary_min"`
	SalaryMax      *int64     `json:"salary_max"`
	Currency       string     `json:"currency" example:"IDR"`
	Skills         []string   `json:"skills"`
	Deadline       *time.Time `json:"deadline"`
}

// Validate implements Validator.
func (j CreateJobRequest) Validate() []string {
	var errs []string
	if !isUUID(j.OrganizationID) {
		errs = append(errs, "organization_id must be a UUID")
	}
	if strings.TrimSpace(j.Title) == "" {
		errs = append(errs, "title is required")
	}
	return errs
}

// UpdateJobRequest is the request body for PATCH /jobs/{jobID}. Omitted fields are unchanged.
type UpdateJobRequest struct {
	Title          *string    `json:"title"`
	Description    *string    `json:"description"`
	Location       *string    `json:"location"`
	EmploymentType *string    `json:"employment_type"`
	WorkMode       *string    `json:"work_mode"`
	SalaryMin      *int64     `json:"salary_min"`
	SalaryMax      *int64     `json:"salary_max"`
	Currency       *string    `json:"currency"`
	Skills         []string   `json:"skills"`
	Deadline       *time.Time `json:"deadline"`
}

// Validate implements Validator.
func (j UpdateJobRequest) Validate() []string {
	if j.Title != nil && strings.TrimSpace(*j.Title) == "" {
		return []string{"title cannot be empty"}
	}
	return nil
}

// JobSuccessResponse is the success response envelope for endpoints returning a job post.
type JobSuccessResponse struct {
	Data  *domain.JobPost   `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// JobListSuccessResponse is the success response envelope for job listings (200).
type JobListSuccessResponse struct {
	Data struct {
		Items      []*domain.JobPost      `json:"items"`
		Pagination helpers.PaginationMeta `json:"pagination"`
	} `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// JobController handles the job board.
type JobController struct {
	Logger  *slog.Logger
	Service domain.JobService
}

// NewJobController creates a JobController.
func NewJobController(logger *slog.Logger, svc domain.JobService) *JobController {
	return &JobController{Logger: logger, Service: svc}
}

// CreateJobPost godoc
// @Summary Post a job
// @Description Owners and admins of the organization only. Skills are normalized and de-duplicated.
// @Tags jobs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateJobRequest true "Job post"
// @Success 201 {object} controllers.JobSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Router /jobs [post]
func (c *JobController) CreateJobPost(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	var req CreateJobRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	job := &domain.JobPost{
		OrganizationID: strings.ToLower(strings.TrimSpace(req.OrganizationID)),
		Title:          req.Title,
		Description:    req.Description,
		Location:       req.Location,
		EmploymentType: strings.ToLower(strings.TrimSpace(req.EmploymentType)),
		WorkMode:       strings.ToLower(strings.TrimSpace(req.WorkMode)),
		SalaryMin:      req.SalaryMin,
		SalaryMax:      req.SalaryMax,
		Currency:       req.Currency,
		Skills:         req.Skills,
		Deadline:       req.Deadline,
	}
	if err := c.Service.CreateJobPost(r.Context(), job, userID); err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, job)
}

func (c *JobController) list(w http.ResponseWriter, r *http.Request, filter domain.JobFilter) {
	params := helpers.ParsePagination(r)
	jobs, total, err := c.Service.ListJobPosts(r.Context(), filter, params)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteList(w, jobs, params.Page, params.PageSize, total)
}

// ListJobPosts godoc
// @Summary Search the job board
// @Description Open posts by default. Filters combine with AND.
// @Tags jobs
// @Produce json
// @Param q query string false "Search in title and description"
// @Param location query string false "Location"
// @Param employment_type query string false "full_time, part_time, contract, internship or volunteer"
// @Param work_mode query string false "onsite, remote or hybrid"
// @Param organization_id query string false "Organization ID (UUID)"
// @Param skill query string false "Skill name"
// @Param status query string false "open (default) or closed"
// @Param page query int false "Page (default 1)"
// @Param page_size query int false "Page size (default 20, max 100)"
// @Success 200 {object} controllers.JobListSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Router /jobs [get]
func (c *JobController) ListJobPosts(w http.ResponseWriter, r *http.Request) {
	orgID, ok := helpers.QueryUUID(w, r, "organization_id")
	if !ok {
		return
	}
	c.list(w, r, domain.JobFilter{
		Search:         queryParam(r, "q"),
		Location:       queryParam(r, "location"),
		EmploymentType: strings.ToLower(queryParam(r, "employment_type")),
		WorkMode:       strings.ToLower(queryParam(r, "work_mode")),
		OrganizationID: orgID,
		Skill:          queryParam(r, "skill"),
		Status:         strings.ToLower(queryParam(r, "status")),
	})
}

// ListOrganizationJobs godoc
// @Summary List an organization's open job posts
// @Tags organizations
// @Produce json
// @Param orgID path string true "Organization ID (UUID)"
// @Param status query string false "open (default) or closed"
// @Param page query int false "Page (default 1)"
// @Param page_size query int false "Page size (default 20, max 100)"
// @Success 200 {object} controllers.JobListSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Router /organizations/{orgID}/jobs [get]
func (c *JobController) ListOrganizationJobs(w http.ResponseWriter, r *http.Request) {
	orgID, ok := helpers.PathUUID(w, r, "orgID")
	if !ok {
		return
	}
	c.list(w, r, domain.JobFilter{
		OrganizationID: orgID,
		Status:         strings.ToLower(queryParam(r, "status")),
	})
}

// GetJobPost godoc
// @Summary Get a job post
// @Tags jobs
// @Produce json
// @Param jobID path string true "Job post ID (UUID)"
// @Success 200 {object} controllers.JobSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /jobs/{jobID} [get]
func (c *JobController) GetJobPost(w http.ResponseWriter, r *http.Request) {
	jobID, ok := helpers.PathUUID(w, r, "jobID")
	if !ok {
		return
	}
	job, err := c.Service.GetJobPost(r.Context(), jobID)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, job)
}

// UpdateJobPost godoc
// @Summary Update a job post
// @Tags jobs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param jobID path string true "Job post ID (UUID)"
// @Param body body UpdateJobRequest true "Fields to update"
// @Success 200 {object} controllers.JobSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /jobs/{jobID} [patch]
func (c *JobController) UpdateJobPost(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	jobID, ok := helpers.PathUUID(w, r, "jobID")
	if !ok {
		return
	}
	var req UpdateJobRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	job, err := c.Service.UpdateJobPost(r.Context(), jobID, userID, domain.JobPostUpdate{
		Title:          trimmed(req.Title),
		Description:    req.Description,
		Location:       trimmed(req.Location),
		EmploymentType: req.EmploymentType,
		WorkMode:       req.WorkMode,
		SalaryMin:      req.SalaryMin,
		SalaryMax:      req.SalaryMax,
		Currency:       trimmed(req.Currency),
		Skills:         req.Skills,
		Deadline:       req.Deadline,
	})
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, job)
}

func (c *JobController) setStatus(w http.ResponseWriter, r *http.Request, status string) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	jobID, ok := helpers.PathUUID(w, r, "jobID")
	if !ok {
		return
	}
	job, err := c.Service.SetJobStatus(r.Context(), jobID, userID, status)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, job)
}

// CloseJobPost godoc
// @Summary Close a job post
// @Description Closed posts stop accepting applications.
// @Tags jobs
// @Produce json
// @Security BearerAuth
// @Param jobID path string true "Job post ID (UUID)"
// @Success 200 {object} controllers.JobSuccessResponse
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /jobs/{jobID}/close [post]
func (c *JobController) CloseJobPost(w http.ResponseWriter, r *http.Request) {
	c.setStatus(w, r, domain.JobStatusClosed)
}

// ReopenJobPost godoc
// @Summary Reopen a job post
// @Description The deadline, when set, must be in the future.
// @Tags jobs
// @Produce json
// @Security BearerAuth
// @Param jobID path string true "Job post ID (UUID)"
// @Success 200 {object} controllers.JobSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /jobs/{jobID}/reopen [post]
func (c *JobController) ReopenJobPost(w http.ResponseWriter, r *http.Request) {
	c.setStatus(w, r, domain.JobStatusOpen)
}
