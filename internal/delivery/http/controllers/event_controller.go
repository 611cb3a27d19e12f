package controllers

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"karyadi/internal/delivery/http/helpers"
	"karyadi/internal/domain"
)

// CreateEventRequest is the request body for POST /events. Times are RFC3339.
type CreateEventRequest struct {
	OrganizationID string    `json:"organization_id"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	Category       string    `json:"category"`
	Location       string    `json:"location"`
	IsOnline       bool      `json:"is_online"`
	MeetingURL     string    `json:"meeting_url"`
	StartsAt       time.Time `json:"starts_at"`
	EndsAt         time.Time `json:"ends_at"`
	Capacity       int       `json:"capacity"` // 0 means unlimited
}

// Validate implements Validator.
func (e CreateEventRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(e.OrganizationID) == "" {
		errs = append(errs, "organization_id is required")
	} else if !isUUID(e.OrganizationID) {
		errs = append(errs, "organization_id must be a UUID")
	}
	if strings.TrimSpace(e.Title) == "" {
		errs = append(errs, "title is required")
	}
	if e.StartsAt.IsZero() || e.EndsAt.IsZero() {
		errs = append(errs, "starts_at and ends_at are required")
	}
	return errs
}

// UpdateEventRequest is the request body for PATCH /events/{eventID}. Omitted fields are unchanged.
type UpdateEventRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Category    *string    `json:"category"`
	Location    *string    `json:"location"`
	IsOnline    *bool      `json:"is_online"`
	MeetingURL  *string    `json:"meeting_url"`
	StartsAt    *time.Time `json:"starts_at"`
	EndsAt      *time.Time `json:"ends_at"`
	Capacity    *int       `json:"capacity"`
}

// Validate implements Validator.
func (e UpdateEventRequest) Validate() []string {
	var errs []string
	if e.Title != nil && strings.TrimSpace(*e.Title) == "" {
		errs = append(errs, "title cannot be empty")
	}
	if e.Capacity != nil && *e.Capacity < 0 {
		errs = append(errs, "capacity cannot be negative")
	}
	return errs
}

// AdvanceWizardRequest is the request body for POST /events/{eventID}/wizard
type AdvanceWizardRequest struct {
	Step string `json:"step" example:"organizers"`
}

// Validate implements Validator.
func (a AdvanceWizardRequest) Validate() []string {
	if strings.TrimSpace(a.Step) == "" {
		return []string{"step is required"}
	}
	return nil
}

// EventSuccessResponse is the success response envelope for endpoints returning an event.
type EventSuccessResponse struct {
	Data  *domain.Event     `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// EventDetailsSuccessResponse is the success response envelope for GET /events/{eventID} (200).
type EventDetailsSuccessResponse struct {
	Data  *domain.EventDetails `json:"data"`
	Error *helpers.APIError    `json:"error"`
}

// EventListSuccessResponse is the success response envelope for event listings (200).
type EventListSuccessResponse struct {
	Data struct {
		Items      []*domain.Event        `json:"items"`
		Pagination helpers.PaginationMeta `json:"pagination"`
	} `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// EventController handles events, their creation wizard and lifecycle.
type EventController struct {
	Logger  *slog.Logger
	Service domain.EventService
	Dates   helpers.DateParser
}

// NewEventController creates an EventController. dates parses the listing date filters.
func NewEventController(logger *slog.Logger, svc domain.EventService, dates helpers.DateParser) *EventController {
	return &EventController{Logger: logger, Service: svc, Dates: dates}
}

// CreateEvent godoc
// @Summary Create an event
// @Description Creates a draft event owned by the organization. The caller must be an owner or admin of it. The organization is attached as organizer.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateEventRequest true "Event"
// @Success 201 {object} controllers.EventSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events [post]
func (c *EventController) CreateEvent(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	var req CreateEventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	event := &domain.Event{
		OrganizationID: strings.ToLower(strings.TrimSpace(req.OrganizationID)),
		Title:          req.Title,
		Description:    req.Description,
		Category:       req.Category,
		Location:       req.Location,
		IsOnline:       req.IsOnline,
		MeetingURL:     req.MeetingURL,
		StartsAt:       req.StartsAt,
		EndsAt:         req.EndsAt,
		Capacity:       req.Capacity,
	}
	if err := c.Service.CreateEvent(r.Context(), event, userID); err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, event)
}

// ListEvents godoc
// @Summary List events
// @Description Public listing; drafts are never included. Date filters accept RFC3339, YYYY-MM-DD or phrases like "next friday".
// @Tags events
// @Produce json
// @Param status query string false "published, cancelled or completed"
// @Param category query string false "Category"
// @Param organization_id query string false "Organization ID (UUID)"
// @Param q query string false "Search in title and description"
// @Param starts_after query string false "Earliest start"
// @Param starts_before query string false "Latest start"
// @Param page query int false "Page (default 1)"
// @Param page_size query int false "Page size (default 20, max 100)"
// @Success 200 {object} controllers.EventListSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events [get]
func (c *EventController) ListEvents(w http.ResponseWriter, r *http.Request) {
	orgID, ok := helpers.QueryUUID(w, r, "organization_id")
	if !ok {
		return
	}
	after, ok := helpers.QueryTime(w, r, c.Dates, "starts_after")
	if !ok {
		return
	}
	before, ok := helpers.QueryTime(w, r, c.Dates, "starts_before")
	if !ok {
		return
	}
	filter := domain.EventFilter{
		Status:         strings.ToLower(queryParam(r, "status")),
		Category:       queryParam(r, "category"),
		OrganizationID: orgID,
		Search:         queryParam(r, "q"),
		StartsAfter:    after,
		StartsBefore:   before,
	}
	params := helpers.ParsePagination(r)
	events, total, err := c.Service.ListEvents(r.Context(), filter, params)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteList(w, events, params.Page, params.PageSize, total)
}

// ListOrganizationEvents godoc
// @Summary List an organization's events
// @Description Drafts are included when the caller manages the organization.
// @Tags organizations
// @Produce json
// @Param orgID path string true "Organization ID (UUID)"
// @Param page query int false "Page (default 1)"
// @Param page_size query int false "Page size (default 20, max 100)"
// @Success 200 {object} controllers.EventListSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /organizations/{orgID}/events [get]
func (c *EventController) ListOrganizationEvents(w http.ResponseWriter, r *http.Request) {
	orgID, ok := helpers.PathUUID(w, r, "orgID")
	if !ok {
		return
	}
	params := helpers.ParsePagination(r)
	events, total, err := c.Service.ListOrganizationEvents(r.Context(), orgID, viewerID(r), params)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteList(w, events, params.Page, params.PageSize, total)
}

// GetEvent godoc
// @Summary Get an event
// @Description Returns the event with its agenda and organizations grouped by tier. Drafts are only visible to managers of the owning organization.
// @Tags events
// @Produce json
// @Param eventID path string true "Event ID (UUID)"
// @Success 200 {object} controllers.EventDetailsSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /events/{eventID} [get]
func (c *EventController) GetEvent(w http.ResponseWriter, r *http.Request) {
	eventID, ok := helpers.PathUUID(w, r, "eventID")
	if !ok {
		return
	}
	details, err := c.Service.GetEvent(r.Context(), eventID, viewerID(r))
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, details)
}

// UpdateEvent godoc
// @Summary Update an event
// @Description Managers only. Cancelled and completed events cannot be edited.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Param body body UpdateEventRequest true "Fields to update"
// @Success 200 {object} controllers.EventSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /events/{eventID} [patch]
func (c *EventController) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	eventID, ok := helpers.PathUUID(w, r, "eventID")
	if !ok {
		return
	}
	var req UpdateEventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	event, err := c.Service.UpdateEvent(r.Context(), eventID, userID, domain.EventUpdate{
		Title:       trimmed(req.Title),
		Description: req.Description,
		Category:    trimmed(req.Category),
		Location:    trimmed(req.Location),
		IsOnline:    req.IsOnline,
		MeetingURL:  trimmed(req.MeetingURL),
		StartsAt:    req.StartsAt,
		EndsAt:      req.EndsAt,
		Capacity:    req.Capacity,
	})
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, event)
}

// DeleteEvent godoc
// @Summary Delete a draft event
// @Description Only drafts can be deleted; published events are cancelled instead.
// @Tags events
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Success 204
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /events/{eventID} [delete]
func (c *EventController) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	eventID, ok := helpers.PathUUID(w, r, "eventID")
	if !ok {
		return
	}
	if err := c.Service.DeleteEvent(r.Context(), eventID, userID); err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AdvanceWizard godoc
// @Summary Move the creation wizard
// @Description Steps: event, agenda, organizers, partners, sponsors, collaborators, review. Steps cannot be skipped.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Param body body AdvanceWizardRequest true "Target step"
// @Success 200 {object} controllers.EventSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /events/{eventID}/wizard [post]
func (c *EventController) AdvanceWizard(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	eventID, ok := helpers.PathUUID(w, r, "eventID")
	if !ok {
		return
	}
	var req AdvanceWizardRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	event, err := c.Service.AdvanceWizard(r.Context(), eventID, userID, strings.ToLower(strings.TrimSpace(req.Step)))
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, event)
}

func (c *EventController) transition(w http.ResponseWriter, r *http.Request, apply func(eventID, userID string) (*domain.Event, error)) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	eventID, ok := helpers.PathUUID(w, r, "eventID")
	if !ok {
		return
	}
	event, err := apply(eventID, userID)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, event)
}

// PublishEvent godoc
// @Summary Publish an event
// @Description Requires an organizer, at least one agenda item and a start in the future.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Success 200 {object} controllers.EventSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Router /events/{eventID}/publish [post]
func (c *EventController) PublishEvent(w http.ResponseWriter, r *http.Request) {
	c.transition(w, r, func(eventID, userID string) (*domain.Event, error) {
		return c.Service.PublishEvent(r.Context(), eventID, userID)
	})
}

// CancelEvent godoc
// @Summary Cancel an event
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Success 200 {object} controllers.EventSuccessResponse
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Router /events/{eventID}/cancel [post]
func (c *EventController) CancelEvent(w http.ResponseWriter, r *http.Request) {
	c.transition(w, r, func(eventID, userID string) (*domain.Event, error) {
		return c.Service.CancelEvent(r.Context(), eventID, userID)
	})
}

// CompleteEvent godoc
// @Summary Mark an event as completed
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Success 200 {object} controllers.EventSuccessResponse
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Router /events/{eventID}/complete [post]
func (c *EventController) CompleteEvent(w http.ResponseWriter, r *http.Request) {
	c.transition(w, r, func(eventID, userID string) (*domain.Event, error) {
		return c.Service.CompleteEvent(r.Context(), eventID, userID)
	})
}
