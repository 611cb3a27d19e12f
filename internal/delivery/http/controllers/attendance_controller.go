package controllers

import (
	"log/slog"
	"net/http"

	"karyadi/internal/delivery/http/helpers"
	"karyadi/internal/domain"
)

// AttendanceSuccessResponse is the success response envelope for registration endpoints (200 or 201).
type AttendanceSuccessResponse struct {
	Data  *domain.Attendance `json:"data"`
	Error *helpers.APIError  `json:"error"`
}

// MyRegistrationsSuccessResponse is the success response envelope for GET /users/me/registrations (200).
type MyRegistrationsSuccessResponse struct {
	Data  []*domain.AttendanceWithEvent `json:"data"`
	Error *helpers.APIError             `json:"error"`
}

// AttendeesSuccessResponse is the success response envelope for GET /events/{eventID}/attendees (200).
type AttendeesSuccessResponse struct {
	Data struct {
		Items      []*domain.Attendee     `json:"items"`
		Pagination helpers.PaginationMeta `json:"pagination"`
	} `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// AttendanceController handles event registrations.
type AttendanceController struct {
	Logger  *slog.Logger
	Service domain.AttendanceService
}

// NewAttendanceController creates an AttendanceController.
func NewAttendanceController(logger *slog.Logger, svc domain.AttendanceService) *AttendanceController {
	return &AttendanceController{
		Logger:  logger,
		Service: svc,
	}
}

// RegisterForEvent godoc
// @Summary Register for an event
// @Description Registers the authenticated user for a published event. Idempotent: returns 201 when a registration is created or reactivated, 200 when already registered.
// @Tags attendance
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Success 200 {object} controllers.AttendanceSuccessResponse "Already registered"
// @Success 201 {object} controllers.AttendanceSuccessResponse "New registration created"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/registrations [post]
func (c *AttendanceController) RegisterForEvent(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	eventID, ok := helpers.PathUUID(w, r, "eventID")
	if !ok {
		return
	}
	reg, created, err := c.Service.RegisterForEvent(r.Context(), eventID, userID)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	helpers.WriteJSONSuccess(w, status, reg)
}

// CancelRegistration godoc
// @Summary Cancel my registration
// @Tags attendance
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Success 200 {object} controllers.AttendanceSuccessResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Router /events/{eventID}/registrations [delete]
func (c *AttendanceController) CancelRegistration(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	eventID, ok := helpers.PathUUID(w, r, "eventID")
	if !ok {
		return
	}
	reg, err := c.Service.CancelRegistration(r.Context(), eventID, userID)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, reg)
}

// ListEventAttendees godoc
// @Summary List an event's attendees
// @Description Managers of the owning organization only.
// @Tags attendance
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Param page query int false "Page (default 1)"
// @Param page_size query int false "Page size (default 20, max 100)"
// @Success 200 {object} controllers.AttendeesSuccessResponse
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /events/{eventID}/attendees [get]
func (c *AttendanceController) ListEventAttendees(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	eventID, ok := helpers.PathUUID(w, r, "eventID")
	if !ok {
		return
	}
	params := helpers.ParsePagination(r)
	attendees, total, err := c.Service.ListEventAttendees(r.Context(), eventID, userID, params)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteList(w, attendees, params.Page, params.PageSize, total)
}

// MarkAttended godoc
// @Summary Check in an attendee
// @Description Managers only. The registration must be active.
// @Tags attendance
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Param userID path string true "User ID (UUID)"
// @Success 200 {object} controllers.AttendanceSuccessResponse
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Router /events/{eventID}/attendees/{userID}/attended [post]
func (c *AttendanceController) MarkAttended(w http.ResponseWriter, r *http.Request) {
	managerID, ok := callerID(w, r)
	if !ok {
		return
	}
	eventID, ok := helpers.PathUUID(w, r, "eventID")
	if !ok {
		return
	}
	attendeeID, ok := helpers.PathUUID(w, r, "userID")
	if !ok {
		return
	}
	reg, err := c.Service.MarkAttended(r.Context(), eventID, attendeeID, managerID)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, reg)
}

// ListMyRegistrations godoc
// @Summary List my registrations
// @Tags attendance
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.MyRegistrationsSuccessResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Router /users/me/registrations [get]
func (c *AttendanceController) ListMyRegistrations(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	regs, err := c.Service.ListMyRegistrations(r.Context(), userID)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, regs)
}
