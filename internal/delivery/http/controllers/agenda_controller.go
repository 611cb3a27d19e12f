package controllers

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"karyadi/internal/delivery/http/helpers"
	"karyadi/internal/domain"
)

// AgendaItemRequest is the request body for POST /events/{eventID}/agenda
type AgendaItemRequest struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	StartsAt    time.Time `json:"starts_at"`
	EndsAt      time.Time `json:"ends_at"`
	Position    int       `json:"position"`
}

// Validate implements Validator.
func (a AgendaItemRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(a.Title) == "" {
		errs = append(errs, "title is required")
	}
	if a.StartsAt.IsZero() || a.EndsAt.IsZero() {
		errs = append(errs, "starts_at and ends_at are required")
	}
	return errs
}

// UpdateAgendaItemRequest is the request body for PATCH /events/{eventID}/agenda/{itemID}
type UpdateAgendaItemRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Location    *string    `json:"location"`
	StartsAt    *time.Time `json:"starts_at"`
	EndsAt      *time.Time `json:"ends_at"`
	Position    *int       `json:"position"`
}

// Validate implements Validator.
func (a UpdateAgendaItemRequest) Validate() []string {
	if a.Title != nil && strings.TrimSpace(*a.Title) == "" {
		return []string{"title cannot be empty"}
	}
	return nil
}

// SpeakerRequest is the request body for POST /events/{eventID}/agenda/{itemID}/speakers
type SpeakerRequest struct {
	Name     string  `json:"name"`
	Title    string  `json:"title"`
	Bio      string  `json:"bio"`
	PhotoURL string  `json:"photo_url"`
	UserID   *string `json:"user_id"`
}

// Validate implements Validator.
func (s SpeakerRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(s.Name) == "" {
		errs = append(errs, "name is required")
	}
	if s.UserID != nil && !isUUID(*s.UserID) {
		errs = append(errs, "user_id must be a UUID")
	}
	return errs
}

// AttachOrganizationRequest is the request body for POST /events/{eventID}/organizations
type AttachOrganizationRequest struct {
	OrganizationID string `json:"organization_id"`
	Tier           string `json:"tier" example:"sponsor"`
	SponsorLevel   string `json:"sponsor_level" example:"gold"`
	Contribution   string `json:"contribution"`
}

// Validate implements Validator.
func (a AttachOrganizationRequest) Validate() []string {
	var errs []string
	if !isUUID(a.OrganizationID) {
		errs = append(errs, "organization_id must be a UUID")
	}
	if strings.TrimSpace(a.Tier) == "" {
		errs = append(errs, "tier is required")
	}
	return errs
}

// AgendaItemSuccessResponse is the success response envelope for agenda item writes.
type AgendaItemSuccessResponse struct {
	Data  *domain.AgendaItem `json:"data"`
	Error *helpers.APIError  `json:"error"`
}

// AgendaSuccessResponse is the success response envelope for GET /events/{eventID}/agenda (200).
type AgendaSuccessResponse struct {
	Data  []*domain.AgendaItem `json:"data"`
	Error *helpers.APIError    `json:"error"`
}

// SpeakerSuccessResponse is the success response envelope for POST speakers (201).
type SpeakerSuccessResponse struct {
	Data  *domain.Speaker   `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// AssociationSuccessResponse is the success response envelope for POST /events/{eventID}/organizations (201).
type AssociationSuccessResponse struct {
	Data  *domain.EventOrganization `json:"data"`
	Error *helpers.APIError         `json:"error"`
}

// AssociationsSuccessResponse is the success response envelope for GET /events/{eventID}/organizations (200).
type AssociationsSuccessResponse struct {
	Data  map[string][]*domain.EventOrganization `json:"data"`
	Error *helpers.APIError                      `json:"error"`
}

// AgendaController handles an event's agenda, speakers and organization associations.
type AgendaController struct {
	Logger       *slog.Logger
	Agenda       domain.AgendaService
	Associations domain.EventOrganizationService
}

// NewAgendaController creates an AgendaController.
func NewAgendaController(logger *slog.Logger, agenda domain.AgendaService, assocs domain.EventOrganizationService) *AgendaController {
	return &AgendaController{Logger: logger, Agenda: agenda, Associations: assocs}
}

// ListAgenda godoc
// @Summary List an event's agenda
// @Description Items ordered by start time, each with its speakers.
// @Tags agenda
// @Produce json
// @Param eventID path string true "Event ID (UUID)"
// @Success 200 {object} controllers.AgendaSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /events/{eventID}/agenda [get]
func (c *AgendaController) ListAgenda(w http.ResponseWriter, r *http.Request) {
	eventID, ok := helpers.PathUUID(w, r, "eventID")
	if !ok {
		return
	}
	items, err := c.Agenda.ListAgenda(r.Context(), eventID, viewerID(r))
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, items)
}

// AddAgendaItem godoc
// @Summary Add an agenda item
// @Description The item must fall inside the event window and must not overlap another item at the same location.
// @Tags agenda
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Param body body AgendaItemRequest true "Agenda item"
// @Success 201 {object} controllers.AgendaItemSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Router /events/{eventID}/agenda [post]
func (c *AgendaController) AddAgendaItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	eventID, ok := helpers.PathUUID(w, r, "eventID")
	if !ok {
		return
	}
	var req AgendaItemRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	item := &domain.AgendaItem{
		Title:       req.Title,
		Description: req.Description,
		Location:    strings.TrimSpace(req.Location),
		StartsAt:    req.StartsAt,
		EndsAt:      req.EndsAt,
		Position:    req.Position,
	}
	if err := c.Agenda.AddAgendaItem(r.Context(), eventID, userID, item); err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, item)
}

// UpdateAgendaItem godoc
// @Summary Update an agenda item
// @Tags agenda
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Param itemID path string true "Agenda item ID (UUID)"
// @Param body body UpdateAgendaItemRequest true "Fields to update"
// @Success 200 {object} controllers.AgendaItemSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Router /events/{eventID}/agenda/{itemID} [patch]
func (c *AgendaController) UpdateAgendaItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	eventID, ok := helpers.PathUUID(w, r, "eventID")
	if !ok {
		return
	}
	itemID, ok := helpers.PathUUID(w, r, "itemID")
	if !ok {
		return
	}
	var req UpdateAgendaItemRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	item, err := c.Agenda.UpdateAgendaItem(r.Context(), eventID, itemID, userID, domain.AgendaItemUpdate{
		Title:       trimmed(req.Title),
		Description: req.Description,
		Location:    trimmed(req.Location),
		StartsAt:    req.StartsAt,
		EndsAt:      req.EndsAt,
		Position:    req.Position,
	})
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, item)
}

// DeleteAgendaItem godoc
// @Summary Delete an agenda item
// @Tags agenda
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Param itemID path string true "Agenda item ID (UUID)"
// @Success 204
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /events/{eventID}/agenda/{itemID} [delete]
func (c *AgendaController) DeleteAgendaItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	eventID, ok := helpers.PathUUID(w, r, "eventID")
	if !ok {
		return
	}
	itemID, ok := helpers.PathUUID(w, r, "itemID")
	if !ok {
		return
	}
	if err := c.Agenda.DeleteAgendaItem(r.Context(), eventID, itemID, userID); err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AddSpeaker godoc
// @Summary Add a speaker to an agenda item
// @Tags agenda
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Param itemID path string true "Agenda item ID (UUID)"
// @Param body body SpeakerRequest true "Speaker"
// @Success 201 {object} controllers.SpeakerSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /events/{eventID}/agenda/{itemID}/speakers [post]
func (c *AgendaController) AddSpeaker(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	eventID, ok := helpers.PathUUID(w, r, "eventID")
	if !ok {
		return
	}
	itemID, ok := helpers.PathUUID(w, r, "itemID")
	if !ok {
		return
	}
	var req SpeakerRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	speaker := &domain.Speaker{
		Name:     req.Name,
		Title:    strings.TrimSpace(req.Title),
		Bio:      req.Bio,
		PhotoURL: strings.TrimSpace(req.PhotoURL),
		UserID:   req.UserID,
	}
	if err := c.Agenda.AddSpeaker(r.Context(), eventID, itemID, userID, speaker); err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, speaker)
}

// RemoveSpeaker godoc
// @Summary Remove a speaker from an agenda item
// @Tags agenda
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Param itemID path string true "Agenda item ID (UUID)"
// @Param speakerID path string true "Speaker ID (UUID)"
// @Success 204
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /events/{eventID}/agenda/{itemID}/speakers/{speakerID} [delete]
func (c *AgendaController) RemoveSpeaker(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	eventID, ok := helpers.PathUUID(w, r, "eventID")
	if !ok {
		return
	}
	itemID, ok := helpers.PathUUID(w, r, "itemID")
	if !ok {
		return
	}
	speakerID, ok := helpers.PathUUID(w, r, "speakerID")
	if !ok {
		return
	}
	if err := c.Agenda.RemoveSpeaker(r.Context(), eventID, itemID, speakerID, userID); err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListAssociations godoc
// @Summary List organizations attached to an event
// @Description Grouped by tier. Pass tier to get a single group.
// @Tags associations
// @Produce json
// @Param eventID path string true "Event ID (UUID)"
// @Param tier query string false "organizer, partner, sponsor or collaborator"
// @Success 200 {object} controllers.AssociationsSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /events/{eventID}/organizations [get]
func (c *AgendaController) ListAssociations(w http.ResponseWriter, r *http.Request) {
	eventID, ok := helpers.PathUUID(w, r, "eventID")
	if !ok {
		return
	}
	groups, err := c.Associations.ListAssociations(r.Context(), eventID, viewerID(r), strings.ToLower(queryParam(r, "tier")))
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, groups)
}

// AttachOrganization godoc
// @Summary Attach an organization to an event
// @Description Sponsors require a sponsor_level (platinum, gold, silver, bronze). An organization holds one tier per event.
// @Tags associations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Param body body AttachOrganizationRequest true "Association"
// @Success 201 {object} controllers.AssociationSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Router /events/{eventID}/organizations [post]
func (c *AgendaController) AttachOrganization(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	eventID, ok := helpers.PathUUID(w, r, "eventID")
	if !ok {
		return
	}
	var req AttachOrganizationRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	assoc := &domain.EventOrganization{
		EventID:        eventID,
		OrganizationID: strings.ToLower(strings.TrimSpace(req.OrganizationID)),
		Tier:           req.Tier,
		SponsorLevel:   req.SponsorLevel,
		Contribution:   strings.TrimSpace(req.Contribution),
	}
	if err := c.Associations.AttachOrganization(r.Context(), userID, assoc); err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, assoc)
}

// DetachOrganization godoc
// @Summary Detach an organization from an event
// @Description The owning organization cannot be detached.
// @Tags associations
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Param orgID path string true "Organization ID (UUID)"
// @Success 204
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /events/{eventID}/organizations/{orgID} [delete]
func (c *AgendaController) DetachOrganization(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	eventID, ok := helpers.PathUUID(w, r, "eventID")
	if !ok {
		return
	}
	orgID, ok := helpers.PathUUID(w, r, "orgID")
	if !ok {
		return
	}
	if err := c.Associations.DetachOrganization(r.Context(), eventID, orgID, userID); err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
