package controllers

import (
	"log/slog"
	"net/http"
	"strings"

	"karyadi/internal/delivery/http/helpers"
	"karyadi/internal/domain"
)

// CreateOrganizationRequest is the request body for POST /organizations
type CreateOrganizationRequest struct {
	Name        string `json:"name"`
	Slug        string `json:"slug"` // optional, derived from name when empty
	Description string `json:"description"`
	Website     string `json:"website"`
	LogoURL     string `json:"logo_url"`
}

// Validate implements Validator.
func (o CreateOrganizationRequest) Validate() []string {
	if strings.TrimSpace(o.Name) == "" {
		return []string{"name is required"}
	}
	return nil
}

// UpdateOrganizationRequest is the request body for PATCH /organizations/{orgID}
type UpdateOrganizationRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Website     *string `json:"website"`
	LogoURL     *string `json:"logo_url"`
}

// Validate implements Validator.
func (o UpdateOrganizationRequest) Validate() []string {
	if o.Name != nil && strings.TrimSpace(*o.Name) == "" {
		return []string{"name cannot be empty"}
	}
	return nil
}

// AddMemberRequest is the request body for POST /organizations/{orgID}/members
type AddMemberRequest struct {
	Email string `json:"email"`
	Role  string `json:"role"` // "admin" or "member"
}

// Validate implements Validator.
func (m AddMemberRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(m.Email) == "" {
		errs = append(errs, "email is required")
	}
	switch strings.ToLower(strings.TrimSpace(m.Role)) {
	case domain.OrgRoleAdmin, domain.OrgRoleMember:
	default:
		errs = append(errs, `role must be "admin" or "member"`)
	}
	return errs
}

// OrganizationSuccessResponse is the success response envelope for endpoints returning an organization.
type OrganizationSuccessResponse struct {
	Data  *domain.Organization `json:"data"`
	Error *helpers.APIError    `json:"error"`
}

// OrganizationListSuccessResponse is the success response envelope for GET /organizations (200).
type OrganizationListSuccessResponse struct {
	Data struct {
		Items      []*domain.Organization `json:"items"`
		Pagination helpers.PaginationMeta `json:"pagination"`
	} `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// MyOrganizationsSuccessResponse is the success response envelope for GET /organizations/me (200).
type MyOrganizationsSuccessResponse struct {
	Data  []*domain.Organization `json:"data"`
	Error *helpers.APIError      `json:"error"`
}

// MemberSuccessResponse is the success response envelope for POST /organizations/{orgID}/members (201).
type MemberSuccessResponse struct {
	Data  *domain.OrganizationMember `json:"data"`
	Error *helpers.APIError          `json:"error"`
}

// MembersSuccessResponse is the success response envelope for GET /organizations/{orgID}/members (200).
type MembersSuccessResponse struct {
	Data  []*domain.OrganizationMember `json:"data"`
	Error *helpers.APIError            `json:"error"`
}

// OrganizationController handles organizations and their members.
type OrganizationController struct {
	Logger  *slog.Logger
	Service domain.OrganizationService
}

// NewOrganizationController creates an OrganizationController.
func NewOrganizationController(logger *slog.Logger, svc domain.OrganizationService) *OrganizationController {
	return &OrganizationController{Logger: logger, Service: svc}
}

// CreateOrganization godoc
// @Summary Create an organization
// @Description The caller becomes the owner. The slug is derived from the name when omitted and must be unique.
// @Tags organizations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateOrganizationRequest true "Organization"
// @Success 201 {object} controllers.OrganizationSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /organizations [post]
func (c *OrganizationController) CreateOrganization(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	var req CreateOrganizationRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	org := &domain.Organization{
		Name:        req.Name,
		Slug:        strings.ToLower(req.Slug),
		Description: strings.TrimSpace(req.Description),
		Website:     strings.TrimSpace(req.Website),
		LogoURL:     strings.TrimSpace(req.LogoURL),
		CreatedBy:   userID,
	}
	if err := c.Service.CreateOrganization(r.Context(), org); err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, org)
}

// ListOrganizations godoc
// @Summary List organizations
// @Tags organizations
// @Produce json
// @Param q query string false "Search by name"
// @Param page query int false "Page (default 1)"
// @Param page_size query int false "Page size (default 20, max 100)"
// @Success 200 {object} controllers.OrganizationListSuccessResponse
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /organizations [get]
func (c *OrganizationController) ListOrganizations(w http.ResponseWriter, r *http.Request) {
	params := helpers.ParsePagination(r)
	orgs, total, err := c.Service.ListOrganizations(r.Context(), domain.OrganizationFilter{Search: queryParam(r, "q")}, params)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteList(w, orgs, params.Page, params.PageSize, total)
}

// ListMyOrganizations godoc
// @Summary List my organizations
// @Description Organizations the caller is a member of.
// @Tags organizations
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.MyOrganizationsSuccessResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Router /organizations/me [get]
func (c *OrganizationController) ListMyOrganizations(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	orgs, err := c.Service.ListMyOrganizations(r.Context(), userID)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	if orgs == nil {
		orgs = []*domain.Organization{}
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, orgs)
}

// GetOrganization godoc
// @Summary Get an organization
// @Tags organizations
// @Produce json
// @Param orgID path string true "Organization ID (UUID)"
// @Success 200 {object} controllers.OrganizationSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /organizations/{orgID} [get]
func (c *OrganizationController) GetOrganization(w http.ResponseWriter, r *http.Request) {
	orgID, ok := helpers.PathUUID(w, r, "orgID")
	if !ok {
		return
	}
	org, err := c.Service.GetOrganization(r.Context(), orgID)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, org)
}

// UpdateOrganization godoc
// @Summary Update an organization
// @Description Owners and admins only. Omitted fields are unchanged.
// @Tags organizations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param orgID path string true "Organization ID (UUID)"
// @Param body body UpdateOrganizationRequest true "Fields to update"
// @Success 200 {object} controllers.OrganizationSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /organizations/{orgID} [patch]
func (c *OrganizationController) UpdateOrganization(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	orgID, ok := helpers.PathUUID(w, r, "orgID")
	if !ok {
		return
	}
	var req UpdateOrganizationRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	org, err := c.Service.UpdateOrganization(r.Context(), orgID, userID, domain.OrganizationUpdate{
		Name:        req.Name,
		Description: req.Description,
		Website:     req.Website,
		LogoURL:     req.LogoURL,
	})
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, org)
}

// ListMembers godoc
// @Summary List organization members
// @Description Members of the organization only.
// @Tags organizations
// @Produce json
// @Security BearerAuth
// @Param orgID path string true "Organization ID (UUID)"
// @Success 200 {object} controllers.MembersSuccessResponse
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /organizations/{orgID}/members [get]
func (c *OrganizationController) ListMembers(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	orgID, ok := helpers.PathUUID(w, r, "orgID")
	if !ok {
		return
	}
	members, err := c.Service.ListMembers(r.Context(), orgID, userID)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, members)
}

// AddMember godoc
// @Summary Add an organization member
// @Description Owners and admins add an existing user by email as admin or member.
// @Tags organizations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param orgID path string true "Organization ID (UUID)"
// @Param body body AddMemberRequest true "Member"
// @Success 201 {object} controllers.MemberSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Router /organizations/{orgID}/members [post]
func (c *OrganizationController) AddMember(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	orgID, ok := helpers.PathUUID(w, r, "orgID")
	if !ok {
		return
	}
	var req AddMemberRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	member, err := c.Service.AddMember(r.Context(), orgID, userID, req.Email, strings.ToLower(strings.TrimSpace(req.Role)))
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, member)
}

// RemoveMember godoc
// @Summary Remove an organization member
// @Description Owners and admins only. The owner cannot be removed.
// @Tags organizations
// @Security BearerAuth
// @Param orgID path string true "Organization ID (UUID)"
// @Param userID path string true "User ID (UUID)"
// @Success 204
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /organizations/{orgID}/members/{userID} [delete]
func (c *OrganizationController) RemoveMember(w http.ResponseWriter, r *http.Request) {
	callerUserID, ok := callerID(w, r)
	if !ok {
		return
	}
	orgID, ok := helpers.PathUUID(w, r, "orgID")
	if !ok {
		return
	}
	memberID, ok := helpers.PathUUID(w, r, "userID")
	if !ok {
		return
	}
	if err := c.Service.RemoveMember(r.Context(), orgID, callerUserID, memberID); err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
