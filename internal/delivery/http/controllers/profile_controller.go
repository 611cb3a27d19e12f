package controllers

import (
	"log/slog"
	"net/http"
	"strings"

	"karyadi/internal/delivery/http/helpers"
	"karyadi/internal/domain"
)

// AddSkillRequest is the request body for POST /users/me/skills
type AddSkillRequest struct {
	Name  string `json:"name"`
	Level string `json:"level"` // optional, defaults to intermediate
}

// Validate implements Validator.
func (s AddSkillRequest) Validate() []string {
	if strings.TrimSpace(s.Name) == "" {
		return []string{"name is required"}
	}
	return nil
}

// ExperienceRequest is the request body for POST /users/me/experience. On PATCH omitted fields are unchanged.
type ExperienceRequest struct {
	Title       *string       `json:"title"`
	Company     *string       `json:"company"`
	Location    *string       `json:"location"`
	StartDate   *helpers.Date `json:"start_date" swaggertype:"string" example:"2022-01-01"`
	EndDate     *helpers.Date `json:"end_date" swaggertype:"string" example:"2023-06-30"`
	Current     *bool         `json:"current"`
	Description *string       `json:"description"`
}

func (e ExperienceRequest) createErrors() []string {
	var errs []string
	if e.Title == nil || strings.TrimSpace(*e.Title) == "" {
		errs = append(errs, "title is required")
	}
	if e.Company == nil || strings.TrimSpace(*e.Company) == "" {
		errs = append(errs, "company is required")
	}
	if e.StartDate == nil {
		errs = append(errs, "start_date is required")
	}
	return errs
}

func (e ExperienceRequest) update() domain.ExperienceUpdate {
	return domain.ExperienceUpdate{
		Title:       e.Title,
		Company:     e.Company,
		Location:    e.Location,
		StartDate:   e.StartDate.Ptr(),
		EndDate:     e.EndDate.Ptr(),
		Current:     e.Current,
		Description: e.Description,
	}
}

// CertificationRequest is the request body for POST /users/me/certifications
type CertificationRequest struct {
	Name          string        `json:"name"`
	Issuer        string        `json:"issuer"`
	IssuedOn      helpers.Date  `json:"issued_on" swaggertype:"string" example:"2023-03-15"`
	ExpiresOn     *helpers.Date `json:"expires_on" swaggertype:"string" example:"2026-03-15"`
	CredentialID  string        `json:"credential_id"`
	CredentialURL string        `json:"credential_url"`
}

// Validate implements Validator.
func (c CertificationRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(c.Name) == "" {
		errs = append(errs, "name is required")
	}
	if strings.TrimSpace(c.Issuer) == "" {
		errs = append(errs, "issuer is required")
	}
	if c.IssuedOn.IsZero() {
		errs = append(errs, "issued_on is required")
	}
	return errs
}

// EducationRequest is the request body for POST /users/me/education. On PATCH omitted fields are unchanged.
type EducationRequest struct {
	School       *string       `json:"school"`
	Degree       *string       `json:"degree"`
	FieldOfStudy *string       `json:"field_of_study"`
	StartDate    *helpers.Date `json:"start_date" swaggertype:"string" example:"2016-09-01"`
	EndDate      *helpers.Date `json:"end_date" swaggertype:"string" example:"2020-06-30"`
	Grade        *string       `json:"grade"`
	Description  *string       `json:"description"`
}

func (e EducationRequest) createErrors() []string {
	var errs []string
	if e.School == nil || strings.TrimSpace(*e.School) == "" {
		errs = append(errs, "school is required")
	}
	if e.StartDate == nil {
		errs = append(errs, "start_date is required")
	}
	return errs
}

func (e EducationRequest) update() domain.EducationUpdate {
	return domain.EducationUpdate{
		School:       e.School,
		Degree:       e.Degree,
		FieldOfStudy: e.FieldOfStudy,
		StartDate:    e.StartDate.Ptr(),
		EndDate:      e.EndDate.Ptr(),
		Grade:        e.Grade,
		Description:  e.Description,
	}
}

// ProfileSuccessResponse is the success response envelope for profile reads (200).
type ProfileSuccessResponse struct {
	Data  *domain.Profile   `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// SkillSuccessResponse is the success response envelope for POST /users/me/skills (201).
type SkillSuccessResponse struct {
	Data  *domain.Skill     `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// ExperienceSuccessResponse is the success response envelope for experience writes.
type ExperienceSuccessResponse struct {
	Data  *domain.Experience `json:"data"`
	Error *helpers.APIError  `json:"error"`
}

// CertificationSuccessResponse is the success response envelope for POST /users/me/certifications (201).
type CertificationSuccessResponse struct {
	Data  *domain.Certification `json:"data"`
	Error *helpers.APIError     `json:"error"`
}

// EducationSuccessResponse is the success response envelope for education writes.
type EducationSuccessResponse struct {
	Data  *domain.Education `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// ProfileController handles the profile tabs of users.
type ProfileController struct {
	Logger  *slog.Logger
	Service domain.ProfileService
}

// NewProfileController creates a ProfileController.
func NewProfileController(logger *slog.Logger, svc domain.ProfileService) *ProfileController {
	return &ProfileController{Logger: logger, Service: svc}
}

func (c *ProfileController) writeProfile(w http.ResponseWriter, r *http.Request, userID string) {
	profile, err := c.Service.GetProfile(r.Context(), userID)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, profile)
}

// GetProfile godoc
// @Summary Get a user's profile
// @Description Returns the user with skills, experience, certifications and education.
// @Tags profile
// @Produce json
// @Param userID path string true "User ID (UUID)"
// @Success 200 {object} controllers.ProfileSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /users/{userID}/profile [get]
func (c *ProfileController) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := helpers.PathUUID(w, r, "userID")
	if !ok {
		return
	}
	c.writeProfile(w, r, userID)
}

// GetMyProfile godoc
// @Summary Get my profile
// @Tags profile
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.ProfileSuccessResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /users/me/profile [get]
func (c *ProfileController) GetMyProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	c.writeProfile(w, r, userID)
}

// AddSkill godoc
// @Summary Add a skill
// @Description Names are title-cased and unique per user regardless of case.
// @Tags profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body AddSkillRequest true "Skill"
// @Success 201 {object} controllers.SkillSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Router /users/me/skills [post]
func (c *ProfileController) AddSkill(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	var req AddSkillRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	skill := &domain.Skill{UserID: userID, Name: req.Name, Level: strings.ToLower(strings.TrimSpace(req.Level))}
	if err := c.Service.AddSkill(r.Context(), skill); err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, skill)
}

// RemoveSkill godoc
// @Summary Remove a skill
// @Tags profile
// @Security BearerAuth
// @Param skillID path string true "Skill ID (UUID)"
// @Success 204
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /users/me/skills/{skillID} [delete]
func (c *ProfileController) RemoveSkill(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	id, ok := helpers.PathUUID(w, r, "skillID")
	if !ok {
		return
	}
	if err := c.Service.RemoveSkill(r.Context(), userID, id); err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AddExperience godoc
// @Summary Add an experience entry
// @Tags profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body ExperienceRequest true "Experience"
// @Success 201 {object} controllers.ExperienceSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Router /users/me/experience [post]
func (c *ProfileController) AddExperience(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	var req ExperienceRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	if errs := req.createErrors(); len(errs) > 0 {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, strings.Join(errs, "; "))
		return
	}
	exp := &domain.Experience{UserID: userID}
	req.update().Apply(exp)
	if err := c.Service.AddExperience(r.Context(), exp); err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, exp)
}

// UpdateExperience godoc
// @Summary Update an experience entry
// @Description Omitted fields are unchanged.
// @Tags profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param experienceID path string true "Experience ID (UUID)"
// @Param body body ExperienceRequest true "Fields to update"
// @Success 200 {object} controllers.ExperienceSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /users/me/experience/{experienceID} [patch]
func (c *ProfileController) UpdateExperience(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	id, ok := helpers.PathUUID(w, r, "experienceID")
	if !ok {
		return
	}
	var req ExperienceRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	exp, err := c.Service.UpdateExperience(r.Context(), userID, id, req.update())
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, exp)
}

// DeleteExperience godoc
// @Summary Delete an experience entry
// @Tags profile
// @Security BearerAuth
// @Param experienceID path string true "Experience ID (UUID)"
// @Success 204
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /users/me/experience/{experienceID} [delete]
func (c *ProfileController) DeleteExperience(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	id, ok := helpers.PathUUID(w, r, "experienceID")
	if !ok {
		return
	}
	if err := c.Service.DeleteExperience(r.Context(), userID, id); err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AddCertification godoc
// @Summary Add a certification
// @Tags profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CertificationRequest true "Certification"
// @Success 201 {object} controllers.CertificationSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Router /users/me/certifications [post]
func (c *ProfileController) AddCertification(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	var req CertificationRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	cert := &domain.Certification{
		UserID:        userID,
		Name:          req.Name,
		Issuer:        req.Issuer,
		IssuedOn:      req.IssuedOn.Time,
		ExpiresOn:     req.ExpiresOn.Ptr(),
		CredentialID:  req.CredentialID,
		CredentialURL: req.CredentialURL,
	}
	if err := c.Service.AddCertification(r.Context(), cert); err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, cert)
}

// DeleteCertification godoc
// @Summary Delete a certification
// @Tags profile
// @Security BearerAuth
// @Param certificationID path string true "Certification ID (UUID)"
// @Success 204
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /users/me/certifications/{certificationID} [delete]
func (c *ProfileController) DeleteCertification(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	id, ok := helpers.PathUUID(w, r, "certificationID")
	if !ok {
		return
	}
	if err := c.Service.DeleteCertification(r.Context(), userID, id); err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AddEducation godoc
// @Summary Add an education entry
// @Tags profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body EducationRequest true "Education"
// @Success 201 {object} controllers.EducationSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Router /users/me/education [post]
func (c *ProfileController) AddEducation(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	var req EducationRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	if errs := req.createErrors(); len(errs) > 0 {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, strings.Join(errs, "; "))
		return
	}
	edu := &domain.Education{UserID: userID}
	req.update().Apply(edu)
	if err := c.Service.AddEducation(r.Context(), edu); err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, edu)
}

// UpdateEducation godoc
// @Summary Update an education entry
// @Description Omitted fields are unchanged.
// @Tags profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param educationID path string true "Education ID (UUID)"
// @Param body body EducationRequest true "Fields to update"
// @Success 200 {object} controllers.EducationSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /users/me/education/{educationID} [patch]
func (c *ProfileController) UpdateEducation(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	id, ok := helpers.PathUUID(w, r, "educationID")
	if !ok {
		return
	}
	var req EducationRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	edu, err := c.Service.UpdateEducation(r.Context(), userID, id, req.update())
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, edu)
}

// DeleteEducation godoc
// @Summary Delete an education entry
// @Tags profile
// @Security BearerAuth
// @Param educationID path string true "Education ID (UUID)"
// @Success 204
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /users/me/education/{educationID} [delete]
func (c *ProfileController) DeleteEducation(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	id, ok := helpers.PathUUID(w, r, "educationID")
	if !ok {
		return
	}
	if err := c.Service.DeleteEducation(r.Context(), userID, id); err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
