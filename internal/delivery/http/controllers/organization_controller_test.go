package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"karyadi/internal/delivery/http/helpers"
	"karyadi/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeOrganizationService struct {
	domain.OrganizationService
	err        error
	created    *domain.Organization
	filter     domain.OrganizationFilter
	addedEmail string
	addedRole  string
	removed    string
	update     domain.OrganizationUpdate
}

func (f *fakeOrganizationService) CreateOrganization(_ context.Context, org *domain.Organization) error {
	f.created = org
	if f.err != nil {
		return f.err
	}
	org.ID = orgID1
	if org.Slug == "" {
		org.Slug = "acme"
	}
	return nil
}

func (f *fakeOrganizationService) ListOrganizations(_ context.Context, filter domain.OrganizationFilter, _ domain.PaginationParams) ([]*domain.Organization, int, error) {
	f.filter = filter
	return []*domain.Organization{{ID: orgID1}}, 1, f.err
}

func (f *fakeOrganizationService) ListMyOrganizations(context.Context, string) ([]*domain.Organization, error) {
	return nil, f.err
}

func (f *fakeOrganizationService) GetOrganization(_ context.Context, id string) (*domain.Organization, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Organization{ID: id, Name: "Acme"}, nil
}

func (f *fakeOrganizationService) UpdateOrganization(_ context.Context, id, _ string, upd domain.OrganizationUpdate) (*domain.Organization, error) {
	f.update = upd
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Organization{ID: id}, nil
}

func (f *fakeOrganizationService) AddMember(_ context.Context, orgID, _, email, role string) (*domain.OrganizationMember, error) {
	f.addedEmail, f.addedRole = email, role
	if f.err != nil {
		return nil, f.err
	}
	return &domain.OrganizationMember{OrganizationID: orgID, Email: email, Role: role}, nil
}

func (f *fakeOrganizationService) ListMembers(_ context.Context, orgID, _ string) ([]*domain.OrganizationMember, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []*domain.OrganizationMember{{OrganizationID: orgID, Role: domain.OrgRoleOwner}}, nil
}

func (f *fakeOrganizationService) RemoveMember(_ context.Context, _, _, userID string) error {
	f.removed = userID
	return f.err
}

func TestOrganizationController_CreateOrganization(t *testing.T) {
	svc := &fakeOrganizationService{}
	c := NewOrganizationController(testLogger(), svc)
	rr := httptest.NewRecorder()
	c.CreateOrganization(rr, newRequest(t, http.MethodPost, "/organizations", CreateOrganizationRequest{Name: "Acme", Website: " https://acme.test "}, userID1))

	require.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, userID1, svc.created.CreatedBy)
	assert.Equal(t, "https://acme.test", svc.created.Website)
	assert.Equal(t, "acme", decodeEnvelope[domain.Organization](t, rr).Data.Slug)

	c = NewOrganizationController(testLogger(), &fakeOrganizationService{err: domain.ErrConflict})
	rr = httptest.NewRecorder()
	c.CreateOrganization(rr, newRequest(t, http.MethodPost, "/organizations", CreateOrganizationRequest{Name: "Acme"}, userID1))
	requireErrorCode(t, rr, http.StatusConflict, helpers.ErrCodeConflict)
}

func TestOrganizationController_Lists(t *testing.T) {
	svc := &fakeOrganizationService{}
	c := NewOrganizationController(testLogger(), svc)

	rr := httptest.NewRecorder()
	c.ListOrganizations(rr, newRequest(t, http.MethodGet, "/organizations?q=acme", nil, ""))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "acme", svc.filter.Search)
	assert.Equal(t, 1, decodeEnvelope[listData[domain.Organization]](t, rr).Data.Pagination.Total)

	rr = httptest.NewRecorder()
	c.ListMyOrganizations(rr, newRequest(t, http.MethodGet, "/organizations/me", nil, userID1))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"data":[],"error":null}`, rr.Body.String())
}

func TestOrganizationController_UpdateOrganization(t *testing.T) {
	svc := &fakeOrganizationService{}
	c := NewOrganizationController(testLogger(), svc)
	rr := httptest.NewRecorder()
	c.UpdateOrganization(rr, newRequest(t, http.MethodPatch, "/organizations/x", `{"description":"We build things"}`, userID1, "orgID", orgID1))

	require.Equal(t, http.StatusOK, rr.Code)
	require.NotNil(t, svc.update.Description)
	assert.Nil(t, svc.update.Name)

	c = NewOrganizationController(testLogger(), &fakeOrganizationService{err: domain.ErrForbidden})
	rr = httptest.NewRecorder()
	c.UpdateOrganization(rr, newRequest(t, http.MethodPatch, "/organizations/x", `{"name":"Evil"}`, userID2, "orgID", orgID1))
	requireErrorCode(t, rr, http.StatusForbidden, helpers.ErrCodeForbidden)
}

func TestOrganizationController_Members(t *testing.T) {
	tests := []struct {
		name       string
		body       any
		err        error
		wantStatus int
		wantRole   string
	}{
		{"admin added", AddMemberRequest{Email: "budi@karyadi.test", Role: " Admin "}, nil, http.StatusCreated, domain.OrgRoleAdmin},
		{"owner role rejected", AddMemberRequest{Email: "budi@karyadi.test", Role: "owner"}, nil, http.StatusBadRequest, ""},
		{"unknown user", AddMemberRequest{Email: "ghost@karyadi.test", Role: "member"}, domain.ErrUserNotFound, http.StatusNotFound, domain.OrgRoleMember},
		{"already member", AddMemberRequest{Email: "budi@karyadi.test", Role: "member"}, domain.ErrAlreadyMember, http.StatusConflict, domain.OrgRoleMember},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeOrganizationService{err: tt.err}
			c := NewOrganizationController(testLogger(), svc)
			rr := httptest.NewRecorder()
			c.AddMember(rr, newRequest(t, http.MethodPost, "/organizations/x/members", tt.body, userID1, "orgID", orgID1))

			require.Equal(t, tt.wantStatus, rr.Code)
			assert.Equal(t, tt.wantRole, svc.addedRole)
		})
	}

	svc := &fakeOrganizationService{}
	c := NewOrganizationController(testLogger(), svc)
	rr := httptest.NewRecorder()
	c.ListMembers(rr, newRequest(t, http.MethodGet, "/organizations/x/members", nil, userID1, "orgID", orgID1))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Len(t, decodeEnvelope[[]domain.OrganizationMember](t, rr).Data, 1)

	rr = httptest.NewRecorder()
	c.RemoveMember(rr, newRequest(t, http.MethodDelete, "/organizations/x/members/y", nil, userID1, "orgID", orgID1, "userID", userID2))
	require.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, userID2, svc.removed)
}
