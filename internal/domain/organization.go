package domain

import (
	"context"
	"time"
)

// Organization member roles.
const (
	OrgRoleOwner  = "owner"
	OrgRoleAdmin  = "admin"
	OrgRoleMember = "member"
)

// Organization is a tenant: it owns events and job posts and can be associated with other
// organizations' events as organizer, partner, sponsor or collaborator.
// swagger:model Organization
type Organization struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	Website     string    `json:"website"`
	LogoURL     string    `json:"logo_url"`
	CreatedBy   string    `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// OrganizationMember links a user to an organization with a role.
// swagger:model OrganizationMember
type OrganizationMember struct {
	OrganizationID string    `json:"organization_id"`
	UserID         string    `json:"user_id"`
	Role           string    `json:"role"`
	Name           string    `json:"name"`
	LastName       string    `json:"last_name"`
	Email          string    `json:"email"`
	CreatedAt      time.Time `json:"created_at"`
}

// CanManage reports whether the member may manage the organization's events and job posts.
func (m *OrganizationMember) CanManage() bool {
	return m != nil && (m.Role == OrgRoleOwner || m.Role == OrgRoleAdmin)
}

// OrganizationUpdate holds optional organization fields. Nil fields are unchanged.
type OrganizationUpdate struct {
	Name        *string
	Description *string
	Website     *string
	LogoURL     *string
}

// OrganizationFilter narrows organization listings.
type OrganizationFilter struct {
	Search string
}

// OrganizationRepository defines storage for organizations and their members.
type OrganizationRepository interface {
	// Create stores the organization and makes CreatedBy its owner in one transaction.
	Create(ctx context.Context, org *Organization) error
	GetByID(ctx context.Context, id string) (*Organization, error)
	Update(ctx context.Context, org *Organization) error
	List(ctx context.Context, filter OrganizationFilter, params PaginationParams) ([]*Organization, int, error)
	ListByUserID(ctx context.Context, userID string) ([]*Organization, error)
	AddMember(ctx context.Context, orgID, userID, role string) error
	GetMember(ctx context.Context, orgID, userID string) (*OrganizationMember, error)
	ListMembers(ctx context.Context, orgID string) ([]*OrganizationMember, error)
	RemoveMember(ctx context.Context, orgID, userID string) error
}

// OrganizationService defines the business logic for organizations and memberships.
type OrganizationService interface {
	CreateOrganization(ctx context.Context, org *Organization) error
	GetOrganization(ctx context.Context, id string) (*Organization, error)
	ListOrganizations(ctx context.Context, filter OrganizationFilter, params PaginationParams) ([]*Organization, int, error)
	ListMyOrganizations(ctx context.Context, userID string) ([]*Organization, error)
	UpdateOrganization(ctx context.Context, id, callerID string, upd OrganizationUpdate) (*Organization, error)
	AddMember(ctx context.Context, orgID, callerID, email, role string) (*OrganizationMember, error)
	ListMembers(ctx context.Context, orgID, callerID string) ([]*OrganizationMember, error)
	RemoveMember(ctx context.Context, orgID, callerID, userID string) error
	// CanManage reports whether userID is an owner or admin of the organization.
	CanManage(ctx context.Context, orgID, userID string) (bool, error)
}
