package domain

import (
	"context"
	"time"
)

// Job post statuses.
const (
	JobStatusOpen   = "open"
	JobStatusClosed = "closed"
)

// Employment types.
const (
	EmploymentFullTime   = "full_time"
	EmploymentPartTime   = "part_time"
	EmploymentContract   = "contract"
	EmploymentInternship = "internship"
	EmploymentVolunteer  = "volunteer"
)

// Work modes.
const (
	WorkModeOnsite = "onsite"
	WorkModeRemote = "remote"
	WorkModeHybrid = "hybrid"
)

// ValidEmploymentType reports whether t is a known employment type.
func ValidEmploymentType(t string) bool {
	switch t {
	case EmploymentFullTime, EmploymentPartTime, EmploymentContract, EmploymentInternship, EmploymentVolunteer:
		return true
	}
	return false
}

// ValidWorkMode reports whether m is a known work mode.
func ValidWorkMode(m string) bool {
	switch m {
	case WorkModeOnsite, WorkModeRemote, WorkModeHybrid:
		return true
	}
	return false
}

// JobPost is an employment listing owned by an organization.
// swagger:model JobPost
type JobPost struct {
	ID             string     `json:"id"`
	OrganizationID string     `json:"organization_id"`
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	Location       string     `json:"location"`
	EmploymentType string     `json:"employment_type"`
	WorkMode       string     `json:"work_mode"`
	SalaryMin      *int64     `json:"salary_min"`
	SalaryMax      *int64     `json:"salary_max"`
	Currency       string     `json:"currency"`
	Skills         []string   `json:"skills"`
	Status         string     `json:"status"`
	Deadline       *time.Time `json:"deadline"`
	PostedBy       string     `json:"posted_by"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// AcceptsApplications reports whether the post is open and its deadline has not passed at now.
func (j *JobPost) AcceptsApplications(now time.Time) bool {
	if j.Status != JobStatusOpen {
		return false
	}
	return j.Deadline == nil || now.Before(*j.Deadline)
}

// JobPostUpdate holds optional job post fields. Nil fields are unchanged.
type JobPostUpdate struct {
	Title          *string
	Description    *string
	Location       *string
	EmploymentType *string
	WorkMode       *string
	SalaryMin      *int64
	SalaryMax      *int64
	Currency       *string
	Skills         []string
	Deadline       *time.Time
}

// JobFilter narrows job board listings.
type JobFilter struct {
	Search         string
	Location       string
	EmploymentType string
	WorkMode       string
	OrganizationID string
	Skill          string
	Status         string
}

// JobPostRepository defines storage for job posts.
type JobPostRepository interface {
	Create(ctx context.Context, job *JobPost) error
	GetByID(ctx context.Context, id string) (*JobPost, error)
	Update(ctx context.Context, job *JobPost) error
	List(ctx context.Context, filter JobFilter, params PaginationParams) ([]*JobPost, int, error)
}

// JobService defines the business logic for the job board.
type JobService interface {
	CreateJobPost(ctx context.Context, job *JobPost, callerID string) error
	GetJobPost(ctx context.Context, id string) (*JobPost, error)
	UpdateJobPost(ctx context.Context, id, callerID string, upd JobPostUpdate) (*JobPost, error)
	SetJobStatus(ctx context.Context, id, callerID, status string) (*JobPost, error)
	ListJobPosts(ctx context.Context, filter JobFilter, params PaginationParams) ([]*JobPost, int, error)
}
