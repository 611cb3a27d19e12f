package domain

import (
	"context"
	"time"
)

// ApplicationStatus is the state of a job application.
type ApplicationStatus string

// Application statuses. Rejected, hired and withdrawn are terminal.
const (
	ApplicationPending     ApplicationStatus = "pending"
	ApplicationShortlisted ApplicationStatus = "shortlisted"
	ApplicationRejected    ApplicationStatus = "rejected"
	ApplicationHired       ApplicationStatus = "hired"
	ApplicationWithdrawn   ApplicationStatus = "withdrawn"
)

// Actor is the party requesting an application transition.
type Actor string

const (
	ActorApplicant Actor = "applicant"
	ActorEmployer  Actor = "employer"
)

var applicationTransitions = map[ApplicationStatus]map[ApplicationStatus]Actor{
	ApplicationPending: {
		ApplicationShortlisted: ActorEmployer,
		ApplicationRejected:    ActorEmployer,
		ApplicationWithdrawn:   ActorApplicant,
	},
	ApplicationShortlisted: {
		ApplicationHired:     ActorEmployer,
		ApplicationRejected:  ActorEmployer,
		ApplicationWithdrawn: ActorApplicant,
	},
}

// Valid reports whether s is a known status.
func (s ApplicationStatus) Valid() bool {
	switch s {
	case ApplicationPending, ApplicationShortlisted, ApplicationRejected, ApplicationHired, ApplicationWithdrawn:
		return true
	}
	return false
}

// Terminal reports whether no transition leaves s.
func (s ApplicationStatus) Terminal() bool {
	return len(applicationTransitions[s]) == 0
}

// CanTransition reports whether actor may move an application from s to next.
func (s ApplicationStatus) CanTransition(next ApplicationStatus, actor Actor) bool {
	allowed, ok := applicationTransitions[s][next]
	return ok && allowed == actor
}

// JobApplication is a member's application to a job post.
// swagger:model JobApplication
type JobApplication struct {
	ID          string            `json:"id"`
	JobPostID   string            `json:"job_post_id"`
	ApplicantID string            `json:"applicant_id"`
	CoverLetter string            `json:"cover_letter"`
	ResumeURL   string            `json:"resume_url"`
	Status      ApplicationStatus `json:"status"`
	Note        string            `json:"note"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// ApplicationStatusChange is one entry of an application's status history.
// swagger:model ApplicationStatusChange
type ApplicationStatusChange struct {
	ID            string            `json:"id"`
	ApplicationID string            `json:"application_id"`
	From          ApplicationStatus `json:"from"`
	To            ApplicationStatus `json:"to"`
	ChangedBy     string            `json:"changed_by"`
	Note          string            `json:"note"`
	CreatedAt     time.Time         `json:"created_at"`
}

// ApplicationWithJob bundles an application with its job post.
type ApplicationWithJob struct {
	Application *JobApplication `json:"application"`
	Job         *JobPost        `json:"job"`
}

// JobApplicationRepository defines storage for job applications and their history.
type JobApplicationRepository interface {
	Create(ctx context.Context, app *JobApplication) error
	GetByID(ctx context.Context, id string) (*JobApplication, error)
	// UpdateStatus moves the application from `from` to `to` and records the change atomically.
	// Returns ErrInvalidTransition when the stored status is no longer `from`.
	UpdateStatus(ctx context.Context, change *ApplicationStatusChange) (*JobApplication, error)
	ListByApplicantID(ctx context.Context, applicantID string) ([]*JobApplication, error)
	ListByJobPostID(ctx context.Context, jobPostID string, status ApplicationStatus) ([]*JobApplication, error)
	ListHistory(ctx context.Context, applicationID string) ([]*ApplicationStatusChange, error)
}

// JobApplicationService defines the job-application workflow.
type JobApplicationService interface {
	Apply(ctx context.Context, jobPostID, applicantID, coverLetter, resumeURL string) (*JobApplication, error)
	ChangeStatus(ctx context.Context, applicationID, callerID string, to ApplicationStatus, note string) (*JobApplication, error)
	Withdraw(ctx context.Context, applicationID, callerID string) (*JobApplication, error)
	GetApplication(ctx context.Context, applicationID, callerID string) (*JobApplication, error)
	ListMyApplications(ctx context.Context, applicantID string) ([]*ApplicationWithJob, error)
	ListJobApplications(ctx context.Context, jobPostID, callerID string, status ApplicationStatus) ([]*JobApplication, error)
	History(ctx context.Context, applicationID, callerID string) ([]*ApplicationStatusChange, error)
}
