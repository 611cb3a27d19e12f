package domain

import (
	"context"
	"time"
)

// Skill levels.
const (
	SkillBeginner     = "beginner"
	SkillIntermediate = "intermediate"
	SkillAdvanced     = "advanced"
	SkillExpert       = "expert"
)

// ValidSkillLevel reports whether level is a known skill level.
func ValidSkillLevel(level string) bool {
	switch level {
	case SkillBeginner, SkillIntermediate, SkillAdvanced, SkillExpert:
		return true
	}
	return false
}

// Skill is an entry of the skills profile tab.
// swagger:model Skill
type Skill struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	Level     string    `json:"level"`
	CreatedAt time.Time `json:"created_at"`
}

// Experience is an entry of the experience profile tab.
// swagger:model Experience
type Experience struct {
	ID          string     `json:"id"`
	UserID      string     `json:"user_id"`
	Title       string     `json:"title"`
	Company     string     `json:"company"`
	Location    string     `json:"location"`
	StartDate   time.Time  `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
	Current     bool       `json:"current"`
	Description string     `json:"description"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// ExperienceUpdate holds the fields a PATCH sets; nil fields keep their stored value.
type ExperienceUpdate struct {
	Title       *string
	Company     *string
	Location    *string
	StartDate   *time.Time
	EndDate     *time.Time
	Current     *bool
	Description *string
}

// Apply copies the set fields onto exp. Marking a role current without a new
// end date clears the stored one.
func (u ExperienceUpdate) Apply(exp *Experience) {
	if u.Title != nil {
		exp.Title = *u.Title
	}
	if u.Company != nil {
		exp.Company = *u.Company
	}
	if u.Location != nil {
		exp.Location = *u.Location
	}
	if u.StartDate != nil {
		exp.StartDate = *u.StartDate
	}
	if u.EndDate != nil {
		end := *u.EndDate
		exp.EndDate = &end
	}
	if u.Current != nil {
		exp.Current = *u.Current
		if exp.Current && u.EndDate == nil {
			exp.EndDate = nil
		}
	}
	if u.Description != nil {
		exp.Description = *u.Description
	}
}

// Certification is an entry of the certifications profile tab.
// swagger:model Certification
type Certification struct {
	ID            string     `json:"id"`
	UserID        string     `json:"user_id"`
	Name          string     `json:"name"`
	Issuer        string     `json:"issuer"`
	IssuedOn      time.Time  `json:"issued_on"`
	ExpiresOn     *time.Time `json:"expires_on"`
	CredentialID  string     `json:"credential_id"`
	CredentialURL string     `json:"credential_url"`
	CreatedAt     time.Time  `json:"created_at"`
}

// Education is an entry of the education profile tab.
// swagger:model Education
type Education struct {
	ID           string     `json:"id"`
	UserID       string     `json:"user_id"`
	School       string     `json:"school"`
	Degree       string     `json:"degree"`
	FieldOfStudy string     `json:"field_of_study"`
	StartDate    time.Time  `json:"start_date"`
	EndDate      *time.Time `json:"end_date"`
	Grade        string     `json:"grade"`
	Description  string     `json:"description"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// EducationUpdate holds the fields a PATCH sets; nil fields keep their stored value.
type EducationUpdate struct {
	School       *string
	Degree       *string
	FieldOfStudy *string
	StartDate    *time.Time
	EndDate      *time.Time
	Grade        *string
	Description  *string
}

func (u EducationUpdate) Apply(edu *Education) {
	if u.School != nil {
		edu.School = *u.School
	}
	if u.Degree != nil {
		edu.Degree = *u.Degree
	}
	if u.FieldOfStudy != nil {
		edu.FieldOfStudy = *u.FieldOfStudy
	}
	if u.StartDate != nil {
		edu.StartDate = *u.StartDate
	}
	if u.EndDate != nil {
		end := *u.EndDate
		edu.EndDate = &end
	}
	if u.Grade != nil {
		edu.Grade = *u.Grade
	}
	if u.Description != nil {
		edu.Description = *u.Description
	}
}

// Profile is a user with every profile tab.
// swagger:model Profile
type Profile struct {
	User           *User            `json:"user"`
	Skills         []*Skill         `json:"skills"`
	Experience     []*Experience    `json:"experience"`
	Certifications []*Certification `json:"certifications"`
	Education      []*Education     `json:"education"`
}

// ProfileRepository defines storage for the profile tabs. Mutations are scoped by user ID
// and return ErrNotFound when the row does not belong to the user.
type ProfileRepository interface {
	ListSkills(ctx context.Context, userID string) ([]*Skill, error)
	AddSkill(ctx context.Context, skill *Skill) error
	DeleteSkill(ctx context.Context, userID, id string) error

	ListExperience(ctx context.Context, userID string) ([]*Experience, error)
	GetExperience(ctx context.Context, userID, id string) (*Experience, error)
	AddExperience(ctx context.Context, exp *Experience) error
	UpdateExperience(ctx context.Context, exp *Experience) error
	DeleteExperience(ctx context.Context, userID, id string) error

	ListCertifications(ctx context.Context, userID string) ([]*Certification, error)
	AddCertification(ctx context.Context, cert *Certification) error
	DeleteCertification(ctx context.Context, userID, id string) error

	ListEducation(ctx context.Context, userID string) ([]*Education, error)
	GetEducation(ctx context.Context, userID, id string) (*Education, error)
	AddEducation(ctx context.Context, edu *Education) error
	UpdateEducation(ctx context.Context, edu *Education) error
	DeleteEducation(ctx context.Context, userID, id string) error
}

// ProfileService defines the business logic for profile tabs.
type ProfileService interface {
	GetProfile(ctx context.Context, userID string) (*Profile, error)
	AddSkill(ctx context.Context, skill *Skill) error
	RemoveSkill(ctx context.Context, userID, id string) error
	AddExperience(ctx context.Context, exp *Experience) error
	// UpdateExperience merges upd onto the caller's stored entry and validates the result.
	UpdateExperience(ctx context.Context, userID, id string, upd ExperienceUpdate) (*Experience, error)
	DeleteExperience(ctx context.Context, userID, id string) error
	AddCertification(ctx context.Context, cert *Certification) error
	DeleteCertification(ctx context.Context, userID, id string) error
	AddEducation(ctx context.Context, edu *Education) error
	UpdateEducation(ctx context.Context, userID, id string, upd EducationUpdate) (*Education, error)
	DeleteEducation(ctx context.Context, userID, id string) error
}
