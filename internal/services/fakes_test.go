package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"karyadi/internal/domain"
)

// memStore backs every fake repository so cross-table behavior (owner membership,
// organizer association, attendance counts) matches the postgres repositories.
type memStore struct {
	mu  sync.Mutex
	seq int

	users       map[string]*domain.User
	userRoles   map[string][]string
	roles       map[string]*domain.Role
	orgs        map[string]*domain.Organization
	members     map[string]map[string]*domain.OrganizationMember
	events      map[string]*domain.Event
	items       map[string]*domain.AgendaItem
	speakers    map[string]*domain.Speaker
	assocs      map[string]map[string]*domain.EventOrganization
	attendances map[string]*domain.Attendance
	jobs        map[string]*domain.JobPost
	apps        map[string]*domain.JobApplication
	history     []*domain.ApplicationStatusChange
	skills      map[string]*domain.Skill
	experiences map[string]*domain.Experience
	certs       map[string]*domain.Certification
	educations  map[string]*domain.Education
	surveys     map[string]*domain.Survey
	responses   []*domain.SurveyResponse

	failWith error
}

func newMemStore() *memStore {
	return &memStore{
		users:       map[string]*domain.User{},
		userRoles:   map[string][]string{},
		roles:       map[string]*domain.Role{domain.RoleMember: domain.NewRole("role-member", domain.RoleMember), domain.RoleAdmin: domain.NewRole("role-admin", domain.RoleAdmin)},
		orgs:        map[string]*domain.Organization{},
		members:     map[string]map[string]*domain.OrganizationMember{},
		events:      map[string]*domain.Event{},
		items:       map[string]*domain.AgendaItem{},
		speakers:    map[string]*domain.Speaker{},
		assocs:      map[string]map[string]*domain.EventOrganization{},
		attendances: map[string]*domain.Attendance{},
		jobs:        map[string]*domain.JobPost{},
		apps:        map[string]*domain.JobApplication{},
		skills:      map[string]*domain.Skill{},
		experiences: map[string]*domain.Experience{},
		certs:       map[string]*domain.Certification{},
		educations:  map[string]*domain.Education{},
		surveys:     map[string]*domain.Survey{},
	}
}

func (m *memStore) nextID(prefix string) string {
	m.seq++
	return fmt.Sprintf("%s-%d", prefix, m.seq)
}

// seedUser stores a user and returns it.
func (m *memStore) seedUser(email, name string) *domain.User {
	u := &domain.User{ID: m.nextID("user"), Email: email, Name: name}
	m.users[u.ID] = u
	return u
}

// seedOrg stores an organization owned by ownerID.
func (m *memStore) seedOrg(name, ownerID string) *domain.Organization {
	o := &domain.Organization{ID: m.nextID("org"), Name: name, Slug: Slugify(name), CreatedBy: ownerID}
	m.orgs[o.ID] = o
	m.members[o.ID] = map[string]*domain.OrganizationMember{
		ownerID: {OrganizationID: o.ID, UserID: ownerID, Role: domain.OrgRoleOwner},
	}
	return o
}

func (m *memStore) addMember(orgID, userID, role string) {
	m.members[orgID][userID] = &domain.OrganizationMember{OrganizationID: orgID, UserID: userID, Role: role}
}

// seedEvent stores an event of orgID with its organizer association.
func (m *memStore) seedEvent(orgID, status string, startsAt time.Time) *domain.Event {
	e := &domain.Event{
		ID:             m.nextID("event"),
		OrganizationID: orgID,
		Title:          "Launch",
		StartsAt:       startsAt,
		EndsAt:         startsAt.Add(8 * time.Hour),
		Status:         status,
		WizardStep:     domain.WizardStepAgenda,
	}
	m.events[e.ID] = e
	m.assocs[e.ID] = map[string]*domain.EventOrganization{
		orgID: {EventID: e.ID, OrganizationID: orgID, Tier: domain.TierOrganizer},
	}
	return e
}

func (m *memStore) seedJob(orgID string, deadline *time.Time) *domain.JobPost {
	j := &domain.JobPost{
		ID:             m.nextID("job"),
		OrganizationID: orgID,
		Title:          "Backend Engineer",
		Description:    "Build APIs",
		EmploymentType: domain.EmploymentFullTime,
		WorkMode:       domain.WorkModeRemote,
		Status:         domain.JobStatusOpen,
		Deadline:       deadline,
	}
	m.jobs[j.ID] = j
	return j
}

type fakeUserRepo struct{ *memStore }

func (f fakeUserRepo) Create(ctx context.Context, u *domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, e := range f.users {
		if e.Email == u.Email {
			return domain.ErrDuplicateEmail
		}
	}
	u.ID = f.nextID("user")
	cp := *u
	f.users[u.ID] = &cp
	return nil
}

func (f fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return nil, f.failWith
	}
	for _, u := range f.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (f fakeUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return nil, f.failWith
	}
	u, ok := f.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (f fakeUserRepo) Update(ctx context.Context, u *domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[u.ID]; !ok {
		return domain.ErrUserNotFound
	}
	for _, e := range f.users {
		if e.Email == u.Email && e.ID != u.ID {
			return domain.ErrDuplicateEmail
		}
	}
	cp := *u
	f.users[u.ID] = &cp
	return nil
}

func (f fakeUserRepo) AssignRole(ctx context.Context, userID, roleID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.userRoles[userID] = append(f.userRoles[userID], roleID)
	return nil
}

type fakeRoleRepo struct{ *memStore }

func (f fakeRoleRepo) GetByCode(ctx context.Context, code string) (*domain.Role, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.roles[code]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return r, nil
}

func (f fakeRoleRepo) ListByUserID(ctx context.Context, userID string) ([]*domain.Role, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*domain.Role
	for _, id := range f.userRoles[userID] {
		for _, r := range f.roles {
			if r.ID == id {
				out = append(out, r)
			}
		}
	}
	return out, nil
}

type fakeOrgRepo struct{ *memStore }

func (f fakeOrgRepo) Create(ctx context.Context, org *domain.Organization) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, o := range f.orgs {
		if o.Slug == org.Slug {
			return domain.ErrConflict
		}
	}
	org.ID = f.nextID("org")
	cp := *org
	f.orgs[org.ID] = &cp
	f.members[org.ID] = map[string]*domain.OrganizationMember{
		org.CreatedBy: {OrganizationID: org.ID, UserID: org.CreatedBy, Role: domain.OrgRoleOwner},
	}
	return nil
}

func (f fakeOrgRepo) GetByID(ctx context.Context, id string) (*domain.Organization, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.orgs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *o
	return &cp, nil
}

func (f fakeOrgRepo) Update(ctx context.Context, org *domain.Organization) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *org
	f.orgs[org.ID] = &cp
	return nil
}

func (f fakeOrgRepo) List(ctx context.Context, filter domain.OrganizationFilter, params domain.PaginationParams) ([]*domain.Organization, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*domain.Organization
	for _, o := range f.orgs {
		if filter.Search == "" || strings.Contains(strings.ToLower(o.Name), strings.ToLower(filter.Search)) {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, len(out), nil
}

func (f fakeOrgRepo) ListByUserID(ctx context.Context, userID string) ([]*domain.Organization, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*domain.Organization
	for orgID, ms := range f.members {
		if _, ok := ms[userID]; ok {
			out = append(out, f.orgs[orgID])
		}
	}
	return out, nil
}

func (f fakeOrgRepo) AddMember(ctx context.Context, orgID, userID, role string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.members[orgID][userID]; ok {
		return domain.ErrAlreadyMember
	}
	f.addMember(orgID, userID, role)
	return nil
}

func (f fakeOrgRepo) GetMember(ctx context.Context, orgID, userID string) (*domain.OrganizationMember, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return nil, f.failWith
	}
	m, ok := f.members[orgID][userID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *m
	return &cp, nil
}

func (f fakeOrgRepo) ListMembers(ctx context.Context, orgID string) ([]*domain.OrganizationMember, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*domain.OrganizationMember
	for _, m := range f.members[orgID] {
		out = append(out, m)
	}
	return out, nil
}

func (f fakeOrgRepo) RemoveMember(ctx context.Context, orgID, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.members[orgID][userID]; !ok {
		return domain.ErrNotFound
	}
	delete(f.members[orgID], userID)
	return nil
}

type fakeEventRepo struct{ *memStore }

func (f fakeEventRepo) Create(ctx context.Context, e *domain.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	e.ID = f.nextID("event")
	cp := *e
	f.events[e.ID] = &cp
	f.assocs[e.ID] = map[string]*domain.EventOrganization{
		e.OrganizationID: {EventID: e.ID, OrganizationID: e.OrganizationID, Tier: domain.TierOrganizer},
	}
	return nil
}

func (f fakeEventRepo) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.events[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *e
	return &cp, nil
}

func (f fakeEventRepo) Update(ctx context.Context, e *domain.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.events[e.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *e
	f.events[e.ID] = &cp
	return nil
}

func (f fakeEventRepo) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.events[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.events, id)
	delete(f.assocs, id)
	return nil
}

func (f fakeEventRepo) List(ctx context.Context, filter domain.EventFilter, params domain.PaginationParams) ([]*domain.Event, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*domain.Event
	for _, e := range f.events {
		switch {
		case filter.Status != "" && e.Status != filter.Status:
		case filter.Status == "" && !filter.IncludeDrafts && e.Status == domain.EventStatusDraft:
		case filter.OrganizationID != "" && e.OrganizationID != filter.OrganizationID:
		case filter.Category != "" && e.Category != filter.Category:
		default:
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartsAt.Before(out[j].StartsAt) })
	return out, len(out), nil
}

type fakeAgendaRepo struct{ *memStore }

func (f fakeAgendaRepo) CreateItem(ctx context.Context, item *domain.AgendaItem) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	item.ID = f.nextID("item")
	cp := *item
	f.items[item.ID] = &cp
	return nil
}

func (f fakeAgendaRepo) GetItem(ctx context.Context, id string) (*domain.AgendaItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	it, ok := f.items[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *it
	return &cp, nil
}

func (f fakeAgendaRepo) UpdateItem(ctx context.Context, item *domain.AgendaItem) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *item
	f.items[item.ID] = &cp
	return nil
}

func (f fakeAgendaRepo) DeleteItem(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.items[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.items, id)
	return nil
}

func (f fakeAgendaRepo) ListByEventID(ctx context.Context, eventID string) ([]*domain.AgendaItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*domain.AgendaItem
	for _, it := range f.items {
		if it.EventID == eventID {
			cp := *it
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartsAt.Before(out[j].StartsAt) })
	return out, nil
}

func (f fakeAgendaRepo) CreateSpeaker(ctx context.Context, sp *domain.Speaker) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	sp.ID = f.nextID("speaker")
	cp := *sp
	f.speakers[sp.ID] = &cp
	return nil
}

func (f fakeAgendaRepo) DeleteSpeaker(ctx context.Context, itemID, speakerID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	sp, ok := f.speakers[speakerID]
	if !ok || sp.AgendaItemID != itemID {
		return domain.ErrNotFound
	}
	delete(f.speakers, speakerID)
	return nil
}

func (f fakeAgendaRepo) ListSpeakersByEventID(ctx context.Context, eventID string) ([]*domain.Speaker, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*domain.Speaker
	for _, sp := range f.speakers {
		if it, ok := f.items[sp.AgendaItemID]; ok && it.EventID == eventID {
			out = append(out, sp)
		}
	}
	return out, nil
}

type fakeAssocRepo struct{ *memStore }

func (f fakeAssocRepo) Attach(ctx context.Context, a *domain.EventOrganization) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.assocs[a.EventID][a.OrganizationID]; ok {
		return domain.ErrConflict
	}
	if f.assocs[a.EventID] == nil {
		f.assocs[a.EventID] = map[string]*domain.EventOrganization{}
	}
	cp := *a
	f.assocs[a.EventID][a.OrganizationID] = &cp
	return nil
}

func (f fakeAssocRepo) Detach(ctx context.Context, eventID, orgID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.assocs[eventID][orgID]; !ok {
		return domain.ErrNotFound
	}
	delete(f.assocs[eventID], orgID)
	return nil
}

func (f fakeAssocRepo) ListByEventID(ctx context.Context, eventID string) ([]*domain.EventOrganization, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*domain.EventOrganization
	for _, a := range f.assocs[eventID] {
		out = append(out, a)
	}
	return out, nil
}

func (f fakeAssocRepo) CountByTier(ctx context.Context, eventID, tier string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, a := range f.assocs[eventID] {
		if a.Tier == tier {
			n++
		}
	}
	return n, nil
}

type fakeAttendanceRepo struct{ *memStore }

func (f fakeAttendanceRepo) Register(ctx context.Context, a *domain.Attendance) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ev, ok := f.events[a.EventID]
	if !ok {
		return false, domain.ErrNotFound
	}
	var existing *domain.Attendance
	taken := 0
	for _, e := range f.attendances {
		if e.EventID != a.EventID {
			continue
		}
		if e.UserID == a.UserID {
			existing = e
		}
		if e.Status != domain.AttendanceCancelled {
			taken++
		}
	}
	if existing != nil && existing.Status != domain.AttendanceCancelled {
		*a = *existing
		return false, nil
	}
	if ev.Capacity > 0 && taken >= ev.Capacity {
		return false, domain.ErrEventFull
	}
	if existing != nil {
		existing.Status = domain.AttendanceRegistered
		existing.UpdatedAt = a.UpdatedAt
		*a = *existing
		return true, nil
	}
	a.ID = f.nextID("attendance")
	cp := *a
	f.attendances[a.ID] = &cp
	return true, nil
}

func (f fakeAttendanceRepo) GetByEventAndUser(ctx context.Context, eventID, userID string) (*domain.Attendance, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.attendances {
		if a.EventID == eventID && a.UserID == userID {
			cp := *a
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f fakeAttendanceRepo) UpdateStatus(ctx context.Context, id, from, to string) (*domain.Attendance, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.attendances[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if a.Status != from {
		return nil, domain.ErrInvalidTransition
	}
	a.Status = to
	cp := *a
	return &cp, nil
}

func (f fakeAttendanceRepo) ListByUserID(ctx context.Context, userID string) ([]*domain.Attendance, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*domain.Attendance
	for _, a := range f.attendances {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f fakeAttendanceRepo) ListByEventID(ctx context.Context, eventID string, params domain.PaginationParams) ([]*domain.Attendee, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*domain.Attendee
	for _, a := range f.attendances {
		if a.EventID == eventID {
			at := &domain.Attendee{Attendance: *a}
			if u, ok := f.users[a.UserID]; ok {
				at.Name, at.Email = u.Name, u.Email
			}
			out = append(out, at)
		}
	}
	return out, len(out), nil
}

type fakeJobRepo struct{ *memStore }

func (f fakeJobRepo) Create(ctx context.Context, j *domain.JobPost) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	j.ID = f.nextID("job")
	cp := *j
	f.jobs[j.ID] = &cp
	return nil
}

func (f fakeJobRepo) GetByID(ctx context.Context, id string) (*domain.JobPost, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	j, ok := f.jobs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *j
	return &cp, nil
}

func (f fakeJobRepo) Update(ctx context.Context, j *domain.JobPost) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *j
	f.jobs[j.ID] = &cp
	return nil
}

func (f fakeJobRepo) List(ctx context.Context, filter domain.JobFilter, params domain.PaginationParams) ([]*domain.JobPost, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*domain.JobPost
	for _, j := range f.jobs {
		if filter.Status != "" && j.Status != filter.Status {
			continue
		}
		if filter.OrganizationID != "" && j.OrganizationID != filter.OrganizationID {
			continue
		}
		out = append(out, j)
	}
	return out, len(out), nil
}

type fakeApplicationRepo struct{ *memStore }

func (f fakeApplicationRepo) Create(ctx context.Context, a *domain.JobApplication) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, e := range f.apps {
		if e.JobPostID == a.JobPostID && e.ApplicantID == a.ApplicantID {
			return domain.ErrAlreadyApplied
		}
	}
	a.ID = f.nextID("app")
	cp := *a
	f.apps[a.ID] = &cp
	return nil
}

func (f fakeApplicationRepo) GetByID(ctx context.Context, id string) (*domain.JobApplication, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.apps[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (f fakeApplicationRepo) UpdateStatus(ctx context.Context, change *domain.ApplicationStatusChange) (*domain.JobApplication, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.apps[change.ApplicationID]
	if !ok || a.Status != change.From {
		return nil, domain.ErrInvalidTransition
	}
	a.Status = change.To
	if change.Note != "" {
		a.Note = change.Note
	}
	change.ID = f.nextID("change")
	f.history = append(f.history, change)
	cp := *a
	return &cp, nil
}

func (f fakeApplicationRepo) ListByApplicantID(ctx context.Context, applicantID string) ([]*domain.JobApplication, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*domain.JobApplication
	for _, a := range f.apps {
		if a.ApplicantID == applicantID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f fakeApplicationRepo) ListByJobPostID(ctx context.Context, jobPostID string, status domain.ApplicationStatus) ([]*domain.JobApplication, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*domain.JobApplication
	for _, a := range f.apps {
		if a.JobPostID == jobPostID && (status == "" || a.Status == status) {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f fakeApplicationRepo) ListHistory(ctx context.Context, applicationID string) ([]*domain.ApplicationStatusChange, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*domain.ApplicationStatusChange
	for _, c := range f.history {
		if c.ApplicationID == applicationID {
			out = append(out, c)
		}
	}
	return out, nil
}

type fakeProfileRepo struct{ *memStore }

func (f fakeProfileRepo) ListSkills(ctx context.Context, userID string) ([]*domain.Skill, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*domain.Skill
	for _, s := range f.skills {
		if s.UserID == userID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f fakeProfileRepo) AddSkill(ctx context.Context, s *domain.Skill) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s.ID = f.nextID("skill")
	cp := *s
	f.skills[s.ID] = &cp
	return nil
}

func (f fakeProfileRepo) DeleteSkill(ctx context.Context, userID, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if s, ok := f.skills[id]; !ok || s.UserID != userID {
		return domain.ErrNotFound
	}
	delete(f.skills, id)
	return nil
}

func (f fakeProfileRepo) ListExperience(ctx context.Context, userID string) ([]*domain.Experience, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*domain.Experience
	for _, e := range f.experiences {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f fakeProfileRepo) GetExperience(ctx context.Context, userID, id string) (*domain.Experience, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.experiences[id]
	if !ok || e.UserID != userID {
		return nil, domain.ErrNotFound
	}
	cp := *e
	return &cp, nil
}

func (f fakeProfileRepo) AddExperience(ctx context.Context, e *domain.Experience) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	e.ID = f.nextID("exp")
	cp := *e
	f.experiences[e.ID] = &cp
	return nil
}

func (f fakeProfileRepo) UpdateExperience(ctx context.Context, e *domain.Experience) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if cur, ok := f.experiences[e.ID]; !ok || cur.UserID != e.UserID {
		return domain.ErrNotFound
	}
	cp := *e
	f.experiences[e.ID] = &cp
	return nil
}

func (f fakeProfileRepo) DeleteExperience(ctx context.Context, userID, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if e, ok := f.experiences[id]; !ok || e.UserID != userID {
		return domain.ErrNotFound
	}
	delete(f.experiences, id)
	return nil
}

func (f fakeProfileRepo) ListCertifications(ctx context.Context, userID string) ([]*domain.Certification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*domain.Certification
	for _, c := range f.certs {
		if c.UserID == userID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f fakeProfileRepo) AddCertification(ctx context.Context, c *domain.Certification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c.ID = f.nextID("cert")
	cp := *c
	f.certs[c.ID] = &cp
	return nil
}

func (f fakeProfileRepo) DeleteCertification(ctx context.Context, userID, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if c, ok := f.certs[id]; !ok || c.UserID != userID {
		return domain.ErrNotFound
	}
	delete(f.certs, id)
	return nil
}

func (f fakeProfileRepo) ListEducation(ctx context.Context, userID string) ([]*domain.Education, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*domain.Education
	for _, e := range f.educations {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f fakeProfileRepo) GetEducation(ctx context.Context, userID, id string) (*domain.Education, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.educations[id]
	if !ok || e.UserID != userID {
		return nil, domain.ErrNotFound
	}
	cp := *e
	return &cp, nil
}

func (f fakeProfileRepo) AddEducation(ctx context.Context, e *domain.Education) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	e.ID = f.nextID("edu")
	cp := *e
	f.educations[e.ID] = &cp
	return nil
}

func (f fakeProfileRepo) UpdateEducation(ctx context.Context, e *domain.Education) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if cur, ok := f.educations[e.ID]; !ok || cur.UserID != e.UserID {
		return domain.ErrNotFound
	}
	cp := *e
	f.educations[e.ID] = &cp
	return nil
}

func (f fakeProfileRepo) DeleteEducation(ctx context.Context, userID, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if e, ok := f.educations[id]; !ok || e.UserID != userID {
		return domain.ErrNotFound
	}
	delete(f.educations, id)
	return nil
}

type fakeSurveyRepo struct{ *memStore }

func (f fakeSurveyRepo) Create(ctx context.Context, s *domain.Survey) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s.ID = f.nextID("survey")
	for _, q := range s.Questions {
		q.ID = f.nextID("question")
		q.SurveyID = s.ID
	}
	cp := *s
	f.surveys[s.ID] = &cp
	return nil
}

func (f fakeSurveyRepo) GetByID(ctx context.Context, id string) (*domain.Survey, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.surveys[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (f fakeSurveyRepo) List(ctx context.Context, eventID string) ([]*domain.Survey, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*domain.Survey
	for _, s := range f.surveys {
		if eventID == "" || (s.EventID != nil && *s.EventID == eventID) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f fakeSurveyRepo) SetStatus(ctx context.Context, id, status string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.surveys[id]
	if !ok {
		return domain.ErrNotFound
	}
	s.Status = status
	return nil
}

func (f fakeSurveyRepo) CreateResponse(ctx context.Context, r *domain.SurveyResponse) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, e := range f.responses {
		if e.SurveyID == r.SurveyID && e.UserID == r.UserID {
			return domain.ErrAlreadyResponded
		}
	}
	r.ID = f.nextID("response")
	f.responses = append(f.responses, r)
	return nil
}

func (f fakeSurveyRepo) ListResponses(ctx context.Context, surveyID string) ([]*domain.SurveyResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*domain.SurveyResponse
	for _, r := range f.responses {
		if r.SurveyID == surveyID {
			out = append(out, r)
		}
	}
	return out, nil
}

// fakeEmailService records the emails it was asked to send.
type fakeEmailService struct {
	mu            sync.Mutex
	welcome       []*domain.WelcomeMessageEmailData
	statuses      []*domain.ApplicationStatusEmailData
	registrations []*domain.EventRegistrationEmailData
	err           error
}

func (f *fakeEmailService) SendWelcomeMessage(ctx context.Context, d *domain.WelcomeMessageEmailData) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.welcome = append(f.welcome, d)
	return f.err
}

func (f *fakeEmailService) SendApplicationStatus(ctx context.Context, d *domain.ApplicationStatusEmailData) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statuses = append(f.statuses, d)
	return f.err
}

func (f *fakeEmailService) SendEventRegistration(ctx context.Context, d *domain.EventRegistrationEmailData) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.registrations = append(f.registrations, d)
	return f.err
}

// recordingAudit keeps published audit actions.
type recordingAudit struct {
	mu      sync.Mutex
	actions []string
}

func (r *recordingAudit) Publish(actorID, action, subject, templ string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.actions = append(r.actions, action)
}

type fakePasswordHasher struct{}

func (fakePasswordHasher) GenerateSalt() (string, error) { return "salt", nil }

func (fakePasswordHasher) Hash(salt, password string) (string, error) {
	return "hash-" + salt + "-" + password, nil
}

func (fakePasswordHasher) Compare(hash, salt, password string) error {
	if hash != "hash-"+salt+"-"+password {
		return errors.New("mismatch")
	}
	return nil
}

type fakeTokenIssuer struct{}

func (fakeTokenIssuer) Issue(userID, email string, roles []string, expiry time.Duration) (string, error) {
	return "token-" + userID + "-" + strings.Join(roles, ","), nil
}

// fixedNow is the clock every service test runs at.
var fixedNow = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }
