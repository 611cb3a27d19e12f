package controllers

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"karyadi/internal/delivery/http/helpers"
	"karyadi/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAgendaService struct {
	domain.AgendaService
	addErr   error
	added    *domain.AgendaItem
	update   domain.AgendaItemUpdate
	speaker  *domain.Speaker
	removed  []string
	listed   []*domain.AgendaItem
	viewerID string
}

func (f *fakeAgendaService) ListAgenda(_ context.Context, _, callerID string) ([]*domain.AgendaItem, error) {
	f.viewerID = callerID
	return f.listed, nil
}

func (f *fakeAgendaService) AddAgendaItem(_ context.Context, eventID, _ string, item *domain.AgendaItem) error {
	f.added = item
	if f.addErr != nil {
		return f.addErr
	}
	item.ID, item.EventID = itemID1, eventID
	return nil
}

func (f *fakeAgendaService) UpdateAgendaItem(_ context.Context, _, itemID, _ string, upd domain.AgendaItemUpdate) (*domain.AgendaItem, error) {
	f.update = upd
	return &domain.AgendaItem{ID: itemID}, nil
}

func (f *fakeAgendaService) AddSpeaker(_ context.Context, _, itemID, _ string, s *domain.Speaker) error {
	s.AgendaItemID = itemID
	f.speaker = s
	return nil
}

func (f *fakeAgendaService) RemoveSpeaker(_ context.Context, _, itemID, speakerID, _ string) error {
	f.removed = append(f.removed, itemID, speakerID)
	return nil
}

type fakeAssociationService struct {
	domain.EventOrganizationService
	attached  *domain.EventOrganization
	attachErr error
	tier      string
	detachErr error
}

func (f *fakeAssociationService) AttachOrganization(_ context.Context, _ string, a *domain.EventOrganization) error {
	f.attached = a
	return f.attachErr
}

func (f *fakeAssociationService) DetachOrganization(context.Context, string, string, string) error {
	return f.detachErr
}

func (f *fakeAssociationService) ListAssociations(_ context.Context, _, _, tier string) (map[string][]*domain.EventOrganization, error) {
	f.tier = tier
	if tier == "" {
		return domain.GroupByTier(nil), nil
	}
	if !domain.ValidTier(tier) {
		return nil, domain.Invalid("unknown tier " + tier)
	}
	return map[string][]*domain.EventOrganization{tier: {}}, nil
}

func TestAgendaController_AddAgendaItem(t *testing.T) {
	start := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	body := AgendaItemRequest{Title: "Keynote", Location: " Hall A ", StartsAt: start, EndsAt: start.Add(time.Hour)}

	t.Run("created", func(t *testing.T) {
		svc := &fakeAgendaService{}
		c := NewAgendaController(testLogger(), svc, &fakeAssociationService{})
		rr := httptest.NewRecorder()
		c.AddAgendaItem(rr, newRequest(t, http.MethodPost, "/events/x/agenda", body, userID1, "eventID", eventID1))

		require.Equal(t, http.StatusCreated, rr.Code)
		assert.Equal(t, "Hall A", svc.added.Location)
		env := decodeEnvelope[domain.AgendaItem](t, rr)
		assert.Equal(t, itemID1, env.Data.ID)
		assert.Equal(t, eventID1, env.Data.EventID)
	})

	t.Run("overlap is a conflict", func(t *testing.T) {
		svc := &fakeAgendaService{addErr: fmt.Errorf("overlaps %q: %w", "Opening", domain.ErrConflict)}
		c := NewAgendaController(testLogger(), svc, &fakeAssociationService{})
		rr := httptest.NewRecorder()
		c.AddAgendaItem(rr, newRequest(t, http.MethodPost, "/events/x/agenda", body, userID1, "eventID", eventID1))
		msg := requireErrorCode(t, rr, http.StatusConflict, helpers.ErrCodeConflict)
		assert.Contains(t, msg, "Opening")
	})

	t.Run("missing times", func(t *testing.T) {
		c := NewAgendaController(testLogger(), &fakeAgendaService{}, &fakeAssociationService{})
		rr := httptest.NewRecorder()
		c.AddAgendaItem(rr, newRequest(t, http.MethodPost, "/events/x/agenda", `{"title":"Keynote"}`, userID1, "eventID", eventID1))
		requireErrorCode(t, rr, http.StatusBadRequest, helpers.ErrCodeBadRequest)
	})
}

func TestAgendaController_ListAgenda_Anonymous(t *testing.T) {
	svc := &fakeAgendaService{listed: []*domain.AgendaItem{{ID: itemID1, Speakers: []*domain.Speaker{}}}}
	c := NewAgendaController(testLogger(), svc, &fakeAssociationService{})
	rr := httptest.NewRecorder()
	c.ListAgenda(rr, newRequest(t, http.MethodGet, "/events/x/agenda", nil, "", "eventID", eventID1))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Empty(t, svc.viewerID)
	assert.Len(t, decodeEnvelope[[]domain.AgendaItem](t, rr).Data, 1)
}

func TestAgendaController_UpdateAgendaItem(t *testing.T) {
	svc := &fakeAgendaService{}
	c := NewAgendaController(testLogger(), svc, &fakeAssociationService{})
	rr := httptest.NewRecorder()
	c.UpdateAgendaItem(rr, newRequest(t, http.MethodPatch, "/events/x/agenda/y", `{"location":" Room 2 ","position":3}`, userID1,
		"eventID", eventID1, "itemID", itemID1))

	require.Equal(t, http.StatusOK, rr.Code)
	require.NotNil(t, svc.update.Location)
	assert.Equal(t, "Room 2", *svc.update.Location)
	assert.Equal(t, 3, *svc.update.Position)
	assert.Nil(t, svc.update.Title)
}

func TestAgendaController_Speakers(t *testing.T) {
	svc := &fakeAgendaService{}
	c := NewAgendaController(testLogger(), svc, &fakeAssociationService{})

	rr := httptest.NewRecorder()
	c.AddSpeaker(rr, newRequest(t, http.MethodPost, "/s", SpeakerRequest{Name: "Rob", Title: " Engineer "}, userID1,
		"eventID", eventID1, "itemID", itemID1))
	require.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, "Engineer", svc.speaker.Title)
	assert.Equal(t, itemID1, svc.speaker.AgendaItemID)

	rr = httptest.NewRecorder()
	c.AddSpeaker(rr, newRequest(t, http.MethodPost, "/s", SpeakerRequest{Name: "Rob", UserID: strp("rob")}, userID1,
		"eventID", eventID1, "itemID", itemID1))
	requireErrorCode(t, rr, http.StatusBadRequest, helpers.ErrCodeBadRequest)

	rr = httptest.NewRecorder()
	c.RemoveSpeaker(rr, newRequest(t, http.MethodDelete, "/s", nil, userID1,
		"eventID", eventID1, "itemID", itemID1, "speakerID", userID2))
	require.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, []string{itemID1, userID2}, svc.removed)
}

func TestAgendaController_Associations(t *testing.T) {
	t.Run("attach sponsor", func(t *testing.T) {
		assocs := &fakeAssociationService{}
		c := NewAgendaController(testLogger(), &fakeAgendaService{}, assocs)
		rr := httptest.NewRecorder()
		body := AttachOrganizationRequest{OrganizationID: orgID1, Tier: "sponsor", SponsorLevel: "gold", Contribution: " Venue "}
		c.AttachOrganization(rr, newRequest(t, http.MethodPost, "/events/x/organizations", body, userID1, "eventID", eventID1))

		require.Equal(t, http.StatusCreated, rr.Code)
		assert.Equal(t, eventID1, assocs.attached.EventID)
		assert.Equal(t, "Venue", assocs.attached.Contribution)
	})

	t.Run("already attached", func(t *testing.T) {
		c := NewAgendaController(testLogger(), &fakeAgendaService{}, &fakeAssociationService{attachErr: domain.ErrConflict})
		rr := httptest.NewRecorder()
		body := AttachOrganizationRequest{OrganizationID: orgID1, Tier: "partner"}
		c.AttachOrganization(rr, newRequest(t, http.MethodPost, "/events/x/organizations", body, userID1, "eventID", eventID1))
		requireErrorCode(t, rr, http.StatusConflict, helpers.ErrCodeConflict)
	})

	t.Run("list grouped", func(t *testing.T) {
		c := NewAgendaController(testLogger(), &fakeAgendaService{}, &fakeAssociationService{})
		rr := httptest.NewRecorder()
		c.ListAssociations(rr, newRequest(t, http.MethodGet, "/events/x/organizations", nil, "", "eventID", eventID1))
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Len(t, decodeEnvelope[map[string][]domain.EventOrganization](t, rr).Data, 4)
	})

	t.Run("list single tier", func(t *testing.T) {
		assocs := &fakeAssociationService{}
		c := NewAgendaController(testLogger(), &fakeAgendaService{}, assocs)
		rr := httptest.NewRecorder()
		c.ListAssociations(rr, newRequest(t, http.MethodGet, "/events/x/organizations?tier=Sponsor", nil, "", "eventID", eventID1))
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, domain.TierSponsor, assocs.tier)
		assert.Contains(t, decodeEnvelope[map[string][]domain.EventOrganization](t, rr).Data, domain.TierSponsor)
	})

	t.Run("detach owner rejected", func(t *testing.T) {
		c := NewAgendaController(testLogger(), &fakeAgendaService{}, &fakeAssociationService{detachErr: domain.Invalid("the owning organization cannot be detached")})
		rr := httptest.NewRecorder()
		c.DetachOrganization(rr, newRequest(t, http.MethodDelete, "/x", nil, userID1, "eventID", eventID1, "orgID", orgID1))
		requireErrorCode(t, rr, http.StatusBadRequest, helpers.ErrCodeBadRequest)
	})
}
