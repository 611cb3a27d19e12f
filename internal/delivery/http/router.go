package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"karyadi/internal/delivery/http/controllers"
	h "karyadi/internal/delivery/http/helpers"
	"karyadi/internal/delivery/http/middleware"
	"karyadi/internal/domain"

	httpSwagger "github.com/swaggo/http-swagger"
)

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Controllers groups the handlers mounted by NewRouter.
type Controllers struct {
	Users         *controllers.UserController
	Profiles      *controllers.ProfileController
	Organizations *controllers.OrganizationController
	Events        *controllers.EventController
	Agenda        *controllers.AgendaController
	Attendance    *controllers.AttendanceController
	Jobs          *controllers.JobController
	Applications  *controllers.ApplicationController
	Surveys       *controllers.SurveyController
}

// NewRouter initializes the HTTP router with all application routes.
// authLimiter guards signup and login; it may be nil.
func NewRouter(c Controllers, verifier domain.TokenVerifier, authLimiter *middleware.RateLimiter, db Pinger, logger *slog.Logger) *http.ServeMux {
	mux := http.NewServeMux()
	auth := middleware.RequireAuth(verifier, logger)
	optional := middleware.OptionalAuth(verifier, logger)
	limited := func(next http.HandlerFunc) http.HandlerFunc {
		if authLimiter == nil {
			return next
		}
		return authLimiter.Wrap(next)
	}

	// Auth
	mux.HandleFunc("POST /auth/signup", limited(c.Users.SignUp))
	mux.HandleFunc("POST /auth/login", limited(c.Users.Login))

	// Users and profile tabs
	mux.HandleFunc("GET /users/me", auth(c.Users.GetMe))
	mux.HandleFunc("PATCH /users/me", auth(c.Users.UpdateMe))
	mux.HandleFunc("GET /users/{userID}/profile", c.Profiles.GetProfile)
	mux.HandleFunc("GET /users/me/profile", auth(c.Profiles.GetMyProfile))
	mux.HandleFunc("POST /users/me/skills", auth(c.Profiles.AddSkill))
	mux.HandleFunc("DELETE /users/me/skills/{skillID}", auth(c.Profiles.RemoveSkill))
	mux.HandleFunc("POST /users/me/experience", auth(c.Profiles.AddExperience))
	mux.HandleFunc("PATCH /users/me/experience/{experienceID}", auth(c.Profiles.UpdateExperience))
	mux.HandleFunc("DELETE /users/me/experience/{experienceID}", auth(c.Profiles.DeleteExperience))
	mux.HandleFunc("POST /users/me/certifications", auth(c.Profiles.AddCertification))
	mux.HandleFunc("DELETE /users/me/certifications/{certificationID}", auth(c.Profiles.DeleteCertification))
	mux.HandleFunc("POST /users/me/education", auth(c.Profiles.AddEducation))
	mux.HandleFunc("PATCH /users/me/education/{educationID}", auth(c.Profiles.UpdateEducation))
	mux.HandleFunc("DELETE /users/me/education/{educationID}", auth(c.Profiles.DeleteEducation))
	mux.HandleFunc("GET /users/me/registrations", auth(c.Attendance.ListMyRegistrations))
	mux.HandleFunc("GET /users/me/applications", auth(c.Applications.ListMyApplications))

	// Organizations
	mux.HandleFunc("POST /organizations", auth(c.Organizations.CreateOrganization))
	mux.HandleFunc("GET /organizations", c.Organizations.ListOrganizations)
	mux.HandleFunc("GET /organizations/me", auth(c.Organizations.ListMyOrganizations))
	mux.HandleFunc("GET /organizations/{orgID}", c.Organizations.GetOrganization)
	mux.HandleFunc("PATCH /organizations/{orgID}", auth(c.Organizations.UpdateOrganization))
	mux.HandleFunc("GET /organizations/{orgID}/members", auth(c.Organizations.ListMembers))
	mux.HandleFunc("POST /organizations/{orgID}/members", auth(c.Organizations.AddMember))
	mux.HandleFunc("DELETE /organizations/{orgID}/members/{userID}", auth(c.Organizations.RemoveMember))
	mux.HandleFunc("GET /organizations/{orgID}/events", optional(c.Events.ListOrganizationEvents))
	mux.HandleFunc("GET /organizations/{orgID}/jobs", c.Jobs.ListOrganizationJobs)

	// Events
	mux.HandleFunc("POST /events", auth(c.Events.CreateEvent))
	mux.HandleFunc("GET /events", c.Events.ListEvents)
	mux.HandleFunc("GET /events/{eventID}", optional(c.Events.GetEvent))
	mux.HandleFunc("PATCH /events/{eventID}", auth(c.Events.UpdateEvent))
	mux.HandleFunc("DELETE /events/{eventID}", auth(c.Events.DeleteEvent))
	mux.HandleFunc("POST /events/{eventID}/wizard", auth(c.Events.AdvanceWizard))
	mux.HandleFunc("POST /events/{eventID}/publish", auth(c.Events.PublishEvent))
	mux.HandleFunc("POST /events/{eventID}/cancel", auth(c.Events.CancelEvent))
	mux.HandleFunc("POST /events/{eventID}/complete", auth(c.Events.CompleteEvent))

	// Agenda and associations
	mux.HandleFunc("GET /events/{eventID}/agenda", optional(c.Agenda.ListAgenda))
	mux.HandleFunc("POST /events/{eventID}/agenda", auth(c.Agenda.AddAgendaItem))
	mux.HandleFunc("PATCH /events/{eventID}/agenda/{itemID}", auth(c.Agenda.UpdateAgendaItem))
	mux.HandleFunc("DELETE /events/{eventID}/agenda/{itemID}", auth(c.Agenda.DeleteAgendaItem))
	mux.HandleFunc("POST /events/{eventID}/agenda/{itemID}/speakers", auth(c.Agenda.AddSpeaker))
	mux.HandleFunc("DELETE /events/{eventID}/agenda/{itemID}/speakers/{speakerID}", auth(c.Agenda.RemoveSpeaker))
	mux.HandleFunc("GET /events/{eventID}/organizations", optional(c.Agenda.ListAssociations))
	mux.HandleFunc("POST /events/{eventID}/organizations", auth(c.Agenda.AttachOrganization))
	mux.HandleFunc("DELETE /events/{eventID}/organizations/{orgID}", auth(c.Agenda.DetachOrganization))

	// Attendance
	mux.HandleFunc("POST /events/{eventID}/registrations", auth(c.Attendance.RegisterForEvent))
	mux.HandleFunc("DELETE /events/{eventID}/registrations", auth(c.Attendance.CancelRegistration))
	mux.HandleFunc("GET /events/{eventID}/attendees", auth(c.Attendance.ListEventAttendees))
	mux.HandleFunc("POST /events/{eventID}/attendees/{userID}/attended", auth(c.Attendance.MarkAttended))

	// Job board
	mux.HandleFunc("POST /jobs", auth(c.Jobs.CreateJobPost))
	mux.HandleFunc("GET /jobs", c.Jobs.ListJobPosts)
	mux.HandleFunc("GET /jobs/{jobID}", c.Jobs.GetJobPost)
	mux.HandleFunc("PATCH /jobs/{jobID}", auth(c.Jobs.UpdateJobPost))
	mux.HandleFunc("POST /jobs/{jobID}/close", auth(c.Jobs.CloseJobPost))
	mux.HandleFunc("POST /jobs/{jobID}/reopen", auth(c.Jobs.ReopenJobPost))
	mux.HandleFunc("POST /jobs/{jobID}/applications", auth(c.Applications.Apply))
	mux.HandleFunc("GET /jobs/{jobID}/applications", auth(c.Applications.ListJobApplications))
	mux.HandleFunc("GET /applications/{applicationID}", auth(c.Applications.GetApplication))
	mux.HandleFunc("POST /applications/{applicationID}/status", auth(c.Applications.ChangeStatus))
	mux.HandleFunc("POST /applications/{applicationID}/withdraw", auth(c.Applications.Withdraw))
	mux.HandleFunc("GET /applications/{applicationID}/history", auth(c.Applications.History))

	// Surveys
	mux.HandleFunc("POST /surveys", auth(c.Surveys.CreateSurvey))
	mux.HandleFunc("GET /surveys", c.Surveys.ListSurveys)
	mux.HandleFunc("GET /surveys/{surveyID}", c.Surveys.GetSurvey)
	mux.HandleFunc("POST /surveys/{surveyID}/close", auth(c.Surveys.CloseSurvey))
	mux.HandleFunc("POST /surveys/{surveyID}/responses", auth(c.Surveys.SubmitResponse))
	mux.HandleFunc("GET /surveys/{surveyID}/results", auth(c.Surveys.Results))

	mux.HandleFunc("GET /healthz", healthz(db, logger))

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}

// Handler wraps the router with CORS, metrics and request logging, outermost first.
func Handler(mux http.Handler, allowedOrigins []string, metrics *middleware.Metrics, logger *slog.Logger) http.Handler {
	return middleware.CORS(allowedOrigins, metrics.Wrap(middleware.LoggingMiddleware(logger, mux)))
}

func healthz(db Pinger, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			logger.ErrorContext(r.Context(), "health check failed", "err", err)
			h.WriteJSONError(w, http.StatusServiceUnavailable, h.ErrCodeInternalError, "database unavailable")
			return
		}
		h.WriteJSONSuccess(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
