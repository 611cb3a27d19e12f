package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"karyadi/config"
	_ "karyadi/docs"
	"karyadi/internal/adapters/audit"
	"karyadi/internal/adapters/auth"
	"karyadi/internal/adapters/dateparse"
	"karyadi/internal/adapters/email"
	deliveryhttp "karyadi/internal/delivery/http"
	"karyadi/internal/delivery/http/controllers"
	"karyadi/internal/delivery/http/middleware"
	"karyadi/internal/repository/postgres"
	"karyadi/internal/services"

	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/crypto/bcrypt"
)

//go:generate swag init -g cmd/server/main.go -o ../../docs -d ../../

// @title KARYADI API
// @version 1.0
// @description Events, agendas, job board, profiles and surveys for organizations and their communities.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the JWT.
func main() {
	logger := config.NewLogger()
	if err := run(logger); err != nil {
		logger.Error("server stopped", "err", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := sql.Open("postgres", cfg.DBUrl)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := db.PingContext(ctx); err != nil {
		return err
	}
	if err := postgres.Migrate(ctx, db); err != nil {
		return err
	}

	sink, err := audit.NewSink(ctx, cfg.AuditDBUrl, cfg.AuditBufferLength, logger)
	if err != nil {
		return err
	}
	if !sink.Enabled() {
		logger.Info("audit sink disabled")
	}

	mailer, err := email.NewMailer(email.MailerConfig{
		Provider:    cfg.EmailProvider,
		FromAddress: cfg.EmailFromAddress,
		FromName:    cfg.EmailFromName,
		SES: email.SESConfig{
			Region:             cfg.AWSRegion,
			AccessKeyID:        cfg.AWSAccessKeyID,
			SecretAccessKey:    cfg.AWSSecretAccessKey,
			InsecureSkipVerify: cfg.SESInsecureSkipTLS,
		},
	}, logger)
	if err != nil {
		return err
	}
	emailService := services.NewEmailService(mailer, email.NewTemplateRenderer(), logger)

	// Repositories
	userRepo := postgres.NewUserRepository(db)
	roleRepo := postgres.NewRoleRepository(db)
	profileRepo := postgres.NewProfileRepository(db)
	orgRepo := postgres.NewOrganizationRepository(db)
	eventRepo := postgres.NewEventRepository(db)
	agendaRepo := postgres.NewAgendaRepository(db)
	assocRepo := postgres.NewEventOrganizationRepository(db)
	attendanceRepo := postgres.NewAttendanceRepository(db)
	jobRepo := postgres.NewJobPostRepository(db)
	appRepo := postgres.NewJobApplicationRepository(db)
	surveyRepo := postgres.NewSurveyRepository(db)

	// Services
	timeout := cfg.RequestTimeout
	jwt := auth.NewJWT(cfg.JWTSecret)
	userService := services.NewUserService(userRepo, roleRepo, auth.NewBcryptHasher(bcrypt.DefaultCost), jwt, cfg.JWTExpiry, emailService, logger)
	profileService := services.NewProfileService(userRepo, profileRepo, timeout)
	orgService := services.NewOrganizationService(orgRepo, userRepo, sink, timeout)
	eventService := services.NewEventService(eventRepo, agendaRepo, assocRepo, orgRepo, sink, timeout)
	agendaService := services.NewAgendaService(eventRepo, agendaRepo, orgRepo, timeout)
	assocService := services.NewEventOrganizationService(eventRepo, assocRepo, orgRepo, timeout)
	attendanceService := services.NewAttendanceService(eventRepo, attendanceRepo, orgRepo, userRepo, emailService, logger, timeout)
	jobService := services.NewJobService(jobRepo, orgRepo, timeout)
	appService := services.NewJobApplicationService(appRepo, jobRepo, orgRepo, userRepo, emailService, sink, logger, timeout)
	surveyService := services.NewSurveyService(surveyRepo, eventRepo, orgRepo, timeout)

	mux := deliveryhttp.NewRouter(deliveryhttp.Controllers{
		Users:         controllers.NewUserController(logger, userService),
		Profiles:      controllers.NewProfileController(logger, profileService),
		Organizations: controllers.NewOrganizationController(logger, orgService),
		Events:        controllers.NewEventController(logger, eventService, dateparse.New()),
		Agenda:        controllers.NewAgendaController(logger, agendaService, assocService),
		Attendance:    controllers.NewAttendanceController(logger, attendanceService),
		Jobs:          controllers.NewJobController(logger, jobService),
		Applications:  controllers.NewApplicationController(logger, appService),
		Surveys:       controllers.NewSurveyController(logger, surveyService),
	}, jwt, middleware.NewRateLimiter(cfg.AuthRateLimitPerSecond, cfg.AuthRateLimitBurst), db, logger)

	metrics := middleware.NewMetrics(prometheus.DefaultRegisterer)
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           deliveryhttp.Handler(mux, cfg.AllowedOrigins, metrics, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}
	metricsSrv := &http.Server{
		Addr:              ":" + cfg.MetricsPort,
		Handler:           promhttp.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 2)
	go func() {
		logger.Info("metrics listening", "addr", metricsSrv.Addr)
		errc <- metricsSrv.ListenAndServe()
	}()
	go func() {
		logger.Info("server listening", "addr", srv.Addr, "env", cfg.Environment)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case <-ctx.Done():
		logger.Info("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown", "err", err)
	}
	if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("metrics shutdown", "err", err)
	}
	return sink.Close(shutdownCtx)
}
