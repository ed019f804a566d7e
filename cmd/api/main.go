package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/clinichq/clinic-api/config"
	"github.com/clinichq/clinic-api/internal/email"
	"github.com/clinichq/clinic-api/internal/handler"
	appointmenth "github.com/clinichq/clinic-api/internal/handler/appointment"
	authh "github.com/clinichq/clinic-api/internal/handler/auth"
	doctorh "github.com/clinichq/clinic-api/internal/handler/doctor"
	prescriptionh "github.com/clinichq/clinic-api/internal/handler/prescription"
	profileh "github.com/clinichq/clinic-api/internal/handler/profile"
	"github.com/clinichq/clinic-api/internal/middleware"
	"github.com/clinichq/clinic-api/internal/repository/postgres"
	"github.com/clinichq/clinic-api/internal/router"
	authService "github.com/clinichq/clinic-api/internal/service/auth"
	bookingService "github.com/clinichq/clinic-api/internal/service/booking"
	directoryService "github.com/clinichq/clinic-api/internal/service/directory"
	prescriptionService "github.com/clinichq/clinic-api/internal/service/prescription"
	profileService "github.com/clinichq/clinic-api/internal/service/profile"
	reviewService "github.com/clinichq/clinic-api/internal/service/review"
	jwtauth "github.com/clinichq/clinic-api/pkg/auth"
	"github.com/clinichq/clinic-api/pkg/logger"
	"github.com/clinichq/clinic-api/pkg/messaging"
	redisbroker "github.com/clinichq/clinic-api/pkg/messaging/redis"
	"github.com/clinichq/clinic-api/pkg/metrics"
	"github.com/clinichq/clinic-api/pkg/security"
)

func main() {
	appLogger := logger.New(&logger.Config{
		Level:      logger.InfoLevel,
		TimeFormat: time.RFC3339,
	})
	log.Logger = *appLogger.Zerolog()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	accountRepo := postgres.NewAccountRepository(db)
	doctorRepo := postgres.NewDoctorRepository(db)
	patientRepo := postgres.NewPatientRepository(db)
	appointmentRepo := postgres.NewAppointmentRepository(db)
	reviewRepo := postgres.NewReviewRepository(db)
	prescriptionRepo := postgres.NewPrescriptionRepository(db)
	paymentRepo := postgres.NewPaymentRepository(db)
	imageRepo := postgres.NewProfileImageRepository(db)

	// The broker is optional infrastructure: without Redis the API still
	// serves requests, it just stops publishing domain events.
	var broker messaging.Broker
	if cfg.Redis.URL != "" {
		brokerLogger := log.With().Str("component", "broker").Logger()
		broker, err = redisbroker.NewRedisBroker(cfg.Redis.ToBrokerConfig(), &brokerLogger)
		if err != nil {
			log.Warn().Err(err).Msg("redis unavailable, domain events disabled")
			broker = nil
		} else {
			defer broker.Close()
		}
	}

	m := metrics.New("clinic_api")
	tokens := jwtauth.NewJWTService(jwtauth.Config{
		Secret:        cfg.JWT.Secret,
		RefreshSecret: cfg.JWT.RefreshSecret,
		AccessExpiry:  cfg.JWT.AccessExpiry,
		RefreshExpiry: cfg.JWT.RefreshExpiry,
		VerifyExpiry:  cfg.JWT.VerifyExpiry,
	})
	hasher := security.NewBcryptHasher(0)
	mailer := email.NewSMTPService(cfg.SMTP)

	authSvc := authService.NewService(
		accountRepo, patientRepo, doctorRepo,
		hasher, tokens, mailer, broker, m,
		log.With().Str("component", "auth").Logger(),
		cfg.VerifyURL,
	)
	bookingSvc := bookingService.NewService(
		appointmentRepo, patientRepo, doctorRepo, paymentRepo,
		broker, m,
		log.With().Str("component", "booking").Logger(),
	)
	profileSvc := profileService.NewService(accountRepo, doctorRepo, patientRepo, imageRepo, cfg.Media.BaseURL)
	directorySvc := directoryService.NewService(doctorRepo)
	reviewSvc := reviewService.NewService(reviewRepo, doctorRepo, patientRepo)
	prescriptionSvc := prescriptionService.NewService(prescriptionRepo, doctorRepo, patientRepo)

	authMiddleware := middleware.NewAuthMiddleware(tokens)

	engine := router.New(
		router.Handlers{
			Auth:         authh.NewHandler(authSvc),
			Profile:      profileh.NewHandler(profileSvc),
			Doctor:       doctorh.NewHandler(directorySvc, reviewSvc),
			Appointment:  appointmenth.NewHandler(bookingSvc),
			Prescription: prescriptionh.NewHandler(prescriptionSvc),
			Health:       handler.NewHealthHandler(db),
		},
		authMiddleware,
		m,
		log.Logger,
		router.Config{
			RateLimitEnabled: cfg.RateLimit.Enabled,
			RateLimit:        rate.Limit(cfg.RateLimit.RequestsPerSecond),
			RateBurst:        cfg.RateLimit.Burst,
			CORS: middleware.CORSConfig{
				AllowOrigins: cfg.Security.AllowedOrigins,
				AllowMethods: cfg.Security.AllowedMethods,
				AllowHeaders: cfg.Security.AllowedHeaders,
			},
			PrometheusEnabled: cfg.Monitoring.PrometheusEnabled,
			MetricsPath:       cfg.Monitoring.MetricsPath,
		},
	)

	srv := &http.Server{
		Addr:           fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:        engine,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
	}

	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited properly")
}
