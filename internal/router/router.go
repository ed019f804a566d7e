package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/clinichq/clinic-api/internal/handler"
	appointmenth "github.com/clinichq/clinic-api/internal/handler/appointment"
	authh "github.com/clinichq/clinic-api/internal/handler/auth"
	doctorh "github.com/clinichq/clinic-api/internal/handler/doctor"
	prescriptionh "github.com/clinichq/clinic-api/internal/handler/prescription"
	profileh "github.com/clinichq/clinic-api/internal/handler/profile"
	"github.com/clinichq/clinic-api/internal/middleware"
	"github.com/clinichq/clinic-api/pkg/metrics"
)

type Config struct {
	RateLimitEnabled  bool
	RateLimit         rate.Limit
	RateBurst         int
	CORS              middleware.CORSConfig
	PrometheusEnabled bool
	MetricsPath       string
}

type Handlers struct {
	Auth         *authh.Handler
	Profile      *profileh.Handler
	Doctor       *doctorh.Handler
	Appointment  *appointmenth.Handler
	Prescription *prescriptionh.Handler
	Health       *handler.HealthHandler
}

// New wires all routes. Registration, sign-in, verification and the doctor
// directory are public; everything else requires a bearer token.
func New(
	h Handlers,
	auth *middleware.AuthMiddleware,
	m *metrics.Metrics,
	logger zerolog.Logger,
	cfg Config,
) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestID())
	engine.Use(middleware.Logger(logger))
	engine.Use(middleware.CORS(cfg.CORS))
	if cfg.RateLimitEnabled {
		limiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
			Rate:  cfg.RateLimit,
			Burst: cfg.RateBurst,
		})
		engine.Use(limiter.RateLimit())
	}
	if cfg.PrometheusEnabled {
		engine.Use(middleware.Metrics(m))
		path := cfg.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		engine.GET(path, gin.WrapH(promhttp.Handler()))
	}

	engine.GET("/health", h.Health.HealthCheck)

	engine.POST("/patients/register/", h.Auth.RegisterPatient)
	engine.POST("/doctors/register/", h.Auth.RegisterDoctor)
	engine.POST("/auth/signin/", h.Auth.SignIn)
	engine.POST("/auth/refresh/", h.Auth.Refresh)
	engine.POST("/verify/", h.Auth.Verify)

	engine.GET("/doctors/", h.Doctor.List)
	engine.GET("/doctors/:id/", h.Doctor.Get)
	engine.GET("/doctors/:id/reviews/", h.Doctor.ListReviews)

	authed := engine.Group("/", auth.Authenticate())
	{
		authed.GET("auth/users/me/", h.Profile.Me)
		authed.PUT("auth/users/me/", h.Profile.UpdateMe)
		authed.PUT("auth/users/me/image/", h.Profile.UpdateImage)

		authed.POST("doctors/:id/reviews/", h.Doctor.CreateReview)

		authed.POST("appointments/", h.Appointment.Create)
		authed.GET("appointments/", h.Appointment.List)
		authed.GET("appointments/:id/", h.Appointment.Get)
		authed.POST("appointments/:id/payment/", h.Appointment.CreatePayment)
		authed.GET("appointments/:id/payment/", h.Appointment.GetPayment)

		authed.POST("prescriptions/", h.Prescription.Create)
		authed.GET("prescriptions/", h.Prescription.List)
		authed.POST("prescriptions/:id/records/", h.Prescription.AddRecord)
		authed.GET("prescriptions/:id/records/", h.Prescription.ListRecords)
	}

	return engine
}
