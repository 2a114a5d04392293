package api

import (
	"net/http"

	"github.com/dementia-care/backend/internal/api/handlers"
	"github.com/dementia-care/backend/internal/api/middleware"
	"github.com/dementia-care/backend/internal/config"
	"github.com/dementia-care/backend/internal/domain"
	"github.com/dementia-care/backend/internal/service"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

func NewRouter(services *service.Services, cfg *config.Config, log *zap.Logger) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(middleware.CORS(cfg.CORSAllowedOrigins))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(services.Provisioning, services.Session, log)
	patientHandler := handlers.NewPatientHandler(services.Provisioning, services.Patients, log)

	requireAuth := middleware.Auth(services.Session, log)

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Public auth routes
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/doctor-login", authHandler.DoctorLogin)
			r.Post("/patient-login", authHandler.PatientLogin)
			r.Post("/logout", authHandler.Logout)
			r.Post("/token/refresh", authHandler.Refresh)

			// Protected auth routes
			r.Group(func(r chi.Router) {
				r.Use(requireAuth)
				r.Get("/me", authHandler.Me)
			})
		})

		// Patient records: doctors only
		r.Route("/patients", func(r chi.Router) {
			r.Use(requireAuth)
			r.Use(middleware.RequireRole(domain.RoleDoctor))

			r.Get("/", patientHandler.List)
			r.Post("/", patientHandler.Create)
			r.Post("/self-service", patientHandler.CreateSelfService)
			r.Get("/{username}", patientHandler.Get)
			r.Patch("/{username}", patientHandler.Update)
		})
	})

	return r
}
