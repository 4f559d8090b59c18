package http

import (
	"log/slog"
	"os"

	"github.com/avantix/ttw-backend-go/internal/config"
	"github.com/avantix/ttw-backend-go/internal/handler/http/middleware"
	"github.com/avantix/ttw-backend-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

func NewRouter(
	cfg *config.Config,
	JWTService jwt.Service,
	authHandler AuthHandler,
	businessHandler BusinessHandler,
	employeeHandler EmployeeHandler,
	timeLogHandler TimeLogHandler,
	payrollHandler PayrollHandler,
	importHandler ImportHandler,
) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "ttw-backend"),
		slog.String("version", "v1.0.0"),
		slog.String("env", cfg.App.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.App.FrontendURL},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {

		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", authHandler.Login)
			r.Post("/refresh", authHandler.RefreshToken)
			r.Post("/logout", authHandler.Logout)
			r.Post("/marker/{businessID}/login", authHandler.LoginWithPIN)
		})

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(JWTService.JWTAuth()))

			// Kiosk clock events
			r.Group(func(r chi.Router) {
				r.Use(middleware.MarkerOnly)
				r.Post("/marker/clock-in", timeLogHandler.ClockIn)
				r.Post("/marker/clock-out", timeLogHandler.ClockOut)
			})

			// Admin only
			r.Group(func(r chi.Router) {
				r.Use(middleware.AdminOnly)

				r.Route("/business", func(r chi.Router) {
					r.Get("/", businessHandler.GetSettings)
					r.Put("/", businessHandler.UpdateSettings)
				})

				r.Route("/employees", func(r chi.Router) {
					r.Get("/", employeeHandler.List)
					r.Post("/", employeeHandler.Create)
					r.Get("/{id}", employeeHandler.Get)
					r.Put("/{id}", employeeHandler.Update)
					r.Delete("/{id}", employeeHandler.Delete)
					r.Get("/{employeeID}/logs", timeLogHandler.ListByEmployee)
				})

				r.Route("/logs", func(r chi.Router) {
					r.Get("/", timeLogHandler.ListUnpaid)
					r.Post("/", timeLogHandler.Create)
					r.Post("/batch", timeLogHandler.SubmitBatch)
					r.Put("/{id}", timeLogHandler.Update)
					r.Delete("/{id}", timeLogHandler.Delete)
				})

				r.Route("/payroll", func(r chi.Router) {
					r.Get("/pending", payrollHandler.Pending)
					r.Post("/settle", payrollHandler.SettleGroup)
					r.Post("/settle-line", payrollHandler.SettleLine)
				})

				r.Route("/payments", func(r chi.Router) {
					r.Get("/", payrollHandler.List)
					r.Get("/{id}", payrollHandler.Get)
					r.Put("/{id}/lines", payrollHandler.UpdateLine)
					r.Put("/{id}/adjust", payrollHandler.Adjust)
					r.Delete("/", payrollHandler.DeleteMany)
				})

				r.Route("/import", func(r chi.Router) {
					r.Post("/parse", importHandler.Parse)
					r.Post("/reconcile", importHandler.Reconcile)
				})
			})
		})
	})

	return r
}
