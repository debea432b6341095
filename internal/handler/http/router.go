package http

import (
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"

	"github.com/AMRWERY/Employees-System-Management-ESM/internal/handler/http/middleware"
	"github.com/AMRWERY/Employees-System-Management-ESM/internal/pkg/jwt"
)

func NewRouter(
	JWTService jwt.Service,
	payrollHandler PayrollHandler,
	leaveHandler LeaveHandler,
	employeeHandler EmployeeHandler,
) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "ems-backend"),
		slog.String("version", "v1.0.0"),
		slog.String("env", "development"),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"},
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

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(JWTService.JWTAuth()))

			r.Route("/payrolls", func(r chi.Router) {
				// Read access for managers and admins
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireManager)
					r.Get("/", payrollHandler.List)
					r.Get("/{id}", payrollHandler.Get)
				})

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireAdmin)
					r.Post("/", payrollHandler.Create)
					r.Put("/{id}", payrollHandler.Update)
					r.Post("/{id}/pay", payrollHandler.ProcessPayment)
					r.Post("/{id}/fail", payrollHandler.RecordPaymentFailure)
					r.Delete("/{id}", payrollHandler.Delete)
				})
			})

			r.Route("/leave-requests", func(r chi.Router) {
				// Self service
				r.Post("/", leaveHandler.Submit)
				r.Get("/my", leaveHandler.ListMine)
				r.Get("/balance/my", leaveHandler.MyBalance)
				r.Post("/{id}/withdraw", leaveHandler.Withdraw)

				// Manager or admin
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireManager)
					r.Get("/", leaveHandler.List)
					r.Get("/{id}", leaveHandler.Get)
					r.Get("/balance/{userId}", leaveHandler.Balance)
					r.Post("/{id}/approve", leaveHandler.Approve)
					r.Post("/{id}/reject", leaveHandler.Reject)
					r.Post("/{id}/cancel", leaveHandler.Cancel)
				})

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireAdmin)
					r.Delete("/{id}", leaveHandler.Delete)
				})
			})

			r.Route("/employees", func(r chi.Router) {
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireManager)
					r.Get("/", employeeHandler.List)
					r.Get("/{userId}", employeeHandler.Get)
				})

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireAdmin)
					r.Post("/", employeeHandler.Create)
				})
			})
		})
	})
	return r
}
