package http

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/adityacpuu-stack/peoplehub-backend-sub000/internal/domain/payroll"
	"github.com/adityacpuu-stack/peoplehub-backend-sub000/internal/handler/http/middleware"
	"github.com/adityacpuu-stack/peoplehub-backend-sub000/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

func NewRouter(JWTService jwt.Service, payrollHandler PayrollHandler) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "peoplehub-payroll"),
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
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(JWTService.JWTAuth()))

			r.Route("/payroll", func(r chi.Router) {
				// Everything below needs at least HR staff.
				r.Use(middleware.RequireHRStaff)

				r.Route("/settings", func(r chi.Router) {
					r.Get("/", payrollHandler.GetSetting)

					r.Group(func(r chi.Router) {
						r.Use(middleware.RequireHRManager)
						r.Put("/", payrollHandler.UpdateSetting)
					})
				})

				r.Post("/calculate", payrollHandler.Calculate)
				r.Post("/generate", payrollHandler.Generate)
				r.Get("/summary", payrollHandler.GetSummary)

				r.Route("/records", func(r chi.Router) {
					r.Get("/", payrollHandler.List)

					r.Route("/bulk", func(r chi.Router) {
						r.Post("/submit", payrollHandler.BulkTransition(payroll.ActionSubmit))

						r.Group(func(r chi.Router) {
							r.Use(middleware.RequireHRManager)
							r.Post("/approve", payrollHandler.BulkTransition(payroll.ActionApprove))
							r.Post("/reject", payrollHandler.BulkTransition(payroll.ActionReject))
						})
					})

					r.Get("/{id}", payrollHandler.Get)

					r.Post("/{id}/validate", payrollHandler.Transition(payroll.ActionValidate))
					r.Post("/{id}/submit", payrollHandler.Transition(payroll.ActionSubmit))

					// Manager-gated transitions. The service checks the
					// role again; the route gate gives a clean 403 early.
					r.Group(func(r chi.Router) {
						r.Use(middleware.RequireHRManager)
						r.Post("/{id}/approve", payrollHandler.Transition(payroll.ActionApprove))
						r.Post("/{id}/reject", payrollHandler.Transition(payroll.ActionReject))
						r.Post("/{id}/mark-paid", payrollHandler.Transition(payroll.ActionMarkPaid))
						r.Post("/{id}/cancel", payrollHandler.Transition(payroll.ActionCancel))
					})
				})

				r.Route("/adjustments", func(r chi.Router) {
					r.Get("/", payrollHandler.ListAdjustments)
					r.Post("/", payrollHandler.CreateAdjustment)

					r.Group(func(r chi.Router) {
						r.Use(middleware.RequireHRManager)
						r.Post("/{id}/approve", payrollHandler.DecideAdjustment(true))
						r.Post("/{id}/reject", payrollHandler.DecideAdjustment(false))
					})
				})
			})
		})
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok\n"))
	})

	return r
}
