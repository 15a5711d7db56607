/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for frontend

ROUTE GROUPS:
  /api/schedule         Active contribution regime
  /api/employees/*      Employees, shifts, calculation, period generation
  /api/periods/*        Weekly records, overrides, totals, export
  /api/scenarios/*      Demo scenarios

SECURITY NOTE:
  No authentication middleware. All endpoints are public.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a new router with all routes configured.
// corsOrigins lists the origins allowed to call the API from a browser.
func NewRouter(h *Handler, corsOrigins []string) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   corsOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: true,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Get("/schedule", h.GetSchedule)

		// Employee routes
		r.Route("/employees", func(r chi.Router) {
			r.Get("/", h.ListEmployees)
			r.Post("/", h.CreateEmployee)
			r.Get("/{id}", h.GetEmployee)
			r.Post("/{id}/shifts", h.AddShift)
			r.Delete("/{id}/shifts/{index}", h.RemoveShift)
			r.Post("/{id}/shifts/{index}/default", h.SetDefaultShift)
			r.Post("/{id}/validate", h.ValidateInput)
			r.Post("/{id}/calculate", h.Calculate)
			r.Post("/{id}/periods", h.CreatePeriod)
			r.Get("/{id}/periods", h.ListPeriods)
		})

		// Period routes
		r.Route("/periods", func(r chi.Router) {
			r.Post("/recalculate", h.RecalculateBatch)
			r.Get("/{id}", h.GetPeriod)
			r.Get("/{id}/totals", h.GetTotals)
			r.Get("/{id}/export.csv", h.ExportCSV)
			r.Get("/{id}/export.pdf", h.ExportPDF)

			r.Route("/{id}/weeks/{week}", func(r chi.Router) {
				r.Post("/recalculate", h.RecalculateWeek)
				r.Put("/recorded-pay", h.OverrideRecordedPay)
				r.Delete("/recorded-pay", h.ClearOverride)
				r.Put("/days-worked", h.RecordDaysWorked)
			})
		})

		// Scenario routes
		r.Route("/scenarios", func(r chi.Router) {
			r.Get("/", h.ListScenarios)
			r.Get("/current", h.GetCurrentScenario)
			r.Post("/load", h.LoadScenario)
			r.Post("/reset", h.ResetDatabase)
		})
	})

	return r
}
