/*
server.go - HTTP router, middleware, and session enforcement

PURPOSE:
  Configures the chi router, middleware stack, and route definitions.
  Sessions are resolved from the Authorization header by middleware and
  carried in the request context as explicit values; handlers never read
  ambient login state.

MIDDLEWARE STACK:
  1. RequestID:  Unique ID per request
  2. zerolog:    Structured request logging
  3. Recoverer:  Panic recovery (500 instead of crash)
  4. CORS:       Cross-origin requests for browser clients

AUTHORIZATION:
  - requireSession: any valid session
  - requireAdmin:   administrator session
  - requireWorkerAccess: administrator, or the worker the route addresses

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/warp/timeclock/clock"
)

type contextKey string

const sessionKey contextKey = "session"

// sessionFrom returns the session middleware attached to the context.
func sessionFrom(ctx context.Context) *clock.Session {
	s, _ := ctx.Value(sessionKey).(*clock.Session)
	return s
}

// NewRouter creates a router with all routes configured.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(h.logRequests)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Post("/login", h.Login)

		// Everything below needs a session.
		r.Group(func(r chi.Router) {
			r.Use(h.requireSession)

			r.Post("/logout", h.Logout)

			r.Route("/workers", func(r chi.Router) {
				r.With(h.requireAdmin).Get("/", h.ListWorkers)
				r.With(h.requireAdmin).Post("/", h.CreateWorker)

				r.Route("/{id}", func(r chi.Router) {
					r.Use(h.requireWorkerAccess)

					r.Get("/", h.GetWorker)
					r.With(h.requireAdmin).Put("/", h.UpdateWorker)
					r.With(h.requireAdmin).Delete("/", h.DeleteWorker)

					r.With(h.requireAdmin).Post("/rest-days", h.AddRestDay)
					r.With(h.requireAdmin).Delete("/rest-days/{date}", h.RemoveRestDay)
					r.Get("/rest-days/{date}", h.ClassifyRestDay)

					r.Post("/records", h.AddRecord)
					r.Get("/records", h.TodayRecords)
					r.Get("/status", h.DayStatus)
					r.Get("/minutes", h.WorkedMinutes)
					r.Get("/history", h.History)
					r.Get("/stats/monthly", h.MonthlyStats)
					r.Get("/earnings/daily", h.DailyEarnings)

					r.With(h.requireAdmin).Patch("/days/{date}/records/{index}", h.UpdateRecord)
					r.With(h.requireAdmin).Delete("/days/{date}/records/{index}", h.DeleteRecord)
				})
			})

			r.Route("/admin", func(r chi.Router) {
				r.Use(h.requireAdmin)
				r.Post("/rollover", h.TriggerRollover)
			})

			r.With(h.requireAdmin).Post("/scenarios/load", h.LoadScenario)
		})
	})

	return r
}

// =============================================================================
// MIDDLEWARE
// =============================================================================

func (h *Handler) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		h.Log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("duration", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("request")
	})
}

// requireSession resolves the bearer token into a Session and stores it
// in the request context.
func (h *Handler) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		if token == "" {
			h.writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "missing session token"})
			return
		}
		session, err := h.Auth.Lookup(token)
		if err != nil {
			h.writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "invalid session token"})
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), sessionKey, session)))
	})
}

func (h *Handler) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !sessionFrom(r.Context()).IsAdmin() {
			h.writeJSON(w, http.StatusForbidden, ErrorResponse{Error: "administrator session required"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// requireWorkerAccess admits administrators and the worker the route
// addresses.
func (h *Handler) requireWorkerAccess(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !sessionFrom(r.Context()).CanManage(workerParam(r)) {
			h.writeJSON(w, http.StatusForbidden, ErrorResponse{Error: "session cannot access this worker"})
			return
		}
		next.ServeHTTP(w, r)
	})
}
