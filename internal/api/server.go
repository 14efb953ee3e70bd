// Package api exposes the REST surface: authentication, events, guests,
// expenses, meals, itineraries and a server-sent-events change feed.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"gatherly/internal/auth"
	"gatherly/internal/service"
	"gatherly/internal/store"
)

// Server wires the HTTP handlers to their backing services. All
// dependencies are injected; the server owns none of them.
type Server struct {
	store         store.Store
	users         *auth.UserStore
	authenticator *auth.PasswordAuthenticator
	jwt           *auth.JWTManager
	events        *service.EventService
	guests        *service.GuestService
}

// NewServer creates a server over the given store and auth components.
func NewServer(s store.Store, users *auth.UserStore, authenticator *auth.PasswordAuthenticator, jwt *auth.JWTManager) *Server {
	return &Server{
		store:         s,
		users:         users,
		authenticator: authenticator,
		jwt:           jwt,
		events:        service.NewEventService(s),
		guests:        service.NewGuestService(s),
	}
}

// Router builds the chi router with logging, metrics and auth middleware
// applied.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(RequestLogger)
	r.Use(Metrics)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", s.handleRegister)
		r.Post("/auth/login", s.handleLogin)

		r.Group(func(r chi.Router) {
			r.Use(RequireAuth(s.jwt))

			r.Get("/me", s.handleMe)
			r.Get("/invitations", s.handlePendingInvitations)

			r.Post("/events", s.handleCreateEvent)
			r.Get("/events", s.handleListEvents)

			r.Route("/events/{eventID}", func(r chi.Router) {
				r.Get("/", s.handleGetEvent)
				r.Patch("/", s.handleUpdateEvent)
				r.Delete("/", s.handleDeleteEvent)
				r.Get("/watch", s.handleWatchEvent)

				r.Get("/members", s.handleListMembers)
				r.Delete("/members/{memberID}", s.handleRemoveMember)

				r.Route("/invitations", func(r chi.Router) {
					r.Get("/", s.handleEventInvitations)
					r.Post("/", s.handleInvite)
					r.Post("/{invitationID}/accept", s.handleAcceptInvitation)
					r.Post("/{invitationID}/decline", s.handleDeclineInvitation)
					r.Delete("/{invitationID}", s.handleCancelInvitation)
				})

				r.Route("/expenses", func(r chi.Router) {
					r.Get("/", s.handleListExpenses)
					r.Post("/", s.handleCreateExpense)
					r.Get("/summary", s.handleExpenseSummary)
					r.Put("/{expenseID}", s.handleUpdateExpense)
					r.Delete("/{expenseID}", s.handleDeleteExpense)
				})

				r.Route("/meals", func(r chi.Router) {
					r.Get("/", s.handleListMeals)
					r.Post("/", s.handleCreateMeal)
					r.Get("/plan", s.handleMealPlan)
					r.Put("/{mealID}", s.handleUpdateMeal)
					r.Delete("/{mealID}", s.handleDeleteMeal)
				})

				r.Route("/itinerary", func(r chi.Router) {
					r.Get("/", s.handleGetItinerary)
					r.Put("/", s.handleUpdateItinerary)
				})
			})
		})
	})

	return r
}
