package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Routes builds the router with every endpoint and middleware.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		s.writeJSON(w, http.StatusOK, envelope{"status": "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   s.allowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
			ExposedHeaders:   []string{"Content-Disposition"},
			AllowCredentials: true,
			MaxAge:           300,
		}))

		r.Post("/auth/register", s.handleRegister)
		r.Post("/auth/login", s.handleLogin)
		r.Post("/auth/refresh", s.handleRefresh)
		r.Post("/auth/logout", s.handleLogout)

		r.Get("/cities", s.handleListCities)
		r.Get("/cities/search", s.handleSearchCities)
		r.Get("/cities/{cityID}", s.handleGetCity)
		r.Get("/activities", s.handleListActivities)
		r.Get("/public/trips/{tripID}", s.handlePublicItinerary)

		r.Group(func(r chi.Router) {
			r.Use(s.authMiddleware)

			r.Get("/me", s.handleMe)
			r.Patch("/me", s.handleUpdateMe)
			r.Delete("/me", s.handleDeleteMe)

			r.Get("/trips", s.handleListTrips)
			r.Post("/trips", s.handleCreateTrip)
			r.Get("/trips/{tripID}", s.handleGetTrip)
			r.Put("/trips/{tripID}", s.handleUpdateTrip)
			r.Delete("/trips/{tripID}", s.handleDeleteTrip)
			r.Get("/trips/{tripID}/itinerary", s.handleItinerary)
			r.Get("/trips/{tripID}/budget", s.handleBudget)
			r.Get("/trips/{tripID}/calendar", s.handleCalendar)
			r.Get("/trips/{tripID}/export", s.handleExport)
			r.Post("/trips/{tripID}/cover", s.handleRequestCover)
			r.Put("/trips/{tripID}/cover", s.handleCompleteCover)

			r.Get("/trips/{tripID}/stops", s.handleListStops)
			r.Post("/trips/{tripID}/stops", s.handleAddStop)
			r.Put("/trips/{tripID}/stops/order", s.handleReorderStops)
			r.Put("/stops/{stopID}", s.handleUpdateStop)
			r.Delete("/stops/{stopID}", s.handleDeleteStop)

			r.Get("/stops/{stopID}/activities", s.handleListTripActivities)
			r.Post("/stops/{stopID}/activities", s.handleAddTripActivity)
			r.Put("/trip-activities/{id}", s.handleUpdateTripActivity)
			r.Delete("/trip-activities/{id}", s.handleDeleteTripActivity)

			r.Get("/trips/{tripID}/accommodations", s.handleListAccommodations)
			r.Post("/stops/{stopID}/accommodations", s.handleAddAccommodation)
			r.Put("/accommodations/{id}", s.handleUpdateAccommodation)
			r.Delete("/accommodations/{id}", s.handleDeleteAccommodation)

			r.Get("/trips/{tripID}/transports", s.handleListTransports)
			r.Post("/trips/{tripID}/transports", s.handleAddTransport)
			r.Put("/transports/{id}", s.handleUpdateTransport)
			r.Delete("/transports/{id}", s.handleDeleteTransport)

			r.Route("/admin", func(r chi.Router) {
				r.Use(s.adminMiddleware)

				r.Get("/stats", s.handleStats)
				r.Get("/users", s.handleListUsers)
				r.Post("/cities", s.handleCreateCity)
				r.Put("/cities/{cityID}", s.handleUpdateCity)
				r.Delete("/cities/{cityID}", s.handleDeleteCity)
				r.Post("/activities", s.handleCreateActivity)
				r.Delete("/activities/{activityID}", s.handleDeleteActivity)
			})
		})
	})

	return r
}
