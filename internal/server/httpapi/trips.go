package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/dmitrijs2005/globetrotter/internal/server/models"
	"github.com/dmitrijs2005/globetrotter/internal/server/services"
)

// withCover fills trip.CoverURL. A presign failure only costs the cover,
// so it is logged rather than returned.
func (s *Server) withCover(ctx context.Context, trip *models.Trip) {
	url, err := s.svc.Images.CoverURL(ctx, trip)
	if err != nil {
		s.logger.Warn(ctx, "cover url failed", "trip_id", trip.ID, "error", err)
		return
	}
	trip.CoverURL = url
}

func (s *Server) handleListTrips(w http.ResponseWriter, r *http.Request) {
	limit, err := intQuery(r, "limit")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	offset, err := intQuery(r, "offset")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	q := r.URL.Query()
	trips, err := s.svc.Trips.ListTrips(r.Context(), models.TripFilter{
		UserID: userID(r),
		Query:  q.Get("q"),
		Status: models.TripStatus(q.Get("status")),
		SortBy: q.Get("sort"),
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	for i := range trips {
		s.withCover(r.Context(), &trips[i])
	}
	s.writeJSON(w, http.StatusOK, envelope{"trips": trips})
}

func (s *Server) handleCreateTrip(w http.ResponseWriter, r *http.Request) {
	var in services.TripInput
	if err := s.readJSON(w, r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}
	trip, err := s.svc.Trips.CreateTrip(r.Context(), userID(r), in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, envelope{"trip": trip})
}

func (s *Server) handleGetTrip(w http.ResponseWriter, r *http.Request) {
	id, ok := s.idParam(w, r, "tripID")
	if !ok {
		return
	}
	trip, err := s.svc.Trips.GetTrip(r.Context(), userID(r), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.withCover(r.Context(), trip)
	s.writeJSON(w, http.StatusOK, envelope{"trip": trip})
}

func (s *Server) handleUpdateTrip(w http.ResponseWriter, r *http.Request) {
	id, ok := s.idParam(w, r, "tripID")
	if !ok {
		return
	}
	var in services.TripInput
	if err := s.readJSON(w, r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}
	trip, err := s.svc.Trips.UpdateTrip(r.Context(), userID(r), id, in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.withCover(r.Context(), trip)
	s.writeJSON(w, http.StatusOK, envelope{"trip": trip})
}

func (s *Server) handleDeleteTrip(w http.ResponseWriter, r *http.Request) {
	id, ok := s.idParam(w, r, "tripID")
	if !ok {
		return
	}
	if err := s.svc.Trips.DeleteTrip(r.Context(), userID(r), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleItinerary(w http.ResponseWriter, r *http.Request) {
	id, ok := s.idParam(w, r, "tripID")
	if !ok {
		return
	}
	it, err := s.svc.Trips.GetItinerary(r.Context(), userID(r), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.withCover(r.Context(), &it.Trip)
	s.writeJSON(w, http.StatusOK, envelope{"itinerary": it})
}

func (s *Server) handlePublicItinerary(w http.ResponseWriter, r *http.Request) {
	id, ok := s.idParam(w, r, "tripID")
	if !ok {
		return
	}
	it, err := s.svc.Trips.PublicItinerary(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.withCover(r.Context(), &it.Trip)
	s.writeJSON(w, http.StatusOK, envelope{"itinerary": it})
}

func (s *Server) handleBudget(w http.ResponseWriter, r *http.Request) {
	id, ok := s.idParam(w, r, "tripID")
	if !ok {
		return
	}
	b, err := s.svc.Trips.Budget(r.Context(), userID(r), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, envelope{"budget": b})
}

func (s *Server) handleCalendar(w http.ResponseWriter, r *http.Request) {
	id, ok := s.idParam(w, r, "tripID")
	if !ok {
		return
	}
	days, err := s.svc.Trips.Calendar(r.Context(), userID(r), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, envelope{"days": days})
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	id, ok := s.idParam(w, r, "tripID")
	if !ok {
		return
	}
	format := r.URL.Query().Get("format")
	if format == "" {
		format = services.ExportJSON
	}
	f, err := s.svc.Exports.Export(r.Context(), userID(r), id, format)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", f.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", f.Filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(f.Data)))
	w.WriteHeader(http.StatusOK)
	w.Write(f.Data)
}

func (s *Server) handleRequestCover(w http.ResponseWriter, r *http.Request) {
	id, ok := s.idParam(w, r, "tripID")
	if !ok {
		return
	}
	task, err := s.svc.Images.RequestCoverUpload(r.Context(), userID(r), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, envelope{"upload": task})
}

func (s *Server) handleCompleteCover(w http.ResponseWriter, r *http.Request) {
	id, ok := s.idParam(w, r, "tripID")
	if !ok {
		return
	}
	var in struct {
		StorageKey string `json:"storage_key"`
	}
	if err := s.readJSON(w, r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.svc.Images.CompleteCoverUpload(r.Context(), userID(r), id, in.StorageKey); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
