package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/globetrotter/internal/server/services"
)

// stops

func (s *Server) handleListStops(w http.ResponseWriter, r *http.Request) {
	tripID, ok := s.idParam(w, r, "tripID")
	if !ok {
		return
	}
	stops, err := s.svc.Trips.ListStops(r.Context(), userID(r), tripID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, envelope{"stops": stops})
}

func (s *Server) handleAddStop(w http.ResponseWriter, r *http.Request) {
	tripID, ok := s.idParam(w, r, "tripID")
	if !ok {
		return
	}
	var in services.StopInput
	if err := s.readJSON(w, r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}
	stop, err := s.svc.Trips.AddStop(r.Context(), userID(r), tripID, in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, envelope{"stop": stop})
}

func (s *Server) handleUpdateStop(w http.ResponseWriter, r *http.Request) {
	stopID, ok := s.idParam(w, r, "stopID")
	if !ok {
		return
	}
	var in services.StopInput
	if err := s.readJSON(w, r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}
	stop, err := s.svc.Trips.UpdateStop(r.Context(), userID(r), stopID, in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, envelope{"stop": stop})
}

func (s *Server) handleDeleteStop(w http.ResponseWriter, r *http.Request) {
	stopID, ok := s.idParam(w, r, "stopID")
	if !ok {
		return
	}
	if err := s.svc.Trips.DeleteStop(r.Context(), userID(r), stopID); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleReorderStops(w http.ResponseWriter, r *http.Request) {
	tripID, ok := s.idParam(w, r, "tripID")
	if !ok {
		return
	}
	var in struct {
		StopIDs []string `json:"stop_ids"`
	}
	if err := s.readJSON(w, r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}
	stops, err := s.svc.Trips.ReorderStops(r.Context(), userID(r), tripID, in.StopIDs)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, envelope{"stops": stops})
}

// scheduled activities

func (s *Server) handleListTripActivities(w http.ResponseWriter, r *http.Request) {
	stopID, ok := s.idParam(w, r, "stopID")
	if !ok {
		return
	}
	list, err := s.svc.Trips.ListTripActivities(r.Context(), userID(r), stopID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, envelope{"activities": list})
}

func (s *Server) handleAddTripActivity(w http.ResponseWriter, r *http.Request) {
	stopID, ok := s.idParam(w, r, "stopID")
	if !ok {
		return
	}
	var in services.TripActivityInput
	if err := s.readJSON(w, r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}
	a, err := s.svc.Trips.AddTripActivity(r.Context(), userID(r), stopID, in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, envelope{"activity": a})
}

func (s *Server) handleUpdateTripActivity(w http.ResponseWriter, r *http.Request) {
	id, ok := s.idParam(w, r, "id")
	if !ok {
		return
	}
	var in services.TripActivityInput
	if err := s.readJSON(w, r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}
	a, err := s.svc.Trips.UpdateTripActivity(r.Context(), userID(r), id, in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, envelope{"activity": a})
}

func (s *Server) handleDeleteTripActivity(w http.ResponseWriter, r *http.Request) {
	id, ok := s.idParam(w, r, "id")
	if !ok {
		return
	}
	if err := s.svc.Trips.DeleteTripActivity(r.Context(), userID(r), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// accommodations

func (s *Server) handleListAccommodations(w http.ResponseWriter, r *http.Request) {
	tripID, ok := s.idParam(w, r, "tripID")
	if !ok {
		return
	}
	list, err := s.svc.Trips.ListAccommodations(r.Context(), userID(r), tripID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, envelope{"accommodations": list})
}

func (s *Server) handleAddAccommodation(w http.ResponseWriter, r *http.Request) {
	stopID, ok := s.idParam(w, r, "stopID")
	if !ok {
		return
	}
	var in services.AccommodationInput
	if err := s.readJSON(w, r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}
	a, err := s.svc.Trips.AddAccommodation(r.Context(), userID(r), stopID, in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, envelope{"accommodation": a})
}

func (s *Server) handleUpdateAccommodation(w http.ResponseWriter, r *http.Request) {
	id, ok := s.idParam(w, r, "id")
	if !ok {
		return
	}
	var in services.AccommodationInput
	if err := s.readJSON(w, r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}
	a, err := s.svc.Trips.UpdateAccommodation(r.Context(), userID(r), id, in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, envelope{"accommodation": a})
}

func (s *Server) handleDeleteAccommodation(w http.ResponseWriter, r *http.Request) {
	id, ok := s.idParam(w, r, "id")
	if !ok {
		return
	}
	if err := s.svc.Trips.DeleteAccommodation(r.Context(), userID(r), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// transport legs

func (s *Server) handleListTransports(w http.ResponseWriter, r *http.Request) {
	tripID, ok := s.idParam(w, r, "tripID")
	if !ok {
		return
	}
	list, err := s.svc.Trips.ListTransports(r.Context(), userID(r), tripID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, envelope{"transports": list})
}

func (s *Server) handleAddTransport(w http.ResponseWriter, r *http.Request) {
	tripID, ok := s.idParam(w, r, "tripID")
	if !ok {
		return
	}
	var in services.TransportInput
	if err := s.readJSON(w, r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}
	leg, err := s.svc.Trips.AddTransport(r.Context(), userID(r), tripID, in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, envelope{"transport": leg})
}

func (s *Server) handleUpdateTransport(w http.ResponseWriter, r *http.Request) {
	id, ok := s.idParam(w, r, "id")
	if !ok {
		return
	}
	var in services.TransportInput
	if err := s.readJSON(w, r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}
	leg, err := s.svc.Trips.UpdateTransport(r.Context(), userID(r), id, in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, envelope{"transport": leg})
}

func (s *Server) handleDeleteTransport(w http.ResponseWriter, r *http.Request) {
	id, ok := s.idParam(w, r, "id")
	if !ok {
		return
	}
	if err := s.svc.Trips.DeleteTransport(r.Context(), userID(r), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
