package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/globetrotter/internal/server/models"
)

func (s *Server) handleListCities(w http.ResponseWriter, r *http.Request) {
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
	cities, err := s.svc.Catalog.ListCities(r.Context(), models.CityFilter{
		Query:   q.Get("q"),
		Country: q.Get("country"),
		Limit:   limit,
		Offset:  offset,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, envelope{"cities": cities})
}

func (s *Server) handleSearchCities(w http.ResponseWriter, r *http.Request) {
	limit, err := intQuery(r, "limit")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	cities, err := s.svc.Catalog.SearchCities(r.Context(), r.URL.Query().Get("q"), limit)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, envelope{"cities": cities})
}

func (s *Server) handleGetCity(w http.ResponseWriter, r *http.Request) {
	id, ok := s.idParam(w, r, "cityID")
	if !ok {
		return
	}
	city, err := s.svc.Catalog.GetCity(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, envelope{"city": city})
}

func (s *Server) handleCreateCity(w http.ResponseWriter, r *http.Request) {
	var c models.City
	if err := s.readJSON(w, r, &c); err != nil {
		s.writeError(w, r, err)
		return
	}
	c.ID = ""
	city, err := s.svc.Catalog.CreateCity(r.Context(), &c)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, envelope{"city": city})
}

func (s *Server) handleUpdateCity(w http.ResponseWriter, r *http.Request) {
	id, ok := s.idParam(w, r, "cityID")
	if !ok {
		return
	}
	var c models.City
	if err := s.readJSON(w, r, &c); err != nil {
		s.writeError(w, r, err)
		return
	}
	c.ID = id
	city, err := s.svc.Catalog.UpdateCity(r.Context(), &c)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, envelope{"city": city})
}

func (s *Server) handleDeleteCity(w http.ResponseWriter, r *http.Request) {
	id, ok := s.idParam(w, r, "cityID")
	if !ok {
		return
	}
	if err := s.svc.Catalog.DeleteCity(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListActivities(w http.ResponseWriter, r *http.Request) {
	maxCost, err := floatQuery(r, "max_cost")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	q := r.URL.Query()
	activities, err := s.svc.Catalog.ListActivities(r.Context(), models.ActivityFilter{
		CityID:   q.Get("city_id"),
		Category: q.Get("category"),
		MaxCost:  maxCost,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, envelope{"activities": activities})
}

func (s *Server) handleCreateActivity(w http.ResponseWriter, r *http.Request) {
	var a models.Activity
	if err := s.readJSON(w, r, &a); err != nil {
		s.writeError(w, r, err)
		return
	}
	a.ID = ""
	activity, err := s.svc.Catalog.CreateActivity(r.Context(), &a)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, envelope{"activity": activity})
}

func (s *Server) handleDeleteActivity(w http.ResponseWriter, r *http.Request) {
	id, ok := s.idParam(w, r, "activityID")
	if !ok {
		return
	}
	if err := s.svc.Catalog.DeleteActivity(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
