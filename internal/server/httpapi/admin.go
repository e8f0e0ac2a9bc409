package httpapi

import "net/http"

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	st, err := s.svc.Admin.Stats(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, envelope{"stats": st})
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
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
	users, err := s.svc.Admin.ListUsers(r.Context(), r.URL.Query().Get("q"), limit, offset)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, envelope{"users": users})
}
