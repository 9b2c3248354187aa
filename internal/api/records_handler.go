// File path: internal/api/records_handler.go
package api

import (
	"errors"
	"net/http"
	"strconv"

	chi "github.com/go-chi/chi/v5"

	"github.com/famnet/famapi/internal/store"
)

const defaultRecordLimit = 50

func (s *Server) handleRecords(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, http.StatusServiceUnavailable, errors.New("record store not configured"))
		return
	}
	limit := defaultRecordLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			limit = parsed
		}
	}
	records, err := s.store.List(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"records": records,
		"count":   len(records),
	})
}

func (s *Server) handleRecord(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, http.StatusServiceUnavailable, errors.New("record store not configured"))
		return
	}
	famID := chi.URLParam(r, "famID")
	rec, err := s.store.GetByFamID(r.Context(), famID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, err)
			return
		}
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}
