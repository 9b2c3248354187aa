// File path: internal/api/lookup_handler.go
package api

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/famnet/famapi/internal/common"
	"github.com/famnet/famapi/internal/fam"
	"github.com/famnet/famapi/internal/store"
	"github.com/famnet/famapi/internal/telegram"
)

func (s *Server) handleLookup(w http.ResponseWriter, r *http.Request) {
	logger := common.Logger()
	query := strings.TrimSpace(r.URL.Query().Get("fam"))
	if query == "" {
		logger.Warn("api: lookup missing fam parameter")
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error":   "missing fam parameter. Use /api?fam=upi@fam",
			"example": "/api?fam=sugarsingh@fam",
		})
		return
	}
	if s.bot == nil {
		writeError(w, http.StatusServiceUnavailable, errors.New("telegram client not configured"))
		return
	}
	logger.Info("api: lookup request", "query", query)

	ctx, cancel := context.WithTimeout(r.Context(), s.cfg.LookupTimeout)
	defer cancel()
	raw, err := s.bot.Lookup(ctx, query)
	switch {
	case err == nil:
	case errors.Is(err, telegram.ErrLookupTimeout), errors.Is(err, context.DeadlineExceeded):
		writeJSON(w, http.StatusGatewayTimeout, lookupFailure(query, "request timeout - bot took too long to respond"))
		return
	default:
		logger.Error("api: lookup failed", "query", query, "error", err)
		writeJSON(w, http.StatusInternalServerError, lookupFailure(query, err.Error()))
		return
	}

	info := fam.Parse(raw)
	if !info.Valid() {
		writeJSON(w, http.StatusNotFound, lookupFailure(query, "no valid response from bot"))
		return
	}
	if s.store != nil {
		rec := recordFromInfo(info)
		if err := s.store.Save(r.Context(), rec); err != nil {
			logger.Error("api: persist lookup result failed", "fam_id", info.FamID, "error", err)
		} else {
			logger.Debug("api: lookup result persisted", "fam_id", info.FamID, "id", rec.ID)
		}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"query":   query,
		"data":    info,
	})
}

func lookupFailure(query, message string) map[string]interface{} {
	return map[string]interface{}{
		"success": false,
		"error":   message,
		"query":   query,
	}
}

func recordFromInfo(info fam.Info) *store.Record {
	rec := &store.Record{FamID: info.FamID, Type: info.Type}
	if info.Name != "" {
		name := info.Name
		rec.Name = &name
	}
	if info.Phone != "" {
		phone := info.Phone
		rec.Phone = &phone
	}
	return rec
}
