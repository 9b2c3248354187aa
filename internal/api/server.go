// File path: internal/api/server.go
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	chi "github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/famnet/famapi/internal/common"
	"github.com/famnet/famapi/internal/store"
)

// Bot is the lookup side of the Telegram client.
type Bot interface {
	Lookup(ctx context.Context, query string) (string, error)
	Connected() bool
}

// RecordStore is the persistence surface the server writes lookup results
// to and serves reads from. *store.Store satisfies it.
type RecordStore interface {
	Save(ctx context.Context, rec *store.Record) error
	GetByFamID(ctx context.Context, famID string) (*store.Record, error)
	List(ctx context.Context, limit int) ([]store.Record, error)
	Count(ctx context.Context) (int64, error)
}

// Config controls the HTTP surface.
type Config struct {
	Addr          string
	LookupTimeout time.Duration
}

// DefaultConfig returns the standard configuration used when no overrides
// are provided.
func DefaultConfig() Config {
	return Config{
		Addr:          ":10000",
		LookupTimeout: 60 * time.Second,
	}
}

// Merge overlays non-zero fields from the override onto the base
// configuration.
func (c Config) Merge(override Config) Config {
	result := c
	if override.Addr != "" {
		result.Addr = override.Addr
	}
	if override.LookupTimeout > 0 {
		result.LookupTimeout = override.LookupTimeout
	}
	return result
}

type Server struct {
	router chi.Router
	store  RecordStore
	bot    Bot
	cfg    Config
}

// NewServer wires the router. Either collaborator may be nil: without a bot
// the lookup endpoint answers 503, without a store results are served but
// not persisted.
func NewServer(recordStore RecordStore, bot Bot, cfg *Config) *Server {
	configuration := DefaultConfig()
	if cfg != nil {
		configuration = configuration.Merge(*cfg)
	}
	srv := &Server{
		router: chi.NewRouter(),
		store:  recordStore,
		bot:    bot,
		cfg:    configuration,
	}
	srv.routes()
	return srv
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	logger := common.Logger()
	s.router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get("X-Request-ID")
			if id == "" {
				id = uuid.NewString()
			}
			w.Header().Set("X-Request-ID", id)
			start := time.Now()
			next.ServeHTTP(w, r)
			logger.Debug("request", "id", id, "method", r.Method, "path", r.URL.Path, "dur", time.Since(start), "remote", r.RemoteAddr)
		})
	})

	s.router.Get("/", s.handleIndex)
	s.router.Get("/healthz", s.handleHealth)
	s.router.Get("/health", s.handleHealth)
	s.router.Get("/api", s.handleLookup)
	s.router.Get("/v1/records", s.handleRecords)
	s.router.Get("/v1/records/{famID}", s.handleRecord)
	s.router.Get("/v1/logs", s.handleLogs)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Telegram FAM API",
		"usage":   "GET /api?fam=upi@fam",
		"example": "/api?fam=sugarsingh@fam",
		"endpoints": map[string]string{
			"/api":              "Run a FAM lookup",
			"/v1/records":       "List stored records",
			"/v1/records/{fam}": "Fetch one stored record",
			"/healthz":          "Health check",
			"/v1/logs":          "Recent log entries",
		},
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := "not_initialized"
	if s.bot != nil {
		if s.bot.Connected() {
			status = "connected"
		} else {
			status = "initialized"
		}
	}
	payload := map[string]interface{}{
		"status":   "healthy",
		"telegram": status,
		"service":  "Telegram FAM API",
	}
	if s.store != nil {
		if count, err := s.store.Count(r.Context()); err == nil {
			payload["records"] = count
		}
	}
	writeJSON(w, http.StatusOK, payload)
}

func (s *Server) handleLogs(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{"logs": common.LogEntries()})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, err error) {
	logger := common.Logger()
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", "status", status, "error", err)
	} else {
		logger.Warn("request failed", "status", status, "error", err)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
