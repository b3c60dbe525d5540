package server

import (
	"log/slog"
	"net/http"
)

// Config contains server configuration options.
type Config struct {
	// AllowedOrigins is the list of allowed CORS origins.
	AllowedOrigins []string
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		AllowedOrigins: []string{"*"},
	}
}

// NewRouter creates a new HTTP router with all routes configured.
// It uses Go 1.22+ ServeMux with method-based routing.
func NewRouter(h *Handlers, logger *slog.Logger, cfg Config) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", h.Health)
	mux.HandleFunc("GET /structures", h.ListStructures)
	mux.HandleFunc("GET /styles", h.ListStyles)

	mux.HandleFunc("POST /sessions", h.CreateSession)
	mux.HandleFunc("GET /sessions", h.ListSessions)
	mux.HandleFunc("GET /sessions/{id}", h.GetSession)
	mux.HandleFunc("DELETE /sessions/{id}", h.DeleteSession)
	mux.HandleFunc("PUT /sessions/{id}/structure", h.SelectStructure)

	mux.HandleFunc("POST /sessions/{id}/generate", h.Generate)
	mux.HandleFunc("POST /sessions/{id}/scenes/{sceneId}/image", h.RegenerateImage)
	mux.HandleFunc("POST /sessions/{id}/scenes/{sceneId}/video", h.GenerateVideo)
	mux.HandleFunc("PUT /sessions/{id}/scenes/{sceneId}/prompt", h.UpdatePrompt)
	mux.HandleFunc("PUT /sessions/{id}/scenes/{sceneId}/script", h.UpdateScript)

	chain := ChainMiddleware(
		RecoveryMiddleware(logger),
		LoggingMiddleware(logger),
		CORSMiddleware(cfg.AllowedOrigins),
	)

	return chain(mux)
}
