package api

import (
	"context"
	"encoding/json"
	"net/http"
	"os"

	"github.com/uidraft/uidraft/internal/export"
	"github.com/uidraft/uidraft/internal/session"
	"github.com/uidraft/uidraft/internal/store"
)

// maxRequestBody is the maximum allowed request body size (8 MB). Messages
// can carry base64-encoded reference images, which are large.
const maxRequestBody int64 = 8 << 20

// GithubAPI is the slice of the GitHub client the handlers need.
type GithubAPI interface {
	ListRepos(ctx context.Context, token string) ([]export.Repo, error)
}

// Server holds the HTTP handlers and dependencies.
type Server struct {
	orch   *session.Orchestrator
	github GithubAPI
	config store.ConfigStore
	mux    *http.ServeMux
}

// New creates a new API server.
func New(orch *session.Orchestrator, github GithubAPI, config store.ConfigStore) *Server {
	srv := &Server{orch: orch, github: github, config: config, mux: http.NewServeMux()}
	srv.routes()
	return srv
}

// Handler returns the root http.Handler with middleware applied.
func (s *Server) Handler() http.Handler {
	return corsMiddleware(limitBody(s.mux))
}

func (s *Server) routes() {
	s.mux.HandleFunc("GET /api/state", s.handleState)
	s.mux.HandleFunc("POST /api/messages", s.handleSendMessage)
	s.mux.HandleFunc("GET /api/projects", s.handleListProjects)
	s.mux.HandleFunc("POST /api/projects", s.handleNewProject)
	s.mux.HandleFunc("POST /api/projects/{id}/select", s.handleSelectProject)
	s.mux.HandleFunc("POST /api/versions/{index}/select", s.handleSelectVersion)
	s.mux.HandleFunc("GET /api/preview", s.handlePreview)
	s.mux.HandleFunc("GET /api/config", s.handleGetConfig)
	s.mux.HandleFunc("PUT /api/config", s.handlePutConfig)
	s.mux.HandleFunc("POST /api/export/github", s.handleExportGithub)
	s.mux.HandleFunc("GET /api/export/share", s.handleShare)
	s.mux.HandleFunc("POST /api/share/import", s.handleShareImport)
	s.mux.HandleFunc("GET /api/github/repos", s.handleListRepos)
}

// ---------------------------------------------------------------------------
// Middleware
// ---------------------------------------------------------------------------

// corsMiddleware sets CORS headers. The allowed origin is configurable via the
// CORS_ORIGIN environment variable; defaults to "*" for development.
func corsMiddleware(next http.Handler) http.Handler {
	origin := os.Getenv("CORS_ORIGIN")
	if origin == "" {
		origin = "*" // TODO: restrict in production
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// limitBody restricts the request body to maxRequestBody bytes.
func limitBody(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
		next.ServeHTTP(w, r)
	})
}

// ---------------------------------------------------------------------------
// Response helpers
// ---------------------------------------------------------------------------

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
