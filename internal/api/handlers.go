package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/uidraft/uidraft/internal/export"
	"github.com/uidraft/uidraft/internal/model"
	"github.com/uidraft/uidraft/internal/preview"
	"github.com/uidraft/uidraft/internal/session"
)

// ---------------------------------------------------------------------------
// GET /api/state
// ---------------------------------------------------------------------------

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.orch.Snapshot())
}

// ---------------------------------------------------------------------------
// POST /api/messages
// ---------------------------------------------------------------------------

type messageRequest struct {
	Text         string `json:"text"`
	Image        string `json:"image"`
	ReferenceURL string `json:"reference_url"`
}

func (s *Server) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	var req messageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Text == "" {
		writeError(w, http.StatusBadRequest, "text is required")
		return
	}

	component, err := s.orch.SendMessage(r.Context(), req.Text, req.Image, req.ReferenceURL)
	switch {
	case errors.Is(err, session.ErrBusy):
		writeError(w, http.StatusConflict, "a generation or export is already running")
		return
	case errors.Is(err, session.ErrStaleProject):
		writeError(w, http.StatusConflict, "project changed during generation; result discarded")
		return
	case err != nil:
		writeError(w, http.StatusBadGateway, "generation failed: "+err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, component)
}

// ---------------------------------------------------------------------------
// GET /api/projects, POST /api/projects
// ---------------------------------------------------------------------------

func (s *Server) handleListProjects(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.orch.Snapshot().Projects)
}

func (s *Server) handleNewProject(w http.ResponseWriter, r *http.Request) {
	id := s.orch.NewProject(r.Context())
	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

// ---------------------------------------------------------------------------
// POST /api/projects/{id}/select
// ---------------------------------------------------------------------------

func (s *Server) handleSelectProject(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.orch.SelectProject(r.Context(), id); err != nil {
		if errors.Is(err, session.ErrProjectNotFound) {
			writeError(w, http.StatusNotFound, "project not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to select project")
		return
	}
	writeJSON(w, http.StatusOK, s.orch.Snapshot())
}

// ---------------------------------------------------------------------------
// POST /api/versions/{index}/select
// ---------------------------------------------------------------------------

func (s *Server) handleSelectVersion(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "index must be an integer")
		return
	}
	if err := s.orch.SelectVersion(r.Context(), index); err != nil {
		writeError(w, http.StatusNotFound, "version index out of range")
		return
	}
	writeJSON(w, http.StatusOK, s.orch.Snapshot())
}

// ---------------------------------------------------------------------------
// GET /api/preview
// ---------------------------------------------------------------------------

// handlePreview serves the sandbox document for the current component, or a
// specific version via ?version=N. The playground embeds this URL in an
// iframe with sandbox="allow-scripts allow-modals" so generated code runs in
// an isolated origin.
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	var component *model.Component
	if v := r.URL.Query().Get("version"); v != "" {
		version, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "version must be an integer")
			return
		}
		component = s.orch.ComponentByVersion(version)
	} else {
		component = s.orch.CurrentComponent()
	}
	if component == nil {
		writeError(w, http.StatusNotFound, "no component to preview")
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(preview.Render(component.Code)))
}

// ---------------------------------------------------------------------------
// GET /api/config, PUT /api/config
// ---------------------------------------------------------------------------

type configResponse struct {
	Owner         string `json:"owner"`
	Repo          string `json:"repo"`
	Branch        string `json:"branch"`
	Path          string `json:"path"`
	CommitMessage string `json:"commit_message"`
	TokenSet      bool   `json:"token_set"`
}

func (s *Server) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	cfg := s.config.GithubConfig(r.Context())
	writeJSON(w, http.StatusOK, configResponse{
		Owner:         cfg.Owner,
		Repo:          cfg.Repo,
		Branch:        cfg.Branch,
		Path:          cfg.Path,
		CommitMessage: cfg.CommitMessage,
		TokenSet:      cfg.Token != "",
	})
}

type configRequest struct {
	Token         string `json:"token"`
	Owner         string `json:"owner"`
	Repo          string `json:"repo"`
	Branch        string `json:"branch"`
	Path          string `json:"path"`
	CommitMessage string `json:"commit_message"`
}

func (s *Server) handlePutConfig(w http.ResponseWriter, r *http.Request) {
	var req configRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	cfg := s.config.GithubConfig(r.Context())
	// An empty token keeps the stored one, so the UI never has to echo it.
	if req.Token != "" {
		cfg.Token = req.Token
	}
	cfg.Owner = req.Owner
	cfg.Repo = req.Repo
	if req.Branch != "" {
		cfg.Branch = req.Branch
	}
	if req.Path != "" {
		cfg.Path = req.Path
	}
	cfg.CommitMessage = req.CommitMessage

	if err := s.config.SaveGithubConfig(r.Context(), cfg); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to save config")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "saved"})
}

// ---------------------------------------------------------------------------
// POST /api/export/github
// ---------------------------------------------------------------------------

func (s *Server) handleExportGithub(w http.ResponseWriter, r *http.Request) {
	err := s.orch.ExportGithub(r.Context())
	switch {
	case errors.Is(err, session.ErrBusy):
		writeError(w, http.StatusConflict, "a generation or export is already running")
	case errors.Is(err, session.ErrNotConfigured):
		writeError(w, http.StatusPreconditionFailed, "github export is not configured")
	case errors.Is(err, session.ErrNoComponent):
		writeError(w, http.StatusBadRequest, "no component to export")
	case err != nil:
		writeError(w, http.StatusBadGateway, "export failed: "+err.Error())
	default:
		writeJSON(w, http.StatusOK, map[string]string{"status": "exported"})
	}
}

// ---------------------------------------------------------------------------
// GET /api/export/share
// ---------------------------------------------------------------------------

func (s *Server) handleShare(w http.ResponseWriter, r *http.Request) {
	component := s.orch.CurrentComponent()
	if component == nil {
		writeError(w, http.StatusNotFound, "no component to share")
		return
	}

	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	base := &url.URL{Scheme: scheme, Host: r.Host, Path: "/"}
	writeJSON(w, http.StatusOK, map[string]string{
		"url": export.ShareURL(base, component.Code, component.Prompt),
	})
}

// ---------------------------------------------------------------------------
// POST /api/share/import
// ---------------------------------------------------------------------------

type shareImportRequest struct {
	Code   string `json:"code"`
	Prompt string `json:"prompt"`
}

// handleShareImport hydrates a share link: the playground posts the raw
// query params here and the decoded component becomes a new project.
func (s *Server) handleShareImport(w http.ResponseWriter, r *http.Request) {
	var req shareImportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Code == "" {
		writeError(w, http.StatusBadRequest, "code is required")
		return
	}
	code, err := export.DecodeShareCode(req.Code)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid share code")
		return
	}
	prompt := req.Prompt
	if prompt == "" {
		prompt = "Shared component"
	}

	component, err := s.orch.ImportShared(r.Context(), prompt, code)
	if errors.Is(err, session.ErrBusy) {
		writeError(w, http.StatusConflict, "a generation or export is already running")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "import failed")
		return
	}
	writeJSON(w, http.StatusCreated, component)
}

// ---------------------------------------------------------------------------
// GET /api/github/repos
// ---------------------------------------------------------------------------

func (s *Server) handleListRepos(w http.ResponseWriter, r *http.Request) {
	cfg := s.config.GithubConfig(r.Context())
	if cfg.Token == "" {
		writeJSON(w, http.StatusOK, []export.Repo{})
		return
	}

	repos, err := s.github.ListRepos(r.Context(), cfg.Token)
	if err != nil {
		// The repo picker is a convenience; degrade to an empty list.
		slog.Warn("list github repos failed", "error", err)
		writeJSON(w, http.StatusOK, []export.Repo{})
		return
	}
	if repos == nil {
		repos = []export.Repo{}
	}
	writeJSON(w, http.StatusOK, repos)
}
