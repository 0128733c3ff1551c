package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/uidraft/uidraft/internal/engine"
	"github.com/uidraft/uidraft/internal/model"
	"github.com/uidraft/uidraft/internal/store"
)

// Exporter pushes a component to an external destination.
type Exporter interface {
	UpsertFile(ctx context.Context, cfg model.GithubConfig, code string, version int) error
}

// Orchestrator owns the session state: the project list, the active project,
// and the single in-flight generation or export. All public methods are safe
// for concurrent use; a second generation or export while one is running is
// rejected with ErrBusy rather than queued.
type Orchestrator struct {
	store     store.Repository
	model     engine.ModelClient
	extractor engine.ReferenceExtractor
	exporter  Exporter
	logger    *slog.Logger

	mu          sync.Mutex
	projects    []*model.Project
	activeID    string
	status      Status
	lastError   string
	suggestions []string

	progress       progress
	stepInterval   time.Duration
	suggestTimeout time.Duration
	suggestWG      sync.WaitGroup
}

// Option configures the orchestrator.
type Option func(*Orchestrator)

// WithExtractor enables reference URL extraction for generation requests.
func WithExtractor(e engine.ReferenceExtractor) Option {
	return func(o *Orchestrator) { o.extractor = e }
}

// WithExporter enables GitHub export.
func WithExporter(e Exporter) Option {
	return func(o *Orchestrator) { o.exporter = e }
}

// WithLogger sets the logger (default slog.Default).
func WithLogger(l *slog.Logger) Option {
	return func(o *Orchestrator) { o.logger = l }
}

// WithStepInterval overrides the progress label rotation interval.
func WithStepInterval(d time.Duration) Option {
	return func(o *Orchestrator) { o.stepInterval = d }
}

// New creates an orchestrator, loading persisted projects and the active
// project id from the store. A fresh install starts on an empty unsaved
// project; it is only written once the first message arrives.
func New(ctx context.Context, repo store.Repository, modelClient engine.ModelClient, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		store:          repo,
		model:          modelClient,
		logger:         slog.Default(),
		status:         StatusIdle,
		stepInterval:   defaultStepInterval,
		suggestTimeout: 30 * time.Second,
	}
	for _, opt := range opts {
		opt(o)
	}

	o.projects = repo.Projects(ctx)
	o.activeID = repo.ActiveProjectID(ctx)
	if o.activeID == "" {
		o.activeID = uuid.NewString()
	}
	return o
}

// SendMessage runs one generation turn: it appends the user message, calls
// the model with the prior conversation, and on success appends the new
// component version and the assistant's reply. The returned component is a
// copy.
//
// If the active project changes while the model call is in flight, the
// result is discarded and ErrStaleProject is returned so a slow generation
// can never write into a project the user has switched away from.
func (o *Orchestrator) SendMessage(ctx context.Context, text, image, referenceURL string) (*model.Component, error) {
	o.mu.Lock()
	if o.busyLocked() {
		o.mu.Unlock()
		return nil, ErrBusy
	}

	project := o.activeProjectLocked()
	requestProject := o.activeID

	// The model sees the conversation as it was before this turn.
	history := make([]model.Message, len(project.Messages))
	copy(history, project.Messages)

	project.Messages = append(project.Messages, model.NewUserMessage(text, image))
	o.status = StatusGenerating
	o.lastError = ""
	o.suggestions = nil
	o.progress.startRotation(generationSteps, o.stepInterval)
	o.syncLocked(ctx)
	o.mu.Unlock()

	var reference string
	if referenceURL != "" && o.extractor != nil {
		ref, err := o.extractor.Extract(ctx, referenceURL)
		if err != nil {
			// Degrade to a plain generation rather than failing the turn.
			o.logger.Warn("reference extraction failed", "url", referenceURL, "error", err)
		} else {
			reference = ref
		}
	}

	result, genErr := o.model.GenerateComponent(ctx, engine.GenerateRequest{
		Prompt:    text,
		History:   history,
		Image:     image,
		Reference: reference,
	})

	o.mu.Lock()
	defer o.mu.Unlock()
	o.progress.stopRotation()

	if genErr != nil {
		o.status = StatusError
		o.lastError = genErr.Error()
		o.syncLocked(ctx)
		return nil, genErr
	}

	if o.activeID != requestProject {
		o.status = StatusIdle
		o.logger.Warn("discarding generation result for switched-away project", "project_id", requestProject)
		return nil, ErrStaleProject
	}

	component := model.NewComponent(uuid.NewString(), text, result.Code, result.Description, project.NextVersion())
	project.History = append(project.History, component)
	project.CurrentIndex = len(project.History) - 1
	project.Messages = append(project.Messages, model.NewAssistantMessage(result.Description))
	o.status = StatusIdle
	o.syncLocked(ctx)

	o.suggestWG.Add(1)
	go o.fetchSuggestions(requestProject, result.Description, result.Code)

	return &component, nil
}

// fetchSuggestions asks the model for follow-up prompts in the background.
// Failures are logged and dropped; stale results are dropped too.
func (o *Orchestrator) fetchSuggestions(projectID, description, code string) {
	defer o.suggestWG.Done()

	ctx, cancel := context.WithTimeout(context.Background(), o.suggestTimeout)
	defer cancel()

	suggestions, err := o.model.SuggestNextSteps(ctx, description, code)
	if err != nil {
		o.logger.Warn("suggestion fetch failed", "error", err)
		return
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	if o.activeID == projectID {
		o.suggestions = suggestions
	}
}

// ImportShared creates a new project seeded with a component received via a
// share link and makes it the active project. The component becomes version 1
// of a fresh history, so the user can iterate on it like any generated one.
func (o *Orchestrator) ImportShared(ctx context.Context, prompt, code string) (*model.Component, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.busyLocked() {
		return nil, ErrBusy
	}

	project := model.NewProject(uuid.NewString())
	o.projects = append(o.projects, project)
	o.activeID = project.ID
	o.status = StatusIdle
	o.lastError = ""
	o.suggestions = nil

	project.Messages = append(project.Messages, model.NewUserMessage(prompt, ""))
	component := model.NewComponent(uuid.NewString(), prompt, code, "Imported from a shared link.", project.NextVersion())
	project.History = append(project.History, component)
	project.CurrentIndex = 0
	project.Messages = append(project.Messages, model.NewAssistantMessage(component.Description))
	o.syncLocked(ctx)
	return &component, nil
}

// NewProject switches to a fresh empty project and returns its id. The
// project itself is not persisted until its first message.
func (o *Orchestrator) NewProject(ctx context.Context) string {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.activeID = uuid.NewString()
	o.status = StatusIdle
	o.lastError = ""
	o.suggestions = nil
	if err := o.store.SetActiveProjectID(ctx, o.activeID); err != nil {
		o.logger.Error("persist active project id", "error", err)
	}
	return o.activeID
}

// SelectProject switches the active project to an existing saved project.
func (o *Orchestrator) SelectProject(ctx context.Context, id string) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.findProjectLocked(id) == nil {
		return ErrProjectNotFound
	}
	o.activeID = id
	o.status = StatusIdle
	o.lastError = ""
	o.suggestions = nil
	if err := o.store.SetActiveProjectID(ctx, id); err != nil {
		o.logger.Error("persist active project id", "error", err)
	}
	return nil
}

// SelectVersion moves the active project's pointer to a prior (or later)
// version by history index.
func (o *Orchestrator) SelectVersion(ctx context.Context, index int) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	project := o.findProjectLocked(o.activeID)
	if project == nil || index < 0 || index >= len(project.History) {
		return ErrInvalidVersion
	}
	project.CurrentIndex = index
	o.syncLocked(ctx)
	return nil
}

// ExportGithub pushes the active project's current component to the
// configured GitHub repository.
func (o *Orchestrator) ExportGithub(ctx context.Context) error {
	o.mu.Lock()
	if o.busyLocked() {
		o.mu.Unlock()
		return ErrBusy
	}

	cfg := o.store.GithubConfig(ctx)
	if o.exporter == nil || !cfg.Ready() {
		o.mu.Unlock()
		return ErrNotConfigured
	}

	var component *model.Component
	if project := o.findProjectLocked(o.activeID); project != nil {
		component = project.Current()
	}
	if component == nil {
		o.mu.Unlock()
		return ErrNoComponent
	}

	o.status = StatusExporting
	o.lastError = ""
	o.progress.set(exportStep)
	code, version := component.Code, component.Version
	o.mu.Unlock()

	err := o.exporter.UpsertFile(ctx, cfg, code, version)

	o.mu.Lock()
	defer o.mu.Unlock()
	o.progress.stopRotation()
	if err != nil {
		o.status = StatusError
		o.lastError = err.Error()
		return err
	}
	o.status = StatusIdle
	return nil
}

// CurrentComponent returns a copy of the component the active project points
// at, or nil when there is none.
func (o *Orchestrator) CurrentComponent() *model.Component {
	o.mu.Lock()
	defer o.mu.Unlock()

	project := o.findProjectLocked(o.activeID)
	if project == nil {
		return nil
	}
	if c := project.Current(); c != nil {
		copied := *c
		return &copied
	}
	return nil
}

// ComponentByVersion returns a copy of the active project's component with
// the given 1-based version number.
func (o *Orchestrator) ComponentByVersion(version int) *model.Component {
	o.mu.Lock()
	defer o.mu.Unlock()

	project := o.findProjectLocked(o.activeID)
	if project == nil {
		return nil
	}
	for i := range project.History {
		if project.History[i].Version == version {
			copied := project.History[i]
			return &copied
		}
	}
	return nil
}

// ProjectSummary is the list entry shown in the project switcher.
type ProjectSummary struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	LastModified int64  `json:"last_modified"`
	Versions     int    `json:"versions"`
}

// Snapshot is a consistent copy of the session state for rendering.
type Snapshot struct {
	Status          Status           `json:"status"`
	ProgressLabel   string           `json:"progress_label,omitempty"`
	LastError       string           `json:"last_error,omitempty"`
	Suggestions     []string         `json:"suggestions,omitempty"`
	ActiveProjectID string           `json:"active_project_id"`
	Project         *model.Project   `json:"project,omitempty"`
	Projects        []ProjectSummary `json:"projects"`
}

// Snapshot returns a deep copy of the current state. The embedded project is
// cloned, so callers can serialize it without holding any lock.
func (o *Orchestrator) Snapshot() Snapshot {
	o.mu.Lock()
	defer o.mu.Unlock()

	snap := Snapshot{
		Status:          o.status,
		ProgressLabel:   o.progress.current(),
		LastError:       o.lastError,
		Suggestions:     append([]string(nil), o.suggestions...),
		ActiveProjectID: o.activeID,
		Projects:        make([]ProjectSummary, 0, len(o.projects)),
	}
	for _, p := range o.projects {
		snap.Projects = append(snap.Projects, ProjectSummary{
			ID:           p.ID,
			Name:         p.Name,
			LastModified: p.LastModified,
			Versions:     len(p.History),
		})
	}
	if p := o.findProjectLocked(o.activeID); p != nil {
		snap.Project = p.Clone()
	}
	return snap
}

func (o *Orchestrator) busyLocked() bool {
	return o.status == StatusGenerating || o.status == StatusExporting
}

func (o *Orchestrator) findProjectLocked(id string) *model.Project {
	for _, p := range o.projects {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// activeProjectLocked returns the active project, materializing it in memory
// on first use.
func (o *Orchestrator) activeProjectLocked() *model.Project {
	if p := o.findProjectLocked(o.activeID); p != nil {
		return p
	}
	p := model.NewProject(o.activeID)
	o.projects = append(o.projects, p)
	return p
}

// syncLocked recomputes the active project's derived fields and writes the
// whole state to the store. Persistence failures are logged, not surfaced;
// the in-memory session stays usable.
func (o *Orchestrator) syncLocked(ctx context.Context) {
	if p := o.findProjectLocked(o.activeID); p != nil {
		p.Touch()
	}
	if err := o.store.SaveProjects(ctx, o.projects); err != nil {
		o.logger.Error("persist projects", "error", err)
	}
	if err := o.store.SetActiveProjectID(ctx, o.activeID); err != nil {
		o.logger.Error("persist active project id", "error", err)
	}
}
