package store

import (
	"context"

	"github.com/uidraft/uidraft/internal/model"
)

// ProjectStore is the persistence surface the session orchestrator depends
// on. Loads never fail: missing or corrupt data yields the zero value.
type ProjectStore interface {
	ActiveProjectID(ctx context.Context) string
	SetActiveProjectID(ctx context.Context, id string) error
	Projects(ctx context.Context) []*model.Project
	SaveProjects(ctx context.Context, projects []*model.Project) error
}

// ConfigStore provides access to the GitHub export settings.
type ConfigStore interface {
	GithubConfig(ctx context.Context) model.GithubConfig
	SaveGithubConfig(ctx context.Context, cfg model.GithubConfig) error
}

// Repository combines all persistence operations for the API layer.
type Repository interface {
	ProjectStore
	ConfigStore
}
