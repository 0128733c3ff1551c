package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/uidraft/uidraft/internal/model"
)

// The store is a small key-value blob store with three independent slots.
// Each save is a whole-value replacement of one slot; there are no
// transactions across slots and the last write wins.
const (
	slotActiveProject = "active_project"
	slotProjects      = "projects"
	slotGithubConfig  = "github_config"
)

// Verify at compile time that Store implements all interfaces.
var (
	_ ProjectStore = (*Store)(nil)
	_ ConfigStore  = (*Store)(nil)
)

// Store provides data access to the SQLite database.
type Store struct {
	db *sql.DB
}

// New creates a new Store and initialises the schema.
func New(db *sql.DB) (*Store, error) {
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// currentSchemaVersion is bumped whenever the schema changes.
// Add a new migration function in the migrations slice below.
const currentSchemaVersion = 1

func (s *Store) migrate() error {
	// Ensure the schema_version table exists.
	if _, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS schema_version (version INTEGER NOT NULL)`); err != nil {
		return fmt.Errorf("create schema_version table: %w", err)
	}

	var version int
	err := s.db.QueryRow(`SELECT version FROM schema_version LIMIT 1`).Scan(&version)
	if errors.Is(err, sql.ErrNoRows) {
		// Fresh database: initialize to version 0.
		if _, err := s.db.Exec(`INSERT INTO schema_version (version) VALUES (0)`); err != nil {
			return fmt.Errorf("init schema version: %w", err)
		}
		version = 0
	} else if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}

	// migrations is an ordered list of migration functions.
	// Index 0 = migration from v0 to v1, etc.
	migrations := []func() error{
		s.migrateV1, // v0 → v1: initial schema
	}

	for i := version; i < len(migrations); i++ {
		if err := migrations[i](); err != nil {
			return fmt.Errorf("migration v%d→v%d: %w", i, i+1, err)
		}
		if _, err := s.db.Exec(`UPDATE schema_version SET version = ?`, i+1); err != nil {
			return fmt.Errorf("update schema version to %d: %w", i+1, err)
		}
	}

	return nil
}

// migrateV1 creates the initial schema (v0 → v1).
func (s *Store) migrateV1() error {
	schema := `
	CREATE TABLE IF NOT EXISTS slots (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// ---------------------------------------------------------------------------
// Slot primitives
// ---------------------------------------------------------------------------

// getSlot reads the raw value of a slot. A missing slot is not an error;
// it is reported through ok=false.
func (s *Store) getSlot(ctx context.Context, key string) (value string, ok bool) {
	err := s.db.QueryRowContext(ctx, `SELECT value FROM slots WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false
	}
	if err != nil {
		slog.Warn("store read failed, using default", "key", key, "error", err)
		return "", false
	}
	return value, true
}

// setSlot replaces the whole value of a slot.
func (s *Store) setSlot(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO slots (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value)
	if err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Typed accessors
// ---------------------------------------------------------------------------

// ActiveProjectID returns the persisted active project id, or "" when none
// has been saved yet.
func (s *Store) ActiveProjectID(ctx context.Context) string {
	v, _ := s.getSlot(ctx, slotActiveProject)
	return v
}

// SetActiveProjectID persists the active project id.
func (s *Store) SetActiveProjectID(ctx context.Context, id string) error {
	return s.setSlot(ctx, slotActiveProject, id)
}

// Projects returns all persisted projects. A missing or corrupt slot yields
// an empty slice; loading never fails.
func (s *Store) Projects(ctx context.Context) []*model.Project {
	raw, ok := s.getSlot(ctx, slotProjects)
	if !ok {
		return nil
	}
	var projects []*model.Project
	if err := json.Unmarshal([]byte(raw), &projects); err != nil {
		slog.Warn("corrupt project list in store, starting empty", "error", err)
		return nil
	}
	return projects
}

// SaveProjects replaces the whole persisted project list.
func (s *Store) SaveProjects(ctx context.Context, projects []*model.Project) error {
	if projects == nil {
		projects = []*model.Project{}
	}
	raw, err := json.Marshal(projects)
	if err != nil {
		return fmt.Errorf("marshal projects: %w", err)
	}
	return s.setSlot(ctx, slotProjects, string(raw))
}

// GithubConfig returns the persisted GitHub export settings, falling back
// to defaults when the slot is missing or corrupt.
func (s *Store) GithubConfig(ctx context.Context) model.GithubConfig {
	raw, ok := s.getSlot(ctx, slotGithubConfig)
	if !ok {
		return model.DefaultGithubConfig()
	}
	cfg := model.DefaultGithubConfig()
	if err := json.Unmarshal([]byte(raw), &cfg); err != nil {
		slog.Warn("corrupt github config in store, using defaults", "error", err)
		return model.DefaultGithubConfig()
	}
	return cfg
}

// SaveGithubConfig replaces the persisted GitHub export settings.
func (s *Store) SaveGithubConfig(ctx context.Context, cfg model.GithubConfig) error {
	raw, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal github config: %w", err)
	}
	return s.setSlot(ctx, slotGithubConfig, string(raw))
}
