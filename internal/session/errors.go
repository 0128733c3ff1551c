package session

import "errors"

var (
	// ErrBusy is returned when a generation or export is already running.
	ErrBusy = errors.New("a generation or export is already in progress")

	// ErrNoComponent is returned by operations that need a generated
	// component when the active project has none selected.
	ErrNoComponent = errors.New("no component to operate on")

	// ErrNotConfigured is returned when a GitHub export is attempted
	// without token, owner, and repository configured.
	ErrNotConfigured = errors.New("github export is not configured")

	// ErrProjectNotFound is returned when selecting a project id that does
	// not exist.
	ErrProjectNotFound = errors.New("project not found")

	// ErrInvalidVersion is returned when selecting a version index outside
	// the project's history.
	ErrInvalidVersion = errors.New("version index out of range")

	// ErrStaleProject is returned when a generation finishes after the user
	// switched projects; the result is discarded rather than written into
	// the wrong project.
	ErrStaleProject = errors.New("generation result discarded: project changed during generation")
)
