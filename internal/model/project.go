package model

import "time"

const (
	// untitledName is the display name for a project with no history.
	untitledName = "Untitled Project"
	// nameMaxRunes is the number of prompt runes used for a derived name.
	nameMaxRunes = 30
)

// Project bundles a conversation with its component version history and a
// pointer to the currently selected version. Name and LastModified are
// derived fields: they are recomputed by Touch at every persistence point,
// never set directly.
type Project struct {
	ID           string      `json:"id"`
	Name         string      `json:"name"`
	LastModified int64       `json:"last_modified"`
	History      []Component `json:"history"`
	Messages     []Message   `json:"messages"`
	// CurrentIndex points into History; -1 means no version is selected.
	CurrentIndex int `json:"current_index"`
}

// NewProject creates an empty project. It is not persisted until its first
// state change.
func NewProject(id string) *Project {
	return &Project{
		ID:           id,
		Name:         untitledName,
		LastModified: time.Now().UnixMilli(),
		CurrentIndex: -1,
	}
}

// NextVersion returns the version number the next generated component
// should carry: one past the current history length, so versions are dense
// and never reused.
func (p *Project) NextVersion() int {
	return len(p.History) + 1
}

// DisplayName derives the project name from the most recent prompt: its
// first 30 runes, with an ellipsis when truncated, or "Untitled Project"
// for an empty history.
func (p *Project) DisplayName() string {
	if len(p.History) == 0 {
		return untitledName
	}
	prompt := p.History[len(p.History)-1].Prompt
	runes := []rune(prompt)
	if len(runes) <= nameMaxRunes {
		return prompt
	}
	return string(runes[:nameMaxRunes]) + "..."
}

// Touch recomputes the derived fields. It is the single place where Name
// and LastModified change; the orchestrator calls it immediately before
// every save.
func (p *Project) Touch() {
	p.Name = p.DisplayName()
	p.LastModified = time.Now().UnixMilli()
}

// Current returns the selected component, or nil when no version is
// selected or the index is out of range.
func (p *Project) Current() *Component {
	return p.At(p.CurrentIndex)
}

// At returns the component at the given history index, or nil when the
// index is out of range.
func (p *Project) At(i int) *Component {
	if i < 0 || i >= len(p.History) {
		return nil
	}
	return &p.History[i]
}

// Clone returns a deep copy of the project. Callers that hand a project to
// code outside the orchestrator's lock use it to avoid sharing slices.
func (p *Project) Clone() *Project {
	cp := *p
	cp.History = append([]Component(nil), p.History...)
	cp.Messages = append([]Message(nil), p.Messages...)
	return &cp
}
