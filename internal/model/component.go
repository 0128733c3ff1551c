package model

import "time"

// Component is one generated UI component version: the prompt that produced
// it, the generated source, the model's description, and its position in the
// project history. Components are immutable once created.
type Component struct {
	ID          string `json:"id"`
	Prompt      string `json:"prompt"`
	Code        string `json:"code"`
	Description string `json:"description"`
	Version     int    `json:"version"`
	Timestamp   int64  `json:"timestamp"`
}

// NewComponent creates a component with the given version number.
// Callers derive the version from Project.NextVersion so that versions are
// dense and monotonically increasing within a project.
func NewComponent(id, prompt, code, description string, version int) Component {
	return Component{
		ID:          id,
		Prompt:      prompt,
		Code:        code,
		Description: description,
		Version:     version,
		Timestamp:   time.Now().UnixMilli(),
	}
}
