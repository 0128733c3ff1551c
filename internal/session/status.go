package session

// Status describes what the orchestrator is currently doing. At most one
// generation or export runs at a time.
type Status string

const (
	StatusIdle       Status = "IDLE"
	StatusGenerating Status = "GENERATING"
	StatusExporting  Status = "EXPORTING"
	StatusError      Status = "ERROR"
)
