package model

// GithubConfig holds the GitHub export settings. It is a flat settings
// record, persisted separately from projects and never versioned.
type GithubConfig struct {
	Token         string `json:"token"`
	Repo          string `json:"repo"`
	Owner         string `json:"owner"`
	Branch        string `json:"branch"`
	Path          string `json:"path"`
	CommitMessage string `json:"commit_message"`
}

// DefaultGithubConfig returns the config used before the user has saved
// their own settings.
func DefaultGithubConfig() GithubConfig {
	return GithubConfig{
		Branch:        "main",
		Path:          "components/GeneratedUI.tsx",
		CommitMessage: "feat: add AI generated component",
	}
}

// Ready reports whether the config carries enough to attempt an export.
func (c GithubConfig) Ready() bool {
	return c.Token != "" && c.Owner != "" && c.Repo != ""
}
