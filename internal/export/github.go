package export

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/uidraft/uidraft/internal/model"
)

const defaultGithubBaseURL = "https://api.github.com"

// Client talks to the GitHub REST API for repo listing and component export.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option configures the GitHub client.
type Option func(*Client)

// WithBaseURL overrides the API endpoint.
func WithBaseURL(url string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(url, "/") }
}

// NewClient creates a GitHub API client. Tokens are passed per call, not
// held by the client, since the configured token can change at runtime.
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL: defaultGithubBaseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Repo is one entry from the authenticated user's repository list.
type Repo struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	FullName string `json:"full_name"`
	Private  bool   `json:"private"`
	Owner    struct {
		Login string `json:"login"`
	} `json:"owner"`
}

// ListRepos returns the user's repositories, most recently updated first.
func (c *Client) ListRepos(ctx context.Context, token string) ([]Repo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/user/repos?sort=updated&per_page=100", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "token "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("list repos: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("github: HTTP %d: %s", resp.StatusCode, body)
	}

	var repos []Repo
	if err := json.Unmarshal(body, &repos); err != nil {
		return nil, fmt.Errorf("unmarshal repos: %w", err)
	}
	return repos, nil
}

type contentsRequest struct {
	Message string `json:"message"`
	Content string `json:"content"`
	Branch  string `json:"branch"`
	SHA     string `json:"sha,omitempty"`
}

// UpsertFile creates or updates the configured file with the component code.
// The contents API requires the current blob SHA to update an existing file,
// so the file is looked up first; a 404 there means a plain create.
func (c *Client) UpsertFile(ctx context.Context, cfg model.GithubConfig, code string, version int) error {
	message := cfg.CommitMessage
	if message == "" {
		message = fmt.Sprintf("Add v%d of component", version)
	}

	url := fmt.Sprintf("%s/repos/%s/%s/contents/%s", c.baseURL, cfg.Owner, cfg.Repo, cfg.Path)

	sha, err := c.existingSHA(ctx, url, cfg.Token, cfg.Branch)
	if err != nil {
		return err
	}

	body, err := json.Marshal(contentsRequest{
		Message: message,
		Content: base64.StdEncoding.EncodeToString([]byte(code)),
		Branch:  cfg.Branch,
		SHA:     sha,
	})
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "token "+cfg.Token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("upsert file: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("github: HTTP %d: %s", resp.StatusCode, respBody)
	}
	return nil
}

// existingSHA fetches the blob SHA of the target file, or "" if it does not
// exist yet.
func (c *Client) existingSHA(ctx context.Context, url, token, branch string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url+"?ref="+branch, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "token "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("check existing file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return "", nil
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("github: HTTP %d: %s", resp.StatusCode, body)
	}

	var file struct {
		SHA string `json:"sha"`
	}
	if err := json.Unmarshal(body, &file); err != nil {
		return "", fmt.Errorf("unmarshal file metadata: %w", err)
	}
	return file.SHA, nil
}
