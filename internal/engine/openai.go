package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/uidraft/uidraft/internal/model"
)

// OpenAIClient implements ModelClient using the OpenAI Chat Completions API.
// It also works with any OpenAI-compatible service by setting a custom base URL.
type OpenAIClient struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
}

// OpenAIOption configures the OpenAI client.
type OpenAIOption func(*OpenAIClient)

// WithModel sets the model name (default: gpt-4o-mini).
func WithModel(model string) OpenAIOption {
	return func(c *OpenAIClient) { c.model = model }
}

// WithBaseURL overrides the API endpoint (default: https://api.openai.com/v1).
func WithBaseURL(url string) OpenAIOption {
	return func(c *OpenAIClient) { c.baseURL = strings.TrimRight(url, "/") }
}

// WithTimeout sets the HTTP client timeout (default: 120s).
func WithTimeout(d time.Duration) OpenAIOption {
	return func(c *OpenAIClient) { c.httpClient.Timeout = d }
}

// NewOpenAIClient creates a new OpenAI model client.
func NewOpenAIClient(apiKey string, opts ...OpenAIOption) *OpenAIClient {
	c := &OpenAIClient{
		apiKey:  apiKey,
		baseURL: "https://api.openai.com/v1",
		model:   "gpt-4o-mini",
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
	Temperature    float64         `json:"temperature"`
}

type responseFormat struct {
	Type string `json:"type"`
}

// chatMessage content is either a plain string or a list of contentPart for
// multimodal turns.
type chatMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type imageURL struct {
	URL string `json:"url"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// GenerateComponent maps the conversation onto Chat Completions messages and
// parses the structured result.
func (c *OpenAIClient) GenerateComponent(ctx context.Context, req GenerateRequest) (*GenerationResult, error) {
	messages := make([]chatMessage, 0, len(req.History)+2)
	messages = append(messages, chatMessage{Role: "system", Content: systemInstruction})

	for _, m := range req.History {
		role := "user"
		if m.Role == model.RoleAssistant {
			role = "assistant"
		}
		if m.Image != "" {
			messages = append(messages, chatMessage{Role: role, Content: multimodalContent(m.Content, m.Image)})
		} else {
			messages = append(messages, chatMessage{Role: role, Content: m.Content})
		}
	}

	prompt := buildUserPrompt(req.Prompt, req.Reference)
	if req.Image != "" {
		messages = append(messages, chatMessage{Role: "user", Content: multimodalContent(prompt, req.Image)})
	} else {
		messages = append(messages, chatMessage{Role: "user", Content: prompt})
	}

	text, err := c.doRequest(ctx, chatRequest{
		Model:          c.model,
		Messages:       messages,
		ResponseFormat: &responseFormat{Type: "json_object"},
		Temperature:    0.3,
	})
	if err != nil {
		return nil, fmt.Errorf("openai: %w", err)
	}

	var result GenerationResult
	if err := json.Unmarshal([]byte(text), &result); err != nil {
		return nil, &MalformedResponseError{Raw: text, Err: err}
	}
	if result.Code == "" {
		return nil, &MalformedResponseError{Raw: text, Err: fmt.Errorf("missing code field")}
	}
	return &result, nil
}

// SuggestNextSteps asks for up to three short follow-up prompts.
func (c *OpenAIClient) SuggestNextSteps(ctx context.Context, description, code string) ([]string, error) {
	text, err := c.doRequest(ctx, chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "user", Content: buildSuggestPrompt(description, code)},
		},
		ResponseFormat: &responseFormat{Type: "json_object"},
		Temperature:    0.3,
	})
	if err != nil {
		return nil, fmt.Errorf("openai: %w", err)
	}

	var result struct {
		Suggestions []string `json:"suggestions"`
	}
	if err := json.Unmarshal([]byte(text), &result); err != nil {
		return nil, &MalformedResponseError{Raw: text, Err: err}
	}
	if len(result.Suggestions) > 3 {
		result.Suggestions = result.Suggestions[:3]
	}
	return result.Suggestions, nil
}

// multimodalContent builds a text part plus an image part. The vision API
// wants a full data URL, so a raw base64 payload gets a PNG header.
func multimodalContent(text, image string) []contentPart {
	url := image
	if !strings.HasPrefix(url, "data:") {
		url = "data:image/png;base64," + url
	}
	return []contentPart{
		{Type: "text", Text: text},
		{Type: "image_url", ImageURL: &imageURL{URL: url}},
	}
}

func (c *OpenAIClient) doRequest(ctx context.Context, reqBody chatRequest) (string, error) {
	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", &apiError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	var chatResp chatResponse
	if err := json.Unmarshal(respBody, &chatResp); err != nil {
		return "", fmt.Errorf("unmarshal response: %w", err)
	}

	if chatResp.Error != nil {
		return "", fmt.Errorf("api error: %s", chatResp.Error.Message)
	}

	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("no choices in response")
	}

	return chatResp.Choices[0].Message.Content, nil
}
