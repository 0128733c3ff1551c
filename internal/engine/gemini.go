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

const defaultGeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// GeminiClient implements ModelClient using the Google Generative AI REST API.
type GeminiClient struct {
	apiKey       string
	model        string
	suggestModel string
	baseURL      string
	httpClient   *http.Client
}

// GeminiOption configures the Gemini client.
type GeminiOption func(*GeminiClient)

// WithGeminiModel sets the model used for component generation.
func WithGeminiModel(model string) GeminiOption {
	return func(c *GeminiClient) { c.model = model }
}

// WithGeminiSuggestModel sets the (typically cheaper) model used for
// follow-up suggestions.
func WithGeminiSuggestModel(model string) GeminiOption {
	return func(c *GeminiClient) { c.suggestModel = model }
}

// WithGeminiBaseURL overrides the API endpoint.
func WithGeminiBaseURL(url string) GeminiOption {
	return func(c *GeminiClient) { c.baseURL = strings.TrimRight(url, "/") }
}

// WithGeminiTimeout overrides the per-request HTTP timeout.
func WithGeminiTimeout(d time.Duration) GeminiOption {
	return func(c *GeminiClient) { c.httpClient.Timeout = d }
}

// NewGeminiClient creates a new Google Gemini model client.
func NewGeminiClient(apiKey string, opts ...GeminiOption) *GeminiClient {
	c := &GeminiClient{
		apiKey:       apiKey,
		model:        "gemini-3-pro-preview",
		suggestModel: "gemini-3-flash-preview",
		baseURL:      defaultGeminiBaseURL,
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type geminiRequest struct {
	SystemInstruction *geminiContent  `json:"systemInstruction,omitempty"`
	Contents          []geminiContent `json:"contents"`
	GenerationConfig  geminiGenConfig `json:"generationConfig"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text       string            `json:"text,omitempty"`
	InlineData *geminiInlineData `json:"inlineData,omitempty"`
}

type geminiInlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

type geminiGenConfig struct {
	ResponseMimeType string        `json:"responseMimeType,omitempty"`
	ResponseSchema   *geminiSchema `json:"responseSchema,omitempty"`
}

// geminiSchema is the subset of the OpenAPI schema dialect the API accepts
// for constrained JSON output.
type geminiSchema struct {
	Type       string                   `json:"type"`
	Properties map[string]*geminiSchema `json:"properties,omitempty"`
	Items      *geminiSchema            `json:"items,omitempty"`
	Required   []string                 `json:"required,omitempty"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

var generationSchema = &geminiSchema{
	Type: "OBJECT",
	Properties: map[string]*geminiSchema{
		"code":        {Type: "STRING"},
		"description": {Type: "STRING"},
	},
	Required: []string{"code", "description"},
}

var suggestionsSchema = &geminiSchema{
	Type: "OBJECT",
	Properties: map[string]*geminiSchema{
		"suggestions": {
			Type:  "ARRAY",
			Items: &geminiSchema{Type: "STRING"},
		},
	},
	Required: []string{"suggestions"},
}

// GenerateComponent sends the full conversation plus the current prompt to
// Gemini and parses the structured result. It does not retry; the caller
// surfaces failures to the user, who can resubmit.
func (c *GeminiClient) GenerateComponent(ctx context.Context, req GenerateRequest) (*GenerationResult, error) {
	contents := make([]geminiContent, 0, len(req.History)+1)
	for _, m := range req.History {
		contents = append(contents, messageToContent(m))
	}

	current := geminiContent{
		Role:  "user",
		Parts: []geminiPart{{Text: buildUserPrompt(req.Prompt, req.Reference)}},
	}
	if req.Image != "" {
		current.Parts = append(current.Parts, imagePart(req.Image))
	}
	contents = append(contents, current)

	reqBody := geminiRequest{
		SystemInstruction: &geminiContent{
			Parts: []geminiPart{{Text: systemInstruction}},
		},
		Contents: contents,
		GenerationConfig: geminiGenConfig{
			ResponseMimeType: "application/json",
			ResponseSchema:   generationSchema,
		},
	}

	text, err := c.doRequest(ctx, c.model, reqBody)
	if err != nil {
		return nil, fmt.Errorf("gemini: %w", err)
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

// SuggestNextSteps asks the suggestion model for up to three short follow-up
// prompts for the given component.
func (c *GeminiClient) SuggestNextSteps(ctx context.Context, description, code string) ([]string, error) {
	reqBody := geminiRequest{
		Contents: []geminiContent{
			{Role: "user", Parts: []geminiPart{{Text: buildSuggestPrompt(description, code)}}},
		},
		GenerationConfig: geminiGenConfig{
			ResponseMimeType: "application/json",
			ResponseSchema:   suggestionsSchema,
		},
	}

	text, err := c.doRequest(ctx, c.suggestModel, reqBody)
	if err != nil {
		return nil, fmt.Errorf("gemini: %w", err)
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

func messageToContent(m model.Message) geminiContent {
	role := "user"
	if m.Role == model.RoleAssistant {
		role = "model"
	}
	content := geminiContent{
		Role:  role,
		Parts: []geminiPart{{Text: m.Content}},
	}
	if m.Image != "" {
		content.Parts = append(content.Parts, imagePart(m.Image))
	}
	return content
}

func imagePart(image string) geminiPart {
	return geminiPart{
		InlineData: &geminiInlineData{
			MimeType: "image/png",
			Data:     stripDataPrefix(image),
		},
	}
}

func (c *GeminiClient) doRequest(ctx context.Context, model string, reqBody geminiRequest) (string, error) {
	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

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

	var geminiResp geminiResponse
	if err := json.Unmarshal(respBody, &geminiResp); err != nil {
		return "", fmt.Errorf("unmarshal response: %w", err)
	}

	if geminiResp.Error != nil {
		return "", fmt.Errorf("api error: %s", geminiResp.Error.Message)
	}

	if len(geminiResp.Candidates) > 0 && len(geminiResp.Candidates[0].Content.Parts) > 0 {
		return geminiResp.Candidates[0].Content.Parts[0].Text, nil
	}

	return "", fmt.Errorf("no content in response")
}
