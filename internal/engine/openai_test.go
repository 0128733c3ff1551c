package engine

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// chatTextBody wraps text as a single-choice chat completions response.
func chatTextBody(text string) []byte {
	b, _ := json.Marshal(map[string]any{
		"choices": []map[string]any{
			{"message": map[string]any{"content": text}},
		},
	})
	return b
}

func TestNewOpenAIClient_Defaults(t *testing.T) {
	c := NewOpenAIClient("sk-test")

	if c.apiKey != "sk-test" {
		t.Errorf("apiKey = %q, want %q", c.apiKey, "sk-test")
	}
	if c.model != "gpt-4o-mini" {
		t.Errorf("model = %q, want %q", c.model, "gpt-4o-mini")
	}
	if c.baseURL != "https://api.openai.com/v1" {
		t.Errorf("baseURL = %q, want default OpenAI URL", c.baseURL)
	}
}

func TestNewOpenAIClient_WithOptions(t *testing.T) {
	c := NewOpenAIClient("sk-test",
		WithModel("gpt-4o"),
		WithBaseURL("https://example.com/v1/"),
	)

	if c.model != "gpt-4o" {
		t.Errorf("model = %q, want %q", c.model, "gpt-4o")
	}
	if c.baseURL != "https://example.com/v1" {
		t.Errorf("baseURL = %q, trailing slash should be trimmed", c.baseURL)
	}
}

func TestOpenAIGenerateComponent_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer sk-mock" {
			t.Errorf("Authorization = %q, want %q", got, "Bearer sk-mock")
		}

		var req struct {
			Model          string `json:"model"`
			ResponseFormat struct {
				Type string `json:"type"`
			} `json:"response_format"`
			Messages []struct {
				Role    string          `json:"role"`
				Content json.RawMessage `json:"content"`
			} `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.ResponseFormat.Type != "json_object" {
			t.Errorf("response_format = %q, want json_object", req.ResponseFormat.Type)
		}
		if len(req.Messages) == 0 || req.Messages[0].Role != "system" {
			t.Fatal("first message must be the system instruction")
		}

		// Image turns use the content-parts form with a data URL.
		last := req.Messages[len(req.Messages)-1]
		var parts []contentPart
		if err := json.Unmarshal(last.Content, &parts); err != nil {
			t.Fatalf("last message content should be parts: %v", err)
		}
		if len(parts) != 2 || parts[1].ImageURL == nil {
			t.Fatalf("parts = %+v, want text + image_url", parts)
		}
		if !strings.HasPrefix(parts[1].ImageURL.URL, "data:image/png;base64,") {
			t.Errorf("image url = %q, want data URL prefix", parts[1].ImageURL.URL)
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write(chatTextBody(`{"code":"const Component = () => null;","description":"done"}`))
	}))
	defer srv.Close()

	c := NewOpenAIClient("sk-mock", WithBaseURL(srv.URL))
	got, err := c.GenerateComponent(context.Background(), GenerateRequest{
		Prompt: "a card",
		Image:  "QUJD",
	})
	if err != nil {
		t.Fatalf("GenerateComponent: %v", err)
	}
	if got.Code != "const Component = () => null;" {
		t.Errorf("Code = %q", got.Code)
	}
}

func TestOpenAIGenerateComponent_Malformed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write(chatTextBody("not json at all"))
	}))
	defer srv.Close()

	c := NewOpenAIClient("sk-test", WithBaseURL(srv.URL))
	_, err := c.GenerateComponent(context.Background(), GenerateRequest{Prompt: "hi"})

	var mre *MalformedResponseError
	if !errors.As(err, &mre) {
		t.Fatalf("err = %v, want MalformedResponseError", err)
	}
}

func TestOpenAIGenerateComponent_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"message":"invalid api key"}}`))
	}))
	defer srv.Close()

	c := NewOpenAIClient("bad-key", WithBaseURL(srv.URL))
	_, err := c.GenerateComponent(context.Background(), GenerateRequest{Prompt: "hi"})
	if err == nil {
		t.Fatal("expected error for 401 response")
	}
}

func TestOpenAISuggestNextSteps(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write(chatTextBody(`{"suggestions":["One","Two","Three","Four"]}`))
	}))
	defer srv.Close()

	c := NewOpenAIClient("sk-test", WithBaseURL(srv.URL))
	got, err := c.SuggestNextSteps(context.Background(), "a card", "code")
	if err != nil {
		t.Fatalf("SuggestNextSteps: %v", err)
	}
	if len(got) != 3 {
		t.Errorf("suggestions len = %d, want capped at 3", len(got))
	}
}

func TestOpenAIGenerateComponent_EmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(chatResponse{})
	}))
	defer srv.Close()

	c := NewOpenAIClient("sk-test", WithBaseURL(srv.URL))
	_, err := c.GenerateComponent(context.Background(), GenerateRequest{Prompt: "hi"})
	if err == nil {
		t.Fatal("expected error for empty choices")
	}
}
