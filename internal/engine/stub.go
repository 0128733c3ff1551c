package engine

import (
	"context"
	"fmt"
)

// StubExtractor returns mock extraction results (for development/testing).
type StubExtractor struct{}

func (e *StubExtractor) Extract(_ context.Context, url string) (string, error) {
	return "Stub reference content for " + url + ". A landing page with a hero section, three feature cards, and a footer with social links.", nil
}

// StubModelClient returns deterministic components without calling any API
// (for development/testing).
type StubModelClient struct{}

func (m *StubModelClient) GenerateComponent(_ context.Context, req GenerateRequest) (*GenerationResult, error) {
	code := fmt.Sprintf(`const Component = () => {
  return (
    <div className="p-8 max-w-xl mx-auto">
      <div className="rounded-xl border border-gray-200 bg-white p-6 shadow-sm md:p-8">
        <h1 className="text-2xl font-bold text-gray-900">Stub Component</h1>
        <p className="mt-2 text-sm text-gray-500">Generated for: %q</p>
      </div>
    </div>
  );
};`, req.Prompt)
	return &GenerationResult{
		Code:        code,
		Description: "A stub component rendered without calling a model, echoing the prompt: " + req.Prompt,
	}, nil
}

func (m *StubModelClient) SuggestNextSteps(_ context.Context, _, _ string) ([]string, error) {
	return []string{
		"Add a dark mode variant",
		"Animate the card on hover",
		"Make the header sticky",
	}, nil
}
