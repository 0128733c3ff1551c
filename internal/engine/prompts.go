package engine

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

const systemInstruction = `You are a world-class senior frontend engineer and UI/UX designer.
Your task is to generate complete, high-quality, and modern React components using Tailwind CSS based on user prompts and optional images.

CRITICAL REQUIREMENT: RESPONSIVENESS
- You MUST ensure the component is fully responsive across all screen sizes (Mobile, Tablet, Desktop).
- Use Tailwind CSS responsive modifiers extensively.
- Adopt a 'Mobile-First' approach.

GENERAL GUIDELINES:
1. Always use Tailwind CSS for styling.
2. The component should be self-contained and ready to be rendered.
3. Use Lucide-like SVG icons where appropriate.
4. Ensure accessibility (aria-labels, proper contrast).
5. Use high-quality placeholder images from picsum.photos if needed.
6. Write clean, professional code.
7. Return ONLY a JSON object matching the requested schema. Do not add markdown backticks.

COMPONENT STRUCTURE:
- Your code MUST define a single functional component named 'Component'.
- Example structure:
  const Component = () => {
    return (
      <div className="p-4">
        <h1 className="text-2xl font-bold">Hello World</h1>
      </div>
    );
  };
- DO NOT include any 'import' or 'export' statements.
- React hooks (useState, useEffect, etc.) are available globally.

SCHEMA:
{
  "code": "The full React component code as a string",
  "description": "A brief explanation of what was built and why"
}

If the user provides an image, treat it as a reference for layout, style, or specific UI elements they want to replicate or iterate on.`

// buildUserPrompt combines the user's instruction with optional reference
// page text so the model sees both in a single turn.
func buildUserPrompt(prompt, reference string) string {
	if reference == "" {
		return prompt
	}
	return fmt.Sprintf(`%s

Use the following page content as design reference (structure, copy, tone):
---
%s
---`, prompt, reference)
}

func buildSuggestPrompt(description, code string) string {
	return fmt.Sprintf(`Based on this component description: "%s" and its code, suggest 3 concise, high-impact next steps or improvements a user might want to make. Each suggestion should be a short phrase (max 6 words).

Return ONLY a JSON object: { "suggestions": ["suggestion 1", "suggestion 2", "suggestion 3"] }

Component code:
%s`, description, truncateRunes(code, 12000))
}

// stripDataPrefix removes a data URL header ("data:image/png;base64,") from a
// base64 image string, leaving raw base64.
func stripDataPrefix(s string) string {
	if i := strings.Index(s, ","); i >= 0 {
		return s[i+1:]
	}
	return s
}

// truncateRunes truncates s to maxRunes runes (Unicode-safe).
func truncateRunes(s string, maxRunes int) string {
	if utf8.RuneCountInString(s) <= maxRunes {
		return s
	}
	runes := []rune(s)
	return string(runes[:maxRunes]) + "\n... [truncated]"
}
