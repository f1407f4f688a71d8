package llm

import (
	"encoding/json"
	"fmt"
	"strings"
)

// classificationJSON is the JSON shape every provider is instructed to
// return.
type classificationJSON struct {
	Category   string `json:"category"`
	Reason     string `json:"reason"`
	Confidence int    `json:"confidence"`
}

// parseClassification extracts the classification object from raw model
// output. Models regularly wrap JSON in markdown fences despite being told
// not to, so the wrapper is stripped before parsing.
func parseClassification(content string) (ClassificationResponse, error) {
	content = cleanMarkdownWrapper(content)

	var resp classificationJSON
	if err := json.Unmarshal([]byte(content), &resp); err != nil {
		return ClassificationResponse{}, fmt.Errorf("failed to parse JSON response: %w", err)
	}

	return ClassificationResponse{
		Category:   resp.Category,
		Confidence: resp.Confidence,
		Reason:     resp.Reason,
	}, nil
}

// cleanMarkdownWrapper strips a ```json ... ``` fence and any stray prose
// around the first JSON object in the content.
func cleanMarkdownWrapper(content string) string {
	content = strings.TrimSpace(content)

	if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```json")
		content = strings.TrimPrefix(content, "```")
		if idx := strings.LastIndex(content, "```"); idx >= 0 {
			content = content[:idx]
		}
		content = strings.TrimSpace(content)
	}

	// Fall back to the outermost braces if prose still surrounds the object.
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start >= 0 && end > start {
		content = content[start : end+1]
	}

	return content
}
