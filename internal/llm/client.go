package llm

import (
	"context"
)

// Client defines the interface for LLM providers.
type Client interface {
	Classify(ctx context.Context, prompt string) (ClassificationResponse, error)
}

// ClassificationResponse contains the raw classification result returned by
// a provider, before validation against the category set.
type ClassificationResponse struct {
	Category   string
	Reason     string
	Confidence int
}

// systemPrompt is the fixed instruction sent to every provider. The model
// must answer with a single JSON object drawn from the supplied categories.
const systemPrompt = `You receive a JSON object with:
- "description": the transaction description
- "amount": the value (negative for expenses, positive for income)
- "available_categories": the list of valid categories

Classify the transaction by choosing exactly ONE category from "available_categories".
Return ONLY a valid JSON object with:
- "category": the chosen category
- "confidence": an integer from 0 to 100
- "reason": a brief explanation

If you cannot classify it, use "Other" with confidence 0.
Do not return any text outside the JSON object.`
