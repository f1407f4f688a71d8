// Package llm provides language model clients for transaction classification.
// It supports multiple providers (Gemini, OpenAI, Anthropic) with retry on
// rate limits, response validation, result caching, and graceful degradation
// to local heuristics.
package llm
