package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/Guilherme-Lopesz/spendsense/internal/classification"
	"github.com/Guilherme-Lopesz/spendsense/internal/common"
	"github.com/Guilherme-Lopesz/spendsense/internal/model"
	"github.com/Guilherme-Lopesz/spendsense/internal/service"
)

// Classifier is the AI classification tier. It memoizes results, retries
// rate-limited provider calls with the provider's suggested backoff, and
// degrades to the heuristic tier on any terminal failure. It never returns
// an error: every path resolves to a well-formed result plus a flag saying
// whether the external service produced it.
type Classifier struct {
	client    Client
	cache     *resultCache
	logger    *slog.Logger
	retryOpts service.RetryOptions
}

// Config holds configuration for the LLM classifier.
type Config struct {
	Provider    string
	APIKey      string
	Model       string
	MaxRetries  int
	RetryDelay  time.Duration
	CacheTTL    time.Duration
	Temperature float64
	MaxTokens   int
}

// NewClassifier creates a new LLM-based classifier.
func NewClassifier(cfg Config, logger *slog.Logger) (*Classifier, error) {
	client, err := NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}
	return newClassifierWithClient(client, cfg, logger), nil
}

// newClassifierWithClient wires a classifier around an existing client.
// Tests use it to inject mock providers.
func newClassifierWithClient(client Client, cfg Config, logger *slog.Logger) *Classifier {
	retryOpts := service.RetryOptions{
		MaxAttempts:  cfg.MaxRetries,
		InitialDelay: cfg.RetryDelay,
		MaxDelay:     30 * time.Second,
		Multiplier:   1.0,
	}

	if retryOpts.MaxAttempts == 0 {
		retryOpts.MaxAttempts = 3
	}
	if retryOpts.InitialDelay == 0 {
		retryOpts.InitialDelay = DefaultRetryDelay
	}

	return &Classifier{
		client:    client,
		cache:     newResultCache(cfg.CacheTTL),
		logger:    logger,
		retryOpts: retryOpts,
	}
}

// classificationRequest is the structured payload sent to the model.
type classificationRequest struct {
	Description         string   `json:"description"`
	AvailableCategories []string `json:"available_categories"`
	Amount              float64  `json:"amount"`
}

// Classify suggests a category for a transaction. The boolean is true only
// when a validated response came directly from the external service; it is
// false whenever the heuristic fallback produced the result. Cache hits
// report the outcome of the original computation.
func (c *Classifier) Classify(ctx context.Context, description string, amount float64) (model.ClassificationResult, bool) {
	key := cacheKey(description, amount)
	if result, fromService, found := c.cache.get(key); found {
		c.logger.Debug("classification cache hit",
			"description", description,
			"category", result.Category,
			"from_service", fromService)
		return result, fromService
	}

	prompt, err := c.buildPrompt(description, amount)
	if err != nil {
		// Marshaling the request cannot realistically fail, but the
		// contract says we degrade rather than error out.
		result := c.fallback(description, amount, err)
		c.cache.set(key, result, false)
		return result, false
	}

	var resp ClassificationResponse
	err = common.WithRetry(ctx, func() error {
		r, callErr := c.client.Classify(ctx, prompt)
		if callErr != nil {
			if isRateLimited(callErr) {
				delay := ParseRetryDelay(callErr.Error())
				c.logger.Warn("provider quota exhausted, backing off",
					"delay", delay,
					"error", callErr)
				return &common.RetryableError{Err: callErr, Retryable: true, RetryAfter: delay}
			}
			return &common.RetryableError{Err: callErr, Retryable: false}
		}
		resp = r
		return nil
	}, c.retryOpts)

	if err != nil {
		result := c.fallback(description, amount, err)
		c.cache.set(key, result, false)
		return result, false
	}

	result := validateResponse(resp)
	c.cache.set(key, result, true)

	c.logger.Info("transaction classified by AI",
		"description", description,
		"category", result.Category,
		"confidence", result.Confidence)

	return result, true
}

// buildPrompt serializes the classification request payload.
func (c *Classifier) buildPrompt(description string, amount float64) (string, error) {
	payload, err := json.Marshal(classificationRequest{
		Description:         description,
		Amount:              amount,
		AvailableCategories: model.Categories(),
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal classification request: %w", err)
	}
	return string(payload), nil
}

// fallback produces the heuristic result for a failed AI classification.
func (c *Classifier) fallback(description string, amount float64, cause error) model.ClassificationResult {
	c.logger.Warn("AI classification failed, using heuristic fallback",
		"description", description,
		"error", cause)
	return classification.Heuristic(description, amount)
}

// validateResponse coerces untrusted provider output into the canonical
// category set. A category outside the set becomes "Other" with confidence
// zero and a reason recording that the coercion happened.
func validateResponse(resp ClassificationResponse) model.ClassificationResult {
	if !model.ValidCategory(resp.Category) {
		return model.ClassificationResult{
			Category:   model.CategoryOther,
			Confidence: 0,
			Reason:     fmt.Sprintf("service suggested invalid category %q; coerced to %s", resp.Category, model.CategoryOther),
		}
	}

	confidence := resp.Confidence
	if confidence < 0 {
		confidence = 0
	}
	if confidence > 100 {
		confidence = 100
	}

	return model.ClassificationResult{
		Category:   resp.Category,
		Confidence: confidence,
		Reason:     resp.Reason,
	}
}

// CacheSize returns the number of memoized classifications.
func (c *Classifier) CacheSize() int {
	return c.cache.size()
}

// Close stops background goroutines and cleans up resources.
func (c *Classifier) Close() error {
	if c.cache != nil {
		c.cache.Close()
	}
	return nil
}
