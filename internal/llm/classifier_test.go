package llm

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/Guilherme-Lopesz/spendsense/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockClient is a scriptable LLM provider for tests.
type mockClient struct {
	mu        sync.Mutex
	responses []mockResponse
	calls     int
}

type mockResponse struct {
	err  error
	resp ClassificationResponse
}

func (m *mockClient) Classify(_ context.Context, _ string) (ClassificationResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	idx := m.calls
	m.calls++
	if idx >= len(m.responses) {
		idx = len(m.responses) - 1
	}
	r := m.responses[idx]
	return r.resp, r.err
}

func (m *mockClient) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func testClassifier(t *testing.T, client Client, cfg Config) *Classifier {
	t.Helper()
	c := newClassifierWithClient(client, cfg, slog.Default())
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestClassifySuccess(t *testing.T) {
	client := &mockClient{responses: []mockResponse{
		{resp: ClassificationResponse{Category: model.CategoryTransportation, Confidence: 93, Reason: "ride hailing"}},
	}}
	c := testClassifier(t, client, Config{})

	result, ok := c.Classify(context.Background(), "UBER TRIP", -45.90)

	assert.True(t, ok)
	assert.Equal(t, model.CategoryTransportation, result.Category)
	assert.Equal(t, 93, result.Confidence)
	assert.Equal(t, "ride hailing", result.Reason)
}

func TestClassifyCacheIdempotence(t *testing.T) {
	client := &mockClient{responses: []mockResponse{
		{resp: ClassificationResponse{Category: model.CategoryFood, Confidence: 88, Reason: "restaurant"}},
	}}
	c := testClassifier(t, client, Config{})

	first, ok := c.Classify(context.Background(), "RESTAURANT X", -30)
	require.True(t, ok)

	second, ok := c.Classify(context.Background(), "RESTAURANT X", -30)
	assert.True(t, ok)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, client.callCount(), "second call must be served from cache")
	assert.Equal(t, 1, c.CacheSize())
}

func TestClassifyCoercesInvalidCategory(t *testing.T) {
	client := &mockClient{responses: []mockResponse{
		{resp: ClassificationResponse{Category: "Bananas", Confidence: 99, Reason: "fruit"}},
	}}
	c := testClassifier(t, client, Config{})

	result, ok := c.Classify(context.Background(), "WEIRD MERCHANT", -10)

	// A coerced response still counts as a service response.
	assert.True(t, ok)
	assert.Equal(t, model.CategoryOther, result.Category)
	assert.Equal(t, 0, result.Confidence)
	assert.Contains(t, result.Reason, "Bananas")
	assert.Contains(t, result.Reason, "coerced")
}

func TestClassifyNonTransientFailureFallsBackImmediately(t *testing.T) {
	client := &mockClient{responses: []mockResponse{
		{err: errors.New("connection refused")},
	}}
	c := testClassifier(t, client, Config{})

	result, ok := c.Classify(context.Background(), "UBER TRIP", -45.90)

	assert.False(t, ok)
	assert.Equal(t, model.CategoryTransportation, result.Category)
	assert.Equal(t, 90, result.Confidence)
	assert.Equal(t, 1, client.callCount(), "non-transient errors must not retry")
}

func TestClassifyRateLimitRetriesThenFallsBack(t *testing.T) {
	client := &mockClient{responses: []mockResponse{
		{err: errors.New("429 RESOURCE_EXHAUSTED: Please retry in 1ms")},
	}}
	c := testClassifier(t, client, Config{MaxRetries: 3, RetryDelay: time.Millisecond})

	result, ok := c.Classify(context.Background(), "UBER TRIP", -45.90)

	assert.False(t, ok)
	assert.Equal(t, model.CategoryTransportation, result.Category)
	assert.Equal(t, 3, client.callCount(), "rate limits must exhaust the attempt budget")
	assert.NotEmpty(t, result.Reason)
}

func TestClassifyRateLimitRecovers(t *testing.T) {
	client := &mockClient{responses: []mockResponse{
		{err: errors.New("429: Please retry in 1ms")},
		{resp: ClassificationResponse{Category: model.CategorySubscriptions, Confidence: 92, Reason: "streaming"}},
	}}
	c := testClassifier(t, client, Config{MaxRetries: 3, RetryDelay: time.Millisecond})

	result, ok := c.Classify(context.Background(), "NETFLIX.COM", -39.90)

	assert.True(t, ok)
	assert.Equal(t, model.CategorySubscriptions, result.Category)
	assert.Equal(t, 2, client.callCount())
}

func TestClassifyCachedFallbackStaysFallback(t *testing.T) {
	// A cache hit reports the success flag of the original computation
	// rather than pretending the fallback came from the service.
	client := &mockClient{responses: []mockResponse{
		{err: errors.New("connection refused")},
	}}
	c := testClassifier(t, client, Config{})

	_, ok := c.Classify(context.Background(), "UBER TRIP", -45.90)
	require.False(t, ok)

	result, ok := c.Classify(context.Background(), "UBER TRIP", -45.90)
	assert.False(t, ok)
	assert.Equal(t, model.CategoryTransportation, result.Category)
	assert.Equal(t, 1, client.callCount())
}

func TestClassifyEndToEndServiceUnavailable(t *testing.T) {
	client := &mockClient{responses: []mockResponse{
		{err: errors.New("dial tcp: no route to host")},
	}}
	c := testClassifier(t, client, Config{})

	result, ok := c.Classify(context.Background(), "UBER TRIP", -45.90)

	assert.False(t, ok)
	assert.Equal(t, model.CategoryTransportation, result.Category)
	assert.Equal(t, 90, result.Confidence)
	assert.NotEmpty(t, result.Reason)
}
