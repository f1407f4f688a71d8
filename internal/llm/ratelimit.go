package llm

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DefaultRetryDelay is used when a rate-limited provider gives no usable
// backoff hint in its error text.
const DefaultRetryDelay = 5 * time.Second

// retryHintRe matches backoff hints like "Please retry in 16.6s" or
// "retry in 500ms". The unit is optional and defaults to seconds.
var retryHintRe = regexp.MustCompile(`(?i)retry in ([\d.]+)\s*(ms|s)?`)

// ParseRetryDelay extracts a suggested wait duration from a provider error
// message. It is a best-effort parse of an unstructured channel: absence or
// malformation of the hint yields DefaultRetryDelay, never an error.
func ParseRetryDelay(errText string) time.Duration {
	m := retryHintRe.FindStringSubmatch(errText)
	if m == nil {
		return DefaultRetryDelay
	}

	value, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return DefaultRetryDelay
	}

	if strings.EqualFold(m[2], "ms") {
		return time.Duration(value * float64(time.Millisecond))
	}
	return time.Duration(value * float64(time.Second))
}

// isRateLimited reports whether an error indicates provider rate limiting
// or quota exhaustion.
func isRateLimited(err error) bool {
	if err == nil {
		return false
	}
	text := err.Error()
	if strings.Contains(text, "429") || strings.Contains(text, "RESOURCE_EXHAUSTED") {
		return true
	}
	lower := strings.ToLower(text)
	return strings.Contains(lower, "rate limit") || strings.Contains(lower, "quota")
}
