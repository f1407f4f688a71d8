package llm

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseRetryDelay(t *testing.T) {
	tests := []struct {
		name string
		text string
		want time.Duration
	}{
		{
			name: "seconds with decimal",
			text: "Error 429: Please retry in 16.6s",
			want: 16600 * time.Millisecond,
		},
		{
			name: "milliseconds",
			text: "Please retry in 500ms",
			want: 500 * time.Millisecond,
		},
		{
			name: "no unit defaults to seconds",
			text: "retry in 7",
			want: 7 * time.Second,
		},
		{
			name: "case insensitive",
			text: "RETRY IN 2S",
			want: 2 * time.Second,
		},
		{
			name: "no recognizable pattern",
			text: "something went terribly wrong",
			want: DefaultRetryDelay,
		},
		{
			name: "empty input",
			text: "",
			want: DefaultRetryDelay,
		},
		{
			name: "malformed number",
			text: "retry in ...s",
			want: DefaultRetryDelay,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseRetryDelay(tt.text))
		})
	}
}

func TestIsRateLimited(t *testing.T) {
	assert.True(t, isRateLimited(errors.New("got HTTP 429 from provider")))
	assert.True(t, isRateLimited(errors.New("RESOURCE_EXHAUSTED: quota exceeded")))
	assert.True(t, isRateLimited(errors.New("rate limit hit, slow down")))
	assert.False(t, isRateLimited(errors.New("connection refused")))
	assert.False(t, isRateLimited(nil))
}
