package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClassification(t *testing.T) {
	t.Run("plain JSON", func(t *testing.T) {
		resp, err := parseClassification(`{"category":"Food","confidence":88,"reason":"restaurant"}`)
		require.NoError(t, err)
		assert.Equal(t, "Food", resp.Category)
		assert.Equal(t, 88, resp.Confidence)
		assert.Equal(t, "restaurant", resp.Reason)
	})

	t.Run("markdown fenced JSON", func(t *testing.T) {
		content := "```json\n{\"category\":\"Transportation\",\"confidence\":90,\"reason\":\"ride\"}\n```"
		resp, err := parseClassification(content)
		require.NoError(t, err)
		assert.Equal(t, "Transportation", resp.Category)
	})

	t.Run("prose around the object", func(t *testing.T) {
		content := `Sure! Here is the classification: {"category":"Other","confidence":0,"reason":"unclear"} Hope that helps.`
		resp, err := parseClassification(content)
		require.NoError(t, err)
		assert.Equal(t, "Other", resp.Category)
		assert.Equal(t, 0, resp.Confidence)
	})

	t.Run("not JSON at all", func(t *testing.T) {
		_, err := parseClassification("I cannot classify this transaction.")
		assert.Error(t, err)
	})
}
