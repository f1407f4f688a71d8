package classification

import (
	"testing"

	"github.com/Guilherme-Lopesz/spendsense/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestHeuristicIncome(t *testing.T) {
	// Positive amounts are income no matter what the description says.
	descriptions := []string{"SALARY", "UBER TRIP", "NETFLIX", "", "random text"}
	for _, desc := range descriptions {
		result := Heuristic(desc, 1000.00)
		assert.Equal(t, model.CategoryIncome, result.Category, "description %q", desc)
		assert.Equal(t, 95, result.Confidence)
		assert.NotEmpty(t, result.Reason)
	}
}

func TestHeuristicKeywordBranches(t *testing.T) {
	tests := []struct {
		name           string
		description    string
		wantCategory   string
		wantConfidence int
		amount         float64
	}{
		{
			name:           "ride hailing",
			description:    "UBER TRIP",
			amount:         -45.90,
			wantCategory:   model.CategoryTransportation,
			wantConfidence: 90,
		},
		{
			name:           "lower case matches too",
			description:    "uber trip",
			amount:         -45.90,
			wantCategory:   model.CategoryTransportation,
			wantConfidence: 90,
		},
		{
			name:           "parking",
			description:    "AIRPORT PARKING LOT",
			amount:         -12.00,
			wantCategory:   model.CategoryTransportation,
			wantConfidence: 90,
		},
		{
			name:           "restaurant",
			description:    "Downtown Restaurant",
			amount:         -89.50,
			wantCategory:   model.CategoryFood,
			wantConfidence: 88,
		},
		{
			name:           "delivery",
			description:    "IFOOD *ORDER 8812",
			amount:         -35.00,
			wantCategory:   model.CategoryFood,
			wantConfidence: 88,
		},
		{
			name:           "streaming",
			description:    "NETFLIX.COM",
			amount:         -39.90,
			wantCategory:   model.CategorySubscriptions,
			wantConfidence: 92,
		},
		{
			name:           "amazon prime is a subscription, not shopping",
			description:    "AMAZON PRIME MEMBERSHIP",
			amount:         -14.90,
			wantCategory:   model.CategorySubscriptions,
			wantConfidence: 92,
		},
		{
			name:           "bare amazon is shopping",
			description:    "AMAZON ORDER 123-4567",
			amount:         -230.00,
			wantCategory:   model.CategoryOnlineShopping,
			wantConfidence: 85,
		},
		{
			// "MARKETPLACE" contains the food keyword "MARKET", and the
			// food table is checked before online shopping.
			name:           "marketplace hits the market keyword first",
			description:    "AMAZON MARKETPLACE",
			amount:         -230.00,
			wantCategory:   model.CategoryFood,
			wantConfidence: 88,
		},
		{
			name:           "no signal",
			description:    "TRANSFER 48213",
			amount:         -100.00,
			wantCategory:   model.CategoryOther,
			wantConfidence: 50,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Heuristic(tt.description, tt.amount)
			assert.Equal(t, tt.wantCategory, result.Category)
			assert.Equal(t, tt.wantConfidence, result.Confidence)
			assert.NotEmpty(t, result.Reason)
		})
	}
}

func TestHeuristicCaseInsensitive(t *testing.T) {
	lower := Heuristic("uber trip", -45.90)
	upper := Heuristic("UBER TRIP", -45.90)
	assert.Equal(t, lower.Category, upper.Category)
	assert.Equal(t, lower.Confidence, upper.Confidence)
}

func TestHeuristicIsTotal(t *testing.T) {
	// Every input yields a valid category from the canonical set.
	inputs := []struct {
		desc   string
		amount float64
	}{
		{"", 0},
		{"", -1},
		{"ünïcödé ☃", -3.50},
		{"1234567890", -0.01},
	}
	for _, in := range inputs {
		result := Heuristic(in.desc, in.amount)
		assert.True(t, model.ValidCategory(result.Category),
			"category %q for input %+v", result.Category, in)
	}
}
