// Package classification implements the local heuristic classification tier.
// It is the fallback of last resort: pure, deterministic, and total, so the
// system can always produce a category even with no network and no rules.
package classification

import (
	"fmt"
	"strings"

	"github.com/Guilherme-Lopesz/spendsense/internal/model"
)

// Heuristic confidence levels per decision branch.
const (
	incomeConfidence         = 95
	transportationConfidence = 90
	foodConfidence           = 88
	subscriptionConfidence   = 92
	onlineShoppingConfidence = 85
	fallbackConfidence       = 50
)

// Heuristic classifies a transaction with local keyword rules. The first
// branch that fires wins. It never fails: every input yields a category
// from the canonical set.
func Heuristic(description string, amount float64) model.ClassificationResult {
	desc := strings.ToUpper(description)

	if amount > 0 {
		return model.ClassificationResult{
			Category:   model.CategoryIncome,
			Confidence: incomeConfidence,
			Reason:     "positive amount identified as income (heuristic)",
		}
	}

	if kw, ok := matchAny(desc, transportationKeywords); ok {
		return model.ClassificationResult{
			Category:   model.CategoryTransportation,
			Confidence: transportationConfidence,
			Reason:     fmt.Sprintf("transportation keyword %q detected (heuristic)", kw),
		}
	}

	if kw, ok := matchAny(desc, foodKeywords); ok {
		return model.ClassificationResult{
			Category:   model.CategoryFood,
			Confidence: foodConfidence,
			Reason:     fmt.Sprintf("food keyword %q detected (heuristic)", kw),
		}
	}

	if kw, ok := matchAny(desc, subscriptionKeywords); ok {
		return model.ClassificationResult{
			Category:   model.CategorySubscriptions,
			Confidence: subscriptionConfidence,
			Reason:     fmt.Sprintf("subscription keyword %q detected (heuristic)", kw),
		}
	}

	if kw, ok := matchAny(desc, onlineShoppingKeywords); ok {
		return model.ClassificationResult{
			Category:   model.CategoryOnlineShopping,
			Confidence: onlineShoppingConfidence,
			Reason:     fmt.Sprintf("online shopping keyword %q detected (heuristic)", kw),
		}
	}

	return model.ClassificationResult{
		Category:   model.CategoryOther,
		Confidence: fallbackConfidence,
		Reason:     "no specific category signal detected (heuristic)",
	}
}

// matchAny returns the first keyword found in the upper-cased description.
func matchAny(upperDesc string, keywords []string) (string, bool) {
	for _, kw := range keywords {
		if strings.Contains(upperDesc, kw) {
			return kw, true
		}
	}
	return "", false
}
