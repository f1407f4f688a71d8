package engine

import (
	"context"

	"github.com/Guilherme-Lopesz/spendsense/internal/model"
)

// Classifier is the AI classification tier as seen by the engine. The
// boolean reports whether the external service produced the result (true)
// or the heuristic fallback did (false). Implementations never fail: every
// call yields a usable result.
type Classifier interface {
	Classify(ctx context.Context, description string, amount float64) (model.ClassificationResult, bool)
}
