package model

// ClassificationResult is the outcome of one classification attempt,
// regardless of which tier produced it. It is transient: its fields are
// copied onto the transaction's suggested columns and into the audit log.
type ClassificationResult struct {
	Category   string
	Reason     string
	Confidence int
}
