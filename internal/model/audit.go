package model

import "time"

// AuditAction identifies what happened to a transaction.
type AuditAction string

// Audit action constants.
const (
	ActionCreated        AuditAction = "created"
	ActionRuleApplied    AuditAction = "rule_applied"
	ActionAISuggested    AuditAction = "ai_suggested"
	ActionUserConfirmed  AuditAction = "user_confirmed"
	ActionUserEdited     AuditAction = "user_edited"
	ActionUserDeleted    AuditAction = "user_deleted"
	ActionBatchConfirmed AuditAction = "batch_confirmed"
)

// AuditSource identifies which tier produced a category change.
type AuditSource string

// Audit source constants.
const (
	SourceRule AuditSource = "rule"
	SourceAI   AuditSource = "ai"
	SourceUser AuditSource = "user"
)

// Origin markers recorded in the audit log when transactions are created.
const (
	OriginUpload = "NEW_UPLOAD"
	OriginManual = "MANUAL"
)

// AuditEntry is one append-only record of a category-related mutation.
// Every mutation of a transaction's category fields writes exactly one
// entry in the same storage transaction.
type AuditEntry struct {
	Timestamp        time.Time
	PreviousCategory *string
	NewCategory      string
	Action           AuditAction
	Source           AuditSource
	ID               int64
	TransactionID    int64
	UserID           int64
}
