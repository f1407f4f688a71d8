package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Guilherme-Lopesz/spendsense/internal/model"
)

// appendAuditTx inserts an audit entry inside an open transaction. Callers
// mutating category fields must use this so the entry commits or rolls back
// together with the mutation.
func appendAuditTx(ctx context.Context, tx *sql.Tx, entry *model.AuditEntry) error {
	var previous any
	if entry.PreviousCategory != nil {
		previous = *entry.PreviousCategory
	}

	_, err := tx.ExecContext(ctx, `
		INSERT INTO audit_log (transaction_id, user_id, action, previous_category, new_category, source)
		VALUES (?, ?, ?, ?, ?, ?)
	`,
		entry.TransactionID,
		entry.UserID,
		string(entry.Action),
		previous,
		entry.NewCategory,
		string(entry.Source),
	)
	if err != nil {
		return fmt.Errorf("failed to append audit entry: %w", err)
	}

	return nil
}

// GetAuditLog returns a user's most recent audit entries, newest first.
func (s *SQLiteStorage) GetAuditLog(ctx context.Context, userID int64, limit int) ([]model.AuditEntry, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateUserID(userID); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 100
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, transaction_id, user_id, action, previous_category, new_category, source, timestamp
		FROM audit_log
		WHERE user_id = ?
		ORDER BY id DESC
		LIMIT ?
	`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit log: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []model.AuditEntry
	for rows.Next() {
		var entry model.AuditEntry
		var previous sql.NullString
		var action, source string

		if err := rows.Scan(
			&entry.ID,
			&entry.TransactionID,
			&entry.UserID,
			&action,
			&previous,
			&entry.NewCategory,
			&source,
			&entry.Timestamp,
		); err != nil {
			return nil, fmt.Errorf("failed to scan audit entry: %w", err)
		}

		entry.Action = model.AuditAction(action)
		entry.Source = model.AuditSource(source)
		if previous.Valid {
			entry.PreviousCategory = &previous.String
		}
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}
