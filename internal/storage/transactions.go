package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Guilherme-Lopesz/spendsense/internal/common"
	"github.com/Guilherme-Lopesz/spendsense/internal/model"
	"github.com/Guilherme-Lopesz/spendsense/internal/service"
)

// SaveTransactions inserts new pending transactions together with their
// "created" audit entries in a single database transaction. origin records
// how the transactions entered the system (upload or manual entry).
func (s *SQLiteStorage) SaveTransactions(ctx context.Context, transactions []model.Transaction, origin string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateTransactions(transactions); err != nil {
		return err
	}
	if origin == "" {
		origin = model.OriginUpload
	}

	tx, err := s.begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO transactions (user_id, date, description, amount, status)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for i := range transactions {
		txn := &transactions[i]
		if txn.Status == "" {
			txn.Status = model.StatusPending
		}

		res, execErr := stmt.ExecContext(ctx, txn.UserID, txn.Date, txn.Description, txn.Amount, string(txn.Status))
		if execErr != nil {
			return fmt.Errorf("failed to insert transaction: %w", execErr)
		}

		id, idErr := res.LastInsertId()
		if idErr != nil {
			return fmt.Errorf("failed to get transaction id: %w", idErr)
		}
		txn.ID = id

		if auditErr := appendAuditTx(ctx, tx, &model.AuditEntry{
			TransactionID: id,
			UserID:        txn.UserID,
			Action:        model.ActionCreated,
			NewCategory:   origin,
			Source:        model.SourceUser,
		}); auditErr != nil {
			return auditErr
		}
	}

	return tx.Commit()
}

// GetTransaction retrieves a single transaction scoped to its owner.
func (s *SQLiteStorage) GetTransaction(ctx context.Context, id, userID int64) (*model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateUserID(userID); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT transaction_id, user_id, date, description, amount,
		       suggested_category, suggested_confidence, confirmed_category,
		       status, created_at
		FROM transactions
		WHERE transaction_id = ? AND user_id = ?
	`, id, userID)

	txn, err := scanTransaction(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, err
	}
	return txn, nil
}

// GetPendingTransactions returns all of a user's pending transactions in
// insertion order.
func (s *SQLiteStorage) GetPendingTransactions(ctx context.Context, userID int64) ([]model.Transaction, error) {
	return s.queryTransactions(ctx, userID, `
		SELECT transaction_id, user_id, date, description, amount,
		       suggested_category, suggested_confidence, confirmed_category,
		       status, created_at
		FROM transactions
		WHERE user_id = ? AND status = 'pending'
		ORDER BY transaction_id
	`)
}

// GetUnsuggestedPending returns pending transactions no tier has touched
// yet. This is the AI tier's work queue: the rule tier runs first and its
// matches are excluded here.
func (s *SQLiteStorage) GetUnsuggestedPending(ctx context.Context, userID int64) ([]model.Transaction, error) {
	return s.queryTransactions(ctx, userID, `
		SELECT transaction_id, user_id, date, description, amount,
		       suggested_category, suggested_confidence, confirmed_category,
		       status, created_at
		FROM transactions
		WHERE user_id = ? AND status = 'pending' AND suggested_category IS NULL
		ORDER BY transaction_id
	`)
}

func (s *SQLiteStorage) queryTransactions(ctx context.Context, userID int64, query string) ([]model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateUserID(userID); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var transactions []model.Transaction
	for rows.Next() {
		txn, scanErr := scanTransaction(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		transactions = append(transactions, *txn)
	}

	return transactions, rows.Err()
}

// ApplySuggestion writes one tier's category suggestion and its audit entry
// atomically.
func (s *SQLiteStorage) ApplySuggestion(ctx context.Context, suggestion service.Suggestion) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(suggestion.Category, "category"); err != nil {
		return err
	}

	tx, err := s.begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var previous sql.NullString
	err = tx.QueryRowContext(ctx, `
		SELECT suggested_category FROM transactions
		WHERE transaction_id = ? AND user_id = ?
	`, suggestion.TransactionID, suggestion.UserID).Scan(&previous)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return common.ErrNotFound
		}
		return fmt.Errorf("failed to load transaction: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE transactions
		SET suggested_category = ?, suggested_confidence = ?
		WHERE transaction_id = ? AND user_id = ?
	`, suggestion.Category, suggestion.Confidence, suggestion.TransactionID, suggestion.UserID)
	if err != nil {
		return fmt.Errorf("failed to update suggestion: %w", err)
	}

	entry := &model.AuditEntry{
		TransactionID: suggestion.TransactionID,
		UserID:        suggestion.UserID,
		Action:        suggestion.Action,
		NewCategory:   suggestion.Category,
		Source:        suggestion.Source,
	}
	if previous.Valid {
		entry.PreviousCategory = &previous.String
	}
	if err := appendAuditTx(ctx, tx, entry); err != nil {
		return err
	}

	return tx.Commit()
}

// ConfirmTransaction sets the confirmed category, marks the transaction
// confirmed, and records the audit entry, all atomically. action
// distinguishes single confirmation, edit, and batch confirmation.
func (s *SQLiteStorage) ConfirmTransaction(ctx context.Context, transactionID, userID int64, category string, action model.AuditAction) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(category, "category"); err != nil {
		return err
	}

	tx, err := s.begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var confirmed, suggested sql.NullString
	err = tx.QueryRowContext(ctx, `
		SELECT confirmed_category, suggested_category FROM transactions
		WHERE transaction_id = ? AND user_id = ?
	`, transactionID, userID).Scan(&confirmed, &suggested)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return common.ErrNotFound
		}
		return fmt.Errorf("failed to load transaction: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE transactions
		SET confirmed_category = ?, status = 'confirmed'
		WHERE transaction_id = ? AND user_id = ?
	`, category, transactionID, userID)
	if err != nil {
		return fmt.Errorf("failed to confirm transaction: %w", err)
	}

	entry := &model.AuditEntry{
		TransactionID: transactionID,
		UserID:        userID,
		Action:        action,
		NewCategory:   category,
		Source:        model.SourceUser,
	}
	// The previous category is whatever the user saw before confirming:
	// an earlier confirmation if there was one, otherwise the suggestion.
	switch {
	case confirmed.Valid:
		entry.PreviousCategory = &confirmed.String
	case suggested.Valid:
		entry.PreviousCategory = &suggested.String
	}
	if err := appendAuditTx(ctx, tx, entry); err != nil {
		return err
	}

	return tx.Commit()
}

// DeleteTransaction removes a user's transaction and records the deletion
// in the audit log.
func (s *SQLiteStorage) DeleteTransaction(ctx context.Context, transactionID, userID int64) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	tx, err := s.begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `
		DELETE FROM transactions WHERE transaction_id = ? AND user_id = ?
	`, transactionID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check deletion: %w", err)
	}
	if affected == 0 {
		return common.ErrNotFound
	}

	if err := appendAuditTx(ctx, tx, &model.AuditEntry{
		TransactionID: transactionID,
		UserID:        userID,
		Action:        model.ActionUserDeleted,
		NewCategory:   "DELETED",
		Source:        model.SourceUser,
	}); err != nil {
		return err
	}

	return tx.Commit()
}

// CategorySummary aggregates a user's spending per category, counting both
// confirmed and still-suggested categories, expenses only.
func (s *SQLiteStorage) CategorySummary(ctx context.Context, userID int64) ([]service.CategorySummary, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateUserID(userID); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT COALESCE(confirmed_category, suggested_category) AS category,
		       COUNT(*) AS cnt,
		       SUM(CASE WHEN amount < 0 THEN -amount ELSE 0 END) AS total
		FROM transactions
		WHERE user_id = ?
		  AND COALESCE(confirmed_category, suggested_category) IS NOT NULL
		GROUP BY category
		ORDER BY total DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query category summary: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var summaries []service.CategorySummary
	for rows.Next() {
		var s service.CategorySummary
		if err := rows.Scan(&s.Category, &s.Count, &s.Total); err != nil {
			return nil, fmt.Errorf("failed to scan summary row: %w", err)
		}
		summaries = append(summaries, s)
	}

	return summaries, rows.Err()
}

// scanner abstracts sql.Row and sql.Rows for shared scanning.
type scanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row scanner) (*model.Transaction, error) {
	var txn model.Transaction
	var suggestedCategory, confirmedCategory sql.NullString
	var suggestedConfidence sql.NullInt64
	var status string

	err := row.Scan(
		&txn.ID,
		&txn.UserID,
		&txn.Date,
		&txn.Description,
		&txn.Amount,
		&suggestedCategory,
		&suggestedConfidence,
		&confirmedCategory,
		&status,
		&txn.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan transaction: %w", err)
	}

	txn.Status = model.TransactionStatus(status)
	if suggestedCategory.Valid {
		txn.SuggestedCategory = &suggestedCategory.String
	}
	if suggestedConfidence.Valid {
		confidence := int(suggestedConfidence.Int64)
		txn.SuggestedConfidence = &confidence
	}
	if confirmedCategory.Valid {
		txn.ConfirmedCategory = &confirmedCategory.String
	}

	return &txn, nil
}
