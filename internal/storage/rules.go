package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/Guilherme-Lopesz/spendsense/internal/common"
	"github.com/Guilherme-Lopesz/spendsense/internal/model"
)

// GetRules returns a user's keyword rules in precedence order. The first
// matching rule wins during classification, so the ordering here is the
// contract.
func (s *SQLiteStorage) GetRules(ctx context.Context, userID int64) ([]model.Rule, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateUserID(userID); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, keyword, category, position, created_at
		FROM rules
		WHERE user_id = ?
		ORDER BY position, id
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query rules: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var rules []model.Rule
	for rows.Next() {
		var rule model.Rule
		if err := rows.Scan(&rule.ID, &rule.UserID, &rule.Keyword, &rule.Category, &rule.Position, &rule.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan rule: %w", err)
		}
		rules = append(rules, rule)
	}

	return rules, rows.Err()
}

// SaveRule persists a new keyword rule. Keywords are unique per user;
// saving an existing keyword returns ErrDuplicateEntry. A zero Position is
// assigned the next free slot at the end of the precedence order.
func (s *SQLiteStorage) SaveRule(ctx context.Context, rule *model.Rule) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateUserID(rule.UserID); err != nil {
		return err
	}
	if err := validateString(rule.Keyword, "keyword"); err != nil {
		return err
	}
	if !model.ValidCategory(rule.Category) {
		return fmt.Errorf("%w: category %q", common.ErrInvalidConfig, rule.Category)
	}

	tx, err := s.begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if rule.Position == 0 {
		if err := tx.QueryRowContext(ctx, `
			SELECT COALESCE(MAX(position), 0) + 1 FROM rules WHERE user_id = ?
		`, rule.UserID).Scan(&rule.Position); err != nil {
			return fmt.Errorf("failed to compute rule position: %w", err)
		}
	}

	res, err := tx.ExecContext(ctx, `
		INSERT INTO rules (user_id, keyword, category, position)
		VALUES (?, ?, ?, ?)
	`, rule.UserID, rule.Keyword, rule.Category, rule.Position)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint") {
			return common.ErrDuplicateEntry
		}
		return fmt.Errorf("failed to insert rule: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get rule id: %w", err)
	}
	rule.ID = id

	return tx.Commit()
}

// DeleteRule removes a user's rule.
func (s *SQLiteStorage) DeleteRule(ctx context.Context, ruleID, userID int64) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, `
		DELETE FROM rules WHERE id = ? AND user_id = ?
	`, ruleID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete rule: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check deletion: %w", err)
	}
	if affected == 0 {
		return common.ErrNotFound
	}

	return nil
}
