package storage

import (
	"context"
	"testing"
	"time"

	"github.com/Guilherme-Lopesz/spendsense/internal/common"
	"github.com/Guilherme-Lopesz/spendsense/internal/model"
	"github.com/Guilherme-Lopesz/spendsense/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testStorage(t *testing.T) *SQLiteStorage {
	t.Helper()

	store, err := NewSQLiteStorage(":memory:")
	require.NoError(t, err)
	require.NoError(t, store.Migrate(context.Background()))

	t.Cleanup(func() { _ = store.Close() })
	return store
}

func seedTransactions(t *testing.T, store *SQLiteStorage, userID int64, descriptions ...string) []model.Transaction {
	t.Helper()

	txns := make([]model.Transaction, len(descriptions))
	for i, desc := range descriptions {
		txns[i] = model.Transaction{
			UserID:      userID,
			Date:        time.Date(2024, 3, 1+i, 0, 0, 0, 0, time.UTC),
			Description: desc,
			Amount:      -10.0 * float64(i+1),
		}
	}
	require.NoError(t, store.SaveTransactions(context.Background(), txns, model.OriginUpload))
	return txns
}

func TestSaveTransactionsWritesAuditTrail(t *testing.T) {
	store := testStorage(t)
	ctx := context.Background()

	txns := seedTransactions(t, store, 1, "UBER TRIP", "NETFLIX.COM")
	assert.NotZero(t, txns[0].ID)
	assert.NotZero(t, txns[1].ID)

	entries, err := store.GetAuditLog(ctx, 1, 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	for _, entry := range entries {
		assert.Equal(t, model.ActionCreated, entry.Action)
		assert.Equal(t, model.SourceUser, entry.Source)
		assert.Equal(t, model.OriginUpload, entry.NewCategory)
	}
}

func TestGetPendingAndUnsuggested(t *testing.T) {
	store := testStorage(t)
	ctx := context.Background()

	txns := seedTransactions(t, store, 1, "UBER TRIP", "NETFLIX.COM", "MYSTERY")
	seedTransactions(t, store, 2, "OTHER USERS TXN")

	pending, err := store.GetPendingTransactions(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, pending, 3)

	// Suggest a category for the first one; it must leave the AI work queue.
	err = store.ApplySuggestion(ctx, service.Suggestion{
		TransactionID: txns[0].ID,
		UserID:        1,
		Category:      model.CategoryTransportation,
		Confidence:    100,
		Action:        model.ActionRuleApplied,
		Source:        model.SourceRule,
	})
	require.NoError(t, err)

	unsuggested, err := store.GetUnsuggestedPending(ctx, 1)
	require.NoError(t, err)
	require.Len(t, unsuggested, 2)
	assert.Equal(t, "NETFLIX.COM", unsuggested[0].Description)
	assert.Equal(t, "MYSTERY", unsuggested[1].Description)
}

func TestApplySuggestion(t *testing.T) {
	store := testStorage(t)
	ctx := context.Background()

	txns := seedTransactions(t, store, 1, "UBER TRIP")

	err := store.ApplySuggestion(ctx, service.Suggestion{
		TransactionID: txns[0].ID,
		UserID:        1,
		Category:      model.CategoryTransportation,
		Confidence:    90,
		Action:        model.ActionAISuggested,
		Source:        model.SourceAI,
	})
	require.NoError(t, err)

	got, err := store.GetTransaction(ctx, txns[0].ID, 1)
	require.NoError(t, err)
	require.NotNil(t, got.SuggestedCategory)
	assert.Equal(t, model.CategoryTransportation, *got.SuggestedCategory)
	require.NotNil(t, got.SuggestedConfidence)
	assert.Equal(t, 90, *got.SuggestedConfidence)
	assert.Equal(t, model.StatusPending, got.Status)

	entries, err := store.GetAuditLog(ctx, 1, 10)
	require.NoError(t, err)
	require.NotEmpty(t, entries)
	assert.Equal(t, model.ActionAISuggested, entries[0].Action)
	assert.Equal(t, model.SourceAI, entries[0].Source)
	assert.Equal(t, model.CategoryTransportation, entries[0].NewCategory)
}

func TestApplySuggestionUnknownTransaction(t *testing.T) {
	store := testStorage(t)

	err := store.ApplySuggestion(context.Background(), service.Suggestion{
		TransactionID: 9999,
		UserID:        1,
		Category:      model.CategoryOther,
		Action:        model.ActionAISuggested,
		Source:        model.SourceAI,
	})
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestConfirmTransaction(t *testing.T) {
	store := testStorage(t)
	ctx := context.Background()

	txns := seedTransactions(t, store, 1, "UBER TRIP")

	err := store.ApplySuggestion(ctx, service.Suggestion{
		TransactionID: txns[0].ID,
		UserID:        1,
		Category:      model.CategoryTransportation,
		Confidence:    90,
		Action:        model.ActionAISuggested,
		Source:        model.SourceAI,
	})
	require.NoError(t, err)

	err = store.ConfirmTransaction(ctx, txns[0].ID, 1, model.CategoryTransportation, model.ActionUserConfirmed)
	require.NoError(t, err)

	got, err := store.GetTransaction(ctx, txns[0].ID, 1)
	require.NoError(t, err)
	assert.Equal(t, model.StatusConfirmed, got.Status)
	require.NotNil(t, got.ConfirmedCategory)
	assert.Equal(t, model.CategoryTransportation, *got.ConfirmedCategory)

	entries, err := store.GetAuditLog(ctx, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, model.ActionUserConfirmed, entries[0].Action)
	require.NotNil(t, entries[0].PreviousCategory)
	assert.Equal(t, model.CategoryTransportation, *entries[0].PreviousCategory)
}

func TestDeleteTransaction(t *testing.T) {
	store := testStorage(t)
	ctx := context.Background()

	txns := seedTransactions(t, store, 1, "UBER TRIP")

	require.NoError(t, store.DeleteTransaction(ctx, txns[0].ID, 1))

	_, err := store.GetTransaction(ctx, txns[0].ID, 1)
	assert.ErrorIs(t, err, common.ErrNotFound)

	entries, err := store.GetAuditLog(ctx, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, model.ActionUserDeleted, entries[0].Action)
	assert.Equal(t, "DELETED", entries[0].NewCategory)

	// Deleting again is a not-found, not a silent success.
	assert.ErrorIs(t, store.DeleteTransaction(ctx, txns[0].ID, 1), common.ErrNotFound)
}

func TestRulesCRUD(t *testing.T) {
	store := testStorage(t)
	ctx := context.Background()

	first := &model.Rule{UserID: 1, Keyword: "UBER", Category: model.CategoryTransportation}
	second := &model.Rule{UserID: 1, Keyword: "NETFLIX", Category: model.CategorySubscriptions}
	require.NoError(t, store.SaveRule(ctx, first))
	require.NoError(t, store.SaveRule(ctx, second))
	assert.NotZero(t, first.ID)
	assert.Equal(t, 1, first.Position)
	assert.Equal(t, 2, second.Position)

	// Duplicate keyword for the same user is rejected.
	dup := &model.Rule{UserID: 1, Keyword: "UBER", Category: model.CategoryOther}
	assert.ErrorIs(t, store.SaveRule(ctx, dup), common.ErrDuplicateEntry)

	// Same keyword for another user is fine.
	other := &model.Rule{UserID: 2, Keyword: "UBER", Category: model.CategoryTransportation}
	require.NoError(t, store.SaveRule(ctx, other))

	rules, err := store.GetRules(ctx, 1)
	require.NoError(t, err)
	require.Len(t, rules, 2)
	assert.Equal(t, "UBER", rules[0].Keyword)
	assert.Equal(t, "NETFLIX", rules[1].Keyword)

	require.NoError(t, store.DeleteRule(ctx, first.ID, 1))
	rules, err = store.GetRules(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, rules, 1)
}

func TestSaveRuleRejectsUnknownCategory(t *testing.T) {
	store := testStorage(t)

	err := store.SaveRule(context.Background(), &model.Rule{
		UserID:   1,
		Keyword:  "UBER",
		Category: "Bananas",
	})
	assert.Error(t, err)
}

func TestCategorySummary(t *testing.T) {
	store := testStorage(t)
	ctx := context.Background()

	txns := seedTransactions(t, store, 1, "UBER TRIP", "TAXI RIDE", "NETFLIX.COM", "UNTOUCHED")

	for _, idx := range []int{0, 1} {
		require.NoError(t, store.ApplySuggestion(ctx, service.Suggestion{
			TransactionID: txns[idx].ID,
			UserID:        1,
			Category:      model.CategoryTransportation,
			Confidence:    90,
			Action:        model.ActionAISuggested,
			Source:        model.SourceAI,
		}))
	}
	require.NoError(t, store.ConfirmTransaction(ctx, txns[2].ID, 1, model.CategorySubscriptions, model.ActionUserConfirmed))

	summaries, err := store.CategorySummary(ctx, 1)
	require.NoError(t, err)
	require.Len(t, summaries, 2)

	byCategory := make(map[string]service.CategorySummary)
	for _, s := range summaries {
		byCategory[s.Category] = s
	}

	transport := byCategory[model.CategoryTransportation]
	assert.Equal(t, 2, transport.Count)
	assert.InDelta(t, 30.0, transport.Total, 0.001)

	subs := byCategory[model.CategorySubscriptions]
	assert.Equal(t, 1, subs.Count)
	assert.InDelta(t, 30.0, subs.Total, 0.001)
}

func TestMigrateIsIdempotent(t *testing.T) {
	store := testStorage(t)
	assert.NoError(t, store.Migrate(context.Background()))
}
