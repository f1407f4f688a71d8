package storage

import (
	"context"
	"fmt"

	"github.com/Guilherme-Lopesz/spendsense/internal/model"
)

func validateContext(ctx context.Context) error {
	if ctx == nil {
		return fmt.Errorf("context cannot be nil")
	}
	return ctx.Err()
}

func validateString(value, name string) error {
	if value == "" {
		return fmt.Errorf("%s cannot be empty", name)
	}
	return nil
}

func validateUserID(userID int64) error {
	if userID <= 0 {
		return fmt.Errorf("userID must be positive, got %d", userID)
	}
	return nil
}

func validateTransactions(transactions []model.Transaction) error {
	if len(transactions) == 0 {
		return fmt.Errorf("transactions cannot be empty")
	}
	for i, txn := range transactions {
		if txn.UserID <= 0 {
			return fmt.Errorf("transaction %d: userID must be positive", i)
		}
		if txn.Description == "" {
			return fmt.Errorf("transaction %d: description cannot be empty", i)
		}
	}
	return nil
}
