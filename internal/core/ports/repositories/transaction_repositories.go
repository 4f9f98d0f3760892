package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/mma_daily_engine/internal/core/domain"
)

// TransactionReader defines read operations for transactions
type TransactionReader interface {
	// FindRecurringOccurrence retrieves the transaction materializing (item, occurrence date).
	// Returns apperrors.ErrNotFound when the occurrence has not been materialized yet.
	FindRecurringOccurrence(ctx context.Context, recurringItemID int64, occurrenceDate time.Time) (*domain.Transaction, error)
}

// TransactionRepositoryFacade combines all transaction repository interfaces
type TransactionRepositoryFacade interface {
	TransactionReader
}
