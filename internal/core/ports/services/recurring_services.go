package services

import (
	"context"
	"time"

	"github.com/SscSPs/mma_daily_engine/internal/core/domain"
)

// RecurrenceSchedulerSvc computes the occurrences of a recurring item. It is pure.
type RecurrenceSchedulerSvc interface {
	// DueOccurrences lists, ascending, the occurrences strictly after the item's cursor
	// and on or before today (UTC) and the item's end date.
	DueOccurrences(item domain.RecurringItem, now time.Time) ([]time.Time, error)

	// NextOccurrence returns the first occurrence after the cursor regardless of now, or
	// nil when the schedule is exhausted or the item is inactive.
	NextOccurrence(item domain.RecurringItem) (*time.Time, error)

	// IsExhausted reports whether the item has no occurrence left before its end date.
	IsExhausted(item domain.RecurringItem) (bool, error)
}

// MaterializationEngineSvc turns due occurrences into transactions, idempotently.
type MaterializationEngineSvc interface {
	// Materialize creates the transactions of the due occurrences of item, converted into
	// settlementCurrencyID, and returns how many were created.
	Materialize(ctx context.Context, item domain.RecurringItem, settlementCurrencyID int64, now time.Time) (int, error)

	// MaterializeOwner runs Materialize over every active item of owner. Per-item rate and
	// validation failures are joined into the returned error without stopping the loop.
	MaterializeOwner(ctx context.Context, owner domain.Owner, now time.Time) (int, error)
}

// NotificationSink receives an event for every created transaction.
type NotificationSink interface {
	Publish(ctx context.Context, event domain.TransactionCreatedEvent) error
}
