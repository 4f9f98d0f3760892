package notification

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/SscSPs/mma_daily_engine/internal/core/domain"
	portssvc "github.com/SscSPs/mma_daily_engine/internal/core/ports/services"
	"github.com/SscSPs/mma_daily_engine/internal/middleware"
)

// TransactionCreatedEventName is the analytics event emitted per materialized occurrence.
const TransactionCreatedEventName = "recurring_transaction_created"

// Enqueuer is the part of utils.PosthogClientWrapper the sink needs.
type Enqueuer interface {
	Enqueue(distinctID string, event string, properties map[string]any) error
}

// PosthogSink forwards transaction-created events to PostHog, keyed by owner.
type PosthogSink struct {
	client Enqueuer
}

var _ portssvc.NotificationSink = (*PosthogSink)(nil)

func NewPosthogSink(client Enqueuer) *PosthogSink {
	return &PosthogSink{client: client}
}

func (s *PosthogSink) Publish(_ context.Context, event domain.TransactionCreatedEvent) error {
	return s.client.Enqueue(strconv.FormatInt(event.OwnerID, 10), TransactionCreatedEventName, map[string]any{
		"transaction_id":    event.TransactionID,
		"recurring_item_id": event.RecurringItemID,
		"type":              string(event.Type),
		"amount":            event.Amount.String(),
		"currency_id":       event.CurrencyID,
		"date":              event.Date.Format(time.DateOnly),
	})
}

// LogSink writes every event to the request logger.
type LogSink struct{}

var _ portssvc.NotificationSink = LogSink{}

func (LogSink) Publish(ctx context.Context, event domain.TransactionCreatedEvent) error {
	logger := middleware.GetLoggerFromCtx(ctx)
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("Recurring transaction created",
		slog.String("transaction_id", event.TransactionID),
		slog.Int64("owner_id", event.OwnerID),
		slog.Int64("recurring_item_id", event.RecurringItemID),
		slog.String("amount", event.Amount.String()),
		slog.Int64("currency_id", event.CurrencyID),
		slog.String("date", event.Date.Format(time.DateOnly)))
	return nil
}

// FanOut publishes to every sink and joins their errors.
type FanOut []portssvc.NotificationSink

var _ portssvc.NotificationSink = FanOut(nil)

func (f FanOut) Publish(ctx context.Context, event domain.TransactionCreatedEvent) error {
	var errs []error
	for _, sink := range f {
		if err := sink.Publish(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
