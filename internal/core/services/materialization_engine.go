package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/mma_daily_engine/internal/apperrors"
	"github.com/SscSPs/mma_daily_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/mma_daily_engine/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/mma_daily_engine/internal/core/ports/services"
	"github.com/SscSPs/mma_daily_engine/internal/utils"
	"github.com/google/uuid"
)

// DefaultMaxOccurrencesPerRun bounds how many occurrences of one item a single run
// materializes. The rest is picked up by later runs through the cursor.
const DefaultMaxOccurrencesPerRun = 24

// materializationEngine implements the MaterializationEngineSvc interface
type materializationEngine struct {
	BaseService
	itemRepo       portsrepo.RecurringItemRepositoryFacade
	txnRepo        portsrepo.TransactionReader
	scheduler      portssvc.RecurrenceSchedulerSvc
	converter      portssvc.CurrencyConverterSvc
	sink           portssvc.NotificationSink
	maxPerRun      int
	newID          func() string
	deactivateDone bool
}

// EngineOption is a functional option for configuring the materialization engine
type EngineOption func(*materializationEngine)

// WithNotificationSink publishes a TransactionCreatedEvent for every created transaction.
func WithNotificationSink(sink portssvc.NotificationSink) EngineOption {
	return func(s *materializationEngine) {
		s.sink = sink
	}
}

// WithMaxOccurrencesPerRun overrides DefaultMaxOccurrencesPerRun. Values below 1 are ignored.
func WithMaxOccurrencesPerRun(max int) EngineOption {
	return func(s *materializationEngine) {
		if max >= 1 {
			s.maxPerRun = max
		}
	}
}

// WithTransactionIDGenerator overrides uuid.NewString for transaction IDs.
func WithTransactionIDGenerator(newID func() string) EngineOption {
	return func(s *materializationEngine) {
		s.newID = newID
	}
}

// WithoutAutoDeactivation keeps items active after their schedule is exhausted.
func WithoutAutoDeactivation() EngineOption {
	return func(s *materializationEngine) {
		s.deactivateDone = false
	}
}

// NewMaterializationEngine creates a new materialization engine.
func NewMaterializationEngine(
	itemRepo portsrepo.RecurringItemRepositoryFacade,
	txnRepo portsrepo.TransactionReader,
	scheduler portssvc.RecurrenceSchedulerSvc,
	converter portssvc.CurrencyConverterSvc,
	options ...EngineOption,
) portssvc.MaterializationEngineSvc {
	svc := &materializationEngine{
		itemRepo:       itemRepo,
		txnRepo:        txnRepo,
		scheduler:      scheduler,
		converter:      converter,
		maxPerRun:      DefaultMaxOccurrencesPerRun,
		newID:          uuid.NewString,
		deactivateDone: true,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.MaterializationEngineSvc = (*materializationEngine)(nil)

func (s *materializationEngine) Materialize(ctx context.Context, item domain.RecurringItem, settlementCurrencyID int64, now time.Time) (int, error) {
	logger := s.GetLogger(ctx).With(
		slog.Int64("recurring_item_id", item.RecurringItemID),
		slog.Int64("owner_id", item.OwnerID))

	if err := item.Validate(); err != nil {
		logger.Warn("Skipping invalid recurring item", slog.String("error", err.Error()))
		return 0, fmt.Errorf("%w: recurring item %d: %v", apperrors.ErrValidation, item.RecurringItemID, err)
	}

	due, err := s.scheduler.DueOccurrences(item, now)
	if err != nil {
		return 0, fmt.Errorf("%w: recurring item %d: %v", apperrors.ErrValidation, item.RecurringItemID, err)
	}
	if len(due) > s.maxPerRun {
		logger.Info("Capping occurrences for this run",
			slog.Int("due", len(due)),
			slog.Int("max", s.maxPerRun))
		due = due[:s.maxPerRun]
	}

	created := 0
	cursor := item.LastMaterializedDate
	for _, occ := range due {
		if err := ctx.Err(); err != nil {
			return created, err
		}

		occLogger := logger.With(slog.String("occurrence_date", occ.Format(time.DateOnly)))

		existing, err := s.txnRepo.FindRecurringOccurrence(ctx, item.RecurringItemID, occ)
		if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
			return created, s.persistenceFailed(ctx, err, item, occ, "check existing occurrence")
		}
		if existing != nil {
			occLogger.Debug("Occurrence already materialized, skipping",
				slog.String("transaction_id", existing.TransactionID))
			if cursor == nil || cursor.Before(occ) {
				if err := s.itemRepo.AdvanceCursor(ctx, item.RecurringItemID, occ); err != nil {
					return created, s.persistenceFailed(ctx, err, item, occ, "advance cursor")
				}
				cursor = &occ
			}
			continue
		}

		txn, err := s.buildTransaction(ctx, item, settlementCurrencyID, occ, now)
		if err != nil {
			occLogger.Warn("Failed to prepare occurrence", slog.String("error", err.Error()))
			return created, fmt.Errorf("recurring item %d occurrence %s: %w", item.RecurringItemID, occ.Format(time.DateOnly), err)
		}

		err = s.itemRepo.SaveOccurrence(ctx, *txn)
		if errors.Is(err, apperrors.ErrMaterializationConflict) {
			occLogger.Info("Occurrence materialized concurrently, skipping")
			cursor = &occ
			continue
		}
		if err != nil {
			return created, s.persistenceFailed(ctx, err, item, occ, "save occurrence")
		}

		created++
		cursor = &occ
		occLogger.Info("Materialized recurring occurrence",
			slog.String("transaction_id", txn.TransactionID),
			slog.String("amount", txn.Amount.String()),
			slog.Int64("currency_id", txn.CurrencyID))

		s.publish(ctx, item, *txn)
	}

	if s.deactivateDone {
		item.LastMaterializedDate = cursor
		exhausted, err := s.scheduler.IsExhausted(item)
		if err != nil {
			return created, fmt.Errorf("%w: recurring item %d: %v", apperrors.ErrValidation, item.RecurringItemID, err)
		}
		if exhausted {
			if err := s.itemRepo.DeactivateRecurringItem(ctx, item.RecurringItemID, domain.SystemActor); err != nil {
				return created, s.persistenceFailed(ctx, err, item, now, "deactivate item")
			}
			logger.Info("Deactivated recurring item past its end date")
		}
	}

	return created, nil
}

func (s *materializationEngine) buildTransaction(ctx context.Context, item domain.RecurringItem, settlementCurrencyID int64, occ, now time.Time) (*domain.Transaction, error) {
	converted, err := s.converter.Convert(ctx, item.Amount, item.CurrencyID, settlementCurrencyID, &occ)
	if err != nil {
		return nil, err
	}

	itemID := item.RecurringItemID
	occurrence := occ
	originalAmount := item.Amount
	originalCurrencyID := item.CurrencyID

	txn := &domain.Transaction{
		TransactionID:      s.newID(),
		OwnerID:            item.OwnerID,
		Type:               item.Type,
		Amount:             utils.RoundForPersistence(converted),
		CurrencyID:         settlementCurrencyID,
		Date:               occ,
		Category:           item.Category,
		Description:        item.Name,
		Source:             domain.SourceRecurring,
		RecurringItemID:    &itemID,
		OccurrenceDate:     &occurrence,
		OriginalAmount:     &originalAmount,
		OriginalCurrencyID: &originalCurrencyID,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     domain.SystemActor,
			LastUpdatedAt: now,
			LastUpdatedBy: domain.SystemActor,
		},
	}
	if item.CurrencyID != settlementCurrencyID {
		applied := converted.DivRound(item.Amount, 10)
		txn.ExchangeRate = &applied
	}

	if err := txn.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	return txn, nil
}

func (s *materializationEngine) publish(ctx context.Context, item domain.RecurringItem, txn domain.Transaction) {
	if s.sink == nil {
		return
	}
	event := domain.TransactionCreatedEvent{
		TransactionID:   txn.TransactionID,
		OwnerID:         txn.OwnerID,
		RecurringItemID: item.RecurringItemID,
		Type:            txn.Type,
		Amount:          txn.Amount,
		CurrencyID:      txn.CurrencyID,
		Date:            txn.Date,
	}
	if err := s.sink.Publish(ctx, event); err != nil {
		s.LogError(ctx, err, "Failed to publish transaction created event",
			slog.String("transaction_id", txn.TransactionID))
	}
}

func (s *materializationEngine) persistenceFailed(ctx context.Context, err error, item domain.RecurringItem, date time.Time, op string) error {
	s.LogError(ctx, err, "Recurring item persistence failed",
		slog.String("operation", op),
		slog.Int64("recurring_item_id", item.RecurringItemID),
		slog.String("date", date.Format(time.DateOnly)))
	if !errors.Is(err, apperrors.ErrPersistence) {
		err = errors.Join(apperrors.ErrPersistence, err)
	}
	return fmt.Errorf("recurring item %d: %s: %w", item.RecurringItemID, op, err)
}

func (s *materializationEngine) MaterializeOwner(ctx context.Context, owner domain.Owner, now time.Time) (int, error) {
	logger := s.GetLogger(ctx).With(slog.Int64("owner_id", owner.OwnerID))

	items, err := s.itemRepo.ListActiveRecurringItemsByOwner(ctx, owner.OwnerID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list recurring items", slog.Int64("owner_id", owner.OwnerID))
		if !errors.Is(err, apperrors.ErrPersistence) {
			err = errors.Join(apperrors.ErrPersistence, err)
		}
		return 0, fmt.Errorf("owner %d: list recurring items: %w", owner.OwnerID, err)
	}

	total := 0
	var errs []error
	for _, item := range items {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		n, err := s.Materialize(ctx, item, owner.SettlementCurrencyID, now)
		total += n
		if err == nil {
			continue
		}
		errs = append(errs, err)
		if !isItemScoped(err) {
			logger.Error("Aborting owner after recurring item failure", slog.String("error", err.Error()))
			break
		}
		logger.Warn("Recurring item failed, continuing with next item",
			slog.Int64("recurring_item_id", item.RecurringItemID),
			slog.String("error", err.Error()))
	}

	logger.Info("Materialized owner recurring items",
		slog.Int("items", len(items)),
		slog.Int("created", total),
		slog.Int("errors", len(errs)))
	return total, errors.Join(errs...)
}

// isItemScoped reports whether a failure only concerns the item it came from.
func isItemScoped(err error) bool {
	return errors.Is(err, apperrors.ErrRateUnavailable) || errors.Is(err, apperrors.ErrValidation)
}
