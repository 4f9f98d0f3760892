package services_test

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/SscSPs/mma_daily_engine/internal/apperrors"
	"github.com/SscSPs/mma_daily_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/mma_daily_engine/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/mma_daily_engine/internal/core/ports/services"
	"github.com/shopspring/decimal"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func datePtr(y int, m time.Month, d int) *time.Time {
	t := date(y, m, d)
	return &t
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// --- in-memory rate store ---

type rateKey struct {
	base, quote int64
	date        time.Time
}

type memRateStore struct {
	mu    sync.Mutex
	rates map[rateKey]decimal.Decimal
	reads int
}

func newMemRateStore() *memRateStore {
	return &memRateStore{rates: map[rateKey]decimal.Decimal{}}
}

var _ portsrepo.ExchangeRateRepositoryFacade = (*memRateStore)(nil)

func (s *memRateStore) put(base, quote int64, d time.Time, rate string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rates[rateKey{base, quote, d}] = dec(rate)
}

func (s *memRateStore) FindRateOnDate(_ context.Context, base, quote int64, d time.Time) (*domain.ExchangeRate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reads++
	rate, ok := s.rates[rateKey{base, quote, d}]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &domain.ExchangeRate{BaseCurrencyID: base, QuoteCurrencyID: quote, RateDate: d, Rate: rate}, nil
}

func (s *memRateStore) FindLatestRateOnOrBefore(_ context.Context, base, quote int64, d time.Time) (*domain.ExchangeRate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reads++
	var best *domain.ExchangeRate
	for k, rate := range s.rates {
		if k.base != base || k.quote != quote || k.date.After(d) || !rate.IsPositive() {
			continue
		}
		if best == nil || k.date.After(best.RateDate) {
			best = &domain.ExchangeRate{BaseCurrencyID: base, QuoteCurrencyID: quote, RateDate: k.date, Rate: rate}
		}
	}
	if best == nil {
		return nil, apperrors.ErrNotFound
	}
	return best, nil
}

func (s *memRateStore) UpsertExchangeRate(_ context.Context, rate domain.ExchangeRate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rates[rateKey{rate.BaseCurrencyID, rate.QuoteCurrencyID, rate.RateDate}] = rate.Rate
	return nil
}

// --- in-memory recurring items + transactions ---

type occurrenceKey struct {
	itemID int64
	date   time.Time
}

type memLedger struct {
	mu          sync.Mutex
	items       map[int64]*domain.RecurringItem
	txns        map[occurrenceKey]domain.Transaction
	saveErr     error
	listErr     error
	deactivated []int64
	// staleReads hides existing transactions from FindRecurringOccurrence, the way a
	// concurrent run that has not committed yet would.
	staleReads bool
}

func newMemLedger(items ...domain.RecurringItem) *memLedger {
	l := &memLedger{
		items: map[int64]*domain.RecurringItem{},
		txns:  map[occurrenceKey]domain.Transaction{},
	}
	for _, it := range items {
		it := it
		l.items[it.RecurringItemID] = &it
	}
	return l
}

var (
	_ portsrepo.RecurringItemRepositoryFacade = (*memLedger)(nil)
	_ portsrepo.TransactionReader             = (*memLedger)(nil)
)

func (l *memLedger) ListActiveRecurringItemsByOwner(_ context.Context, ownerID int64) ([]domain.RecurringItem, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.listErr != nil {
		return nil, l.listErr
	}
	var out []domain.RecurringItem
	for _, it := range l.items {
		if it.OwnerID == ownerID && it.IsActive {
			out = append(out, *it)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RecurringItemID < out[j].RecurringItemID })
	return out, nil
}

func (l *memLedger) SaveOccurrence(_ context.Context, txn domain.Transaction) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.saveErr != nil {
		return l.saveErr
	}
	key := occurrenceKey{*txn.RecurringItemID, *txn.OccurrenceDate}
	l.advance(key.itemID, key.date)
	if _, exists := l.txns[key]; exists {
		return apperrors.ErrMaterializationConflict
	}
	l.txns[key] = txn
	return nil
}

func (l *memLedger) AdvanceCursor(_ context.Context, itemID int64, d time.Time) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.advance(itemID, d)
	return nil
}

func (l *memLedger) advance(itemID int64, d time.Time) {
	it, ok := l.items[itemID]
	if !ok {
		return
	}
	if it.LastMaterializedDate == nil || it.LastMaterializedDate.Before(d) {
		it.LastMaterializedDate = &d
	}
}

func (l *memLedger) DeactivateRecurringItem(_ context.Context, itemID int64, _ string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if it, ok := l.items[itemID]; ok {
		it.IsActive = false
	}
	l.deactivated = append(l.deactivated, itemID)
	return nil
}

func (l *memLedger) FindRecurringOccurrence(_ context.Context, itemID int64, d time.Time) (*domain.Transaction, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	txn, ok := l.txns[occurrenceKey{itemID, d}]
	if !ok || l.staleReads {
		return nil, apperrors.ErrNotFound
	}
	return &txn, nil
}

// item returns the current stored state of an item.
func (l *memLedger) item(id int64) domain.RecurringItem {
	l.mu.Lock()
	defer l.mu.Unlock()
	return *l.items[id]
}

func (l *memLedger) transactionsFor(itemID int64) []domain.Transaction {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []domain.Transaction
	for k, t := range l.txns {
		if k.itemID == itemID {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

// --- notification sink ---

type recordingSink struct {
	mu     sync.Mutex
	events []domain.TransactionCreatedEvent
	err    error
}

var _ portssvc.NotificationSink = (*recordingSink)(nil)

func (s *recordingSink) Publish(_ context.Context, event domain.TransactionCreatedEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return s.err
}
