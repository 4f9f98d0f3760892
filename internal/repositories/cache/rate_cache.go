package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/mma_daily_engine/internal/core/domain"
	portssvc "github.com/SscSPs/mma_daily_engine/internal/core/ports/services"
	"github.com/SscSPs/mma_daily_engine/internal/utils/calendar"
	"github.com/dgraph-io/badger/v3"
)

// BadgerRateCache keeps resolved rates in an in-memory badger instance. Entries expire
// after the configured TTL.
type BadgerRateCache struct {
	db     *badger.DB
	ttl    time.Duration
	logger *slog.Logger
}

var _ portssvc.RateCache = (*BadgerRateCache)(nil)

// NewBadgerRateCache opens an in-memory badger store. A non-positive ttl keeps entries
// until the next Purge.
func NewBadgerRateCache(ttl time.Duration, logger *slog.Logger) (*BadgerRateCache, error) {
	if logger == nil {
		logger = slog.Default()
	}
	opts := badger.DefaultOptions("").WithInMemory(true)
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open rate cache: %w", err)
	}
	return &BadgerRateCache{db: db, ttl: ttl, logger: logger.With(slog.String("component", "rate_cache"))}, nil
}

func cacheKey(fromCurrencyID, toCurrencyID int64, date time.Time) []byte {
	return fmt.Appendf(nil, "rate:%d:%d:%s", fromCurrencyID, toCurrencyID, calendar.DateOf(date).Format(time.DateOnly))
}

// Get returns the cached rate, if present and not expired.
func (c *BadgerRateCache) Get(fromCurrencyID, toCurrencyID int64, date time.Time) (*domain.ResolvedRate, bool) {
	var rate domain.ResolvedRate
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(cacheKey(fromCurrencyID, toCurrencyID, date))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &rate)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, false
	}
	if err != nil {
		c.logger.Warn("Failed to read rate cache entry", slog.String("error", err.Error()))
		return nil, false
	}
	return &rate, true
}

// Set stores rate. Failures are logged; the cache is best effort.
func (c *BadgerRateCache) Set(fromCurrencyID, toCurrencyID int64, date time.Time, rate domain.ResolvedRate) {
	data, err := json.Marshal(rate)
	if err != nil {
		c.logger.Warn("Failed to encode rate cache entry", slog.String("error", err.Error()))
		return
	}
	err = c.db.Update(func(txn *badger.Txn) error {
		entry := badger.NewEntry(cacheKey(fromCurrencyID, toCurrencyID, date), data)
		if c.ttl > 0 {
			entry = entry.WithTTL(c.ttl)
		}
		return txn.SetEntry(entry)
	})
	if err != nil {
		c.logger.Warn("Failed to write rate cache entry", slog.String("error", err.Error()))
	}
}

// Purge drops every entry.
func (c *BadgerRateCache) Purge() error {
	if err := c.db.DropAll(); err != nil {
		return fmt.Errorf("failed to purge rate cache: %w", err)
	}
	return nil
}

// Close releases the underlying store.
func (c *BadgerRateCache) Close() error {
	return c.db.Close()
}
