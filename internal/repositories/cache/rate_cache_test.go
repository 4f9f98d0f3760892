package cache

import (
	"testing"
	"time"

	"github.com/SscSPs/mma_daily_engine/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T, ttl time.Duration) *BadgerRateCache {
	t.Helper()
	c, err := NewBadgerRateCache(ttl, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestBadgerRateCache_SetGet(t *testing.T) {
	c := newTestCache(t, time.Hour)
	day := time.Date(2025, 1, 12, 0, 0, 0, 0, time.UTC)
	rate := domain.ResolvedRate{
		Rate: decimal.RequireFromString("1.25"),
		Source: domain.ExchangeRate{
			BaseCurrencyID:  2,
			QuoteCurrencyID: 1,
			RateDate:        day,
			Rate:            decimal.RequireFromString("0.8"),
		},
		Inverted: true,
	}

	_, ok := c.Get(1, 2, day)
	assert.False(t, ok)

	c.Set(1, 2, day, rate)

	got, ok := c.Get(1, 2, day.Add(15*time.Hour))
	require.True(t, ok, "lookups within the same calendar day share an entry")
	assert.True(t, got.Rate.Equal(rate.Rate))
	assert.True(t, got.Inverted)
	assert.Equal(t, int64(2), got.Source.BaseCurrencyID)
	assert.True(t, got.Source.RateDate.Equal(day))

	_, ok = c.Get(2, 1, day)
	assert.False(t, ok, "direction is part of the key")
	_, ok = c.Get(1, 2, day.AddDate(0, 0, 1))
	assert.False(t, ok)
}

func TestBadgerRateCache_Purge(t *testing.T) {
	c := newTestCache(t, 0)
	day := time.Date(2025, 1, 12, 0, 0, 0, 0, time.UTC)
	c.Set(1, 2, day, domain.ResolvedRate{Rate: decimal.NewFromInt(2)})
	c.Set(1, 4, day, domain.ResolvedRate{Rate: decimal.NewFromInt(3)})

	require.NoError(t, c.Purge())

	_, ok := c.Get(1, 2, day)
	assert.False(t, ok)
	_, ok = c.Get(1, 4, day)
	assert.False(t, ok)
}

func TestBadgerRateCache_Expiry(t *testing.T) {
	c := newTestCache(t, time.Second)
	day := time.Date(2025, 1, 12, 0, 0, 0, 0, time.UTC)
	c.Set(1, 2, day, domain.ResolvedRate{Rate: decimal.NewFromInt(2)})

	_, ok := c.Get(1, 2, day)
	require.True(t, ok)

	assert.Eventually(t, func() bool {
		_, ok := c.Get(1, 2, day)
		return !ok
	}, 5*time.Second, 100*time.Millisecond)
}
