package rateprovider

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/SscSPs/mma_daily_engine/internal/apperrors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrankfurterClient_FetchRate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/latest", r.URL.Path)
		assert.Equal(t, "USD", r.URL.Query().Get("from"))
		assert.Equal(t, "EUR", r.URL.Query().Get("to"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"amount":1.0,"base":"USD","date":"2025-01-15","rates":{"EUR":0.9312}}`))
	}))
	defer server.Close()

	client := NewFrankfurterClient(server.URL+"/", time.Second)
	rate, err := client.FetchRate(context.Background(), "usd", "eur")

	require.NoError(t, err)
	assert.True(t, rate.Equal(decimal.RequireFromString("0.9312")), "got %s", rate)
}

func TestFrankfurterClient_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{"base":"EUR","rates":{"GEL":2.91}}`))
	}))
	defer server.Close()

	client := NewFrankfurterClient(server.URL, time.Second, WithRetries(2), WithBackoff(time.Millisecond))
	rate, err := client.FetchRate(context.Background(), "EUR", "GEL")

	require.NoError(t, err)
	assert.True(t, rate.Equal(decimal.RequireFromString("2.91")))
	assert.EqualValues(t, 3, calls.Load())
}

func TestFrankfurterClient_GivesUpAfterRetries(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewFrankfurterClient(server.URL, time.Second, WithRetries(1), WithBackoff(time.Millisecond))
	_, err := client.FetchRate(context.Background(), "USD", "EUR")

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrRateProvider)
	assert.Contains(t, err.Error(), "503")
	assert.EqualValues(t, 2, calls.Load())
}

func TestFrankfurterClient_DoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"not found"}`))
	}))
	defer server.Close()

	client := NewFrankfurterClient(server.URL, time.Second, WithRetries(3), WithBackoff(time.Millisecond))
	_, err := client.FetchRate(context.Background(), "USD", "XAU")

	assert.ErrorIs(t, err, apperrors.ErrRateProvider)
	assert.EqualValues(t, 1, calls.Load())
}

func TestFrankfurterClient_MissingQuote(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"base":"USD","rates":{}}`))
	}))
	defer server.Close()

	client := NewFrankfurterClient(server.URL, time.Second, WithBackoff(time.Millisecond))
	_, err := client.FetchRate(context.Background(), "USD", "GEL")

	assert.ErrorIs(t, err, apperrors.ErrRateProvider)
	assert.Contains(t, err.Error(), "no rate for GEL")
}

func TestFrankfurterClient_RespectsContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	client := NewFrankfurterClient(server.URL, 10*time.Second, WithRetries(5), WithBackoff(time.Second))
	start := time.Now()
	_, err := client.FetchRate(ctx, "USD", "EUR")

	assert.ErrorIs(t, err, apperrors.ErrRateProvider)
	assert.Less(t, time.Since(start), 2*time.Second)
}
