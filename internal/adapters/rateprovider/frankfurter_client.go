package rateprovider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/SscSPs/mma_daily_engine/internal/apperrors"
	portssvc "github.com/SscSPs/mma_daily_engine/internal/core/ports/services"
	"github.com/SscSPs/mma_daily_engine/internal/middleware"
	"github.com/shopspring/decimal"
)

const latestPath = "/latest"

// FrankfurterClient fetches ECB reference rates from a Frankfurter-compatible API.
type FrankfurterClient struct {
	baseURL    string
	httpClient *http.Client
	retries    int
	backoff    time.Duration
}

var _ portssvc.LiveRateProvider = (*FrankfurterClient)(nil)

// Option configures a FrankfurterClient
type Option func(*FrankfurterClient)

// WithHTTPClient replaces the default client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *FrankfurterClient) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithRetries sets how many times a failed request is retried.
func WithRetries(n int) Option {
	return func(c *FrankfurterClient) {
		if n >= 0 {
			c.retries = n
		}
	}
}

// WithBackoff sets the base wait between attempts. Attempt k waits k*k*backoff.
func WithBackoff(d time.Duration) Option {
	return func(c *FrankfurterClient) {
		c.backoff = d
	}
}

// NewFrankfurterClient creates a client for baseURL, e.g. https://api.frankfurter.app.
func NewFrankfurterClient(baseURL string, timeout time.Duration, options ...Option) *FrankfurterClient {
	c := &FrankfurterClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		retries:    2,
		backoff:    500 * time.Millisecond,
	}
	for _, option := range options {
		option(c)
	}
	return c
}

type latestResponse struct {
	Base  string                     `json:"base"`
	Date  string                     `json:"date"`
	Rates map[string]decimal.Decimal `json:"rates"`
}

// errPermanent marks responses that retrying cannot fix.
var errPermanent = errors.New("permanent")

// FetchRate returns how many units of quote one unit of base buys today.
func (c *FrankfurterClient) FetchRate(ctx context.Context, base, quote string) (decimal.Decimal, error) {
	base, quote = strings.ToUpper(base), strings.ToUpper(quote)
	q := url.Values{}
	q.Set("from", base)
	q.Set("to", quote)
	reqURL := c.baseURL + latestPath + "?" + q.Encode()

	logger := middleware.GetLoggerFromCtx(ctx)
	if logger == nil {
		logger = slog.Default()
	}

	var lastErr error
	for attempt := 0; attempt <= c.retries; attempt++ {
		if attempt > 0 {
			wait := time.Duration(attempt*attempt) * c.backoff
			logger.Warn("Rate request failed, retrying",
				slog.String("pair", base+"->"+quote),
				slog.Int("attempt", attempt),
				slog.Duration("backoff", wait),
				slog.String("error", lastErr.Error()))
			select {
			case <-ctx.Done():
				return decimal.Zero, errors.Join(apperrors.ErrRateProvider, ctx.Err())
			case <-time.After(wait):
			}
		}

		rate, err := c.fetchOnce(ctx, reqURL, quote)
		if err == nil {
			return rate, nil
		}
		lastErr = err
		if errors.Is(err, errPermanent) || ctx.Err() != nil {
			break
		}
	}
	return decimal.Zero, fmt.Errorf("%w: %s->%s: %w", apperrors.ErrRateProvider, base, quote, lastErr)
}

func (c *FrankfurterClient) fetchOnce(ctx context.Context, reqURL, quote string) (decimal.Decimal, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: failed to create request: %w", errPermanent, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
		if resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests {
			err = fmt.Errorf("%w: %w", errPermanent, err)
		}
		return decimal.Zero, err
	}

	var parsed latestResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return decimal.Zero, fmt.Errorf("%w: failed to decode response: %w", errPermanent, err)
	}
	rate, ok := parsed.Rates[quote]
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: response has no rate for %s", errPermanent, quote)
	}
	if !rate.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: invalid rate %s", errPermanent, rate.String())
	}
	return rate, nil
}
