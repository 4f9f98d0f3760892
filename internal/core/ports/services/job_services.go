package services

import (
	"context"
	"time"

	"github.com/SscSPs/mma_daily_engine/internal/core/domain"
)

// DailyJobRunnerSvc is the scheduled entry point: rate refresh then materialization.
type DailyJobRunnerSvc interface {
	// Run executes one daily run. Only a failure to list owners is returned as an error;
	// everything else is reported in the summary.
	Run(ctx context.Context, now time.Time) (*domain.DailyJobSummary, error)

	// RefreshRates fetches and stores today's rates for the configured pairs, returning
	// the number stored and the pairs that failed.
	RefreshRates(ctx context.Context, now time.Time) (int, []string)
}
