package services

import (
	"fmt"
	"time"

	"github.com/SscSPs/mma_daily_engine/internal/core/domain"
	portssvc "github.com/SscSPs/mma_daily_engine/internal/core/ports/services"
	"github.com/SscSPs/mma_daily_engine/internal/utils/calendar"
)

// recurrenceScheduler implements the RecurrenceSchedulerSvc interface. It holds no state.
type recurrenceScheduler struct{}

// NewRecurrenceScheduler creates a new recurrence scheduler.
func NewRecurrenceScheduler() portssvc.RecurrenceSchedulerSvc {
	return &recurrenceScheduler{}
}

var _ portssvc.RecurrenceSchedulerSvc = (*recurrenceScheduler)(nil)

// DueOccurrences walks the schedule anchored on the start date, from the first
// occurrence after the cursor up to today (UTC) or the end date, whichever comes first.
func (s *recurrenceScheduler) DueOccurrences(item domain.RecurringItem, now time.Time) ([]time.Time, error) {
	if !item.IsActive {
		return nil, nil
	}

	limit := calendar.Today(now)
	if item.EndDate != nil {
		if end := calendar.DateOf(*item.EndDate); end.Before(limit) {
			limit = end
		}
	}

	k, err := s.firstIndex(item)
	if err != nil {
		return nil, err
	}

	var due []time.Time
	for {
		occ, err := calendar.Occurrence(item.StartDate, item.FrequencyUnit, item.FrequencyInterval, k)
		if err != nil {
			return nil, err
		}
		if occ.After(limit) {
			return due, nil
		}
		due = append(due, occ)
		k++
	}
}

func (s *recurrenceScheduler) NextOccurrence(item domain.RecurringItem) (*time.Time, error) {
	if !item.IsActive {
		return nil, nil
	}
	next, exhausted, err := s.next(item)
	if err != nil || exhausted {
		return nil, err
	}
	return &next, nil
}

func (s *recurrenceScheduler) IsExhausted(item domain.RecurringItem) (bool, error) {
	_, exhausted, err := s.next(item)
	return exhausted, err
}

func (s *recurrenceScheduler) next(item domain.RecurringItem) (time.Time, bool, error) {
	k, err := s.firstIndex(item)
	if err != nil {
		return time.Time{}, false, err
	}
	occ, err := calendar.Occurrence(item.StartDate, item.FrequencyUnit, item.FrequencyInterval, k)
	if err != nil {
		return time.Time{}, false, err
	}
	exhausted := item.EndDate != nil && occ.After(calendar.DateOf(*item.EndDate))
	return occ, exhausted, nil
}

// firstIndex is the index of the first occurrence strictly after the cursor, or 0 when
// nothing was materialized yet.
func (s *recurrenceScheduler) firstIndex(item domain.RecurringItem) (int, error) {
	if item.FrequencyInterval < 1 {
		return 0, fmt.Errorf("frequency interval must be positive, got %d", item.FrequencyInterval)
	}
	if item.LastMaterializedDate == nil {
		_, err := calendar.AddInterval(item.StartDate, item.FrequencyUnit, 0)
		return 0, err
	}
	return calendar.FirstIndexAfter(item.StartDate, item.FrequencyUnit, item.FrequencyInterval, *item.LastMaterializedDate)
}
