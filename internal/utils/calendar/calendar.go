// Package calendar implements the date arithmetic used by recurring schedules. Every
// value it returns is a calendar date at UTC midnight.
package calendar

import (
	"fmt"
	"time"

	"github.com/SscSPs/mma_daily_engine/internal/core/domain"
)

// DateOf returns the calendar date of t, as written in t's own location, at UTC midnight.
// Use it for values that are dates (start/end dates, rate dates).
func DateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Today returns the UTC calendar date of the instant now.
func Today(now time.Time) time.Time {
	return DateOf(now.UTC())
}

// DaysIn returns the number of days of month in year.
func DaysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// AddInterval steps date forward by n units. Month and year steps keep the day of month
// and clamp it to the last day of shorter months (Jan 31 + 1 month = Feb 28/29).
func AddInterval(date time.Time, unit domain.FrequencyUnit, n int) (time.Time, error) {
	date = DateOf(date)
	switch unit {
	case domain.Day:
		return date.AddDate(0, 0, n), nil
	case domain.Week:
		return date.AddDate(0, 0, 7*n), nil
	case domain.Month:
		return addMonthsClamped(date, n), nil
	case domain.Year:
		return addMonthsClamped(date, 12*n), nil
	default:
		return time.Time{}, fmt.Errorf("unsupported frequency unit %q", unit)
	}
}

func addMonthsClamped(date time.Time, months int) time.Time {
	total := int(date.Month()) - 1 + months
	year := date.Year() + floorDiv(total, 12)
	month := time.Month(total - floorDiv(total, 12)*12 + 1)

	day := date.Day()
	if last := DaysIn(year, month); day > last {
		day = last
	}
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// Occurrence returns the k-th (zero based) occurrence of a schedule anchored on anchor.
// Occurrences are always computed from the anchor, never from the previous occurrence,
// so a clamped February does not drag later months to the 28th.
func Occurrence(anchor time.Time, unit domain.FrequencyUnit, interval, k int) (time.Time, error) {
	return AddInterval(anchor, unit, k*interval)
}

// FirstIndexAfter returns the smallest k >= 0 whose occurrence is strictly after t.
func FirstIndexAfter(anchor time.Time, unit domain.FrequencyUnit, interval int, t time.Time) (int, error) {
	if interval < 1 {
		return 0, fmt.Errorf("frequency interval must be positive, got %d", interval)
	}
	anchor, t = DateOf(anchor), DateOf(t)
	if t.Before(anchor) {
		return 0, nil
	}

	k := estimateIndex(anchor, unit, interval, t)
	for k > 0 {
		prev, err := Occurrence(anchor, unit, interval, k-1)
		if err != nil {
			return 0, err
		}
		if !prev.After(t) {
			break
		}
		k--
	}
	for {
		occ, err := Occurrence(anchor, unit, interval, k)
		if err != nil {
			return 0, err
		}
		if occ.After(t) {
			return k, nil
		}
		k++
	}
}

func estimateIndex(anchor time.Time, unit domain.FrequencyUnit, interval int, t time.Time) int {
	days := int(t.Sub(anchor).Hours() / 24)
	months := (t.Year()-anchor.Year())*12 + int(t.Month()) - int(anchor.Month())

	switch unit {
	case domain.Day:
		return days / interval
	case domain.Week:
		return days / (7 * interval)
	case domain.Month:
		return months / interval
	case domain.Year:
		return months / (12 * interval)
	}
	return 0
}
