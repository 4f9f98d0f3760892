package domain

import "time"

// DailyJobSummary is the report of one daily run.
type DailyJobSummary struct {
	RunID               string    `json:"runID"`
	StartedAt           time.Time `json:"startedAt"`
	FinishedAt          time.Time `json:"finishedAt"`
	RatesUpdated        int       `json:"ratesUpdated"`
	RatesFailed         []string  `json:"ratesFailed"`
	OwnersProcessed     int       `json:"ownersProcessed"`
	TransactionsCreated int       `json:"transactionsCreated"`
	RecurringErrors     []string  `json:"recurringErrors"`
}
