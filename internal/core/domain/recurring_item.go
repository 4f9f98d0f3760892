package domain

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// FlowType tells whether money comes in or goes out.
type FlowType string

const (
	Income  FlowType = "income"
	Expense FlowType = "expense"
)

// FrequencyUnit is the calendar unit a recurring item steps by.
type FrequencyUnit string

const (
	Day   FrequencyUnit = "day"
	Week  FrequencyUnit = "week"
	Month FrequencyUnit = "month"
	Year  FrequencyUnit = "year"
)

// RecurringItem is a user-defined schedule (rent, salary, subscriptions...) whose due
// occurrences are materialized into transactions by the daily job.
type RecurringItem struct {
	RecurringItemID   int64           `json:"recurringItemID" validate:"required,gt=0"`
	OwnerID           int64           `json:"ownerID" validate:"required,gt=0"`
	Name              string          `json:"name"`
	Type              FlowType        `json:"type" validate:"required,oneof=income expense"`
	Amount            decimal.Decimal `json:"amount"`
	CurrencyID        int64           `json:"currencyID" validate:"required,gt=0"`
	Category          string          `json:"category"`
	StartDate         time.Time       `json:"startDate" validate:"required"`
	EndDate           *time.Time      `json:"endDate,omitempty"`
	FrequencyUnit     FrequencyUnit   `json:"frequencyUnit" validate:"required,oneof=day week month year"`
	FrequencyInterval int             `json:"frequencyInterval" validate:"required,gte=1"`
	IsActive          bool            `json:"isActive"`
	// LastMaterializedDate is the persisted cursor: the most recent occurrence that has a
	// transaction. Nil until the first materialization.
	LastMaterializedDate *time.Time `json:"lastMaterializedDate,omitempty"`
	AuditFields
}

var itemValidator = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the structural rules of a recurring item definition.
func (r RecurringItem) Validate() error {
	if err := itemValidator.Struct(r); err != nil {
		return err
	}
	if !r.Amount.IsPositive() {
		return fmt.Errorf("amount must be positive, got %s", r.Amount.String())
	}
	if r.EndDate != nil && r.EndDate.Before(r.StartDate) {
		return fmt.Errorf("end date %s is before start date %s",
			r.EndDate.Format(time.DateOnly), r.StartDate.Format(time.DateOnly))
	}
	return nil
}
