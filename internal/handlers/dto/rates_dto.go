package dto

import (
	"time"

	"github.com/SscSPs/mma_daily_engine/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ConvertRequest is bound from the query string of GET /rates/convert.
type ConvertRequest struct {
	FromCurrencyID int64  `form:"from" binding:"required,gt=0"`
	ToCurrencyID   int64  `form:"to" binding:"required,gt=0"`
	Amount         string `form:"amount" binding:"required,numeric"`
	Date           string `form:"date" binding:"omitempty,datetime=2006-01-02"`
}

// ConvertResponse is the result of a conversion together with the rate used.
type ConvertResponse struct {
	FromCurrencyID int64           `json:"fromCurrencyID"`
	ToCurrencyID   int64           `json:"toCurrencyID"`
	Amount         decimal.Decimal `json:"amount"`
	Converted      decimal.Decimal `json:"converted"`
	Rate           decimal.Decimal `json:"rate"`
	AsOf           string          `json:"asOf"`
	RateDate       *string         `json:"rateDate,omitempty"`
	Inverted       bool            `json:"inverted"`
}

// ToConvertResponse builds the response from a resolved rate and the converted amount.
func ToConvertResponse(req ConvertRequest, amount, converted decimal.Decimal, asOf time.Time, rate domain.ResolvedRate) ConvertResponse {
	resp := ConvertResponse{
		FromCurrencyID: req.FromCurrencyID,
		ToCurrencyID:   req.ToCurrencyID,
		Amount:         amount,
		Converted:      converted,
		Rate:           rate.Rate,
		AsOf:           asOf.Format(time.DateOnly),
		Inverted:       rate.Inverted,
	}
	if !rate.Source.RateDate.IsZero() {
		d := rate.Source.RateDate.Format(time.DateOnly)
		resp.RateDate = &d
	}
	return resp
}

// DailyJobResponse wraps the run summary; Error is set when the run aborted.
type DailyJobResponse struct {
	*domain.DailyJobSummary
	Error string `json:"error,omitempty"`
}
