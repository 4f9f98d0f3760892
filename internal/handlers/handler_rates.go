package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/SscSPs/mma_daily_engine/internal/apperrors"
	portssvc "github.com/SscSPs/mma_daily_engine/internal/core/ports/services"
	"github.com/SscSPs/mma_daily_engine/internal/handlers/dto"
	"github.com/SscSPs/mma_daily_engine/internal/middleware"
	"github.com/SscSPs/mma_daily_engine/internal/utils/calendar"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// rateHandler handles HTTP requests related to exchange rates.
type rateHandler struct {
	resolver  portssvc.RateResolverSvc
	converter portssvc.CurrencyConverterSvc
	clock     func() time.Time
}

func newRateHandler(resolver portssvc.RateResolverSvc, converter portssvc.CurrencyConverterSvc) *rateHandler {
	return &rateHandler{resolver: resolver, converter: converter, clock: time.Now}
}

func registerRateRoutes(rg *gin.RouterGroup, resolver portssvc.RateResolverSvc, converter portssvc.CurrencyConverterSvc) {
	h := newRateHandler(resolver, converter)

	rates := rg.Group("/rates")
	{
		rates.GET("/convert", h.convert)
	}
}

// convert converts ?amount from ?from to ?to as of ?date (default today, UTC).
func (h *rateHandler) convert(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)

	var req dto.ConvertRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		logger.Warn("Failed to bind convert query", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid amount"})
		return
	}
	asOf := calendar.Today(h.clock())
	if req.Date != "" {
		asOf, err = time.Parse(time.DateOnly, req.Date)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date"})
			return
		}
	}

	rate, err := h.resolver.ResolveDetailed(c.Request.Context(), req.FromCurrencyID, req.ToCurrencyID, asOf)
	if err != nil {
		writeRateError(c, logger, err)
		return
	}
	converted, err := h.converter.Convert(c.Request.Context(), amount, req.FromCurrencyID, req.ToCurrencyID, &asOf)
	if err != nil {
		writeRateError(c, logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToConvertResponse(req, amount, converted, asOf, *rate))
}

func writeRateError(c *gin.Context, logger *slog.Logger, err error) {
	switch {
	case errors.Is(err, apperrors.ErrRateUnavailable):
		logger.Warn("Exchange rate unavailable", slog.String("error", err.Error()))
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		logger.Error("Failed to convert amount", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to convert amount"})
	}
}
