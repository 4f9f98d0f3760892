package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/SscSPs/mma_daily_engine/internal/apperrors"
	"github.com/SscSPs/mma_daily_engine/internal/core/domain"
	portssvc "github.com/SscSPs/mma_daily_engine/internal/core/ports/services"
	"github.com/SscSPs/mma_daily_engine/internal/core/services"
	"github.com/SscSPs/mma_daily_engine/internal/utils"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// --- Mock RateResolver ---
type MockRateResolver struct {
	mock.Mock
}

func (m *MockRateResolver) Resolve(ctx context.Context, from, to int64, asOf time.Time) (decimal.Decimal, error) {
	args := m.Called(ctx, from, to, asOf)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockRateResolver) ResolveDetailed(ctx context.Context, from, to int64, asOf time.Time) (*domain.ResolvedRate, error) {
	args := m.Called(ctx, from, to, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ResolvedRate), args.Error(1)
}

// --- Test Suite ---
type CurrencyConverterTestSuite struct {
	suite.Suite
	ctx          context.Context
	mockResolver *MockRateResolver
	now          time.Time
	converter    portssvc.CurrencyConverterSvc
}

func (suite *CurrencyConverterTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.mockResolver = new(MockRateResolver)
	suite.now = time.Date(2025, 1, 15, 23, 30, 0, 0, time.UTC)
	suite.converter = services.NewCurrencyConverter(suite.mockResolver,
		services.WithConverterClock(func() time.Time { return suite.now }))
}

func (suite *CurrencyConverterTestSuite) TestConvert_SameCurrencyIsIdentity() {
	got, err := suite.converter.Convert(suite.ctx, dec("100"), gel, gel, nil)

	suite.Require().NoError(err)
	suite.True(got.Equal(dec("100")))
	suite.mockResolver.AssertNotCalled(suite.T(), "Resolve", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *CurrencyConverterTestSuite) TestConvert_MultipliesWithoutRounding() {
	d := date(2025, 1, 12)
	suite.mockResolver.On("Resolve", suite.ctx, usd, gel, d).Return(dec("2.7512"), nil).Once()

	got, err := suite.converter.Convert(suite.ctx, dec("450"), usd, gel, &d)

	suite.Require().NoError(err)
	suite.True(got.Equal(dec("1238.04")), "got %s", got)
	suite.mockResolver.AssertExpectations(suite.T())
}

func (suite *CurrencyConverterTestSuite) TestConvert_KeepsSign() {
	d := date(2025, 1, 12)
	suite.mockResolver.On("Resolve", suite.ctx, usd, eur, d).Return(dec("0.9"), nil).Once()

	got, err := suite.converter.Convert(suite.ctx, dec("-10"), usd, eur, &d)

	suite.Require().NoError(err)
	suite.True(got.Equal(dec("-9")))
}

func (suite *CurrencyConverterTestSuite) TestConvert_DefaultsToTodayUTC() {
	suite.mockResolver.On("Resolve", suite.ctx, usd, eur, date(2025, 1, 15)).Return(dec("0.9"), nil).Once()

	_, err := suite.converter.Convert(suite.ctx, dec("1"), usd, eur, nil)

	suite.Require().NoError(err)
	suite.mockResolver.AssertExpectations(suite.T())
}

func (suite *CurrencyConverterTestSuite) TestConvert_PropagatesUnavailable() {
	d := date(2025, 1, 12)
	suite.mockResolver.On("Resolve", suite.ctx, usd, gel, d).
		Return(decimal.Zero, &apperrors.RateUnavailableError{FromCurrencyID: usd, ToCurrencyID: gel, Date: d}).Once()

	_, err := suite.converter.Convert(suite.ctx, dec("450"), usd, gel, &d)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrRateUnavailable)
}

func TestCurrencyConverter(t *testing.T) {
	suite.Run(t, new(CurrencyConverterTestSuite))
}

func TestCurrencyConverter_RoundTripWithinRounding(t *testing.T) {
	store := newMemRateStore()
	d := date(2025, 1, 12)
	store.put(usd, gel, d, "2.7345")
	converter := services.NewCurrencyConverter(services.NewRateResolver(store))
	ctx := context.Background()

	for _, amount := range []string{"450", "0.01", "1234567.89"} {
		there, err := converter.Convert(ctx, dec(amount), usd, gel, &d)
		require.NoError(t, err)
		back, err := converter.Convert(ctx, there, gel, usd, &d)
		require.NoError(t, err)
		assert.True(t, utils.RoundForPersistence(back).Equal(dec(amount)), "%s came back as %s", amount, back)
	}
}
