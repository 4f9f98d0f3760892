package notification

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/SscSPs/mma_daily_engine/internal/core/domain"
	"github.com/SscSPs/mma_daily_engine/internal/middleware"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockEnqueuer struct {
	mock.Mock
}

func (m *MockEnqueuer) Enqueue(distinctID string, event string, properties map[string]any) error {
	return m.Called(distinctID, event, properties).Error(0)
}

func sampleEvent() domain.TransactionCreatedEvent {
	return domain.TransactionCreatedEvent{
		TransactionID:   "0b6f1c3e-2c55-4d40-9d53-93a4a2f0e0a1",
		OwnerID:         10,
		RecurringItemID: 1,
		Type:            domain.Expense,
		Amount:          decimal.RequireFromString("1215.00"),
		CurrencyID:      4,
		Date:            time.Date(2024, 11, 12, 0, 0, 0, 0, time.UTC),
	}
}

func TestPosthogSink_Publish(t *testing.T) {
	client := new(MockEnqueuer)
	client.On("Enqueue", "10", TransactionCreatedEventName, mock.MatchedBy(func(props map[string]any) bool {
		return props["transaction_id"] == "0b6f1c3e-2c55-4d40-9d53-93a4a2f0e0a1" &&
			props["amount"] == "1215" &&
			props["date"] == "2024-11-12" &&
			props["type"] == string(domain.Expense)
	})).Return(nil).Once()

	err := NewPosthogSink(client).Publish(context.Background(), sampleEvent())

	require.NoError(t, err)
	client.AssertExpectations(t)
}

func TestPosthogSink_PropagatesError(t *testing.T) {
	client := new(MockEnqueuer)
	client.On("Enqueue", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("queue full"))

	err := NewPosthogSink(client).Publish(context.Background(), sampleEvent())

	assert.EqualError(t, err, "queue full")
}

func TestLogSink_UsesContextLogger(t *testing.T) {
	var buf bytes.Buffer
	ctx := middleware.WithLogger(context.Background(), slog.New(slog.NewJSONHandler(&buf, nil)))

	require.NoError(t, LogSink{}.Publish(ctx, sampleEvent()))

	assert.Contains(t, buf.String(), `"msg":"Recurring transaction created"`)
	assert.Contains(t, buf.String(), `"owner_id":10`)
}

func TestFanOut_PublishesToAllAndJoinsErrors(t *testing.T) {
	failing := new(MockEnqueuer)
	failing.On("Enqueue", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("down"))
	healthy := new(MockEnqueuer)
	healthy.On("Enqueue", mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()

	err := FanOut{NewPosthogSink(failing), NewPosthogSink(healthy)}.Publish(context.Background(), sampleEvent())

	assert.EqualError(t, err, "down")
	healthy.AssertExpectations(t)
}
