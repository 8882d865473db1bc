package possync

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestNewQueueItem(t *testing.T) {
	orderID := uuid.New()
	configID := uuid.New()

	item := NewQueueItem(orderID, "1001", configID)

	assert.NotEqual(t, uuid.Nil, item.ID)
	assert.Equal(t, orderID, item.OrderID)
	assert.Equal(t, "1001", item.OrderNumber)
	assert.Equal(t, configID, item.ConfigID)
	assert.Equal(t, QueueStatusPending, item.Status)
	assert.Equal(t, 0, item.RetryCount)
	assert.Empty(t, item.LastError)
}

func TestQueueStatus_IsValid(t *testing.T) {
	assert.True(t, QueueStatusPending.IsValid())
	assert.True(t, QueueStatusProcessing.IsValid())
	assert.True(t, QueueStatusCompleted.IsValid())
	assert.True(t, QueueStatusFailed.IsValid())
	assert.False(t, QueueStatus("DONE").IsValid())
}

func TestQueueStatus_IsTerminal(t *testing.T) {
	assert.False(t, QueueStatusPending.IsTerminal())
	assert.False(t, QueueStatusProcessing.IsTerminal())
	assert.True(t, QueueStatusCompleted.IsTerminal())
	assert.True(t, QueueStatusFailed.IsTerminal())
}

func TestNextState(t *testing.T) {
	tests := []struct {
		name       string
		retryCount int
		outcome    Outcome
		errMsg     string
		maxRetries int
		want       Transition
	}{
		{
			name:       "success completes",
			retryCount: 0,
			outcome:    OutcomeSuccess,
			maxRetries: 3,
			want:       Transition{Status: QueueStatusCompleted, RetryCount: 0, Terminal: true},
		},
		{
			name:       "success completes even at cap",
			retryCount: 3,
			outcome:    OutcomeSuccess,
			maxRetries: 3,
			want:       Transition{Status: QueueStatusCompleted, RetryCount: 3, Terminal: true},
		},
		{
			name:       "transport error below cap retries",
			retryCount: 0,
			outcome:    OutcomeTransportError,
			errMsg:     "connection refused",
			maxRetries: 3,
			want:       Transition{Status: QueueStatusPending, RetryCount: 1, Error: "connection refused"},
		},
		{
			name:       "rejection below cap retries",
			retryCount: 2,
			outcome:    OutcomeRejected,
			errMsg:     "terminal group is offline",
			maxRetries: 3,
			want:       Transition{Status: QueueStatusPending, RetryCount: 3, Error: "terminal group is offline"},
		},
		{
			name:       "failure at cap is terminal",
			retryCount: 3,
			outcome:    OutcomeTransportError,
			errMsg:     "timeout",
			maxRetries: 3,
			want:       Transition{Status: QueueStatusFailed, RetryCount: 3, Error: "timeout", Terminal: true},
		},
		{
			name:       "failure above cap is terminal",
			retryCount: 5,
			outcome:    OutcomeRejected,
			errMsg:     "rejected",
			maxRetries: 3,
			want:       Transition{Status: QueueStatusFailed, RetryCount: 5, Error: "rejected", Terminal: true},
		},
		{
			name:       "custom cap respected",
			retryCount: 3,
			outcome:    OutcomeTransportError,
			errMsg:     "timeout",
			maxRetries: 5,
			want:       Transition{Status: QueueStatusPending, RetryCount: 4, Error: "timeout"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := NewQueueItem(uuid.New(), "1001", uuid.New())
			item.Status = QueueStatusProcessing
			item.RetryCount = tt.retryCount

			got := NextState(item, tt.outcome, tt.errMsg, tt.maxRetries)

			assert.Equal(t, tt.want, got)
		})
	}
}

func TestQueueItem_Apply(t *testing.T) {
	item := NewQueueItem(uuid.New(), "1001", uuid.New())
	item.Status = QueueStatusProcessing
	before := item.UpdatedAt

	time.Sleep(time.Millisecond)
	item.Apply(Transition{Status: QueueStatusPending, RetryCount: 1, Error: "network error"})

	assert.Equal(t, QueueStatusPending, item.Status)
	assert.Equal(t, 1, item.RetryCount)
	assert.Equal(t, "network error", item.LastError)
	assert.True(t, item.UpdatedAt.After(before))
}

func TestOutcome_IsFailure(t *testing.T) {
	assert.False(t, OutcomeSuccess.IsFailure())
	assert.True(t, OutcomeRejected.IsFailure())
	assert.True(t, OutcomeTransportError.IsFailure())
}
