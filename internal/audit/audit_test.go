package audit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "enrolld/pkg/domain"
)

func TestPublisher_Emit(t *testing.T) {
	store := NewInMemoryStore()
	publisher := NewPublisher(store)
	accountID := id.NewAccountID()

	t.Run("stamps a timestamp when missing", func(t *testing.T) {
		err := publisher.Emit(context.Background(), Event{
			Action:    ActionAccountRegistered,
			AccountID: accountID,
			Email:     "john.doe@example.com",
		})
		require.NoError(t, err)

		events, err := publisher.List(context.Background(), accountID)
		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.False(t, events[0].Timestamp.IsZero())
	})

	t.Run("preserves an explicit timestamp", func(t *testing.T) {
		stamped := time.Date(2026, 8, 28, 9, 0, 0, 0, time.UTC)
		err := publisher.Emit(context.Background(), Event{
			Timestamp: stamped,
			Action:    ActionRegistrationConfirmed,
			AccountID: accountID,
		})
		require.NoError(t, err)

		events, err := publisher.List(context.Background(), accountID)
		require.NoError(t, err)
		require.Len(t, events, 2)
		assert.Equal(t, stamped, events[1].Timestamp)
	})

	t.Run("lists only the requested account", func(t *testing.T) {
		events, err := publisher.List(context.Background(), id.NewAccountID())
		require.NoError(t, err)
		assert.Empty(t, events)
	})
}

func TestChannelPublisher_Emit(t *testing.T) {
	t.Run("delivers to the inbox", func(t *testing.T) {
		inbox := make(chan Event, 1)
		publisher := NewChannelPublisher(inbox)

		require.NoError(t, publisher.Emit(context.Background(), Event{Action: ActionAccountRegistered}))

		event := <-inbox
		assert.Equal(t, ActionAccountRegistered, event.Action)
		assert.False(t, event.Timestamp.IsZero())
	})

	t.Run("reports a full inbox instead of blocking", func(t *testing.T) {
		inbox := make(chan Event, 1)
		publisher := NewChannelPublisher(inbox)

		require.NoError(t, publisher.Emit(context.Background(), Event{Action: ActionAccountRegistered}))
		assert.Error(t, publisher.Emit(context.Background(), Event{Action: ActionRegistrationConfirmed}))
	})
}

func TestWorker_Run(t *testing.T) {
	store := NewInMemoryStore()
	inbox := make(chan Event, 4)
	worker := NewWorker(store, inbox)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- worker.Run(ctx) }()

	accountID := id.NewAccountID()
	inbox <- Event{Action: ActionRegistrationExpired, AccountID: accountID, Timestamp: time.Now()}

	require.Eventually(t, func() bool {
		events, err := store.ListByAccount(context.Background(), accountID)
		return err == nil && len(events) == 1
	}, time.Second, 10*time.Millisecond)

	cancel()
	require.ErrorIs(t, <-done, context.Canceled)
}
