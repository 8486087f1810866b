package events_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/backend-kafe/internal/events"
)

type captureNotifier struct {
	events []events.Event
	err    error
}

func (c *captureNotifier) Notify(_ context.Context, event events.Event) error {
	c.events = append(c.events, event)
	return c.err
}

func TestEmitPersistsAndFansOut(t *testing.T) {
	store := events.NewMemoryStore(0)
	notifier := &captureNotifier{}
	bus := events.Bus{
		Store:     store,
		Notifiers: []events.Notifier{notifier},
		Now:       func() time.Time { return time.Unix(1700000000, 0) },
	}

	ev, err := bus.Emit(context.Background(), events.TopicOrderFinalized, map[string]any{"total": 1050})
	require.NoError(t, err)
	require.Equal(t, events.TopicOrderFinalized, ev.Topic)
	require.JSONEq(t, `{"total":1050}`, string(ev.Payload))
	require.Equal(t, time.Unix(1700000000, 0), ev.OccurredAt)

	require.Len(t, store.List(), 1)
	require.Len(t, notifier.events, 1)
	require.Equal(t, ev.ID, notifier.events[0].ID)
}

func TestEmitRequiresTopic(t *testing.T) {
	bus := events.Bus{Store: events.NewMemoryStore(0)}
	_, err := bus.Emit(context.Background(), "  ", nil)
	require.Error(t, err)
}

func TestEmitRejectsInvalidRawPayload(t *testing.T) {
	bus := events.Bus{Store: events.NewMemoryStore(0)}
	_, err := bus.Emit(context.Background(), events.TopicMuffinsBaked, []byte("{not json"))
	require.Error(t, err)
}

func TestNotifierErrorsDoNotDropEvent(t *testing.T) {
	store := events.NewMemoryStore(0)
	boom := &captureNotifier{err: errors.New("boom")}
	bus := events.Bus{Store: store, Notifiers: []events.Notifier{boom}}

	_, err := bus.Emit(context.Background(), events.TopicPriceUpdated, nil)
	require.Error(t, err)
	require.Len(t, store.List(), 1, "event is persisted before fan-out")
}

func TestMemoryStoreEvicts(t *testing.T) {
	store := events.NewMemoryStore(2)
	bus := events.Bus{Store: store}
	for i := 0; i < 3; i++ {
		_, err := bus.Emit(context.Background(), events.TopicMuffinsBaked, map[string]int{"n": i})
		require.NoError(t, err)
	}
	got := store.List()
	require.Len(t, got, 2)
	require.JSONEq(t, `{"n":1}`, string(got[0].Payload))
	require.JSONEq(t, `{"n":2}`, string(got[1].Payload))
}
