package bus_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arda-labs/social-derivation/internal/bus"
	"github.com/arda-labs/social-derivation/internal/domain"
)

func makeEvent(eventType string, fields map[string]any) []byte {
	if fields == nil {
		fields = map[string]any{}
	}
	fields["event_type"] = eventType
	b, _ := json.Marshal(fields)
	return b
}

func TestRegisterAndDispatch(t *testing.T) {
	called := false
	bus.Register("topic-a", "widget.created", func(ctx context.Context, evt domain.RawEvent) error {
		called = true
		return nil
	})

	err := bus.Dispatch(context.Background(), "topic-a", makeEvent("widget.created", nil))
	require.NoError(t, err)
	assert.True(t, called)
}

func TestDispatch_UnknownEventType_NoOp(t *testing.T) {
	err := bus.Dispatch(context.Background(), "topic-b", makeEvent("nothing.registered", nil))
	assert.NoError(t, err)
}

func TestDispatch_InvalidJSON_NoOp(t *testing.T) {
	err := bus.Dispatch(context.Background(), "topic-c", []byte("not json"))
	assert.NoError(t, err)
}

func TestDispatch_PropagatesHandlerError(t *testing.T) {
	wantErr := errors.New("boom")
	bus.Register("topic-d", "thing.failed", func(ctx context.Context, evt domain.RawEvent) error {
		return wantErr
	})

	err := bus.Dispatch(context.Background(), "topic-d", makeEvent("thing.failed", nil))
	assert.ErrorIs(t, err, wantErr)
}

func TestRegister_DuplicatePanics(t *testing.T) {
	bus.Register("topic-e", "dupe.event", func(ctx context.Context, evt domain.RawEvent) error { return nil })

	assert.Panics(t, func() {
		bus.Register("topic-e", "dupe.event", func(ctx context.Context, evt domain.RawEvent) error { return nil })
	})
}
