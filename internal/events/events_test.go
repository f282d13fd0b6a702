package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestDirectPublisherRunsEveryHandler(t *testing.T) {
	var got []Type
	failing := func(ctx context.Context, e Event) error { return errors.New("boom") }
	recording := func(ctx context.Context, e Event) error {
		got = append(got, e.Type)
		return nil
	}

	p := NewDirectPublisher(zap.NewNop(), failing, recording)
	err := p.Publish(context.Background(), Event{Type: QueueCreated, QueueID: 1})

	require.NoError(t, err)
	assert.Equal(t, []Type{QueueCreated}, got)
}

func TestDecode(t *testing.T) {
	actor := int64(3)
	in := Event{
		Type:       QueueCanceled,
		QueueID:    12,
		QueueCode:  "KS012",
		ActorID:    &actor,
		OccurredAt: time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC),
	}
	body, err := json.Marshal(in)
	require.NoError(t, err)

	out, err := Decode(body)
	require.NoError(t, err)
	assert.Equal(t, in.Type, out.Type)
	assert.Equal(t, in.QueueCode, out.QueueCode)
	require.NotNil(t, out.ActorID)
	assert.Equal(t, actor, *out.ActorID)
	assert.True(t, in.OccurredAt.Equal(out.OccurredAt))
}

func TestDecodeRejectsIncompletePayload(t *testing.T) {
	_, err := Decode([]byte(`{"type":"queue.created"}`))
	assert.Error(t, err)

	_, err = Decode([]byte(`not json`))
	assert.Error(t, err)
}
