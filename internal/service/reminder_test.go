package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"backend-antrian-pst/internal/apperr"
	"backend-antrian-pst/internal/events"
	"backend-antrian-pst/internal/models"
)

type fakeSender struct {
	sent []string
	err  error
}

func (f *fakeSender) Send(ctx context.Context, phone, message string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, phone+"|"+message)
	return nil
}

func newReminderFixture(t *testing.T) (*ReminderService, *memQueues, *fakeSender, *recordingPublisher) {
	t.Helper()
	queues := newMemQueues(newMemLinks(), nil, nil)
	base := time.Date(2026, 3, 2, 9, 0, 0, 0, testLoc)
	queues.put(models.QueueDetail{
		Queue:        models.Queue{ID: 1, QueueCode: "KS001", Status: models.StatusWaiting, CreatedAt: base},
		VisitorName:  "Budi",
		VisitorPhone: "081234567890",
		ServiceName:  "Konsultasi Statistik",
	})
	queues.put(models.QueueDetail{
		Queue: models.Queue{ID: 2, QueueCode: "KS002", Status: models.StatusCompleted, CreatedAt: base,
			StartTime: ptr(base), EndTime: ptr(base.Add(time.Minute)), TempUUID: ptr("uuid-2")},
		VisitorName:  "Rina",
		VisitorPhone: "081200000000",
	})
	queues.put(models.QueueDetail{
		Queue: models.Queue{ID: 3, QueueCode: "KS003", Status: models.StatusServing, CreatedAt: base, StartTime: ptr(base)},
	})

	sender := &fakeSender{}
	pub := &recordingPublisher{}
	svc := NewReminderService(queues, sender, pub, nil, "https://pst.example.id", zap.NewNop())
	svc.now = fixedClock(base.Add(time.Hour))
	return svc, queues, sender, pub
}

func TestRemind_WaitingCallUp(t *testing.T) {
	svc, queues, sender, pub := newReminderFixture(t)

	res, err := svc.Remind(context.Background(), 1, actorOf(adminSari))

	require.NoError(t, err)
	assert.Equal(t, ReminderCallUp, res.Kind)
	require.Len(t, sender.sent, 1)
	assert.Contains(t, sender.sent[0], "KS001")
	assert.NotNil(t, queues.rows[1].LastReminderAt)
	assert.Equal(t, []events.Type{events.ReminderSent}, pub.types())
}

func TestRemind_SurveyIncludesTrackingLink(t *testing.T) {
	svc, _, sender, _ := newReminderFixture(t)

	res, err := svc.Remind(context.Background(), 2, actorOf(adminSari))

	require.NoError(t, err)
	assert.Equal(t, ReminderSurvey, res.Kind)
	assert.Contains(t, sender.sent[0], "https://pst.example.id/track/uuid-2")
}

func TestRemind_ServingIsInvalidState(t *testing.T) {
	svc, _, sender, _ := newReminderFixture(t)

	_, err := svc.Remind(context.Background(), 3, actorOf(adminSari))
	assert.Equal(t, apperr.KindInvalidState, apperr.KindOf(err))
	assert.Empty(t, sender.sent)
}

func TestRemind_GatewayFailure(t *testing.T) {
	svc, queues, sender, pub := newReminderFixture(t)
	sender.err = errors.New("gateway down")

	_, err := svc.Remind(context.Background(), 1, actorOf(adminSari))

	assert.Equal(t, apperr.KindDependency, apperr.KindOf(err))
	assert.Nil(t, queues.rows[1].LastReminderAt)
	require.Len(t, pub.events, 1)
	assert.Equal(t, events.ReminderFailed, pub.events[0].Type)
	assert.Equal(t, "gateway down", pub.events[0].Reason)
}

func TestMarkSKD(t *testing.T) {
	svc, _, _, _ := newReminderFixture(t)
	ctx := context.Background()

	q, err := svc.MarkSKD(ctx, 2, actorOf(adminSari))
	require.NoError(t, err)
	assert.True(t, q.FilledSKD)

	again, err := svc.MarkSKD(ctx, 2, actorOf(adminSari))
	require.NoError(t, err, "marking twice is harmless")
	assert.True(t, again.FilledSKD)

	_, err = svc.MarkSKD(ctx, 1, actorOf(adminSari))
	assert.Equal(t, apperr.KindInvalidState, apperr.KindOf(err))

	_, err = svc.MarkSKD(ctx, 99, actorOf(adminSari))
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}
