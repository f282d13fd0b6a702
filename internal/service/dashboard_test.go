package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"backend-antrian-pst/internal/models"
	"backend-antrian-pst/internal/repository"
)

func TestAverageDurations(t *testing.T) {
	base := time.Date(2026, 3, 2, 9, 0, 0, 0, testLoc)

	timings := []repository.QueueTiming{
		{Status: models.StatusCompleted, CreatedAt: base, StartTime: ptr(base.Add(5 * time.Minute)), EndTime: ptr(base.Add(15 * time.Minute))},
		{Status: models.StatusCompleted, CreatedAt: base, StartTime: ptr(base.Add(15 * time.Minute)), EndTime: ptr(base.Add(25 * time.Minute))},
		{Status: models.StatusWaiting, CreatedAt: base},
	}

	wait, service := AverageDurations(timings)
	assert.Equal(t, 10, wait)
	assert.Equal(t, 10, service)
}

func TestAverageDurations_RoundsAndHandlesEmpty(t *testing.T) {
	base := time.Date(2026, 3, 2, 9, 0, 0, 0, testLoc)

	wait, service := AverageDurations(nil)
	assert.Zero(t, wait)
	assert.Zero(t, service)

	wait, service = AverageDurations([]repository.QueueTiming{
		{Status: models.StatusServing, CreatedAt: base, StartTime: ptr(base.Add(90 * time.Second))},
	})
	assert.Equal(t, 2, wait)
	assert.Zero(t, service)
}

func TestDashboardStats(t *testing.T) {
	queues := newMemQueues(newMemLinks(), nil, nil)
	now := time.Date(2026, 3, 2, 12, 0, 0, 0, testLoc)
	base := time.Date(2026, 3, 2, 9, 0, 0, 0, testLoc)

	queues.put(models.QueueDetail{Queue: models.Queue{ID: 1, Status: models.StatusCompleted, CreatedAt: base,
		StartTime: ptr(base.Add(5 * time.Minute)), EndTime: ptr(base.Add(15 * time.Minute))}})
	queues.put(models.QueueDetail{Queue: models.Queue{ID: 2, Status: models.StatusCompleted, CreatedAt: base,
		StartTime: ptr(base.Add(15 * time.Minute)), EndTime: ptr(base.Add(25 * time.Minute))}})
	queues.put(models.QueueDetail{Queue: models.Queue{ID: 3, Status: models.StatusWaiting, CreatedAt: base}})
	queues.put(models.QueueDetail{Queue: models.Queue{ID: 4, Status: models.StatusCanceled, CreatedAt: base,
		EndTime: ptr(base.Add(time.Minute))}})
	// Yesterday's entry stays out of today's numbers.
	queues.put(models.QueueDetail{Queue: models.Queue{ID: 5, Status: models.StatusWaiting, CreatedAt: base.AddDate(0, 0, -1)}})

	svc := NewDashboardService(queues, testLoc)
	svc.now = fixedClock(now)

	res, err := svc.Stats(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "2026-03-02", res.Stats.Date)
	assert.Equal(t, models.StatusCounts{Waiting: 1, Completed: 2, Canceled: 1, Total: 4}, res.Stats.Counts)
	assert.Equal(t, 10, res.Stats.AverageWaitMinutes)
	assert.Equal(t, 10, res.Stats.AverageServiceMinutes)
	assert.True(t, res.HasChanges)

	again, err := svc.Stats(context.Background(), res.Hash)
	require.NoError(t, err)
	assert.False(t, again.HasChanges)
}
