package service

import (
	"context"
	"math"
	"time"

	"backend-antrian-pst/internal/apperr"
	"backend-antrian-pst/internal/changehash"
	"backend-antrian-pst/internal/helper"
	"backend-antrian-pst/internal/models"
	"backend-antrian-pst/internal/repository"
)

type DashboardResult struct {
	Stats      models.DashboardStats `json:"stats"`
	Hash       string                `json:"hash"`
	HasChanges bool                  `json:"has_changes"`
}

type DashboardService struct {
	queues QueueStore
	loc    *time.Location
	now    func() time.Time
}

func NewDashboardService(queues QueueStore, loc *time.Location) *DashboardService {
	return &DashboardService{queues: queues, loc: loc, now: time.Now}
}

// AverageDurations returns the mean wait (created -> start) and service
// (start -> end) time in whole minutes. Rows missing the needed timestamps
// are skipped; an empty set averages to zero.
func AverageDurations(timings []repository.QueueTiming) (waitMinutes, serviceMinutes int) {
	var (
		waitSum, serviceSum time.Duration
		waitN, serviceN     int
	)
	for _, t := range timings {
		if t.StartTime == nil {
			continue
		}
		waitSum += t.StartTime.Sub(t.CreatedAt)
		waitN++
		if t.EndTime != nil {
			serviceSum += t.EndTime.Sub(*t.StartTime)
			serviceN++
		}
	}
	return roundMinutes(waitSum, waitN), roundMinutes(serviceSum, serviceN)
}

func roundMinutes(sum time.Duration, n int) int {
	if n == 0 {
		return 0
	}
	return int(math.Round(sum.Minutes() / float64(n)))
}

// Stats summarizes today's entries.
func (s *DashboardService) Stats(ctx context.Context, prevHash string) (DashboardResult, error) {
	now := s.now()
	from, to := helper.DayRange(now, s.loc)

	timings, err := s.queues.Timings(ctx, from, to)
	if err != nil {
		return DashboardResult{}, storeError(err, "statistik")
	}

	stats := models.DashboardStats{Date: helper.LocalDate(now, s.loc)}
	for _, t := range timings {
		stats.Counts.Add(t.Status, 1)
	}
	stats.AverageWaitMinutes, stats.AverageServiceMinutes = AverageDurations(timings)

	res := DashboardResult{Stats: stats}
	res.Hash, res.HasChanges, err = changehash.HasChanged(prevHash, stats)
	if err != nil {
		return DashboardResult{}, apperr.Internal("gagal menghitung hash", err)
	}
	return res, nil
}
