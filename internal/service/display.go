package service

import (
	"context"
	"time"

	"backend-antrian-pst/internal/apperr"
	"backend-antrian-pst/internal/changehash"
	"backend-antrian-pst/internal/helper"
	"backend-antrian-pst/internal/models"
	"backend-antrian-pst/internal/repository"
)

const displayNextLimit = 5

type DisplayParams struct {
	AdminID    *int64
	DateFilter string
	PrevHash   string
}

// Announcement is the call the display should voice for the most recently
// started serving entry.
type Announcement struct {
	QueueID    int64    `json:"queue_id"`
	QueueCode  string   `json:"queue_code"`
	AdminName  string   `json:"admin_name"`
	AudioPaths []string `json:"audio_paths"`
}

type DisplayFeed struct {
	Serving      []models.QueueDetail `json:"serving"`
	Next         []models.QueueDetail `json:"next"`
	WaitingCount int                  `json:"waiting_count"`
	Announcement *Announcement        `json:"announcement"`
	Hash         string               `json:"hash"`
	HasChanges   bool                 `json:"has_changes"`
}

type DisplayService struct {
	query  *QueryService
	queues QueueStore
}

func NewDisplayService(queues QueueStore, loc *time.Location) *DisplayService {
	return &DisplayService{query: NewQueryService(queues, loc), queues: queues}
}

func (s *DisplayService) Display(ctx context.Context, p DisplayParams) (DisplayFeed, error) {
	from, to, err := s.query.dayWindow(p.DateFilter)
	if err != nil {
		return DisplayFeed{}, err
	}

	serving, _, err := s.queues.List(ctx, repository.QueueFilter{
		Statuses: []models.QueueStatus{models.StatusServing},
		From:     from,
		To:       to,
		AdminID:  p.AdminID,
		Order:    repository.OrderStartDesc,
	})
	if err != nil {
		return DisplayFeed{}, storeError(err, "antrian")
	}

	next, waiting, err := s.queues.List(ctx, repository.QueueFilter{
		Statuses: []models.QueueStatus{models.StatusWaiting},
		From:     from,
		To:       to,
		Order:    repository.OrderNumberAsc,
		Limit:    displayNextLimit,
	})
	if err != nil {
		return DisplayFeed{}, storeError(err, "antrian")
	}

	feed := DisplayFeed{Serving: serving, Next: next, WaitingCount: waiting}
	if len(serving) > 0 {
		latest := serving[0]
		feed.Announcement = &Announcement{
			QueueID:    latest.ID,
			QueueCode:  latest.QueueCode,
			AdminName:  latest.AdminName,
			AudioPaths: helper.AnnouncementPaths(latest.QueueCode),
		}
	}

	feed.Hash, feed.HasChanges, err = changehash.HasChanged(p.PrevHash, struct {
		Serving      []models.QueueDetail `json:"serving"`
		Next         []models.QueueDetail `json:"next"`
		WaitingCount int                  `json:"waiting_count"`
	}{feed.Serving, feed.Next, feed.WaitingCount})
	if err != nil {
		return DisplayFeed{}, apperr.Internal("gagal menghitung hash", err)
	}
	return feed, nil
}
