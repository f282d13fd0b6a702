package service

import (
	"context"
	"strings"
	"time"

	"backend-antrian-pst/internal/apperr"
	"backend-antrian-pst/internal/changehash"
	"backend-antrian-pst/internal/helper"
	"backend-antrian-pst/internal/models"
	"backend-antrian-pst/internal/repository"
)

const (
	DefaultListLimit = 20
	MaxListLimit     = 100

	DateFilterToday = "today"
	DateFilterAll   = "all"
)

type ListParams struct {
	Status       string // single status, comma separated list, or empty/"all"
	DateFilter   string
	Limit        int
	Offset       int
	VisitorPhone string
	AdminID      *int64
	Order        string
	PrevHash     string
}

type Pagination struct {
	Total   int  `json:"total"`
	Limit   int  `json:"limit"`
	Offset  int  `json:"offset"`
	HasMore bool `json:"has_more"`
}

type QueueList struct {
	Queues     []models.QueueDetail `json:"queues"`
	Hash       string               `json:"hash"`
	HasChanges bool                 `json:"has_changes"`
	Pagination Pagination           `json:"pagination"`
}

// Tracking is what a visitor sees after scanning the tracking link.
type Tracking struct {
	QueueCode    string             `json:"queue_code"`
	QueueDate    string             `json:"queue_date"`
	Status       models.QueueStatus `json:"status"`
	ServiceName  string             `json:"service_name"`
	VisitorName  string             `json:"visitor_name"`
	WaitingAhead int                `json:"waiting_ahead"`
	FilledSKD    bool               `json:"filled_skd"`
	CreatedAt    time.Time          `json:"created_at"`
	StartTime    *time.Time         `json:"start_time"`
	EndTime      *time.Time         `json:"end_time"`
}

type QueryService struct {
	queues QueueStore
	loc    *time.Location
	now    func() time.Time
}

func NewQueryService(queues QueueStore, loc *time.Location) *QueryService {
	return &QueryService{queues: queues, loc: loc, now: time.Now}
}

func parseStatuses(raw string) ([]models.QueueStatus, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.EqualFold(raw, "all") {
		return nil, nil
	}
	var out []models.QueueStatus
	for _, part := range strings.Split(raw, ",") {
		st := models.QueueStatus(strings.ToUpper(strings.TrimSpace(part)))
		if !st.Valid() {
			return nil, apperr.Validation("status tidak valid: " + part)
		}
		out = append(out, st)
	}
	return out, nil
}

// dayWindow resolves a date filter into a created_at window; nil bounds
// mean no restriction.
func (s *QueryService) dayWindow(filter string) (*time.Time, *time.Time, error) {
	switch filter {
	case "", DateFilterToday:
		from, to := helper.DayRange(s.now(), s.loc)
		return &from, &to, nil
	case DateFilterAll:
		return nil, nil, nil
	}
	return nil, nil, apperr.Validation("dateFilter harus today atau all")
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	if limit > MaxListLimit {
		return MaxListLimit
	}
	return limit
}

func (s *QueryService) List(ctx context.Context, p ListParams) (QueueList, error) {
	statuses, err := parseStatuses(p.Status)
	if err != nil {
		return QueueList{}, err
	}
	from, to, err := s.dayWindow(p.DateFilter)
	if err != nil {
		return QueueList{}, err
	}
	if p.Offset < 0 {
		return QueueList{}, apperr.Validation("offset tidak boleh negatif")
	}

	order := repository.OrderCreatedDesc
	switch p.Order {
	case "", string(repository.OrderCreatedDesc):
	case string(repository.OrderNumberAsc):
		order = repository.OrderNumberAsc
	default:
		return QueueList{}, apperr.Validation("order harus number_asc atau created_desc")
	}

	limit := normalizeLimit(p.Limit)
	queues, total, err := s.queues.List(ctx, repository.QueueFilter{
		Statuses:     statuses,
		From:         from,
		To:           to,
		AdminID:      p.AdminID,
		VisitorPhone: strings.TrimSpace(p.VisitorPhone),
		Order:        order,
		Limit:        limit,
		Offset:       p.Offset,
	})
	if err != nil {
		return QueueList{}, storeError(err, "antrian")
	}

	out := QueueList{
		Queues: queues,
		Pagination: Pagination{
			Total:   total,
			Limit:   limit,
			Offset:  p.Offset,
			HasMore: p.Offset+limit < total,
		},
	}
	out.Hash, out.HasChanges, err = changehash.HasChanged(p.PrevHash, struct {
		Queues     []models.QueueDetail `json:"queues"`
		Pagination Pagination           `json:"pagination"`
	}{out.Queues, out.Pagination})
	if err != nil {
		return QueueList{}, apperr.Internal("gagal menghitung hash", err)
	}
	return out, nil
}

func (s *QueryService) Get(ctx context.Context, id int64) (models.QueueDetail, error) {
	q, err := s.queues.GetByID(ctx, id)
	if err != nil {
		return q, storeError(err, "antrian")
	}
	return q, nil
}

// Track resolves a visitor tracking link into the entry's public status.
func (s *QueryService) Track(ctx context.Context, uuid string) (Tracking, error) {
	q, err := s.queues.GetByTempUUID(ctx, uuid)
	if err != nil {
		return Tracking{}, storeError(err, "antrian")
	}

	t := Tracking{
		QueueCode:   q.QueueCode,
		QueueDate:   q.QueueDate,
		Status:      q.Status,
		ServiceName: q.ServiceName,
		VisitorName: q.VisitorName,
		FilledSKD:   q.FilledSKD,
		CreatedAt:   q.CreatedAt,
		StartTime:   q.StartTime,
		EndTime:     q.EndTime,
	}
	if q.Status == models.StatusWaiting {
		t.WaitingAhead, err = s.queues.WaitingAhead(ctx, q.QueueDate, q.QueueNumber)
		if err != nil {
			return Tracking{}, storeError(err, "antrian")
		}
	}
	return t, nil
}
