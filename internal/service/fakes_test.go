package service

import (
	"context"
	"slices"
	"sort"
	"sync"
	"time"

	"backend-antrian-pst/internal/events"
	"backend-antrian-pst/internal/models"
	"backend-antrian-pst/internal/repository"
)

var testLoc = time.FixedZone("WIB", 7*3600)

// memQueues mimics QueueRepo, including the conditional-update semantics.
type memQueues struct {
	mu        sync.Mutex
	rows      map[int64]*models.QueueDetail
	nextID    int64
	visitors  int64
	links     *memLinks
	services  *memServices
	users     *memUsers
	events    []models.QueueEvent
	collide   bool
	creations int
}

func newMemQueues(links *memLinks, services *memServices, users *memUsers) *memQueues {
	return &memQueues{rows: map[int64]*models.QueueDetail{}, links: links, services: services, users: users}
}

func (m *memQueues) CreateWithVisitor(ctx context.Context, rec repository.IntakeRecord) (models.Queue, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if rec.LinkUUID != "" {
		if !m.links.consume(rec.LinkUUID, rec.CreatedAt) {
			return models.Queue{}, repository.ErrLinkUnavailable
		}
	}
	if m.collide {
		return models.Queue{}, repository.ErrDuplicate
	}

	next := 1
	for _, r := range m.rows {
		if r.QueueDate == rec.QueueDate && r.QueueNumber >= next {
			next = r.QueueNumber + 1
		}
	}

	m.nextID++
	m.visitors++
	q := models.Queue{
		ID:           m.nextID,
		QueueNumber:  next,
		QueueDate:    rec.QueueDate,
		QueueCode:    models.FormatQueueCode(rec.ServiceCode, next),
		Status:       models.StatusWaiting,
		QueueType:    rec.QueueType,
		VisitorID:    m.visitors,
		ServiceID:    rec.ServiceID,
		TempUUID:     rec.TempUUID,
		TrackingLink: rec.TrackingLink,
		CreatedAt:    rec.CreatedAt,
	}
	d := &models.QueueDetail{
		Queue:        q,
		VisitorName:  rec.Visitor.Name,
		VisitorPhone: rec.Visitor.Phone,
		ServiceCode:  rec.ServiceCode,
	}
	if m.services != nil {
		if svc, ok := m.services.rows[rec.ServiceID]; ok {
			d.ServiceName = svc.Name
		}
	}
	m.rows[q.ID] = d
	m.events = append(m.events, models.EventTake)
	m.creations++
	return q, nil
}

// put stores a row directly, bypassing intake.
func (m *memQueues) put(d models.QueueDetail) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := d
	m.rows[d.ID] = &cp
	if d.ID > m.nextID {
		m.nextID = d.ID
	}
}

func (m *memQueues) GetByID(ctx context.Context, id int64) (models.QueueDetail, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rows[id]
	if !ok {
		return models.QueueDetail{}, repository.ErrNotFound
	}
	return *r, nil
}

func (m *memQueues) GetByTempUUID(ctx context.Context, uuid string) (models.QueueDetail, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.rows {
		if r.TempUUID != nil && *r.TempUUID == uuid {
			return *r, nil
		}
	}
	return models.QueueDetail{}, repository.ErrNotFound
}

func (m *memQueues) Apply(ctx context.Context, t repository.Transition) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, ok := m.rows[t.QueueID]
	if !ok || !slices.Contains(t.From, r.Status) {
		return false, nil
	}
	if t.OwnerID != nil {
		owned := r.AdminID != nil && *r.AdminID == *t.OwnerID
		if !owned && !(t.AllowUnassigned && r.AdminID == nil) {
			return false, nil
		}
	}

	at := t.At
	r.Status = t.To
	if t.AssignAdmin != nil {
		admin := *t.AssignAdmin
		r.AdminID = &admin
		r.StartTime = &at
		if m.users != nil {
			if u, ok := m.users.rows[admin]; ok {
				r.AdminName = u.Nama
			}
		}
	}
	if t.SetEnd && r.EndTime == nil {
		r.EndTime = &at
	}
	m.events = append(m.events, t.Event)
	return true, nil
}

func (m *memQueues) MarkSKD(ctx context.Context, id, actorID int64, at time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rows[id]
	if !ok || r.Status != models.StatusCompleted || r.FilledSKD {
		return false, nil
	}
	r.FilledSKD = true
	m.events = append(m.events, models.EventSKD)
	return true, nil
}

func (m *memQueues) MarkReminded(ctx context.Context, id, actorID int64, at time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rows[id]
	if !ok {
		return false, nil
	}
	r.LastReminderAt = &at
	m.events = append(m.events, models.EventRemind)
	return true, nil
}

func (m *memQueues) List(ctx context.Context, f repository.QueueFilter) ([]models.QueueDetail, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []models.QueueDetail
	for _, r := range m.rows {
		if len(f.Statuses) > 0 && !slices.Contains(f.Statuses, r.Status) {
			continue
		}
		if f.From != nil && r.CreatedAt.Before(*f.From) {
			continue
		}
		if f.To != nil && !r.CreatedAt.Before(*f.To) {
			continue
		}
		if f.AdminID != nil && (r.AdminID == nil || *r.AdminID != *f.AdminID) {
			continue
		}
		if f.VisitorPhone != "" && r.VisitorPhone != f.VisitorPhone {
			continue
		}
		out = append(out, *r)
	}

	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		switch f.Order {
		case repository.OrderNumberAsc:
			if a.QueueDate != b.QueueDate {
				return a.QueueDate < b.QueueDate
			}
			return a.QueueNumber < b.QueueNumber
		case repository.OrderStartDesc:
			if a.StartTime != nil && b.StartTime != nil && !a.StartTime.Equal(*b.StartTime) {
				return a.StartTime.After(*b.StartTime)
			}
			return a.ID > b.ID
		default:
			if !a.CreatedAt.Equal(b.CreatedAt) {
				return a.CreatedAt.After(b.CreatedAt)
			}
			return a.ID > b.ID
		}
	})

	total := len(out)
	if f.Limit > 0 {
		start := min(f.Offset, total)
		end := min(start+f.Limit, total)
		out = out[start:end]
	}
	if out == nil {
		out = []models.QueueDetail{}
	}
	return out, total, nil
}

func (m *memQueues) Timings(ctx context.Context, from, to time.Time) ([]repository.QueueTiming, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []repository.QueueTiming
	for _, r := range m.rows {
		if r.CreatedAt.Before(from) || !r.CreatedAt.Before(to) {
			continue
		}
		out = append(out, repository.QueueTiming{
			Status: r.Status, CreatedAt: r.CreatedAt, StartTime: r.StartTime, EndTime: r.EndTime,
		})
	}
	return out, nil
}

func (m *memQueues) WaitingAhead(ctx context.Context, queueDate string, number int) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, r := range m.rows {
		if r.QueueDate == queueDate && r.Status == models.StatusWaiting && r.QueueNumber < number {
			n++
		}
	}
	return n, nil
}

type memServices struct {
	rows   map[int64]models.Service
	inUse  map[int64]bool
	nextID int64
}

func newMemServices(list ...models.Service) *memServices {
	m := &memServices{rows: map[int64]models.Service{}, inUse: map[int64]bool{}}
	for _, s := range list {
		m.rows[s.ID] = s
		m.nextID = max(m.nextID, s.ID)
	}
	return m
}

func (m *memServices) List(ctx context.Context, status models.ServiceStatus) ([]models.Service, error) {
	out := []models.Service{}
	for _, s := range m.rows {
		if status == "" || s.Status == status {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

func (m *memServices) GetByID(ctx context.Context, id int64) (models.Service, error) {
	s, ok := m.rows[id]
	if !ok {
		return s, repository.ErrNotFound
	}
	return s, nil
}

func (m *memServices) Create(ctx context.Context, s models.Service) (models.Service, error) {
	for _, existing := range m.rows {
		if existing.Code == s.Code {
			return s, repository.ErrDuplicate
		}
	}
	m.nextID++
	s.ID = m.nextID
	m.rows[s.ID] = s
	return s, nil
}

func (m *memServices) Update(ctx context.Context, s models.Service) error {
	if _, ok := m.rows[s.ID]; !ok {
		return repository.ErrNotFound
	}
	for _, existing := range m.rows {
		if existing.ID != s.ID && existing.Code == s.Code {
			return repository.ErrDuplicate
		}
	}
	m.rows[s.ID] = s
	return nil
}

func (m *memServices) Delete(ctx context.Context, id int64) error {
	if _, ok := m.rows[id]; !ok {
		return repository.ErrNotFound
	}
	if m.inUse[id] {
		return repository.ErrInUse
	}
	delete(m.rows, id)
	return nil
}

type memUsers struct {
	rows map[int64]models.User
}

func newMemUsers(list ...models.User) *memUsers {
	m := &memUsers{rows: map[int64]models.User{}}
	for _, u := range list {
		m.rows[u.ID] = u
	}
	return m
}

func (m *memUsers) GetByEmail(ctx context.Context, email string) (models.User, error) {
	for _, u := range m.rows {
		if u.Email == email {
			return u, nil
		}
	}
	return models.User{}, repository.ErrNotFound
}

func (m *memUsers) GetByID(ctx context.Context, id int64) (models.User, error) {
	u, ok := m.rows[id]
	if !ok {
		return u, repository.ErrNotFound
	}
	return u, nil
}

type memLinks struct {
	mu   sync.Mutex
	rows map[string]*models.TempVisitorLink
}

func newMemLinks() *memLinks {
	return &memLinks{rows: map[string]*models.TempVisitorLink{}}
}

func (m *memLinks) Create(ctx context.Context, l models.TempVisitorLink) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[l.UUID]; ok {
		return repository.ErrDuplicate
	}
	m.rows[l.UUID] = &l
	return nil
}

func (m *memLinks) Get(ctx context.Context, uuid string) (models.TempVisitorLink, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.rows[uuid]
	if !ok {
		return models.TempVisitorLink{}, repository.ErrNotFound
	}
	return *l, nil
}

func (m *memLinks) consume(uuid string, now time.Time) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.rows[uuid]
	if !ok || !l.Usable(now) {
		return false
	}
	l.Used = true
	return true
}

type memNotifications struct {
	rows   []*models.Notification
	nextID int64
}

func visible(n *models.Notification, userID int64) bool {
	return n.UserID == nil || *n.UserID == userID
}

func (m *memNotifications) Create(ctx context.Context, n models.Notification) (models.Notification, error) {
	m.nextID++
	n.ID = m.nextID
	m.rows = append(m.rows, &n)
	return n, nil
}

func (m *memNotifications) ListUnread(ctx context.Context, userID int64, limit int) ([]models.Notification, error) {
	out := []models.Notification{}
	for i := len(m.rows) - 1; i >= 0 && len(out) < limit; i-- {
		if n := m.rows[i]; !n.IsRead && visible(n, userID) {
			out = append(out, *n)
		}
	}
	return out, nil
}

func (m *memNotifications) MarkAllRead(ctx context.Context, userID int64) (int64, error) {
	var changed int64
	for _, n := range m.rows {
		if !n.IsRead && visible(n, userID) {
			n.IsRead = true
			changed++
		}
	}
	return changed, nil
}

func (m *memNotifications) MarkRead(ctx context.Context, id, userID int64) error {
	for _, n := range m.rows {
		if n.ID == id && visible(n, userID) {
			n.IsRead = true
			return nil
		}
	}
	return repository.ErrNotFound
}

type memConfig struct {
	cfg *models.Config
}

func (m *memConfig) Get(ctx context.Context) (models.Config, error) {
	if m.cfg == nil {
		return models.Config{}, repository.ErrNotFound
	}
	return *m.cfg, nil
}

func (m *memConfig) Upsert(ctx context.Context, jamBuka, jamTutup string) (models.Config, error) {
	if m.cfg == nil {
		m.cfg = &models.Config{ID: 1}
	}
	m.cfg.JamBuka, m.cfg.JamTutup = jamBuka, jamTutup
	return *m.cfg, nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(ctx context.Context, e events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPublisher) types() []events.Type {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]events.Type, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

type countingNotifier struct {
	mu sync.Mutex
	n  int
}

func (c *countingNotifier) Notify() {
	c.mu.Lock()
	c.n++
	c.mu.Unlock()
}

func (c *countingNotifier) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.n
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func ptr[T any](v T) *T { return &v }
