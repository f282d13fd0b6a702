package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"backend-antrian-pst/internal/models"
)

// IntakeRecord is everything needed to persist one intake: the visitor row,
// the queue row and, for self-service, the temp link to consume.
type IntakeRecord struct {
	Visitor      models.Visitor
	ServiceID    int64
	ServiceCode  string
	QueueType    models.QueueType
	QueueDate    string
	CreatedAt    time.Time
	TempUUID     *string
	TrackingLink *string
	ActorID      *int64
	LinkUUID     string
}

type QueueOrder string

const (
	OrderCreatedDesc QueueOrder = "created_desc"
	OrderNumberAsc   QueueOrder = "number_asc"
	OrderStartDesc   QueueOrder = "start_desc"
)

// QueueFilter narrows List. Zero values mean "no filter"; Limit 0 returns
// every matching row.
type QueueFilter struct {
	Statuses     []models.QueueStatus
	From, To     *time.Time
	AdminID      *int64
	VisitorPhone string
	Order        QueueOrder
	Limit        int
	Offset       int
}

// QueueTiming carries the timestamps the dashboard averages over.
type QueueTiming struct {
	Status    models.QueueStatus
	CreatedAt time.Time
	StartTime *time.Time
	EndTime   *time.Time
}

// Transition describes one conditional status update.
type Transition struct {
	QueueID int64
	From    []models.QueueStatus
	To      models.QueueStatus
	At      time.Time
	ActorID int64
	Event   models.QueueEvent

	// AssignAdmin sets admin_id and start_time (serve).
	AssignAdmin *int64
	// SetEnd sets end_time, keeping an existing value.
	SetEnd bool
	// OwnerID restricts the update to rows served by this admin; with
	// AllowUnassigned, rows without an admin match as well.
	OwnerID         *int64
	AllowUnassigned bool
}

type QueueRepo struct {
	db *sql.DB
}

func NewQueueRepo(db *sql.DB) *QueueRepo { return &QueueRepo{db: db} }

const queueDetailColumns = `
	q.id, q.queue_number, q.queue_date, q.queue_code, q.status, q.queue_type,
	q.visitor_id, q.service_id, q.admin_id, q.temp_uuid, q.tracking_link,
	q.filled_skd, q.created_at, q.start_time, q.end_time, q.last_reminder_at,
	v.name, v.phone, s.name, s.code, COALESCE(u.nama, '')`

const queueDetailFrom = `
	FROM queues q
	JOIN visitors v ON v.id = q.visitor_id
	JOIN services s ON s.id = q.service_id
	LEFT JOIN users u ON u.id = q.admin_id`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanQueueDetail(row rowScanner) (models.QueueDetail, error) {
	var (
		d            models.QueueDetail
		queueDate    time.Time
		adminID      sql.NullInt64
		tempUUID     sql.NullString
		trackingLink sql.NullString
		startTime    sql.NullTime
		endTime      sql.NullTime
		lastReminder sql.NullTime
	)
	err := row.Scan(
		&d.ID, &d.QueueNumber, &queueDate, &d.QueueCode, &d.Status, &d.QueueType,
		&d.VisitorID, &d.ServiceID, &adminID, &tempUUID, &trackingLink,
		&d.FilledSKD, &d.CreatedAt, &startTime, &endTime, &lastReminder,
		&d.VisitorName, &d.VisitorPhone, &d.ServiceName, &d.ServiceCode, &d.AdminName,
	)
	if err != nil {
		return d, err
	}

	d.QueueDate = queueDate.Format("2006-01-02")
	if adminID.Valid {
		d.AdminID = &adminID.Int64
	}
	if tempUUID.Valid {
		d.TempUUID = &tempUUID.String
	}
	if trackingLink.Valid {
		d.TrackingLink = &trackingLink.String
	}
	if startTime.Valid {
		d.StartTime = &startTime.Time
	}
	if endTime.Valid {
		d.EndTime = &endTime.Time
	}
	if lastReminder.Valid {
		d.LastReminderAt = &lastReminder.Time
	}
	return d, nil
}

// CreateWithVisitor inserts the visitor and its queue entry in one
// transaction, numbering the entry MAX+1 within its queue_date. A concurrent
// intake that picked the same number fails on the unique key and is
// reported as ErrDuplicate; no retry happens here.
func (r *QueueRepo) CreateWithVisitor(ctx context.Context, rec IntakeRecord) (models.Queue, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return models.Queue{}, err
	}
	defer tx.Rollback()

	if rec.LinkUUID != "" {
		res, err := tx.ExecContext(ctx,
			`UPDATE temp_visitor_links SET used = 1 WHERE uuid = ? AND used = 0 AND expires_at > ?`,
			rec.LinkUUID, rec.CreatedAt)
		if err != nil {
			return models.Queue{}, err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return models.Queue{}, ErrLinkUnavailable
		}
	}

	var next int
	if err := tx.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(queue_number), 0) + 1 FROM queues WHERE queue_date = ?`,
		rec.QueueDate).Scan(&next); err != nil {
		return models.Queue{}, fmt.Errorf("next queue number: %w", err)
	}

	v := rec.Visitor
	res, err := tx.ExecContext(ctx, `
		INSERT INTO visitors
		(name, phone, email, address, age, institution, gender, education, occupation, purpose, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		v.Name, v.Phone, nullString(v.Email), nullString(v.Address), v.Age, nullString(v.Institution),
		v.Gender, nullString(v.Education), nullString(v.Occupation), v.Purpose, rec.CreatedAt)
	if err != nil {
		return models.Queue{}, fmt.Errorf("insert visitor: %w", classify(err))
	}
	visitorID, err := res.LastInsertId()
	if err != nil {
		return models.Queue{}, err
	}

	code := models.FormatQueueCode(rec.ServiceCode, next)
	res, err = tx.ExecContext(ctx, `
		INSERT INTO queues
		(queue_number, queue_date, queue_code, status, queue_type, visitor_id, service_id,
		 temp_uuid, tracking_link, filled_skd, created_at)
		VALUES (?, ?, ?, 'WAITING', ?, ?, ?, ?, ?, 0, ?)`,
		next, rec.QueueDate, code, rec.QueueType, visitorID, rec.ServiceID,
		rec.TempUUID, rec.TrackingLink, rec.CreatedAt)
	if err != nil {
		return models.Queue{}, fmt.Errorf("insert queue: %w", classify(err))
	}
	queueID, err := res.LastInsertId()
	if err != nil {
		return models.Queue{}, err
	}

	if err := insertEvent(ctx, tx, queueID, models.EventTake, rec.ActorID, rec.CreatedAt); err != nil {
		return models.Queue{}, err
	}

	if err := tx.Commit(); err != nil {
		return models.Queue{}, classify(err)
	}

	return models.Queue{
		ID:           queueID,
		QueueNumber:  next,
		QueueDate:    rec.QueueDate,
		QueueCode:    code,
		Status:       models.StatusWaiting,
		QueueType:    rec.QueueType,
		VisitorID:    visitorID,
		ServiceID:    rec.ServiceID,
		TempUUID:     rec.TempUUID,
		TrackingLink: rec.TrackingLink,
		CreatedAt:    rec.CreatedAt,
	}, nil
}

func (r *QueueRepo) GetByID(ctx context.Context, id int64) (models.QueueDetail, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+queueDetailColumns+queueDetailFrom+" WHERE q.id = ?", id)
	d, err := scanQueueDetail(row)
	if errors.Is(err, sql.ErrNoRows) {
		return d, ErrNotFound
	}
	return d, err
}

func (r *QueueRepo) GetByTempUUID(ctx context.Context, uuid string) (models.QueueDetail, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+queueDetailColumns+queueDetailFrom+" WHERE q.temp_uuid = ?", uuid)
	d, err := scanQueueDetail(row)
	if errors.Is(err, sql.ErrNoRows) {
		return d, ErrNotFound
	}
	return d, err
}

// Apply runs t as a single conditional UPDATE and, when a row matched,
// records the audit event in the same transaction. It reports whether the
// row was transitioned; false means the row is missing, in another status
// or owned by someone else, and nothing was written.
func (r *QueueRepo) Apply(ctx context.Context, t Transition) (bool, error) {
	if len(t.From) == 0 {
		return false, errors.New("transition without source status")
	}

	set := []string{"status = ?"}
	args := []any{t.To}
	if t.AssignAdmin != nil {
		set = append(set, "start_time = ?", "admin_id = ?")
		args = append(args, t.At, *t.AssignAdmin)
	}
	if t.SetEnd {
		set = append(set, "end_time = COALESCE(end_time, ?)")
		args = append(args, t.At)
	}

	where := []string{"id = ?", "status IN (" + placeholders(len(t.From)) + ")"}
	args = append(args, t.QueueID)
	for _, s := range t.From {
		args = append(args, s)
	}
	if t.OwnerID != nil {
		if t.AllowUnassigned {
			where = append(where, "(admin_id IS NULL OR admin_id = ?)")
		} else {
			where = append(where, "admin_id = ?")
		}
		args = append(args, *t.OwnerID)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	query := "UPDATE queues SET " + strings.Join(set, ", ") + " WHERE " + strings.Join(where, " AND ")
	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return false, classify(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if n == 0 {
		return false, nil
	}

	actor := t.ActorID
	if err := insertEvent(ctx, tx, t.QueueID, t.Event, &actor, t.At); err != nil {
		return false, err
	}
	if err := tx.Commit(); err != nil {
		return false, err
	}
	return true, nil
}

// MarkSKD flags the post-visit survey as filled for a completed entry.
func (r *QueueRepo) MarkSKD(ctx context.Context, id, actorID int64, at time.Time) (bool, error) {
	return r.touch(ctx, id, actorID, at, models.EventSKD,
		`UPDATE queues SET filled_skd = 1 WHERE id = ? AND status = 'COMPLETED'`, id)
}

// MarkReminded records that a WhatsApp reminder went out.
func (r *QueueRepo) MarkReminded(ctx context.Context, id, actorID int64, at time.Time) (bool, error) {
	return r.touch(ctx, id, actorID, at, models.EventRemind,
		`UPDATE queues SET last_reminder_at = ? WHERE id = ?`, at, id)
}

func (r *QueueRepo) touch(ctx context.Context, id, actorID int64, at time.Time, event models.QueueEvent, query string, args ...any) (bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return false, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return false, nil
	}
	if err := insertEvent(ctx, tx, id, event, &actorID, at); err != nil {
		return false, err
	}
	return true, tx.Commit()
}

func (r *QueueRepo) List(ctx context.Context, f QueueFilter) ([]models.QueueDetail, int, error) {
	where, args := buildQueueWhere(f)

	var total int
	if err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*)"+queueDetailFrom+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count queues: %w", err)
	}

	query := "SELECT " + queueDetailColumns + queueDetailFrom + where + orderClause(f.Order)
	if f.Limit > 0 {
		query += " LIMIT ? OFFSET ?"
		args = append(args, f.Limit, f.Offset)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list queues: %w", err)
	}
	defer rows.Close()

	queues := []models.QueueDetail{}
	for rows.Next() {
		d, err := scanQueueDetail(rows)
		if err != nil {
			return nil, 0, err
		}
		queues = append(queues, d)
	}
	return queues, total, rows.Err()
}

// Timings returns the timestamps of every entry created in [from, to).
func (r *QueueRepo) Timings(ctx context.Context, from, to time.Time) ([]QueueTiming, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT status, created_at, start_time, end_time
		FROM queues
		WHERE created_at >= ? AND created_at < ?`, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []QueueTiming
	for rows.Next() {
		var (
			t          QueueTiming
			start, end sql.NullTime
		)
		if err := rows.Scan(&t.Status, &t.CreatedAt, &start, &end); err != nil {
			return nil, err
		}
		if start.Valid {
			t.StartTime = &start.Time
		}
		if end.Valid {
			t.EndTime = &end.Time
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// WaitingAhead counts WAITING entries of the same day with a lower number.
func (r *QueueRepo) WaitingAhead(ctx context.Context, queueDate string, number int) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM queues
		WHERE queue_date = ? AND status = 'WAITING' AND queue_number < ?`,
		queueDate, number).Scan(&n)
	return n, err
}

func buildQueueWhere(f QueueFilter) (string, []any) {
	clauses := []string{"1=1"}
	args := []any{}

	if len(f.Statuses) > 0 {
		clauses = append(clauses, "q.status IN ("+placeholders(len(f.Statuses))+")")
		for _, s := range f.Statuses {
			args = append(args, s)
		}
	}
	if f.From != nil {
		clauses = append(clauses, "q.created_at >= ?")
		args = append(args, *f.From)
	}
	if f.To != nil {
		clauses = append(clauses, "q.created_at < ?")
		args = append(args, *f.To)
	}
	if f.AdminID != nil {
		clauses = append(clauses, "q.admin_id = ?")
		args = append(args, *f.AdminID)
	}
	if f.VisitorPhone != "" {
		clauses = append(clauses, "v.phone = ?")
		args = append(args, f.VisitorPhone)
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

func orderClause(o QueueOrder) string {
	switch o {
	case OrderNumberAsc:
		return " ORDER BY q.queue_date ASC, q.queue_number ASC"
	case OrderStartDesc:
		return " ORDER BY q.start_time DESC, q.id DESC"
	default:
		return " ORDER BY q.created_at DESC, q.id DESC"
	}
}

func insertEvent(ctx context.Context, tx *sql.Tx, queueID int64, event models.QueueEvent, actorID *int64, at time.Time) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO queue_events (queue_id, event, actor_user_id, created_at)
		VALUES (?, ?, ?, ?)`, queueID, event, actorID, at)
	if err != nil {
		return fmt.Errorf("insert queue event: %w", err)
	}
	return nil
}

func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
