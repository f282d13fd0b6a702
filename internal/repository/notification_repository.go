package repository

import (
	"context"
	"database/sql"

	"backend-antrian-pst/internal/models"
)

type NotificationRepo struct {
	db *sql.DB
}

func NewNotificationRepo(db *sql.DB) *NotificationRepo { return &NotificationRepo{db: db} }

func (r *NotificationRepo) Create(ctx context.Context, n models.Notification) (models.Notification, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO notifications (type, title, message, is_read, user_id, created_at)
		VALUES (?, ?, ?, 0, ?, ?)`,
		n.Type, n.Title, n.Message, n.UserID, n.CreatedAt)
	if err != nil {
		return n, classify(err)
	}
	n.ID, err = res.LastInsertId()
	return n, err
}

// ListUnread returns unread notifications addressed to userID or broadcast
// to all staff, newest first.
func (r *NotificationRepo) ListUnread(ctx context.Context, userID int64, limit int) ([]models.Notification, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, type, title, message, is_read, user_id, created_at
		FROM notifications
		WHERE is_read = 0 AND (user_id = ? OR user_id IS NULL)
		ORDER BY created_at DESC, id DESC
		LIMIT ?`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Notification{}
	for rows.Next() {
		var (
			n   models.Notification
			uid sql.NullInt64
		)
		if err := rows.Scan(&n.ID, &n.Type, &n.Title, &n.Message, &n.IsRead, &uid, &n.CreatedAt); err != nil {
			return nil, err
		}
		if uid.Valid {
			n.UserID = &uid.Int64
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

// MarkAllRead marks every unread notification visible to userID and returns
// how many rows changed.
func (r *NotificationRepo) MarkAllRead(ctx context.Context, userID int64) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE notifications SET is_read = 1
		WHERE is_read = 0 AND (user_id = ? OR user_id IS NULL)`, userID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// MarkRead marks one notification, provided userID can see it.
func (r *NotificationRepo) MarkRead(ctx context.Context, id, userID int64) error {
	var exists int
	err := r.db.QueryRowContext(ctx, `
		SELECT 1 FROM notifications WHERE id = ? AND (user_id = ? OR user_id IS NULL)`,
		id, userID).Scan(&exists)
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, "UPDATE notifications SET is_read = 1 WHERE id = ?", id)
	return err
}
