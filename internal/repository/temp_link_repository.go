package repository

import (
	"context"
	"database/sql"
	"errors"

	"backend-antrian-pst/internal/models"
)

type TempLinkRepo struct {
	db *sql.DB
}

func NewTempLinkRepo(db *sql.DB) *TempLinkRepo { return &TempLinkRepo{db: db} }

func (r *TempLinkRepo) Create(ctx context.Context, l models.TempVisitorLink) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO temp_visitor_links (uuid, expires_at, used, created_by, created_at)
		VALUES (?, ?, 0, ?, ?)`, l.UUID, l.ExpiresAt, l.CreatedBy, l.CreatedAt)
	return classify(err)
}

func (r *TempLinkRepo) Get(ctx context.Context, uuid string) (models.TempVisitorLink, error) {
	var (
		l         models.TempVisitorLink
		createdBy sql.NullInt64
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT uuid, expires_at, used, created_by, created_at
		FROM temp_visitor_links WHERE uuid = ?`, uuid).
		Scan(&l.UUID, &l.ExpiresAt, &l.Used, &createdBy, &l.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return l, ErrNotFound
	}
	if err != nil {
		return l, err
	}
	if createdBy.Valid {
		l.CreatedBy = &createdBy.Int64
	}
	return l, nil
}
