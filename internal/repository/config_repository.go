package repository

import (
	"context"
	"database/sql"
	"errors"

	"backend-antrian-pst/internal/models"
)

type ConfigRepo struct {
	db *sql.DB
}

func NewConfigRepo(db *sql.DB) *ConfigRepo { return &ConfigRepo{db: db} }

// Get returns the single opening-hours row.
func (r *ConfigRepo) Get(ctx context.Context) (models.Config, error) {
	var c models.Config
	err := r.db.QueryRowContext(ctx,
		"SELECT id, jam_buka, jam_tutup FROM configs ORDER BY id LIMIT 1").
		Scan(&c.ID, &c.JamBuka, &c.JamTutup)
	if errors.Is(err, sql.ErrNoRows) {
		return c, ErrNotFound
	}
	return c, err
}

// Upsert updates the existing row or inserts the first one.
func (r *ConfigRepo) Upsert(ctx context.Context, jamBuka, jamTutup string) (models.Config, error) {
	current, err := r.Get(ctx)
	switch {
	case errors.Is(err, ErrNotFound):
		res, err := r.db.ExecContext(ctx,
			"INSERT INTO configs (jam_buka, jam_tutup) VALUES (?, ?)", jamBuka, jamTutup)
		if err != nil {
			return models.Config{}, err
		}
		id, err := res.LastInsertId()
		return models.Config{ID: id, JamBuka: jamBuka, JamTutup: jamTutup}, err
	case err != nil:
		return models.Config{}, err
	}

	if _, err := r.db.ExecContext(ctx,
		"UPDATE configs SET jam_buka = ?, jam_tutup = ? WHERE id = ?",
		jamBuka, jamTutup, current.ID); err != nil {
		return models.Config{}, err
	}
	current.JamBuka, current.JamTutup = jamBuka, jamTutup
	return current, nil
}
