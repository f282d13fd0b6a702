package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"backend-antrian-pst/internal/models"
)

type ServiceRepo struct {
	db *sql.DB
}

func NewServiceRepo(db *sql.DB) *ServiceRepo { return &ServiceRepo{db: db} }

const serviceColumns = "id, code, name, status, created_at, updated_at"

func scanService(row rowScanner) (models.Service, error) {
	var s models.Service
	err := row.Scan(&s.ID, &s.Code, &s.Name, &s.Status, &s.CreatedAt, &s.UpdatedAt)
	return s, err
}

// List returns services ordered by code; an empty status returns all.
func (r *ServiceRepo) List(ctx context.Context, status models.ServiceStatus) ([]models.Service, error) {
	query := "SELECT " + serviceColumns + " FROM services"
	args := []any{}
	if status != "" {
		query += " WHERE status = ?"
		args = append(args, status)
	}
	query += " ORDER BY code ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	services := []models.Service{}
	for rows.Next() {
		s, err := scanService(rows)
		if err != nil {
			return nil, err
		}
		services = append(services, s)
	}
	return services, rows.Err()
}

func (r *ServiceRepo) GetByID(ctx context.Context, id int64) (models.Service, error) {
	s, err := scanService(r.db.QueryRowContext(ctx,
		"SELECT "+serviceColumns+" FROM services WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return s, ErrNotFound
	}
	return s, err
}

func (r *ServiceRepo) Create(ctx context.Context, s models.Service) (models.Service, error) {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO services (code, name, status, created_at, updated_at) VALUES (?, ?, ?, ?, ?)",
		s.Code, s.Name, s.Status, s.CreatedAt, s.UpdatedAt)
	if err != nil {
		return s, classify(err)
	}
	s.ID, err = res.LastInsertId()
	return s, err
}

func (r *ServiceRepo) Update(ctx context.Context, s models.Service) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE services SET code = ?, name = ?, status = ?, updated_at = ? WHERE id = ?",
		s.Code, s.Name, s.Status, s.UpdatedAt, s.ID)
	if err != nil {
		return classify(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// MySQL reports 0 for unchanged rows too.
		if _, err := r.GetByID(ctx, s.ID); err != nil {
			return err
		}
	}
	return nil
}

func (r *ServiceRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM services WHERE id = ?", id)
	if err != nil {
		return classify(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// SetStatus flips ACTIVE/INACTIVE without touching the other columns.
func (r *ServiceRepo) SetStatus(ctx context.Context, id int64, status models.ServiceStatus, at time.Time) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE services SET status = ?, updated_at = ? WHERE id = ?", status, at, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
