package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"backend-antrian-pst/internal/models"
)

type UserRepo struct {
	db *sql.DB
}

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{db: db} }

const userColumns = "id, nama, email, password, role, is_banned, created_at, updated_at"

func scanUser(row rowScanner) (models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Nama, &u.Email, &u.Password, &u.Role, &u.IsBanned, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return u, ErrNotFound
	}
	return u, err
}

// GetByEmail looks up a staff account by its normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return scanUser(r.db.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE email = ? LIMIT 1", email))
}

func (r *UserRepo) GetByID(ctx context.Context, id int64) (models.User, error) {
	return scanUser(r.db.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id = ?", id))
}
