package config

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

// OpenDB connects to MySQL. Times are read back in loc so that DATE and
// DATETIME columns line up with the local service day.
func OpenDB(cfg DBConfig, loc *time.Location) (*sql.DB, error) {
	auth := cfg.User
	if cfg.Password != "" {
		auth = fmt.Sprintf("%s:%s", cfg.User, cfg.Password)
	}
	dsn := fmt.Sprintf("%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=%s",
		auth, cfg.Host, cfg.Port, cfg.Name, url.QueryEscape(loc.String()))

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("open mysql: %w", err)
	}

	if cfg.MaxConns > 0 {
		db.SetMaxOpenConns(cfg.MaxConns)
		db.SetMaxIdleConns(cfg.MaxConns)
	}
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping mysql: %w", err)
	}
	return db, nil
}
