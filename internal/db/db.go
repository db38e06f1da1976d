package db

import (
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"

	"github.com/vaughan-dsouza/IdGo/internal/config"
)

func Connect(cfg *config.Config) (*sqlx.DB, error) {
	// Parse DSN → pgx config struct
	pgxCfg, err := pgx.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("db: failed to parse DSN: %w", err)
	}

	// Fail fast on startup if PG is unreachable
	pgxCfg.ConnectTimeout = 5 * time.Second

	// Create sql.DB using pgx's stdlib adapter, wrapped in sqlx for
	// struct scanning
	db := sqlx.NewDb(stdlib.OpenDB(*pgxCfg), "pgx")

	// ---- Connection Pool Settings ----
	db.SetMaxOpenConns(cfg.DBMaxOpen)
	db.SetMaxIdleConns(cfg.DBMaxIdle)
	db.SetConnMaxLifetime(cfg.DBMaxLifetime)

	// ---- Connectivity Check ----
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("db: failed to connect to Postgres: %w", err)
	}

	return db, nil
}
