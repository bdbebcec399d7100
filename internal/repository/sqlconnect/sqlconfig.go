// Package sqlconnect opens the catalog's Postgres pool over the pgx stdlib
// driver.
package sqlconnect

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"strconv"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// poolLimits carries the connection-pool knobs; every one is env-tunable so a
// small deployment and a loaded one can run the same binary.
type poolLimits struct {
	maxOpen     int
	maxIdle     int
	maxIdleTime time.Duration
	maxLifetime time.Duration
}

func limitsFromEnv() poolLimits {
	return poolLimits{
		maxOpen:     envPoolInt("DB_MAX_OPEN_CONNS", 25),
		maxIdle:     envPoolInt("DB_MAX_IDLE_CONNS", 25),
		maxIdleTime: envPoolDur("DB_CONN_MAX_IDLE", 15*time.Minute),
		maxLifetime: envPoolDur("DB_CONN_MAX_LIFETIME", time.Hour),
	}
}

func (p poolLimits) apply(db *sql.DB) {
	db.SetMaxOpenConns(p.maxOpen)
	db.SetMaxIdleConns(p.maxIdle)
	db.SetConnMaxIdleTime(p.maxIdleTime)
	db.SetConnMaxLifetime(p.maxLifetime)
}

// ConnectDB opens the pool named by DATABASE_URL and verifies it with a short
// ping before handing it out.
func ConnectDB() (*sql.DB, error) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		return nil, errors.New("DATABASE_URL not set")
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}

	limitsFromEnv().apply(db)
	return db, nil
}

func envPoolInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return def
}

func envPoolDur(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	return def
}
