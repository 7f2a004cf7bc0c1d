package repository

import (
	"database/sql"
	"log/slog"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

const (
	pingAttempts   = 5
	pingRetryDelay = 5 * time.Second
)

// NewDB creates a new MySQL database connection pool with the given DSN.
// The initial ping is retried on a fixed delay so the API survives the
// database coming up after it does.
func NewDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	var pingErr error
	for attempt := 1; attempt <= pingAttempts; attempt++ {
		pingErr = db.Ping()
		if pingErr == nil {
			return db, nil
		}
		if attempt < pingAttempts {
			slog.Warn("database ping failed, retrying",
				"attempt", attempt, "retry_in", pingRetryDelay, "error", pingErr)
			time.Sleep(pingRetryDelay)
		}
	}

	db.Close()
	return nil, pingErr
}
