package database

import (
	"context"
	"database/sql"
	"net/url"
	"os"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
	"github.com/pressly/goose/v3"

	"github.com/trezcool/attendance/core"
	"github.com/trezcool/attendance/fs"
)

const (
	driverName      = "sqlite3"
	migrationsDir   = "migrations"
	gooseDialect    = "sqlite3"
	defaultCommand  = "up"
	checkpointQuery = "PRAGMA wal_checkpoint(FULL)"
)

func init() {
	goose.SetBaseFS(appfs.FS)
	_ = goose.SetDialect(gooseDialect)
}

// dsn builds the sqlite connection string: WAL journal so readers never block the writer,
// a busy timeout instead of immediate SQLITE_BUSY, and no foreign keys (history survives student deletion).
func dsn(path string) string {
	q := make(url.Values)
	q.Set("_journal_mode", "WAL")
	q.Set("_busy_timeout", "5000")
	q.Set("_foreign_keys", "off")
	return path + "?" + q.Encode()
}

// Open opens (creating it if needed) the database file configured in conf.
// The pool holds a single connection: sqlite allows one writer at a time.
func Open(conf *core.Config) (*sqlx.DB, error) {
	if err := os.MkdirAll(conf.Database.Dir, 0o755); err != nil {
		return nil, errors.Wrap(err, "creating data directory")
	}
	db, err := sqlx.Open(driverName, dsn(conf.Database.Path()))
	if err != nil {
		return nil, errors.Wrap(err, "opening database")
	}
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "pinging database")
	}
	return db, nil
}

// OpenAndMigrate opens the database and applies pending migrations.
func OpenAndMigrate(conf *core.Config) (*sqlx.DB, error) {
	db, err := Open(conf)
	if err != nil {
		return nil, err
	}
	if err := Migrate(db.DB); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func Migrate(db *sql.DB) error {
	return RunMigrations(db, defaultCommand)
}

// RunMigrations runs a goose command ("up", "down", "status", "version", ...) on the embedded migrations.
func RunMigrations(db *sql.DB, command string, args ...string) error {
	if err := goose.Run(command, db, migrationsDir, args...); err != nil {
		return errors.Wrapf(err, "migrating database (%s)", command)
	}
	return nil
}

// Checkpoint flushes the write-ahead log into the main database file.
func Checkpoint(ctx context.Context, db core.DBExecutor) error {
	if _, err := db.ExecContext(ctx, checkpointQuery); err != nil {
		return errors.Wrap(err, "checkpointing database")
	}
	return nil
}
