package db

import (
	"database/sql"
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dori/getitdone/internal/logging"
	"github.com/dori/getitdone/internal/model"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Supported database/sql driver names
const (
	DriverCGO    = "sqlite3" // github.com/mattn/go-sqlite3
	DriverPureGo = "sqlite"  // modernc.org/sqlite
)

// DB wraps the SQL database connection and implements the item store
type DB struct {
	*sql.DB
	log *zap.SugaredLogger
	now func() time.Time
}

// Options configures Open
type Options struct {
	// Driver is DriverCGO (default) or DriverPureGo
	Driver string
	Logger *zap.SugaredLogger
}

func dsn(driver, dbPath string) (string, error) {
	switch driver {
	case DriverCGO:
		return fmt.Sprintf("file:%s?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=ON", dbPath), nil
	case DriverPureGo:
		return fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)", dbPath), nil
	default:
		return "", fmt.Errorf("unsupported driver %q (want %q or %q)", driver, DriverCGO, DriverPureGo)
	}
}

// Open opens a database connection and runs migrations
func Open(dbPath string, opts Options) (*DB, error) {
	if opts.Driver == "" {
		opts.Driver = DriverCGO
	}
	if opts.Logger == nil {
		opts.Logger = logging.Nop()
	}

	source, err := dsn(opts.Driver, dbPath)
	if err != nil {
		return nil, err
	}

	// Ensure the directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("%w: failed to create data directory: %v", model.ErrStoreIO, err)
	}

	sqlDB, err := sql.Open(opts.Driver, source)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open database: %v", model.ErrStoreIO, err)
	}

	// One connection for the process lifetime. Rows must be closed before
	// issuing another statement outside a transaction.
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)

	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("%w: failed to connect to database: %v", model.ErrStoreIO, err)
	}

	db := &DB{DB: sqlDB, log: opts.Logger, now: time.Now}

	if err := db.migrate(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("%w: failed to run migrations: %v", model.ErrStoreIO, err)
	}

	db.log.Debugw("database opened", "path", dbPath, "driver", opts.Driver)
	return db, nil
}

// migrate runs database migrations using embedded SQL files
func (db *DB) migrate() error {
	goose.SetLogger(logging.GooseLogger{Log: db.log})
	goose.SetBaseFS(migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set dialect: %w", err)
	}

	if err := goose.Up(db.DB, "migrations"); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.DB.Close()
}

// Transaction executes a function within a transaction
func (db *DB) Transaction(fn func(*sql.Tx) error) error {
	tx, err := db.Begin()
	if err != nil {
		return storeErr("begin transaction", err)
	}

	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return storeErr("commit", err)
	}
	return nil
}

// queryer is satisfied by both *sql.DB and *sql.Tx
type queryer interface {
	Exec(query string, args ...any) (sql.Result, error)
	Query(query string, args ...any) (*sql.Rows, error)
	QueryRow(query string, args ...any) *sql.Row
}

func storeErr(op string, err error) error {
	return fmt.Errorf("%w: failed to %s: %v", model.ErrStoreIO, op, err)
}
