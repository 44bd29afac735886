package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dori/getitdone/internal/config"
	"github.com/dori/getitdone/internal/db"
	"github.com/dori/getitdone/internal/logging"
	"github.com/dori/getitdone/internal/notify"
	"github.com/gofrs/flock"
	"go.uber.org/zap"
)

// LockTimeout bounds how long a command waits for another instance
const LockTimeout = 3 * time.Second

// ErrLocked is returned when another process holds the data directory
var ErrLocked = errors.New("another instance of getitdone is running")

// App holds the application state and dependencies
type App struct {
	DB       *db.DB
	Notifier *notify.Notifier
	Log      *zap.SugaredLogger
	Config   config.Config
	lockFile *flock.Flock
}

// New creates a new application instance: it takes the data directory lock
// and opens the store.
func New(ctx context.Context, cfg config.Config, log *zap.SugaredLogger) (*App, error) {
	if log == nil {
		log = logging.Nop()
	}

	// Ensure data directory exists
	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	app := &App{
		Config:   cfg,
		Log:      log,
		Notifier: notify.NewNotifier(),
	}
	app.Notifier.SetEnabled(cfg.Notifications)

	// Acquire lock to ensure single instance
	if err := app.acquireLock(ctx); err != nil {
		return nil, err
	}

	// Open database
	database, err := db.Open(cfg.DBPath, db.Options{Driver: cfg.Driver, Logger: log})
	if err != nil {
		app.releaseLock()
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	app.DB = database

	return app, nil
}

// acquireLock waits up to LockTimeout for the exclusive data directory lock
func (a *App) acquireLock(ctx context.Context) error {
	lockPath := filepath.Join(a.Config.DataDir, "getitdone.lock")
	a.lockFile = flock.New(lockPath)

	ctx, cancel := context.WithTimeout(ctx, LockTimeout)
	defer cancel()

	locked, err := a.lockFile.TryLockContext(ctx, 100*time.Millisecond)
	if err != nil && ctx.Err() == nil {
		return fmt.Errorf("failed to acquire lock: %w", err)
	}

	if !locked {
		return ErrLocked
	}

	a.Log.Debugw("lock acquired", "path", lockPath)
	return nil
}

// releaseLock releases the file lock
func (a *App) releaseLock() {
	if a.lockFile != nil {
		a.lockFile.Unlock()
	}
}

// Close cleans up application resources
func (a *App) Close() error {
	var errs []error

	if a.DB != nil {
		if err := a.DB.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database: %w", err))
		}
	}

	a.releaseLock()
	a.Log.Sync()

	return errors.Join(errs...)
}
