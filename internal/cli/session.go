package cli

import (
	"context"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/dori/getitdone/internal/app"
	"github.com/dori/getitdone/internal/config"
	"github.com/dori/getitdone/internal/db"
	"github.com/dori/getitdone/internal/logging"
	"github.com/dori/getitdone/internal/notify"
)

// hooks are the process dependencies tests replace
type hooks struct {
	editor editorFunc
	notify notify.Runner
	now    func() time.Time
}

func defaultHooks() hooks {
	return hooks{
		editor: runEditorCmd,
		now:    time.Now,
	}
}

// session is the state shared by the commands of one invocation, or of a
// whole shell. The store is opened on first use and held until close.
type session struct {
	cfg        config.Config
	cfgErr     error
	environ    map[string]string
	configPath string
	log        *zap.SugaredLogger
	out        io.Writer
	hooks      hooks

	app     *app.App
	printer *Printer
}

func (s *session) config() (config.Config, error) {
	return s.cfg, s.cfgErr
}

// store opens the application on first use
func (s *session) store(ctx context.Context) (*db.DB, error) {
	a, err := s.application(ctx)
	if err != nil {
		return nil, err
	}
	return a.DB, nil
}

func (s *session) application(ctx context.Context) (*app.App, error) {
	if s.app != nil {
		return s.app, nil
	}
	if s.cfgErr != nil {
		return nil, s.cfgErr
	}

	a, err := app.New(ctx, s.cfg, s.log)
	if err != nil {
		return nil, err
	}
	if s.hooks.notify != nil {
		a.Notifier.WithRunner(s.hooks.notify)
	}
	s.app = a
	return a, nil
}

func (s *session) itemPrinter() (*Printer, error) {
	if s.printer != nil {
		return s.printer, nil
	}
	if s.cfgErr != nil {
		return nil, s.cfgErr
	}

	p, err := NewPrinter(s.out, s.cfg.Theme)
	if err != nil {
		return nil, err
	}
	p.now = s.hooks.now
	s.printer = p
	return p, nil
}

func (s *session) close() error {
	if s.app == nil {
		return nil
	}
	err := s.app.Close()
	s.app = nil
	return err
}

func newLogger(cfg config.Config, cfgErr error, w io.Writer) *zap.SugaredLogger {
	if cfgErr != nil {
		return logging.Nop()
	}
	log, err := logging.NewTo(cfg.LogLevel, w)
	if err != nil {
		return logging.Nop()
	}
	return log
}
