// Package config resolves the effective settings from defaults, the config
// file, .env, the environment and command line overrides.
package config

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
	"github.com/natefinch/atomic"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/tailscale/hujson"

	"github.com/dori/getitdone/internal/logging"
)

// Errors returned while loading configuration
var (
	ErrConfigInvalid      = errors.New("invalid config")
	ErrConfigFileNotFound = errors.New("config file not found")
	ErrConfigExists       = errors.New("config file already exists")
)

// Supported drivers, matching the database/sql names registered by the db package
const (
	DriverCGO    = "sqlite3"
	DriverPureGo = "sqlite"
)

//go:embed schema.json
var schemaJSON []byte

const schemaURL = "https://getitdone.local/config.schema.json"

// Config holds all configuration options
type Config struct {
	DataDir       string   `json:"data_dir" env:"GETITDONE_DATA_DIR"`
	DBPath        string   `json:"db" env:"GETITDONE_DB"`
	Driver        string   `json:"driver" env:"GETITDONE_DRIVER"`
	Editor        string   `json:"editor,omitempty" env:"GETITDONE_EDITOR"`
	Theme         string   `json:"theme" env:"GETITDONE_THEME"`
	LogLevel      string   `json:"log_level" env:"GETITDONE_LOG_LEVEL"`
	RemindWithin  Duration `json:"remind_within" env:"GETITDONE_REMIND_WITHIN"`
	Notifications bool     `json:"notifications" env:"GETITDONE_NOTIFICATIONS"`

	// Source is the config file that was read, empty when none
	Source string `json:"-" env:"-"`
}

// Duration is a time.Duration written as "24h" in files and the environment
type Duration time.Duration

// MarshalText implements encoding.TextMarshaler
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// Overrides are command line values; empty fields are ignored
type Overrides struct {
	DBPath   string
	Driver   string
	Editor   string
	Theme    string
	LogLevel string
}

// LoadInput holds the inputs for Load
type LoadInput struct {
	ConfigPath string            // -c/--config; must exist when set
	WorkDir    string            // directory searched for .env
	Env        map[string]string // process environment
	Overrides  Overrides
}

// DefaultConfig returns the default configuration for the given environment
func DefaultConfig(environ map[string]string) Config {
	dataDir := DefaultDataDir(environ)
	return Config{
		DataDir:       dataDir,
		DBPath:        filepath.Join(dataDir, "getitdone.db"),
		Driver:        DriverCGO,
		Theme:         "nord",
		LogLevel:      logging.DefaultLevel,
		RemindWithin:  Duration(24 * time.Hour),
		Notifications: true,
	}
}

// DefaultDataDir returns $XDG_DATA_HOME/getitdone or ~/.local/share/getitdone
func DefaultDataDir(environ map[string]string) string {
	if dir := environ["XDG_DATA_HOME"]; dir != "" {
		return filepath.Join(dir, "getitdone")
	}
	if home := environ["HOME"]; home != "" {
		return filepath.Join(home, ".local", "share", "getitdone")
	}
	return ".getitdone"
}

// DefaultPath returns $XDG_CONFIG_HOME/getitdone/config.json or
// ~/.config/getitdone/config.json. Empty if neither is known.
func DefaultPath(environ map[string]string) string {
	if dir := environ["XDG_CONFIG_HOME"]; dir != "" {
		return filepath.Join(dir, "getitdone", "config.json")
	}
	if home := environ["HOME"]; home != "" {
		return filepath.Join(home, ".config", "getitdone", "config.json")
	}
	return ""
}

// Load resolves the configuration with the following precedence (later wins):
// 1. Defaults
// 2. Config file (explicit path, or the default path if it exists)
// 3. .env in the working directory
// 4. Environment variables
// 5. Command line overrides
func Load(input LoadInput) (Config, error) {
	cfg := DefaultConfig(input.Env)
	dbDefault := cfg.DBPath

	path, mustExist := input.ConfigPath, true
	if path == "" {
		path, mustExist = DefaultPath(input.Env), false
	}
	if path != "" {
		loaded, err := loadFile(&cfg, path, mustExist)
		if err != nil {
			return Config{}, err
		}
		if loaded {
			cfg.Source = path
		}
	}

	environ, err := withDotenv(input.WorkDir, input.Env)
	if err != nil {
		return Config{}, err
	}

	dataDir := cfg.DataDir
	if err := env.Parse(&cfg, env.Options{Environment: environ}); err != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrConfigInvalid, err)
	}

	// A relocated data dir carries the default database along unless the
	// database path was given explicitly.
	if cfg.DataDir != dataDir && cfg.DBPath == dbDefault {
		cfg.DBPath = filepath.Join(cfg.DataDir, "getitdone.db")
	}

	applyOverrides(&cfg, input.Overrides)

	if cfg.Editor == "" {
		cfg.Editor = environ["EDITOR"]
	}
	if cfg.Editor == "" {
		cfg.Editor = "vi"
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyOverrides(cfg *Config, o Overrides) {
	if o.DBPath != "" {
		cfg.DBPath = o.DBPath
	}
	if o.Driver != "" {
		cfg.Driver = o.Driver
	}
	if o.Editor != "" {
		cfg.Editor = o.Editor
	}
	if o.Theme != "" {
		cfg.Theme = o.Theme
	}
	if o.LogLevel != "" {
		cfg.LogLevel = o.LogLevel
	}
}

// Validate checks values that every layer may set
func (c Config) Validate() error {
	switch c.Driver {
	case DriverCGO, DriverPureGo:
	default:
		return fmt.Errorf("%w: driver %q (want %q or %q)", ErrConfigInvalid, c.Driver, DriverCGO, DriverPureGo)
	}
	if strings.TrimSpace(c.DBPath) == "" {
		return fmt.Errorf("%w: db path is empty", ErrConfigInvalid)
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: %v", ErrConfigInvalid, err)
	}
	if c.RemindWithin < 0 {
		return fmt.Errorf("%w: remind_within must not be negative", ErrConfigInvalid)
	}
	return nil
}

// loadFile overlays the JSONC file at path onto cfg. A missing optional file
// is not an error.
func loadFile(cfg *Config, path string, mustExist bool) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			if mustExist {
				return false, fmt.Errorf("%w: %s", ErrConfigFileNotFound, path)
			}
			return false, nil
		}
		return false, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	if err := parse(cfg, data); err != nil {
		return false, fmt.Errorf("%w %s: %v", ErrConfigInvalid, path, err)
	}
	return true, nil
}

func parse(cfg *Config, data []byte) error {
	// Standardize JSONC to JSON
	standardized, err := hujson.Standardize(data)
	if err != nil {
		return fmt.Errorf("invalid JSONC: %w", err)
	}

	var raw any
	if err := json.Unmarshal(standardized, &raw); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	if err := validateSchema(raw); err != nil {
		return err
	}

	if err := json.Unmarshal(standardized, cfg); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	return nil
}

func validateSchema(doc any) error {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(schemaURL, bytes.NewReader(schemaJSON)); err != nil {
		return fmt.Errorf("failed to load schema: %w", err)
	}
	schema, err := compiler.Compile(schemaURL)
	if err != nil {
		return fmt.Errorf("failed to compile schema: %w", err)
	}

	err = schema.Validate(doc)
	var ve *jsonschema.ValidationError
	if errors.As(err, &ve) {
		return errors.New(schemaMessage(ve))
	}
	return err
}

// schemaMessage flattens the leaf causes into "path: message" lines
func schemaMessage(ve *jsonschema.ValidationError) string {
	if len(ve.Causes) == 0 {
		loc := ve.InstanceLocation
		if loc == "" {
			loc = "/"
		}
		return loc + ": " + ve.Message
	}
	msgs := make([]string, 0, len(ve.Causes))
	for _, c := range ve.Causes {
		msgs = append(msgs, schemaMessage(c))
	}
	return strings.Join(msgs, "; ")
}

// withDotenv returns environ extended with the variables of .env in dir.
// Variables already present in environ win.
func withDotenv(dir string, environ map[string]string) (map[string]string, error) {
	merged := make(map[string]string, len(environ))
	if dir != "" {
		vars, err := godotenv.Read(filepath.Join(dir, ".env"))
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: .env: %v", ErrConfigInvalid, err)
		}
		for k, v := range vars {
			merged[k] = v
		}
	}
	for k, v := range environ {
		merged[k] = v
	}
	return merged, nil
}

const defaultFile = `// getitdone configuration (JSON with comments).
// Values here are overridden by GETITDONE_* environment variables and flags.
{
  // Directory holding the database and the lock file.
  "data_dir": %q,

  // SQLite database file.
  "db": %q,

  // "sqlite3" (cgo, mattn/go-sqlite3) or "sqlite" (pure Go, modernc.org/sqlite).
  "driver": %q,

  // Editor command for "edit"; empty uses $EDITOR, then vi.
  "editor": %q,

  // Color theme for listings and the browser.
  "theme": %q,

  // debug, info, warn or error.
  "log_level": %q,

  // How far ahead "remind" looks for deadlines.
  "remind_within": %q,

  // Send desktop notifications from "remind".
  "notifications": %t
}
`

// Render returns the commented JSONC form of cfg
func Render(cfg Config) []byte {
	return []byte(fmt.Sprintf(defaultFile, cfg.DataDir, cfg.DBPath, cfg.Driver, cfg.Editor, cfg.Theme,
		cfg.LogLevel, time.Duration(cfg.RemindWithin).String(), cfg.Notifications))
}

// WriteDefault atomically writes the default config file to path. An
// existing file is kept unless force is set.
func WriteDefault(path string, environ map[string]string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%w: %s", ErrConfigExists, path)
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := atomic.WriteFile(path, bytes.NewReader(Render(DefaultConfig(environ)))); err != nil {
		return fmt.Errorf("failed to write config %s: %w", path, err)
	}
	return nil
}

// EnvMap converts os.Environ-style entries to a map
func EnvMap(environ []string) map[string]string {
	m := make(map[string]string, len(environ))
	for _, kv := range environ {
		if k, v, ok := strings.Cut(kv, "="); ok {
			m[k] = v
		}
	}
	return m
}
