package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestLoadDefaults(t *testing.T) {
	home := t.TempDir()

	cfg, err := Load(LoadInput{Env: map[string]string{"HOME": home}})
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, ".local", "share", "getitdone"), cfg.DataDir)
	assert.Equal(t, filepath.Join(cfg.DataDir, "getitdone.db"), cfg.DBPath)
	assert.Equal(t, DriverCGO, cfg.Driver)
	assert.Equal(t, "nord", cfg.Theme)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, Duration(24*time.Hour), cfg.RemindWithin)
	assert.Equal(t, "vi", cfg.Editor)
	assert.Empty(t, cfg.Source)
}

func TestLoadPrecedence(t *testing.T) {
	home := t.TempDir()
	work := t.TempDir()

	writeFile(t, filepath.Join(home, ".config", "getitdone", "config.json"), `{
		// comments and trailing commas are fine
		"theme": "dracula",
		"driver": "sqlite",
		"editor": "nano",
		"remind_within": "2h",
	}`)
	writeFile(t, filepath.Join(work, ".env"), "GETITDONE_THEME=gruvbox\nGETITDONE_LOG_LEVEL=info\n")

	cfg, err := Load(LoadInput{
		WorkDir: work,
		Env: map[string]string{
			"HOME":                home,
			"GETITDONE_LOG_LEVEL": "error",
			"EDITOR":              "emacs",
		},
		Overrides: Overrides{DBPath: "/tmp/x.db"},
	})
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, ".config", "getitdone", "config.json"), cfg.Source)
	assert.Equal(t, "gruvbox", cfg.Theme, ".env beats the file")
	assert.Equal(t, "error", cfg.LogLevel, "environment beats .env")
	assert.Equal(t, DriverPureGo, cfg.Driver)
	assert.Equal(t, "nano", cfg.Editor, "configured editor beats $EDITOR")
	assert.Equal(t, Duration(2*time.Hour), cfg.RemindWithin)
	assert.Equal(t, "/tmp/x.db", cfg.DBPath)
}

func TestLoadDataDirMovesDefaultDB(t *testing.T) {
	cfg, err := Load(LoadInput{Env: map[string]string{
		"HOME":               t.TempDir(),
		"GETITDONE_DATA_DIR": "/srv/tasks",
	}})
	require.NoError(t, err)
	assert.Equal(t, "/srv/tasks/getitdone.db", cfg.DBPath)
}

func TestLoadExplicitMissing(t *testing.T) {
	_, err := Load(LoadInput{
		ConfigPath: filepath.Join(t.TempDir(), "nope.json"),
		Env:        map[string]string{},
	})
	assert.ErrorIs(t, err, ErrConfigFileNotFound)
}

func TestLoadSchemaViolations(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"unknown key", `{"colour": "red"}`},
		{"bad driver", `{"driver": "postgres"}`},
		{"bad duration", `{"remind_within": "soon"}`},
		{"wrong type", `{"notifications": "yes"}`},
		{"not jsonc", `{"theme": `},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.json")
			writeFile(t, path, tt.content)

			_, err := Load(LoadInput{ConfigPath: path, Env: map[string]string{}})
			assert.ErrorIs(t, err, ErrConfigInvalid)
		})
	}
}

func TestLoadInvalidEnv(t *testing.T) {
	_, err := Load(LoadInput{Env: map[string]string{"GETITDONE_DRIVER": "mysql"}})
	assert.ErrorIs(t, err, ErrConfigInvalid)

	_, err = Load(LoadInput{Env: map[string]string{"GETITDONE_REMIND_WITHIN": "tomorrow"}})
	assert.ErrorIs(t, err, ErrConfigInvalid)
}

func TestWriteDefaultRoundTrip(t *testing.T) {
	home := t.TempDir()
	environ := map[string]string{"HOME": home}
	path := DefaultPath(environ)

	require.NoError(t, WriteDefault(path, environ, false))
	assert.ErrorIs(t, WriteDefault(path, environ, false), ErrConfigExists)
	require.NoError(t, WriteDefault(path, environ, true))

	cfg, err := Load(LoadInput{Env: environ})
	require.NoError(t, err)
	assert.Equal(t, path, cfg.Source)

	want := DefaultConfig(environ)
	want.Editor = "vi"
	want.Source = path
	assert.Equal(t, want, cfg)
}

func TestEnvMap(t *testing.T) {
	m := EnvMap([]string{"A=1", "B=x=y", "broken"})
	assert.Equal(t, map[string]string{"A": "1", "B": "x=y"}, m)
}
