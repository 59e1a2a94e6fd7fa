package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func flagSet() *pflag.FlagSet {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String(KeyModel, "model.json", "")
	fs.String(KeyFormat, "text", "")
	fs.String(KeyAPIURL, "", "")
	fs.String(KeyDB, "", "")
	return fs
}

func TestDefaults(t *testing.T) {
	cfg, err := Load(nil, "")
	require.NoError(t, err)
	assert.Equal(t, Defaults(), cfg)
	assert.False(t, cfg.UsesLocalStore())
}

func TestPrecedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rollforward.yaml")
	require.NoError(t, os.WriteFile(path, []byte("api-url: http://file\nformat: json\nretries: 3\ntimeout: 5s\ndb: file.db\n"), 0o644))
	t.Setenv("ROLLFORWARD_DB", "env.db")

	fs := flagSet()
	require.NoError(t, fs.Parse([]string{"--api-url", "http://flag"}))

	cfg, err := Load(fs, path)
	require.NoError(t, err)
	assert.Equal(t, "http://flag", cfg.APIURL, "flag beats file")
	assert.Equal(t, "env.db", cfg.DB, "env beats file")
	assert.Equal(t, "json", cfg.Format, "file beats default")
	assert.Equal(t, uint(3), cfg.Retries)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.True(t, cfg.UsesLocalStore())
}

func TestUnsetFlagDoesNotOverrideEnv(t *testing.T) {
	t.Setenv("ROLLFORWARD_MODEL", "env.json")
	fs := flagSet()
	require.NoError(t, fs.Parse(nil))

	cfg, err := Load(fs, "")
	require.NoError(t, err)
	assert.Equal(t, "env.json", cfg.Model)
}

func TestInvalidFormat(t *testing.T) {
	t.Setenv("ROLLFORWARD_FORMAT", "xml")
	_, err := Load(nil, "")
	assert.ErrorContains(t, err, "invalid format")
}

func TestMissingConfigFile(t *testing.T) {
	_, err := Load(nil, filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
