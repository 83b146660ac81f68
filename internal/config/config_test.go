package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, "localhost:8080", cfg.Addr)
	assert.Equal(t, "studydeck.db", cfg.DBPath)
	assert.Equal(t, "repos", cfg.ReposDir)
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("db_path: /tmp/custom.db\n"), 0o644))

	cfg, err := Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/custom.db", cfg.DBPath)
	assert.Equal(t, "localhost:8080", cfg.Addr)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("addr: localhost:1111\n"), 0o644))
	t.Setenv("STUDYDECK_ADDR", "localhost:2222")

	cfg, err := Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "localhost:2222", cfg.Addr)
}

func TestLoadFlagsOverrideEnv(t *testing.T) {
	t.Setenv("STUDYDECK_ADDR", "localhost:2222")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("addr", "", "listen address")
	require.NoError(t, flags.Parse([]string{"--addr", "localhost:3333"}))

	cfg, err := Load("", flags)
	require.NoError(t, err)
	assert.Equal(t, "localhost:3333", cfg.Addr)
}

func TestLoadRejectsInvalidAddr(t *testing.T) {
	t.Setenv("STUDYDECK_ADDR", "not a host port")

	_, err := Load("", nil)
	assert.Error(t, err)
}

func TestLoadMissingFileIsFine(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"), nil)
	require.NoError(t, err)
	assert.Equal(t, "studydeck.db", cfg.DBPath)
}
