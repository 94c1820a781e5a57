package main

import (
	"bytes"
	"flag"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lukemcguire/statuscat/config"
	"github.com/lukemcguire/statuscat/crawler"
	"github.com/lukemcguire/statuscat/result"
)

func load(t *testing.T, args ...string) (*config.Config, error) {
	t.Helper()
	t.Chdir(t.TempDir()) // keep a developer's .env out of the test
	fs := flag.NewFlagSet("statuscat", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	f, err := parseFlags(fs, args)
	require.NoError(t, err)
	return loadConfig(fs, f)
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := load(t)
	require.NoError(t, err)

	assert.Equal(t, config.DefaultSeeds, cfg.Seeds)
	assert.Equal(t, config.DefaultOutput, cfg.Output)
	assert.Equal(t, crawler.DefaultProbeTimeout, cfg.ProbeTimeout)
}

func TestLoadConfig_FlagsOverrideFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "statuscat.yaml")
	require.NoError(t, os.WriteFile(path, []byte("engine: static\noutput: file.html\nrate_limit: 5\n"), 0o600))

	cfg, err := load(t, "-config", path, "-o", "flag.html", "-timeout", "2s", "https://a.test/", "https://b.test/")
	require.NoError(t, err)

	assert.Equal(t, "flag.html", cfg.Output)
	assert.Equal(t, config.EngineStatic, cfg.Engine, "unset flags keep file values")
	assert.InDelta(t, 5.0, cfg.RateLimit, 0.001)
	assert.Equal(t, 2*time.Second, cfg.ProbeTimeout)
	assert.Equal(t, []string{"https://a.test/", "https://b.test/"}, cfg.Seeds)
}

func TestLoadConfig_Invalid(t *testing.T) {
	_, err := load(t, "-engine", "lynx")
	assert.Error(t, err)

	_, err = load(t, "ftp://files.test/")
	assert.Error(t, err)
}

func TestWriteExport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "links.json")
	results := []result.StatusResult{{Link: "https://a.test/", Status: result.Success(200)}}

	require.NoError(t, writeExport(path, results, result.WriteJSON))

	var want bytes.Buffer
	require.NoError(t, result.WriteJSON(&want, results))
	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, want.Bytes(), got)

	assert.Error(t, writeExport(filepath.Join(t.TempDir(), "no", "dir.json"), results, result.WriteJSON))
}
