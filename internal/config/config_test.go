package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 23, cfg.Sources.Batting.TopN)
	assert.Equal(t, 5, cfg.Sources.HomeRuns.TailTrim)
	assert.Equal(t, []string{"AL", "NL", "LG", "ML"}, cfg.Sources.HomeRuns.Exclude)
	assert.Equal(t, 8, cfg.Sources.Strikeouts.TopN)
	assert.Equal(t, "banner", cfg.Sources.Strikeouts.StopClass)
	assert.Contains(t, cfg.Sources.Batting.Anchor, "tr[10]")
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("BATTING_TOP_N", "10")
	t.Setenv("HOMERUN_EXCLUDE", "AL, NL")
	t.Setenv("READY_ATTEMPTS", "not-a-number")
	t.Setenv("FETCH_RPS", "0.5")
	t.Setenv("WATCH_REPLACE", "off")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 10, cfg.Sources.Batting.TopN)
	assert.Equal(t, []string{"AL", "NL"}, cfg.Sources.HomeRuns.Exclude)
	assert.Equal(t, 3, cfg.ReadyAttempts)
	assert.InDelta(t, 0.5, cfg.FetchRPS, 1e-9)
	assert.False(t, cfg.WatchReplace)
}

func TestLoadSourcesFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	path := filepath.Join(dir, "sources.yaml")
	body := `sources:
  strikeouts:
    url: https://example.test/so.html
    anchor: "css:table.boxed tr.header"
    top_n: 12
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	t.Setenv("SOURCES_FILE", path)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://example.test/so.html", cfg.Sources.Strikeouts.URL)
	assert.Equal(t, "css:table.boxed tr.header", cfg.Sources.Strikeouts.Anchor)
	assert.Equal(t, 12, cfg.Sources.Strikeouts.TopN)
	assert.Equal(t, "banner", cfg.Sources.Strikeouts.StopClass)
	assert.Equal(t, 23, cfg.Sources.Batting.TopN)
}

func TestLoadSourcesFileMissing(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("SOURCES_FILE", "does-not-exist.yaml")

	_, err := Load()
	require.Error(t, err)
}
