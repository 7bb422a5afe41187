package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileFrameCount(t *testing.T) {
	assert.Equal(t, TotalFrames, int(TotalDuration*FPS))
	assert.InDelta(t, 2.9666, FrameTime(89), 0.001)
	assert.Equal(t, 0.0, FrameTime(0))
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "output", cfg.OutputDir)
	assert.Equal(t, "speed", cfg.PNGCompression)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.GreaterOrEqual(t, cfg.Workers, 1)
	assert.Equal(t, 4, cfg.WriteWorkers)
}

func TestLoad_WithFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "uno2video.yaml")
	body := "outputDir: render\nworkers: 3\nlogLevel: debug\nshowStats: true\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "render", cfg.OutputDir)
	assert.Equal(t, 3, cfg.Workers)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.True(t, cfg.ShowStats)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("UNO2VIDEO_WORKERS", "3")
	t.Setenv("UNO2VIDEO_PNGCOMPRESSION", "best")
	t.Setenv("UNO2VIDEO_QUALITY", "18")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Workers)
	assert.Equal(t, "best", cfg.PNGCompression)
	assert.Equal(t, 18, cfg.Quality)
}

func TestValidate(t *testing.T) {
	cfg := &Config{OutputDir: "out", PNGCompression: "fastest"}
	assert.Error(t, cfg.Validate())

	cfg = &Config{OutputDir: "out", PNGCompression: "best"}
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 1, cfg.Workers)
	assert.Equal(t, FPS, cfg.ProgressEvery)

	cfg = &Config{PNGCompression: "best"}
	assert.Error(t, cfg.Validate())
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "output", cfg.OutputDir)
}
