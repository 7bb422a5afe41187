package system

import (
	"bytes"
	"image"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindLatestAudio(t *testing.T) {
	dir := t.TempDir()
	now := time.Now()
	for i, name := range []string{"old.mp3", "newest.WAV", "notes.txt", "mid.m4a"} {
		p := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(p, nil, 0644))
		mtime := now.Add(time.Duration(i) * time.Minute)
		if name == "notes.txt" {
			mtime = now.Add(time.Hour)
		}
		require.NoError(t, os.Chtimes(p, mtime, mtime))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "dir.mp3"), 0755))

	got, err := FindLatestAudio(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "mid.m4a"), got)

	_, err = FindLatestAudio(t.TempDir())
	assert.Error(t, err)
}

func TestPickEncoder(t *testing.T) {
	assert.Equal(t, "h264_nvenc", pickEncoder(" V....D h264_nvenc  NVIDIA NVENC H.264 encoder\n V....D libx264"))
	assert.Equal(t, "h264_videotoolbox", pickEncoder("h264_nvenc h264_videotoolbox"))
	assert.Equal(t, "libx264", pickEncoder(" V....D libx264 libx264 H.264"))
}

func TestImagePool(t *testing.T) {
	p := NewImagePool()
	r := image.Rect(0, 0, 8, 4)
	a := p.Get(r)
	assert.Equal(t, r, a.Bounds())
	assert.Equal(t, int64(1), p.Allocated())

	p.Put(a)
	p.Put(image.NewRGBA(image.Rect(0, 0, 2, 2)))
	p.Put(nil)
	b := p.Get(image.Rect(0, 0, 3, 3))
	assert.Equal(t, 3, b.Bounds().Dx())
}

func TestCapWorkers(t *testing.T) {
	frame := 1080 * 1920 * 4
	assert.Equal(t, 8, capWorkers(8, 16<<30, frame))
	assert.Equal(t, 1, capWorkers(8, 1<<20, frame))
	assert.Equal(t, 2, capWorkers(8, uint64(frame*3*4*2), frame))
}

func TestSetupLogger(t *testing.T) {
	defer func(l zerolog.Logger, lvl zerolog.Level) {
		log.Logger = l
		zerolog.SetGlobalLevel(lvl)
	}(log.Logger, zerolog.GlobalLevel())

	var buf bytes.Buffer
	SetupLoggerTo(&buf, "warn")
	log.Info().Msg("hidden")
	log.Warn().Msg("[!] shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "[!] shown")

	SetupLoggerTo(&buf, "bogus")
	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
}
