package config

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/spf13/viper"
)

// Target profile. The run is rendered for a single vertical format only.
const (
	Width         = 1080
	Height        = 1920
	FPS           = 30
	TotalDuration = 75.0
	TotalFrames   = 2250
)

// FrameTime converts a frame index to global time in seconds.
func FrameTime(frame int) float64 {
	return float64(frame) / FPS
}

type Config struct {
	OutputDir      string
	ScenarioInput  string
	FontPath       string
	AssetsDir      string
	AudioPath      string
	Workers        int
	WriteWorkers   int
	PNGCompression string
	ProgressEvery  int
	ShowStats      bool
	LogLevel       string
	Compile        bool
	VideoEncoder   string
	Quality        int
	SafeZoneCheck  bool
	BuildVersion   string
}

// Load reads an optional config file and UNO2VIDEO_* environment variables.
// An empty path or a missing file falls back to defaults.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("outputDir", "output")
	v.SetDefault("scenarioInput", "")
	v.SetDefault("fontPath", "")
	v.SetDefault("assetsDir", "input/assets")
	v.SetDefault("audioPath", "")
	v.SetDefault("workers", runtime.NumCPU())
	v.SetDefault("writeWorkers", 4)
	v.SetDefault("pngCompression", "speed")
	v.SetDefault("progressEvery", 150)
	v.SetDefault("showStats", false)
	v.SetDefault("logLevel", "info")
	v.SetDefault("compile", false)
	v.SetDefault("videoEncoder", "")
	v.SetDefault("quality", 0) // 0 picks per encoder
	v.SetDefault("safeZoneCheck", false)

	v.SetEnvPrefix("UNO2VIDEO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("error reading config file: %w", err)
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	}

	cfg := &Config{
		OutputDir:      v.GetString("outputDir"),
		ScenarioInput:  v.GetString("scenarioInput"),
		FontPath:       v.GetString("fontPath"),
		AssetsDir:      v.GetString("assetsDir"),
		AudioPath:      v.GetString("audioPath"),
		Workers:        v.GetInt("workers"),
		WriteWorkers:   v.GetInt("writeWorkers"),
		PNGCompression: v.GetString("pngCompression"),
		ProgressEvery:  v.GetInt("progressEvery"),
		ShowStats:      v.GetBool("showStats"),
		LogLevel:       v.GetString("logLevel"),
		Compile:        v.GetBool("compile"),
		VideoEncoder:   v.GetString("videoEncoder"),
		Quality:        v.GetInt("quality"),
		SafeZoneCheck:  v.GetBool("safeZoneCheck"),
	}
	return cfg, cfg.Validate()
}

func (c *Config) Validate() error {
	if c.OutputDir == "" {
		return fmt.Errorf("outputDir must not be empty")
	}
	if c.Workers < 1 {
		c.Workers = 1
	}
	if c.WriteWorkers < 1 {
		c.WriteWorkers = 1
	}
	if c.ProgressEvery < 1 {
		c.ProgressEvery = FPS
	}
	switch c.PNGCompression {
	case "speed", "default", "best", "none":
	default:
		return fmt.Errorf("unknown pngCompression %q (speed, default, best, none)", c.PNGCompression)
	}
	return nil
}
