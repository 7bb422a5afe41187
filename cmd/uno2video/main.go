package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"

	"github.com/rs/zerolog/log"

	"github.com/ivlev/uno2video/internal/analyzer"
	"github.com/ivlev/uno2video/internal/assets"
	"github.com/ivlev/uno2video/internal/config"
	"github.com/ivlev/uno2video/internal/director"
	"github.com/ivlev/uno2video/internal/engine"
	"github.com/ivlev/uno2video/internal/renderer"
	"github.com/ivlev/uno2video/internal/source"
	"github.com/ivlev/uno2video/internal/system"
	"github.com/ivlev/uno2video/internal/text"
	"github.com/ivlev/uno2video/internal/video"
)

var buildVersion = "dev"

func main() {
	configPtr := flag.String("config", "uno2video.yaml", "Config file (optional)")
	outputPtr := flag.String("output", "", "Output directory for frames, narration and compile script")
	scenarioPtr := flag.String("scenario", "", "Scenario YAML path, \"latest\" for the newest in scenarios/, empty for the built-in script")
	fontPtr := flag.String("font", "", "TrueType/OpenType font (default: embedded Go Bold)")
	assetsPtr := flag.String("assets", "", "Directory with images referenced by image overlays")
	audioPtr := flag.String("audio", "", "Voiceover track for -compile (default: newest file in <output>/audio)")
	workersPtr := flag.Int("workers", 0, "Render workers (default: CPU count, capped by free memory)")
	writeWorkersPtr := flag.Int("write-workers", 0, "PNG writer workers")
	pngPtr := flag.String("png", "", "PNG compression: speed, default, best, none")
	statsPtr := flag.Bool("stats", false, "Print a performance report and append to benchmark.log")
	logLevelPtr := flag.String("log-level", "", "Log level: debug, info, warn, error")
	compilePtr := flag.Bool("compile", false, "Run ffmpeg after rendering")
	qualityPtr := flag.Int("quality", 0, "Video quality (0 - auto; x264: CRF 1-51, VideoToolbox: bitrate = Q*100kbit/s)")
	safeZonePtr := flag.Bool("safe-zone", false, "Warn when content reaches the player UI margins")
	flag.Parse()

	cfg, err := config.Load(*configPtr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[-] Config error: %v\n", err)
		os.Exit(1)
	}
	// Flags override the config file only when given explicitly.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "output":
			cfg.OutputDir = *outputPtr
		case "scenario":
			cfg.ScenarioInput = *scenarioPtr
		case "font":
			cfg.FontPath = *fontPtr
		case "assets":
			cfg.AssetsDir = *assetsPtr
		case "audio":
			cfg.AudioPath = *audioPtr
		case "workers":
			cfg.Workers = *workersPtr
		case "write-workers":
			cfg.WriteWorkers = *writeWorkersPtr
		case "png":
			cfg.PNGCompression = *pngPtr
		case "stats":
			cfg.ShowStats = *statsPtr
		case "log-level":
			cfg.LogLevel = *logLevelPtr
		case "compile":
			cfg.Compile = *compilePtr
		case "quality":
			cfg.Quality = *qualityPtr
		case "safe-zone":
			cfg.SafeZoneCheck = *safeZonePtr
		}
	})
	cfg.BuildVersion = buildVersion

	system.SetupLogger(cfg.LogLevel)
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("[-] Invalid configuration")
	}
	system.InitResourceLimits()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cfg.Workers = system.SuggestWorkers(ctx, cfg.Workers, config.Width*config.Height*4)
	if cfg.Workers < runtime.NumCPU() {
		log.Info().Msgf("[*] Render workers: %d", cfg.Workers)
	}

	// Everything the run needs is loaded and validated before the first frame.
	scenario, origin, err := director.LoadScenario(cfg.ScenarioInput, director.DefaultScenarioDir)
	if err != nil {
		log.Fatal().Err(err).Msg("[-] Scenario error")
	}
	timeline, err := director.NewTimeline(scenario, config.TotalDuration)
	if err != nil {
		log.Fatal().Err(err).Msgf("[-] Timeline error (%s)", origin)
	}
	log.Info().Msgf("[*] Scenario: %s (%d scenes)", origin, len(timeline.Scenes()))

	tr, err := text.Load(cfg.FontPath)
	if err != nil {
		log.Fatal().Err(err).Msg("[-] Font error")
	}
	log.Info().Msgf("[*] Font: %s", tr.Name())

	images, err := source.NewImageSource(cfg.AssetsDir)
	if err != nil {
		log.Fatal().Err(err).Msg("[-] Assets error")
	}

	if err := images.Check(timeline.ImageSources()); err != nil {
		log.Fatal().Err(err).Msg("[-] Image overlay assets")
	}

	builder := assets.NewBuilder(tr)
	comp := renderer.New(timeline, builder, tr, images)
	if err := comp.Preload(ctx); err != nil {
		log.Fatal().Err(err).Msg("[-] Asset preload failed")
	}
	builds, _ := builder.Stats()
	log.Info().Msgf("[*] Assets ready: %d rasters", builds)

	if cfg.SafeZoneCheck {
		checkSafeZone(comp, timeline)
	}

	sink, err := engine.NewDirSink(cfg.OutputDir, cfg.PNGCompression)
	if err != nil {
		log.Fatal().Err(err).Msg("[-] Output error")
	}
	project := engine.NewVideoProject(cfg, comp, sink, timeline.Narration())
	project.Assets = builder

	report, err := project.Run(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("[-] Render failed")
	}
	if cfg.ShowStats {
		report.Print(engine.BenchmarkLog)
	}

	framePattern := filepath.Join(engine.FramesDir, engine.FramePattern)
	scriptPath, err := video.WriteCompileScript(cfg.OutputDir, framePattern, engine.NarrationFile, video.QualityFor("libx264", cfg.Quality))
	if err != nil {
		log.Fatal().Err(err).Msg("[-] Could not write compile script")
	}
	log.Info().Msgf("[*] Compile script: %s", scriptPath)

	if !cfg.Compile {
		log.Info().Msgf("[+++] Done! Frames: %s", sink.Dir)
		log.Info().Msgf("[*] Next: generate the voiceover from %s and run bash %s", report.NarrationAt, scriptPath)
		return
	}

	out, err := compile(ctx, cfg, sink.Dir)
	if err != nil {
		log.Fatal().Err(err).Msg("[-] Compile failed")
	}
	log.Info().Msgf("[+++] Done! Video: %s", out)
}

func checkSafeZone(comp *renderer.Compositor, timeline *director.Timeline) {
	d, err := analyzer.NewDetector("contrast")
	if err != nil {
		log.Fatal().Err(err).Msg("[-] Detector error")
	}
	checks, err := analyzer.CheckScenes(comp, timeline.Scenes(), d, analyzer.VerticalSafeZone)
	if err != nil {
		log.Fatal().Err(err).Msg("[-] Safe-zone check failed")
	}
	for _, c := range checks {
		for _, v := range c.Violations {
			log.Warn().Str("scene", c.Scene).Float64("t", c.Time).Msgf("[!] Safe zone: %s", v)
		}
	}
}

func compile(ctx context.Context, cfg *config.Config, framesDir string) (string, error) {
	audioPath := cfg.AudioPath
	if audioPath == "" {
		if latest, err := system.FindLatestAudio(filepath.Join(cfg.OutputDir, "audio")); err == nil {
			audioPath = latest
		}
	}
	if audioPath == "" {
		log.Warn().Msg("[!] No voiceover found, compiling a silent video")
	} else if d, err := system.GetAudioDuration(ctx, audioPath); err != nil {
		log.Warn().Err(err).Msg("[!] Could not probe audio duration")
	} else if d < config.TotalDuration-0.5 || d > config.TotalDuration+0.5 {
		log.Warn().Msgf("[!] Voiceover is %.2fs, video is %.0fs; the shorter stream wins", d, config.TotalDuration)
	}

	encoder := cfg.VideoEncoder
	if encoder == "" {
		encoder = system.GetBestH264Encoder(ctx)
		if encoder != "libx264" {
			log.Info().Msgf("[*] Hardware encoder detected: %s", encoder)
		}
	}
	out := filepath.Join(cfg.OutputDir, video.OutputFile)
	err := (&video.FFmpegEncoder{}).Compile(ctx, video.CompileParams{
		FramePattern: filepath.Join(framesDir, engine.FramePattern),
		AudioPath:    audioPath,
		OutputPath:   out,
		Encoder:      encoder,
		Quality:      video.QualityFor(encoder, cfg.Quality),
	})
	return out, err
}
