// Command scenario exports, validates and previews video scenarios.
package main

import (
	"flag"
	"fmt"
	"image/png"
	"os"
	"path/filepath"

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
)

func main() {
	inputPtr := flag.String("scenario", "", "Scenario YAML path, \"latest\", or empty for the built-in script")
	dumpPtr := flag.Bool("dump", false, "Write the scenario to a timestamped YAML file in -dir")
	dirPtr := flag.String("dir", director.DefaultScenarioDir, "Scenario directory")
	previewPtr := flag.Float64("preview", -1, "Render the frame at this time (seconds) to -out")
	outPtr := flag.String("out", "preview.png", "Preview PNG path")
	fontPtr := flag.String("font", "", "Font path (default: embedded Go Bold)")
	assetsPtr := flag.String("assets", "input/assets", "Image overlay directory")
	safeZonePtr := flag.Bool("safe-zone", false, "Check scene midpoints against the player UI margins")
	flag.Parse()

	system.SetupLogger("info")

	log.Info().Msg("[1/3] Loading scenario...")
	scenario, origin, err := director.LoadScenario(*inputPtr, *dirPtr)
	if err != nil {
		log.Fatal().Err(err).Msg("[-] Scenario error")
	}
	timeline, err := director.NewTimeline(scenario, config.TotalDuration)
	if err != nil {
		log.Fatal().Err(err).Msgf("[-] %s is invalid", origin)
	}
	for _, sc := range timeline.Scenes() {
		log.Info().Msgf("  %-12s %5.1fs - %5.1fs  %-10s %d placements", sc.ID, sc.Start, sc.End, sc.Background.Kind, len(sc.Placements))
	}
	log.Info().Msgf("[*] %s: %d scenes, %d distinct cards", origin, len(timeline.Scenes()), len(timeline.Cards()))

	if *dumpPtr {
		path := director.GenerateScenarioPath(*dirPtr)
		if err := director.WriteScenario(scenario, path); err != nil {
			log.Fatal().Err(err).Msg("[-] Could not write scenario")
		}
		log.Info().Msgf("[+++] Scenario saved: %s", path)
	}

	if *previewPtr < 0 && !*safeZonePtr {
		return
	}

	log.Info().Msg("[2/3] Building assets...")
	tr, err := text.Load(*fontPtr)
	if err != nil {
		log.Fatal().Err(err).Msg("[-] Font error")
	}
	images, err := source.NewImageSource(*assetsPtr)
	if err != nil {
		log.Fatal().Err(err).Msg("[-] Assets error")
	}
	if err := images.Check(timeline.ImageSources()); err != nil {
		log.Fatal().Err(err).Msg("[-] Image overlay assets")
	}
	comp := renderer.New(timeline, assets.NewBuilder(tr), tr, images)

	log.Info().Msg("[3/3] Rendering...")
	if *safeZonePtr {
		d, err := analyzer.NewDetector("contrast")
		if err != nil {
			log.Fatal().Err(err).Msg("[-] Detector error")
		}
		checks, err := analyzer.CheckScenes(comp, timeline.Scenes(), d, analyzer.VerticalSafeZone)
		if err != nil {
			log.Fatal().Err(err).Msg("[-] Safe-zone check failed")
		}
		clean := true
		for _, c := range checks {
			for _, v := range c.Violations {
				clean = false
				log.Warn().Msgf("[!] %s @ %.2fs: %s", c.Scene, c.Time, v)
			}
		}
		if clean {
			log.Info().Msg("[*] All scene midpoints inside the safe zone")
		}
	}

	if *previewPtr >= 0 {
		if err := preview(comp, *previewPtr, *outPtr); err != nil {
			log.Fatal().Err(err).Msg("[-] Preview failed")
		}
		log.Info().Msgf("[+++] Preview saved: %s", *outPtr)
	}
}

func preview(comp *renderer.Compositor, t float64, path string) error {
	frame := int(t * config.FPS)
	img, err := comp.RenderAt(t, frame)
	if err != nil {
		return err
	}
	defer renderer.Release(img)
	engine.Flatten(img)

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}
