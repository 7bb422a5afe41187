package director

import (
	"gopkg.in/yaml.v3"

	"github.com/ivlev/uno2video/internal/assets"
	"github.com/ivlev/uno2video/internal/effects"
	"github.com/ivlev/uno2video/internal/text"
)

// Scenario is the authored script: a run of contiguous scenes
type Scenario struct {
	Version string  `yaml:"version"`
	Title   string  `yaml:"title,omitempty"`
	Scenes  []Scene `yaml:"scenes"`
}

// Scene owns a background and the placements drawn over it, back to front.
// Start and End are absolute seconds; End is exclusive.
type Scene struct {
	ID         string      `yaml:"id"`
	Start      float64     `yaml:"start"`
	End        float64     `yaml:"end"`
	Background Background  `yaml:"background"`
	Narration  string      `yaml:"narration,omitempty"`
	Placements []Placement `yaml:"placements"`
}

func (s Scene) Duration() float64 { return s.End - s.Start }

type BackgroundKind string

const (
	BackgroundGradient  BackgroundKind = "gradient"
	BackgroundSpotlight BackgroundKind = "spotlight"
	BackgroundChaos     BackgroundKind = "chaos"
	BackgroundVignette  BackgroundKind = "vignette"
	BackgroundUnoTheme  BackgroundKind = "uno-theme"
)

// Background is a full-canvas fill. Which fields matter depends on Kind:
// gradient uses From/To (Intensity adds a drifting light), vignette uses
// From and Intensity, spotlight uses X/Y/Intensity/Sway, chaos uses Seed.
type Background struct {
	Kind      BackgroundKind `yaml:"kind"`
	From      string         `yaml:"from,omitempty"`
	To        string         `yaml:"to,omitempty"`
	X         float64        `yaml:"x,omitempty"`
	Y         float64        `yaml:"y,omitempty"`
	Sway      float64        `yaml:"sway,omitempty"`
	Intensity float64        `yaml:"intensity,omitempty"`
	Seed      int64          `yaml:"seed,omitempty"`
}

type ElementKind string

const (
	ElementCharacter ElementKind = "character"
	ElementCard      ElementKind = "card"
	ElementText      ElementKind = "text"
	ElementOverlay   ElementKind = "overlay"
)

// Placement puts one element on screen for a sub-window of its scene.
// Start and End are seconds from the scene start. X and Y anchor the
// element center as fractions of the canvas.
type Placement struct {
	Element ElementKind `yaml:"element"`
	Start   float64     `yaml:"start"`
	End     float64     `yaml:"end"`
	X       float64     `yaml:"x"`
	Y       float64     `yaml:"y"`
	Width   int         `yaml:"width,omitempty"`
	Height  int         `yaml:"height,omitempty"`

	Character assets.Expression `yaml:"character,omitempty"`
	Card      *assets.Card      `yaml:"card,omitempty"`
	Text      *text.Block       `yaml:"text,omitempty"`
	Counter   int               `yaml:"counter,omitempty"` // text counts 0..Counter over the window
	Overlay   *Overlay          `yaml:"overlay,omitempty"`

	// Effects transform the whole element; text blocks also carry their own.
	Effects []effects.Effect `yaml:"effects,omitempty"`
	Motion  []Keyframe       `yaml:"motion,omitempty"`
	Easing  string           `yaml:"easing,omitempty"`
}

// Keyframe pins position, scale and opacity at a fraction of the placement window.
// In YAML, an omitted scale or alpha means 1.
type Keyframe struct {
	At    float64 `yaml:"at"`
	X     float64 `yaml:"x"`
	Y     float64 `yaml:"y"`
	Scale float64 `yaml:"scale"`
	Alpha float64 `yaml:"alpha"`
}

func (k *Keyframe) UnmarshalYAML(value *yaml.Node) error {
	type plain Keyframe
	kf := plain{Scale: 1, Alpha: 1}
	if err := value.Decode(&kf); err != nil {
		return err
	}
	*k = Keyframe(kf)
	return nil
}

type OverlayKind string

const (
	OverlayFlash      OverlayKind = "flash"
	OverlayFadeBlack  OverlayKind = "fade-black"
	OverlayVignette   OverlayKind = "vignette"
	OverlaySparkles   OverlayKind = "sparkles"
	OverlayEnergyWave OverlayKind = "energy-wave"
	OverlayCardRain   OverlayKind = "card-rain"
	OverlayLowerThird OverlayKind = "lower-third"
	OverlayImage      OverlayKind = "image"
	OverlayQRCode     OverlayKind = "qrcode"
)

// Ambient overlays affect the whole frame and carry no content of their own.
func (k OverlayKind) Ambient() bool {
	switch k {
	case OverlayFlash, OverlayFadeBlack, OverlayVignette, OverlaySparkles, OverlayEnergyWave, OverlayCardRain:
		return true
	}
	return false
}

type Overlay struct {
	Kind      OverlayKind `yaml:"kind"`
	Color     string      `yaml:"color,omitempty"`
	Intensity float64     `yaml:"intensity,omitempty"`
	Count     int         `yaml:"count,omitempty"`
	Seed      int64       `yaml:"seed,omitempty"`
	Out       bool        `yaml:"out,omitempty"`     // fade-black: fade to black instead of from it
	Caption   string      `yaml:"caption,omitempty"` // lower-third
	Source    string      `yaml:"source,omitempty"`  // image asset name or qrcode content
}
