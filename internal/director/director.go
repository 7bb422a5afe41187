package director

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/ivlev/uno2video/internal/assets"
	"github.com/ivlev/uno2video/internal/effects"
)

var (
	ErrTimelineGap      = errors.New("timeline gap")
	ErrTimelineOverlap  = errors.New("timeline overlap")
	ErrTimelineDuration = errors.New("timeline duration mismatch")
	ErrPlacementWindow  = errors.New("placement window outside its scene")
	ErrUnknownElement   = errors.New("unknown element")
	ErrContentRule      = errors.New("content rule violated")
)

// eps absorbs float noise in authored second values.
const eps = 1e-6

// Timeline answers "what is on screen at t" over an immutable, validated script.
type Timeline struct {
	scenes   []Scene
	duration float64
}

// Active is one placement visible at the queried time.
type Active struct {
	Index     int // authoring order inside the scene, also z-order
	Placement *Placement
	Local     float64 // progress through the placement window, [0,1]
	Elapsed   float64 // seconds since the placement started
}

// NewTimeline validates s against a run of the given duration and freezes it.
func NewTimeline(s *Scenario, duration float64) (*Timeline, error) {
	if s == nil {
		return nil, fmt.Errorf("%w: no scenario", ErrTimelineDuration)
	}
	tl := &Timeline{
		scenes:   make([]Scene, len(s.Scenes)),
		duration: duration,
	}
	for i, sc := range s.Scenes {
		sc.Placements = append([]Placement(nil), sc.Placements...)
		tl.scenes[i] = sc
	}
	if err := tl.Validate(); err != nil {
		return nil, err
	}
	return tl, nil
}

// Validate checks that scenes partition [0, duration) and that every
// placement fits its scene and references a known element.
func (tl *Timeline) Validate() error {
	if len(tl.scenes) == 0 {
		return fmt.Errorf("%w: no scenes", ErrTimelineGap)
	}
	prevEnd := 0.0
	for i, sc := range tl.scenes {
		if sc.End-sc.Start <= eps {
			return fmt.Errorf("%w: scene %q has empty span [%g,%g)", ErrTimelineDuration, sc.ID, sc.Start, sc.End)
		}
		switch {
		case sc.Start > prevEnd+eps:
			return fmt.Errorf("%w: nothing covers [%g,%g) before scene %q", ErrTimelineGap, prevEnd, sc.Start, sc.ID)
		case sc.Start < prevEnd-eps:
			what := "the timeline start"
			if i > 0 {
				what = fmt.Sprintf("scene %q", tl.scenes[i-1].ID)
			}
			return fmt.Errorf("%w: scene %q starts at %g inside %s", ErrTimelineOverlap, sc.ID, sc.Start, what)
		}
		prevEnd = sc.End

		if err := validateBackground(sc.Background); err != nil {
			return fmt.Errorf("scene %q: %w", sc.ID, err)
		}
		for j, pl := range sc.Placements {
			if pl.Start < -eps || pl.End > sc.Duration()+eps || pl.End-pl.Start <= eps {
				return fmt.Errorf("%w: scene %q placement %d [%g,%g) vs scene length %g",
					ErrPlacementWindow, sc.ID, j, pl.Start, pl.End, sc.Duration())
			}
			if err := validatePlacement(pl); err != nil {
				return fmt.Errorf("scene %q placement %d: %w", sc.ID, j, err)
			}
		}
	}
	if prevEnd < tl.duration-eps {
		return fmt.Errorf("%w: scenes end at %g, run lasts %g", ErrTimelineGap, prevEnd, tl.duration)
	}
	if prevEnd > tl.duration+eps {
		return fmt.Errorf("%w: scenes end at %g, run lasts %g", ErrTimelineDuration, prevEnd, tl.duration)
	}
	return nil
}

func validateBackground(b Background) error {
	switch b.Kind {
	case BackgroundGradient, BackgroundSpotlight, BackgroundChaos, BackgroundVignette, BackgroundUnoTheme:
	default:
		return fmt.Errorf("%w: background %q", ErrUnknownElement, b.Kind)
	}
	for _, c := range []string{b.From, b.To} {
		if c == "" {
			continue
		}
		if _, err := effects.ParseColor(c); err != nil {
			return err
		}
	}
	return nil
}

func validatePlacement(pl Placement) error {
	switch pl.Element {
	case ElementCharacter:
		if _, err := assets.ParseExpression(string(pl.Character)); err != nil {
			return err
		}
		if pl.Width <= 0 {
			return fmt.Errorf("character needs a width")
		}
	case ElementCard:
		if pl.Card == nil {
			return fmt.Errorf("%w: card placement without a card", ErrUnknownElement)
		}
		if err := pl.Card.Validate(); err != nil {
			return err
		}
		// No Mercy's +4 is a colored card; only +6, +10, reverse+4 and roulette are wild.
		if pl.Card.Face == assets.DrawFour && pl.Card.Color == assets.Wild {
			return fmt.Errorf("%w: +4 is not a wild card", ErrContentRule)
		}
		if pl.Width <= 0 || pl.Height <= 0 {
			return fmt.Errorf("card needs a width and height")
		}
	case ElementText:
		if pl.Text == nil {
			return fmt.Errorf("%w: text placement without a text block", ErrUnknownElement)
		}
		if err := pl.Text.Validate(); err != nil {
			return err
		}
	case ElementOverlay:
		if pl.Overlay == nil {
			return fmt.Errorf("%w: overlay placement without an overlay", ErrUnknownElement)
		}
		if err := validateOverlay(*pl.Overlay, pl); err != nil {
			return err
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownElement, pl.Element)
	}

	for _, e := range pl.Effects {
		if err := e.Validate(); err != nil {
			return err
		}
	}
	if _, err := effects.ByName(pl.Easing); err != nil {
		return err
	}
	for i, kf := range pl.Motion {
		if kf.At < 0 || kf.At > 1 {
			return fmt.Errorf("motion keyframe %d at %g outside [0,1]", i, kf.At)
		}
		if kf.Scale <= 0 {
			return fmt.Errorf("motion keyframe %d has scale %g, want > 0", i, kf.Scale)
		}
		if kf.Alpha < 0 || kf.Alpha > 1 {
			return fmt.Errorf("motion keyframe %d alpha %g outside [0,1]", i, kf.Alpha)
		}
		if i > 0 && kf.At < pl.Motion[i-1].At {
			return fmt.Errorf("motion keyframes out of order at %d", i)
		}
	}
	return nil
}

func validateOverlay(o Overlay, pl Placement) error {
	switch o.Kind {
	case OverlayFlash, OverlayFadeBlack, OverlayVignette, OverlaySparkles, OverlayEnergyWave, OverlayCardRain:
	case OverlayLowerThird:
		if o.Caption == "" {
			return fmt.Errorf("lower-third without a caption")
		}
	case OverlayImage, OverlayQRCode:
		if o.Source == "" {
			return fmt.Errorf("%s overlay without a source", o.Kind)
		}
		if pl.Width <= 0 {
			return fmt.Errorf("%s overlay needs a width", o.Kind)
		}
	default:
		return fmt.Errorf("%w: overlay %q", ErrUnknownElement, o.Kind)
	}
	if o.Count < 0 {
		return fmt.Errorf("%s overlay count %d is negative", o.Kind, o.Count)
	}
	if o.Intensity < 0 {
		return fmt.Errorf("%s overlay intensity %g is negative", o.Kind, o.Intensity)
	}
	if o.Color != "" {
		if _, err := effects.ParseColor(o.Color); err != nil {
			return err
		}
	}
	return nil
}

// SceneAt returns the unique scene whose [Start, End) contains t.
func (tl *Timeline) SceneAt(t float64) (*Scene, error) {
	if t < 0 || t >= tl.duration {
		return nil, fmt.Errorf("time %.3fs outside [0,%g)", t, tl.duration)
	}
	i := sort.Search(len(tl.scenes), func(i int) bool { return tl.scenes[i].End > t })
	if i == len(tl.scenes) || tl.scenes[i].Start > t {
		return nil, fmt.Errorf("%w at %.3fs", ErrTimelineGap, t)
	}
	return &tl.scenes[i], nil
}

// ActiveAt resolves the scene at t and its placements whose window contains
// t, in authoring order.
func (tl *Timeline) ActiveAt(t float64) (*Scene, []Active, error) {
	sc, err := tl.SceneAt(t)
	if err != nil {
		return nil, nil, err
	}
	local := t - sc.Start
	var out []Active
	for i := range sc.Placements {
		pl := &sc.Placements[i]
		if local < pl.Start || local >= pl.End {
			continue
		}
		out = append(out, Active{
			Index:     i,
			Placement: pl,
			Local:     effects.Clamp01((local - pl.Start) / (pl.End - pl.Start)),
			Elapsed:   local - pl.Start,
		})
	}
	return sc, out, nil
}

func (tl *Timeline) Scenes() []Scene { return tl.scenes }

func (tl *Timeline) Duration() float64 { return tl.duration }

// Narration joins the scenes' spoken lines in scene order, one paragraph each.
func (tl *Timeline) Narration() string {
	var parts []string
	for _, sc := range tl.scenes {
		if n := strings.TrimSpace(sc.Narration); n != "" {
			parts = append(parts, n)
		}
	}
	return strings.Join(parts, "\n\n")
}

// ImageSources lists the distinct external raster names used by image overlays.
func (tl *Timeline) ImageSources() []string {
	seen := map[string]bool{}
	var out []string
	for _, sc := range tl.scenes {
		for _, pl := range sc.Placements {
			if pl.Element != ElementOverlay || pl.Overlay.Kind != OverlayImage || seen[pl.Overlay.Source] {
				continue
			}
			seen[pl.Overlay.Source] = true
			out = append(out, pl.Overlay.Source)
		}
	}
	return out
}

// Cards lists every distinct card descriptor with its raster size, so callers
// can warm or audit the asset cache before rendering.
func (tl *Timeline) Cards() []Placement {
	seen := map[string]bool{}
	var out []Placement
	for _, sc := range tl.scenes {
		for _, pl := range sc.Placements {
			if pl.Element != ElementCard {
				continue
			}
			k := fmt.Sprintf("%s@%dx%d", pl.Card, pl.Width, pl.Height)
			if !seen[k] {
				seen[k] = true
				out = append(out, pl)
			}
		}
	}
	return out
}
