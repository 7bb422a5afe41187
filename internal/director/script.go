package director

import (
	"math"

	"github.com/ivlev/uno2video/internal/assets"
	"github.com/ivlev/uno2video/internal/config"
	fx "github.com/ivlev/uno2video/internal/effects"
	"github.com/ivlev/uno2video/internal/text"
)

const ScenarioVersion = "1"

// Builtin returns the compiled-in seven-scene UNO No Mercy explainer.
// Each call builds a fresh value, so callers may mutate it freely.
func Builtin() *Scenario {
	return &Scenario{
		Version: ScenarioVersion,
		Title:   "UNO No Mercy in 75 seconds",
		Scenes: []Scene{
			hookScene(),
			basicsScene(),
			drawCardsScene(),
			plotTwistScene(),
			chaosScene(),
			goldenRuleScene(),
			outroScene(),
		},
	}
}

func hookScene() Scene {
	return Scene{
		ID: "hook", Start: 0, End: 3,
		Background: Background{Kind: BackgroundGradient, From: "#1e0a14", To: "#050208", Intensity: 0.6},
		Narration:  "So you think you know UNO? Nah. Let me tell you about NO MERCY.",
		Placements: []Placement{
			overlay(0, 3, Overlay{Kind: OverlaySparkles, Count: 15, Seed: 42, Color: "#ffdc78"}),
			character(0, 0.9, assets.Neutral, 0.5, 0.82, 750),
			character(0.9, 1.8, assets.Serious, 0.5, 0.82, 750),
			character(1.8, 3, assets.Shocked, 0.5, 0.82, 750).
				moving("ease-out", kf(0, 0.5, 0.82, 1, 1), kf(1, 0.5, 0.78, 1.25, 1)),
			overlay(1.2, 2.1, Overlay{Kind: OverlayEnergyWave, Color: "#ff6432", Intensity: 1}).at(0.5, 0.22),
			caption(1.2, 3, "UNO NO MERCY", "red-bold", 120, 0.5, 0.22,
				fx.Glow(12, "#ff6432"), fx.PopIn(1.2).Within(0, 0.5), fx.Shake(10, 6).Within(0.33, 0.67)),
			overlay(1.14, 1.35, Overlay{Kind: OverlayFlash, Intensity: 0.7}),
			overlay(0, 0.45, Overlay{Kind: OverlayFadeBlack}),
		},
	}
}

func basicsScene() Scene {
	const d = 12.0
	facts := []string{"168 CARDS", "6 PLAYERS MAX", "25 CARDS = ELIMINATED"}
	s := Scene{
		ID: "basics", Start: 3, End: 15,
		Background: Background{Kind: BackgroundVignette, From: "#191423", Intensity: 0.5},
		Narration: "168 cards. SIX players max. And if you get 25 cards in your hand? You're DEAD. " +
			"Eliminated. Gone. That's the Mercy Rule and there IS no mercy.",
		Placements: []Placement{
			character(0, 4, assets.Neutral, 0.5, 0.84, 600),
			character(4, 8, assets.Serious, 0.5, 0.84, 600),
			character(8, d, assets.Mischievous, 0.5, 0.84, 600),
			overlay(1.2, d, Overlay{Kind: OverlayCardRain, Count: 15, Seed: 7, Intensity: 0.8}),
		},
	}
	for i, f := range facts {
		start := d * (0.1 + 0.25*float64(i))
		s.Placements = append(s.Placements,
			caption(start, d, f, "yellow-impact", 80, 0.5, 0.15+0.1*float64(i),
				fx.PopIn(0.8).Within(0, 1.8/(d-start))))
	}
	s.Placements = append(s.Placements,
		caption(9, d, "X_X", "white-outline", 100, 0.5, 0.47, fx.PopIn(1.5).Within(0, 0.4)),
		overlay(9, d, Overlay{Kind: OverlayLowerThird, Caption: "MERCY RULE: 25 CARDS AND YOU'RE OUT"}).
			at(0.5, 0.62).with(fx.FadeIn(0.15)),
	)
	return s
}

func drawCardsScene() Scene {
	type pitch struct {
		card       assets.Card
		start, end float64
		scale      float64
		label      string
	}
	pitches := []pitch{
		{assets.Card{Color: assets.Red, Face: assets.DrawTwo}, 0, 3, 0.8, "+2"},
		{assets.Card{Color: assets.Blue, Face: assets.DrawFour}, 3, 6, 1.0, "+4"},
		{assets.Card{Color: assets.Wild, Face: assets.DrawTen}, 6, 10.5, 1.4, "+10"},
	}
	s := Scene{
		ID: "draw-cards", Start: 15, End: 30,
		Background: Background{Kind: BackgroundUnoTheme},
		Narration: "Plus 2? That's cute. Plus 4? Getting warmer. PLUS 10. And guess what? You can STACK them. " +
			"Someone hits you with a plus 4? Throw down a plus 6. Now THEY draw 10. Unless they stack higher. " +
			"It keeps going until someone CAN'T match it and draws EVERYTHING.",
		Placements: []Placement{
			character(0, 3, assets.Neutral, 0.72, 0.84, 500),
			character(3, 6, assets.Serious, 0.72, 0.84, 500),
			character(6, 10, assets.Shocked, 0.72, 0.84, 500),
			character(10, 15, assets.Mischievous, 0.72, 0.84, 500),
		},
	}
	for _, p := range pitches {
		w, h := int(150*p.scale), int(220*p.scale)
		s.Placements = append(s.Placements,
			card(p.start, p.end, p.card, 0.3, 0.42, w, h).
				moving("ease-out", kf(0, -0.2, 0.42, 1, 1), kf(0.4, 0.3, 0.42, 1, 1)),
			caption(p.start, p.end, p.label, "yellow-impact", 100*p.scale, 0.5, 0.17,
				fx.PopIn(1).Within(0, 0.25)),
		)
	}
	s.Placements = append(s.Placements,
		card(10.5, 15, assets.Card{Color: assets.Red, Face: assets.DrawFour}, 0.49, 0.44, 100, 150),
		card(10.5, 15, assets.Card{Color: assets.Wild, Face: assets.DrawSix}, 0.51, 0.45, 100, 150).
			with(fx.PopIn(1).Within(0, 0.2)),
		caption(10.5, 12.75, "4 + 6 = 10", "white-outline", 90, 0.5, 0.2, fx.FadeIn(0.2)),
		caption(12.75, 15, "THEY DRAW EVERYTHING!", "red-bold", 70, 0.5, 0.2, fx.Shake(5, 12)),
	)
	return s
}

func plotTwistScene() Scene {
	wilds := []struct {
		face  assets.Face
		label string
	}{
		{assets.DrawSix, "Draw 6"},
		{assets.DrawTen, "Draw 10"},
		{assets.ReverseFour, "Rev +4"},
		{assets.ColorRoulette, "Roulette"},
	}
	s := Scene{
		ID: "plot-twist", Start: 30, End: 45,
		Background: Background{Kind: BackgroundSpotlight, X: 0.5, Y: 0.4, Sway: 0.15, Intensity: 0.9},
		Narration: "But here's what NO ONE tells you. That plus 4? It's NOT a wild card anymore. It has a COLOR. " +
			"Red plus 4 only plays on RED. The wilds are Draw 6, Draw 10, Reverse Draw 4, and Color Roulette. " +
			"THOSE play anytime.",
		Placements: []Placement{
			overlay(0, 15, Overlay{Kind: OverlaySparkles, Count: 10, Seed: 123, Color: "#fff0c8"}),
			character(0, 4, assets.Serious, 0.5, 0.84, 650),
			character(4, 8, assets.Whispering, 0.5, 0.84, 650),
			character(8, 15, assets.MindBlown, 0.5, 0.84, 650),
			caption(0, 4.5, "PLOT TWIST", "red-bold", 100, 0.5, 0.15,
				fx.PopIn(1.5).Within(0, 0.35), fx.Shake(4, 9).Within(0.35, 0.65)),
			card(3.75, 8.25, assets.Card{Color: assets.Red, Face: assets.DrawFour}, 0.28, 0.42, 180, 270).
				moving("ease-out", kf(0, 0.28, 1.1, 1, 1), kf(0.5, 0.28, 0.42, 1, 1)),
			caption(6, 8.25, "HAS A COLOR!", "yellow-impact", 60, 0.68, 0.43, fx.FadeIn(0.2)),
			caption(8.25, 15, "THE REAL WILDS:", "white-outline", 50, 0.5, 0.12, fx.FadeIn(0.1)),
		},
	}
	for i, w := range wilds {
		start := 8.25 + float64(i)*1.0
		x := 0.2 * float64(i+1)
		s.Placements = append(s.Placements,
			card(start, 15, assets.Card{Color: assets.Wild, Face: w.face}, x, 0.34, 180, 270).
				with(fx.PopIn(1).Within(0, 0.6/(15-start))),
			caption(start, 15, w.label, "blue-clean", 34, x, 0.43, fx.FadeIn(0.6/(15-start))),
		)
	}
	return s
}

func chaosScene() Scene {
	rules := []struct {
		card       assets.Card
		start, end float64
		text       string
	}{
		{assets.Card{Color: assets.Blue, Face: assets.Number(7)}, 0, 2.25, "SWAP HANDS!"},
		{assets.Card{Color: assets.Green, Face: assets.Number(0)}, 2.25, 4.5, "PASS ALL HANDS!"},
		{assets.Card{Color: assets.Red, Face: assets.SkipEveryone}, 4.5, 7.5, "SKIP EVERYONE!"},
		{assets.Card{Color: assets.Yellow, Face: assets.DiscardAll}, 7.5, 10.5, "DISCARD ALL!"},
		{assets.Card{Color: assets.Wild, Face: assets.ColorRoulette}, 10.5, 15, "COLOR ROULETTE!"},
	}
	s := Scene{
		ID: "chaos", Start: 45, End: 60,
		Background: Background{Kind: BackgroundChaos, Seed: 42},
		Narration: "Oh you thought we were done? Play a 7, you SWAP your entire hand with someone. " +
			"Play a 0, EVERYONE passes their hand to the next person. Skip Everyone? You skip THE WHOLE TABLE " +
			"and go again. Discard All? Dump every card of that color at once. Color Roulette? They flip cards " +
			"until they hit the color they call. Could be 2 cards. Could be 15.",
		Placements: []Placement{
			overlay(0, 15, Overlay{Kind: OverlaySparkles, Count: 40, Seed: 99, Color: "#ffffff"}),
		},
	}
	for _, at := range []float64{0, 5, 10} {
		s.Placements = append(s.Placements,
			overlay(at, at+1.5, Overlay{Kind: OverlayEnergyWave, Color: "#ff6464", Intensity: 0.5}).at(0.5, 0.4))
	}
	s.Placements = append(s.Placements,
		character(0, 3, assets.Mischievous, 0.26, 0.86, 450).with(fx.Shake(4, 60)),
		character(3, 8, assets.Shocked, 0.26, 0.86, 450).with(fx.Shake(6, 90)),
		character(8, 15, assets.MindBlown, 0.26, 0.86, 450).with(fx.Shake(9, 120)),
	)
	for _, r := range rules {
		d := r.end - r.start
		s.Placements = append(s.Placements,
			card(r.start, r.end, r.card, 0.5, 0.36, 150, 220).
				moving("ease-out", kf(0, 1.15, 0.36, 1, 1), kf(0.5, 0.5, 0.36, 1, 1)).
				with(fx.Shake(5, 8*d)),
			caption(r.start+0.2*d, r.end, r.text, "yellow-impact", 70, 0.5, 0.15,
				fx.PopIn(1).Within(0, 0.375)),
		)
	}
	return s
}

func goldenRuleScene() Scene {
	colors := []assets.CardColor{assets.Red, assets.Blue, assets.Green, assets.Yellow}
	s := Scene{
		ID: "golden-rule", Start: 60, End: 70,
		Background: Background{Kind: BackgroundSpotlight, X: 0.5, Y: 0.3, Intensity: 0.6},
		Narration: "And if you can't play? You don't just draw one card like a NORMAL person. " +
			"You draw until you CAN play. No stopping. No passing. Just pain.",
		Placements: []Placement{
			character(0, 10, assets.Serious, 0.5, 0.83, 700),
			caption(0, 10, "DRAW UNTIL", "red-bold", 80, 0.5, 0.13, fx.FadeIn(0.05)),
			caption(0, 10, "YOU CAN PLAY", "red-bold", 80, 0.5, 0.21, fx.FadeIn(0.05)),
			counter(0, 10, 25, "yellow-impact", 150, 0.5, 0.36),
		},
	}
	for i := 0; i < 20; i++ {
		start := 2 + float64(i)*0.4
		x := 0.5 + math.Sin(float64(i)*17)*100/config.Width
		y := 0.55 + float64(i)*3/config.Height
		c := assets.Card{Color: colors[i%4], Face: assets.Number(i % 10)}
		s.Placements = append(s.Placements,
			card(start, 10, c, x, y, 90, 135).with(fx.PopIn(0.6).Within(0, 0.3/(10-start))))
	}
	s.Placements = append(s.Placements,
		caption(8, 10, "Just pain.", "white-outline", 60, 0.5, 0.9, fx.FadeIn(0.5)))
	return s
}

func outroScene() Scene {
	statements := []string{"Ended friendships.", "Ruined holidays.", "Created villains."}
	s := Scene{
		ID: "outro", Start: 70, End: 75,
		Background: Background{Kind: BackgroundGradient, From: "#1e0a14", To: "#050208", Intensity: 0.4},
		Narration:  "This game has ended friendships. Ruined holidays. Created villains. Anyway, who wants to play?",
		Placements: []Placement{
			overlay(0, 5, Overlay{Kind: OverlaySparkles, Count: 12, Seed: 666, Color: "#ff8c64"}),
			character(0, 2.5, assets.Serious, 0.5, 0.8, 750).
				moving("ease-in-out", kf(0, 0.5, 0.8, 1, 1), kf(1, 0.5, 0.84, 0.75, 1)),
			character(2.5, 5, assets.Mischievous, 0.5, 0.86, 450).
				moving("ease-in-out", kf(0, 0.5, 0.86, 1, 1), kf(1, 0.7, 0.82, 1.3, 1)),
		},
	}
	for i, line := range statements {
		start := 0.75 * float64(i)
		s.Placements = append(s.Placements,
			caption(start, start+0.75, line, "red-bold", 70, 0.5, 0.32, fx.FadeIn(0.3), fx.FadeOut(0.3)))
	}
	smirk := textBlock(">:)", "", 140, fx.Outline(4, "#000000"), fx.Shadow(5, 5, "#000000b4"), fx.Glow(18, "#ff5032"))
	smirk.Color = "#dc3232"
	s.Placements = append(s.Placements,
		caption(3, 5, "who wants to play?", "yellow-impact", 80, 0.5, 0.25,
			fx.Glow(14, "#ffc832"), fx.PopIn(0.8).Within(0, 0.4)),
		Placement{Element: ElementText, Start: 3.5, End: 5, X: 0.5, Y: 0.4, Text: smirk,
			Effects: []fx.Effect{fx.PopIn(1.2).Within(0, 0.4)}},
		overlay(3, 5, Overlay{Kind: OverlayQRCode, Source: "UNO No Mercy house rules: draw until you can play. 25 cards and you're out."}).
			at(0.2, 0.12).sized(180, 180).with(fx.FadeIn(0.3)),
		overlay(4.5, 5, Overlay{Kind: OverlayFadeBlack, Out: true}),
	)
	return s
}

func character(start, end float64, e assets.Expression, x, y float64, width int) Placement {
	return Placement{Element: ElementCharacter, Start: start, End: end, X: x, Y: y, Width: width, Character: e}
}

func card(start, end float64, c assets.Card, x, y float64, w, h int) Placement {
	return Placement{Element: ElementCard, Start: start, End: end, X: x, Y: y, Width: w, Height: h, Card: &c}
}

func textBlock(content, style string, size float64, effects ...fx.Effect) *text.Block {
	return &text.Block{Content: content, Style: style, Size: size, Effects: effects}
}

// caption places a styled text block; its effects run on the block's own progress.
func caption(start, end float64, content, style string, size, x, y float64, effects ...fx.Effect) Placement {
	return Placement{Element: ElementText, Start: start, End: end, X: x, Y: y,
		Text: textBlock(content, style, size, effects...)}
}

func counter(start, end float64, to int, style string, size, x, y float64) Placement {
	p := caption(start, end, "0", style, size, x, y)
	p.Counter = to
	return p
}

// overlay defaults to the canvas center, which full-frame overlays ignore.
func overlay(start, end float64, o Overlay) Placement {
	return Placement{Element: ElementOverlay, Start: start, End: end, X: 0.5, Y: 0.5, Overlay: &o}
}

func kf(at, x, y, scale, alpha float64) Keyframe {
	return Keyframe{At: at, X: x, Y: y, Scale: scale, Alpha: alpha}
}

func (p Placement) with(effects ...fx.Effect) Placement {
	p.Effects = append(append([]fx.Effect(nil), p.Effects...), effects...)
	return p
}

func (p Placement) moving(easing string, frames ...Keyframe) Placement {
	p.Easing = easing
	p.Motion = frames
	return p
}

func (p Placement) at(x, y float64) Placement {
	p.X, p.Y = x, y
	return p
}

func (p Placement) sized(w, h int) Placement {
	p.Width, p.Height = w, h
	return p
}
