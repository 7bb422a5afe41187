package text

import (
	"fmt"

	"github.com/ivlev/uno2video/internal/effects"
)

// Block is a styled string as authored in a scene.
type Block struct {
	Content string           `yaml:"content"`
	Size    float64          `yaml:"size"`
	Color   string           `yaml:"color,omitempty"`
	Style   string           `yaml:"style,omitempty"`
	Effects []effects.Effect `yaml:"effects,omitempty"`
}

// Style is a named preset: a fill color and decorations drawn under it.
type Style struct {
	Fill        string
	Decorations []effects.Effect
}

var styles = map[string]Style{
	"white-outline": {
		Fill:        "#ffffff",
		Decorations: []effects.Effect{effects.Outline(3, "#000000"), effects.Shadow(4, 4, "#000000b4")},
	},
	"red-bold": {
		Fill:        "#ff3232",
		Decorations: []effects.Effect{effects.Outline(4, "#ffffff"), effects.Shadow(5, 5, "#000000b4")},
	},
	"yellow-impact": {
		Fill:        "#ffe632",
		Decorations: []effects.Effect{effects.Outline(5, "#000000"), effects.Shadow(6, 6, "#000000b4")},
	},
	"blue-clean": {
		Fill:        "#64b4ff",
		Decorations: []effects.Effect{effects.Outline(3, "#000000")},
	},
}

func StyleByName(name string) (Style, error) {
	s, ok := styles[name]
	if !ok {
		return Style{}, fmt.Errorf("unknown text style %q", name)
	}
	return s, nil
}

// Expand merges the block's style preset into its own color and effects.
// Explicit fields win over the preset; preset decorations come first.
func (b Block) Expand() (Block, error) {
	if b.Style == "" {
		return b, nil
	}
	s, err := StyleByName(b.Style)
	if err != nil {
		return b, err
	}
	if b.Color == "" {
		b.Color = s.Fill
	}
	list := make([]effects.Effect, 0, len(s.Decorations)+len(b.Effects))
	list = append(list, s.Decorations...)
	b.Effects = append(list, b.Effects...)
	b.Style = ""
	return b, nil
}

// Validate checks everything Draw would otherwise fail on mid-run.
func (b Block) Validate() error {
	if b.Size <= 0 {
		return fmt.Errorf("text %q: size must be positive", b.Content)
	}
	e, err := b.Expand()
	if err != nil {
		return err
	}
	if e.Color != "" {
		if _, err := effects.ParseColor(e.Color); err != nil {
			return fmt.Errorf("text %q: %w", b.Content, err)
		}
	}
	for _, eff := range e.Effects {
		if err := eff.Validate(); err != nil {
			return fmt.Errorf("text %q: %w", b.Content, err)
		}
	}
	return nil
}
