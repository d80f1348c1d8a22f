package deck

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// SlideKind selects a slide layout.
type SlideKind int

const (
	SlideStandard SlideKind = iota // title / big value / bottom line
	SlideCover                     // deck opener, title only
	SlideList                      // title plus ranked rows
	SlideGrid                      // summary tile grid
)

func ParseSlideKind(tag string) (SlideKind, bool) {
	switch tag {
	case "", "standard":
		return SlideStandard, true
	case "cover":
		return SlideCover, true
	case "list":
		return SlideList, true
	case "grid":
		return SlideGrid, true
	default:
		return SlideStandard, false
	}
}

// ValueKind selects how a slide's big value animates in.
type ValueKind int

const (
	ValueStatic ValueKind = iota
	ValueCountUp
	ValueReveal
	ValueCrypto
)

func ParseValueKind(tag string) (ValueKind, bool) {
	switch tag {
	case "", "static":
		return ValueStatic, true
	case "countup":
		return ValueCountUp, true
	case "reveal":
		return ValueReveal, true
	case "crypto":
		return ValueCrypto, true
	default:
		return ValueStatic, false
	}
}

// StyleSheet is the deck definition: ordered slide styles plus deck-wide
// fallback colors. It ships embedded in the binary and is parsed once at
// startup; a sheet that fails to parse or validate is fatal.
type StyleSheet struct {
	Deck   DeckStyle    `toml:"deck"`
	Slides []SlideStyle `toml:"slide"`
}

// DeckStyle holds colors used when a slide leaves its own unset.
type DeckStyle struct {
	Background string `toml:"background"`
	Foreground string `toml:"foreground"`
	Accent     string `toml:"accent"`
}

// SlideStyle is one slide template. Text fields may carry %{name} tokens
// that are substituted from a DataRecord when the deck is built.
type SlideStyle struct {
	ID         string      `toml:"id"`
	Kind       string      `toml:"kind"`
	Title      string      `toml:"title"`
	Big        string      `toml:"big"`
	Bottom     string      `toml:"bottom"`
	Background string      `toml:"background"`
	Foreground string      `toml:"foreground"`
	Accent     string      `toml:"accent"`
	Effect     string      `toml:"effect"`
	Glyphs     string      `toml:"glyphs"`
	Anim       string      `toml:"anim"`
	Start      string      `toml:"start"`   // countup: starting text override
	Step       string      `toml:"step"`    // countup: widens decimal precision
	Options    []string    `toml:"options"` // reveal: intermediate strings
	List       string      `toml:"list"`    // list: data key holding the rows
	When       string      `toml:"when"`    // skip the slide unless this field is non-empty
	Tiles      []TileStyle `toml:"tiles"`
}

// TileStyle is one cell of a grid slide.
type TileStyle struct {
	Title string `toml:"title"`
	Value string `toml:"value"`
}

// DataRecord is the flat payload a recap run produces: scalar fields keyed
// by name plus named row lists. It is all a style sheet needs to become a
// presentable deck.
type DataRecord struct {
	Fields map[string]string   `json:"fields"`
	Lists  map[string][]string `json:"lists"`
}

// Field returns the named scalar and whether it was present.
func (r *DataRecord) Field(name string) (string, bool) {
	if r == nil || r.Fields == nil {
		return "", false
	}
	v, ok := r.Fields[name]
	return v, ok
}

// List returns the named row list, nil when absent.
func (r *DataRecord) List(name string) []string {
	if r == nil || r.Lists == nil {
		return nil
	}
	return r.Lists[name]
}

// LoadStyles parses and validates a style sheet.
func LoadStyles(data []byte) (*StyleSheet, error) {
	var sheet StyleSheet
	if err := toml.Unmarshal(data, &sheet); err != nil {
		return nil, fmt.Errorf("parsing deck styles: %w", err)
	}
	if err := sheet.validate(); err != nil {
		return nil, err
	}
	return &sheet, nil
}

func checkColor(slide, field, value string) error {
	if value == "" {
		return nil
	}
	if _, err := ParseHex(value); err != nil {
		return fmt.Errorf("slide %q: %s: %w", slide, field, err)
	}
	return nil
}

func (s *StyleSheet) validate() error {
	if len(s.Slides) == 0 {
		return fmt.Errorf("deck styles define no slides")
	}
	for _, field := range []struct{ name, value string }{
		{"background", s.Deck.Background},
		{"foreground", s.Deck.Foreground},
		{"accent", s.Deck.Accent},
	} {
		if err := checkColor("deck", field.name, field.value); err != nil {
			return err
		}
	}

	seen := make(map[string]bool, len(s.Slides))
	for i, sl := range s.Slides {
		if sl.ID == "" {
			return fmt.Errorf("slide %d has no id", i)
		}
		if seen[sl.ID] {
			return fmt.Errorf("duplicate slide id %q", sl.ID)
		}
		seen[sl.ID] = true

		kind, ok := ParseSlideKind(sl.Kind)
		if !ok {
			return fmt.Errorf("slide %q: unknown kind %q", sl.ID, sl.Kind)
		}
		if _, ok := ParseOverlayEffect(sl.Effect); !ok {
			return fmt.Errorf("slide %q: unknown effect %q", sl.ID, sl.Effect)
		}
		if _, ok := ParseValueKind(sl.Anim); !ok {
			return fmt.Errorf("slide %q: unknown anim %q", sl.ID, sl.Anim)
		}
		for _, field := range []struct{ name, value string }{
			{"background", sl.Background},
			{"foreground", sl.Foreground},
			{"accent", sl.Accent},
		} {
			if err := checkColor(sl.ID, field.name, field.value); err != nil {
				return err
			}
		}
		if kind == SlideList && sl.List == "" {
			return fmt.Errorf("slide %q: list slide without a list key", sl.ID)
		}
		if kind == SlideGrid && len(sl.Tiles) == 0 {
			return fmt.Errorf("slide %q: grid slide without tiles", sl.ID)
		}
	}
	return nil
}
