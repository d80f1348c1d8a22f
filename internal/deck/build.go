package deck

import (
	"image/color"
	"regexp"
	"strings"
)

// Colors used when neither the slide nor the deck defines one.
var (
	DefaultBackground = color.RGBA{R: 0x0F, G: 0x17, B: 0x2A, A: 0xFF}
	DefaultForeground = color.RGBA{R: 0xE2, G: 0xE8, B: 0xF0, A: 0xFF}
	DefaultAccent     = color.RGBA{R: 0x22, G: 0xD3, B: 0xEE, A: 0xFF}
)

// cryptoAlphabet supplies the decoy glyphs for crypto reveals.
const cryptoAlphabet = `!<>-_\/[]{}=+*^?#`

// Tile is one resolved cell of a grid slide.
type Tile struct {
	Title string
	Value string
}

// Slide is one fully resolved slide: style merged with recap data, colors
// parsed, and the value animation constructed. Slides are built once per
// record and restarted in place as the viewer scrolls.
type Slide struct {
	ID         string
	Kind       SlideKind
	Title      string
	Big        string // final value text, what the animation settles on
	Bottom     string
	Background color.RGBA
	Foreground color.RGBA
	Accent     color.RGBA
	Effect     OverlayEffect
	Glyphs     string
	Value      ValueAnim
	Rows       []CryptoLine // list slides
	Tiles      []Tile       // grid slides
}

var tokenPattern = regexp.MustCompile(`%\{([A-Za-z0-9_]+)\}`)

// Substitute resolves %{name} tokens against the record's scalar fields.
// Unknown tokens stay verbatim so a broken deck is visibly broken rather
// than silently blank.
func Substitute(tmpl string, rec *DataRecord) string {
	if !strings.Contains(tmpl, "%{") {
		return tmpl
	}
	return tokenPattern.ReplaceAllStringFunc(tmpl, func(m string) string {
		if v, ok := rec.Field(m[2 : len(m)-1]); ok {
			return v
		}
		return m
	})
}

func colorOr(hex string, fallback color.RGBA) color.RGBA {
	if hex == "" {
		return fallback
	}
	c, err := ParseHex(hex)
	if err != nil {
		return fallback
	}
	return c
}

// splitRow splits a tab-separated list row into its title and subtitle.
// Rows without a tab are all title.
func splitRow(row string) CryptoLine {
	if i := strings.IndexByte(row, '\t'); i >= 0 {
		return CryptoLine{Title: row[:i], Subtitle: row[i+1:]}
	}
	return CryptoLine{Title: row}
}

// Build merges a validated style sheet with a recap record into the ordered
// runtime deck. Slides gated by a `when` field are dropped when that field is
// empty or absent; everything else always appears, fallbacks and all. In
// embed mode the cover loses its scroll hint; the hosting page brings its
// own affordance.
func Build(sheet *StyleSheet, rec *DataRecord, embed bool) []*Slide {
	deckBG := colorOr(sheet.Deck.Background, DefaultBackground)
	deckFG := colorOr(sheet.Deck.Foreground, DefaultForeground)
	deckAccent := colorOr(sheet.Deck.Accent, DefaultAccent)

	slides := make([]*Slide, 0, len(sheet.Slides))
	for _, st := range sheet.Slides {
		if st.When != "" {
			if v, _ := rec.Field(st.When); v == "" {
				continue
			}
		}
		kind, _ := ParseSlideKind(st.Kind)
		effect, _ := ParseOverlayEffect(st.Effect)
		big := Substitute(st.Big, rec)

		bottom := Substitute(st.Bottom, rec)
		if kind == SlideCover && embed {
			bottom = ""
		}

		s := &Slide{
			ID:         st.ID,
			Kind:       kind,
			Title:      Substitute(st.Title, rec),
			Big:        big,
			Bottom:     bottom,
			Background: colorOr(st.Background, deckBG),
			Foreground: colorOr(st.Foreground, deckFG),
			Accent:     colorOr(st.Accent, deckAccent),
			Effect:     effect,
			Glyphs:     st.Glyphs,
		}

		anim, _ := ParseValueKind(st.Anim)

		switch kind {
		case SlideList:
			for _, row := range rec.List(st.List) {
				s.Rows = append(s.Rows, splitRow(row))
			}
			s.Value = NewCryptoReveal(s.Rows, cryptoAlphabet)
		case SlideGrid:
			for _, t := range st.Tiles {
				s.Tiles = append(s.Tiles, Tile{
					Title: Substitute(t.Title, rec),
					Value: Substitute(t.Value, rec),
				})
			}
			s.Value = NewStaticValue("")
		default:
			switch anim {
			case ValueCountUp:
				s.Value = NewCountUp(Substitute(st.Start, rec), big, Substitute(st.Step, rec))
			case ValueReveal:
				s.Value = NewTextReveal(st.Options, big, 0)
			case ValueCrypto:
				s.Value = NewCryptoReveal([]CryptoLine{{Title: big}}, cryptoAlphabet)
			default:
				s.Value = NewStaticValue(big)
			}
		}
		slides = append(slides, s)
	}
	return slides
}
