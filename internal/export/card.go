// Package export renders finished recaps as shareable PNG images: one
// square card per slide and a 3x3 composite for the highlights grid.
package export

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"strings"
	"sync"
	"unicode/utf8"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/bmadison/classwrap/internal/deck"
)

// DefaultCardSize is the square card edge in pixels.
const DefaultCardSize = 1080

// Layout fractions of the card edge.
const (
	marginFrac     = 0.08
	topFrac        = 0.10
	textWidthFrac  = 0.84
	headerFrac     = 0.055
	smallFrac      = 0.042
	bigFrac        = 0.28
	bigMinFrac     = 0.10
	headerGapFrac  = 0.15
	valueGapFrac   = 0.30
	listNameFrac   = 0.05
	listDetailFrac = 0.038
	listRowGapFrac = 0.04
	listRows       = 3
)

var fontCache struct {
	once    sync.Once
	regular *opentype.Font
	bold    *opentype.Font
	err     error
}

func fonts() (regular, bold *opentype.Font, err error) {
	fontCache.once.Do(func() {
		fontCache.regular, fontCache.err = opentype.Parse(goregular.TTF)
		if fontCache.err != nil {
			return
		}
		fontCache.bold, fontCache.err = opentype.Parse(gobold.TTF)
	})
	if fontCache.err != nil {
		return nil, nil, fmt.Errorf("parsing embedded fonts: %w", fontCache.err)
	}
	return fontCache.regular, fontCache.bold, nil
}

func newFace(f *opentype.Font, px float64) (font.Face, error) {
	return opentype.NewFace(f, &opentype.FaceOptions{
		Size:    px,
		DPI:     72,
		Hinting: font.HintingFull,
	})
}

// fitFace scales the face down from maxPx until s fits width.
func fitFace(f *opentype.Font, s string, width int, maxPx, minPx float64) (font.Face, error) {
	for px := maxPx; px > minPx; px *= 0.92 {
		face, err := newFace(f, px)
		if err != nil {
			return nil, err
		}
		if font.MeasureString(face, s).Ceil() <= width {
			return face, nil
		}
	}
	return newFace(f, minPx)
}

func fill(dst *image.RGBA, c color.Color) {
	draw.Draw(dst, dst.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
}

// drawText draws one line with (x, y) as the top-left of the text box.
func drawText(dst *image.RGBA, face font.Face, c color.Color, x, y int, s string) {
	d := font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.P(x, y+face.Metrics().Ascent.Ceil()),
	}
	d.DrawString(s)
}

func lineHeight(face font.Face) int {
	return face.Metrics().Height.Ceil()
}

// Card renders one slide as a square share image: header, big accent value,
// bottom line. List slides get the ranked-rows layout instead.
func Card(s *deck.Slide, size int) (*image.RGBA, error) {
	if size <= 0 {
		size = DefaultCardSize
	}
	regular, bold, err := fonts()
	if err != nil {
		return nil, err
	}

	img := image.NewRGBA(image.Rect(0, 0, size, size))
	fill(img, s.Background)

	if s.Kind == deck.SlideList {
		if err := drawListCard(img, s, regular, bold, size); err != nil {
			return nil, err
		}
		return img, nil
	}

	left := frac(size, marginFrac)
	maxWidth := frac(size, textWidthFrac)
	y := frac(size, topFrac)

	headerFace, err := newFace(regular, float64(size)*headerFrac)
	if err != nil {
		return nil, err
	}
	smallFace, err := newFace(regular, float64(size)*smallFrac)
	if err != nil {
		return nil, err
	}

	for _, line := range wrapEllipsis(headerFace, s.Title, maxWidth, 2) {
		drawText(img, headerFace, s.Foreground, left, y, line)
		y += lineHeight(headerFace) + frac(size, 0.02)
	}
	y = frac(size, topFrac) + frac(size, headerGapFrac)

	if s.Big != "" {
		bigFace, err := fitFace(bold, s.Big, maxWidth, float64(size)*bigFrac, float64(size)*bigMinFrac)
		if err != nil {
			return nil, err
		}
		drawText(img, bigFace, s.Accent, left, y, s.Big)
	}
	y += frac(size, valueGapFrac)

	for _, line := range wrapEllipsis(smallFace, s.Bottom, maxWidth, 3) {
		drawText(img, smallFace, s.Foreground, left, y, line)
		y += lineHeight(smallFace) + frac(size, 0.01)
	}
	return img, nil
}

// drawListCard draws the top ranked rows: accent name line, plain detail line.
func drawListCard(img *image.RGBA, s *deck.Slide, regular, bold *opentype.Font, size int) error {
	left := frac(size, marginFrac)
	maxWidth := frac(size, textWidthFrac)
	y := frac(size, topFrac)

	titleFace, err := newFace(bold, float64(size)*headerFrac)
	if err != nil {
		return err
	}
	nameFace, err := newFace(bold, float64(size)*listNameFrac)
	if err != nil {
		return err
	}
	detailFace, err := newFace(regular, float64(size)*listDetailFrac)
	if err != nil {
		return err
	}

	drawText(img, titleFace, s.Foreground, left, y, s.Title)
	y += frac(size, 0.12)

	rows := s.Rows
	if len(rows) > listRows {
		rows = rows[:listRows]
	}
	for _, row := range rows {
		for _, line := range wrapEllipsis(nameFace, row.Title, maxWidth, 2) {
			drawText(img, nameFace, s.Accent, left, y, line)
			y += lineHeight(nameFace) + frac(size, 0.008)
		}
		for _, line := range wrapEllipsis(detailFace, row.Subtitle, maxWidth, 2) {
			drawText(img, detailFace, s.Foreground, left, y, line)
			y += lineHeight(detailFace) + frac(size, 0.004)
		}
		y += frac(size, listRowGapFrac)
	}
	return nil
}

func frac(size int, f float64) int {
	return int(float64(size) * f)
}

// wrapEllipsis wraps text into at most maxLines lines no wider than maxWidth
// pixels. Overflow ellipsizes the last line; a single word too wide for a
// line is hard-truncated.
func wrapEllipsis(face font.Face, text string, maxWidth, maxLines int) []string {
	if text == "" || maxLines <= 0 {
		return nil
	}
	fits := func(s string) bool {
		return font.MeasureString(face, s).Ceil() <= maxWidth
	}

	words := strings.Fields(text)
	var lines []string
	idx := 0

	for idx < len(words) && len(lines) < maxLines-1 {
		line := ""
		for idx < len(words) {
			candidate := join(line, words[idx])
			if !fits(candidate) {
				break
			}
			line = candidate
			idx++
		}
		if line == "" {
			lines = append(lines, truncateWord(face, words[idx], maxWidth))
			idx++
			continue
		}
		lines = append(lines, line)
	}

	if idx < len(words) {
		line := ""
		for idx < len(words) {
			candidate := join(line, words[idx])
			if !fits(candidate) {
				break
			}
			line = candidate
			idx++
		}
		if idx < len(words) {
			for line != "" && !fits(line+"...") {
				line = trimLastRune(line)
			}
			if line == "" {
				line = "..."
			} else {
				line += "..."
			}
		}
		lines = append(lines, line)
	}
	return lines
}

func join(line, word string) string {
	if line == "" {
		return word
	}
	return line + " " + word
}

func truncateWord(face font.Face, word string, maxWidth int) string {
	for word != "" && font.MeasureString(face, word+"...").Ceil() > maxWidth {
		word = trimLastRune(word)
	}
	if word == "" {
		return "..."
	}
	return word + "..."
}

func trimLastRune(s string) string {
	_, n := utf8.DecodeLastRuneInString(s)
	return s[:len(s)-n]
}
