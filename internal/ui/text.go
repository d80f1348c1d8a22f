package ui

import (
	"bytes"
	"image/color"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
)

var (
	fontSource *text.GoTextFaceSource
	boldSource *text.GoTextFaceSource
	fontFaces  map[float64]*text.GoTextFace
	boldFaces  map[float64]*text.GoTextFace
)

// InitFonts parses the regular and bold TTF data. Call once before any
// drawing; a nil bold falls back to the regular face.
func InitFonts(regular, bold []byte) error {
	src, err := text.NewGoTextFaceSource(bytes.NewReader(regular))
	if err != nil {
		return err
	}
	fontSource = src
	boldSource = src
	if bold != nil {
		bsrc, err := text.NewGoTextFaceSource(bytes.NewReader(bold))
		if err != nil {
			return err
		}
		boldSource = bsrc
	}
	fontFaces = make(map[float64]*text.GoTextFace)
	boldFaces = make(map[float64]*text.GoTextFace)
	return nil
}

func GetFace(size float64) *text.GoTextFace {
	if face, ok := fontFaces[size]; ok {
		return face
	}
	face := &text.GoTextFace{
		Source: fontSource,
		Size:   size,
	}
	fontFaces[size] = face
	return face
}

func GetBoldFace(size float64) *text.GoTextFace {
	if face, ok := boldFaces[size]; ok {
		return face
	}
	face := &text.GoTextFace{
		Source: boldSource,
		Size:   size,
	}
	boldFaces[size] = face
	return face
}

func DrawText(dst *ebiten.Image, txt string, x, y float64, size float64, clr color.Color) {
	drawFace(dst, txt, GetFace(size), x, y, clr)
}

func DrawBoldText(dst *ebiten.Image, txt string, x, y float64, size float64, clr color.Color) {
	drawFace(dst, txt, GetBoldFace(size), x, y, clr)
}

func drawFace(dst *ebiten.Image, txt string, face *text.GoTextFace, x, y float64, clr color.Color) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(clr)
	text.Draw(dst, txt, face, op)
}

func DrawTextCentered(dst *ebiten.Image, txt string, cx, cy float64, size float64, clr color.Color) {
	w, h := text.Measure(txt, GetFace(size), 0)
	DrawText(dst, txt, cx-w/2, cy-h/2, size, clr)
}

func DrawBoldTextCentered(dst *ebiten.Image, txt string, cx, cy float64, size float64, clr color.Color) {
	w, h := text.Measure(txt, GetBoldFace(size), 0)
	DrawBoldText(dst, txt, cx-w/2, cy-h/2, size, clr)
}

func MeasureText(txt string, size float64) (float64, float64) {
	return text.Measure(txt, GetFace(size), 0)
}

func MeasureBoldText(txt string, size float64) (float64, float64) {
	return text.Measure(txt, GetBoldFace(size), 0)
}

// WrapText greedily breaks txt into lines no wider than maxWidth at the given
// size. A single word wider than the limit gets its own line rather than
// being broken.
func WrapText(txt string, size, maxWidth float64) []string {
	words := strings.Fields(txt)
	if len(words) == 0 {
		return nil
	}
	face := GetFace(size)

	lines := []string{words[0]}
	for _, word := range words[1:] {
		test := lines[len(lines)-1] + " " + word
		w, _ := text.Measure(test, face, 0)
		if w > maxWidth {
			lines = append(lines, word)
		} else {
			lines[len(lines)-1] = test
		}
	}
	return lines
}

// DrawTextWrapped draws txt wrapped to maxWidth, left-aligned at (x, y).
// Returns the height used.
func DrawTextWrapped(dst *ebiten.Image, txt string, x, y, maxWidth float64, size float64, clr color.Color) float64 {
	lineHeight := size * 1.4
	cy := y
	for _, line := range WrapText(txt, size, maxWidth) {
		DrawText(dst, line, x, cy, size, clr)
		cy += lineHeight
	}
	return cy - y
}
