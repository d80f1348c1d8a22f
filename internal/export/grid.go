package export

import (
	"errors"
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"

	"github.com/bmadison/classwrap/internal/deck"
)

// DefaultTileSize is the edge of one grid cell in pixels.
const DefaultTileSize = 600

const gridGapFrac = 0.05

// brandCell is the grid position reserved for the title tile.
const brandCell = 4

// Grid renders the deck's highlights as a 3x3 composite: eight mini stat
// tiles around a center title tile, on a black frame. The first grid slide
// in the deck supplies the tiles and palette.
func Grid(slides []*deck.Slide, tileSize int) (*image.RGBA, error) {
	if tileSize <= 0 {
		tileSize = DefaultTileSize
	}
	var grid *deck.Slide
	for _, s := range slides {
		if s.Kind == deck.SlideGrid {
			grid = s
			break
		}
	}
	if grid == nil {
		return nil, errors.New("deck has no grid slide")
	}

	gap := frac(tileSize, gridGapFrac)
	side := tileSize*3 + gap*4
	canvas := image.NewRGBA(image.Rect(0, 0, side, side))
	fill(canvas, color.RGBA{A: 0xFF})

	next := 0
	for cell := 0; cell < 9; cell++ {
		var tile *image.RGBA
		var err error
		switch {
		case cell == brandCell:
			tile, err = brandTile(grid, tileSize)
		case next < len(grid.Tiles):
			tile, err = miniTile(grid, grid.Tiles[next], tileSize)
			next++
		default:
			tile = image.NewRGBA(image.Rect(0, 0, tileSize, tileSize))
			fill(tile, grid.Background)
		}
		if err != nil {
			return nil, err
		}

		x := gap + (cell%3)*(tileSize+gap)
		y := gap + (cell/3)*(tileSize+gap)
		rect := image.Rect(x, y, x+tileSize, y+tileSize)
		draw.Draw(canvas, rect, tile, image.Point{}, draw.Src)
	}
	return canvas, nil
}

// miniTile is a shrunken stat card: tile title as the header, tile value as
// the big accent text.
func miniTile(grid *deck.Slide, t deck.Tile, size int) (*image.RGBA, error) {
	regular, bold, err := fonts()
	if err != nil {
		return nil, err
	}
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	fill(img, grid.Background)

	left := frac(size, marginFrac)
	maxWidth := frac(size, textWidthFrac)
	y := frac(size, topFrac)

	headerFace, err := newFace(regular, float64(size)*headerFrac)
	if err != nil {
		return nil, err
	}
	for _, line := range wrapEllipsis(headerFace, t.Title, maxWidth, 2) {
		drawText(img, headerFace, grid.Foreground, left, y, line)
		y += lineHeight(headerFace) + frac(size, 0.02)
	}

	y = frac(size, topFrac) + frac(size, headerGapFrac)
	if t.Value != "" {
		valueFace, err := fitFace(bold, t.Value, maxWidth, float64(size)*bigFrac, float64(size)*bigMinFrac)
		if err != nil {
			return nil, err
		}
		drawText(img, valueFace, grid.Accent, left, y, t.Value)
	}
	return img, nil
}

// brandTile fills the center cell with the grid slide's title.
func brandTile(grid *deck.Slide, size int) (*image.RGBA, error) {
	_, bold, err := fonts()
	if err != nil {
		return nil, err
	}
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	fill(img, grid.Accent)

	face, err := fitFace(bold, grid.Title, frac(size, textWidthFrac), float64(size)*0.12, float64(size)*0.05)
	if err != nil {
		return nil, err
	}
	// Center the title on both axes.
	w := font.MeasureString(face, grid.Title).Ceil()
	x := (size - w) / 2
	y := (size - lineHeight(face)) / 2
	drawText(img, face, grid.Background, x, y, grid.Title)
	return img, nil
}
