package ui

import "image/color"

// UI chrome follows the default deck palette. Slides bring their own colors;
// these cover everything drawn around them.
var (
	ColorBackground    = color.RGBA{R: 0x0F, G: 0x17, B: 0x2A, A: 0xFF}
	ColorSurface       = color.RGBA{R: 0x1E, G: 0x29, B: 0x3B, A: 0xFF}
	ColorPrimary       = color.RGBA{R: 0x22, G: 0xD3, B: 0xEE, A: 0xFF} // deck accent cyan
	ColorAccent        = color.RGBA{R: 0x0E, G: 0xA5, B: 0xE9, A: 0xFF}
	ColorText          = color.RGBA{R: 0xE2, G: 0xE8, B: 0xF0, A: 0xFF}
	ColorTextSecondary = color.RGBA{R: 0x94, G: 0xA3, B: 0xB8, A: 0xFF}
	ColorTextMuted     = color.RGBA{R: 0x64, G: 0x74, B: 0x8B, A: 0xFF}
	ColorOverlay       = color.RGBA{R: 0x00, G: 0x00, B: 0x00, A: 0xC0}
	ColorError         = color.RGBA{R: 0xEF, G: 0x44, B: 0x44, A: 0xFF}
	ColorSuccess       = color.RGBA{R: 0x34, G: 0xD3, B: 0x99, A: 0xFF}
)

// Layout constants
const (
	ScreenWidth  = 1920
	ScreenHeight = 1080

	FontSizeTitle   = 28
	FontSizeHeading = 22
	FontSizeBody    = 16
	FontSizeSmall   = 13
	FontSizeCaption = 11

	// Standard slide column: title over the big value over the bottom line,
	// all centered, text kept inside 84% of the viewport.
	SlideTextWidth    = 1610
	SlideTitleY       = 290
	SlideValueY       = 540
	SlideBottomY      = 780
	SlideTitleSize    = 56
	SlideValueSize    = 190
	SlideValueMinSize = 48
	SlideBottomSize   = 34

	// Cover slide: deck title, student name, pulsing scroll hint.
	CoverTitleY    = 420
	CoverTitleSize = 104
	CoverNameY     = 600
	CoverNameSize  = 56
	CoverHintY     = 960
	CoverHintSize  = 26

	// List slide rows.
	ListTitleY       = 200
	ListStartY       = 380
	ListRowPitch     = 118
	ListRowTitleSize = 44
	ListRowSubSize   = 26
	ListSubOffset    = 46
	ListBottomY      = 990
	ListMaxRows      = 5

	// Grid slide tiles.
	GridTitleY    = 140
	GridTopY      = 240
	TileTitleSize = 22
	TileValueSize = 44

	// Slide position dots along the bottom edge.
	DotGap          = 36
	DotRadius       = 6
	DotMarginBottom = 44
	DotAnimSpeed    = 0.15

	// Cover hint pulse, radians per tick.
	HintPulseSpeed = 0.045

	// Base face size for overlay glyphs; per-particle scale is applied on
	// the GeoM, not the face, so the glyph cache stays small.
	OverlayGlyphSize = 30
)
