package ui

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

var (
	debugOverlayVisible bool
	debugSource         func() []string
)

// ToggleDebugOverlay flips the overlay; the caller decides which key binds it.
func ToggleDebugOverlay() {
	debugOverlayVisible = !debugOverlayVisible
}

// SetDebugSource registers the provider for screen-specific debug lines.
// Screens set it on enter and clear it on exit.
func SetDebugSource(fn func() []string) {
	debugSource = fn
}

// DrawDebugOverlay draws the debug overlay if visible.
func DrawDebugOverlay(screen *ebiten.Image) {
	if !debugOverlayVisible {
		return
	}

	const (
		padX    = 16.0
		padY    = 12.0
		lineH   = 18.0
		marginR = 20.0
		marginT = 20.0
	)

	// Collect data
	stateLines := []string{
		fmt.Sprintf("fps %.0f  tps %.0f", ebiten.ActualFPS(), ebiten.ActualTPS()),
	}
	if debugSource != nil {
		stateLines = append(stateLines, debugSource()...)
	}
	var pressedKeys []ebiten.Key
	for k := ebiten.Key(0); k <= ebiten.KeyMax; k++ {
		if ebiten.IsKeyPressed(k) {
			pressedKeys = append(pressedKeys, k)
		}
	}

	// Calculate overlay height
	lines := 2 // header + separator
	lines += len(stateLines)
	lines += 2 // blank + keys header
	lines += max(len(pressedKeys), 1)
	panelH := float64(lines)*lineH + padY*2
	panelW := 460.0
	px := float64(ScreenWidth) - panelW - marginR
	py := marginT

	// Background
	vector.DrawFilledRect(screen, float32(px), float32(py), float32(panelW), float32(panelH), ColorOverlay, false)

	x := px + padX
	y := py + padY

	DrawText(screen, "Debug: Deck State (F12 to close)", x, y, FontSizeSmall, ColorPrimary)
	y += lineH

	DrawText(screen, "--- presentation ---", x, y, FontSizeSmall, ColorTextMuted)
	y += lineH

	for _, line := range stateLines {
		DrawText(screen, line, x, y, FontSizeSmall, ColorText)
		y += lineH
	}

	y += lineH * 0.5
	DrawText(screen, "--- keys pressed ---", x, y, FontSizeSmall, ColorTextMuted)
	y += lineH

	if len(pressedKeys) == 0 {
		DrawText(screen, "(none)", x, y, FontSizeSmall, ColorTextSecondary)
	} else {
		for _, k := range pressedKeys {
			DrawText(screen, fmt.Sprintf("  %s (%d)", k.String(), int(k)), x, y, FontSizeSmall, ColorText)
			y += lineH
		}
	}
}
