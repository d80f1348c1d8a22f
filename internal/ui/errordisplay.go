package ui

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// ErrorDisplay draws an error message with a "Copy" button so transport and
// job failures can be pasted into a bug report. Store one per screen that
// shows errors, call Draw each frame and HandleClick in Update.
type ErrorDisplay struct {
	copyRect    ButtonRect
	copiedTimer int // frames remaining to show "Copied!" feedback
}

// Draw renders the message wrapped to maxWidth with the Copy button
// underneath, left-aligned at (x, y). Returns the total height used.
func (ed *ErrorDisplay) Draw(dst *ebiten.Image, errText string, x, y, maxWidth float64) float64 {
	if errText == "" {
		ed.copyRect = ButtonRect{}
		return 0
	}

	h := DrawTextWrapped(dst, errText, x, y, maxWidth, FontSizeBody, ColorError)

	btnY := y + h + 10
	btnW := 76.0
	btnH := FontSizeBody + 10.0

	ed.copyRect = ButtonRect{X: x, Y: btnY, W: btnW, H: btnH}

	if ed.copiedTimer > 0 {
		ed.copiedTimer--
		DrawText(dst, "Copied!", x, btnY+5, FontSizeSmall, ColorSuccess)
	} else {
		vector.DrawFilledRect(dst, float32(x), float32(btnY), float32(btnW), float32(btnH), ColorSurface, false)
		vector.StrokeRect(dst, float32(x), float32(btnY), float32(btnW), float32(btnH), 1, ColorTextMuted, false)
		DrawTextCentered(dst, "Copy", x+btnW/2, btnY+btnH/2, FontSizeSmall, ColorTextSecondary)
	}

	return h + btnH + 10
}

// HandleClick checks if the copy button was clicked. Call from Update with mouse coords.
// Returns true if the click was consumed.
func (ed *ErrorDisplay) HandleClick(mx, my int, errText string) bool {
	if errText == "" {
		return false
	}
	if PointInRect(mx, my, ed.copyRect.X, ed.copyRect.Y, ed.copyRect.W, ed.copyRect.H) {
		writeClipboard(errText)
		ed.copiedTimer = 120 // ~2 seconds at 60fps
		return true
	}
	return false
}
