package deck

import (
	"fmt"
	"image/color"
	"math"
	"testing"
	"time"
)

func trackerSlides(n int) []*Slide {
	slides := make([]*Slide, n)
	for i := range slides {
		slides[i] = &Slide{
			ID:         fmt.Sprintf("s%d", i),
			Background: color.RGBA{R: uint8(40 * (i + 1)), G: 0x20, B: 0x60, A: 0xFF},
			Foreground: color.RGBA{R: 0xE2, G: 0xE8, B: 0xF0, A: 0xFF},
			Accent:     color.RGBA{R: 0x22, G: 0xD3, B: 0xEE, A: 0xFF},
			Value:      NewCountUp("0", "100", ""),
		}
	}
	return slides
}

// TestVisibilitySums verifies the visible fractions of all slides always sum
// to one while the offset stays in bounds
func TestVisibilitySums(t *testing.T) {
	tr := NewTracker(trackerSlides(4), 1000, 700, false)
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

	for _, offset := range []float64{0, 137, 500, 999, 1500, 2203, 3000} {
		tr.state.Offset = offset
		tr.evaluate(now)
		sum := 0.0
		for _, v := range tr.state.Visibility {
			sum += v
		}
		if math.Abs(sum-1) > 1e-9 {
			t.Errorf("Expected visibility sum 1 at offset %.0f, got %v", offset, sum)
		}
	}
}

// TestActivationFiresOncePerCrossing verifies re-feeding the same scroll
// position never restarts an animation
func TestActivationFiresOncePerCrossing(t *testing.T) {
	tr := NewTracker(trackerSlides(3), 1000, 700, false)
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

	activations := 0
	tr.OnActivate = func(int) { activations++ }

	tr.evaluate(now)
	tr.evaluate(now)
	tr.evaluate(now)
	if activations != 1 {
		t.Fatalf("Expected 1 activation at rest, got %d", activations)
	}
	if tr.State().Active != 0 {
		t.Fatalf("Expected slide 0 active, got %d", tr.State().Active)
	}

	// Slide 1 at 75% visibility: activates exactly once.
	tr.state.Offset = 750
	tr.evaluate(now)
	tr.evaluate(now)
	if activations != 2 {
		t.Errorf("Expected 2 activations after crossing, got %d", activations)
	}
	if tr.State().Active != 1 {
		t.Errorf("Expected slide 1 active, got %d", tr.State().Active)
	}
}

// TestActivationBelowThreshold verifies 69% visibility does not activate
func TestActivationBelowThreshold(t *testing.T) {
	tr := NewTracker(trackerSlides(2), 1000, 700, false)
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

	tr.evaluate(now)
	tr.state.Offset = 690
	tr.evaluate(now)
	if tr.State().Active != 0 {
		t.Errorf("Expected slide 0 still active at 69%%, got %d", tr.State().Active)
	}

	tr.state.Offset = 700
	tr.evaluate(now)
	if tr.State().Active != 1 {
		t.Errorf("Expected slide 1 active at 70%%, got %d", tr.State().Active)
	}
}

// TestDominanceSwitch verifies overlay ownership moves at the half-viewport
// crossing and holds steady when the same position is fed again
func TestDominanceSwitch(t *testing.T) {
	slides := trackerSlides(2)
	slides[0].Effect = OverlayStarfield
	slides[1].Effect = OverlayRain
	slides[1].Glyphs = "ABCDF"
	tr := NewTracker(slides, 1000, 700, true)
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

	switches := 0
	tr.OnDominant = func(int) { switches++ }

	tr.evaluate(now)
	if tr.State().Dominant != 0 || switches != 1 {
		t.Fatalf("Expected slide 0 dominant at rest, got %d after %d switches", tr.State().Dominant, switches)
	}
	if tr.Overlay().Effect() != OverlayStarfield {
		t.Fatalf("Expected starfield overlay, got %v", tr.Overlay().Effect())
	}

	tr.state.Offset = 490
	tr.evaluate(now)
	if tr.State().Dominant != 0 {
		t.Errorf("Expected slide 0 dominant at 49%% challenger, got %d", tr.State().Dominant)
	}

	tr.state.Offset = 510
	tr.evaluate(now)
	tr.evaluate(now)
	if tr.State().Dominant != 1 {
		t.Errorf("Expected slide 1 dominant past half, got %d", tr.State().Dominant)
	}
	if switches != 2 {
		t.Errorf("Expected 2 dominance switches, got %d", switches)
	}
	if tr.Overlay().Effect() != OverlayRain {
		t.Errorf("Expected rain overlay after switch, got %v", tr.Overlay().Effect())
	}
}

// TestResetOnDeparture verifies a played slide resets once the incoming slide
// holds 80%, so revisits replay from the start
func TestResetOnDeparture(t *testing.T) {
	tr := NewTracker(trackerSlides(2), 1000, 700, false)
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

	tr.evaluate(now)
	first := tr.Slide(0).Value.(*CountUpAnim)
	first.Step(now.Add(2 * time.Second))
	if first.Text() != "100" {
		t.Fatalf("Expected slide 0 to finish counting, got %q", first.Text())
	}

	tr.state.Offset = 850
	tr.evaluate(now.Add(2 * time.Second))
	if first.Text() != "0" {
		t.Errorf("Expected slide 0 reset on departure, got %q", first.Text())
	}
	if tr.State().Active != 1 {
		t.Errorf("Expected slide 1 active, got %d", tr.State().Active)
	}
}

// TestDragIntent verifies a quarter-width pull navigates and a shorter pull
// snaps back
func TestDragIntent(t *testing.T) {
	tests := []struct {
		name     string
		fromX    float64
		toX      float64
		expected int
	}{
		{name: "Long pull left advances", fromX: 500, toX: 200, expected: 1},
		{name: "Short pull snaps back", fromX: 500, toX: 380, expected: 0},
		{name: "Long pull right at start clamps", fromX: 200, toX: 600, expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := NewTracker(trackerSlides(3), 1000, 700, false)
			tr.DragStart(tt.fromX)
			tr.DragMove(tt.toX)
			tr.DragEnd(tt.toX)
			if got := tr.TargetIndex(); got != tt.expected {
				t.Errorf("Expected target slide %d, got %d", tt.expected, got)
			}
			if tr.State().Dragging {
				t.Error("Expected drag to end")
			}
		})
	}
}

// TestDragFollowsPointer verifies the deck tracks the finger during a drag
func TestDragFollowsPointer(t *testing.T) {
	tr := NewTracker(trackerSlides(3), 1000, 700, false)
	tr.DragStart(600)
	tr.DragMove(400)
	if got := tr.State().Offset; got != 200 {
		t.Errorf("Expected offset 200 mid-drag, got %v", got)
	}
	tr.DragMove(900)
	if got := tr.State().Offset; got != 0 {
		t.Errorf("Expected clamp at 0 when dragging past the first slide, got %v", got)
	}
}

// TestWheelSwallowedMidFlight verifies one flick moves one slide even when
// events keep arriving during the snap animation
func TestWheelSwallowedMidFlight(t *testing.T) {
	tr := NewTracker(trackerSlides(4), 1000, 700, false)

	tr.Wheel(-1)
	if got := tr.TargetIndex(); got != 1 {
		t.Fatalf("Expected target 1 after flick, got %d", got)
	}
	tr.Wheel(-1)
	tr.Wheel(-1)
	if got := tr.TargetIndex(); got != 1 {
		t.Errorf("Expected mid-flight flicks swallowed, got target %d", got)
	}
}

// TestBackgroundBlend verifies snap points show exact slide colors and the
// midpoint matches the HSV blend
func TestBackgroundBlend(t *testing.T) {
	slides := trackerSlides(3)
	tr := NewTracker(slides, 1000, 700, false)

	tr.state.Offset = 0
	if got := tr.BackgroundColor(); got != slides[0].Background {
		t.Errorf("Expected exact slide 0 background, got %v", got)
	}

	tr.state.Offset = 1000
	if got := tr.BackgroundColor(); got != slides[1].Background {
		t.Errorf("Expected exact slide 1 background, got %v", got)
	}

	tr.state.Offset = 500
	want := Blend(slides[0].Background, slides[1].Background, 0.5)
	if got := tr.BackgroundColor(); got != want {
		t.Errorf("Expected midpoint blend %v, got %v", want, got)
	}
}

// TestUpdateConvergesToTarget verifies the snap animation lands exactly on
// the target and activates the destination slide
func TestUpdateConvergesToTarget(t *testing.T) {
	tr := NewTracker(trackerSlides(3), 1000, 700, false)
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

	tr.JumpTo(2)
	for i := 0; i < 300; i++ {
		now = now.Add(frame)
		tr.Update(now)
	}
	if got := tr.State().Offset; got != 2000 {
		t.Errorf("Expected offset to land on 2000, got %v", got)
	}
	if got := tr.State().Active; got != 2 {
		t.Errorf("Expected slide 2 active after snap, got %d", got)
	}
}

// TestEffectsToggle verifies disabling effects freezes and tears down the
// overlay and re-enabling restores the dominant slide's effect
func TestEffectsToggle(t *testing.T) {
	slides := trackerSlides(2)
	slides[0].Effect = OverlayRain
	slides[0].Glyphs = "ABCDF"
	tr := NewTracker(slides, 1000, 700, true)
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

	tr.Update(now)
	if tr.Overlay().Effect() != OverlayRain || tr.Overlay().Count() == 0 {
		t.Fatalf("Expected running rain overlay, got %v with %d entities",
			tr.Overlay().Effect(), tr.Overlay().Count())
	}

	tr.SetEffectsEnabled(false)
	frozen := append([]Drop(nil), tr.Overlay().Drops()...)
	now = now.Add(frame)
	tr.Update(now)
	for i, d := range tr.Overlay().Drops() {
		if d != frozen[i] {
			t.Fatal("Expected no entity mutation while effects are disabled")
		}
	}

	for i := 0; i < 120 && tr.Overlay().Count() > 0; i++ {
		now = now.Add(frame)
		tr.Update(now)
	}
	if tr.Overlay().Count() != 0 {
		t.Fatalf("Expected overlay teardown, %d entities remain", tr.Overlay().Count())
	}

	tr.SetEffectsEnabled(true)
	if tr.Overlay().Effect() != OverlayRain || tr.Overlay().Count() == 0 {
		t.Errorf("Expected rain overlay restored, got %v with %d entities",
			tr.Overlay().Effect(), tr.Overlay().Count())
	}
	if tr.Overlay().Fade() != 0 {
		t.Errorf("Expected restored overlay to fade in from 0, got %v", tr.Overlay().Fade())
	}
}
