package deck

import (
	"image/color"
	"math"
	"time"
)

// Visibility thresholds. A slide activates (value animation restarts) when it
// reaches 70% visibility, takes over the background and particle overlay at
// 50%, and resets every other slide once it reaches 80% so earlier slides
// replay on the next visit.
const (
	activateThreshold  = 0.70
	dominanceThreshold = 0.50
	resetThreshold     = 0.80

	// dragIntentFraction of the viewport width decides whether a released
	// drag navigates or snaps back.
	dragIntentFraction = 0.25

	// snapLerp is the per-tick interpolation factor toward the snap target.
	snapLerp = 0.12
)

// PresentationState is the authoritative snapshot of where the deck stands.
// Everything the renderer needs to decide what to draw derives from it.
type PresentationState struct {
	Offset     float64   // current scroll offset in px
	Target     float64   // snap target offset in px
	Visibility []float64 // per-slide visible fraction, sums to 1 in bounds
	Active     int       // slide whose value animation runs, -1 before first update
	Dominant   int       // slide owning background and overlay, -1 before first update
	Dragging   bool
	Effects    bool // particle overlays enabled
}

// Tracker drives the deck: it owns the scroll position, evaluates visibility
// thresholds, and is the only place value animations and the particle overlay
// are stepped. One scheduler means a slide change can never leave a stale
// animation running against the wrong slide.
type Tracker struct {
	slides []*Slide
	width  float64
	height float64

	state     PresentationState
	activated []bool
	overlay   *Overlay
	lastStep  time.Time

	dragStartX      float64
	dragStartOffset float64

	// OnActivate fires after a slide's value animation restarts.
	OnActivate func(i int)
	// OnDominant fires when background/overlay ownership moves to a slide.
	OnDominant func(i int)
}

// NewTracker builds a tracker for the given slides and viewport. Effects
// start in the given enabled state; slide 0 activates on the first Update.
func NewTracker(slides []*Slide, width, height float64, effects bool) *Tracker {
	return &Tracker{
		slides: slides,
		width:  width,
		height: height,
		state: PresentationState{
			Visibility: make([]float64, len(slides)),
			Active:     -1,
			Dominant:   -1,
			Effects:    effects,
		},
		activated: make([]bool, len(slides)),
		overlay:   NewOverlay(width, height),
	}
}

// State returns the current snapshot. The Visibility slice is shared; callers
// read it only.
func (tr *Tracker) State() PresentationState { return tr.state }

// Slides returns the deck in presentation order.
func (tr *Tracker) Slides() []*Slide { return tr.slides }

// Overlay returns the particle overlay for rendering.
func (tr *Tracker) Overlay() *Overlay { return tr.overlay }

// Slide returns the slide at index i, nil when out of range.
func (tr *Tracker) Slide(i int) *Slide {
	if i < 0 || i >= len(tr.slides) {
		return nil
	}
	return tr.slides[i]
}

// ActiveSlide returns the slide whose animation is running, nil before the
// first update.
func (tr *Tracker) ActiveSlide() *Slide { return tr.Slide(tr.state.Active) }

func (tr *Tracker) maxOffset() float64 {
	if len(tr.slides) == 0 {
		return 0
	}
	return float64(len(tr.slides)-1) * tr.width
}

func (tr *Tracker) clampOffset(o float64) float64 {
	return clampF(o, 0, tr.maxOffset())
}

// index of the snap point nearest to offset o.
func (tr *Tracker) nearestIndex(o float64) int {
	if tr.width <= 0 || len(tr.slides) == 0 {
		return 0
	}
	i := int(math.Round(o / tr.width))
	if i < 0 {
		i = 0
	}
	if i >= len(tr.slides) {
		i = len(tr.slides) - 1
	}
	return i
}

// TargetIndex returns the slide the deck is snapping toward.
func (tr *Tracker) TargetIndex() int { return tr.nearestIndex(tr.state.Target) }

// JumpTo snaps toward slide i. Out-of-range indexes clamp.
func (tr *Tracker) JumpTo(i int) {
	if len(tr.slides) == 0 {
		return
	}
	if i < 0 {
		i = 0
	}
	if i >= len(tr.slides) {
		i = len(tr.slides) - 1
	}
	tr.state.Target = float64(i) * tr.width
}

// Advance moves the snap target by dir slides (+1 next, -1 previous).
func (tr *Tracker) Advance(dir int) {
	tr.JumpTo(tr.TargetIndex() + dir)
}

// Wheel translates a wheel notch into slide navigation. Input while a snap
// animation is still far from its target is swallowed so one flick moves one
// slide.
func (tr *Tracker) Wheel(dy float64) {
	if dy == 0 || tr.state.Dragging {
		return
	}
	if math.Abs(tr.state.Offset-tr.state.Target) > tr.width*0.25 {
		return
	}
	if dy < 0 {
		tr.Advance(1)
	} else {
		tr.Advance(-1)
	}
}

// DragStart begins a pointer drag at screen x.
func (tr *Tracker) DragStart(x float64) {
	tr.state.Dragging = true
	tr.dragStartX = x
	tr.dragStartOffset = tr.state.Offset
}

// DragMove tracks the pointer; the deck follows the finger directly.
func (tr *Tracker) DragMove(x float64) {
	if !tr.state.Dragging {
		return
	}
	o := tr.clampOffset(tr.dragStartOffset - (x - tr.dragStartX))
	tr.state.Offset = o
	tr.state.Target = o
}

// DragEnd resolves the drag: a pull of at least a quarter viewport navigates
// in the drag direction, anything shorter snaps back to the slide the drag
// started on.
func (tr *Tracker) DragEnd(x float64) {
	if !tr.state.Dragging {
		return
	}
	tr.state.Dragging = false
	delta := x - tr.dragStartX
	start := tr.nearestIndex(tr.dragStartOffset)
	switch {
	case delta <= -tr.width*dragIntentFraction:
		tr.JumpTo(start + 1)
	case delta >= tr.width*dragIntentFraction:
		tr.JumpTo(start - 1)
	default:
		tr.JumpTo(start)
	}
}

// SetEffectsEnabled toggles particle overlays. Disabling tears the running
// effect down immediately; re-enabling brings back the dominant slide's
// effect with a fade-in.
func (tr *Tracker) SetEffectsEnabled(enabled bool) {
	if tr.state.Effects == enabled {
		return
	}
	tr.state.Effects = enabled
	if !enabled {
		tr.overlay.Stop()
		return
	}
	if s := tr.Slide(tr.state.Dominant); s != nil {
		tr.overlay.Switch(s.Effect, s.Glyphs, false)
	}
}

// Update advances the whole presentation one tick: scroll interpolation,
// visibility evaluation, threshold actions and animation stepping. It is the
// only mutation path, so feeding it the same position twice is idempotent:
// activation fires once per crossing and overlay switches collapse.
func (tr *Tracker) Update(now time.Time) {
	if len(tr.slides) == 0 {
		return
	}

	if !tr.state.Dragging {
		tr.state.Offset += (tr.state.Target - tr.state.Offset) * snapLerp
		if math.Abs(tr.state.Offset-tr.state.Target) < 0.5 {
			tr.state.Offset = tr.state.Target
		}
	}
	tr.evaluate(now)

	if s := tr.ActiveSlide(); s != nil {
		s.Value.Step(now)
	}

	var dt time.Duration
	if !tr.lastStep.IsZero() {
		dt = now.Sub(tr.lastStep)
	}
	tr.lastStep = now
	tr.overlay.Step(dt)
}

// evaluate recomputes visibility and applies the threshold rules.
func (tr *Tracker) evaluate(now time.Time) {
	w := tr.width
	for i := range tr.slides {
		left := float64(i)*w - tr.state.Offset
		right := left + w
		tr.state.Visibility[i] = overlapFraction(left, right, w)
	}

	// Dominance: the slide holding at least half the viewport. The current
	// owner keeps it until a challenger actually crosses the threshold.
	dominant := tr.state.Dominant
	if dominant < 0 || tr.state.Visibility[dominant] < dominanceThreshold {
		for i, v := range tr.state.Visibility {
			if v >= dominanceThreshold {
				dominant = i
				break
			}
		}
	}
	if dominant != tr.state.Dominant && dominant >= 0 {
		tr.state.Dominant = dominant
		if tr.state.Effects {
			s := tr.slides[dominant]
			tr.overlay.Switch(s.Effect, s.Glyphs, tr.state.Active < 0)
		}
		if tr.OnDominant != nil {
			tr.OnDominant(dominant)
		}
	}

	// Activation: restart the incoming slide's animation exactly once.
	for i, v := range tr.state.Visibility {
		if v >= activateThreshold && i != tr.state.Active {
			tr.state.Active = i
			tr.activated[i] = true
			tr.slides[i].Value.Restart(now)
			if tr.OnActivate != nil {
				tr.OnActivate(i)
			}
			break
		}
	}

	// Once the incoming slide holds 80%, previously played slides reset so a
	// return visit replays them. Reset fires once per departure.
	if a := tr.state.Active; a >= 0 && tr.state.Visibility[a] >= resetThreshold {
		for i := range tr.slides {
			if i != a && tr.activated[i] {
				tr.slides[i].Value.Reset()
				tr.activated[i] = false
			}
		}
	}
}

// overlapFraction returns how much of the span [left,right) overlaps the
// viewport [0,w), as a fraction of w.
func overlapFraction(left, right, w float64) float64 {
	lo := math.Max(left, 0)
	hi := math.Min(right, w)
	if hi <= lo || w <= 0 {
		return 0
	}
	return (hi - lo) / w
}

// BackgroundColor blends the backgrounds of the two slides at the viewport
// boundary by scroll progress, through HSV so the hue walks the short way
// around the wheel.
func (tr *Tracker) BackgroundColor() color.RGBA {
	if len(tr.slides) == 0 {
		return DefaultBackground
	}
	if tr.width <= 0 {
		return tr.slides[0].Background
	}
	pos := tr.state.Offset / tr.width
	i := int(math.Floor(pos))
	if i < 0 {
		i = 0
	}
	if i >= len(tr.slides)-1 {
		return tr.slides[len(tr.slides)-1].Background
	}
	return Blend(tr.slides[i].Background, tr.slides[i+1].Background, pos-float64(i))
}

// ForegroundColor and AccentColor follow the dominant slide outright; text
// never renders in a half-blended color.
func (tr *Tracker) ForegroundColor() color.RGBA {
	if s := tr.Slide(tr.state.Dominant); s != nil {
		return s.Foreground
	}
	return DefaultForeground
}

func (tr *Tracker) AccentColor() color.RGBA {
	if s := tr.Slide(tr.state.Dominant); s != nil {
		return s.Accent
	}
	return DefaultAccent
}
