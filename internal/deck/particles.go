package deck

import (
	"math"
	"math/rand"
	"time"
)

// OverlayEffect selects the full-screen particle overlay. The set is closed
// and exhaustively switched; OverlayNone means no overlay is running.
type OverlayEffect int

const (
	OverlayNone OverlayEffect = iota
	OverlayRain
	OverlayFireworks
	OverlayStarfield
)

func (e OverlayEffect) String() string {
	switch e {
	case OverlayRain:
		return "rain"
	case OverlayFireworks:
		return "fireworks"
	case OverlayStarfield:
		return "starfield"
	default:
		return "none"
	}
}

// ParseOverlayEffect maps a style-file tag to an effect. Unknown tags are a
// style-definition error surfaced at load time.
func ParseOverlayEffect(tag string) (OverlayEffect, bool) {
	switch tag {
	case "", "none":
		return OverlayNone, true
	case "rain":
		return OverlayRain, true
	case "fireworks":
		return OverlayFireworks, true
	case "starfield":
		return OverlayStarfield, true
	default:
		return OverlayNone, false
	}
}

// Drop is one falling glyph in the rain overlay.
type Drop struct {
	X, Y     float64
	Speed    float64 // px/s downward
	Rot      float64 // radians
	RotSpeed float64 // radians/s
	Scale    float64
	Glyph    rune
}

// Spark is one firework particle, launched radially from a burst origin and
// pulled down by gravity over a finite lifetime.
type Spark struct {
	X, Y     float64
	VX, VY   float64
	Rot      float64
	RotSpeed float64
	Scale    float64
	Glyph    rune
	Age      float64 // seconds alive
	Life     float64 // seconds total
}

// Alpha returns the spark's current opacity, fading linearly over its life.
func (s *Spark) Alpha() float64 {
	if s.Life <= 0 {
		return 0
	}
	return clampF(1-s.Age/s.Life, 0, 1)
}

// RenderScale returns the spark's draw scale, shrinking slightly as it ages.
func (s *Spark) RenderScale() float64 {
	if s.Life <= 0 {
		return s.Scale
	}
	return s.Scale * (1 - 0.25*clampF(s.Age/s.Life, 0, 1))
}

// Star is one starfield dot with a sinusoidal twinkle.
type Star struct {
	X, Y        float64
	Speed       float64 // drift px/s downward
	Phase       float64 // twinkle phase, radians
	TwinkleRate float64 // radians/s
	BaseAlpha   float64
	Scale       float64
}

// Alpha returns the star's twinkled opacity: base × (0.6 + 0.4·sin(phase)).
func (s *Star) Alpha() float64 {
	return s.BaseAlpha * (0.6 + 0.4*math.Sin(s.Phase))
}

// Overlay simulation constants.
const (
	overlayMaxStep  = 50 * time.Millisecond // dt clamp after a stall
	overlayFadeTime = 0.35                  // seconds for the 0→1 cross-fade

	rainPoolMin = 30
	rainPoolMax = 70
	starPoolMin = 80
	starPoolMax = 160

	sparkGravity   = 260.0 // px/s²
	sparkBudget    = 28    // live sparks above which no new burst spawns
	burstMin       = 10
	burstSpan      = 8 // burst size is burstMin + [0,burstSpan)
	burstChainProb = 0.30
	cooldownMinSec = 0.28
	cooldownMaxSec = 0.70

	offscreenMargin = 48.0
)

// Overlay owns the one active particle effect. Exactly one effect runs at a
// time; switching destroys the previous entity collection before building the
// new one, so no two simulations can ever step concurrently.
type Overlay struct {
	width, height float64
	rng           *rand.Rand

	effect OverlayEffect
	glyphs []rune
	tag    string // effect+glyphs identity of the running overlay

	drops  []Drop
	sparks []Spark
	stars  []Star

	burstCooldown float64 // seconds until the next burst may spawn

	fade      float64 // overlay opacity in [0,1]
	fadingOut bool    // frozen and fading toward teardown
}

// NewOverlay creates an idle overlay for the given viewport.
func NewOverlay(width, height float64) *Overlay {
	return &Overlay{
		width:  width,
		height: height,
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Effect returns the currently running effect (OverlayNone when idle).
func (o *Overlay) Effect() OverlayEffect { return o.effect }

// Fade returns the overlay's current cross-fade opacity.
func (o *Overlay) Fade() float64 { return o.fade }

// Count returns the live entity count, whatever the effect.
func (o *Overlay) Count() int {
	return len(o.drops) + len(o.sparks) + len(o.stars)
}

// Drops, Sparks and Stars expose the entity collections for rendering.
func (o *Overlay) Drops() []Drop   { return o.drops }
func (o *Overlay) Sparks() []Spark { return o.sparks }
func (o *Overlay) Stars() []Star   { return o.stars }

func usableGlyphs(glyphs string) []rune {
	var out []rune
	for _, r := range glyphs {
		if r > ' ' {
			out = append(out, r)
		}
	}
	return out
}

// Switch tears down the running effect and starts the requested one. A
// glyph-dependent effect with no usable glyphs is suppressed rather than
// started (a slide misconfiguration must not take the overlay down with it).
// The fade starts at zero unless immediate is set; re-requesting the overlay
// already running is a no-op so threshold re-evaluation never respawns pools.
func (o *Overlay) Switch(effect OverlayEffect, glyphs string, immediate bool) {
	runes := usableGlyphs(glyphs)
	if len(runes) == 0 && (effect == OverlayRain || effect == OverlayFireworks) {
		effect = OverlayNone
	}
	tag := effect.String() + ":" + string(runes)
	if tag == o.tag && !o.fadingOut {
		return
	}

	// Previous collection dies here, before the new one exists.
	o.drops = nil
	o.sparks = nil
	o.stars = nil
	o.fadingOut = false
	o.effect = effect
	o.glyphs = runes
	o.tag = tag
	if immediate {
		o.fade = 1
	} else {
		o.fade = 0
	}

	switch effect {
	case OverlayRain:
		o.spawnRain()
	case OverlayFireworks:
		o.burstCooldown = 0
	case OverlayStarfield:
		o.spawnStars()
	case OverlayNone:
		o.fade = 0
	}
}

// Stop freezes the running effect and fades the overlay out; entities are
// cleared once the fade reaches zero. Used when effects are disabled.
func (o *Overlay) Stop() {
	if o.effect == OverlayNone && o.Count() == 0 {
		return
	}
	o.fadingOut = true
	o.tag = ""
}

func clampPool(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}

func (o *Overlay) randGlyph() rune {
	return o.glyphs[o.rng.Intn(len(o.glyphs))]
}

func (o *Overlay) spawnRain() {
	n := clampPool(int(o.width/24), rainPoolMin, rainPoolMax)
	o.drops = make([]Drop, n)
	for i := range o.drops {
		o.drops[i] = Drop{
			X:        o.rng.Float64() * o.width,
			Y:        -o.rng.Float64() * o.height, // staggered entry from above
			Speed:    120 + o.rng.Float64()*300,
			Rot:      o.rng.Float64() * 2 * math.Pi,
			RotSpeed: (o.rng.Float64() - 0.5) * 4,
			Scale:    0.6 + o.rng.Float64()*0.9,
			Glyph:    o.randGlyph(),
		}
	}
}

func (o *Overlay) spawnStars() {
	n := clampPool(int(o.width/12), starPoolMin, starPoolMax)
	o.stars = make([]Star, n)
	for i := range o.stars {
		o.stars[i] = Star{
			X:           o.rng.Float64() * o.width,
			Y:           o.rng.Float64() * o.height,
			Speed:       8 + o.rng.Float64()*22,
			Phase:       o.rng.Float64() * 2 * math.Pi,
			TwinkleRate: 1.5 + o.rng.Float64()*3,
			BaseAlpha:   0.35 + o.rng.Float64()*0.6,
			Scale:       1 + o.rng.Float64()*1.6,
		}
	}
}

func (o *Overlay) spawnBurst() {
	ox := o.width * (0.15 + 0.7*o.rng.Float64())
	oy := o.height * (0.15 + 0.5*o.rng.Float64())
	n := burstMin + o.rng.Intn(burstSpan)
	for i := 0; i < n; i++ {
		angle := o.rng.Float64() * 2 * math.Pi
		speed := 60 + o.rng.Float64()*240
		o.sparks = append(o.sparks, Spark{
			X:        ox,
			Y:        oy,
			VX:       math.Cos(angle) * speed,
			VY:       math.Sin(angle) * speed,
			Rot:      o.rng.Float64() * 2 * math.Pi,
			RotSpeed: (o.rng.Float64() - 0.5) * 6,
			Scale:    0.7 + o.rng.Float64()*0.8,
			Glyph:    o.randGlyph(),
			Life:     0.9 + o.rng.Float64()*1.1,
		})
	}
}

// Step advances the active simulation by dt, clamped to 50ms so a stalled
// frame can't slingshot the physics. A stopping overlay only advances its
// fade; entity state is never mutated after Stop.
func (o *Overlay) Step(dt time.Duration) {
	if dt > overlayMaxStep {
		dt = overlayMaxStep
	}
	sec := dt.Seconds()

	if o.fadingOut {
		o.fade -= sec / overlayFadeTime
		if o.fade <= 0 {
			o.fade = 0
			o.fadingOut = false
			o.effect = OverlayNone
			o.drops = nil
			o.sparks = nil
			o.stars = nil
		}
		return
	}
	if o.effect == OverlayNone {
		return
	}

	if o.fade < 1 {
		o.fade = clampF(o.fade+sec/overlayFadeTime, 0, 1)
	}

	switch o.effect {
	case OverlayRain:
		o.stepRain(sec)
	case OverlayFireworks:
		o.stepFireworks(sec)
	case OverlayStarfield:
		o.stepStars(sec)
	}
}

func (o *Overlay) stepRain(sec float64) {
	for i := range o.drops {
		d := &o.drops[i]
		d.Y += d.Speed * sec
		d.Rot += d.RotSpeed * sec
		if d.Y > o.height+offscreenMargin {
			// Recycle above the viewport; the pool never grows or shrinks.
			d.X = o.rng.Float64() * o.width
			d.Y = -offscreenMargin - o.rng.Float64()*o.height*0.25
			d.Speed = 120 + o.rng.Float64()*300
			d.RotSpeed = (o.rng.Float64() - 0.5) * 4
			d.Glyph = o.randGlyph()
		}
	}
}

func (o *Overlay) stepFireworks(sec float64) {
	o.burstCooldown -= sec
	if len(o.sparks) < sparkBudget && o.burstCooldown <= 0 {
		o.spawnBurst()
		if o.rng.Float64() < burstChainProb {
			o.spawnBurst()
		}
		o.burstCooldown = cooldownMinSec + o.rng.Float64()*(cooldownMaxSec-cooldownMinSec)
	}

	alive := o.sparks[:0]
	for i := range o.sparks {
		s := o.sparks[i]
		s.VY += sparkGravity * sec
		s.X += s.VX * sec
		s.Y += s.VY * sec
		s.Rot += s.RotSpeed * sec
		s.Age += sec
		if s.Age >= s.Life ||
			s.Y > o.height+offscreenMargin ||
			s.X < -offscreenMargin || s.X > o.width+offscreenMargin {
			continue
		}
		alive = append(alive, s)
	}
	o.sparks = alive
}

func (o *Overlay) stepStars(sec float64) {
	for i := range o.stars {
		s := &o.stars[i]
		s.Y += s.Speed * sec
		s.Phase += s.TwinkleRate * sec
		if s.Y > o.height+offscreenMargin {
			s.Y = -offscreenMargin
			s.X = o.rng.Float64() * o.width
		}
	}
}
