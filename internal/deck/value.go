package deck

import (
	"math"
	"math/rand"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"
)

// easeOutCubic is the shared timing curve for all value animations:
// 1 − (1−t)³, clamped to [0,1]. Motion is front-loaded and settles gently.
func easeOutCubic(t float64) float64 {
	if t <= 0 {
		return 0
	}
	if t >= 1 {
		return 1
	}
	u := 1 - t
	return 1 - u*u*u
}

// ValueAnim is a slide's headline animation. The concrete set is closed:
// CountUpAnim, TextRevealAnim, CryptoRevealAnim and StaticValue. Callers that
// need variant-specific output (list lines vs. a single text) type-switch.
type ValueAnim interface {
	// Restart begins the animation from its start state at time now.
	Restart(now time.Time)
	// Reset forces the initial displayed state (start value, first option,
	// fully-decoy list) without starting the clock.
	Reset()
	// Step advances the animation to now and reports whether the displayed
	// content changed this frame.
	Step(now time.Time) bool
	// Done reports whether the animation has reached its final state.
	Done() bool
}

const (
	countUpDuration    = 1500 * time.Millisecond
	textRevealDuration = 1000 * time.Millisecond
)

// numericPattern splits a value like "$1,234.50" into a non-numeric prefix,
// a signed decimal number (commas allowed), and a trailing suffix.
var numericPattern = regexp.MustCompile(`^(.*?)([-+]?\d[\d,]*(?:\.\d+)?)(.*)$`)

// parseNumeric extracts the numeric payload of s. ok is false when s has no
// parseable number, in which case the caller treats the value as 0.
func parseNumeric(s string) (prefix string, value float64, precision int, suffix string, ok bool) {
	m := numericPattern.FindStringSubmatch(s)
	if m == nil {
		return "", 0, 0, "", false
	}
	num := strings.ReplaceAll(m[2], ",", "")
	v, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return "", 0, 0, "", false
	}
	if dot := strings.IndexByte(num, '.'); dot >= 0 {
		precision = len(num) - dot - 1
	}
	return m[1], v, precision, m[3], true
}

// CountUpAnim counts from a start value to an end value over a fixed
// duration, carrying the end value's prefix/suffix (e.g. "$", " hrs")
// through every frame. Output is locale-free: no thousands separators.
type CountUpAnim struct {
	prefix, suffix string
	start, end     float64
	precision      int

	started bool
	startAt time.Time
	text    string
}

// NewCountUp builds a count-up from start and end display strings and an
// optional step string (consulted for decimal precision only; empty means
// none). Strings without parseable numeric content count as 0.
func NewCountUp(startText, endText, stepText string) *CountUpAnim {
	_, sv, sp, _, _ := parseNumeric(startText)
	prefix, ev, ep, suffix, ok := parseNumeric(endText)
	if !ok {
		prefix, suffix = "", ""
	}
	precision := sp
	if ep > precision {
		precision = ep
	}
	if stepText != "" {
		if _, _, tp, _, tok := parseNumeric(stepText); tok && tp > precision {
			precision = tp
		}
	}
	a := &CountUpAnim{
		prefix:    prefix,
		suffix:    suffix,
		start:     sv,
		end:       ev,
		precision: precision,
	}
	a.Reset()
	return a
}

func (a *CountUpAnim) format(v float64) string {
	return a.prefix + strconv.FormatFloat(v, 'f', a.precision, 64) + a.suffix
}

func (a *CountUpAnim) Reset() {
	a.started = false
	a.text = a.format(a.start)
}

func (a *CountUpAnim) Restart(now time.Time) {
	a.Reset()
	a.started = true
	a.startAt = now
}

func (a *CountUpAnim) Step(now time.Time) bool {
	if !a.started {
		return false
	}
	t := float64(now.Sub(a.startAt)) / float64(countUpDuration)
	eased := easeOutCubic(t)
	next := a.format(a.start + (a.end-a.start)*eased)
	if next == a.text {
		return false
	}
	a.text = next
	return true
}

func (a *CountUpAnim) Done() bool {
	return a.started && a.text == a.format(a.end)
}

// Text returns the currently displayed value.
func (a *CountUpAnim) Text() string { return a.text }

// TextRevealAnim steps through an ordered list of intermediate options on the
// shared ease-out curve and lands on the final resolved text. With no options
// the final text shows immediately.
type TextRevealAnim struct {
	options  []string
	final    string
	duration time.Duration

	started bool
	startAt time.Time
	text    string
}

// NewTextReveal builds a text reveal. durationMS <= 0 selects the default.
func NewTextReveal(options []string, final string, durationMS int) *TextRevealAnim {
	d := textRevealDuration
	if durationMS > 0 {
		d = time.Duration(durationMS) * time.Millisecond
	}
	a := &TextRevealAnim{
		options:  options,
		final:    final,
		duration: d,
	}
	a.Reset()
	return a
}

func (a *TextRevealAnim) Reset() {
	a.started = false
	if len(a.options) == 0 {
		a.text = a.final
		return
	}
	a.text = a.options[0]
}

func (a *TextRevealAnim) Restart(now time.Time) {
	a.Reset()
	a.started = true
	a.startAt = now
}

func (a *TextRevealAnim) Step(now time.Time) bool {
	if !a.started || len(a.options) == 0 {
		return false
	}
	t := float64(now.Sub(a.startAt)) / float64(a.duration)
	eased := easeOutCubic(t)

	next := a.final
	if t < 1 {
		idx := int(eased * float64(len(a.options)))
		if idx < len(a.options) {
			next = a.options[idx]
		}
	}
	if next == a.text {
		return false
	}
	a.text = next
	return true
}

func (a *TextRevealAnim) Done() bool {
	return a.started && (len(a.options) == 0 || a.text == a.final)
}

// Text returns the currently displayed option or final text.
func (a *TextRevealAnim) Text() string { return a.text }

// Crypto-reveal timing. Title durations scale with text length; subtitles run
// at 70% of their title's duration and start 30% of it later, on top of the
// per-item stagger.
const (
	cryptoStagger            = 150 * time.Millisecond
	cryptoBaseDuration       = 700 * time.Millisecond
	cryptoPerRune            = 40 * time.Millisecond
	cryptoMaxDuration        = 1500 * time.Millisecond
	cryptoSubtitleDurRatio   = 0.7
	cryptoSubtitleDelayRatio = 0.3
)

func cryptoTitleDuration(text string) time.Duration {
	d := cryptoBaseDuration + time.Duration(len([]rune(text)))*cryptoPerRune
	if d > cryptoMaxDuration {
		d = cryptoMaxDuration
	}
	return d
}

// RevealCounter is the shared generation counter coupling every field of a
// crypto-reveal: whenever any field reveals a new character it bumps the
// counter, and every field re-rolls its remaining decoys when it observes the
// count move, so the whole list flickers in sync instead of as independent
// noise per field. Bumped and read on the frame path only.
type RevealCounter struct {
	gen uint64
}

func (rc *RevealCounter) bump()       { rc.gen++ }
func (rc *RevealCounter) Gen() uint64 { return rc.gen }

// cryptoField is one string (title or subtitle) revealing left to right.
type cryptoField struct {
	target   []rune
	delay    time.Duration
	duration time.Duration

	revealed int
	decoys   []rune
	lastGen  uint64
	text     string
}

func isRevealable(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

// CryptoLine is the rendered state of one list item.
type CryptoLine struct {
	Title    string
	Subtitle string
}

// CryptoRevealAnim reveals a list of title/subtitle pairs with staggered
// per-item timing. Unrevealed alphanumeric positions show decoy glyphs from
// the configured alphabet; punctuation and whitespace always show through so
// the layout holds steady.
type CryptoRevealAnim struct {
	fields   []*cryptoField // title, subtitle, title, subtitle, ...
	alphabet []rune
	counter  RevealCounter
	rng      *rand.Rand

	started bool
	startAt time.Time
}

// NewCryptoReveal builds the staggered list reveal. Items arrive fully
// resolved; alphabet supplies the decoy glyphs.
func NewCryptoReveal(items []CryptoLine, alphabet string) *CryptoRevealAnim {
	a := &CryptoRevealAnim{
		alphabet: []rune(alphabet),
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for i, item := range items {
		titleDur := cryptoTitleDuration(item.Title)
		titleDelay := time.Duration(i) * cryptoStagger
		a.fields = append(a.fields,
			&cryptoField{
				target:   []rune(item.Title),
				delay:    titleDelay,
				duration: titleDur,
			},
			&cryptoField{
				target:   []rune(item.Subtitle),
				delay:    titleDelay + time.Duration(cryptoSubtitleDelayRatio*float64(titleDur)),
				duration: time.Duration(cryptoSubtitleDurRatio * float64(titleDur)),
			})
	}
	a.Reset()
	return a
}

// rollDecoy picks a decoy glyph different from cur so a re-roll is always a
// visible change.
func (a *CryptoRevealAnim) rollDecoy(cur rune) rune {
	if len(a.alphabet) == 0 {
		return cur
	}
	g := a.alphabet[a.rng.Intn(len(a.alphabet))]
	if g == cur && len(a.alphabet) > 1 {
		g = a.alphabet[(a.rng.Intn(len(a.alphabet)-1)+1)%len(a.alphabet)]
		if g == cur {
			g = a.alphabet[0]
		}
	}
	return g
}

func (a *CryptoRevealAnim) rollField(f *cryptoField) {
	for i := f.revealed; i < len(f.target); i++ {
		if isRevealable(f.target[i]) {
			f.decoys[i] = a.rollDecoy(f.decoys[i])
		}
	}
	f.lastGen = a.counter.Gen()
}

func (f *cryptoField) render() {
	out := make([]rune, len(f.target))
	for i, r := range f.target {
		if i < f.revealed || !isRevealable(r) {
			out[i] = r
		} else {
			out[i] = f.decoys[i]
		}
	}
	f.text = string(out)
}

func (a *CryptoRevealAnim) Reset() {
	a.started = false
	for _, f := range a.fields {
		f.revealed = 0
		f.decoys = make([]rune, len(f.target))
		for i, r := range f.target {
			if isRevealable(r) {
				f.decoys[i] = a.rollDecoy(r)
			}
		}
		f.lastGen = a.counter.Gen()
		f.render()
	}
}

func (a *CryptoRevealAnim) Restart(now time.Time) {
	a.Reset()
	a.started = true
	a.startAt = now
}

func (a *CryptoRevealAnim) Step(now time.Time) bool {
	if !a.started {
		return false
	}
	elapsed := now.Sub(a.startAt)

	// First pass: advance reveal counts. Any field revealing new characters
	// bumps the shared counter.
	for _, f := range a.fields {
		if f.revealed >= len(f.target) {
			continue
		}
		local := elapsed - f.delay
		if local < 0 {
			continue
		}
		t := float64(local) / float64(f.duration)
		n := int(easeOutCubic(t) * float64(len(f.target)))
		if t >= 1 {
			n = len(f.target)
		}
		if n > f.revealed {
			f.revealed = n
			a.counter.bump()
		}
	}

	// Second pass: every field that saw the counter move re-rolls its
	// remaining decoys and re-renders.
	changed := false
	for _, f := range a.fields {
		if f.lastGen != a.counter.Gen() {
			a.rollField(f)
			f.render()
			changed = true
		}
	}
	return changed
}

func (a *CryptoRevealAnim) Done() bool {
	if !a.started {
		return false
	}
	for _, f := range a.fields {
		if f.revealed < len(f.target) {
			return false
		}
	}
	return true
}

// Lines returns the rendered title/subtitle pairs in item order.
func (a *CryptoRevealAnim) Lines() []CryptoLine {
	lines := make([]CryptoLine, 0, len(a.fields)/2)
	for i := 0; i+1 < len(a.fields); i += 2 {
		lines = append(lines, CryptoLine{
			Title:    a.fields[i].text,
			Subtitle: a.fields[i+1].text,
		})
	}
	return lines
}

// Counter exposes the shared reveal counter, mainly for the debug overlay.
func (a *CryptoRevealAnim) Counter() *RevealCounter { return &a.counter }

// StaticValue is the no-animation variant: its content was substituted at
// slide-build time and never changes.
type StaticValue struct {
	text string
}

func NewStaticValue(text string) *StaticValue { return &StaticValue{text: text} }

func (s *StaticValue) Restart(time.Time) {}
func (s *StaticValue) Reset()            {}
func (s *StaticValue) Step(time.Time) bool {
	return false
}
func (s *StaticValue) Done() bool   { return true }
func (s *StaticValue) Text() string { return s.text }

// clampF keeps v inside [lo, hi].
func clampF(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}
