package ui

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"log"
	"math"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/bmadison/classwrap/internal/config"
	"github.com/bmadison/classwrap/internal/constants"
	"github.com/bmadison/classwrap/internal/deck"
	"github.com/bmadison/classwrap/internal/export"
)

const toastFrames = 180 // ~3 seconds at 60fps

// PresentationScreen plays a built deck: it feeds the tracker every tick,
// draws the slide strip at the current offset, and renders the particle
// overlay and chrome around it.
type PresentationScreen struct {
	cfg     *config.Config
	tracker *deck.Tracker

	hintPhase float64 // cover hint pulse, advances only while the cover is active
	dotPos    float64 // smoothed dot indicator position, in slide units

	toast      string
	toastTimer int
}

// NewPresentationScreen builds the screen around an already-built deck.
func NewPresentationScreen(cfg *config.Config, slides []*deck.Slide) *PresentationScreen {
	return &PresentationScreen{
		cfg:     cfg,
		tracker: deck.NewTracker(slides, ScreenWidth, ScreenHeight, cfg.Effects.Enabled),
	}
}

func (p *PresentationScreen) Name() string { return "Presentation" }

func (p *PresentationScreen) OnEnter() {
	SetDebugSource(p.debugLines)
}

func (p *PresentationScreen) OnExit() {
	SetDebugSource(nil)
}

func (p *PresentationScreen) Update() (*ScreenTransition, error) {
	p.handleKeys()
	p.handleMouse()

	p.tracker.Update(time.Now())

	st := p.tracker.State()
	p.dotPos = Lerp(p.dotPos, float64(max(st.Dominant, 0)), DotAnimSpeed)
	if st.Active == 0 {
		p.hintPhase += HintPulseSpeed
	}
	if p.toastTimer > 0 {
		p.toastTimer--
	}
	return nil, nil
}

func (p *PresentationScreen) handleKeys() {
	kb := &p.cfg.Keybinds
	switch {
	case KeyJustPressed(kb.Next):
		p.tracker.Advance(1)
	case KeyJustPressed(kb.Previous):
		p.tracker.Advance(-1)
	case KeyJustPressed(kb.First):
		p.tracker.JumpTo(0)
	case KeyJustPressed(kb.Last):
		p.tracker.JumpTo(len(p.tracker.Slides()) - 1)
	}

	// Arrow and page keys repeat while held, for skimming.
	if inputRepeating(ebiten.KeyArrowRight) || inputRepeating(ebiten.KeyArrowDown) || inputRepeating(ebiten.KeyPageDown) {
		p.tracker.Advance(1)
	}
	if inputRepeating(ebiten.KeyArrowLeft) || inputRepeating(ebiten.KeyArrowUp) || inputRepeating(ebiten.KeyPageUp) {
		p.tracker.Advance(-1)
	}

	if KeyJustPressed(kb.Effects) {
		enabled := !p.tracker.State().Effects
		p.tracker.SetEffectsEnabled(enabled)
		p.cfg.Effects.Enabled = enabled
		if err := p.cfg.Save(); err != nil {
			log.Printf("Failed to save config: %v", err)
		}
		if enabled {
			p.showToast("effects on")
		} else {
			p.showToast("effects off")
		}
	}

	if KeyJustPressed(kb.Share) {
		p.shareCard()
	}
}

func (p *PresentationScreen) handleMouse() {
	if _, dy := MouseWheelDelta(); dy != 0 {
		p.tracker.Wheel(dy)
	}

	x, _ := ebiten.CursorPosition()
	switch {
	case inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft):
		p.tracker.DragStart(float64(x))
	case inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft):
		p.tracker.DragEnd(float64(x))
	case ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft):
		p.tracker.DragMove(float64(x))
	}
}

// shareCard writes the dominant slide as a share card PNG into the working
// directory, colored exactly as the screen shows it right now.
func (p *PresentationScreen) shareCard() {
	s := p.tracker.Slide(p.tracker.State().Dominant)
	if s == nil {
		return
	}

	var (
		img image.Image
		err error
	)
	if s.Kind == deck.SlideGrid {
		img, err = export.Grid(p.tracker.Slides(), export.DefaultTileSize)
	} else {
		live := *s
		live.Background = p.tracker.BackgroundColor()
		live.Foreground = p.tracker.ForegroundColor()
		live.Accent = p.tracker.AccentColor()
		img, err = export.Card(&live, export.DefaultCardSize)
	}
	if err != nil {
		p.showToast("share failed: " + err.Error())
		return
	}

	name := fmt.Sprintf("%s-%s.png", constants.AppName, s.ID)
	f, err := os.Create(name)
	if err != nil {
		p.showToast("share failed: " + err.Error())
		return
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		p.showToast("share failed: " + err.Error())
		return
	}
	p.showToast("saved " + name)
}

func (p *PresentationScreen) showToast(msg string) {
	p.toast = msg
	p.toastTimer = toastFrames
}

func (p *PresentationScreen) Draw(dst *ebiten.Image) {
	st := p.tracker.State()
	dst.Fill(p.tracker.BackgroundColor())
	p.drawOverlay(dst)

	w := float64(ScreenWidth)
	for i, s := range p.tracker.Slides() {
		x := float64(i)*w - st.Offset
		if x <= -w || x >= w {
			continue
		}
		p.drawSlide(dst, s, x)
	}

	p.drawDots(dst)
	p.drawToast(dst)
}

func (p *PresentationScreen) drawSlide(dst *ebiten.Image, s *deck.Slide, x float64) {
	switch s.Kind {
	case deck.SlideCover:
		p.drawCover(dst, s, x)
	case deck.SlideList:
		p.drawList(dst, s, x)
	case deck.SlideGrid:
		p.drawGrid(dst, s, x)
	default:
		p.drawStandard(dst, s, x)
	}
}

func (p *PresentationScreen) drawCover(dst *ebiten.Image, s *deck.Slide, x float64) {
	cx := x + ScreenWidth/2

	size := fitTextSize(s.Title, CoverTitleSize, SlideTextWidth, true)
	DrawBoldTextCentered(dst, s.Title, cx, CoverTitleY, size, s.Foreground)

	if name := valueText(s); name != "" {
		size := fitTextSize(name, CoverNameSize, SlideTextWidth, false)
		DrawTextCentered(dst, name, cx, CoverNameY, size, s.Accent)
	}

	if s.Bottom != "" {
		alpha := 0.45 + 0.35*math.Sin(p.hintPhase)
		bob := 4 * math.Sin(p.hintPhase*0.7)
		DrawTextCentered(dst, s.Bottom, cx, CoverHintY+bob, CoverHintSize, fadeColor(s.Foreground, alpha))
	}
}

func (p *PresentationScreen) drawStandard(dst *ebiten.Image, s *deck.Slide, x float64) {
	cx := x + ScreenWidth/2

	if s.Title != "" {
		DrawTextCentered(dst, s.Title, cx, SlideTitleY, SlideTitleSize, s.Foreground)
	}

	if value := valueText(s); value != "" {
		size := fitTextSize(value, SlideValueSize, SlideTextWidth, true)
		DrawBoldTextCentered(dst, value, cx, SlideValueY, size, s.Accent)
	}

	if s.Bottom != "" {
		lineHeight := SlideBottomSize * 1.4
		for j, line := range WrapText(s.Bottom, SlideBottomSize, SlideTextWidth) {
			DrawTextCentered(dst, line, cx, SlideBottomY+float64(j)*lineHeight, SlideBottomSize, s.Foreground)
		}
	}
}

func (p *PresentationScreen) drawList(dst *ebiten.Image, s *deck.Slide, x float64) {
	cx := x + ScreenWidth/2

	DrawTextCentered(dst, s.Title, cx, ListTitleY, SlideTitleSize, s.Foreground)

	rows := s.Rows
	if cr, ok := s.Value.(*deck.CryptoRevealAnim); ok {
		rows = cr.Lines()
	}
	if len(rows) > ListMaxRows {
		rows = rows[:ListMaxRows]
	}
	for j, row := range rows {
		y := float64(ListStartY + j*ListRowPitch)
		DrawBoldTextCentered(dst, row.Title, cx, y, ListRowTitleSize, s.Accent)
		if row.Subtitle != "" {
			DrawTextCentered(dst, row.Subtitle, cx, y+ListSubOffset, ListRowSubSize, fadeColor(s.Foreground, 0.75))
		}
	}

	if s.Bottom != "" {
		DrawTextCentered(dst, s.Bottom, cx, ListBottomY, SlideBottomSize, s.Foreground)
	}
}

func (p *PresentationScreen) drawGrid(dst *ebiten.Image, s *deck.Slide, x float64) {
	cx := x + ScreenWidth/2

	DrawBoldTextCentered(dst, s.Title, cx, GridTitleY, SlideTitleSize, s.Foreground)

	tileBG := deck.Blend(s.Background, s.Foreground, 0.08)
	for j, rect := range gridRects(len(s.Tiles)) {
		t := s.Tiles[j]
		rx := x + rect.X
		vector.DrawFilledRect(dst, float32(rx), float32(rect.Y), float32(rect.W), float32(rect.H), tileBG, false)
		DrawTextCentered(dst, t.Title, rx+rect.W/2, rect.Y+30, TileTitleSize, fadeColor(s.Foreground, 0.75))
		size := fitTextSize(t.Value, TileValueSize, rect.W-32, true)
		DrawBoldTextCentered(dst, t.Value, rx+rect.W/2, rect.Y+rect.H/2+12, size, s.Accent)
	}
}

// gridRects lays the summary tiles on a 3x3 grid: the first tile takes a
// double-height cell, the tile landing on the grid center renders as a
// smaller centered cell, the rest fill row by row.
func gridRects(n int) []ButtonRect {
	const (
		cellW = 340.0
		cellH = 228.0
		gap   = 24.0
	)
	gridW := 3*cellW + 2*gap
	x0 := (float64(ScreenWidth) - gridW) / 2

	cells := []struct {
		col, row int
		tall     bool
		mini     bool
	}{
		{0, 0, true, false},
		{1, 0, false, false},
		{2, 0, false, false},
		{1, 1, false, true},
		{2, 1, false, false},
		{0, 2, false, false},
		{1, 2, false, false},
		{2, 2, false, false},
	}

	if n > len(cells) {
		n = len(cells)
	}
	rects := make([]ButtonRect, 0, n)
	for i := 0; i < n; i++ {
		c := cells[i]
		r := ButtonRect{
			X: x0 + float64(c.col)*(cellW+gap),
			Y: GridTopY + float64(c.row)*(cellH+gap),
			W: cellW,
			H: cellH,
		}
		if c.tall {
			r.H = 2*cellH + gap
		}
		if c.mini {
			const shrink = 0.72
			r.X += cellW * (1 - shrink) / 2
			r.Y += cellH * (1 - shrink) / 2
			r.W = cellW * shrink
			r.H = cellH * shrink
		}
		rects = append(rects, r)
	}
	return rects
}

const rainGlyphAlpha = 0.55

func (p *PresentationScreen) drawOverlay(dst *ebiten.Image) {
	ov := p.tracker.Overlay()
	fade := ov.Fade()
	if fade <= 0 {
		return
	}

	fg := p.tracker.ForegroundColor()
	accent := p.tracker.AccentColor()
	face := GetFace(OverlayGlyphSize)

	for _, d := range ov.Drops() {
		drawGlyph(dst, face, d.Glyph, d.X, d.Y, d.Rot, d.Scale, fade*rainGlyphAlpha, fg)
	}
	for _, s := range ov.Sparks() {
		drawGlyph(dst, face, s.Glyph, s.X, s.Y, s.Rot, s.RenderScale(), fade*s.Alpha(), accent)
	}
	for _, s := range ov.Stars() {
		c := fadeColor(fg, fade*s.Alpha())
		vector.DrawFilledCircle(dst, float32(s.X), float32(s.Y), float32(s.Scale), c, true)
	}
}

func drawGlyph(dst *ebiten.Image, face *text.GoTextFace, glyph rune, x, y, rot, scale, alpha float64, clr color.RGBA) {
	if alpha <= 0 {
		return
	}
	g := string(glyph)
	w, h := text.Measure(g, face, 0)
	op := &text.DrawOptions{}
	op.GeoM.Translate(-w/2, -h/2)
	op.GeoM.Rotate(rot)
	op.GeoM.Scale(scale, scale)
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(clr)
	op.ColorScale.ScaleAlpha(float32(alpha))
	text.Draw(dst, g, face, op)
}

func (p *PresentationScreen) drawDots(dst *ebiten.Image) {
	n := len(p.tracker.Slides())
	if n < 2 {
		return
	}
	fg := p.tracker.ForegroundColor()
	y := float64(ScreenHeight - DotMarginBottom)
	totalW := float64((n - 1) * DotGap)
	x0 := (float64(ScreenWidth) - totalW) / 2

	for i := 0; i < n; i++ {
		x := x0 + float64(i*DotGap)
		vector.DrawFilledCircle(dst, float32(x), float32(y), DotRadius, fadeColor(fg, 0.35), true)
	}
	ix := x0 + p.dotPos*DotGap
	vector.DrawFilledCircle(dst, float32(ix), float32(y), DotRadius+2, p.tracker.AccentColor(), true)
}

func (p *PresentationScreen) drawToast(dst *ebiten.Image) {
	if p.toastTimer <= 0 || p.toast == "" {
		return
	}
	w, h := MeasureText(p.toast, FontSizeBody)
	padX, padY := 18.0, 10.0
	bw := w + padX*2
	bh := h + padY*2
	x := (float64(ScreenWidth) - bw) / 2
	y := 36.0
	vector.DrawFilledRect(dst, float32(x), float32(y), float32(bw), float32(bh), ColorOverlay, false)
	DrawText(dst, p.toast, x+padX, y+padY, FontSizeBody, ColorText)
}

// valueText returns what the slide's animation currently displays.
func valueText(s *deck.Slide) string {
	switch v := s.Value.(type) {
	case *deck.CountUpAnim:
		return v.Text()
	case *deck.TextRevealAnim:
		return v.Text()
	case *deck.StaticValue:
		return v.Text()
	case *deck.CryptoRevealAnim:
		if lines := v.Lines(); len(lines) > 0 {
			return lines[0].Title
		}
	}
	return s.Big
}

// fitTextSize shrinks size until txt measures within maxWidth.
func fitTextSize(txt string, size, maxWidth float64, bold bool) float64 {
	for size > SlideValueMinSize {
		var w float64
		if bold {
			w, _ = MeasureBoldText(txt, size)
		} else {
			w, _ = MeasureText(txt, size)
		}
		if w <= maxWidth {
			break
		}
		size *= 0.92
	}
	return size
}

// fadeColor scales a premultiplied color by alpha.
func fadeColor(c color.RGBA, alpha float64) color.RGBA {
	if alpha >= 1 {
		return c
	}
	if alpha < 0 {
		alpha = 0
	}
	return color.RGBA{
		R: uint8(float64(c.R) * alpha),
		G: uint8(float64(c.G) * alpha),
		B: uint8(float64(c.B) * alpha),
		A: uint8(float64(c.A) * alpha),
	}
}

func (p *PresentationScreen) debugLines() []string {
	st := p.tracker.State()
	ov := p.tracker.Overlay()
	lines := []string{
		fmt.Sprintf("offset %.1f -> target %.1f", st.Offset, st.Target),
		fmt.Sprintf("active %d  dominant %d  dragging %v  effects %v", st.Active, st.Dominant, st.Dragging, st.Effects),
		fmt.Sprintf("overlay %s  fade %.2f  entities %d", ov.Effect(), ov.Fade(), ov.Count()),
	}
	for i, v := range st.Visibility {
		if v > 0 {
			lines = append(lines, fmt.Sprintf("vis[%d] %.2f  %s", i, v, p.tracker.Slide(i).ID))
		}
	}
	if s := p.tracker.ActiveSlide(); s != nil {
		if cr, ok := s.Value.(*deck.CryptoRevealAnim); ok {
			lines = append(lines, fmt.Sprintf("reveal gen %d", cr.Counter().Gen()))
		}
	}
	return lines
}
