package ui

import (
	"log"
	"math"
	"sync"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/bmadison/classwrap/internal/deck"
	"github.com/bmadison/classwrap/internal/recap"
)

const jobPollInterval = 2 * time.Second

// LoadingScreen follows a queued recap job until its record arrives, then
// replaces itself with the screen OnDone builds. Status updates come over
// the job's websocket stream, with plain polling as the fallback.
type LoadingScreen struct {
	client *recap.Client
	jobID  string

	// OnDone builds the follow-up screen from the finished record.
	OnDone func(*deck.DataRecord) Screen

	mu      sync.Mutex
	status  recap.Status
	message string
	record  *deck.DataRecord

	started bool
	spin    float64
	errors  ErrorDisplay
}

func NewLoadingScreen(client *recap.Client, jobID string) *LoadingScreen {
	return &LoadingScreen{
		client: client,
		jobID:  jobID,
		status: recap.StatusQueued,
	}
}

func (l *LoadingScreen) Name() string { return "Loading" }

func (l *LoadingScreen) OnEnter() {
	if l.started {
		return
	}
	l.started = true
	go l.watch()
}

func (l *LoadingScreen) OnExit() {}

func (l *LoadingScreen) watch() {
	if _, err := l.client.Stream(l.jobID, l.apply); err != nil {
		log.Printf("Status stream unavailable, polling instead: %v", err)
		l.poll()
	}
}

func (l *LoadingScreen) poll() {
	for {
		l.mu.Lock()
		done := l.status.Terminal()
		l.mu.Unlock()
		if done {
			return
		}

		job, err := l.client.Job(l.jobID)
		if err != nil {
			l.mu.Lock()
			l.message = err.Error()
			l.mu.Unlock()
			return
		}
		l.apply(job)
		if job.Status.Terminal() {
			return
		}
		time.Sleep(jobPollInterval)
	}
}

func (l *LoadingScreen) apply(job *recap.Job) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.status = job.Status
	switch job.Status {
	case recap.StatusDone:
		if job.Record == nil {
			l.message = "job finished without a payload"
			return
		}
		l.record = job.Record
	case recap.StatusError:
		l.message = job.Error
		if l.message == "" {
			l.message = "recap job failed"
		}
	}
}

func (l *LoadingScreen) retry() {
	l.mu.Lock()
	l.message = ""
	l.status = recap.StatusQueued
	l.mu.Unlock()
	go l.watch()
}

func (l *LoadingScreen) Update() (*ScreenTransition, error) {
	l.spin += 0.09

	l.mu.Lock()
	record := l.record
	message := l.message
	l.mu.Unlock()

	if record != nil && l.OnDone != nil {
		return &ScreenTransition{Type: TransitionReplace, Screen: l.OnDone(record)}, nil
	}

	if message != "" {
		if inpututil.IsKeyJustPressed(ebiten.KeyR) {
			l.retry()
		}
		if mx, my, ok := MouseJustClicked(); ok {
			l.errors.HandleClick(mx, my, message)
		}
	}
	return nil, nil
}

func (l *LoadingScreen) Draw(dst *ebiten.Image) {
	l.mu.Lock()
	status := l.status
	message := l.message
	l.mu.Unlock()

	cx := float64(ScreenWidth) / 2
	DrawBoldTextCentered(dst, "ClassWrap", cx, 320, 72, ColorPrimary)

	if message != "" {
		const panelW = 920.0
		drawErrorPanel(dst, &l.errors, message, (float64(ScreenWidth)-panelW)/2, 480, panelW)
		DrawTextCentered(dst, "press R to retry", cx, 760, FontSizeSmall, ColorTextSecondary)
		return
	}

	// Eight dots with a brightness wave chasing around the circle.
	const dots = 8
	for i := 0; i < dots; i++ {
		angle := float64(i) * 2 * math.Pi / dots
		x := cx + 60*math.Cos(angle)
		y := 520 + 60*math.Sin(angle)
		a := 0.25 + 0.75*(0.5+0.5*math.Sin(l.spin-angle))
		vector.DrawFilledCircle(dst, float32(x), float32(y), 8, fadeColor(ColorPrimary, a), true)
	}

	DrawTextCentered(dst, statusLine(status), cx, 660, FontSizeHeading, ColorText)
	DrawTextCentered(dst, "job "+l.jobID, cx, 706, FontSizeCaption, ColorTextMuted)
}

func statusLine(s recap.Status) string {
	switch s {
	case recap.StatusQueued:
		return "waiting in line..."
	case recap.StatusRunning:
		return "crunching your year..."
	case recap.StatusDone:
		return "ready!"
	default:
		return string(s)
	}
}

// ErrorScreen shows a fatal startup problem, such as an unreadable style
// file, when there is nothing to retry.
type ErrorScreen struct {
	message string
	errors  ErrorDisplay
}

func NewErrorScreen(message string) *ErrorScreen {
	return &ErrorScreen{message: message}
}

func (e *ErrorScreen) Name() string { return "Error" }
func (e *ErrorScreen) OnEnter()     {}
func (e *ErrorScreen) OnExit()      {}

func (e *ErrorScreen) Update() (*ScreenTransition, error) {
	if mx, my, ok := MouseJustClicked(); ok {
		e.errors.HandleClick(mx, my, e.message)
	}
	return nil, nil
}

func (e *ErrorScreen) Draw(dst *ebiten.Image) {
	cx := float64(ScreenWidth) / 2
	DrawBoldTextCentered(dst, "ClassWrap", cx, 320, 72, ColorPrimary)
	const panelW = 920.0
	drawErrorPanel(dst, &e.errors, e.message, (float64(ScreenWidth)-panelW)/2, 480, panelW)
}

// drawErrorPanel draws the shared error surface: a dim panel with a header,
// the wrapped message, and its copy button.
func drawErrorPanel(dst *ebiten.Image, ed *ErrorDisplay, message string, x, y, w float64) {
	const pad = 24.0
	textW := w - 2*pad
	textH := float64(len(WrapText(message, FontSizeBody, textW))) * FontSizeBody * 1.4
	panelH := pad + FontSizeHeading + 16 + textH + 10 + (FontSizeBody + 10) + pad

	vector.DrawFilledRect(dst, float32(x), float32(y), float32(w), float32(panelH), ColorSurface, false)
	vector.StrokeRect(dst, float32(x), float32(y), float32(w), float32(panelH), 1, ColorError, false)
	DrawBoldText(dst, "Something went wrong", x+pad, y+pad, FontSizeHeading, ColorError)
	ed.Draw(dst, message, x+pad, y+pad+FontSizeHeading+16, textW)
}
