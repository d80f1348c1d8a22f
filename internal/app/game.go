package app

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/bmadison/classwrap/internal/config"
	"github.com/bmadison/classwrap/internal/ui"
)

// Game implements ebiten.Game. It owns the screen stack and the few global
// key bindings that apply on every screen.
type Game struct {
	Config  *config.Config
	Screens *ui.ScreenManager
}

func NewGame(cfg *config.Config) *Game {
	return &Game{
		Config:  cfg,
		Screens: ui.NewScreenManager(),
	}
}

func (g *Game) Update() error {
	// Alt+Enter toggles fullscreen (works on all screens)
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) && ebiten.IsKeyPressed(ebiten.KeyAlt) {
		ebiten.SetFullscreen(!ebiten.IsFullscreen())
	}
	if ui.KeyJustPressed(g.Config.Keybinds.Fullscreen) {
		ebiten.SetFullscreen(!ebiten.IsFullscreen())
	}

	// F12 or the bound key toggles the debug overlay
	if inpututil.IsKeyJustPressed(ebiten.KeyF12) || ui.KeyJustPressed(g.Config.Keybinds.Debug) {
		ui.ToggleDebugOverlay()
	}

	if err := g.Screens.Update(); err != nil {
		return err
	}

	ui.UpdateInputState()
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(ui.ColorBackground)
	g.Screens.Draw(screen)
	ui.DrawDebugOverlay(screen)
}

// Layout pins the logical canvas; the OS window scales it.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return ui.ScreenWidth, ui.ScreenHeight
}
