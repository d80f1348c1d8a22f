package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/bmadison/classwrap/assets/fonts"
	"github.com/bmadison/classwrap/assets/icon"
	"github.com/bmadison/classwrap/internal/app"
	"github.com/bmadison/classwrap/internal/config"
	"github.com/bmadison/classwrap/internal/deck"
	"github.com/bmadison/classwrap/internal/recap"
	"github.com/bmadison/classwrap/internal/ui"
)

func main() {
	var (
		file   = flag.String("file", "", "play a recap record from a JSON file")
		job    = flag.String("job", "", "follow a queued recap job by id")
		embed  = flag.Bool("embed", false, "hide the scroll hint for embedded hosting")
		server = flag.String("server", "", "override the recap service URL")
	)
	flag.Parse()

	// Load config
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *server != "" {
		cfg.Server.URL = *server
	}

	// Init fonts
	if err := ui.InitFonts(fonts.Regular, fonts.Bold); err != nil {
		log.Fatalf("Failed to init fonts: %v", err)
	}

	game := app.NewGame(cfg)

	// A broken style sheet still gets a window, showing what went wrong.
	styles, stylesErr := loadStyles(cfg)

	switch {
	case stylesErr != nil:
		game.Screens.Push(ui.NewErrorScreen(stylesErr.Error()))

	case *file != "":
		rec, err := readRecord(*file)
		if err != nil {
			game.Screens.Push(ui.NewErrorScreen(err.Error()))
			break
		}
		game.Screens.Push(ui.NewPresentationScreen(cfg, deck.Build(styles, rec, *embed)))

	case *job != "":
		loading := ui.NewLoadingScreen(recap.NewClient(cfg.Server.URL), *job)
		loading.OnDone = func(rec *deck.DataRecord) ui.Screen {
			return ui.NewPresentationScreen(cfg, deck.Build(styles, rec, *embed))
		}
		game.Screens.Push(loading)

	default:
		fmt.Fprintln(os.Stderr, "classwrap: need -file or -job")
		flag.Usage()
		os.Exit(2)
	}

	// Configure window
	ebiten.SetWindowSize(cfg.UI.Width, cfg.UI.Height)
	ebiten.SetWindowTitle("ClassWrap")
	ebiten.SetWindowIcon(icon.Generate())
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	if cfg.UI.Fullscreen {
		ebiten.SetFullscreen(true)
	}

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}

// loadStyles resolves the deck style sheet: a configured file wins, empty
// means the built-in deck.
func loadStyles(cfg *config.Config) (*deck.StyleSheet, error) {
	if cfg.Deck.Styles != "" {
		return deck.StylesFromFile(cfg.Deck.Styles)
	}
	return deck.DefaultStyles()
}

func readRecord(path string) (*deck.DataRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading record: %w", err)
	}
	var rec deck.DataRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("parsing record %s: %w", path, err)
	}
	return &rec, nil
}
