package grove

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// RunConfig configures the window opened by Run.
type RunConfig struct {
	Title string
	// Width and Height are the window size. Zero uses the world's viewport.
	Width, Height int
	// Resizable lets the user resize the window; the viewport follows.
	Resizable bool
	// Debug enables debug mode on the world before the loop starts.
	Debug bool
}

// Run opens a window and drives w until the window closes.
//
// For full control, call World.Update and World.Draw from your own
// ebiten.Game, or wrap World.Game.
func Run(w *World, cfg RunConfig) error {
	width, height := cfg.Width, cfg.Height
	if width <= 0 || height <= 0 {
		width, height = w.cfg.ViewportWidth, w.cfg.ViewportHeight
	}
	if cfg.Title != "" {
		ebiten.SetWindowTitle(cfg.Title)
	}
	ebiten.SetWindowSize(width, height)
	if cfg.Resizable {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	}
	w.SetViewportSize(width, height)
	if cfg.Debug {
		w.SetDebugMode(true)
	}
	return ebiten.RunGame(w.Game())
}
