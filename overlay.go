package grove

import (
	"fmt"
	"image/color"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// debugOverlayRefresh is how often the counters text is rebuilt.
const debugOverlayRefresh = 500 * time.Millisecond

// debugOverlay draws FPS, clock, and per-layer counters in the top-left
// corner. The panel is redrawn at most every debugOverlayRefresh.
type debugOverlay struct {
	img        *ebiten.Image
	lastUpdate time.Time
	op         ebiten.DrawImageOptions
}

func newDebugOverlay() *debugOverlay {
	return &debugOverlay{img: ebiten.NewImage(220, 128)}
}

func (o *debugOverlay) draw(screen *ebiten.Image, w *World, stats []Stats) {
	if o == nil {
		return
	}
	if now := time.Now(); now.Sub(o.lastUpdate) >= debugOverlayRefresh {
		o.lastUpdate = now
		o.img.Clear()
		// Semi-transparent background for readability
		o.img.Fill(color.RGBA{0, 0, 0, 128})
		ebitenutil.DebugPrintAt(o.img, overlayText(w, stats), 4, 2)
	}
	o.op.GeoM.Reset()
	o.op.GeoM.Translate(4, 4)
	screen.DrawImage(o.img, &o.op)
}

// overlayText is the counters panel content.
func overlayText(w *World, stats []Stats) string {
	env := w.env
	s := fmt.Sprintf("FPS: %.1f TPS: %.1f\n%s %05.2fh %s\n%s %s\n",
		ebiten.ActualFPS(), ebiten.ActualTPS(),
		env.Season, env.Hour, env.TimeOfDay, env.Weather, env.Biome)
	for _, st := range stats {
		s += fmt.Sprintf("%-9s %4d/%4d/%4d\n", st.Layer, st.Total, st.Visible, st.Drawn)
	}
	return s
}
