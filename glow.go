package grove

import (
	"fmt"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

// GlowLayer draws additive halos for sprites whose metadata has a glow:
// lanterns, braziers, glowing mushrooms. It is drawn above the darkness
// overlay so lights punch through it.
type GlowLayer struct {
	Layer

	registry *MetadataRegistry
	tiles    TileSource
	tileSize float64

	anchors     spritePool[TileCoord]
	circleCache map[int]*ebiten.Image

	frame   uint64
	visible int
}

// NewGlowLayer creates a glow layer for tiles described by reg.
func NewGlowLayer(reg *MetadataRegistry, tiles TileSource, tileSize float64) *GlowLayer {
	if reg == nil {
		panic("grove: NewGlowLayer requires a metadata registry")
	}
	if tileSize <= 0 {
		panic(fmt.Sprintf("grove: invalid tile size %v", tileSize))
	}
	return &GlowLayer{
		Layer:    newLayer("glow", nil),
		registry: reg,
		tiles:    tiles,
		tileSize: tileSize,
	}
}

// SetTiles replaces the tile source.
func (g *GlowLayer) SetTiles(tiles TileSource) {
	g.tiles = tiles
}

// Render places a halo for every glowing anchor in rng. Night-only glows
// are hidden during the day.
func (g *GlowLayer) Render(rng VisibleRange, env Environment) {
	g.frame++
	g.begin()
	if g.tiles != nil {
		w, h := g.tiles.Size()
		ext := rng.Expand(footprintMargin(g.registry), w, h)
		scanAnchors(g.tiles, g.registry, ext, func(at TileCoord, m *SpriteMetadata) {
			if m.Glow == nil || m.Glow.Radius <= 0 || m.Glow.Intensity <= 0 {
				return
			}
			if m.Glow.NightOnly && env.TimeOfDay == Day {
				return
			}
			g.place(at, m)
		})
	}
	g.visible = g.anchors.hideStale(g.frame)
	g.sort()
}

func (g *GlowLayer) place(at TileCoord, m *SpriteMetadata) {
	s, _ := g.anchors.get(at, CategoryGlow)
	s.seen = g.frame

	ts := g.tileSize
	r := m.Glow.Radius * ts
	cx := (float64(at.X)+m.OffsetX+m.Width/2+m.Glow.OffsetX)*ts
	cy := (float64(at.Y)+m.OffsetY+m.Height/2+m.Glow.OffsetY)*ts

	s.Image = g.getCircle(r)
	s.X, s.Y = cx-r, cy-r
	s.W, s.H = r*2, r*2
	s.Color = m.Glow.Color
	if s.Color == (Color{}) {
		s.Color = ColorWhite
	}
	s.Alpha = clamp01(m.Glow.Intensity)
	s.Blend = BlendAdd
	s.Visible = true
	s.setDepth(m.DepthLine(float64(at.Y)), m.DepthKeyAt(float64(at.Y)))
	g.push(s)
}

// getCircle returns a cached circle texture for the given radius, generating
// one if it doesn't exist. Radius is quantized to the nearest integer to
// avoid generating separate textures for tiny differences.
func (g *GlowLayer) getCircle(radius float64) *ebiten.Image {
	key := max(int(math.Ceil(radius)), 1)
	if g.circleCache == nil {
		g.circleCache = make(map[int]*ebiten.Image)
	}
	if img, ok := g.circleCache[key]; ok {
		return img
	}
	img := generateCircle(float64(key))
	g.circleCache[key] = img
	return img
}

// Clear destroys every pooled halo. Cached circles are kept.
func (g *GlowLayer) Clear() {
	g.anchors.reset()
	g.begin()
	g.visible = 0
}

// Stats returns pool and draw counters for the last frame.
func (g *GlowLayer) Stats() Stats {
	return Stats{
		Layer:   g.name,
		Total:   g.anchors.len(),
		Visible: g.visible,
		Drawn:   g.drawn,
	}
}

// Dispose releases the cached circles.
func (g *GlowLayer) Dispose() {
	for _, img := range g.circleCache {
		img.Deallocate()
	}
	g.circleCache = nil
}

var _ Renderer = (*GlowLayer)(nil)

// generateCircle creates a feathered white circle image with the given radius.
// Uses smoothstep falloff and premultiplied alpha.
func generateCircle(radius float64) *ebiten.Image {
	size := max(int(math.Ceil(radius*2)), 1)
	img := ebiten.NewImage(size, size)
	pix := make([]byte, size*size*4)

	cx, cy := radius, radius
	for y := range size {
		for x := range size {
			dx := float64(x) + 0.5 - cx
			dy := float64(y) + 0.5 - cy
			dist := math.Sqrt(dx*dx+dy*dy) / radius

			var alpha float64
			if dist < 1 {
				// smoothstep: 1 at center, 0 at edge
				t := 1 - dist
				alpha = t * t * (3 - 2*t)
			}

			a := uint8(alpha * 255)
			off := (y*size + x) * 4
			pix[off+0] = a
			pix[off+1] = a
			pix[off+2] = a
			pix[off+3] = a
		}
	}
	img.WritePixels(pix)
	return img
}
