package grove

import (
	"fmt"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

// ShadowParams is the sun-derived shadow shape for one frame. Offsets are in
// tiles from the caster's ground contact.
type ShadowParams struct {
	OffsetX float64
	OffsetY float64
	// Stretch multiplies the shadow's length along X. 1 is unstretched.
	Stretch float64
	Alpha   float64
	Visible bool
}

// ShadowConfig tunes the sun model and the shadow shapes.
type ShadowConfig struct {
	// BaseAlpha is the daytime shadow opacity before the seasonal modifier.
	BaseAlpha float64
	// AmbientAlpha is the faint, directionless shadow drawn at night.
	AmbientAlpha float64

	// MaxOffsetX is the horizontal offset at sunrise/sunset, in tiles.
	MaxOffsetX float64
	// MaxOffsetY is the vertical offset at sunrise/sunset, in tiles. The
	// offset is zero at solar noon.
	MaxOffsetY float64

	MinStretch float64 // at solar noon
	MaxStretch float64 // at sunrise/sunset and through twilight

	// WidthRatio and HeightRatio size the ellipse relative to the caster's
	// pixel width when its metadata has no override.
	WidthRatio  float64
	HeightRatio float64

	// BlurRadius softens the ellipse edge, in pixels.
	BlurRadius int

	// SeasonalModifier scales the final alpha per season. Missing seasons use 1.
	SeasonalModifier map[Season]float64

	Daylight DaylightTable
}

// DefaultShadowConfig returns the stock sun model.
func DefaultShadowConfig() ShadowConfig {
	return ShadowConfig{
		BaseAlpha:    0.35,
		AmbientAlpha: 0.08,
		MaxOffsetX:   0.6,
		MaxOffsetY:   0.25,
		MinStretch:   1.0,
		MaxStretch:   2.2,
		WidthRatio:   0.8,
		HeightRatio:  0.3,
		BlurRadius:   4,
		SeasonalModifier: map[Season]float64{
			Spring: 1.0,
			Summer: 1.1,
			Autumn: 0.9,
			Winter: 0.7,
		},
		Daylight: DefaultDaylightTable(),
	}
}

func (c *ShadowConfig) seasonalModifier(s Season) float64 {
	if m, ok := c.SeasonalModifier[s]; ok {
		return m
	}
	return 1
}

// ComputeShadowParams derives the shadow shape for hour in season.
//
// Before dawn and from dusk the shadow is a faint ambient blob with no
// direction. Between dawn and sunrise the alpha ramps up from 0 with the
// shadow thrown west; between sunset and dusk it ramps back down to 0 with
// the shadow thrown east. During the day the sun angle sweeps from -pi/2 to
// pi/2 and the shadow is shortest at solar noon. Sun-blocking weather hides
// every shadow.
func ComputeShadowParams(hour float64, season Season, weather Weather, cfg ShadowConfig) ShadowParams {
	if weather.BlocksSun() {
		return ShadowParams{Stretch: 1}
	}
	d := cfg.Daylight.For(season)
	h := wrapHour(hour)

	var p ShadowParams
	switch {
	case h < d.Dawn || h >= d.Dusk:
		p = ShadowParams{Stretch: 1, Alpha: cfg.AmbientAlpha}
	case h < d.Sunrise:
		t := ramp(h, d.Dawn, d.Sunrise)
		p = ShadowParams{
			OffsetX: -cfg.MaxOffsetX,
			OffsetY: cfg.MaxOffsetY,
			Stretch: cfg.MaxStretch,
			Alpha:   cfg.BaseAlpha * t,
		}
	case h >= d.Sunset:
		t := ramp(h, d.Sunset, d.Dusk)
		p = ShadowParams{
			OffsetX: cfg.MaxOffsetX,
			OffsetY: cfg.MaxOffsetY,
			Stretch: cfg.MaxStretch,
			Alpha:   cfg.BaseAlpha * (1 - t),
		}
	default:
		progress := (h - d.Sunrise) / (d.Sunset - d.Sunrise)
		angle := (progress - 0.5) * math.Pi
		noon := 1 - math.Abs(progress-0.5)*2
		p = ShadowParams{
			OffsetX: math.Sin(angle) * cfg.MaxOffsetX,
			OffsetY: cfg.MaxOffsetY * (1 - noon),
			Stretch: cfg.MinStretch + (cfg.MaxStretch-cfg.MinStretch)*(1-noon),
			Alpha:   cfg.BaseAlpha,
		}
	}

	p.Alpha = clamp01(p.Alpha * cfg.seasonalModifier(season))
	p.Visible = p.Alpha > 0
	return p
}

// ramp returns where h sits in [from, to) as a value in [0, 1].
func ramp(h, from, to float64) float64 {
	if to <= from {
		return 1
	}
	return clamp01((h - from) / (to - from))
}

// shapeKey identifies a cached shadow ellipse by its unpadded pixel size.
type shapeKey struct{ w, h int }

// ShadowCaster draws one soft elliptical shadow under every foreground
// sprite and shadow-casting actor. It owns its own pools, keyed like the
// entity renderer's, and is drawn beneath it.
type ShadowCaster struct {
	Layer

	Config ShadowConfig

	registry *MetadataRegistry
	tiles    TileSource
	tileSize float64

	anchors   spritePool[TileCoord]
	actorPool spritePool[string]
	actors    []*Actor

	blur   *BlurFilter
	shapes map[shapeKey]*ebiten.Image
	params ShadowParams

	frame   uint64
	visible int
}

// NewShadowCaster creates a caster for tiles described by reg.
func NewShadowCaster(reg *MetadataRegistry, tiles TileSource, tileSize float64, cfg ShadowConfig) *ShadowCaster {
	if reg == nil {
		panic("grove: NewShadowCaster requires a metadata registry")
	}
	if tileSize <= 0 {
		panic(fmt.Sprintf("grove: invalid tile size %v", tileSize))
	}
	if cfg.Daylight == nil {
		cfg.Daylight = DefaultDaylightTable()
	}
	return &ShadowCaster{
		Layer:    newLayer("shadows", nil),
		Config:   cfg,
		registry: reg,
		tiles:    tiles,
		tileSize: tileSize,
		blur:     NewBlurFilter(cfg.BlurRadius),
		shapes:   make(map[shapeKey]*ebiten.Image),
	}
}

// SetTiles replaces the tile source.
func (c *ShadowCaster) SetTiles(tiles TileSource) {
	c.tiles = tiles
}

// SetActors replaces the actors that may cast shadows.
func (c *ShadowCaster) SetActors(actors ...*Actor) {
	c.actors = append(c.actors[:0], actors...)
}

// Params returns the shadow parameters used by the last Render.
func (c *ShadowCaster) Params() ShadowParams {
	return c.params
}

// Render recomputes the sun model for env and places a shadow under every
// eligible caster in rng.
func (c *ShadowCaster) Render(rng VisibleRange, env Environment) {
	c.frame++
	c.begin()
	c.params = ComputeShadowParams(env.Hour, env.Season, env.Weather, c.Config)

	if c.params.Visible {
		if c.tiles != nil {
			w, h := c.tiles.Size()
			ext := rng.Expand(footprintMargin(c.registry), w, h)
			scanAnchors(c.tiles, c.registry, ext, c.placeAnchor)
		}
		for _, a := range c.actors {
			if a.Visible && a.CastsShadow {
				c.placeActor(a)
			}
		}
	}

	c.visible = c.anchors.hideStale(c.frame) + c.actorPool.hideStale(c.frame)
	c.sort()
}

func (c *ShadowCaster) placeAnchor(at TileCoord, m *SpriteMetadata) {
	if !m.CastsShadow() {
		return
	}
	wr, hr := c.Config.WidthRatio, c.Config.HeightRatio
	if m.Shadow != nil {
		if m.Shadow.WidthRatio > 0 {
			wr = m.Shadow.WidthRatio
		}
		if m.Shadow.HeightRatio > 0 {
			hr = m.Shadow.HeightRatio
		}
	}
	s, _ := c.anchors.get(at, CategoryShadow)
	contactX := float64(at.X) + m.OffsetX + m.Width/2
	contactY := m.DepthLine(float64(at.Y))
	c.place(s, contactX, contactY, m.Width*c.tileSize, wr, hr)
}

func (c *ShadowCaster) placeActor(a *Actor) {
	s, _ := c.actorPool.get(a.ID, CategoryShadow)
	c.place(s, a.X, a.DepthLine(), a.Width*c.tileSize, c.Config.WidthRatio, c.Config.HeightRatio)
}

// place sizes s from the caster's pixel width and centers it on the ground
// contact (cx, cy) in tiles plus the current sun offset.
func (c *ShadowCaster) place(s *Sprite, cx, cy, casterW, wr, hr float64) {
	s.seen = c.frame
	w := max(int(math.Round(casterW*wr)), 1)
	h := max(int(math.Round(casterW*hr)), 1)
	img := c.shape(w, h)
	b := img.Bounds()

	ts := c.tileSize
	p := c.params
	s.Image = img
	s.W = float64(b.Dx()) * p.Stretch
	s.H = float64(b.Dy())
	s.X = (cx+p.OffsetX)*ts - s.W/2
	s.Y = (cy+p.OffsetY)*ts - s.H/2
	s.Alpha = p.Alpha
	s.Color = ColorBlack
	s.Visible = true
	s.setDepth(cy, DepthKey(cy))
	c.push(s)
}

// shape returns the blurred ellipse for a w x h footprint, generating and
// caching it on first use.
func (c *ShadowCaster) shape(w, h int) *ebiten.Image {
	key := shapeKey{w, h}
	if img, ok := c.shapes[key]; ok {
		return img
	}
	pad := c.blur.Padding()
	src := generateEllipse(w, h, pad)
	img := src
	if pad > 0 {
		img = ebiten.NewImage(src.Bounds().Dx(), src.Bounds().Dy())
		c.blur.Apply(src, img)
		src.Deallocate()
	}
	c.shapes[key] = img
	Logger().Debug("shadow shape generated", "w", w, "h", h, "cached", len(c.shapes))
	return img
}

// Clear destroys every pooled shadow. Cached shapes are kept; they do not
// depend on the map.
func (c *ShadowCaster) Clear() {
	c.anchors.reset()
	c.actorPool.reset()
	c.begin()
	c.visible = 0
}

// Stats returns pool and draw counters for the last frame.
func (c *ShadowCaster) Stats() Stats {
	return Stats{
		Layer:   c.name,
		Total:   c.anchors.len() + c.actorPool.len(),
		Visible: c.visible,
		Drawn:   c.drawn,
	}
}

// Dispose releases cached shapes and blur scratch images.
func (c *ShadowCaster) Dispose() {
	for _, img := range c.shapes {
		img.Deallocate()
	}
	clear(c.shapes)
	c.blur.Dispose()
}

var _ Renderer = (*ShadowCaster)(nil)

// generateEllipse creates a solid white ellipse of w x h pixels centered in
// an image padded by pad on every side. Edge pixels are antialiased by
// coverage; alpha is premultiplied.
func generateEllipse(w, h, pad int) *ebiten.Image {
	iw, ih := w+2*pad, h+2*pad
	img := ebiten.NewImage(iw, ih)
	pix := make([]byte, iw*ih*4)

	rx, ry := float64(w)/2, float64(h)/2
	cx, cy := float64(iw)/2, float64(ih)/2
	for y := range ih {
		for x := range iw {
			dx := (float64(x) + 0.5 - cx) / rx
			dy := (float64(y) + 0.5 - cy) / ry
			d := math.Sqrt(dx*dx + dy*dy)
			// one pixel of falloff measured along the shorter radius
			alpha := clamp01((1-d)*math.Min(rx, ry) + 0.5)
			a := uint8(alpha * 255)
			off := (y*iw + x) * 4
			pix[off+0] = a
			pix[off+1] = a
			pix[off+2] = a
			pix[off+3] = a
		}
	}
	img.WritePixels(pix)
	return img
}
