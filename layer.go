package grove

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// TextureSource resolves texture keys to resident images. A nil image means
// the texture is not loaded yet; the sprite is skipped for that frame.
type TextureSource interface {
	Image(key string) *ebiten.Image
}

// Renderer is implemented by every layer a World draws.
type Renderer interface {
	// Render rebuilds the layer's drawables for the visible range.
	Render(rng VisibleRange, env Environment)
	// Draw submits the layer to dst.
	Draw(dst *ebiten.Image)
	// SetCameraState sets the camera used by Draw.
	SetCameraState(cam CameraState)
	// Clear destroys every pooled drawable. Called on map change.
	Clear()
	// Stats returns diagnostic counters from the most recent frame.
	Stats() Stats
}

// Stats are per-layer diagnostic counters.
type Stats struct {
	Layer   string
	Total   int // pooled drawables, visible or hidden
	Visible int // drawables visible after the last Render
	Drawn   int // drawables actually submitted by the last Draw
}

// Layer owns one depth-sortable drawing surface and applies the camera
// transform when drawing it. Concrete renderers embed Layer, push their
// visible sprites each frame, and let Layer sort and draw them.
type Layer struct {
	name string

	// Visible disables the whole layer when false.
	Visible bool
	// ScreenSpace layers ignore the camera offset and zoom.
	ScreenSpace bool

	camera   CameraState
	textures TextureSource

	list    []*Sprite
	sortBuf []*Sprite
	drawn   int

	op ebiten.DrawImageOptions
}

func newLayer(name string, textures TextureSource) Layer {
	return Layer{
		name:     name,
		Visible:  true,
		camera:   CameraState{Zoom: 1},
		textures: textures,
	}
}

// Name returns the layer name used in diagnostics.
func (l *Layer) Name() string { return l.name }

// SetCameraState sets the camera offset and zoom used by Draw.
func (l *Layer) SetCameraState(cam CameraState) {
	l.camera = cam
}

// CameraState returns the camera used by Draw.
func (l *Layer) CameraState() CameraState {
	return l.camera
}

// Sprites returns this frame's sorted surface. The returned slice MUST NOT
// be mutated.
func (l *Layer) Sprites() []*Sprite {
	return l.list
}

// Each calls fn for every drawable on the surface in draw order.
func (l *Layer) Each(fn func(Drawable)) {
	for _, s := range l.list {
		fn(s)
	}
}

// begin empties the surface for a new frame.
func (l *Layer) begin() {
	clear(l.list)
	l.list = l.list[:0]
}

// push adds a sprite to this frame's surface.
func (l *Layer) push(s *Sprite) {
	l.list = append(l.list, s)
}

// sort orders the surface back-to-front.
func (l *Layer) sort() {
	l.sortBuf = sortSprites(l.list, l.sortBuf)
}

// Draw submits every visible sprite on the surface to dst in sorted order.
func (l *Layer) Draw(dst *ebiten.Image) {
	l.drawn = 0
	if !l.Visible {
		return
	}
	view := l.viewRect(dst)
	for _, s := range l.list {
		if !s.Visible || s.Alpha <= 0 {
			continue
		}
		if !l.ScreenSpace && !s.Bounds().Intersects(view) {
			continue
		}
		img := s.Image
		if img == nil && l.textures != nil && s.TextureKey != "" {
			img = l.textures.Image(s.TextureKey)
		}
		if img == nil {
			continue
		}
		l.drawSprite(dst, s, img)
		l.drawn++
	}
}

// viewRect returns the world-pixel rectangle covered by dst.
func (l *Layer) viewRect(dst *ebiten.Image) Rect {
	b := dst.Bounds()
	z := l.camera.zoom()
	return Rect{
		X:      l.camera.X,
		Y:      l.camera.Y,
		Width:  float64(b.Dx()) / z,
		Height: float64(b.Dy()) / z,
	}
}

// drawSprite scales img to the sprite size, mirrors it if needed, and places
// it relative to the camera.
func (l *Layer) drawSprite(dst *ebiten.Image, s *Sprite, img *ebiten.Image) {
	op := &l.op
	op.GeoM.Reset()
	op.ColorScale.Reset()

	b := img.Bounds()
	iw, ih := float64(b.Dx()), float64(b.Dy())
	if iw == 0 || ih == 0 {
		return
	}
	if s.Mirrored {
		op.GeoM.Scale(-1, 1)
		op.GeoM.Translate(iw, 0)
	}
	op.GeoM.Scale(s.W/iw, s.H/ih)
	if l.ScreenSpace {
		op.GeoM.Translate(s.X, s.Y)
	} else {
		op.GeoM.Translate(s.X-l.camera.X, s.Y-l.camera.Y)
		z := l.camera.zoom()
		op.GeoM.Scale(z, z)
	}

	a := clamp01(s.Alpha * s.Color.A)
	op.ColorScale.Scale(
		float32(s.Color.R*a),
		float32(s.Color.G*a),
		float32(s.Color.B*a),
		float32(a),
	)
	op.Blend = s.Blend.EbitenBlend()
	op.Filter = ebiten.FilterNearest
	dst.DrawImage(img, op)
}
