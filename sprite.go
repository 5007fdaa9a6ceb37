package grove

import "github.com/hajimehoshi/ebiten/v2"

// Drawable is the shape every depth-sortable element exposes, regardless of
// which renderer produced it.
type Drawable interface {
	Position() Vec2
	Size() Vec2
	DepthKey() int
	Category() Category
}

// Sprite is the pooled drawable used by every layer. A single flat struct is
// used for terrain, furniture, actors, shadows, and glows so that all of them
// can share one sort.
type Sprite struct {
	// X, Y is the top-left world pixel position; W, H the drawn size.
	X, Y, W, H float64

	// TextureKey resolves through the layer's TextureSource when Image is nil.
	TextureKey string
	// Image, when non-nil, is drawn directly (generated shadows and glows).
	Image *ebiten.Image

	Mirrored bool
	Alpha    float64
	Color    Color
	Blend    BlendMode
	Visible  bool

	category Category
	depthKey int
	depthY   float64 // exact depth line, tie-break within a depth key
	seen     uint64  // frame stamp of the last render pass that touched this sprite
}

var _ Drawable = (*Sprite)(nil)

// Position returns the top-left world pixel position.
func (s *Sprite) Position() Vec2 { return Vec2{s.X, s.Y} }

// Size returns the drawn size in world pixels.
func (s *Sprite) Size() Vec2 { return Vec2{s.W, s.H} }

// DepthKey returns the sort key; larger keys draw later (in front).
func (s *Sprite) DepthKey() int { return s.depthKey }

// Category returns the drawable family.
func (s *Sprite) Category() Category { return s.category }

// DepthLine returns the world tile Y used to compute the depth key.
func (s *Sprite) DepthLine() float64 { return s.depthY }

// Bounds returns the sprite's world-pixel rectangle.
func (s *Sprite) Bounds() Rect {
	return Rect{X: s.X, Y: s.Y, Width: s.W, Height: s.H}
}

// setDepth assigns the depth line and its key together.
func (s *Sprite) setDepth(depthLineY float64, key int) {
	s.depthY = depthLineY
	s.depthKey = key
}

// reset restores defaults for a freshly acquired pool slot.
func (s *Sprite) reset(cat Category) {
	*s = Sprite{
		Alpha:    1,
		Color:    ColorWhite,
		category: cat,
	}
}
