package grove

import (
	"fmt"
	"time"
)

// animatedAnchor is an on-screen anchor whose metadata has frames.
type animatedAnchor struct {
	at   TileCoord
	meta *SpriteMetadata
}

// EntityRenderer draws terrain decorations, furniture, and actors on one
// depth-sorted surface, so a tall tree's canopy can cover an actor standing
// behind it while an actor in front covers the trunk.
//
// Sprites are pooled per anchor tile and per actor ID. Sprites that leave
// the view are hidden, not destroyed; only Clear destroys them.
type EntityRenderer struct {
	Layer

	registry *MetadataRegistry
	tiles    TileSource
	tileSize float64

	anchors    spritePool[TileCoord]
	actorPool  spritePool[string]
	actors     []*Actor
	anims      animator[TileCoord]
	actorAnims animator[string]
	animated   []animatedAnchor

	env     Environment
	frame   uint64
	visible int
}

// NewEntityRenderer creates a renderer for tiles described by reg. Textures
// are resolved through textures at draw time.
func NewEntityRenderer(reg *MetadataRegistry, tiles TileSource, textures TextureSource, tileSize float64) *EntityRenderer {
	if reg == nil {
		panic("grove: NewEntityRenderer requires a metadata registry")
	}
	if tileSize <= 0 {
		panic(fmt.Sprintf("grove: invalid tile size %v", tileSize))
	}
	return &EntityRenderer{
		Layer:      newLayer("entities", textures),
		registry:   reg,
		tiles:      tiles,
		tileSize:   tileSize,
		anims:      newAnimator[TileCoord](nil),
		actorAnims: newAnimator[string](nil),
	}
}

// SetClock replaces the clock used by UpdateAnimations.
func (r *EntityRenderer) SetClock(now func() time.Time) {
	r.anims = newAnimator[TileCoord](now)
	r.actorAnims = newAnimator[string](now)
}

// SetTiles replaces the tile source. Callers changing maps should use
// World.ChangeMap, which also clears the pools.
func (r *EntityRenderer) SetTiles(tiles TileSource) {
	r.tiles = tiles
}

// SetActors replaces the actor list.
func (r *EntityRenderer) SetActors(actors ...*Actor) {
	r.actors = append(r.actors[:0], actors...)
}

// AddActor appends an actor.
func (r *EntityRenderer) AddActor(a *Actor) {
	r.actors = append(r.actors, a)
}

// RemoveActor removes the actor with the given ID. Its pooled sprite is
// hidden on the next Render.
func (r *EntityRenderer) RemoveActor(id string) {
	for i, a := range r.actors {
		if a.ID == id {
			r.actors = append(r.actors[:i], r.actors[i+1:]...)
			r.actorAnims.forget(id)
			return
		}
	}
}

// Actors returns the current actor list. The returned slice MUST NOT be mutated.
func (r *EntityRenderer) Actors() []*Actor {
	return r.actors
}

// Render rebuilds the sorted surface for the tiles in rng.
func (r *EntityRenderer) Render(rng VisibleRange, env Environment) {
	r.frame++
	r.env = env
	r.begin()
	r.animated = r.animated[:0]

	if r.tiles != nil {
		w, h := r.tiles.Size()
		ext := rng.Expand(footprintMargin(r.registry), w, h)
		scanAnchors(r.tiles, r.registry, ext, r.placeAnchor)
	}
	for _, a := range r.actors {
		if a.Visible {
			r.placeActor(a)
		}
	}

	r.visible = r.anchors.hideStale(r.frame) + r.actorPool.hideStale(r.frame)
	r.sort()
}

func (r *EntityRenderer) placeAnchor(at TileCoord, m *SpriteMetadata) {
	s, _ := r.anchors.get(at, m.category())
	s.seen = r.frame

	animFrame := 0
	if m.Animation != nil && len(m.Animation.Frames) > 0 {
		animFrame = r.anims.frame(at)
		r.animated = append(r.animated, animatedAnchor{at: at, meta: m})
	}
	s.TextureKey = m.ResolveImage(at.X, at.Y, r.env.Season, r.env.TimeOfDay, animFrame)
	s.Visible = s.TextureKey != ""
	if !s.Visible {
		return
	}

	ts := r.tileSize
	s.X = (float64(at.X) + m.OffsetX) * ts
	s.Y = (float64(at.Y) + m.OffsetY) * ts
	s.W = m.Width * ts
	s.H = m.Height * ts
	s.setDepth(m.DepthLine(float64(at.Y)), m.DepthKeyAt(float64(at.Y)))
	r.push(s)
}

func (r *EntityRenderer) placeActor(a *Actor) {
	s, _ := r.actorPool.get(a.ID, a.Category)
	s.seen = r.frame
	s.category = a.Category
	s.TextureKey = a.TextureKey()
	s.Visible = s.TextureKey != ""
	if !s.Visible {
		return
	}

	ts := r.tileSize
	s.X = (a.X - a.Width/2) * ts
	s.Y = (a.Y - a.Height/2) * ts
	s.W = a.Width * ts
	s.H = a.Height * ts
	s.Mirrored = a.Mirrored()
	s.setDepth(a.DepthLine(), a.DepthKey())
	r.push(s)
}

// UpdateAnimations advances animated anchors and moving actors by the
// wall-clock time since their last frame change.
func (r *EntityRenderer) UpdateAnimations() {
	now := r.anims.now()
	for _, e := range r.animated {
		frame, changed := r.anims.step(e.at, now, e.meta.Animation.FrameDuration(), len(e.meta.Animation.Frames))
		if !changed {
			continue
		}
		if s, ok := r.anchors.lookup(e.at); ok {
			s.TextureKey = e.meta.ResolveImage(e.at.X, e.at.Y, r.env.Season, r.env.TimeOfDay, frame)
		}
	}

	for _, a := range r.actors {
		if !a.Moving || len(a.Frames) <= 1 {
			if !a.Moving {
				a.Frame = 0
				r.actorAnims.forget(a.ID)
			}
			continue
		}
		frame, changed := r.actorAnims.step(a.ID, now, a.frameDuration(), len(a.Frames))
		if !changed {
			continue
		}
		a.Frame = frame
		if s, ok := r.actorPool.lookup(a.ID); ok && s.Visible {
			s.TextureKey = a.TextureKey()
			s.Mirrored = a.Mirrored()
		}
	}
}

// AnchorSprite returns the pooled sprite for the anchor at (x, y).
func (r *EntityRenderer) AnchorSprite(x, y int) (*Sprite, bool) {
	return r.anchors.lookup(TileCoord{x, y})
}

// ActorSprite returns the pooled sprite for the actor with the given ID.
func (r *EntityRenderer) ActorSprite(id string) (*Sprite, bool) {
	return r.actorPool.lookup(id)
}

// Clear destroys every pooled sprite and animation gate.
func (r *EntityRenderer) Clear() {
	r.anchors.reset()
	r.actorPool.reset()
	r.anims.reset()
	r.actorAnims.reset()
	r.animated = r.animated[:0]
	r.begin()
	r.visible = 0
}

// Stats returns pool and draw counters for the last frame.
func (r *EntityRenderer) Stats() Stats {
	return Stats{
		Layer:   r.name,
		Total:   r.anchors.len() + r.actorPool.len(),
		Visible: r.visible,
		Drawn:   r.drawn,
	}
}

var _ Renderer = (*EntityRenderer)(nil)
