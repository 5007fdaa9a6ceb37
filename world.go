package grove

import (
	"context"
	"fmt"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

// WorldConfig configures a World.
type WorldConfig struct {
	// TileSize is the edge of one tile in world pixels.
	TileSize float64
	// ViewportWidth and ViewportHeight are the screen size in pixels.
	ViewportWidth, ViewportHeight int
	// CullMargin grows the culled range by this many tiles on each side.
	CullMargin int

	Shadows  ShadowConfig
	Darkness DarknessConfig
}

// DefaultWorldConfig returns 32px tiles on a 640x360 viewport.
func DefaultWorldConfig() WorldConfig {
	return WorldConfig{
		TileSize:       32,
		ViewportWidth:  640,
		ViewportHeight: 360,
		CullMargin:     1,
		Shadows:        DefaultShadowConfig(),
		Darkness:       DefaultDarknessConfig(),
	}
}

// MapChange describes the map a World switched to.
type MapChange struct {
	Biome         string
	Width, Height int // tiles
}

// World owns the camera, the clock, and every layer, and runs them in order
// each frame: shadows, entities, darkness, glow.
type World struct {
	Camera   *Camera
	Clock    *WorldClock
	Textures *TextureCache

	Entities *EntityRenderer
	Shadows  *ShadowCaster
	Darkness *DarknessOverlay
	Glow     *GlowLayer

	// OnMapChange, if set, is called after ChangeMap has cleared every layer.
	OnMapChange func(MapChange)

	updateFunc func() error

	cfg      WorldConfig
	registry *MetadataRegistry
	tiles    TileSource
	layers   []Renderer

	weather Weather
	biome   string
	actors  []*Actor

	rng VisibleRange
	env Environment

	debug        bool
	debugOverlay *debugOverlay
	timings      frameTimings
}

// NewWorld creates a world drawing tiles described by reg with textures
// from cache. The world starts with no map; call ChangeMap before the first
// Update.
func NewWorld(reg *MetadataRegistry, cache *TextureCache, cfg WorldConfig) *World {
	if reg == nil {
		panic("grove: NewWorld requires a metadata registry")
	}
	if cache == nil {
		panic("grove: NewWorld requires a texture cache")
	}
	if cfg.TileSize <= 0 {
		panic(fmt.Sprintf("grove: invalid tile size %v", cfg.TileSize))
	}
	if cfg.Shadows.Daylight == nil {
		cfg.Shadows.Daylight = DefaultDaylightTable()
	}

	w := &World{
		Camera:   NewCamera(float64(cfg.ViewportWidth), float64(cfg.ViewportHeight)),
		Clock:    NewWorldClock(12, Spring),
		Textures: cache,
		Entities: NewEntityRenderer(reg, nil, cache, cfg.TileSize),
		Shadows:  NewShadowCaster(reg, nil, cfg.TileSize, cfg.Shadows),
		Darkness: NewDarknessOverlay(cfg.Darkness, cfg.ViewportWidth, cfg.ViewportHeight),
		Glow:     NewGlowLayer(reg, nil, cfg.TileSize),
		cfg:      cfg,
		registry: reg,
		rng:      emptyRange,
	}
	w.Clock.Daylight = cfg.Shadows.Daylight
	w.layers = []Renderer{w.Shadows, w.Entities, w.Darkness, w.Glow}
	return w
}

// Config returns the configuration the world was created with.
func (w *World) Config() WorldConfig {
	return w.cfg
}

// Registry returns the sprite metadata registry.
func (w *World) Registry() *MetadataRegistry {
	return w.registry
}

// Preload loads every texture the registry references.
func (w *World) Preload(ctx context.Context) error {
	return w.Textures.LoadBatch(ctx, w.registry.TextureKeys())
}

// ChangeMap switches to tiles in biome. Every pooled drawable in every layer
// is destroyed before this returns, so anchors from the old map can never
// be reused on the new one. Textures still loading for the old map finish
// into the cache but are never attached to a cleared drawable.
func (w *World) ChangeMap(tiles TileSource, biome string) {
	for _, l := range w.layers {
		l.Clear()
	}
	w.tiles = tiles
	w.biome = biome
	w.Entities.SetTiles(tiles)
	w.Shadows.SetTiles(tiles)
	w.Glow.SetTiles(tiles)
	w.rng = emptyRange

	var mw, mh int
	if tiles != nil {
		mw, mh = tiles.Size()
	}
	w.Camera.SetMapSize(float64(mw)*w.cfg.TileSize, float64(mh)*w.cfg.TileSize)
	Logger().Info("map changed", "biome", biome, "width", mw, "height", mh)
	if w.OnMapChange != nil {
		w.OnMapChange(MapChange{Biome: biome, Width: mw, Height: mh})
	}
}

// Tiles returns the current map.
func (w *World) Tiles() TileSource {
	return w.tiles
}

// SetWeather sets the current weather.
func (w *World) SetWeather(weather Weather) {
	w.weather = weather
}

// Weather returns the current weather.
func (w *World) Weather() Weather {
	return w.weather
}

// SetBiome changes the biome without changing the map.
func (w *World) SetBiome(biome string) {
	w.biome = biome
}

// SetActors replaces the player and NPCs drawn by the world.
func (w *World) SetActors(actors ...*Actor) {
	w.actors = append(w.actors[:0], actors...)
	w.Entities.SetActors(w.actors...)
	w.Shadows.SetActors(w.actors...)
}

// AddActor adds one actor.
func (w *World) AddActor(a *Actor) {
	w.SetActors(append(w.actors, a)...)
}

// RemoveActor removes the actor with the given ID.
func (w *World) RemoveActor(id string) {
	w.Entities.RemoveActor(id)
	kept := w.actors[:0]
	for _, a := range w.actors {
		if a.ID != id {
			kept = append(kept, a)
		}
	}
	clear(w.actors[len(kept):])
	w.actors = kept
	w.Shadows.SetActors(w.actors...)
}

// Actors returns the actors drawn by the world. The returned slice MUST NOT
// be mutated.
func (w *World) Actors() []*Actor {
	return w.actors
}

// FollowActor makes the camera track a. A lerp of 1 snaps.
func (w *World) FollowActor(a *Actor, lerp float64) {
	w.Camera.Follow(actorFollower{actor: a, tileSize: w.cfg.TileSize}, 0, 0, lerp)
}

// SetViewportSize resizes the camera viewport and the darkness overlay.
func (w *World) SetViewportSize(width, height int) {
	if width == w.cfg.ViewportWidth && height == w.cfg.ViewportHeight {
		return
	}
	w.cfg.ViewportWidth, w.cfg.ViewportHeight = width, height
	w.Camera.ViewportWidth = float64(width)
	w.Camera.ViewportHeight = float64(height)
	w.Darkness.SetViewportSize(width, height)
}

// Environment returns the state the last Update rendered against.
func (w *World) Environment() Environment {
	return w.env
}

// VisibleRange returns the tiles culled by the last Update.
func (w *World) VisibleRange() VisibleRange {
	return w.rng
}

// Update advances the clock, camera, and animations by dt seconds and
// rebuilds every layer for the new view.
func (w *World) Update(dt float64) {
	start := time.Now()

	w.Clock.Update(dt)
	w.Camera.Update(float32(dt))
	w.Darkness.Update(float32(dt))

	cam := w.Camera.State()
	for _, l := range w.layers {
		l.SetCameraState(cam)
	}

	w.env = w.Clock.Environment(w.weather, w.biome)
	w.rng = emptyRange
	if w.tiles != nil {
		mw, mh := w.tiles.Size()
		w.rng = CullTiles(cam, float64(w.cfg.ViewportWidth), float64(w.cfg.ViewportHeight),
			w.cfg.TileSize, mw, mh, w.cfg.CullMargin)
	}
	cullDone := time.Now()

	for _, l := range w.layers {
		l.Render(w.rng, w.env)
	}
	w.Entities.UpdateAnimations()

	if w.debug {
		w.timings.cull = cullDone.Sub(start)
		w.timings.render = time.Since(cullDone)
	}
}

// Draw submits every layer to screen in order.
func (w *World) Draw(screen *ebiten.Image) {
	var start time.Time
	if w.debug {
		start = time.Now()
	}
	for _, l := range w.layers {
		l.Draw(screen)
	}
	if w.debug {
		w.timings.draw = time.Since(start)
		stats := w.Stats()
		w.debugLog(stats)
		w.debugOverlay.draw(screen, w, stats)
	}
}

// Stats returns the counters of every layer in draw order.
func (w *World) Stats() []Stats {
	out := make([]Stats, len(w.layers))
	for i, l := range w.layers {
		out[i] = l.Stats()
	}
	return out
}

// SetUpdateFunc sets a callback run once per tick by Game before the world
// updates. A non-nil error stops the game loop.
func (w *World) SetUpdateFunc(fn func() error) {
	w.updateFunc = fn
}

// Game returns an ebiten.Game that runs the world at a fixed tick and keeps
// the viewport matched to the window.
func (w *World) Game() ebiten.Game {
	return &worldGame{world: w}
}

type worldGame struct {
	world *World
}

func (g *worldGame) Update() error {
	if fn := g.world.updateFunc; fn != nil {
		if err := fn(); err != nil {
			return err
		}
	}
	g.world.Update(1 / float64(ebiten.TPS()))
	return nil
}

func (g *worldGame) Draw(screen *ebiten.Image) {
	g.world.Draw(screen)
}

func (g *worldGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.world.SetViewportSize(outsideWidth, outsideHeight)
	return outsideWidth, outsideHeight
}
