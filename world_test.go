package grove

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
)

func newTestWorld(t testing.TB) (*World, *TileGrid) {
	t.Helper()
	cache := newTestCache(&stubFetcher{data: pngBytes(t, 4, 4)})
	w := NewWorld(testRegistry(), cache, DefaultWorldConfig())
	grid := NewTileGrid(40, 30)
	grid.Set(5, 10, "oak")
	grid.Set(6, 6, "torch")
	grid.Set(3, 3, "flowers")
	grid.Set(35, 25, "oak") // off screen at the start
	w.ChangeMap(grid, "forest")
	return w, grid
}

func TestNewWorld_Panics(t *testing.T) {
	cache := NewTextureCache(nil)
	tests := []struct {
		name string
		fn   func()
	}{
		{"nil registry", func() { NewWorld(nil, cache, DefaultWorldConfig()) }},
		{"nil cache", func() { NewWorld(testRegistry(), nil, DefaultWorldConfig()) }},
		{"zero tile size", func() { NewWorld(testRegistry(), cache, WorldConfig{}) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Error("expected panic")
				}
			}()
			tt.fn()
		})
	}
}

func TestWorld_LayerOrder(t *testing.T) {
	w, _ := newTestWorld(t)
	var got []string
	for _, st := range w.Stats() {
		got = append(got, st.Layer)
	}
	want := []string{"shadows", "entities", "darkness", "glow"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("layers = %v, want %v", got, want)
	}
}

func TestWorld_UpdateRendersVisibleTiles(t *testing.T) {
	w, _ := newTestWorld(t)
	w.Update(0)

	rng := w.VisibleRange()
	if rng.MinX != 0 || rng.MinY != 0 || rng.MaxX != 21 || rng.MaxY != 13 {
		t.Errorf("VisibleRange = %+v", rng)
	}
	if _, ok := w.Entities.AnchorSprite(5, 10); !ok {
		t.Error("visible oak not rendered")
	}
	if _, ok := w.Entities.AnchorSprite(35, 25); ok {
		t.Error("off-screen oak rendered")
	}

	env := w.Environment()
	if env.Biome != "forest" || env.TimeOfDay != Day || env.Season != Spring {
		t.Errorf("Environment = %+v", env)
	}
	if !w.Darkness.Shown() || !approxEqual(w.Darkness.Alpha(), 0.15, 1e-9) {
		t.Errorf("forest darkness = %v", w.Darkness.Alpha())
	}
	if !w.Shadows.Params().Visible {
		t.Error("noon shadows hidden")
	}
}

func TestWorld_ClockDrivesLayers(t *testing.T) {
	w, _ := newTestWorld(t)
	w.Clock.Hour = 22
	w.Update(0)

	if w.Environment().TimeOfDay != Night {
		t.Fatalf("TimeOfDay = %s", w.Environment().TimeOfDay)
	}
	if !approxEqual(w.Darkness.Alpha(), 0.30, 1e-9) {
		t.Errorf("night forest darkness = %v, want 0.30", w.Darkness.Alpha())
	}
	if st := w.Glow.Stats(); st.Visible != 1 {
		t.Errorf("glow visible = %d, want 1", st.Visible)
	}

	w.SetWeather(WeatherStorm)
	w.Clock.Hour = 12
	w.Update(0)
	if w.Shadows.Params().Visible || w.Shadows.Stats().Visible != 0 {
		t.Error("storm should hide every shadow")
	}
	if w.Glow.Stats().Visible != 0 {
		t.Error("night-only glow visible at noon")
	}
}

func TestWorld_ChangeMapClearsEveryLayer(t *testing.T) {
	w, _ := newTestWorld(t)
	w.Clock.Hour = 22
	w.SetActors(NewActor("hero", CategoryPlayer, 4, 4))
	w.Update(0)
	for _, st := range w.Stats() {
		if st.Visible == 0 {
			t.Fatalf("%s has nothing visible before the map change", st.Layer)
		}
	}

	var changes []MapChange
	w.OnMapChange = func(c MapChange) { changes = append(changes, c) }
	cave := NewTileGrid(10, 8)
	w.ChangeMap(cave, "cave")

	for _, st := range w.Stats() {
		if st.Visible != 0 {
			t.Errorf("%s still visible after ChangeMap: %+v", st.Layer, st)
		}
		if st.Layer != "darkness" && st.Total != 0 {
			t.Errorf("%s kept %d pooled drawables", st.Layer, st.Total)
		}
	}
	if _, ok := w.Entities.AnchorSprite(5, 10); ok {
		t.Error("old anchor survived the map change")
	}
	if len(changes) != 1 || changes[0] != (MapChange{Biome: "cave", Width: 10, Height: 8}) {
		t.Errorf("OnMapChange = %+v", changes)
	}
	if w.Tiles() != TileSource(cave) {
		t.Error("Tiles not replaced")
	}
	if w.Camera.MapWidth != 320 || w.Camera.MapHeight != 256 {
		t.Errorf("camera map = %vx%v", w.Camera.MapWidth, w.Camera.MapHeight)
	}

	// Actors carry over to the new map.
	w.Update(0)
	if s, ok := w.Entities.ActorSprite("hero"); !ok || !s.Visible {
		t.Error("actor not redrawn on the new map")
	}
	if !approxEqual(w.Darkness.Alpha(), MaxDarkness, 1e-9) {
		t.Errorf("cave night darkness = %v", w.Darkness.Alpha())
	}
}

func TestWorld_FollowActor(t *testing.T) {
	w, _ := newTestWorld(t)
	hero := NewActor("hero", CategoryPlayer, 20, 15)
	w.SetActors(hero)
	w.FollowActor(hero, 1)
	w.Update(0)

	cam := w.Camera.State()
	if cam.X != 320 || cam.Y != 300 {
		t.Errorf("camera = (%v, %v), want (320, 300)", cam.X, cam.Y)
	}
	if !w.VisibleRange().Contains(20, 15) {
		t.Error("followed actor's tile not in the visible range")
	}
	if s, ok := w.Entities.ActorSprite("hero"); !ok || !s.Visible {
		t.Error("followed actor not drawn")
	}
}

func TestWorld_ActorsAddRemove(t *testing.T) {
	w, _ := newTestWorld(t)
	w.AddActor(NewActor("a", CategoryNPC, 2, 2))
	w.AddActor(NewActor("b", CategoryNPC, 3, 3))
	w.RemoveActor("a")
	if len(w.Actors()) != 1 || w.Actors()[0].ID != "b" {
		t.Fatalf("Actors = %v", w.Actors())
	}
	if len(w.Entities.Actors()) != 1 {
		t.Errorf("entity renderer has %d actors", len(w.Entities.Actors()))
	}
	w.Update(0)
	if _, ok := w.Shadows.actorPool.lookup("a"); ok {
		t.Error("removed actor cast a shadow")
	}
}

func TestWorld_SetViewportSize(t *testing.T) {
	w, _ := newTestWorld(t)
	w.SetViewportSize(320, 180)
	if w.Camera.ViewportWidth != 320 || w.Config().ViewportHeight != 180 {
		t.Errorf("viewport not resized: camera %v config %+v", w.Camera.ViewportWidth, w.Config())
	}
	w.Update(0)
	if s := w.Darkness.Sprites(); len(s) != 1 || s[0].W != 320 || s[0].H != 180 {
		t.Errorf("darkness surface = %+v", s)
	}
}

func TestWorld_Preload(t *testing.T) {
	w, _ := newTestWorld(t)
	if err := w.Preload(context.Background()); err != nil {
		t.Fatal(err)
	}
	if got, want := w.Textures.Len(), len(w.Registry().TextureKeys()); got != want {
		t.Errorf("cached = %d, want %d", got, want)
	}
}

func TestWorld_Draw(t *testing.T) {
	w, _ := newTestWorld(t)
	w.Clock.Hour = 22
	w.Update(0)
	screen := ebiten.NewImage(640, 360)
	w.Draw(screen)

	// Textures resolve to nil in tests, so only generated images draw.
	byName := map[string]Stats{}
	for _, st := range w.Stats() {
		byName[st.Layer] = st
	}
	if byName["entities"].Drawn != 0 {
		t.Errorf("entities drew %d sprites without textures", byName["entities"].Drawn)
	}
	if byName["darkness"].Drawn != 1 || byName["glow"].Drawn != 1 {
		t.Errorf("stats = %+v", byName)
	}
}

func TestWorld_DebugLog(t *testing.T) {
	var buf bytes.Buffer
	old := debugOut
	debugOut = &buf
	defer func() { debugOut = old }()

	w, _ := newTestWorld(t)
	w.Update(0)
	w.debugLog(w.Stats())
	if buf.Len() != 0 {
		t.Fatalf("debug output while disabled: %q", buf.String())
	}

	w.debug = true
	w.Update(0)
	w.debugLog(w.Stats())
	out := buf.String()
	for _, want := range []string{"[grove] cull:", "render:", "[grove] tiles: 308", "entities "} {
		if !strings.Contains(out, want) {
			t.Errorf("debug output missing %q:\n%s", want, out)
		}
	}
}

func TestWorld_Game(t *testing.T) {
	w, _ := newTestWorld(t)
	g := w.Game()
	sw, sh := g.Layout(800, 450)
	if sw != 800 || sh != 450 {
		t.Errorf("Layout = %dx%d", sw, sh)
	}
	if w.Config().ViewportWidth != 800 {
		t.Error("Layout did not resize the viewport")
	}
}

func TestWorld_GameUpdateFunc(t *testing.T) {
	w, _ := newTestWorld(t)
	calls := 0
	errStop := errors.New("stop")
	w.SetUpdateFunc(func() error {
		calls++
		if calls == 2 {
			return errStop
		}
		return nil
	})
	g := w.Game()
	if err := g.Update(); err != nil {
		t.Fatal(err)
	}
	if w.VisibleRange().Empty() {
		t.Error("Game.Update did not update the world")
	}
	if err := g.Update(); !errors.Is(err, errStop) {
		t.Errorf("Update error = %v, want errStop", err)
	}
}

func BenchmarkWorld_Update(b *testing.B) {
	w, grid := newTestWorld(b)
	for y := range 30 {
		for x := range 40 {
			if VariantIndex(x, y, 5) == 0 {
				grid.Set(x, y, "oak")
			}
		}
	}
	hero := NewActor("hero", CategoryPlayer, 20, 15)
	w.SetActors(hero)
	w.FollowActor(hero, 0.2)
	w.Update(1.0 / 60)
	b.ReportAllocs()
	for b.Loop() {
		w.Update(1.0 / 60)
	}
}
