package grove

import "fmt"

// TileSource answers which tile type sits at a map coordinate. It is supplied
// by the map/content system; grove never mutates it.
type TileSource interface {
	// TileAt returns the tile type at (x, y). ok is false for empty tiles
	// and out-of-range coordinates.
	TileAt(x, y int) (tileType string, ok bool)
	// Size returns the map dimensions in tiles.
	Size() (w, h int)
}

// TileGrid is a simple row-major TileSource. Empty strings are empty tiles.
type TileGrid struct {
	width, height int
	types         []string
}

// NewTileGrid creates an empty w x h grid.
func NewTileGrid(w, h int) *TileGrid {
	if w < 0 || h < 0 {
		panic(fmt.Sprintf("grove: invalid tile grid size %dx%d", w, h))
	}
	return &TileGrid{width: w, height: h, types: make([]string, w*h)}
}

// Set places tileType at (x, y). Out-of-range coordinates are ignored.
func (g *TileGrid) Set(x, y int, tileType string) {
	if x < 0 || x >= g.width || y < 0 || y >= g.height {
		return
	}
	g.types[y*g.width+x] = tileType
}

// TileAt implements TileSource.
func (g *TileGrid) TileAt(x, y int) (string, bool) {
	if x < 0 || x >= g.width || y < 0 || y >= g.height {
		return "", false
	}
	t := g.types[y*g.width+x]
	return t, t != ""
}

// Size implements TileSource.
func (g *TileGrid) Size() (int, int) {
	return g.width, g.height
}

// scanAnchors visits every anchor tile in rng that has registered metadata.
func scanAnchors(tiles TileSource, reg *MetadataRegistry, rng VisibleRange, fn func(at TileCoord, m *SpriteMetadata)) {
	if tiles == nil || reg == nil || rng.Empty() {
		return
	}
	for y := rng.MinY; y <= rng.MaxY; y++ {
		for x := rng.MinX; x <= rng.MaxX; x++ {
			tileType, ok := tiles.TileAt(x, y)
			if !ok {
				continue
			}
			m, ok := reg.Lookup(tileType)
			if !ok {
				continue
			}
			fn(TileCoord{x, y}, m)
		}
	}
}

// footprintMargin is the number of tiles to grow the culled range by so
// that large sprites anchored just outside it are still found.
func footprintMargin(reg *MetadataRegistry) int {
	if reg == nil {
		return 0
	}
	return int(reg.MaxFootprint()/2 + 0.999999)
}
