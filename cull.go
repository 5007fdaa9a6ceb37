package grove

import "math"

// CameraState is the resolved camera for a frame: the world-pixel position of
// the viewport's top-left corner and the zoom factor.
type CameraState struct {
	X, Y float64
	// Zoom is the scale factor (1.0 = no zoom, >1 = zoom in, <1 = zoom out).
	Zoom float64
}

func (c CameraState) zoom() float64 {
	if c.Zoom <= 0 {
		return 1
	}
	return c.Zoom
}

// VisibleRange is an inclusive range of tile coordinates.
type VisibleRange struct {
	MinX, MaxX, MinY, MaxY int
}

// Empty reports whether the range contains no tiles.
func (r VisibleRange) Empty() bool {
	return r.MaxX < r.MinX || r.MaxY < r.MinY
}

// Contains reports whether tile (x, y) lies inside the range.
func (r VisibleRange) Contains(x, y int) bool {
	return x >= r.MinX && x <= r.MaxX && y >= r.MinY && y <= r.MaxY
}

// Count returns the number of tiles in the range.
func (r VisibleRange) Count() int {
	if r.Empty() {
		return 0
	}
	return (r.MaxX - r.MinX + 1) * (r.MaxY - r.MinY + 1)
}

// Expand grows the range by n tiles on every side, clamped to a
// mapW x mapH grid.
func (r VisibleRange) Expand(n, mapW, mapH int) VisibleRange {
	if r.Empty() {
		return r
	}
	return VisibleRange{
		MinX: max(r.MinX-n, 0),
		MaxX: min(r.MaxX+n, mapW-1),
		MinY: max(r.MinY-n, 0),
		MaxY: min(r.MaxY+n, mapH-1),
	}
}

// emptyRange is returned for maps with no tiles.
var emptyRange = VisibleRange{MinX: 0, MaxX: -1, MinY: 0, MaxY: -1}

// CullTiles computes the inclusive range of tiles visible from cam.
//
// The effective viewport is (viewW, viewH) / zoom, so zooming out reveals
// more tiles. The range is floor(cam/tile) .. ceil((cam+effective)/tile),
// grown by margin tiles and clamped to [0, mapW-1] x [0, mapH-1]. The tile
// under the viewport center, clamped into the map, is always included, even
// when the camera is entirely outside the map.
func CullTiles(cam CameraState, viewW, viewH, tileSize float64, mapW, mapH, margin int) VisibleRange {
	if mapW <= 0 || mapH <= 0 || tileSize <= 0 {
		return emptyRange
	}
	z := cam.zoom()
	effW := viewW / z
	effH := viewH / z

	minX := int(math.Floor(cam.X/tileSize)) - margin
	minY := int(math.Floor(cam.Y/tileSize)) - margin
	maxX := int(math.Ceil((cam.X+effW)/tileSize)) + margin
	maxY := int(math.Ceil((cam.Y+effH)/tileSize)) + margin

	cx := clampInt(int(math.Floor((cam.X+effW/2)/tileSize)), 0, mapW-1)
	cy := clampInt(int(math.Floor((cam.Y+effH/2)/tileSize)), 0, mapH-1)

	r := VisibleRange{
		MinX: clampInt(minX, 0, mapW-1),
		MaxX: clampInt(maxX, 0, mapW-1),
		MinY: clampInt(minY, 0, mapH-1),
		MaxY: clampInt(maxY, 0, mapH-1),
	}
	r.MinX = min(r.MinX, cx)
	r.MaxX = max(r.MaxX, cx)
	r.MinY = min(r.MinY, cy)
	r.MaxY = max(r.MaxY, cy)
	return r
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
