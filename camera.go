package grove

import (
	"math"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// CameraOffset maps a followed world-pixel position to the camera's top-left
// pixel offset.
//
// Per axis, with effective = viewport / zoom: a map smaller than the
// effective viewport is centered (offset = -(effective - map) / 2);
// otherwise the followed point is kept centered while the offset stays
// within [0, map - effective].
func CameraOffset(follow Vec2, mapW, mapH, viewW, viewH, zoom float64) Vec2 {
	if zoom <= 0 {
		zoom = 1
	}
	return Vec2{
		X: axisOffset(follow.X, mapW, viewW/zoom),
		Y: axisOffset(follow.Y, mapH, viewH/zoom),
	}
}

func axisOffset(follow, mapSize, effective float64) float64 {
	if mapSize < effective {
		return -(effective - mapSize) / 2
	}
	return clamp(follow-effective/2, 0, mapSize-effective)
}

// Follower is anything the camera can track. FollowPoint returns a world
// pixel position.
type Follower interface {
	FollowPoint() (x, y float64)
}

// scrollAnim holds active scroll-to tweens for camera X and Y.
type scrollAnim struct {
	tweenX *gween.Tween
	tweenY *gween.Tween
	doneX  bool
	doneY  bool
}

// Camera tracks the world point the view centers on and resolves it to a
// per-frame CameraState with CameraOffset.
type Camera struct {
	// X and Y are the world-pixel position the camera centers on.
	X, Y float64
	// Zoom is the scale factor (1.0 = no zoom, >1 = zoom in, <1 = zoom out).
	Zoom float64
	// ViewportWidth and ViewportHeight are the screen size in pixels.
	ViewportWidth, ViewportHeight float64
	// MapWidth and MapHeight are the map size in world pixels. When either is
	// zero the camera is unbounded on that axis.
	MapWidth, MapHeight float64

	followTarget  Follower
	followOffsetX float64
	followOffsetY float64
	followLerp    float64

	scrollTween *scrollAnim
}

// NewCamera creates a camera with zoom 1 and the given viewport size.
func NewCamera(viewW, viewH float64) *Camera {
	return &Camera{
		Zoom:           1.0,
		ViewportWidth:  viewW,
		ViewportHeight: viewH,
	}
}

// Follow makes the camera track target with the given offset and lerp factor.
// A lerp of 1.0 snaps immediately; lower values give smoother following.
func (c *Camera) Follow(target Follower, offsetX, offsetY, lerp float64) {
	c.followTarget = target
	c.followOffsetX = offsetX
	c.followOffsetY = offsetY
	c.followLerp = lerp
}

// Unfollow stops tracking the current target.
func (c *Camera) Unfollow() {
	c.followTarget = nil
}

// ScrollTo animates the camera to the given world position over duration
// seconds. Following is suspended while the scroll runs.
func (c *Camera) ScrollTo(x, y float64, duration float32, easeFn ease.TweenFunc) {
	if easeFn == nil {
		easeFn = ease.Linear
	}
	c.scrollTween = &scrollAnim{
		tweenX: gween.New(float32(c.X), float32(x), duration, easeFn),
		tweenY: gween.New(float32(c.Y), float32(y), duration, easeFn),
	}
}

// ScrollToTile scrolls to the center of the given tile.
func (c *Camera) ScrollToTile(tileX, tileY int, tileSize float64, duration float32, easeFn ease.TweenFunc) {
	worldX := float64(tileX)*tileSize + tileSize/2
	worldY := float64(tileY)*tileSize + tileSize/2
	c.ScrollTo(worldX, worldY, duration, easeFn)
}

// Scrolling reports whether a ScrollTo animation is running.
func (c *Camera) Scrolling() bool {
	return c.scrollTween != nil
}

// SetMapSize sets the map bounds in world pixels.
func (c *Camera) SetMapSize(w, h float64) {
	c.MapWidth = w
	c.MapHeight = h
}

// Update advances scroll animation and follow by dt seconds.
func (c *Camera) Update(dt float32) {
	if c.scrollTween != nil {
		if !c.scrollTween.doneX {
			val, done := c.scrollTween.tweenX.Update(dt)
			c.X = float64(val)
			c.scrollTween.doneX = done
		}
		if !c.scrollTween.doneY {
			val, done := c.scrollTween.tweenY.Update(dt)
			c.Y = float64(val)
			c.scrollTween.doneY = done
		}
		if c.scrollTween.doneX && c.scrollTween.doneY {
			c.scrollTween = nil
		}
		return
	}

	if c.followTarget != nil {
		tx, ty := c.followTarget.FollowPoint()
		tx += c.followOffsetX
		ty += c.followOffsetY
		c.X += (tx - c.X) * c.followLerp
		c.Y += (ty - c.Y) * c.followLerp
	}
}

// State resolves the camera to this frame's top-left offset and zoom.
func (c *Camera) State() CameraState {
	z := c.Zoom
	if z <= 0 {
		z = 1
	}
	effW := c.ViewportWidth / z
	effH := c.ViewportHeight / z
	st := CameraState{X: c.X - effW/2, Y: c.Y - effH/2, Zoom: z}
	if c.MapWidth > 0 {
		st.X = axisOffset(c.X, c.MapWidth, effW)
	}
	if c.MapHeight > 0 {
		st.Y = axisOffset(c.Y, c.MapHeight, effH)
	}
	return st
}

// WorldToScreen converts world pixel coordinates to screen coordinates.
func (c *Camera) WorldToScreen(wx, wy float64) (sx, sy float64) {
	st := c.State()
	return (wx - st.X) * st.Zoom, (wy - st.Y) * st.Zoom
}

// ScreenToWorld converts screen coordinates to world pixel coordinates.
func (c *Camera) ScreenToWorld(sx, sy float64) (wx, wy float64) {
	st := c.State()
	return sx/st.Zoom + st.X, sy/st.Zoom + st.Y
}

// ScreenToTile converts screen coordinates to the tile under them.
func (c *Camera) ScreenToTile(sx, sy, tileSize float64) TileCoord {
	wx, wy := c.ScreenToWorld(sx, sy)
	return TileCoord{X: int(math.Floor(wx / tileSize)), Y: int(math.Floor(wy / tileSize))}
}
