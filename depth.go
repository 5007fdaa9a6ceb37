package grove

import "math"

const (
	// DepthBase is added to every dynamic depth key so that pinned keys
	// (ground decorations) always sort below standing objects.
	DepthBase = 1000
	// DepthSubLevels is the number of distinct z-levels per tile row.
	DepthSubLevels = 10
	// GroundDepthKey is the fixed key for ground decorations.
	GroundDepthKey = 100
)

// DepthKey maps a depth line (world tile Y of a ground-contact point) to a
// sort key: DepthBase + floor(depthLineY * DepthSubLevels). Keys never
// decrease as depthLineY grows and strictly increase across any step of at
// least 1/DepthSubLevels tile.
func DepthKey(depthLineY float64) int {
	return DepthBase + int(math.Floor(depthLineY*DepthSubLevels))
}

// DepthLine returns the world tile Y of a sprite's ground contact anchored at
// anchorY: the explicit depth-line offset when set, else the bottom edge of
// the collision box.
func (m *SpriteMetadata) DepthLine(anchorY float64) float64 {
	if m.DepthLineOffset != nil {
		return anchorY + *m.DepthLineOffset
	}
	return anchorY + m.Collision.OffsetY + m.Collision.Height
}

// DepthKeyAt returns the depth key for a sprite anchored at anchorY, honoring
// the ground-decoration pin.
func (m *SpriteMetadata) DepthKeyAt(anchorY float64) int {
	if m.GroundDecoration {
		return GroundDepthKey
	}
	return DepthKey(m.DepthLine(anchorY))
}
