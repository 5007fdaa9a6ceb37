package grove

import "time"

// Facing is the direction an actor looks.
type Facing uint8

const (
	FacingDown Facing = iota
	FacingUp
	FacingLeft
	FacingRight
)

var facingNames = [...]string{"down", "up", "left", "right"}

func (f Facing) String() string {
	if int(f) < len(facingNames) {
		return facingNames[f]
	}
	return "unknown"
}

// Actor is a player or NPC drawn on the entity surface. Actors are owned by
// the game; the renderer only reads them.
type Actor struct {
	// ID keys the actor's pooled sprite. It must be unique per renderer.
	ID       string
	Category Category // CategoryPlayer or CategoryNPC

	// X, Y is the actor's center in world tiles.
	X, Y float64
	// Width, Height is the drawn size in tiles.
	Width, Height float64
	// FeetOffset is the distance from the center to the ground contact, in tiles.
	FeetOffset float64

	Facing Facing
	// Frames holds the texture keys of the current animation.
	Frames []string
	// Frame is the index into Frames currently shown.
	Frame int
	// FrameDuration is how long each frame is shown while Moving. Zero
	// falls back to 150ms.
	FrameDuration time.Duration
	Moving        bool

	// NoMirror disables mirroring for sprites that have explicit left art.
	NoMirror bool
	// ReverseMirror is for sprites drawn facing left: they mirror when
	// facing right instead.
	ReverseMirror bool
	// UpDownWalk marks a two-frame up/down walk cycle that alternates by
	// mirroring on odd frames.
	UpDownWalk bool

	CastsShadow bool
	Visible     bool
}

// NewActor creates a visible one-tile actor centered at (x, y).
func NewActor(id string, cat Category, x, y float64) *Actor {
	return &Actor{
		ID:          id,
		Category:    cat,
		X:           x,
		Y:           y,
		Width:       1,
		Height:      1,
		FeetOffset:  0.5,
		CastsShadow: true,
		Visible:     true,
	}
}

// DepthLine returns the world tile Y of the actor's feet.
func (a *Actor) DepthLine() float64 {
	return a.Y + a.FeetOffset
}

// DepthKey returns the sort key for the actor's feet.
func (a *Actor) DepthKey() int {
	return DepthKey(a.DepthLine())
}

// TextureKey returns the frame currently shown, or "" without frames.
func (a *Actor) TextureKey() string {
	n := len(a.Frames)
	if n == 0 {
		return ""
	}
	return a.Frames[((a.Frame%n)+n)%n]
}

// Mirrored reports whether the actor's sprite should be flipped horizontally.
func (a *Actor) Mirrored() bool {
	if a.NoMirror {
		return false
	}
	if a.UpDownWalk && (a.Facing == FacingUp || a.Facing == FacingDown) {
		return a.Moving && a.Frame%2 != 0
	}
	if a.ReverseMirror {
		return a.Facing == FacingRight
	}
	return a.Facing == FacingLeft
}


func (a *Actor) frameDuration() time.Duration {
	if a.FrameDuration <= 0 {
		return 150 * time.Millisecond
	}
	return a.FrameDuration
}

// actorFollower adapts an Actor to the camera's Follower interface.
type actorFollower struct {
	actor    *Actor
	tileSize float64
}

// FollowPoint returns the actor center in world pixels.
func (f actorFollower) FollowPoint() (x, y float64) {
	return f.actor.X * f.tileSize, f.actor.Y * f.tileSize
}
