package grove

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
)

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
// Premultiplication occurs at draw time.
type Color struct {
	R, G, B, A float64
}

// ColorWhite is the default tint (no color modification).
var ColorWhite = Color{1, 1, 1, 1}

// ColorBlack is the tint used for shadows and darkness.
var ColorBlack = Color{0, 0, 0, 1}

// toNRGBA converts to a straight-alpha 8-bit color.
func (c Color) toNRGBA() color.NRGBA {
	return color.NRGBA{
		R: uint8(clamp01(c.R)*255 + 0.5),
		G: uint8(clamp01(c.G)*255 + 0.5),
		B: uint8(clamp01(c.B)*255 + 0.5),
		A: uint8(clamp01(c.A)*255 + 0.5),
	}
}

// Vec2 is a 2D vector used for positions, offsets, and sizes.
type Vec2 struct {
	X, Y float64
}

// Rect is an axis-aligned rectangle. The coordinate system has its origin at
// the top-left, with Y increasing downward.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// Intersects reports whether r and other overlap.
// Adjacent rectangles (sharing only an edge) are considered intersecting.
func (r Rect) Intersects(other Rect) bool {
	return r.X <= other.X+other.Width &&
		r.X+r.Width >= other.X &&
		r.Y <= other.Y+other.Height &&
		r.Y+r.Height >= other.Y
}

// TileCoord addresses a single tile on the map grid.
type TileCoord struct {
	X, Y int
}

// BlendMode selects a compositing operation. Each maps to a specific ebiten.Blend value.
type BlendMode uint8

const (
	BlendNormal   BlendMode = iota // source-over (standard alpha blending)
	BlendAdd                       // additive / lighter
	BlendMultiply                  // multiply (source * destination; only darkens)
)

// EbitenBlend returns the ebiten.Blend value corresponding to this BlendMode.
func (b BlendMode) EbitenBlend() ebiten.Blend {
	switch b {
	case BlendAdd:
		return ebiten.BlendLighter
	case BlendMultiply:
		return ebiten.Blend{
			BlendFactorSourceRGB:        ebiten.BlendFactorDestinationColor,
			BlendFactorSourceAlpha:      ebiten.BlendFactorDestinationAlpha,
			BlendFactorDestinationRGB:   ebiten.BlendFactorOneMinusSourceAlpha,
			BlendFactorDestinationAlpha: ebiten.BlendFactorOneMinusSourceAlpha,
			BlendOperationRGB:           ebiten.BlendOperationAdd,
			BlendOperationAlpha:         ebiten.BlendOperationAdd,
		}
	default:
		return ebiten.BlendSourceOver
	}
}

// Category identifies which family of drawables a sprite belongs to. All
// categories share one depth-sorted surface in the entity layer.
type Category uint8

const (
	CategoryTerrain   Category = iota // ground decorations, trees, rocks
	CategoryFurniture                 // placed furniture and props
	CategoryPlayer                    // the player character
	CategoryNPC                       // non-player characters
	CategoryShadow                    // ground shadows (shadow layer)
	CategoryGlow                      // additive glow halos (glow layer)
	CategoryOverlay                   // screen-space tints
)

var categoryNames = [...]string{"terrain", "furniture", "player", "npc", "shadow", "glow", "overlay"}

func (c Category) String() string {
	if int(c) < len(categoryNames) {
		return categoryNames[c]
	}
	return fmt.Sprintf("Category(%d)", c)
}

// Season is the world-clock season.
type Season uint8

const (
	Spring Season = iota
	Summer
	Autumn
	Winter
)

// Seasons lists every season in calendar order.
var Seasons = [...]Season{Spring, Summer, Autumn, Winter}

var seasonNames = [...]string{"spring", "summer", "autumn", "winter"}

func (s Season) String() string {
	if int(s) < len(seasonNames) {
		return seasonNames[s]
	}
	return fmt.Sprintf("Season(%d)", s)
}

// ParseSeason parses a lower- or mixed-case season name. "fall" is accepted
// as an alias for autumn.
func ParseSeason(name string) (Season, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	if n == "fall" {
		return Autumn, nil
	}
	for i, s := range seasonNames {
		if s == n {
			return Season(i), nil
		}
	}
	return 0, fmt.Errorf("grove: unknown season %q", name)
}

// MarshalText implements encoding.TextMarshaler so seasons can be JSON map keys.
func (s Season) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Season) UnmarshalText(b []byte) error {
	v, err := ParseSeason(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// TimeOfDay is the coarse phase of the world clock.
type TimeOfDay uint8

const (
	Day TimeOfDay = iota
	Dawn
	Dusk
	Night
)

var timeOfDayNames = [...]string{"day", "dawn", "dusk", "night"}

func (t TimeOfDay) String() string {
	if int(t) < len(timeOfDayNames) {
		return timeOfDayNames[t]
	}
	return fmt.Sprintf("TimeOfDay(%d)", t)
}

// ParseTimeOfDay parses a time-of-day name.
func ParseTimeOfDay(name string) (TimeOfDay, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for i, s := range timeOfDayNames {
		if s == n {
			return TimeOfDay(i), nil
		}
	}
	return 0, fmt.Errorf("grove: unknown time of day %q", name)
}

// MarshalText implements encoding.TextMarshaler.
func (t TimeOfDay) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *TimeOfDay) UnmarshalText(b []byte) error {
	v, err := ParseTimeOfDay(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// Weather is the current weather condition.
type Weather uint8

const (
	WeatherClear Weather = iota
	WeatherCloudy
	WeatherRain
	WeatherSnow
	WeatherFog
	WeatherMist
	WeatherStorm
)

var weatherNames = [...]string{"clear", "cloudy", "rain", "snow", "fog", "mist", "storm"}

func (w Weather) String() string {
	if int(w) < len(weatherNames) {
		return weatherNames[w]
	}
	return fmt.Sprintf("Weather(%d)", w)
}

// BlocksSun reports whether this weather hides all directional shadows.
func (w Weather) BlocksSun() bool {
	switch w {
	case WeatherRain, WeatherSnow, WeatherFog, WeatherMist, WeatherStorm:
		return true
	}
	return false
}

// Environment is the per-frame world state every layer renders against.
type Environment struct {
	Season    Season
	Hour      float64 // [0, 24)
	TimeOfDay TimeOfDay
	Weather   Weather
	// Biome names the current area category ("cave", "forest", ...).
	// Empty means no biome.
	Biome string
}

func clamp01(v float64) float64 {
	return clamp(v, 0, 1)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
