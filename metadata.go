package grove

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"time"
)

// Box is a rectangle in tile units relative to a sprite's anchor tile.
type Box struct {
	OffsetX float64 `json:"x"`
	OffsetY float64 `json:"y"`
	Width   float64 `json:"w"`
	Height  float64 `json:"h"`
}

// SeasonalVariants holds per-season image variant arrays plus a default set
// used for seasons without their own entry.
//
// In JSON it is an object keyed by season name with an optional "default" key:
//
//	{"winter": ["pine_snow.png"], "default": ["pine.png"]}
type SeasonalVariants struct {
	BySeason map[Season][]string
	Default  []string
}

// For returns the variants for season, falling back to the default set.
func (v *SeasonalVariants) For(season Season) []string {
	if v == nil {
		return nil
	}
	if vs, ok := v.BySeason[season]; ok && len(vs) > 0 {
		return vs
	}
	return v.Default
}

// UnmarshalJSON implements json.Unmarshaler.
func (v *SeasonalVariants) UnmarshalJSON(data []byte) error {
	var raw map[string][]string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("grove: failed to parse seasonal variants: %w", err)
	}
	v.BySeason = make(map[Season][]string, len(raw))
	for name, vs := range raw {
		if name == "default" {
			v.Default = vs
			continue
		}
		s, err := ParseSeason(name)
		if err != nil {
			return err
		}
		v.BySeason[s] = vs
	}
	return nil
}

// MarshalJSON implements json.Marshaler.
func (v SeasonalVariants) MarshalJSON() ([]byte, error) {
	raw := make(map[string][]string, len(v.BySeason)+1)
	for s, vs := range v.BySeason {
		raw[s.String()] = vs
	}
	if len(v.Default) > 0 {
		raw["default"] = v.Default
	}
	return json.Marshal(raw)
}

// AnimationMeta describes a looping frame animation.
type AnimationMeta struct {
	Frames  []string `json:"frames"`
	FrameMS int      `json:"frame_ms"`
}

// FrameDuration returns the time each frame is shown. Zero or negative
// FrameMS falls back to 100ms.
func (a *AnimationMeta) FrameDuration() time.Duration {
	if a.FrameMS <= 0 {
		return 100 * time.Millisecond
	}
	return time.Duration(a.FrameMS) * time.Millisecond
}

// GlowMeta configures an additive halo drawn around a sprite.
type GlowMeta struct {
	// Radius in tiles.
	Radius float64 `json:"radius"`
	// Intensity in [0, 1].
	Intensity float64 `json:"intensity"`
	Color     Color   `json:"color"`
	// OffsetX/OffsetY place the halo center relative to the sprite center, in tiles.
	OffsetX float64 `json:"offset_x"`
	OffsetY float64 `json:"offset_y"`
	// NightOnly hides the glow during the day.
	NightOnly bool `json:"night_only"`
}

// ShadowMeta overrides the default shadow shape for a sprite.
type ShadowMeta struct {
	// WidthRatio and HeightRatio scale the shadow ellipse relative to the
	// sprite's pixel width. Zero means use the caster default.
	WidthRatio  float64 `json:"width_ratio"`
	HeightRatio float64 `json:"height_ratio"`
	// Disabled suppresses the shadow entirely.
	Disabled bool `json:"disabled"`
}

// SpriteMetadata describes how a tile type is drawn and sorted.
type SpriteMetadata struct {
	Type string `json:"-"`

	// Width and Height are the footprint in tiles.
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	// OffsetX and OffsetY move the sprite's top-left corner relative to the
	// anchor tile, in tiles. Tall sprites use a negative OffsetY.
	OffsetX float64 `json:"offset_x"`
	OffsetY float64 `json:"offset_y"`

	Collision Box `json:"collision"`

	// Foreground sprites stand upright and cast shadows.
	Foreground bool `json:"foreground"`
	// GroundDecoration sprites are pinned below everything that stands.
	GroundDecoration bool `json:"ground_decoration"`
	// Furniture sprites sort as CategoryFurniture instead of CategoryTerrain.
	Furniture bool `json:"furniture"`

	Variants  []string                          `json:"variants"`
	Seasonal  *SeasonalVariants                 `json:"seasonal,omitempty"`
	TimeOfDay map[Season]map[TimeOfDay][]string `json:"time_of_day,omitempty"`
	Animation *AnimationMeta                    `json:"animation,omitempty"`
	Glow      *GlowMeta                         `json:"glow,omitempty"`
	Shadow    *ShadowMeta                       `json:"shadow,omitempty"`

	// DepthLineOffset, when set, replaces the collision box bottom as the
	// depth line, in tiles below the anchor.
	DepthLineOffset *float64 `json:"depth_line_offset,omitempty"`
}

// category returns the drawable category for sprites of this type.
func (m *SpriteMetadata) category() Category {
	if m.Furniture {
		return CategoryFurniture
	}
	return CategoryTerrain
}

// footprint returns the larger footprint dimension in tiles.
func (m *SpriteMetadata) footprint() float64 {
	return math.Max(m.Width, m.Height)
}

// CastsShadow reports whether the shadow caster should draw a shadow.
func (m *SpriteMetadata) CastsShadow() bool {
	return m.Foreground && (m.Shadow == nil || !m.Shadow.Disabled)
}

// ResolveImage picks the texture key to draw for the anchor at (x, y).
//
// Priority: animation frame > time-of-day variant for the season > seasonal
// variant (default set as fallback) > base variants. Array picks use
// VariantIndex so each anchor keeps its variant across frames.
func (m *SpriteMetadata) ResolveImage(x, y int, season Season, tod TimeOfDay, animFrame int) string {
	if m.Animation != nil && len(m.Animation.Frames) > 0 {
		n := len(m.Animation.Frames)
		return m.Animation.Frames[((animFrame%n)+n)%n]
	}
	if byTime, ok := m.TimeOfDay[season]; ok {
		if vs := byTime[tod]; len(vs) > 0 {
			return pickVariant(x, y, vs)
		}
	}
	if vs := m.Seasonal.For(season); len(vs) > 0 {
		return pickVariant(x, y, vs)
	}
	return pickVariant(x, y, m.Variants)
}

// TextureKeys returns every texture key the metadata can reference.
func (m *SpriteMetadata) TextureKeys() []string {
	var keys []string
	keys = append(keys, m.Variants...)
	if m.Seasonal != nil {
		keys = append(keys, m.Seasonal.Default...)
		for _, vs := range m.Seasonal.BySeason {
			keys = append(keys, vs...)
		}
	}
	for _, byTime := range m.TimeOfDay {
		for _, vs := range byTime {
			keys = append(keys, vs...)
		}
	}
	if m.Animation != nil {
		keys = append(keys, m.Animation.Frames...)
	}
	return keys
}

// MetadataRegistry is the static table of sprite metadata keyed by tile type.
type MetadataRegistry struct {
	byType       map[string]*SpriteMetadata
	maxFootprint float64
}

// NewMetadataRegistry creates a registry holding the given entries.
func NewMetadataRegistry(entries ...*SpriteMetadata) *MetadataRegistry {
	r := &MetadataRegistry{byType: make(map[string]*SpriteMetadata, len(entries))}
	for _, m := range entries {
		r.Register(m)
	}
	return r
}

// Register adds or replaces the metadata for m.Type.
func (r *MetadataRegistry) Register(m *SpriteMetadata) {
	if m == nil || m.Type == "" {
		panic("grove: sprite metadata must have a Type")
	}
	r.byType[m.Type] = m
	r.maxFootprint = 0
	for _, e := range r.byType {
		r.maxFootprint = math.Max(r.maxFootprint, e.footprint())
	}
}

// Lookup returns the metadata for tileType.
func (r *MetadataRegistry) Lookup(tileType string) (*SpriteMetadata, bool) {
	m, ok := r.byType[tileType]
	return m, ok
}

// MaxFootprint returns the largest footprint dimension of any registered
// sprite, in tiles.
func (r *MetadataRegistry) MaxFootprint() float64 {
	return r.maxFootprint
}

// Types returns every registered tile type in sorted order.
func (r *MetadataRegistry) Types() []string {
	types := make([]string, 0, len(r.byType))
	for t := range r.byType {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// TextureKeys returns the de-duplicated set of texture keys referenced by
// every registered sprite, mapped to themselves for TextureCache.LoadBatch.
func (r *MetadataRegistry) TextureKeys() map[string]string {
	keys := make(map[string]string)
	for _, m := range r.byType {
		for _, k := range m.TextureKeys() {
			if k != "" {
				keys[k] = k
			}
		}
	}
	return keys
}

// LoadMetadataJSON parses a sprite registry of the form
//
//	{"sprites": {"oak": {"width": 3, "height": 4, ...}, ...}}
func LoadMetadataJSON(data []byte) (*MetadataRegistry, error) {
	var doc struct {
		Sprites map[string]*SpriteMetadata `json:"sprites"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("grove: failed to parse sprite metadata JSON: %w", err)
	}
	if doc.Sprites == nil {
		return nil, fmt.Errorf("grove: sprite metadata JSON has no \"sprites\" key")
	}
	r := NewMetadataRegistry()
	for name, m := range doc.Sprites {
		if m == nil {
			return nil, fmt.Errorf("grove: sprite %q has null metadata", name)
		}
		if m.Width <= 0 || m.Height <= 0 {
			return nil, fmt.Errorf("grove: sprite %q has non-positive footprint %vx%v", name, m.Width, m.Height)
		}
		m.Type = name
		r.Register(m)
	}
	return r, nil
}
