package grove

import (
	"encoding/json"
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// MaxDarkness caps the overlay alpha so the scene is never fully black.
const MaxDarkness = 0.70

// defaultTimeMultipliers scale a biome's base darkness by time of day.
var defaultTimeMultipliers = map[TimeOfDay]float64{
	Day:   1.0,
	Dawn:  1.4,
	Dusk:  1.4,
	Night: 2.0,
}

// BiomeDarkness is the ambient darkness of one biome.
type BiomeDarkness struct {
	Base float64 `json:"base"`
	// Seasonal replaces Base for the listed seasons.
	Seasonal map[Season]float64 `json:"seasonal,omitempty"`
}

// DarknessConfig maps biomes to ambient darkness.
type DarknessConfig struct {
	Biomes map[string]BiomeDarkness `json:"biomes"`
	// TimeMultipliers overrides the per-time-of-day multipliers. Missing
	// entries use day 1.0, dawn 1.4, dusk 1.4, night 2.0.
	TimeMultipliers map[TimeOfDay]float64 `json:"time_multipliers,omitempty"`
	// MaxDarkness caps the result. Zero means MaxDarkness.
	MaxDarkness float64 `json:"max_darkness,omitempty"`
	// Color tints the overlay. Zero means black.
	Color Color `json:"color"`
	// FadeSeconds eases between darkness levels instead of snapping.
	FadeSeconds float32 `json:"fade_seconds,omitempty"`
}

// DefaultDarknessConfig returns darkness for the stock biomes: caves are
// always dim and forests darken in the summer canopy.
func DefaultDarknessConfig() DarknessConfig {
	return DarknessConfig{
		Biomes: map[string]BiomeDarkness{
			"cave":   {Base: 0.40},
			"forest": {Base: 0.15, Seasonal: map[Season]float64{Summer: 0.20}},
		},
		MaxDarkness: MaxDarkness,
		Color:       ColorBlack,
	}
}

// Alpha returns the overlay alpha for biome in season at tod. ok is false
// when the biome has no darkness entry; the overlay is then hidden.
func (c *DarknessConfig) Alpha(biome string, season Season, tod TimeOfDay) (alpha float64, ok bool) {
	b, ok := c.Biomes[biome]
	if !ok {
		return 0, false
	}
	base := b.Base
	if v, ok := b.Seasonal[season]; ok {
		base = v
	}
	mult, ok := c.TimeMultipliers[tod]
	if !ok {
		mult = defaultTimeMultipliers[tod]
	}
	return clamp(base*mult, 0, c.maxDarkness()), true
}

func (c *DarknessConfig) maxDarkness() float64 {
	if c.MaxDarkness <= 0 {
		return MaxDarkness
	}
	return min(c.MaxDarkness, 1)
}

// LoadDarknessConfigJSON parses a darkness configuration:
//
//	{"biomes": {"cave": {"base": 0.4}, "forest": {"base": 0.15, "seasonal": {"summer": 0.2}}}}
func LoadDarknessConfigJSON(data []byte) (DarknessConfig, error) {
	cfg := DarknessConfig{Color: ColorBlack}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return DarknessConfig{}, fmt.Errorf("grove: failed to parse darkness config JSON: %w", err)
	}
	for name, b := range cfg.Biomes {
		if b.Base < 0 || b.Base > 1 {
			return DarknessConfig{}, fmt.Errorf("grove: biome %q base darkness %v out of [0, 1]", name, b.Base)
		}
	}
	return cfg, nil
}

// darknessMemo is the state the overlay image was last filled with.
type darknessMemo struct {
	alpha   float64
	w, h    int
	biome   string
	tod     TimeOfDay
	visible bool
}

// DarknessOverlay is a screen-space tint over the whole viewport. It does not
// scroll with the camera. The tint image is refilled only when the alpha,
// viewport size, biome, or time of day changes.
type DarknessOverlay struct {
	Layer

	Config DarknessConfig

	img    *ebiten.Image
	sprite Sprite
	w, h   int

	env     Environment
	target  float64
	current float64
	shown   bool
	fade    *gween.Tween

	memo    darknessMemo
	filled  bool
	redraws int
}

// NewDarknessOverlay creates an overlay covering a w x h viewport.
func NewDarknessOverlay(cfg DarknessConfig, w, h int) *DarknessOverlay {
	d := &DarknessOverlay{
		Layer:  newLayer("darkness", nil),
		Config: cfg,
		w:      w,
		h:      h,
	}
	d.ScreenSpace = true
	d.sprite.reset(CategoryOverlay)
	return d
}

// SetViewportSize resizes the overlay on the next redraw.
func (d *DarknessOverlay) SetViewportSize(w, h int) {
	d.w, d.h = w, h
	d.redrawIfChanged()
}

// Render computes the target darkness for env. With FadeSeconds > 0 the
// overlay eases toward it in Update; otherwise it snaps.
func (d *DarknessOverlay) Render(_ VisibleRange, env Environment) {
	d.env = env
	alpha, ok := d.Config.Alpha(env.Biome, env.Season, env.TimeOfDay)
	d.shown = ok
	if !ok {
		d.target, d.current, d.fade = 0, 0, nil
	} else if alpha != d.target || !d.filled {
		d.target = alpha
		if d.Config.FadeSeconds > 0 && d.filled {
			d.fade = gween.New(float32(d.current), float32(alpha), d.Config.FadeSeconds, ease.InOutQuad)
		} else {
			d.current, d.fade = alpha, nil
		}
	}
	d.redrawIfChanged()
}

// Update advances an in-progress fade by dt seconds.
func (d *DarknessOverlay) Update(dt float32) {
	if d.fade == nil {
		return
	}
	v, done := d.fade.Update(dt)
	d.current = clamp(float64(v), 0, d.Config.maxDarkness())
	if done {
		d.current, d.fade = d.target, nil
	}
	d.redrawIfChanged()
}

// Alpha returns the alpha currently drawn.
func (d *DarknessOverlay) Alpha() float64 {
	return d.current
}

// Shown reports whether the current biome has darkness configured.
func (d *DarknessOverlay) Shown() bool {
	return d.shown && d.current > 0
}

// Redraws returns how many times the tint image has been refilled.
func (d *DarknessOverlay) Redraws() int {
	return d.redraws
}

func (d *DarknessOverlay) redrawIfChanged() {
	m := darknessMemo{
		alpha:   d.current,
		w:       d.w,
		h:       d.h,
		biome:   d.env.Biome,
		tod:     d.env.TimeOfDay,
		visible: d.Shown(),
	}
	if d.filled && m == d.memo {
		return
	}
	d.memo = m
	d.filled = true
	d.redraw()
}

// redraw refills the tint image and counts the fill.
func (d *DarknessOverlay) redraw() {
	d.redraws++
	d.begin()
	if !d.memo.visible || d.w <= 0 || d.h <= 0 {
		d.sprite.Visible = false
		return
	}
	if d.img == nil || d.img.Bounds().Dx() != d.w || d.img.Bounds().Dy() != d.h {
		if d.img != nil {
			d.img.Deallocate()
		}
		d.img = ebiten.NewImage(d.w, d.h)
	}
	c := d.Config.Color
	c.A = d.current
	d.img.Fill(c.toNRGBA())

	s := &d.sprite
	s.Image = d.img
	s.X, s.Y = 0, 0
	s.W, s.H = float64(d.w), float64(d.h)
	s.Visible = true
	d.push(s)
}

// Clear hides the overlay until the next Render.
func (d *DarknessOverlay) Clear() {
	d.begin()
	d.sprite.Visible = false
	d.shown = false
	d.filled = false
	d.fade = nil
	d.target, d.current = 0, 0
}

// Stats returns overlay counters. Total is 1 once the tint image exists.
func (d *DarknessOverlay) Stats() Stats {
	st := Stats{Layer: d.name, Drawn: d.drawn}
	if d.img != nil {
		st.Total = 1
	}
	if d.sprite.Visible {
		st.Visible = 1
	}
	return st
}

var _ Renderer = (*DarknessOverlay)(nil)
