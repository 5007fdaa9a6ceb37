package grove

import (
	"encoding/json"
	"fmt"
	"math"
)

// Daylight holds the four sun events of one season, in hours [0, 24).
type Daylight struct {
	Dawn    float64 `json:"dawn"`
	Sunrise float64 `json:"sunrise"`
	Sunset  float64 `json:"sunset"`
	Dusk    float64 `json:"dusk"`
}

// valid reports whether the events are in order within a single day.
func (d Daylight) valid() bool {
	return 0 <= d.Dawn && d.Dawn <= d.Sunrise && d.Sunrise < d.Sunset &&
		d.Sunset <= d.Dusk && d.Dusk <= 24
}

// DaylightTable maps each season to its sun events.
type DaylightTable map[Season]Daylight

// DefaultDaylightTable returns long summer days and short winter days.
func DefaultDaylightTable() DaylightTable {
	return DaylightTable{
		Spring: {Dawn: 5, Sunrise: 6, Sunset: 19, Dusk: 20},
		Summer: {Dawn: 4.5, Sunrise: 5.5, Sunset: 20.5, Dusk: 21.5},
		Autumn: {Dawn: 6, Sunrise: 7, Sunset: 18, Dusk: 19},
		Winter: {Dawn: 7, Sunrise: 8, Sunset: 16.5, Dusk: 17.5},
	}
}

// For returns the sun events for season, falling back to the spring entry
// of the default table.
func (t DaylightTable) For(season Season) Daylight {
	if d, ok := t[season]; ok {
		return d
	}
	return DefaultDaylightTable()[Spring]
}

// TimeOfDayAt classifies hour for season: night before dawn and from dusk,
// dawn until sunrise, dusk from sunset, day in between.
func (t DaylightTable) TimeOfDayAt(hour float64, season Season) TimeOfDay {
	d := t.For(season)
	h := wrapHour(hour)
	switch {
	case h < d.Dawn || h >= d.Dusk:
		return Night
	case h < d.Sunrise:
		return Dawn
	case h >= d.Sunset:
		return Dusk
	default:
		return Day
	}
}

// LoadDaylightTableJSON parses a table keyed by season name:
//
//	{"summer": {"dawn": 4.5, "sunrise": 5.5, "sunset": 20.5, "dusk": 21.5}}
//
// Seasons absent from data keep their default entries.
func LoadDaylightTableJSON(data []byte) (DaylightTable, error) {
	var raw map[string]Daylight
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("grove: failed to parse daylight table JSON: %w", err)
	}
	t := DefaultDaylightTable()
	for name, d := range raw {
		s, err := ParseSeason(name)
		if err != nil {
			return nil, err
		}
		if !d.valid() {
			return nil, fmt.Errorf("grove: daylight for %s is out of order: %+v", s, d)
		}
		t[s] = d
	}
	return t, nil
}

func wrapHour(h float64) float64 {
	h = math.Mod(h, 24)
	if h < 0 {
		h += 24
	}
	return h
}

// WorldClock is the in-game calendar: the current hour and season plus the
// daylight table used to classify them.
type WorldClock struct {
	Hour   float64
	Season Season
	// Rate is in-game hours per real second. Zero freezes the clock.
	Rate     float64
	Daylight DaylightTable
}

// NewWorldClock creates a frozen clock at hour in season using the default
// daylight table.
func NewWorldClock(hour float64, season Season) *WorldClock {
	return &WorldClock{Hour: wrapHour(hour), Season: season, Daylight: DefaultDaylightTable()}
}

// TimeOfDay classifies the current hour.
func (c *WorldClock) TimeOfDay() TimeOfDay {
	return c.Daylight.TimeOfDayAt(c.Hour, c.Season)
}

// Update advances the clock by dt real seconds. Wrapping past midnight does
// not change the season; the calendar is owned by the game.
func (c *WorldClock) Update(dt float64) {
	if c.Rate == 0 {
		return
	}
	c.Hour = wrapHour(c.Hour + dt*c.Rate)
}

// Environment returns a snapshot for renderers.
func (c *WorldClock) Environment(weather Weather, biome string) Environment {
	return Environment{
		Season:    c.Season,
		Hour:      c.Hour,
		TimeOfDay: c.TimeOfDay(),
		Weather:   weather,
		Biome:     biome,
	}
}
