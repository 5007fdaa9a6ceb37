package grove

import (
	"encoding/json"
	"math"
	"testing"
)

const epsilon = 1e-9

func approxEqual(a, b, eps float64) bool {
	return math.Abs(a-b) < eps
}

func TestParseSeason(t *testing.T) {
	tests := []struct {
		in      string
		want    Season
		wantErr bool
	}{
		{"spring", Spring, false},
		{"Summer", Summer, false},
		{" autumn ", Autumn, false},
		{"fall", Autumn, false},
		{"WINTER", Winter, false},
		{"monsoon", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseSeason(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSeasonMapKeysJSON(t *testing.T) {
	var m map[Season]float64
	if err := json.Unmarshal([]byte(`{"summer": 0.2, "fall": 0.3}`), &m); err != nil {
		t.Fatal(err)
	}
	if m[Summer] != 0.2 || m[Autumn] != 0.3 {
		t.Errorf("m = %v", m)
	}
}

func TestParseTimeOfDay(t *testing.T) {
	for _, tod := range []TimeOfDay{Day, Dawn, Dusk, Night} {
		got, err := ParseTimeOfDay(tod.String())
		if err != nil || got != tod {
			t.Errorf("ParseTimeOfDay(%q) = %v, %v", tod.String(), got, err)
		}
	}
	if _, err := ParseTimeOfDay("noon"); err == nil {
		t.Error("expected error for unknown time of day")
	}
}

func TestWeatherBlocksSun(t *testing.T) {
	blocking := map[Weather]bool{
		WeatherClear:  false,
		WeatherCloudy: false,
		WeatherRain:   true,
		WeatherSnow:   true,
		WeatherFog:    true,
		WeatherMist:   true,
		WeatherStorm:  true,
	}
	for w, want := range blocking {
		if got := w.BlocksSun(); got != want {
			t.Errorf("%v.BlocksSun() = %v, want %v", w, got, want)
		}
	}
}

func TestCategoryString(t *testing.T) {
	if CategoryNPC.String() != "npc" {
		t.Errorf("CategoryNPC = %q", CategoryNPC.String())
	}
	if Category(99).String() != "Category(99)" {
		t.Errorf("unknown = %q", Category(99).String())
	}
}

func TestRectIntersects(t *testing.T) {
	a := Rect{X: 0, Y: 0, Width: 10, Height: 10}
	tests := []struct {
		name string
		b    Rect
		want bool
	}{
		{"overlap", Rect{5, 5, 10, 10}, true},
		{"edge", Rect{10, 0, 5, 5}, true},
		{"apart", Rect{11, 11, 5, 5}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := a.Intersects(tt.b); got != tt.want {
				t.Errorf("Intersects = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestColorToNRGBA(t *testing.T) {
	c := Color{R: 1, G: 0.5, B: 0, A: 2}.toNRGBA()
	if c.R != 255 || c.G != 128 || c.B != 0 || c.A != 255 {
		t.Errorf("toNRGBA = %+v", c)
	}
}
