package grove

import (
	"testing"
)

func TestDaylightTable_TimeOfDayAt(t *testing.T) {
	table := DefaultDaylightTable()
	tests := []struct {
		hour   float64
		season Season
		want   TimeOfDay
	}{
		{0, Spring, Night},
		{4.99, Spring, Night},
		{5, Spring, Dawn},
		{5.99, Spring, Dawn},
		{6, Spring, Day},
		{12, Spring, Day},
		{19, Spring, Dusk},
		{19.99, Spring, Dusk},
		{20, Spring, Night},
		{4.5, Summer, Dawn},
		{21, Summer, Dusk},
		{7.5, Winter, Dawn},
		{17, Winter, Dusk},
		{17.5, Winter, Night},
		{6.5, Autumn, Dawn},
		{-1, Spring, Night},
		{36, Spring, Day},
	}
	for _, tt := range tests {
		if got := table.TimeOfDayAt(tt.hour, tt.season); got != tt.want {
			t.Errorf("TimeOfDayAt(%v, %s) = %s, want %s", tt.hour, tt.season, got, tt.want)
		}
	}
}

func TestDaylightTable_ForFallsBack(t *testing.T) {
	table := DaylightTable{Winter: {Dawn: 8, Sunrise: 9, Sunset: 15, Dusk: 16}}
	if got := table.For(Summer); got != DefaultDaylightTable()[Spring] {
		t.Errorf("For(Summer) = %+v, want default spring", got)
	}
	if got := table.For(Winter).Sunrise; got != 9 {
		t.Errorf("For(Winter).Sunrise = %v, want 9", got)
	}
	var empty DaylightTable
	if got := empty.TimeOfDayAt(12, Autumn); got != Day {
		t.Errorf("nil table noon = %s, want day", got)
	}
}

func TestDefaultDaylightTable_Valid(t *testing.T) {
	for s, d := range DefaultDaylightTable() {
		if !d.valid() {
			t.Errorf("%s entry out of order: %+v", s, d)
		}
	}
}

func TestLoadDaylightTableJSON(t *testing.T) {
	table, err := LoadDaylightTableJSON([]byte(`{"winter": {"dawn": 7.5, "sunrise": 8.5, "sunset": 16, "dusk": 17}}`))
	if err != nil {
		t.Fatal(err)
	}
	if table[Winter].Sunrise != 8.5 {
		t.Errorf("winter sunrise = %v, want 8.5", table[Winter].Sunrise)
	}
	if table[Summer] != DefaultDaylightTable()[Summer] {
		t.Error("absent seasons should keep defaults")
	}
}

func TestLoadDaylightTableJSON_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"syntax", `{"winter":`},
		{"unknown season", `{"monsoon": {"dawn": 1, "sunrise": 2, "sunset": 3, "dusk": 4}}`},
		{"out of order", `{"spring": {"dawn": 7, "sunrise": 6, "sunset": 19, "dusk": 20}}`},
		{"sunset before sunrise", `{"spring": {"dawn": 5, "sunrise": 12, "sunset": 12, "dusk": 20}}`},
		{"past midnight", `{"spring": {"dawn": 5, "sunrise": 6, "sunset": 19, "dusk": 25}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadDaylightTableJSON([]byte(tt.data)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestWrapHour(t *testing.T) {
	tests := []struct{ in, want float64 }{
		{0, 0}, {23.5, 23.5}, {24, 0}, {25.5, 1.5}, {-0.5, 23.5}, {-48, 0},
	}
	for _, tt := range tests {
		if got := wrapHour(tt.in); !approxEqual(got, tt.want, epsilon) {
			t.Errorf("wrapHour(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestWorldClock(t *testing.T) {
	c := NewWorldClock(23, Autumn)
	c.Update(10)
	if c.Hour != 23 {
		t.Errorf("frozen clock moved to %v", c.Hour)
	}

	c.Rate = 0.5
	c.Update(4)
	if !approxEqual(c.Hour, 1, epsilon) {
		t.Errorf("Hour = %v, want 1", c.Hour)
	}
	if c.Season != Autumn {
		t.Errorf("Season changed to %s", c.Season)
	}
	if c.TimeOfDay() != Night {
		t.Errorf("TimeOfDay = %s, want night", c.TimeOfDay())
	}

	env := c.Environment(WeatherRain, "forest")
	want := Environment{Season: Autumn, Hour: c.Hour, TimeOfDay: Night, Weather: WeatherRain, Biome: "forest"}
	if env != want {
		t.Errorf("Environment = %+v, want %+v", env, want)
	}
}
