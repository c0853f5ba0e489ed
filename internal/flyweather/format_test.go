package flyweather

import (
	"strings"
	"testing"
	"time"

	"github.com/K-a-t-i/Flight-Weather-Analyser-Chatbot/internal/scoring"
	types "github.com/K-a-t-i/Flight-Weather-Analyser-Chatbot/internal/types"
)

func TestDisplayScoreRoundsOnce(t *testing.T) {
	factors := []scoring.Factor{
		{Name: "wind", Delta: 2.4},
		{Name: "clouds", Delta: 2.4},
	}
	// Net 4.8 rounds to 5; rounding per factor would give 2+2=4.
	score, net := displayScore(factors)
	if net != 5 {
		t.Errorf("net %d, want 5", net)
	}
	if score != 105 {
		t.Errorf("score %d, want 105", score)
	}
}

func TestDisplayScoreNotClamped(t *testing.T) {
	factors := []scoring.Factor{{Name: "snow", Delta: -170}}
	score, net := displayScore(factors)
	if score != -70 || net != -170 {
		t.Errorf("display score keeps the raw arithmetic, got score %d net %d", score, net)
	}
}

func TestFactorLabel(t *testing.T) {
	f := scoring.Factor{Name: "wind", Detail: "Calm winds (3.0 km/h, +10 points)", Delta: 10}
	if got := factorLabel(f); got != "Calm winds" {
		t.Errorf("label %q, want %q", got, "Calm winds")
	}

	bare := scoring.Factor{Name: "wind", Detail: "no parenthetical"}
	if got := factorLabel(bare); got != "wind" {
		t.Errorf("label without parenthetical should fall back to the name, got %q", got)
	}
}

func TestFormatWeatherPilotBlock(t *testing.T) {
	coords := types.Coordinates{Name: "Berlin, Germany"}
	day := types.DayAggregate{
		Date:             time.Date(2024, 9, 26, 0, 0, 0, 0, time.UTC),
		DayName:          "Thursday",
		TemperatureC:     18,
		WindSpeedKmh:     10,
		WindDirectionDeg: 230,
		PrecipitationMm:  0,
		HumidityPct:      55,
		PressureHPa:      1015,
		CloudCoverPct:    20,
	}

	out := formatWeather(coords, day, false)
	if !strings.Contains(out, "Wind: 10.00 km/h (5.4 knots) from 230°") {
		t.Errorf("wind line should convert to knots:\n%v", out)
	}
	if !strings.Contains(out, "No fog/mist reported") {
		t.Errorf("dry air should report no fog:\n%v", out)
	}

	day.HumidityPct = 95
	out = formatWeather(coords, day, false)
	if !strings.Contains(out, "Possible fog/mist (FG/BR)") {
		t.Errorf("high humidity should flag fog:\n%v", out)
	}
}

func TestFormatFlyingDayReport(t *testing.T) {
	day := types.DayAggregate{
		Date:          time.Date(2024, 9, 27, 0, 0, 0, 0, time.UTC),
		DayName:       "Friday",
		TemperatureC:  18,
		WindSpeedKmh:  3,
		CloudCoverPct: 10,
		HumidityPct:   50,
		PressureHPa:   1015,
	}
	res := scoring.Score(day)
	ranked := RankedDay{
		Date:    "2024-09-27",
		DayName: "Friday",
		Score:   res.Score,
		Factors: res.Factors,
		Weather: day,
	}
	report := &FlyingDayReport{
		Location: "Berlin, Germany",
		BestDay:  ranked,
		AllDays:  []RankedDay{ranked},
	}

	out := FormatFlyingDayReport(report)
	if !strings.Contains(out, "OPTIMAL FLYING DAY FOR BERLIN, GERMANY") {
		t.Errorf("missing header:\n%v", out)
	}
	// 18C +5, calm +10, dry +15, clear +15, stable +2 = net 47.
	if !strings.Contains(out, "score of 147 (base:100 + 47 bonus)") {
		t.Errorf("missing best-day score line:\n%v", out)
	}
	if !strings.Contains(out, "Positive factors:") {
		t.Errorf("missing per-day factor summary:\n%v", out)
	}
	if !strings.Contains(out, "Analysis factors:") {
		t.Errorf("missing analysis block:\n%v", out)
	}
}

func TestDescribeConditions(t *testing.T) {
	tests := []struct {
		name string
		day  types.DayAggregate
		want string
	}{
		{"clear", types.DayAggregate{CloudCoverPct: 5, TemperatureC: 18}, "clear and sunny"},
		{"hot and clear", types.DayAggregate{CloudCoverPct: 5, TemperatureC: 28}, "brilliantly sunny"},
		{"heavy snow", types.DayAggregate{SnowMm: 12, TemperatureC: -2}, "heavily snowing"},
		{"storm", types.DayAggregate{PrecipitationMm: 20, TemperatureC: 12}, "stormy with heavy rain"},
		{"fog", types.DayAggregate{HumidityPct: 95, CloudCoverPct: 85, TemperatureC: 8}, "foggy"},
		{"cold overcast", types.DayAggregate{CloudCoverPct: 90, TemperatureC: 2}, "gloomy and cold"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := describeConditions(tc.day)
			if !strings.HasPrefix(got, tc.want) {
				t.Errorf("describeConditions = %q, want prefix %q", got, tc.want)
			}
		})
	}
}
