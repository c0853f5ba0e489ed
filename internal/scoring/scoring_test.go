package scoring

import (
	"math"
	"reflect"
	"testing"

	types "github.com/K-a-t-i/Flight-Weather-Analyser-Chatbot/internal/types"
)

func TestScoreCrispWinterDay(t *testing.T) {
	day := types.DayAggregate{
		TemperatureC:    3,
		WindSpeedKmh:    2,
		PrecipitationMm: 0,
		SnowMm:          0,
		CloudCoverPct:   15,
		HumidityPct:     40,
		PressureHPa:     1025,
	}

	res := Score(day)
	if res.Score != 139 {
		t.Fatalf("expected score 139, got %v", res.Score)
	}

	// cold -6, calm +10, dry +15, clear +15, high pressure +5
	wantDeltas := []float64{-6, 10, 15, 15, 5}
	if len(res.Factors) != len(wantDeltas) {
		t.Fatalf("expected %d factors, got %d: %+v", len(wantDeltas), len(res.Factors), res.Factors)
	}
	for i, f := range res.Factors {
		if f.Delta != wantDeltas[i] {
			t.Errorf("factor %d (%v): delta %v, want %v", i, f.Name, f.Delta, wantDeltas[i])
		}
	}
}

func TestScoreDeterministic(t *testing.T) {
	day := types.DayAggregate{
		TemperatureC:    18.4,
		WindSpeedKmh:    12.1,
		PrecipitationMm: 0.7,
		SnowMm:          0,
		CloudCoverPct:   55,
		HumidityPct:     82,
		PressureHPa:     1008,
	}

	first := Score(day)
	for i := 0; i < 5; i++ {
		if got := Score(day); !reflect.DeepEqual(got, first) {
			t.Fatalf("run %d differed: %+v vs %+v", i, got, first)
		}
	}
}

func TestScoreNeverNegative(t *testing.T) {
	day := types.DayAggregate{
		TemperatureC:    -25,
		WindSpeedKmh:    80,
		PrecipitationMm: 30,
		SnowMm:          20,
		CloudCoverPct:   100,
		HumidityPct:     98,
		PressureHPa:     960,
	}

	res := Score(day)
	if res.Score != 0 {
		t.Fatalf("expected clamped score 0, got %v", res.Score)
	}
	if res.Net() >= 0 {
		t.Fatalf("expected negative net on a miserable day, got %v", res.Net())
	}
}

func TestScoreFactorOrder(t *testing.T) {
	day := types.DayAggregate{
		TemperatureC:    -2,
		WindSpeedKmh:    30,
		PrecipitationMm: 5,
		SnowMm:          3,
		CloudCoverPct:   90,
		HumidityPct:     95,
		PressureHPa:     990,
	}

	res := Score(day)
	wantNames := []string{"temperature", "wind", "precipitation", "snow", "clouds", "humidity", "pressure"}
	if len(res.Factors) != len(wantNames) {
		t.Fatalf("expected all %d factors, got %d", len(wantNames), len(res.Factors))
	}
	for i, f := range res.Factors {
		if f.Name != wantNames[i] {
			t.Errorf("factor %d: name %v, want %v", i, f.Name, wantNames[i])
		}
	}
}

func TestScoreBoundaries(t *testing.T) {
	tests := []struct {
		name  string
		day   types.DayAggregate
		fname string
		delta float64
	}{
		{
			name:  "temperature 10 enters the ideal band",
			day:   types.DayAggregate{TemperatureC: 10, WindSpeedKmh: 50, PressureHPa: 1010},
			fname: "temperature",
			delta: 5,
		},
		{
			name:  "wind exactly 15 is moderate with zero penalty",
			day:   types.DayAggregate{TemperatureC: 7, WindSpeedKmh: 15, PressureHPa: 1010},
			fname: "wind",
			delta: 0,
		},
		{
			name:  "low pressure penalty caps at 20",
			day:   types.DayAggregate{TemperatureC: 7, WindSpeedKmh: 50, PressureHPa: 900},
			fname: "pressure",
			delta: -20,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			res := Score(tc.day)
			for _, f := range res.Factors {
				if f.Name == tc.fname {
					if f.Delta != tc.delta {
						t.Fatalf("%v delta %v, want %v", tc.fname, f.Delta, tc.delta)
					}
					return
				}
			}
			t.Fatalf("factor %v not present: %+v", tc.fname, res.Factors)
		})
	}
}

func TestNetMatchesScoreBeforeClamp(t *testing.T) {
	day := types.DayAggregate{
		TemperatureC:    20,
		WindSpeedKmh:    3,
		PrecipitationMm: 0,
		CloudCoverPct:   10,
		HumidityPct:     50,
		PressureHPa:     1022,
	}

	res := Score(day)
	if math.Abs(Baseline+res.Net()-res.Score) > 1e-9 {
		t.Fatalf("baseline+net (%v) should equal the unclamped score (%v)", Baseline+res.Net(), res.Score)
	}
}
