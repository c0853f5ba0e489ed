// Package scoring rates a day's weather for flying suitability. The scorer is
// a pure function: same aggregate in, same result out, every time.
package scoring

import (
	"fmt"
	"math"

	t "github.com/K-a-t-i/Flight-Weather-Analyser-Chatbot/internal/types"
)

// Baseline is the starting score before any factor applies.
const Baseline = 100.0

// Factor is one scored weather dimension: a signed point delta and a
// human-readable explanation with the delta embedded.
type Factor struct {
	Name   string  `json:"name"`
	Detail string  `json:"detail"`
	Delta  float64 `json:"delta"`
}

// Result carries the clamped score and the factors in evaluation order
// (temperature, wind, precipitation, snow, clouds, humidity, pressure), so
// explanation text is reproducible. Neutral dimensions contribute no factor.
type Result struct {
	Score   float64  `json:"score"`
	Factors []Factor `json:"factors"`
}

// Net is the unclamped sum of all factor deltas. Presentation rounds
// Baseline+Net once per day instead of accumulating per-factor rounding.
func (r Result) Net() float64 {
	var net float64
	for _, f := range r.Factors {
		net += f.Delta
	}
	return net
}

// Score rates a day starting from the baseline of 100. Seven independent
// factors adjust it additively; the final score is clamped at 0 with no upper
// bound.
func Score(day t.DayAggregate) Result {
	score := Baseline
	var factors []Factor

	add := func(name, detail string, delta float64) {
		score += delta
		factors = append(factors, Factor{Name: name, Detail: detail, Delta: delta})
	}

	temp := day.TemperatureC
	switch {
	case temp < 5:
		penalty := (5 - temp) * 3
		add("temperature", fmt.Sprintf("Too cold (%.1f°C, -%.1f points)", temp, penalty), -penalty)
	case temp > 30:
		penalty := (temp - 30) * 2
		add("temperature", fmt.Sprintf("Too hot (%.1f°C, -%.1f points)", temp, penalty), -penalty)
	case temp >= 10 && temp <= 25:
		add("temperature", fmt.Sprintf("Ideal temperature (%.1f°C, +5 points)", temp), 5)
	}

	wind := day.WindSpeedKmh
	switch {
	case wind < 5:
		add("wind", fmt.Sprintf("Calm winds (%.1f km/h, +10 points)", wind), 10)
	case wind < 15:
		add("wind", fmt.Sprintf("Light winds (%.1f km/h, +5 points)", wind), 5)
	case wind < 25:
		penalty := (wind - 15) * 2
		add("wind", fmt.Sprintf("Moderate winds (%.1f km/h, -%.1f points)", wind, penalty), -penalty)
	default:
		penalty := 20 + (wind-25)*3
		add("wind", fmt.Sprintf("Strong winds (%.1f km/h, -%.1f points)", wind, penalty), -penalty)
	}

	precip := day.PrecipitationMm
	switch {
	case precip == 0:
		add("precipitation", "No rain (0.0 mm, +15 points)", 15)
	case precip < 2:
		penalty := precip * 10
		add("precipitation", fmt.Sprintf("Light rain (%.1f mm, -%.1f points)", precip, penalty), -penalty)
	default:
		penalty := 20 + (precip-2)*5
		add("precipitation", fmt.Sprintf("Significant rain (%.1f mm, -%.1f points)", precip, penalty), -penalty)
	}

	if snow := day.SnowMm; snow > 0 {
		penalty := 50 + snow*10
		add("snow", fmt.Sprintf("Snowfall detected (%.1f mm, -%.1f points)", snow, penalty), -penalty)
	}

	clouds := day.CloudCoverPct
	switch {
	case clouds < 20:
		add("clouds", fmt.Sprintf("Clear skies (%.0f%% cloud cover, +15 points)", clouds), 15)
	case clouds < 40:
		add("clouds", fmt.Sprintf("Few clouds (%.0f%% cloud cover, +10 points)", clouds), 10)
	case clouds < 70:
		penalty := (clouds - 40) / 3
		add("clouds", fmt.Sprintf("Partly cloudy (%.0f%% cloud cover, -%.1f points)", clouds, penalty), -penalty)
	default:
		penalty := 10 + (clouds-70)/3
		add("clouds", fmt.Sprintf("Overcast (%.0f%% cloud cover, -%.1f points)", clouds, penalty), -penalty)
	}

	humidity := day.HumidityPct
	switch {
	case humidity > 90:
		penalty := (humidity - 90) * 2
		add("humidity", fmt.Sprintf("Very humid (%.0f%%, -%.1f points)", humidity, penalty), -penalty)
	case humidity > 70:
		penalty := (humidity - 70) / 2
		add("humidity", fmt.Sprintf("Humid (%.0f%%, -%.1f points)", humidity, penalty), -penalty)
	}

	pressure := day.PressureHPa
	switch {
	case pressure > 1020:
		add("pressure", fmt.Sprintf("High pressure (%.0f hPa, +5 points)", pressure), 5)
	case pressure < 1000:
		penalty := math.Min((1000-pressure)/2, 20)
		add("pressure", fmt.Sprintf("Low pressure (%.0f hPa, -%.1f points)", pressure, penalty), -penalty)
	default:
		add("pressure", fmt.Sprintf("Stable pressure (%.0f hPa, +2 points)", pressure), 2)
	}

	return Result{Score: math.Max(0, score), Factors: factors}
}
