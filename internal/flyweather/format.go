package flyweather

import (
	"fmt"
	"math"
	"strings"

	"github.com/K-a-t-i/Flight-Weather-Analyser-Chatbot/internal/scoring"
	t "github.com/K-a-t-i/Flight-Weather-Analyser-Chatbot/internal/types"
)

// kmh to knots.
const knotsPerKmh = 0.54

// formatWeather renders one day's aggregate as the conversational weather
// report, including the pilot-oriented block.
func formatWeather(coords t.Coordinates, day t.DayAggregate, historical bool) string {
	verb := "is expected to be"
	if historical {
		verb = "was"
	}

	condition := describeConditions(day)
	fogOrMist := "No fog/mist reported"
	if day.HumidityPct >= 90 {
		fogOrMist = "Possible fog/mist (FG/BR)"
	}

	formattedDate := fmt.Sprintf("%v, %v", day.DayName, day.Date.Format("2006-01-02"))

	var b strings.Builder
	fmt.Fprintf(&b, "On %v, the weather in %v %v %v. The average temperature %v %.2f°C, "+
		"with %.1fmm of precipitation and average wind speeds of %.2fkm/h.\n\n",
		formattedDate, coords.Name, verb, condition, verb, day.TemperatureC, day.PrecipitationMm, day.WindSpeedKmh)

	fmt.Fprintf(&b, "- Average Temperature: %.2f°C\n", day.TemperatureC)
	fmt.Fprintf(&b, "- Average Wind Speed: %.2f km/h\n", day.WindSpeedKmh)
	fmt.Fprintf(&b, "- Total Precipitation: %.1f mm\n", day.PrecipitationMm)
	fmt.Fprintf(&b, "- Average Relative Humidity: %.0f%%\n", day.HumidityPct)
	fmt.Fprintf(&b, "- Average Cloud Cover: %.0f%%\n\n", day.CloudCoverPct)

	b.WriteString("Weather information for our pilots:\n")
	fmt.Fprintf(&b, "- Average Temperature: %.2f°C\n", day.TemperatureC)
	fmt.Fprintf(&b, "- Wind: %.2f km/h (%.1f knots) from %.0f° (DD)\n",
		day.WindSpeedKmh, day.WindSpeedKmh*knotsPerKmh, day.WindDirectionDeg)
	fmt.Fprintf(&b, "- Precipitation (RA): %.1f mm\n", day.PrecipitationMm)
	fmt.Fprintf(&b, "- Snow (SN): %.1f mm\n", day.SnowMm)
	fmt.Fprintf(&b, "- Average Relative Humidity (RH): %.0f%%\n", day.HumidityPct)
	fmt.Fprintf(&b, "- Average Barometric Pressure (QNH): %.0f hPa\n", day.PressureHPa)
	fmt.Fprintf(&b, "- %v\n", fogOrMist)
	b.WriteString("- Freezing Level (FZ LVL): Information not available\n")
	b.WriteString("- Ceiling Height (CIG): Information not available")

	return b.String()
}

// describeConditions builds the prose condition from the aggregate. A primary
// condition comes from precipitation, fog or cloud cover; wind, temperature
// and pressure add detail phrases.
func describeConditions(day t.DayAggregate) string {
	var primary string
	var details []string

	switch {
	case day.SnowMm > 0:
		if day.SnowMm > 10 {
			primary = "heavily snowing"
		} else {
			primary = "snowy"
		}
		details = append(details, "snow-covered")
	case day.PrecipitationMm > 0:
		switch {
		case day.PrecipitationMm > 15:
			primary = "stormy with heavy rain"
		case day.PrecipitationMm > 5:
			primary = "rainy"
		default:
			primary = "drizzly"
		}
	case day.HumidityPct > 90 && day.CloudCoverPct > 80:
		primary = "foggy"
		details = append(details, "misty")
	case day.CloudCoverPct < 10:
		primary = "clear and sunny"
		details = append(details, "bright")
	case day.CloudCoverPct < 30:
		primary = "mostly sunny"
		details = append(details, "pleasant")
	case day.CloudCoverPct < 60:
		primary = "partly cloudy"
	default:
		primary = "overcast"
	}

	if day.WindSpeedKmh > 40 {
		details = append(details, "very windy")
	} else if day.WindSpeedKmh > 20 {
		details = append(details, "breezy")
	}

	switch {
	case day.TemperatureC < -10:
		details = append(details, "bitterly cold")
	case day.TemperatureC < 0:
		details = append(details, "frosty")
	case day.TemperatureC < 10:
		details = append(details, "chilly")
	case day.TemperatureC >= 15 && day.TemperatureC <= 25:
		details = append(details, "comfortable")
	case day.TemperatureC > 30:
		details = append(details, "hot")
	}

	if primary == "clear and sunny" && day.TemperatureC > 25 {
		primary = "brilliantly sunny"
	}
	if primary == "overcast" && day.TemperatureC < 5 {
		primary = "gloomy and cold"
	}

	if day.PressureHPa > 1025 && day.CloudCoverPct < 30 {
		details = append(details, "with excellent visibility")
	}

	if len(details) > 0 {
		return fmt.Sprintf("%v, %v", primary, strings.Join(details, " and "))
	}
	return primary
}

// FormatFlyingDayReport renders the ranked week as plain text. Display scores
// round the unclamped baseline+net once per day so per-factor rounding never
// compounds.
func FormatFlyingDayReport(r *FlyingDayReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "OPTIMAL FLYING DAY FOR %v\n\n", strings.ToUpper(r.Location))

	best := r.BestDay
	bestScore, bestNet := displayScore(best.Factors)
	if bestNet >= 0 {
		fmt.Fprintf(&b, "The best day for flying in the next week is %v, %v with a flying condition "+
			"score of %d (base:100 + %d bonus).\n\n", best.DayName, best.Date, bestScore, bestNet)
	} else {
		fmt.Fprintf(&b, "The best day for flying in the next week is %v, %v with a flying condition "+
			"score of %d (base:100 - %d penalty).\n\n", best.DayName, best.Date, bestScore, -bestNet)
	}

	b.WriteString("Weather conditions:\n")
	w := best.Weather
	fmt.Fprintf(&b, "- Temperature: %.1f°C\n", w.TemperatureC)
	fmt.Fprintf(&b, "- Wind: %.1f km/h from %.0f°\n", w.WindSpeedKmh, w.WindDirectionDeg)
	fmt.Fprintf(&b, "- Precipitation: %.1f mm\n", w.PrecipitationMm)
	fmt.Fprintf(&b, "- Cloud cover: %.0f%%\n", w.CloudCoverPct)
	fmt.Fprintf(&b, "- Humidity: %.0f%%\n", w.HumidityPct)
	fmt.Fprintf(&b, "- Pressure: %.0f hPa\n\n", w.PressureHPa)

	b.WriteString("Analysis factors:\n")
	for _, f := range best.Factors {
		fmt.Fprintf(&b, "- %v\n", f.Detail)
	}

	b.WriteString("\nAll days ranked:\n")
	for i, day := range r.AllDays {
		score, net := displayScore(day.Factors)
		if net >= 0 {
			fmt.Fprintf(&b, "%d. %v, %v - Score: %d (base:100 + %d bonus)\n", i+1, day.DayName, day.Date, score, net)
		} else {
			fmt.Fprintf(&b, "%d. %v, %v - Score: %d (base:100 - %d penalty)\n", i+1, day.DayName, day.Date, score, -net)
		}

		var bonuses, penalties []string
		for _, f := range day.Factors {
			label := factorLabel(f)
			if f.Delta > 0 {
				bonuses = append(bonuses, fmt.Sprintf("%v: +%d", label, int(math.Round(f.Delta))))
			} else if f.Delta < 0 {
				penalties = append(penalties, fmt.Sprintf("%v: -%d", label, int(math.Round(-f.Delta))))
			}
		}
		if len(bonuses) > 0 {
			fmt.Fprintf(&b, "   Positive factors: %v\n", strings.Join(bonuses, ", "))
		}
		if len(penalties) > 0 {
			fmt.Fprintf(&b, "   Challenging factors: %v\n", strings.Join(penalties, ", "))
		}
	}

	return b.String()
}

// displayScore rounds base+net for presentation; the exact float score still
// governs the ranking.
func displayScore(factors []scoring.Factor) (score, net int) {
	var exact float64
	for _, f := range factors {
		exact += f.Delta
	}
	return int(math.Round(scoring.Baseline + exact)), int(math.Round(exact))
}

// factorLabel is the descriptive prefix of a factor's detail string, e.g.
// "Calm winds" out of "Calm winds (3.0 km/h, +10 points)".
func factorLabel(f scoring.Factor) string {
	if i := strings.Index(f.Detail, "("); i > 0 {
		return strings.TrimSpace(f.Detail[:i])
	}
	return f.Name
}
