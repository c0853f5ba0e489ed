// Package meteoblue fetches hourly forecasts and reduces them to daily
// aggregates. The provider returns 7 days of parallel hourly arrays in a
// single payload; one fetch therefore serves every day offset, and the cache
// collapses the orchestrator's seven calls into one upstream request.
package meteoblue

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/K-a-t-i/Flight-Weather-Analyser-Chatbot/internal/pipeline"
	t "github.com/K-a-t-i/Flight-Weather-Analyser-Chatbot/internal/types"
)

const hoursPerDay = 24

// standardPressure substitutes an all-zero pressure slice, the provider's
// missing-data signal for that field.
const standardPressure = 1013.0

// OutOfRangeError means the requested date is outside the provider's
// 7-day forecast horizon (today through today+6).
type OutOfRangeError struct {
	Date time.Time
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("date out of range: can only provide forecast for today and the next 6 days, not %v", e.Date.Format("2006-01-02"))
}

type ClientOption func(*Client)

func ApiKeyOption(apiKey string) ClientOption {
	return func(c *Client) {
		c.apiKey = apiKey
	}
}

func BaseUrlOption(baseUrl string) ClientOption {
	return func(c *Client) {
		c.baseUrl = baseUrl
	}
}

type Client struct {
	apiKey  string
	baseUrl string
	pipe    *pipeline.Client
}

func New(pipe *pipeline.Client, opts ...ClientOption) *Client {
	c := &Client{pipe: pipe}
	for _, opt := range opts {
		opt(c)
	}

	if c.apiKey == "" {
		panic("Missing apikey in meteoblue client")
	}
	if c.baseUrl == "" {
		panic("Missing baseUrl in meteoblue client")
	}
	return c
}

type response struct {
	Data1H *hourly `json:"data_1h"`
}

type hourly struct {
	Temperature      []float64 `json:"temperature"`
	WindSpeed        []float64 `json:"windspeed"`
	WindDirection    []float64 `json:"winddirection"`
	Precipitation    []float64 `json:"precipitation"`
	Snowfall         []float64 `json:"snowfall"`
	RelativeHumidity []float64 `json:"relativehumidity"`
	Pressure         []float64 `json:"pressure"`
	CloudCover       []float64 `json:"cloudcover"`
}

// DayForecast fetches the hourly forecast for coords and reduces the slice
// for date to a daily aggregate. date must lie within today..today+6.
func (c *Client) DayForecast(ctx context.Context, coords t.Coordinates, date, today time.Time) (*t.DayAggregate, error) {
	offset := int(math.Round(date.Sub(today).Hours() / hoursPerDay))
	if offset < 0 || offset > 6 {
		return nil, &OutOfRangeError{Date: date}
	}

	params := map[string]string{
		"apikey": c.apiKey,
		"lat":    strconv.FormatFloat(coords.Latitude, 'f', -1, 64),
		"lon":    strconv.FormatFloat(coords.Longitude, 'f', -1, 64),
		"asl":    "0",
		"format": "json",
		"tz":     "UTC",
	}

	payload, err := c.pipe.Fetch(ctx, c.baseUrl, params, "meteoblue", pipeline.CategoryWeather)
	if err != nil {
		return nil, err
	}

	var respObj response
	if err := json.Unmarshal(payload, &respObj); err != nil {
		return nil, fmt.Errorf("error unmarshalling response from meteoblue: %w", err)
	}
	if respObj.Data1H == nil {
		return nil, fmt.Errorf("missing data_1h in meteoblue api response")
	}

	return reduceDay(respObj.Data1H, date, offset), nil
}

// reduceDay collapses the 24 hourly samples at the given day offset into one
// aggregate: means for intensive quantities, sums for precipitation and snow.
func reduceDay(h *hourly, date time.Time, offset int) *t.DayAggregate {
	return &t.DayAggregate{
		Date:             date,
		DayName:          date.Weekday().String(),
		TemperatureC:     mean(daySlice(h.Temperature, offset)),
		WindSpeedKmh:     mean(daySlice(h.WindSpeed, offset)),
		WindDirectionDeg: mean(daySlice(h.WindDirection, offset)),
		PrecipitationMm:  sum(daySlice(h.Precipitation, offset)),
		SnowMm:           sum(daySlice(h.Snowfall, offset)),
		HumidityPct:      mean(daySlice(h.RelativeHumidity, offset)),
		PressureHPa:      reducePressure(daySlice(h.Pressure, offset)),
		CloudCoverPct:    mean(daySlice(h.CloudCover, offset)),
	}
}

// daySlice returns the 24 samples for a day offset, zero-filling anything the
// provider omitted or truncated.
func daySlice(values []float64, offset int) []float64 {
	out := make([]float64, hoursPerDay)
	start := offset * hoursPerDay
	for i := 0; i < hoursPerDay; i++ {
		if start+i < len(values) {
			out[i] = values[start+i]
		}
	}
	return out
}

func sum(values []float64) float64 {
	var total float64
	for _, v := range values {
		total += v
	}
	return total
}

func mean(values []float64) float64 {
	return sum(values) / float64(len(values))
}

// reducePressure averages the positive samples only; an all-zero slice is the
// provider saying "no data", not a vacuum, and maps to standard atmospheric
// pressure.
func reducePressure(values []float64) float64 {
	var total float64
	var n int
	for _, v := range values {
		if v > 0 {
			total += v
			n++
		}
	}
	if n == 0 {
		return standardPressure
	}
	return total / float64(n)
}
