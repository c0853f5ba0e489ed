// Package visualcrossing fetches historical weather, already aggregated to
// daily granularity by the provider.
package visualcrossing

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/K-a-t-i/Flight-Weather-Analyser-Chatbot/internal/pipeline"
	t "github.com/K-a-t-i/Flight-Weather-Analyser-Chatbot/internal/types"
)

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
		panic("Missing apikey in visualcrossing client")
	}
	if c.baseUrl == "" {
		panic("Missing baseUrl in visualcrossing client")
	}
	return c
}

type response struct {
	Days []dayRecord `json:"days"`
}

type dayRecord struct {
	Temp       float64 `json:"temp"`
	WindSpeed  float64 `json:"windspeed"`
	WindDir    float64 `json:"winddir"`
	Precip     float64 `json:"precip"`
	Snow       float64 `json:"snow"`
	Humidity   float64 `json:"humidity"`
	Pressure   float64 `json:"pressure"`
	CloudCover float64 `json:"cloudcover"`
}

// DayHistory fetches the daily record for coords on a past date. The
// provider's timeline endpoint addresses the point and date in the URL path.
func (c *Client) DayHistory(ctx context.Context, coords t.Coordinates, date time.Time) (*t.DayAggregate, error) {
	endpoint := fmt.Sprintf("%v/%f,%f/%v", c.baseUrl, coords.Latitude, coords.Longitude, date.Format("2006-01-02"))
	params := map[string]string{
		"unitGroup":   "metric",
		"key":         c.apiKey,
		"contentType": "json",
	}

	payload, err := c.pipe.Fetch(ctx, endpoint, params, "visualcrossing", pipeline.CategoryHistorical)
	if err != nil {
		return nil, err
	}

	var respObj response
	if err := json.Unmarshal(payload, &respObj); err != nil {
		return nil, fmt.Errorf("error unmarshalling response from visualcrossing: %w", err)
	}
	if len(respObj.Days) == 0 {
		return nil, fmt.Errorf("missing days in visualcrossing api response")
	}

	day := respObj.Days[0]
	return &t.DayAggregate{
		Date:             date,
		DayName:          date.Weekday().String(),
		TemperatureC:     day.Temp,
		WindSpeedKmh:     day.WindSpeed,
		WindDirectionDeg: day.WindDir,
		PrecipitationMm:  day.Precip,
		SnowMm:           day.Snow,
		HumidityPct:      day.Humidity,
		PressureHPa:      day.Pressure,
		CloudCoverPct:    day.CloudCover,
	}, nil
}
