// Package opencage resolves place names to coordinates through the request
// pipeline.
package opencage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/K-a-t-i/Flight-Weather-Analyser-Chatbot/internal/pipeline"
	t "github.com/K-a-t-i/Flight-Weather-Analyser-Chatbot/internal/types"
)

// NotFoundError means the geocoder answered but had no result for the query.
// Distinct from a pipeline failure: the user can fix this one.
type NotFoundError struct {
	Query string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("location not found: %v", e.Query)
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
		panic("Missing apikey in opencage client")
	}
	if c.baseUrl == "" {
		panic("Missing baseUrl in opencage client")
	}
	return c
}

type forwardResponse struct {
	Results []struct {
		Geometry struct {
			Lat float64 `json:"lat"`
			Lng float64 `json:"lng"`
		} `json:"geometry"`
		Formatted string `json:"formatted"`
	} `json:"results"`
}

// GeoCode resolves a place name to coordinates and a canonical display name.
func (c *Client) GeoCode(ctx context.Context, location string) (*t.Coordinates, error) {
	params := map[string]string{
		"q":     location,
		"key":   c.apiKey,
		"limit": "1",
	}

	payload, err := c.pipe.Fetch(ctx, c.baseUrl, params, "opencage", pipeline.CategoryCoordinates)
	if err != nil {
		return nil, err
	}

	var respObj forwardResponse
	if err := json.Unmarshal(payload, &respObj); err != nil {
		return nil, fmt.Errorf("error unmarshalling response from opencage: %w", err)
	}
	if len(respObj.Results) == 0 {
		return nil, &NotFoundError{Query: location}
	}

	return &t.Coordinates{
		Latitude:  respObj.Results[0].Geometry.Lat,
		Longitude: respObj.Results[0].Geometry.Lng,
		Name:      respObj.Results[0].Formatted,
	}, nil
}
