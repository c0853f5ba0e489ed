// Package intent turns free-text user queries into structured weather
// requests via a chat-completion service with a fixed function-calling
// schema. The absence of a function call means the query was not about
// weather and the model's reply passes through untouched.
package intent

import (
	"context"
	"encoding/json"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
	"github.com/sashabaranov/go-openai/jsonschema"
)

// Kind says what the user asked for.
type Kind int

const (
	// KindChat is general conversation; Reply holds the model's answer.
	KindChat Kind = iota
	// KindWeather is a weather lookup for Location on Date.
	KindWeather
	// KindFlyingDay asks for the best flying day at Location.
	KindFlyingDay
)

// Query is the structured form of a user utterance.
type Query struct {
	Kind     Kind
	Location string
	Date     string
	Reply    string
}

type ClientOption func(*Client)

func ApiKeyOption(apiKey string) ClientOption {
	return func(c *Client) {
		c.oai = openai.NewClient(apiKey)
	}
}

func ModelOption(model string) ClientOption {
	return func(c *Client) {
		c.model = model
	}
}

func DefaultLocationOption(location string) ClientOption {
	return func(c *Client) {
		c.defaultLocation = location
	}
}

type Client struct {
	oai             *openai.Client
	model           string
	defaultLocation string
}

func New(opts ...ClientOption) *Client {
	c := &Client{model: openai.GPT3Dot5Turbo, defaultLocation: "Berlin"}
	for _, opt := range opts {
		opt(c)
	}

	if c.oai == nil {
		panic("Missing apikey in intent client")
	}
	return c
}

var functions = []openai.FunctionDefinition{
	{
		Name:        "get_weather",
		Description: "Get weather information for a specific location and date (past, present, or up to 6 days in the future)",
		Parameters: jsonschema.Definition{
			Type: jsonschema.Object,
			Properties: map[string]jsonschema.Definition{
				"location": {
					Type:        jsonschema.String,
					Description: "The city or location for the weather forecast",
				},
				"date": {
					Type:        jsonschema.String,
					Description: "The date for the weather forecast (e.g., 'today', 'tomorrow', 'next Monday', 'September 26, 2024')",
				},
			},
			Required: []string{"location", "date"},
		},
	},
	{
		Name:        "get_optimal_flying_day",
		Description: "Get the optimal day for flying in a specific location",
		Parameters: jsonschema.Definition{
			Type: jsonschema.Object,
			Properties: map[string]jsonschema.Definition{
				"location": {
					Type:        jsonschema.String,
					Description: "The city or location to check for optimal flying conditions",
				},
			},
			Required: []string{"location"},
		},
	},
}

type functionArgs struct {
	Location string `json:"location"`
	Date     string `json:"date"`
}

// Extract classifies text into a weather lookup, a flying-day request or
// plain conversation. Missing arguments fall back to the configured default
// location and "today".
func (c *Client) Extract(ctx context.Context, text string) (*Query, error) {
	resp, err := c.oai.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleSystem,
				Content: fmt.Sprintf("You are a helpful assistant that can engage in general conversation and "+
					"provide weather information when asked. You can provide historical weather data for past "+
					"dates, current weather, and forecasts for up to 6 days in the future. You can also find "+
					"the best day for flying at a location. If the user doesn't specify a location or date for "+
					"weather, assume they're asking about %v for today.", c.defaultLocation),
			},
			{Role: openai.ChatMessageRoleUser, Content: text},
		},
		Functions:    functions,
		FunctionCall: "auto",
	})
	if err != nil {
		return nil, fmt.Errorf("intent extraction failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("intent extraction returned no choices")
	}

	msg := resp.Choices[0].Message
	if msg.FunctionCall == nil {
		return &Query{Kind: KindChat, Reply: msg.Content}, nil
	}

	var args functionArgs
	if err := json.Unmarshal([]byte(msg.FunctionCall.Arguments), &args); err != nil {
		return nil, fmt.Errorf("error unmarshalling function call arguments: %w", err)
	}
	if args.Location == "" {
		args.Location = c.defaultLocation
	}

	switch msg.FunctionCall.Name {
	case "get_weather":
		if args.Date == "" {
			args.Date = "today"
		}
		return &Query{Kind: KindWeather, Location: args.Location, Date: args.Date}, nil
	case "get_optimal_flying_day":
		return &Query{Kind: KindFlyingDay, Location: args.Location}, nil
	default:
		return nil, fmt.Errorf("unknown function call: %v", msg.FunctionCall.Name)
	}
}
