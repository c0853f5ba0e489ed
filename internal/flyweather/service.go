// Package flyweather is the conversational weather service: it resolves
// natural-language queries into weather lookups and ranks the coming week by
// flying suitability.
package flyweather

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/K-a-t-i/Flight-Weather-Analyser-Chatbot/internal/cache"
	"github.com/K-a-t-i/Flight-Weather-Analyser-Chatbot/internal/config"
	"github.com/K-a-t-i/Flight-Weather-Analyser-Chatbot/internal/dates"
	"github.com/K-a-t-i/Flight-Weather-Analyser-Chatbot/internal/intent"
	"github.com/K-a-t-i/Flight-Weather-Analyser-Chatbot/internal/meteoblue"
	"github.com/K-a-t-i/Flight-Weather-Analyser-Chatbot/internal/opencage"
	"github.com/K-a-t-i/Flight-Weather-Analyser-Chatbot/internal/pipeline"
	"github.com/K-a-t-i/Flight-Weather-Analyser-Chatbot/internal/scoring"
	t "github.com/K-a-t-i/Flight-Weather-Analyser-Chatbot/internal/types"
	"github.com/K-a-t-i/Flight-Weather-Analyser-Chatbot/internal/visualcrossing"
)

const forecastHorizonDays = 6

// RankedDay is one scored day in a flying-day ranking.
type RankedDay struct {
	Date    string           `json:"date"`
	DayName string           `json:"day_name"`
	Score   float64          `json:"score"`
	Factors []scoring.Factor `json:"factors"`
	Weather t.DayAggregate   `json:"weather"`
}

// FlyingDayReport ranks the next seven days at a location, best first.
type FlyingDayReport struct {
	Location string      `json:"location"`
	BestDay  RankedDay   `json:"best_day"`
	AllDays  []RankedDay `json:"all_days"`
}

type geocoder interface {
	GeoCode(ctx context.Context, location string) (*t.Coordinates, error)
}

type forecaster interface {
	DayForecast(ctx context.Context, coords t.Coordinates, date, today time.Time) (*t.DayAggregate, error)
}

type historian interface {
	DayHistory(ctx context.Context, coords t.Coordinates, date time.Time) (*t.DayAggregate, error)
}

type extractor interface {
	Extract(ctx context.Context, text string) (*intent.Query, error)
}

type Service struct {
	geo      geocoder
	forecast forecaster
	history  historian
	intent   extractor
	cfg      *config.Config
	now      func() time.Time

	Logger *zap.SugaredLogger
}

// New wires the whole stack from configuration: cache backend, request
// pipeline, provider clients and the intent extractor.
func New(cfg *config.Config) *Service {
	s := &Service{cfg: cfg, now: time.Now}

	baseLogger, _ := zap.NewProduction()
	s.Logger = baseLogger.Sugar()

	var store cache.Store = cache.Nop{}
	if cfg.Cache.Enabled {
		if cfg.Cache.RedisAddr != "" {
			store = cache.NewRedisStore(cfg.Cache.RedisAddr, s.Logger)
		} else if disk, err := cache.NewDiskStore(cfg.Cache.Directory, s.Logger); err != nil {
			s.Logger.Warnf("failed to create cache directory %v, caching disabled: %v", cfg.Cache.Directory, err)
		} else {
			store = disk
		}
	}

	pipe := pipeline.New(
		pipeline.CacheOption(store, map[string]time.Duration{
			pipeline.CategoryCoordinates: cfg.Cache.CoordinatesTTL,
			pipeline.CategoryWeather:     cfg.Cache.WeatherTTL,
			pipeline.CategoryHistorical:  cfg.Cache.HistoricalTTL,
		}),
		pipeline.RetryOption(pipeline.RetryPolicy{
			MaxRetries: cfg.Retry.MaxRetries,
			BaseDelay:  cfg.Retry.BaseDelay,
			MaxDelay:   cfg.Retry.MaxDelay,
		}),
		pipeline.TimeoutOption(cfg.RequestTimeout),
		pipeline.RateLimitOption(cfg.RateLimitRPS, cfg.RateLimitBurst),
		pipeline.LoggerOption(s.Logger),
	)

	s.geo = opencage.New(pipe,
		opencage.ApiKeyOption(cfg.OpenCageKey),
		opencage.BaseUrlOption(cfg.OpenCageBaseURL),
	)
	s.forecast = meteoblue.New(pipe,
		meteoblue.ApiKeyOption(cfg.MeteoblueKey),
		meteoblue.BaseUrlOption(cfg.MeteoblueBaseURL),
	)
	s.history = visualcrossing.New(pipe,
		visualcrossing.ApiKeyOption(cfg.VisualCrossingKey),
		visualcrossing.BaseUrlOption(cfg.VisualCrossingBaseURL),
	)
	s.intent = intent.New(
		intent.ApiKeyOption(cfg.OpenAIKey),
		intent.ModelOption(cfg.OpenAIModel),
		intent.DefaultLocationOption(cfg.DefaultLocation),
	)

	return s
}

// Chat answers a free-text query: weather lookup, flying-day analysis or
// plain conversation. Failures never escape as errors; the reply is always a
// user-facing sentence.
func (s *Service) Chat(ctx context.Context, text string) string {
	q, err := s.intent.Extract(ctx, text)
	if err != nil {
		s.Logger.Errorf("Error handling conversation: %v", err)
		return "I'm sorry, I encountered an error while processing your request. Please try again."
	}

	switch q.Kind {
	case intent.KindWeather:
		reply, err := s.GetWeather(ctx, q.Location, q.Date)
		if err != nil {
			return s.friendlyError(err, q.Location)
		}
		return reply
	case intent.KindFlyingDay:
		report, err := s.OptimalFlyingDay(ctx, q.Location)
		if err != nil {
			return s.friendlyError(err, q.Location)
		}
		return FormatFlyingDayReport(report)
	default:
		return q.Reply
	}
}

// GetWeather reports the weather at a location for a free-text date. Dates
// past the forecast horizon come back as a polite refusal rather than an
// error; past dates route to the historical provider.
func (s *Service) GetWeather(ctx context.Context, location, dateText string) (string, error) {
	date, err := dates.Resolve(dateText, s.now())
	if err != nil {
		return "", err
	}

	today := midnight(s.now())
	if int(date.Sub(today).Hours()/24) > forecastHorizonDays {
		latest := today.AddDate(0, 0, forecastHorizonDays)
		return fmt.Sprintf("I'm sorry, but I can only provide weather for the past, today and up to 6 days "+
			"in the future. The date you asked about (%v) is too far in the future. The latest date I can "+
			"provide a forecast for is %v.", date.Format("2006-01-02"), latest.Format("2006-01-02")), nil
	}

	coords, err := s.geo.GeoCode(ctx, location)
	if err != nil {
		return "", err
	}

	var day *t.DayAggregate
	historical := date.Before(today)
	if historical {
		day, err = s.history.DayHistory(ctx, *coords, date)
	} else {
		day, err = s.forecast.DayForecast(ctx, *coords, date, today)
	}
	if err != nil {
		return "", err
	}

	return formatWeather(*coords, *day, historical), nil
}

var errNoUsableDays = errors.New("no usable forecast days")

// OptimalFlyingDay ranks the next seven days at a location by flying score.
// Days whose fetch fails are skipped; only losing all seven is an error.
func (s *Service) OptimalFlyingDay(ctx context.Context, location string) (*FlyingDayReport, error) {
	coords, err := s.geo.GeoCode(ctx, location)
	if err != nil {
		return nil, err
	}

	s.Logger.Infof("Analysing weather for %v over the next %d days", location, forecastHorizonDays)

	days := s.collectDays(ctx, *coords)
	if len(days) == 0 {
		return nil, errNoUsableDays
	}

	ranked := make([]RankedDay, 0, len(days))
	for _, day := range days {
		res := scoring.Score(*day)
		ranked = append(ranked, RankedDay{
			Date:    day.Date.Format("2006-01-02"),
			DayName: day.DayName,
			Score:   res.Score,
			Factors: res.Factors,
			Weather: *day,
		})
	}

	// Stable sort so equal scores keep ascending day-offset order.
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	return &FlyingDayReport{
		Location: coords.Name,
		BestDay:  ranked[0],
		AllDays:  ranked,
	}, nil
}

// collectDays fetches day offsets 0..6 and drops failures. The concurrent
// path launches all seven fetches and joins them all before returning, a
// fan-out/fan-in barrier with no short-circuit; per-day errors are logged
// inside fetchDay and surface here only as nil slots.
func (s *Service) collectDays(ctx context.Context, coords t.Coordinates) []*t.DayAggregate {
	today := midnight(s.now())
	results := make([]*t.DayAggregate, forecastHorizonDays+1)

	if s.cfg.SequentialFetch {
		for offset := range results {
			results[offset] = s.fetchDay(ctx, coords, today, offset)
		}
	} else {
		g := new(errgroup.Group)
		for offset := range results {
			offset := offset
			g.Go(func() error {
				results[offset] = s.fetchDay(ctx, coords, today, offset)
				return nil
			})
		}
		_ = g.Wait()
	}

	days := make([]*t.DayAggregate, 0, len(results))
	for _, day := range results {
		if day != nil {
			days = append(days, day)
		}
	}
	return days
}

func (s *Service) fetchDay(ctx context.Context, coords t.Coordinates, today time.Time, offset int) *t.DayAggregate {
	date := today.AddDate(0, 0, offset)
	day, err := s.forecast.DayForecast(ctx, coords, date, today)
	if err != nil {
		s.Logger.Warnf("failed to get weather data for day %d (%v): %v", offset, date.Format("2006-01-02"), err)
		return nil
	}
	return day
}

// friendlyError converts a typed failure into the sentence shown to the user.
// Raw errors never reach the presentation layer.
func (s *Service) friendlyError(err error, location string) string {
	var notFound *opencage.NotFoundError
	var badDate *dates.ParseError
	var outOfRange *meteoblue.OutOfRangeError
	switch {
	case errors.As(err, &notFound):
		return fmt.Sprintf("I'm sorry, but I don't have information for the location '%v'. "+
			"Could you please check the spelling or try asking about a different city?", location)
	case errors.As(err, &badDate):
		return fmt.Sprintf("I am happy to tell you the weather, if you give me a date and location. "+
			"And I'm sorry, I couldn't understand this date. %v", badDate.Error())
	case errors.As(err, &outOfRange):
		return fmt.Sprintf("I'm sorry, %v", outOfRange.Error())
	case errors.Is(err, errNoUsableDays):
		return "I couldn't retrieve enough weather data to make a recommendation."
	default:
		s.Logger.Errorw(err.Error(), "location", location)
		return fmt.Sprintf("Sorry, I couldn't retrieve the weather information at this time. %v", err)
	}
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
