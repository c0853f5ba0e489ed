// Package pipeline wraps outbound API calls with caching, bounded
// exponential-backoff retry, rate limiting and a circuit breaker. One Client
// is shared by every provider adapter and is safe for concurrent use; the
// orchestrator's 7-way day fetch runs through a single Client.
package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"math/rand"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/K-a-t-i/Flight-Weather-Analyser-Chatbot/internal/cache"
)

// Cache categories. The category picks the TTL class of a request and
// prefixes its cache key; an empty category bypasses the cache entirely.
const (
	CategoryCoordinates = "coordinates"
	CategoryWeather     = "weather"
	CategoryHistorical  = "historical"
)

// Statuses worth retrying: rate limiting and transient server errors.
var retryableStatus = map[int]bool{
	http.StatusTooManyRequests:     true,
	http.StatusInternalServerError: true,
	http.StatusBadGateway:          true,
	http.StatusServiceUnavailable:  true,
	http.StatusGatewayTimeout:      true,
}

// RetryPolicy bounds the backoff schedule. Immutable per Client.
type RetryPolicy struct {
	MaxRetries int
	BaseDelay  time.Duration
	MaxDelay   time.Duration
}

// Delay returns the sleep before retry number attempt (1-based):
// min(base * 2^(attempt-1) + jitter, max).
func (p RetryPolicy) Delay(attempt int, jitter time.Duration) time.Duration {
	d := p.BaseDelay
	for i := 1; i < attempt; i++ {
		d *= 2
		if d >= p.MaxDelay {
			return p.MaxDelay
		}
	}
	d += jitter
	if d > p.MaxDelay {
		d = p.MaxDelay
	}
	return d
}

type ClientOption func(*Client)

func CacheOption(store cache.Store, ttls map[string]time.Duration) ClientOption {
	return func(c *Client) {
		c.cache = store
		c.ttls = ttls
	}
}

func RetryOption(policy RetryPolicy) ClientOption {
	return func(c *Client) {
		c.retry = policy
	}
}

func TimeoutOption(d time.Duration) ClientOption {
	return func(c *Client) {
		c.http.Timeout = d
	}
}

func RateLimitOption(rps float64, burst int) ClientOption {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

func LoggerOption(logger *zap.SugaredLogger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// HTTPClientOption swaps the underlying http.Client, mainly for tests.
func HTTPClientOption(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.http = hc
	}
}

// Client executes GET requests with the full resilience stack applied.
type Client struct {
	http    *http.Client
	cache   cache.Store
	ttls    map[string]time.Duration
	retry   RetryPolicy
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker
	logger  *zap.SugaredLogger

	sleep  func(ctx context.Context, d time.Duration) error
	jitter func() time.Duration
}

func New(opts ...ClientOption) *Client {
	c := &Client{
		http:   &http.Client{Timeout: 10 * time.Second},
		cache:  cache.Nop{},
		retry:  RetryPolicy{MaxRetries: 3, BaseDelay: time.Second, MaxDelay: 10 * time.Second},
		logger: zap.NewNop().Sugar(),
		sleep:  sleepContext,
		jitter: func() time.Duration { return time.Duration(rand.Int63n(int64(500 * time.Millisecond))) },
	}
	for _, opt := range opts {
		opt(c)
	}

	c.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "outbound-api",
		MaxRequests: 5,
		Interval:    time.Minute,
		Timeout:     2 * time.Minute,
	})
	return c
}

// statusError travels through the breaker so non-200 responses count against
// its failure ratio.
type statusError struct {
	code int
}

func (e statusError) Error() string { return http.StatusText(e.code) }

// Fetch performs a GET against endpoint with the given query parameters.
//  1. With a known category, the cache is consulted first; a hit returns
//     without touching the network.
//  2. Transport timeouts, connection failures and retryable statuses are
//     retried up to the policy's limit with jittered exponential backoff.
//  3. A 200 with a valid JSON body is written back to the cache and returned.
//
// Every failure mode comes back as a *RequestError; nothing is retried past
// the configured limit.
func (c *Client) Fetch(ctx context.Context, endpoint string, params map[string]string, provider, category string) (json.RawMessage, error) {
	ttl := c.ttls[category]
	cached := category != "" && ttl > 0

	var key string
	if cached {
		key = cache.Key(endpoint, params, category)
		if payload, ok := c.cache.Get(key, ttl); ok {
			c.logger.Infof("using cached data for %v api request", provider)
			return payload, nil
		}
	}

	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, &RequestError{Kind: KindConnection, Provider: provider, Err: err}
	}
	q := u.Query()
	for name, value := range params {
		q.Set(name, value)
	}
	u.RawQuery = q.Encode()
	target := u.String()

	var lastErr error
	for attempt := 0; attempt <= c.retry.MaxRetries; attempt++ {
		if attempt > 0 {
			delay := c.retry.Delay(attempt, c.jitter())
			c.logger.Infof("retry %d/%d for %v api request after %v", attempt, c.retry.MaxRetries, provider, delay)
			if err := c.sleep(ctx, delay); err != nil {
				return nil, err
			}
		}

		payload, retryable, err := c.attempt(ctx, target, provider)
		if err == nil {
			if cached {
				c.cache.Put(key, payload)
			}
			return payload, nil
		}
		if !retryable {
			return nil, err
		}
		c.logger.Warnf("%v api attempt failed, will retry: %v", provider, err)
		lastErr = err
	}

	return nil, &RequestError{
		Kind:     KindRetriesExhausted,
		Provider: provider,
		Attempts: c.retry.MaxRetries + 1,
		Err:      lastErr,
	}
}

func (c *Client) attempt(ctx context.Context, target, provider string) (json.RawMessage, bool, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, false, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, false, &RequestError{Kind: KindConnection, Provider: provider, Err: err}
	}

	result, err := c.breaker.Execute(func() (interface{}, error) {
		resp, doErr := c.http.Do(req)
		if doErr != nil {
			return nil, doErr
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return nil, statusError{code: resp.StatusCode}
		}
		return resp, nil
	})
	if err != nil {
		var se statusError
		switch {
		case errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests):
			return nil, false, &RequestError{Kind: KindCircuitOpen, Provider: provider, Err: err}
		case errors.As(err, &se):
			return nil, retryableStatus[se.code], &RequestError{Kind: KindStatus, Provider: provider, Status: se.code}
		default:
			var ne net.Error
			if errors.As(err, &ne) && ne.Timeout() {
				return nil, true, &RequestError{Kind: KindTimeout, Provider: provider, Err: err}
			}
			return nil, true, &RequestError{Kind: KindConnection, Provider: provider, Err: err}
		}
	}

	resp := result.(*http.Response)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, true, &RequestError{Kind: KindConnection, Provider: provider, Err: err}
	}
	if !json.Valid(body) {
		return nil, false, &RequestError{Kind: KindMalformedResponse, Provider: provider}
	}
	return body, false, nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
