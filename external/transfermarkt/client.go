package transfermarkt

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/laliga-scout/internal/domain/document"
	"github.com/riskibarqy/laliga-scout/internal/platform/logging"
	"github.com/riskibarqy/laliga-scout/internal/usecase"
	"github.com/sony/gobreaker"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"
)

const (
	defaultBaseURL = "https://transfermarket.p.rapidapi.com"
	defaultDomain  = "de"
	defaultTimeout = 30 * time.Second

	maxResponseBytes = 8 << 20
	maxErrorBody     = 256
)

// CircuitBreakerConfig controls fail-fast behaviour after repeated provider failures.
type CircuitBreakerConfig struct {
	Enabled          bool
	FailureThreshold int
	OpenTimeout      time.Duration
	HalfOpenMaxReq   int
}

type ClientConfig struct {
	HTTPClient *http.Client
	BaseURL    string
	APIKey     string
	APIHost    string
	Domain     string
	Timeout    time.Duration
	// RequestsPerMinute throttles outgoing calls. Zero disables throttling.
	RequestsPerMinute int
	CircuitBreaker    CircuitBreakerConfig
	Logger            *logging.Logger
}

// Client calls the Transfermarkt API published on RapidAPI. It makes a single
// attempt per request and never retries.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	apiHost    string
	domain     string
	timeout    time.Duration
	logger     *logging.Logger
	limiter    *rate.Limiter
	breaker    *gobreaker.CircuitBreaker
	flight     singleflight.Group
}

var _ document.Source = (*Client)(nil)

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = defaultTimeout
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	domain := strings.TrimSpace(cfg.Domain)
	if domain == "" {
		domain = defaultDomain
	}

	client := &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		apiKey:     cfg.APIKey,
		apiHost:    cfg.APIHost,
		domain:     domain,
		timeout:    httpClient.Timeout,
		logger:     logger,
	}
	if cfg.RequestsPerMinute > 0 {
		client.limiter = rate.NewLimiter(rate.Limit(float64(cfg.RequestsPerMinute)/60.0), 1)
	}
	if cfg.CircuitBreaker.Enabled {
		client.breaker = newBreaker(cfg.CircuitBreaker, logger)
	}
	return client
}

func newBreaker(cfg CircuitBreakerConfig, logger *logging.Logger) *gobreaker.CircuitBreaker {
	threshold := cfg.FailureThreshold
	if threshold <= 0 {
		threshold = 5
	}
	openTimeout := cfg.OpenTimeout
	if openTimeout <= 0 {
		openTimeout = 20 * time.Second
	}
	halfOpen := cfg.HalfOpenMaxReq
	if halfOpen <= 0 {
		halfOpen = 1
	}

	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "transfermarkt",
		MaxRequests: uint32(halfOpen),
		Timeout:     openTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= uint32(threshold)
		},
		IsSuccessful: func(err error) bool {
			return !isCircuitFailure(err)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed", "breaker", name, "from", from.String(), "to", to.String())
		},
	})
}

// Fetch performs one GET against endpoint and decodes the JSON object it returns.
// Concurrent identical requests share a single provider call. The shared call is
// detached from any one caller and bounded by the client timeout, so a caller
// that goes away only abandons its own wait.
func (c *Client) Fetch(ctx context.Context, endpoint document.Endpoint, params map[string]string) (document.Raw, error) {
	ctx, span := startSpan(ctx, "transfermarkt.Client.Fetch", string(endpoint))
	defer span.End()

	values := url.Values{}
	for key, value := range params {
		values.Set(key, value)
	}
	values.Set("domain", c.domain)

	fullURL := c.baseURL + "/" + strings.TrimLeft(string(endpoint), "/") + "?" + values.Encode()

	shared := context.WithoutCancel(ctx)
	results := c.flight.DoChan(fullURL, func() (any, error) {
		reqCtx, cancel := context.WithTimeout(shared, c.timeout)
		defer cancel()
		return c.guardedRequest(reqCtx, endpoint, fullURL)
	})

	var out any
	var err error
	select {
	case <-ctx.Done():
		err = &usecase.UpstreamError{
			Endpoint: string(endpoint),
			Message:  "request abandoned: " + ctx.Err().Error(),
		}
	case res := <-results:
		out, err = res.Val, res.Err
	}
	if err != nil {
		c.logger.WarnContext(ctx, "transfermarkt request failed",
			"endpoint", string(endpoint),
			"url", fullURL,
			"error", c.redact(err.Error()),
		)
		span.RecordError(err)
		return nil, err
	}

	raw, ok := out.([]byte)
	if !ok {
		return nil, fmt.Errorf("unexpected response payload type %T", out)
	}

	var doc document.Raw
	if err := sonic.Unmarshal(raw, &doc); err != nil {
		return nil, &usecase.UpstreamError{
			Endpoint:   string(endpoint),
			StatusCode: http.StatusOK,
			Message:    "decode response: " + err.Error(),
		}
	}
	if doc == nil {
		doc = document.Raw{}
	}
	return doc, nil
}

func (c *Client) guardedRequest(ctx context.Context, endpoint document.Endpoint, fullURL string) ([]byte, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, &usecase.UpstreamError{
				Endpoint: string(endpoint),
				Message:  "wait for rate limiter: " + err.Error(),
			}
		}
	}

	if c.breaker == nil {
		return c.executeRequest(ctx, endpoint, fullURL)
	}

	out, err := c.breaker.Execute(func() (any, error) {
		return c.executeRequest(ctx, endpoint, fullURL)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, &usecase.UpstreamError{
			Endpoint: string(endpoint),
			Message:  "provider temporarily unavailable: " + err.Error(),
		}
	}
	if err != nil {
		return nil, err
	}
	raw, _ := out.([]byte)
	return raw, nil
}

func (c *Client) executeRequest(ctx context.Context, endpoint document.Endpoint, fullURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("accept", "application/json")
	req.Header.Set("x-rapidapi-key", c.apiKey)
	req.Header.Set("x-rapidapi-host", c.apiHost)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &usecase.UpstreamError{
			Endpoint: string(endpoint),
			Message:  "send request: " + c.redact(err.Error()),
		}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, &usecase.UpstreamError{
			Endpoint:   string(endpoint),
			StatusCode: resp.StatusCode,
			Message:    "read response body: " + c.redact(err.Error()),
		}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &usecase.UpstreamError{
			Endpoint:   string(endpoint),
			StatusCode: resp.StatusCode,
			Message:    c.redact(abbreviateBody(raw)),
		}
	}
	return raw, nil
}

func (c *Client) redact(value string) string {
	if c.apiKey == "" {
		return value
	}
	return strings.ReplaceAll(value, c.apiKey, "REDACTED")
}

// isCircuitFailure reports whether err means the provider itself is unhealthy.
// Client errors such as an unknown id do not trip the breaker.
func isCircuitFailure(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return false
	}
	var upstreamErr *usecase.UpstreamError
	if errors.As(err, &upstreamErr) {
		status := upstreamErr.StatusCode
		return status == 0 || status == http.StatusTooManyRequests || status >= http.StatusInternalServerError
	}
	return true
}

func abbreviateBody(raw []byte) string {
	body := strings.Join(strings.Fields(string(raw)), " ")
	if body == "" {
		return "empty response body"
	}
	if len(body) <= maxErrorBody {
		return body
	}
	cut := maxErrorBody
	for cut > 0 && !utf8.RuneStart(body[cut]) {
		cut--
	}
	return body[:cut] + "..."
}
