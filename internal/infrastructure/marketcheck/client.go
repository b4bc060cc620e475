package marketcheck

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cartribe/backend/internal/domain"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// DefaultBaseURL is the MarketCheck v2 API root
const DefaultBaseURL = "https://api.marketcheck.com/v2"

const (
	searchPath = "/search/car/active"

	defaultTimeout    = 15 * time.Second
	defaultRows       = 40
	defaultPostalCode = "10523"
	defaultRadius     = 25

	// MarketCheck pages are small; anything past this is a broken response
	maxResponseBytes = 8 << 20
)

// ClientConfig holds the settings the MarketCheck client is built from.
// Zero values fall back to the defaults above, except RetryMax where zero disables retries.
type ClientConfig struct {
	APIKey            string
	BaseURL           string
	Timeout           time.Duration
	Rows              int
	DefaultPostalCode string
	DefaultRadius     int
	RetryMax          int
	RequestsPerSecond float64
	Burst             int
}

// Client handles communication with the MarketCheck active inventory API
type Client struct {
	http              *retryablehttp.Client
	apiKey            string
	baseURL           string
	timeout           time.Duration
	rows              int
	defaultPostalCode string
	defaultRadius     int
	rateLimiter       *rate.Limiter
	logger            zerolog.Logger
}

// Option customizes a Client
type Option func(*Client)

// WithHTTPClient replaces the underlying transport client
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http.HTTPClient = h }
}

// WithRetryWait sets the backoff bounds between retries
func WithRetryWait(minWait, maxWait time.Duration) Option {
	return func(c *Client) {
		c.http.RetryWaitMin = minWait
		c.http.RetryWaitMax = maxWait
	}
}

// NewClient creates a new MarketCheck API client. The API key is required.
func NewClient(cfg ClientConfig, logger zerolog.Logger, opts ...Option) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, domain.ErrMissingAPIKey
	}

	c := &Client{
		apiKey:            cfg.APIKey,
		baseURL:           firstNonEmpty(cfg.BaseURL, DefaultBaseURL),
		timeout:           cfg.Timeout,
		rows:              cfg.Rows,
		defaultPostalCode: firstNonEmpty(cfg.DefaultPostalCode, defaultPostalCode),
		defaultRadius:     cfg.DefaultRadius,
		logger:            logger.With().Str("component", "marketcheck").Logger(),
	}
	if c.timeout <= 0 {
		c.timeout = defaultTimeout
	}
	if c.rows <= 0 {
		c.rows = defaultRows
	}
	if c.defaultRadius <= 0 {
		c.defaultRadius = defaultRadius
	}

	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 10
	}
	c.rateLimiter = rate.NewLimiter(limit, burst)

	rc := retryablehttp.NewClient()
	rc.RetryWaitMin = 200 * time.Millisecond
	rc.RetryWaitMax = 2 * time.Second
	rc.RetryMax = max(cfg.RetryMax, 0)
	rc.ErrorHandler = retryablehttp.PassthroughErrorHandler
	rc.Logger = leveledLogger{logger: c.logger, redact: c.redact}
	c.http = rc

	for _, o := range opts {
		o(c)
	}
	return c, nil
}

// SearchActive runs a used-inventory search sorted by distance
func (c *Client) SearchActive(ctx context.Context, query domain.SearchQuery) (*domain.MarketCheckSearchResponse, error) {
	postal := firstNonEmpty(query.PostalCode, c.defaultPostalCode)
	radius := query.RadiusMiles
	if radius <= 0 {
		radius = c.defaultRadius
	}

	params := url.Values{}
	params.Set("car_type", "used")
	params.Set("rows", strconv.Itoa(c.rows))
	params.Set("year_make_model", query.Text)
	params.Set("zip", postal)
	params.Set("radius", strconv.Itoa(radius))
	params.Set("sort_by", "distance")

	c.logger.Debug().
		Str("search", query.Text).
		Str("zip", postal).
		Int("radius", radius).
		Msg("searching active listings")

	resp, err := c.search(ctx, params)
	if err != nil {
		return nil, err
	}

	c.logger.Info().
		Int("num_found", resp.NumFound).
		Int("returned", len(resp.Listings)).
		Str("search", query.Text).
		Msg("active search complete")
	return resp, nil
}

// SearchByVIN finds the single active listing for a VIN.
// MarketCheck has no fetch-by-id endpoint, so this is a one-row search.
func (c *Client) SearchByVIN(ctx context.Context, vin string) (*domain.MarketCheckListing, error) {
	if vin == "" {
		return nil, domain.ErrInvalidRequest
	}

	params := url.Values{}
	params.Set("vin", vin)
	params.Set("rows", "1")

	resp, err := c.search(ctx, params)
	if err != nil {
		return nil, err
	}
	if len(resp.Listings) == 0 {
		c.logger.Info().Str("vin", vin).Msg("no active listing for VIN, it may have been sold")
		return nil, domain.ErrListingNotFound
	}
	return &resp.Listings[0], nil
}

// Ping issues a one-row search and returns the upstream match count
func (c *Client) Ping(ctx context.Context) (int, error) {
	params := url.Values{}
	params.Set("car_type", "used")
	params.Set("rows", "1")

	resp, err := c.search(ctx, params)
	if err != nil {
		return 0, err
	}
	return resp.NumFound, nil
}

// search executes one GET against the active search endpoint, retries included,
// bounded by the client timeout
func (c *Client) search(ctx context.Context, params url.Values) (*domain.MarketCheckSearchResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: rate limiter: %w", domain.ErrUpstreamFailure, err)
	}

	params.Set("api_key", c.apiKey)
	reqURL := fmt.Sprintf("%s%s?%s", c.baseURL, searchPath, params.Encode())

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %w", domain.ErrUpstreamFailure, c.redactErr(err))
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "CarTribe/1.0")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrUpstreamFailure, c.redactErr(err))
	}
	defer resp.Body.Close()

	body, err := readAllLimit(resp.Body, maxResponseBytes)
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %w", domain.ErrUpstreamFailure, err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: status %d", domain.ErrListingNotFound, resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		c.logger.Warn().
			Int("status", resp.StatusCode).
			Str("body", truncate(string(body), 512)).
			Msg("MarketCheck API error")
		return nil, fmt.Errorf("%w: status %d", domain.ErrUpstreamFailure, resp.StatusCode)
	}

	var out domain.MarketCheckSearchResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("%w: decode response: %w", domain.ErrUpstreamFailure, err)
	}
	return &out, nil
}

// redact masks the API key wherever it appears in a URL or message
func (c *Client) redact(s string) string {
	s = strings.ReplaceAll(s, c.apiKey, "REDACTED")
	return strings.ReplaceAll(s, url.QueryEscape(c.apiKey), "REDACTED")
}

func (c *Client) redactErr(err error) error {
	var ue *url.Error
	if errors.As(err, &ue) {
		ue.URL = c.redact(ue.URL)
	}
	return err
}

func readAllLimit(r io.Reader, limit int64) ([]byte, error) {
	b, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(b)) > limit {
		return nil, errors.New("payload too large")
	}
	return b, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
