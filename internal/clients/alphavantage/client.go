// Package alphavantage provides a quote client for the Alpha Vantage API
package alphavantage

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

	"github.com/bobmcallan/stockfolio/internal/common"
	"github.com/bobmcallan/stockfolio/internal/models"
	"github.com/bobmcallan/stockfolio/internal/ratelimit"
)

const (
	DefaultBaseURL = "https://www.alphavantage.co/query"
	DefaultTimeout = 30 * time.Second
)

// Client implements interfaces.QuoteFetcher against GLOBAL_QUOTE
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *common.Logger
	cooldown   *ratelimit.Cooldown
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithBaseURL sets the base URL
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		if baseURL != "" {
			c.baseURL = baseURL
		}
	}
}

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithCooldown sets the shared inter-call throttle
func WithCooldown(cooldown *ratelimit.Cooldown) ClientOption {
	return func(c *Client) {
		c.cooldown = cooldown
	}
}

// WithTimeout sets the HTTP timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient.Timeout = timeout
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// NewClient creates a new Alpha Vantage client. Without WithCooldown the
// client gets its own cooldown at the default interval.
func NewClient(apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		apiKey:  strings.TrimSpace(apiKey),
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		logger: common.NewSilentLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.cooldown == nil {
		c.cooldown = ratelimit.NewCooldown(ratelimit.DefaultInterval)
	}

	return c
}

// APIError represents a non-2xx response
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("Alpha Vantage API error: %s (status: %d)", e.Message, e.StatusCode)
}

// Configured reports whether an API key is present
func (c *Client) Configured() bool {
	return c.apiKey != ""
}

type globalQuoteResponse struct {
	GlobalQuote  map[string]string `json:"Global Quote"`
	Note         string            `json:"Note"`
	Information  string            `json:"Information"`
	ErrorMessage string            `json:"Error Message"`
}

const priceField = "05. price"

// FetchPrice returns the latest price for symbol. Every failure is a *models.FetchError.
func (c *Client) FetchPrice(ctx context.Context, symbol string) (float64, error) {
	symbol = models.NormalizeSymbol(symbol)

	if !c.Configured() {
		return 0, &models.FetchError{Kind: models.FetchUnconfigured, Symbol: symbol, Message: "API key not configured"}
	}

	body, err := c.get(ctx, symbol)
	if err != nil {
		return 0, &models.FetchError{Kind: models.FetchTransport, Symbol: symbol, Err: err}
	}

	var resp globalQuoteResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return 0, &models.FetchError{Kind: models.FetchMalformed, Symbol: symbol, Message: "failed to decode response", Err: err}
	}

	if note := firstNonEmpty(resp.Note, resp.Information); note != "" {
		c.logger.Warn().Str("symbol", symbol).Str("note", note).Msg("Alpha Vantage rate limit note")
		return 0, &models.FetchError{Kind: models.FetchThrottled, Symbol: symbol, Message: note}
	}
	if resp.ErrorMessage != "" {
		return 0, &models.FetchError{Kind: models.FetchMalformed, Symbol: symbol, Message: resp.ErrorMessage}
	}

	raw, ok := resp.GlobalQuote[priceField]
	if !ok {
		return 0, &models.FetchError{Kind: models.FetchMalformed, Symbol: symbol, Message: "response has no " + priceField}
	}

	price, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, &models.FetchError{Kind: models.FetchMalformed, Symbol: symbol, Message: fmt.Sprintf("non-numeric price %q", raw), Err: err}
	}
	if price <= 0 {
		return 0, &models.FetchError{Kind: models.FetchMalformed, Symbol: symbol, Message: fmt.Sprintf("non-positive price %q", raw)}
	}

	c.logger.Debug().Str("symbol", symbol).Float64("price", price).Msg("Fetched quote")
	return price, nil
}

// get waits out the cooldown, then performs the GLOBAL_QUOTE request.
// The cooldown is marked once any HTTP response arrives.
func (c *Client) get(ctx context.Context, symbol string) ([]byte, error) {
	if wait := c.cooldown.Delay(); wait > 0 {
		c.logger.Info().Str("symbol", symbol).Dur("wait", wait).Msg("Waiting for API cooldown")
	}
	if err := c.cooldown.Wait(ctx); err != nil {
		return nil, fmt.Errorf("cooldown wait: %w", err)
	}

	params := url.Values{}
	params.Set("function", "GLOBAL_QUOTE")
	params.Set("symbol", symbol)
	params.Set("apikey", c.apiKey)

	reqURL := c.baseURL + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	c.logger.Debug().Str("symbol", symbol).Msg("Alpha Vantage API request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()
	c.cooldown.Mark()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(body))}
	}

	return body, nil
}

// IsAPIError reports whether err carries an HTTP status error.
func IsAPIError(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
