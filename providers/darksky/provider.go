package darksky

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"darksky-sensors/datasource"
	"darksky-sensors/models"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/sirupsen/logrus"
)

const (
	defaultBaseURL = "https://api.darksky.net"
	defaultTimeout = 10 * time.Second
)

// Client fetches forecasts from the Dark Sky API
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	logger     *logrus.Entry
}

// Ensure Client implements datasource.ForecastSource
var _ datasource.ForecastSource = (*Client)(nil)

// Option customizes a Client
type Option func(*Client)

// WithBaseURL points the client at another API host
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// NewClient creates a new Dark Sky client. retries is the number of transport
// level retries on connection errors and 5xx responses; zero disables them.
func NewClient(apiKey string, timeout time.Duration, retries int, logger *logrus.Logger, opts ...Option) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	entry := logger.WithField("component", "darksky-client")

	rc := retryablehttp.NewClient()
	rc.Logger = nil
	rc.RetryMax = retries
	rc.RequestLogHook = func(_ retryablehttp.Logger, req *http.Request, attempt int) {
		if attempt > 0 {
			entry.WithFields(logrus.Fields{"host": req.URL.Host, "attempt": attempt}).
				Warn("retrying forecast request")
		}
	}
	httpClient := rc.StandardClient()
	httpClient.Timeout = timeout

	c := &Client{
		apiKey:     apiKey,
		baseURL:    defaultBaseURL,
		httpClient: httpClient,
		logger:     entry,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Name returns the provider name
func (c *Client) Name() string {
	return "Dark Sky"
}

// GetForecast fetches the forecast for the requested coordinates
func (c *Client) GetForecast(ctx context.Context, req datasource.Request) (*models.Forecast, error) {
	endpoint := fmt.Sprintf("%s/forecast/%s/%s,%s",
		c.baseURL,
		url.PathEscape(c.apiKey),
		strconv.FormatFloat(req.Latitude, 'f', -1, 64),
		strconv.FormatFloat(req.Longitude, 'f', -1, 64),
	)

	params := url.Values{}
	if req.Language != "" {
		params.Set("lang", req.Language)
	}
	if req.Units != "" {
		params.Set("units", string(req.Units))
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")

	c.logger.WithFields(logrus.Fields{
		"latitude":  req.Latitude,
		"longitude": req.Longitude,
		"units":     req.Units,
		"language":  req.Language,
	}).Debug("requesting forecast")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to send request: %w", datasource.ErrUpstream, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response body: %w", datasource.ErrUpstream, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var forecastResp forecastResponse
	if err := json.Unmarshal(body, &forecastResp); err != nil {
		return nil, fmt.Errorf("%w: failed to parse API response: %w", datasource.ErrUpstream, err)
	}

	return forecastResp.toModel(time.Now()), nil
}

// StatusError is returned when the API answers with a non-200 status
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("API error (status %d): %s", e.StatusCode, e.Body)
}

// Unwrap lets callers match the error with errors.Is(err, datasource.ErrUpstream)
func (e *StatusError) Unwrap() error {
	return datasource.ErrUpstream
}
