// Package apiclient is a small JSON-over-HTTP client with retries and a
// circuit breaker, shared by the upstream API wrappers.
package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/kiltia/kzseed/config"

	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
	"resty.dev/v3"
)

var (
	ErrClientError = errors.New("client error from upstream API")
	ErrServerError = errors.New("server error from upstream API")
	ErrUnavailable = errors.New("upstream API is unavailable")
	ErrDecode      = errors.New("decoding upstream response")
)

type Client struct {
	name           string
	httpClient     *resty.Client
	circuitBreaker *gobreaker.CircuitBreaker[*resty.Response]
}

// New creates a client for the API rooted at baseURL. The name is used
// for logging and for the circuit breaker.
func New(name, baseURL string, cfg config.HTTPConfig) *Client {
	httpClient := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", cfg.UserAgent).
		SetTimeout(cfg.Timeout).
		SetRetryCount(cfg.NumRetries).
		SetRetryWaitTime(cfg.MinWaitTime).
		SetRetryMaxWaitTime(cfg.MaxWaitTime).
		AddRetryConditions(func(r *resty.Response, err error) bool {
			if err != nil || r == nil {
				return true
			}
			return r.StatusCode() == http.StatusTooManyRequests ||
				r.StatusCode() >= http.StatusInternalServerError
		}).
		AddRetryHooks(func(r *resty.Response, err error) {
			logger := zap.S().With("api", name, "error", err)
			if r != nil {
				logger = logger.With("status_code", r.StatusCode())
			}
			logger.Debugw("retrying request")
		}).
		SetLogger(zap.S())

	cb := cfg.CircuitBreaker
	circuitBreaker := gobreaker.NewCircuitBreaker[*resty.Response](
		gobreaker.Settings{
			Name:        name,
			MaxRequests: cb.MaxRequests,
			Interval:    cb.Interval,
			Timeout:     cb.Timeout,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				if !cb.Enabled {
					return false
				}
				return counts.ConsecutiveFailures > cb.ConsecutiveFailure
			},
			// a 4xx is our fault, not a sign the upstream is down
			IsSuccessful: func(err error) bool {
				return err == nil || errors.Is(err, ErrClientError)
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				zap.S().Warnw(
					"circuit breaker changed state",
					"api", name,
					"from", from.String(),
					"to", to.String(),
				)
			},
		})

	return &Client{
		name:           name,
		httpClient:     httpClient,
		circuitBreaker: circuitBreaker,
	}
}

// GetJSON performs a GET request against path with the query parameters
// taken from params (see ObjectToParams) and decodes the body into out.
func (c *Client) GetJSON(
	ctx context.Context,
	path string,
	params any,
	out any,
) error {
	query := ObjectToParams(params)
	logger := zap.S().With("api", c.name, "path", path, "query", query.Encode())
	logger.Debugw("sending request")

	resp, err := c.circuitBreaker.Execute(func() (*resty.Response, error) {
		resp, err := c.httpClient.R().
			WithContext(ctx).
			SetQueryParamsFromValues(query).
			Get(path)
		if err != nil {
			return resp, err
		}
		return resp, checkStatus(resp)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) ||
			errors.Is(err, gobreaker.ErrTooManyRequests) {
			return fmt.Errorf("%w: %s: %v", ErrUnavailable, c.name, err)
		}
		return fmt.Errorf("requesting %s%s: %w", c.name, path, err)
	}

	body := resp.Bytes()
	if err := json.Unmarshal(body, out); err != nil {
		logger.Warnw(
			"unmarshalling response failed",
			"error", err,
			"body", string(body[:min(64, len(body))]),
		)
		return fmt.Errorf("%w from %s%s: %v", ErrDecode, c.name, path, err)
	}
	logger.Debugw(
		"request completed",
		"status_code", resp.StatusCode(),
		"elapsed", resp.Duration(),
	)
	return nil
}

func (c *Client) Close() error {
	return c.httpClient.Close()
}

func checkStatus(resp *resty.Response) error {
	status := resp.StatusCode()
	switch {
	case status >= 400 && status < 500:
		return fmt.Errorf("%w: %s", ErrClientError, resp.Status())
	case status >= 500:
		return fmt.Errorf("%w: %s", ErrServerError, resp.Status())
	}
	return nil
}
