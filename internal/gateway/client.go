// Package gateway translates order operations into HTTP calls against the
// marketplace backend and classifies every failure into the client's error
// taxonomy. It never retries on its own; resilience beyond the endpoint
// fallback ladder is a user-initiated re-click.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/trovemarket/storefront-client/internal/auth"
	"github.com/trovemarket/storefront-client/internal/config"
	appErrors "github.com/trovemarket/storefront-client/internal/errors"
	"github.com/trovemarket/storefront-client/internal/metrics"
)

// envelope is the backend's uniform response shape. A success:false with
// HTTP 200 is normalized into the same failure path as a transport error.
type envelope struct {
	Success *bool           `json:"success,omitempty"`
	Message string          `json:"message,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
	Order   json.RawMessage `json:"order,omitempty"`
	Orders  json.RawMessage `json:"orders,omitempty"`
	ID      string          `json:"_id,omitempty"`
}

type Client struct {
	cfg     config.Backend
	http    *http.Client
	breaker *gobreaker.CircuitBreaker[*envelope]
	logger  *slog.Logger
}

func NewClient(cfg config.Backend, breakerCfg config.Breaker, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}

	breaker := gobreaker.NewCircuitBreaker[*envelope](gobreaker.Settings{
		Name:     "backend",
		Interval: breakerCfg.Interval,
		Timeout:  breakerCfg.Cooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= breakerCfg.MaxFailures
		},
		// only backend-health failures trip the breaker; a 404 or a
		// validation rejection says nothing about availability
		IsSuccessful: func(err error) bool {
			if err == nil {
				return true
			}

			if appErr, ok := appErrors.IsAppError(err); ok {
				switch appErr.Code {
				case appErrors.ErrCodeNetwork, appErrors.ErrCodeTimeout, appErrors.ErrCodeServer:
					return false
				default:
					return true
				}
			}

			return false
		},
	})

	return &Client{
		cfg: cfg,
		http: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		breaker: breaker,
		logger:  logger,
	}
}

// do issues one request and returns the decoded envelope or an AppError.
// The bearer token is preflighted for expiry so calls that are guaranteed a
// 401 never leave the client.
func (c *Client) do(ctx context.Context, operation, method, path string, body any, token string) (*envelope, error) {

	if err := auth.CheckNotExpired(token); err != nil {
		return nil, err
	}

	start := time.Now()

	env, err := c.breaker.Execute(func() (*envelope, error) {
		return c.roundTrip(ctx, method, path, body, token)
	})

	outcome := "ok"

	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			err = appErrors.NetworkError("Backend temporarily unavailable").WithError(err)
		}

		if appErr, ok := appErrors.IsAppError(err); ok {
			outcome = appErr.Code
		} else {
			outcome = appErrors.ErrCodeInternal
		}
	}

	metrics.ObserveGatewayRequest(operation, outcome, time.Since(start))

	if err != nil {
		c.logger.Warn("backend call failed",
			slog.String("operation", operation),
			slog.String("path", path),
			slog.String("error", err.Error()))

		return nil, err
	}

	return env, nil
}

func (c *Client) roundTrip(ctx context.Context, method, path string, body any, token string) (*envelope, error) {

	var reader io.Reader

	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, appErrors.InternalError("Failed to encode request body").WithError(err)
		}

		reader = bytes.NewReader(payload)
	}

	url := strings.TrimRight(c.cfg.BaseURL, "/") + path

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, appErrors.InternalError("Failed to build request").WithError(err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, classifyTransportError(err)
	}

	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, appErrors.NetworkError("Failed to read response").WithError(err)
	}

	env := &envelope{}
	// a non-JSON body is tolerated; status-code classification still applies
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, env); err != nil {
			env = &envelope{}
		}
	}

	if err := classifyStatus(resp.StatusCode, env); err != nil {
		return nil, err
	}

	if env.Success != nil && !*env.Success {
		message := env.Message
		if message == "" {
			message = "The request was rejected"
		}

		return nil, appErrors.BusinessRuleError(message)
	}

	return env, nil
}

func classifyTransportError(err error) *appErrors.AppError {

	if errors.Is(err, context.DeadlineExceeded) {
		return appErrors.TimeoutError("The request timed out, please try again").WithError(err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return appErrors.TimeoutError("The request timed out, please try again").WithError(err)
	}

	return appErrors.NetworkError("Could not reach the server, please try again").WithError(err)
}

func classifyStatus(statusCode int, env *envelope) error {

	switch {
	case statusCode < 300:
		return nil
	case statusCode == http.StatusUnauthorized:
		return appErrors.UnauthorizedError("Please log in again")
	case statusCode == http.StatusNotFound:
		return appErrors.NotFoundError(messageOr(env, "Endpoint not found"))
	case statusCode == http.StatusUnprocessableEntity, statusCode == http.StatusConflict:
		return appErrors.BusinessRuleError(messageOr(env, "The request was rejected"))
	case statusCode >= 500:
		return appErrors.ServerError("Something went wrong, please try again later")
	case statusCode == http.StatusBadRequest:
		return appErrors.BadRequestError(messageOr(env, "Invalid request"))
	default:
		return appErrors.InternalError(fmt.Sprintf("Unexpected response status %d", statusCode))
	}
}

func messageOr(env *envelope, fallback string) string {
	if env != nil && env.Message != "" {
		return env.Message
	}

	return fallback
}
