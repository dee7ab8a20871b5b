package authapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/daffahilmyf/mdd-seed/internal/domain/service"
	"golang.org/x/time/rate"
)

const registerPath = "/auth/register"

// maxErrorBody caps how much of a refusal body is kept for logging.
const maxErrorBody = 512

var ErrUnexpectedStatus = errors.New("unexpected registration status")

// StatusError is returned when the endpoint answers anything but 201.
type StatusError struct {
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s %d", ErrUnexpectedStatus, e.Status)
	}
	return fmt.Sprintf("%s %d: %s", ErrUnexpectedStatus, e.Status, e.Body)
}

func (e *StatusError) Unwrap() error {
	return ErrUnexpectedStatus
}

type Config struct {
	BaseURL string
	Timeout time.Duration
	// RateLimit is registrations per second; zero disables pacing.
	RateLimit float64
	Burst     int
}

// Client calls the application's registration endpoint.
type Client struct {
	endpoint string
	http     *http.Client
	limiter  *rate.Limiter
}

var _ service.AuthService = (*Client)(nil)

func New(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, errors.New("authapi: base url is required")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	limiter := rate.NewLimiter(rate.Inf, 1)
	if cfg.RateLimit > 0 {
		burst := cfg.Burst
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}
	return &Client{
		endpoint: strings.TrimRight(cfg.BaseURL, "/") + registerPath,
		http:     &http.Client{Timeout: timeout},
		limiter:  limiter,
	}, nil
}

// Register posts one account. Only 201 Created is a success.
func (c *Client) Register(ctx context.Context, req service.Registration) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit: %w", err)
	}

	body, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusCreated {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return &StatusError{Status: resp.StatusCode, Body: strings.TrimSpace(string(snippet))}
}
