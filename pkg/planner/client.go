package planner

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/voyant/internal/logging"
	"github.com/aretw0/voyant/pkg/domain"
)

// DefaultBaseURL matches the planning service's local development address.
const DefaultBaseURL = "http://localhost:8000"

// Client is an HTTP client for the planning service.
type Client struct {
	baseURL string
	httpc   *http.Client
	logger  *slog.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient substitutes the underlying *http.Client.
func WithHTTPClient(httpc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpc = httpc
	}
}

// WithLogger configures a logger for request failures.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a client for the service at baseURL. An empty baseURL
// falls back to DefaultBaseURL.
func NewClient(baseURL string, opts ...ClientOption) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{Timeout: 30 * time.Second},
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the configured service address.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// StartPlan submits the travel form and returns the initial plan state,
// including the server-assigned plan_run_id.
func (c *Client) StartPlan(ctx context.Context, form domain.TravelForm) (*domain.PlanState, error) {
	body, err := json.Marshal(form)
	if err != nil {
		return nil, fmt.Errorf("failed to encode form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/plan/start", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("plan start request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// The body is logged for diagnosis, not surfaced structurally.
		text, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		c.logger.Error("Plan start rejected", "status", resp.StatusCode, "body", string(text))
		return nil, fmt.Errorf("plan start failed: HTTP %d", resp.StatusCode)
	}

	var state domain.PlanState
	if err := json.NewDecoder(resp.Body).Decode(&state); err != nil {
		return nil, fmt.Errorf("failed to decode plan state: %w", err)
	}
	if state.PlanRunID == "" {
		return nil, fmt.Errorf("service returned no plan_run_id")
	}
	return &state, nil
}

// FetchState retrieves the current state of a plan run. A 404 maps to
// domain.ErrPlanNotFound: the service may simply not have persisted the run
// yet, so callers keep polling.
func (c *Client) FetchState(ctx context.Context, planRunID string) (*domain.PlanState, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/plan/"+planRunID+"/state", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("state request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, domain.ErrPlanNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		text, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		c.logger.Warn("State fetch rejected", "status", resp.StatusCode, "body", string(text))
		return nil, fmt.Errorf("state fetch failed: HTTP %d", resp.StatusCode)
	}

	var state domain.PlanState
	if err := json.NewDecoder(resp.Body).Decode(&state); err != nil {
		return nil, fmt.Errorf("failed to decode plan state: %w", err)
	}
	return &state, nil
}
