// internal/gateway/client.go
package gateway

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

	"lease-client/internal/common/config"
	apperrors "lease-client/internal/common/errors"
	httpclient "lease-client/internal/common/http"
	"lease-client/internal/common/logger"
	"lease-client/internal/common/metrics"
	"lease-client/internal/common/observability"
	"lease-client/internal/common/validation"
	"lease-client/internal/models"

	"github.com/google/uuid"
)

const maxResponseBytes = 4 << 20

type Config struct {
	Endpoint       string
	Timeout        time.Duration
	RateLimitRPS   float64
	RateLimitBurst int
	UserAgent      string
}

func LoadConfig(cfg *config.Config) *Config {
	return &Config{
		Endpoint:       cfg.Gateway.Endpoint,
		Timeout:        config.GetDuration(cfg.Gateway.Timeout),
		RateLimitRPS:   cfg.Gateway.RateLimitRPS,
		RateLimitBurst: cfg.Gateway.RateLimitBurst,
		UserAgent:      cfg.Gateway.UserAgent,
	}
}

// Client is the GraphQL-over-HTTP Gateway.
type Client struct {
	config *Config
	http   *httpclient.Client
	logger logger.Logger
	obs    *observability.Observability
}

type ClientOption func(*Client)

func WithObservability(obs *observability.Observability) ClientOption {
	return func(c *Client) {
		c.obs = obs
	}
}

func NewClient(cfg *Config, log logger.Logger, opts ...ClientOption) *Client {
	c := &Client{
		config: &Config{
			Endpoint:       strings.TrimSpace(cfg.Endpoint),
			Timeout:        cfg.Timeout,
			RateLimitRPS:   cfg.RateLimitRPS,
			RateLimitBurst: cfg.RateLimitBurst,
			UserAgent:      cfg.UserAgent,
		},
		http: httpclient.NewClient(cfg.Timeout,
			httpclient.WithRateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst),
			httpclient.WithUserAgent(cfg.UserAgent),
		),
		logger: log.WithFields(map[string]interface{}{"component": "gateway"}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var _ Gateway = (*Client)(nil)

type graphQLRequest struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables,omitempty"`
}

type graphQLError struct {
	Message string `json:"message"`
}

type graphQLResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []graphQLError  `json:"errors"`
}

func (c *Client) ListingByID(ctx context.Context, id string) (*models.Listing, error) {
	var data struct {
		House *models.Listing `json:"house"`
	}
	if err := c.do(ctx, OpHouse, queryHouse, map[string]interface{}{"id": id}, &data); err != nil {
		return nil, err
	}
	if data.House == nil {
		return nil, fmt.Errorf("%w: %s", ErrListingNotFound, id)
	}
	return data.House, nil
}

func (c *Client) Listings(ctx context.Context) ([]models.Listing, error) {
	var data struct {
		Houses []models.Listing `json:"houses"`
	}
	if err := c.do(ctx, OpHouses, queryHouses, nil, &data); err != nil {
		return nil, err
	}
	return nonNil(data.Houses), nil
}

func (c *Client) ListingsByState(ctx context.Context, state string) ([]models.Listing, error) {
	var data struct {
		Houses []models.Listing `json:"housesByState"`
	}
	if err := c.do(ctx, OpHousesByState, queryHousesByState, map[string]interface{}{"state": state}, &data); err != nil {
		return nil, err
	}
	return nonNil(data.Houses), nil
}

func (c *Client) ListingsByZipCode(ctx context.Context, zipCode string) ([]models.Listing, error) {
	var data struct {
		Houses []models.Listing `json:"housesByZipCode"`
	}
	if err := c.do(ctx, OpHousesByZipCode, queryHousesByZipCode, map[string]interface{}{"zipCode": zipCode}, &data); err != nil {
		return nil, err
	}
	return nonNil(data.Houses), nil
}

func (c *Client) SubmitApplication(ctx context.Context, payload models.ApplicationPayload) (*models.SubmissionResult, error) {
	if err := checkContract(validation.SchemaLeaseApplication, payload); err != nil {
		return nil, err
	}

	var data struct {
		Result *models.SubmissionResult `json:"submitLeaseApplication"`
	}
	vars := map[string]interface{}{"application": payload}
	if err := c.do(ctx, OpSubmitLeaseApplication, mutationSubmitLeaseApplication, vars, &data); err != nil {
		return nil, err
	}
	if data.Result == nil {
		return nil, apperrors.NewServerRejectedError(OpSubmitLeaseApplication, "empty response")
	}
	return data.Result, nil
}

// ProcessPayment returns the service's verdict as-is; success=false is not an error here.
func (c *Client) ProcessPayment(ctx context.Context, payload models.PaymentPayload) (*models.PaymentResult, error) {
	if err := checkContract(validation.SchemaPayment, payload); err != nil {
		return nil, err
	}

	var data struct {
		Result *models.PaymentResult `json:"processApplicationPayment"`
	}
	vars := map[string]interface{}{"payment": payload}
	if err := c.do(ctx, OpProcessApplicationPayment, mutationProcessApplicationPayment, vars, &data); err != nil {
		return nil, err
	}
	if data.Result == nil {
		return nil, apperrors.NewServerRejectedError(OpProcessApplicationPayment, "empty response")
	}
	return data.Result, nil
}

func checkContract(schema string, payload interface{}) error {
	result, err := validation.Validate(schema, payload)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	if !result.Valid {
		return apperrors.NewPayloadSchemaViolationError(schema, result.Summary())
	}
	return nil
}

func (c *Client) do(ctx context.Context, operation, query string, vars map[string]interface{}, out interface{}) (err error) {
	if c.config.Endpoint == "" {
		return apperrors.NewNetworkFailureError(operation, errors.New("gateway endpoint is empty"))
	}

	requestID := uuid.NewString()
	start := time.Now()
	metrics.InFlight.WithLabelValues(operation).Inc()
	defer func() {
		metrics.InFlight.WithLabelValues(operation).Dec()
		outcome := outcomeOf(err)
		elapsed := time.Since(start)
		metrics.GatewayRequests.WithLabelValues(operation, outcome).Inc()
		metrics.GatewayRequestDuration.WithLabelValues(operation).Observe(elapsed.Seconds())
		c.obs.RecordCall(ctx, operation, outcome, elapsed)

		fields := map[string]interface{}{
			"operation":  operation,
			"requestId":  requestID,
			"outcome":    outcome,
			"durationMs": elapsed.Milliseconds(),
		}
		if err != nil {
			c.logger.WithError(err).Warn("gateway call failed", fields)
		} else {
			c.logger.Debug("gateway call completed", fields)
		}
	}()

	body, err := json.Marshal(graphQLRequest{Query: query, Variables: vars})
	if err != nil {
		return apperrors.NewInternalError(fmt.Errorf("marshal %s request: %w", operation, err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.Endpoint, bytes.NewReader(body))
	if err != nil {
		return apperrors.NewNetworkFailureError(operation, fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set(httpclient.RequestIDHeader, requestID)

	resp, err := c.http.DoWithContext(ctx, req)
	if err != nil {
		return apperrors.NewNetworkFailureError(operation, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return apperrors.NewNetworkFailureError(operation, fmt.Errorf("read response: %w", err))
	}

	var envelope graphQLResponse
	decodeErr := json.Unmarshal(raw, &envelope)

	// GraphQL servers may answer 4xx with a well-formed errors array.
	if decodeErr == nil && len(envelope.Errors) > 0 {
		return apperrors.NewServerRejectedError(operation, envelope.Errors[0].Message)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return apperrors.NewNetworkFailureError(operation, fmt.Errorf("unexpected status %d", resp.StatusCode))
	}
	if decodeErr != nil {
		return apperrors.NewNetworkFailureError(operation, fmt.Errorf("decode response: %w", decodeErr))
	}
	if len(envelope.Data) == 0 || string(envelope.Data) == "null" {
		return apperrors.NewServerRejectedError(operation, "empty response")
	}
	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return apperrors.NewNetworkFailureError(operation, fmt.Errorf("decode %s data: %w", operation, err))
	}
	return nil
}

func outcomeOf(err error) string {
	if err == nil {
		return "success"
	}
	switch apperrors.CodeOf(err) {
	case apperrors.ErrCodeNetworkFailure:
		return "network_failure"
	case apperrors.ErrCodeServerRejected:
		return "server_rejected"
	default:
		return "error"
	}
}

func nonNil(in []models.Listing) []models.Listing {
	if in == nil {
		return []models.Listing{}
	}
	return in
}
