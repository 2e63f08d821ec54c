package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"hyperunit-sdk/shared"
)

const (
	maxResponseBytes = 4 << 20
	userAgent        = "hyperunit-sdk-go"
)

// rawResponse is a 2xx answer before decoding.
type rawResponse struct {
	status     int
	statusText string
	headers    map[string]string
	body       []byte
	requestID  string
}

// transport performs rate limited GETs with retries against the bridge API.
type transport struct {
	baseURL string
	http    *http.Client
	headers map[string]string
	timeout time.Duration
	limiter *rate.Limiter
	retry   *shared.RetryConfig
	logger  *shared.Logger
	metrics *clientMetrics
}

func newTransport(cfg *Config, logger *shared.Logger, metrics *clientMetrics) *transport {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}

	var limiter *rate.Limiter
	if cfg.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.Burst)
	}

	retry := shared.DefaultRetryConfig()
	retry.MaxAttempts = cfg.MaxRetries + 1
	retry.Retryable = isRetryable

	headers := make(map[string]string, len(cfg.Headers))
	for k, v := range cfg.Headers {
		headers[k] = v
	}

	return &transport{
		baseURL: cfg.Endpoint(),
		http:    httpClient,
		headers: headers,
		timeout: cfg.Timeout,
		limiter: limiter,
		retry:   retry,
		logger:  logger,
		metrics: metrics,
	}
}

// get fetches path, retrying transient failures. endpoint labels metrics and
// logs; successful requests are counted by the caller once decoded.
func (t *transport) get(ctx context.Context, endpoint, path string) (*rawResponse, error) {
	requestID := uuid.NewString()
	log := t.logger.WithRequest(requestID).With(zap.String("endpoint", endpoint))

	var resp *rawResponse
	err := shared.RetryWithBackoff(ctx, t.retry, func(attempt int) error {
		r, err := t.do(ctx, path, requestID)
		if err != nil {
			log.Debug("bridge request failed", zap.Int("attempt", attempt), zap.Error(err))
			return err
		}
		resp = r
		return nil
	})

	if err != nil {
		t.metrics.observeRequest(endpoint, outcomeOf(err))
		log.Warn("bridge request gave up", zap.Error(err))
		return nil, err
	}

	log.Debug("bridge request completed", zap.Int("status", resp.status))
	return resp, nil
}

func (t *transport) do(ctx context.Context, path, requestID string) (*rawResponse, error) {
	url := t.baseURL + path

	if t.limiter != nil {
		if err := t.limiter.Wait(ctx); err != nil {
			return nil, contextError(ctx, url, t.timeout, err)
		}
	}

	attemptCtx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(attemptCtx, http.MethodGet, url, nil)
	if err != nil {
		return nil, shared.Permanent(&UnitError{Type: "request_error", Message: "cannot build request for " + url, Cause: err})
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", userAgent)
	for k, v := range t.headers {
		req.Header.Set(k, v)
	}
	req.Header.Set("X-Request-Id", requestID)

	resp, err := t.http.Do(req)
	if err != nil {
		return nil, contextError(ctx, url, t.timeout, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, contextError(ctx, url, t.timeout, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var envelope apiErrorBody
		_ = json.Unmarshal(body, &envelope)
		apiErr := NewAPIError(resp.StatusCode, envelope.Code, envelope.Error, body)
		if !apiErr.Temporary() {
			return nil, shared.Permanent(apiErr)
		}
		return nil, apiErr
	}

	return &rawResponse{
		status:     resp.StatusCode,
		statusText: http.StatusText(resp.StatusCode),
		headers:    flattenHeaders(resp.Header),
		body:       body,
		requestID:  requestID,
	}, nil
}

// contextError maps a transport failure to TimeoutError, a cancellation or NetworkError.
func contextError(parent context.Context, url string, timeout time.Duration, err error) error {
	if errors.Is(parent.Err(), context.Canceled) {
		return &UnitError{Type: "canceled", Message: "request to " + url + " canceled", Cause: err}
	}

	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return NewTimeoutError(url, timeout, err)
	}
	return NewNetworkError(url, err)
}

func flattenHeaders(h http.Header) map[string]string {
	out := make(map[string]string, len(h))
	for k, v := range h {
		out[strings.ToLower(k)] = strings.Join(v, ", ")
	}
	return out
}

func outcomeOf(err error) string {
	var (
		apiErr     *APIError
		timeoutErr *TimeoutError
		netErr     *NetworkError
	)
	switch {
	case err == nil:
		return outcomeOK
	case errors.As(err, &apiErr):
		return outcomeAPIError
	case errors.As(err, &timeoutErr):
		return outcomeTimeout
	case errors.As(err, &netErr):
		return outcomeNetwork
	}
	return outcomeCanceled
}

// getJSON fetches path and decodes it into T, validating against schema first when named.
func getJSON[T any](ctx context.Context, t *transport, endpoint, path, schema string) (*APIResponse[T], error) {
	raw, err := t.get(ctx, endpoint, path)
	if err != nil {
		return nil, err
	}

	if schema != "" {
		if err := validateBody(schema, raw.body); err != nil {
			t.metrics.observeRequest(endpoint, outcomeInvalid)
			return nil, NewResponseError(endpoint, "schema check failed", err)
		}
	}

	var data T
	if err := json.Unmarshal(raw.body, &data); err != nil {
		t.metrics.observeRequest(endpoint, outcomeInvalid)
		return nil, NewResponseError(endpoint, "cannot decode body", err)
	}
	t.metrics.observeRequest(endpoint, outcomeOK)

	return &APIResponse[T]{
		Data:       data,
		Status:     raw.status,
		StatusText: raw.statusText,
		Headers:    raw.headers,
		RequestID:  raw.requestID,
	}, nil
}
