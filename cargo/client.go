package cargo

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	jsoniter "github.com/json-iterator/go"

	"github.com/Arrow-air/tool-simulation/observability"
)

const (
	defaultTimeout       = 5 * time.Second
	defaultIdleTimeout   = 10 * time.Second
	maxResponseBodyBytes = 4 << 20

	pathVertiports = "/cargo/vertiports"
	pathQuery      = "/cargo/query"
	pathConfirm    = "/cargo/confirm"
	pathCancel     = "/cargo/cancel"

	logMsgRequestCompleted = "cargo request completed"
	logMsgRequestFailed    = "cargo request failed"
	logAttrOperation       = "operation"
	logAttrStatusCode      = "status_code"
	logAttrDurationMS      = "duration_ms"
	logAttrErrorType       = "error_type"
	logAttrError           = "error"
	logAttrCustomerID      = "customer_id"
)

var codec = jsoniter.ConfigCompatibleWithStandardLibrary

// Client is the REST implementation of Gateway. It is safe for concurrent use.
type Client struct {
	baseURL          string
	httpClient       *http.Client
	timeout          time.Duration
	limiter          rateLimiter
	logger           observability.Logger
	contextualLogger observability.ContextualLogger
	metricsCollector observability.MetricsCollector
	tracingCollector observability.TracingCollector
}

type rateLimiter interface {
	Wait(ctx context.Context) error
}

// NewClient creates a Client for the service at baseURL, e.g. "http://0.0.0.0:8000".
func NewClient(baseURL string, options ...Option) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, ErrEmptyBaseURL
	}

	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Transport: &http.Transport{
				Proxy:               http.ProxyFromEnvironment,
				MaxIdleConnsPerHost: 64,
				IdleConnTimeout:     defaultIdleTimeout,
			},
		},
		timeout: defaultTimeout,
	}

	for _, option := range options {
		if err := option(c); err != nil {
			return nil, err
		}
	}

	return c, nil
}

// Vertiports lists the vertiports known to the service.
func (c *Client) Vertiports(ctx context.Context, query VertiportsQuery) ([]Vertiport, error) {
	body, err := c.do(ctx, OperationVertiports, http.MethodPost, pathVertiports, query)
	if err != nil {
		return nil, err
	}

	var vertiports []Vertiport
	if err := codec.Unmarshal(body, &vertiports); err != nil {
		return nil, errors.Join(ErrDecode, err)
	}

	return vertiports, nil
}

// QueryFlights returns the flight options matching the query.
func (c *Client) QueryFlights(ctx context.Context, query FlightQuery) ([]FlightOption, error) {
	body, err := c.do(ctx, OperationQuery, http.MethodPost, pathQuery, query)
	if err != nil {
		return nil, err
	}

	var options []FlightOption
	if err := codec.Unmarshal(body, &options); err != nil {
		return nil, errors.Join(ErrDecode, err)
	}

	return options, nil
}

// Confirm books a draft plan and returns the plan id assigned by the service.
func (c *Client) Confirm(ctx context.Context, confirm FlightConfirm) (string, error) {
	body, err := c.do(ctx, OperationConfirm, http.MethodPut, pathConfirm, confirm)
	if err != nil {
		return "", err
	}

	if !utf8.Valid(body) {
		return "", errors.Join(ErrDecode, errors.New("plan id is not valid utf-8"))
	}

	planID := strings.TrimSpace(string(body))
	if planID == "" {
		return "", ErrEmptyResult
	}

	return planID, nil
}

// Cancel cancels a confirmed plan. The response body is ignored.
func (c *Client) Cancel(ctx context.Context, cancel FlightCancel) error {
	_, err := c.do(ctx, OperationCancel, http.MethodDelete, pathCancel, cancel)

	return err
}

// do sends one JSON request and returns the response body of a 2xx answer.
func (c *Client) do(ctx context.Context, operation, method, path string, payload any) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	ctx, span := observability.StartSpan(ctx, c.tracingCollector, "cargo."+operation, map[string]string{
		observability.LabelOperation: operation,
	})

	start := time.Now()
	body, statusCode, err := c.roundTrip(ctx, operation, method, path, payload)
	duration := time.Since(start)

	c.observe(ctx, operation, statusCode, duration, err)
	observability.FinishSpan(c.tracingCollector, span, spanStatus(err), map[string]string{
		logAttrStatusCode: strconv.Itoa(statusCode),
	})

	return body, err
}

func (c *Client) roundTrip(ctx context.Context, operation, method, path string, payload any) ([]byte, int, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, 0, errors.Join(ErrTransport, err)
		}
	}

	requestBody, err := codec.Marshal(payload)
	if err != nil {
		return nil, 0, errors.Join(ErrTransport, err)
	}

	request, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(requestBody))
	if err != nil {
		return nil, 0, errors.Join(ErrTransport, err)
	}
	request.Header.Set("Content-Type", "application/json")

	response, err := c.httpClient.Do(request)
	if err != nil {
		return nil, 0, errors.Join(ErrTransport, err)
	}
	defer response.Body.Close() //nolint:errcheck // nothing to do about a failed close of a drained body

	responseBody, err := io.ReadAll(io.LimitReader(response.Body, maxResponseBodyBytes+1))
	if err != nil {
		return nil, response.StatusCode, errors.Join(ErrTransport, err)
	}

	if response.StatusCode < 200 || response.StatusCode > 299 {
		return nil, response.StatusCode, &StatusError{Operation: operation, StatusCode: response.StatusCode}
	}

	if len(responseBody) > maxResponseBodyBytes {
		return nil, response.StatusCode, fmt.Errorf("%w: %s response exceeds %d bytes", ErrDecode, operation, maxResponseBodyBytes)
	}

	return responseBody, response.StatusCode, nil
}

func (c *Client) observe(ctx context.Context, operation string, statusCode int, duration time.Duration, err error) {
	labels := map[string]string{
		observability.LabelOperation: operation,
		observability.LabelStatus:    strconv.Itoa(statusCode),
	}
	observability.IncrementCounter(ctx, c.metricsCollector, observability.MetricCargoRequests, labels)
	observability.RecordDuration(ctx, c.metricsCollector, observability.MetricCargoRequestDuration, duration, labels)

	durationMS := float64(duration.Microseconds()) / 1000

	if err != nil {
		args := []any{
			logAttrOperation, operation,
			logAttrCustomerID, CustomerIDFrom(ctx),
			logAttrStatusCode, statusCode,
			logAttrErrorType, ErrorType(err),
			logAttrError, err.Error(),
			logAttrDurationMS, durationMS,
		}
		switch {
		case c.contextualLogger != nil:
			c.contextualLogger.WarnContext(ctx, logMsgRequestFailed, args...)
		case c.logger != nil:
			c.logger.Warn(logMsgRequestFailed, args...)
		}

		return
	}

	args := []any{
		logAttrOperation, operation,
		logAttrCustomerID, CustomerIDFrom(ctx),
		logAttrStatusCode, statusCode,
		logAttrDurationMS, durationMS,
	}
	switch {
	case c.contextualLogger != nil:
		c.contextualLogger.DebugContext(ctx, logMsgRequestCompleted, args...)
	case c.logger != nil:
		c.logger.Debug(logMsgRequestCompleted, args...)
	}
}

func spanStatus(err error) string {
	switch {
	case err == nil:
		return observability.SpanStatusOK
	case errors.Is(err, context.DeadlineExceeded):
		return observability.SpanStatusTimeout
	default:
		return observability.SpanStatusError
	}
}

var _ Gateway = (*Client)(nil)
