package cargo_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Arrow-air/tool-simulation/cargo"
	"github.com/Arrow-air/tool-simulation/observability"
	"github.com/Arrow-air/tool-simulation/testutil/testdoubles"
)

type capturedRequest struct {
	method string
	path   string
	body   map[string]any
}

type requestLog struct {
	mu       sync.Mutex
	requests []capturedRequest
}

func (l *requestLog) add(request capturedRequest) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.requests = append(l.requests, request)
}

func (l *requestLog) all() []capturedRequest {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]capturedRequest(nil), l.requests...)
}

func newServer(t *testing.T, status int, response string) (*httptest.Server, *requestLog) {
	t.Helper()

	captured := &requestLog{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, err := io.ReadAll(r.Body)
		assert.NoError(t, err)

		body := map[string]any{}
		assert.NoError(t, jsoniter.Unmarshal(raw, &body))
		captured.add(capturedRequest{method: r.Method, path: r.URL.Path, body: body})

		w.WriteHeader(status)
		_, _ = io.WriteString(w, response)
	}))
	t.Cleanup(server.Close)

	return server, captured
}

func newClient(t *testing.T, baseURL string, options ...cargo.Option) *cargo.Client {
	t.Helper()

	client, err := cargo.NewClient(baseURL, options...)
	require.NoError(t, err)

	return client
}

func Test_NewClient_RejectsInvalidOptions(t *testing.T) {
	_, err := cargo.NewClient("  ")
	assert.ErrorIs(t, err, cargo.ErrEmptyBaseURL)

	_, err = cargo.NewClient("http://localhost", cargo.WithTimeout(0))
	assert.ErrorIs(t, err, cargo.ErrInvalidTimeout)

	_, err = cargo.NewClient("http://localhost", cargo.WithRateLimit(-1, 1))
	assert.ErrorIs(t, err, cargo.ErrInvalidRateLimit)

	_, err = cargo.NewClient("http://localhost", cargo.WithHTTPClient(nil))
	assert.ErrorIs(t, err, cargo.ErrNilHTTPClient)
}

func Test_Client_Vertiports(t *testing.T) {
	server, captured := newServer(t, http.StatusOK,
		`[{"id":"vp-1","label":"North","latitude":1.5,"longitude":2.5},{"id":"vp-2","latitude":3,"longitude":4}]`)
	client := newClient(t, server.URL+"/")

	vertiports, err := client.Vertiports(context.Background(), cargo.VertiportsQuery{Latitude: 100, Longitude: 100})
	require.NoError(t, err)

	require.Len(t, vertiports, 2)
	assert.Equal(t, cargo.Vertiport{ID: "vp-1", Label: "North", Latitude: 1.5, Longitude: 2.5}, vertiports[0])
	assert.Equal(t, "vp-2", vertiports[1].ID)

	require.Len(t, captured.all(), 1)
	assert.Equal(t, http.MethodPost, captured.all()[0].method)
	assert.Equal(t, "/cargo/vertiports", captured.all()[0].path)
	assert.InDelta(t, 100.0, captured.all()[0].body["latitude"], 0.001)
}

func Test_Client_QueryFlights(t *testing.T) {
	server, captured := newServer(t, http.StatusOK,
		`[{"fp_id":"draft-1","base_pricing":12.5},{"fp_id":"draft-2"}]`)
	client := newClient(t, server.URL)

	arriveMin := time.Date(2022, 10, 1, 12, 1, 0, 0, time.UTC)
	options, err := client.QueryFlights(context.Background(), cargo.FlightQuery{
		VertiportDepartID:  "vp-1",
		VertiportArriveID:  "vp-2",
		TimestampArriveMin: &arriveMin,
		CargoWeightKg:      1.0,
	})
	require.NoError(t, err)

	require.Len(t, options, 2)
	assert.Equal(t, "draft-1", options[0].PlanID)
	require.NotNil(t, options[0].Price)
	assert.InDelta(t, 12.5, *options[0].Price, 0.0001)
	assert.Nil(t, options[1].Price, "a missing price stays unknown")

	request := captured.all()[0]
	assert.Equal(t, http.MethodPost, request.method)
	assert.Equal(t, "/cargo/query", request.path)
	assert.Equal(t, "vp-1", request.body["vertiport_depart_id"])
	assert.Equal(t, "2022-10-01T12:01:00Z", request.body["timestamp_arrive_min"])
	assert.NotContains(t, request.body, "timestamp_depart_min")
}

func Test_Client_Confirm_ReturnsTrimmedPlanID(t *testing.T) {
	server, captured := newServer(t, http.StatusOK, "  plan-77\n")
	client := newClient(t, server.URL)

	planID, err := client.Confirm(context.Background(), cargo.FlightConfirm{PlanID: "draft-1"})
	require.NoError(t, err)

	assert.Equal(t, "plan-77", planID)
	assert.Equal(t, http.MethodPut, captured.all()[0].method)
	assert.Equal(t, "/cargo/confirm", captured.all()[0].path)
	assert.Equal(t, "draft-1", captured.all()[0].body["fp_id"])
}

func Test_Client_Confirm_EmptyBodyIsEmptyResult(t *testing.T) {
	server, _ := newServer(t, http.StatusOK, " ")
	client := newClient(t, server.URL)

	_, err := client.Confirm(context.Background(), cargo.FlightConfirm{PlanID: "draft-1"})

	assert.ErrorIs(t, err, cargo.ErrEmptyResult)
}

func Test_Client_Cancel_IgnoresBody(t *testing.T) {
	server, captured := newServer(t, http.StatusOK, "whatever the service says")
	client := newClient(t, server.URL)

	err := client.Cancel(context.Background(), cargo.FlightCancel{PlanID: "plan-77"})
	require.NoError(t, err)

	assert.Equal(t, http.MethodDelete, captured.all()[0].method)
	assert.Equal(t, "/cargo/cancel", captured.all()[0].path)
}

func Test_Client_NonSuccessStatusIsProtocolError(t *testing.T) {
	server, _ := newServer(t, http.StatusServiceUnavailable, "")
	client := newClient(t, server.URL)

	_, err := client.QueryFlights(context.Background(), cargo.FlightQuery{})

	require.ErrorIs(t, err, cargo.ErrProtocol)
	var statusErr *cargo.StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusServiceUnavailable, statusErr.StatusCode)
	assert.Equal(t, cargo.OperationQuery, statusErr.Operation)
	assert.Equal(t, "protocol", cargo.ErrorType(err))
}

func Test_Client_MalformedBodyIsDecodeError(t *testing.T) {
	server, _ := newServer(t, http.StatusOK, `{"not":"a list"`)
	client := newClient(t, server.URL)

	_, err := client.Vertiports(context.Background(), cargo.VertiportsQuery{})

	assert.ErrorIs(t, err, cargo.ErrDecode)
	assert.Equal(t, "decode", cargo.ErrorType(err))
}

func Test_Client_OversizedBodyIsDecodeError(t *testing.T) {
	server, _ := newServer(t, http.StatusOK, strings.Repeat("p", 4<<20+1))
	client := newClient(t, server.URL)

	_, err := client.Confirm(context.Background(), cargo.FlightConfirm{PlanID: "draft-1"})

	assert.ErrorIs(t, err, cargo.ErrDecode)
	assert.Equal(t, "decode", cargo.ErrorType(err))
}

func Test_Client_BodyAtSizeLimitIsAccepted(t *testing.T) {
	server, _ := newServer(t, http.StatusOK, strings.Repeat("p", 4<<20))
	client := newClient(t, server.URL)

	planID, err := client.Confirm(context.Background(), cargo.FlightConfirm{PlanID: "draft-1"})

	require.NoError(t, err)
	assert.Len(t, planID, 4<<20)
}

func Test_Client_TimeoutIsTransportError(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(server.Close)
	t.Cleanup(func() { close(release) })

	client := newClient(t, server.URL, cargo.WithTimeout(50*time.Millisecond))

	_, err := client.Vertiports(context.Background(), cargo.VertiportsQuery{})

	assert.ErrorIs(t, err, cargo.ErrTransport)
	assert.Equal(t, "timeout", cargo.ErrorType(err))
}

func Test_Client_UnreachableServerIsTransportError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	client := newClient(t, url)

	err := client.Cancel(context.Background(), cargo.FlightCancel{PlanID: "plan-1"})

	assert.ErrorIs(t, err, cargo.ErrTransport)
	assert.Equal(t, "transport", cargo.ErrorType(err))
}

func Test_Client_RecordsMetricsSpansAndLogs(t *testing.T) {
	server, _ := newServer(t, http.StatusOK, "plan-1")
	metrics := testdoubles.NewMetricsCollectorSpy()
	tracing := testdoubles.NewTracingCollectorSpy()
	logger := testdoubles.NewLoggerSpy()
	client := newClient(t, server.URL,
		cargo.WithMetrics(metrics),
		cargo.WithTracing(tracing),
		cargo.WithContextualLogger(logger),
	)

	_, err := client.Confirm(context.Background(), cargo.FlightConfirm{PlanID: "draft-1"})
	require.NoError(t, err)

	assert.Equal(t, 1, metrics.CountCounter(observability.MetricCargoRequests, map[string]string{
		observability.LabelOperation: cargo.OperationConfirm,
		observability.LabelStatus:    "200",
	}))
	assert.True(t, metrics.HasDurationRecord(observability.MetricCargoRequestDuration))
	assert.Equal(t, 1, tracing.CountSpans("cargo.confirm", observability.SpanStatusOK))
	assert.True(t, logger.HasLog(testdoubles.LevelDebug, "cargo request completed"))
}

func Test_Client_FailedRequestIsLoggedAtWarn(t *testing.T) {
	server, _ := newServer(t, http.StatusBadRequest, "")
	logger := testdoubles.NewLoggerSpy()
	tracing := testdoubles.NewTracingCollectorSpy()
	client := newClient(t, server.URL, cargo.WithLogger(logger), cargo.WithTracing(tracing))

	err := client.Cancel(context.Background(), cargo.FlightCancel{PlanID: "plan-1"})
	require.Error(t, err)

	records := logger.Records(testdoubles.LevelWarn)
	require.Len(t, records, 1)
	errorType, ok := records[0].Attr("error_type")
	require.True(t, ok)
	assert.Equal(t, "protocol", errorType)
	assert.Equal(t, 1, tracing.CountSpans("cargo.cancel", observability.SpanStatusError))
}

func Test_Client_RateLimitSpacesRequests(t *testing.T) {
	server, captured := newServer(t, http.StatusOK, "[]")
	client := newClient(t, server.URL, cargo.WithRateLimit(20, 1))

	start := time.Now()
	for range 3 {
		_, err := client.Vertiports(context.Background(), cargo.VertiportsQuery{})
		require.NoError(t, err)
	}

	assert.Len(t, captured.all(), 3)
	assert.GreaterOrEqual(t, time.Since(start), 90*time.Millisecond)
}
