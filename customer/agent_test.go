package customer_test

import (
	"context"
	"errors"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Arrow-air/tool-simulation/behavior"
	"github.com/Arrow-air/tool-simulation/cargo"
	"github.com/Arrow-air/tool-simulation/customer"
	"github.com/Arrow-air/tool-simulation/observability"
	"github.com/Arrow-air/tool-simulation/testutil/testdoubles"
)

var simStart = time.Date(2022, 10, 1, 12, 0, 0, 0, time.UTC)

func newPool(t *testing.T, gateway cargo.Gateway, options ...customer.PoolOption) *customer.Pool {
	t.Helper()

	options = append([]customer.PoolOption{customer.WithRand(rand.New(rand.NewPCG(1, 2)))}, options...)
	pool, err := customer.NewPool(gateway, testdoubles.NewManualWallClock(simStart), options...)
	require.NoError(t, err)

	return pool
}

func spawnOne(t *testing.T, gateway cargo.Gateway, archetype string, options ...customer.PoolOption) *customer.Agent {
	t.Helper()

	pool := newPool(t, gateway, options...)
	pool.Spawn(context.Background(), 1, []string{archetype})
	require.Len(t, pool.Agents(), 1)

	return pool.Agents()[0]
}

func Test_Agent_AccessorsReportInitialState(t *testing.T) {
	agent := spawnOne(t, testdoubles.NewFakeGateway(), "greedy")

	assert.NotEqual(t, uuid.Nil, agent.ID())
	assert.Equal(t, behavior.KindGreedy, agent.Kind())
	assert.Empty(t, agent.DepartID())
	assert.Empty(t, agent.ArriveID())
	assert.Empty(t, agent.PlanID())
	assert.Empty(t, agent.Candidates())
	assert.Equal(t, 1, agent.FailureBudget())
	assert.False(t, agent.Abandoned())
}

func Test_Agent_CandidatesReturnsACopy(t *testing.T) {
	agent := spawnOne(t, testdoubles.NewFakeGateway(), "greedy")
	ctx := context.Background()
	require.True(t, agent.Step(ctx))
	require.True(t, agent.Step(ctx))
	require.Len(t, agent.Candidates(), 1)

	candidates := agent.Candidates()
	candidates[0] = cargo.FlightOption{}

	assert.NotEqual(t, cargo.FlightOption{}, agent.Candidates()[0])
}

func Test_Agent_Greedy_BooksAndKeepsTheFlight(t *testing.T) {
	gateway := testdoubles.NewFakeGateway()
	agent := spawnOne(t, gateway, "greedy")
	ctx := context.Background()

	assert.Equal(t, customer.StatusAwaitingRoute, agent.Status())

	require.True(t, agent.Step(ctx))
	assert.Equal(t, customer.StatusAwaitingOptions, agent.Status())
	assert.ElementsMatch(t, []string{"vertiport-a", "vertiport-b"}, []string{agent.DepartID(), agent.ArriveID()})

	require.True(t, agent.Step(ctx))
	assert.Equal(t, customer.StatusAwaitingSelection, agent.Status())
	assert.Len(t, agent.Candidates(), 1)

	require.True(t, agent.Step(ctx))
	assert.Equal(t, customer.StatusAwaitingCancelDecision, agent.Status())
	assert.Equal(t, "confirmed-draft-1", agent.PlanID())

	require.True(t, agent.Step(ctx))
	assert.Equal(t, customer.StatusDone, agent.Status())
	assert.False(t, agent.Abandoned())

	assert.Equal(t, 0, gateway.CountCalls(cargo.OperationCancel))
	assert.Equal(t, 3, gateway.TotalCalls())

	assert.True(t, agent.Step(ctx), "a done agent steps as a no-op success")
	assert.Equal(t, 3, gateway.TotalCalls())
}

func Test_Agent_Mistake_ConfirmsAndCancelsExactlyOnce(t *testing.T) {
	gateway := testdoubles.NewFakeGateway()
	agent := spawnOne(t, gateway, "mistake")

	for range 10 {
		agent.Step(context.Background())
	}

	assert.Equal(t, customer.StatusDone, agent.Status())
	assert.False(t, agent.Abandoned())
	assert.Equal(t, 1, gateway.CountCalls(cargo.OperationConfirm))
	require.Equal(t, 1, gateway.CountCalls(cargo.OperationCancel))

	calls := gateway.Calls()
	assert.Equal(t, cargo.FlightCancel{PlanID: "confirmed-draft-1"}, calls[len(calls)-1].Request)
}

func Test_Agent_Indecisive_NeverLeavesSelectionAndAbandons(t *testing.T) {
	gateway := testdoubles.NewFakeGateway()
	agent := spawnOne(t, gateway, "indecisive", customer.WithFailureBudget(3))
	ctx := context.Background()

	require.True(t, agent.Step(ctx))
	require.True(t, agent.Step(ctx))
	require.Equal(t, customer.StatusAwaitingSelection, agent.Status())

	assert.False(t, agent.Step(ctx))
	assert.Equal(t, customer.StatusAwaitingSelection, agent.Status())
	assert.False(t, agent.Step(ctx))
	assert.Equal(t, customer.StatusAwaitingSelection, agent.Status())
	assert.False(t, agent.Step(ctx))

	assert.Equal(t, customer.StatusDone, agent.Status())
	assert.True(t, agent.Abandoned())
	assert.Empty(t, agent.PlanID())
	assert.Equal(t, 0, gateway.CountCalls(cargo.OperationConfirm), "selection failures never reach the service")
}

func Test_Agent_FailureBudget_ForcesDoneAfterBudgetFailures(t *testing.T) {
	for _, budget := range []int{1, 2, 5} {
		gateway := testdoubles.NewFakeGateway()
		gateway.VertiportsFunc = func(context.Context, cargo.VertiportsQuery) ([]cargo.Vertiport, error) {
			return nil, cargo.ErrTransport
		}
		agent := spawnOne(t, gateway, "greedy", customer.WithFailureBudget(budget))

		for range budget + 3 {
			agent.Step(context.Background())
		}

		assert.Equal(t, customer.StatusDone, agent.Status())
		assert.True(t, agent.Abandoned())
		assert.Equal(t, 0, agent.FailureBudget())
		assert.Equal(t, budget, gateway.TotalCalls(), "no network interaction after the budget is used up")
	}
}

func Test_Agent_FailureBudget_IsSharedAcrossStatuses(t *testing.T) {
	gateway := testdoubles.NewFakeGateway()
	gateway.QueryFlightsFunc = func(context.Context, cargo.FlightQuery) ([]cargo.FlightOption, error) {
		if len(gateway.Calls()) == 2 {
			return nil, &cargo.StatusError{Operation: cargo.OperationQuery, StatusCode: 503}
		}
		return []cargo.FlightOption{{PlanID: "draft-9"}}, nil
	}
	gateway.CancelFunc = func(context.Context, cargo.FlightCancel) error {
		return cargo.ErrDecode
	}
	agent := spawnOne(t, gateway, "mistake", customer.WithFailureBudget(2))
	ctx := context.Background()

	require.True(t, agent.Step(ctx))
	require.False(t, agent.Step(ctx), "the first query fails")
	assert.Equal(t, 1, agent.FailureBudget())
	require.True(t, agent.Step(ctx), "the retry uses a fresh request")
	require.True(t, agent.Step(ctx))
	require.False(t, agent.Step(ctx), "the cancellation fails")

	assert.Equal(t, customer.StatusDone, agent.Status())
	assert.True(t, agent.Abandoned())
	assert.Equal(t, "confirmed-draft-9", agent.PlanID())
}

func Test_Agent_NotEnoughVertiports_IsAStepFailure(t *testing.T) {
	gateway := testdoubles.NewFakeGateway()
	gateway.VertiportsFunc = func(context.Context, cargo.VertiportsQuery) ([]cargo.Vertiport, error) {
		return []cargo.Vertiport{{ID: "only-one"}}, nil
	}
	logger := testdoubles.NewLoggerSpy()
	agent := spawnOne(t, gateway, "greedy", customer.WithFailureBudget(2), customer.WithLogger(logger))

	assert.False(t, agent.Step(context.Background()))
	assert.Equal(t, customer.StatusAwaitingRoute, agent.Status())

	records := logger.Records(testdoubles.LevelWarn)
	require.Len(t, records, 1)
	agentID, _ := records[0].Attr("agent_id")
	assert.Equal(t, agent.ID().String(), agentID)
	cause, _ := records[0].Attr("cause")
	assert.Contains(t, cause, customer.ErrNotEnoughVertiports.Error())
}

func Test_Agent_EmptyFlightOptions_IsAStepFailure(t *testing.T) {
	gateway := testdoubles.NewFakeGateway()
	gateway.QueryFlightsFunc = func(context.Context, cargo.FlightQuery) ([]cargo.FlightOption, error) {
		return nil, nil
	}
	agent := spawnOne(t, gateway, "greedy", customer.WithFailureBudget(2))

	require.True(t, agent.Step(context.Background()))
	assert.False(t, agent.Step(context.Background()))
	assert.Equal(t, customer.StatusAwaitingOptions, agent.Status())
	assert.Equal(t, 1, agent.FailureBudget())
}

func Test_Agent_QueryUsesArrivalWindowFromSimulatedTime(t *testing.T) {
	gateway := testdoubles.NewFakeGateway()
	agent := spawnOne(t, gateway, "greedy")

	require.True(t, agent.Step(context.Background()))
	require.True(t, agent.Step(context.Background()))

	query, ok := gateway.Calls()[1].Request.(cargo.FlightQuery)
	require.True(t, ok)
	require.NotNil(t, query.TimestampArriveMin)
	require.NotNil(t, query.TimestampArriveMax)
	assert.Equal(t, simStart.Add(time.Minute), *query.TimestampArriveMin)
	assert.Equal(t, simStart.Add(10*time.Minute), *query.TimestampArriveMax)
	assert.Nil(t, query.TimestampDepartMin)
	assert.InDelta(t, 1.0, query.CargoWeightKg, 0.0001)
	assert.NotEqual(t, query.VertiportDepartID, query.VertiportArriveID)
}

func Test_Agent_Step_RecordsMetricsAndSpans(t *testing.T) {
	gateway := testdoubles.NewFakeGateway()
	gateway.VertiportsFunc = func(context.Context, cargo.VertiportsQuery) ([]cargo.Vertiport, error) {
		return nil, errors.Join(cargo.ErrTransport, context.DeadlineExceeded)
	}
	metrics := testdoubles.NewMetricsCollectorSpy()
	tracing := testdoubles.NewTracingCollectorSpy()
	agent := spawnOne(t, gateway, "greedy", customer.WithMetrics(metrics), customer.WithTracing(tracing))

	agent.Step(context.Background())

	assert.Equal(t, 1, metrics.CountCounter(observability.MetricAgentSteps, map[string]string{
		observability.LabelStatus: "awaiting_route",
		observability.LabelResult: observability.ResultFailure,
	}))
	assert.Equal(t, 1, metrics.CountCounter(observability.MetricAgentsAbandoned, nil))
	assert.True(t, metrics.HasDurationRecord(observability.MetricAgentStepDuration))

	spans := tracing.GetSpanRecords()
	require.Len(t, spans, 1)
	assert.Equal(t, "customer.step", spans[0].Name)
	assert.Equal(t, observability.SpanStatusError, spans[0].Status)
	assert.Equal(t, "timeout", spans[0].EndAttributes["error_type"])
	assert.Equal(t, behavior.KindGreedy.String(), spans[0].StartAttributes["archetype"])
}
