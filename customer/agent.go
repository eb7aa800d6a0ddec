package customer

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/Arrow-air/tool-simulation/behavior"
	"github.com/Arrow-air/tool-simulation/cargo"
	"github.com/Arrow-air/tool-simulation/observability"
	"github.com/Arrow-air/tool-simulation/simclock"
)

const (
	arriveWindowMin = 60 * time.Second
	arriveWindowMax = 600 * time.Second
	cargoWeightKg   = 1.0
)

// nearbyQuery is the location sent with every vertiport lookup. The service does not filter by it yet.
var nearbyQuery = cargo.VertiportsQuery{Latitude: 100, Longitude: 100}

// Agent is one synthetic customer. It is owned by the goroutine calling Step and is not safe for concurrent use.
type Agent struct {
	id            uuid.UUID
	policy        behavior.Policy
	status        Status
	departID      string
	arriveID      string
	candidates    []cargo.FlightOption
	planID        string
	failureBudget int
	abandoned     bool

	rng     *rand.Rand
	gateway cargo.Gateway
	clock   simclock.Nower
	obs     *observer
}

func newAgent(
	policy behavior.Policy,
	failureBudget int,
	rng *rand.Rand,
	gateway cargo.Gateway,
	clock simclock.Nower,
	obs *observer,
) *Agent {
	return &Agent{
		id:            uuid.New(),
		policy:        policy,
		status:        StatusAwaitingRoute,
		failureBudget: failureBudget,
		rng:           rng,
		gateway:       gateway,
		clock:         clock,
		obs:           obs,
	}
}

// ID returns the identifier the agent is logged and journaled under.
func (a *Agent) ID() uuid.UUID { return a.id }

// Kind returns the archetype of the agent's behavior policy.
func (a *Agent) Kind() behavior.Kind { return a.policy.Kind() }

// Status returns the current workflow status.
func (a *Agent) Status() Status { return a.status }

// DepartID returns the picked departure vertiport, empty before the route is chosen.
func (a *Agent) DepartID() string { return a.departID }

// ArriveID returns the picked arrival vertiport, empty before the route is chosen.
func (a *Agent) ArriveID() string { return a.arriveID }

// Candidates returns a copy of the flight options of the last successful query.
func (a *Agent) Candidates() []cargo.FlightOption {
	return append([]cargo.FlightOption(nil), a.candidates...)
}

// PlanID returns the confirmed flight plan id, empty until a confirmation succeeded.
func (a *Agent) PlanID() string { return a.planID }

// FailureBudget returns the number of failed steps the agent still tolerates.
func (a *Agent) FailureBudget() int { return a.failureBudget }

// Abandoned reports whether the agent reached Done by exhausting its failure budget.
func (a *Agent) Abandoned() bool { return a.abandoned }

// Done reports whether the agent reached its terminal status.
func (a *Agent) Done() bool { return a.status == StatusDone }

// Step performs one step of the booking workflow and reports whether it advanced.
// Gateway and domain failures are logged and turned into false; they never escape.
// A step cut short by a done ctx is not charged to the failure budget.
func (a *Agent) Step(ctx context.Context) bool {
	if a.status == StatusDone {
		return true
	}

	status := a.status
	ctx = cargo.WithCustomerID(ctx, a.id.String())
	ctx, span := observability.StartSpan(ctx, a.obs.tracingCollector, spanNameStep, map[string]string{
		spanAttrAgentID:   a.id.String(),
		spanAttrArchetype: a.policy.Kind().String(),
		spanAttrStatus:    status.String(),
	})

	start := time.Now()
	err := a.handle(ctx, status)
	duration := time.Since(start)

	if err != nil && ctx.Err() != nil {
		a.obs.debug(ctx, logMsgStepInterrupted,
			logAttrAgentID, a.id.String(),
			logAttrStatus, status.String(),
			logAttrCause, err.Error(),
		)
		observability.FinishSpan(a.obs.tracingCollector, span, observability.SpanStatusError, map[string]string{
			spanAttrErrorType: cargo.ErrorType(ctx.Err()),
		})

		return false
	}

	a.obs.recordStep(ctx, status, err == nil, duration)

	if err == nil {
		a.obs.debug(ctx, logMsgStepAdvanced,
			logAttrAgentID, a.id.String(),
			logAttrStatus, status.String(),
			logAttrNextStatus, a.status.String(),
			logAttrDurationMS, toMilliseconds(duration),
		)
		if a.status == StatusDone {
			a.obs.info(ctx, logMsgAgentFinished, logAttrAgentID, a.id.String(), logAttrPlanID, a.planID)
		}
		observability.FinishSpan(a.obs.tracingCollector, span, observability.SpanStatusOK, nil)

		return true
	}

	a.fail(ctx, status, err)
	observability.FinishSpan(a.obs.tracingCollector, span, observability.SpanStatusError, map[string]string{
		spanAttrErrorType:       cargo.ErrorType(err),
		spanAttrRemainingBudget: strconv.Itoa(a.failureBudget),
	})

	return false
}

func (a *Agent) handle(ctx context.Context, status Status) error {
	switch status {
	case StatusAwaitingRoute:
		return a.pickRoute(ctx)
	case StatusAwaitingOptions:
		return a.queryOptions(ctx)
	case StatusAwaitingSelection:
		return a.confirmSelection(ctx)
	case StatusAwaitingCancelDecision:
		return a.decideCancellation(ctx)
	default:
		return nil
	}
}

// fail charges the failure budget and forces Done once it is used up.
func (a *Agent) fail(ctx context.Context, status Status, cause error) {
	a.failureBudget--

	a.obs.warn(ctx, logMsgStepFailed,
		logAttrAgentID, a.id.String(),
		logAttrStatus, status.String(),
		logAttrErrorType, cargo.ErrorType(cause),
		logAttrCause, cause.Error(),
		logAttrFailureBudget, a.failureBudget,
	)

	if a.failureBudget > 0 {
		return
	}

	a.status = StatusDone
	a.abandoned = true
	a.obs.info(ctx, logMsgAgentAbandoned, logAttrAgentID, a.id.String(), logAttrStatus, status.String())
	a.obs.recordAbandoned(ctx, status)
}

func (a *Agent) pickRoute(ctx context.Context) error {
	vertiports, err := a.gateway.Vertiports(ctx, nearbyQuery)
	if err != nil {
		return err
	}

	if len(vertiports) < 2 {
		return fmt.Errorf("%w: got %d", ErrNotEnoughVertiports, len(vertiports))
	}

	picked := a.rng.Perm(len(vertiports))
	a.departID = vertiports[picked[0]].ID
	a.arriveID = vertiports[picked[1]].ID
	a.status = StatusAwaitingOptions

	return nil
}

func (a *Agent) queryOptions(ctx context.Context) error {
	now := a.clock.Now()
	arriveMin := now.Add(arriveWindowMin)
	arriveMax := now.Add(arriveWindowMax)

	options, err := a.gateway.QueryFlights(ctx, cargo.FlightQuery{
		VertiportDepartID:  a.departID,
		VertiportArriveID:  a.arriveID,
		TimestampArriveMin: &arriveMin,
		TimestampArriveMax: &arriveMax,
		CargoWeightKg:      cargoWeightKg,
	})
	if err != nil {
		return err
	}

	if len(options) == 0 {
		return fmt.Errorf("%w: no flight options", cargo.ErrEmptyResult)
	}

	a.candidates = options
	a.status = StatusAwaitingSelection

	return nil
}

func (a *Agent) confirmSelection(ctx context.Context) error {
	draftID, ok := a.policy.Select(a.candidates)
	if !ok {
		return ErrNoSelection
	}

	planID, err := a.gateway.Confirm(ctx, cargo.FlightConfirm{PlanID: draftID})
	if err != nil {
		return err
	}

	a.planID = planID
	a.status = StatusAwaitingCancelDecision

	return nil
}

func (a *Agent) decideCancellation(ctx context.Context) error {
	if a.rng.Float64() >= a.policy.CancellationProbability() {
		a.obs.debug(ctx, logMsgCancelNotDrawn, logAttrAgentID, a.id.String(), logAttrPlanID, a.planID)
		a.status = StatusDone

		return nil
	}

	if err := a.gateway.Cancel(ctx, cargo.FlightCancel{PlanID: a.planID}); err != nil {
		return err
	}

	a.status = StatusDone

	return nil
}
