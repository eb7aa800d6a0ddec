package customer

import (
	"context"
	"math"
	"time"

	"github.com/Arrow-air/tool-simulation/observability"
)

const (
	logMsgAgentSpawned      = "customer spawned"
	logMsgUnknownArchetype  = "unknown customer archetype, falling back to greedy"
	logMsgStepAdvanced      = "customer step advanced"
	logMsgStepFailed        = "customer step failed"
	logMsgStepInterrupted   = "customer step interrupted"
	logMsgAgentAbandoned    = "customer reached its failure budget and abandoned its task"
	logMsgAgentFinished     = "customer finished"
	logMsgCancelNotDrawn    = "customer chose not to cancel"
	logMsgTickSkipped       = "tick skipped, context is done"
	logAttrAgentID          = "agent_id"
	logAttrArchetype        = "archetype"
	logAttrStatus           = "status"
	logAttrNextStatus       = "next_status"
	logAttrCause            = "cause"
	logAttrErrorType        = "error_type"
	logAttrFailureBudget    = "failure_budget"
	logAttrPlanID           = "plan_id"
	logAttrDurationMS       = "duration_ms"
	logAttrRequestedName    = "requested"
	spanNameStep            = "customer.step"
	spanAttrAgentID         = "agent_id"
	spanAttrArchetype       = "archetype"
	spanAttrStatus          = "status"
	spanAttrErrorType       = "error_type"
	spanAttrRemainingBudget = "failure_budget"
)

// observer bundles the optional logging, metrics and tracing sinks shared by a pool and its agents.
type observer struct {
	logger           observability.Logger
	contextualLogger observability.ContextualLogger
	metricsCollector observability.MetricsCollector
	tracingCollector observability.TracingCollector
}

func (o *observer) debug(ctx context.Context, msg string, args ...any) {
	switch {
	case o.contextualLogger != nil:
		o.contextualLogger.DebugContext(ctx, msg, args...)
	case o.logger != nil:
		o.logger.Debug(msg, args...)
	}
}

func (o *observer) info(ctx context.Context, msg string, args ...any) {
	switch {
	case o.contextualLogger != nil:
		o.contextualLogger.InfoContext(ctx, msg, args...)
	case o.logger != nil:
		o.logger.Info(msg, args...)
	}
}

func (o *observer) warn(ctx context.Context, msg string, args ...any) {
	switch {
	case o.contextualLogger != nil:
		o.contextualLogger.WarnContext(ctx, msg, args...)
	case o.logger != nil:
		o.logger.Warn(msg, args...)
	}
}

func (o *observer) recordStep(ctx context.Context, status Status, advanced bool, duration time.Duration) {
	result := observability.ResultSuccess
	if !advanced {
		result = observability.ResultFailure
	}

	observability.IncrementCounter(ctx, o.metricsCollector, observability.MetricAgentSteps, map[string]string{
		observability.LabelStatus: status.String(),
		observability.LabelResult: result,
	})
	observability.RecordDuration(ctx, o.metricsCollector, observability.MetricAgentStepDuration, duration, map[string]string{
		observability.LabelStatus: status.String(),
	})
}

func (o *observer) recordAbandoned(ctx context.Context, status Status) {
	observability.IncrementCounter(ctx, o.metricsCollector, observability.MetricAgentsAbandoned, map[string]string{
		observability.LabelStatus: status.String(),
	})
}

func (o *observer) recordActive(ctx context.Context, active int) {
	observability.RecordValue(ctx, o.metricsCollector, observability.MetricAgentsActive, float64(active), nil)
}

// toMilliseconds converts a time.Duration to float64 milliseconds with 3 decimal places.
func toMilliseconds(d time.Duration) float64 {
	return math.Round(float64(d.Nanoseconds())/1e6*1000) / 1000
}
