package simulation

import (
	"context"
	"time"

	"github.com/Arrow-air/tool-simulation/cargo"
	"github.com/Arrow-air/tool-simulation/customer"
	"github.com/Arrow-air/tool-simulation/eel"
	"github.com/Arrow-air/tool-simulation/observability"
	"github.com/Arrow-air/tool-simulation/simclock"
	"github.com/Arrow-air/tool-simulation/simconfig"
)

const (
	defaultTickInterval = 100 * time.Millisecond

	logMsgRunStarted       = "simulation started"
	logMsgRunFinished      = "simulation finished"
	logMsgRunInterrupted   = "simulation interrupted"
	logAttrMode            = "mode"
	logAttrSimulatedStart  = "simulated_start"
	logAttrSimulatedEnd    = "simulated_end"
	logAttrWallDurationMS  = "wall_duration_ms"
	logAttrTicks           = "ticks"
	logAttrInterrupted     = "interrupted"
	logAttrCustomers       = "customers"
	logAttrArchetypes      = "archetypes"
	logAttrEvents          = "events"
	logAttrEventsReleased  = "events_released"
	logAttrEventsFailed    = "events_failed"
	logAttrAgentsSpawned   = "agents_spawned"
	logAttrAgentsCompleted = "agents_completed"
	logAttrAgentsAbandoned = "agents_abandoned"
	logAttrStepsAdvanced   = "steps_advanced"
	logAttrStepsFailed     = "steps_failed"
	logAttrError           = "error"
)

// GatewayDecorator wraps the gateway of a run once its clock exists, e.g. to journal the traffic.
type GatewayDecorator func(next cargo.Gateway, clock simclock.Nower) (cargo.Gateway, error)

// Option defines a functional option for configuring a Runner.
type Option func(*Runner) error

// WithTickInterval sets how often agents are stepped and the event log is polled.
func WithTickInterval(interval time.Duration) Option {
	return func(r *Runner) error {
		if interval <= 0 {
			return ErrInvalidTickInterval
		}

		r.tickInterval = interval

		return nil
	}
}

// WithWallClock replaces time.Now as the wall-clock source of the simulated clock.
func WithWallClock(wall simclock.WallFunc) Option {
	return func(r *Runner) error {
		r.wall = wall
		return nil
	}
}

// WithPoolOptions passes options to the agent pool of config runs.
func WithPoolOptions(options ...customer.PoolOption) Option {
	return func(r *Runner) error {
		r.poolOptions = append(r.poolOptions, options...)
		return nil
	}
}

// WithPlayerOptions passes options to the player of event log runs.
func WithPlayerOptions(options ...eel.PlayerOption) Option {
	return func(r *Runner) error {
		r.playerOptions = append(r.playerOptions, options...)
		return nil
	}
}

// WithGatewayDecorator wraps the gateway of every run. Decorators apply in the given order.
func WithGatewayDecorator(decorator GatewayDecorator) Option {
	return func(r *Runner) error {
		if decorator != nil {
			r.decorators = append(r.decorators, decorator)
		}

		return nil
	}
}

// WithLogger sets the logger for the Runner.
//
// Info level: start and summary of every run
// Warn level: interrupted runs.
func WithLogger(logger observability.Logger) Option {
	return func(r *Runner) error {
		r.logger = logger
		return nil
	}
}

// WithContextualLogger sets a context-aware logger. It takes precedence over WithLogger.
func WithContextualLogger(logger observability.ContextualLogger) Option {
	return func(r *Runner) error {
		r.contextualLogger = logger
		return nil
	}
}

// Runner runs simulations against a cargo gateway.
type Runner struct {
	gateway       cargo.Gateway
	tickInterval  time.Duration
	wall          simclock.WallFunc
	poolOptions   []customer.PoolOption
	playerOptions []eel.PlayerOption
	decorators    []GatewayDecorator

	logger           observability.Logger
	contextualLogger observability.ContextualLogger
}

// NewRunner creates a Runner that sends its traffic to gateway.
func NewRunner(gateway cargo.Gateway, options ...Option) (*Runner, error) {
	if gateway == nil {
		return nil, ErrNilGateway
	}

	r := &Runner{
		gateway:      gateway,
		tickInterval: defaultTickInterval,
		wall:         time.Now,
	}

	for _, option := range options {
		if err := option(r); err != nil {
			return nil, err
		}
	}

	return r, nil
}

// Run starts the run the input describes.
func (r *Runner) Run(ctx context.Context, input Input) (Summary, error) {
	if input.Log != nil {
		return r.RunEventLog(ctx, *input.Log)
	}

	return r.RunConfig(ctx, *input.Config)
}

// RunConfig spawns the configured customers at the simulated start and steps them every tick
// until the simulated clock reaches start+duration. A done context ends the run early with its error.
func (r *Runner) RunConfig(ctx context.Context, config simconfig.Config) (Summary, error) {
	clock := simclock.New(config.Start, config.Duration, simclock.WithWallClock(r.wall))
	summary := Summary{Mode: ModeConfig, SimulatedStart: clock.Start()}

	gateway, err := r.decorate(clock)
	if err != nil {
		return summary, err
	}

	pool, err := customer.NewPool(gateway, clock, r.poolOptions...)
	if err != nil {
		return summary, err
	}

	r.info(ctx, logMsgRunStarted,
		logAttrMode, ModeConfig,
		logAttrSimulatedStart, clock.Start().Format(time.RFC3339Nano),
		logAttrSimulatedEnd, clock.End().Format(time.RFC3339Nano),
		logAttrCustomers, config.Customers,
		logAttrArchetypes, config.Archetypes,
	)

	pool.Spawn(ctx, config.Customers, config.Archetypes)

	err = r.loop(ctx, func() bool {
		if clock.IsOver() {
			return true
		}

		summary.addTick(pool.Tick(ctx))

		return clock.IsOver()
	})

	summary.countAgents(pool.Agents())

	return r.finish(ctx, summary, clock, err)
}

// RunEventLog replays log with the simulated clock anchored at its first event.
// The run ends once every event was released. A done context ends it early with its error.
func (r *Runner) RunEventLog(ctx context.Context, log eel.Log) (Summary, error) {
	start, _ := log.Start()
	end, _ := log.End()
	clock := simclock.New(start, end.Sub(start), simclock.WithWallClock(r.wall))
	summary := Summary{Mode: ModeEventLog, SimulatedStart: start}

	gateway, err := r.decorate(clock)
	if err != nil {
		return summary, err
	}

	dispatcher, err := eel.NewGatewayDispatcher(gateway)
	if err != nil {
		return summary, err
	}

	player, err := eel.NewPlayer(log, dispatcher, r.playerOptions...)
	if err != nil {
		return summary, err
	}

	r.info(ctx, logMsgRunStarted,
		logAttrMode, ModeEventLog,
		logAttrSimulatedStart, start.Format(time.RFC3339Nano),
		logAttrEvents, log.Len(),
	)

	err = r.loop(ctx, func() bool {
		if player.Done() {
			return true
		}

		player.Poll(ctx, clock)
		summary.Ticks++

		return player.Done()
	})

	summary.EventsReleased = player.Released()
	summary.EventsFailed = player.Failed()

	return r.finish(ctx, summary, clock, err)
}

// loop calls tick immediately and then on every tick of the ticker until tick reports completion
// or ctx is done.
func (r *Runner) loop(ctx context.Context, tick func() (done bool)) error {
	if tick() {
		return nil
	}

	ticker := time.NewTicker(r.tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if tick() {
				return nil
			}
		}
	}
}

func (r *Runner) decorate(clock simclock.Nower) (cargo.Gateway, error) {
	gateway := r.gateway
	for _, decorator := range r.decorators {
		var err error
		if gateway, err = decorator(gateway, clock); err != nil {
			return nil, err
		}
	}

	return gateway, nil
}

func (r *Runner) finish(ctx context.Context, summary Summary, clock simclock.Clock, err error) (Summary, error) {
	summary.SimulatedEnd = clock.Now()
	summary.WallDuration = clock.Elapsed()

	if err != nil {
		summary.Interrupted = true
		r.warn(ctx, logMsgRunInterrupted, append(summary.logArgs(), logAttrError, err.Error())...)

		return summary, err
	}

	r.info(ctx, logMsgRunFinished, summary.logArgs()...)

	return summary, nil
}

func (r *Runner) info(ctx context.Context, msg string, args ...any) {
	switch {
	case r.contextualLogger != nil:
		r.contextualLogger.InfoContext(ctx, msg, args...)
	case r.logger != nil:
		r.logger.Info(msg, args...)
	}
}

func (r *Runner) warn(ctx context.Context, msg string, args ...any) {
	switch {
	case r.contextualLogger != nil:
		r.contextualLogger.WarnContext(ctx, msg, args...)
	case r.logger != nil:
		r.logger.Warn(msg, args...)
	}
}
