package customer

import (
	"context"
	"math/rand/v2"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Arrow-air/tool-simulation/behavior"
	"github.com/Arrow-air/tool-simulation/cargo"
	"github.com/Arrow-air/tool-simulation/simclock"
)

const (
	defaultFailureBudget = 1
	defaultMaxInFlight   = 16
)

// TickResult summarizes one Tick.
type TickResult struct {
	Stepped   int
	Advanced  int
	Failed    int
	Abandoned int
	Active    int
}

// Pool owns the agents of one simulation run.
// Spawn and Tick must not be called concurrently with each other.
type Pool struct {
	gateway       cargo.Gateway
	clock         simclock.Nower
	failureBudget int
	maxInFlight   int
	rng           *rand.Rand
	obs           *observer
	agents        []*Agent
}

// NewPool creates an empty Pool whose agents talk to gateway and read simulated time from clock.
func NewPool(gateway cargo.Gateway, clock simclock.Nower, options ...PoolOption) (*Pool, error) {
	if gateway == nil {
		return nil, ErrNilGateway
	}

	if clock == nil {
		return nil, ErrNilClock
	}

	seed := uint64(time.Now().UnixNano()) //nolint:gosec // a negative wall clock is not a concern here

	p := &Pool{
		gateway:       gateway,
		clock:         clock,
		failureBudget: defaultFailureBudget,
		maxInFlight:   defaultMaxInFlight,
		rng:           rand.New(rand.NewPCG(seed, seed>>1)), //nolint:gosec // simulation randomness
		obs:           &observer{},
	}

	for _, option := range options {
		if err := option(p); err != nil {
			return nil, err
		}
	}

	return p, nil
}

// Spawn creates customers agents, drawing each archetype uniformly from archetypes.
// Repeated names weight the draw. Unknown names, and an empty list, produce greedy agents with a warning.
func (p *Pool) Spawn(ctx context.Context, customers uint, archetypes []string) {
	for range customers {
		requested := ""
		if len(archetypes) > 0 {
			requested = archetypes[p.rng.IntN(len(archetypes))]
		}

		kind, err := behavior.Parse(requested)
		if err != nil {
			p.obs.warn(ctx, logMsgUnknownArchetype, logAttrRequestedName, requested)
			kind = behavior.KindGreedy
		}

		agentRNG := rand.New(rand.NewPCG(p.rng.Uint64(), p.rng.Uint64())) //nolint:gosec // simulation randomness
		agent := newAgent(behavior.New(kind), p.failureBudget, agentRNG, p.gateway, p.clock, p.obs)
		p.agents = append(p.agents, agent)

		p.obs.debug(ctx, logMsgAgentSpawned, logAttrAgentID, agent.id.String(), logAttrArchetype, kind.String())
	}

	p.obs.recordActive(ctx, p.Active())
}

// Tick steps every agent that is not Done exactly once.
// Steps run concurrently, at most maxInFlight at a time. A done context skips the tick.
func (p *Pool) Tick(ctx context.Context) TickResult {
	if ctx.Err() != nil {
		p.obs.debug(ctx, logMsgTickSkipped)
		return TickResult{Active: p.Active()}
	}

	type outcome struct {
		stepped   bool
		advanced  bool
		abandoned bool
	}

	outcomes := make([]outcome, len(p.agents))

	var group errgroup.Group
	group.SetLimit(p.maxInFlight)

	for i, agent := range p.agents {
		if agent.Done() {
			continue
		}

		group.Go(func() error {
			advanced := agent.Step(ctx)
			outcomes[i] = outcome{stepped: true, advanced: advanced, abandoned: agent.Abandoned()}

			return nil
		})
	}

	_ = group.Wait() // steps never return errors

	var result TickResult
	for _, o := range outcomes {
		if !o.stepped {
			continue
		}

		result.Stepped++
		if o.advanced {
			result.Advanced++
		} else {
			result.Failed++
		}

		if o.abandoned {
			result.Abandoned++
		}
	}

	result.Active = p.Active()
	p.obs.recordActive(ctx, result.Active)

	return result
}

// Agents returns the spawned agents in spawn order.
func (p *Pool) Agents() []*Agent {
	return append([]*Agent(nil), p.agents...)
}

// Active counts the agents that are not Done.
func (p *Pool) Active() int {
	active := 0
	for _, agent := range p.agents {
		if !agent.Done() {
			active++
		}
	}

	return active
}

// AllDone reports whether every agent reached Done. An empty pool is done.
func (p *Pool) AllDone() bool {
	return p.Active() == 0
}
