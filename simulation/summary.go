package simulation

import (
	"time"

	"github.com/Arrow-air/tool-simulation/customer"
)

// Run modes.
const (
	ModeConfig   = "config"
	ModeEventLog = "eel"
)

// Summary reports how a run went.
type Summary struct {
	Mode            string
	SimulatedStart  time.Time
	SimulatedEnd    time.Time
	WallDuration    time.Duration
	Ticks           int
	Interrupted     bool
	AgentsSpawned   int
	AgentsCompleted int
	AgentsAbandoned int
	StepsAdvanced   int
	StepsFailed     int
	EventsReleased  int
	EventsFailed    int
}

func (s *Summary) addTick(result customer.TickResult) {
	s.Ticks++
	s.StepsAdvanced += result.Advanced
	s.StepsFailed += result.Failed
}

func (s *Summary) countAgents(agents []*customer.Agent) {
	s.AgentsSpawned = len(agents)
	s.AgentsCompleted = 0
	s.AgentsAbandoned = 0

	for _, agent := range agents {
		switch {
		case agent.Abandoned():
			s.AgentsAbandoned++
		case agent.Done():
			s.AgentsCompleted++
		}
	}
}

func (s Summary) logArgs() []any {
	args := []any{
		logAttrMode, s.Mode,
		logAttrSimulatedStart, s.SimulatedStart.Format(time.RFC3339Nano),
		logAttrSimulatedEnd, s.SimulatedEnd.Format(time.RFC3339Nano),
		logAttrWallDurationMS, float64(s.WallDuration) / float64(time.Millisecond),
		logAttrTicks, s.Ticks,
		logAttrInterrupted, s.Interrupted,
	}

	if s.Mode == ModeEventLog {
		return append(args,
			logAttrEventsReleased, s.EventsReleased,
			logAttrEventsFailed, s.EventsFailed,
		)
	}

	return append(args,
		logAttrAgentsSpawned, s.AgentsSpawned,
		logAttrAgentsCompleted, s.AgentsCompleted,
		logAttrAgentsAbandoned, s.AgentsAbandoned,
		logAttrStepsAdvanced, s.StepsAdvanced,
		logAttrStepsFailed, s.StepsFailed,
	)
}
