// Package epoch implements EpochScheduler: the state machine that detects
// power-epoch boundaries and drives the transient/steady-state solver
// calls, grounded on original_source/src/thermal.cc's UpdatePower/
// PrintFinalPT epoch-boundary check (clk > (sample_id+1)*power_epoch_period).
package epoch

import "github.com/sarchlab/dramthermal/thermalconfig"

// State is the scheduler's lifecycle state, the same typed-enum-plus-
// transition idiom the teacher uses for instruction-issue reservation
// state (core's OpMode/ReservationState), applied here to epoch lifecycle
// instead of instruction issue.
type State int

const (
	Idle State = iota
	Accumulating
	EpochBoundary
	Finalized
)

func (s State) String() string {
	switch s {
	case Idle:
		return "Idle"
	case Accumulating:
		return "Accumulating"
	case EpochBoundary:
		return "EpochBoundary"
	case Finalized:
		return "Finalized"
	default:
		return "Unknown"
	}
}

var legalTransitions = map[State]map[State]bool{
	Idle:         {Accumulating: true, Finalized: true},
	Accumulating: {EpochBoundary: true, Finalized: true},
	EpochBoundary: {Accumulating: true, Finalized: true},
	Finalized:    {},
}

// Scheduler tracks the current sample (epoch) index and lifecycle state.
// It does not itself call the solver or top up power maps — it only
// decides *when* a caller should do so, via CrossesBoundary and
// AdvanceEpoch.
type Scheduler struct {
	cfg      *thermalconfig.Config
	state    State
	sampleID uint64
}

// New builds a Scheduler in the Idle state.
func New(cfg *thermalconfig.Config) *Scheduler {
	return &Scheduler{cfg: cfg, state: Idle}
}

// State returns the scheduler's current lifecycle state.
func (s *Scheduler) State() State { return s.state }

// SampleID returns the current epoch sample index.
func (s *Scheduler) SampleID() uint64 { return s.sampleID }

// CrossesBoundary reports whether clk has advanced past the current
// epoch window, per spec.md §4.5 step 2's literal condition.
func (s *Scheduler) CrossesBoundary(clk uint64) bool {
	return clk > (s.sampleID+1)*s.cfg.PowerEpochPeriod
}

// BeginAccumulating transitions Idle/EpochBoundary into Accumulating,
// the state UpdatePower expects to run in. Calling it from Finalized is
// an InvariantViolation.
func (s *Scheduler) BeginAccumulating() error {
	if s.state == Idle || s.state == EpochBoundary {
		return s.transition(Accumulating)
	}
	if s.state == Accumulating {
		return nil
	}
	return s.transition(Accumulating)
}

// AdvanceEpoch moves Accumulating -> EpochBoundary -> Accumulating and
// increments sampleID. Call this after the background top-up and transient solve
// have both completed for the boundary just crossed.
func (s *Scheduler) AdvanceEpoch() error {
	if err := s.transition(EpochBoundary); err != nil {
		return err
	}
	s.sampleID++
	return s.transition(Accumulating)
}

// Finalize transitions into Finalized, from Idle, Accumulating or
// EpochBoundary. After Finalize, BeginAccumulating, AdvanceEpoch and
// Finalize return an InvariantViolation.
func (s *Scheduler) Finalize() error {
	return s.transition(Finalized)
}

func (s *Scheduler) transition(next State) error {
	if !legalTransitions[s.state][next] {
		return thermalconfig.NewInvariantViolation(
			"illegal epoch transition " + s.state.String() + " -> " + next.String())
	}
	s.state = next
	return nil
}
