package orchestrator

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/kbukum/legalassist/errors"
)

// State is a step of the pipeline state machine.
type State string

// Pipeline states in execution order, plus the Failed sink.
const (
	StateIdle         State = "Idle"
	StateValidating   State = "Validating"
	StateSegmenting   State = "Segmenting"
	StateTranscribing State = "Transcribing"
	StateDiarizing    State = "Diarizing"
	StateAnalyzing    State = "Analyzing"
	StateRetrieving   State = "Retrieving"
	StateComposing    State = "Composing"
	StatePersisting   State = "Persisting"
	StateDone         State = "Done"
	StateFailed       State = "Failed"
)

var next = map[State]State{
	StateIdle:         StateValidating,
	StateValidating:   StateSegmenting,
	StateSegmenting:   StateTranscribing,
	StateTranscribing: StateDiarizing,
	StateDiarizing:    StateAnalyzing,
	StateAnalyzing:    StateRetrieving,
	StateRetrieving:   StateComposing,
	StateComposing:    StatePersisting,
	StatePersisting:   StateDone,
}

// Terminal reports whether no transition leaves s.
func (s State) Terminal() bool {
	return s == StateDone || s == StateFailed
}

// Stage is the lower-case label used in logs and metrics.
func (s State) Stage() string {
	return strings.ToLower(string(s))
}

// CanTransition reports whether from -> to is legal: the next state in
// order, or Failed from any non-terminal state.
func CanTransition(from, to State) bool {
	if from.Terminal() {
		return false
	}
	if to == StateFailed {
		return true
	}
	return next[from] == to
}

// Transition describes one state change of a run.
type Transition struct {
	RunID string
	Input string
	From  State
	To    State
	At    time.Time
	// Err is set on the transition to Failed.
	Err error
}

// StateObserver receives every transition of every run. Implementations
// must be safe for concurrent use when runs execute in parallel.
type StateObserver interface {
	OnTransition(t Transition)
}

// ObserverFunc adapts a function to StateObserver.
type ObserverFunc func(t Transition)

// OnTransition calls f(t).
func (f ObserverFunc) OnTransition(t Transition) { f(t) }

// machine tracks the state of a single run.
type machine struct {
	mu        sync.Mutex
	runID     string
	input     string
	state     State
	observers []StateObserver
}

func newMachine(runID, input string, observers []StateObserver) *machine {
	return &machine{runID: runID, input: input, state: StateIdle, observers: observers}
}

func (m *machine) current() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

func (m *machine) to(s State, cause error) error {
	m.mu.Lock()
	from := m.state
	if !CanTransition(from, s) {
		m.mu.Unlock()
		return errors.Internal(fmt.Errorf("illegal state transition %s -> %s", from, s))
	}
	m.state = s
	m.mu.Unlock()

	t := Transition{RunID: m.runID, Input: m.input, From: from, To: s, At: time.Now(), Err: cause}
	for _, o := range m.observers {
		o.OnTransition(t)
	}
	return nil
}
