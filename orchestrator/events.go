package orchestrator

import (
	"path/filepath"
	"time"

	"github.com/kbukum/legalassist/errors"
	"github.com/kbukum/legalassist/logger"
	"github.com/kbukum/legalassist/sse"
)

// AllRunsTopic matches the topic of every run.
const AllRunsTopic = "run:*"

// RunTopic is the event topic of one run.
func RunTopic(runID string) string { return "run:" + runID }

// TransitionEvent is the payload published for each transition.
type TransitionEvent struct {
	RunID     string    `json:"run_id"`
	Input     string    `json:"input"`
	From      string    `json:"from"`
	To        string    `json:"to"`
	Terminal  bool      `json:"terminal"`
	At        time.Time `json:"at"`
	ErrorCode string    `json:"error_code,omitempty"`
	Error     string    `json:"error,omitempty"`
}

func newTransitionEvent(t Transition) TransitionEvent {
	ev := TransitionEvent{
		RunID:    t.RunID,
		Input:    filepath.Base(t.Input),
		From:     t.From.Stage(),
		To:       t.To.Stage(),
		Terminal: t.To.Terminal(),
		At:       t.At.UTC(),
	}
	if t.Err != nil {
		appErr := errors.Wrap(t.Err)
		ev.ErrorCode, ev.Error = string(appErr.Code), appErr.Message
	}
	return ev
}

// EventsObserver publishes every transition to the run's topic. Inputs are
// reduced to their base name so server-side paths are not exposed.
func EventsObserver(p sse.Publisher, log *logger.Logger) StateObserver {
	if log == nil {
		log = logger.NewNop()
	}
	return ObserverFunc(func(t Transition) {
		ev, err := sse.NewEvent(sse.EventTransition, newTransitionEvent(t))
		if err != nil {
			log.Warn("Transition event not published", logger.ErrorFields("publish_transition", err))
			return
		}
		p.Publish(RunTopic(t.RunID), ev)
	})
}
