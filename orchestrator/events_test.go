package orchestrator

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kbukum/legalassist/errors"
	"github.com/kbukum/legalassist/sse"
)

type recordingPublisher struct {
	mu     sync.Mutex
	topics []string
	events []sse.Event
}

func (p *recordingPublisher) Publish(topic string, ev sse.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.topics = append(p.topics, topic)
	p.events = append(p.events, ev)
}

func TestEventsObserver(t *testing.T) {
	pub := &recordingPublisher{}
	obs := EventsObserver(pub, nil)
	at := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	obs.OnTransition(Transition{RunID: "r1", Input: "/tmp/upload-1/audience.wav", From: StateIdle, To: StateValidating, At: at})
	obs.OnTransition(Transition{
		RunID: "r1", Input: "/tmp/upload-1/audience.wav", From: StateValidating, To: StateFailed, At: at,
		Err: errors.InputError("/tmp/upload-1/audience.wav", "empty file"),
	})

	require.Len(t, pub.events, 2)
	assert.Equal(t, []string{"run:r1", "run:r1"}, pub.topics)

	var first, last TransitionEvent
	require.NoError(t, json.Unmarshal(pub.events[0].Data, &first))
	require.NoError(t, json.Unmarshal(pub.events[1].Data, &last))
	assert.Equal(t, sse.EventTransition, pub.events[0].Type)

	assert.Equal(t, "audience.wav", first.Input)
	assert.Equal(t, "idle", first.From)
	assert.Equal(t, "validating", first.To)
	assert.False(t, first.Terminal)
	assert.Empty(t, first.ErrorCode)

	assert.Equal(t, "failed", last.To)
	assert.True(t, last.Terminal)
	assert.Equal(t, string(errors.ErrCodeInput), last.ErrorCode)
	assert.Contains(t, last.Error, "empty file")
}

func TestRunTopicMatchesAllRuns(t *testing.T) {
	assert.Equal(t, "run:abc", RunTopic("abc"))
	assert.Regexp(t, `^run:`, AllRunsTopic)
}
