package rulekit

import (
	"log/slog"
	"sync"
)

// TraceFunc observes one condition or action evaluation. For condition
// traces, value is the condition's outcome; for action traces, value reports
// whether the action halted evaluation.
//
// Trace callbacks are invoked synchronously, in the exact order conditions
// and actions are evaluated, and never buffered. They must not be relied on
// for control flow; a panic inside a trace callback propagates to the
// Evaluate caller like any other callable failure.
type TraceFunc func(description string, value bool)

// NoopTrace discards trace calls. It is the default sink for Evaluate.
func NoopTrace(string, bool) {}

// SlogTrace returns a TraceFunc that logs each trace call at debug level
// with the given phase attribute ("when" or "then").
func SlogTrace(logger *slog.Logger, phase string) TraceFunc {
	return func(description string, value bool) {
		logger.Debug("rule trace", "phase", phase, "description", description, "value", value)
	}
}

// Trace phases, as recorded by TraceRecorder and the trace store.
const (
	PhaseWhen = "when"
	PhaseThen = "then"
)

// TraceEvent is one recorded trace call.
type TraceEvent struct {
	// Seq numbers events from 1 in evaluation order, across both phases.
	Seq         int    `json:"seq"`
	Phase       string `json:"phase"`
	Description string `json:"description"`
	Value       bool   `json:"value"`
}

// TraceRecorder captures trace calls in evaluation order. Its When and Then
// methods are TraceFuncs suitable for EvaluateWithTrace.
//
// A recorder must not be shared between concurrent evaluations; the mutex
// only guards against host callables that spawn goroutines of their own.
type TraceRecorder struct {
	mu     sync.Mutex
	seq    int
	events []TraceEvent
}

// When records a condition trace call.
func (r *TraceRecorder) When(description string, value bool) {
	r.record(PhaseWhen, description, value)
}

// Then records an action trace call.
func (r *TraceRecorder) Then(description string, value bool) {
	r.record(PhaseThen, description, value)
}

// Events returns the recorded events in evaluation order.
func (r *TraceRecorder) Events() []TraceEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]TraceEvent, len(r.events))
	copy(out, r.events)
	return out
}

// Reset clears the recorder for reuse.
func (r *TraceRecorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq = 0
	r.events = nil
}

func (r *TraceRecorder) record(phase, description string, value bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	r.events = append(r.events, TraceEvent{
		Seq:         r.seq,
		Phase:       phase,
		Description: description,
		Value:       value,
	})
}
