package tracestore

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/rulekit/rulekit"
)

// Evaluation is a persistent trace sink for one top-level Evaluate call.
//
// Its When and Then methods satisfy rulekit.TraceFunc and insert one row per
// trace call, synchronously, numbered from 1 in evaluation order. Because
// TraceFunc returns no error, insert failures are logged, remembered, and
// reported by Err; later calls after a failure become no-ops.
//
// An Evaluation must not be shared between concurrent Evaluate calls.
type Evaluation struct {
	store *Store
	id    string
	label string

	mu  sync.Mutex
	seq int
	err error
}

// Begin inserts a new evaluation record and returns its sink. The label is
// free-form (scenario name, request identifier) and only used for listing.
func (s *Store) Begin(ctx context.Context, label string) (*Evaluation, error) {
	id := uuid.NewString()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO evaluations (id, label) VALUES (?, ?)`, id, label)
	if err != nil {
		return nil, err
	}
	return &Evaluation{store: s, id: id, label: label}, nil
}

// ID returns the evaluation's unique identifier.
func (e *Evaluation) ID() string {
	return e.id
}

// Label returns the label given to Begin.
func (e *Evaluation) Label() string {
	return e.label
}

// When records a condition trace call.
func (e *Evaluation) When(description string, value bool) {
	e.record(rulekit.PhaseWhen, description, value)
}

// Then records an action trace call.
func (e *Evaluation) Then(description string, value bool) {
	e.record(rulekit.PhaseThen, description, value)
}

// Err returns the first insert failure, if any.
func (e *Evaluation) Err() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.err
}

func (e *Evaluation) record(phase, description string, value bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.err != nil {
		return
	}
	e.seq++
	_, err := e.store.db.Exec(
		`INSERT INTO trace_events (evaluation_id, seq, phase, description, value) VALUES (?, ?, ?, ?, ?)`,
		e.id, e.seq, phase, description, value)
	if err != nil {
		e.err = err
		slog.Error("trace event insert failed",
			"evaluation_id", e.id,
			"seq", e.seq,
			"phase", phase,
			"error", err,
		)
	}
}
