package tracestore

import (
	"context"
	"fmt"

	"github.com/rulekit/rulekit"
)

// EvaluationInfo describes one stored evaluation.
type EvaluationInfo struct {
	ID        string
	Label     string
	CreatedAt string
}

// ListEvaluations returns all stored evaluations, oldest first.
func (s *Store) ListEvaluations(ctx context.Context) ([]EvaluationInfo, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, label, created_at FROM evaluations ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list evaluations: %w", err)
	}
	defer rows.Close()

	var infos []EvaluationInfo
	for rows.Next() {
		var info EvaluationInfo
		if err := rows.Scan(&info.ID, &info.Label, &info.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan evaluation: %w", err)
		}
		infos = append(infos, info)
	}
	return infos, rows.Err()
}

// ReadEvents returns the trace events of one evaluation in evaluation order.
func (s *Store) ReadEvents(ctx context.Context, evaluationID string) ([]rulekit.TraceEvent, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT seq, phase, description, value FROM trace_events WHERE evaluation_id = ? ORDER BY seq`,
		evaluationID)
	if err != nil {
		return nil, fmt.Errorf("read events for %s: %w", evaluationID, err)
	}
	defer rows.Close()

	var events []rulekit.TraceEvent
	for rows.Next() {
		var event rulekit.TraceEvent
		if err := rows.Scan(&event.Seq, &event.Phase, &event.Description, &event.Value); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, event)
	}
	return events, rows.Err()
}
