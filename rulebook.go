package rulekit

// groupConjunction joins an outer group condition's description with the
// nested rule's own, so nested trace labels read "outer AND inner".
const groupConjunction = " AND "

// RuleBook is an ordered, append-only sequence of rules plus the evaluation
// algorithm.
//
// Rule order is significant and preserved exactly as inserted; rules are
// never sorted, deduplicated, or reordered. The sequence must be fully
// populated before the first Evaluate call; appending concurrently with
// evaluation is not synchronized.
type RuleBook[F, R any] struct {
	rules []*Rule[F, R]
}

// New creates an empty rule book.
func New[F, R any]() *RuleBook[F, R] {
	return &RuleBook[F, R]{}
}

// AddRule appends a rule to the end of the rule book. Returns the rule book
// for fluent chaining. The rule itself is validated by Evaluate, not here.
func (b *RuleBook[F, R]) AddRule(rule *Rule[F, R]) *RuleBook[F, R] {
	b.rules = append(b.rules, rule)
	return b
}

// AddRules appends each rule in the given order, equivalent to repeated
// AddRule calls.
func (b *RuleBook[F, R]) AddRules(rules []*Rule[F, R]) *RuleBook[F, R] {
	for _, rule := range rules {
		b.AddRule(rule)
	}
	return b
}

// Len returns the number of rules appended to this book, not counting rules
// inside nested groups.
func (b *RuleBook[F, R]) Len() int {
	return len(b.rules)
}

// Evaluate applies all rules, in insertion order, to the given facts and
// result. Equivalent to EvaluateWithTrace with no-op trace sinks.
func (b *RuleBook[F, R]) Evaluate(facts F, result R) (*Outcome[F, R], error) {
	return b.EvaluateWithTrace(facts, result, nil, nil)
}

// EvaluateWithTrace applies all rules to the given facts and result,
// reporting every condition and action evaluation to the trace sinks.
//
// whenTrace receives each condition's description and outcome; thenTrace
// receives each fired action's description and whether it stopped
// evaluation. Either may be nil for no tracing.
//
// The whole rule sequence, including nested groups, is validated first; a
// misconfigured rule returns a *ConfigError before any condition runs. A
// panic raised by a condition, action, or trace callback propagates
// unmodified; the result is then left in whatever state the completed
// actions produced.
func (b *RuleBook[F, R]) EvaluateWithTrace(facts F, result R, whenTrace, thenTrace TraceFunc) (*Outcome[F, R], error) {
	if err := b.validate(); err != nil {
		return nil, err
	}
	if whenTrace == nil {
		whenTrace = NoopTrace
	}
	if thenTrace == nil {
		thenTrace = NoopTrace
	}

	outcome := &Outcome[F, R]{Facts: facts, Result: result}
	stopped := false
	b.apply(outcome, &stopped, "", whenTrace, thenTrace)
	return outcome, nil
}

// validate checks every rule, depth-first, for configuration errors.
func (b *RuleBook[F, R]) validate() error {
	for _, rule := range b.rules {
		if err := rule.validate(); err != nil {
			return err
		}
	}
	return nil
}

// apply runs the traversal for one rule book frame.
//
// The outcome and the stopped flag are shared by pointer across all frames
// of one top-level evaluation: a group rule passes both into its nested
// book, so a stop signaled at any depth halts every enclosing sequence too.
// prefix carries the enclosing group's condition description for nested
// trace labels.
func (b *RuleBook[F, R]) apply(outcome *Outcome[F, R], stopped *bool, prefix string, whenTrace, thenTrace TraceFunc) {
	for _, rule := range b.rules {
		if *stopped {
			// Short-circuit gate: remaining rules are neither evaluated
			// nor traced.
			return
		}

		matched := rule.when(outcome.Facts)
		whenTrace(prefix+rule.whenDesc, matched)
		if matched && rule.whenResult != nil {
			// The result-condition sees the current result, after all
			// previously fired actions. It is skipped entirely, trace
			// included, when the facts-condition was false.
			matched = rule.whenResult(outcome.Result)
			whenTrace(rule.whenResultDesc, matched)
		}
		if !matched {
			continue
		}

		switch then := rule.then.(type) {
		case groupConsequence[F, R]:
			// Evaluate the nested rules as if inlined here, gated by this
			// rule's condition, sharing the outcome and stop flag.
			then.nested.apply(outcome, stopped, rule.whenDesc+groupConjunction, whenTrace, thenTrace)
		case actionConsequence[F, R]:
			then.run(outcome)
			thenTrace(rule.thenDesc, then.stop)
			*stopped = then.stop
		}
	}
}
