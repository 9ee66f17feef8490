package rulekit

// Condition is a predicate over the input facts.
type Condition[F any] func(facts F) bool

// ResultCondition is a predicate over the current result value. It is only
// evaluated after the rule's facts-condition already held.
type ResultCondition[R any] func(result R) bool

// Action mutates the outcome's result. The facts value must be treated as
// read-only.
type Action[F, R any] func(outcome *Outcome[F, R])

// GroupFunc populates the nested rule book of a group rule. It is invoked
// once, at build time, with a fresh empty RuleBook.
type GroupFunc[F, R any] func(group *RuleBook[F, R])

// consequence is the tagged union of what a matching rule does: run an
// action (stopping or proceeding), or delegate to a nested rule group.
// Exactly one consequence exists per rule; the builder rejects a second.
type consequence[F, R any] interface {
	isConsequence()
}

type actionConsequence[F, R any] struct {
	run Action[F, R]
	// stop reports whether firing this action halts the whole evaluation.
	stop bool
}

func (actionConsequence[F, R]) isConsequence() {}

type groupConsequence[F, R any] struct {
	nested *RuleBook[F, R]
}

func (groupConsequence[F, R]) isConsequence() {}

// Rule is one condition/consequence unit of a RuleBook.
//
// Rules are built fluently and are immutable once evaluation of a RuleBook
// containing them has started. Builder misuse (two consequences, nil
// callables) is recorded on the rule and surfaces as a ConfigError from
// Evaluate, before any rule runs.
type Rule[F, R any] struct {
	when           Condition[F]
	whenDesc       string
	whenResult     ResultCondition[R]
	whenResultDesc string
	then           consequence[F, R]
	thenDesc       string

	// err holds the first configuration error; later builder calls never
	// overwrite it.
	err error
}

// NewRule creates an empty rule. A usable rule needs a facts-condition via
// When and exactly one of ThenProceed, ThenStop, or ThenGroup.
func NewRule[F, R any]() *Rule[F, R] {
	return &Rule[F, R]{}
}

// When sets the facts-condition the rule matches on.
func (r *Rule[F, R]) When(cond Condition[F]) *Rule[F, R] {
	if cond == nil {
		r.fail(ErrCodeNilCallable, "nil facts-condition")
		return r
	}
	r.when = cond
	return r
}

// WhenDescription sets the human-readable label traced for the
// facts-condition. Used only for tracing; an unset description traces as "".
func (r *Rule[F, R]) WhenDescription(desc string) *Rule[F, R] {
	r.whenDesc = desc
	return r
}

// AndWhenResult sets an optional second condition over the current result
// value. The rule matches only if both conditions hold; if the
// facts-condition is false the result-condition is never evaluated and never
// traced.
func (r *Rule[F, R]) AndWhenResult(cond ResultCondition[R]) *Rule[F, R] {
	if cond == nil {
		r.fail(ErrCodeNilCallable, "nil result-condition")
		return r
	}
	r.whenResult = cond
	return r
}

// AndWhenResultDescription sets the trace label for the result-condition.
func (r *Rule[F, R]) AndWhenResultDescription(desc string) *Rule[F, R] {
	r.whenResultDesc = desc
	return r
}

// ThenProceed sets an action that runs when the rule matches and lets
// evaluation continue with the next rule.
func (r *Rule[F, R]) ThenProceed(action Action[F, R]) *Rule[F, R] {
	return r.setAction(action, false)
}

// ThenStop sets an action that runs when the rule matches and then halts the
// whole evaluation, including any enclosing groups.
func (r *Rule[F, R]) ThenStop(action Action[F, R]) *Rule[F, R] {
	return r.setAction(action, true)
}

// ThenGroup delegates the rule's consequence to a nested rule group, gated
// by this rule's condition. fn receives a fresh empty RuleBook and is
// invoked immediately, so configuration errors inside the group are caught
// by the same pre-evaluation validation as top-level rules.
//
// ThenGroup and the action setters are mutually exclusive.
func (r *Rule[F, R]) ThenGroup(fn GroupFunc[F, R]) *Rule[F, R] {
	if fn == nil {
		r.fail(ErrCodeNilCallable, "nil group function")
		return r
	}
	if r.then != nil {
		r.fail(ErrCodeConflictingConsequence, "rule already has an action or group")
		return r
	}
	nested := New[F, R]()
	fn(nested)
	r.then = groupConsequence[F, R]{nested: nested}
	return r
}

// ThenDescription sets the trace label for the rule's action.
func (r *Rule[F, R]) ThenDescription(desc string) *Rule[F, R] {
	r.thenDesc = desc
	return r
}

func (r *Rule[F, R]) setAction(action Action[F, R], stop bool) *Rule[F, R] {
	if action == nil {
		r.fail(ErrCodeNilCallable, "nil action")
		return r
	}
	if r.then != nil {
		r.fail(ErrCodeConflictingConsequence, "rule already has an action or group")
		return r
	}
	r.then = actionConsequence[F, R]{run: action, stop: stop}
	return r
}

// fail records the first configuration error on the rule.
func (r *Rule[F, R]) fail(code ConfigErrorCode, msg string) {
	if r.err == nil {
		r.err = &ConfigError{Code: code, Message: msg, Rule: r.whenDesc}
	}
}

// validate reports the rule's configuration error, if any. Called by
// RuleBook validation before evaluation begins.
func (r *Rule[F, R]) validate() error {
	if r.err != nil {
		return r.err
	}
	if r.when == nil {
		return &ConfigError{Code: ErrCodeMissingCondition, Message: "rule has no facts-condition", Rule: r.whenDesc}
	}
	if r.then == nil {
		return &ConfigError{Code: ErrCodeMissingConsequence, Message: "rule has neither an action nor a group", Rule: r.whenDesc}
	}
	if g, ok := r.then.(groupConsequence[F, R]); ok {
		return g.nested.validate()
	}
	return nil
}
