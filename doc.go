// Package rulekit implements an ordered condition/action rule-evaluation
// engine.
//
// A RuleBook is an append-only, ordered sequence of Rules. Each Rule pairs a
// facts-condition (and optionally a second condition over the evolving
// result) with exactly one consequence: run an action and proceed, run an
// action and stop, or delegate to a nested group of rules gated by the same
// condition.
//
// Evaluation Model:
//
// Evaluate walks the rule sequence in strict insertion order, depth-first
// through nested groups. A single Outcome carries the caller's facts and
// result values by reference through every recursion level, so actions at any
// nesting depth observe the cumulative effect of all prior actions. A single
// shared stop flag is threaded through the same levels: once a matching
// Stop-rule fires, no later rule at any reachable level is evaluated or
// traced.
//
// Facts and results are opaque to the engine. Conditions and actions are
// plain Go callables supplied by the host program; there is no expression
// language, no persistence format, and no rule-conflict resolution beyond
// insertion order.
//
// Evaluation is fully synchronous and single-threaded. Each Evaluate call
// allocates its own Outcome and stop flag, so concurrent Evaluate calls
// against one fully-built RuleBook are safe as long as the host's callables
// are.
//
// Observability is a pair of per-call trace callbacks (one for conditions,
// one for actions) invoked synchronously in evaluation order. The engine
// itself never logs.
package rulekit
