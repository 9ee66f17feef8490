package rulekit

// Outcome is the tuple of input facts and the result being built.
//
// One Outcome is created per top-level Evaluate call and shared by pointer
// into every nested group frame, so an action at any nesting depth mutates
// the same result value every later rule observes. Both fields are fixed for
// the lifetime of the Outcome; for the result to be mutable through actions,
// instantiate R as a pointer type.
type Outcome[F, R any] struct {
	Facts  F
	Result R
}
