package rulekit

import (
	"errors"
	"fmt"
)

// ConfigError represents a rule misconfiguration detected before evaluation.
//
// Configuration errors are fail-fast: Evaluate validates the whole rule
// sequence, including nested groups, and returns the first ConfigError it
// finds before any condition or action runs.
type ConfigError struct {
	// Code identifies the error category.
	Code ConfigErrorCode

	// Message is a human-readable description.
	Message string

	// Rule identifies the offending rule by its facts-condition description,
	// when one was set.
	Rule string
}

// ConfigErrorCode categorizes configuration errors.
type ConfigErrorCode string

const (
	// ErrCodeConflictingConsequence indicates a second consequence (action or
	// group) was set on a rule that already had one.
	ErrCodeConflictingConsequence ConfigErrorCode = "CONFLICTING_CONSEQUENCE"

	// ErrCodeMissingConsequence indicates a rule with neither an action nor a
	// group.
	ErrCodeMissingConsequence ConfigErrorCode = "MISSING_CONSEQUENCE"

	// ErrCodeMissingCondition indicates a rule with no facts-condition.
	ErrCodeMissingCondition ConfigErrorCode = "MISSING_CONDITION"

	// ErrCodeNilCallable indicates a nil action, condition, or group builder
	// was passed to a rule setter.
	ErrCodeNilCallable ConfigErrorCode = "NIL_CALLABLE"
)

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Rule != "" {
		return fmt.Sprintf("%s: %s (rule=%q)", e.Code, e.Message, e.Rule)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsConfigError returns true if the error is a rule configuration error.
// Uses errors.As to handle wrapped errors.
func IsConfigError(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}
