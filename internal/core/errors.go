package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrorKind classifies errors for handling decisions.
type ErrorKind string

const (
	KindOracleUnavailable   ErrorKind = "oracle_unavailable"   // recovered via template plan
	KindBudgetInfeasible    ErrorKind = "budget_infeasible"    // best-effort plan warning
	KindTimeInfeasible      ErrorKind = "time_infeasible"      // best-effort plan warning
	KindToolUnavailable     ErrorKind = "tool_unavailable"     // missing runtime credential
	KindInsufficientCredits ErrorKind = "insufficient_credits" // per-attempt, advances chain
	KindContentPolicy       ErrorKind = "content_policy"       // per-attempt, advances chain
	KindTransient           ErrorKind = "transient_error"      // per-attempt, advances chain
	KindAllToolsFailed      ErrorKind = "all_tools_failed"     // fatal for the scene
	KindValidation          ErrorKind = "validation"           // invalid input
	KindNotFound            ErrorKind = "not_found"            // unknown resource
)

// DomainError is a structured error from the planning/execution core.
type DomainError struct {
	Kind      ErrorKind
	Code      string
	Message   string
	Retryable bool
	Cause     error
	Details   map[string]any
}

func (e *DomainError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %s (%v)", e.Kind, e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Kind, e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *DomainError) Unwrap() error {
	return e.Cause
}

// Is matches on kind and code.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Kind == t.Kind && (t.Code == "" || e.Code == t.Code)
}

// WithCause wraps an underlying error.
func (e *DomainError) WithCause(cause error) *DomainError {
	e.Cause = cause
	return e
}

// WithDetail adds contextual information.
func (e *DomainError) WithDetail(key string, value any) *DomainError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// ErrOracleUnavailable creates an oracle failure error. Always recovered
// locally via the template plan; never surfaced to callers.
func ErrOracleUnavailable(cause error) *DomainError {
	return &DomainError{
		Kind:      KindOracleUnavailable,
		Code:      "ORACLE_UNAVAILABLE",
		Message:   "advisory oracle call failed",
		Retryable: false,
		Cause:     cause,
	}
}

// ErrToolUnavailable creates an error for a tool lacking its runtime
// prerequisite.
func ErrToolUnavailable(name string) *DomainError {
	return &DomainError{
		Kind:    KindToolUnavailable,
		Code:    "TOOL_UNAVAILABLE",
		Message: fmt.Sprintf("tool %s is not available in this environment", name),
	}
}

// ErrToolNotFound creates an error for an unknown tool name.
func ErrToolNotFound(name string) *DomainError {
	return &DomainError{
		Kind:    KindNotFound,
		Code:    "TOOL_NOT_FOUND",
		Message: fmt.Sprintf("tool not found: %s", name),
	}
}

// ErrNotFound creates an error for an unknown resource of any kind.
func ErrNotFound(resource, id string) *DomainError {
	return &DomainError{
		Kind:    KindNotFound,
		Code:    "NOT_FOUND",
		Message: fmt.Sprintf("%s not found: %s", resource, id),
	}
}

// ErrInsufficientCredits creates a per-attempt credit failure.
func ErrInsufficientCredits(tool string) *DomainError {
	return &DomainError{
		Kind:    KindInsufficientCredits,
		Code:    "INSUFFICIENT_CREDITS",
		Message: fmt.Sprintf("tool %s rejected the call: insufficient credits", tool),
	}
}

// ErrContentPolicy creates a per-attempt content policy rejection.
func ErrContentPolicy(tool string) *DomainError {
	return &DomainError{
		Kind:    KindContentPolicy,
		Code:    "CONTENT_POLICY",
		Message: fmt.Sprintf("tool %s rejected the call: content policy violation", tool),
	}
}

// ErrTransient creates a per-attempt transient failure.
func ErrTransient(tool string, cause error) *DomainError {
	return &DomainError{
		Kind:      KindTransient,
		Code:      "TRANSIENT",
		Message:   fmt.Sprintf("tool %s failed transiently", tool),
		Retryable: true,
		Cause:     cause,
	}
}

// ErrValidation creates a validation error.
func ErrValidation(code, message string) *DomainError {
	return &DomainError{
		Kind:    KindValidation,
		Code:    code,
		Message: message,
	}
}

// AllToolsFailedError is raised when every tool in a fallback chain failed.
// It is fatal for the scene; the full attempt history travels with it so the
// caller can decide between skipping the scene and aborting the run.
type AllToolsFailedError struct {
	SceneNumber int
	Chain       []string
	Attempts    []ExecutionAttempt
}

func (e *AllToolsFailedError) Error() string {
	return fmt.Sprintf("all tools failed in fallback chain [%s] after %d attempts",
		strings.Join(e.Chain, " -> "), len(e.Attempts))
}

// KindOf extracts the error kind, defaulting to transient for plain errors.
func KindOf(err error) ErrorKind {
	var domErr *DomainError
	if errors.As(err, &domErr) {
		return domErr.Kind
	}
	var atf *AllToolsFailedError
	if errors.As(err, &atf) {
		return KindAllToolsFailed
	}
	return KindTransient
}

// IsKind checks if an error belongs to a kind.
func IsKind(err error, kind ErrorKind) bool {
	return KindOf(err) == kind
}

// IsRetryable checks if an error is retryable.
func IsRetryable(err error) bool {
	var domErr *DomainError
	if errors.As(err, &domErr) {
		return domErr.Retryable
	}
	return false
}

// ClassifyFailure maps an attempt error onto the three failure kinds the
// fallback engine distinguishes. Structured errors win; otherwise the message
// is probed for vendor phrasing, and anything left is transient.
func ClassifyFailure(err error) FailureKind {
	if err == nil {
		return ""
	}

	var domErr *DomainError
	if errors.As(err, &domErr) {
		switch domErr.Kind {
		case KindInsufficientCredits:
			return FailureInsufficientCredits
		case KindContentPolicy:
			return FailureContentPolicy
		}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return FailureTransient
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "insufficient credit"),
		strings.Contains(msg, "quota exceeded"),
		strings.Contains(msg, "payment required"),
		strings.Contains(msg, "402"):
		return FailureInsufficientCredits
	case strings.Contains(msg, "content policy"),
		strings.Contains(msg, "safety"),
		strings.Contains(msg, "moderation"),
		strings.Contains(msg, "flagged"):
		return FailureContentPolicy
	}
	return FailureTransient
}
