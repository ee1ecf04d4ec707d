package core

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestClassifyFailure_StructuredErrors(t *testing.T) {
	if got := ClassifyFailure(ErrInsufficientCredits("luma_ray")); got != FailureInsufficientCredits {
		t.Fatalf("expected insufficient_credits, got %s", got)
	}
	if got := ClassifyFailure(ErrContentPolicy("pika_v2")); got != FailureContentPolicy {
		t.Fatalf("expected content_policy, got %s", got)
	}
	if got := ClassifyFailure(ErrTransient("wan_i2v", errors.New("boom"))); got != FailureTransient {
		t.Fatalf("expected transient_error, got %s", got)
	}
}

func TestClassifyFailure_MessageHeuristics(t *testing.T) {
	cases := map[string]FailureKind{
		"HTTP 402 payment required":        FailureInsufficientCredits,
		"quota exceeded for this API key":  FailureInsufficientCredits,
		"prompt flagged by moderation":     FailureContentPolicy,
		"request violates content policy":  FailureContentPolicy,
		"connection reset by peer":         FailureTransient,
		"upstream returned 503, try again": FailureTransient,
	}
	for msg, want := range cases {
		if got := ClassifyFailure(errors.New(msg)); got != want {
			t.Errorf("%q: expected %s, got %s", msg, want, got)
		}
	}
}

func TestClassifyFailure_DeadlineIsTransient(t *testing.T) {
	err := fmt.Errorf("calling tool: %w", context.DeadlineExceeded)
	if got := ClassifyFailure(err); got != FailureTransient {
		t.Fatalf("expected transient_error for deadline, got %s", got)
	}
}

func TestClassifyFailure_NilError(t *testing.T) {
	if got := ClassifyFailure(nil); got != "" {
		t.Fatalf("expected empty kind for nil error, got %s", got)
	}
}

func TestDomainError_IsAndUnwrap(t *testing.T) {
	cause := errors.New("socket closed")
	err := ErrTransient("luma_ray", cause)

	if !errors.Is(err, &DomainError{Kind: KindTransient, Code: "TRANSIENT"}) {
		t.Fatal("expected Is to match kind and code")
	}
	if !errors.Is(err, cause) {
		t.Fatal("expected Unwrap to reach the cause")
	}
	if errors.Is(err, &DomainError{Kind: KindContentPolicy}) {
		t.Fatal("expected Is to reject a different kind")
	}
}

func TestKindOf(t *testing.T) {
	if got := KindOf(ErrToolUnavailable("runway_gen4_turbo")); got != KindToolUnavailable {
		t.Fatalf("expected tool_unavailable, got %s", got)
	}
	atf := &AllToolsFailedError{Chain: []string{"a", "b"}}
	if got := KindOf(fmt.Errorf("scene 3: %w", atf)); got != KindAllToolsFailed {
		t.Fatalf("expected all_tools_failed, got %s", got)
	}
	if got := KindOf(errors.New("plain")); got != KindTransient {
		t.Fatalf("expected transient for plain error, got %s", got)
	}
}

func TestAllToolsFailedError_Message(t *testing.T) {
	err := &AllToolsFailedError{
		Chain: []string{"luma_ray", "pika_v2"},
		Attempts: []ExecutionAttempt{
			{Tool: "luma_ray", Status: AttemptFailed},
			{Tool: "pika_v2", Status: AttemptFailed},
		},
	}
	want := "all tools failed in fallback chain [luma_ray -> pika_v2] after 2 attempts"
	if err.Error() != want {
		t.Fatalf("unexpected message: %s", err.Error())
	}
}
