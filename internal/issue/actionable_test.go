// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"strings"
	"testing"
)

func TestActionableError_Error(t *testing.T) {
	t.Parallel()

	cause := errors.New("not on disk")
	tests := []struct {
		name string
		err  *ActionableError
		want string
	}{
		{"operation only", &ActionableError{Operation: "resolve namespace"}, "failed to resolve namespace"},
		{"with resource", &ActionableError{Operation: "resolve namespace", Resource: "jhipster:app"}, "failed to resolve namespace: jhipster:app"},
		{"with cause", &ActionableError{Operation: "locate blueprint", Resource: "vue", Cause: cause}, "failed to locate blueprint: vue: not on disk"},
		{"cause without resource", &ActionableError{Operation: "load config", Cause: cause}, "failed to load config: not on disk"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestActionableError_Unwrap(t *testing.T) {
	t.Parallel()

	sentinel := errors.New("sentinel")
	err := NewErrorContext().WithOperation("op").Wrap(sentinel).BuildError()
	if !errors.Is(err, sentinel) {
		t.Error("errors.Is() should find the cause")
	}

	var ae *ActionableError
	if !errors.As(err, &ae) || ae.Operation != "op" {
		t.Errorf("errors.As() = %v", ae)
	}
}

func TestActionableError_Format(t *testing.T) {
	t.Parallel()

	inner := errors.New("inner")
	err := NewErrorContext().
		WithOperation("locate blueprint").
		WithResource("generator-jhipster-vue").
		WithSuggestion("Install it").
		WithSuggestion("Check the name").
		Wrap(errors.Join(inner)).
		Build()

	short := err.Format(false)
	if !strings.Contains(short, "  • Install it") || !strings.Contains(short, "  • Check the name") {
		t.Errorf("Format(false) missing suggestions:\n%s", short)
	}
	if strings.Contains(short, "Error chain") {
		t.Errorf("Format(false) should not include the chain:\n%s", short)
	}

	verbose := err.Format(true)
	if !strings.Contains(verbose, "Error chain:") || !strings.Contains(verbose, "1. inner") {
		t.Errorf("Format(true) missing chain:\n%s", verbose)
	}
}

func TestErrorContext_Build(t *testing.T) {
	t.Parallel()

	if NewErrorContext().WithResource("x").Build() != nil {
		t.Error("Build() without operation should be nil")
	}
	if err := NewErrorContext().BuildError(); err != nil {
		t.Errorf("BuildError() = %v, want nil", err)
	}

	ctx := NewErrorContext().WithOperation("op").WithSuggestion("a").WithIssue(ConfigLoadFailedId)
	first := ctx.Build()
	ctx.WithSuggestion("b")
	second := ctx.Build()

	if len(first.Suggestions) != 1 || len(second.Suggestions) != 2 {
		t.Errorf("Build() snapshots share suggestions: %v %v", first.Suggestions, second.Suggestions)
	}
	if first.Issue != ConfigLoadFailedId {
		t.Errorf("Issue = %d", first.Issue)
	}
}

func TestWrapWithContext(t *testing.T) {
	t.Parallel()

	if WrapWithContext(nil, "op", "res") != nil {
		t.Error("WrapWithContext(nil) should be nil")
	}
	err := WrapWithContext(errors.New("boom"), "op", "res")
	if err.Error() != "failed to op: res: boom" {
		t.Errorf("Error() = %q", err.Error())
	}
}
