// SPDX-License-Identifier: MPL-2.0

package namespace

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// DefaultScope is the scope of the base generators. Namespaces in this
	// scope are written bare: "app" rather than "jhipster:app".
	DefaultScope = "jhipster"

	// Separator joins scope and name segments.
	Separator = ":"
)

// ErrInvalidNamespace is the sentinel wrapped by InvalidNamespaceError.
var ErrInvalidNamespace = errors.New("invalid namespace")

type (
	// Namespace identifies a generator. It is either a bare name in the
	// default scope ("app", "entity:relationships" for nested generators
	// reached from a scoped lookup) or "scope:name" for blueprint generators.
	Namespace string

	// InvalidNamespaceError is returned by Parse for malformed input.
	InvalidNamespaceError struct {
		Value string
	}
)

// Error implements the error interface.
func (e *InvalidNamespaceError) Error() string {
	return fmt.Sprintf("invalid namespace %q: segments must be non-empty", e.Value)
}

// Unwrap returns ErrInvalidNamespace for errors.Is() compatibility.
func (e *InvalidNamespaceError) Unwrap() error {
	return ErrInvalidNamespace
}

// Parse normalizes s into a Namespace. An explicit default scope prefix is
// dropped so "jhipster:app" and "app" compare equal.
func Parse(s string) (Namespace, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", &InvalidNamespaceError{Value: s}
	}
	for seg := range strings.SplitSeq(s, Separator) {
		if seg == "" {
			return "", &InvalidNamespaceError{Value: s}
		}
	}
	return Namespace(strings.TrimPrefix(s, DefaultScope+Separator)), nil
}

// MustParse is Parse for trusted literals. It panics on invalid input.
func MustParse(s string) Namespace {
	ns, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return ns
}

// Scoped builds the namespace of name inside scope.
func Scoped(scope, name string) Namespace {
	if scope == "" || scope == DefaultScope {
		return Namespace(name)
	}
	return Namespace(scope + Separator + name)
}

// HasScope reports whether the namespace carries an explicit scope separator.
func (n Namespace) HasScope() bool {
	return strings.Contains(string(n), Separator)
}

// Qualified returns the fully scoped form, adding the default scope to bare names.
func (n Namespace) Qualified() string {
	if n.HasScope() {
		return string(n)
	}
	return DefaultScope + Separator + string(n)
}

// String implements fmt.Stringer.
func (n Namespace) String() string {
	return string(n)
}
