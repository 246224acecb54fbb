// SPDX-License-Identifier: MPL-2.0

package namespace

import (
	"errors"
	"testing"
)

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    Namespace
		wantErr bool
	}{
		{in: "app", want: "app"},
		{in: "jhipster:app", want: "app"},
		{in: " jhipster:entity:relationships ", want: "entity:relationships"},
		{in: "jhipster-vue:client", want: "jhipster-vue:client"},
		{in: "", wantErr: true},
		{in: ":app", wantErr: true},
		{in: "cli:", wantErr: true},
		{in: "a::b", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()

			got, err := Parse(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidNamespace) {
					t.Errorf("Parse(%q) error = %v, want ErrInvalidNamespace", tt.in, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse(%q) error = %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("Parse(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestScoped(t *testing.T) {
	t.Parallel()

	if got := Scoped(DefaultScope, "app"); got != "app" {
		t.Errorf("Scoped(default, app) = %q, want app", got)
	}
	if got := Scoped("", "app"); got != "app" {
		t.Errorf("Scoped(\"\", app) = %q, want app", got)
	}
	got := Scoped("cli", "app")
	if got != "cli:app" || !got.HasScope() {
		t.Errorf("Scoped(cli, app) = %q, want scoped cli:app", got)
	}
	if q := Namespace("app").Qualified(); q != "jhipster:app" {
		t.Errorf("Qualified() = %q, want jhipster:app", q)
	}
	if q := got.Qualified(); q != "cli:app" {
		t.Errorf("Qualified() = %q, want cli:app", q)
	}
}
