// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"errors"
	"slices"
	"strings"
	"testing"
)

const testSchema = `
#Item: {
	name:  string & !=""
	count: int | *1
	tags?: {[string]: string}
}
`

type testItem struct {
	Name  string            `json:"name"`
	Count int               `json:"count"`
	Tags  map[string]string `json:"tags"`
}

func TestParseAndDecode(t *testing.T) {
	t.Parallel()

	t.Run("applies schema defaults", func(t *testing.T) {
		t.Parallel()

		res, err := ParseAndDecode[testItem]([]byte(testSchema), []byte(`name: "a"`), "#Item")
		if err != nil {
			t.Fatalf("ParseAndDecode() error = %v", err)
		}
		if res.Value.Name != "a" || res.Value.Count != 1 {
			t.Errorf("ParseAndDecode() = %+v, want name=a count=1", *res.Value)
		}
	})

	t.Run("reports filename and path", func(t *testing.T) {
		t.Parallel()

		_, err := ParseAndDecode[testItem]([]byte(testSchema), []byte(`name: "a", count: "x"`), "#Item", WithFilename("item.cue"))
		if err == nil {
			t.Fatal("expected error")
		}
		if !strings.Contains(err.Error(), "item.cue") || !strings.Contains(err.Error(), "count") {
			t.Errorf("error = %q, want filename and field path", err)
		}
	})

	t.Run("rejects oversized input", func(t *testing.T) {
		t.Parallel()

		_, err := ParseAndDecode[testItem]([]byte(testSchema), []byte(`name: "abcdef"`), "#Item", WithMaxFileSize(4))
		if err == nil || !strings.Contains(err.Error(), "exceeds maximum") {
			t.Errorf("error = %v, want size error", err)
		}
	})

	t.Run("missing definition is internal", func(t *testing.T) {
		t.Parallel()

		_, err := ParseAndDecode[testItem]([]byte(testSchema), []byte(`name: "a"`), "#Missing")
		if err == nil || !strings.Contains(err.Error(), "internal error") {
			t.Errorf("error = %v, want internal error", err)
		}
	})
}

func TestFieldNames(t *testing.T) {
	t.Parallel()

	res, err := ParseAndDecode[testItem]([]byte(testSchema), []byte(`name: "a", tags: {zeta: "1", alpha: "2", mid: "3"}`), "#Item")
	if err != nil {
		t.Fatalf("ParseAndDecode() error = %v", err)
	}

	got := slices.Collect(FieldNames(res.Unified, "tags"))
	want := []string{"zeta", "alpha", "mid"}
	if !slices.Equal(got, want) {
		t.Errorf("FieldNames() = %v, want %v", got, want)
	}

	if missing := slices.Collect(FieldNames(res.Unified, "nope")); len(missing) != 0 {
		t.Errorf("FieldNames(missing) = %v, want empty", missing)
	}
}

func TestFormatError(t *testing.T) {
	t.Parallel()

	if err := FormatError(nil, "x.cue"); err != nil {
		t.Errorf("FormatError(nil) = %v, want nil", err)
	}

	orig := errors.New("boom")
	err := FormatError(orig, "x.cue")
	if !errors.Is(err, orig) {
		t.Errorf("FormatError() should wrap non-CUE errors, got %v", err)
	}
}

func TestFormatPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		path []string
		want string
	}{
		{"empty", nil, ""},
		{"single", []string{"options"}, "options"},
		{"nested", []string{"options", "skip-client", "type"}, "options.skip-client.type"},
		{"index", []string{"arguments", "0", "name"}, "arguments[0].name"},
		{"leading digits", []string{"0", "name"}, "0.name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := formatPath(tt.path); got != tt.want {
				t.Errorf("formatPath(%v) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}
