// SPDX-License-Identifier: MPL-2.0

package sharedconfig

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestJoin(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		existing any
		incoming any
		present  bool
		want     any
	}{
		{"undefined takes incoming", nil, []any{"a"}, false, []any{"a"}},
		{"defined nil pairs", nil, 1, true, []any{nil, 1}},
		{"both sequences concat", []any{"a"}, []any{"b", "c"}, true, []any{"a", "b", "c"}},
		{"existing sequence appends", []any{"a"}, "b", true, []any{"a", "b"}},
		{"incoming sequence prepends", "a", []any{"b"}, true, []any{"a", "b"}},
		{"scalars pair", 1, 2, true, []any{1, 2}},
		{"typed slices", []string{"a"}, []int{1}, true, []any{"a", 1}},
		{"maps are scalars", map[string]any{"k": 1}, map[string]any{"k": 2}, true, []any{map[string]any{"k": 1}, map[string]any{"k": 2}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := Join(tt.existing, tt.incoming, tt.present)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Join() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestJoin_DoesNotAliasExisting(t *testing.T) {
	t.Parallel()

	base := make([]any, 1, 4)
	base[0] = "a"
	first := Join(base, "b", true).([]any)
	second := Join(base, "c", true).([]any)
	if first[1] != "b" || second[1] != "c" {
		t.Errorf("Join() shares backing arrays: %v %v", first, second)
	}
}

func TestMerge_Laws(t *testing.T) {
	t.Parallel()

	t.Run("sequences accumulate", func(t *testing.T) {
		t.Parallel()

		var acc Config
		acc = Merge(acc, Config{"langs": []any{"a"}})
		acc = Merge(acc, Config{"langs": []any{"b"}})
		acc = Merge(acc, Config{"single": true})

		want := Config{"langs": []any{"a", "b"}, "single": true}
		if diff := cmp.Diff(want, acc); diff != "" {
			t.Errorf("Merge() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("scalar collision", func(t *testing.T) {
		t.Parallel()

		acc := Merge(Merge(nil, Config{"x": 1}), Config{"x": 2})
		if diff := cmp.Diff(Config{"x": []any{1, 2}}, acc); diff != "" {
			t.Errorf("Merge() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("not commutative", func(t *testing.T) {
		t.Parallel()

		ab := Merge(Merge(nil, Config{"x": "a"}), Config{"x": "b"})
		ba := Merge(Merge(nil, Config{"x": "b"}), Config{"x": "a"})
		if cmp.Equal(ab, ba) {
			t.Error("Merge() should depend on application order")
		}
	})
}

func write(t *testing.T, path, content string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoad_Formats(t *testing.T) {
	t.Parallel()

	tests := []struct {
		ext     string
		content string
	}{
		{".json", `{"langs": ["en", "fr"], "port": 8080}`},
		{".yaml", "langs:\n  - en\n  - fr\nport: 8080\n"},
		{".yml", "langs: [en, fr]\nport: 8080\n"},
		{".toml", "langs = [\"en\", \"fr\"]\nport = 8080\n"},
	}

	for _, tt := range tests {
		t.Run(tt.ext, func(t *testing.T) {
			t.Parallel()

			base := filepath.Join(t.TempDir(), FileBaseName)
			write(t, base+tt.ext, tt.content)

			cfg, path, err := Load(base)
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if path != base+tt.ext {
				t.Errorf("Load() path = %q", path)
			}
			langs, ok := asSequence(cfg["langs"])
			if !ok || len(langs) != 2 || langs[0] != "en" {
				t.Errorf("langs = %#v", cfg["langs"])
			}
			if cfg["port"] == nil {
				t.Errorf("port missing: %#v", cfg)
			}
		})
	}
}

func TestLoad_Errors(t *testing.T) {
	t.Parallel()

	base := filepath.Join(t.TempDir(), FileBaseName)
	if _, _, err := Load(base); !errors.Is(err, ErrNotFound) {
		t.Errorf("Load() error = %v, want ErrNotFound", err)
	}

	write(t, base+".json", `{broken`)
	_, path, err := Load(base)
	var loadErr *LoadError
	if !errors.As(err, &loadErr) || !errors.Is(err, ErrLoadFailed) || path != base+".json" {
		t.Errorf("Load() = %q, %v; want *LoadError", path, err)
	}
}

func TestAssemble(t *testing.T) {
	t.Parallel()

	project := t.TempDir()
	write(t, LocalPath(project)+".json", `{"languages": ["en"], "theme": "dark"}`)

	vue := t.TempDir()
	write(t, BlueprintPath(vue)+".yaml", "languages:\n  - fr\nclientFrameworks: vue\n")

	broken := t.TempDir()
	write(t, BlueprintPath(broken)+".toml", "= nope")

	react := t.TempDir()
	write(t, BlueprintPath(react)+".json", `{"clientFrameworks": ["react"], "theme": "light"}`)

	got := Assemble(LocalPath(project), []Source{
		{Name: "vue", Location: vue},
		{Name: "empty", Location: t.TempDir()},
		{Name: "broken", Location: broken},
		{Name: "react", Location: react},
	})

	want := Config{
		"languages":        []any{"en", "fr"},
		"theme":            []any{"dark", "light"},
		"clientFrameworks": []any{"vue", "react"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Assemble() mismatch (-want +got):\n%s", diff)
	}
}

func TestAssemble_NoFiles(t *testing.T) {
	t.Parallel()

	got := Assemble(LocalPath(t.TempDir()), []Source{{Name: "x", Location: t.TempDir()}})
	if len(got) != 0 {
		t.Errorf("Assemble() = %v, want empty", got)
	}
	if got == nil {
		t.Error("Assemble() should return an empty, non-nil config")
	}
}
