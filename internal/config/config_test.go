// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/jhipster/generator-jhipster-sub006/internal/issue"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()

	path := filepath.Join(dir, ConfigFileName+"."+ConfigFileExt)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	t.Parallel()

	cfg, path, err := loadWithOptions(context.Background(), LoadOptions{ConfigDirPath: t.TempDir()})
	if err != nil {
		t.Fatalf("load error = %v", err)
	}
	if path != "" {
		t.Errorf("path = %q, want empty", path)
	}
	if diff := cmp.Diff(DefaultConfig(), cfg, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_FromConfigDir(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	want := writeConfig(t, dir, `
package_paths: ["/opt/blueprints", "/srv/blueprints"]
lookup_patterns: ["generators/*/command.cue"]
install: {
	timeout: "30s"
	git_url_template: "https://github.com/acme/{name}.git"
	enabled: false
}
ui: verbose: true
`)

	cfg, path, err := loadWithOptions(context.Background(), LoadOptions{ConfigDirPath: dir})
	if err != nil {
		t.Fatalf("load error = %v", err)
	}
	if path != want {
		t.Errorf("path = %q, want %q", path, want)
	}

	if diff := cmp.Diff([]string{"/opt/blueprints", "/srv/blueprints"}, cfg.PackagePaths); diff != "" {
		t.Errorf("PackagePaths mismatch (-want +got):\n%s", diff)
	}
	if cfg.Install.Timeout != 30*time.Second {
		t.Errorf("Install.Timeout = %v", cfg.Install.Timeout)
	}
	if cfg.Install.Enabled || !cfg.UI.Verbose {
		t.Errorf("Install.Enabled = %v, UI.Verbose = %v", cfg.Install.Enabled, cfg.UI.Verbose)
	}
	if cfg.Install.Command != DefaultConfig().Install.Command {
		t.Errorf("unset fields should keep defaults, got %q", cfg.Install.Command)
	}
}

func TestLoad_ExplicitFileMissing(t *testing.T) {
	t.Parallel()

	_, _, err := loadWithOptions(context.Background(), LoadOptions{
		ConfigFilePath: filepath.Join(t.TempDir(), "nope.cue"),
	})
	var ae *issue.ActionableError
	if !errors.As(err, &ae) {
		t.Fatalf("error = %T %v, want *issue.ActionableError", err, err)
	}
	if ae.Issue != issue.ConfigLoadFailedId {
		t.Errorf("Issue = %d", ae.Issue)
	}
}

func TestLoad_SchemaViolations(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
	}{
		{"unknown field", `colour: "red"`},
		{"bad duration", `install: timeout: "soon"`},
		{"wrong type", `ui: verbose: "yes"`},
		{"syntax", `package_paths: [`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			path := writeConfig(t, t.TempDir(), tt.content)
			if _, _, err := loadWithOptions(context.Background(), LoadOptions{ConfigFilePath: path}); err == nil {
				t.Error("expected a validation error")
			}
		})
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("JHIPSTER_CACHE_DIR", "/tmp/jhi-cache")
	t.Setenv("JHIPSTER_INSTALL_TIMEOUT", "2m")
	t.Setenv("JHIPSTER_UI_VERBOSE", "true")

	dir := t.TempDir()
	writeConfig(t, dir, `cache_dir: "/from/file"`)

	cfg, _, err := loadWithOptions(context.Background(), LoadOptions{ConfigDirPath: dir})
	if err != nil {
		t.Fatalf("load error = %v", err)
	}
	if cfg.CacheDir != "/tmp/jhi-cache" {
		t.Errorf("CacheDir = %q, env should win over file", cfg.CacheDir)
	}
	if cfg.Install.Timeout != 2*time.Minute || !cfg.UI.Verbose {
		t.Errorf("Install.Timeout = %v, UI.Verbose = %v", cfg.Install.Timeout, cfg.UI.Verbose)
	}
}

func TestLoad_Canceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, _, err := loadWithOptions(ctx, LoadOptions{}); !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}

func TestGenerateCUE_RoundTrip(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.GeneratorsDir = "/opt/generators"
	cfg.PackagePaths = []string{"/a", "/b"}
	cfg.Install.GitURLTemplate = "https://example.com/{name}.git"
	cfg.Install.Timeout = 90 * time.Second

	text := GenerateCUE(cfg)
	if !strings.Contains(text, `timeout: "1m30s"`) {
		t.Errorf("GenerateCUE() output:\n%s", text)
	}

	path := writeConfig(t, t.TempDir(), text)
	got, err := NewProvider().Load(context.Background(), LoadOptions{ConfigFilePath: path})
	if err != nil {
		t.Fatalf("Load() error = %v\n%s", err, text)
	}
	if diff := cmp.Diff(cfg, got, cmpopts.EquateEmpty(), cmpopts.IgnoreFields(Config{}, "Source")); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
	if got.Source != path {
		t.Errorf("Source = %q, want %q", got.Source, path)
	}
}
