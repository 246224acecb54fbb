// SPDX-License-Identifier: MPL-2.0

package locator

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jhipster/generator-jhipster-sub006/internal/blueprint"
	"github.com/jhipster/generator-jhipster-sub006/internal/namespace"
)

// writePackage creates a blueprint package with one generator per name.
func writePackage(t *testing.T, root string, generators ...string) string {
	t.Helper()

	for _, g := range generators {
		dir := filepath.Join(root, "generators", g)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(filepath.Join(dir, "command.cue"), []byte(`options: fromBlueprint: {type: "boolean"}`), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

type fakeInstaller struct {
	calls atomic.Int32
	delay time.Duration
	fail  error
	t     *testing.T
}

func (f *fakeInstaller) Install(ctx context.Context, bp blueprint.Descriptor, dir string) (string, error) {
	f.calls.Add(1)
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if f.fail != nil {
		return "", f.fail
	}
	return writePackage(f.t, filepath.Join(dir, bp.Name), "app"), nil
}

func TestLocator_LocateFromSearchPath(t *testing.T) {
	t.Parallel()

	search := t.TempDir()
	writePackage(t, filepath.Join(search, "generator-jhipster-cli"), "app", "shared")

	reg := namespace.NewRegistry()
	l := New(reg, WithSearchPaths(search))

	bp := blueprint.Descriptor{Name: "generator-jhipster-cli"}
	loc, err := l.Locate(context.Background(), bp)
	if err != nil {
		t.Fatalf("Locate() error = %v", err)
	}
	if loc != filepath.Join(search, "generator-jhipster-cli") {
		t.Errorf("Locate() = %q", loc)
	}

	got := reg.Namespaces()
	want := []namespace.Namespace{"jhipster-cli:app", "jhipster-cli:shared"}
	if !slices.Equal(got, want) {
		t.Errorf("registered namespaces = %v, want %v", got, want)
	}

	// Idempotent: a second call must not need the package on disk anymore.
	if err := os.RemoveAll(search); err != nil {
		t.Fatal(err)
	}
	again, err := l.Locate(context.Background(), bp)
	if err != nil || again != loc {
		t.Errorf("second Locate() = %q, %v; want cached %q", again, err, loc)
	}
}

func TestLocator_ScopedPackageName(t *testing.T) {
	t.Parallel()

	search := t.TempDir()
	writePackage(t, filepath.Join(search, "@acme", "generator-jhipster-x"), "app")

	reg := namespace.NewRegistry()
	if _, err := New(reg, WithSearchPaths(search)).Locate(context.Background(), blueprint.Descriptor{Name: "@acme/generator-jhipster-x"}); err != nil {
		t.Fatalf("Locate() error = %v", err)
	}
	if _, ok := reg.Lookup("@acme/jhipster-x:app"); !ok {
		t.Errorf("expected @acme/jhipster-x:app, got %v", reg.Namespaces())
	}
}

func TestLocator_ExplicitPackagePath(t *testing.T) {
	t.Parallel()

	dir := writePackage(t, t.TempDir(), "app")
	reg := namespace.NewRegistry()
	loc, err := New(reg).Locate(context.Background(), blueprint.Descriptor{Name: "cli", PackagePath: dir})
	if err != nil || loc != dir {
		t.Fatalf("Locate() = %q, %v", loc, err)
	}
	if _, ok := reg.Lookup("cli:app"); !ok {
		t.Error("cli:app not registered")
	}

	_, err = New(namespace.NewRegistry()).Locate(context.Background(), blueprint.Descriptor{Name: "cli", PackagePath: filepath.Join(dir, "missing")})
	if !errors.Is(err, ErrBlueprintUnresolvable) {
		t.Errorf("Locate() error = %v, want ErrBlueprintUnresolvable", err)
	}
}

func TestLocator_NotFoundWithoutInstaller(t *testing.T) {
	t.Parallel()

	_, err := New(namespace.NewRegistry(), WithSearchPaths(t.TempDir())).Locate(context.Background(), blueprint.Descriptor{Name: "generator-jhipster-nope"})

	var unresolvable *BlueprintUnresolvableError
	if !errors.As(err, &unresolvable) {
		t.Fatalf("Locate() error = %v, want *BlueprintUnresolvableError", err)
	}
	if unresolvable.Blueprint != "generator-jhipster-nope" {
		t.Errorf("Blueprint = %q", unresolvable.Blueprint)
	}
	if !errors.Is(err, ErrNotInstalled) {
		t.Errorf("error should wrap ErrNotInstalled, got %v", err)
	}
}

func TestLocator_InstallDeduplicated(t *testing.T) {
	t.Parallel()

	inst := &fakeInstaller{delay: 50 * time.Millisecond, t: t}
	reg := namespace.NewRegistry()
	l := New(reg, WithCacheDir(t.TempDir()), WithInstaller(inst))

	bp := blueprint.Descriptor{Name: "generator-jhipster-cli"}
	var wg sync.WaitGroup
	errs := make([]error, 8)
	for i := range errs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = l.Locate(context.Background(), bp)
		}()
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Errorf("Locate() #%d error = %v", i, err)
		}
	}
	if got := inst.calls.Load(); got != 1 {
		t.Errorf("installer calls = %d, want 1", got)
	}
}

func TestLocator_LocateAll(t *testing.T) {
	t.Parallel()

	inst := &fakeInstaller{t: t}
	reg := namespace.NewRegistry()
	cache := t.TempDir()
	l := New(reg, WithCacheDir(cache), WithInstaller(inst))

	bps := []blueprint.Descriptor{
		{Name: "generator-jhipster-b"},
		{Name: "generator-jhipster-a", Version: "1.0.0"},
	}
	got, err := l.LocateAll(context.Background(), bps)
	if err != nil {
		t.Fatalf("LocateAll() error = %v", err)
	}
	if len(got) != 2 || got[0].Name != "generator-jhipster-b" || got[1].Version != "1.0.0" {
		t.Errorf("LocateAll() = %+v, order or versions lost", got)
	}
	for _, d := range got {
		if d.PackagePath != filepath.Join(cache, d.Name) {
			t.Errorf("PackagePath of %s = %q", d.Name, d.PackagePath)
		}
	}
	if inst.calls.Load() != 2 {
		t.Errorf("installer calls = %d, want 2", inst.calls.Load())
	}
}

func TestLocator_InstallTimeout(t *testing.T) {
	t.Parallel()

	inst := &fakeInstaller{delay: time.Minute, t: t}
	l := New(namespace.NewRegistry(), WithCacheDir(t.TempDir()), WithInstaller(inst), WithInstallTimeout(20*time.Millisecond))

	start := time.Now()
	_, err := l.Locate(context.Background(), blueprint.Descriptor{Name: "generator-jhipster-slow"})
	if !errors.Is(err, ErrBlueprintUnresolvable) {
		t.Fatalf("Locate() error = %v, want ErrBlueprintUnresolvable", err)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Locate() error = %v, want deadline exceeded in chain", err)
	}
	if time.Since(start) > 10*time.Second {
		t.Error("Locate() did not honor the install timeout")
	}
}

func TestLocator_InstallFailure(t *testing.T) {
	t.Parallel()

	boom := errors.New("registry unreachable")
	inst := &fakeInstaller{fail: boom, t: t}
	_, err := New(namespace.NewRegistry(), WithCacheDir(t.TempDir()), WithInstaller(inst)).
		LocateAll(context.Background(), []blueprint.Descriptor{{Name: "generator-jhipster-x"}})
	if !errors.Is(err, boom) || !errors.Is(err, ErrBlueprintUnresolvable) {
		t.Errorf("LocateAll() error = %v", err)
	}
}
