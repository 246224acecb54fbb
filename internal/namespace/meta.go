// SPDX-License-Identifier: MPL-2.0

package namespace

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sync"

	"github.com/jhipster/generator-jhipster-sub006/pkg/command"
)

// InstantiateFileName is the optional script a generator ships when its
// command module sets requires_instantiation. Its stdout is a command.cue document.
const InstantiateFileName = "instantiate.sh"

type (
	// Instantiator runs a generator's instantiation script and returns the
	// CUE document it prints.
	Instantiator interface {
		Instantiate(ctx context.Context, meta *GeneratorMeta, script []byte) ([]byte, error)
	}

	// GeneratorMeta describes one registered generator. It is immutable after
	// registration; the command module is loaded once and cached.
	GeneratorMeta struct {
		Namespace Namespace
		// Scope is the package scope the generator was registered from.
		Scope string
		// Location is the generator directory on disk, or inside the embedded base set.
		Location string

		fsys         fs.FS
		dir          string
		instantiator Instantiator

		once   sync.Once
		module *command.Module
		err    error
	}
)

// NewGeneratorMeta describes the generator stored in dir of fsys.
func NewGeneratorMeta(ns Namespace, scope, location string, fsys fs.FS, dir string) *GeneratorMeta {
	return &GeneratorMeta{
		Namespace: ns,
		Scope:     scope,
		Location:  location,
		fsys:      fsys,
		dir:       dir,
	}
}

// NewStaticMeta describes a generator whose module is known up front.
func NewStaticMeta(ns Namespace, scope string, mod *command.Module) *GeneratorMeta {
	m := &GeneratorMeta{Namespace: ns, Scope: scope}
	m.once.Do(func() {
		if mod == nil {
			mod = &command.Module{}
		}
		m.module = mod
	})
	return m
}

// IsBase reports whether the generator belongs to the default scope.
func (m *GeneratorMeta) IsBase() bool {
	return m.Scope == "" || m.Scope == DefaultScope
}

// LoadModule reads and caches the generator's command module. A generator
// without a command.cue declares nothing and yields an empty module.
func (m *GeneratorMeta) LoadModule(ctx context.Context) (*command.Module, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.once.Do(func() {
		m.module, m.err = m.readModule()
	})
	return m.module, m.err
}

func (m *GeneratorMeta) readModule() (*command.Module, error) {
	data, err := fs.ReadFile(m.fsys, path.Join(m.dir, command.FileName))
	if errors.Is(err, fs.ErrNotExist) {
		return &command.Module{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read command module of %s: %w", m.Namespace, err)
	}
	return command.Parse(data, path.Join(m.Location, command.FileName))
}

// Instantiate returns the extra declarations produced by the generator's
// instantiation script. It returns nil without error when the module does
// not require instantiation or no script or instantiator is available.
func (m *GeneratorMeta) Instantiate(ctx context.Context) (*command.Module, error) {
	mod, err := m.LoadModule(ctx)
	if err != nil || !mod.RequiresInstantiation || m.instantiator == nil || m.fsys == nil {
		return nil, err
	}

	script, err := fs.ReadFile(m.fsys, path.Join(m.dir, InstantiateFileName))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read instantiation script of %s: %w", m.Namespace, err)
	}

	out, err := m.instantiator.Instantiate(ctx, m, script)
	if err != nil {
		return nil, fmt.Errorf("failed to instantiate %s: %w", m.Namespace, err)
	}
	if len(bytes.TrimSpace(out)) == 0 {
		return &command.Module{}, nil
	}
	return command.Parse(out, path.Join(m.Location, InstantiateFileName))
}
