// SPDX-License-Identifier: MPL-2.0

package engine

import (
	"bytes"
	"context"
	"os"
	"time"

	"github.com/jhipster/generator-jhipster-sub006/internal/namespace"
	"github.com/jhipster/generator-jhipster-sub006/internal/shell"
)

// scriptInstantiator runs instantiate.sh hooks in the embedded shell. The
// script prints additional command.cue declarations on stdout.
type scriptInstantiator struct {
	runner  shell.Runner
	timeout time.Duration
}

// Instantiate implements namespace.Instantiator.
func (s *scriptInstantiator) Instantiate(ctx context.Context, meta *namespace.GeneratorMeta, script []byte) ([]byte, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	dir := ""
	if info, err := os.Stat(meta.Location); err == nil && info.IsDir() {
		dir = meta.Location
	}

	var stdout bytes.Buffer
	err := s.runner.Run(ctx, string(script), shell.Options{
		Name:       meta.Namespace.String() + "/" + namespace.InstantiateFileName,
		Dir:        dir,
		InheritEnv: true,
		Env: []string{
			"GENERATOR_NAMESPACE=" + meta.Namespace.String(),
			"GENERATOR_SCOPE=" + meta.Scope,
			"GENERATOR_DIR=" + dir,
		},
		Stdout: &stdout,
	})
	if err != nil {
		return nil, err
	}
	return stdout.Bytes(), nil
}
