// SPDX-License-Identifier: MPL-2.0

// Package shell runs POSIX shell scripts in the embedded mvdan/sh interpreter.
//
// Blueprint install steps and generator instantiation hooks run through this
// package so they behave the same on every platform, including hosts without
// a system shell.
package shell

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"
)

// ErrScriptFailed is the sentinel wrapped by ExitError.
var ErrScriptFailed = errors.New("script failed")

type (
	// Runner executes shell scripts.
	Runner interface {
		Run(ctx context.Context, script string, opts Options) error
	}

	// Options controls a single script execution.
	Options struct {
		// Name identifies the script in parse errors.
		Name string
		// Dir is the working directory. Empty means the process working directory.
		Dir string
		// Env is appended to the inherited process environment as KEY=VALUE pairs.
		Env []string
		// InheritEnv copies the process environment before Env is applied.
		InheritEnv bool
		Stdin      io.Reader
		Stdout     io.Writer
		Stderr     io.Writer
	}

	// ExitError reports a script that finished with a non-zero status.
	ExitError struct {
		Name   string
		Status int
		Stderr string
	}

	virtualRunner struct{}
)

// Error implements the error interface.
func (e *ExitError) Error() string {
	msg := fmt.Sprintf("%s exited with status %d", e.Name, e.Status)
	if e.Stderr != "" {
		msg += ": " + e.Stderr
	}
	return msg
}

// Unwrap returns ErrScriptFailed for errors.Is() compatibility.
func (e *ExitError) Unwrap() error {
	return ErrScriptFailed
}

// NewRunner returns a Runner backed by the embedded interpreter.
func NewRunner() Runner {
	return virtualRunner{}
}

// Run parses and executes script. A non-zero exit status is reported as *ExitError.
func (virtualRunner) Run(ctx context.Context, script string, opts Options) error {
	name := opts.Name
	if name == "" {
		name = "script"
	}

	prog, err := syntax.NewParser().Parse(strings.NewReader(script), name)
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", name, err)
	}

	var env []string
	if opts.InheritEnv {
		env = os.Environ()
	}
	env = append(env, opts.Env...)

	// Keep a copy of stderr so a failing script can be reported with its output.
	var stderrBuf bytes.Buffer
	stderr := io.Writer(&stderrBuf)
	if opts.Stderr != nil {
		stderr = io.MultiWriter(opts.Stderr, &stderrBuf)
	}
	stdout := opts.Stdout
	if stdout == nil {
		stdout = io.Discard
	}

	runnerOpts := []interp.RunnerOption{
		interp.Env(expand.ListEnviron(env...)),
		interp.StdIO(opts.Stdin, stdout, stderr),
	}
	if opts.Dir != "" {
		runnerOpts = append(runnerOpts, interp.Dir(opts.Dir))
	}

	runner, err := interp.New(runnerOpts...)
	if err != nil {
		return fmt.Errorf("failed to create interpreter: %w", err)
	}

	if err := runner.Run(ctx, prog); err != nil {
		var status interp.ExitStatus
		if errors.As(err, &status) {
			return &ExitError{Name: name, Status: int(status), Stderr: strings.TrimSpace(stderrBuf.String())}
		}
		return fmt.Errorf("%s: %w", name, err)
	}

	return nil
}
