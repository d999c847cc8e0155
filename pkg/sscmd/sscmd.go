// SPDX-FileCopyrightText: Copyright The Lima Authors
// SPDX-License-Identifier: Apache-2.0

// Package sscmd runs `ss -s` and classifies its failures.
package sscmd

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"runtime"
	"strings"
	"time"
	"unicode"

	"al.essio.dev/pkg/shellescape"
	"github.com/sirupsen/logrus"

	"github.com/lima-vm/socksummary/pkg/executil"
)

// DefaultTimeout is used when WithTimeout is not given.
const DefaultTimeout = 10 * time.Second

// SupportedOS is the only GOOS whose ss output we know how to read.
const SupportedOS = "linux"

type options struct {
	timeout time.Duration
	filter  Filter
	path    string
}

type Opt func(*options) error

// WithTimeout bounds the execution time. A zero timeout expires immediately.
func WithTimeout(d time.Duration) Opt {
	return func(o *options) error {
		if d < 0 {
			return fmt.Errorf("%w: negative timeout %s", ErrInvalidArgument, d)
		}
		o.timeout = d
		return nil
	}
}

// WithFilter restricts the summary to one transport class.
func WithFilter(f Filter) Opt {
	return func(o *options) error {
		o.filter = f
		return nil
	}
}

// WithPath skips the candidate lookup and uses p.
func WithPath(p string) Opt {
	return func(o *options) error {
		o.path = p
		return nil
	}
}

// Args returns the command line for the ss executable at path.
func Args(path string, f Filter) []string {
	return append([]string{path, "-s"}, f.Args()...)
}

// RunSummary spawns ss once and returns its stdout with trailing whitespace trimmed.
//
// Errors are ErrInvalidArgument, ErrUnsupportedPlatform, ErrNotFound and ErrTimeout
// (use errors.Is), or *CommandFailedError and *ExecutionError (use errors.As).
// There are no retries.
func RunSummary(ctx context.Context, opts ...Opt) (string, error) {
	o := options{timeout: DefaultTimeout}
	for _, f := range opts {
		if err := f(&o); err != nil {
			return "", err
		}
	}
	if err := o.filter.Validate(); err != nil {
		return "", err
	}
	if runtime.GOOS != SupportedOS {
		return "", fmt.Errorf("%w: %s (ss is only available on %s)", ErrUnsupportedPlatform, runtime.GOOS, SupportedOS)
	}
	path, err := Locate(o.path)
	if err != nil {
		return "", err
	}
	return run(ctx, Args(path, o.filter), o.timeout)
}

func run(ctx context.Context, args []string, timeout time.Duration) (string, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	logrus.Debugf("Executing %s", shellescape.QuoteCommand(args))
	start := time.Now()
	stdout, stderr, err := executil.Run(args, executil.WithContext(timeoutCtx))
	elapsed := time.Since(start)
	if err != nil {
		return "", classify(ctx, timeoutCtx, args[0], timeout, stderr, err)
	}
	logrus.WithField("elapsed", elapsed).Debug("Retrieved socket summary")
	return strings.TrimRightFunc(stdout, unicode.IsSpace), nil
}

func classify(parent, timeoutCtx context.Context, path string, timeout time.Duration, stderr string, err error) error {
	// The caller's own deadline or cancellation takes precedence.
	if parentErr := parent.Err(); parentErr != nil {
		if errors.Is(parentErr, context.DeadlineExceeded) {
			return fmt.Errorf("%w: %w", ErrTimeout, parentErr)
		}
		return &ExecutionError{Path: path, Err: parentErr}
	}
	if errors.Is(timeoutCtx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w after %s", ErrTimeout, timeout)
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return &CommandFailedError{
			Path:   path,
			Code:   exitErr.ExitCode(),
			Stderr: strings.TrimSpace(stderr),
		}
	}
	return &ExecutionError{Path: path, Err: err}
}
