// SPDX-FileCopyrightText: Copyright The Lima Authors
// SPDX-License-Identifier: Apache-2.0

package sscmd

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when no ss executable could be located.
	ErrNotFound = errors.New("ss command not found")
	// ErrInvalidArgument is returned for an unsupported filter; nothing is spawned.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrTimeout is returned when ss did not finish in time. The process group has been killed.
	ErrTimeout = errors.New("ss command timed out")
	// ErrUnsupportedPlatform is returned on hosts other than Linux.
	ErrUnsupportedPlatform = errors.New("unsupported platform")
)

// CommandFailedError is returned when ss ran but exited with a non-zero status.
type CommandFailedError struct {
	Path   string
	Code   int
	Stderr string
}

func (e *CommandFailedError) Error() string {
	if e.Stderr == "" {
		return fmt.Sprintf("command %q failed with exit code %d", e.Path, e.Code)
	}
	return fmt.Sprintf("command %q failed with exit code %d: %s", e.Path, e.Code, e.Stderr)
}

// ExitCode returns the exit status of ss.
func (e *CommandFailedError) ExitCode() int {
	return e.Code
}

// ExecutionError wraps any other failure to spawn or wait for ss,
// e.g. a permission error or a cancelled context.
type ExecutionError struct {
	Path string
	Err  error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("failed to execute %q: %v", e.Path, e.Err)
}

func (e *ExecutionError) Unwrap() error {
	return e.Err
}
