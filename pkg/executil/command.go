// SPDX-FileCopyrightText: Copyright The Lima Authors
// SPDX-License-Identifier: Apache-2.0

package executil

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"time"
)

// DefaultWaitDelay bounds how long Run waits for the output pipes to be closed
// after the process has been killed.
const DefaultWaitDelay = 2 * time.Second

type options struct {
	ctx       context.Context
	waitDelay time.Duration
}

type Opt func(*options) error

// WithContext runs the command with CommandContext.
// The whole process group is killed when ctx is done.
func WithContext(ctx context.Context) Opt {
	return func(o *options) error {
		o.ctx = ctx
		return nil
	}
}

// WithWaitDelay overrides DefaultWaitDelay.
func WithWaitDelay(d time.Duration) Opt {
	return func(o *options) error {
		if d < 0 {
			return errors.New("wait delay must not be negative")
		}
		o.waitDelay = d
		return nil
	}
}

// Command returns an *exec.Cmd that runs in its own process group.
// When the context is done, the entire group is killed, not only the direct child.
func Command(ctx context.Context, args []string) (*exec.Cmd, error) {
	if len(args) == 0 {
		return nil, errors.New("no command specified")
	}
	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	cmd.SysProcAttr = BackgroundSysProcAttr()
	cmd.Cancel = func() error {
		return killProcessGroup(cmd)
	}
	cmd.WaitDelay = DefaultWaitDelay
	return cmd, nil
}

// Run runs the command and returns its stdout and stderr.
// The process is always waited for, so no zombie is left behind on any path.
// The returned error is the one from (*exec.Cmd).Run, e.g. *exec.ExitError.
func Run(args []string, opts ...Opt) (stdout, stderr string, err error) {
	o := options{waitDelay: DefaultWaitDelay}
	for _, f := range opts {
		if err := f(&o); err != nil {
			return "", "", err
		}
	}
	ctx := o.ctx
	if ctx == nil {
		ctx = context.Background()
	}

	cmd, err := Command(ctx, args)
	if err != nil {
		return "", "", err
	}
	cmd.WaitDelay = o.waitDelay

	var outBuf, errBuf bytes.Buffer
	cmd.Stdout = &outBuf
	cmd.Stderr = &errBuf
	err = cmd.Run()
	return outBuf.String(), errBuf.String(), err
}
