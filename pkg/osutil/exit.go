// SPDX-FileCopyrightText: Copyright The Lima Authors
// SPDX-License-Identifier: Apache-2.0

package osutil

import "errors"

type exitCoder interface {
	ExitCode() int
}

// ExitCode returns the exit status to use for err:
// 0 for nil, the code carried by err (e.g. *exec.ExitError), or 1.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr exitCoder
	if errors.As(err, &exitErr) {
		if code := exitErr.ExitCode(); code > 0 {
			return code
		}
	}
	return 1
}
