// SPDX-FileCopyrightText: Copyright The Lima Authors
// SPDX-License-Identifier: Apache-2.0

package sscmd

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

const (
	// DefaultPath is where iproute2 installs ss on most distributions.
	DefaultPath = "/usr/sbin/ss"
	// EnvPath overrides the candidate list when no explicit path is given.
	EnvPath = "SOCKSUMMARY_SS_PATH"
)

// Candidates are tried in order after the explicit path and $SOCKSUMMARY_SS_PATH.
// $PATH is searched last.
var Candidates = []string{
	DefaultPath,
	"/bin/ss",
	"/usr/bin/ss",
}

// Locate returns the path of the ss executable.
//
// An explicit path (or $SOCKSUMMARY_SS_PATH) must exist and be executable;
// there is no fallback when it does not.
func Locate(explicit string) (string, error) {
	if explicit == "" {
		explicit = os.Getenv(EnvPath)
	}
	if explicit != "" {
		p, err := lookPath(explicit)
		if err != nil {
			return "", fmt.Errorf("%w: %w", ErrNotFound, err)
		}
		return p, nil
	}

	for _, candidate := range Candidates {
		p, err := lookPath(candidate)
		if err == nil {
			return p, nil
		}
		if errors.Is(err, exec.ErrNotFound) || errors.Is(err, os.ErrNotExist) {
			logrus.WithError(err).Debugf("Failed to look up ss path %q", candidate)
		} else {
			logrus.WithError(err).Warnf("Failed to look up ss path %q", candidate)
		}
	}
	if p, err := exec.LookPath("ss"); err == nil {
		return p, nil
	}
	return "", fmt.Errorf("%w (tried %v and $PATH); install the iproute2 package", ErrNotFound, Candidates)
}

func lookPath(p string) (string, error) {
	found, err := exec.LookPath(p)
	if err != nil {
		return "", err
	}
	return filepath.Abs(found)
}
