// SPDX-FileCopyrightText: Copyright The Lima Authors
// SPDX-License-Identifier: Apache-2.0

package logrusutil

import (
	"fmt"
	"os"
	"runtime"

	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"
)

const (
	FormatText = "text"
	FormatJSON = "json"
)

// Options are the global logging flags.
type Options struct {
	Debug  bool
	Level  string
	Format string
}

// Configure applies o to logger.
//
// Level overrides Debug.
func Configure(logger *logrus.Logger, o Options) error {
	if o.Debug {
		logger.SetLevel(logrus.DebugLevel)
	}

	if o.Level != "" {
		lvl, err := logrus.ParseLevel(o.Level)
		if err != nil {
			return err
		}
		logger.SetLevel(lvl)
	}

	switch o.Format {
	case FormatJSON:
		logger.SetFormatter(new(logrus.JSONFormatter))
	case FormatText, "":
		// logrus use text format by default.
		if runtime.GOOS == "windows" && isatty.IsCygwinTerminal(os.Stderr.Fd()) {
			formatter := new(logrus.TextFormatter)
			// the default setting does not recognize cygwin on windows
			formatter.ForceColors = true
			logger.SetFormatter(formatter)
		}
	default:
		return fmt.Errorf("unsupported log-format: %q", o.Format)
	}
	return nil
}
