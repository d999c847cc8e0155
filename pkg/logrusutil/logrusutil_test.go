// SPDX-FileCopyrightText: Copyright The Lima Authors
// SPDX-License-Identifier: Apache-2.0

package logrusutil

import (
	"bytes"
	"testing"

	"github.com/sirupsen/logrus"
	"gotest.tools/v3/assert"
)

func newLogger(output *bytes.Buffer) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(output)
	logger.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	return logger
}

func TestConfigure(t *testing.T) {
	t.Run("default", func(t *testing.T) {
		actual := &bytes.Buffer{}
		logger := newLogger(actual)
		assert.NilError(t, Configure(logger, Options{}))
		assert.Equal(t, logrus.InfoLevel, logger.GetLevel())

		logger.Debug("hidden")
		logger.Info("shown")
		assert.Equal(t, "level=info msg=shown\n", actual.String())
	})
	t.Run("debug", func(t *testing.T) {
		logger := newLogger(&bytes.Buffer{})
		assert.NilError(t, Configure(logger, Options{Debug: true}))
		assert.Equal(t, logrus.DebugLevel, logger.GetLevel())
	})
	t.Run("level overrides debug", func(t *testing.T) {
		logger := newLogger(&bytes.Buffer{})
		assert.NilError(t, Configure(logger, Options{Debug: true, Level: "warn"}))
		assert.Equal(t, logrus.WarnLevel, logger.GetLevel())
	})
	t.Run("json", func(t *testing.T) {
		actual := &bytes.Buffer{}
		logger := newLogger(actual)
		assert.NilError(t, Configure(logger, Options{Format: FormatJSON}))
		logger.WithField("filter", "t").Info("running ss")
		assert.Assert(t, bytes.Contains(actual.Bytes(), []byte(`"msg":"running ss"`)), actual.String())
		assert.Assert(t, bytes.Contains(actual.Bytes(), []byte(`"filter":"t"`)), actual.String())
	})
	t.Run("invalid level", func(t *testing.T) {
		logger := newLogger(&bytes.Buffer{})
		err := Configure(logger, Options{Level: "loud"})
		assert.ErrorContains(t, err, "not a valid logrus Level")
	})
	t.Run("invalid format", func(t *testing.T) {
		logger := newLogger(&bytes.Buffer{})
		err := Configure(logger, Options{Format: "xml"})
		assert.ErrorContains(t, err, "unsupported log-format")
	})
}
