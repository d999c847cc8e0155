// SPDX-FileCopyrightText: Copyright The Lima Authors
// SPDX-License-Identifier: Apache-2.0

package yqutil

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/mikefarah/yq/v4/pkg/yqlib"
	"github.com/sirupsen/logrus"
	logging "gopkg.in/op/go-logging.v1"
)

const indent = 2

// JSONEncoder returns a yq encoder for indented JSON, colorized when colors is true.
func JSONEncoder(colors bool) yqlib.Encoder {
	prefs := yqlib.ConfiguredJSONPreferences.Copy()
	prefs.Indent = indent
	prefs.ColorsEnabled = colors
	return yqlib.NewJSONEncoder(prefs)
}

// YAMLEncoder returns a yq encoder for YAML, colorized when colors is true.
func YAMLEncoder(colors bool) yqlib.Encoder {
	prefs := yqlib.ConfiguredYamlPreferences.Copy()
	prefs.Indent = indent
	prefs.ColorsEnabled = colors
	return yqlib.NewYamlEncoder(prefs)
}

// EvaluateExpressionWithEncoder evaluates the yq expression on content (JSON or YAML)
// and encodes the result with encoder. An empty expression is the identity.
func EvaluateExpressionWithEncoder(expression, content string, encoder yqlib.Encoder) (string, error) {
	if expression == "" {
		expression = "."
	}
	logrus.Debugf("Evaluating yq expression: %q", expression)

	memory := captureLogs()
	yqlib.InitExpressionParser()
	decoder := yqlib.NewYamlDecoder(yqlib.ConfiguredYamlPreferences)
	out, err := yqlib.NewStringEvaluator().Evaluate(expression, content, encoder, decoder)
	if err != nil {
		forwardLogs(memory)
		return "", fmt.Errorf("failed to evaluate yq expression %q: %w", expression, err)
	}
	return out, nil
}

// EvaluateExpressionToYAML is like EvaluateExpressionWithEncoder with a YAML encoder,
// but resets flow and quoting styles so that JSON input is printed in block style (yq -P).
func EvaluateExpressionToYAML(expression, content string, colors bool) (string, error) {
	if expression == "" {
		expression = "."
	}
	return EvaluateExpressionWithEncoder("("+expression+`) | ... style=""`, content, YAMLEncoder(colors))
}

// ValidateContent checks that content is well-formed YAML, using the same parser as yq.
func ValidateContent(content []byte) error {
	memory := captureLogs()
	decoder := yqlib.NewYamlDecoder(yqlib.ConfiguredYamlPreferences)
	if err := decoder.Init(bytes.NewReader(content)); err != nil {
		forwardLogs(memory)
		return err
	}
	for {
		_, err := decoder.Decode()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			forwardLogs(memory)
			return err
		}
	}
}

func captureLogs() *logging.MemoryBackend {
	memory := logging.NewMemoryBackend(64)
	backend := logging.AddModuleLevel(memory)
	logging.SetBackend(backend)
	return memory
}

// forwardLogs replays what yq logged through go-logging into logrus.
func forwardLogs(memory *logging.MemoryBackend) {
	logger := logrus.StandardLogger()
	for node := memory.Head(); node != nil; node = node.Next() {
		entry := logrus.NewEntry(logger).WithTime(node.Record.Time)
		message := fmt.Sprintf("[%s] %s", node.Record.Module, node.Record.Message())
		switch node.Record.Level {
		case logging.CRITICAL, logging.ERROR:
			entry.Error(message)
		case logging.WARNING:
			entry.Warn(message)
		case logging.NOTICE, logging.INFO:
			entry.Info(message)
		case logging.DEBUG:
			entry.Debug(message)
		}
	}
}
