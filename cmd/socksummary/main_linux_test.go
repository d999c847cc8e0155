// SPDX-FileCopyrightText: Copyright The Lima Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"gotest.tools/v3/assert"
	"gotest.tools/v3/env"
	"gotest.tools/v3/fs"

	"github.com/lima-vm/socksummary/pkg/config"
	"github.com/lima-vm/socksummary/pkg/osutil"
	"github.com/lima-vm/socksummary/pkg/sscmd"
)

const (
	sectionedOutput = `printf 'Total: 193\nTCP:\n\tEstab 10\nUDP: 5\n'`
	tableOutput     = `printf 'Total: 193\nTCP:   8 (estab 2, closed 0, orphaned 0, timewait 0)\n\nTransport Total     IP        IPv6\nRAW\t  0         0         0\nUDP\t  5         3         2\nTCP\t  8         6         2\n'`
)

// fakeSS creates an ss script that records its arguments next to itself.
func fakeSS(t *testing.T, body string) *fs.Dir {
	t.Helper()
	script := "#!/bin/sh\necho \"$@\" > \"$(dirname \"$0\")/args\"\n" + body + "\n"
	return fs.NewDir(t, "socksummary", fs.WithFile("ss", script, fs.WithMode(0o755)))
}

func recordedArgs(t *testing.T, dir *fs.Dir) string {
	t.Helper()
	b, err := os.ReadFile(dir.Join("args"))
	assert.NilError(t, err)
	return strings.TrimSpace(string(b))
}

func runApp(t *testing.T, args ...string) (string, error) {
	t.Helper()
	env.Patch(t, config.EnvConfig, filepath.Join(t.TempDir(), "config.yaml"))
	app := newApp()
	var out bytes.Buffer
	app.SetOut(&out)
	app.SetErr(io.Discard)
	app.SetArgs(args)
	err := app.Execute()
	return out.String(), err
}

func TestShowText(t *testing.T) {
	dir := fakeSS(t, sectionedOutput)
	out, err := runApp(t, "--ss-path", dir.Join("ss"))
	assert.NilError(t, err)
	assert.Equal(t, "Total: 193\nTCP:\n\tEstab 10\nUDP: 5\n", out)
	assert.Equal(t, "-s", recordedArgs(t, dir))
}

func TestShowJSON(t *testing.T) {
	dir := fakeSS(t, sectionedOutput)
	out, err := runApp(t, "--ss-path", dir.Join("ss"), "-t", "tcp", "-f", "json")
	assert.NilError(t, err)
	assert.Equal(t, "-s -t", recordedArgs(t, dir))

	var got map[string]any
	assert.NilError(t, json.Unmarshal([]byte(out), &got))
	assert.DeepEqual(t, map[string]any{
		"Total": float64(193),
		"TCP":   map[string]any{"Estab": float64(10)},
		"UDP":   float64(5),
	}, got)
	assert.Assert(t, strings.Index(out, "Total") < strings.Index(out, "TCP"), out)
	assert.Assert(t, strings.Index(out, "TCP") < strings.Index(out, "UDP"), out)
}

func TestShowYAML(t *testing.T) {
	dir := fakeSS(t, sectionedOutput)
	out, err := runApp(t, "--ss-path", dir.Join("ss"), "--format=yaml")
	assert.NilError(t, err)
	assert.Equal(t, "Total: 193\nTCP:\n  Estab: 10\nUDP: 5\n", out)

	out, err = runApp(t, "--ss-path", dir.Join("ss"), "--format=yaml", "--yq", ".TCP")
	assert.NilError(t, err)
	assert.Equal(t, "Estab: 10\n", out)
}

func TestShowStats(t *testing.T) {
	dir := fakeSS(t, tableOutput)
	out, err := runApp(t, "--ss-path", dir.Join("ss"), "-f", "stats", "--yq", ".tcp.details.estab")
	assert.NilError(t, err)
	assert.Equal(t, "2\n", out)

	out, err = runApp(t, "--ss-path", dir.Join("ss"), "-f", "stats", "--yq", ".udp.count")
	assert.NilError(t, err)
	assert.Equal(t, "5\n", out)
}

func TestShowVerbose(t *testing.T) {
	dir := fakeSS(t, sectionedOutput)
	out, err := runApp(t, "--ss-path", dir.Join("ss"), "-f", "verbose")
	assert.NilError(t, err)
	assert.Assert(t, strings.HasPrefix(out, "=== Raw Output ===\nTotal: 193\nTCP:\n\tEstab 10\nUDP: 5\n\n=== Parsed Details ===\n{"), out)
	assert.Assert(t, strings.Contains(out, `"Estab": 10`), out)
}

func TestShowTemplate(t *testing.T) {
	dir := fakeSS(t, sectionedOutput)
	out, err := runApp(t, "--ss-path", dir.Join("ss"), "-f", "{{.Summary.TCP.Estab}}")
	assert.NilError(t, err)
	assert.Equal(t, "10\n", out)

	dir = fakeSS(t, tableOutput)
	out, err = runApp(t, "--ss-path", dir.Join("ss"), "-f", "{{.Stats.TCP.Count}}/{{.Stats.Total}}")
	assert.NilError(t, err)
	assert.Equal(t, "8/193\n", out)
}

func TestShowConfig(t *testing.T) {
	dir := fakeSS(t, sectionedOutput)
	cfg := fs.NewDir(t, "socksummary", fs.WithFile("config.yaml",
		"ssPath: "+dir.Join("ss")+"\nfilter: udp\nformat: yaml\n"))

	out, err := runApp(t, "--config", cfg.Join("config.yaml"))
	assert.NilError(t, err)
	assert.Equal(t, "-s -u", recordedArgs(t, dir))
	assert.Equal(t, "Total: 193\nTCP:\n  Estab: 10\nUDP: 5\n", out)

	out, err = runApp(t, "--config", cfg.Join("config.yaml"), "-t", "x", "-f", "text")
	assert.NilError(t, err)
	assert.Equal(t, "-s -x", recordedArgs(t, dir))
	assert.Equal(t, "Total: 193\nTCP:\n\tEstab 10\nUDP: 5\n", out)
}

func TestShowConfigLogLevel(t *testing.T) {
	lvl := logrus.GetLevel()
	t.Cleanup(func() { logrus.SetLevel(lvl) })

	dir := fakeSS(t, sectionedOutput)
	cfg := fs.NewDir(t, "socksummary", fs.WithFile("config.yaml", "logLevel: error\n"))
	_, err := runApp(t, "--config", cfg.Join("config.yaml"), "--ss-path", dir.Join("ss"))
	assert.NilError(t, err)
	assert.Equal(t, logrus.ErrorLevel, logrus.GetLevel())
}

func TestShowCommandFailed(t *testing.T) {
	dir := fakeSS(t, "echo 'ss: bad option' >&2; exit 3")
	_, err := runApp(t, "--ss-path", dir.Join("ss"))
	var cmdErr *sscmd.CommandFailedError
	assert.Assert(t, errors.As(err, &cmdErr), "unexpected error: %v", err)
	assert.Equal(t, "ss: bad option", cmdErr.Stderr)
	assert.Equal(t, 3, osutil.ExitCode(err))
}

func TestShowTimeout(t *testing.T) {
	dir := fakeSS(t, sectionedOutput)
	_, err := runApp(t, "--ss-path", dir.Join("ss"), "--timeout", "0s")
	assert.ErrorIs(t, err, sscmd.ErrTimeout)
	assert.Equal(t, 1, osutil.ExitCode(err))
}

func TestShowNotFound(t *testing.T) {
	_, err := runApp(t, "--ss-path", filepath.Join(t.TempDir(), "ss"))
	assert.ErrorIs(t, err, sscmd.ErrNotFound)
}

func TestShowInvalidFlags(t *testing.T) {
	_, err := runApp(t, "-t", "icmp")
	assert.ErrorContains(t, err, `invalid argument "icmp"`)

	_, err = runApp(t, "-f", "xml")
	assert.ErrorContains(t, err, "unsupported format")

	_, err = runApp(t, "-f", "text", "--yq", ".Total")
	assert.ErrorContains(t, err, "--yq is not supported")

	_, err = runApp(t, "extra")
	assert.ErrorContains(t, err, `unknown command "extra"`)
}

func TestValidate(t *testing.T) {
	dir := fs.NewDir(t, "socksummary",
		fs.WithFile("good.yaml", "filter: t\ntimeout: 2s\n"),
		fs.WithFile("bad.yaml", "filter: icmp\n"))

	_, err := runApp(t, "validate", dir.Join("good.yaml"))
	assert.NilError(t, err)

	_, err = runApp(t, "validate", dir.Join("good.yaml"), dir.Join("bad.yaml"))
	assert.ErrorContains(t, err, "failed to validate config file")
	assert.ErrorContains(t, err, "bad.yaml")

	_, err = runApp(t, "validate")
	assert.ErrorContains(t, err, "requires at least 1 arg(s)")
}

func TestGenSchema(t *testing.T) {
	out, err := runApp(t, "generate-jsonschema")
	assert.NilError(t, err)
	var schema map[string]any
	assert.NilError(t, json.Unmarshal([]byte(out), &schema))
	assert.Equal(t, "https://lima-vm.io/socksummary/config.schema.json", schema["$id"])

	file := filepath.Join(t.TempDir(), "schema.json")
	_, err = runApp(t, "generate-jsonschema", "--schemafile", file)
	assert.NilError(t, err)
	b, err := os.ReadFile(file)
	assert.NilError(t, err)
	assert.Equal(t, out, string(b))
}

func TestGenDoc(t *testing.T) {
	dir := t.TempDir()
	_, err := runApp(t, "generate-doc", filepath.Join(dir, "man"))
	assert.NilError(t, err)
	_, err = os.Stat(filepath.Join(dir, "man", "socksummary.1"))
	assert.NilError(t, err)
	_, err = os.Stat(filepath.Join(dir, "man", "socksummary-validate.1"))
	assert.NilError(t, err)
	b, err := os.ReadFile(filepath.Join(dir, "man", "socksummary-config.5"))
	assert.NilError(t, err)
	assert.Assert(t, strings.Contains(string(b), "logLevel"), string(b))

	_, err = runApp(t, "generate-doc", "--type", "markdown", filepath.Join(dir, "md"))
	assert.NilError(t, err)
	b, err = os.ReadFile(filepath.Join(dir, "md", "socksummary.md"))
	assert.NilError(t, err)
	assert.Assert(t, strings.HasPrefix(string(b), "---\ntitle: socksummary\n---\n"), string(b))

	_, err = runApp(t, "generate-doc", "--type", "pdf", dir)
	assert.ErrorContains(t, err, "unknown output type")
}
