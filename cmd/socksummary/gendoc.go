// SPDX-FileCopyrightText: Copyright The Lima Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cpuguy83/go-md2man/v2/md2man"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"

	"github.com/lima-vm/socksummary/pkg/config"
)

func newGenDocCommand() *cobra.Command {
	gendocCommand := &cobra.Command{
		Use:    "generate-doc DIR",
		Short:  "Generate cli-reference pages",
		Args:   WrapArgsError(cobra.ExactArgs(1)),
		RunE:   gendocAction,
		Hidden: true,
	}
	gendocCommand.Flags().String("type", "man", "Output type (man, markdown)")
	return gendocCommand
}

func gendocAction(cmd *cobra.Command, args []string) error {
	outputType, err := cmd.Flags().GetString("type")
	if err != nil {
		return err
	}
	dir := args[0]
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	switch outputType {
	case "man":
		return genMan(cmd, dir)
	case "markdown":
		return genMarkdown(cmd, dir)
	default:
		return fmt.Errorf("unknown output type %q", outputType)
	}
}

func genMan(cmd *cobra.Command, dir string) error {
	logrus.Infof("Generating man %q", dir)
	// socksummary-config(5)
	filePath := filepath.Join(dir, "socksummary-config.5")
	md := "SOCKSUMMARY-CONFIG 5\n======" + `
# NAME
socksummary-config - configuration file of socksummary
# SYNOPSIS
**$SOCKSUMMARY_CONFIG**, **$XDG_CONFIG_HOME/socksummary/config.yaml**
# DESCRIPTION
The configuration file is a YAML mapping. Command line flags take precedence over it.
All the fields are optional.

**ssPath**
: Path of the ss executable.

**timeout**
: Maximum execution time of ss as a Go duration, e.g. 5s. Default: 10s.

**filter**
: One of t (tcp), u (udp), x (unix). Default: all socket types.

**format**
: One of ` + strings.Join(config.Formats, ", ") + `, or a Go template.

**logLevel**
: One of ` + strings.Join(config.LogLevels, ", ") + `.
# SEE ALSO
**socksummary**(1), **ss**(8)
`
	out := md2man.Render([]byte(md))
	if err := os.WriteFile(filePath, out, 0o644); err != nil {
		return err
	}
	// socksummary(1)
	header := &doc.GenManHeader{
		Title:   "SOCKSUMMARY",
		Section: "1",
	}
	return doc.GenManTree(cmd.Root(), header, dir)
}

func genMarkdown(cmd *cobra.Command, dir string) error {
	logrus.Infof("Generating markdown %q", dir)
	return doc.GenMarkdownTreeCustom(cmd.Root(), dir, func(s string) string {
		name := filepath.Base(s)
		name = strings.TrimSuffix(name, filepath.Ext(name))
		name = strings.ReplaceAll(name, "_", " ")
		return fmt.Sprintf("---\ntitle: %s\n---\n", name)
	}, func(s string) string {
		return strings.TrimSuffix(s, filepath.Ext(s))
	})
}
