// SPDX-FileCopyrightText: Copyright The Lima Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/lima-vm/socksummary/pkg/logrusutil"
	"github.com/lima-vm/socksummary/pkg/osutil"
	"github.com/lima-vm/socksummary/pkg/sscmd"
	"github.com/lima-vm/socksummary/pkg/version"
)

func main() {
	err := newApp().Execute()
	if err != nil {
		logrus.Error(err)
		if errors.Is(err, sscmd.ErrNotFound) {
			logrus.Info("Hint: ss is part of the iproute2 package (e.g. `sudo apt-get install iproute2`)")
		}
		os.Exit(osutil.ExitCode(err))
	}
}

func processGlobalFlags(rootCmd *cobra.Command) error {
	// --log-level will override --debug
	debug, _ := rootCmd.Flags().GetBool("debug")
	l, _ := rootCmd.Flags().GetString("log-level")
	logFormat, _ := rootCmd.Flags().GetString("log-format")
	return logrusutil.Configure(logrus.StandardLogger(), logrusutil.Options{
		Debug:  debug,
		Level:  l,
		Format: logFormat,
	})
}

func newApp() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "socksummary",
		Short: "Show a summary of the Linux socket statistics (ss -s)",
		Long: `Show a summary of the Linux socket statistics.

socksummary runs "ss -s" once, with a timeout, and prints its output as text,
or parsed into JSON, YAML, typed counters, or a Go template.`,
		Version: strings.TrimPrefix(version.Version, "v"),
		Example: `  Show the summary as printed by ss:
  $ socksummary

  Show the TCP summary as JSON:
  $ socksummary -t tcp -f json

  Show the established TCP connections:
  $ socksummary -f stats --yq .tcp.details.estab

  Use a Go template:
  $ socksummary -f '{{.Summary.Total}}'`,
		Args:              WrapArgsError(cobra.NoArgs),
		RunE:              showAction,
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
	}
	rootCmd.PersistentFlags().String("log-level", "", "Set the logging level [trace, debug, info, warn, error]")
	rootCmd.PersistentFlags().String("log-format", logrusutil.FormatText, "Set the logging format [text, json]")
	rootCmd.PersistentFlags().Bool("debug", false, "Debug mode")
	rootCmd.PersistentPreRunE = func(*cobra.Command, []string) error {
		return processGlobalFlags(rootCmd)
	}
	addShowFlags(rootCmd)

	rootCmd.AddCommand(
		newValidateCommand(),
		newGenSchemaCommand(),
		newGenDocCommand(),
	)
	return rootCmd
}

// WrapArgsError annotates cobra args error with some context, so the error message is more user-friendly.
func WrapArgsError(argFn cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		err := argFn(cmd, args)
		if err == nil {
			return nil
		}

		return fmt.Errorf("%q %s.\nSee '%s --help'.\n\nUsage:  %s\n\n%s",
			cmd.CommandPath(), err.Error(),
			cmd.CommandPath(),
			cmd.UseLine(), cmd.Short,
		)
	}
}
