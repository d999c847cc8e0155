// SPDX-FileCopyrightText: Copyright The Lima Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/lima-vm/socksummary/pkg/config"
)

func newValidateCommand() *cobra.Command {
	validateCommand := &cobra.Command{
		Use:   "validate FILE.yaml [FILE.yaml, ...]",
		Short: "Validate config files",
		Args:  WrapArgsError(cobra.MinimumNArgs(1)),
		RunE:  validateAction,
	}
	return validateCommand
}

func validateAction(_ *cobra.Command, args []string) error {
	for _, f := range args {
		if err := config.ValidateFile(f); err != nil {
			return fmt.Errorf("failed to validate config file %q: %w", f, err)
		}
		logrus.Infof("%q: OK", f)
	}

	return nil
}
