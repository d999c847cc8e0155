// SPDX-FileCopyrightText: Copyright The Lima Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lima-vm/socksummary/pkg/config"
)

func newGenSchemaCommand() *cobra.Command {
	genschemaCommand := &cobra.Command{
		Use:    "generate-jsonschema",
		Short:  "Generate json-schema document",
		Args:   WrapArgsError(cobra.NoArgs),
		RunE:   genschemaAction,
		Hidden: true,
	}
	genschemaCommand.Flags().String("schemafile", "", "Output file")
	return genschemaCommand
}

func genschemaAction(cmd *cobra.Command, _ []string) error {
	file, err := cmd.Flags().GetString("schemafile")
	if err != nil {
		return err
	}
	j, err := config.Schema()
	if err != nil {
		return err
	}
	if file == "" {
		_, err = fmt.Fprintln(cmd.OutOrStdout(), string(j))
		return err
	}
	return os.WriteFile(file, append(j, '\n'), 0o644)
}
