// SPDX-FileCopyrightText: Copyright The Lima Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/lima-vm/socksummary/pkg/config"
	"github.com/lima-vm/socksummary/pkg/sscmd"
	"github.com/lima-vm/socksummary/pkg/sssummary"
	"github.com/lima-vm/socksummary/pkg/textutil"
	"github.com/lima-vm/socksummary/pkg/uiutil"
	"github.com/lima-vm/socksummary/pkg/yqutil"
)

func addShowFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.VarP(new(sscmd.Filter), "type", "t", "Filter by socket type [t (tcp), u (udp), x (unix)]")
	flags.StringP("format", "f", config.FormatText,
		fmt.Sprintf("Output format, one of %v, or a Go template over .Raw, .Summary, .Parsed and .Stats.\nTemplate functions: %s", config.Formats, strings.Join(textutil.FuncHelp, ", ")))
	flags.Duration("timeout", sscmd.DefaultTimeout, "Maximum execution time of ss")
	flags.String("ss-path", "", "Path of the ss executable (default: search /usr/sbin/ss, /bin/ss, /usr/bin/ss and $PATH)")
	flags.String("yq", "", "Apply yq expression to the json, yaml and stats output")
	flags.String("config", "", fmt.Sprintf("Config file (default: $%s or <user config dir>/socksummary/config.yaml)", config.EnvConfig))
}

type showOptions struct {
	ssPath  string
	timeout time.Duration
	filter  sscmd.Filter
	format  string
	yq      string
}

// showOptionsFromFlags merges the flags over the config file.
func showOptionsFromFlags(cmd *cobra.Command) (*showOptions, error) {
	flags := cmd.Flags()
	configFile, err := flags.GetString("config")
	if err != nil {
		return nil, err
	}
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, err
	}
	if cfg.LogLevel != "" && !flags.Changed("log-level") && !flags.Changed("debug") {
		lvl, err := logrus.ParseLevel(cfg.LogLevel)
		if err != nil {
			return nil, err
		}
		logrus.SetLevel(lvl)
	}

	var o showOptions
	o.ssPath = cfg.SSPath
	if flags.Changed("ss-path") {
		if o.ssPath, err = flags.GetString("ss-path"); err != nil {
			return nil, err
		}
	}
	if o.timeout, err = cfg.TimeoutDuration(); err != nil {
		return nil, err
	}
	if flags.Changed("timeout") {
		if o.timeout, err = flags.GetDuration("timeout"); err != nil {
			return nil, err
		}
	}
	if o.filter, err = cfg.FilterValue(); err != nil {
		return nil, err
	}
	if flags.Changed("type") {
		o.filter = *flags.Lookup("type").Value.(*sscmd.Filter)
	}
	o.format = cfg.Format
	if flags.Changed("format") {
		if o.format, err = flags.GetString("format"); err != nil {
			return nil, err
		}
	}
	if err := config.ValidateFormat(o.format); err != nil {
		return nil, err
	}
	if o.yq, err = flags.GetString("yq"); err != nil {
		return nil, err
	}
	if o.yq != "" {
		switch o.format {
		case config.FormatJSON, config.FormatYAML, config.FormatStats:
		default:
			return nil, fmt.Errorf("--yq is not supported with format %q", o.format)
		}
	}
	return &o, nil
}

func showAction(cmd *cobra.Command, _ []string) error {
	o, err := showOptionsFromFlags(cmd)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	raw, err := sscmd.RunSummary(ctx,
		sscmd.WithPath(o.ssPath),
		sscmd.WithTimeout(o.timeout),
		sscmd.WithFilter(o.filter),
	)
	if err != nil {
		return err
	}
	w := cmd.OutOrStdout()
	return writeSummary(w, raw, o, uiutil.OutputIsTTY(w))
}

// templateData is the data passed to --format templates.
type templateData struct {
	Raw     string
	Summary map[string]any
	Parsed  *sssummary.Summary
	Stats   *sssummary.Stats
}

func writeSummary(w io.Writer, raw string, o *showOptions, colors bool) error {
	switch o.format {
	case config.FormatText, "":
		if raw == "" {
			logrus.Warn("ss printed nothing")
			return nil
		}
		_, err := fmt.Fprintln(w, raw)
		return err
	case config.FormatJSON:
		return writeJSON(w, sssummary.Parse(raw), o.yq, colors)
	case config.FormatStats:
		return writeJSON(w, sssummary.NewStats(raw), o.yq, colors)
	case config.FormatYAML:
		j, err := json.Marshal(sssummary.Parse(raw))
		if err != nil {
			return err
		}
		str, err := yqutil.EvaluateExpressionToYAML(o.yq, string(j), colors)
		if err != nil {
			return err
		}
		_, err = fmt.Fprint(w, str)
		return err
	case config.FormatVerbose:
		if raw != "" {
			if _, err := fmt.Fprintf(w, "=== Raw Output ===\n%s\n\n", raw); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(w, "=== Parsed Details ==="); err != nil {
			return err
		}
		return writeJSON(w, sssummary.Parse(raw), "", colors)
	default:
		return writeTemplate(w, raw, o.format)
	}
}

func writeTemplate(w io.Writer, raw, format string) error {
	s := sssummary.Parse(raw)
	out, err := textutil.ExecuteTemplate(format, templateData{
		Raw:     raw,
		Summary: s.Map(),
		Parsed:  s,
		Stats:   sssummary.NewStats(raw),
	})
	if err != nil {
		return err
	}
	str := string(out)
	if !strings.HasSuffix(str, "\n") {
		str += "\n"
	}
	_, err = fmt.Fprint(w, str)
	return err
}

func writeJSON(w io.Writer, v any, expression string, colors bool) error {
	j, err := json.Marshal(v)
	if err != nil {
		return err
	}
	str, err := yqutil.EvaluateExpressionWithEncoder(expression, string(j), yqutil.JSONEncoder(colors))
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(w, str)
	return err
}
