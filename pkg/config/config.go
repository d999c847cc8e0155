// SPDX-FileCopyrightText: Copyright The Lima Authors
// SPDX-License-Identifier: Apache-2.0

// Package config loads the optional socksummary YAML configuration file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/sirupsen/logrus"

	"github.com/lima-vm/socksummary/pkg/sscmd"
	"github.com/lima-vm/socksummary/pkg/yqutil"
)

// EnvConfig overrides the default configuration file location.
const EnvConfig = "SOCKSUMMARY_CONFIG"

const (
	FormatText    = "text"
	FormatJSON    = "json"
	FormatYAML    = "yaml"
	FormatStats   = "stats"
	FormatVerbose = "verbose"
)

// Formats are the named output formats. Any value containing "{{" is a Go template.
var Formats = []string{FormatText, FormatJSON, FormatYAML, FormatStats, FormatVerbose}

// LogLevels are the accepted logLevel values.
var LogLevels = []string{"trace", "debug", "info", "warn", "error"}

type Config struct {
	SSPath   string `yaml:"ssPath,omitempty" json:"ssPath,omitempty" jsonschema:"description=Path of the ss executable. Default: the first of /usr/sbin/ss /bin/ss /usr/bin/ss and $PATH"`
	Timeout  string `yaml:"timeout,omitempty" json:"timeout,omitempty" jsonschema:"description=Maximum execution time of ss as a Go duration. Default: 10s"`
	Filter   string `yaml:"filter,omitempty" json:"filter,omitempty" jsonschema:"description=Transport class passed to ss. Default: all"`
	Format   string `yaml:"format,omitempty" json:"format,omitempty" jsonschema:"description=Output format or Go template. Default: text"`
	LogLevel string `yaml:"logLevel,omitempty" json:"logLevel,omitempty" jsonschema:"description=Logging level. Default: info"`
}

// IsTemplate reports whether format is a Go template rather than a named format.
func IsTemplate(format string) bool {
	return strings.Contains(format, "{{")
}

// DefaultFile returns $SOCKSUMMARY_CONFIG, or config.yaml in the user config directory.
func DefaultFile() (string, error) {
	if p := os.Getenv(EnvConfig); p != "" {
		return p, nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "socksummary", "config.yaml"), nil
}

// Load reads and validates the configuration file, and fills the defaults.
// When file is empty, DefaultFile is used and a missing file is not an error.
func Load(file string) (*Config, error) {
	optional := file == ""
	if optional {
		var err error
		file, err = DefaultFile()
		if err != nil {
			logrus.WithError(err).Debug("Cannot determine the config file location")
			return Default(), nil
		}
	}
	b, err := os.ReadFile(file)
	if err != nil {
		if optional && errors.Is(err, os.ErrNotExist) {
			logrus.Debugf("Config file %q does not exist, using the defaults", file)
			return Default(), nil
		}
		return nil, err
	}
	c, err := Unmarshal(b, file)
	if err != nil {
		return nil, err
	}
	FillDefaults(c)
	if err := Validate(c); err != nil {
		return nil, fmt.Errorf("invalid config file %q: %w", file, err)
	}
	logrus.Debugf("Loaded config file %q", file)
	return c, nil
}

// Unmarshal decodes YAML, rejecting duplicate and unknown keys.
func Unmarshal(b []byte, comment string) (*Config, error) {
	var c Config
	if err := yaml.UnmarshalWithOptions(b, &c, yaml.DisallowDuplicateKey(), yaml.Strict()); err != nil {
		return nil, fmt.Errorf("failed to unmarshal YAML (%s): %w", comment, err)
	}
	// the go-yaml library doesn't catch all markup errors, unfortunately
	// make sure to get a "second opinion", using the same library as "yq"
	if err := yqutil.ValidateContent(b); err != nil {
		return nil, fmt.Errorf("failed to unmarshal YAML (%s): %w", comment, err)
	}
	return &c, nil
}

// Marshal encodes c as YAML.
func Marshal(c *Config) ([]byte, error) {
	return yaml.Marshal(c)
}

func Default() *Config {
	var c Config
	FillDefaults(&c)
	return &c
}

func FillDefaults(c *Config) {
	if c.Timeout == "" {
		c.Timeout = sscmd.DefaultTimeout.String()
	}
	if c.Format == "" {
		c.Format = FormatText
	}
}

// Validate returns all the problems of c joined together.
func Validate(c *Config) error {
	var errs error
	if c.Timeout != "" {
		if _, err := c.TimeoutDuration(); err != nil {
			errs = errors.Join(errs, err)
		}
	}
	if _, err := c.FilterValue(); err != nil {
		errs = errors.Join(errs, fmt.Errorf("field `filter`: %w", err))
	}
	if err := ValidateFormat(c.Format); err != nil {
		errs = errors.Join(errs, fmt.Errorf("field `format`: %w", err))
	}
	if c.LogLevel != "" && !slices.Contains(LogLevels, c.LogLevel) {
		errs = errors.Join(errs, fmt.Errorf("field `logLevel` must be one of %v, got %q", LogLevels, c.LogLevel))
	}
	return errs
}

// ValidateFormat accepts the named formats, Go templates, and "" (text).
func ValidateFormat(format string) error {
	if format == "" || IsTemplate(format) || slices.Contains(Formats, format) {
		return nil
	}
	return fmt.Errorf("unsupported format %q (expected one of %v, or a Go template)", format, Formats)
}

func (c *Config) TimeoutDuration() (time.Duration, error) {
	if c.Timeout == "" {
		return sscmd.DefaultTimeout, nil
	}
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 0, fmt.Errorf("field `timeout`: %w", err)
	}
	if d < 0 {
		return 0, fmt.Errorf("field `timeout` must not be negative, got %q", c.Timeout)
	}
	return d, nil
}

func (c *Config) FilterValue() (sscmd.Filter, error) {
	return sscmd.ParseFilter(c.Filter)
}
