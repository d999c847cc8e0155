// SPDX-FileCopyrightText: Copyright The Lima Authors
// SPDX-License-Identifier: Apache-2.0

package sscmd

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
)

// Filter restricts the summary to one transport class.
type Filter string

const (
	FilterAll  Filter = ""
	FilterTCP  Filter = "t"
	FilterUDP  Filter = "u"
	FilterUnix Filter = "x"
)

// Filters lists the non-empty filter values accepted by ss.
var Filters = []Filter{FilterTCP, FilterUDP, FilterUnix}

var _ pflag.Value = (*Filter)(nil)

// ParseFilter accepts the single-character form ("t", "u", "x"), the long
// form ("tcp", "udp", "unix"), and "" or "all" for no filtering.
func ParseFilter(s string) (Filter, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return FilterAll, nil
	case "t", "tcp":
		return FilterTCP, nil
	case "u", "udp":
		return FilterUDP, nil
	case "x", "unix":
		return FilterUnix, nil
	}
	return FilterAll, fmt.Errorf("%w: unsupported filter %q (expected one of t, u, x)", ErrInvalidArgument, s)
}

// Validate returns ErrInvalidArgument unless f is one of the known filters.
func (f Filter) Validate() error {
	switch f {
	case FilterAll, FilterTCP, FilterUDP, FilterUnix:
		return nil
	}
	return fmt.Errorf("%w: unsupported filter %q (expected one of t, u, x)", ErrInvalidArgument, string(f))
}

// Args returns the extra ss arguments for f.
func (f Filter) Args() []string {
	if f == FilterAll {
		return nil
	}
	return []string{"-" + string(f)}
}

func (f Filter) String() string {
	return string(f)
}

func (f *Filter) Set(s string) error {
	parsed, err := ParseFilter(s)
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}

func (f *Filter) Type() string {
	return "filter"
}
