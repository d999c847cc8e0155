// SPDX-FileCopyrightText: Copyright The Lima Authors
// SPDX-License-Identifier: Apache-2.0

// Package sssummary parses the output of `ss -s`.
//
// The format is not versioned. Lines look like:
//
//	Total: 193
//	TCP:   8 (estab 2, closed 0, orphaned 0, timewait 0)
//
//	Transport Total     IP        IPv6
//	RAW	  1         0         1
//	UDP	  4         2         2
//
// and some variants group entries under a header line ending with a colon:
//
//	TCP:
//		Estab 10
package sssummary

import (
	"strconv"
	"strings"
	"unicode"
)

// Parse converts ss summary text into a Summary.
//
// Parse never fails. Blank lines and lines it does not understand are skipped.
// Values consisting only of decimal digits become integers, everything else is
// kept as trimmed text. A key that appears twice in the same scope keeps the
// later value.
func Parse(text string) *Summary {
	top := New()
	var (
		section         *Summary
		sectionIndented bool
	)
	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		indented := isIndented(raw)

		if name, ok := cutHeader(line); ok {
			section = New()
			sectionIndented = false
			top.Set(name, Section(section))
			continue
		}
		if name, ok := strings.CutSuffix(line, ":"); ok && strings.TrimSpace(name) == "" {
			continue
		}

		// A section whose body is indented ends at the first unindented line.
		if section != nil && sectionIndented && !indented {
			section = nil
		}

		key, value, ok := strings.Cut(line, ":")
		if !ok {
			if section == nil || !indented {
				continue
			}
			// "Estab 10" inside an indented section
			key, value, ok = cutField(line)
			if !ok {
				continue
			}
		}
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		v := coerce(strings.TrimSpace(value))
		if section != nil {
			section.Set(key, v)
			if indented {
				sectionIndented = true
			}
			continue
		}
		top.Set(key, v)
	}
	return top
}

// cutHeader reports whether line is a section header like "TCP:".
func cutHeader(line string) (string, bool) {
	name, ok := strings.CutSuffix(line, ":")
	if !ok || strings.Contains(name, ":") {
		return "", false
	}
	name = strings.TrimSpace(name)
	return name, name != ""
}

func cutField(line string) (key, value string, ok bool) {
	i := strings.IndexFunc(line, unicode.IsSpace)
	if i < 0 {
		return "", "", false
	}
	return line[:i], strings.TrimSpace(line[i:]), true
}

func isIndented(raw string) bool {
	return raw != "" && (raw[0] == ' ' || raw[0] == '\t')
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// coerce returns an Integer for "193", and a Text for anything else,
// including "45 (estab 30, closed 10)" and digit strings that overflow int64.
func coerce(s string) Value {
	if isDigits(s) {
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return Integer(n)
		}
	}
	return Text(s)
}
