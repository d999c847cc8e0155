// SPDX-FileCopyrightText: Copyright The Lima Authors
// SPDX-License-Identifier: Apache-2.0

package sssummary

import (
	"encoding/json"
	"fmt"
	"strconv"
)

type Kind int

const (
	KindInteger Kind = iota + 1
	KindText
	KindSection
)

func (k Kind) String() string {
	switch k {
	case KindInteger:
		return "integer"
	case KindText:
		return "text"
	case KindSection:
		return "section"
	}
	return "invalid"
}

// Value is an integer, a text, or a nested section.
// The zero Value is invalid.
type Value struct {
	kind    Kind
	integer int64
	text    string
	section *Summary
}

func Integer(n int64) Value {
	return Value{kind: KindInteger, integer: n}
}

func Text(s string) Value {
	return Value{kind: KindText, text: s}
}

func Section(s *Summary) Value {
	if s == nil {
		s = New()
	}
	return Value{kind: KindSection, section: s}
}

func (v Value) Kind() Kind {
	return v.kind
}

func (v Value) Int() (int64, bool) {
	return v.integer, v.kind == KindInteger
}

func (v Value) Text() (string, bool) {
	return v.text, v.kind == KindText
}

func (v Value) Section() (*Summary, bool) {
	return v.section, v.kind == KindSection
}

// String formats integers and texts as they appeared in the input.
func (v Value) String() string {
	switch v.kind {
	case KindInteger:
		return strconv.FormatInt(v.integer, 10)
	case KindText:
		return v.text
	case KindSection:
		return fmt.Sprintf("section(%d)", v.section.Len())
	}
	return "<invalid>"
}

// Interface returns int64, string, or map[string]any.
func (v Value) Interface() any {
	switch v.kind {
	case KindInteger:
		return v.integer
	case KindText:
		return v.text
	case KindSection:
		return v.section.Map()
	}
	return nil
}

func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindInteger:
		return v.integer == o.integer
	case KindText:
		return v.text == o.text
	case KindSection:
		return v.section.Equal(o.section)
	}
	return true
}

func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindInteger:
		return json.Marshal(v.integer)
	case KindText:
		return json.Marshal(v.text)
	case KindSection:
		return v.section.MarshalJSON()
	}
	return nil, fmt.Errorf("cannot marshal value of kind %s", v.kind)
}

// MarshalYAML implements the goccy/go-yaml InterfaceMarshaler.
func (v Value) MarshalYAML() (any, error) {
	switch v.kind {
	case KindInteger:
		return v.integer, nil
	case KindText:
		return v.text, nil
	case KindSection:
		return v.section.MarshalYAML()
	}
	return nil, fmt.Errorf("cannot marshal value of kind %s", v.kind)
}
