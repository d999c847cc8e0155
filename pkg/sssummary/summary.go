// SPDX-FileCopyrightText: Copyright The Lima Authors
// SPDX-License-Identifier: Apache-2.0

package sssummary

import (
	"github.com/goccy/go-yaml"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Summary maps keys to values in insertion order. Keys are unique.
type Summary struct {
	m *orderedmap.OrderedMap[string, Value]
}

func New() *Summary {
	return &Summary{m: orderedmap.New[string, Value]()}
}

// Set stores v under key. An existing key keeps its position and gets the new value.
func (s *Summary) Set(key string, v Value) {
	s.m.Set(key, v)
}

func (s *Summary) Get(key string) (Value, bool) {
	if s == nil {
		return Value{}, false
	}
	return s.m.Get(key)
}

func (s *Summary) Len() int {
	if s == nil {
		return 0
	}
	return s.m.Len()
}

func (s *Summary) Keys() []string {
	keys := make([]string, 0, s.Len())
	s.Range(func(key string, _ Value) bool {
		keys = append(keys, key)
		return true
	})
	return keys
}

// Range calls f for each entry in insertion order until f returns false.
func (s *Summary) Range(f func(key string, v Value) bool) {
	if s == nil {
		return
	}
	for pair := s.m.Oldest(); pair != nil; pair = pair.Next() {
		if !f(pair.Key, pair.Value) {
			return
		}
	}
}

// Map converts the summary to plain Go values, for templates and comparisons.
func (s *Summary) Map() map[string]any {
	res := make(map[string]any, s.Len())
	s.Range(func(key string, v Value) bool {
		res[key] = v.Interface()
		return true
	})
	return res
}

// Equal compares keys, values and order.
func (s *Summary) Equal(o *Summary) bool {
	if s.Len() != o.Len() {
		return false
	}
	if s.Len() == 0 {
		return true
	}
	a, b := s.m.Oldest(), o.m.Oldest()
	for ; a != nil && b != nil; a, b = a.Next(), b.Next() {
		if a.Key != b.Key || !a.Value.Equal(b.Value) {
			return false
		}
	}
	return a == nil && b == nil
}

func (s *Summary) MarshalJSON() ([]byte, error) {
	if s == nil {
		return []byte("null"), nil
	}
	return s.m.MarshalJSON()
}

// MarshalYAML returns a yaml.MapSlice so that goccy/go-yaml keeps the order.
func (s *Summary) MarshalYAML() (any, error) {
	res := yaml.MapSlice{}
	var err error
	s.Range(func(key string, v Value) bool {
		var item any
		item, err = v.MarshalYAML()
		if err != nil {
			return false
		}
		res = append(res, yaml.MapItem{Key: key, Value: item})
		return true
	})
	return res, err
}
