// SPDX-FileCopyrightText: Copyright The Lima Authors
// SPDX-License-Identifier: Apache-2.0

package textutil

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"text/template"

	"github.com/goccy/go-yaml"
)

// ExecuteTemplate executes a text/template template with TemplateFuncMap.
func ExecuteTemplate(tmpl string, args any) ([]byte, error) {
	x, err := template.New("format").Funcs(TemplateFuncMap).Parse(tmpl)
	if err != nil {
		return nil, err
	}
	var b bytes.Buffer
	if err := x.Execute(&b, args); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}

// IndentString adds size spaces to the beginning of each non-empty line.
func IndentString(size int, text string) string {
	prefix := strings.Repeat(" ", size)
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = prefix + line
		}
	}
	return strings.Join(lines, "\n")
}

// TemplateFuncMap is a text/template FuncMap.
var TemplateFuncMap = template.FuncMap{
	"json": func(v any) string {
		var b bytes.Buffer
		enc := json.NewEncoder(&b)
		enc.SetEscapeHTML(false)
		if err := enc.Encode(v); err != nil {
			panic(fmt.Errorf("failed to marshal as JSON: %+v: %w", v, err))
		}
		return strings.TrimSuffix(b.String(), "\n")
	},
	"yaml": func(v any) string {
		b, err := yaml.Marshal(v)
		if err != nil {
			panic(fmt.Errorf("failed to marshal as YAML: %+v: %w", v, err))
		}
		return strings.TrimSuffix(string(b), "\n")
	},
	"indent": func(a ...any) (string, error) {
		switch len(a) {
		case 1:
			s, ok := a[0].(string)
			if !ok {
				return "", errors.New("argument must be a string")
			}
			return IndentString(2, s), nil
		case 2:
			size, ok := a[0].(int)
			if !ok {
				return "", errors.New("optional first argument must be an integer")
			}
			s, ok := a[1].(string)
			if !ok {
				return "", errors.New("last argument must be a string")
			}
			return IndentString(size, s), nil
		}
		return "", errors.New("function takes 1 or 2 arguments")
	},
}

// FuncHelp is help for TemplateFuncMap.
var FuncHelp = []string{
	"json: marshal the argument as JSON",
	"yaml: marshal the argument as YAML",
	"indent <size>: add spaces to beginning of each line",
}
