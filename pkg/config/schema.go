// SPDX-FileCopyrightText: Copyright The Lima Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
	"github.com/invopop/jsonschema"
	jsonschema2 "github.com/santhosh-tekuri/jsonschema/v6"
	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/lima-vm/socksummary/pkg/sscmd"
)

const schemaURL = "https://lima-vm.io/socksummary/config.schema.json"

func toAny[T ~string](values []T) []any {
	result := []any{""}
	for _, v := range values {
		result = append(result, string(v))
	}
	return result
}

func getProp(props *orderedmap.OrderedMap[string, *jsonschema.Schema], key string) *jsonschema.Schema {
	value, ok := props.Get(key)
	if !ok {
		return nil
	}
	return value
}

// Schema returns the JSON schema of the configuration file.
func Schema() ([]byte, error) {
	r := &jsonschema.Reflector{
		AllowAdditionalProperties: false,
	}
	schema := r.Reflect(&Config{})
	schema.ID = schemaURL
	def, ok := schema.Definitions["Config"]
	if !ok {
		return nil, fmt.Errorf("no definition for Config in %v", schema.Definitions)
	}
	properties := def.Properties
	getProp(properties, "filter").Enum = append(toAny(sscmd.Filters), "all", "tcp", "udp", "unix")
	getProp(properties, "logLevel").Enum = toAny(LogLevels)
	getProp(properties, "timeout").Pattern = `^(0|([0-9]+(\.[0-9]+)?(ns|us|µs|ms|s|m|h))+)$`
	return json.MarshalIndent(schema, "", "    ")
}

// ValidateFile validates a configuration file against Schema.
func ValidateFile(file string) error {
	b, err := os.ReadFile(file)
	if err != nil {
		return err
	}
	return ValidateBytes(b)
}

// ValidateBytes validates YAML against Schema, then applies the checks of Validate.
func ValidateBytes(b []byte) error {
	j, err := Schema()
	if err != nil {
		return err
	}
	doc, err := jsonschema2.UnmarshalJSON(bytes.NewReader(j))
	if err != nil {
		return err
	}
	compiler := jsonschema2.NewCompiler()
	if err := compiler.AddResource(schemaURL, doc); err != nil {
		return err
	}
	schema, err := compiler.Compile(schemaURL)
	if err != nil {
		return err
	}
	var y any
	if err := yaml.Unmarshal(b, &y); err != nil {
		return err
	}
	if y == nil {
		y = map[string]any{}
	}
	if err := schema.Validate(y); err != nil {
		return err
	}
	c, err := Unmarshal(b, "validate")
	if err != nil {
		return err
	}
	return Validate(c)
}
