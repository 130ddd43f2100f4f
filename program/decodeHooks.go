package program

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/mitchellh/mapstructure"
)

// Unmarshals a yaml list of programs into the container.
func (c *Container) UnmarshalYAML(unmarshal func(interface{}) error) error {
	// Temporary structure to unmarshal the yaml list
	var unmarshaledYaml []map[string]interface{}
	if err := unmarshal(&unmarshaledYaml); err != nil {
		return err
	}

	for _, yamlEntry := range unmarshaledYaml {
		pi, err := createProgramFromYamlEntry(yamlEntry)
		if err != nil {
			return err
		}
		c.Add(pi)
	}

	return nil
}

// Returns a decodeHook function that can be used to unmarshal programs from a yaml file using mapstructure.
// This supports configuration solutions like spf13/viper that use mapstructure to unmarshal yaml files.
func GetDecodeHook() mapstructure.DecodeHookFunc {
	return func(f reflect.Type, t reflect.Type, yamlEntry interface{}) (interface{}, error) {
		if t == reflect.TypeOf((*ProgramInterface)(nil)).Elem() {
			// If the target type is ProgramInterface, create the correct program type from the yaml entry
			return createProgramFromYamlEntry(yamlEntry)
		}
		// Otherwise, return the yaml entry as is (default behaviour)
		return yamlEntry, nil
	}
}

// Creates a generic program from a yaml entry based on the program "type" (or "Type") field.
func createProgramFromYamlEntry(yamlEntry interface{}) (ProgramInterface, error) {
	m, err := toStringMap(yamlEntry)
	if err != nil {
		return nil, err
	}

	// must check both m["type"] and m["Type"] because some yaml parsers convert to lower case and some don't
	typeStr, ok := m["type"].(string)
	if !ok {
		typeStr, ok = m["Type"].(string)
		if !ok {
			return nil, errors.New("program type field is missing or not a string")
		}
	}
	delete(m, "type")
	delete(m, "Type")

	switch typeStr {
	case "sweep":
		var params SweepParams
		if err := decodeParams(&params, m); err != nil {
			return nil, err
		}
		return NewSweepProgram(params)
	case "hop":
		var params HopParams
		if err := decodeParams(&params, m); err != nil {
			return nil, err
		}
		return NewHopProgram(params)
	case "cycle":
		var params CycleParams
		if err := decodeParams(&params, m); err != nil {
			return nil, err
		}
		return NewCycleProgram(params)
	default:
		return nil, fmt.Errorf("unknown program type: %s", typeStr)
	}
}

// Use mapstructure to unmarshal a yaml entry into program params.
func decodeParams[T any](params *T, m map[string]interface{}) error {
	decoderConfig := &mapstructure.DecoderConfig{
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.TextUnmarshallerHookFunc(), // parses uuids
		),
		TagName:     "yaml",
		ErrorUnused: true,
		Result:      params,
	}
	decoder, err := mapstructure.NewDecoder(decoderConfig)
	if err != nil {
		return err
	}
	return decoder.Decode(m)
}

// yaml.v2 produces map[interface{}]interface{} for nested maps; programs are
// keyed by strings so convert before looking up the type field.
func toStringMap(yamlEntry interface{}) (map[string]interface{}, error) {
	switch m := yamlEntry.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(m))
		for k, v := range m {
			out[k] = v
		}
		return out, nil
	case map[interface{}]interface{}:
		out := make(map[string]interface{}, len(m))
		for k, v := range m {
			key, ok := k.(string)
			if !ok {
				return nil, fmt.Errorf("program key %v is not a string", k)
			}
			out[key] = v
		}
		return out, nil
	}
	return nil, fmt.Errorf("yaml entry cannot be parsed to map[string]interface{}: %v", yamlEntry)
}
