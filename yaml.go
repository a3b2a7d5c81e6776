// yaml.go — YAML loading for grammar configurations and host models.
//
// Grammars are data, so they are also files: LoadGrammarConfig reads the
// declarative description (unary set, ordered levels, right-assoc set,
// aliases) from YAML, and DumpGrammarConfig writes it back. DecodeModel
// turns a YAML document into a host Value tree (mappings keep their
// document order), which is how the CLI builds evaluation models.
package exprlang

import (
	"fmt"
	"sort"

	"github.com/goccy/go-yaml"
)

type grammarFile struct {
	Unary      []string           `yaml:"unary"`
	Levels     []grammarFileLevel `yaml:"levels"`
	RightAssoc []string           `yaml:"rightAssoc,omitempty"`
	Aliases    map[string]string  `yaml:"aliases,omitempty"`
}

type grammarFileLevel struct {
	Name      string   `yaml:"name"`
	Operators []string `yaml:"operators,omitempty"`
	Binary    bool     `yaml:"binary,omitempty"`
}

// LoadGrammarConfig parses a YAML grammar description.
func LoadGrammarConfig(data []byte) (GrammarConfig, error) {
	var file grammarFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return GrammarConfig{}, fmt.Errorf("grammar file: %w", err)
	}
	config := GrammarConfig{
		UnaryOperators:      file.Unary,
		RightAssocOperators: file.RightAssoc,
		Aliases:             file.Aliases,
	}
	for _, level := range file.Levels {
		config.PrecedenceLevels = append(config.PrecedenceLevels, PrecedenceLevel{
			Name:      level.Name,
			Operators: level.Operators,
			Binary:    level.Binary,
		})
	}
	return config, nil
}

// DumpGrammarConfig renders a grammar configuration as YAML, round-trippable
// through LoadGrammarConfig.
func DumpGrammarConfig(config GrammarConfig) ([]byte, error) {
	file := grammarFile{
		Unary:      config.UnaryOperators,
		RightAssoc: config.RightAssocOperators,
		Aliases:    config.Aliases,
	}
	for _, level := range config.PrecedenceLevels {
		file.Levels = append(file.Levels, grammarFileLevel{
			Name:      level.Name,
			Operators: level.Operators,
			Binary:    level.Binary,
		})
	}
	return yaml.Marshal(file)
}

// DecodeModel parses a YAML document into a host Value tree. Mappings
// preserve document order; numbers become NumberValue whether spelled as
// integers or floats.
func DecodeModel(data []byte) (Value, error) {
	var raw any
	if err := yaml.UnmarshalWithOptions(data, &raw, yaml.UseOrderedMap()); err != nil {
		return Null, fmt.Errorf("model file: %w", err)
	}
	return valueFromYAML(raw)
}

func valueFromYAML(raw any) (Value, error) {
	switch x := raw.(type) {
	case nil:
		return Null, nil
	case bool:
		return Bool(x), nil
	case int:
		return Num(float64(x)), nil
	case int64:
		return Num(float64(x)), nil
	case uint64:
		return Num(float64(x)), nil
	case float64:
		return Num(x), nil
	case string:
		return Str(x), nil
	case []any:
		items := make([]Value, 0, len(x))
		for _, item := range x {
			v, err := valueFromYAML(item)
			if err != nil {
				return Null, err
			}
			items = append(items, v)
		}
		return Arr(items), nil
	case yaml.MapSlice:
		m := NewMapObject()
		for _, item := range x {
			key, ok := item.Key.(string)
			if !ok {
				return Null, fmt.Errorf("model file: non-string map key %v", item.Key)
			}
			v, err := valueFromYAML(item.Value)
			if err != nil {
				return Null, err
			}
			m.Set(key, v)
		}
		return MapVal(m), nil
	case map[string]any:
		m := NewMapObject()
		for _, key := range sortedKeys(x) {
			v, err := valueFromYAML(x[key])
			if err != nil {
				return Null, err
			}
			m.Set(key, v)
		}
		return MapVal(m), nil
	default:
		return Null, fmt.Errorf("model file: unsupported value of type %T", raw)
	}
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	// deterministic fallback when the decoder hands back an unordered map
	sort.Strings(keys)
	return keys
}
