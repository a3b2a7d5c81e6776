// yaml_test.go
package exprlang

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const caretGrammarYAML = `
unary: ["-"]
levels:
  - name: sum
    operators: ["+", "-"]
    binary: true
  - name: exponent
    operators: ["^"]
    binary: true
  - name: prefix
rightAssoc: ["^"]
aliases:
  "plus": "+"
`

func Test_YAML_LoadGrammarConfig(t *testing.T) {
	config, err := LoadGrammarConfig([]byte(caretGrammarYAML))
	require.NoError(t, err)

	grammar, err := config.Compile()
	require.NoError(t, err)

	node, err := Parse("2^3^2", grammar)
	require.NoError(t, err)
	assert.Equal(t, &Binary{
		Operator: "^",
		Left:     &Literal{Kind: NumberLiteral, Text: "2"},
		Right: &Binary{
			Operator: "^",
			Left:     &Literal{Kind: NumberLiteral, Text: "3"},
			Right:    &Literal{Kind: NumberLiteral, Text: "2"},
		},
	}, node)
}

func Test_YAML_GrammarRoundTrip(t *testing.T) {
	config := DefaultGrammarConfig()
	data, err := DumpGrammarConfig(config)
	require.NoError(t, err)

	reloaded, err := LoadGrammarConfig(data)
	require.NoError(t, err)
	assert.Equal(t, config.UnaryOperators, reloaded.UnaryOperators)
	assert.Equal(t, config.PrecedenceLevels, reloaded.PrecedenceLevels)
	assert.Equal(t, config.RightAssocOperators, reloaded.RightAssocOperators)
	assert.Equal(t, config.Aliases, reloaded.Aliases)

	_, err = reloaded.Compile()
	require.NoError(t, err)
}

func Test_YAML_DecodeModel(t *testing.T) {
	model, err := DecodeModel([]byte(`
name: web
port: 8080
ratio: 0.5
debug: true
tags: [a, b]
limits:
  cpu: 2
  mem: 512
`))
	require.NoError(t, err)
	require.Equal(t, MapValue, model.Tag)

	v, err := EvaluateSource(`limits.mem / limits.cpu`, nil, model)
	require.NoError(t, err)
	assert.Equal(t, Num(256), v)

	v, err = EvaluateSource(`debug && port == 8080`, nil, model)
	require.NoError(t, err)
	assert.Equal(t, Bool(true), v)

	v, err = EvaluateSource(`tags[1]`, nil, model)
	require.NoError(t, err)
	assert.Equal(t, Str("b"), v)
}

func Test_YAML_DecodeModel_BadDocument(t *testing.T) {
	_, err := DecodeModel([]byte("a: [1,"))
	assert.Error(t, err)
}
