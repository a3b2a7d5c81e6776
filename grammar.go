// grammar.go — data-driven operator grammar.
//
// The operator grammar — precedence levels, associativity, arity, aliasing —
// is configuration, not code. A GrammarConfig is the raw declarative
// description; Compile derives an immutable *Grammar snapshot holding the
// operator table the parser dispatches on. Reconfiguring always produces a
// new snapshot, never mutates one a parse may be using, so compiled grammars
// are safely shareable across concurrent parses.
//
// Precedence is the 1-based row index of an operator's level: a higher index
// binds tighter, and operators on the same level share precedence. Two level
// names are special:
//
//   - "prefix"  has no operators; its index anchors the recursion depth used
//     when parsing the operand of a prefix unary operator.
//   - "postfix" marks its operators as postfix-only.
package exprlang

import (
	"fmt"
	"sort"
)

// Special level names recognized by Compile.
const (
	PrefixLevelName  = "prefix"
	PostfixLevelName = "postfix"
)

// PrecedenceLevel is one row of the operator table. Rows are ordered from
// loosest to tightest binding.
type PrecedenceLevel struct {
	Name      string
	Operators []string
	Binary    bool
}

// GrammarConfig is the raw, declarative grammar description. Treat values as
// read-only once compiled; derive variants with WithLevelOperators or a
// GrammarBuilder.
type GrammarConfig struct {
	UnaryOperators      []string
	PrecedenceLevels    []PrecedenceLevel
	RightAssocOperators []string
	Aliases             map[string]string
}

// Operator is one compiled operator record.
type Operator struct {
	Text         string
	Precedence   int
	IsBinary     bool
	IsRightAssoc bool
	IsPostfix    bool
}

// Grammar is the compiled, immutable operator table consumed by the parser.
type Grammar struct {
	operators        map[string]Operator
	dispatch         []string // all operator texts, longest first
	unaryDispatch    []string // unary operator texts, longest first
	aliases          map[string]string
	prefixPrecedence int
}

// Compile derives an immutable Grammar snapshot from the configuration.
// It fails when the configuration lacks a "prefix" level.
func (c GrammarConfig) Compile() (*Grammar, error) {
	g := &Grammar{
		operators: make(map[string]Operator),
		aliases:   make(map[string]string, len(c.Aliases)),
	}
	for from, to := range c.Aliases {
		g.aliases[from] = to
	}

	rightAssoc := make(map[string]bool, len(c.RightAssocOperators))
	for _, op := range c.RightAssocOperators {
		rightAssoc[op] = true
	}

	for i, level := range c.PrecedenceLevels {
		prec := i + 1 // 1-based: later rows bind tighter
		if level.Name == PrefixLevelName {
			g.prefixPrecedence = prec
			continue
		}
		for _, text := range level.Operators {
			g.operators[text] = Operator{
				Text:         text,
				Precedence:   prec,
				IsBinary:     level.Binary,
				IsRightAssoc: rightAssoc[text],
				IsPostfix:    level.Name == PostfixLevelName,
			}
		}
	}
	if g.prefixPrecedence == 0 {
		return nil, fmt.Errorf("grammar: no %q precedence level configured", PrefixLevelName)
	}

	g.dispatch = make([]string, 0, len(g.operators))
	for text := range g.operators {
		g.dispatch = append(g.dispatch, text)
	}
	sortLongestFirst(g.dispatch)

	g.unaryDispatch = append(g.unaryDispatch, c.UnaryOperators...)
	sortLongestFirst(g.unaryDispatch)
	return g, nil
}

// MustCompile is Compile that panics on configuration errors. Intended for
// grammars defined as package-level literals.
func (c GrammarConfig) MustCompile() *Grammar {
	g, err := c.Compile()
	if err != nil {
		panic(err)
	}
	return g
}

// WithLevelOperators returns a deep copy of the configuration with the named
// level's operator set replaced. The receiver is left untouched, so grammars
// already compiled from it are unaffected.
func (c GrammarConfig) WithLevelOperators(levelName string, operators ...string) GrammarConfig {
	out := c.clone()
	for i := range out.PrecedenceLevels {
		if out.PrecedenceLevels[i].Name == levelName {
			out.PrecedenceLevels[i].Operators = append([]string(nil), operators...)
		}
	}
	return out
}

func (c GrammarConfig) clone() GrammarConfig {
	out := GrammarConfig{
		UnaryOperators:      append([]string(nil), c.UnaryOperators...),
		RightAssocOperators: append([]string(nil), c.RightAssocOperators...),
		Aliases:             make(map[string]string, len(c.Aliases)),
	}
	for from, to := range c.Aliases {
		out.Aliases[from] = to
	}
	out.PrecedenceLevels = make([]PrecedenceLevel, len(c.PrecedenceLevels))
	for i, level := range c.PrecedenceLevels {
		out.PrecedenceLevels[i] = PrecedenceLevel{
			Name:      level.Name,
			Operators: append([]string(nil), level.Operators...),
			Binary:    level.Binary,
		}
	}
	return out
}

// Operator looks up the compiled record for an operator text (raw spelling,
// before alias normalization).
func (g *Grammar) Operator(text string) (Operator, bool) {
	op, ok := g.operators[text]
	return op, ok
}

// Canonical resolves an operator spelling to its canonical text
// (e.g. "and" → "&&", "===" → "=="). Unaliased spellings map to themselves.
func (g *Grammar) Canonical(text string) string {
	if to, ok := g.aliases[text]; ok {
		return to
	}
	return text
}

// Dispatch returns all known operator texts sorted by descending length, the
// order the parser tries them in at a token boundary (longest-match-first).
// Callers must not mutate the returned slice.
func (g *Grammar) Dispatch() []string { return g.dispatch }

// UnaryDispatch returns the prefix unary operator texts, longest first.
// Callers must not mutate the returned slice.
func (g *Grammar) UnaryDispatch() []string { return g.unaryDispatch }

// PrefixPrecedence returns the 1-based index of the "prefix" level.
func (g *Grammar) PrefixPrecedence() int { return g.prefixPrecedence }

// LexerOperators returns every operator text the grammar knows about —
// configured level operators, unary operators — plus the structural
// delimiters the parser consumes inline (closers, separators, map braces).
// Suitable as the operator set for Tokenize.
func (g *Grammar) LexerOperators() []string {
	seen := make(map[string]bool)
	var out []string
	add := func(texts ...string) {
		for _, t := range texts {
			if !seen[t] {
				seen[t] = true
				out = append(out, t)
			}
		}
	}
	add(g.dispatch...)
	add(g.unaryDispatch...)
	add(")", "]", "}", "{", ":", ",")
	sortLongestFirst(out)
	return out
}

// sortLongestFirst orders operator texts by descending length, breaking ties
// lexicographically so dispatch order is deterministic.
func sortLongestFirst(texts []string) {
	sort.Slice(texts, func(i, j int) bool {
		if len(texts[i]) != len(texts[j]) {
			return len(texts[i]) > len(texts[j])
		}
		return texts[i] < texts[j]
	})
}

/* ===========================
   Builder
   =========================== */

// GrammarBuilder accumulates a GrammarConfig level by level. The zero value
// is ready to use; methods return the receiver for chaining.
type GrammarBuilder struct {
	config GrammarConfig
}

// NewGrammarBuilder returns an empty builder.
func NewGrammarBuilder() *GrammarBuilder { return &GrammarBuilder{} }

// Unary adds prefix unary operators.
func (b *GrammarBuilder) Unary(operators ...string) *GrammarBuilder {
	b.config.UnaryOperators = append(b.config.UnaryOperators, operators...)
	return b
}

// BinaryLevel appends a binary precedence level (later calls bind tighter).
func (b *GrammarBuilder) BinaryLevel(name string, operators ...string) *GrammarBuilder {
	return b.level(name, true, operators)
}

// Level appends a non-binary precedence level (ternary, call, access, or the
// "prefix"/"postfix" anchors).
func (b *GrammarBuilder) Level(name string, operators ...string) *GrammarBuilder {
	return b.level(name, false, operators)
}

func (b *GrammarBuilder) level(name string, binary bool, operators []string) *GrammarBuilder {
	b.config.PrecedenceLevels = append(b.config.PrecedenceLevels, PrecedenceLevel{
		Name:      name,
		Operators: operators,
		Binary:    binary,
	})
	return b
}

// RightAssoc marks operators as right-associative.
func (b *GrammarBuilder) RightAssoc(operators ...string) *GrammarBuilder {
	b.config.RightAssocOperators = append(b.config.RightAssocOperators, operators...)
	return b
}

// Alias maps a surface spelling to its canonical operator text.
func (b *GrammarBuilder) Alias(from, to string) *GrammarBuilder {
	if b.config.Aliases == nil {
		b.config.Aliases = make(map[string]string)
	}
	b.config.Aliases[from] = to
	return b
}

// Config returns a deep copy of the accumulated configuration.
func (b *GrammarBuilder) Config() GrammarConfig { return b.config.clone() }

// Compile compiles the accumulated configuration into a Grammar snapshot.
func (b *GrammarBuilder) Compile() (*Grammar, error) { return b.config.Compile() }

/* ===========================
   Default grammar
   =========================== */

// DefaultGrammarConfig returns the canonical default grammar description.
func DefaultGrammarConfig() GrammarConfig {
	return NewGrammarBuilder().
		Unary("!", "not", "+", "-", "~").
		BinaryLevel("assignment", "=", "+=", "-=", "*=", "/=", "<<=", ">>=").
		Level("conditional", "?").
		BinaryLevel("or", "||", "or").
		BinaryLevel("and", "&&", "and").
		BinaryLevel("comparison", ">=", "!=", "===", "!==", "==", "<=", ">", "<").
		BinaryLevel("sum", "+", "-").
		BinaryLevel("product", "*", "/").
		BinaryLevel("exponent", "**").
		BinaryLevel("shift", "<<").
		BinaryLevel("range", "...").
		Level(PrefixLevelName).
		Level(PostfixLevelName, "++", "--").
		Level("call", "(").
		Level("propertyAccess", ".", "::", "[").
		RightAssoc("**").
		Alias("===", "==").
		Alias("!==", "!=").
		Alias("not", "!").
		Alias("and", "&&").
		Alias("or", "||").
		Config()
}

// DefaultGrammar compiles DefaultGrammarConfig. Each call returns a fresh
// snapshot; callers typically compile once and share it.
func DefaultGrammar() *Grammar {
	return DefaultGrammarConfig().MustCompile()
}
