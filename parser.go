// parser.go — precedence-climbing expression parser.
//
// OVERVIEW
// --------
// ExpressionParser turns Scanner input plus a compiled Grammar into one AST
// rooted at a top-level expression, using precedence climbing (a generalized
// Pratt algorithm). Nothing about the operator set is hard-coded here: the
// grammar snapshot supplies precedence levels, associativity, arity, the
// postfix set, and alias normalization (see grammar.go).
//
// The climb, parseExpression(minPrecedence):
//
//  1. parseLeadingTerm reads a "left" operand: a prefix unary operator
//     (operand parsed by recursing at the grammar's prefix precedence), an
//     identifier, a number, a string, or a parenthesized sub-expression.
//  2. Loop: peek the next operator, longest-match-first over every known
//     operator text. Stop when nothing matches or the operator's precedence
//     is <= minPrecedence. Otherwise consume it, normalize its alias, and
//     dispatch: ternary "?", call "(", index "[", member "." / "::",
//     postfix, or plain binary. Binary right operands recurse with
//     minPrecedence = own precedence (left-assoc) or own precedence - 1
//     (right-assoc); that single rule makes same-precedence operators fold
//     left by default and chain right only when configured.
//
// Speculative vs committed productions: ParseArrayLiteral and
// ParseMapLiteral return (nil, nil) when their leading delimiter is absent,
// letting a caller try an alternative; once the delimiter is consumed every
// further mismatch is a hard *ParseError. That null-vs-fail split is the
// parser's general convention.
//
// Every built node is reported to the optional NodeManager with its start
// offset (advisory only; see nodemap.go).
//
// Dependencies: grammar.go (compiled operator table), reader.go (Scanner),
// ast.go (node model), errors.go (*ParseError).
package exprlang

import "fmt"

// maxParseDepth bounds expression nesting so adversarial input (deeply
// nested parentheses or calls) cannot exhaust the goroutine stack.
const maxParseDepth = 512

// ExpressionParser parses one expression from a Scanner, driven by an
// immutable Grammar snapshot.
type ExpressionParser struct {
	reader  Scanner
	grammar *Grammar

	// Nodes, when non-nil, receives every built node with its start offset.
	Nodes NodeManager

	depth int
}

// NewExpressionParser creates a parser over reader. A nil grammar selects
// the default grammar.
func NewExpressionParser(reader Scanner, grammar *Grammar) *ExpressionParser {
	if grammar == nil {
		grammar = DefaultGrammar()
	}
	return &ExpressionParser{reader: reader, grammar: grammar}
}

// Parse parses src against grammar (nil for the default) and requires the
// whole input to be consumed.
func Parse(src string, grammar *Grammar) (Node, error) {
	return NewExpressionParser(NewReader(src), grammar).Parse()
}

// Parse parses one full expression and fails on trailing input.
func (p *ExpressionParser) Parse() (Node, error) {
	expr, err := p.ParseExpression(0)
	if err != nil {
		return nil, err
	}
	if !p.reader.EOF() {
		return nil, p.reader.Fail("unexpected trailing input after expression")
	}
	return expr, nil
}

// ParseExpression runs the precedence climb with the given minimum binding
// power. Embedding parsers use this to parse a sub-expression and leave the
// remaining input untouched.
func (p *ExpressionParser) ParseExpression(minPrecedence int) (Node, error) {
	if p.depth >= maxParseDepth {
		return nil, p.reader.Fail("expression nesting too deep")
	}
	p.depth++
	defer func() { p.depth-- }()

	p.reader.SkipWhitespace()
	start := p.reader.Offset()

	left, err := p.parseLeadingTerm()
	if err != nil {
		return nil, err
	}

	for {
		opText, ok := p.peekOperator()
		if !ok {
			return left, nil
		}
		op, _ := p.grammar.Operator(opText)
		if op.Precedence <= minPrecedence {
			return left, nil
		}
		p.reader.ReadToken(opText) // matched by peekOperator; always consumes

		left, err = p.parseTrailingTerm(left, opText, op, start)
		if err != nil {
			return nil, err
		}
	}
}

// peekOperator finds the next operator at the token boundary without
// consuming it, trying all known operator texts longest-first.
func (p *ExpressionParser) peekOperator() (string, bool) {
	for _, text := range p.grammar.Dispatch() {
		if p.reader.PeekToken(text) {
			return text, true
		}
	}
	return "", false
}

// parseLeadingTerm parses the operand a climb starts from.
func (p *ExpressionParser) parseLeadingTerm() (Node, error) {
	p.reader.SkipWhitespace()
	start := p.reader.Offset()

	if opText, ok := p.reader.ReadAnyOf(p.grammar.UnaryDispatch()); ok {
		operand, err := p.ParseExpression(p.grammar.PrefixPrecedence())
		if err != nil {
			return nil, err
		}
		return p.addNode(&Unary{
			Position: PrefixUnary,
			Operator: p.grammar.Canonical(opText),
			Operand:  operand,
		}, start), nil
	}
	if id, ok := p.reader.ReadIdentifier(); ok {
		return p.addNode(&Identifier{Text: id}, start), nil
	}
	if num, ok := p.reader.ReadNumber(); ok {
		return p.addNode(&Literal{Kind: NumberLiteral, Text: num}, start), nil
	}
	str, ok, err := p.reader.ReadString()
	if err != nil {
		return nil, err
	}
	if ok {
		return p.addNode(&Literal{Kind: StringLiteral, Text: str}, start), nil
	}
	if p.reader.ReadToken("(") {
		inner, err := p.ParseExpression(0)
		if err != nil {
			return nil, err
		}
		if err := p.reader.ExpectToken(")"); err != nil {
			return nil, err
		}
		return p.addNode(&Parenthesized{Inner: inner}, start), nil
	}
	return nil, p.reader.Fail("unknown token in expression")
}

// parseTrailingTerm extends left with the operator just consumed.
func (p *ExpressionParser) parseTrailingTerm(left Node, opText string, op Operator, start int) (Node, error) {
	switch {
	case opText == "?":
		return p.parseConditional(left, op, start)
	case opText == "(":
		return p.parseCall(left, start)
	case opText == "[":
		return p.parseElementAccess(left, start)
	case opText == "." || opText == "::":
		name, err := p.reader.ExpectIdentifier("expected identifier as property name")
		if err != nil {
			return nil, err
		}
		return p.addNode(&PropertyAccess{Object: left, Property: name}, start), nil
	case op.IsPostfix:
		return p.addNode(&Unary{
			Position: PostfixUnary,
			Operator: p.grammar.Canonical(opText),
			Operand:  left,
		}, start), nil
	case op.IsBinary:
		minPrec := op.Precedence
		if op.IsRightAssoc {
			minPrec--
		}
		right, err := p.ParseExpression(minPrec)
		if err != nil {
			return nil, err
		}
		return p.addNode(&Binary{
			Operator: p.grammar.Canonical(opText),
			Left:     left,
			Right:    right,
		}, start), nil
	default:
		return nil, p.reader.Fail(fmt.Sprintf("parsing operator %q is not implemented", opText))
	}
}

// parseConditional parses `? whenTrue : whenFalse` after the `?` was
// consumed. whenFalse recurses at ternary precedence - 1 so chained
// ternaries right-associate.
func (p *ExpressionParser) parseConditional(condition Node, op Operator, start int) (Node, error) {
	whenTrue, err := p.ParseExpression(0)
	if err != nil {
		return nil, err
	}
	if err := p.reader.ExpectToken(":"); err != nil {
		return nil, err
	}
	whenFalse, err := p.ParseExpression(op.Precedence - 1)
	if err != nil {
		return nil, err
	}
	return p.addNode(&Conditional{
		Condition: condition,
		WhenTrue:  whenTrue,
		WhenFalse: whenFalse,
	}, start), nil
}

// parseCall parses a comma-separated, possibly empty argument list after
// the `(` was consumed.
func (p *ExpressionParser) parseCall(callee Node, start int) (Node, error) {
	var args []Node
	if !p.reader.ReadToken(")") {
		for {
			arg, err := p.ParseExpression(0)
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if p.reader.ReadToken(",") {
				continue
			}
			if err := p.reader.ExpectToken(")"); err != nil {
				return nil, err
			}
			break
		}
	}
	return p.addNode(&Call{Callee: callee, Args: args}, start), nil
}

// parseElementAccess parses one index sub-expression after the `[` was
// consumed.
func (p *ExpressionParser) parseElementAccess(object Node, start int) (Node, error) {
	index, err := p.ParseExpression(0)
	if err != nil {
		return nil, err
	}
	if err := p.reader.ExpectToken("]"); err != nil {
		return nil, err
	}
	return p.addNode(&ElementAccess{Object: object, Index: index}, start), nil
}

/* ===========================
   Standalone literal productions
   =========================== */

// ParseArrayLiteral speculatively parses `[ expr, ... ]`. Empty startToken
// and endToken default to "[" and "]". If the leading delimiter is absent
// it returns (nil, nil); after the delimiter, mismatches are hard failures.
func (p *ExpressionParser) ParseArrayLiteral(startToken, endToken string) (Node, error) {
	if startToken == "" {
		startToken = "["
	}
	if endToken == "" {
		endToken = "]"
	}
	p.reader.SkipWhitespace()
	start := p.reader.Offset()
	if !p.reader.ReadToken(startToken) {
		return nil, nil
	}
	var items []Node
	if !p.reader.ReadToken(endToken) {
		for {
			item, err := p.ParseExpression(0)
			if err != nil {
				return nil, err
			}
			items = append(items, item)
			if p.reader.ReadToken(",") {
				continue
			}
			if err := p.reader.ExpectToken(endToken); err != nil {
				return nil, err
			}
			break
		}
	}
	return p.addNode(&ArrayLiteral{Items: items}, start), nil
}

// ParseMapLiteral speculatively parses `{ key: value, ... }` where a key is
// a string literal or an identifier. Empty keySeparator, startToken, and
// endToken default to ":", "{", and "}". If the leading delimiter is absent
// it returns (nil, nil); after the delimiter, mismatches are hard failures.
func (p *ExpressionParser) ParseMapLiteral(keySeparator, startToken, endToken string) (Node, error) {
	if keySeparator == "" {
		keySeparator = ":"
	}
	if startToken == "" {
		startToken = "{"
	}
	if endToken == "" {
		endToken = "}"
	}
	p.reader.SkipWhitespace()
	start := p.reader.Offset()
	if !p.reader.ReadToken(startToken) {
		return nil, nil
	}
	var entries []MapEntry
	if !p.reader.ReadToken(endToken) {
		for {
			key, err := p.parseMapKey()
			if err != nil {
				return nil, err
			}
			if err := p.reader.ExpectToken(keySeparator); err != nil {
				return nil, err
			}
			value, err := p.ParseExpression(0)
			if err != nil {
				return nil, err
			}
			entries = append(entries, MapEntry{Key: key, Value: value})
			if p.reader.ReadToken(",") {
				continue
			}
			if err := p.reader.ExpectToken(endToken); err != nil {
				return nil, err
			}
			break
		}
	}
	return p.addNode(&MapLiteral{Entries: entries}, start), nil
}

func (p *ExpressionParser) parseMapKey() (string, error) {
	key, ok, err := p.reader.ReadString()
	if err != nil {
		return "", err
	}
	if ok {
		return key, nil
	}
	if id, ok := p.reader.ReadIdentifier(); ok {
		return id, nil
	}
	return "", p.reader.Fail("expected string literal or identifier as map key")
}

// addNode reports a fully built node to the NodeManager, if any.
func (p *ExpressionParser) addNode(node Node, start int) Node {
	if p.Nodes != nil {
		p.Nodes.AddNode(node, start)
	}
	return node
}
