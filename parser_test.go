// parser_test.go
package exprlang

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

// --- helpers ---------------------------------------------------------------

func mustParse(t *testing.T, src string) Node {
	t.Helper()
	node, err := Parse(src, nil)
	if err != nil {
		t.Fatalf("Parse error: %v\nsource:\n%s", err, src)
	}
	return node
}

func wantAST(t *testing.T, src string, want Node) {
	t.Helper()
	got := mustParse(t, src)
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("\nsource:\n%s\nwant:\n%#v\ngot:\n%#v\n", src, want, got)
	}
}

func mustFailParse(t *testing.T, src string, substr string) *ParseError {
	t.Helper()
	_, err := Parse(src, nil)
	if err == nil {
		t.Fatalf("expected parse error containing %q, got nil\nsource:\n%s", substr, src)
	}
	if substr != "" && !strings.Contains(err.Error(), substr) {
		t.Fatalf("expected error containing %q, got %v\nsource:\n%s", substr, err, src)
	}
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected *ParseError, got %T (%v)", err, err)
	}
	return parseErr
}

func num(text string) *Literal { return &Literal{Kind: NumberLiteral, Text: text} }
func id(text string) *Identifier { return &Identifier{Text: text} }

// --- tests -----------------------------------------------------------------

func Test_Parser_Literals_And_Id(t *testing.T) {
	wantAST(t, "42", num("42"))
	wantAST(t, "3.5", num("3.5"))
	wantAST(t, `"hi"`, &Literal{Kind: StringLiteral, Text: "hi"})
	wantAST(t, "x", id("x"))
	wantAST(t, "(x)", &Parenthesized{Inner: id("x")})
}

func Test_Parser_PrecedenceClimb(t *testing.T) {
	// "1+2*3" → +(1, *(2, 3))
	wantAST(t, "1+2*3", &Binary{
		Operator: "+",
		Left:     num("1"),
		Right:    &Binary{Operator: "*", Left: num("2"), Right: num("3")},
	})
}

func Test_Parser_LeftFoldDefaultAssociativity(t *testing.T) {
	// "1-2-3" → -(-(1, 2), 3)
	wantAST(t, "1-2-3", &Binary{
		Operator: "-",
		Left:     &Binary{Operator: "-", Left: num("1"), Right: num("2")},
		Right:    num("3"),
	})
}

func Test_Parser_RightAssociativity(t *testing.T) {
	// "2**3**2" → **(2, **(3, 2))
	wantAST(t, "2**3**2", &Binary{
		Operator: "**",
		Left:     num("2"),
		Right:    &Binary{Operator: "**", Left: num("3"), Right: num("2")},
	})
}

func Test_Parser_TernaryRightChaining(t *testing.T) {
	// "a?b:c?d:e" → cond(a, b, cond(c, d, e))
	wantAST(t, "a?b:c?d:e", &Conditional{
		Condition: id("a"),
		WhenTrue:  id("b"),
		WhenFalse: &Conditional{
			Condition: id("c"),
			WhenTrue:  id("d"),
			WhenFalse: id("e"),
		},
	})
}

func Test_Parser_AliasNormalization(t *testing.T) {
	spelled := mustParse(t, "1 and 2")
	canonical := mustParse(t, "1 && 2")
	if !reflect.DeepEqual(spelled, canonical) {
		t.Fatalf("alias ASTs differ:\n%#v\n%#v", spelled, canonical)
	}
	if op := spelled.(*Binary).Operator; op != "&&" {
		t.Fatalf("expected normalized operator &&, got %q", op)
	}
	wantAST(t, "1 === 2", &Binary{Operator: "==", Left: num("1"), Right: num("2")})
	wantAST(t, "not x", &Unary{Position: PrefixUnary, Operator: "!", Operand: id("x")})
}

func Test_Parser_UnaryBindsTighterThanBinary(t *testing.T) {
	// "-1+2" → +(-(1), 2)
	wantAST(t, "-1+2", &Binary{
		Operator: "+",
		Left:     &Unary{Position: PrefixUnary, Operator: "-", Operand: num("1")},
		Right:    num("2"),
	})
	// but unary is looser than property access: "-a.b" → -(a.b)
	wantAST(t, "-a.b", &Unary{
		Position: PrefixUnary,
		Operator: "-",
		Operand:  &PropertyAccess{Object: id("a"), Property: "b"},
	})
}

func Test_Parser_Postfix(t *testing.T) {
	wantAST(t, "x++", &Unary{Position: PostfixUnary, Operator: "++", Operand: id("x")})
	wantAST(t, "x++ + 1", &Binary{
		Operator: "+",
		Left:     &Unary{Position: PostfixUnary, Operator: "++", Operand: id("x")},
		Right:    num("1"),
	})
}

func Test_Parser_Call(t *testing.T) {
	// "f(1,2)" → call(f, [1, 2])
	wantAST(t, "f(1,2)", &Call{Callee: id("f"), Args: []Node{num("1"), num("2")}})
	wantAST(t, "f()", &Call{Callee: id("f")})
	wantAST(t, "f(g(1))", &Call{
		Callee: id("f"),
		Args:   []Node{&Call{Callee: id("g"), Args: []Node{num("1")}}},
	})
}

func Test_Parser_MemberChain(t *testing.T) {
	// "a.b.c" → get(get(a, b), c)
	wantAST(t, "a.b.c", &PropertyAccess{
		Object:   &PropertyAccess{Object: id("a"), Property: "b"},
		Property: "c",
	})
	wantAST(t, "a::b", &PropertyAccess{Object: id("a"), Property: "b"})
	mustFailParse(t, "a.1", "expected identifier as property name")
}

func Test_Parser_ElementAccess(t *testing.T) {
	wantAST(t, "xs[0]", &ElementAccess{Object: id("xs"), Index: num("0")})
	wantAST(t, `m["k"].v`, &PropertyAccess{
		Object: &ElementAccess{
			Object: id("m"),
			Index:  &Literal{Kind: StringLiteral, Text: "k"},
		},
		Property: "v",
	})
	mustFailParse(t, "xs[0", `expected token "]"`)
}

func Test_Parser_OffsetAccurateErrors(t *testing.T) {
	perr := mustFailParse(t, "(1+2", `expected token ")"`)
	if perr.Offset != 4 {
		t.Fatalf("expected offset 4 (just past input end), got %d", perr.Offset)
	}
	perr = mustFailParse(t, "1 + ", "unknown token in expression")
	if perr.Offset != 4 {
		t.Fatalf("expected offset 4, got %d", perr.Offset)
	}
}

func Test_Parser_TernaryMissingColon(t *testing.T) {
	mustFailParse(t, "a?b", `expected token ":"`)
}

func Test_Parser_TrailingInput(t *testing.T) {
	mustFailParse(t, "1 2", "unexpected trailing input")
}

func Test_Parser_Reconfigurability(t *testing.T) {
	config := DefaultGrammarConfig().WithLevelOperators("exponent", "^")
	grammar, err := config.Compile()
	if err != nil {
		t.Fatalf("Compile error: %v", err)
	}
	node, err := Parse("2^3", grammar)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	want := &Binary{Operator: "^", Left: num("2"), Right: num("3")}
	if !reflect.DeepEqual(node, want) {
		t.Fatalf("want %#v, got %#v", want, node)
	}
	// the default grammar is untouched: "^" stays unknown there
	if _, err := Parse("2^3", nil); err == nil {
		t.Fatalf("expected default grammar to reject ^")
	}
	// and "**" is gone from the derived grammar
	if _, err := Parse("2**3", grammar); err == nil {
		t.Fatalf("expected derived grammar to reject **")
	}
}

func Test_Parser_UnimplementedOperator(t *testing.T) {
	grammar, err := NewGrammarBuilder().
		Level("weird", "@").
		Level(PrefixLevelName).
		Compile()
	if err != nil {
		t.Fatalf("Compile error: %v", err)
	}
	p := NewExpressionParser(NewReader("1@2"), grammar)
	_, err = p.Parse()
	if err == nil || !strings.Contains(err.Error(), "not implemented") {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func Test_Parser_ArrayLiteral_TryProduction(t *testing.T) {
	p := NewExpressionParser(NewReader("x"), nil)
	node, err := p.ParseArrayLiteral("", "")
	if err != nil || node != nil {
		t.Fatalf("expected (nil, nil) on absent delimiter, got (%v, %v)", node, err)
	}

	p = NewExpressionParser(NewReader("[1, x, f(2)]"), nil)
	node, err = p.ParseArrayLiteral("", "")
	if err != nil {
		t.Fatalf("ParseArrayLiteral error: %v", err)
	}
	want := &ArrayLiteral{Items: []Node{
		num("1"),
		id("x"),
		&Call{Callee: id("f"), Args: []Node{num("2")}},
	}}
	if !reflect.DeepEqual(node, want) {
		t.Fatalf("want %#v, got %#v", want, node)
	}

	// committed production fails hard
	p = NewExpressionParser(NewReader("[1, 2"), nil)
	if _, err := p.ParseArrayLiteral("", ""); err == nil {
		t.Fatalf("expected hard failure on unterminated array literal")
	}
}

func Test_Parser_MapLiteral_TryProduction(t *testing.T) {
	p := NewExpressionParser(NewReader("1+2"), nil)
	node, err := p.ParseMapLiteral("", "", "")
	if err != nil || node != nil {
		t.Fatalf("expected (nil, nil) on absent delimiter, got (%v, %v)", node, err)
	}

	p = NewExpressionParser(NewReader(`{a: 1, "b c": x}`), nil)
	node, err = p.ParseMapLiteral("", "", "")
	if err != nil {
		t.Fatalf("ParseMapLiteral error: %v", err)
	}
	want := &MapLiteral{Entries: []MapEntry{
		{Key: "a", Value: num("1")},
		{Key: "b c", Value: id("x")},
	}}
	if !reflect.DeepEqual(node, want) {
		t.Fatalf("want %#v, got %#v", want, node)
	}

	p = NewExpressionParser(NewReader("{a 1}"), nil)
	if _, err := p.ParseMapLiteral("", "", ""); err == nil {
		t.Fatalf("expected hard failure on missing separator")
	}
	p = NewExpressionParser(NewReader("{1: 2}"), nil)
	if _, err := p.ParseMapLiteral("", "", ""); err == nil {
		t.Fatalf("expected hard failure on invalid key")
	}
}

func Test_Parser_MapLiteral_CustomSeparator(t *testing.T) {
	p := NewExpressionParser(NewReader("{a = 1}"), nil)
	node, err := p.ParseMapLiteral("=", "", "")
	if err != nil {
		t.Fatalf("ParseMapLiteral error: %v", err)
	}
	want := &MapLiteral{Entries: []MapEntry{{Key: "a", Value: num("1")}}}
	if !reflect.DeepEqual(node, want) {
		t.Fatalf("want %#v, got %#v", want, node)
	}
}

func Test_Parser_NodeMap(t *testing.T) {
	nodes := NewNodeMap()
	p := NewExpressionParser(NewReader("ab + 2"), nil)
	p.Nodes = nodes
	root, err := p.Parse()
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	// children are reported before parents
	built := nodes.Nodes()
	if len(built) != 3 || built[2] != root {
		t.Fatalf("expected 3 nodes with the root last, got %v", built)
	}
	if start, ok := nodes.StartOf(root); !ok || start != 0 {
		t.Fatalf("expected root start 0, got %d (%v)", start, ok)
	}
	right := root.(*Binary).Right
	if start, ok := nodes.StartOf(right); !ok || start != 5 {
		t.Fatalf("expected right operand start 5, got %d (%v)", start, ok)
	}
}

func Test_Parser_DeepNestingGuard(t *testing.T) {
	src := strings.Repeat("(", 10_000) + "1" + strings.Repeat(")", 10_000)
	_, err := Parse(src, nil)
	if err == nil || !strings.Contains(err.Error(), "nesting too deep") {
		t.Fatalf("expected nesting guard error, got %v", err)
	}
}
