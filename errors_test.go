// errors_test.go
package exprlang

import (
	"strings"
	"testing"
)

func Test_OffsetToLineCol(t *testing.T) {
	src := "ab\ncde\nf"
	cases := []struct {
		offset, line, col int
	}{
		{0, 1, 1},
		{1, 1, 2},
		{3, 2, 1},
		{5, 2, 3},
		{7, 3, 1},
		{99, 3, 2}, // clamped past end
	}
	for _, c := range cases {
		line, col := offsetToLineCol(src, c.offset)
		if line != c.line || col != c.col {
			t.Fatalf("offset %d: want %d:%d, got %d:%d", c.offset, c.line, c.col, line, col)
		}
	}
}

func Test_WrapErrorWithSource_Snippet(t *testing.T) {
	src := "(1+2"
	_, err := Parse(src, nil)
	if err == nil {
		t.Fatalf("expected parse error")
	}
	wrapped := WrapErrorWithSource(err, src)
	msg := wrapped.Error()
	if !strings.Contains(msg, "PARSE ERROR at 1:5") {
		t.Fatalf("missing header/position in:\n%s", msg)
	}
	if !strings.Contains(msg, "   1 | (1+2") {
		t.Fatalf("missing source line in:\n%s", msg)
	}
	if !strings.Contains(msg, "|     ^") {
		t.Fatalf("missing caret in:\n%s", msg)
	}
}

func Test_WrapErrorWithSource_PassThrough(t *testing.T) {
	evalErr := evalErrf(NotCallable, "cannot call number value")
	if got := WrapErrorWithSource(evalErr, "x()"); got != evalErr {
		t.Fatalf("non-parse errors must pass through unchanged")
	}
}

func Test_ErrorStrings(t *testing.T) {
	if got := (&LexError{Offset: 3, Msg: "boom"}).Error(); !strings.Contains(got, "offset 3") {
		t.Fatalf("unexpected: %s", got)
	}
	if got := (&ParseError{Offset: 0, Msg: "boom"}).Error(); !strings.Contains(got, "parse error") {
		t.Fatalf("unexpected: %s", got)
	}
	if got := evalErrf(UndefinedIdentifier, "x").Error(); !strings.Contains(got, "undefined identifier") {
		t.Fatalf("unexpected: %s", got)
	}
}
