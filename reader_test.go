// reader_test.go
package exprlang

import (
	"errors"
	"testing"
)

func Test_Reader_PeekDoesNotConsume(t *testing.T) {
	r := NewReader("  ==x")
	if !r.PeekToken("==") {
		t.Fatalf("PeekToken(==) should match")
	}
	if !r.PeekToken("==") {
		t.Fatalf("PeekToken must not consume")
	}
	if !r.ReadToken("==") {
		t.Fatalf("ReadToken(==) should match")
	}
	if got, ok := r.ReadIdentifier(); !ok || got != "x" {
		t.Fatalf("expected identifier x, got %q (%v)", got, ok)
	}
	if !r.EOF() {
		t.Fatalf("expected EOF")
	}
}

func Test_Reader_WordBoundary(t *testing.T) {
	r := NewReader("android")
	if r.PeekToken("and") {
		t.Fatalf("word operator must not match inside an identifier")
	}
	r = NewReader("and b")
	if !r.ReadToken("and") {
		t.Fatalf("word operator should match on a boundary")
	}
}

func Test_Reader_ReadAnyOf_OrderWins(t *testing.T) {
	r := NewReader("===1")
	// callers pass candidates longest-first; the first match wins
	got, ok := r.ReadAnyOf([]string{"===", "==", "="})
	if !ok || got != "===" {
		t.Fatalf("expected ===, got %q (%v)", got, ok)
	}
}

func Test_Reader_ExpectToken_FailOffset(t *testing.T) {
	r := NewReader("1+2")
	r.ReadNumber()
	err := r.ExpectToken(")")
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("expected *ParseError, got %v", err)
	}
	if perr.Offset != 1 {
		t.Fatalf("expected offset 1, got %d", perr.Offset)
	}
}

func Test_Reader_ReadString(t *testing.T) {
	r := NewReader(`  "a b"`)
	got, ok, err := r.ReadString()
	if err != nil || !ok || got != "a b" {
		t.Fatalf("unexpected result: %q %v %v", got, ok, err)
	}

	// no opening quote: non-match, not an error
	r = NewReader("abc")
	_, ok, err = r.ReadString()
	if ok || err != nil {
		t.Fatalf("expected clean non-match, got %v %v", ok, err)
	}

	// opened but unterminated: hard failure
	r = NewReader(`"abc`)
	_, _, err = r.ReadString()
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("expected *ParseError, got %v", err)
	}
}

func Test_Reader_ReadNumber_LeavesDotAlone(t *testing.T) {
	r := NewReader("1.x")
	got, ok := r.ReadNumber()
	if !ok || got != "1" {
		t.Fatalf("expected lexeme 1, got %q (%v)", got, ok)
	}
	if !r.ReadToken(".") {
		t.Fatalf("dot should remain for member access")
	}
}
