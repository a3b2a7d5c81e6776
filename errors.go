// errors.go — error taxonomy and caret-snippet rendering.
//
// Three synchronous, local error kinds cover the whole pipeline:
//
//   - *LexError   {Offset, Msg} — no token production matched the input.
//   - *ParseError {Offset, Msg} — structural mismatch while parsing.
//   - *EvalError  {Kind, Msg}   — runtime failure while walking the AST.
//
// Offsets are 0-based byte offsets into the source text. The only recovery
// boundary is the caller of Tokenize/Parse/Evaluate; nothing retries.
//
// WrapErrorWithSource turns a lex/parse error into a readable snippet with a
// caret pointing at the offending column:
//
//	PARSE ERROR at 1:5: expected token ")"
//
//	   1 | (1+2
//	     |     ^
//
// Other errors are returned unchanged.
package exprlang

import (
	"fmt"
	"strings"
)

// LexError reports a malformed character sequence at a byte offset.
type LexError struct {
	Offset int
	Msg    string
}

func (e *LexError) Error() string {
	return fmt.Sprintf("lex error at offset %d: %s", e.Offset, e.Msg)
}

// ParseError reports a structural mismatch at a byte offset. It is raised
// synchronously and is not recoverable within a single parse call; there is
// no partial-AST or error-tolerant mode.
type ParseError struct {
	Offset int
	Msg    string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at offset %d: %s", e.Offset, e.Msg)
}

// EvalErrorKind enumerates the evaluation failure classes.
type EvalErrorKind int

const (
	// UndefinedIdentifier: an identifier, property, or map key did not
	// resolve against the host model.
	UndefinedIdentifier EvalErrorKind = iota
	// NotCallable: a call target evaluated to a non-invokable value.
	NotCallable
	// TypeMismatch: an operator was applied to incompatible operand kinds,
	// or to a construct the evaluator does not support.
	TypeMismatch
)

func (k EvalErrorKind) String() string {
	switch k {
	case UndefinedIdentifier:
		return "undefined identifier"
	case NotCallable:
		return "not callable"
	case TypeMismatch:
		return "type mismatch"
	default:
		return "eval error"
	}
}

// EvalError reports an execution-time failure.
type EvalError struct {
	Kind EvalErrorKind
	Msg  string
}

func (e *EvalError) Error() string {
	return fmt.Sprintf("eval error (%s): %s", e.Kind, e.Msg)
}

func evalErrf(kind EvalErrorKind, format string, args ...any) *EvalError {
	return &EvalError{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

/* ===========================
   Caret-snippet rendering
   =========================== */

// WrapErrorWithSource returns an error augmented with a caret-annotated
// snippet of the provided source. It recognizes *LexError and *ParseError
// and leaves all other errors untouched.
func WrapErrorWithSource(err error, src string) error {
	switch e := err.(type) {
	case *LexError:
		return fmt.Errorf("%s", prettyErrorString(src, "LEXICAL ERROR", e.Offset, e.Msg))
	case *ParseError:
		return fmt.Errorf("%s", prettyErrorString(src, "PARSE ERROR", e.Offset, e.Msg))
	default:
		return err
	}
}

// offsetToLineCol converts a 0-based byte offset into 1-based line/column
// coordinates, clamping out-of-range offsets to the source bounds.
func offsetToLineCol(src string, offset int) (int, int) {
	if offset < 0 {
		offset = 0
	}
	if offset > len(src) {
		offset = len(src)
	}
	line := 1 + strings.Count(src[:offset], "\n")
	lastNL := strings.LastIndex(src[:offset], "\n")
	if lastNL < 0 {
		return line, offset + 1
	}
	return line, offset - lastNL
}

// prettyErrorString builds the snippet with a header and a caret. It shows
// at most one previous and one next line when available.
func prettyErrorString(src, header string, offset int, msg string) string {
	line, col := offsetToLineCol(src, offset)
	lines := strings.Split(src, "\n")
	if len(lines) == 0 {
		lines = []string{""}
	}
	if line > len(lines) {
		line = len(lines)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s at %d:%d: %s\n\n", header, line, col, msg)
	if line > 1 {
		fmt.Fprintf(&b, "%4d | %s\n", line-1, lines[line-2])
	}
	fmt.Fprintf(&b, "%4d | %s\n", line, lines[line-1])
	caretPad := col - 1
	if caretPad < 0 {
		caretPad = 0
	}
	fmt.Fprintf(&b, "     | %s^\n", strings.Repeat(" ", caretPad))
	if line < len(lines) {
		fmt.Fprintf(&b, "%4d | %s\n", line+1, lines[line])
	}
	return b.String()
}
