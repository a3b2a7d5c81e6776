// reader.go — character-level cursor consumed by the parser.
//
// Reader is the concrete Scanner implementation: an offset cursor over the
// input text exposing peek / consume-if-match / expect / fail primitives.
// Token-matching methods skip leading whitespace themselves, and word-like
// tokens ("and", "not") only match on a word boundary. Speculative reads
// (ReadToken, ReadIdentifier, ReadNumber, ReadString) signal non-match with
// a false result; Expect* and Fail produce a *ParseError tagged with the
// current offset.
package exprlang

import "fmt"

// Scanner is the cursor contract the parser is written against. *Reader is
// the canonical implementation; tests may substitute their own.
type Scanner interface {
	// Offset returns the current byte offset into the input.
	Offset() int
	// EOF reports whether only whitespace remains.
	EOF() bool
	// SkipWhitespace advances past whitespace.
	SkipWhitespace()
	// PeekToken reports whether token matches at the cursor, consuming nothing.
	PeekToken(token string) bool
	// ReadToken consumes token iff it matches.
	ReadToken(token string) bool
	// ExpectToken consumes token or fails.
	ExpectToken(token string) error
	// ReadAnyOf consumes and returns the first matching candidate, in the
	// order given (callers pass candidates longest-first).
	ReadAnyOf(candidates []string) (string, bool)
	// ReadIdentifier consumes an identifier, if one is next.
	ReadIdentifier() (string, bool)
	// ExpectIdentifier consumes an identifier or fails with msg.
	ExpectIdentifier(msg string) (string, error)
	// ReadNumber consumes a numeric literal and returns its raw lexeme.
	ReadNumber() (string, bool)
	// ReadString consumes a string literal and returns its decoded content.
	// A present-but-malformed literal (unterminated, bad escape) is a hard
	// failure, not a non-match.
	ReadString() (string, bool, error)
	// Fail builds a parse failure tagged with the current offset.
	Fail(msg string) error
}

// Reader is an offset cursor over expression source text.
type Reader struct {
	src string
	off int
}

// NewReader creates a Reader positioned at the start of src.
func NewReader(src string) *Reader { return &Reader{src: src} }

// Offset returns the current byte offset into the input.
func (r *Reader) Offset() int { return r.off }

// EOF reports whether only whitespace remains.
func (r *Reader) EOF() bool {
	r.SkipWhitespace()
	return r.off >= len(r.src)
}

// SkipWhitespace advances the cursor past spaces, tabs, and newlines.
func (r *Reader) SkipWhitespace() {
	for r.off < len(r.src) {
		switch r.src[r.off] {
		case ' ', '\t', '\r', '\n':
			r.off++
		default:
			return
		}
	}
}

// matchToken reports whether token matches at the cursor (after whitespace),
// honoring word boundaries for word-like tokens.
func (r *Reader) matchToken(token string) bool {
	r.SkipWhitespace()
	if !hasPrefixAt(r.src, r.off, token) {
		return false
	}
	if len(token) > 0 && isIdentStart(token[0]) {
		end := r.off + len(token)
		if end < len(r.src) && isIdentPart(r.src[end]) {
			return false
		}
	}
	return true
}

// PeekToken reports whether token is next, consuming nothing.
func (r *Reader) PeekToken(token string) bool { return r.matchToken(token) }

// ReadToken consumes token iff it matches.
func (r *Reader) ReadToken(token string) bool {
	if !r.matchToken(token) {
		return false
	}
	r.off += len(token)
	return true
}

// ExpectToken consumes token or fails with the current offset.
func (r *Reader) ExpectToken(token string) error {
	if !r.ReadToken(token) {
		return r.Fail(fmt.Sprintf("expected token %q", token))
	}
	return nil
}

// ReadAnyOf consumes and returns the first matching candidate.
func (r *Reader) ReadAnyOf(candidates []string) (string, bool) {
	for _, c := range candidates {
		if r.ReadToken(c) {
			return c, true
		}
	}
	return "", false
}

// ReadIdentifier consumes an identifier, if one is next.
func (r *Reader) ReadIdentifier() (string, bool) {
	r.SkipWhitespace()
	if r.off >= len(r.src) || !isIdentStart(r.src[r.off]) {
		return "", false
	}
	start := r.off
	for r.off < len(r.src) && isIdentPart(r.src[r.off]) {
		r.off++
	}
	return r.src[start:r.off], true
}

// ExpectIdentifier consumes an identifier or fails with msg.
func (r *Reader) ExpectIdentifier(msg string) (string, error) {
	if id, ok := r.ReadIdentifier(); ok {
		return id, nil
	}
	return "", r.Fail(msg)
}

// ReadNumber consumes a decimal numeric literal and returns its raw lexeme.
func (r *Reader) ReadNumber() (string, bool) {
	r.SkipWhitespace()
	if r.off >= len(r.src) || !isDigit(r.src[r.off]) {
		return "", false
	}
	lexeme, end := scanNumberAt(r.src, r.off)
	r.off = end
	return lexeme, true
}

// ReadString consumes a quoted string literal and returns its decoded
// content. No opening quote is a non-match; a malformed literal is an error.
func (r *Reader) ReadString() (string, bool, error) {
	r.SkipWhitespace()
	if r.off >= len(r.src) || (r.src[r.off] != '"' && r.src[r.off] != '\'') {
		return "", false, nil
	}
	content, end, err := scanStringAt(r.src, r.off)
	if err != nil {
		le := err.(*LexError)
		return "", false, &ParseError{Offset: le.Offset, Msg: le.Msg}
	}
	r.off = end
	return content, true, nil
}

// Fail builds a *ParseError tagged with the current offset.
func (r *Reader) Fail(msg string) error {
	return &ParseError{Offset: r.off, Msg: msg}
}
