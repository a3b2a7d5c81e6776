// lexer.go — eager, whole-input tokenizer.
//
// Tokenize converts raw text into an ordered token list against a caller-
// supplied operator set. It is independent of the Reader the parser scans
// with; use it where a flat token stream is wanted (diagnostics, tooling).
//
// Operator matching is longest-match-first: when several configured operator
// strings share a prefix ("=", "==", "==="), the longest candidate wins, so
// "===" is never mis-split into "==" followed by "=". Word-like operators
// ("and", "not") only match on a word boundary, so "android" stays one
// identifier.
package exprlang

// TokenKind discriminates Token payloads.
type TokenKind int

const (
	OperatorToken TokenKind = iota
	IdentifierToken
	NumberToken
	StringToken
)

func (k TokenKind) String() string {
	switch k {
	case OperatorToken:
		return "operator"
	case IdentifierToken:
		return "identifier"
	case NumberToken:
		return "number"
	case StringToken:
		return "string"
	default:
		return "token"
	}
}

// Token is one lexical token. Numbers carry their raw lexeme, strings their
// decoded content, identifiers their name, operators the matched operator
// text. Immutable once produced.
type Token struct {
	Kind TokenKind
	Text string
}

// Lexer scans a source string into tokens, eagerly.
type Lexer struct {
	src       string
	cur       int
	operators []string // longest first
	tokens    []Token
}

// NewLexer creates a lexer over src with the given operator set. The
// operator list is copied and reordered longest-first internally.
func NewLexer(src string, operators []string) *Lexer {
	ops := append([]string(nil), operators...)
	sortLongestFirst(ops)
	return &Lexer{src: src, operators: ops}
}

// Tokenize scans the whole input and returns the ordered token list, or a
// *LexError carrying the offending byte offset.
func Tokenize(src string, operators []string) ([]Token, error) {
	return NewLexer(src, operators).Scan()
}

// Scan produces the full token list before returning; no streaming.
func (l *Lexer) Scan() ([]Token, error) {
	for {
		l.skipWhitespace()
		if l.atEnd() {
			return l.tokens, nil
		}
		if err := l.scanToken(); err != nil {
			return nil, err
		}
	}
}

func (l *Lexer) atEnd() bool { return l.cur >= len(l.src) }

func (l *Lexer) skipWhitespace() {
	for !l.atEnd() {
		switch l.src[l.cur] {
		case ' ', '\t', '\r', '\n':
			l.cur++
		default:
			return
		}
	}
}

func (l *Lexer) add(kind TokenKind, text string) {
	l.tokens = append(l.tokens, Token{Kind: kind, Text: text})
}

func (l *Lexer) scanToken() error {
	if op, ok := matchOperator(l.src, l.cur, l.operators); ok {
		l.cur += len(op)
		l.add(OperatorToken, op)
		return nil
	}
	ch := l.src[l.cur]
	switch {
	case isIdentStart(ch):
		start := l.cur
		for !l.atEnd() && isIdentPart(l.src[l.cur]) {
			l.cur++
		}
		l.add(IdentifierToken, l.src[start:l.cur])
		return nil
	case isDigit(ch):
		lexeme, end := scanNumberAt(l.src, l.cur)
		l.cur = end
		l.add(NumberToken, lexeme)
		return nil
	case ch == '"' || ch == '\'':
		content, end, err := scanStringAt(l.src, l.cur)
		if err != nil {
			return err
		}
		l.cur = end
		l.add(StringToken, content)
		return nil
	default:
		return &LexError{Offset: l.cur, Msg: "no token production matches the input"}
	}
}

/* ===========================
   Shared scanning primitives
   =========================== */
// Also used by the Reader (reader.go) so inline scanning and eager
// tokenization agree on literal syntax.

func isDigit(b byte) bool { return b >= '0' && b <= '9' }
func isIdentStart(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || b == '_'
}
func isIdentPart(b byte) bool { return isIdentStart(b) || isDigit(b) }

// matchOperator tries each operator text (assumed longest-first) at src[at:].
// Word-like operators require a word boundary after the match.
func matchOperator(src string, at int, operators []string) (string, bool) {
	for _, op := range operators {
		if !hasPrefixAt(src, at, op) {
			continue
		}
		if isIdentStart(op[0]) {
			end := at + len(op)
			if end < len(src) && isIdentPart(src[end]) {
				continue
			}
		}
		return op, true
	}
	return "", false
}

func hasPrefixAt(src string, at int, prefix string) bool {
	return at+len(prefix) <= len(src) && src[at:at+len(prefix)] == prefix
}

// scanNumberAt reads a decimal numeric lexeme starting at a digit: an
// integer part, an optional fraction (only when the dot is followed by a
// digit, keeping "1...5" intact), and an optional exponent.
func scanNumberAt(src string, at int) (lexeme string, end int) {
	end = at
	for end < len(src) && isDigit(src[end]) {
		end++
	}
	if end+1 < len(src) && src[end] == '.' && isDigit(src[end+1]) {
		end++
		for end < len(src) && isDigit(src[end]) {
			end++
		}
	}
	if end < len(src) && (src[end] == 'e' || src[end] == 'E') {
		mark := end
		end++
		if end < len(src) && (src[end] == '+' || src[end] == '-') {
			end++
		}
		if end < len(src) && isDigit(src[end]) {
			for end < len(src) && isDigit(src[end]) {
				end++
			}
		} else {
			end = mark // not an exponent after all
		}
	}
	return src[at:end], end
}

// scanStringAt reads a single- or double-quoted string literal starting at
// its opening quote and returns the decoded content and the offset just past
// the closing quote.
func scanStringAt(src string, at int) (content string, end int, err error) {
	quote := src[at]
	i := at + 1
	var out []byte
	for i < len(src) {
		ch := src[i]
		if ch == quote {
			return string(out), i + 1, nil
		}
		if ch != '\\' {
			out = append(out, ch)
			i++
			continue
		}
		if i+1 >= len(src) {
			return "", 0, &LexError{Offset: i, Msg: "unfinished escape sequence"}
		}
		esc := src[i+1]
		switch esc {
		case '"', '\'', '\\', '/':
			out = append(out, esc)
		case 'n':
			out = append(out, '\n')
		case 'r':
			out = append(out, '\r')
		case 't':
			out = append(out, '\t')
		case 'b':
			out = append(out, '\b')
		case 'f':
			out = append(out, '\f')
		case '0':
			out = append(out, 0)
		default:
			return "", 0, &LexError{Offset: i, Msg: "invalid escape sequence"}
		}
		i += 2
	}
	return "", 0, &LexError{Offset: at, Msg: "unterminated string literal"}
}
