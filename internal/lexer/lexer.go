// Package lexer turns source bytes into a token stream. It is a streaming,
// single-pass lexer with one-token lookahead, modeled on
// internal/tunascript/lexer.go's match-rule table but generalized from
// TunaScript's small operator set to Asthra's full keyword/operator/literal
// grammar (spec.md §4.1).
package lexer

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/asthra-lang/asthra-core/internal/diag"
	"github.com/asthra-lang/asthra-core/internal/source"
	"github.com/asthra-lang/asthra-core/internal/token"
)

// Lexer is a streaming, single-pass scanner over one file's source text.
// next() and peek() are the only two operations spec.md §4.1 names; peek is
// implemented via a single-slot cache as the spec requires.
type Lexer struct {
	file   *source.File
	src    string // NFC-normalized source text
	offset int
	diags  *diag.Bag

	cached    *token.Token
	cacheSet  bool
}

// New creates a Lexer over the given file, reporting lex-phase diagnostics
// into diags.
func New(f *source.File, diags *diag.Bag) *Lexer {
	return &Lexer{
		file:  f,
		src:   norm.NFC.String(f.Text),
		diags: diags,
	}
}

// Peek returns the next token without consuming it.
func (l *Lexer) Peek() token.Token {
	if !l.cacheSet {
		t := l.scan()
		l.cached = &t
		l.cacheSet = true
	}
	return *l.cached
}

// Next returns the next token, consuming it. Next is idempotent with respect
// to position only once EOF has been reached (spec.md §4.1).
func (l *Lexer) Next() token.Token {
	if l.cacheSet {
		t := *l.cached
		l.cacheSet = false
		l.cached = nil
		return t
	}
	return l.scan()
}

func (l *Lexer) span(start, length int) source.Span {
	return source.Span{Start: source.NewPosition(l.file, start), Len: length}
}

func (l *Lexer) errf(start, length int, code diag.Code, format string, a ...interface{}) token.Token {
	sp := l.span(start, length)
	l.diags.Errorf(code, sp, format, a...)
	return token.Token{Kind: token.Illegal, Span: sp, Text: l.src[start:min(start+length, len(l.src))]}
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// scan consumes and classifies the next token, skipping whitespace and
// comments first.
func (l *Lexer) scan() token.Token {
	l.skipTrivia()

	if l.offset >= len(l.src) {
		return token.Token{Kind: token.EOF, Span: l.span(l.offset, 0)}
	}

	start := l.offset
	r, size := utf8.DecodeRuneInString(l.src[l.offset:])

	switch {
	case isIdentStart(r):
		return l.scanIdent(start)
	case unicode.IsDigit(r):
		return l.scanNumber(start)
	case r == '"':
		return l.scanString(start)
	case r == '\'':
		return l.scanChar(start)
	}

	// operators/punctuation, longest-match-first via explicit lookahead.
	two := ""
	if l.offset+size < len(l.src) {
		r2, size2 := utf8.DecodeRuneInString(l.src[l.offset+size:])
		two = string(r) + string(r2)
		_ = size2
	}

	if k, ok := twoCharOps[two]; ok {
		l.offset += size + utf8.RuneLen([]rune(two)[1])
		return token.Token{Kind: k, Text: two, Span: l.span(start, l.offset-start)}
	}

	if k, ok := oneCharOps[r]; ok {
		l.offset += size
		return token.Token{Kind: k, Text: string(r), Span: l.span(start, size)}
	}

	l.offset += size
	return l.errf(start, size, diag.CodeIllegalByte, "illegal character %q", r)
}

var twoCharOps = map[string]token.Kind{
	"->": token.Arrow, "=>": token.FatArrow,
	"==": token.EqEq, "!=": token.NotEq,
	"<=": token.LtEq, ">=": token.GtEq,
	"&&": token.AndAnd, "||": token.OrOr,
	"<<": token.Shl, ">>": token.Shr,
}

var oneCharOps = map[rune]token.Kind{
	'(': token.LParen, ')': token.RParen,
	'{': token.LBrace, '}': token.RBrace,
	'[': token.LBracket, ']': token.RBracket,
	',': token.Comma, ':': token.Colon, ';': token.Semicolon, '.': token.Dot,
	'#': token.Hash,
	'=': token.Assign, '<': token.Lt, '>': token.Gt,
	'|': token.Pipe, '^': token.Caret, '&': token.Amp,
	'+': token.Plus, '-': token.Minus, '*': token.Star, '/': token.Slash,
	'%': token.Percent, '!': token.Bang, '~': token.Tilde,
}

func isIdentStart(r rune) bool {
	return unicode.IsLetter(r) || r == '_'
}

func isIdentCont(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}

// skipTrivia skips whitespace, "//" line comments, and nested "/* */" block
// comments. Comments are skipped tokens, never represented in the stream
// (spec.md §4.1).
func (l *Lexer) skipTrivia() {
	for l.offset < len(l.src) {
		r, size := utf8.DecodeRuneInString(l.src[l.offset:])
		switch {
		case unicode.IsSpace(r):
			l.offset += size
		case strings.HasPrefix(l.src[l.offset:], "//"):
			for l.offset < len(l.src) && l.src[l.offset] != '\n' {
				l.offset++
			}
		case strings.HasPrefix(l.src[l.offset:], "/*"):
			start := l.offset
			l.offset += 2
			depth := 1
			for l.offset < len(l.src) && depth > 0 {
				if strings.HasPrefix(l.src[l.offset:], "/*") {
					depth++
					l.offset += 2
				} else if strings.HasPrefix(l.src[l.offset:], "*/") {
					depth--
					l.offset += 2
				} else {
					_, sz := utf8.DecodeRuneInString(l.src[l.offset:])
					l.offset += sz
				}
			}
			if depth > 0 {
				l.diags.Errorf(diag.CodeUnterminatedBlock, l.span(start, l.offset-start), "unterminated block comment")
			}
		default:
			return
		}
	}
}

func (l *Lexer) scanIdent(start int) token.Token {
	for l.offset < len(l.src) {
		r, size := utf8.DecodeRuneInString(l.src[l.offset:])
		if !isIdentCont(r) {
			break
		}
		l.offset += size
	}
	text := l.src[start:l.offset]
	if kw, ok := token.Keywords[text]; ok {
		return token.Token{Kind: kw, Text: text, Span: l.span(start, l.offset-start)}
	}
	return token.Token{
		Kind: token.Ident, Text: text, Span: l.span(start, l.offset-start),
		Value: token.Value{Ident: text},
	}
}

// scanNumber recognizes decimal, hex (0x), octal (0o), binary (0b), and
// floating literals with an optional exponent (spec.md §4.1). Underscores
// are accepted as digit separators and discarded. Overflow of the widest
// internal representation (uint64) produces an error token.
func (l *Lexer) scanNumber(start int) token.Token {
	base := 10
	digitsStart := start

	if strings.HasPrefix(l.src[l.offset:], "0x") || strings.HasPrefix(l.src[l.offset:], "0X") {
		base = 16
		l.offset += 2
		digitsStart = l.offset
		l.consumeDigits(isHexDigit)
	} else if strings.HasPrefix(l.src[l.offset:], "0o") || strings.HasPrefix(l.src[l.offset:], "0O") {
		base = 8
		l.offset += 2
		digitsStart = l.offset
		l.consumeDigits(isOctDigit)
	} else if strings.HasPrefix(l.src[l.offset:], "0b") || strings.HasPrefix(l.src[l.offset:], "0B") {
		base = 2
		l.offset += 2
		digitsStart = l.offset
		l.consumeDigits(isBinDigit)
	} else {
		l.consumeDigits(unicode.IsDigit)

		isFloat := false
		if l.offset < len(l.src) && l.src[l.offset] == '.' && l.offset+1 < len(l.src) && unicode.IsDigit(rune(l.src[l.offset+1])) {
			isFloat = true
			l.offset++
			l.consumeDigits(unicode.IsDigit)
		}
		if l.offset < len(l.src) && (l.src[l.offset] == 'e' || l.src[l.offset] == 'E') {
			save := l.offset
			l.offset++
			if l.offset < len(l.src) && (l.src[l.offset] == '+' || l.src[l.offset] == '-') {
				l.offset++
			}
			if l.offset < len(l.src) && unicode.IsDigit(rune(l.src[l.offset])) {
				isFloat = true
				l.consumeDigits(unicode.IsDigit)
			} else {
				l.offset = save
			}
		}

		text := l.src[start:l.offset]
		if isFloat {
			clean := strings.ReplaceAll(text, "_", "")
			f := parseFloat(clean)
			return token.Token{Kind: token.FloatLiteral, Text: text, Span: l.span(start, l.offset-start), Value: token.Value{Float: f}}
		}

		clean := strings.ReplaceAll(text, "_", "")
		u, err := parseUintBase(clean, 10)
		if err != nil {
			return l.errf(start, l.offset-start, diag.CodeNumericOverflow, "integer literal %q overflows 64-bit representation", text)
		}
		return token.Token{Kind: token.IntLiteral, Text: text, Span: l.span(start, l.offset-start), Value: token.Value{Uint: u}}
	}

	text := l.src[start:l.offset]
	digits := strings.ReplaceAll(l.src[digitsStart:l.offset], "_", "")
	if digits == "" {
		return l.errf(start, l.offset-start, diag.CodeIllegalByte, "malformed numeric literal %q", text)
	}
	u, err := parseUintBase(digits, base)
	if err != nil {
		return l.errf(start, l.offset-start, diag.CodeNumericOverflow, "integer literal %q overflows 64-bit representation", text)
	}
	return token.Token{Kind: token.IntLiteral, Text: text, Span: l.span(start, l.offset-start), Value: token.Value{Uint: u}}
}

func (l *Lexer) consumeDigits(pred func(rune) bool) {
	for l.offset < len(l.src) {
		r, size := utf8.DecodeRuneInString(l.src[l.offset:])
		if r == '_' {
			l.offset += size
			continue
		}
		if !pred(r) {
			break
		}
		l.offset += size
	}
}

func isHexDigit(r rune) bool {
	return unicode.IsDigit(r) || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}
func isOctDigit(r rune) bool { return r >= '0' && r <= '7' }
func isBinDigit(r rune) bool { return r == '0' || r == '1' }

func parseUintBase(s string, base int) (uint64, error) {
	var v uint64
	for _, r := range s {
		var d uint64
		switch {
		case r >= '0' && r <= '9':
			d = uint64(r - '0')
		case r >= 'a' && r <= 'f':
			d = uint64(r-'a') + 10
		case r >= 'A' && r <= 'F':
			d = uint64(r-'A') + 10
		}
		if d >= uint64(base) {
			return 0, fmt.Errorf("invalid digit %q for base %d", r, base)
		}
		if v > (^uint64(0)-d)/uint64(base) {
			return 0, fmt.Errorf("overflow")
		}
		v = v*uint64(base) + d
	}
	return v, nil
}

func parseFloat(s string) float64 {
	var whole, frac, exp string
	mantissa := s
	if idx := strings.IndexAny(s, "eE"); idx >= 0 {
		mantissa = s[:idx]
		exp = s[idx+1:]
	}
	if idx := strings.IndexByte(mantissa, '.'); idx >= 0 {
		whole = mantissa[:idx]
		frac = mantissa[idx+1:]
	} else {
		whole = mantissa
	}

	var v float64
	for _, r := range whole {
		v = v*10 + float64(r-'0')
	}
	scale := 0.1
	for _, r := range frac {
		v += float64(r-'0') * scale
		scale /= 10
	}
	if exp != "" {
		neg := false
		e := exp
		if len(e) > 0 && (e[0] == '+' || e[0] == '-') {
			neg = e[0] == '-'
			e = e[1:]
		}
		var ev float64
		for _, r := range e {
			ev = ev*10 + float64(r-'0')
		}
		if neg {
			ev = -ev
		}
		v *= pow10(ev)
	}
	return v
}

func pow10(e float64) float64 {
	result := 1.0
	neg := e < 0
	if neg {
		e = -e
	}
	for i := 0; i < int(e); i++ {
		result *= 10
	}
	if neg {
		return 1 / result
	}
	return result
}

// scanString recognizes a double-quoted string with standard escapes and
// \u{HHHH}.
func (l *Lexer) scanString(start int) token.Token {
	l.offset++ // opening quote
	var sb strings.Builder
	for {
		if l.offset >= len(l.src) {
			return l.errf(start, l.offset-start, diag.CodeUnterminatedLit, "unterminated string literal")
		}
		r, size := utf8.DecodeRuneInString(l.src[l.offset:])
		if r == '"' {
			l.offset += size
			break
		}
		if r == '\n' {
			return l.errf(start, l.offset-start, diag.CodeUnterminatedLit, "unterminated string literal")
		}
		if r == '\\' {
			decoded, n, ok := l.decodeEscape(l.offset)
			if !ok {
				return l.errf(l.offset, n, diag.CodeMalformedEscape, "malformed escape sequence")
			}
			sb.WriteRune(decoded)
			l.offset += n
			continue
		}
		sb.WriteRune(r)
		l.offset += size
	}
	text := l.src[start:l.offset]
	return token.Token{Kind: token.StringLiteral, Text: text, Span: l.span(start, l.offset-start), Value: token.Value{Str: sb.String()}}
}

func (l *Lexer) scanChar(start int) token.Token {
	l.offset++ // opening quote
	if l.offset >= len(l.src) {
		return l.errf(start, l.offset-start, diag.CodeUnterminatedLit, "unterminated char literal")
	}
	var r rune
	if l.src[l.offset] == '\\' {
		decoded, n, ok := l.decodeEscape(l.offset)
		if !ok {
			return l.errf(l.offset, n, diag.CodeMalformedEscape, "malformed escape sequence")
		}
		r = decoded
		l.offset += n
	} else {
		var size int
		r, size = utf8.DecodeRuneInString(l.src[l.offset:])
		l.offset += size
	}
	if l.offset >= len(l.src) || l.src[l.offset] != '\'' {
		return l.errf(start, l.offset-start, diag.CodeUnterminatedLit, "unterminated char literal")
	}
	l.offset++
	text := l.src[start:l.offset]
	return token.Token{Kind: token.CharLiteral, Text: text, Span: l.span(start, l.offset-start), Value: token.Value{Char: r}}
}

// decodeEscape decodes one backslash escape starting at offset (which must
// point at the '\'). It returns the decoded rune, the number of bytes
// consumed, and whether the escape was well-formed.
func (l *Lexer) decodeEscape(offset int) (rune, int, bool) {
	if offset+1 >= len(l.src) {
		return 0, len(l.src) - offset, false
	}
	esc := l.src[offset+1]
	switch esc {
	case 'n':
		return '\n', 2, true
	case 't':
		return '\t', 2, true
	case 'r':
		return '\r', 2, true
	case '\\':
		return '\\', 2, true
	case '\'':
		return '\'', 2, true
	case '"':
		return '"', 2, true
	case '0':
		return 0, 2, true
	case 'u':
		rest := l.src[offset+2:]
		if !strings.HasPrefix(rest, "{") {
			return 0, 2, false
		}
		end := strings.IndexByte(rest, '}')
		if end < 0 {
			return 0, len(rest) + 2, false
		}
		hex := rest[1:end]
		v, err := parseUintBase(hex, 16)
		if err != nil || v > 0x10FFFF {
			return 0, end + 3, false
		}
		return rune(v), end + 3, true
	default:
		return 0, 2, false
	}
}
