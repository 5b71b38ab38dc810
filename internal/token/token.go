// Package token defines the fixed token-kind vocabulary produced by
// internal/lexer (spec.md §3 "Token").
package token

import (
	"fmt"

	"github.com/asthra-lang/asthra-core/internal/source"
)

// Kind tags a Token's category. The set is fixed and closed: keywords,
// identifiers, literals, punctuation, operators, delimiters, EOF, and error.
type Kind int

const (
	// Special
	EOF Kind = iota
	Illegal

	// Identifier and literals
	Ident
	IntLiteral
	FloatLiteral
	StringLiteral
	CharLiteral

	// Keywords
	KwPackage
	KwImport
	KwPub
	KwPriv
	KwFn
	KwExtern
	KwStruct
	KwEnum
	KwType
	KwLet
	KwReturn
	KwIf
	KwElse
	KwMatch
	KwSpawn
	KwAwait
	KwAs
	KwUnsafe
	KwTrue
	KwFalse
	KwNone
	KwVoid
	KwUnit
	KwNever
	KwMut

	// Punctuation / delimiters
	LParen
	RParen
	LBrace
	RBrace
	LBracket
	RBracket
	Comma
	Colon
	Semicolon
	Dot
	Arrow    // ->
	FatArrow // =>
	Hash     // #

	// Operators
	Assign
	OrOr
	AndAnd
	EqEq
	NotEq
	Lt
	LtEq
	Gt
	GtEq
	Pipe
	Caret
	Amp
	Shl
	Shr
	Plus
	Minus
	Star
	Slash
	Percent
	Bang
	Tilde
)

var kindNames = map[Kind]string{
	EOF: "EOF", Illegal: "illegal token",
	Ident: "identifier", IntLiteral: "integer literal", FloatLiteral: "float literal",
	StringLiteral: "string literal", CharLiteral: "char literal",
	KwPackage: "'package'", KwImport: "'import'", KwPub: "'pub'", KwPriv: "'priv'",
	KwFn: "'fn'", KwExtern: "'extern'", KwStruct: "'struct'", KwEnum: "'enum'",
	KwType: "'type'", KwLet: "'let'", KwReturn: "'return'", KwIf: "'if'",
	KwElse: "'else'", KwMatch: "'match'", KwSpawn: "'spawn'", KwAwait: "'await'",
	KwAs: "'as'", KwUnsafe: "'unsafe'", KwTrue: "'true'", KwFalse: "'false'",
	KwNone: "'none'", KwVoid: "'void'", KwUnit: "'()'", KwNever: "'never'", KwMut: "'mut'",
	LParen: "'('", RParen: "')'", LBrace: "'{'", RBrace: "'}'",
	LBracket: "'['", RBracket: "']'", Comma: "','", Colon: "':'",
	Semicolon: "';'", Dot: "'.'", Arrow: "'->'", FatArrow: "'=>'", Hash: "'#'",
	Assign: "'='", OrOr: "'||'", AndAnd: "'&&'", EqEq: "'=='", NotEq: "'!='",
	Lt: "'<'", LtEq: "'<='", Gt: "'>'", GtEq: "'>='", Pipe: "'|'", Caret: "'^'",
	Amp: "'&'", Shl: "'<<'", Shr: "'>>'", Plus: "'+'", Minus: "'-'", Star: "'*'",
	Slash: "'/'", Percent: "'%'", Bang: "'!'", Tilde: "'~'",
}

// String returns a human-readable name for the kind, suitable for use in
// "unexpected X, expected Y" parser diagnostics.
func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Keywords maps reserved identifier text to its keyword Kind. All keywords
// are reserved per spec.md §4.2.
var Keywords = map[string]Kind{
	"package": KwPackage, "import": KwImport, "pub": KwPub, "priv": KwPriv,
	"fn": KwFn, "extern": KwExtern, "struct": KwStruct, "enum": KwEnum,
	"type": KwType, "let": KwLet, "return": KwReturn, "if": KwIf, "else": KwElse,
	"match": KwMatch, "spawn": KwSpawn, "await": KwAwait, "as": KwAs,
	"unsafe": KwUnsafe, "true": KwTrue, "false": KwFalse, "none": KwNone,
	"void": KwVoid, "never": KwNever, "mut": KwMut,
}

// Value holds the decoded literal/identifier payload of a Token, in the
// widest internal representation (spec.md §3 "Token").
type Value struct {
	Ident  string
	Int    int64
	Uint   uint64
	Signed bool
	Float  float64
	Str    string
	Char   rune
}

// Token is a lexeme read from source text, tagged with its Kind, source
// Span, and decoded Value where applicable.
type Token struct {
	Kind  Kind
	Text  string
	Span  source.Span
	Value Value
}

// Is reports whether the token has the given kind.
func (t Token) Is(k Kind) bool { return t.Kind == k }

// String renders the token for debug/log output.
func (t Token) String() string {
	if t.Text == "" {
		return t.Kind.String()
	}
	return fmt.Sprintf("%s %q", t.Kind, t.Text)
}
