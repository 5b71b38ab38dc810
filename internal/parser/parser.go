// Package parser implements a recursive-descent parser for a PEG-style
// grammar with no ambiguity: one production per construct, all keywords
// reserved, deliberate precedence. The parser never consults the type system
// or symbol table — tokens map to AST shape only; semantic validity is left
// entirely to internal/sema (strict separation between syntax and meaning).
//
// Grounded on internal/tunascript/parser.go's token-driven nud/led
// expression parser, generalized from TunaScript's operator-only grammar to
// a full declaration/statement/expression grammar with explicit type
// annotations and panic-mode error recovery.
package parser

import (
	"github.com/asthra-lang/asthra-core/internal/ast"
	"github.com/asthra-lang/asthra-core/internal/diag"
	"github.com/asthra-lang/asthra-core/internal/lexer"
	"github.com/asthra-lang/asthra-core/internal/source"
	"github.com/asthra-lang/asthra-core/internal/token"
)

// Parser holds the token source and diagnostic sink for one translation
// unit's Parse call.
type Parser struct {
	lx    *lexer.Lexer
	diags *diag.Bag
	file  *source.File

	// panicked suppresses further diagnostics until the next successful
	// synchronization point, so one malformed construct produces one
	// diagnostic instead of a cascade.
	panicked bool

	// last is the most recently consumed token, kept so postfix productions
	// can recover the span of an identifier already consumed by expectIdent.
	last token.Token
}

// New creates a Parser reading from lx, reporting into diags.
func New(lx *lexer.Lexer, file *source.File, diags *diag.Bag) *Parser {
	return &Parser{lx: lx, diags: diags, file: file}
}

// ParseUnit parses one translation unit, rooted at a package declaration. It
// always returns an AST — possibly incomplete — plus whatever diagnostics
// were collected; the caller checks diags.HasErrors().
func (p *Parser) ParseUnit() *ast.PackageDecl {
	start := p.lx.Peek().Span

	p.expect(token.KwPackage, "expected 'package' declaration at start of file")
	name := "<unknown>"
	if n, ok := p.expectIdent("expected package name"); ok {
		name = n
	}
	p.expect(token.Semicolon, "expected ';' after package declaration")

	pkg := ast.NewPackageDecl(start, ast.Pub, name)

	for !p.at(token.EOF) {
		if p.at(token.KwImport) {
			pkg.Imports = append(pkg.Imports, p.parseImport())
			p.panicked = false
			continue
		}
		d := p.parseDecl()
		if d != nil {
			pkg.Decls = append(pkg.Decls, d)
		}
		p.panicked = false
	}

	return pkg
}

// --- token stream helpers ---------------------------------------------------

func (p *Parser) at(k token.Kind) bool {
	return p.lx.Peek().Kind == k
}

func (p *Parser) atAny(ks ...token.Kind) bool {
	cur := p.lx.Peek().Kind
	for _, k := range ks {
		if cur == k {
			return true
		}
	}
	return false
}

func (p *Parser) advance() token.Token {
	t := p.lx.Next()
	p.last = t
	return t
}

// errorf reports a diagnostic unless the parser is already in panic mode,
// then enters panic mode. This is what turns a run of cascading mismatches
// into a single reported error.
func (p *Parser) errorf(code diag.Code, span source.Span, format string, a ...interface{}) {
	if p.panicked {
		return
	}
	p.diags.Errorf(code, span, format, a...)
	p.panicked = true
}

// expect consumes a token of kind k, or reports one diagnostic and leaves the
// stream positioned where it was (the caller decides whether to synchronize).
func (p *Parser) expect(k token.Kind, msg string) (token.Token, bool) {
	if p.at(k) {
		t := p.advance()
		return t, true
	}
	got := p.lx.Peek()
	p.errorf(diag.CodeUnexpectedToken, got.Span, "%s (found %s)", msg, got.Kind)
	return got, false
}

func (p *Parser) expectIdent(msg string) (string, bool) {
	if p.at(token.Ident) {
		t := p.advance()
		return t.Text, true
	}
	got := p.lx.Peek()
	p.errorf(diag.CodeUnexpectedToken, got.Span, "%s (found %s)", msg, got.Kind)
	return "", false
}

// sync skips tokens until a synchronization point: a statement terminator
// ';', a block boundary '{'/'}', or a top-level keyword.
func (p *Parser) sync() {
	for {
		switch p.lx.Peek().Kind {
		case token.EOF, token.Semicolon, token.LBrace, token.RBrace,
			token.KwFn, token.KwStruct, token.KwEnum, token.KwType, token.KwImport, token.KwExtern,
			token.KwPub, token.KwPriv:
			return
		}
		p.advance()
	}
	// unreachable
}

func (p *Parser) visibility() ast.Visibility {
	if p.at(token.KwPub) {
		p.advance()
		return ast.Pub
	}
	if p.at(token.KwPriv) {
		p.advance()
		return ast.Priv
	}
	got := p.lx.Peek()
	p.errorf(diag.CodeMissingToken, got.Span, "expected explicit visibility ('pub' or 'priv')")
	return ast.Priv
}

// --- declarations ------------------------------------------------------------

func (p *Parser) parseImport() *ast.ImportDecl {
	start := p.advance().Span // 'import'
	var path string
	if p.at(token.StringLiteral) {
		t := p.advance()
		path = t.Value.Str
	} else {
		p.errorf(diag.CodeUnexpectedToken, p.lx.Peek().Span, "expected import path string")
	}
	end, _ := p.expect(token.Semicolon, "expected ';' after import")
	return ast.NewImportDecl(start.Join(end.Span), path)
}

func (p *Parser) parseDecl() ast.Decl {
	vis := p.visibility()
	switch p.lx.Peek().Kind {
	case token.KwFn:
		return p.parseFunc(vis)
	case token.KwExtern:
		return p.parseExternFunc(vis)
	case token.KwStruct:
		return p.parseStruct(vis)
	case token.KwEnum:
		return p.parseEnum(vis)
	case token.KwType:
		return p.parseTypeAlias(vis)
	default:
		got := p.lx.Peek()
		p.errorf(diag.CodeDisallowedConstruct, got.Span,
			"expected a declaration (fn, struct, enum, type, or extern fn), found %s", got.Kind)
		p.sync()
		return nil
	}
}

func (p *Parser) parseFunc(vis ast.Visibility) *ast.FuncDecl {
	start := p.advance().Span // 'fn'
	name, _ := p.expectIdent("expected function name")

	d := ast.NewFuncDecl(start, vis, name)
	d.Params = p.parseParamList(false)

	p.expect(token.Arrow, "expected '->' before return type")
	d.ReturnType = p.parseType()

	if p.at(token.LBrace) {
		d.Body = p.parseBlockExpr()
	} else {
		p.expect(token.Semicolon, "expected function body or ';'")
	}
	return d
}

// parseExternFunc parses `extern "ABI" fn name(params) -> Ret;`. Parameters
// may carry a leading #[transfer_full] / #[transfer_none] / #[borrow]
// ownership annotation, required for any pointer-typed parameter.
func (p *Parser) parseExternFunc(vis ast.Visibility) *ast.FuncDecl {
	start := p.advance().Span // 'extern'
	abi := "C"
	if p.at(token.StringLiteral) {
		t := p.advance()
		abi = t.Value.Str
	}
	p.expect(token.KwFn, "expected 'fn' after extern ABI string")
	name, _ := p.expectIdent("expected function name")

	d := ast.NewFuncDecl(start, vis, name)
	d.Extern = true
	d.ABI = abi
	d.Params = p.parseParamList(true)

	p.expect(token.Arrow, "expected '->' before return type")
	d.ReturnType = p.parseType()
	p.expect(token.Semicolon, "expected ';' after extern function declaration")
	return d
}

func (p *Parser) parseParamList(allowOwnership bool) []ast.Param {
	p.expect(token.LParen, "expected '(' to start parameter list")
	var params []ast.Param
	for !p.at(token.RParen) && !p.at(token.EOF) {
		var ownership string
		if allowOwnership && p.at(token.Hash) {
			ownership = p.parseOwnershipAnnotation()
		}
		start := p.lx.Peek().Span
		mutable := false
		if p.at(token.KwMut) {
			p.advance()
			mutable = true
		}
		name, _ := p.expectIdent("expected parameter name")
		p.expect(token.Colon, "expected ':' before parameter type")
		typ := p.parseType()
		if allowOwnership && ownership == "" && isPointerLikeType(typ) {
			p.errorf(diag.CodeMissingOwnership, typ.Span(),
				"extern parameter %q of pointer/slice type requires an explicit ownership annotation (#[transfer_full], #[transfer_none], or #[borrow])", name)
		}
		params = append(params, ast.Param{Name: name, Type: typ, Span: start.Join(typ.Span()), Ownership: ownership, Mutable: mutable})
		if p.at(token.Comma) {
			p.advance()
			continue
		}
		break
	}
	p.expect(token.RParen, "expected ')' to close parameter list")
	return params
}

// isPointerLikeType reports whether a syntactic type is a pointer or slice,
// the two FFI constructs spec.md §4.3 requires an ownership annotation on.
func isPointerLikeType(t ast.TypeExpr) bool {
	switch t.(type) {
	case *ast.PointerTypeExpr, *ast.SliceTypeExpr:
		return true
	}
	return false
}

// parseOwnershipAnnotation parses `#[transfer_full]`, `#[transfer_none]`, or
// `#[borrow]` preceding an extern parameter, required for FFI pointer safety.
func (p *Parser) parseOwnershipAnnotation() string {
	p.advance() // '#'
	p.expect(token.LBracket, "expected '[' after '#'")
	name, _ := p.expectIdent("expected ownership annotation name")
	p.expect(token.RBracket, "expected ']' to close annotation")
	return name
}

func (p *Parser) parseStruct(vis ast.Visibility) *ast.StructDecl {
	start := p.advance().Span // 'struct'
	name, _ := p.expectIdent("expected struct name")
	d := ast.NewStructDecl(start, vis, name)

	p.expect(token.LBrace, "expected '{' to start struct body")
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		fstart := p.lx.Peek().Span
		fname, _ := p.expectIdent("expected field name")
		p.expect(token.Colon, "expected ':' before field type")
		ftype := p.parseType()
		d.Fields = append(d.Fields, ast.StructField{Name: fname, Type: ftype, Span: fstart.Join(ftype.Span())})
		if p.at(token.Comma) {
			p.advance()
			continue
		}
		break
	}
	p.expect(token.RBrace, "expected '}' to close struct body")
	return d
}

func (p *Parser) parseEnum(vis ast.Visibility) *ast.EnumDecl {
	start := p.advance().Span // 'enum'
	name, _ := p.expectIdent("expected enum name")
	d := ast.NewEnumDecl(start, vis, name)

	p.expect(token.LBrace, "expected '{' to start enum body")
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		vstart := p.lx.Peek().Span
		vname, _ := p.expectIdent("expected variant name")
		var payload ast.TypeExpr
		if p.at(token.LParen) {
			p.advance()
			payload = p.parseType()
			p.expect(token.RParen, "expected ')' to close variant payload")
		}
		end := vstart
		if payload != nil {
			end = payload.Span()
		}
		d.Variants = append(d.Variants, ast.EnumVariant{Name: vname, Payload: payload, Span: vstart.Join(end)})
		if p.at(token.Comma) {
			p.advance()
			continue
		}
		break
	}
	p.expect(token.RBrace, "expected '}' to close enum body")
	return d
}

func (p *Parser) parseTypeAlias(vis ast.Visibility) *ast.TypeAliasDecl {
	start := p.advance().Span // 'type'
	name, _ := p.expectIdent("expected type alias name")
	p.expect(token.Assign, "expected '=' in type alias")
	alias := p.parseType()
	p.expect(token.Semicolon, "expected ';' after type alias")
	d := ast.NewTypeAliasDecl(start.Join(alias.Span()), vis, name)
	d.Alias = alias
	return d
}

// --- type expressions ---------------------------------------------------------

func (p *Parser) parseType() ast.TypeExpr {
	switch p.lx.Peek().Kind {
	case token.Star:
		start := p.advance().Span
		mutable := false
		if p.at(token.KwMut) {
			p.advance()
			mutable = true
		}
		pointee := p.parseType()
		return ast.NewPointerTypeExpr(start.Join(pointee.Span()), pointee, mutable)

	case token.LBracket:
		start := p.advance().Span
		if p.at(token.RBracket) {
			p.advance()
			mutable := false
			if p.at(token.KwMut) {
				p.advance()
				mutable = true
			}
			elem := p.parseType()
			return ast.NewSliceTypeExpr(start.Join(elem.Span()), elem, mutable)
		}
		elem := p.parseType()
		p.expect(token.Semicolon, "expected ';' before array length")
		length := int64(0)
		if p.at(token.IntLiteral) {
			t := p.advance()
			length = int64(t.Value.Uint)
		} else {
			p.errorf(diag.CodeUnexpectedToken, p.lx.Peek().Span, "expected array length")
		}
		end, _ := p.expect(token.RBracket, "expected ']' to close array type")
		return ast.NewArrayTypeExpr(start.Join(end.Span), elem, length)

	case token.KwFn:
		start := p.advance().Span
		p.expect(token.LParen, "expected '(' in function type")
		var params []ast.TypeExpr
		for !p.at(token.RParen) && !p.at(token.EOF) {
			params = append(params, p.parseType())
			if p.at(token.Comma) {
				p.advance()
				continue
			}
			break
		}
		p.expect(token.RParen, "expected ')' to close function type parameters")
		p.expect(token.Arrow, "expected '->' in function type")
		ret := p.parseType()
		return ast.NewFuncTypeExpr(start.Join(ret.Span()), params, ret)

	case token.Ident, token.KwVoid, token.KwUnit, token.KwNever:
		tok := p.advance()
		start := tok.Span
		name := tokenTypeName(tok)
		var args []ast.TypeExpr
		end := start
		if p.at(token.Lt) {
			p.advance()
			for !p.at(token.Gt) && !p.at(token.EOF) {
				args = append(args, p.parseType())
				if p.at(token.Comma) {
					p.advance()
					continue
				}
				break
			}
			gt, _ := p.expect(token.Gt, "expected '>' to close generic arguments")
			end = gt.Span
		}
		return ast.NewNamedTypeExpr(start.Join(end), name, args)

	default:
		got := p.lx.Peek()
		p.errorf(diag.CodeUnexpectedToken, got.Span, "expected a type, found %s", got.Kind)
		p.sync()
		return ast.NewNamedTypeExpr(got.Span, "<error>", nil)
	}
}

// tokenTypeName recovers a named type's spelling from its token: plain
// identifiers carry it in Text; the void/unit/never keywords do not.
func tokenTypeName(t token.Token) string {
	if t.Text != "" {
		return t.Text
	}
	switch t.Kind {
	case token.KwVoid:
		return "void"
	case token.KwUnit:
		return "unit"
	case token.KwNever:
		return "never"
	}
	return t.Kind.String()
}

// --- statements ----------------------------------------------------------------

// parseBlockExpr parses `{ stmts... }`, where the final item may be a bare
// expression with no trailing ';' — that expression becomes the block's
// Value (spec.md §4.3 expression-orientation). Every other item is a
// statement and always ends in ';' (or, for a nested block-as-statement, in
// its own closing '}').
func (p *Parser) parseBlockExpr() *ast.BlockExpr {
	start, _ := p.expect(token.LBrace, "expected '{' to start block")
	var stmts []ast.Stmt
	var value ast.Expr
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		switch p.lx.Peek().Kind {
		case token.KwLet:
			stmts = append(stmts, p.parseLetStmt())
		case token.KwReturn:
			stmts = append(stmts, p.parseReturnStmt())
		case token.LBrace:
			bstart := p.lx.Peek().Span
			b := p.parseBlockExpr()
			stmts = append(stmts, ast.NewBlockStmt(bstart.Join(b.Span()), b))
		default:
			estart := p.lx.Peek().Span
			e := p.parseExpr()
			switch {
			case p.at(token.Assign):
				p.advance()
				rhs := p.parseExpr()
				end, _ := p.expect(token.Semicolon, "expected ';' after assignment")
				stmts = append(stmts, ast.NewAssignStmt(estart.Join(end.Span), e, rhs))
			case p.at(token.Semicolon):
				end := p.advance()
				stmts = append(stmts, ast.NewExprStmt(estart.Join(end.Span), e))
			case p.at(token.RBrace):
				value = e
			default:
				got := p.lx.Peek()
				p.errorf(diag.CodeUnexpectedToken, got.Span, "expected ';' after expression statement (found %s)", got.Kind)
				p.sync()
			}
		}
		p.panicked = false
	}
	end, _ := p.expect(token.RBrace, "expected '}' to close block")
	return ast.NewBlockExpr(start.Span.Join(end.Span), stmts, value)
}

func (p *Parser) parseLetStmt() ast.Stmt {
	start := p.advance().Span // 'let'
	mutable := false
	if p.at(token.KwMut) {
		p.advance()
		mutable = true
	}
	name, _ := p.expectIdent("expected variable name")
	p.expect(token.Colon, "expected ':' — let bindings require an explicit type annotation")
	typ := p.parseType()

	var init ast.Expr
	if p.at(token.Assign) {
		p.advance()
		init = p.parseExpr()
	}
	end, _ := p.expect(token.Semicolon, "expected ';' after let binding")
	return ast.NewLetStmt(start.Join(end.Span), name, typ, init, mutable)
}

// parseReturnStmt parses `return expr;`. `return ();` for void functions
// falls out naturally: parsePrimary already turns a bare `()` into a
// UnitExpr.
func (p *Parser) parseReturnStmt() ast.Stmt {
	start := p.advance().Span // 'return'
	value := p.parseExpr()
	end, _ := p.expect(token.Semicolon, "expected ';' after return statement")
	return ast.NewReturnStmt(start.Join(end.Span), value)
}

// --- expressions: precedence climbing -------------------------------------------
//
// Levels, loosest to tightest: logical or, logical and, comparison
// (non-associative — chaining is a diagnostic, not a parse), bitwise or,
// bitwise xor, bitwise and, shift, additive, multiplicative, unary, postfix.

func (p *Parser) parseExpr() ast.Expr {
	return p.parseOr()
}

func (p *Parser) parseOr() ast.Expr {
	left := p.parseAnd()
	for p.at(token.OrOr) {
		p.advance()
		right := p.parseAnd()
		left = ast.NewBinaryExpr(left.Span().Join(right.Span()), ast.BinOr, left, right)
	}
	return left
}

func (p *Parser) parseAnd() ast.Expr {
	left := p.parseComparison()
	for p.at(token.AndAnd) {
		p.advance()
		right := p.parseComparison()
		left = ast.NewBinaryExpr(left.Span().Join(right.Span()), ast.BinAnd, left, right)
	}
	return left
}

var comparisonOps = map[token.Kind]ast.BinaryOp{
	token.EqEq: ast.BinEq, token.NotEq: ast.BinNe,
	token.Lt: ast.BinLt, token.LtEq: ast.BinLe,
	token.Gt: ast.BinGt, token.GtEq: ast.BinGe,
}

// parseComparison parses a single comparison, then rejects a second one
// chained directly after it (`a < b < c`): comparisons do not associate, so
// chaining is a diagnostic rather than left-nesting silently.
func (p *Parser) parseComparison() ast.Expr {
	left := p.parseBitOr()
	if op, ok := comparisonOps[p.lx.Peek().Kind]; ok {
		p.advance()
		right := p.parseBitOr()
		left = ast.NewBinaryExpr(left.Span().Join(right.Span()), op, left, right)
		if _, again := comparisonOps[p.lx.Peek().Kind]; again {
			got := p.lx.Peek()
			p.errorf(diag.CodeChainedComparison, got.Span, "comparison operators do not chain; parenthesize instead")
			p.sync()
		}
	}
	return left
}

func (p *Parser) parseBitOr() ast.Expr {
	left := p.parseBitXor()
	for p.at(token.Pipe) {
		p.advance()
		right := p.parseBitXor()
		left = ast.NewBinaryExpr(left.Span().Join(right.Span()), ast.BinBitOr, left, right)
	}
	return left
}

func (p *Parser) parseBitXor() ast.Expr {
	left := p.parseBitAnd()
	for p.at(token.Caret) {
		p.advance()
		right := p.parseBitAnd()
		left = ast.NewBinaryExpr(left.Span().Join(right.Span()), ast.BinBitXor, left, right)
	}
	return left
}

func (p *Parser) parseBitAnd() ast.Expr {
	left := p.parseShift()
	for p.at(token.Amp) {
		p.advance()
		right := p.parseShift()
		left = ast.NewBinaryExpr(left.Span().Join(right.Span()), ast.BinBitAnd, left, right)
	}
	return left
}

func (p *Parser) parseShift() ast.Expr {
	left := p.parseAdditive()
	for p.atAny(token.Shl, token.Shr) {
		t := p.advance()
		op := ast.BinShl
		if t.Kind == token.Shr {
			op = ast.BinShr
		}
		right := p.parseAdditive()
		left = ast.NewBinaryExpr(left.Span().Join(right.Span()), op, left, right)
	}
	return left
}

func (p *Parser) parseAdditive() ast.Expr {
	left := p.parseMultiplicative()
	for p.atAny(token.Plus, token.Minus) {
		t := p.advance()
		op := ast.BinAdd
		if t.Kind == token.Minus {
			op = ast.BinSub
		}
		right := p.parseMultiplicative()
		left = ast.NewBinaryExpr(left.Span().Join(right.Span()), op, left, right)
	}
	return left
}

func (p *Parser) parseMultiplicative() ast.Expr {
	left := p.parseUnary()
	for p.atAny(token.Star, token.Slash, token.Percent) {
		t := p.advance()
		var op ast.BinaryOp
		switch t.Kind {
		case token.Star:
			op = ast.BinMul
		case token.Slash:
			op = ast.BinDiv
		default:
			op = ast.BinMod
		}
		right := p.parseUnary()
		left = ast.NewBinaryExpr(left.Span().Join(right.Span()), op, left, right)
	}
	return left
}

func (p *Parser) parseUnary() ast.Expr {
	switch p.lx.Peek().Kind {
	case token.Minus:
		t := p.advance()
		operand := p.parseUnary()
		return ast.NewUnaryExpr(t.Span.Join(operand.Span()), ast.UnaryNeg, operand)
	case token.Bang:
		t := p.advance()
		operand := p.parseUnary()
		return ast.NewUnaryExpr(t.Span.Join(operand.Span()), ast.UnaryNot, operand)
	case token.Star:
		t := p.advance()
		operand := p.parseUnary()
		return ast.NewUnaryExpr(t.Span.Join(operand.Span()), ast.UnaryDeref, operand)
	case token.Amp:
		t := p.advance()
		op := ast.UnaryAddr
		if p.at(token.KwMut) {
			p.advance()
			op = ast.UnaryAddrMut
		}
		operand := p.parseUnary()
		return ast.NewUnaryExpr(t.Span.Join(operand.Span()), op, operand)
	default:
		return p.parsePostfix()
	}
}

func (p *Parser) parsePostfix() ast.Expr {
	e := p.parsePrimary()
	for {
		switch p.lx.Peek().Kind {
		case token.Dot:
			p.advance()
			field, _ := p.expectIdent("expected field name after '.'")
			end := p.lastSpan()
			e = ast.NewFieldExpr(e.Span().Join(end), e, field)
		case token.LBracket:
			p.advance()
			idx := p.parseExpr()
			end, _ := p.expect(token.RBracket, "expected ']' to close index expression")
			e = ast.NewIndexExpr(e.Span().Join(end.Span), e, idx)
		case token.LParen:
			p.advance()
			var args []ast.Expr
			for !p.at(token.RParen) && !p.at(token.EOF) {
				args = append(args, p.parseExpr())
				if p.at(token.Comma) {
					p.advance()
					continue
				}
				break
			}
			end, _ := p.expect(token.RParen, "expected ')' to close call arguments")
			e = ast.NewCallExpr(e.Span().Join(end.Span), e, args)
		case token.KwAs:
			p.advance()
			target := p.parseType()
			e = ast.NewCastExpr(e.Span().Join(target.Span()), e, target)
		default:
			return e
		}
	}
}

// lastSpan returns the span of the most recently consumed token; used where
// a helper like expectIdent already advanced and its returned string has
// dropped the span.
func (p *Parser) lastSpan() source.Span {
	return p.last.Span
}

func (p *Parser) parsePrimary() ast.Expr {
	t := p.lx.Peek()
	switch t.Kind {
	case token.IntLiteral:
		p.advance()
		e := ast.NewLiteralExpr(t.Span, ast.LitInt, t.Text)
		e.IntVal = t.Value.Uint
		return e
	case token.FloatLiteral:
		p.advance()
		e := ast.NewLiteralExpr(t.Span, ast.LitFloat, t.Text)
		e.FloatVal = t.Value.Float
		return e
	case token.StringLiteral:
		p.advance()
		e := ast.NewLiteralExpr(t.Span, ast.LitString, t.Text)
		e.StringVal = t.Value.Str
		return e
	case token.CharLiteral:
		p.advance()
		e := ast.NewLiteralExpr(t.Span, ast.LitChar, t.Text)
		e.CharVal = t.Value.Char
		return e
	case token.KwTrue:
		p.advance()
		e := ast.NewLiteralExpr(t.Span, ast.LitBool, t.Text)
		e.BoolVal = true
		return e
	case token.KwFalse:
		p.advance()
		e := ast.NewLiteralExpr(t.Span, ast.LitBool, t.Text)
		e.BoolVal = false
		return e
	case token.Ident:
		p.advance()
		return ast.NewIdentExpr(t.Span, t.Text)
	case token.LParen:
		p.advance()
		if p.at(token.RParen) {
			end := p.advance()
			return ast.NewUnitExpr(t.Span.Join(end.Span))
		}
		inner := p.parseExpr()
		p.expect(token.RParen, "expected ')' to close parenthesized expression")
		return inner
	case token.LBrace:
		return p.parseBlockExpr()
	case token.KwIf:
		return p.parseIfExpr()
	case token.KwMatch:
		return p.parseMatchExpr()
	case token.KwSpawn:
		p.advance()
		call := p.parseExpr()
		return ast.NewSpawnExpr(t.Span.Join(call.Span()), call)
	case token.KwAwait:
		p.advance()
		operand := p.parseExpr()
		return ast.NewAwaitExpr(t.Span.Join(operand.Span()), operand)
	case token.KwUnsafe:
		p.advance()
		block := p.parseBlockExpr()
		return ast.NewUnsafeExpr(t.Span.Join(block.Span()), block)
	default:
		p.errorf(diag.CodeUnexpectedToken, t.Span, "expected an expression, found %s", t.Kind)
		p.sync()
		return ast.NewUnitExpr(t.Span)
	}
}

func (p *Parser) parseIfExpr() ast.Expr {
	start := p.advance().Span // 'if'
	cond := p.parseExpr()
	then := p.parseBlockExpr()
	var els ast.Expr
	end := then.Span()
	if p.at(token.KwElse) {
		p.advance()
		if p.at(token.KwIf) {
			els = p.parseIfExpr()
		} else {
			els = p.parseBlockExpr()
		}
		end = els.Span()
	}
	return ast.NewIfExpr(start.Join(end), cond, then, els)
}

func (p *Parser) parseMatchExpr() ast.Expr {
	start := p.advance().Span // 'match'
	scrutinee := p.parseExpr()
	p.expect(token.LBrace, "expected '{' to start match arms")

	var arms []ast.MatchArm
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		astart := p.lx.Peek().Span
		pat := p.parsePattern()
		var guard ast.Expr
		if p.at(token.KwIf) {
			p.advance()
			guard = p.parseExpr()
		}
		p.expect(token.FatArrow, "expected '=>' after match pattern")
		body := p.parseExpr()
		arms = append(arms, ast.MatchArm{Pattern: pat, Guard: guard, Body: body, Span: astart.Join(body.Span())})
		if p.at(token.Comma) {
			p.advance()
		}
		// a block-bodied arm needs no trailing comma; the loop condition
		// re-checks for '}' either way.
	}
	end, _ := p.expect(token.RBrace, "expected '}' to close match arms")
	return ast.NewMatchExpr(start.Join(end.Span), scrutinee, arms)
}

// --- patterns -------------------------------------------------------------------

func (p *Parser) parsePattern() ast.Pattern {
	t := p.lx.Peek()
	if t.Kind == token.Ident && t.Text == "_" {
		p.advance()
		return ast.NewWildcardPattern(t.Span)
	}
	if t.Kind == token.Ident {
		p.advance()
		first := t.Text
		if p.at(token.Dot) {
			p.advance()
			variant, _ := p.expectIdent("expected variant name after '.'")
			var binding string
			end := p.lastSpan()
			if p.at(token.LParen) {
				p.advance()
				binding, _ = p.expectIdent("expected binding name")
				rp, _ := p.expect(token.RParen, "expected ')' to close pattern binding")
				end = rp.Span
			}
			return ast.NewVariantPattern(t.Span.Join(end), first, variant, binding)
		}
		return ast.NewIdentPattern(t.Span, first)
	}
	p.errorf(diag.CodeUnexpectedToken, t.Span, "expected a pattern, found %s", t.Kind)
	p.sync()
	return ast.NewWildcardPattern(t.Span)
}
