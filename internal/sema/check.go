package sema

import (
	"github.com/asthra-lang/asthra-core/internal/ast"
	"github.com/asthra-lang/asthra-core/internal/diag"
	"github.com/asthra-lang/asthra-core/internal/symbols"
	"github.com/asthra-lang/asthra-core/internal/types"
)

// checkFuncs is pass 2b: type-check every function body against its
// already-resolved signature (built in resolveTypeDecls). Declaration order
// does not matter here either — every signature in the module is already in
// scope by the time any body is walked.
func (a *Analyzer) checkFuncs(pkg *ast.PackageDecl) {
	for _, d := range pkg.Decls {
		fn, ok := d.(*ast.FuncDecl)
		if !ok || fn.Body == nil {
			continue
		}
		ret := a.resolveTypeExpr(fn.ReturnType)
		a.retType = ret
		scope := symbols.NewScope(a.root)
		for _, p := range fn.Params {
			pt := a.resolveTypeExpr(p.Type)
			scope.Declare(&symbols.Symbol{Name: p.Name, Kind: symbols.KindVariable, Type: pt, Span: p.Span, Mutable: p.Mutable})
		}
		a.checkBlockAgainst(fn.Body, scope, ret)
	}
}

// checkBlockAgainst type-checks a block whose value (if any) is expected to
// match want — used for a function body against its return type, and for an
// if/match arm body against the type its sibling arms already settled on.
func (a *Analyzer) checkBlockAgainst(b *ast.BlockExpr, parent *symbols.Scope, want types.Type) {
	got := a.checkBlock(b, parent)
	if b.Value == nil {
		// a block ending in a statement is not compared with want, in any
		// context: a function body's result comes from its return
		// statements, which checkStmt checks against the declared return
		// type, and an if/match arm body ending in a statement is accepted
		// as is.
		return
	}
	if !types.AssignableTo(got, want) {
		a.diags.Errorf(diag.CodeTypeMismatch, b.Value.Span(),
			"expected type %s, found %s", want.String(), got.String())
	}
}

// checkBlock type-checks every statement of b in a fresh child scope and
// returns the type of its trailing value expression, or Unit if the block
// ends with a statement instead.
func (a *Analyzer) checkBlock(b *ast.BlockExpr, parent *symbols.Scope) types.Type {
	scope := symbols.NewScope(parent)
	for _, s := range b.Stmts {
		a.checkStmt(s, scope)
	}
	if b.Value != nil {
		return a.checkExpr(b.Value, scope)
	}
	return *a.interner.Prim(types.Unit)
}

func (a *Analyzer) checkStmt(s ast.Stmt, scope *symbols.Scope) {
	switch n := s.(type) {
	case *ast.LetStmt:
		declared := a.resolveTypeExpr(n.Type)
		if n.Init != nil {
			a.checkExprAgainst(n.Init, scope, declared)
		}
		sym := &symbols.Symbol{Name: n.Name, Kind: symbols.KindVariable, Type: declared, Span: n.Span(), Mutable: n.Mutable}
		if !scope.Declare(sym) {
			a.diags.Errorf(diag.CodeDuplicateDecl, n.Span(), "%q is already declared in this scope", n.Name)
		}
	case *ast.AssignStmt:
		a.checkAssignTarget(n.Target, scope)
		target := a.checkExpr(n.Target, scope)
		a.checkExprAgainst(n.Value, scope, target)
	case *ast.ExprStmt:
		a.checkExpr(n.X, scope)
	case *ast.ReturnStmt:
		want := a.retType
		if want.Kind() == types.KindPrimitive && want.Primitive() == types.Void {
			// a void function returns the unit value: `return ();`
			want = *a.interner.Prim(types.Unit)
		}
		a.checkExprAgainst(n.Value, scope, want)
	case *ast.BlockStmt:
		a.checkBlock(n.Block, scope)
	}
}

// checkExprAgainst checks e in the presence of an expected type, which is
// how literal typing — the sole site of inference (spec.md §4.3) — reaches
// an untyped integer or float literal: the expectation flows down from a
// let's declared type, an assignment's target, a call's parameter, or a
// return statement's declared return type.
func (a *Analyzer) checkExprAgainst(e ast.Expr, scope *symbols.Scope, want types.Type) types.Type {
	if lit, ok := e.(*ast.LiteralExpr); ok {
		t := a.inferLiteral(lit, &want)
		lit.SetType(t)
		return t
	}
	if ifE, ok := e.(*ast.IfExpr); ok {
		return a.checkIfExpr(ifE, scope, &want)
	}
	if m, ok := e.(*ast.MatchExpr); ok {
		return a.checkMatchExpr(m, scope, &want)
	}
	got := a.checkExpr(e, scope)
	if !types.AssignableTo(got, want) {
		a.diags.Errorf(diag.CodeTypeMismatch, e.Span(), "expected type %s, found %s", want.String(), got.String())
	}
	return got
}

// inferLiteral applies the literal-typing rule: an expected integer/float
// type wins if offered, else an integer literal falls back to
// opts.DefaultIntWidth and a float literal to f64.
func (a *Analyzer) inferLiteral(lit *ast.LiteralExpr, want *types.Type) types.Type {
	switch lit.Kind {
	case ast.LitInt:
		if want != nil && want.Kind() == types.KindPrimitive && want.Primitive().IsInteger() {
			return *want
		}
		return *a.interner.Prim(a.opts.DefaultIntWidth)
	case ast.LitFloat:
		if want != nil && want.Kind() == types.KindPrimitive && want.Primitive().IsFloat() {
			return *want
		}
		return *a.interner.Prim(types.F64)
	case ast.LitString:
		return *a.interner.Prim(types.String)
	case ast.LitChar:
		return *a.interner.Prim(types.Char)
	case ast.LitBool:
		return *a.interner.Prim(types.Bool)
	}
	return *a.interner.Err("unrecognized literal kind")
}

// checkExpr synthesizes e's type with no expected type pushed down — the
// "up" direction of bidirectional checking. It always sets e's Type slot.
func (a *Analyzer) checkExpr(e ast.Expr, scope *symbols.Scope) types.Type {
	t := a.synthesize(e, scope)
	e.SetType(t)
	return t
}

func (a *Analyzer) synthesize(e ast.Expr, scope *symbols.Scope) types.Type {
	switch n := e.(type) {
	case *ast.LiteralExpr:
		return a.inferLiteral(n, nil)
	case *ast.UnitExpr:
		return *a.interner.Prim(types.Unit)
	case *ast.IdentExpr:
		sym, ok := scope.Lookup(n.Name)
		if !ok {
			a.diags.Errorf(diag.CodeUnknownName, n.Span(), "unknown name %q", n.Name)
			return *a.interner.Err("unknown name " + n.Name)
		}
		return sym.Type
	case *ast.FieldExpr:
		recv := a.checkExpr(n.Recv, scope)
		if recv.Kind() != types.KindStruct {
			a.diags.Errorf(diag.CodeTypeMismatch, n.Span(), "type %s has no fields", recv.String())
			return *a.interner.Err("field access on non-struct")
		}
		for _, f := range recv.Fields() {
			if f.Name == n.Field {
				return f.Type
			}
		}
		a.diags.Errorf(diag.CodeUnknownName, n.Span(), "%s has no field %q", recv.String(), n.Field)
		return *a.interner.Err("unknown field " + n.Field)
	case *ast.IndexExpr:
		recv := a.checkExpr(n.Recv, scope)
		a.checkExpr(n.Index, scope)
		if recv.Kind() != types.KindSlice && recv.Kind() != types.KindArray {
			a.diags.Errorf(diag.CodeTypeMismatch, n.Span(), "type %s cannot be indexed", recv.String())
			return *a.interner.Err("index of non-indexable type")
		}
		return recv.Elem()
	case *ast.CallExpr:
		return a.checkCall(n, scope)
	case *ast.UnaryExpr:
		return a.checkUnary(n, scope)
	case *ast.BinaryExpr:
		return a.checkBinary(n, scope)
	case *ast.CastExpr:
		a.checkExpr(n.Operand, scope)
		return a.resolveTypeExpr(n.Target)
	case *ast.BlockExpr:
		return a.checkBlock(n, scope)
	case *ast.IfExpr:
		return a.checkIfExpr(n, scope, nil)
	case *ast.MatchExpr:
		return a.checkMatchExpr(n, scope, nil)
	case *ast.SpawnExpr:
		a.checkExpr(n.Call, scope)
		// spawn's handle type is out of scope for the core pipeline (the
		// concurrency runtime is an external collaborator); typed as unit so
		// it can only be used for its side effect, not further combined.
		return *a.interner.Prim(types.Unit)
	case *ast.AwaitExpr:
		return a.checkExpr(n.Operand, scope)
	case *ast.UnsafeExpr:
		a.unsafeDepth++
		t := a.checkBlock(n.Block, scope)
		a.unsafeDepth--
		return t
	}
	a.diags.Errorf(diag.CodeInternal, e.Span(), "unrecognized expression node")
	return *a.interner.Err("unrecognized expression")
}

// rootIdentSymbol returns the symbol of the innermost identifier inside an
// lvalue-shaped expression, following `.field` and `[index]` chains down to
// their base. Returns nil when the root isn't a simple identifier (e.g. a
// dereferenced pointer) — such lvalues' mutability is governed by the
// pointer's own `*mut` flag, not tracked as a binding here.
func (a *Analyzer) rootIdentSymbol(e ast.Expr, scope *symbols.Scope) *symbols.Symbol {
	switch n := e.(type) {
	case *ast.IdentExpr:
		sym, _ := scope.Lookup(n.Name)
		return sym
	case *ast.FieldExpr:
		return a.rootIdentSymbol(n.Recv, scope)
	case *ast.IndexExpr:
		return a.rootIdentSymbol(n.Recv, scope)
	}
	return nil
}

func identName(e ast.Expr) string {
	switch n := e.(type) {
	case *ast.IdentExpr:
		return n.Name
	case *ast.FieldExpr:
		return identName(n.Recv) + "." + n.Field
	case *ast.IndexExpr:
		return identName(n.Recv) + "[...]"
	}
	return "<expr>"
}

// checkAssignTarget reports E0303 when an assignment's target is rooted in
// an immutable binding (spec.md §4.3 "assignment to immutable").
func (a *Analyzer) checkAssignTarget(target ast.Expr, scope *symbols.Scope) {
	sym := a.rootIdentSymbol(target, scope)
	if sym != nil && sym.Kind == symbols.KindVariable && !sym.Mutable {
		name := identName(target)
		a.diags.Errorf(diag.CodeImmutableAssign, target.Span(),
			"cannot assign to immutable binding %q; declare it `let mut %s`", name, name)
	}
}

func (a *Analyzer) checkCall(n *ast.CallExpr, scope *symbols.Scope) types.Type {
	if id, ok := n.Callee.(*ast.IdentExpr); ok {
		if sym, found := scope.Lookup(id.Name); found && sym.Kind == symbols.KindFunction && sym.Extern && a.unsafeDepth == 0 {
			a.diags.Errorf(diag.CodeFFIOutsideUnsafe, n.Span(),
				"call to extern function %q requires an unsafe block", id.Name)
		}
	}
	callee := a.checkExpr(n.Callee, scope)
	if callee.Kind() != types.KindFunction {
		for _, arg := range n.Args {
			a.checkExpr(arg, scope)
		}
		if !callee.IsError() {
			a.diags.Errorf(diag.CodeTypeMismatch, n.Span(), "type %s is not callable", callee.String())
		}
		return *a.interner.Err("call of non-function")
	}
	params := callee.Params()
	if len(n.Args) != len(params) {
		a.diags.Errorf(diag.CodeArgCount, n.Span(), "expected %d argument(s), found %d", len(params), len(n.Args))
	}
	for i, arg := range n.Args {
		if i < len(params) {
			a.checkExprAgainst(arg, scope, params[i])
		} else {
			a.checkExpr(arg, scope)
		}
	}
	return callee.Return()
}

func (a *Analyzer) checkUnary(n *ast.UnaryExpr, scope *symbols.Scope) types.Type {
	operand := a.checkExpr(n.Operand, scope)
	switch n.Op {
	case ast.UnaryNeg:
		return operand
	case ast.UnaryNot:
		return operand
	case ast.UnaryDeref:
		if operand.Kind() != types.KindPointer {
			a.diags.Errorf(diag.CodeTypeMismatch, n.Span(), "cannot dereference non-pointer type %s", operand.String())
			return *a.interner.Err("deref of non-pointer")
		}
		return operand.Elem()
	case ast.UnaryAddr:
		return *a.interner.Pointer(&operand, false)
	case ast.UnaryAddrMut:
		if sym := a.rootIdentSymbol(n.Operand, scope); sym != nil && sym.Kind == symbols.KindVariable && !sym.Mutable {
			a.diags.Errorf(diag.CodeMutBorrowOfImmut, n.Span(),
				"cannot take a mutable borrow of immutable binding %q", identName(n.Operand))
		}
		return *a.interner.Pointer(&operand, true)
	}
	return *a.interner.Err("unrecognized unary operator")
}

var comparisonResultBool = map[ast.BinaryOp]bool{
	ast.BinEq: true, ast.BinNe: true, ast.BinLt: true, ast.BinLe: true, ast.BinGt: true, ast.BinGe: true,
}

func (a *Analyzer) checkBinary(n *ast.BinaryExpr, scope *symbols.Scope) types.Type {
	if n.Op == ast.BinOr || n.Op == ast.BinAnd {
		boolT := *a.interner.Prim(types.Bool)
		a.checkExprAgainst(n.Left, scope, boolT)
		a.checkExprAgainst(n.Right, scope, boolT)
		return boolT
	}
	left := a.checkExpr(n.Left, scope)
	right := a.checkExpr(n.Right, scope)
	if !types.Equal(left, right) && !left.IsError() && !right.IsError() {
		a.diags.Errorf(diag.CodeTypeMismatch, n.Span(), "mismatched operand types %s and %s", left.String(), right.String())
	}
	if comparisonResultBool[n.Op] {
		return *a.interner.Prim(types.Bool)
	}
	return left
}

// checkIfExpr checks an if/else chain. want, when non-nil, is pushed into
// both arms (e.g. the if is a let-initializer); otherwise the then-arm's
// synthesized type becomes what the else-arm is checked against, so both
// arms are required to agree (spec.md §4.3 "if and match expressions must
// have all arms yielding the same type (or one arm may be never)").
func (a *Analyzer) checkIfExpr(n *ast.IfExpr, scope *symbols.Scope, want *types.Type) types.Type {
	a.checkExprAgainst(n.Cond, scope, *a.interner.Prim(types.Bool))

	if want != nil {
		a.checkBlockAgainst(n.Then, scope, *want)
		a.checkElseAgainst(n.Else, scope, *want)
		return *want
	}

	thenT := a.checkBlock(n.Then, scope)
	if n.Else == nil {
		// no else: only valid when the then-arm is unit; checked as such.
		unit := *a.interner.Prim(types.Unit)
		if n.Then.Value != nil && !types.AssignableTo(thenT, unit) {
			a.diags.Errorf(diag.CodeTypeMismatch, n.Span(), "if without else must have unit type, found %s", thenT.String())
		}
		return unit
	}
	elseT := a.synthesizeElse(n.Else, scope)
	if types.Equal(thenT, elseT) {
		return thenT
	}
	if thenT.Kind() == types.KindPrimitive && thenT.Primitive() == types.Never {
		return elseT
	}
	if elseT.Kind() == types.KindPrimitive && elseT.Primitive() == types.Never {
		return thenT
	}
	a.diags.Errorf(diag.CodeTypeMismatch, n.Span(), "if/else arms have mismatched types %s and %s", thenT.String(), elseT.String())
	return thenT
}

func (a *Analyzer) synthesizeElse(els ast.Expr, scope *symbols.Scope) types.Type {
	switch e := els.(type) {
	case *ast.BlockExpr:
		return a.checkBlock(e, scope)
	case *ast.IfExpr:
		return a.checkIfExpr(e, scope, nil)
	}
	return a.checkExpr(els, scope)
}

func (a *Analyzer) checkElseAgainst(els ast.Expr, scope *symbols.Scope, want types.Type) {
	switch e := els.(type) {
	case *ast.BlockExpr:
		a.checkBlockAgainst(e, scope, want)
	case *ast.IfExpr:
		a.checkIfExpr(e, scope, &want)
	case nil:
	default:
		a.checkExprAgainst(els, scope, want)
	}
}

// checkMatchExpr checks the scrutinee, every arm body (against want when
// pushed down, or unified the way checkIfExpr unifies if/else), binds
// variant-pattern payloads into each arm's own child scope, then delegates
// to checkExhaustiveness for spec.md §4.3's coverage rule.
func (a *Analyzer) checkMatchExpr(n *ast.MatchExpr, scope *symbols.Scope, want *types.Type) types.Type {
	scrutinee := a.checkExpr(n.Scrutinee, scope)

	var resultT types.Type
	haveResult := false
	if want != nil {
		resultT = *want
		haveResult = true
	}

	for _, arm := range n.Arms {
		armScope := symbols.NewScope(scope)
		a.bindPattern(arm.Pattern, scrutinee, armScope)
		if arm.Guard != nil {
			a.checkExprAgainst(arm.Guard, armScope, *a.interner.Prim(types.Bool))
		}
		var armT types.Type
		resultIsNever := want == nil && haveResult &&
			resultT.Kind() == types.KindPrimitive && resultT.Primitive() == types.Never
		if haveResult && !resultIsNever {
			armT = a.checkExprAgainst(arm.Body, armScope, resultT)
		} else {
			armT = a.checkExpr(arm.Body, armScope)
			if !haveResult || resultIsNever {
				resultT = armT
				haveResult = true
			} else if !types.Equal(armT, resultT) &&
				!(armT.Kind() == types.KindPrimitive && armT.Primitive() == types.Never) {
				a.diags.Errorf(diag.CodeTypeMismatch, arm.Body.Span(),
					"match arm has type %s, expected %s", armT.String(), resultT.String())
			}
		}
	}

	a.checkExhaustiveness(n, scrutinee)

	if !haveResult {
		return *a.interner.Prim(types.Unit)
	}
	return resultT
}

// bindPattern installs the names a pattern introduces into scope. A variant
// pattern's binding (if any) is typed from the matching variant's payload
// type; an identifier pattern simply rebinds the scrutinee's type; a
// wildcard introduces nothing.
func (a *Analyzer) bindPattern(pat ast.Pattern, scrutinee types.Type, scope *symbols.Scope) {
	switch p := pat.(type) {
	case *ast.VariantPattern:
		if p.Binding == "" {
			return
		}
		var payload types.Type
		if scrutinee.Kind() == types.KindEnum {
			for _, v := range scrutinee.Variants() {
				if v.Name == p.Variant && v.Payload != nil {
					payload = *v.Payload
				}
			}
		}
		scope.Declare(&symbols.Symbol{Name: p.Binding, Kind: symbols.KindVariable, Type: payload, Span: pat.Span()})
	case *ast.IdentPattern:
		scope.Declare(&symbols.Symbol{Name: p.Name, Kind: symbols.KindVariable, Type: scrutinee, Span: pat.Span()})
	case *ast.WildcardPattern:
		// binds nothing
	}
}
