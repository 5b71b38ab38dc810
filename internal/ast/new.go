package ast

import "github.com/asthra-lang/asthra-core/internal/source"

// Constructors for every node kind. base{Expr,Stmt,Decl,Pattern,TypeExpr}
// hold unexported fields, so nodes are always built through these functions
// rather than composite literals from outside the package — this is what
// lets Span() stay a read-only capability per spec.md §9 ("no cyclic
// lifetimes", nodes carry no back-edges a caller could corrupt).

func NewPackageDecl(span source.Span, vis Visibility, name string) *PackageDecl {
	return &PackageDecl{baseDecl: baseDecl{span: span, vis: vis}, Name: name}
}

func NewImportDecl(span source.Span, path string) *ImportDecl {
	return &ImportDecl{baseDecl: baseDecl{span: span, vis: Priv}, Path: path}
}

func NewFuncDecl(span source.Span, vis Visibility, name string) *FuncDecl {
	return &FuncDecl{baseDecl: baseDecl{span: span, vis: vis}, Name: name}
}

func NewStructDecl(span source.Span, vis Visibility, name string) *StructDecl {
	return &StructDecl{baseDecl: baseDecl{span: span, vis: vis}, Name: name}
}

func NewEnumDecl(span source.Span, vis Visibility, name string) *EnumDecl {
	return &EnumDecl{baseDecl: baseDecl{span: span, vis: vis}, Name: name}
}

func NewTypeAliasDecl(span source.Span, vis Visibility, name string) *TypeAliasDecl {
	return &TypeAliasDecl{baseDecl: baseDecl{span: span, vis: vis}, Name: name}
}

func NewLetStmt(span source.Span, name string, typ TypeExpr, init Expr, mutable bool) *LetStmt {
	return &LetStmt{baseStmt: baseStmt{span: span}, Name: name, Type: typ, Init: init, Mutable: mutable}
}

func NewAssignStmt(span source.Span, target, value Expr) *AssignStmt {
	return &AssignStmt{baseStmt: baseStmt{span: span}, Target: target, Value: value}
}

func NewExprStmt(span source.Span, x Expr) *ExprStmt {
	return &ExprStmt{baseStmt: baseStmt{span: span}, X: x}
}

func NewReturnStmt(span source.Span, value Expr) *ReturnStmt {
	return &ReturnStmt{baseStmt: baseStmt{span: span}, Value: value}
}

func NewBlockStmt(span source.Span, block *BlockExpr) *BlockStmt {
	return &BlockStmt{baseStmt: baseStmt{span: span}, Block: block}
}

func NewIdentExpr(span source.Span, name string) *IdentExpr {
	return &IdentExpr{baseExpr: baseExpr{span: span}, Name: name}
}

func NewFieldExpr(span source.Span, recv Expr, field string) *FieldExpr {
	return &FieldExpr{baseExpr: baseExpr{span: span}, Recv: recv, Field: field}
}

func NewIndexExpr(span source.Span, recv, index Expr) *IndexExpr {
	return &IndexExpr{baseExpr: baseExpr{span: span}, Recv: recv, Index: index}
}

func NewCallExpr(span source.Span, callee Expr, args []Expr) *CallExpr {
	return &CallExpr{baseExpr: baseExpr{span: span}, Callee: callee, Args: args}
}

func NewUnaryExpr(span source.Span, op UnaryOp, operand Expr) *UnaryExpr {
	return &UnaryExpr{baseExpr: baseExpr{span: span}, Op: op, Operand: operand}
}

func NewBinaryExpr(span source.Span, op BinaryOp, left, right Expr) *BinaryExpr {
	return &BinaryExpr{baseExpr: baseExpr{span: span}, Op: op, Left: left, Right: right}
}

func NewCastExpr(span source.Span, operand Expr, target TypeExpr) *CastExpr {
	return &CastExpr{baseExpr: baseExpr{span: span}, Operand: operand, Target: target}
}

func NewBlockExpr(span source.Span, stmts []Stmt, value Expr) *BlockExpr {
	return &BlockExpr{baseExpr: baseExpr{span: span}, Stmts: stmts, Value: value}
}

func NewIfExpr(span source.Span, cond Expr, then *BlockExpr, els Expr) *IfExpr {
	return &IfExpr{baseExpr: baseExpr{span: span}, Cond: cond, Then: then, Else: els}
}

func NewMatchExpr(span source.Span, scrutinee Expr, arms []MatchArm) *MatchExpr {
	return &MatchExpr{baseExpr: baseExpr{span: span}, Scrutinee: scrutinee, Arms: arms}
}

func NewSpawnExpr(span source.Span, call Expr) *SpawnExpr {
	return &SpawnExpr{baseExpr: baseExpr{span: span}, Call: call}
}

func NewAwaitExpr(span source.Span, operand Expr) *AwaitExpr {
	return &AwaitExpr{baseExpr: baseExpr{span: span}, Operand: operand}
}

func NewUnitExpr(span source.Span) *UnitExpr {
	return &UnitExpr{baseExpr: baseExpr{span: span}}
}

func NewUnsafeExpr(span source.Span, block *BlockExpr) *UnsafeExpr {
	return &UnsafeExpr{baseExpr: baseExpr{span: span}, Block: block}
}

func NewVariantPattern(span source.Span, enum, variant, binding string) *VariantPattern {
	return &VariantPattern{basePattern: basePattern{span: span}, Enum: enum, Variant: variant, Binding: binding}
}

func NewIdentPattern(span source.Span, name string) *IdentPattern {
	return &IdentPattern{basePattern: basePattern{span: span}, Name: name}
}

func NewWildcardPattern(span source.Span) *WildcardPattern {
	return &WildcardPattern{basePattern: basePattern{span: span}}
}

func NewNamedTypeExpr(span source.Span, name string, args []TypeExpr) *NamedTypeExpr {
	return &NamedTypeExpr{baseTypeExpr: baseTypeExpr{span: span}, Name: name, Args: args}
}

func NewPointerTypeExpr(span source.Span, pointee TypeExpr, mutable bool) *PointerTypeExpr {
	return &PointerTypeExpr{baseTypeExpr: baseTypeExpr{span: span}, Pointee: pointee, Mutable: mutable}
}

func NewSliceTypeExpr(span source.Span, elem TypeExpr, mutable bool) *SliceTypeExpr {
	return &SliceTypeExpr{baseTypeExpr: baseTypeExpr{span: span}, Element: elem, Mutable: mutable}
}

func NewArrayTypeExpr(span source.Span, elem TypeExpr, length int64) *ArrayTypeExpr {
	return &ArrayTypeExpr{baseTypeExpr: baseTypeExpr{span: span}, Element: elem, Length: length}
}

func NewFuncTypeExpr(span source.Span, params []TypeExpr, ret TypeExpr) *FuncTypeExpr {
	return &FuncTypeExpr{baseTypeExpr: baseTypeExpr{span: span}, Params: params, Return: ret}
}
