package ast

// LetStmt is `let name: T = init;`. The type annotation is required — the
// parser rejects its absence (spec.md §3, §4.2, scenario 2 in spec.md §8).
type LetStmt struct {
	baseStmt
	Name    string
	Type    TypeExpr // never nil; parser requires it
	Init    Expr     // nil if there is no initializer
	Mutable bool     // set by `let mut name: T = ...;`
}

// AssignStmt is `target = value;`.
type AssignStmt struct {
	baseStmt
	Target Expr
	Value  Expr
}

// ExprStmt is an expression evaluated for its side effects, its value
// discarded.
type ExprStmt struct {
	baseStmt
	X Expr
}

// ReturnStmt is `return expr;` or, for void functions, `return ();`.
type ReturnStmt struct {
	baseStmt
	Value Expr // never nil; void returns carry a UnitExpr
}

// BlockStmt wraps a nested block used in statement position (its value, if
// any, is discarded).
type BlockStmt struct {
	baseStmt
	Block *BlockExpr
}
