package derive

import (
	"github.com/orizon-lang/orizon-derive/internal/parser"
	"github.com/orizon-lang/orizon-derive/internal/position"
)

// BlockOrExpr is a deferred code fragment: an ordered statement list plus an
// optional trailing value expression. Combinators build fragments without
// committing to block-vs-expression form; the consuming context coerces once
// it knows whether it needs a function body or a match-arm value.
type BlockOrExpr struct {
	Stmts []parser.Statement
	Expr  parser.Expression // nil when the fragment carries no value
}

// NewBlockOrExpr creates a fragment from statements and a trailing expression.
func NewBlockOrExpr(stmts []parser.Statement, expr parser.Expression) BlockOrExpr {
	return BlockOrExpr{Stmts: stmts, Expr: expr}
}

// ExprOnly creates a fragment holding a single value expression.
func ExprOnly(expr parser.Expression) BlockOrExpr {
	return BlockOrExpr{Expr: expr}
}

// StmtsOnly creates a fragment holding statements and no value.
func StmtsOnly(stmts ...parser.Statement) BlockOrExpr {
	return BlockOrExpr{Stmts: stmts}
}

// ToBlock coerces the fragment to a block expression with the trailing
// expression, if any, in the block's value position.
func (b BlockOrExpr) ToBlock(span position.Span) *parser.BlockExpression {
	return &parser.BlockExpression{Span: span, Statements: b.Stmts, TailExpr: b.Expr}
}

// ToExpr coerces the fragment to an expression. A fragment without
// statements yields its expression directly, avoiding a redundant nested
// block; a fragment with statements is wrapped. An empty fragment becomes an
// empty block.
func (b BlockOrExpr) ToExpr(span position.Span) parser.Expression {
	if len(b.Stmts) == 0 && b.Expr != nil {
		return b.Expr
	}
	return b.ToBlock(span)
}
