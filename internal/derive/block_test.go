package derive

import (
	"testing"

	"github.com/orizon-lang/orizon-derive/internal/parser"
)

func TestBlockOrExprToExpr(t *testing.T) {
	span := testSpan()
	value := parser.NewIdentifier(span, "x")
	stmt := &parser.ExpressionStatement{Span: span, Expression: parser.NewIdentifier(span, "side")}

	t.Run("bare expression passes through", func(t *testing.T) {
		got := ExprOnly(value).ToExpr(span)
		if got != parser.Expression(value) {
			t.Fatalf("expected the expression itself, got %T %q", got, got.String())
		}
	})
	t.Run("statements force a block", func(t *testing.T) {
		got := NewBlockOrExpr([]parser.Statement{stmt}, value).ToExpr(span)
		block, ok := got.(*parser.BlockExpression)
		if !ok {
			t.Fatalf("expected a block, got %T", got)
		}
		if block.String() != "{ side; x }" {
			t.Fatalf("unexpected rendering %q", block.String())
		}
	})
	t.Run("empty fragment becomes an empty block", func(t *testing.T) {
		got := BlockOrExpr{}.ToExpr(span)
		if _, ok := got.(*parser.BlockExpression); !ok {
			t.Fatalf("expected a block, got %T", got)
		}
	})
}

func TestBlockOrExprToBlock(t *testing.T) {
	span := testSpan()
	value := parser.NewIdentifier(span, "x")
	stmt := &parser.ExpressionStatement{Span: span, Expression: parser.NewIdentifier(span, "side")}

	block := NewBlockOrExpr([]parser.Statement{stmt}, value).ToBlock(span)
	if len(block.Statements) != 1 || block.TailExpr != parser.Expression(value) {
		t.Fatalf("block did not preserve the fragment: %q", block.String())
	}

	bare := ExprOnly(value).ToBlock(span)
	if len(bare.Statements) != 0 || bare.TailExpr != parser.Expression(value) {
		t.Fatalf("expression-only fragment misconverted: %q", bare.String())
	}
}

func TestStmtsOnly(t *testing.T) {
	span := testSpan()
	stmt := &parser.ExpressionStatement{Span: span, Expression: parser.NewIdentifier(span, "side")}
	frag := StmtsOnly(stmt)
	if frag.Expr != nil || len(frag.Stmts) != 1 {
		t.Fatalf("unexpected fragment %+v", frag)
	}
	if frag.ToBlock(span).String() != "{ side; }" {
		t.Fatalf("unexpected rendering %q", frag.ToBlock(span).String())
	}
}
