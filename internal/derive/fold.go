package derive

import (
	"github.com/orizon-lang/orizon-derive/internal/oerrors"
	"github.com/orizon-lang/orizon-derive/internal/parser"
	"github.com/orizon-lang/orizon-derive/internal/position"
)

// FoldOps carries the callbacks Fold drives a substructure through.
type FoldOps struct {
	// Single produces the expression for one field on its own.
	Single func(ctx *Context, field *FieldInfo) parser.Expression
	// Combine merges the accumulated expression with the next field's
	// single expression. Arguments arrive in source order: the accumulator
	// is on the left for left folds and on the right for right folds.
	Combine func(ctx *Context, span position.Span, left, right parser.Expression) parser.Expression
	// OnFieldless produces the expression for an empty field list.
	OnFieldless func(ctx *Context, span position.Span) parser.Expression
	// OnMismatch handles mismatched enum discriminants. Methods with a
	// single self-like argument never see a mismatch and may omit it.
	OnMismatch func(ctx *Context, span position.Span, discIdents []*parser.Identifier) parser.Expression
}

// Fold combines a substructure's per-field expressions into one expression,
// left-to-right when useFoldl is set and right-to-left otherwise. There is
// no external seed: the base is the first (or last) field's single
// expression, so a single field folds to its own value with no pairwise
// step. Folds are instance-shaped; a static substructure is a bug in the
// calling TraitDef.
func Fold(useFoldl bool, ctx *Context, span position.Span, sub *Substructure, ops FoldOps) parser.Expression {
	switch f := sub.Fields.(type) {
	case *StructFields:
		return foldFields(useFoldl, ctx, span, f.Fields, ops)
	case *EnumMatching:
		return foldFields(useFoldl, ctx, span, f.Fields, ops)
	case *EnumNonMatchingCollapsed:
		if ops.OnMismatch == nil {
			panic(oerrors.AssertionFailedf("no mismatch handler folding %s::%s", sub.TypeName.Value, sub.MethodName))
		}
		return ops.OnMismatch(ctx, span, f.DiscIdents)
	default:
		panic(oerrors.AssertionFailedf("fold over a static substructure in %s::%s", sub.TypeName.Value, sub.MethodName))
	}
}

func foldFields(useFoldl bool, ctx *Context, span position.Span, fields []*FieldInfo, ops FoldOps) parser.Expression {
	if len(fields) == 0 {
		return ops.OnFieldless(ctx, span)
	}
	if useFoldl {
		acc := ops.Single(ctx, fields[0])
		for _, field := range fields[1:] {
			acc = ops.Combine(ctx, field.Span, acc, ops.Single(ctx, field))
		}
		return acc
	}
	last := len(fields) - 1
	acc := ops.Single(ctx, fields[last])
	for i := last - 1; i >= 0; i-- {
		acc = ops.Combine(ctx, fields[i].Span, ops.Single(ctx, fields[i]), acc)
	}
	return acc
}
