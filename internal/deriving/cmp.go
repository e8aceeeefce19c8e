package deriving

import (
	"github.com/orizon-lang/orizon-derive/internal/derive"
	"github.com/orizon-lang/orizon-derive/internal/parser"
	"github.com/orizon-lang/orizon-derive/internal/position"
)

// inlineAttrs marks a synthesized method #[inline]. The comparison and
// clone methods are one-liners per field and inline well.
func inlineAttrs(span position.Span) []*parser.Attribute {
	return []*parser.Attribute{parser.NewAttribute(span, "inline")}
}

// partialEqTrait builds derive(PartialEq): eq(&self, other: &Self) -> bool
// comparing fields left to right with a && chain.
func partialEqTrait(ctx *derive.Context, span position.Span, target parser.Declaration) *derive.TraitDef {
	return &derive.TraitDef{
		Span: span,
		Path: derive.Path("core", "cmp", "PartialEq"),
		Methods: []*derive.MethodDef{{
			Name:                   "eq",
			ExplicitSelf:           true,
			NonSelfArgs:            []derive.ArgDef{{Name: "other", Type: derive.RefOf{Inner: derive.SelfRef{}}}},
			ReturnType:             derive.Path("bool"),
			Attributes:             inlineAttrs(span),
			UnifyFieldlessVariants: true,
			CombineSubstructure:    partialEqBody,
		}},
	}
}

func partialEqBody(ctx *derive.Context, span position.Span, sub *derive.Substructure) derive.BlockOrExpr {
	return derive.ExprOnly(derive.Fold(true, ctx, span, sub, derive.FoldOps{
		Single: func(ctx *derive.Context, field *derive.FieldInfo) parser.Expression {
			return parser.NewBinaryExpression(field.Span, field.SelfExpr, "==", field.OtherSelfExprs[0])
		},
		Combine: func(ctx *derive.Context, span position.Span, left, right parser.Expression) parser.Expression {
			return parser.NewBinaryExpression(span, left, "&&", right)
		},
		OnFieldless: func(ctx *derive.Context, span position.Span) parser.Expression {
			return parser.NewBoolLiteral(span, true)
		},
		OnMismatch: func(ctx *derive.Context, span position.Span, _ []*parser.Identifier) parser.Expression {
			return parser.NewBoolLiteral(span, false)
		},
	}))
}

// eqTrait builds derive(Eq), a marker impl carrying bounds only.
func eqTrait(ctx *derive.Context, span position.Span, target parser.Declaration) *derive.TraitDef {
	return &derive.TraitDef{
		Span:           span,
		Path:           derive.Path("core", "cmp", "Eq"),
		SupportsUnions: true,
	}
}

// partialOrdTrait builds derive(PartialOrd):
// partial_cmp(&self, other: &Self) -> Option<Ordering>, fields compared in
// declaration order with later fields reached only while everything before
// them is Equal.
func partialOrdTrait(ctx *derive.Context, span position.Span, target parser.Declaration) *derive.TraitDef {
	return &derive.TraitDef{
		Span: span,
		Path: derive.Path("core", "cmp", "PartialOrd"),
		Methods: []*derive.MethodDef{{
			Name:         "partial_cmp",
			ExplicitSelf: true,
			NonSelfArgs:  []derive.ArgDef{{Name: "other", Type: derive.RefOf{Inner: derive.SelfRef{}}}},
			ReturnType: derive.PathRef{
				Segments: []string{"core", "option", "Option"},
				Params:   []derive.TypeRef{derive.Path("core", "cmp", "Ordering")},
			},
			Attributes:             inlineAttrs(span),
			UnifyFieldlessVariants: true,
			CombineSubstructure: cmpBody("partial_cmp",
				func(span position.Span) parser.Pattern {
					return &parser.TupleStructPattern{
						Span: span,
						Path: parser.NewPathType(span, "core", "option", "Option", "Some"),
						Elements: []parser.Pattern{&parser.PathPattern{
							Span: span,
							Path: parser.NewPathType(span, "core", "cmp", "Ordering", "Equal"),
						}},
					}
				},
				func(ctx *derive.Context, span position.Span) parser.Expression {
					return parser.NewCallExpression(span,
						parser.NewPathExpression(span, "core", "option", "Option", "Some"),
						parser.NewPathExpression(span, "core", "cmp", "Ordering", "Equal"))
				}),
		}},
	}
}

// ordTrait builds derive(Ord): cmp(&self, other: &Self) -> Ordering with the
// same field ordering as PartialOrd.
func ordTrait(ctx *derive.Context, span position.Span, target parser.Declaration) *derive.TraitDef {
	return &derive.TraitDef{
		Span: span,
		Path: derive.Path("core", "cmp", "Ord"),
		Methods: []*derive.MethodDef{{
			Name:                   "cmp",
			ExplicitSelf:           true,
			NonSelfArgs:            []derive.ArgDef{{Name: "other", Type: derive.RefOf{Inner: derive.SelfRef{}}}},
			ReturnType:             derive.Path("core", "cmp", "Ordering"),
			Attributes:             inlineAttrs(span),
			UnifyFieldlessVariants: true,
			CombineSubstructure: cmpBody("cmp",
				func(span position.Span) parser.Pattern {
					return &parser.PathPattern{
						Span: span,
						Path: parser.NewPathType(span, "core", "cmp", "Ordering", "Equal"),
					}
				},
				func(ctx *derive.Context, span position.Span) parser.Expression {
					return parser.NewPathExpression(span, "core", "cmp", "Ordering", "Equal")
				}),
		}},
	}
}

// cmpBody builds the comparison fold PartialOrd and Ord share. The fold
// runs right to left so the first field's comparison ends up outermost; each
// step matches one field comparison and falls through to the rest only on
// Equal. Mismatched enum variants compare their raw discriminants, giving
// declaration order.
func cmpBody(method string, equalPattern func(position.Span) parser.Pattern, fieldless func(*derive.Context, position.Span) parser.Expression) derive.CombineFunc {
	compare := func(span position.Span, left, right parser.Expression) parser.Expression {
		return parser.NewMethodCall(span, left, method, parser.NewRefExpression(span, right))
	}
	return func(ctx *derive.Context, span position.Span, sub *derive.Substructure) derive.BlockOrExpr {
		return derive.ExprOnly(derive.Fold(false, ctx, span, sub, derive.FoldOps{
			Single: func(ctx *derive.Context, field *derive.FieldInfo) parser.Expression {
				return compare(field.Span, field.SelfExpr, field.OtherSelfExprs[0])
			},
			Combine: func(ctx *derive.Context, span position.Span, left, right parser.Expression) parser.Expression {
				return &parser.MatchExpression{Span: span, Subject: left, Arms: []*parser.MatchArm{
					{Span: span, Pattern: equalPattern(span), Body: right},
					{
						Span:    span,
						Pattern: &parser.IdentifierPattern{Span: span, Name: parser.NewIdentifier(span, "cmp")},
						Body:    parser.NewIdentifier(span, "cmp"),
					},
				}}
			},
			OnFieldless: fieldless,
			OnMismatch: func(ctx *derive.Context, span position.Span, discIdents []*parser.Identifier) parser.Expression {
				return compare(span, discIdents[0], discIdents[1])
			},
		}))
	}
}
