package deriving

import (
	"github.com/orizon-lang/orizon-derive/internal/derive"
	"github.com/orizon-lang/orizon-derive/internal/oerrors"
	"github.com/orizon-lang/orizon-derive/internal/parser"
	"github.com/orizon-lang/orizon-derive/internal/position"
)

// hashTrait builds derive(Hash): hash<__H: Hasher>(&self, state: &mut __H)
// feeding every field to the hasher in declaration order.
func hashTrait(ctx *derive.Context, span position.Span, target parser.Declaration) *derive.TraitDef {
	return &derive.TraitDef{
		Span: span,
		Path: derive.Path("core", "hash", "Hash"),
		Methods: []*derive.MethodDef{{
			Name:                   "hash",
			ExplicitSelf:           true,
			Generics:               []derive.MethodGenericDef{{Name: "__H", Bounds: []derive.PathRef{derive.Path("core", "hash", "Hasher")}}},
			NonSelfArgs:            []derive.ArgDef{{Name: "state", Type: derive.RefOf{Inner: derive.Path("__H"), Mutable: true}}},
			UnifyFieldlessVariants: true,
			CombineSubstructure:    hashBody,
		}},
	}
}

// hashBody emits one hash call per field as a statement sequence. Arms of a
// multi-variant enum hash the discriminant ahead of the fields; without it,
// distinct fieldless variants would feed identical streams to the hasher.
func hashBody(ctx *derive.Context, span position.Span, sub *derive.Substructure) derive.BlockOrExpr {
	state := sub.NonSelfArgs[0]
	callHash := func(span position.Span, value parser.Expression) parser.Statement {
		call := parser.NewCallExpression(span,
			parser.NewPathExpression(span, "core", "hash", "Hash", "hash"),
			parser.NewRefExpression(span, value), state)
		return &parser.ExpressionStatement{Span: span, Expression: call}
	}

	var stmts []parser.Statement
	var fields []*derive.FieldInfo
	switch f := sub.Fields.(type) {
	case *derive.StructFields:
		fields = f.Fields
	case *derive.EnumMatching:
		if f.VariantCount > 1 {
			disc := parser.NewCallExpression(span,
				parser.NewPathExpression(span, "core", "intrinsics", "discriminant_value"),
				parser.NewIdentifier(span, "self"))
			stmts = append(stmts, callHash(span, disc))
		}
		fields = f.Fields
	default:
		panic(oerrors.AssertionFailedf("derive(Hash) over a %T substructure", sub.Fields))
	}
	for _, field := range fields {
		stmts = append(stmts, callHash(field.Span, field.SelfExpr))
	}
	return derive.StmtsOnly(stmts...)
}
