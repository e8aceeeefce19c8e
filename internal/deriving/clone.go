package deriving

import (
	"github.com/orizon-lang/orizon-derive/internal/derive"
	"github.com/orizon-lang/orizon-derive/internal/oerrors"
	"github.com/orizon-lang/orizon-derive/internal/parser"
	"github.com/orizon-lang/orizon-derive/internal/position"
)

// cloneTrait builds derive(Clone): clone(&self) -> Self reconstructing the
// value from per-field clones. A union cannot be read field by field, so
// union targets derive the shallow form instead: Copy is added ahead of
// Clone in every bound and the body copies *self whole.
func cloneTrait(ctx *derive.Context, span position.Span, target parser.Declaration) *derive.TraitDef {
	td := &derive.TraitDef{
		Span: span,
		Path: derive.Path("core", "clone", "Clone"),
		Methods: []*derive.MethodDef{{
			Name:                "clone",
			ExplicitSelf:        true,
			ReturnType:          derive.SelfRef{},
			Attributes:          inlineAttrs(span),
			CombineSubstructure: cloneBody,
		}},
	}
	if _, ok := target.(*parser.UnionDeclaration); ok {
		td.SupportsUnions = true
		td.AdditionalBounds = []derive.PathRef{derive.Path("core", "marker", "Copy")}
		td.Methods[0].CombineSubstructure = cloneShallowBody
	}
	return td
}

func cloneShallowBody(ctx *derive.Context, span position.Span, sub *derive.Substructure) derive.BlockOrExpr {
	return derive.ExprOnly(parser.NewUnaryExpression(span, "*", parser.NewIdentifier(span, "self")))
}

// cloneBody rebuilds the matched shape: named fields through a struct
// literal, positional fields through the constructor, fieldless shapes by
// naming the path.
func cloneBody(ctx *derive.Context, span position.Span, sub *derive.Substructure) derive.BlockOrExpr {
	cloneField := func(field *derive.FieldInfo) parser.Expression {
		return parser.NewCallExpression(field.Span,
			parser.NewPathExpression(field.Span, "core", "clone", "Clone", "clone"),
			parser.NewRefExpression(field.Span, field.SelfExpr))
	}
	switch f := sub.Fields.(type) {
	case *derive.StructFields:
		return derive.ExprOnly(construct(span, []string{sub.TypeName.Value}, f.Fields, cloneField))
	case *derive.EnumMatching:
		return derive.ExprOnly(construct(span, []string{sub.TypeName.Value, f.Variant.Name.Value}, f.Fields, cloneField))
	default:
		panic(oerrors.AssertionFailedf("derive(Clone) over a %T substructure", sub.Fields))
	}
}

// construct builds a value of the named path from per-field expressions.
func construct(span position.Span, segments []string, fields []*derive.FieldInfo, value func(*derive.FieldInfo) parser.Expression) parser.Expression {
	switch {
	case len(fields) == 0:
		return parser.NewPathExpression(span, segments...)
	case fields[0].Name != nil:
		se := &parser.StructExpression{Span: span, Type: parser.NewPathType(span, segments...)}
		for _, f := range fields {
			se.Fields = append(se.Fields, &parser.StructFieldValue{
				Span:  f.Span,
				Name:  parser.NewIdentifier(f.Span, f.Name.Value),
				Value: value(f),
			})
		}
		return se
	default:
		args := make([]parser.Expression, 0, len(fields))
		for _, f := range fields {
			args = append(args, value(f))
		}
		return parser.NewCallExpression(span, parser.NewPathExpression(span, segments...), args...)
	}
}

// copyTrait builds derive(Copy), a marker impl. Copy is derivable for every
// admissible shape, unions included.
func copyTrait(ctx *derive.Context, span position.Span, target parser.Declaration) *derive.TraitDef {
	return &derive.TraitDef{
		Span:           span,
		Path:           derive.Path("core", "marker", "Copy"),
		SupportsUnions: true,
	}
}
