package deriving

import (
	"github.com/orizon-lang/orizon-derive/internal/derive"
	"github.com/orizon-lang/orizon-derive/internal/oerrors"
	"github.com/orizon-lang/orizon-derive/internal/parser"
	"github.com/orizon-lang/orizon-derive/internal/position"
)

// debugTrait builds derive(Debug): fmt(&self, f: &mut Formatter) -> Result
// driving the formatter's debug builders, one shape per variant. Variants
// are never unified: each one prints its own name.
func debugTrait(ctx *derive.Context, span position.Span, target parser.Declaration) *derive.TraitDef {
	return &derive.TraitDef{
		Span: span,
		Path: derive.Path("core", "fmt", "Debug"),
		Methods: []*derive.MethodDef{{
			Name:                "fmt",
			ExplicitSelf:        true,
			NonSelfArgs:         []derive.ArgDef{{Name: "f", Type: derive.RefOf{Inner: derive.Path("core", "fmt", "Formatter"), Mutable: true}}},
			ReturnType:          derive.Path("core", "fmt", "Result"),
			CombineSubstructure: debugBody,
		}},
	}
}

func debugBody(ctx *derive.Context, span position.Span, sub *derive.Substructure) derive.BlockOrExpr {
	f := sub.NonSelfArgs[0]

	var name string
	var fields []*derive.FieldInfo
	switch sf := sub.Fields.(type) {
	case *derive.StructFields:
		name = sub.TypeName.Value
		fields = sf.Fields
	case *derive.EnumMatching:
		name = sf.Variant.Name.Value
		fields = sf.Fields
	default:
		panic(oerrors.AssertionFailedf("derive(Debug) over a %T substructure", sub.Fields))
	}

	nameLit := parser.NewStringLiteral(span, name)
	switch {
	case len(fields) == 0:
		return derive.ExprOnly(parser.NewMethodCall(span, f, "write_str", nameLit))
	case fields[0].Name != nil:
		expr := parser.Expression(parser.NewMethodCall(span, f, "debug_struct", nameLit))
		for _, field := range fields {
			expr = parser.NewMethodCall(field.Span, expr, "field",
				parser.NewStringLiteral(field.Span, field.Name.Value),
				parser.NewRefExpression(field.Span, field.SelfExpr))
		}
		return derive.ExprOnly(parser.NewMethodCall(span, expr, "finish"))
	default:
		expr := parser.Expression(parser.NewMethodCall(span, f, "debug_tuple", nameLit))
		for _, field := range fields {
			expr = parser.NewMethodCall(field.Span, expr, "field",
				parser.NewRefExpression(field.Span, field.SelfExpr))
		}
		return derive.ExprOnly(parser.NewMethodCall(span, expr, "finish"))
	}
}
