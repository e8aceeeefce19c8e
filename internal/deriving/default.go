package deriving

import (
	"github.com/orizon-lang/orizon-derive/internal/derive"
	"github.com/orizon-lang/orizon-derive/internal/diagnostics"
	"github.com/orizon-lang/orizon-derive/internal/oerrors"
	"github.com/orizon-lang/orizon-derive/internal/parser"
	"github.com/orizon-lang/orizon-derive/internal/position"
)

// defaultTrait builds derive(Default): a static default() -> Self filling
// every field with its own Default::default(). An enum has no designated
// default variant, so the request is reported and skipped.
func defaultTrait(ctx *derive.Context, span position.Span, target parser.Declaration) *derive.TraitDef {
	if decl, ok := target.(*parser.EnumDeclaration); ok {
		ctx.Report(diagnostics.NewDiagnosticBuilder().
			Error().
			WithCategory(diagnostics.CategoryUnsupportedTarget).
			WithCode("E0601").
			WithMessage("Default cannot be derived for the enum %s", decl.Name.Value).
			WithSpan(span).
			WithNote("only structs can derive Default").
			Build())
		return nil
	}
	return &derive.TraitDef{
		Span: span,
		Path: derive.Path("core", "default", "Default"),
		Methods: []*derive.MethodDef{{
			Name:                "default",
			ReturnType:          derive.SelfRef{},
			Attributes:          inlineAttrs(span),
			CombineSubstructure: defaultBody,
		}},
	}
}

func defaultBody(ctx *derive.Context, span position.Span, sub *derive.Substructure) derive.BlockOrExpr {
	defaultCall := func(span position.Span) parser.Expression {
		return parser.NewCallExpression(span,
			parser.NewPathExpression(span, "core", "default", "Default", "default"))
	}
	ss, ok := sub.Fields.(*derive.StaticStruct)
	if !ok {
		panic(oerrors.AssertionFailedf("derive(Default) over a %T substructure", sub.Fields))
	}
	switch fields := ss.Fields.(type) {
	case *derive.NamedFields:
		if len(fields.Names) == 0 {
			return derive.ExprOnly(parser.NewPathExpression(span, sub.TypeName.Value))
		}
		se := &parser.StructExpression{Span: span, Type: parser.NewPathType(span, sub.TypeName.Value)}
		for i, name := range fields.Names {
			se.Fields = append(se.Fields, &parser.StructFieldValue{
				Span:  fields.Spans[i],
				Name:  parser.NewIdentifier(fields.Spans[i], name.Value),
				Value: defaultCall(fields.Spans[i]),
			})
		}
		return derive.ExprOnly(se)
	case *derive.UnnamedFields:
		args := make([]parser.Expression, 0, len(fields.Spans))
		for _, fieldSpan := range fields.Spans {
			args = append(args, defaultCall(fieldSpan))
		}
		return derive.ExprOnly(parser.NewCallExpression(span,
			parser.NewPathExpression(span, sub.TypeName.Value), args...))
	default:
		panic(oerrors.AssertionFailedf("derive(Default) over %T fields", ss.Fields))
	}
}
