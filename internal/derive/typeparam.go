package derive

import (
	"github.com/orizon-lang/orizon-derive/internal/diagnostics"
	"github.com/orizon-lang/orizon-derive/internal/oerrors"
	"github.com/orizon-lang/orizon-derive/internal/parser"
)

// boundTypeParam records one occurrence of a declared type parameter inside
// a field type: the occurrence node itself plus the for-all binders in scope
// at the use site, outermost first. The synthesizer turns kept occurrences
// into where-predicates.
type boundTypeParam struct {
	Type    parser.Type
	Binders []*parser.GenericParameter
}

// findTypeParameters returns every occurrence of a declared type parameter
// within ty, in first-occurrence order. Every path type whose first segment
// names a declared parameter counts: bare parameters, projections such as
// T::Item, and parameters nested inside other constructors. A type-level
// macro invocation cannot be traversed; it is reported through the sink and
// ErrUnexpandableTypeMacro comes back so the caller stops this expansion.
func findTypeParameters(ctx *Context, ty parser.Type, declared map[string]bool) ([]boundTypeParam, error) {
	f := &paramFinder{ctx: ctx, declared: declared}
	f.walk(ty)
	if f.err != nil {
		return nil, f.err
	}
	return f.found, nil
}

type paramFinder struct {
	ctx      *Context
	declared map[string]bool
	binders  []*parser.GenericParameter
	found    []boundTypeParam
	err      error
}

func (f *paramFinder) walk(ty parser.Type) {
	if f.err != nil || ty == nil {
		return
	}
	switch t := ty.(type) {
	case *parser.BasicType:
		// Parameter names in type position always parse as path types;
		// basic types are primitives and lifetimes.
	case *parser.PathType:
		if f.declared[t.FirstSegmentName()] {
			var binders []*parser.GenericParameter
			if len(f.binders) > 0 {
				binders = append(binders, f.binders...)
			}
			f.found = append(f.found, boundTypeParam{Type: t, Binders: binders})
		}
		for _, seg := range t.Segments {
			for _, arg := range seg.TypeArgs {
				f.walk(arg)
			}
		}
	case *parser.ReferenceType:
		f.walk(t.Inner)
	case *parser.PointerType:
		f.walk(t.Inner)
	case *parser.TupleType:
		for _, e := range t.Elements {
			f.walk(e)
		}
	case *parser.ArrayType:
		f.walk(t.ElementType)
	case *parser.FunctionType:
		saved := len(f.binders)
		f.binders = append(f.binders, t.ForAllParams...)
		for _, p := range t.Parameters {
			f.walk(p)
		}
		f.walk(t.ReturnType)
		f.binders = f.binders[:saved]
	case *parser.MacroType:
		f.ctx.Report(diagnostics.NewDiagnosticBuilder().
			Error().
			WithCategory(diagnostics.CategoryTypeMacro).
			WithCode("E0777").
			WithMessage("cannot derive over a type macro").
			WithSpan(t.Span).
			WithNote("the macro %s! hides the field's type from bound inference; expand it before deriving", t.Name.Value).
			Build())
		f.err = oerrors.Wrapf(oerrors.ErrUnexpandableTypeMacro, "field type %s", t.String())
	}
}
