package derive

import (
	"github.com/orizon-lang/orizon-derive/internal/oerrors"
	"github.com/orizon-lang/orizon-derive/internal/parser"
)

// summarizeFields reduces a field list to its static shape. A list mixing
// named and unnamed fields cannot come from a well-formed declaration and
// indicates a parser bug, so it panics rather than reporting.
func summarizeFields(typeName string, fields []*parser.StructField, isTuple bool) StaticFields {
	named := &NamedFields{}
	unnamed := &UnnamedFields{IsTuple: isTuple}
	for _, f := range fields {
		if f.Name != nil {
			named.Spans = append(named.Spans, f.Span)
			named.Names = append(named.Names, f.Name)
		} else {
			unnamed.Spans = append(unnamed.Spans, f.Span)
		}
	}
	switch {
	case len(named.Names) > 0 && len(unnamed.Spans) > 0:
		panic(oerrors.AssertionFailedf("declaration %s mixes named and unnamed fields", typeName))
	case len(unnamed.Spans) > 0:
		return unnamed
	default:
		// A fieldless declaration summarizes as named-empty.
		return named
	}
}

func summarizeStruct(decl *parser.StructDeclaration) *StaticStruct {
	return &StaticStruct{Fields: summarizeFields(decl.Name.Value, decl.Fields, decl.IsTuple)}
}

func summarizeUnion(decl *parser.UnionDeclaration) *StaticStruct {
	return &StaticStruct{Fields: summarizeFields(decl.Name.Value, decl.Fields, false)}
}

func summarizeEnum(decl *parser.EnumDeclaration) *StaticEnum {
	se := &StaticEnum{Variants: make([]StaticVariant, 0, len(decl.Variants))}
	for _, v := range decl.Variants {
		se.Variants = append(se.Variants, StaticVariant{
			Variant: v,
			Fields:  summarizeFields(decl.Name.Value+"::"+v.Name.Value, v.Fields, v.IsTuple),
		})
	}
	return se
}
