package derive

import (
	"strings"

	"github.com/orizon-lang/orizon-derive/internal/diagnostics"
	"github.com/orizon-lang/orizon-derive/internal/oerrors"
	"github.com/orizon-lang/orizon-derive/internal/parser"
	"github.com/orizon-lang/orizon-derive/internal/position"
)

// Expand synthesizes the impl of the trait for target. Struct and enum
// declarations are always admissible; unions require SupportsUnions, and a
// union without it is reported through the sink and returned as
// ErrUnsupportedTarget so the driver can continue with sibling requests. A
// field type hiding behind a type-level macro stops this expansion the same
// way with ErrUnexpandableTypeMacro. Any other declaration kind is a driver
// bug and panics. The input declaration is never mutated.
func (td *TraitDef) Expand(ctx *Context, target parser.Declaration) (*parser.ImplBlock, error) {
	span := td.Span

	var (
		name       *parser.Identifier
		generics   []*parser.GenericParameter
		wheres     []*parser.WherePredicate
		fieldTypes []parser.Type
	)
	switch decl := target.(type) {
	case *parser.StructDeclaration:
		name, generics, wheres = decl.Name, decl.Generics, decl.WhereClauses
		for _, f := range decl.Fields {
			fieldTypes = append(fieldTypes, f.Type)
		}
	case *parser.EnumDeclaration:
		name, generics, wheres = decl.Name, decl.Generics, decl.WhereClauses
		for _, v := range decl.Variants {
			for _, f := range v.Fields {
				fieldTypes = append(fieldTypes, f.Type)
			}
		}
	case *parser.UnionDeclaration:
		if !td.SupportsUnions {
			ctx.Report(diagnostics.NewDiagnosticBuilder().
				Error().
				WithCategory(diagnostics.CategoryUnsupportedTarget).
				WithCode("E0601").
				WithMessage("%s cannot be derived for the union %s", td.Path.Name(), decl.Name.Value).
				WithSpan(span).
				Build())
			return nil, oerrors.Wrapf(oerrors.ErrUnsupportedTarget, "derive(%s) on union %s", td.Path.Name(), decl.Name.Value)
		}
		name, generics, wheres = decl.Name, decl.Generics, decl.WhereClauses
		for _, f := range decl.Fields {
			fieldTypes = append(fieldTypes, f.Type)
		}
	default:
		panic(oerrors.AssertionFailedf("derive target %T is not a struct, enum, or union", target))
	}

	ctx.Log().Debugw("expanding derive", "trait", td.Path.Name(), "target", name.Value)

	selfType := selfTypeOf(span, name, generics)

	implWheres, err := td.implWherePredicates(ctx, span, wheres, generics, fieldTypes)
	if err != nil {
		return nil, err
	}

	impl := &parser.ImplBlock{
		Span:         span,
		Attributes:   td.implAttributes(span),
		Generics:     td.implGenerics(span, generics),
		Trait:        td.Path.Resolve(span, selfType),
		ForType:      selfType,
		WhereClauses: implWheres,
		IsConst:      td.IsConst,
	}
	for _, at := range td.AssociatedTypes {
		impl.AssociatedTypes = append(impl.AssociatedTypes, &parser.AssociatedType{
			Span: span,
			Name: parser.NewIdentifier(span, at.Name),
			Type: at.Type.Resolve(span, selfType),
		})
	}
	for _, method := range td.Methods {
		impl.Items = append(impl.Items, td.expandMethod(ctx, method, target, name, selfType))
	}
	return impl, nil
}

// selfTypeOf builds the target's self type: its name with every declared
// parameter re-applied as an argument, so impl<T, const N: usize> lands on
// Wrapper<T, N>.
func selfTypeOf(span position.Span, name *parser.Identifier, generics []*parser.GenericParameter) parser.Type {
	seg := &parser.PathSegment{Span: span, Name: parser.NewIdentifier(span, name.Value)}
	for _, gp := range generics {
		if gp.Kind == parser.GenericParamLifetime {
			seg.TypeArgs = append(seg.TypeArgs, parser.NewBasicType(span, gp.Name.Value))
			continue
		}
		seg.TypeArgs = append(seg.TypeArgs, parser.NewPathType(span, gp.Name.Value))
	}
	return &parser.PathType{Span: span, Segments: []*parser.PathSegment{seg}}
}

// implGenerics clones the target's generic parameters for the impl.
// Lifetime and const parameters pass through verbatim; each type
// parameter's bound list is rebuilt as additional bounds, the derived trait,
// then the parameter's own declared bounds, in that order.
func (td *TraitDef) implGenerics(span position.Span, generics []*parser.GenericParameter) []*parser.GenericParameter {
	if len(generics) == 0 {
		return nil
	}
	out := make([]*parser.GenericParameter, 0, len(generics))
	for _, gp := range generics {
		cp := *gp
		if gp.Kind == parser.GenericParamType {
			cp.Bounds = append(td.traitBounds(span), gp.Bounds...)
		}
		out = append(out, &cp)
	}
	return out
}

// traitBounds returns the bound list every derived occurrence receives: the
// additional bounds followed by the trait itself.
func (td *TraitDef) traitBounds(span position.Span) []*parser.TypeBound {
	bounds := make([]*parser.TypeBound, 0, len(td.AdditionalBounds)+1)
	for _, b := range td.AdditionalBounds {
		bounds = append(bounds, &parser.TypeBound{Span: span, Trait: b.Resolve(span, nil)})
	}
	bounds = append(bounds, &parser.TypeBound{Span: span, Trait: td.Path.Resolve(span, nil)})
	return bounds
}

// implWherePredicates assembles the impl's where clause: the target's own
// predicates copied through unchanged, then one predicate per kept
// occurrence from bound inference. An occurrence that is the entire field
// type and a bare parameter name is already covered by the per-parameter
// bounds and is skipped; nested occurrences, including the T inside Vec<T>
// and projections like T::Item, each yield a predicate on the occurrence
// node under the for-all binders recorded at its use site. Identical
// predicates are emitted once.
func (td *TraitDef) implWherePredicates(ctx *Context, span position.Span, declWheres []*parser.WherePredicate, generics []*parser.GenericParameter, fieldTypes []parser.Type) ([]*parser.WherePredicate, error) {
	out := append([]*parser.WherePredicate(nil), declWheres...)

	declared := declaredTypeParams(generics)
	if len(declared) == 0 {
		return out, nil
	}

	seen := make(map[string]bool)
	for _, fieldType := range fieldTypes {
		occurrences, err := findTypeParameters(ctx, fieldType, declared)
		if err != nil {
			return nil, err
		}
		for _, occ := range occurrences {
			if occ.Type == fieldType {
				if pt, ok := occ.Type.(*parser.PathType); ok && pt.IsBareName() {
					continue
				}
			}
			key := predicateKey(occ)
			if seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, &parser.WherePredicate{
				Span:         span,
				ForAllParams: occ.Binders,
				Target:       occ.Type,
				Bounds:       td.traitBounds(span),
			})
		}
	}
	return out, nil
}

// declaredTypeParams returns the names of the type parameters in generics.
func declaredTypeParams(generics []*parser.GenericParameter) map[string]bool {
	params := make(map[string]bool)
	for _, gp := range generics {
		if gp.Kind == parser.GenericParamType {
			params[gp.Name.Value] = true
		}
	}
	return params
}

// predicateKey identifies a predicate by its bounded type and binders.
func predicateKey(occ boundTypeParam) string {
	var sb strings.Builder
	for _, b := range occ.Binders {
		sb.WriteString(b.String())
		sb.WriteString(";")
	}
	sb.WriteString("|")
	sb.WriteString(occ.Type.String())
	return sb.String()
}

// lintAttributes are the attribute names a synthesized impl inherits from
// the derive site: lint controls and stability markers.
var lintAttributes = map[string]bool{
	"allow":    true,
	"warn":     true,
	"deny":     true,
	"forbid":   true,
	"stable":   true,
	"unstable": true,
}

// implAttributes builds the impl's attribute list: the derive marker first,
// then the derive site's lint and stability attributes, each at most once,
// in source order.
func (td *TraitDef) implAttributes(span position.Span) []*parser.Attribute {
	attrs := []*parser.Attribute{parser.NewAttribute(span, "automatically_derived")}
	copied := make(map[*parser.Attribute]bool)
	for _, a := range td.Attributes {
		if !lintAttributes[a.Name.Value] || copied[a] {
			continue
		}
		copied[a] = true
		attrs = append(attrs, a)
	}
	return attrs
}
