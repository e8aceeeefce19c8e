package derive

import (
	"testing"

	"github.com/orizon-lang/orizon-derive/internal/diagnostics"
	"github.com/orizon-lang/orizon-derive/internal/lexer"
	"github.com/orizon-lang/orizon-derive/internal/oerrors"
	"github.com/orizon-lang/orizon-derive/internal/parser"
	"github.com/orizon-lang/orizon-derive/internal/position"
)

type recordingReporter struct {
	diags []diagnostics.Diagnostic
}

func (r *recordingReporter) Report(d diagnostics.Diagnostic) {
	r.diags = append(r.diags, d)
}

func newTestContext() (*Context, *recordingReporter) {
	r := &recordingReporter{}
	return NewContext(r, nil), r
}

func testSpan() position.Span {
	pos := position.Position{Filename: "derive_test.oriz", Line: 1, Column: 1}
	return position.Span{Start: pos, End: pos}
}

func parseDecl(t *testing.T, source string) parser.Declaration {
	t.Helper()
	l := lexer.NewWithFilename(source, "derive_test.oriz")
	p := parser.NewParser(l, "derive_test.oriz")
	prog, errs := p.Parse()
	if len(errs) > 0 {
		t.Fatalf("parse errors: %v", errs)
	}
	if len(prog.Declarations) != 1 {
		t.Fatalf("expected 1 declaration, got %d", len(prog.Declarations))
	}
	return prog.Declarations[0]
}

// markerTrait is a method-free table: expanding it exercises the impl
// header (generics, bounds, wheres, attributes) in isolation.
func markerTrait(span position.Span, additional ...PathRef) *TraitDef {
	return &TraitDef{
		Span:             span,
		Path:             Path("core", "marker", "Marker"),
		AdditionalBounds: additional,
	}
}

// eqTrait is a PartialEq-shaped table: one &self method taking a self-like
// argument, folding field comparisons into an && chain.
func eqTrait(span position.Span) *TraitDef {
	return &TraitDef{
		Span: span,
		Path: Path("core", "cmp", "PartialEq"),
		Methods: []*MethodDef{{
			Name:                   "eq",
			ExplicitSelf:           true,
			NonSelfArgs:            []ArgDef{{Name: "other", Type: RefOf{Inner: SelfRef{}}}},
			ReturnType:             Path("bool"),
			UnifyFieldlessVariants: true,
			CombineSubstructure: func(ctx *Context, span position.Span, sub *Substructure) BlockOrExpr {
				return ExprOnly(Fold(true, ctx, span, sub, FoldOps{
					Single: func(ctx *Context, field *FieldInfo) parser.Expression {
						return parser.NewBinaryExpression(field.Span, field.SelfExpr, "==", field.OtherSelfExprs[0])
					},
					Combine: func(ctx *Context, span position.Span, left, right parser.Expression) parser.Expression {
						return parser.NewBinaryExpression(span, left, "&&", right)
					},
					OnFieldless: func(ctx *Context, span position.Span) parser.Expression {
						return parser.NewBoolLiteral(span, true)
					},
					OnMismatch: func(ctx *Context, span position.Span, discIdents []*parser.Identifier) parser.Expression {
						return parser.NewBoolLiteral(span, false)
					},
				}))
			},
		}},
	}
}

func expandOn(t *testing.T, td *TraitDef, source string) (*parser.ImplBlock, *recordingReporter) {
	t.Helper()
	ctx, rep := newTestContext()
	impl, err := td.Expand(ctx, parseDecl(t, source))
	if err != nil {
		t.Fatalf("Expand: %v", err)
	}
	return impl, rep
}

func TestExpandSelfType(t *testing.T) {
	cases := []struct {
		name    string
		source  string
		forType string
	}{
		{"plain struct", "struct Point { x: i32 }", "Point"},
		{"type parameters reapplied", "struct Wrapper<T, U> { a: T, b: U }", "Wrapper<T, U>"},
		{"lifetimes and consts reapplied", "struct Buf<'a, T, const N: usize> { data: &'a [T; N] }", "Buf<'a, T, N>"},
		{"enum target", "enum Either<L, R> { Left(L), Right(R) }", "Either<L, R>"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			impl, _ := expandOn(t, markerTrait(testSpan()), tc.source)
			if impl.ForType.String() != tc.forType {
				t.Fatalf("expected for-type %q, got %q", tc.forType, impl.ForType.String())
			}
			if impl.Trait.String() != "core::marker::Marker" {
				t.Fatalf("unexpected trait path %q", impl.Trait.String())
			}
		})
	}
}

func TestExpandBoundsOrder(t *testing.T) {
	td := markerTrait(testSpan(), Path("core", "marker", "Copy"))
	impl, _ := expandOn(t, td, "struct S<T: Display, U> { a: T, b: U }")

	if len(impl.Generics) != 2 {
		t.Fatalf("expected 2 generic params, got %d", len(impl.Generics))
	}
	// Additional bounds first, the trait itself second, declared bounds last.
	tBounds := impl.Generics[0].Bounds
	if len(tBounds) != 3 {
		t.Fatalf("expected 3 bounds on T, got %d", len(tBounds))
	}
	want := []string{"core::marker::Copy", "core::marker::Marker", "Display"}
	for i, w := range want {
		if tBounds[i].Trait.String() != w {
			t.Fatalf("bound %d: expected %q, got %q", i, w, tBounds[i].Trait.String())
		}
	}
	uBounds := impl.Generics[1].Bounds
	if len(uBounds) != 2 {
		t.Fatalf("expected 2 bounds on U, got %d", len(uBounds))
	}
	if uBounds[0].Trait.String() != "core::marker::Copy" || uBounds[1].Trait.String() != "core::marker::Marker" {
		t.Fatalf("unexpected bounds on U: %q, %q", uBounds[0].Trait.String(), uBounds[1].Trait.String())
	}
}

func TestExpandGenericsPassThrough(t *testing.T) {
	impl, _ := expandOn(t, markerTrait(testSpan()), "struct Buf<'a, T, const N: usize> { data: &'a [T; N] }")
	if len(impl.Generics) != 3 {
		t.Fatalf("expected 3 generic params, got %d", len(impl.Generics))
	}
	if impl.Generics[0].Kind != parser.GenericParamLifetime || len(impl.Generics[0].Bounds) != 0 {
		t.Fatalf("lifetime param must pass through unbounded, got %+v", impl.Generics[0])
	}
	if impl.Generics[2].Kind != parser.GenericParamConst || len(impl.Generics[2].Bounds) != 0 {
		t.Fatalf("const param must pass through unbounded, got %+v", impl.Generics[2])
	}
	if impl.Generics[1].Kind != parser.GenericParamType || len(impl.Generics[1].Bounds) != 1 {
		t.Fatalf("type param must gain exactly the trait bound, got %+v", impl.Generics[1])
	}
}

func TestExpandWherePredicates(t *testing.T) {
	cases := []struct {
		name    string
		source  string
		targets []string // rendered Target of each predicate, in order
	}{
		{
			name:    "declared predicates copied through first",
			source:  "struct S<T> where T: Hash { a: Vec<T> }",
			targets: []string{"T", "T"},
		},
		{
			name:    "bare parameter field adds nothing",
			source:  "struct S<T> { a: T }",
			targets: nil,
		},
		{
			name:    "nested occurrence yields a predicate",
			source:  "struct S<T> { a: Vec<T> }",
			targets: []string{"T"},
		},
		{
			name:    "projection is its own target",
			source:  "struct S<T> { a: T::Item }",
			targets: []string{"T::Item"},
		},
		{
			name:    "identical occurrences collapse",
			source:  "struct S<T> { a: Vec<T>, b: Option<T>, c: T }",
			targets: []string{"T"},
		},
		{
			name:    "no type parameters",
			source:  "struct P { x: i32, y: i32 }",
			targets: nil,
		},
		{
			name:    "enum variant fields contribute",
			source:  "enum E<T> { A(Vec<T>), B }",
			targets: []string{"T"},
		},
		{
			name:    "reference and tuple constructors traversed",
			source:  "struct S<T, U> { a: (&T, [U; 4]) }",
			targets: []string{"T", "U"},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			impl, _ := expandOn(t, markerTrait(testSpan()), tc.source)
			if len(impl.WhereClauses) != len(tc.targets) {
				t.Fatalf("expected %d predicates, got %d: %+v", len(tc.targets), len(impl.WhereClauses), impl.WhereClauses)
			}
			for i, want := range tc.targets {
				if impl.WhereClauses[i].Target.String() != want {
					t.Fatalf("predicate %d: expected target %q, got %q", i, want, impl.WhereClauses[i].Target.String())
				}
			}
		})
	}
}

func TestExpandWherePredicateBounds(t *testing.T) {
	td := markerTrait(testSpan(), Path("core", "marker", "Copy"))
	impl, _ := expandOn(t, td, "struct S<T> { a: Vec<T> }")
	if len(impl.WhereClauses) != 1 {
		t.Fatalf("expected 1 predicate, got %d", len(impl.WhereClauses))
	}
	bounds := impl.WhereClauses[0].Bounds
	if len(bounds) != 2 {
		t.Fatalf("expected additional bound + trait, got %d bounds", len(bounds))
	}
	if bounds[0].Trait.String() != "core::marker::Copy" || bounds[1].Trait.String() != "core::marker::Marker" {
		t.Fatalf("unexpected bound order: %q, %q", bounds[0].Trait.String(), bounds[1].Trait.String())
	}
}

func TestExpandHigherRankedBinders(t *testing.T) {
	impl, _ := expandOn(t, markerTrait(testSpan()), "struct S<T> { f: for<'a> func(&'a T) -> T }")
	// Two occurrences of T inside the function type: the parameter's and the
	// return's. The parameter occurrence carries the for-all binder; the
	// return occurrence does too, and both share one rendered key, so a
	// single bound predicate with binders comes out.
	if len(impl.WhereClauses) != 1 {
		t.Fatalf("expected 1 predicate, got %d", len(impl.WhereClauses))
	}
	wp := impl.WhereClauses[0]
	if len(wp.ForAllParams) != 1 || wp.ForAllParams[0].Name.Value != "'a" {
		t.Fatalf("expected for<'a> binder on inferred predicate, got %+v", wp.ForAllParams)
	}
	if wp.Target.String() != "T" {
		t.Fatalf("unexpected target %q", wp.Target.String())
	}
}

func TestExpandTypeMacroStopsExpansion(t *testing.T) {
	ctx, rep := newTestContext()
	td := markerTrait(testSpan())
	impl, err := td.Expand(ctx, parseDecl(t, "struct S<T> { a: frob!(T) }"))
	if impl != nil {
		t.Fatalf("expected no impl, got %+v", impl)
	}
	if !oerrors.Is(err, oerrors.ErrUnexpandableTypeMacro) {
		t.Fatalf("expected ErrUnexpandableTypeMacro, got %v", err)
	}
	if len(rep.diags) != 1 {
		t.Fatalf("expected 1 diagnostic, got %d", len(rep.diags))
	}
	if rep.diags[0].Category != diagnostics.CategoryTypeMacro {
		t.Fatalf("unexpected category %v", rep.diags[0].Category)
	}
}

func TestExpandUnionGating(t *testing.T) {
	t.Run("rejected without union support", func(t *testing.T) {
		ctx, rep := newTestContext()
		td := markerTrait(testSpan())
		impl, err := td.Expand(ctx, parseDecl(t, "union Bits { raw: u64, halves: (u32, u32) }"))
		if impl != nil {
			t.Fatalf("expected no impl for unsupported union")
		}
		if !oerrors.Is(err, oerrors.ErrUnsupportedTarget) {
			t.Fatalf("expected ErrUnsupportedTarget, got %v", err)
		}
		if len(rep.diags) != 1 || rep.diags[0].Category != diagnostics.CategoryUnsupportedTarget {
			t.Fatalf("expected one unsupported-target diagnostic, got %+v", rep.diags)
		}
	})
	t.Run("admitted with union support", func(t *testing.T) {
		td := markerTrait(testSpan())
		td.SupportsUnions = true
		impl, rep := expandOn(t, td, "union Bits { raw: u64 }")
		if impl.ForType.String() != "Bits" {
			t.Fatalf("unexpected for-type %q", impl.ForType.String())
		}
		if len(rep.diags) != 0 {
			t.Fatalf("unexpected diagnostics %+v", rep.diags)
		}
	})
}

func TestExpandRejectsOtherDeclarations(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic for a non struct/enum/union target")
		}
	}()
	ctx, _ := newTestContext()
	span := testSpan()
	fn := &parser.FunctionDeclaration{Span: span, Name: parser.NewIdentifier(span, "f")}
	_, _ = markerTrait(span).Expand(ctx, fn)
}

func TestExpandImplAttributes(t *testing.T) {
	decl := parseDecl(t, "#[allow(dead_code)] #[derive(Clone)] #[inline] #[stable] struct S { x: i32 }")
	sd := decl.(*parser.StructDeclaration)

	td := markerTrait(testSpan())
	td.Attributes = sd.Attributes
	ctx, _ := newTestContext()
	impl, err := td.Expand(ctx, decl)
	if err != nil {
		t.Fatalf("Expand: %v", err)
	}

	got := make([]string, 0, len(impl.Attributes))
	for _, a := range impl.Attributes {
		got = append(got, a.Name.Value)
	}
	want := []string{"automatically_derived", "allow", "stable"}
	if len(got) != len(want) {
		t.Fatalf("expected attributes %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("attribute %d: expected %q, got %q", i, want[i], got[i])
		}
	}
}

func TestExpandImplAttributeDedup(t *testing.T) {
	span := testSpan()
	lint := parser.NewAttribute(span, "allow", parser.NewIdentifier(span, "dead_code"))
	td := markerTrait(span)
	td.Attributes = []*parser.Attribute{lint, lint}
	impl, _ := expandOn(t, td, "struct S { x: i32 }")
	if len(impl.Attributes) != 2 {
		t.Fatalf("expected marker + one lint attribute, got %d", len(impl.Attributes))
	}
}

func TestExpandAssociatedTypes(t *testing.T) {
	td := markerTrait(testSpan())
	td.AssociatedTypes = []AssociatedTypeDef{
		{Name: "Output", Type: SelfRef{}},
		{Name: "Err", Type: Path("core", "convert", "Infallible")},
	}
	impl, _ := expandOn(t, td, "struct W<T> { inner: Vec<T> }")
	if len(impl.AssociatedTypes) != 2 {
		t.Fatalf("expected 2 associated types, got %d", len(impl.AssociatedTypes))
	}
	if impl.AssociatedTypes[0].Name.Value != "Output" || impl.AssociatedTypes[0].Type.String() != "W<T>" {
		t.Fatalf("unexpected first associated type %s = %s", impl.AssociatedTypes[0].Name.Value, impl.AssociatedTypes[0].Type.String())
	}
	if impl.AssociatedTypes[1].Type.String() != "core::convert::Infallible" {
		t.Fatalf("unexpected second associated type %s", impl.AssociatedTypes[1].Type.String())
	}
}

func TestExpandConstImpl(t *testing.T) {
	td := markerTrait(testSpan())
	td.IsConst = true
	impl, _ := expandOn(t, td, "struct S { x: i32 }")
	if !impl.IsConst {
		t.Fatalf("expected const impl")
	}
}

func TestExpandMethodSignature(t *testing.T) {
	impl, _ := expandOn(t, eqTrait(testSpan()), "struct Point { x: i32, y: i32 }")
	if len(impl.Items) != 1 {
		t.Fatalf("expected 1 method, got %d", len(impl.Items))
	}
	fn := impl.Items[0]
	if fn.Name.Value != "eq" {
		t.Fatalf("unexpected method name %q", fn.Name.Value)
	}
	if fn.Receiver == nil || !fn.Receiver.IsRef || fn.Receiver.IsMutable {
		t.Fatalf("expected &self receiver, got %+v", fn.Receiver)
	}
	if len(fn.Parameters) != 1 || fn.Parameters[0].Name.Value != "other" {
		t.Fatalf("unexpected parameters %+v", fn.Parameters)
	}
	if fn.Parameters[0].Type.String() != "&Point" {
		t.Fatalf("self-like parameter must resolve to &Point, got %q", fn.Parameters[0].Type.String())
	}
	if fn.ReturnType.String() != "bool" {
		t.Fatalf("unexpected return type %q", fn.ReturnType.String())
	}
}
