package derive

import (
	"testing"

	"github.com/orizon-lang/orizon-derive/internal/parser"
	"github.com/orizon-lang/orizon-derive/internal/position"
)

func fieldStubs(span position.Span, names ...string) []*FieldInfo {
	fields := make([]*FieldInfo, 0, len(names))
	for _, name := range names {
		fields = append(fields, &FieldInfo{Span: span, SelfExpr: parser.NewIdentifier(span, name)})
	}
	return fields
}

// pairOps renders every combine step as pair(left, right), making the fold
// direction visible in the result string.
func pairOps(span position.Span) FoldOps {
	return FoldOps{
		Single: func(ctx *Context, field *FieldInfo) parser.Expression {
			return field.SelfExpr
		},
		Combine: func(ctx *Context, span position.Span, left, right parser.Expression) parser.Expression {
			return parser.NewCallExpression(span, parser.NewIdentifier(span, "pair"), left, right)
		},
		OnFieldless: func(ctx *Context, span position.Span) parser.Expression {
			return parser.NewIdentifier(span, "empty")
		},
		OnMismatch: func(ctx *Context, span position.Span, discIdents []*parser.Identifier) parser.Expression {
			args := make([]parser.Expression, 0, len(discIdents))
			for _, id := range discIdents {
				args = append(args, id)
			}
			return parser.NewCallExpression(span, parser.NewIdentifier(span, "mismatch"), args...)
		},
	}
}

func foldSub(span position.Span, fields SubstructureFields) *Substructure {
	return &Substructure{
		TypeName:   parser.NewIdentifier(span, "S"),
		MethodName: "eq",
		Fields:     fields,
	}
}

func TestFoldDirections(t *testing.T) {
	span := testSpan()
	cases := []struct {
		name     string
		useFoldl bool
		fields   []string
		want     string
	}{
		{"left fold nests on the left", true, []string{"f0", "f1", "f2"}, "pair(pair(f0, f1), f2)"},
		{"right fold nests on the right", false, []string{"f0", "f1", "f2"}, "pair(f0, pair(f1, f2))"},
		{"single field is its own base", true, []string{"f0"}, "f0"},
		{"single field right fold", false, []string{"f0"}, "f0"},
		{"no fields fall back", true, nil, "empty"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ctx, _ := newTestContext()
			sub := foldSub(span, &StructFields{Fields: fieldStubs(span, tc.fields...)})
			got := Fold(tc.useFoldl, ctx, span, sub, pairOps(span))
			if got.String() != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got.String())
			}
		})
	}
}

func TestFoldSingleFieldSkipsCombine(t *testing.T) {
	span := testSpan()
	ctx, _ := newTestContext()
	ops := pairOps(span)
	combines := 0
	inner := ops.Combine
	ops.Combine = func(ctx *Context, span position.Span, left, right parser.Expression) parser.Expression {
		combines++
		return inner(ctx, span, left, right)
	}
	sub := foldSub(span, &StructFields{Fields: fieldStubs(span, "f0")})
	Fold(true, ctx, span, sub, ops)
	if combines != 0 {
		t.Fatalf("expected no pairwise steps for a single field, got %d", combines)
	}
}

func TestFoldEnumMatchingFields(t *testing.T) {
	span := testSpan()
	ctx, _ := newTestContext()
	sub := foldSub(span, &EnumMatching{Fields: fieldStubs(span, "a", "b")})
	got := Fold(true, ctx, span, sub, pairOps(span))
	if got.String() != "pair(a, b)" {
		t.Fatalf("expected %q, got %q", "pair(a, b)", got.String())
	}
}

func TestFoldMismatch(t *testing.T) {
	span := testSpan()
	ctx, _ := newTestContext()
	sub := foldSub(span, &EnumNonMatchingCollapsed{DiscIdents: []*parser.Identifier{
		parser.NewIdentifier(span, "__self_vi"),
		parser.NewIdentifier(span, "__arg_1_vi"),
	}})
	got := Fold(true, ctx, span, sub, pairOps(span))
	if got.String() != "mismatch(__self_vi, __arg_1_vi)" {
		t.Fatalf("expected mismatch call, got %q", got.String())
	}
}

func TestFoldMismatchWithoutHandlerPanics(t *testing.T) {
	span := testSpan()
	ctx, _ := newTestContext()
	ops := pairOps(span)
	ops.OnMismatch = nil
	sub := foldSub(span, &EnumNonMatchingCollapsed{})
	defer func() {
		if recover() == nil {
			t.Fatal("expected a panic for a missing mismatch handler")
		}
	}()
	Fold(true, ctx, span, sub, ops)
}

func TestFoldStaticShapePanics(t *testing.T) {
	span := testSpan()
	ctx, _ := newTestContext()
	sub := foldSub(span, &StaticStruct{Fields: &NamedFields{}})
	defer func() {
		if recover() == nil {
			t.Fatal("expected a panic for a static substructure")
		}
	}()
	Fold(true, ctx, span, sub, pairOps(span))
}
