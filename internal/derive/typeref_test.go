package derive

import (
	"testing"

	"github.com/orizon-lang/orizon-derive/internal/parser"
)

func TestTypeRefResolve(t *testing.T) {
	span := testSpan()
	selfType := parser.NewPathType(span, "Point")

	cases := []struct {
		name string
		ref  TypeRef
		want string
	}{
		{"self", SelfRef{}, "Point"},
		{"reference to self", RefOf{Inner: SelfRef{}}, "&Point"},
		{"mutable reference", RefOf{Inner: Path("H"), Mutable: true}, "&mut H"},
		{"bare path", Path("bool"), "bool"},
		{"rooted path", Path("core", "cmp", "Ordering"), "core::cmp::Ordering"},
		{"parameterized path", PathRef{Segments: []string{"Wrapper"}, Params: []TypeRef{Path("T")}}, "Wrapper<T>"},
		{"self as a parameter", PathRef{Segments: []string{"Box"}, Params: []TypeRef{SelfRef{}}}, "Box<Point>"},
		{"unit", UnitRef{}, "()"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.ref.Resolve(span, selfType).String()
			if got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestPathRefName(t *testing.T) {
	if got := Path("core", "cmp", "PartialEq").Name(); got != "PartialEq" {
		t.Fatalf("expected last segment, got %q", got)
	}
	if got := Path("Clone").Name(); got != "Clone" {
		t.Fatalf("expected bare name, got %q", got)
	}
	if got := (PathRef{}).Name(); got != "" {
		t.Fatalf("expected empty name for an empty path, got %q", got)
	}
}

func TestPathRefString(t *testing.T) {
	if got := Path("core", "hash", "Hash").String(); got != "core::hash::Hash" {
		t.Fatalf("unexpected rendering %q", got)
	}
}
