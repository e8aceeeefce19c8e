package deriving

import (
	"strings"
	"testing"
)

func TestDeriveDebugStruct(t *testing.T) {
	cases := []struct {
		name   string
		source string
		body   string
	}{
		{
			name:   "named fields use debug_struct",
			source: "#[derive(Debug)] struct Point { x: i32, y: i32 }",
			body:   `{ f.debug_struct("Point").field("x", &self.x).field("y", &self.y).finish() }`,
		},
		{
			name:   "positional fields use debug_tuple",
			source: "#[derive(Debug)] struct Pair(i32, f64);",
			body:   `{ f.debug_tuple("Pair").field(&self.0).field(&self.1).finish() }`,
		},
		{
			name:   "unit struct writes its name",
			source: "#[derive(Debug)] struct Unit;",
			body:   `{ f.write_str("Unit") }`,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := derivedBody(t, tc.source); got != tc.body {
				t.Fatalf("expected body %q, got %q", tc.body, got)
			}
		})
	}
}

func TestDeriveDebugMethodShape(t *testing.T) {
	fn := derivedImpl(t, "#[derive(Debug)] struct S { x: i32 }").Items[0]
	if fn.Name.Value != "fmt" {
		t.Fatalf("unexpected method %q", fn.Name.Value)
	}
	if fn.Parameters[0].Name.Value != "f" || fn.Parameters[0].Type.String() != "&mut core::fmt::Formatter" {
		t.Fatalf("unexpected formatter parameter %q", fn.Parameters[0].String())
	}
	if fn.ReturnType.String() != "core::fmt::Result" {
		t.Fatalf("unexpected return type %q", fn.ReturnType.String())
	}
}

func TestDeriveDebugEnum(t *testing.T) {
	got := derivedBody(t, "#[derive(Debug)] enum E { A, B(i32), C { x: i32 } }")
	// Every variant prints its own name, so no arms unify.
	want := "{ match &*self " +
		`{ E::A => f.write_str("A"), ` +
		`E::B(ref __self_0) => f.debug_tuple("B").field(&(*__self_0)).finish(), ` +
		`E::C { x: ref __self_0 } => f.debug_struct("C").field("x", &(*__self_0)).finish() } }`
	if got != want {
		t.Fatalf("expected body %q, got %q", want, got)
	}
}

func TestDeriveDebugFieldlessEnumArms(t *testing.T) {
	got := derivedBody(t, "#[derive(Debug)] enum Direction { North, South }")
	if !strings.Contains(got, `Direction::North => f.write_str("North")`) ||
		!strings.Contains(got, `Direction::South => f.write_str("South")`) {
		t.Fatalf("variant names lost in %q", got)
	}
	if strings.Contains(got, "_ =>") {
		t.Fatalf("fieldless debug arms must not unify: %q", got)
	}
}
