package deriving

import (
	"testing"
)

func TestDeriveCloneStruct(t *testing.T) {
	cases := []struct {
		name   string
		source string
		body   string
	}{
		{
			name:   "named fields rebuild through a struct literal",
			source: "#[derive(Clone)] struct Point { x: i32, y: i32 }",
			body:   "{ Point { x: core::clone::Clone::clone(&self.x), y: core::clone::Clone::clone(&self.y) } }",
		},
		{
			name:   "positional fields rebuild through the constructor",
			source: "#[derive(Clone)] struct Pair(i32, f64);",
			body:   "{ Pair(core::clone::Clone::clone(&self.0), core::clone::Clone::clone(&self.1)) }",
		},
		{
			name:   "unit struct names the path",
			source: "#[derive(Clone)] struct Unit;",
			body:   "{ Unit }",
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

func TestDeriveCloneEnum(t *testing.T) {
	got := derivedBody(t, "#[derive(Clone)] enum E { A, B(i32), C { x: i32 } }")
	want := "{ match &*self " +
		"{ E::A => E::A, " +
		"E::B(ref __self_0) => E::B(core::clone::Clone::clone(&(*__self_0))), " +
		"E::C { x: ref __self_0 } => E::C { x: core::clone::Clone::clone(&(*__self_0)) } } }"
	if got != want {
		t.Fatalf("expected body %q, got %q", want, got)
	}
}

func TestDeriveCloneUnion(t *testing.T) {
	impl := derivedImpl(t, "#[derive(Clone)] union Slot<T> { value: T, empty: u8 }")
	if impl.Items[0].Body.String() != "{ *self }" {
		t.Fatalf("union clone should copy whole, got %q", impl.Items[0].Body.String())
	}
	// Copy rides ahead of Clone in the inferred bounds.
	bounds := impl.Generics[0].Bounds
	if len(bounds) != 2 || bounds[0].Trait.String() != "core::marker::Copy" || bounds[1].Trait.String() != "core::clone::Clone" {
		t.Fatalf("unexpected bounds %+v", bounds)
	}
}

func TestDeriveCloneMethodShape(t *testing.T) {
	fn := derivedImpl(t, "#[derive(Clone)] struct S { x: i32 }").Items[0]
	if fn.Name.Value != "clone" || fn.Receiver == nil || !fn.Receiver.IsRef {
		t.Fatalf("unexpected method shape %q", fn.String())
	}
	if fn.ReturnType.String() != "S" {
		t.Fatalf("clone should return the self type, got %q", fn.ReturnType.String())
	}
	if len(fn.Attributes) != 1 || fn.Attributes[0].Name.Value != "inline" {
		t.Fatalf("clone should be #[inline], got %+v", fn.Attributes)
	}
}

func TestDeriveCopyMarker(t *testing.T) {
	impl := derivedImpl(t, "#[derive(Copy)] union Bits { raw: u64, low: u32 }")
	if impl.Trait.String() != "core::marker::Copy" {
		t.Fatalf("unexpected trait %q", impl.Trait.String())
	}
	if len(impl.Items) != 0 {
		t.Fatalf("Copy should synthesize no methods, got %d", len(impl.Items))
	}
}
