package deriving

import (
	"strings"
	"testing"
)

func TestDeriveHashStruct(t *testing.T) {
	impl := derivedImpl(t, "#[derive(Hash)] struct Point { x: i32, y: i32 }")
	fn := impl.Items[0]
	if fn.Name.Value != "hash" {
		t.Fatalf("unexpected method %q", fn.Name.Value)
	}
	if len(fn.Generics) != 1 || fn.Generics[0].Name.Value != "__H" ||
		fn.Generics[0].Bounds[0].Trait.String() != "core::hash::Hasher" {
		t.Fatalf("unexpected method generics %+v", fn.Generics)
	}
	if fn.Parameters[0].Name.Value != "state" || fn.Parameters[0].Type.String() != "&mut __H" {
		t.Fatalf("unexpected state parameter %q", fn.Parameters[0].String())
	}
	if fn.ReturnType != nil {
		t.Fatalf("hash returns unit, got %v", fn.ReturnType)
	}
	want := "{ core::hash::Hash::hash(&self.x, state); core::hash::Hash::hash(&self.y, state); }"
	if fn.Body.String() != want {
		t.Fatalf("expected body %q, got %q", want, fn.Body.String())
	}
}

func TestDeriveHashEnum(t *testing.T) {
	got := derivedBody(t, "#[derive(Hash)] enum E { A, B, C(i32) }")
	// The fielded arm hashes the discriminant, then the field.
	if !strings.Contains(got,
		"E::C(ref __self_0) => { core::hash::Hash::hash(&core::intrinsics::discriminant_value(self), state); "+
			"core::hash::Hash::hash(&(*__self_0), state); }") {
		t.Fatalf("fielded arm wrong in %q", got)
	}
	// Unified fieldless variants still hash the discriminant, which is what
	// tells A and B apart.
	if !strings.Contains(got,
		"_ => { core::hash::Hash::hash(&core::intrinsics::discriminant_value(self), state); }") {
		t.Fatalf("unified fieldless arm wrong in %q", got)
	}
	if strings.Contains(got, "__self_vi") {
		t.Fatalf("single self-like method should not bind discriminants: %q", got)
	}
}

func TestDeriveHashSingleVariantEnum(t *testing.T) {
	got := derivedBody(t, "#[derive(Hash)] enum One { Only(u8) }")
	if strings.Contains(got, "discriminant_value") {
		t.Fatalf("single-variant enums need no discriminant hash: %q", got)
	}
	if !strings.Contains(got, "core::hash::Hash::hash(&(*__self_0), state);") {
		t.Fatalf("field hash missing in %q", got)
	}
}

func TestDeriveHashUnitStruct(t *testing.T) {
	fn := derivedImpl(t, "#[derive(Hash)] struct Unit;").Items[0]
	if len(fn.Body.Statements) != 0 || fn.Body.TailExpr != nil {
		t.Fatalf("unit struct hash should be empty, got %q", fn.Body.String())
	}
}
