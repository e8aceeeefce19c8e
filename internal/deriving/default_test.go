package deriving

import (
	"testing"

	"github.com/orizon-lang/orizon-derive/internal/diagnostics"
)

func TestDeriveDefaultStruct(t *testing.T) {
	cases := []struct {
		name   string
		source string
		body   string
	}{
		{
			name:   "named fields",
			source: "#[derive(Default)] struct Point { x: i32, y: i32 }",
			body:   "{ Point { x: core::default::Default::default(), y: core::default::Default::default() } }",
		},
		{
			name:   "positional fields",
			source: "#[derive(Default)] struct Pair(i32, f64);",
			body:   "{ Pair(core::default::Default::default(), core::default::Default::default()) }",
		},
		{
			name:   "unit struct",
			source: "#[derive(Default)] struct Unit;",
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

func TestDeriveDefaultIsStatic(t *testing.T) {
	fn := derivedImpl(t, "#[derive(Default)] struct S { x: i32 }").Items[0]
	if fn.Receiver != nil {
		t.Fatalf("default must not take a receiver")
	}
	if fn.ReturnType.String() != "S" {
		t.Fatalf("default should return the self type, got %q", fn.ReturnType.String())
	}
}

func TestDeriveDefaultRejectsEnums(t *testing.T) {
	impls, sink := expandSource(t, "#[derive(Default)] enum E { A, B }")
	if len(impls) != 0 {
		t.Fatalf("expected no impls, got %d", len(impls))
	}
	rejected := sink.byCategory(diagnostics.CategoryUnsupportedTarget)
	if len(rejected) != 1 || rejected[0].Code != "E0601" {
		t.Fatalf("expected the enum rejection, got %+v", sink.diags)
	}
}

func TestDeriveDefaultRejectsUnions(t *testing.T) {
	impls, sink := expandSource(t, "#[derive(Default)] union Bits { raw: u64 }")
	if len(impls) != 0 {
		t.Fatalf("expected no impls, got %d", len(impls))
	}
	if len(sink.byCategory(diagnostics.CategoryUnsupportedTarget)) != 1 {
		t.Fatalf("expected the union rejection, got %+v", sink.diags)
	}
}
