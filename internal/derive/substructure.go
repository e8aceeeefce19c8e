package derive

import (
	"github.com/orizon-lang/orizon-derive/internal/parser"
	"github.com/orizon-lang/orizon-derive/internal/position"
)

// Substructure is the value handed to a method combinator: the target's
// name, the method being synthesized, expressions for the plain arguments,
// and the field-level breakdown of the self-like arguments. Exactly one
// SubstructureFields shape is populated per invocation.
type Substructure struct {
	TypeName    *parser.Identifier
	MethodName  string
	NonSelfArgs []parser.Expression
	Fields      SubstructureFields
}

// SubstructureFields is the closed set of shapes a combinator can receive.
type SubstructureFields interface {
	substructureFields()
}

// StructFields is the instance-method struct shape: one FieldInfo per
// declared field, in declaration order.
type StructFields struct {
	Fields []*FieldInfo
}

func (*StructFields) substructureFields() {}

// EnumMatching is the instance-method enum shape when every self-like
// argument holds the same variant. Index is the variant's declared position.
// When fieldless variants share one unified arm, Index is 0, Variant is the
// first fieldless variant, and Fields is empty: a fieldless combinator
// cannot observe which variant matched, only that no fields exist.
type EnumMatching struct {
	Index        int
	VariantCount int
	Variant      *parser.EnumVariant
	Fields       []*FieldInfo
}

func (*EnumMatching) substructureFields() {}

// EnumNonMatchingCollapsed is the instance-method enum shape when the
// self-like arguments disagree on variant. Only the discriminant bindings
// are observable; field values are absent so generated code stays linear in
// the variant count instead of quadratic in variant pairs.
type EnumNonMatchingCollapsed struct {
	DiscIdents []*parser.Identifier
}

func (*EnumNonMatchingCollapsed) substructureFields() {}

// StaticStruct is the static-method struct and union shape: field names and
// spans only, no runtime values.
type StaticStruct struct {
	Fields StaticFields
}

func (*StaticStruct) substructureFields() {}

// StaticEnum is the static-method enum shape, one summary per variant in
// declaration order.
type StaticEnum struct {
	Variants []StaticVariant
}

func (*StaticEnum) substructureFields() {}

// StaticVariant pairs a variant with its field summary.
type StaticVariant struct {
	Variant *parser.EnumVariant
	Fields  StaticFields
}

// FieldInfo describes one field across every self-like argument of a
// method. SelfExpr accesses the field on the first self-like argument;
// OtherSelfExprs hold the same access on each remaining self-like argument,
// in argument order. Infos are built fresh for every method expansion.
type FieldInfo struct {
	Span           position.Span
	Name           *parser.Identifier // nil for positional fields
	SelfExpr       parser.Expression
	OtherSelfExprs []parser.Expression
}

// StaticFields summarizes a field list's shape without any runtime values.
type StaticFields interface {
	staticFields()
}

// NamedFields lists the names and spans of a named field list. A fieldless
// declaration summarizes as NamedFields with empty lists.
type NamedFields struct {
	Spans []position.Span
	Names []*parser.Identifier
}

func (*NamedFields) staticFields() {}

// UnnamedFields lists the spans of a positional field list. IsTuple
// distinguishes tuple declarations from other unnamed shapes.
type UnnamedFields struct {
	Spans   []position.Span
	IsTuple bool
}

func (*UnnamedFields) staticFields() {}
