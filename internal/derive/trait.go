package derive

import (
	"github.com/orizon-lang/orizon-derive/internal/parser"
	"github.com/orizon-lang/orizon-derive/internal/position"
)

// CombineFunc turns a Substructure into the body fragment of one method.
// The engine invokes it once per generated body, strictly sequentially.
type CombineFunc func(ctx *Context, span position.Span, sub *Substructure) BlockOrExpr

// TraitDef describes one derivable trait: the impl surface to synthesize
// and the methods to generate. The trait catalog builds one per derive
// request; the value is not mutated during expansion.
type TraitDef struct {
	// Span of the derive request. Every synthesized node reuses it.
	Span position.Span

	// Path of the trait as rendered into the impl header and into the
	// bounds added to type parameters.
	Path PathRef

	// Attributes from the derive site. Only lint controls (allow, warn,
	// deny, forbid) and stability markers (stable, unstable) survive onto
	// the impl; everything else is dropped.
	Attributes []*parser.Attribute

	// AdditionalBounds are added to every type parameter ahead of the
	// trait itself. Bounds referencing the target's own parameters are the
	// caller's responsibility; nothing is substituted inside them.
	AdditionalBounds []PathRef

	// SupportsUnions admits union targets.
	SupportsUnions bool

	// Methods to synthesize, in order.
	Methods []*MethodDef

	// AssociatedTypes emitted ahead of the methods.
	AssociatedTypes []AssociatedTypeDef

	// IsConst synthesizes a const impl.
	IsConst bool
}

// AssociatedTypeDef is one associated-type binding on the impl.
type AssociatedTypeDef struct {
	Name string
	Type TypeRef
}

// MethodGenericDef is one method-level generic parameter with its bounds,
// such as the H of hash<H: Hasher>.
type MethodGenericDef struct {
	Name   string
	Bounds []PathRef
}

// ArgDef is one declared method parameter after the receiver.
type ArgDef struct {
	Name string
	Type TypeRef
}

// MethodDef describes one method to synthesize.
type MethodDef struct {
	Name string

	// Generics are method-level type parameters.
	Generics []MethodGenericDef

	// ExplicitSelf gives the method a &self receiver.
	ExplicitSelf bool

	// NonSelfArgs are the parameters after the receiver. An argument whose
	// type is Self or &Self is self-like: it is destructured in lockstep
	// with the receiver instead of passing through untouched.
	NonSelfArgs []ArgDef

	// ReturnType of the method; nil for unit.
	ReturnType TypeRef

	// Attributes copied onto the synthesized function.
	Attributes []*parser.Attribute

	IsConst  bool
	IsUnsafe bool

	// UnifyFieldlessVariants collapses all fieldless enum variants into
	// one shared match arm. A fieldless combinator cannot observe which
	// variant it was given, so the arms would be identical.
	UnifyFieldlessVariants bool

	// CombineSubstructure builds the method body from the substructure.
	CombineSubstructure CombineFunc
}

// isSelfLike reports whether an argument type is Self or a reference to
// Self.
func isSelfLike(t TypeRef) bool {
	switch r := t.(type) {
	case SelfRef:
		return true
	case RefOf:
		_, ok := r.Inner.(SelfRef)
		return ok
	}
	return false
}
