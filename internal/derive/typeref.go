package derive

import (
	"strings"

	"github.com/orizon-lang/orizon-derive/internal/parser"
	"github.com/orizon-lang/orizon-derive/internal/position"
)

// TypeRef is the small type language TraitDefs describe method signatures
// with before any target is known. Resolve instantiates a reference against
// a concrete target, substituting its self type.
type TypeRef interface {
	// Resolve produces the AST type for this reference with Self replaced
	// by selfType.
	Resolve(span position.Span, selfType parser.Type) parser.Type
}

// SelfRef resolves to the target type with its generic arguments applied.
type SelfRef struct{}

func (SelfRef) Resolve(span position.Span, selfType parser.Type) parser.Type {
	return selfType
}

// RefOf resolves to a reference to its inner reference.
type RefOf struct {
	Inner   TypeRef
	Mutable bool
}

func (r RefOf) Resolve(span position.Span, selfType parser.Type) parser.Type {
	return &parser.ReferenceType{
		Span:      span,
		Inner:     r.Inner.Resolve(span, selfType),
		IsMutable: r.Mutable,
	}
}

// PathRef resolves to a fixed path, optionally applying type arguments to
// the final segment. Segment names are rendered verbatim, so the catalog
// controls whether paths are bare (PartialEq) or rooted (core::hash::Hash).
type PathRef struct {
	Segments []string
	Params   []TypeRef
}

// Path is shorthand for an unparameterized PathRef.
func Path(segments ...string) PathRef {
	return PathRef{Segments: segments}
}

func (p PathRef) Resolve(span position.Span, selfType parser.Type) parser.Type {
	segs := make([]*parser.PathSegment, 0, len(p.Segments))
	for _, s := range p.Segments {
		segs = append(segs, &parser.PathSegment{Span: span, Name: parser.NewIdentifier(span, s)})
	}
	if len(p.Params) > 0 && len(segs) > 0 {
		args := make([]parser.Type, 0, len(p.Params))
		for _, param := range p.Params {
			args = append(args, param.Resolve(span, selfType))
		}
		segs[len(segs)-1].TypeArgs = args
	}
	return &parser.PathType{Span: span, Segments: segs}
}

// Name returns the final segment, the referenced item's bare name.
func (p PathRef) Name() string {
	if len(p.Segments) == 0 {
		return ""
	}
	return p.Segments[len(p.Segments)-1]
}

func (p PathRef) String() string {
	return strings.Join(p.Segments, "::")
}

// UnitRef resolves to the unit type.
type UnitRef struct{}

func (UnitRef) Resolve(span position.Span, selfType parser.Type) parser.Type {
	return &parser.TupleType{Span: span}
}
