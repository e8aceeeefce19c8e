// Type node definitions for the declaration AST.
// Field types are the input to bound inference, so every constructor the
// grammar admits has a node here, including uninterpretable macro types.

package parser

import (
	"fmt"
	"strings"

	"github.com/orizon-lang/orizon-derive/internal/position"
)

// ====== Type Nodes ======

// BasicType represents a simple named type (i32, bool, Self)
type BasicType struct {
	Span position.Span
	Name string
}

func (bt *BasicType) GetSpan() position.Span { return bt.Span }
func (bt *BasicType) String() string         { return bt.Name }
func (bt *BasicType) typeNode() {}

// PathSegment represents one segment of a path type, with optional generic
// arguments (cmp::Ordering, Vec<T>, T::Item)
type PathSegment struct {
	Span     position.Span
	Name     *Identifier
	TypeArgs []Type // nil when the segment has no angle-bracket arguments
}

func (ps *PathSegment) GetSpan() position.Span { return ps.Span }
func (ps *PathSegment) String() string {
	if len(ps.TypeArgs) == 0 {
		return ps.Name.Value
	}
	var args []string
	for _, a := range ps.TypeArgs {
		args = append(args, a.String())
	}
	return fmt.Sprintf("%s<%s>", ps.Name.Value, strings.Join(args, ", "))
}

// PathType represents a possibly qualified, possibly parameterized path type
type PathType struct {
	Span     position.Span
	Segments []*PathSegment
}

func (pt *PathType) GetSpan() position.Span { return pt.Span }
func (pt *PathType) String() string {
	var segs []string
	for _, s := range pt.Segments {
		segs = append(segs, s.String())
	}
	return strings.Join(segs, "::")
}
func (pt *PathType) typeNode() {}

// FirstSegmentName returns the name of the first path segment, or the empty
// string for a degenerate path.
func (pt *PathType) FirstSegmentName() string {
	if len(pt.Segments) == 0 {
		return ""
	}
	return pt.Segments[0].Name.Value
}

// IsBareName reports whether the path is a single segment with no generic
// arguments, i.e. a plain name occurrence.
func (pt *PathType) IsBareName() bool {
	return len(pt.Segments) == 1 && len(pt.Segments[0].TypeArgs) == 0
}

// ReferenceType represents a reference type &T, &mut T, &'a T
type ReferenceType struct {
	Span      position.Span
	Inner     Type
	IsMutable bool
	Lifetime  string // includes the leading ', empty when elided
}

func (rt *ReferenceType) GetSpan() position.Span { return rt.Span }
func (rt *ReferenceType) String() string {
	var sb strings.Builder
	sb.WriteString("&")
	if rt.Lifetime != "" {
		sb.WriteString(rt.Lifetime)
		sb.WriteString(" ")
	}
	if rt.IsMutable {
		sb.WriteString("mut ")
	}
	sb.WriteString(rt.Inner.String())
	return sb.String()
}
func (rt *ReferenceType) typeNode() {}

// PointerType represents a raw pointer type *const T or *mut T
type PointerType struct {
	Span      position.Span
	Inner     Type
	IsMutable bool
}

func (pt *PointerType) GetSpan() position.Span { return pt.Span }
func (pt *PointerType) String() string {
	if pt.IsMutable {
		return fmt.Sprintf("*mut %s", pt.Inner.String())
	}
	return fmt.Sprintf("*const %s", pt.Inner.String())
}
func (pt *PointerType) typeNode() {}

// TupleType represents a tuple type (A, B, C). Zero elements is the unit type.
type TupleType struct {
	Span     position.Span
	Elements []Type
}

func (tt *TupleType) GetSpan() position.Span { return tt.Span }
func (tt *TupleType) String() string {
	var elems []string
	for _, e := range tt.Elements {
		elems = append(elems, e.String())
	}
	if len(elems) == 1 {
		return fmt.Sprintf("(%s,)", elems[0])
	}
	return fmt.Sprintf("(%s)", strings.Join(elems, ", "))
}
func (tt *TupleType) typeNode() {}

// ArrayType represents an array type [T; size] or a slice type [T]
type ArrayType struct {
	Span        position.Span
	ElementType Type
	Size        Expression // nil for slices
	IsDynamic   bool       // true for [T], false for [T; size]
}

func (at *ArrayType) GetSpan() position.Span { return at.Span }
func (at *ArrayType) String() string {
	if at.IsDynamic {
		return fmt.Sprintf("[%s]", at.ElementType.String())
	}
	return fmt.Sprintf("[%s; %s]", at.ElementType.String(), at.Size.String())
}
func (at *ArrayType) typeNode() {}

// FunctionType represents a function type func(A, B) -> C, optionally
// higher-ranked: for<'a> func(&'a T) -> &'a U
type FunctionType struct {
	Span         position.Span
	ForAllParams []*GenericParameter // nil unless higher-ranked
	Parameters   []Type
	ReturnType   Type // nil for unit
}

func (ft *FunctionType) GetSpan() position.Span { return ft.Span }
func (ft *FunctionType) String() string {
	var sb strings.Builder
	if len(ft.ForAllParams) > 0 {
		var params []string
		for _, p := range ft.ForAllParams {
			params = append(params, p.String())
		}
		sb.WriteString(fmt.Sprintf("for<%s> ", strings.Join(params, ", ")))
	}
	var params []string
	for _, p := range ft.Parameters {
		params = append(params, p.String())
	}
	sb.WriteString(fmt.Sprintf("func(%s)", strings.Join(params, ", ")))
	if ft.ReturnType != nil {
		sb.WriteString(" -> ")
		sb.WriteString(ft.ReturnType.String())
	}
	return sb.String()
}
func (ft *FunctionType) typeNode() {}

// MacroType represents a macro invocation in type position: name!(tokens).
// The token stream is opaque; bound inference cannot traverse it.
type MacroType struct {
	Span   position.Span
	Name   *Identifier
	Tokens string
}

func (mt *MacroType) GetSpan() position.Span { return mt.Span }
func (mt *MacroType) String() string {
	return fmt.Sprintf("%s!(%s)", mt.Name.Value, mt.Tokens)
}
func (mt *MacroType) typeNode() {}

// ====== Type Constructors ======

// NewBasicType creates a simple named type node
func NewBasicType(span position.Span, name string) *BasicType {
	return &BasicType{Span: span, Name: name}
}

// NewPathType creates a path type from plain segment names
func NewPathType(span position.Span, names ...string) *PathType {
	segments := make([]*PathSegment, 0, len(names))
	for _, n := range names {
		segments = append(segments, &PathSegment{Span: span, Name: NewIdentifier(span, n)})
	}
	return &PathType{Span: span, Segments: segments}
}

// NewReferenceType creates a shared reference type node
func NewReferenceType(span position.Span, inner Type) *ReferenceType {
	return &ReferenceType{Span: span, Inner: inner}
}
