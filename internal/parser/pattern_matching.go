// Pattern and match node definitions. Synthesized method bodies destructure
// self-like arguments through these patterns; the parser itself never builds
// them.

package parser

import (
	"fmt"
	"strings"

	"github.com/orizon-lang/orizon-derive/internal/position"
)

// WildcardPattern represents the _ pattern.
type WildcardPattern struct {
	Span position.Span
}

func (wp *WildcardPattern) GetSpan() position.Span { return wp.Span }
func (wp *WildcardPattern) String() string         { return "_" }
func (wp *WildcardPattern) patternNode() {}

// IdentifierPattern represents a binding pattern (x, ref x, ref mut x).
type IdentifierPattern struct {
	Span      position.Span
	Name      *Identifier
	IsRef     bool
	IsMutable bool
}

func (ip *IdentifierPattern) GetSpan() position.Span { return ip.Span }
func (ip *IdentifierPattern) String() string {
	var sb strings.Builder
	if ip.IsRef {
		sb.WriteString("ref ")
	}
	if ip.IsMutable {
		sb.WriteString("mut ")
	}
	sb.WriteString(ip.Name.Value)
	return sb.String()
}
func (ip *IdentifierPattern) patternNode() {}

// LiteralPattern represents a literal pattern (42, "hello", true).
type LiteralPattern struct {
	Span  position.Span
	Value *Literal
}

func (lp *LiteralPattern) GetSpan() position.Span { return lp.Span }
func (lp *LiteralPattern) String() string         { return lp.Value.String() }
func (lp *LiteralPattern) patternNode() {}

// TuplePattern represents a tuple pattern ((a, b), used to destructure the
// combined match subject when several self-like arguments match in lockstep.
type TuplePattern struct {
	Span     position.Span
	Elements []Pattern
}

func (tp *TuplePattern) GetSpan() position.Span { return tp.Span }
func (tp *TuplePattern) String() string {
	var elems []string
	for _, e := range tp.Elements {
		elems = append(elems, e.String())
	}
	if len(elems) == 1 {
		return fmt.Sprintf("(%s,)", elems[0])
	}
	return fmt.Sprintf("(%s)", strings.Join(elems, ", "))
}
func (tp *TuplePattern) patternNode() {}

// FieldPattern represents one field: pattern pair in a struct pattern.
type FieldPattern struct {
	Span    position.Span
	Name    *Identifier
	Pattern Pattern
}

func (fp *FieldPattern) GetSpan() position.Span { return fp.Span }
func (fp *FieldPattern) String() string {
	return fmt.Sprintf("%s: %s", fp.Name.Value, fp.Pattern.String())
}

// StructPattern represents a struct pattern with named fields:
// Self { x: ref __self_0_0, .. }
type StructPattern struct {
	Span    position.Span
	Path    Type
	Fields  []*FieldPattern
	HasRest bool // trailing ..
}

func (sp *StructPattern) GetSpan() position.Span { return sp.Span }
func (sp *StructPattern) String() string {
	var fields []string
	for _, f := range sp.Fields {
		fields = append(fields, f.String())
	}
	if sp.HasRest {
		fields = append(fields, "..")
	}
	return fmt.Sprintf("%s { %s }", sp.Path.String(), strings.Join(fields, ", "))
}
func (sp *StructPattern) patternNode() {}

// TupleStructPattern represents a tuple-struct or tuple-variant pattern:
// Color::Rgb(ref __self_0, ref __self_1)
type TupleStructPattern struct {
	Span     position.Span
	Path     Type
	Elements []Pattern
}

func (tsp *TupleStructPattern) GetSpan() position.Span { return tsp.Span }
func (tsp *TupleStructPattern) String() string {
	var elems []string
	for _, e := range tsp.Elements {
		elems = append(elems, e.String())
	}
	return fmt.Sprintf("%s(%s)", tsp.Path.String(), strings.Join(elems, ", "))
}
func (tsp *TupleStructPattern) patternNode() {}

// PathPattern represents a unit-variant or unit-struct pattern: Color::Red
type PathPattern struct {
	Span position.Span
	Path Type
}

func (pp *PathPattern) GetSpan() position.Span { return pp.Span }
func (pp *PathPattern) String() string         { return pp.Path.String() }
func (pp *PathPattern) patternNode() {}

// ReferencePattern represents a reference pattern: &pat
type ReferencePattern struct {
	Span      position.Span
	Inner     Pattern
	IsMutable bool
}

func (rp *ReferencePattern) GetSpan() position.Span { return rp.Span }
func (rp *ReferencePattern) String() string {
	if rp.IsMutable {
		return fmt.Sprintf("&mut %s", rp.Inner.String())
	}
	return fmt.Sprintf("&%s", rp.Inner.String())
}
func (rp *ReferencePattern) patternNode() {}

// MatchArm represents one arm of a match expression.
type MatchArm struct {
	Span    position.Span
	Pattern Pattern
	Guard   Expression // nil unless the arm carries an if guard
	Body    Expression
}

func (ma *MatchArm) GetSpan() position.Span { return ma.Span }
func (ma *MatchArm) String() string {
	if ma.Guard != nil {
		return fmt.Sprintf("%s if %s => %s", ma.Pattern.String(), ma.Guard.String(), ma.Body.String())
	}
	return fmt.Sprintf("%s => %s", ma.Pattern.String(), ma.Body.String())
}

// MatchExpression represents a match over a subject expression.
type MatchExpression struct {
	Span    position.Span
	Subject Expression
	Arms    []*MatchArm
}

func (me *MatchExpression) GetSpan() position.Span { return me.Span }
func (me *MatchExpression) String() string {
	var arms []string
	for _, arm := range me.Arms {
		arms = append(arms, arm.String())
	}
	return fmt.Sprintf("match %s { %s }", me.Subject.String(), strings.Join(arms, ", "))
}
func (me *MatchExpression) expressionNode() {}
