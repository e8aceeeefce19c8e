// Package parser implements the Orizon declaration parser and the AST the
// derive pipeline consumes and produces. The grammar is the declaration
// subset: struct, enum, and union items with attributes, generics, and where
// clauses. Function bodies are synthesized by the derive engine, never parsed.
package parser

import (
	"fmt"
	"strings"

	"github.com/orizon-lang/orizon-derive/internal/lexer"
	"github.com/orizon-lang/orizon-derive/internal/position"
)

// ====== Core Interfaces ======

// Node represents the base interface for all AST nodes
type Node interface {
	// GetSpan returns the source span for this node
	GetSpan() position.Span
	// String returns a string representation of the node
	String() string
}

// Statement represents all statement nodes
type Statement interface {
	Node
	statementNode()
}

// Expression represents all expression nodes
type Expression interface {
	Node
	expressionNode()
}

// Declaration represents all declaration nodes. Declarations carry the
// visitor dispatch; expression, pattern, and type nodes are traversed with
// type switches where needed.
type Declaration interface {
	Node
	Accept(visitor Visitor) interface{}
	declarationNode()
}

// Type represents all type nodes
type Type interface {
	Node
	typeNode()
}

// Pattern represents all pattern nodes
type Pattern interface {
	Node
	patternNode()
}

// ====== Program Structure ======

// Program represents the root of the AST
type Program struct {
	Span         position.Span
	Declarations []Declaration
}

func (p *Program) GetSpan() position.Span { return p.Span }
func (p *Program) String() string {
	var parts []string
	for _, decl := range p.Declarations {
		parts = append(parts, decl.String())
	}
	return strings.Join(parts, "\n")
}
func (p *Program) Accept(visitor Visitor) interface{} {
	return visitor.VisitProgram(p)
}

// ====== Shared Leaf Nodes ======

// Identifier represents identifiers
type Identifier struct {
	Span  position.Span
	Value string
}

func (i *Identifier) GetSpan() position.Span { return i.Span }
func (i *Identifier) String() string         { return i.Value }
func (i *Identifier) expressionNode()        {}

// LiteralKind represents the kind of a literal value
type LiteralKind int

const (
	LiteralString LiteralKind = iota
	LiteralInteger
	LiteralFloat
	LiteralBoolean
	LiteralUnit
)

// Literal represents literal values
type Literal struct {
	Span  position.Span
	Value interface{}
	Kind  LiteralKind
}

func (l *Literal) GetSpan() position.Span { return l.Span }
func (l *Literal) String() string {
	switch l.Kind {
	case LiteralString:
		return fmt.Sprintf("%q", l.Value)
	case LiteralUnit:
		return "()"
	default:
		return fmt.Sprintf("%v", l.Value)
	}
}
func (l *Literal) expressionNode() {}

// Operator represents an operator token in an expression
type Operator struct {
	Span  position.Span
	Value string
}

func (o *Operator) GetSpan() position.Span { return o.Span }
func (o *Operator) String() string         { return o.Value }

// ====== Attributes ======

// Attribute represents a single #[name(args)] attribute
type Attribute struct {
	Span position.Span
	Name *Identifier
	Args []Expression // nil for bare #[name]
}

func (a *Attribute) GetSpan() position.Span { return a.Span }
func (a *Attribute) String() string {
	if len(a.Args) == 0 {
		return fmt.Sprintf("#[%s]", a.Name.Value)
	}
	var args []string
	for _, arg := range a.Args {
		args = append(args, arg.String())
	}
	return fmt.Sprintf("#[%s(%s)]", a.Name.Value, strings.Join(args, ", "))
}

// ====== Generics ======

// GenericParamKind discriminates type, const, and lifetime parameters
type GenericParamKind int

const (
	GenericParamType GenericParamKind = iota
	GenericParamConst
	GenericParamLifetime
)

// GenericParameter represents one parameter in a generics list
type GenericParameter struct {
	Span      position.Span
	Kind      GenericParamKind
	Name      *Identifier // parameter name; lifetime names include the leading '
	ConstType Type        // element type for const parameters
	Bounds    []*TypeBound
}

func (gp *GenericParameter) GetSpan() position.Span { return gp.Span }
func (gp *GenericParameter) String() string {
	switch gp.Kind {
	case GenericParamConst:
		return fmt.Sprintf("const %s: %s", gp.Name.Value, gp.ConstType.String())
	case GenericParamLifetime:
		return gp.Name.Value
	default:
		if len(gp.Bounds) == 0 {
			return gp.Name.Value
		}
		var bounds []string
		for _, b := range gp.Bounds {
			bounds = append(bounds, b.String())
		}
		return fmt.Sprintf("%s: %s", gp.Name.Value, strings.Join(bounds, " + "))
	}
}

// TypeBound represents one bound in a bound list, optionally quantified
// (for<'a> Trait<'a>)
type TypeBound struct {
	Span         position.Span
	ForAllParams []*GenericParameter // nil unless higher-ranked
	Trait        Type
}

func (tb *TypeBound) GetSpan() position.Span { return tb.Span }
func (tb *TypeBound) String() string {
	if len(tb.ForAllParams) == 0 {
		return tb.Trait.String()
	}
	var params []string
	for _, p := range tb.ForAllParams {
		params = append(params, p.String())
	}
	return fmt.Sprintf("for<%s> %s", strings.Join(params, ", "), tb.Trait.String())
}

// WherePredicate represents one predicate in a where clause
type WherePredicate struct {
	Span         position.Span
	ForAllParams []*GenericParameter // nil unless higher-ranked
	Target       Type
	Bounds       []*TypeBound
}

func (wp *WherePredicate) GetSpan() position.Span { return wp.Span }
func (wp *WherePredicate) String() string {
	var bounds []string
	for _, b := range wp.Bounds {
		bounds = append(bounds, b.String())
	}
	target := wp.Target.String()
	if len(wp.ForAllParams) > 0 {
		var params []string
		for _, p := range wp.ForAllParams {
			params = append(params, p.String())
		}
		target = fmt.Sprintf("for<%s> %s", strings.Join(params, ", "), target)
	}
	return fmt.Sprintf("%s: %s", target, strings.Join(bounds, " + "))
}

// ====== Declarations ======

// StructField represents one field of a struct, union, or enum variant.
// Name is nil for positional (tuple) fields.
type StructField struct {
	Span     position.Span
	Name     *Identifier
	Type     Type
	IsPublic bool
}

func (sf *StructField) GetSpan() position.Span { return sf.Span }
func (sf *StructField) String() string {
	if sf.Name == nil {
		return sf.Type.String()
	}
	return fmt.Sprintf("%s: %s", sf.Name.Value, sf.Type.String())
}

// StructDeclaration represents a struct declaration
type StructDeclaration struct {
	Span         position.Span
	Attributes   []*Attribute
	Name         *Identifier
	Generics     []*GenericParameter
	WhereClauses []*WherePredicate
	Fields       []*StructField
	IsTuple      bool // struct Point(i32, i32);
	IsPublic     bool
}

func (sd *StructDeclaration) GetSpan() position.Span { return sd.Span }
func (sd *StructDeclaration) String() string {
	var fields []string
	for _, f := range sd.Fields {
		fields = append(fields, f.String())
	}
	if sd.IsTuple {
		return fmt.Sprintf("struct %s(%s)", sd.Name.Value, strings.Join(fields, ", "))
	}
	return fmt.Sprintf("struct %s { %s }", sd.Name.Value, strings.Join(fields, ", "))
}
func (sd *StructDeclaration) Accept(visitor Visitor) interface{} {
	return visitor.VisitStructDeclaration(sd)
}
func (sd *StructDeclaration) declarationNode() {}

// EnumVariant represents one variant of an enum declaration
type EnumVariant struct {
	Span         position.Span
	Name         *Identifier
	Fields       []*StructField
	IsTuple      bool       // B(i32) as opposed to B { value: i32 }
	Discriminant Expression // nil unless the variant carries A = expr
}

func (ev *EnumVariant) GetSpan() position.Span { return ev.Span }
func (ev *EnumVariant) String() string {
	if len(ev.Fields) == 0 {
		return ev.Name.Value
	}
	var fields []string
	for _, f := range ev.Fields {
		fields = append(fields, f.String())
	}
	if ev.IsTuple {
		return fmt.Sprintf("%s(%s)", ev.Name.Value, strings.Join(fields, ", "))
	}
	return fmt.Sprintf("%s { %s }", ev.Name.Value, strings.Join(fields, ", "))
}

// EnumDeclaration represents an enum declaration
type EnumDeclaration struct {
	Span         position.Span
	Attributes   []*Attribute
	Name         *Identifier
	Generics     []*GenericParameter
	WhereClauses []*WherePredicate
	Variants     []*EnumVariant
	IsPublic     bool
}

func (ed *EnumDeclaration) GetSpan() position.Span { return ed.Span }
func (ed *EnumDeclaration) String() string {
	var variants []string
	for _, v := range ed.Variants {
		variants = append(variants, v.String())
	}
	return fmt.Sprintf("enum %s { %s }", ed.Name.Value, strings.Join(variants, ", "))
}
func (ed *EnumDeclaration) Accept(visitor Visitor) interface{} {
	return visitor.VisitEnumDeclaration(ed)
}
func (ed *EnumDeclaration) declarationNode() {}

// UnionDeclaration represents a union declaration
type UnionDeclaration struct {
	Span         position.Span
	Attributes   []*Attribute
	Name         *Identifier
	Generics     []*GenericParameter
	WhereClauses []*WherePredicate
	Fields       []*StructField
	IsPublic     bool
}

func (ud *UnionDeclaration) GetSpan() position.Span { return ud.Span }
func (ud *UnionDeclaration) String() string {
	var fields []string
	for _, f := range ud.Fields {
		fields = append(fields, f.String())
	}
	return fmt.Sprintf("union %s { %s }", ud.Name.Value, strings.Join(fields, ", "))
}
func (ud *UnionDeclaration) Accept(visitor Visitor) interface{} {
	return visitor.VisitUnionDeclaration(ud)
}
func (ud *UnionDeclaration) declarationNode() {}

// AssociatedType represents one associated-type binding inside an impl
type AssociatedType struct {
	Span position.Span
	Name *Identifier
	Type Type
}

func (at *AssociatedType) GetSpan() position.Span { return at.Span }
func (at *AssociatedType) String() string {
	return fmt.Sprintf("type %s = %s", at.Name.Value, at.Type.String())
}

// ImplBlock represents an impl block, trait or inherent
type ImplBlock struct {
	Span            position.Span
	Attributes      []*Attribute
	Generics        []*GenericParameter
	Trait           Type // nil for inherent impls
	ForType         Type
	WhereClauses    []*WherePredicate
	AssociatedTypes []*AssociatedType
	Items           []*FunctionDeclaration
	IsConst         bool
	IsUnsafe        bool
}

func (ib *ImplBlock) GetSpan() position.Span { return ib.Span }
func (ib *ImplBlock) String() string {
	if ib.Trait != nil {
		return fmt.Sprintf("impl %s for %s", ib.Trait.String(), ib.ForType.String())
	}
	return fmt.Sprintf("impl %s", ib.ForType.String())
}
func (ib *ImplBlock) Accept(visitor Visitor) interface{} {
	return visitor.VisitImplBlock(ib)
}
func (ib *ImplBlock) declarationNode() {}

// Receiver represents a function's self parameter
type Receiver struct {
	Span      position.Span
	IsRef     bool
	IsMutable bool
}

func (r *Receiver) GetSpan() position.Span { return r.Span }
func (r *Receiver) String() string {
	switch {
	case r.IsRef && r.IsMutable:
		return "&mut self"
	case r.IsRef:
		return "&self"
	default:
		return "self"
	}
}

// Parameter represents one non-self function parameter
type Parameter struct {
	Span position.Span
	Name *Identifier
	Type Type
}

func (p *Parameter) GetSpan() position.Span { return p.Span }
func (p *Parameter) String() string {
	return fmt.Sprintf("%s: %s", p.Name.Value, p.Type.String())
}

// FunctionDeclaration represents a function, possibly with a receiver
type FunctionDeclaration struct {
	Span       position.Span
	Attributes []*Attribute
	Name       *Identifier
	Generics   []*GenericParameter
	Receiver   *Receiver // nil for associated (static) functions
	Parameters []*Parameter
	ReturnType Type // nil for unit
	Body       *BlockExpression
	IsConst    bool
	IsUnsafe   bool
}

func (fd *FunctionDeclaration) GetSpan() position.Span { return fd.Span }
func (fd *FunctionDeclaration) String() string {
	var params []string
	if fd.Receiver != nil {
		params = append(params, fd.Receiver.String())
	}
	for _, p := range fd.Parameters {
		params = append(params, p.String())
	}
	ret := ""
	if fd.ReturnType != nil {
		ret = " -> " + fd.ReturnType.String()
	}
	return fmt.Sprintf("func %s(%s)%s", fd.Name.Value, strings.Join(params, ", "), ret)
}
func (fd *FunctionDeclaration) Accept(visitor Visitor) interface{} {
	return visitor.VisitFunctionDeclaration(fd)
}
func (fd *FunctionDeclaration) declarationNode() {}

// ====== Visitor Interface ======

// Visitor visits the program and its top-level declarations. Consumers that
// scan a parsed file for derive requests implement this and dispatch through
// Program.Accept.
type Visitor interface {
	VisitProgram(program *Program) interface{}
	VisitStructDeclaration(decl *StructDeclaration) interface{}
	VisitEnumDeclaration(decl *EnumDeclaration) interface{}
	VisitUnionDeclaration(decl *UnionDeclaration) interface{}
	VisitImplBlock(impl *ImplBlock) interface{}
	VisitFunctionDeclaration(decl *FunctionDeclaration) interface{}
}

// ====== Span Utilities ======

// TokenToPosition converts a lexer token's start to a Position
func TokenToPosition(token lexer.Token) position.Position {
	return token.Span.Start
}

// TokenToSpan converts a lexer token to a Span
func TokenToSpan(token lexer.Token) position.Span {
	return token.Span
}

// SpanBetween creates a span from a start position to an end position
func SpanBetween(start, end position.Position) position.Span {
	return position.Span{Start: start, End: end}
}

// CombineSpans combines multiple spans into one encompassing span
func CombineSpans(spans ...position.Span) position.Span {
	if len(spans) == 0 {
		return position.Span{}
	}

	result := spans[0]
	for _, span := range spans[1:] {
		result = result.Union(span)
	}
	return result
}

// ====== Constructors ======

// NewProgram creates a new program node
func NewProgram(span position.Span, declarations []Declaration) *Program {
	return &Program{Span: span, Declarations: declarations}
}

// NewIdentifier creates a new identifier node
func NewIdentifier(span position.Span, value string) *Identifier {
	return &Identifier{Span: span, Value: value}
}

// NewLiteral creates a new literal node
func NewLiteral(span position.Span, value interface{}, kind LiteralKind) *Literal {
	return &Literal{Span: span, Value: value, Kind: kind}
}

// NewOperator creates a new operator node
func NewOperator(span position.Span, value string) *Operator {
	return &Operator{Span: span, Value: value}
}

// NewAttribute creates a new attribute node
func NewAttribute(span position.Span, name string, args ...Expression) *Attribute {
	return &Attribute{Span: span, Name: NewIdentifier(span, name), Args: args}
}

// HasAttribute reports whether attrs contains an attribute with the given name.
func HasAttribute(attrs []*Attribute, name string) bool {
	for _, a := range attrs {
		if a.Name.Value == name {
			return true
		}
	}
	return false
}

// AttributeArgs returns the argument list of the first attribute with the
// given name, or nil when absent.
func AttributeArgs(attrs []*Attribute, name string) []Expression {
	for _, a := range attrs {
		if a.Name.Value == name {
			return a.Args
		}
	}
	return nil
}

// AttributeArgName extracts the bare name of an attribute argument.
// Arguments parse as identifiers or as paths; a path names its final
// segment. Other expression forms have no name.
func AttributeArgName(arg Expression) string {
	switch a := arg.(type) {
	case *Identifier:
		return a.Value
	case *PathExpression:
		if len(a.Segments) > 0 {
			return a.Segments[len(a.Segments)-1].Value
		}
	}
	return ""
}
