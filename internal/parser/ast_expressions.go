// Expression and statement node definitions for the declaration AST.
// These nodes are never produced by the parser's declaration grammar; they
// exist to represent synthesized method bodies.

package parser

import (
	"fmt"
	"strings"

	"github.com/orizon-lang/orizon-derive/internal/position"
)

// ====== Statement Nodes ======

// LetStatement represents a let binding, possibly destructuring:
// let Self { x: ref __self_0_0, .. } = *self;
type LetStatement struct {
	Span    position.Span
	Pattern Pattern
	Type    Type // nil when inferred
	Value   Expression
}

func (ls *LetStatement) GetSpan() position.Span { return ls.Span }
func (ls *LetStatement) String() string {
	var sb strings.Builder
	sb.WriteString("let ")
	sb.WriteString(ls.Pattern.String())
	if ls.Type != nil {
		sb.WriteString(": ")
		sb.WriteString(ls.Type.String())
	}
	if ls.Value != nil {
		sb.WriteString(" = ")
		sb.WriteString(ls.Value.String())
	}
	sb.WriteString(";")
	return sb.String()
}
func (ls *LetStatement) statementNode() {}

// ExpressionStatement represents an expression used as a statement
type ExpressionStatement struct {
	Span       position.Span
	Expression Expression
}

func (es *ExpressionStatement) GetSpan() position.Span { return es.Span }
func (es *ExpressionStatement) String() string {
	return es.Expression.String() + ";"
}
func (es *ExpressionStatement) statementNode() {}

// ====== Expression Nodes ======

// BlockExpression represents a block with statements and an optional tail
// expression supplying the block's value
type BlockExpression struct {
	Span       position.Span
	Statements []Statement
	TailExpr   Expression // nil for unit-valued blocks
}

func (be *BlockExpression) GetSpan() position.Span { return be.Span }
func (be *BlockExpression) String() string {
	var parts []string
	for _, stmt := range be.Statements {
		parts = append(parts, stmt.String())
	}
	if be.TailExpr != nil {
		parts = append(parts, be.TailExpr.String())
	}
	return fmt.Sprintf("{ %s }", strings.Join(parts, " "))
}
func (be *BlockExpression) expressionNode() {}

// BinaryExpression represents binary operations
type BinaryExpression struct {
	Span     position.Span
	Left     Expression
	Operator *Operator
	Right    Expression
}

func (be *BinaryExpression) GetSpan() position.Span { return be.Span }
func (be *BinaryExpression) String() string {
	return fmt.Sprintf("%s %s %s", be.Left.String(), be.Operator.Value, be.Right.String())
}
func (be *BinaryExpression) expressionNode() {}

// UnaryExpression represents prefix operations: deref, reference, negation
type UnaryExpression struct {
	Span     position.Span
	Operator *Operator // "*", "&", "&mut", "!", "-"
	Operand  Expression
}

func (ue *UnaryExpression) GetSpan() position.Span { return ue.Span }
func (ue *UnaryExpression) String() string {
	if ue.Operator.Value == "&mut" {
		return fmt.Sprintf("&mut %s", ue.Operand.String())
	}
	return fmt.Sprintf("%s%s", ue.Operator.Value, ue.Operand.String())
}
func (ue *UnaryExpression) expressionNode() {}

// ParenExpression wraps an expression in explicit parentheses. Synthesized
// bodies parenthesize dereferenced bindings so precedence survives rendering.
type ParenExpression struct {
	Span  position.Span
	Inner Expression
}

func (pe *ParenExpression) GetSpan() position.Span { return pe.Span }
func (pe *ParenExpression) String() string {
	return fmt.Sprintf("(%s)", pe.Inner.String())
}
func (pe *ParenExpression) expressionNode() {}

// CallExpression represents function calls
type CallExpression struct {
	Span      position.Span
	Function  Expression
	Arguments []Expression
}

func (ce *CallExpression) GetSpan() position.Span { return ce.Span }
func (ce *CallExpression) String() string {
	var args []string
	for _, arg := range ce.Arguments {
		args = append(args, arg.String())
	}
	return fmt.Sprintf("%s(%s)", ce.Function.String(), strings.Join(args, ", "))
}
func (ce *CallExpression) expressionNode() {}

// MethodCallExpression represents receiver.method(args)
type MethodCallExpression struct {
	Span      position.Span
	Receiver  Expression
	Method    *Identifier
	Arguments []Expression
}

func (mc *MethodCallExpression) GetSpan() position.Span { return mc.Span }
func (mc *MethodCallExpression) String() string {
	var args []string
	for _, arg := range mc.Arguments {
		args = append(args, arg.String())
	}
	return fmt.Sprintf("%s.%s(%s)", mc.Receiver.String(), mc.Method.Value, strings.Join(args, ", "))
}
func (mc *MethodCallExpression) expressionNode() {}

// MemberExpression represents field access: object.field, tuple.0
type MemberExpression struct {
	Span   position.Span
	Object Expression
	Member *Identifier
}

func (me *MemberExpression) GetSpan() position.Span { return me.Span }
func (me *MemberExpression) String() string {
	return fmt.Sprintf("%s.%s", me.Object.String(), me.Member.Value)
}
func (me *MemberExpression) expressionNode() {}

// PathExpression represents a path in expression position:
// Color::Red, core::cmp::Ordering::Equal
type PathExpression struct {
	Span     position.Span
	Segments []*Identifier
}

func (pe *PathExpression) GetSpan() position.Span { return pe.Span }
func (pe *PathExpression) String() string {
	var segs []string
	for _, s := range pe.Segments {
		segs = append(segs, s.Value)
	}
	return strings.Join(segs, "::")
}
func (pe *PathExpression) expressionNode() {}

// TupleExpression represents a tuple construction (a, b, c)
type TupleExpression struct {
	Span     position.Span
	Elements []Expression
}

func (te *TupleExpression) GetSpan() position.Span { return te.Span }
func (te *TupleExpression) String() string {
	var elems []string
	for _, e := range te.Elements {
		elems = append(elems, e.String())
	}
	if len(elems) == 1 {
		return fmt.Sprintf("(%s,)", elems[0])
	}
	return fmt.Sprintf("(%s)", strings.Join(elems, ", "))
}
func (te *TupleExpression) expressionNode() {}

// StructFieldValue represents one field: value pair in a struct literal
type StructFieldValue struct {
	Span  position.Span
	Name  *Identifier
	Value Expression
}

func (sfv *StructFieldValue) GetSpan() position.Span { return sfv.Span }
func (sfv *StructFieldValue) String() string {
	return fmt.Sprintf("%s: %s", sfv.Name.Value, sfv.Value.String())
}

// StructExpression represents struct literal construction:
// Point { x: 1, y: 2 }
type StructExpression struct {
	Span   position.Span
	Type   Type
	Fields []*StructFieldValue
}

func (se *StructExpression) GetSpan() position.Span { return se.Span }
func (se *StructExpression) String() string {
	var fields []string
	for _, field := range se.Fields {
		fields = append(fields, field.String())
	}
	return fmt.Sprintf("%s { %s }", se.Type.String(), strings.Join(fields, ", "))
}
func (se *StructExpression) expressionNode() {}

// AssignmentExpression represents assignment, used in attribute arguments
// (feature = "derive_ext") and synthesized bodies
type AssignmentExpression struct {
	Span     position.Span
	Target   Expression
	Operator *Operator
	Value    Expression
}

func (ae *AssignmentExpression) GetSpan() position.Span { return ae.Span }
func (ae *AssignmentExpression) String() string {
	return fmt.Sprintf("%s %s %s", ae.Target.String(), ae.Operator.Value, ae.Value.String())
}
func (ae *AssignmentExpression) expressionNode() {}

// IfExpression represents an if/else expression. ElseBranch is nil, another
// *IfExpression (else if), or a *BlockExpression
type IfExpression struct {
	Span       position.Span
	Condition  Expression
	ThenBlock  *BlockExpression
	ElseBranch Expression
}

func (ie *IfExpression) GetSpan() position.Span { return ie.Span }
func (ie *IfExpression) String() string {
	if ie.ElseBranch == nil {
		return fmt.Sprintf("if %s %s", ie.Condition.String(), ie.ThenBlock.String())
	}
	return fmt.Sprintf("if %s %s else %s", ie.Condition.String(), ie.ThenBlock.String(), ie.ElseBranch.String())
}
func (ie *IfExpression) expressionNode() {}

// UnreachableExpression represents an unreachable!() marker in a synthesized
// body. The optional message is rendered as a string argument.
type UnreachableExpression struct {
	Span    position.Span
	Message string
}

func (ue *UnreachableExpression) GetSpan() position.Span { return ue.Span }
func (ue *UnreachableExpression) String() string {
	if ue.Message == "" {
		return "unreachable!()"
	}
	return fmt.Sprintf("unreachable!(%q)", ue.Message)
}
func (ue *UnreachableExpression) expressionNode() {}

// ====== Expression Constructors ======

// NewPathExpression creates a path expression from segment names
func NewPathExpression(span position.Span, segments ...string) *PathExpression {
	idents := make([]*Identifier, 0, len(segments))
	for _, s := range segments {
		idents = append(idents, NewIdentifier(span, s))
	}
	return &PathExpression{Span: span, Segments: idents}
}

// NewCallExpression creates a call expression
func NewCallExpression(span position.Span, function Expression, args ...Expression) *CallExpression {
	return &CallExpression{Span: span, Function: function, Arguments: args}
}

// NewMethodCall creates a method call expression
func NewMethodCall(span position.Span, receiver Expression, method string, args ...Expression) *MethodCallExpression {
	return &MethodCallExpression{Span: span, Receiver: receiver, Method: NewIdentifier(span, method), Arguments: args}
}

// NewMemberAccess creates a field access expression
func NewMemberAccess(span position.Span, object Expression, member string) *MemberExpression {
	return &MemberExpression{Span: span, Object: object, Member: NewIdentifier(span, member)}
}

// NewBinaryExpression creates a binary expression
func NewBinaryExpression(span position.Span, left Expression, op string, right Expression) *BinaryExpression {
	return &BinaryExpression{Span: span, Left: left, Operator: NewOperator(span, op), Right: right}
}

// NewUnaryExpression creates a prefix expression
func NewUnaryExpression(span position.Span, op string, operand Expression) *UnaryExpression {
	return &UnaryExpression{Span: span, Operator: NewOperator(span, op), Operand: operand}
}

// NewParenExpression wraps an expression in parentheses
func NewParenExpression(span position.Span, inner Expression) *ParenExpression {
	return &ParenExpression{Span: span, Inner: inner}
}

// NewRefExpression takes a shared reference to an expression
func NewRefExpression(span position.Span, operand Expression) *UnaryExpression {
	return NewUnaryExpression(span, "&", operand)
}

// NewDerefExpression dereferences an expression and parenthesizes the result
// so member access and method calls bind to the dereferenced value
func NewDerefExpression(span position.Span, operand Expression) *ParenExpression {
	return NewParenExpression(span, NewUnaryExpression(span, "*", operand))
}

// NewBoolLiteral creates a boolean literal
func NewBoolLiteral(span position.Span, value bool) *Literal {
	return NewLiteral(span, value, LiteralBoolean)
}

// NewStringLiteral creates a string literal
func NewStringLiteral(span position.Span, value string) *Literal {
	return NewLiteral(span, value, LiteralString)
}
