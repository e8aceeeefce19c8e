// Package emit renders synthesized impl blocks, and the programs that carry
// them, back to Orizon source text. Layout is fixed: one item per line,
// trailing commas in multi-line lists, blank lines between top-level items.
// The same AST always emits the same text.
package emit

import (
	"strings"

	"github.com/orizon-lang/orizon-derive/internal/parser"
)

// Options controls emitted source layout.
type Options struct {
	// IndentWidth is the number of spaces per indentation level.
	IndentWidth int
	// TrailingNewline ends non-empty output with a newline.
	TrailingNewline bool
}

// DefaultOptions returns the layout the expand command emits with.
func DefaultOptions() Options {
	return Options{
		IndentWidth:     4,
		TrailingNewline: true,
	}
}

// Emitter renders AST nodes as multi-line source. The structural layer,
// declarations, blocks, if/else chains, and match arms, gets its own lines
// and indentation; leaf expressions render through their String form. An
// emitter reuses its buffer across calls and is not safe for concurrent use.
type Emitter struct {
	opts   Options
	indent int
	buf    strings.Builder
}

// NewEmitter creates an emitter with the given options. A non-positive
// indent width falls back to the default.
func NewEmitter(opts Options) *Emitter {
	if opts.IndentWidth <= 0 {
		opts.IndentWidth = DefaultOptions().IndentWidth
	}
	return &Emitter{opts: opts}
}

// EmitImpl renders a single impl block.
func (e *Emitter) EmitImpl(impl *parser.ImplBlock) string {
	e.reset()
	e.implBlock(impl)
	return e.finish()
}

// EmitImpls renders impl blocks in order, separated by blank lines. An empty
// slice emits the empty string.
func (e *Emitter) EmitImpls(impls []*parser.ImplBlock) string {
	e.reset()
	for i, impl := range impls {
		if i > 0 {
			e.blank()
		}
		e.implBlock(impl)
	}
	return e.finish()
}

// EmitProgram renders every declaration of a program, separated by blank
// lines.
func (e *Emitter) EmitProgram(prog *parser.Program) string {
	e.reset()
	for i, decl := range prog.Declarations {
		if i > 0 {
			e.blank()
		}
		e.declaration(decl)
	}
	return e.finish()
}

func (e *Emitter) reset() {
	e.buf.Reset()
	e.indent = 0
}

func (e *Emitter) finish() string {
	out := e.buf.String()
	if out != "" && !e.opts.TrailingNewline {
		out = strings.TrimSuffix(out, "\n")
	}
	return out
}

// line writes one line at the current indentation level.
func (e *Emitter) line(text string) {
	e.buf.WriteString(strings.Repeat(" ", e.indent*e.opts.IndentWidth))
	e.buf.WriteString(text)
	e.buf.WriteString("\n")
}

// blank writes an empty separator line.
func (e *Emitter) blank() {
	e.buf.WriteString("\n")
}

func (e *Emitter) declaration(decl parser.Declaration) {
	switch d := decl.(type) {
	case *parser.StructDeclaration:
		e.structDecl(d)
	case *parser.EnumDeclaration:
		e.enumDecl(d)
	case *parser.UnionDeclaration:
		e.unionDecl(d)
	case *parser.ImplBlock:
		e.implBlock(d)
	case *parser.FunctionDeclaration:
		e.function(d)
	default:
		e.line(decl.String())
	}
}

func (e *Emitter) attributes(attrs []*parser.Attribute) {
	for _, a := range attrs {
		e.line(a.String())
	}
}

func (e *Emitter) structDecl(d *parser.StructDeclaration) {
	e.attributes(d.Attributes)
	head := visibility(d.IsPublic) + "struct " + d.Name.Value + genericList(d.Generics)
	if d.IsTuple {
		e.line(head + "(" + fieldList(d.Fields) + ")" + whereSuffix(d.WhereClauses) + ";")
		return
	}
	head += whereSuffix(d.WhereClauses)
	if len(d.Fields) == 0 {
		e.line(head + ";")
		return
	}
	e.line(head + " {")
	e.indent++
	for _, f := range d.Fields {
		e.line(fieldText(f) + ",")
	}
	e.indent--
	e.line("}")
}

func (e *Emitter) enumDecl(d *parser.EnumDeclaration) {
	e.attributes(d.Attributes)
	head := visibility(d.IsPublic) + "enum " + d.Name.Value + genericList(d.Generics) + whereSuffix(d.WhereClauses)
	if len(d.Variants) == 0 {
		e.line(head + " {}")
		return
	}
	e.line(head + " {")
	e.indent++
	for _, v := range d.Variants {
		text := v.String()
		if v.Discriminant != nil {
			text += " = " + v.Discriminant.String()
		}
		e.line(text + ",")
	}
	e.indent--
	e.line("}")
}

func (e *Emitter) unionDecl(d *parser.UnionDeclaration) {
	e.attributes(d.Attributes)
	head := visibility(d.IsPublic) + "union " + d.Name.Value + genericList(d.Generics) + whereSuffix(d.WhereClauses)
	if len(d.Fields) == 0 {
		e.line(head + " {}")
		return
	}
	e.line(head + " {")
	e.indent++
	for _, f := range d.Fields {
		e.line(fieldText(f) + ",")
	}
	e.indent--
	e.line("}")
}

func (e *Emitter) implBlock(impl *parser.ImplBlock) {
	e.attributes(impl.Attributes)

	var head strings.Builder
	if impl.IsUnsafe {
		head.WriteString("unsafe ")
	}
	if impl.IsConst {
		head.WriteString("const ")
	}
	head.WriteString("impl")
	head.WriteString(genericList(impl.Generics))
	head.WriteString(" ")
	if impl.Trait != nil {
		head.WriteString(impl.Trait.String())
		head.WriteString(" for ")
	}
	head.WriteString(impl.ForType.String())
	head.WriteString(whereSuffix(impl.WhereClauses))

	if len(impl.AssociatedTypes) == 0 && len(impl.Items) == 0 {
		e.line(head.String() + " {}")
		return
	}
	e.line(head.String() + " {")
	e.indent++
	for _, at := range impl.AssociatedTypes {
		e.line(at.String() + ";")
	}
	for i, fn := range impl.Items {
		if i > 0 || len(impl.AssociatedTypes) > 0 {
			e.blank()
		}
		e.function(fn)
	}
	e.indent--
	e.line("}")
}

func (e *Emitter) function(fn *parser.FunctionDeclaration) {
	e.attributes(fn.Attributes)
	sig := signature(fn)
	if fn.Body == nil {
		e.line(sig + ";")
		return
	}
	if len(fn.Body.Statements) == 0 && fn.Body.TailExpr == nil {
		e.line(sig + " {}")
		return
	}
	e.line(sig + " {")
	e.indent++
	e.blockContents(fn.Body)
	e.indent--
	e.line("}")
}

// signature renders the declaration head including the generics list, which
// the node's String omits.
func signature(fn *parser.FunctionDeclaration) string {
	var sb strings.Builder
	if fn.IsConst {
		sb.WriteString("const ")
	}
	if fn.IsUnsafe {
		sb.WriteString("unsafe ")
	}
	sb.WriteString("func ")
	sb.WriteString(fn.Name.Value)
	sb.WriteString(genericList(fn.Generics))
	sb.WriteString("(")
	first := true
	if fn.Receiver != nil {
		sb.WriteString(fn.Receiver.String())
		first = false
	}
	for _, p := range fn.Parameters {
		if !first {
			sb.WriteString(", ")
		}
		first = false
		sb.WriteString(p.String())
	}
	sb.WriteString(")")
	if fn.ReturnType != nil {
		sb.WriteString(" -> ")
		sb.WriteString(fn.ReturnType.String())
	}
	return sb.String()
}

// blockContents writes a block's statements and tail at the current level,
// without the surrounding braces.
func (e *Emitter) blockContents(block *parser.BlockExpression) {
	for _, stmt := range block.Statements {
		e.statement(stmt)
	}
	if block.TailExpr != nil {
		e.expression("", block.TailExpr, "")
	}
}

func (e *Emitter) statement(stmt parser.Statement) {
	if es, ok := stmt.(*parser.ExpressionStatement); ok && isStructural(es.Expression) {
		e.expression("", es.Expression, "")
		return
	}
	e.line(stmt.String())
}

// isStructural reports whether an expression gets multi-line layout instead
// of its single-line String form.
func isStructural(x parser.Expression) bool {
	switch x.(type) {
	case *parser.BlockExpression, *parser.IfExpression, *parser.MatchExpression:
		return true
	}
	return false
}

// expression writes an expression at the current level. prefix is text owed
// on the expression's first line, suffix follows its last.
func (e *Emitter) expression(prefix string, x parser.Expression, suffix string) {
	switch v := x.(type) {
	case *parser.BlockExpression:
		e.block(prefix, v, suffix)
	case *parser.IfExpression:
		e.ifExpression(prefix, v, suffix)
	case *parser.MatchExpression:
		e.matchExpression(prefix, v, suffix)
	default:
		e.line(prefix + x.String() + suffix)
	}
}

func (e *Emitter) block(prefix string, b *parser.BlockExpression, suffix string) {
	if len(b.Statements) == 0 && b.TailExpr == nil {
		e.line(prefix + "{}" + suffix)
		return
	}
	e.line(prefix + "{")
	e.indent++
	e.blockContents(b)
	e.indent--
	e.line("}" + suffix)
}

func (e *Emitter) ifExpression(prefix string, ie *parser.IfExpression, suffix string) {
	e.line(prefix + "if " + ie.Condition.String() + " {")
	e.indent++
	e.blockContents(ie.ThenBlock)
	e.indent--
	switch eb := ie.ElseBranch.(type) {
	case nil:
		e.line("}" + suffix)
	case *parser.IfExpression:
		e.ifExpression("} else ", eb, suffix)
	case *parser.BlockExpression:
		e.block("} else ", eb, suffix)
	default:
		e.line("} else { " + eb.String() + " }" + suffix)
	}
}

func (e *Emitter) matchExpression(prefix string, me *parser.MatchExpression, suffix string) {
	head := prefix + "match " + me.Subject.String()
	if len(me.Arms) == 0 {
		e.line(head + " {}" + suffix)
		return
	}
	e.line(head + " {")
	e.indent++
	for _, arm := range me.Arms {
		e.matchArm(arm)
	}
	e.indent--
	e.line("}" + suffix)
}

// matchArm writes one arm. Expression bodies take a trailing comma; block
// bodies end on their closing brace.
func (e *Emitter) matchArm(arm *parser.MatchArm) {
	head := arm.Pattern.String()
	if arm.Guard != nil {
		head += " if " + arm.Guard.String()
	}
	head += " => "
	if b, ok := arm.Body.(*parser.BlockExpression); ok {
		e.block(head, b, "")
		return
	}
	e.expression(head, arm.Body, ",")
}

func visibility(isPublic bool) string {
	if isPublic {
		return "pub "
	}
	return ""
}

func genericList(params []*parser.GenericParameter) string {
	if len(params) == 0 {
		return ""
	}
	parts := make([]string, 0, len(params))
	for _, p := range params {
		parts = append(parts, p.String())
	}
	return "<" + strings.Join(parts, ", ") + ">"
}

func whereSuffix(preds []*parser.WherePredicate) string {
	if len(preds) == 0 {
		return ""
	}
	parts := make([]string, 0, len(preds))
	for _, p := range preds {
		parts = append(parts, p.String())
	}
	return " where " + strings.Join(parts, ", ")
}

func fieldText(f *parser.StructField) string {
	if f.IsPublic {
		return "pub " + f.String()
	}
	return f.String()
}

func fieldList(fields []*parser.StructField) string {
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, fieldText(f))
	}
	return strings.Join(parts, ", ")
}
