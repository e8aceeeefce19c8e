package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/orizon-lang/orizon-derive/internal/lexer"
	"github.com/orizon-lang/orizon-derive/internal/position"
)

// ====== Attributes ======

// parseAttribute parses one #[name] or #[name(args)] attribute.
// The parser is positioned on '#'; on success it ends on ']'.
func (p *Parser) parseAttribute() *Attribute {
	startPos := TokenToPosition(p.current)

	if !p.expectPeek(lexer.TokenLBracket) {
		return nil
	}
	if !p.expectPeek(lexer.TokenIdentifier) {
		return nil
	}
	name := NewIdentifier(TokenToSpan(p.current), p.current.Literal)

	args := make([]Expression, 0)
	if p.peekTokenIs(lexer.TokenLParen) {
		p.nextToken() // '('
		for !p.peekTokenIs(lexer.TokenRParen) && !p.peekTokenIs(lexer.TokenEOF) {
			p.nextToken()
			arg := p.parseAttrExpression()
			if arg == nil {
				return nil
			}
			args = append(args, arg)
			if p.peekTokenIs(lexer.TokenComma) {
				p.nextToken()
			}
		}
		if !p.expectPeek(lexer.TokenRParen) {
			return nil
		}
	}

	if !p.expectPeek(lexer.TokenRBracket) {
		return nil
	}

	endPos := TokenToPosition(p.current)

	return &Attribute{
		Span: SpanBetween(startPos, endPos),
		Name: name,
		Args: args,
	}
}

// parseAttrExpression parses the small expression subset attribute arguments
// and enum discriminants use: identifiers, paths, literals, name = value
// assignments, name(args) calls, and unary minus.
func (p *Parser) parseAttrExpression() Expression {
	switch p.current.Type {
	case lexer.TokenIdentifier:
		return p.parseAttrIdentifier()
	case lexer.TokenString:
		return NewLiteral(TokenToSpan(p.current), p.current.Literal, LiteralString)
	case lexer.TokenInteger:
		value, err := strconv.ParseInt(p.current.Literal, 0, 64)
		if err != nil {
			p.addError(TokenToPosition(p.current),
				fmt.Sprintf("invalid integer literal %q", p.current.Literal),
				"attribute parsing")
			return nil
		}
		return NewLiteral(TokenToSpan(p.current), value, LiteralInteger)
	case lexer.TokenFloat:
		value, err := strconv.ParseFloat(p.current.Literal, 64)
		if err != nil {
			p.addError(TokenToPosition(p.current),
				fmt.Sprintf("invalid float literal %q", p.current.Literal),
				"attribute parsing")
			return nil
		}
		return NewLiteral(TokenToSpan(p.current), value, LiteralFloat)
	case lexer.TokenBool:
		return NewLiteral(TokenToSpan(p.current), p.current.Literal == "true", LiteralBoolean)
	case lexer.TokenMinus:
		startPos := TokenToPosition(p.current)
		op := NewOperator(TokenToSpan(p.current), p.current.Literal)
		p.nextToken()
		operand := p.parseAttrExpression()
		if operand == nil {
			return nil
		}
		return &UnaryExpression{
			Span:     SpanBetween(startPos, TokenToPosition(p.current)),
			Operator: op,
			Operand:  operand,
		}
	default:
		p.addError(TokenToPosition(p.current),
			fmt.Sprintf("unexpected token %s in attribute argument", p.current.Type.String()),
			"attribute parsing")
		return nil
	}
}

// parseAttrIdentifier parses an identifier-led attribute argument: a bare
// name, a :: path, a name(args) call, or a name = value assignment.
func (p *Parser) parseAttrIdentifier() Expression {
	startPos := TokenToPosition(p.current)
	first := NewIdentifier(TokenToSpan(p.current), p.current.Literal)

	switch {
	case p.peekTokenIs(lexer.TokenDoubleColon):
		segments := []*Identifier{first}
		for p.peekTokenIs(lexer.TokenDoubleColon) {
			p.nextToken() // '::'
			if !p.expectPeek(lexer.TokenIdentifier) {
				return nil
			}
			segments = append(segments, NewIdentifier(TokenToSpan(p.current), p.current.Literal))
		}
		return &PathExpression{
			Span:     SpanBetween(startPos, TokenToPosition(p.current)),
			Segments: segments,
		}

	case p.peekTokenIs(lexer.TokenLParen):
		p.nextToken() // '('
		args := make([]Expression, 0)
		for !p.peekTokenIs(lexer.TokenRParen) && !p.peekTokenIs(lexer.TokenEOF) {
			p.nextToken()
			arg := p.parseAttrExpression()
			if arg == nil {
				return nil
			}
			args = append(args, arg)
			if p.peekTokenIs(lexer.TokenComma) {
				p.nextToken()
			}
		}
		if !p.expectPeek(lexer.TokenRParen) {
			return nil
		}
		return &CallExpression{
			Span:      SpanBetween(startPos, TokenToPosition(p.current)),
			Function:  first,
			Arguments: args,
		}

	case p.peekTokenIs(lexer.TokenAssign):
		p.nextToken() // '='
		op := NewOperator(TokenToSpan(p.current), p.current.Literal)
		p.nextToken()
		value := p.parseAttrExpression()
		if value == nil {
			return nil
		}
		return &AssignmentExpression{
			Span:     SpanBetween(startPos, TokenToPosition(p.current)),
			Target:   first,
			Operator: op,
			Value:    value,
		}

	default:
		return first
	}
}

// ====== Struct Declarations ======

// parseStructDeclaration parses a struct in any of its three shapes:
// struct Name { fields }, struct Name(types);, struct Name;
func (p *Parser) parseStructDeclaration(startPos position.Position, attributes []*Attribute, isPublic bool) *StructDeclaration {
	if !p.expectPeek(lexer.TokenIdentifier) {
		return nil
	}
	name := NewIdentifier(TokenToSpan(p.current), p.current.Literal)

	var generics []*GenericParameter
	if p.peekTokenIs(lexer.TokenLt) {
		generics = p.parseGenericParameters()
		if generics == nil {
			return nil
		}
	}

	decl := &StructDeclaration{
		Attributes: attributes,
		Name:       name,
		Generics:   generics,
		IsPublic:   isPublic,
	}

	// Tuple struct: the where clause follows the field list.
	if p.peekTokenIs(lexer.TokenLParen) {
		p.nextToken() // '('
		fields := p.parseTupleFieldList()
		if fields == nil {
			return nil
		}
		decl.Fields = fields
		decl.IsTuple = true

		if p.peekTokenIs(lexer.TokenWhere) {
			p.nextToken()
			decl.WhereClauses = p.parseWhereClauses()
			if decl.WhereClauses == nil {
				return nil
			}
		}
		if !p.expectPeek(lexer.TokenSemicolon) {
			return nil
		}
		decl.Span = SpanBetween(startPos, TokenToPosition(p.current))
		return decl
	}

	if p.peekTokenIs(lexer.TokenWhere) {
		p.nextToken()
		decl.WhereClauses = p.parseWhereClauses()
		if decl.WhereClauses == nil {
			return nil
		}
	}

	// Named-field struct.
	if p.peekTokenIs(lexer.TokenLBrace) {
		p.nextToken() // '{'
		fields := p.parseStructFieldList()
		if fields == nil {
			return nil
		}
		decl.Fields = fields
		decl.Span = SpanBetween(startPos, TokenToPosition(p.current))
		return decl
	}

	// Unit struct.
	if !p.expectPeek(lexer.TokenSemicolon) {
		return nil
	}
	decl.Fields = make([]*StructField, 0)
	decl.Span = SpanBetween(startPos, TokenToPosition(p.current))
	return decl
}

// parseStructFieldList parses named fields between braces. The parser is
// positioned on '{'; on success it ends on '}'.
func (p *Parser) parseStructFieldList() []*StructField {
	fields := make([]*StructField, 0)

	for !p.peekTokenIs(lexer.TokenRBrace) && !p.peekTokenIs(lexer.TokenEOF) {
		p.nextToken()
		field := p.parseStructField()
		if field == nil {
			return nil
		}
		fields = append(fields, field)

		if p.peekTokenIs(lexer.TokenComma) {
			p.nextToken()
		} else if !p.peekTokenIs(lexer.TokenRBrace) {
			p.peekError(lexer.TokenRBrace)
			return nil
		}
	}

	if !p.expectPeek(lexer.TokenRBrace) {
		return nil
	}
	return fields
}

// parseStructField parses one named field: [pub] name: Type
func (p *Parser) parseStructField() *StructField {
	startPos := TokenToPosition(p.current)

	isPublic := false
	if p.currentTokenIs(lexer.TokenPub) {
		isPublic = true
		p.nextToken()
	}

	if !p.currentTokenIs(lexer.TokenIdentifier) {
		p.addError(TokenToPosition(p.current), "expected field name", "field parsing")
		return nil
	}
	name := NewIdentifier(TokenToSpan(p.current), p.current.Literal)

	if !p.expectPeek(lexer.TokenColon) {
		return nil
	}
	p.nextToken()
	fieldType := p.parseType()
	if fieldType == nil {
		return nil
	}

	return &StructField{
		Span:     SpanBetween(startPos, TokenToPosition(p.current)),
		Name:     name,
		Type:     fieldType,
		IsPublic: isPublic,
	}
}

// parseTupleFieldList parses positional fields between parentheses. The
// parser is positioned on '('; on success it ends on ')'.
func (p *Parser) parseTupleFieldList() []*StructField {
	fields := make([]*StructField, 0)

	for !p.peekTokenIs(lexer.TokenRParen) && !p.peekTokenIs(lexer.TokenEOF) {
		p.nextToken()
		startPos := TokenToPosition(p.current)

		isPublic := false
		if p.currentTokenIs(lexer.TokenPub) {
			isPublic = true
			p.nextToken()
		}

		fieldType := p.parseType()
		if fieldType == nil {
			return nil
		}
		fields = append(fields, &StructField{
			Span:     SpanBetween(startPos, TokenToPosition(p.current)),
			Type:     fieldType,
			IsPublic: isPublic,
		})

		if p.peekTokenIs(lexer.TokenComma) {
			p.nextToken()
		}
	}

	if !p.expectPeek(lexer.TokenRParen) {
		return nil
	}
	return fields
}

// ====== Enum Declarations ======

// parseEnumDeclaration parses an enum with unit, tuple, and struct variants
func (p *Parser) parseEnumDeclaration(startPos position.Position, attributes []*Attribute, isPublic bool) *EnumDeclaration {
	if !p.expectPeek(lexer.TokenIdentifier) {
		return nil
	}
	name := NewIdentifier(TokenToSpan(p.current), p.current.Literal)

	var generics []*GenericParameter
	if p.peekTokenIs(lexer.TokenLt) {
		generics = p.parseGenericParameters()
		if generics == nil {
			return nil
		}
	}

	decl := &EnumDeclaration{
		Attributes: attributes,
		Name:       name,
		Generics:   generics,
		IsPublic:   isPublic,
	}

	if p.peekTokenIs(lexer.TokenWhere) {
		p.nextToken()
		decl.WhereClauses = p.parseWhereClauses()
		if decl.WhereClauses == nil {
			return nil
		}
	}

	if !p.expectPeek(lexer.TokenLBrace) {
		return nil
	}

	variants := make([]*EnumVariant, 0)
	for !p.peekTokenIs(lexer.TokenRBrace) && !p.peekTokenIs(lexer.TokenEOF) {
		p.nextToken()
		variant := p.parseEnumVariant()
		if variant == nil {
			return nil
		}
		variants = append(variants, variant)

		if p.peekTokenIs(lexer.TokenComma) {
			p.nextToken()
		} else if !p.peekTokenIs(lexer.TokenRBrace) {
			p.peekError(lexer.TokenRBrace)
			return nil
		}
	}

	if !p.expectPeek(lexer.TokenRBrace) {
		return nil
	}

	decl.Variants = variants
	decl.Span = SpanBetween(startPos, TokenToPosition(p.current))
	return decl
}

// parseEnumVariant parses one variant: Name, Name(types), Name { fields },
// optionally followed by = discriminant
func (p *Parser) parseEnumVariant() *EnumVariant {
	startPos := TokenToPosition(p.current)

	if !p.currentTokenIs(lexer.TokenIdentifier) {
		p.addError(TokenToPosition(p.current), "expected variant name", "enum parsing")
		return nil
	}
	name := NewIdentifier(TokenToSpan(p.current), p.current.Literal)

	variant := &EnumVariant{
		Name:   name,
		Fields: make([]*StructField, 0),
	}

	switch {
	case p.peekTokenIs(lexer.TokenLParen):
		p.nextToken() // '('
		fields := p.parseTupleFieldList()
		if fields == nil {
			return nil
		}
		variant.Fields = fields
		variant.IsTuple = true

	case p.peekTokenIs(lexer.TokenLBrace):
		p.nextToken() // '{'
		fields := p.parseStructFieldList()
		if fields == nil {
			return nil
		}
		variant.Fields = fields
	}

	if p.peekTokenIs(lexer.TokenAssign) {
		p.nextToken() // '='
		p.nextToken()
		discriminant := p.parseAttrExpression()
		if discriminant == nil {
			return nil
		}
		variant.Discriminant = discriminant
	}

	variant.Span = SpanBetween(startPos, TokenToPosition(p.current))
	return variant
}

// ====== Union Declarations ======

// parseUnionDeclaration parses a union; unions always have named fields
func (p *Parser) parseUnionDeclaration(startPos position.Position, attributes []*Attribute, isPublic bool) *UnionDeclaration {
	if !p.expectPeek(lexer.TokenIdentifier) {
		return nil
	}
	name := NewIdentifier(TokenToSpan(p.current), p.current.Literal)

	var generics []*GenericParameter
	if p.peekTokenIs(lexer.TokenLt) {
		generics = p.parseGenericParameters()
		if generics == nil {
			return nil
		}
	}

	decl := &UnionDeclaration{
		Attributes: attributes,
		Name:       name,
		Generics:   generics,
		IsPublic:   isPublic,
	}

	if p.peekTokenIs(lexer.TokenWhere) {
		p.nextToken()
		decl.WhereClauses = p.parseWhereClauses()
		if decl.WhereClauses == nil {
			return nil
		}
	}

	if !p.expectPeek(lexer.TokenLBrace) {
		return nil
	}
	fields := p.parseStructFieldList()
	if fields == nil {
		return nil
	}

	decl.Fields = fields
	decl.Span = SpanBetween(startPos, TokenToPosition(p.current))
	return decl
}

// ====== Generics ======

// parseGenericParameters parses <T, U: Bound, 'a, const N: usize>. The
// parser is positioned before '<'; on success it ends on '>'.
func (p *Parser) parseGenericParameters() []*GenericParameter {
	p.nextToken() // '<'

	params := make([]*GenericParameter, 0)
	if p.peekTokenIs(lexer.TokenGt) {
		p.nextToken()
		return params
	}

	p.nextToken()
	param := p.parseGenericParameter()
	if param == nil {
		return nil
	}
	params = append(params, param)

	for p.peekTokenIs(lexer.TokenComma) {
		p.nextToken() // ','
		p.nextToken()
		param := p.parseGenericParameter()
		if param == nil {
			return nil
		}
		params = append(params, param)
	}

	if !p.expectPeek(lexer.TokenGt) {
		return nil
	}
	return params
}

// parseGenericParameter parses one generic parameter of any kind
func (p *Parser) parseGenericParameter() *GenericParameter {
	startPos := TokenToPosition(p.current)

	switch p.current.Type {
	case lexer.TokenLifetime:
		return &GenericParameter{
			Span: TokenToSpan(p.current),
			Kind: GenericParamLifetime,
			Name: NewIdentifier(TokenToSpan(p.current), p.current.Literal),
		}

	case lexer.TokenConst:
		if !p.expectPeek(lexer.TokenIdentifier) {
			return nil
		}
		name := NewIdentifier(TokenToSpan(p.current), p.current.Literal)
		if !p.expectPeek(lexer.TokenColon) {
			return nil
		}
		p.nextToken()
		constType := p.parseType()
		if constType == nil {
			return nil
		}
		return &GenericParameter{
			Span:      SpanBetween(startPos, TokenToPosition(p.current)),
			Kind:      GenericParamConst,
			Name:      name,
			ConstType: constType,
		}

	case lexer.TokenIdentifier:
		name := NewIdentifier(TokenToSpan(p.current), p.current.Literal)
		param := &GenericParameter{
			Kind: GenericParamType,
			Name: name,
		}
		if p.peekTokenIs(lexer.TokenColon) {
			p.nextToken() // ':'
			bounds := p.parseTypeBoundList()
			if bounds == nil {
				return nil
			}
			param.Bounds = bounds
		}
		param.Span = SpanBetween(startPos, TokenToPosition(p.current))
		return param

	default:
		p.addError(TokenToPosition(p.current),
			fmt.Sprintf("unexpected token %s in generic parameters", p.current.Type.String()),
			"generics parsing")
		return nil
	}
}

// parseTypeBoundList parses Bound + Bound + ... The parser is positioned on
// ':'; on success it ends on the last token of the last bound.
func (p *Parser) parseTypeBoundList() []*TypeBound {
	bounds := make([]*TypeBound, 0)

	p.nextToken()
	bound := p.parseTypeBound()
	if bound == nil {
		return nil
	}
	bounds = append(bounds, bound)

	for p.peekTokenIs(lexer.TokenPlus) {
		p.nextToken() // '+'
		p.nextToken()
		bound := p.parseTypeBound()
		if bound == nil {
			return nil
		}
		bounds = append(bounds, bound)
	}

	return bounds
}

// parseTypeBound parses one bound, optionally higher-ranked:
// Trait, Trait<T>, for<'a> Trait<'a>
func (p *Parser) parseTypeBound() *TypeBound {
	startPos := TokenToPosition(p.current)

	var forAll []*GenericParameter
	if p.currentTokenIs(lexer.TokenFor) {
		forAll = p.parseForAllBinders()
		if forAll == nil {
			return nil
		}
		p.nextToken()
	}

	trait := p.parseType()
	if trait == nil {
		return nil
	}

	return &TypeBound{
		Span:         SpanBetween(startPos, TokenToPosition(p.current)),
		ForAllParams: forAll,
		Trait:        trait,
	}
}

// parseForAllBinders parses for<'a, 'b>. The parser is positioned on 'for';
// on success it ends on '>'.
func (p *Parser) parseForAllBinders() []*GenericParameter {
	if !p.expectPeek(lexer.TokenLt) {
		return nil
	}

	binders := make([]*GenericParameter, 0)
	for !p.peekTokenIs(lexer.TokenGt) && !p.peekTokenIs(lexer.TokenEOF) {
		p.nextToken()
		if !p.currentTokenIs(lexer.TokenLifetime) {
			p.addError(TokenToPosition(p.current), "expected lifetime in for<> binder", "bound parsing")
			return nil
		}
		binders = append(binders, &GenericParameter{
			Span: TokenToSpan(p.current),
			Kind: GenericParamLifetime,
			Name: NewIdentifier(TokenToSpan(p.current), p.current.Literal),
		})
		if p.peekTokenIs(lexer.TokenComma) {
			p.nextToken()
		}
	}

	if !p.expectPeek(lexer.TokenGt) {
		return nil
	}
	return binders
}

// parseWhereClauses parses where Pred, Pred, ... The parser is positioned on
// 'where'; on success it ends on the last token of the last predicate (or on
// a trailing comma).
func (p *Parser) parseWhereClauses() []*WherePredicate {
	predicates := make([]*WherePredicate, 0)

	p.nextToken()
	for {
		predicate := p.parseWherePredicate()
		if predicate == nil {
			return nil
		}
		predicates = append(predicates, predicate)

		if !p.peekTokenIs(lexer.TokenComma) {
			break
		}
		p.nextToken() // ','
		if p.peekTokenIs(lexer.TokenLBrace) || p.peekTokenIs(lexer.TokenLParen) ||
			p.peekTokenIs(lexer.TokenSemicolon) || p.peekTokenIs(lexer.TokenEOF) {
			break
		}
		p.nextToken()
	}

	return predicates
}

// parseWherePredicate parses Target: Bound + Bound, optionally higher-ranked
func (p *Parser) parseWherePredicate() *WherePredicate {
	startPos := TokenToPosition(p.current)

	var forAll []*GenericParameter
	if p.currentTokenIs(lexer.TokenFor) {
		forAll = p.parseForAllBinders()
		if forAll == nil {
			return nil
		}
		p.nextToken()
	}

	target := p.parseType()
	if target == nil {
		return nil
	}

	if !p.expectPeek(lexer.TokenColon) {
		return nil
	}
	bounds := p.parseTypeBoundList()
	if bounds == nil {
		return nil
	}

	return &WherePredicate{
		Span:         SpanBetween(startPos, TokenToPosition(p.current)),
		ForAllParams: forAll,
		Target:       target,
		Bounds:       bounds,
	}
}

// ====== Types ======

// parseType parses a type. The parser is positioned on the first token of
// the type; on success it ends on its last token.
func (p *Parser) parseType() Type {
	switch p.current.Type {
	case lexer.TokenIdentifier:
		return p.parsePathType()
	case lexer.TokenAmpersand:
		return p.parseReferenceType()
	case lexer.TokenMul:
		return p.parsePointerType()
	case lexer.TokenLParen:
		return p.parseTupleType()
	case lexer.TokenLBracket:
		return p.parseArrayType()
	case lexer.TokenFunc:
		if ft := p.parseFunctionType(); ft != nil {
			return ft
		}
		return nil
	case lexer.TokenFor:
		return p.parseHigherRankedFunctionType()
	default:
		p.addError(TokenToPosition(p.current),
			fmt.Sprintf("unexpected token %s in type", p.current.Type.String()),
			"type parsing")
		return nil
	}
}

// parsePathType parses a possibly qualified, possibly parameterized path
// type: i32, Vec<T>, std::collections::HashMap<K, V>, T::Item. An identifier
// followed by '!' is a macro invocation in type position.
func (p *Parser) parsePathType() Type {
	if p.peekTokenIs(lexer.TokenNot) {
		return p.parseMacroType()
	}

	startPos := TokenToPosition(p.current)

	segments := make([]*PathSegment, 0)
	segment := p.parsePathSegment()
	if segment == nil {
		return nil
	}
	segments = append(segments, segment)

	for p.peekTokenIs(lexer.TokenDoubleColon) {
		p.nextToken() // '::'
		if !p.expectPeek(lexer.TokenIdentifier) {
			return nil
		}
		segment := p.parsePathSegment()
		if segment == nil {
			return nil
		}
		segments = append(segments, segment)
	}

	return &PathType{
		Span:     SpanBetween(startPos, TokenToPosition(p.current)),
		Segments: segments,
	}
}

// parsePathSegment parses one path segment with optional angle-bracket
// arguments
func (p *Parser) parsePathSegment() *PathSegment {
	startPos := TokenToPosition(p.current)
	segment := &PathSegment{
		Span: TokenToSpan(p.current),
		Name: NewIdentifier(TokenToSpan(p.current), p.current.Literal),
	}

	if !p.peekTokenIs(lexer.TokenLt) {
		return segment
	}

	p.nextToken() // '<'
	args := make([]Type, 0)
	for !p.peekTokenIs(lexer.TokenGt) && !p.peekTokenIs(lexer.TokenEOF) {
		p.nextToken()
		var arg Type
		switch p.current.Type {
		case lexer.TokenLifetime:
			arg = NewBasicType(TokenToSpan(p.current), p.current.Literal)
		case lexer.TokenInteger:
			arg = NewBasicType(TokenToSpan(p.current), p.current.Literal)
		default:
			arg = p.parseType()
		}
		if arg == nil {
			return nil
		}
		args = append(args, arg)
		if p.peekTokenIs(lexer.TokenComma) {
			p.nextToken()
		}
	}
	if !p.expectPeek(lexer.TokenGt) {
		return nil
	}

	segment.TypeArgs = args
	segment.Span = SpanBetween(startPos, TokenToPosition(p.current))
	return segment
}

// parseReferenceType parses &T, &mut T, &'a T, &'a mut T
func (p *Parser) parseReferenceType() Type {
	startPos := TokenToPosition(p.current)
	ref := &ReferenceType{}

	if p.peekTokenIs(lexer.TokenLifetime) {
		p.nextToken()
		ref.Lifetime = p.current.Literal
	}
	if p.peekTokenIs(lexer.TokenMut) {
		p.nextToken()
		ref.IsMutable = true
	}

	p.nextToken()
	inner := p.parseType()
	if inner == nil {
		return nil
	}

	ref.Inner = inner
	ref.Span = SpanBetween(startPos, TokenToPosition(p.current))
	return ref
}

// parsePointerType parses *const T and *mut T
func (p *Parser) parsePointerType() Type {
	startPos := TokenToPosition(p.current)

	isMutable := false
	switch {
	case p.peekTokenIs(lexer.TokenMut):
		p.nextToken()
		isMutable = true
	case p.peekTokenIs(lexer.TokenConst):
		p.nextToken()
	default:
		p.addError(TokenToPosition(p.peek), "expected const or mut after *", "type parsing")
		return nil
	}

	p.nextToken()
	inner := p.parseType()
	if inner == nil {
		return nil
	}

	return &PointerType{
		Span:      SpanBetween(startPos, TokenToPosition(p.current)),
		Inner:     inner,
		IsMutable: isMutable,
	}
}

// parseTupleType parses (), (A, B), (A,). A parenthesized single type
// without a trailing comma is the type itself, not a tuple.
func (p *Parser) parseTupleType() Type {
	startPos := TokenToPosition(p.current)

	if p.peekTokenIs(lexer.TokenRParen) {
		p.nextToken()
		return &TupleType{Span: SpanBetween(startPos, TokenToPosition(p.current))}
	}

	p.nextToken()
	first := p.parseType()
	if first == nil {
		return nil
	}

	elements := []Type{first}
	sawComma := false
	for p.peekTokenIs(lexer.TokenComma) {
		sawComma = true
		p.nextToken() // ','
		if p.peekTokenIs(lexer.TokenRParen) {
			break
		}
		p.nextToken()
		element := p.parseType()
		if element == nil {
			return nil
		}
		elements = append(elements, element)
	}

	if !p.expectPeek(lexer.TokenRParen) {
		return nil
	}
	if !sawComma {
		return first
	}

	return &TupleType{
		Span:     SpanBetween(startPos, TokenToPosition(p.current)),
		Elements: elements,
	}
}

// parseArrayType parses [T] and [T; size]
func (p *Parser) parseArrayType() Type {
	startPos := TokenToPosition(p.current)

	p.nextToken()
	element := p.parseType()
	if element == nil {
		return nil
	}

	array := &ArrayType{ElementType: element}
	if p.peekTokenIs(lexer.TokenSemicolon) {
		p.nextToken() // ';'
		p.nextToken()
		size := p.parseAttrExpression()
		if size == nil {
			return nil
		}
		array.Size = size
	} else {
		array.IsDynamic = true
	}

	if !p.expectPeek(lexer.TokenRBracket) {
		return nil
	}
	array.Span = SpanBetween(startPos, TokenToPosition(p.current))
	return array
}

// parseFunctionType parses func(A, B) -> C. Parameter names are accepted
// and discarded: func(x: int) -> int
func (p *Parser) parseFunctionType() *FunctionType {
	startPos := TokenToPosition(p.current)

	if !p.expectPeek(lexer.TokenLParen) {
		return nil
	}

	parameters := make([]Type, 0)
	for !p.peekTokenIs(lexer.TokenRParen) && !p.peekTokenIs(lexer.TokenEOF) {
		p.nextToken()
		if p.currentTokenIs(lexer.TokenIdentifier) && p.peekTokenIs(lexer.TokenColon) {
			p.nextToken() // ':'
			p.nextToken()
		}
		parameter := p.parseType()
		if parameter == nil {
			return nil
		}
		parameters = append(parameters, parameter)
		if p.peekTokenIs(lexer.TokenComma) {
			p.nextToken()
		}
	}
	if !p.expectPeek(lexer.TokenRParen) {
		return nil
	}

	ft := &FunctionType{Parameters: parameters}
	if p.peekTokenIs(lexer.TokenArrow) {
		p.nextToken() // '->'
		p.nextToken()
		returnType := p.parseType()
		if returnType == nil {
			return nil
		}
		ft.ReturnType = returnType
	}

	ft.Span = SpanBetween(startPos, TokenToPosition(p.current))
	return ft
}

// parseHigherRankedFunctionType parses for<'a> func(&'a T) -> &'a U
func (p *Parser) parseHigherRankedFunctionType() Type {
	startPos := TokenToPosition(p.current)

	binders := p.parseForAllBinders()
	if binders == nil {
		return nil
	}
	if !p.expectPeek(lexer.TokenFunc) {
		return nil
	}

	ft := p.parseFunctionType()
	if ft == nil {
		return nil
	}
	ft.ForAllParams = binders
	ft.Span = SpanBetween(startPos, TokenToPosition(p.current))
	return ft
}

// parseMacroType parses name!(tokens) in type position. The token stream is
// kept as opaque text; nothing downstream can interpret it.
func (p *Parser) parseMacroType() Type {
	startPos := TokenToPosition(p.current)
	name := NewIdentifier(TokenToSpan(p.current), p.current.Literal)

	p.nextToken() // '!'
	if !p.expectPeek(lexer.TokenLParen) {
		return nil
	}

	depth := 1
	tokens := make([]string, 0)
	for {
		p.nextToken()
		if p.currentTokenIs(lexer.TokenEOF) {
			p.addError(TokenToPosition(p.current), "unterminated macro invocation", "type parsing")
			return nil
		}
		if p.currentTokenIs(lexer.TokenLParen) {
			depth++
		}
		if p.currentTokenIs(lexer.TokenRParen) {
			depth--
			if depth == 0 {
				break
			}
		}
		tokens = append(tokens, p.current.Literal)
	}

	return &MacroType{
		Span:   SpanBetween(startPos, TokenToPosition(p.current)),
		Name:   name,
		Tokens: strings.Join(tokens, " "),
	}
}
