// Package parser implements the Orizon declaration parser.
//
// The parser consumes the token stream produced by internal/lexer and builds
// the surface AST the derive pipeline works on: struct, enum, and union
// declarations together with their attributes, generic parameters, and where
// clauses. Function bodies are never parsed here; synthesized bodies are
// built directly as AST by the derive engine.
package parser

import (
	"fmt"

	"github.com/orizon-lang/orizon-derive/internal/lexer"
	"github.com/orizon-lang/orizon-derive/internal/position"
)

// Parser represents the recursive descent parser
type Parser struct {
	lexer   *lexer.Lexer
	current lexer.Token
	peek    lexer.Token
	errors  []error

	// Parser state
	filename string
}

// ParseError represents a parsing error with context
type ParseError struct {
	Position position.Position
	Message  string
	Context  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("Parse error at %s: %s", e.Position.String(), e.Message)
}

// NewParser creates a new parser instance
func NewParser(l *lexer.Lexer, filename string) *Parser {
	p := &Parser{
		lexer:    l,
		filename: filename,
		errors:   make([]error, 0),
	}

	// Read the first two tokens
	p.nextToken()
	p.nextToken()

	return p
}

// Parse parses the input and returns an AST
func (p *Parser) Parse() (*Program, []error) {
	program := p.parseProgram()
	return program, p.errors
}

// nextToken advances the parser to the next token
func (p *Parser) nextToken() {
	p.current = p.peek
	p.peek = p.lexer.NextToken()
}

// currentTokenIs checks if the current token is of the given type
func (p *Parser) currentTokenIs(tokenType lexer.TokenType) bool {
	return p.current.Type == tokenType
}

// peekTokenIs checks if the peek token is of the given type
func (p *Parser) peekTokenIs(tokenType lexer.TokenType) bool {
	return p.peek.Type == tokenType
}

// expectPeek advances if the peek token matches the expected type
func (p *Parser) expectPeek(tokenType lexer.TokenType) bool {
	if p.peekTokenIs(tokenType) {
		p.nextToken()
		return true
	}
	p.peekError(tokenType)
	return false
}

// peekError records a peek token mismatch error
func (p *Parser) peekError(expected lexer.TokenType) {
	msg := fmt.Sprintf("expected %s, got %s", expected.String(), p.peek.Type.String())
	p.addError(TokenToPosition(p.peek), msg, "token mismatch")
}

// addError adds an error to the parser's error list
func (p *Parser) addError(pos position.Position, message, context string) {
	if pos.Filename == "" {
		pos.Filename = p.filename
	}
	p.errors = append(p.errors, &ParseError{
		Position: pos,
		Message:  message,
		Context:  context,
	})
}

// syncToDeclaration skips ahead until the next token starts a declaration,
// leaving the parser positioned immediately before it. parseProgram's
// advance then lands on the declaration start.
func (p *Parser) syncToDeclaration() {
	for !p.currentTokenIs(lexer.TokenEOF) {
		switch p.peek.Type {
		case lexer.TokenHash, lexer.TokenPub, lexer.TokenStruct,
			lexer.TokenEnum, lexer.TokenUnion, lexer.TokenEOF:
			return
		}
		p.nextToken()
	}
}

// ====== Grammar Rules ======

// parseProgram parses the entire program
func (p *Parser) parseProgram() *Program {
	startPos := TokenToPosition(p.current)
	declarations := make([]Declaration, 0)

	for !p.currentTokenIs(lexer.TokenEOF) {
		if decl := p.parseDeclaration(); decl != nil {
			declarations = append(declarations, decl)
		}
		p.nextToken()
	}

	endPos := TokenToPosition(p.current)
	span := SpanBetween(startPos, endPos)

	return NewProgram(span, declarations)
}

// parseDeclaration parses a top-level declaration with its attributes and
// visibility modifier
func (p *Parser) parseDeclaration() Declaration {
	startPos := TokenToPosition(p.current)

	attributes := make([]*Attribute, 0)
	for p.currentTokenIs(lexer.TokenHash) {
		attr := p.parseAttribute()
		if attr == nil {
			p.syncToDeclaration()
			return nil
		}
		attributes = append(attributes, attr)
		p.nextToken() // move past ']'
	}

	isPublic := false
	if p.currentTokenIs(lexer.TokenPub) {
		isPublic = true
		p.nextToken()
	}

	switch p.current.Type {
	case lexer.TokenStruct:
		if decl := p.parseStructDeclaration(startPos, attributes, isPublic); decl != nil {
			return decl
		}
	case lexer.TokenEnum:
		if decl := p.parseEnumDeclaration(startPos, attributes, isPublic); decl != nil {
			return decl
		}
	case lexer.TokenUnion:
		if decl := p.parseUnionDeclaration(startPos, attributes, isPublic); decl != nil {
			return decl
		}
	default:
		p.addError(TokenToPosition(p.current),
			fmt.Sprintf("unexpected token %s in declaration", p.current.Type.String()),
			"declaration parsing")
	}

	p.syncToDeclaration()
	return nil
}
