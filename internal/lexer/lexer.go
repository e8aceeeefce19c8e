// Package lexer implements the Orizon lexical analyzer for the declaration
// subset the derive tool consumes: item headers, attributes, generics, and
// field types. Tokens carry full source spans for diagnostics.
package lexer

import (
	"fmt"
	"unicode"
	"unicode/utf8"

	"github.com/orizon-lang/orizon-derive/internal/position"
)

// TokenType represents the type of a token
type TokenType int

// String returns a string representation of the token type
func (tt TokenType) String() string {
	if name, ok := tokenNames[tt]; ok {
		return name
	}
	return fmt.Sprintf("UNKNOWN(%d)", int(tt))
}

// Token types
const (
	// Special tokens
	TokenEOF TokenType = iota
	TokenError

	// Literals
	TokenIdentifier
	TokenInteger
	TokenFloat
	TokenString
	TokenBool
	TokenLifetime

	// Keywords
	TokenFunc
	TokenLet
	TokenConst
	TokenStruct
	TokenEnum
	TokenUnion
	TokenTrait
	TokenImpl
	TokenIf
	TokenElse
	TokenFor
	TokenMatch
	TokenPub
	TokenMut
	TokenRef
	TokenAs
	TokenWhere
	TokenUnsafe

	// Operators
	TokenPlus
	TokenMinus
	TokenMul
	TokenDiv
	TokenMod
	TokenAssign
	TokenEq
	TokenNe
	TokenLt
	TokenLe
	TokenGt
	TokenGe
	TokenAnd
	TokenOr
	TokenNot
	TokenAmpersand
	TokenPipe

	// Delimiters
	TokenLParen
	TokenRParen
	TokenLBrace
	TokenRBrace
	TokenLBracket
	TokenRBracket
	TokenSemicolon
	TokenComma
	TokenDot
	TokenDotDot
	TokenColon
	TokenDoubleColon
	TokenArrow
	TokenFatArrow
	TokenQuestion
	TokenAt
	TokenHash
)

// Token represents a lexical token with position information
type Token struct {
	Type    TokenType
	Literal string
	Span    position.Span // Source code span for this token
}

// String returns a string representation of the token
func (t Token) String() string {
	return fmt.Sprintf("{Type: %s, Literal: %q, Line: %d, Column: %d}",
		tokenNames[t.Type], t.Literal, t.Span.Start.Line, t.Span.Start.Column)
}

// tokenNames provides string representations for token types
var tokenNames = map[TokenType]string{
	TokenEOF:   "EOF",
	TokenError: "ERROR",

	TokenIdentifier: "IDENTIFIER",
	TokenInteger:    "INTEGER",
	TokenFloat:      "FLOAT",
	TokenString:     "STRING",
	TokenBool:       "BOOL",
	TokenLifetime:   "LIFETIME",

	TokenFunc:   "FUNC",
	TokenLet:    "LET",
	TokenConst:  "CONST",
	TokenStruct: "STRUCT",
	TokenEnum:   "ENUM",
	TokenUnion:  "UNION",
	TokenTrait:  "TRAIT",
	TokenImpl:   "IMPL",
	TokenIf:     "IF",
	TokenElse:   "ELSE",
	TokenFor:    "FOR",
	TokenMatch:  "MATCH",
	TokenPub:    "PUB",
	TokenMut:    "MUT",
	TokenRef:    "REF",
	TokenAs:     "AS",
	TokenWhere:  "WHERE",
	TokenUnsafe: "UNSAFE",

	TokenPlus:      "PLUS",
	TokenMinus:     "MINUS",
	TokenMul:       "MUL",
	TokenDiv:       "DIV",
	TokenMod:       "MOD",
	TokenAssign:    "ASSIGN",
	TokenEq:        "EQ",
	TokenNe:        "NE",
	TokenLt:        "LT",
	TokenLe:        "LE",
	TokenGt:        "GT",
	TokenGe:        "GE",
	TokenAnd:       "AND",
	TokenOr:        "OR",
	TokenNot:       "NOT",
	TokenAmpersand: "AMPERSAND",
	TokenPipe:      "PIPE",

	TokenLParen:      "LPAREN",
	TokenRParen:      "RPAREN",
	TokenLBrace:      "LBRACE",
	TokenRBrace:      "RBRACE",
	TokenLBracket:    "LBRACKET",
	TokenRBracket:    "RBRACKET",
	TokenSemicolon:   "SEMICOLON",
	TokenComma:       "COMMA",
	TokenDot:         "DOT",
	TokenDotDot:      "DOTDOT",
	TokenColon:       "COLON",
	TokenDoubleColon: "DOUBLE_COLON",
	TokenArrow:       "ARROW",
	TokenFatArrow:    "FAT_ARROW",
	TokenQuestion:    "QUESTION",
	TokenAt:          "AT",
	TokenHash:        "HASH",
}

// keywords maps string keywords to their token types
var keywords = map[string]TokenType{
	"func":   TokenFunc,
	"let":    TokenLet,
	"const":  TokenConst,
	"struct": TokenStruct,
	"enum":   TokenEnum,
	"union":  TokenUnion,
	"trait":  TokenTrait,
	"impl":   TokenImpl,
	"if":     TokenIf,
	"else":   TokenElse,
	"for":    TokenFor,
	"match":  TokenMatch,
	"pub":    TokenPub,
	"mut":    TokenMut,
	"ref":    TokenRef,
	"as":     TokenAs,
	"where":  TokenWhere,
	"unsafe": TokenUnsafe,
	"true":   TokenBool,
	"false":  TokenBool,
}

// Lexer represents the lexical analyzer
type Lexer struct {
	input        string
	position     int  // current position in input (points to current char)
	readPosition int  // current reading position in input (after current char)
	ch           byte // current char under examination
	line         int  // current line number
	column       int  // current column number
	filename     string
}

// New creates a new lexer instance
func New(input string) *Lexer {
	return NewWithFilename(input, "")
}

// NewWithFilename creates a new lexer instance with filename for error reporting
func NewWithFilename(input, filename string) *Lexer {
	l := &Lexer{
		input:    input,
		line:     1,
		column:   0,
		filename: filename,
	}
	l.readChar()
	return l
}

// readChar reads the next character and advances position
func (l *Lexer) readChar() {
	if l.readPosition >= len(l.input) {
		l.ch = 0 // ASCII NUL character represents "EOF"
	} else {
		l.ch = l.input[l.readPosition]
	}
	l.position = l.readPosition
	l.readPosition++

	if l.ch == '\n' {
		l.line++
		l.column = 0
	} else {
		l.column++
	}
}

// peekChar returns the next character without advancing position
func (l *Lexer) peekChar() byte {
	if l.readPosition >= len(l.input) {
		return 0
	}
	return l.input[l.readPosition]
}

// pos returns the position of the current character
func (l *Lexer) pos() position.Position {
	return position.Position{
		Filename: l.filename,
		Line:     l.line,
		Column:   l.column,
		Offset:   l.position,
	}
}

// skipWhitespace skips whitespace and comments
func (l *Lexer) skipWhitespace() {
	for {
		switch {
		case l.ch == ' ' || l.ch == '\t' || l.ch == '\r' || l.ch == '\n':
			l.readChar()
		case l.ch == '/' && l.peekChar() == '/':
			for l.ch != '\n' && l.ch != 0 {
				l.readChar()
			}
		case l.ch == '/' && l.peekChar() == '*':
			l.skipBlockComment()
		default:
			return
		}
	}
}

// skipBlockComment skips a block comment, honoring nesting
func (l *Lexer) skipBlockComment() {
	l.readChar() // consume /
	l.readChar() // consume *
	depth := 1
	for depth > 0 && l.ch != 0 {
		if l.ch == '/' && l.peekChar() == '*' {
			depth++
			l.readChar()
		} else if l.ch == '*' && l.peekChar() == '/' {
			depth--
			l.readChar()
		}
		l.readChar()
	}
}

// NextToken scans and returns the next token
func (l *Lexer) NextToken() Token {
	l.skipWhitespace()

	start := l.pos()

	switch l.ch {
	case 0:
		return Token{Type: TokenEOF, Literal: "", Span: position.Span{Start: start, End: start}}
	case '(':
		return l.single(TokenLParen, start)
	case ')':
		return l.single(TokenRParen, start)
	case '{':
		return l.single(TokenLBrace, start)
	case '}':
		return l.single(TokenRBrace, start)
	case '[':
		return l.single(TokenLBracket, start)
	case ']':
		return l.single(TokenRBracket, start)
	case ';':
		return l.single(TokenSemicolon, start)
	case ',':
		return l.single(TokenComma, start)
	case '@':
		return l.single(TokenAt, start)
	case '#':
		return l.single(TokenHash, start)
	case '?':
		return l.single(TokenQuestion, start)
	case '+':
		return l.single(TokenPlus, start)
	case '*':
		return l.single(TokenMul, start)
	case '/':
		return l.single(TokenDiv, start)
	case '%':
		return l.single(TokenMod, start)
	case '.':
		if l.peekChar() == '.' {
			return l.double(TokenDotDot, start)
		}
		return l.single(TokenDot, start)
	case ':':
		if l.peekChar() == ':' {
			return l.double(TokenDoubleColon, start)
		}
		return l.single(TokenColon, start)
	case '-':
		if l.peekChar() == '>' {
			return l.double(TokenArrow, start)
		}
		return l.single(TokenMinus, start)
	case '=':
		if l.peekChar() == '=' {
			return l.double(TokenEq, start)
		}
		if l.peekChar() == '>' {
			return l.double(TokenFatArrow, start)
		}
		return l.single(TokenAssign, start)
	case '!':
		if l.peekChar() == '=' {
			return l.double(TokenNe, start)
		}
		return l.single(TokenNot, start)
	case '<':
		if l.peekChar() == '=' {
			return l.double(TokenLe, start)
		}
		return l.single(TokenLt, start)
	case '>':
		if l.peekChar() == '=' {
			return l.double(TokenGe, start)
		}
		return l.single(TokenGt, start)
	case '&':
		if l.peekChar() == '&' {
			return l.double(TokenAnd, start)
		}
		return l.single(TokenAmpersand, start)
	case '|':
		if l.peekChar() == '|' {
			return l.double(TokenOr, start)
		}
		return l.single(TokenPipe, start)
	case '\'':
		return l.readLifetime(start)
	case '"':
		return l.readString(start)
	default:
		if isLetter(l.ch) {
			literal := l.readIdentifier()
			tokType := TokenIdentifier
			if kw, ok := keywords[literal]; ok {
				tokType = kw
			}
			return Token{Type: tokType, Literal: literal, Span: position.Span{Start: start, End: l.pos()}}
		}
		if isDigit(l.ch) {
			return l.readNumber(start)
		}
		// Unknown byte; report it and move on
		ch := l.ch
		l.readChar()
		return Token{
			Type:    TokenError,
			Literal: string(ch),
			Span:    position.Span{Start: start, End: l.pos()},
		}
	}
}

// single builds a one-character token and advances
func (l *Lexer) single(tokType TokenType, start position.Position) Token {
	literal := string(l.ch)
	l.readChar()
	return Token{Type: tokType, Literal: literal, Span: position.Span{Start: start, End: l.pos()}}
}

// double builds a two-character token and advances
func (l *Lexer) double(tokType TokenType, start position.Position) Token {
	literal := string(l.ch) + string(l.peekChar())
	l.readChar()
	l.readChar()
	return Token{Type: tokType, Literal: literal, Span: position.Span{Start: start, End: l.pos()}}
}

// readIdentifier reads an identifier or keyword, Unicode aware
func (l *Lexer) readIdentifier() string {
	start := l.position
	for isLetter(l.ch) || isDigit(l.ch) {
		l.readChar()
	}
	return l.input[start:l.position]
}

// readNumber reads an integer or float literal
func (l *Lexer) readNumber(start position.Position) Token {
	startOffset := l.position
	tokType := TokenInteger

	if l.ch == '0' && (l.peekChar() == 'x' || l.peekChar() == 'X') {
		l.readChar()
		l.readChar()
		for isHexDigit(l.ch) || l.ch == '_' {
			l.readChar()
		}
		return Token{
			Type:    TokenInteger,
			Literal: l.input[startOffset:l.position],
			Span:    position.Span{Start: start, End: l.pos()},
		}
	}

	for isDigit(l.ch) || l.ch == '_' {
		l.readChar()
	}

	if l.ch == '.' && isDigit(l.peekChar()) {
		tokType = TokenFloat
		l.readChar()
		for isDigit(l.ch) || l.ch == '_' {
			l.readChar()
		}
	}

	return Token{
		Type:    tokType,
		Literal: l.input[startOffset:l.position],
		Span:    position.Span{Start: start, End: l.pos()},
	}
}

// readString reads a double-quoted string literal. The literal excludes the
// surrounding quotes; escape sequences are kept raw.
func (l *Lexer) readString(start position.Position) Token {
	l.readChar() // consume opening quote
	startOffset := l.position

	for l.ch != '"' && l.ch != 0 {
		if l.ch == '\\' {
			l.readChar()
		}
		l.readChar()
	}

	literal := l.input[startOffset:l.position]

	if l.ch == 0 {
		return Token{
			Type:    TokenError,
			Literal: literal,
			Span:    position.Span{Start: start, End: l.pos()},
		}
	}

	l.readChar() // consume closing quote
	return Token{
		Type:    TokenString,
		Literal: literal,
		Span:    position.Span{Start: start, End: l.pos()},
	}
}

// readLifetime reads a lifetime token ('a, 'static). The literal includes
// the leading quote.
func (l *Lexer) readLifetime(start position.Position) Token {
	startOffset := l.position
	l.readChar() // consume '

	if !isLetter(l.ch) {
		return Token{
			Type:    TokenError,
			Literal: l.input[startOffset:l.position],
			Span:    position.Span{Start: start, End: l.pos()},
		}
	}

	for isLetter(l.ch) || isDigit(l.ch) {
		l.readChar()
	}

	return Token{
		Type:    TokenLifetime,
		Literal: l.input[startOffset:l.position],
		Span:    position.Span{Start: start, End: l.pos()},
	}
}

// isLetter reports whether ch can start or continue an identifier
func isLetter(ch byte) bool {
	if ch == '_' {
		return true
	}
	if ch < utf8.RuneSelf {
		return unicode.IsLetter(rune(ch))
	}
	// Multibyte sequences are treated as identifier characters; full Unicode
	// classification happens per rune boundary in readIdentifier callers.
	return true
}

// isDigit reports whether ch is an ASCII digit
func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}

// isHexDigit reports whether ch is a hexadecimal digit
func isHexDigit(ch byte) bool {
	return isDigit(ch) || ('a' <= ch && ch <= 'f') || ('A' <= ch && ch <= 'F')
}
