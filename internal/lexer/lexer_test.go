package lexer

import "testing"

func TestBasicTokens(t *testing.T) {
	input := `pub struct Point {
	x: i32,
	y: i32,
}`

	tests := []struct {
		expectedType  TokenType
		expectedValue string
	}{
		{TokenPub, "pub"},
		{TokenStruct, "struct"},
		{TokenIdentifier, "Point"},
		{TokenLBrace, "{"},
		{TokenIdentifier, "x"},
		{TokenColon, ":"},
		{TokenIdentifier, "i32"},
		{TokenComma, ","},
		{TokenIdentifier, "y"},
		{TokenColon, ":"},
		{TokenIdentifier, "i32"},
		{TokenComma, ","},
		{TokenRBrace, "}"},
		{TokenEOF, ""},
	}

	l := New(input)

	for i, tt := range tests {
		tok := l.NextToken()

		if tok.Type != tt.expectedType {
			t.Fatalf("tests[%d] - tokentype wrong. expected=%q, got=%q",
				i, tt.expectedType, tok.Type)
		}

		if tok.Literal != tt.expectedValue {
			t.Fatalf("tests[%d] - literal wrong. expected=%q, got=%q",
				i, tt.expectedValue, tok.Literal)
		}
	}
}

func TestKeywords(t *testing.T) {
	input := `func let const struct enum union trait impl where pub mut ref unsafe match`

	tests := []struct {
		expectedType  TokenType
		expectedValue string
	}{
		{TokenFunc, "func"},
		{TokenLet, "let"},
		{TokenConst, "const"},
		{TokenStruct, "struct"},
		{TokenEnum, "enum"},
		{TokenUnion, "union"},
		{TokenTrait, "trait"},
		{TokenImpl, "impl"},
		{TokenWhere, "where"},
		{TokenPub, "pub"},
		{TokenMut, "mut"},
		{TokenRef, "ref"},
		{TokenUnsafe, "unsafe"},
		{TokenMatch, "match"},
		{TokenEOF, ""},
	}

	l := New(input)

	for i, tt := range tests {
		tok := l.NextToken()

		if tok.Type != tt.expectedType {
			t.Fatalf("tests[%d] - tokentype wrong. expected=%q, got=%q",
				i, tt.expectedType, tok.Type)
		}

		if tok.Literal != tt.expectedValue {
			t.Fatalf("tests[%d] - literal wrong. expected=%q, got=%q",
				i, tt.expectedValue, tok.Literal)
		}
	}
}

func TestOperatorsAndDelimiters(t *testing.T) {
	input := `# [ ] ( ) :: : , ; -> => < > <= >= == != & && | || + - = .. . ! ?`

	tests := []TokenType{
		TokenHash, TokenLBracket, TokenRBracket, TokenLParen, TokenRParen,
		TokenDoubleColon, TokenColon, TokenComma, TokenSemicolon,
		TokenArrow, TokenFatArrow,
		TokenLt, TokenGt, TokenLe, TokenGe, TokenEq, TokenNe,
		TokenAmpersand, TokenAnd, TokenPipe, TokenOr,
		TokenPlus, TokenMinus, TokenAssign,
		TokenDotDot, TokenDot, TokenNot, TokenQuestion,
		TokenEOF,
	}

	l := New(input)

	for i, expected := range tests {
		tok := l.NextToken()
		if tok.Type != expected {
			t.Fatalf("tests[%d] - tokentype wrong. expected=%q, got=%q (literal %q)",
				i, expected, tok.Type, tok.Literal)
		}
	}
}

func TestAttributeTokens(t *testing.T) {
	input := `#[derive(PartialEq, Clone)]`

	tests := []struct {
		expectedType  TokenType
		expectedValue string
	}{
		{TokenHash, "#"},
		{TokenLBracket, "["},
		{TokenIdentifier, "derive"},
		{TokenLParen, "("},
		{TokenIdentifier, "PartialEq"},
		{TokenComma, ","},
		{TokenIdentifier, "Clone"},
		{TokenRParen, ")"},
		{TokenRBracket, "]"},
		{TokenEOF, ""},
	}

	l := New(input)

	for i, tt := range tests {
		tok := l.NextToken()

		if tok.Type != tt.expectedType {
			t.Fatalf("tests[%d] - tokentype wrong. expected=%q, got=%q",
				i, tt.expectedType, tok.Type)
		}

		if tok.Literal != tt.expectedValue {
			t.Fatalf("tests[%d] - literal wrong. expected=%q, got=%q",
				i, tt.expectedValue, tok.Literal)
		}
	}
}

func TestLifetimes(t *testing.T) {
	input := `&'a mut T<'static>`

	tests := []struct {
		expectedType  TokenType
		expectedValue string
	}{
		{TokenAmpersand, "&"},
		{TokenLifetime, "'a"},
		{TokenMut, "mut"},
		{TokenIdentifier, "T"},
		{TokenLt, "<"},
		{TokenLifetime, "'static"},
		{TokenGt, ">"},
		{TokenEOF, ""},
	}

	l := New(input)

	for i, tt := range tests {
		tok := l.NextToken()

		if tok.Type != tt.expectedType {
			t.Fatalf("tests[%d] - tokentype wrong. expected=%q, got=%q",
				i, tt.expectedType, tok.Type)
		}

		if tok.Literal != tt.expectedValue {
			t.Fatalf("tests[%d] - literal wrong. expected=%q, got=%q",
				i, tt.expectedValue, tok.Literal)
		}
	}
}

func TestNumbersAndStrings(t *testing.T) {
	input := `42 0xFF 1_000 3.14 "hello" true false`

	tests := []struct {
		expectedType  TokenType
		expectedValue string
	}{
		{TokenInteger, "42"},
		{TokenInteger, "0xFF"},
		{TokenInteger, "1_000"},
		{TokenFloat, "3.14"},
		{TokenString, "hello"},
		{TokenBool, "true"},
		{TokenBool, "false"},
		{TokenEOF, ""},
	}

	l := New(input)

	for i, tt := range tests {
		tok := l.NextToken()

		if tok.Type != tt.expectedType {
			t.Fatalf("tests[%d] - tokentype wrong. expected=%q, got=%q",
				i, tt.expectedType, tok.Type)
		}

		if tok.Literal != tt.expectedValue {
			t.Fatalf("tests[%d] - literal wrong. expected=%q, got=%q",
				i, tt.expectedValue, tok.Literal)
		}
	}
}

func TestCommentsSkipped(t *testing.T) {
	input := `// line comment
struct /* block /* nested */ comment */ Foo`

	tests := []struct {
		expectedType  TokenType
		expectedValue string
	}{
		{TokenStruct, "struct"},
		{TokenIdentifier, "Foo"},
		{TokenEOF, ""},
	}

	l := New(input)

	for i, tt := range tests {
		tok := l.NextToken()

		if tok.Type != tt.expectedType {
			t.Fatalf("tests[%d] - tokentype wrong. expected=%q, got=%q",
				i, tt.expectedType, tok.Type)
		}

		if tok.Literal != tt.expectedValue {
			t.Fatalf("tests[%d] - literal wrong. expected=%q, got=%q",
				i, tt.expectedValue, tok.Literal)
		}
	}
}

func TestTokenSpans(t *testing.T) {
	l := NewWithFilename("enum Color", "color.oriz")

	tok := l.NextToken()
	if tok.Span.Start.Line != 1 || tok.Span.Start.Column != 1 {
		t.Errorf("enum starts at %d:%d, want 1:1", tok.Span.Start.Line, tok.Span.Start.Column)
	}
	if tok.Span.Start.Offset != 0 || tok.Span.End.Offset != 4 {
		t.Errorf("enum spans offsets %d-%d, want 0-4", tok.Span.Start.Offset, tok.Span.End.Offset)
	}
	if tok.Span.Start.Filename != "color.oriz" {
		t.Errorf("filename = %q, want color.oriz", tok.Span.Start.Filename)
	}

	tok = l.NextToken()
	if tok.Span.Start.Column != 6 {
		t.Errorf("Color starts at column %d, want 6", tok.Span.Start.Column)
	}
	if tok.Span.Start.Offset != 5 || tok.Span.End.Offset != 10 {
		t.Errorf("Color spans offsets %d-%d, want 5-10", tok.Span.Start.Offset, tok.Span.End.Offset)
	}
}

func TestErrorToken(t *testing.T) {
	l := New("$")
	tok := l.NextToken()
	if tok.Type != TokenError {
		t.Fatalf("expected error token for $, got %q", tok.Type)
	}

	l = New(`"unterminated`)
	tok = l.NextToken()
	if tok.Type != TokenError {
		t.Fatalf("expected error token for unterminated string, got %q", tok.Type)
	}
}
