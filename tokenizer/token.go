package tokenizer

import (
	"errors"
	"fmt"
)

// Sentinel errors
var (
	ErrUnterminatedString  = errors.New("unterminated string literal")
	ErrUnterminatedComment = errors.New("unterminated block comment")
)

// TokenType represents the type of a token
type TokenType int

const (
	// Basic tokens
	EOF TokenType = iota
	WHITESPACE
	IDENTIFIER
	INTEGER
	FLOAT
	STRING  // "text" including the quotes
	BOOLEAN // true, false

	// Keywords
	FN
	VAR
	RETURN

	// Punctuation
	OPENED_PARENS // (
	CLOSED_PARENS // )
	OPENED_BRACE  // {
	CLOSED_BRACE  // }
	COLON         // :
	SEMICOLON     // ;
	COMMA         // ,
	ARROW         // ->
	ASSIGN        // =

	// Operators
	EQUAL         // ==
	NOT_EQUAL     // !=
	LESS_THAN     // <
	GREATER_THAN  // >
	LESS_EQUAL    // <=
	GREATER_EQUAL // >=
	PLUS          // +
	MINUS         // -
	MULTIPLY      // *
	DIVIDE        // /
	MODULO        // %
	AND           // &&
	OR            // ||
	NOT           // !

	// Comments
	LINE_COMMENT  // // line comment
	BLOCK_COMMENT // /* block comment */

	// Others
	OTHER // characters outside the language; the grammar rejects them
)

// String returns the string representation of TokenType
func (t TokenType) String() string {
	switch t {
	case EOF:
		return "EOF"
	case WHITESPACE:
		return "WHITESPACE"
	case IDENTIFIER:
		return "IDENTIFIER"
	case INTEGER:
		return "INTEGER"
	case FLOAT:
		return "FLOAT"
	case STRING:
		return "STRING"
	case BOOLEAN:
		return "BOOLEAN"
	case FN:
		return "FN"
	case VAR:
		return "VAR"
	case RETURN:
		return "RETURN"
	case OPENED_PARENS:
		return "OPENED_PARENS"
	case CLOSED_PARENS:
		return "CLOSED_PARENS"
	case OPENED_BRACE:
		return "OPENED_BRACE"
	case CLOSED_BRACE:
		return "CLOSED_BRACE"
	case COLON:
		return "COLON"
	case SEMICOLON:
		return "SEMICOLON"
	case COMMA:
		return "COMMA"
	case ARROW:
		return "ARROW"
	case ASSIGN:
		return "ASSIGN"
	case EQUAL:
		return "EQUAL"
	case NOT_EQUAL:
		return "NOT_EQUAL"
	case LESS_THAN:
		return "LESS_THAN"
	case GREATER_THAN:
		return "GREATER_THAN"
	case LESS_EQUAL:
		return "LESS_EQUAL"
	case GREATER_EQUAL:
		return "GREATER_EQUAL"
	case PLUS:
		return "PLUS"
	case MINUS:
		return "MINUS"
	case MULTIPLY:
		return "MULTIPLY"
	case DIVIDE:
		return "DIVIDE"
	case MODULO:
		return "MODULO"
	case AND:
		return "AND"
	case OR:
		return "OR"
	case NOT:
		return "NOT"
	case LINE_COMMENT:
		return "LINE_COMMENT"
	case BLOCK_COMMENT:
		return "BLOCK_COMMENT"
	case OTHER:
		return "OTHER"
	default:
		return "UNKNOWN"
	}
}

// Position represents a position in the source code.
// Line and Column are 1-based, Offset is a byte offset into the input.
type Position struct {
	Line   int
	Column int
	Offset int
}

// Token represents a token. Value is always the exact slice of the
// original input, so concatenating an unfiltered token stream
// reproduces the source text.
type Token struct {
	Type     TokenType
	Value    string
	Position Position
}

// End returns the byte offset just past the token.
func (t Token) End() int {
	return t.Position.Offset + len(t.Value)
}

// String returns the string representation of Token
func (t Token) String() string {
	return t.Type.String() + ": " + t.Value
}

// Error is a lexical error with its source position.
type Error struct {
	Err error
	Pos Position
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s at line %d, column %d", e.Err, e.Pos.Line, e.Pos.Column)
}

func (e *Error) Unwrap() error {
	return e.Err
}
