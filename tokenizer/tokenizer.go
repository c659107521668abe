package tokenizer

import "iter"

// TokenIterator uses the Go 1.23 iterator pattern
type TokenIterator iter.Seq2[Token, error]

// Tokenizer splits Carbon source text into tokens.
type Tokenizer struct {
	input   string
	options Options
}

// Options are options for the tokenizer
type Options struct {
	SkipWhitespace bool
	SkipComments   bool
}

// NewTokenizer creates a new Tokenizer
func NewTokenizer(input string, options ...Options) *Tokenizer {
	var opts Options
	if len(options) > 0 {
		opts = options[0]
	}

	return &Tokenizer{
		input:   input,
		options: opts,
	}
}

// Tokens returns an iterator of tokens. The iterator ends with an EOF
// token; a lexical error terminates it immediately.
func (t *Tokenizer) Tokens() TokenIterator {
	return func(yield func(Token, error) bool) {
		s := &scanner{
			input:  t.input,
			line:   1,
			column: 1,
		}

		for {
			token, err := s.nextToken()
			if err != nil {
				yield(Token{}, err)
				return
			}

			if token.Type == EOF {
				yield(token, nil)
				return
			}

			if t.options.SkipWhitespace && token.Type == WHITESPACE {
				continue
			}
			if t.options.SkipComments && (token.Type == LINE_COMMENT || token.Type == BLOCK_COMMENT) {
				continue
			}

			if !yield(token, nil) {
				return
			}
		}
	}
}

// AllTokens gets all tokens as a slice
func (t *Tokenizer) AllTokens() ([]Token, error) {
	tokens := make([]Token, 0, 64)

	for token, err := range t.Tokens() {
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, token)
		if token.Type == EOF {
			break
		}
	}

	return tokens, nil
}

// Internal scanner implementation
type scanner struct {
	input  string
	offset int
	line   int
	column int
}

// peek looks at the next byte without consuming it
func (s *scanner) peek() byte {
	if s.offset >= len(s.input) {
		return 0
	}
	return s.input[s.offset]
}

// peekAt looks ahead n bytes past the next one
func (s *scanner) peekAt(n int) byte {
	if s.offset+n >= len(s.input) {
		return 0
	}
	return s.input[s.offset+n]
}

// advance consumes the next byte
func (s *scanner) advance() byte {
	c := s.input[s.offset]
	s.offset++
	if c == '\n' {
		s.line++
		s.column = 1
	} else {
		s.column++
	}
	return c
}

// mark snapshots the position of the next byte
func (s *scanner) mark() Position {
	return Position{Line: s.line, Column: s.column, Offset: s.offset}
}

// token builds a token whose value spans from start to the current offset
func (s *scanner) token(tokenType TokenType, start Position) Token {
	return Token{
		Type:     tokenType,
		Value:    s.input[start.Offset:s.offset],
		Position: start,
	}
}

func isLetter(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c == '_'
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// nextToken gets the next token
func (s *scanner) nextToken() (Token, error) {
	start := s.mark()

	switch c := s.peek(); c {
	case 0:
		return s.token(EOF, start), nil
	case ' ', '\t', '\r', '\n':
		return s.readWhitespace(), nil
	case '(':
		s.advance()
		return s.token(OPENED_PARENS, start), nil
	case ')':
		s.advance()
		return s.token(CLOSED_PARENS, start), nil
	case '{':
		s.advance()
		return s.token(OPENED_BRACE, start), nil
	case '}':
		s.advance()
		return s.token(CLOSED_BRACE, start), nil
	case ':':
		s.advance()
		return s.token(COLON, start), nil
	case ';':
		s.advance()
		return s.token(SEMICOLON, start), nil
	case ',':
		s.advance()
		return s.token(COMMA, start), nil
	case '"':
		return s.readString()
	case '/':
		if s.peekAt(1) == '/' {
			return s.readLineComment(), nil
		}
		if s.peekAt(1) == '*' {
			return s.readBlockComment()
		}
		s.advance()
		return s.token(DIVIDE, start), nil
	case '-':
		s.advance()
		if s.peek() == '>' {
			s.advance()
			return s.token(ARROW, start), nil
		}
		return s.token(MINUS, start), nil
	case '=':
		s.advance()
		if s.peek() == '=' {
			s.advance()
			return s.token(EQUAL, start), nil
		}
		return s.token(ASSIGN, start), nil
	case '!':
		s.advance()
		if s.peek() == '=' {
			s.advance()
			return s.token(NOT_EQUAL, start), nil
		}
		return s.token(NOT, start), nil
	case '<':
		s.advance()
		if s.peek() == '=' {
			s.advance()
			return s.token(LESS_EQUAL, start), nil
		}
		return s.token(LESS_THAN, start), nil
	case '>':
		s.advance()
		if s.peek() == '=' {
			s.advance()
			return s.token(GREATER_EQUAL, start), nil
		}
		return s.token(GREATER_THAN, start), nil
	case '&':
		if s.peekAt(1) == '&' {
			s.advance()
			s.advance()
			return s.token(AND, start), nil
		}
		s.advance()
		return s.token(OTHER, start), nil
	case '|':
		if s.peekAt(1) == '|' {
			s.advance()
			s.advance()
			return s.token(OR, start), nil
		}
		s.advance()
		return s.token(OTHER, start), nil
	case '+':
		s.advance()
		return s.token(PLUS, start), nil
	case '*':
		s.advance()
		return s.token(MULTIPLY, start), nil
	case '%':
		s.advance()
		return s.token(MODULO, start), nil
	default:
		if isLetter(c) {
			return s.readWord(), nil
		}
		if isDigit(c) {
			return s.readNumber(), nil
		}
		s.advance()
		return s.token(OTHER, start), nil
	}
}

// readWhitespace reads a run of whitespace characters
func (s *scanner) readWhitespace() Token {
	start := s.mark()

	for {
		switch s.peek() {
		case ' ', '\t', '\r', '\n':
			s.advance()
		default:
			return s.token(WHITESPACE, start)
		}
	}
}

// readWord reads identifiers and keywords
func (s *scanner) readWord() Token {
	start := s.mark()

	for isLetter(s.peek()) || isDigit(s.peek()) {
		s.advance()
	}

	word := s.input[start.Offset:s.offset]

	return Token{
		Type:     keywordTokenType(word),
		Value:    word,
		Position: start,
	}
}

// keywordTokenType returns the TokenType corresponding to a keyword.
// Keywords are classified here so the identifier grammar rule can
// never match a reserved spelling.
func keywordTokenType(word string) TokenType {
	switch word {
	case "fn":
		return FN
	case "var":
		return VAR
	case "return":
		return RETURN
	case "true", "false":
		return BOOLEAN
	default:
		return IDENTIFIER
	}
}

// readString reads a double-quoted string literal. The value keeps the
// quotes and escape sequences exactly as written.
func (s *scanner) readString() (Token, error) {
	start := s.mark()
	s.advance() // opening quote

	for {
		switch s.peek() {
		case 0:
			return Token{}, &Error{Err: ErrUnterminatedString, Pos: start}
		case '\\':
			s.advance()
			if s.peek() != 0 {
				s.advance()
			}
		case '"':
			s.advance()
			return s.token(STRING, start), nil
		default:
			s.advance()
		}
	}
}

// readNumber reads integer and float literals. A '.' not followed by a
// digit is left for the next token, so "123." lexes as INTEGER then OTHER.
func (s *scanner) readNumber() Token {
	start := s.mark()

	for isDigit(s.peek()) {
		s.advance()
	}

	tokenType := INTEGER
	if s.peek() == '.' && isDigit(s.peekAt(1)) {
		tokenType = FLOAT
		s.advance()
		for isDigit(s.peek()) {
			s.advance()
		}
	}

	return s.token(tokenType, start)
}

// readLineComment reads a // comment up to (excluding) the newline
func (s *scanner) readLineComment() Token {
	start := s.mark()
	s.advance() // /
	s.advance() // /

	for s.peek() != 0 && s.peek() != '\n' {
		s.advance()
	}

	return s.token(LINE_COMMENT, start)
}

// readBlockComment reads a /* ... */ comment, possibly spanning lines
func (s *scanner) readBlockComment() (Token, error) {
	start := s.mark()
	s.advance() // /
	s.advance() // *

	for s.peek() != 0 {
		if s.peek() == '*' && s.peekAt(1) == '/' {
			s.advance()
			s.advance()
			return s.token(BLOCK_COMMENT, start), nil
		}
		s.advance()
	}

	return Token{}, &Error{Err: ErrUnterminatedComment, Pos: start}
}
