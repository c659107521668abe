// Package parser turns Carbon source text into a parse tree of
// zero-copy spans over the input, or a positioned syntax error.
//
// The grammar is a PEG: alternatives are tried in a fixed order and the
// first success wins. Errors report the furthest position any attempt
// reached, with the union of what was expected there.
package parser

import (
	"errors"
	"fmt"

	pc "github.com/shibukawa/parsercombinator"

	"github.com/shibukawa/carbonparser/tokenizer"
)

// Options configures a parse call.
type Options struct {
	// MaxDepth bounds expression nesting depth. Zero means unlimited;
	// pathologically nested input can then exhaust the call stack.
	MaxDepth int
}

// Parse matches input against one of the five entry-point rules
// (Program, FunctionDecl, VarDecl, Expression, TypeName) and returns
// the resulting tree. The rule must consume the entire input; trailing
// content fails the whole call. Calls are stateless and safe to run
// concurrently on independent inputs.
func Parse(rule Rule, input string, options ...Options) (*Node, error) {
	var opts Options
	if len(options) > 0 {
		opts = options[0]
	}

	switch rule {
	case Program, FunctionDecl, VarDecl, Expression, TypeName:
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedRule, rule)
	}

	tz := tokenizer.NewTokenizer(input, tokenizer.Options{
		SkipWhitespace: true,
		SkipComments:   true,
	})

	tokens, err := tz.AllTokens()
	if err != nil {
		var lexErr *tokenizer.Error
		if errors.As(err, &lexErr) {
			return nil, &ParseError{Err: lexErr.Err, Pos: lexErr.Pos}
		}
		return nil, err
	}

	g := newGrammar(input, opts.MaxDepth)

	entities := TokenToEntity(tokens)
	if len(entities) > 0 {
		g.firstOffset = entities[0].Val.Original.Position.Offset
	}

	pctx := pc.NewParseContext[Entity]()

	_, parsed, err := g.entry(rule)(pctx, entities)
	if err != nil {
		return nil, g.buildError(rule)
	}

	nodes := childNodes(parsed)
	if len(nodes) == 0 {
		return nil, pc.ErrNotMatch
	}

	return nodes[0], nil
}

// ParseProgram parses a complete program: any number of function and
// variable declarations. An empty input yields a Program node with no
// children.
func ParseProgram(input string, options ...Options) (*Node, error) {
	return Parse(Program, input, options...)
}

// ParseFunctionDecl parses exactly one function declaration.
func ParseFunctionDecl(input string, options ...Options) (*Node, error) {
	return Parse(FunctionDecl, input, options...)
}

// ParseVarDecl parses exactly one variable declaration, including the
// terminating semicolon.
func ParseVarDecl(input string, options ...Options) (*Node, error) {
	return Parse(VarDecl, input, options...)
}

// ParseExpression parses exactly one expression.
func ParseExpression(input string, options ...Options) (*Node, error) {
	return Parse(Expression, input, options...)
}

// ParseTypeName parses exactly one type name, primitive or custom.
func ParseTypeName(input string, options ...Options) (*Node, error) {
	return Parse(TypeName, input, options...)
}
