package parser

import (
	"slices"
	"strings"

	pc "github.com/shibukawa/parsercombinator"

	"github.com/shibukawa/carbonparser/tokenizer"
)

// grammar holds the rule parsers for one parse call. A fresh instance
// is built per call so the failure tracker and depth counter never leak
// between calls; concurrent parses share nothing.
type grammar struct {
	src         string
	tracker     *failureTracker
	endPos      tokenizer.Position
	firstOffset int

	maxDepth      int
	depth         int
	depthExceeded bool
	depthPos      tokenizer.Position

	program      pc.Parser[Entity]
	functionDecl pc.Parser[Entity]
	varDecl      pc.Parser[Entity]
	expression   pc.Parser[Entity]
	typeName     pc.Parser[Entity]
}

func newGrammar(src string, maxDepth int) *grammar {
	g := &grammar{
		src:      src,
		tracker:  newFailureTracker(),
		maxDepth: maxDepth,
	}

	line := 1 + strings.Count(src, "\n")
	column := len(src) - strings.LastIndexByte(src, '\n')
	g.endPos = tokenizer.Position{Line: line, Column: column, Offset: len(src)}

	lazyExpr := g.guard(pc.Lazy(func() pc.Parser[Entity] { return g.expression }))

	literal := pc.Or(
		g.leaf(IntegerLiteral, "integer literal", tokenizer.INTEGER),
		g.leaf(FloatLiteral, "float literal", tokenizer.FLOAT),
		g.leaf(BooleanLiteral, "boolean literal", tokenizer.BOOLEAN),
		g.leaf(StringLiteral, "string literal", tokenizer.STRING),
	)
	identifier := g.leaf(Identifier, "identifier", tokenizer.IDENTIFIER)
	g.typeName = g.leaf(TypeName, "type name", tokenizer.IDENTIFIER)

	argList := pc.Trans(
		pc.Seq(
			lazyExpr,
			pc.ZeroOrMore("argument", pc.Seq(g.match("','", tokenizer.COMMA), lazyExpr)),
		),
		g.build(ArgList),
	)

	functionCall := pc.Trans(
		pc.Seq(
			identifier,
			g.match("'('", tokenizer.OPENED_PARENS),
			pc.Optional(argList),
			g.match("')'", tokenizer.CLOSED_PARENS),
		),
		g.build(FunctionCall),
	)

	// A parenthesized group keeps the inner node but widens its span to
	// cover the parentheses, so parent spans stay contiguous.
	group := pc.Trans(
		pc.Seq(
			g.match("'('", tokenizer.OPENED_PARENS),
			lazyExpr,
			g.match("')'", tokenizer.CLOSED_PARENS),
		),
		func(pctx *pc.ParseContext[Entity], tokens []pc.Token[Entity]) ([]pc.Token[Entity], error) {
			n := tokens[1].Val.Node
			n.Start = entityStart(tokens[0])
			n.End = entityEnd(tokens[2])
			return []pc.Token[Entity]{nodeToken(n, tokens[0].Pos)}, nil
		},
	)

	// Ordered choice: function call before bare identifier, so a name
	// followed by '(' never commits to the identifier alternative.
	primary := pc.Or(literal, functionCall, identifier, group)

	unary := pc.Trans(
		pc.Seq(
			pc.Optional(g.leaf(Operator, "unary operator", tokenizer.MINUS, tokenizer.NOT)),
			primary,
		),
		func(pctx *pc.ParseContext[Entity], tokens []pc.Token[Entity]) ([]pc.Token[Entity], error) {
			if len(tokens) == 1 {
				return tokens, nil
			}
			n := &Node{
				Rule:     UnaryExpr,
				Start:    entityStart(tokens[0]),
				End:      entityEnd(tokens[1]),
				Children: []*Node{tokens[0].Val.Node, tokens[1].Val.Node},
				src:      g.src,
			}
			return []pc.Token[Entity]{nodeToken(n, tokens[0].Pos)}, nil
		},
	)

	// Each level only descends into the next-tighter one; the nesting
	// is the precedence table.
	multiplicative := g.binaryLevel("multiplicative", unary,
		tokenizer.MULTIPLY, tokenizer.DIVIDE, tokenizer.MODULO)
	additive := g.binaryLevel("additive", multiplicative,
		tokenizer.PLUS, tokenizer.MINUS)
	comparison := g.binaryLevel("comparison", additive,
		tokenizer.LESS_THAN, tokenizer.GREATER_THAN, tokenizer.LESS_EQUAL, tokenizer.GREATER_EQUAL)
	equality := g.binaryLevel("equality", comparison,
		tokenizer.EQUAL, tokenizer.NOT_EQUAL)
	logicalAnd := g.binaryLevel("logical and", equality, tokenizer.AND)
	g.expression = g.binaryLevel("logical or", logicalAnd, tokenizer.OR)

	g.varDecl = pc.Trans(
		pc.Seq(
			g.match("'var'", tokenizer.VAR),
			identifier,
			g.match("':'", tokenizer.COLON),
			g.typeName,
			pc.Optional(pc.Seq(g.match("'='", tokenizer.ASSIGN), lazyExpr)),
			g.match("';'", tokenizer.SEMICOLON),
		),
		g.build(VarDecl),
	)

	returnStmt := pc.Trans(
		pc.Seq(
			g.match("'return'", tokenizer.RETURN),
			pc.Optional(lazyExpr),
			g.match("';'", tokenizer.SEMICOLON),
		),
		g.build(ReturnStmt),
	)

	exprStmt := pc.Trans(
		pc.Seq(lazyExpr, g.match("';'", tokenizer.SEMICOLON)),
		g.build(ExprStmt),
	)

	statement := pc.Or(g.varDecl, returnStmt, exprStmt)

	block := pc.Trans(
		pc.Seq(
			g.match("'{'", tokenizer.OPENED_BRACE),
			pc.ZeroOrMore("statement", statement),
			g.match("'}'", tokenizer.CLOSED_BRACE),
		),
		g.build(Block),
	)

	param := pc.Trans(
		pc.Seq(identifier, g.match("':'", tokenizer.COLON), g.typeName),
		g.build(Param),
	)

	paramList := pc.Trans(
		pc.Seq(
			param,
			pc.ZeroOrMore("parameter", pc.Seq(g.match("','", tokenizer.COMMA), param)),
		),
		g.build(ParamList),
	)

	g.functionDecl = pc.Trans(
		pc.Seq(
			g.match("'fn'", tokenizer.FN),
			identifier,
			g.match("'('", tokenizer.OPENED_PARENS),
			pc.Optional(paramList),
			g.match("')'", tokenizer.CLOSED_PARENS),
			pc.Optional(pc.Seq(g.match("'->'", tokenizer.ARROW), g.typeName)),
			block,
		),
		g.build(FunctionDecl),
	)

	g.program = pc.Trans(
		pc.ZeroOrMore("declaration", pc.Or(g.functionDecl, g.varDecl)),
		g.build(Program),
	)

	return g
}

// match parses a single token of one of the given types. On rejection
// it feeds the failure tracker before yielding to the next alternative.
func (g *grammar) match(expected string, types ...tokenizer.TokenType) pc.Parser[Entity] {
	return pc.Trace(expected, func(pctx *pc.ParseContext[Entity], tokens []pc.Token[Entity]) (int, []pc.Token[Entity], error) {
		if len(tokens) == 0 {
			g.tracker.record(g.endPos, "end of input", expected)
			return 0, nil, pc.ErrNotMatch
		}

		o := tokens[0].Val.Original
		if slices.Contains(types, o.Type) {
			return 1, tokens[:1], nil
		}

		g.tracker.record(o.Position, "'"+o.Value+"'", expected)
		return 0, nil, pc.ErrNotMatch
	})
}

// eos succeeds only at the end of the token stream.
func (g *grammar) eos() pc.Parser[Entity] {
	return pc.Trace("end of input", func(pctx *pc.ParseContext[Entity], tokens []pc.Token[Entity]) (int, []pc.Token[Entity], error) {
		if len(tokens) == 0 {
			return 0, []pc.Token[Entity]{}, nil
		}

		o := tokens[0].Val.Original
		g.tracker.record(o.Position, "'"+o.Value+"'", "end of input")
		return 0, nil, pc.ErrNotMatch
	})
}

// leaf turns a single matched token into a tree node.
func (g *grammar) leaf(rule Rule, expected string, types ...tokenizer.TokenType) pc.Parser[Entity] {
	return pc.Trans(
		g.match(expected, types...),
		func(pctx *pc.ParseContext[Entity], tokens []pc.Token[Entity]) ([]pc.Token[Entity], error) {
			o := tokens[0].Val.Original
			n := &Node{
				Rule:  rule,
				Start: o.Position.Offset,
				End:   o.End(),
				src:   g.src,
			}
			return []pc.Token[Entity]{nodeToken(n, tokens[0].Pos)}, nil
		},
	)
}

// build collapses a matched sequence into one node spanning from the
// first to the last matched token, with the already-built nodes among
// them as children.
func (g *grammar) build(rule Rule) func(*pc.ParseContext[Entity], []pc.Token[Entity]) ([]pc.Token[Entity], error) {
	return func(pctx *pc.ParseContext[Entity], tokens []pc.Token[Entity]) ([]pc.Token[Entity], error) {
		n := &Node{
			Rule:     rule,
			Children: childNodes(tokens),
			src:      g.src,
		}

		var pos *pc.Pos
		if len(tokens) > 0 {
			n.Start = entityStart(tokens[0])
			n.End = entityEnd(tokens[len(tokens)-1])
			pos = tokens[0].Pos
		}

		return []pc.Token[Entity]{nodeToken(n, pos)}, nil
	}
}

// binaryLevel parses next (op next)* and folds the flat sequence into
// left-associative BinaryExpr nodes: a - b - c becomes (a - b) - c.
func (g *grammar) binaryLevel(label string, next pc.Parser[Entity], ops ...tokenizer.TokenType) pc.Parser[Entity] {
	op := g.leaf(Operator, "operator", ops...)

	return pc.Trans(
		pc.Seq(next, pc.ZeroOrMore(label, pc.Seq(op, next))),
		func(pctx *pc.ParseContext[Entity], tokens []pc.Token[Entity]) ([]pc.Token[Entity], error) {
			left := tokens[0]
			for i := 1; i+1 < len(tokens); i += 2 {
				n := &Node{
					Rule:     BinaryExpr,
					Start:    entityStart(left),
					End:      entityEnd(tokens[i+1]),
					Children: []*Node{left.Val.Node, tokens[i].Val.Node, tokens[i+1].Val.Node},
					src:      g.src,
				}
				left = nodeToken(n, left.Pos)
			}
			return []pc.Token[Entity]{left}, nil
		},
	)
}

// guard bounds expression recursion depth when a limit is configured.
// It fails like an ordinary mismatch so backtracking stays intact; the
// flag is consulted once the whole parse has failed.
func (g *grammar) guard(p pc.Parser[Entity]) pc.Parser[Entity] {
	return func(pctx *pc.ParseContext[Entity], tokens []pc.Token[Entity]) (int, []pc.Token[Entity], error) {
		if g.maxDepth <= 0 {
			return p(pctx, tokens)
		}

		g.depth++
		defer func() { g.depth-- }()

		if g.depth > g.maxDepth {
			if !g.depthExceeded {
				g.depthExceeded = true
				if len(tokens) > 0 {
					g.depthPos = tokens[0].Val.Original.Position
				} else {
					g.depthPos = g.endPos
				}
			}
			return 0, nil, pc.ErrNotMatch
		}

		return p(pctx, tokens)
	}
}

// entry binds an entry-point rule to a whole-input match.
func (g *grammar) entry(rule Rule) pc.Parser[Entity] {
	var p pc.Parser[Entity]

	switch rule {
	case Program:
		p = g.program
	case FunctionDecl:
		p = g.functionDecl
	case VarDecl:
		p = g.varDecl
	case Expression:
		p = g.expression
	case TypeName:
		p = g.typeName
	default:
		return nil
	}

	return pc.Seq(p, g.eos())
}

// buildError converts the tracked furthest failure into a ParseError.
func (g *grammar) buildError(rule Rule) error {
	if g.depthExceeded {
		return &ParseError{Err: ErrDepthExceeded, Pos: g.depthPos}
	}

	t := g.tracker
	if t.offset < 0 {
		return &ParseError{Err: ErrInvalidSyntax, Pos: tokenizer.Position{Line: 1, Column: 1}}
	}

	kind := ErrInvalidSyntax
	if rule != Program && t.offset <= g.firstOffset {
		kind = ErrRuleMismatch
	}

	return &ParseError{
		Err:      kind,
		Pos:      t.pos,
		Expected: slices.Clone(t.expected),
		Found:    t.found,
	}
}
