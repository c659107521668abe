package parser

import (
	"errors"
	"strings"
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/shibukawa/carbonparser/tokenizer"
)

func TestParseFunctionDecl(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"simple function", "fn test() -> i32 { return 42; }"},
		{"function without return type", "fn log_message() { return; }"},
		{"function with parameter", "fn double(x: i32) -> i32 { return x * 2; }"},
		{"function with multiple parameters", "fn add(a: i32, b: i32) -> i32 { return a + b; }"},
		{"function with mixed parameter types", "fn format(count: i32, label: String, ratio: f64) -> String { return label; }"},
		{"function with empty body", "fn noop() {}"},
		{"function with local variables", "fn area(w: i32, h: i32) -> i32 { var result: i32 = w * h; return result; }"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			node, err := ParseFunctionDecl(test.src)
			assert.NoError(t, err)
			assert.Equal(t, FunctionDecl, node.Rule)
			assert.Equal(t, test.src, node.Text())
			assert.Equal(t, Identifier, node.Children[0].Rule)
		})
	}
}

func TestParseFunctionDeclStructure(t *testing.T) {
	node, err := ParseFunctionDecl("fn add(a: i32, b: i32) -> i32 { return a + b; }")
	assert.NoError(t, err)

	// name, parameter list, return type, body
	assert.Equal(t, 4, len(node.Children))
	assert.Equal(t, "add", node.Children[0].Text())

	params := node.Children[1]
	assert.Equal(t, ParamList, params.Rule)
	assert.Equal(t, 2, len(params.Children))
	assert.Equal(t, Param, params.Children[0].Rule)
	assert.Equal(t, "a: i32", params.Children[0].Text())

	assert.Equal(t, TypeName, node.Children[2].Rule)
	assert.Equal(t, "i32", node.Children[2].Text())

	body := node.Children[3]
	assert.Equal(t, Block, body.Rule)
	assert.Equal(t, 1, len(body.Children))
	assert.Equal(t, ReturnStmt, body.Children[0].Rule)
}

func TestParseVarDecl(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		children int
	}{
		{"integer with initializer", "var x: i32 = 42;", 3},
		{"without initializer", "var y: bool;", 2},
		{"string variable", `var name: String = "Carbon";`, 3},
		{"float variable", "var pi: f64 = 3.14159;", 3},
		{"expression initializer", "var total: i32 = base + offset * 2;", 3},
		{"call initializer", "var result: i32 = compute(a, b);", 3},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			node, err := ParseVarDecl(test.src)
			assert.NoError(t, err)
			assert.Equal(t, VarDecl, node.Rule)
			assert.Equal(t, test.src, node.Text())
			assert.Equal(t, test.children, len(node.Children))
			assert.Equal(t, Identifier, node.Children[0].Rule)
			assert.Equal(t, TypeName, node.Children[1].Rule)
		})
	}
}

func TestParseTypeName(t *testing.T) {
	for _, src := range []string{"i32", "i64", "f32", "f64", "bool", "String", "CustomType"} {
		t.Run(src, func(t *testing.T) {
			node, err := ParseTypeName(src)
			assert.NoError(t, err)
			assert.Equal(t, TypeName, node.Rule)
			assert.Equal(t, src, node.Text())
		})
	}
}

func TestParseProgram(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		children int
	}{
		{"empty program", "", 0},
		{"whitespace only", "  \n\t  \n", 0},
		{"comments only", "// header\n/* nothing\n   here */\n", 0},
		{"single function", "fn main() -> i32 {\n    return 0;\n}\n", 1},
		{"multiple functions", "fn first() -> i32 { return 1; }\n\nfn second() -> i32 { return 2; }\n", 2},
		{"globals and functions", "var limit: i32 = 100;\n\nfn check(x: i32) -> bool {\n    return x < limit;\n}\n", 2},
		{"function with comments", "// entry point\nfn main() -> i32 {\n    /* always succeeds */\n    return 0;\n}\n", 1},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			node, err := ParseProgram(test.src)
			assert.NoError(t, err)
			assert.Equal(t, Program, node.Rule)
			assert.Equal(t, test.children, len(node.Children))
		})
	}
}

func TestParseProgramDeclarationOrder(t *testing.T) {
	node, err := ParseProgram("var limit: i32 = 100;\nfn main() -> i32 { return limit; }\n")
	assert.NoError(t, err)
	assert.Equal(t, 2, len(node.Children))
	assert.Equal(t, VarDecl, node.Children[0].Rule)
	assert.Equal(t, FunctionDecl, node.Children[1].Rule)
}

func TestParseReturnWithoutValue(t *testing.T) {
	node, err := ParseFunctionDecl("fn stop() { return; }")
	assert.NoError(t, err)

	body := node.Children[len(node.Children)-1]
	assert.Equal(t, Block, body.Rule)
	ret := body.Children[0]
	assert.Equal(t, ReturnStmt, ret.Rule)
	assert.Equal(t, 0, len(ret.Children))
}

func TestParseExpressionStatement(t *testing.T) {
	node, err := ParseFunctionDecl("fn run() { notify(42); }")
	assert.NoError(t, err)

	body := node.Children[len(node.Children)-1]
	stmt := body.Children[0]
	assert.Equal(t, ExprStmt, stmt.Rule)
	assert.Equal(t, "notify(42);", stmt.Text())
	assert.Equal(t, FunctionCall, stmt.Children[0].Rule)
}

func TestParseUnsupportedRule(t *testing.T) {
	_, err := Parse(BinaryExpr, "1 + 2")
	assert.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnsupportedRule))
}

func TestParseErrorMalformedFunction(t *testing.T) {
	_, err := ParseProgram("fn main( { }")
	assert.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidSyntax))

	var perr *ParseError
	assert.True(t, errors.As(err, &perr))
	// Failure is reported at the `{`, the furthest point any alternative reached.
	assert.Equal(t, 9, perr.Pos.Offset)
	assert.Equal(t, 1, perr.Pos.Line)
	assert.Equal(t, 10, perr.Pos.Column)
	assert.Equal(t, "'{'", perr.Found)
}

func TestParseErrorMissingSemicolon(t *testing.T) {
	_, err := ParseVarDecl("var x: i32 = 42")
	assert.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidSyntax))

	var perr *ParseError
	assert.True(t, errors.As(err, &perr))
	assert.Equal(t, 15, perr.Pos.Offset)
	assert.Equal(t, "end of input", perr.Found)
	assert.True(t, strings.Contains(err.Error(), "line 1, column 16"))
	assert.True(t, strings.Contains(err.Error(), "';'"))
}

func TestParseErrorBadIdentifier(t *testing.T) {
	// 123invalid lexes as an integer followed by an identifier.
	_, err := ParseVarDecl("var 123invalid: i32 = 0;")
	assert.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidSyntax))

	var perr *ParseError
	assert.True(t, errors.As(err, &perr))
	assert.Equal(t, 4, perr.Pos.Offset)
	assert.Equal(t, "'123'", perr.Found)
}

func TestParseErrorRuleMismatch(t *testing.T) {
	_, err := ParseVarDecl("fn test() -> i32 { return 42; }")
	assert.Error(t, err)
	assert.True(t, errors.Is(err, ErrRuleMismatch))

	_, err = ParseFunctionDecl("var x: i32 = 42;")
	assert.Error(t, err)
	assert.True(t, errors.Is(err, ErrRuleMismatch))
}

func TestParseErrorTrailingInput(t *testing.T) {
	_, err := ParseExpression("42 extra")
	assert.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidSyntax))

	var perr *ParseError
	assert.True(t, errors.As(err, &perr))
	assert.Equal(t, 3, perr.Pos.Offset)
	assert.Equal(t, "'extra'", perr.Found)

	_, err = ParseProgram("fn main() -> i32 { return 0; } garbage")
	assert.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidSyntax))
}

func TestParseErrorLexical(t *testing.T) {
	_, err := ParseVarDecl(`var s: String = "oops;`)
	assert.Error(t, err)
	assert.True(t, errors.Is(err, tokenizer.ErrUnterminatedString))

	var perr *ParseError
	assert.True(t, errors.As(err, &perr))
	assert.Equal(t, 1, perr.Pos.Line)
	assert.Equal(t, 17, perr.Pos.Column)
}

func TestParseErrorEmptyExpression(t *testing.T) {
	_, err := ParseExpression("")
	assert.Error(t, err)
}

func TestParseDepthLimit(t *testing.T) {
	src := strings.Repeat("(", 50) + "1" + strings.Repeat(")", 50)

	// No limit configured: nesting is unbounded.
	node, err := ParseExpression(src)
	assert.NoError(t, err)
	assert.Equal(t, src, node.Text())

	// A tight limit rejects it with a depth error, not a hang.
	_, err = ParseExpression(src, Options{MaxDepth: 10})
	assert.Error(t, err)
	assert.True(t, errors.Is(err, ErrDepthExceeded))
}

func TestParseMultilineErrorPosition(t *testing.T) {
	src := "fn main() -> i32 {\n    return 42\n}\n"
	_, err := ParseProgram(src)
	assert.Error(t, err)

	var perr *ParseError
	assert.True(t, errors.As(err, &perr))
	// The missing semicolon is noticed at the closing brace on line 3.
	assert.Equal(t, 3, perr.Pos.Line)
	assert.Equal(t, 1, perr.Pos.Column)
	assert.Equal(t, "'}'", perr.Found)
}
