package parser

import (
	"fmt"
	"io"
	"strings"
)

// Rule identifies a grammar rule. The set is closed and known at build
// time; Node trees are labeled with these tags.
type Rule int

const (
	Program Rule = iota
	FunctionDecl
	ParamList
	Param
	Block
	VarDecl
	ReturnStmt
	ExprStmt
	TypeName
	// Expression is an entry-point tag; a matched expression node
	// carries the tag of the most specific rule that produced it.
	Expression
	BinaryExpr
	UnaryExpr
	FunctionCall
	ArgList
	Identifier
	IntegerLiteral
	FloatLiteral
	BooleanLiteral
	StringLiteral
	Operator
)

// String returns the string representation of Rule
func (r Rule) String() string {
	switch r {
	case Program:
		return "Program"
	case FunctionDecl:
		return "FunctionDecl"
	case ParamList:
		return "ParamList"
	case Param:
		return "Param"
	case Block:
		return "Block"
	case VarDecl:
		return "VarDecl"
	case ReturnStmt:
		return "ReturnStmt"
	case ExprStmt:
		return "ExprStmt"
	case TypeName:
		return "TypeName"
	case Expression:
		return "Expression"
	case BinaryExpr:
		return "BinaryExpr"
	case UnaryExpr:
		return "UnaryExpr"
	case FunctionCall:
		return "FunctionCall"
	case ArgList:
		return "ArgList"
	case Identifier:
		return "Identifier"
	case IntegerLiteral:
		return "IntegerLiteral"
	case FloatLiteral:
		return "FloatLiteral"
	case BooleanLiteral:
		return "BooleanLiteral"
	case StringLiteral:
		return "StringLiteral"
	case Operator:
		return "Operator"
	default:
		return "UNKNOWN"
	}
}

// Node is a labeled span over the original input. It never copies
// matched text; Text slices the backing string on demand. A child's
// span is always contained in its parent's span and siblings appear in
// source order without overlapping.
type Node struct {
	Rule     Rule
	Start    int // byte offset, inclusive
	End      int // byte offset, exclusive
	Children []*Node

	src string
}

// Text returns the exact source text the node spans.
func (n *Node) Text() string {
	return n.src[n.Start:n.End]
}

// String returns the string representation of Node
func (n *Node) String() string {
	return fmt.Sprintf("%s[%d:%d]: %s", n.Rule, n.Start, n.End, n.Text())
}

// Dump writes the node tree to w, one indented line per node.
func (n *Node) Dump(w io.Writer) {
	n.dump(w, 0)
}

func (n *Node) dump(w io.Writer, depth int) {
	text := strings.TrimSpace(n.Text())
	fmt.Fprintf(w, "%s%s: %s\n", strings.Repeat("  ", depth), n.Rule, text)
	for _, child := range n.Children {
		child.dump(w, depth+1)
	}
}
