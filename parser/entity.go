package parser

import (
	pc "github.com/shibukawa/parsercombinator"

	"github.com/shibukawa/carbonparser/tokenizer"
)

// Entity is the value carried through the combinator pipeline. A token
// fresh from the tokenizer has Original set; once a grammar rule builds
// a tree node it travels as Node instead.
type Entity struct {
	Original tokenizer.Token
	Node     *Node
}

// TokenToEntity converts tokenizer output into combinator tokens.
// The trailing EOF token is dropped so end-of-stream is simply an
// empty remainder.
func TokenToEntity(tokens []tokenizer.Token) []pc.Token[Entity] {
	results := make([]pc.Token[Entity], 0, len(tokens))

	for _, token := range tokens {
		if token.Type == tokenizer.EOF {
			continue
		}
		results = append(results, pc.Token[Entity]{
			Type: "raw",
			Pos: &pc.Pos{
				Line:  token.Position.Line,
				Col:   token.Position.Column,
				Index: token.Position.Offset,
			},
			Val: Entity{Original: token},
			Raw: token.Value,
		})
	}

	return results
}

// entityStart returns the starting byte offset of a pipeline token.
func entityStart(token pc.Token[Entity]) int {
	if token.Val.Node != nil {
		return token.Val.Node.Start
	}
	return token.Val.Original.Position.Offset
}

// entityEnd returns the byte offset just past a pipeline token.
func entityEnd(token pc.Token[Entity]) int {
	if token.Val.Node != nil {
		return token.Val.Node.End
	}
	return token.Val.Original.End()
}

// childNodes collects the built nodes among tokens, keeping source order.
func childNodes(tokens []pc.Token[Entity]) []*Node {
	var nodes []*Node
	for _, token := range tokens {
		if token.Val.Node != nil {
			nodes = append(nodes, token.Val.Node)
		}
	}
	return nodes
}

// nodeToken wraps a built node for the next pipeline stage.
func nodeToken(n *Node, pos *pc.Pos) pc.Token[Entity] {
	return pc.Token[Entity]{
		Type: "node",
		Pos:  pos,
		Val:  Entity{Node: n},
	}
}
