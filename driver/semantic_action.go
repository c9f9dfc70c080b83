package driver

import (
	"fmt"
	"io"
)

type SemanticActionSet interface {
	// Expand runs when the driver replaces a non-terminal on the stack with the body of a production.
	// `prodNum` is a number of the production.
	Expand(prodNum int)

	// Match runs when the driver matches a terminal on the stack against the lookahead `tok`.
	// The end of input is matched last and is passed as well.
	Match(tok VToken)

	// Accept runs when the driver accepts an input.
	Accept()
}

var _ SemanticActionSet = &SyntaxTreeActionSet{}

type Node struct {
	KindName string
	Text     string
	Row      int
	Col      int
	Children []*Node
}

func PrintTree(w io.Writer, node *Node) {
	printTree(w, node, "", "")
}

func printTree(w io.Writer, node *Node, ruledLine string, childRuledLinePrefix string) {
	if node == nil {
		return
	}

	if node.Text != "" {
		fmt.Fprintf(w, "%v%v %#v\n", ruledLine, node.KindName, node.Text)
	} else {
		fmt.Fprintf(w, "%v%v\n", ruledLine, node.KindName)
	}

	num := len(node.Children)
	for i, child := range node.Children {
		var line string
		if num > 1 && i < num-1 {
			line = "├─ "
		} else {
			line = "└─ "
		}

		var prefix string
		if i >= num-1 {
			prefix = "   "
		} else {
			prefix = "│  "
		}

		printTree(w, child, childRuledLinePrefix+line, childRuledLinePrefix+prefix)
	}
}

// SyntaxTreeActionSet builds a concrete syntax tree top-down. A node is opened when its production is
// expanded and closed once all the symbols of the body have been attached to it.
type SyntaxTreeActionSet struct {
	gram     *Grammar
	cst      *Node
	semStack *semanticStack
}

func NewSyntaxTreeActionSet(gram *Grammar) *SyntaxTreeActionSet {
	return &SyntaxTreeActionSet{
		gram:     gram,
		semStack: newSemanticStack(),
	}
}

func (a *SyntaxTreeActionSet) Expand(prodNum int) {
	node := &Node{
		KindName: a.gram.NonTerminal(a.gram.LHS(prodNum)),
	}
	if !a.attach(node) {
		a.cst = node
	}

	// When an alternative is empty, `n` will be 0, and the node is closed immediately.
	n := a.gram.AlternativeSymbolCount(prodNum)
	a.semStack.push(&semanticFrame{
		node:    node,
		pending: n,
	})
	a.semStack.closeCompleted()
}

func (a *SyntaxTreeActionSet) Match(tok VToken) {
	if tok.EOF() {
		return
	}
	a.attach(&Node{
		KindName: a.gram.Terminal(tok.TerminalID()),
		Text:     tok.Lexeme(),
		Row:      tok.Position().Row,
		Col:      tok.Position().Col,
	})
	a.semStack.closeCompleted()
}

func (a *SyntaxTreeActionSet) Accept() {
	a.semStack.frames = nil
}

func (a *SyntaxTreeActionSet) CST() *Node {
	return a.cst
}

// attach appends a node to the innermost open node. It returns false when no node is open.
func (a *SyntaxTreeActionSet) attach(node *Node) bool {
	top := a.semStack.top()
	if top == nil {
		return false
	}
	top.node.Children = append(top.node.Children, node)
	top.pending--
	return true
}

type semanticFrame struct {
	node    *Node
	pending int
}

type semanticStack struct {
	frames []*semanticFrame
}

func newSemanticStack() *semanticStack {
	return &semanticStack{}
}

func (s *semanticStack) push(f *semanticFrame) {
	s.frames = append(s.frames, f)
}

func (s *semanticStack) top() *semanticFrame {
	if len(s.frames) == 0 {
		return nil
	}
	return s.frames[len(s.frames)-1]
}

func (s *semanticStack) closeCompleted() {
	for len(s.frames) > 0 && s.frames[len(s.frames)-1].pending <= 0 {
		s.frames = s.frames[:len(s.frames)-1]
	}
}
