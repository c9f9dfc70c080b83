package descent

import (
	"fmt"
	"io"
)

type treeNode struct {
	kindName string
	text     string
	children []*treeNode
}

// PrintTree writes a syntax tree with ruled lines, one node per line.
func PrintTree(w io.Writer, node Node) {
	printTree(w, toTree(node), "", "")
}

func printTree(w io.Writer, node *treeNode, ruledLine string, childRuledLinePrefix string) {
	if node == nil {
		return
	}

	if node.text != "" {
		fmt.Fprintf(w, "%v%v %#v\n", ruledLine, node.kindName, node.text)
	} else {
		fmt.Fprintf(w, "%v%v\n", ruledLine, node.kindName)
	}

	num := len(node.children)
	for i, child := range node.children {
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

func toTree(node Node) *treeNode {
	switch n := node.(type) {
	case *Program:
		return &treeNode{kindName: "Program", children: stmtTrees(n.Stmts)}
	case *FuncDecl:
		params := &treeNode{kindName: "Params"}
		for _, param := range n.Params {
			params.children = append(params.children, &treeNode{kindName: "Param", text: param})
		}
		return &treeNode{kindName: "FuncDecl", text: n.Name, children: []*treeNode{params, toTree(n.Body)}}
	case *VarDecl:
		return &treeNode{kindName: "VarDecl", text: n.Name, children: []*treeNode{toTree(n.Value)}}
	case *IfStmt:
		t := &treeNode{kindName: "IfStmt", children: []*treeNode{toTree(n.Cond), toTree(n.Then)}}
		if n.Else != nil {
			t.children = append(t.children, &treeNode{kindName: "Else", children: []*treeNode{toTree(n.Else)}})
		}
		return t
	case *WhileStmt:
		return &treeNode{kindName: "WhileStmt", children: []*treeNode{toTree(n.Cond), toTree(n.Body)}}
	case *ReturnStmt:
		t := &treeNode{kindName: "ReturnStmt"}
		if n.Value != nil {
			t.children = []*treeNode{toTree(n.Value)}
		}
		return t
	case *Block:
		return &treeNode{kindName: "Block", children: stmtTrees(n.Stmts)}
	case *ExprStmt:
		return &treeNode{kindName: "ExprStmt", children: []*treeNode{toTree(n.X)}}
	case *AssignExpr:
		return &treeNode{kindName: "Assign", children: []*treeNode{toTree(n.Target), toTree(n.Value)}}
	case *BinaryExpr:
		return &treeNode{kindName: "Binary", text: n.Op, children: []*treeNode{toTree(n.Left), toTree(n.Right)}}
	case *UnaryExpr:
		return &treeNode{kindName: "Unary", text: n.Op, children: []*treeNode{toTree(n.X)}}
	case *CallExpr:
		t := &treeNode{kindName: "Call", children: []*treeNode{toTree(n.Callee)}}
		for _, arg := range n.Args {
			t.children = append(t.children, toTree(arg))
		}
		return t
	case *ParenExpr:
		return &treeNode{kindName: "Paren", children: []*treeNode{toTree(n.X)}}
	case *Ident:
		return &treeNode{kindName: "Ident", text: n.Name}
	case *NumberLit:
		return &treeNode{kindName: "Number", text: n.Text}
	case *StringLit:
		return &treeNode{kindName: "String", text: n.Value}
	case *BoolLit:
		return &treeNode{kindName: "Bool", text: fmt.Sprint(n.Value)}
	}
	return nil
}

func stmtTrees(stmts []Stmt) []*treeNode {
	children := make([]*treeNode, 0, len(stmts))
	for _, s := range stmts {
		children = append(children, toTree(s))
	}
	return children
}
