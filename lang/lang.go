/*
Package lang publishes the Recipe language: its grammar, its lexical specification and the
mapping from tokens to grammar terminals.

Recipe is a small curly-brace scripting language:

	recipe add(a, b) {
		return a + b;
	}
	put total = add(1, 2);
	while (total < 10) { total = total * 2; }
*/
package lang

import (
	"github.com/recipelang/ladle/grammar"
)

// Terminals of the Recipe grammar.
const (
	TermRecipe    = "KW_recipe"
	TermPut       = "KW_put"
	TermReturn    = "KW_return"
	TermIf        = "KW_if"
	TermElse      = "KW_else"
	TermWhile     = "KW_while"
	TermTrue      = "KW_true"
	TermFalse     = "KW_false"
	TermID        = "ID"
	TermNumber    = "NUMBER"
	TermString    = "STRING"
	TermLParen    = "LPAREN"
	TermRParen    = "RPAREN"
	TermLBrace    = "LBRACE"
	TermRBrace    = "RBRACE"
	TermComma     = "COMMA"
	TermSemicolon = "SEMICOLON"
	TermAssign    = "ASSIGN"
	TermPlus      = "PLUS"
	TermMinus     = "MINUS"
	TermStar      = "STAR"
	TermSlash     = "SLASH"
	TermPercent   = "PERCENT"
	TermBang      = "BANG"
	TermEq        = "EQ"
	TermNeq       = "NEQ"
	TermLT        = "LT"
	TermGT        = "GT"
	TermLE        = "LE"
	TermGE        = "GE"
	TermAnd       = "AND"
	TermOr        = "OR"
)

const Name = "recipe"

// NewGrammar returns the Recipe grammar. Each call builds a fresh grammar.
func NewGrammar() (*grammar.Grammar, error) {
	b := grammar.NewGrammarBuilder(Name)
	b.Terminals(
		TermRecipe, TermPut, TermReturn, TermIf, TermElse, TermWhile, TermTrue, TermFalse,
		TermID, TermNumber, TermString,
		TermLParen, TermRParen, TermLBrace, TermRBrace, TermComma, TermSemicolon,
		TermAssign, TermPlus, TermMinus, TermStar, TermSlash, TermPercent, TermBang,
		TermEq, TermNeq, TermLT, TermGT, TermLE, TermGE, TermAnd, TermOr,
	)
	b.Start("Program")

	b.Rule("Program", "StmtList")
	b.Rule("StmtList", "Stmt", "StmtList")
	b.Rule("StmtList")

	b.Rule("Stmt", "FuncDecl")
	b.Rule("Stmt", "VarDecl")
	b.Rule("Stmt", "IfStmt")
	b.Rule("Stmt", "WhileStmt")
	b.Rule("Stmt", "ReturnStmt")
	b.Rule("Stmt", "Block")
	b.Rule("Stmt", "ExprStmt")

	b.Rule("FuncDecl", TermRecipe, TermID, TermLParen, "ParamListOpt", TermRParen, "Block")
	b.Rule("ParamListOpt", TermID, "ParamListTail")
	b.Rule("ParamListOpt")
	b.Rule("ParamListTail", TermComma, TermID, "ParamListTail")
	b.Rule("ParamListTail")

	b.Rule("Block", TermLBrace, "StmtList", TermRBrace)
	b.Rule("VarDecl", TermPut, TermID, TermAssign, "Expr", TermSemicolon)

	b.Rule("IfStmt", TermIf, TermLParen, "Expr", TermRParen, "Block", "IfElseOpt")
	b.Rule("IfElseOpt", TermElse, "ElseBody")
	b.Rule("IfElseOpt")
	b.Rule("ElseBody", "Block")
	b.Rule("ElseBody", "IfStmt")

	b.Rule("WhileStmt", TermWhile, TermLParen, "Expr", TermRParen, "Block")
	b.Rule("ReturnStmt", TermReturn, "ReturnValueOpt", TermSemicolon)
	b.Rule("ReturnValueOpt", "Expr")
	b.Rule("ReturnValueOpt")
	b.Rule("ExprStmt", "Expr", TermSemicolon)

	b.Rule("Expr", "OrExpr", "AssignOpt")
	b.Rule("AssignOpt", TermAssign, "Expr")
	b.Rule("AssignOpt")

	b.Rule("OrExpr", "AndExpr", "OrTail")
	b.Rule("OrTail", TermOr, "AndExpr", "OrTail")
	b.Rule("OrTail")

	b.Rule("AndExpr", "Equality", "AndTail")
	b.Rule("AndTail", TermAnd, "Equality", "AndTail")
	b.Rule("AndTail")

	b.Rule("Equality", "Comparison", "EqualityTail")
	b.Rule("EqualityTail", "EqOp", "Comparison", "EqualityTail")
	b.Rule("EqualityTail")
	b.Rule("EqOp", TermEq)
	b.Rule("EqOp", TermNeq)

	b.Rule("Comparison", "Additive", "ComparisonTail")
	b.Rule("ComparisonTail", "RelOp", "Additive", "ComparisonTail")
	b.Rule("ComparisonTail")
	b.Rule("RelOp", TermLT)
	b.Rule("RelOp", TermGT)
	b.Rule("RelOp", TermLE)
	b.Rule("RelOp", TermGE)

	b.Rule("Additive", "Term", "AdditiveTail")
	b.Rule("AdditiveTail", "AddOp", "Term", "AdditiveTail")
	b.Rule("AdditiveTail")
	b.Rule("AddOp", TermPlus)
	b.Rule("AddOp", TermMinus)

	b.Rule("Term", "Unary", "TermTail")
	b.Rule("TermTail", "MulOp", "Unary", "TermTail")
	b.Rule("TermTail")
	b.Rule("MulOp", TermStar)
	b.Rule("MulOp", TermSlash)
	b.Rule("MulOp", TermPercent)

	b.Rule("Unary", TermMinus, "Unary")
	b.Rule("Unary", TermBang, "Unary")
	b.Rule("Unary", "Call")

	b.Rule("Call", "Primary", "CallTail")
	b.Rule("CallTail", TermLParen, "ArgListOpt", TermRParen, "CallTail")
	b.Rule("CallTail")
	b.Rule("ArgListOpt", "Expr", "ArgListTail")
	b.Rule("ArgListOpt")
	b.Rule("ArgListTail", TermComma, "Expr", "ArgListTail")
	b.Rule("ArgListTail")

	b.Rule("Primary", TermID)
	b.Rule("Primary", TermNumber)
	b.Rule("Primary", TermString)
	b.Rule("Primary", TermTrue)
	b.Rule("Primary", TermFalse)
	b.Rule("Primary", TermLParen, "Expr", TermRParen)

	return b.Build()
}

// EBNF renders the Recipe grammar together with the lexical shape of its terminals.
func EBNF(g *grammar.Grammar) (string, error) {
	opts := []grammar.EBNFOption{
		grammar.WithTerminalDefinition(TermID, `( letter | "_" ) { letter | digit | "_" }`),
		grammar.WithTerminalDefinition(TermNumber, `digit { digit } [ "." digit { digit } ]`),
		grammar.WithTerminalDefinition(TermString, `"\"" { char } "\""`),
		grammar.WithLexicalProduction("letter", `"a" … "z" | "A" … "Z"`),
		grammar.WithLexicalProduction("digit", `"0" … "9"`),
		grammar.WithLexicalProduction("char", `letter | digit | " " | "\\" "\""`),
	}
	for word, term := range keywordTerminals {
		opts = append(opts, grammar.WithTerminalDefinition(term, quote(word)))
	}
	for lexeme, term := range symbolTerminals {
		opts = append(opts, grammar.WithTerminalDefinition(term, quote(lexeme)))
	}
	return g.EBNF(opts...)
}

func quote(s string) string {
	return `"` + s + `"`
}
