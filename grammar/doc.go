/*
Package grammar builds predictive LL(1) parsing tables from context-free grammars.

A grammar is declared with a GrammarBuilder, then compiled:

	b := grammar.NewGrammarBuilder("expr")
	b.Terminals("id", "add")
	b.Rule("E", "id", "E'")
	b.Rule("E'", "add", "id", "E'")
	b.Rule("E'") // E' → ε
	g, err := b.Build()
	...
	cg, report, err := grammar.Compile(g)

Compile computes FIRST and FOLLOW by fixed-point iteration and fills the table in
declaration order. When two productions claim the same cell, the one declared first keeps
it and the other is listed in report.Conflicts.
*/
package grammar

import "github.com/npillmayer/schuko/tracing"

// tracer traces with key 'ladle.grammar'.
func tracer() tracing.Trace {
	return tracing.Select("ladle.grammar")
}
