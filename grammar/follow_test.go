package grammar

import (
	"testing"
)

type follow struct {
	nonTerminal string
	symbols     []string
}

func TestFollowSet(t *testing.T) {
	tests := []struct {
		caption string
		terms   string
		rules   []string
		follow  []follow
	}{
		{
			caption: "an expression grammar without left recursion",
			terms:   exprTerms,
			rules:   exprRules,
			follow: []follow{
				{nonTerminal: "E", symbols: []string{")", "$"}},
				{nonTerminal: "E'", symbols: []string{")", "$"}},
				{nonTerminal: "T", symbols: []string{"+", ")", "$"}},
				{nonTerminal: "T'", symbols: []string{"+", ")", "$"}},
				{nonTerminal: "F", symbols: []string{"*", "+", ")", "$"}},
			},
		},
		{
			caption: "the start symbol is followed by $ only",
			terms:   "a",
			rules: []string{
				"S ->",
			},
			follow: []follow{
				{nonTerminal: "S", symbols: []string{"$"}},
			},
		},
		{
			caption: "FOLLOW propagates through nullable suffixes",
			terms:   "a b c",
			rules: []string{
				"S -> A B c",
				"A -> a",
				"A ->",
				"B -> b",
				"B ->",
			},
			follow: []follow{
				{nonTerminal: "S", symbols: []string{"$"}},
				{nonTerminal: "A", symbols: []string{"b", "c"}},
				{nonTerminal: "B", symbols: []string{"c"}},
			},
		},
		{
			caption: "a non-terminal at the end of a body inherits FOLLOW of the head",
			terms:   "x y",
			rules: []string{
				"S -> A y",
				"A -> x B",
				"B -> x",
				"B ->",
			},
			follow: []follow{
				{nonTerminal: "S", symbols: []string{"$"}},
				{nonTerminal: "A", symbols: []string{"y"}},
				{nonTerminal: "B", symbols: []string{"y"}},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			g := genGrammar(t, tt.terms, tt.rules...)
			nonTerms := g.symbolTable.NonTerminalSymbols()
			fst, err := genFirstSet(g.productionSet, nonTerms)
			if err != nil {
				t.Fatal(err)
			}
			flw, err := genFollowSet(g.productionSet, fst, nonTerms, g.startSymbol)
			if err != nil {
				t.Fatal(err)
			}
			if flw == nil {
				t.Fatal("genFollowSet returned nil without any error")
			}

			genSym := newTestSymbolGenerator(t, g.symbolTable)
			for _, ttFollow := range tt.follow {
				actual, err := flw.find(genSym(ttFollow.nonTerminal))
				if err != nil {
					t.Fatalf("failed to get a FOLLOW entry; non-terminal symbol: %v, error: %v", ttFollow.nonTerminal, err)
				}
				testSymbolSet(t, g, actual.symbols, ttFollow.symbols)
			}
		})
	}
}

func TestFollowSet_Idempotent(t *testing.T) {
	g := genGrammar(t, exprTerms, exprRules...)
	nonTerms := g.symbolTable.NonTerminalSymbols()
	fst, err := genFirstSet(g.productionSet, nonTerms)
	if err != nil {
		t.Fatal(err)
	}
	flw, err := genFollowSet(g.productionSet, fst, nonTerms, g.startSymbol)
	if err != nil {
		t.Fatal(err)
	}

	cc := &followComContext{
		prods:  g.productionSet,
		first:  fst,
		follow: flw,
	}
	changed, err := cc.pass()
	if err != nil {
		t.Fatal(err)
	}
	if changed {
		t.Fatal("one more pass over converged FOLLOW sets must not change them")
	}
}

func TestFollowSet_RequiresFirst(t *testing.T) {
	g := genGrammar(t, exprTerms, exprRules...)
	if _, err := genFollowSet(g.productionSet, nil, g.symbolTable.NonTerminalSymbols(), g.startSymbol); err == nil {
		t.Fatal("FOLLOW without FIRST must fail")
	}
}
