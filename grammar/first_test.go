package grammar

import (
	"testing"
)

type first struct {
	lhs     string
	rhs     []string
	dot     int
	symbols []string
	empty   bool
}

func TestGenFirst(t *testing.T) {
	tests := []struct {
		caption string
		terms   string
		rules   []string
		first   []first
	}{
		{
			caption: "an expression grammar without left recursion",
			terms:   exprTerms,
			rules:   exprRules,
			first: []first{
				{lhs: "E", rhs: []string{"T", "E'"}, dot: 0, symbols: []string{"(", "id"}},
				{lhs: "E", rhs: []string{"T", "E'"}, dot: 1, symbols: []string{"+"}, empty: true},
				{lhs: "E'", rhs: []string{"+", "T", "E'"}, dot: 0, symbols: []string{"+"}},
				{lhs: "E'", rhs: []string{"+", "T", "E'"}, dot: 3, symbols: []string{}, empty: true},
				{lhs: "E'", rhs: []string{"ε"}, dot: 0, symbols: []string{}, empty: true},
				{lhs: "T", rhs: []string{"F", "T'"}, dot: 0, symbols: []string{"(", "id"}},
				{lhs: "T'", rhs: []string{"*", "F", "T'"}, dot: 2, symbols: []string{"*"}, empty: true},
				{lhs: "F", rhs: []string{"(", "E", ")"}, dot: 1, symbols: []string{"(", "id"}},
				{lhs: "F", rhs: []string{"id"}, dot: 0, symbols: []string{"id"}},
			},
		},
		{
			caption: "productions contain only an empty start production",
			terms:   "a",
			rules: []string{
				"S ->",
			},
			first: []first{
				{lhs: "S", rhs: []string{}, dot: 0, symbols: []string{}, empty: true},
			},
		},
		{
			caption: "a nullable prefix lets FIRST see through it",
			terms:   "a b c",
			rules: []string{
				"S -> A B c",
				"A -> a",
				"A ->",
				"B -> b",
				"B ->",
			},
			first: []first{
				{lhs: "S", rhs: []string{"A", "B", "c"}, dot: 0, symbols: []string{"a", "b", "c"}},
				{lhs: "S", rhs: []string{"A", "B", "c"}, dot: 1, symbols: []string{"b", "c"}},
				{lhs: "S", rhs: []string{"A", "B", "c"}, dot: 2, symbols: []string{"c"}},
			},
		},
		{
			caption: "a chain of nullable non-terminals is nullable",
			terms:   "x",
			rules: []string{
				"S -> A B",
				"A -> B",
				"B -> x",
				"B ->",
			},
			first: []first{
				{lhs: "S", rhs: []string{"A", "B"}, dot: 0, symbols: []string{"x"}, empty: true},
				{lhs: "A", rhs: []string{"B"}, dot: 0, symbols: []string{"x"}, empty: true},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			g := genGrammar(t, tt.terms, tt.rules...)
			fst, err := genFirstSet(g.productionSet, g.symbolTable.NonTerminalSymbols())
			if err != nil {
				t.Fatal(err)
			}

			for _, ttFirst := range tt.first {
				prod := findProduction(t, g, ttFirst.lhs, ttFirst.rhs...)
				actual, err := fst.find(prod, ttFirst.dot)
				if err != nil {
					t.Fatalf("failed to get a FIRST: %v", err)
				}
				testSymbolSet(t, g, actual.symbols, ttFirst.symbols)
				if actual.empty != ttFirst.empty {
					t.Fatalf("empty is mismatched; %v → %v dot %v; want: %v, got: %v", ttFirst.lhs, ttFirst.rhs, ttFirst.dot, ttFirst.empty, actual.empty)
				}
			}
		})
	}
}

func TestGenFirst_NonTerminals(t *testing.T) {
	g := genGrammar(t, exprTerms, exprRules...)
	fst, err := genFirstSet(g.productionSet, g.symbolTable.NonTerminalSymbols())
	if err != nil {
		t.Fatal(err)
	}
	genSym := newTestSymbolGenerator(t, g.symbolTable)

	tests := []struct {
		sym     string
		symbols []string
		empty   bool
	}{
		{sym: "E", symbols: []string{"(", "id"}},
		{sym: "E'", symbols: []string{"+"}, empty: true},
		{sym: "T", symbols: []string{"(", "id"}},
		{sym: "T'", symbols: []string{"*"}, empty: true},
		{sym: "F", symbols: []string{"(", "id"}},
	}
	for _, tt := range tests {
		e := fst.findBySymbol(genSym(tt.sym))
		if e == nil {
			t.Fatalf("FIRST(%v) was not found", tt.sym)
		}
		testSymbolSet(t, g, e.symbols, tt.symbols)
		if e.empty != tt.empty {
			t.Fatalf("ε ∈ FIRST(%v) is mismatched; want: %v, got: %v", tt.sym, tt.empty, e.empty)
		}
	}
}

func TestGenFirst_Idempotent(t *testing.T) {
	g := genGrammar(t, exprTerms, exprRules...)
	fst, err := genFirstSet(g.productionSet, g.symbolTable.NonTerminalSymbols())
	if err != nil {
		t.Fatal(err)
	}
	sizes := map[string]int{}
	for sym, e := range fst.set {
		sizes[sym.String()] = e.size()
	}

	changed, err := fst.pass(g.productionSet)
	if err != nil {
		t.Fatal(err)
	}
	if changed {
		t.Fatal("one more pass over converged FIRST sets must not change them")
	}
	for sym, e := range fst.set {
		if e.size() != sizes[sym.String()] {
			t.Fatalf("FIRST(%v) grew after convergence", sym)
		}
	}
}
