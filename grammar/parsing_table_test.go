package grammar

import (
	"testing"
)

type tableCell struct {
	nonTerminal string
	terminal    string
	lhs         string
	rhs         []string
}

func TestGenParsingTable(t *testing.T) {
	g := genGrammar(t, exprTerms, exprRules...)
	a, err := analyze(g)
	if err != nil {
		t.Fatal(err)
	}
	if len(a.conflicts) > 0 {
		t.Fatalf("an LL(1) grammar must not have conflicts: %v", a.conflicts)
	}

	cells := []tableCell{
		{nonTerminal: "E", terminal: "(", lhs: "E", rhs: []string{"T", "E'"}},
		{nonTerminal: "E", terminal: "id", lhs: "E", rhs: []string{"T", "E'"}},
		{nonTerminal: "E'", terminal: "+", lhs: "E'", rhs: []string{"+", "T", "E'"}},
		{nonTerminal: "E'", terminal: ")", lhs: "E'", rhs: []string{"ε"}},
		{nonTerminal: "E'", terminal: "$", lhs: "E'", rhs: []string{"ε"}},
		{nonTerminal: "T", terminal: "(", lhs: "T", rhs: []string{"F", "T'"}},
		{nonTerminal: "T", terminal: "id", lhs: "T", rhs: []string{"F", "T'"}},
		{nonTerminal: "T'", terminal: "+", lhs: "T'", rhs: []string{"ε"}},
		{nonTerminal: "T'", terminal: "*", lhs: "T'", rhs: []string{"*", "F", "T'"}},
		{nonTerminal: "T'", terminal: ")", lhs: "T'", rhs: []string{"ε"}},
		{nonTerminal: "T'", terminal: "$", lhs: "T'", rhs: []string{"ε"}},
		{nonTerminal: "F", terminal: "(", lhs: "F", rhs: []string{"(", "E", ")"}},
		{nonTerminal: "F", terminal: "id", lhs: "F", rhs: []string{"id"}},
	}

	genSym := newTestSymbolGenerator(t, g.symbolTable)
	filled := 0
	for _, cell := range cells {
		num, ok := a.table.lookup(genSym(cell.nonTerminal), genSym(cell.terminal))
		if !ok {
			t.Fatalf("cell (%v, %v) is empty", cell.nonTerminal, cell.terminal)
		}
		expected := findProduction(t, g, cell.lhs, cell.rhs...)
		if num != expected.num {
			t.Fatalf("unexpected production at (%v, %v); want: %v, got: %v", cell.nonTerminal, cell.terminal, expected.num, num)
		}
		filled++
	}

	count := 0
	for _, e := range a.table.entries {
		if !e.isEmpty() {
			count++
		}
	}
	if count != filled {
		t.Fatalf("unexpected number of filled cells; want: %v, got: %v", filled, count)
	}

	if _, ok := a.table.lookup(genSym("F"), genSym("+")); ok {
		t.Fatal("cell (F, +) must be empty")
	}
}

func TestGenParsingTable_FirstWriterWins(t *testing.T) {
	tests := []struct {
		caption   string
		terms     string
		rules     []string
		cell      tableCell
		conflicts int
	}{
		{
			caption: "two alternatives share a leading terminal",
			terms:   "a b c",
			rules: []string{
				"S -> a b",
				"S -> a c",
			},
			cell:      tableCell{nonTerminal: "S", terminal: "a", lhs: "S", rhs: []string{"a", "b"}},
			conflicts: 1,
		},
		{
			caption: "dangling else",
			terms:   "if then else x",
			rules: []string{
				"S -> if x then S Else",
				"S -> x",
				"Else -> else S",
				"Else ->",
			},
			cell:      tableCell{nonTerminal: "Else", terminal: "else", lhs: "Else", rhs: []string{"else", "S"}},
			conflicts: 1,
		},
		{
			caption: "the later declared production loses even when it is empty",
			terms:   "a",
			rules: []string{
				"S -> A a",
				"A -> a",
				"A ->",
			},
			cell:      tableCell{nonTerminal: "A", terminal: "a", lhs: "A", rhs: []string{"a"}},
			conflicts: 1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			g := genGrammar(t, tt.terms, tt.rules...)
			a, err := analyze(g)
			if err != nil {
				t.Fatal(err)
			}
			if len(a.conflicts) != tt.conflicts {
				t.Fatalf("unexpected number of conflicts; want: %v, got: %v", tt.conflicts, len(a.conflicts))
			}
			genSym := newTestSymbolGenerator(t, g.symbolTable)
			num, ok := a.table.lookup(genSym(tt.cell.nonTerminal), genSym(tt.cell.terminal))
			if !ok {
				t.Fatalf("cell (%v, %v) is empty", tt.cell.nonTerminal, tt.cell.terminal)
			}
			expected := findProduction(t, g, tt.cell.lhs, tt.cell.rhs...)
			if num != expected.num {
				t.Fatalf("the earlier production must win; want: %v, got: %v", expected.num, num)
			}
			c := a.conflicts[0]
			if c.adopted != expected.num || c.dropped <= c.adopted {
				t.Fatalf("unexpected conflict record: %+v", c)
			}
		})
	}
}
