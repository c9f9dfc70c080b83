package grammar

import (
	"strings"
	"testing"

	"github.com/recipelang/ladle/grammar/symbol"
)

// genGrammar builds a grammar from rules written as "A -> b C". A rule whose body is empty or
// ε declares an empty production. terms lists the terminals separated by spaces.
func genGrammar(t *testing.T, terms string, rules ...string) *Grammar {
	t.Helper()

	g, err := genGrammarBuilder(t, terms, rules...).Build()
	if err != nil {
		t.Fatalf("failed to build a grammar: %v", err)
	}
	return g
}

func genGrammarBuilder(t *testing.T, terms string, rules ...string) *GrammarBuilder {
	t.Helper()

	b := NewGrammarBuilder("test")
	b.Terminals(strings.Fields(terms)...)
	for _, r := range rules {
		lhs, rhs, ok := strings.Cut(r, "->")
		if !ok {
			t.Fatalf("a rule must contain '->': %v", r)
		}
		b.Rule(strings.TrimSpace(lhs), strings.Fields(rhs)...)
	}
	return b
}

var exprRules = []string{
	"E -> T E'",
	"E' -> + T E'",
	"E' -> ε",
	"T -> F T'",
	"T' -> * F T'",
	"T' ->",
	"F -> ( E )",
	"F -> id",
}

const exprTerms = "+ * ( ) id"

type testSymbolGenerator func(text string) symbol.Symbol

func newTestSymbolGenerator(t *testing.T, symTab *symbol.SymbolTableReader) testSymbolGenerator {
	return func(text string) symbol.Symbol {
		t.Helper()

		sym, ok := symTab.ToSymbol(text)
		if !ok {
			t.Fatalf("symbol was not found: %v", text)
		}
		return sym
	}
}

type testProductionGenerator func(lhs string, rhs ...string) *production

func newTestProductionGenerator(t *testing.T, genSym testSymbolGenerator) testProductionGenerator {
	return func(lhs string, rhs ...string) *production {
		t.Helper()

		rhsSym := []symbol.Symbol{}
		for _, text := range rhs {
			rhsSym = append(rhsSym, genSym(text))
		}
		prod, err := newProduction(genSym(lhs), rhsSym)
		if err != nil {
			t.Fatalf("failed to create a production: %v", err)
		}

		return prod
	}
}

// findProduction returns the production of the grammar equal to lhs → rhs.
func findProduction(t *testing.T, g *Grammar, lhs string, rhs ...string) *production {
	t.Helper()

	genProd := newTestProductionGenerator(t, newTestSymbolGenerator(t, g.symbolTable))
	prod, ok := g.productionSet.findByID(genProd(lhs, rhs...).id)
	if !ok {
		t.Fatalf("production was not found: %v → %v", lhs, rhs)
	}
	return prod
}

func symbolTexts(t *testing.T, g *Grammar, syms map[symbol.Symbol]struct{}) map[string]struct{} {
	t.Helper()

	texts := map[string]struct{}{}
	for sym := range syms {
		text, ok := g.symbolTable.ToText(sym)
		if !ok {
			t.Fatalf("symbol was not found: %v", sym)
		}
		texts[text] = struct{}{}
	}
	return texts
}

func testSymbolSet(t *testing.T, g *Grammar, actual map[symbol.Symbol]struct{}, expected []string) {
	t.Helper()

	texts := symbolTexts(t, g, actual)
	if len(texts) != len(expected) {
		t.Fatalf("unexpected symbol set; want: %v, got: %v", expected, texts)
	}
	for _, e := range expected {
		if _, ok := texts[e]; !ok {
			t.Fatalf("%v was not found; want: %v, got: %v", e, expected, texts)
		}
	}
}
