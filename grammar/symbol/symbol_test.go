package symbol

import "testing"

func TestSymbol(t *testing.T) {
	tab := NewSymbolTable()
	w := tab.Writer()
	_, _ = w.RegisterNonTerminalSymbol("expr")
	_, _ = w.RegisterNonTerminalSymbol("term")
	_, _ = w.RegisterNonTerminalSymbol("factor")
	_, _ = w.RegisterTerminalSymbol("id")
	_, _ = w.RegisterTerminalSymbol("add")
	_, _ = w.RegisterTerminalSymbol("mul")
	_, _ = w.RegisterTerminalSymbol("l_paren")
	_, _ = w.RegisterTerminalSymbol("r_paren")

	nonTermTexts := []string{
		"expr",
		"term",
		"factor",
	}

	termTexts := []string{
		SymbolNameEOF,
		"id",
		"add",
		"mul",
		"l_paren",
		"r_paren",
	}

	tests := []struct {
		text string
		kind SymbolKind
		num  int
	}{
		{text: "expr", kind: KindNonTerminal, num: 0},
		{text: "term", kind: KindNonTerminal, num: 1},
		{text: "factor", kind: KindNonTerminal, num: 2},
		{text: SymbolNameEOF, kind: KindTerminal, num: 0},
		{text: "id", kind: KindTerminal, num: 1},
		{text: "add", kind: KindTerminal, num: 2},
		{text: "mul", kind: KindTerminal, num: 3},
		{text: "l_paren", kind: KindTerminal, num: 4},
		{text: "r_paren", kind: KindTerminal, num: 5},
		{text: SymbolNameEmpty, kind: KindEmpty, num: 0},
	}
	r := tab.Reader()
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			sym, ok := r.ToSymbol(tt.text)
			if !ok {
				t.Fatalf("symbol was not found")
			}
			if sym.Kind() != tt.kind {
				t.Fatalf("unexpected kind; want: %v, got: %v", tt.kind, sym.Kind())
			}
			if sym.Num().Int() != tt.num {
				t.Fatalf("unexpected number; want: %v, got: %v", tt.num, sym.Num())
			}
			text, ok := r.ToText(sym)
			if !ok {
				t.Fatalf("text was not found")
			}
			if text != tt.text {
				t.Fatalf("unexpected text representation; want: %v, got: %v", tt.text, text)
			}
		})
	}

	t.Run("texts of non-terminal symbols", func(t *testing.T) {
		texts := r.NonTerminalTexts()
		if len(texts) != len(nonTermTexts) {
			t.Fatalf("unexpected length; want: %v, got: %v", len(nonTermTexts), len(texts))
		}
		for i, text := range texts {
			if text != nonTermTexts[i] {
				t.Fatalf("unexpected text; want: %q, got: %q", nonTermTexts[i], text)
			}
		}
	})

	t.Run("texts of terminal symbols", func(t *testing.T) {
		texts := r.TerminalTexts()
		if len(texts) != len(termTexts) {
			t.Fatalf("unexpected length; want: %v, got: %v", len(termTexts), len(texts))
		}
		for i, text := range texts {
			if text != termTexts[i] {
				t.Fatalf("unexpected text; want: %q, got: %q", termTexts[i], text)
			}
		}
		syms := r.TerminalSymbols()
		if len(syms) != len(termTexts) || syms[0] != SymbolEOF {
			t.Fatalf("unexpected terminal symbols: %v", syms)
		}
	})
}

func TestSymbolTable_KindClash(t *testing.T) {
	w := NewSymbolTable().Writer()
	if _, err := w.RegisterTerminalSymbol("a"); err != nil {
		t.Fatal(err)
	}
	if _, err := w.RegisterNonTerminalSymbol("a"); err == nil {
		t.Fatal("a terminal name must not be registered as a non-terminal")
	}
	if _, err := w.RegisterNonTerminalSymbol(SymbolNameEmpty); err == nil {
		t.Fatal("the empty symbol must not be registered as a non-terminal")
	}
	if _, err := w.RegisterTerminalSymbol(SymbolNameEOF); err != nil {
		t.Fatalf("registering EOF as a terminal must be a no-op: %v", err)
	}
}

func TestSymbol_Nil(t *testing.T) {
	if SymbolNil.Kind() != KindNil || !SymbolNil.IsNil() {
		t.Fatalf("unexpected nil symbol: %v", SymbolNil.Kind())
	}
	if SymbolEOF.IsNil() || SymbolEmpty.IsNil() {
		t.Fatal("EOF and empty symbols must not be nil")
	}
	if SymbolEmpty.IsTerminal() || SymbolEmpty.IsNonTerminal() {
		t.Fatal("the empty symbol is neither a terminal nor a non-terminal")
	}
}
