package grammar

import (
	"fmt"
	"sort"

	"github.com/recipelang/ladle/grammar/symbol"
)

type tableEntry int

const tableEntryEmpty = tableEntry(0)

func newTableEntry(prod productionNum) tableEntry {
	return tableEntry(prod)
}

func (e tableEntry) isEmpty() bool {
	return e == tableEntryEmpty
}

func (e tableEntry) production() productionNum {
	return productionNum(e)
}

// conflict records a production that lost a cell to an earlier one.
type conflict struct {
	nonTerminal symbol.Symbol
	terminal    symbol.Symbol
	adopted     productionNum
	dropped     productionNum
}

// ParsingTable is the predictive table: rows are non-terminals and columns are terminals,
// both indexed by symbol number.
type ParsingTable struct {
	entries          []tableEntry
	terminalCount    int
	nonTerminalCount int
}

func (t *ParsingTable) read(nonTerm symbol.Symbol, term symbol.Symbol) tableEntry {
	return t.entries[nonTerm.Num().Int()*t.terminalCount+term.Num().Int()]
}

func (t *ParsingTable) write(nonTerm symbol.Symbol, term symbol.Symbol, e tableEntry) {
	t.entries[nonTerm.Num().Int()*t.terminalCount+term.Num().Int()] = e
}

// lookup returns the production number stored for (nonTerm, term), or false when the cell
// is empty.
func (t *ParsingTable) lookup(nonTerm symbol.Symbol, term symbol.Symbol) (productionNum, bool) {
	if !nonTerm.IsNonTerminal() || !term.IsTerminal() {
		return productionNumNil, false
	}
	if nonTerm.Num().Int() >= t.nonTerminalCount || term.Num().Int() >= t.terminalCount {
		return productionNumNil, false
	}
	e := t.read(nonTerm, term)
	if e.isEmpty() {
		return productionNumNil, false
	}
	return e.production(), true
}

type ll1TableBuilder struct {
	prods        *productionSet
	first        *firstSet
	follow       *followSet
	termCount    int
	nonTermCount int

	conflicts []*conflict
}

func (b *ll1TableBuilder) build() (*ParsingTable, error) {
	ptab := &ParsingTable{
		entries:          make([]tableEntry, b.nonTermCount*b.termCount),
		terminalCount:    b.termCount,
		nonTerminalCount: b.nonTermCount,
	}

	for _, prod := range b.prods.getAllProductions() {
		fst, err := b.first.find(prod, 0)
		if err != nil {
			return nil, err
		}
		for _, term := range sortSymbols(fst.symbols) {
			b.writeEntry(ptab, prod, term)
		}
		if !fst.empty {
			continue
		}
		flw, err := b.follow.find(prod.lhs)
		if err != nil {
			return nil, err
		}
		for _, term := range sortSymbols(flw.symbols) {
			b.writeEntry(ptab, prod, term)
		}
	}

	return ptab, nil
}

// writeEntry keeps the production written first. Because productions are visited in
// declaration order, the earlier declared production wins every conflict.
func (b *ll1TableBuilder) writeEntry(tab *ParsingTable, prod *production, term symbol.Symbol) {
	e := tab.read(prod.lhs, term)
	if !e.isEmpty() {
		if e.production() == prod.num {
			return
		}
		b.conflicts = append(b.conflicts, &conflict{
			nonTerminal: prod.lhs,
			terminal:    term,
			adopted:     e.production(),
			dropped:     prod.num,
		})
		return
	}
	tab.write(prod.lhs, term, newTableEntry(prod.num))
}

func genParsingTable(prods *productionSet, first *firstSet, follow *followSet, termCount, nonTermCount int) (*ParsingTable, []*conflict, error) {
	if first == nil || follow == nil {
		return nil, nil, fmt.Errorf("a parsing table needs converged FIRST and FOLLOW sets")
	}
	b := &ll1TableBuilder{
		prods:        prods,
		first:        first,
		follow:       follow,
		termCount:    termCount,
		nonTermCount: nonTermCount,
	}
	tab, err := b.build()
	if err != nil {
		return nil, nil, err
	}
	return tab, b.conflicts, nil
}

func sortSymbols(set map[symbol.Symbol]struct{}) []symbol.Symbol {
	syms := make([]symbol.Symbol, 0, len(set))
	for sym := range set {
		syms = append(syms, sym)
	}
	sort.Slice(syms, func(i, j int) bool {
		return syms[i] < syms[j]
	})
	return syms
}
