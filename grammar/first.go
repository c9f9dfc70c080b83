package grammar

import (
	"fmt"

	"github.com/recipelang/ladle/grammar/symbol"
)

type firstEntry struct {
	symbols map[symbol.Symbol]struct{}
	empty   bool
}

func newFirstEntry() *firstEntry {
	return &firstEntry{
		symbols: map[symbol.Symbol]struct{}{},
		empty:   false,
	}
}

func (e *firstEntry) add(sym symbol.Symbol) bool {
	if _, ok := e.symbols[sym]; ok {
		return false
	}
	e.symbols[sym] = struct{}{}
	return true
}

func (e *firstEntry) addEmpty() bool {
	if !e.empty {
		e.empty = true
		return true
	}
	return false
}

func (e *firstEntry) mergeExceptEmpty(target *firstEntry) bool {
	if target == nil {
		return false
	}
	changed := false
	for sym := range target.symbols {
		added := e.add(sym)
		if added {
			changed = true
		}
	}
	return changed
}

func (e *firstEntry) contains(sym symbol.Symbol) bool {
	if sym.IsEmpty() {
		return e.empty
	}
	_, ok := e.symbols[sym]
	return ok
}

func (e *firstEntry) size() int {
	n := len(e.symbols)
	if e.empty {
		n++
	}
	return n
}

// firstSet holds FIRST of every non-terminal. FIRST of a terminal t is {t} and FIRST of ε
// is {ε}; neither is stored.
type firstSet struct {
	set map[symbol.Symbol]*firstEntry
}

func newFirstSet(nonTerms []symbol.Symbol) *firstSet {
	fst := &firstSet{
		set: map[symbol.Symbol]*firstEntry{},
	}
	for _, sym := range nonTerms {
		fst.set[sym] = newFirstEntry()
	}
	return fst
}

// find returns FIRST of the body suffix of prod starting at head.
func (fst *firstSet) find(prod *production, head int) (*firstEntry, error) {
	if prod.rhsLen <= head {
		entry := newFirstEntry()
		entry.addEmpty()
		return entry, nil
	}
	return fst.findBySequence(prod.rhs[head:])
}

func (fst *firstSet) findBySequence(syms []symbol.Symbol) (*firstEntry, error) {
	entry := newFirstEntry()
	for _, sym := range syms {
		switch sym.Kind() {
		case symbol.KindTerminal:
			entry.add(sym)
			return entry, nil
		case symbol.KindEmpty:
			continue
		case symbol.KindNonTerminal:
			e := fst.findBySymbol(sym)
			if e == nil {
				return nil, fmt.Errorf("an entry of FIRST was not found; symbol: %s", sym)
			}
			entry.mergeExceptEmpty(e)
			if !e.empty {
				return entry, nil
			}
		default:
			return nil, fmt.Errorf("a nil symbol cannot appear in a body")
		}
	}
	entry.addEmpty()
	return entry, nil
}

func (fst *firstSet) findBySymbol(sym symbol.Symbol) *firstEntry {
	return fst.set[sym]
}

// pass applies the closure rules to every production once, in declaration order, and
// reports whether any entry grew.
func (fst *firstSet) pass(prods *productionSet) (bool, error) {
	more := false
	for _, prod := range prods.getAllProductions() {
		e := fst.findBySymbol(prod.lhs)
		if e == nil {
			return false, fmt.Errorf("an entry of FIRST was not found; symbol: %s", prod.lhs)
		}
		changed, err := fst.genProdFirstEntry(e, prod)
		if err != nil {
			return false, err
		}
		if changed {
			more = true
		}
	}
	return more, nil
}

func genFirstSet(prods *productionSet, nonTerms []symbol.Symbol) (*firstSet, error) {
	fst := newFirstSet(nonTerms)
	passes := 0
	for {
		passes++
		more, err := fst.pass(prods)
		if err != nil {
			return nil, err
		}
		if !more {
			break
		}
	}
	tracer().Debugf("FIRST converged after %d passes", passes)
	return fst, nil
}

func (fst *firstSet) genProdFirstEntry(acc *firstEntry, prod *production) (bool, error) {
	if prod.isEmpty() {
		return acc.addEmpty(), nil
	}

	changed := false
	for _, sym := range prod.rhs {
		if sym.IsTerminal() {
			return acc.add(sym) || changed, nil
		}

		e := fst.findBySymbol(sym)
		if e == nil {
			return false, fmt.Errorf("an entry of FIRST was not found; symbol: %s", sym)
		}
		if acc.mergeExceptEmpty(e) {
			changed = true
		}
		if !e.empty {
			return changed, nil
		}
	}
	return acc.addEmpty() || changed, nil
}
