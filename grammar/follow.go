package grammar

import (
	"fmt"

	"github.com/recipelang/ladle/grammar/symbol"
)

// followEntry contains terminals only. The end marker $ is stored like any other terminal.
type followEntry struct {
	symbols map[symbol.Symbol]struct{}
}

func newFollowEntry() *followEntry {
	return &followEntry{
		symbols: map[symbol.Symbol]struct{}{},
	}
}

func (e *followEntry) add(sym symbol.Symbol) bool {
	if _, ok := e.symbols[sym]; ok {
		return false
	}
	e.symbols[sym] = struct{}{}
	return true
}

func (e *followEntry) addEOF() bool {
	return e.add(symbol.SymbolEOF)
}

func (e *followEntry) contains(sym symbol.Symbol) bool {
	_, ok := e.symbols[sym]
	return ok
}

func (e *followEntry) merge(fst *firstEntry, flw *followEntry) bool {
	changed := false

	if fst != nil {
		for sym := range fst.symbols {
			added := e.add(sym)
			if added {
				changed = true
			}
		}
	}

	if flw != nil {
		for sym := range flw.symbols {
			added := e.add(sym)
			if added {
				changed = true
			}
		}
	}

	return changed
}

type followSet struct {
	set map[symbol.Symbol]*followEntry
}

func newFollow(nonTerms []symbol.Symbol) *followSet {
	flw := &followSet{
		set: map[symbol.Symbol]*followEntry{},
	}
	for _, sym := range nonTerms {
		flw.set[sym] = newFollowEntry()
	}
	return flw
}

func (flw *followSet) find(sym symbol.Symbol) (*followEntry, error) {
	e, ok := flw.set[sym]
	if !ok {
		return nil, fmt.Errorf("an entry of FOLLOW was not found; symbol: %s", sym)
	}
	return e, nil
}

type followComContext struct {
	prods  *productionSet
	first  *firstSet
	follow *followSet
}

// pass walks every occurrence of a non-terminal in every body once and reports whether any
// entry grew.
func (cc *followComContext) pass() (bool, error) {
	more := false
	for _, prod := range cc.prods.getAllProductions() {
		for i, sym := range prod.rhs {
			if !sym.IsNonTerminal() {
				continue
			}
			changed, err := cc.genFollowEntry(prod, i, sym)
			if err != nil {
				return false, err
			}
			if changed {
				more = true
			}
		}
	}
	return more, nil
}

func (cc *followComContext) genFollowEntry(prod *production, pos int, ntsym symbol.Symbol) (bool, error) {
	acc, err := cc.follow.find(ntsym)
	if err != nil {
		return false, err
	}
	fst, err := cc.first.find(prod, pos+1)
	if err != nil {
		return false, err
	}
	changed := acc.merge(fst, nil)
	if fst.empty {
		flw, err := cc.follow.find(prod.lhs)
		if err != nil {
			return false, err
		}
		if acc.merge(nil, flw) {
			changed = true
		}
	}
	return changed, nil
}

func genFollowSet(prods *productionSet, first *firstSet, nonTerms []symbol.Symbol, start symbol.Symbol) (*followSet, error) {
	if first == nil {
		return nil, fmt.Errorf("FOLLOW needs a converged FIRST set")
	}

	cc := &followComContext{
		prods:  prods,
		first:  first,
		follow: newFollow(nonTerms),
	}
	startEntry, err := cc.follow.find(start)
	if err != nil {
		return nil, err
	}
	startEntry.addEOF()

	passes := 0
	for {
		passes++
		more, err := cc.pass()
		if err != nil {
			return nil, err
		}
		if !more {
			break
		}
	}
	tracer().Debugf("FOLLOW converged after %d passes", passes)

	return cc.follow, nil
}
