package grammar

import (
	"fmt"
	"strings"

	"github.com/emirpasic/gods/sets/treeset"
	"github.com/emirpasic/gods/utils"
	"github.com/recipelang/ladle/grammar/symbol"
	spec "github.com/recipelang/ladle/spec/grammar"
)

// memberComparator orders set members by name and puts ε after everything else.
func memberComparator(a, b interface{}) int {
	s1, s2 := a.(string), b.(string)
	switch {
	case s1 == s2:
		return 0
	case s1 == symbol.SymbolNameEmpty:
		return 1
	case s2 == symbol.SymbolNameEmpty:
		return -1
	}
	return utils.StringComparator(s1, s2)
}

func newMemberSet() *treeset.Set {
	return treeset.NewWith(memberComparator)
}

func memberNames(set *treeset.Set) []string {
	names := make([]string, 0, set.Size())
	for _, v := range set.Values() {
		names = append(names, v.(string))
	}
	return names
}

type reportWriter struct {
	symTab *symbol.SymbolTableReader
}

func (rw *reportWriter) symbolToText(sym symbol.Symbol) (string, error) {
	text, ok := rw.symTab.ToText(sym)
	if !ok {
		return "", fmt.Errorf("symbol not found: %v", sym)
	}
	return text, nil
}

func (rw *reportWriter) productionToString(prod *production) (string, error) {
	lhs, err := rw.symbolToText(prod.lhs)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%v ->", lhs)
	for _, sym := range prod.rhs {
		text, err := rw.symbolToText(sym)
		if err != nil {
			return "", err
		}
		fmt.Fprintf(&b, " %v", text)
	}
	return b.String(), nil
}

func (rw *reportWriter) firstView(first *firstSet) ([]*spec.SetEntry, error) {
	var entries []*spec.SetEntry
	for _, sym := range rw.symTab.NonTerminalSymbols() {
		e := first.findBySymbol(sym)
		if e == nil {
			return nil, fmt.Errorf("an entry of FIRST was not found; symbol: %s", sym)
		}
		set := newMemberSet()
		for s := range e.symbols {
			text, err := rw.symbolToText(s)
			if err != nil {
				return nil, err
			}
			set.Add(text)
		}
		if e.empty {
			set.Add(symbol.SymbolNameEmpty)
		}
		name, _ := rw.symTab.ToText(sym)
		entries = append(entries, &spec.SetEntry{
			Symbol:  name,
			Members: memberNames(set),
		})
	}
	for _, sym := range rw.symTab.TerminalSymbols() {
		name, _ := rw.symTab.ToText(sym)
		entries = append(entries, &spec.SetEntry{
			Symbol:  name,
			Members: []string{name},
		})
	}
	entries = append(entries, &spec.SetEntry{
		Symbol:  symbol.SymbolNameEmpty,
		Members: []string{symbol.SymbolNameEmpty},
	})
	return entries, nil
}

func (rw *reportWriter) followView(follow *followSet) ([]*spec.SetEntry, error) {
	var entries []*spec.SetEntry
	for _, sym := range rw.symTab.NonTerminalSymbols() {
		e, err := follow.find(sym)
		if err != nil {
			return nil, err
		}
		set := newMemberSet()
		for s := range e.symbols {
			text, err := rw.symbolToText(s)
			if err != nil {
				return nil, err
			}
			set.Add(text)
		}
		name, _ := rw.symTab.ToText(sym)
		entries = append(entries, &spec.SetEntry{
			Symbol:  name,
			Members: memberNames(set),
		})
	}
	return entries, nil
}

func (rw *reportWriter) tableView(tab *ParsingTable, prods *productionSet) ([]*spec.TableEntry, error) {
	var entries []*spec.TableEntry
	for _, nonTerm := range rw.symTab.NonTerminalSymbols() {
		row := newMemberSet()
		cells := map[string]productionNum{}
		for _, term := range rw.symTab.TerminalSymbols() {
			num, ok := tab.lookup(nonTerm, term)
			if !ok {
				continue
			}
			text, err := rw.symbolToText(term)
			if err != nil {
				return nil, err
			}
			row.Add(text)
			cells[text] = num
		}
		nonTermText, _ := rw.symTab.ToText(nonTerm)
		for _, term := range memberNames(row) {
			prod, ok := prods.findByNum(cells[term])
			if !ok {
				return nil, fmt.Errorf("production not found: %v", cells[term])
			}
			rendering, err := rw.productionToString(prod)
			if err != nil {
				return nil, err
			}
			entries = append(entries, &spec.TableEntry{
				NonTerminal: nonTermText,
				Terminal:    term,
				Production:  prod.num.Int(),
				Rendering:   rendering,
			})
		}
	}
	return entries, nil
}

func genReport(a *analysis) (*spec.Report, error) {
	rw := &reportWriter{
		symTab: a.gram.symbolTable,
	}

	var terms []*spec.Terminal
	for _, sym := range rw.symTab.TerminalSymbols() {
		name, err := rw.symbolToText(sym)
		if err != nil {
			return nil, fmt.Errorf("failed to generate terminals: %w", err)
		}
		terms = append(terms, &spec.Terminal{
			Number: sym.Num().Int(),
			Name:   name,
		})
	}

	var nonTerms []*spec.NonTerminal
	for _, sym := range rw.symTab.NonTerminalSymbols() {
		name, err := rw.symbolToText(sym)
		if err != nil {
			return nil, fmt.Errorf("failed to generate non-terminals: %w", err)
		}
		nonTerms = append(nonTerms, &spec.NonTerminal{
			Number: sym.Num().Int(),
			Name:   name,
		})
	}

	var prods []*spec.Production
	for _, p := range a.gram.productionSet.getAllProductions() {
		lhs, err := rw.symbolToText(p.lhs)
		if err != nil {
			return nil, err
		}
		rhs := make([]string, len(p.rhs))
		for i, sym := range p.rhs {
			rhs[i], err = rw.symbolToText(sym)
			if err != nil {
				return nil, err
			}
		}
		prods = append(prods, &spec.Production{
			Number: p.num.Int(),
			LHS:    lhs,
			RHS:    rhs,
		})
	}

	first, err := rw.firstView(a.first)
	if err != nil {
		return nil, err
	}
	follow, err := rw.followView(a.follow)
	if err != nil {
		return nil, err
	}
	table, err := rw.tableView(a.table, a.gram.productionSet)
	if err != nil {
		return nil, err
	}

	var conflicts []*spec.Conflict
	for _, c := range a.conflicts {
		nonTerm, err := rw.symbolToText(c.nonTerminal)
		if err != nil {
			return nil, err
		}
		term, err := rw.symbolToText(c.terminal)
		if err != nil {
			return nil, err
		}
		conflicts = append(conflicts, &spec.Conflict{
			NonTerminal:       nonTerm,
			Terminal:          term,
			AdoptedProduction: c.adopted.Int(),
			DroppedProduction: c.dropped.Int(),
		})
	}

	return &spec.Report{
		Terminals:    terms,
		NonTerminals: nonTerms,
		Productions:  prods,
		First:        first,
		Follow:       follow,
		Table:        table,
		Conflicts:    conflicts,
	}, nil
}
