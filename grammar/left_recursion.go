package grammar

import (
	"fmt"
	"strings"

	"github.com/recipelang/ladle/grammar/symbol"
)

// leftCorners maps each non-terminal to the non-terminals that can begin one of its
// derivations. A body contributes its leading non-terminals up to and including the first
// one that cannot derive ε; a terminal ends the scan.
func leftCorners(prods *productionSet, first *firstSet) map[symbol.Symbol][]symbol.Symbol {
	corners := map[symbol.Symbol][]symbol.Symbol{}
	for _, prod := range prods.getAllProductions() {
		if prod.isEmpty() {
			continue
		}
		for _, sym := range prod.rhs {
			if !sym.IsNonTerminal() {
				break
			}
			corners[prod.lhs] = append(corners[prod.lhs], sym)
			e := first.findBySymbol(sym)
			if e == nil || !e.empty {
				break
			}
		}
	}
	return corners
}

// findLeftRecursion returns a cycle A → … → A of left corners, or nil when no non-terminal
// derives a sentential form beginning with itself.
func findLeftRecursion(prods *productionSet, first *firstSet, nonTerms []symbol.Symbol) []symbol.Symbol {
	corners := leftCorners(prods, first)

	const (
		unvisited = iota
		onPath
		done
	)
	state := map[symbol.Symbol]int{}
	var path []symbol.Symbol

	var visit func(sym symbol.Symbol) []symbol.Symbol
	visit = func(sym symbol.Symbol) []symbol.Symbol {
		state[sym] = onPath
		path = append(path, sym)
		for _, next := range corners[sym] {
			switch state[next] {
			case onPath:
				for i, s := range path {
					if s == next {
						return append(append([]symbol.Symbol(nil), path[i:]...), next)
					}
				}
			case unvisited:
				if cycle := visit(next); cycle != nil {
					return cycle
				}
			}
		}
		path = path[:len(path)-1]
		state[sym] = done
		return nil
	}

	for _, nonTerm := range nonTerms {
		if state[nonTerm] != unvisited {
			continue
		}
		if cycle := visit(nonTerm); cycle != nil {
			return cycle
		}
	}
	return nil
}

// checkLeftRecursion rejects a left-recursive grammar. The LL(1) driver would otherwise expand
// the cycle forever without consuming input.
func checkLeftRecursion(gram *Grammar, first *firstSet) error {
	cycle := findLeftRecursion(gram.productionSet, first, gram.symbolTable.NonTerminalSymbols())
	if cycle == nil {
		return nil
	}
	texts := make([]string, len(cycle))
	for i, sym := range cycle {
		texts[i], _ = gram.symbolTable.ToText(sym)
	}
	return fmt.Errorf("%w: %v", semErrLeftRecursion, strings.Join(texts, " → "))
}
