package driver

import (
	"fmt"

	spec "github.com/recipelang/ladle/spec/grammar"
)

// Grammar is a read-only view of a compiled grammar for parsers.
type Grammar struct {
	g        *spec.CompiledGrammar
	term2Num map[string]int
}

func NewGrammar(g *spec.CompiledGrammar) (*Grammar, error) {
	if g == nil || g.Syntactic == nil {
		return nil, fmt.Errorf("a compiled grammar has no syntactic specification")
	}
	term2Num := make(map[string]int, len(g.Syntactic.Terminals))
	for i, t := range g.Syntactic.Terminals {
		term2Num[t] = i
	}
	return &Grammar{
		g:        g,
		term2Num: term2Num,
	}, nil
}

func (g *Grammar) Name() string {
	return g.g.Name
}

func (g *Grammar) StartSymbol() int {
	return g.g.Syntactic.StartSymbol
}

func (g *Grammar) EOF() int {
	return g.g.Syntactic.EOFSymbol
}

func (g *Grammar) TerminalCount() int {
	return g.g.Syntactic.TerminalCount
}

func (g *Grammar) Terminal(terminal int) string {
	return g.g.Syntactic.Terminals[terminal]
}

func (g *Grammar) NonTerminal(nonTerminal int) string {
	return g.g.Syntactic.NonTerminals[nonTerminal]
}

// TerminalNum resolves a terminal name produced by a TerminalMapper.
func (g *Grammar) TerminalNum(name string) (int, bool) {
	num, ok := g.term2Num[name]
	return num, ok
}

// Production returns the production number of the cell (nonTerminal, terminal), or 0.
func (g *Grammar) Production(nonTerminal int, terminal int) int {
	syn := g.g.Syntactic
	if syn.UncompressedTable != nil {
		return syn.UncompressedTable[nonTerminal*syn.TerminalCount+terminal]
	}
	tab := syn.Table
	rowNum := tab.RowNums[nonTerminal]
	if tab.UncompressedUniqueEntries != nil {
		return tab.UncompressedUniqueEntries[rowNum*tab.OriginalColCount+terminal]
	}
	rd := tab.UniqueEntries
	d := rd.RowDisplacement[rowNum]
	if d+terminal >= len(rd.Bounds) || rd.Bounds[d+terminal] != rowNum {
		return rd.EmptyValue
	}
	return rd.Entries[d+terminal]
}

func (g *Grammar) LHS(prod int) int {
	return g.g.Syntactic.LHSSymbols[prod]
}

// RHS returns the encoded body of a production. An empty production has the body [0].
func (g *Grammar) RHS(prod int) []int {
	return g.g.Syntactic.RHSSymbols[prod]
}

// AlternativeSymbolCount returns the number of symbols in the body of a production. It is 0
// for an empty production.
func (g *Grammar) AlternativeSymbolCount(prod int) int {
	return g.g.Syntactic.AlternativeSymbols[prod]
}

func (g *Grammar) symbolText(v int) string {
	num, isTerm, isEmpty := spec.DecodeSymbol(v)
	switch {
	case isEmpty:
		return "ε"
	case isTerm:
		return g.Terminal(num)
	default:
		return g.NonTerminal(num)
	}
}

// ProductionText renders a production as "head -> sym sym".
func (g *Grammar) ProductionText(prod int) string {
	text := g.NonTerminal(g.LHS(prod)) + " ->"
	for _, v := range g.RHS(prod) {
		text += " " + g.symbolText(v)
	}
	return text
}
