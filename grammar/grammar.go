package grammar

import (
	"fmt"

	"github.com/recipelang/ladle/compressor"
	"github.com/recipelang/ladle/grammar/symbol"
	spec "github.com/recipelang/ladle/spec/grammar"
)

// Grammar is immutable once built. A single Grammar may be compiled any number of times.
type Grammar struct {
	name          string
	productionSet *productionSet
	startSymbol   symbol.Symbol
	symbolTable   *symbol.SymbolTableReader
}

func (g *Grammar) Name() string {
	return g.name
}

func (g *Grammar) StartSymbol() string {
	text, _ := g.symbolTable.ToText(g.startSymbol)
	return text
}

func (g *Grammar) Terminals() []string {
	return g.symbolTable.TerminalTexts()
}

func (g *Grammar) NonTerminals() []string {
	return g.symbolTable.NonTerminalTexts()
}

type rule struct {
	lhs string
	rhs []string
}

type GrammarBuilder struct {
	name         string
	terminals    []string
	nonTerminals []string
	start        string
	rules        []*rule
}

func NewGrammarBuilder(name string) *GrammarBuilder {
	return &GrammarBuilder{
		name: name,
	}
}

func (b *GrammarBuilder) Terminals(names ...string) *GrammarBuilder {
	b.terminals = append(b.terminals, names...)
	return b
}

// NonTerminals declares non-terminals up front. Any LHS of a rule is declared implicitly,
// so this is only needed to fix the numbering order.
func (b *GrammarBuilder) NonTerminals(names ...string) *GrammarBuilder {
	b.nonTerminals = append(b.nonTerminals, names...)
	return b
}

// Start sets the start symbol. It defaults to the LHS of the first rule.
func (b *GrammarBuilder) Start(name string) *GrammarBuilder {
	b.start = name
	return b
}

// Rule appends the production lhs → rhs. An empty rhs, or the single symbol ε, declares an
// empty production.
func (b *GrammarBuilder) Rule(lhs string, rhs ...string) *GrammarBuilder {
	b.rules = append(b.rules, &rule{
		lhs: lhs,
		rhs: append([]string{}, rhs...),
	})
	return b
}

func (b *GrammarBuilder) Build() (*Grammar, error) {
	if len(b.rules) == 0 {
		return nil, semErrNoProduction
	}

	symTab := symbol.NewSymbolTable()
	w := symTab.Writer()
	r := symTab.Reader()

	isReserved := func(name string) bool {
		return name == symbol.SymbolNameEOF || name == symbol.SymbolNameEmpty
	}

	for _, name := range b.terminals {
		if isReserved(name) {
			return nil, fmt.Errorf("%w: %v", semErrReservedName, name)
		}
		if _, err := w.RegisterTerminalSymbol(name); err != nil {
			return nil, err
		}
	}

	nonTerms := append([]string{}, b.nonTerminals...)
	for _, rule := range b.rules {
		nonTerms = append(nonTerms, rule.lhs)
	}
	for _, name := range nonTerms {
		if isReserved(name) {
			return nil, fmt.Errorf("%w: %v", semErrReservedName, name)
		}
		if sym, ok := r.ToSymbol(name); ok && sym.IsTerminal() {
			return nil, fmt.Errorf("%w: %v", semErrDuplicateName, name)
		}
		if _, err := w.RegisterNonTerminalSymbol(name); err != nil {
			return nil, err
		}
	}

	startName := b.start
	if startName == "" {
		startName = b.rules[0].lhs
	}
	startSym, ok := r.ToSymbol(startName)
	if !ok {
		return nil, fmt.Errorf("%w: %v", semErrNoStartSymbol, startName)
	}
	if !startSym.IsNonTerminal() {
		return nil, fmt.Errorf("%w: %v", semErrStartNotNonTerminal, startName)
	}

	prods := newProductionSet()
	for _, rule := range b.rules {
		lhs, _ := r.ToSymbol(rule.lhs)
		rhs := make([]symbol.Symbol, 0, len(rule.rhs))
		for _, name := range rule.rhs {
			sym, ok := r.ToSymbol(name)
			if !ok {
				return nil, fmt.Errorf("%w: %v (in a production of %v)", semErrUndefinedSym, name, rule.lhs)
			}
			if sym == symbol.SymbolEOF {
				return nil, fmt.Errorf("%w: %v cannot appear in a body", semErrReservedName, name)
			}
			rhs = append(rhs, sym)
		}
		prod, err := newProduction(lhs, rhs)
		if err != nil {
			return nil, err
		}
		if !prods.append(prod) {
			return nil, fmt.Errorf("%w: %v → %v", semErrDuplicateProduction, rule.lhs, rule.rhs)
		}
	}

	if err := checkProductiveNonTerminals(prods, startSym, r); err != nil {
		return nil, err
	}

	return &Grammar{
		name:          b.name,
		productionSet: prods,
		startSymbol:   startSym,
		symbolTable:   r,
	}, nil
}

// checkProductiveNonTerminals rejects a non-terminal reachable from the start symbol that has
// no production. Unreachable non-terminals are only reported.
func checkProductiveNonTerminals(prods *productionSet, start symbol.Symbol, symTab *symbol.SymbolTableReader) error {
	reachable := map[symbol.Symbol]bool{
		start: true,
	}
	queue := []symbol.Symbol{start}
	for len(queue) > 0 {
		sym := queue[0]
		queue = queue[1:]
		ps, ok := prods.findByLHS(sym)
		if !ok {
			text, _ := symTab.ToText(sym)
			return fmt.Errorf("%w: %v", semErrNonTermNoProduction, text)
		}
		for _, prod := range ps {
			for _, s := range prod.rhs {
				if !s.IsNonTerminal() || reachable[s] {
					continue
				}
				reachable[s] = true
				queue = append(queue, s)
			}
		}
	}
	for _, sym := range symTab.NonTerminalSymbols() {
		if !reachable[sym] {
			text, _ := symTab.ToText(sym)
			tracer().Infof("non-terminal %v is unreachable from the start symbol", text)
		}
	}
	return nil
}

const (
	CompressionLevelNone = 0
	CompressionLevelMin  = 1
	CompressionLevelMax  = 2
)

type compileConfig struct {
	compressionLevel int
}

type CompileOption func(config *compileConfig)

// CompressionLevel selects how the parsing table is stored: 0 keeps the dense table, 1 shares
// identical rows, and 2 additionally overlays the shared rows by row displacement.
func CompressionLevel(lv int) CompileOption {
	return func(config *compileConfig) {
		if lv < CompressionLevelNone {
			lv = CompressionLevelNone
		}
		if lv > CompressionLevelMax {
			lv = CompressionLevelMax
		}
		config.compressionLevel = lv
	}
}

// analysis bundles the intermediate results of a compilation.
type analysis struct {
	gram      *Grammar
	first     *firstSet
	follow    *followSet
	table     *ParsingTable
	conflicts []*conflict
}

func analyze(gram *Grammar) (*analysis, error) {
	nonTerms := gram.symbolTable.NonTerminalSymbols()

	first, err := genFirstSet(gram.productionSet, nonTerms)
	if err != nil {
		return nil, err
	}
	if err := checkLeftRecursion(gram, first); err != nil {
		return nil, err
	}
	follow, err := genFollowSet(gram.productionSet, first, nonTerms, gram.startSymbol)
	if err != nil {
		return nil, err
	}
	tab, conflicts, err := genParsingTable(
		gram.productionSet,
		first,
		follow,
		gram.symbolTable.TerminalCount(),
		gram.symbolTable.NonTerminalCount(),
	)
	if err != nil {
		return nil, err
	}

	return &analysis{
		gram:      gram,
		first:     first,
		follow:    follow,
		table:     tab,
		conflicts: conflicts,
	}, nil
}

func Compile(gram *Grammar, opts ...CompileOption) (*spec.CompiledGrammar, *spec.Report, error) {
	config := &compileConfig{
		compressionLevel: CompressionLevelMax,
	}
	for _, opt := range opts {
		opt(config)
	}

	a, err := analyze(gram)
	if err != nil {
		return nil, nil, err
	}

	report, err := genReport(a)
	if err != nil {
		return nil, nil, err
	}
	for _, c := range report.Conflicts {
		tracer().Infof("warning: LL(1) conflict at (%v, %v); production %v is adopted and production %v is dropped",
			c.NonTerminal, c.Terminal, c.AdoptedProduction, c.DroppedProduction)
	}

	synSpec := &spec.SyntacticSpec{
		StartSymbol:      gram.startSymbol.Num().Int(),
		EOFSymbol:        symbol.SymbolEOF.Num().Int(),
		Terminals:        gram.symbolTable.TerminalTexts(),
		TerminalCount:    a.table.terminalCount,
		NonTerminals:     gram.symbolTable.NonTerminalTexts(),
		NonTerminalCount: a.table.nonTerminalCount,
	}

	entries := make([]int, len(a.table.entries))
	for i, e := range a.table.entries {
		entries[i] = int(e)
	}
	if err := compressTable(synSpec, entries, a.table.terminalCount, config.compressionLevel); err != nil {
		return nil, nil, err
	}

	ps := gram.productionSet.getAllProductions()
	lhsSyms := make([]int, len(ps)+1)
	rhsSyms := make([][]int, len(ps)+1)
	altSymCounts := make([]int, len(ps)+1)
	for _, p := range ps {
		lhsSyms[p.num] = p.lhs.Num().Int()
		rhs := make([]int, p.rhsLen)
		for i, sym := range p.rhs {
			switch sym.Kind() {
			case symbol.KindTerminal:
				rhs[i] = spec.EncodeTerminal(sym.Num().Int())
			case symbol.KindNonTerminal:
				rhs[i] = spec.EncodeNonTerminal(sym.Num().Int())
			}
		}
		rhsSyms[p.num] = rhs
		if !p.isEmpty() {
			altSymCounts[p.num] = p.rhsLen
		}
	}
	synSpec.LHSSymbols = lhsSyms
	synSpec.RHSSymbols = rhsSyms
	synSpec.AlternativeSymbols = altSymCounts

	tracer().Debugf("compiled grammar %v: %v terminals, %v non-terminals, %v productions",
		gram.name, synSpec.TerminalCount, synSpec.NonTerminalCount, len(ps))

	return &spec.CompiledGrammar{
		Name:      gram.name,
		Syntactic: synSpec,
	}, report, nil
}

func compressTable(synSpec *spec.SyntacticSpec, entries []int, colCount int, lv int) error {
	if lv == CompressionLevelNone {
		synSpec.UncompressedTable = entries
		return nil
	}

	orig, err := compressor.NewOriginalTable(entries, colCount)
	if err != nil {
		return err
	}
	ueTab := compressor.NewUniqueEntriesTable()
	if err := ueTab.Compress(orig); err != nil {
		return err
	}
	synSpec.Table = &spec.UniqueEntriesTable{
		RowNums:          ueTab.RowNums,
		OriginalRowCount: ueTab.OriginalRowCount,
		OriginalColCount: ueTab.OriginalColCount,
	}
	if lv == CompressionLevelMin {
		synSpec.Table.UncompressedUniqueEntries = ueTab.UniqueEntries
		return nil
	}

	uniq, err := compressor.NewOriginalTable(ueTab.UniqueEntries, ueTab.OriginalColCount)
	if err != nil {
		return err
	}
	rdTab := compressor.NewRowDisplacementTable(int(tableEntryEmpty))
	if err := rdTab.Compress(uniq); err != nil {
		return err
	}
	synSpec.Table.UniqueEntries = &spec.RowDisplacementTable{
		OriginalRowCount: rdTab.OriginalRowCount,
		OriginalColCount: rdTab.OriginalColCount,
		EmptyValue:       rdTab.EmptyValue,
		Entries:          rdTab.Entries,
		Bounds:           rdTab.Bounds,
		RowDisplacement:  rdTab.RowDisplacement,
	}
	return nil
}
