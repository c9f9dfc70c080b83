package grammar

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/recipelang/ladle/grammar/symbol"
	"golang.org/x/exp/ebnf"
)

type ebnfConfig struct {
	termDefs    map[string]string
	lexicalDefs map[string]string
}

type EBNFOption func(config *ebnfConfig)

// WithTerminalDefinition renders the terminal term as the EBNF expression expr. A terminal
// without a definition is rendered as a literal of its own name.
func WithTerminalDefinition(term, expr string) EBNFOption {
	return func(config *ebnfConfig) {
		config.termDefs[term] = expr
	}
}

// WithLexicalProduction appends a helper production such as `digit = "0" … "9" .`.
func WithLexicalProduction(name, expr string) EBNFOption {
	return func(config *ebnfConfig) {
		config.lexicalDefs[name] = expr
	}
}

// EBNF renders the grammar in the notation of golang.org/x/exp/ebnf and verifies the result
// with ebnf.Verify. Alternatives of a non-terminal are joined by |, and an empty alternative
// turns the rest into an option.
func (g *Grammar) EBNF(opts ...EBNFOption) (string, error) {
	config := &ebnfConfig{
		termDefs:    map[string]string{},
		lexicalDefs: map[string]string{},
	}
	for _, opt := range opts {
		opt(config)
	}

	var b strings.Builder
	usedTerms := map[symbol.Symbol]bool{}
	for _, nonTerm := range g.symbolTable.NonTerminalSymbols() {
		name, _ := g.symbolTable.ToText(nonTerm)
		if !isEBNFIdentifier(name) {
			return "", fmt.Errorf("%v cannot be used as an EBNF production name", name)
		}
		prods, ok := g.productionSet.findByLHS(nonTerm)
		if !ok {
			continue
		}
		nullable := false
		var alts []string
		for _, prod := range prods {
			if prod.isEmpty() {
				nullable = true
				continue
			}
			seq := make([]string, len(prod.rhs))
			for i, sym := range prod.rhs {
				text, _ := g.symbolTable.ToText(sym)
				if !isEBNFIdentifier(text) {
					return "", fmt.Errorf("%v cannot be used as an EBNF production name", text)
				}
				seq[i] = text
				if sym.IsTerminal() {
					usedTerms[sym] = true
				}
			}
			alts = append(alts, strings.Join(seq, " "))
		}
		expr := strings.Join(alts, " | ")
		if nullable && expr != "" {
			expr = "[ " + expr + " ]"
		}
		if expr == "" {
			fmt.Fprintf(&b, "%v = .\n", name)
		} else {
			fmt.Fprintf(&b, "%v = %v .\n", name, expr)
		}
	}

	b.WriteString("\n")
	for _, term := range g.symbolTable.TerminalSymbols() {
		if !usedTerms[term] {
			continue
		}
		name, _ := g.symbolTable.ToText(term)
		expr, ok := config.termDefs[name]
		if !ok {
			expr = strconv.Quote(name)
		}
		fmt.Fprintf(&b, "%v = %v .\n", name, expr)
	}

	if len(config.lexicalDefs) > 0 {
		names := make([]string, 0, len(config.lexicalDefs))
		for name := range config.lexicalDefs {
			names = append(names, name)
		}
		sort.Strings(names)
		b.WriteString("\n")
		for _, name := range names {
			fmt.Fprintf(&b, "%v = %v .\n", name, config.lexicalDefs[name])
		}
	}

	src := b.String()
	parsed, err := ebnf.Parse(g.name+".ebnf", strings.NewReader(src))
	if err != nil {
		return "", fmt.Errorf("rendered EBNF does not parse: %w", err)
	}
	if err := ebnf.Verify(parsed, g.StartSymbol()); err != nil {
		return "", fmt.Errorf("rendered EBNF is inconsistent: %w", err)
	}
	return src, nil
}

func isEBNFIdentifier(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		if r == '_' || unicode.IsLetter(r) {
			continue
		}
		if i > 0 && unicode.IsDigit(r) {
			continue
		}
		return false
	}
	return true
}
