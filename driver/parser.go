package driver

import (
	"fmt"
	"sort"

	"github.com/npillmayer/schuko/tracing"

	"github.com/recipelang/ladle/driver/lexer"
	verr "github.com/recipelang/ladle/error"
	spec "github.com/recipelang/ladle/spec/grammar"
)

// tracer traces with key 'ladle.driver'.
func tracer() tracing.Trace {
	return tracing.Select("ladle.driver")
}

type ParserOption func(p *Parser) error

// Trace makes the parser record a Step for every transition.
func Trace() ParserOption {
	return func(p *Parser) error {
		p.trace = true
		return nil
	}
}

// SemanticAction makes the parser notify an action set of every expansion and match.
func SemanticAction(semAct SemanticActionSet) ParserOption {
	return func(p *Parser) error {
		p.semAct = semAct
		return nil
	}
}

// Parser is a predictive parser. It owns its stack and cursor, so a compiled grammar can be
// shared by any number of parsers running at the same time. A parser runs only once.
type Parser struct {
	gram   *Grammar
	stream *tokenStream
	stack  []int
	trace  bool
	steps  []*Step
	semAct SemanticActionSet
}

func NewParser(gram *Grammar, toks []*lexer.Token, mapper TerminalMapper, opts ...ParserOption) (*Parser, error) {
	if mapper == nil {
		return nil, fmt.Errorf("a parser needs a terminal mapper")
	}
	stream, err := newTokenStream(toks, gram, mapper)
	if err != nil {
		return nil, err
	}

	p := &Parser{
		gram:   gram,
		stream: stream,
	}

	for _, opt := range opts {
		err := opt(p)
		if err != nil {
			return nil, err
		}
	}

	return p, nil
}

// Parse returns nil when the tokens form a sentence of the grammar. Otherwise it returns the
// first *error.MappingError or *error.SyntaxError it encounters.
func (p *Parser) Parse() error {
	if p.stack != nil {
		return fmt.Errorf("a parser runs only once")
	}
	p.push(spec.EncodeTerminal(p.gram.EOF()))
	p.push(spec.EncodeNonTerminal(p.gram.StartSymbol()))

	for len(p.stack) > 0 {
		la, err := p.stream.lookahead()
		if err != nil {
			return err
		}

		top := p.top()
		num, isTerm, isEmpty := spec.DecodeSymbol(top)
		switch {
		case isEmpty:
			p.record(ActionEmpty, la, 0)
			p.pop()
		case isTerm:
			if num != la.TerminalID() {
				if num == p.gram.EOF() {
					return p.syntaxError(la, "input not fully consumed", []string{p.gram.Terminal(num)})
				}
				msg := fmt.Sprintf("expected %v, found %v", p.gram.Terminal(num), p.gram.Terminal(la.TerminalID()))
				return p.syntaxError(la, msg, []string{p.gram.Terminal(num)})
			}
			p.record(ActionMatch, la, 0)
			p.pop()
			if p.semAct != nil {
				p.semAct.Match(la)
			}
			p.stream.advance()
		default:
			prod := p.gram.Production(num, la.TerminalID())
			if prod == 0 {
				msg := fmt.Sprintf("no production for (%v, %v)", p.gram.NonTerminal(num), p.gram.Terminal(la.TerminalID()))
				return p.syntaxError(la, msg, p.expectedTerminals(num))
			}
			p.record(ActionExpand, la, prod)
			p.pop()
			if p.semAct != nil {
				p.semAct.Expand(prod)
			}
			rhs := p.gram.RHS(prod)
			for i := len(rhs) - 1; i >= 0; i-- {
				p.push(rhs[i])
			}
		}
	}

	la, err := p.stream.lookahead()
	if err != nil {
		return err
	}
	if !la.EOF() {
		return p.syntaxError(la, "input not fully consumed", []string{p.gram.Terminal(p.gram.EOF())})
	}
	p.record(ActionAccept, la, 0)
	if p.semAct != nil {
		p.semAct.Accept()
	}
	tracer().Debugf("%v: accepted", p.gram.Name())

	return nil
}

// Steps returns the recorded trace. It is empty unless the parser was created with Trace().
func (p *Parser) Steps() []*Step {
	return p.steps
}

func (p *Parser) record(act Action, la *vToken, prod int) {
	if !p.trace {
		return
	}
	stack := make([]string, len(p.stack))
	for i, v := range p.stack {
		stack[i] = p.gram.symbolText(v)
	}
	step := &Step{
		Index:     len(p.steps) + 1,
		Stack:     stack,
		Lookahead: p.lookaheadText(la),
		Action:    act,
	}
	if act == ActionExpand {
		step.Production = p.gram.ProductionText(prod)
	}
	p.steps = append(p.steps, step)
}

func (p *Parser) lookaheadText(la *vToken) string {
	if la.EOF() {
		return p.gram.Terminal(p.gram.EOF())
	}
	return p.gram.Terminal(la.TerminalID()) + ":" + la.Lexeme()
}

func (p *Parser) syntaxError(la *vToken, msg string, expected []string) error {
	tracer().Debugf("%v: %v at %v", p.gram.Name(), msg, la.Position())
	return &verr.SyntaxError{
		Position: la.Position(),
		Message:  msg,
		Found:    p.gram.Terminal(la.TerminalID()),
		Expected: expected,
	}
}

// expectedTerminals lists the terminals that have an entry in the row of a non-terminal.
func (p *Parser) expectedTerminals(nonTerminal int) []string {
	terms := []string{}
	for term := 0; term < p.gram.TerminalCount(); term++ {
		if p.gram.Production(nonTerminal, term) == 0 {
			continue
		}
		terms = append(terms, p.gram.Terminal(term))
	}
	sort.Strings(terms)
	return terms
}

func (p *Parser) top() int {
	return p.stack[len(p.stack)-1]
}

func (p *Parser) push(sym int) {
	p.stack = append(p.stack, sym)
}

func (p *Parser) pop() {
	p.stack = p.stack[:len(p.stack)-1]
}
