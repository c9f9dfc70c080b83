package driver

import (
	"fmt"

	"github.com/recipelang/ladle/driver/lexer"
	verr "github.com/recipelang/ladle/error"
)

// TerminalMapper maps a token to the name of a grammar terminal. It must map the EOF token to
// the end marker $ and report any other unmappable token with a *error.MappingError.
type TerminalMapper interface {
	Terminal(tok *lexer.Token) (string, error)
}

// IdentityMapper maps a token to a terminal of the same name as its text. It suits grammars
// whose terminals are spelled as they appear in the input.
type IdentityMapper struct{}

func (IdentityMapper) Terminal(tok *lexer.Token) (string, error) {
	if tok.EOF() {
		return "$", nil
	}
	return tok.Text, nil
}

// VToken is a token together with the terminal it was mapped to.
type VToken interface {
	TerminalID() int
	Lexeme() string
	EOF() bool
	Position() verr.Position
}

var _ VToken = &vToken{}

type vToken struct {
	terminalID int
	tok        *lexer.Token
}

func (t *vToken) TerminalID() int {
	return t.terminalID
}

func (t *vToken) Lexeme() string {
	return t.tok.Text
}

func (t *vToken) EOF() bool {
	return t.tok.EOF()
}

func (t *vToken) Position() verr.Position {
	return t.tok.Position()
}

// tokenStream maps each token when it becomes the lookahead, so a mapping error surfaces at
// the point the parser reaches it.
type tokenStream struct {
	toks   []*lexer.Token
	pos    int
	gram   *Grammar
	mapper TerminalMapper
	la     *vToken
}

func newTokenStream(toks []*lexer.Token, gram *Grammar, mapper TerminalMapper) (*tokenStream, error) {
	if len(toks) == 0 || !toks[len(toks)-1].EOF() {
		return nil, fmt.Errorf("a token sequence must end with an EOF token")
	}
	return &tokenStream{
		toks:   toks,
		gram:   gram,
		mapper: mapper,
	}, nil
}

// lookahead returns the current token. It never moves past the EOF token.
func (s *tokenStream) lookahead() (*vToken, error) {
	if s.la != nil {
		return s.la, nil
	}
	tok := s.toks[s.pos]
	name, err := s.mapper.Terminal(tok)
	if err != nil {
		return nil, err
	}
	num, ok := s.gram.TerminalNum(name)
	if !ok {
		return nil, &verr.MappingError{
			Position: tok.Position(),
			Kind:     tok.Kind.String(),
			Text:     tok.Text,
		}
	}
	if tok.EOF() != (num == s.gram.EOF()) {
		return nil, &verr.MappingError{
			Position: tok.Position(),
			Kind:     tok.Kind.String(),
			Text:     tok.Text,
		}
	}
	s.la = &vToken{
		terminalID: num,
		tok:        tok,
	}
	return s.la, nil
}

func (s *tokenStream) advance() {
	if s.toks[s.pos].EOF() {
		return
	}
	s.pos++
	s.la = nil
}
