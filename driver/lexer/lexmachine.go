package lexer

import (
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/timtadh/lexmachine"
	"github.com/timtadh/lexmachine/machines"
)

type lexmachineScanner struct {
	lexer *lexmachine.Lexer
	kinds []TokenKind
}

func newLexmachineScanner(spec *Spec) (*lexmachineScanner, error) {
	s := &lexmachineScanner{
		lexer: lexmachine.NewLexer(),
	}

	if spec.LineComment != "" {
		s.lexer.Add([]byte(escapeLiteral(spec.LineComment)+`[^\n]*`), skip)
	}
	s.lexer.Add([]byte(`( |\t|\n|\r)+`), skip)

	// Equally long matches go to the pattern added first, so words precede identifiers.
	for _, word := range sortedByLength(spec.Forbidden) {
		s.add(escapeLiteral(word), kindForbidden)
	}
	for _, word := range sortedByLength(spec.Keywords) {
		s.add(escapeLiteral(word), KindKeyword)
	}
	s.add(`[a-zA-Z_][a-zA-Z0-9_]*`, KindIdentifier)
	s.add(`[0-9]+(\.[0-9]+)?`, KindNumber)
	s.add(`"([^"\\\n]|\\[^\n])*"`, KindString)
	for _, op := range sortedByLength(spec.Operators) {
		s.add(escapeLiteral(op), KindOperator)
	}
	for _, p := range sortedByLength(spec.Punctuation) {
		s.add(escapeLiteral(p), KindPunctuation)
	}

	if err := s.lexer.Compile(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *lexmachineScanner) add(pattern string, kind TokenKind) {
	id := len(s.kinds)
	s.kinds = append(s.kinds, kind)
	s.lexer.Add([]byte(pattern), func(sc *lexmachine.Scanner, m *machines.Match) (interface{}, error) {
		return sc.Token(id, string(m.Bytes), m), nil
	})
}

func skip(*lexmachine.Scanner, *machines.Match) (interface{}, error) {
	return nil, nil
}

func (s *lexmachineScanner) scan(src []byte, lines *lineIndex) ([]*Token, error) {
	scanner, err := s.lexer.Scanner(src)
	if err != nil {
		return nil, err
	}

	var toks []*Token
	for {
		tok, err, eof := scanner.Next()
		if err != nil {
			var ui *machines.UnconsumedInput
			if errors.As(err, &ui) {
				return nil, unmatchedError(src, lines, ui.StartTC)
			}
			return nil, err
		}
		if eof {
			break
		}
		t := tok.(*lexmachine.Token)
		kind := s.kinds[t.Type]
		if kind == kindForbidden {
			return nil, forbiddenError(lines, t.TC, string(t.Lexeme))
		}
		row, col := lines.position(t.TC)
		toks = append(toks, &Token{
			Kind: kind,
			Text: string(t.Lexeme),
			Row:  row,
			Col:  col,
		})
	}
	return toks, nil
}

// escapeLiteral turns a literal into a lexmachine pattern matching exactly it. Letters and
// digits are kept as they are because an escaped letter may denote a control character.
func escapeLiteral(lit string) string {
	var b strings.Builder
	for _, r := range lit {
		if r < utf8.RuneSelf && !isWordChar(byte(r)) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

