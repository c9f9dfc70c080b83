package lexer

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	mlcompiler "github.com/nihei9/maleeni/compiler"
	mldriver "github.com/nihei9/maleeni/driver"
	mlspec "github.com/nihei9/maleeni/spec"
)

const (
	maleeniKindWhiteSpace  = "white_space"
	maleeniKindLineComment = "line_comment"
)

type maleeniScanner struct {
	spec  *mlspec.CompiledLexSpec
	kinds map[string]TokenKind
	skip  map[string]bool
}

func newMaleeniScanner(spec *Spec) (*maleeniScanner, error) {
	s := &maleeniScanner{
		kinds: map[string]TokenKind{},
		skip: map[string]bool{
			maleeniKindWhiteSpace: true,
		},
	}

	var entries []*mlspec.LexEntry
	add := func(name string, pattern string, kind TokenKind) {
		entries = append(entries, &mlspec.LexEntry{
			Kind:    mlspec.LexKindName(name),
			Pattern: mlspec.LexPattern(pattern),
		})
		s.kinds[name] = kind
	}

	// Equally long matches go to the entry listed first, so words precede identifiers.
	for i, word := range sortedByLength(spec.Forbidden) {
		add(fmt.Sprintf("forbidden_%v", i+1), literalPattern(word), kindForbidden)
	}
	for i, word := range sortedByLength(spec.Keywords) {
		add(fmt.Sprintf("keyword_%v", i+1), literalPattern(word), KindKeyword)
	}
	add("identifier", `[A-Za-z_][0-9A-Za-z_]*`, KindIdentifier)
	add("number", `[0-9]+(\u{002E}[0-9]+)?`, KindNumber)
	add("string", `\u{0022}([^\u{0022}\u{005C}\u{000A}]|\u{005C}[^\u{000A}])*\u{0022}`, KindString)
	for i, op := range sortedByLength(spec.Operators) {
		add(fmt.Sprintf("operator_%v", i+1), literalPattern(op), KindOperator)
	}
	for i, p := range sortedByLength(spec.Punctuation) {
		add(fmt.Sprintf("punctuation_%v", i+1), literalPattern(p), KindPunctuation)
	}

	entries = append(entries, &mlspec.LexEntry{
		Kind:    mlspec.LexKindName(maleeniKindWhiteSpace),
		Pattern: mlspec.LexPattern(`[\u{0009}\u{000A}\u{000D}\u{0020}]+`),
	})
	if spec.LineComment != "" {
		entries = append(entries, &mlspec.LexEntry{
			Kind:    mlspec.LexKindName(maleeniKindLineComment),
			Pattern: mlspec.LexPattern(literalPattern(spec.LineComment) + `[^\u{000A}]*`),
		})
		s.skip[maleeniKindLineComment] = true
	}

	compiled, err, cErrs := mlcompiler.Compile(&mlspec.LexSpec{
		Name:    "recipe",
		Entries: entries,
	}, mlcompiler.CompressionLevel(mlcompiler.CompressionLevelMax))
	if err != nil {
		if len(cErrs) > 0 {
			var b strings.Builder
			writeCompileError(&b, cErrs[0])
			for _, cerr := range cErrs[1:] {
				b.WriteString("\n")
				writeCompileError(&b, cerr)
			}
			return nil, fmt.Errorf("%v", b.String())
		}
		return nil, err
	}
	s.spec = compiled
	return s, nil
}

func writeCompileError(b *strings.Builder, cErr *mlcompiler.CompileError) {
	if cErr.Fragment {
		b.WriteString("fragment ")
	}
	fmt.Fprintf(b, "%v: %v", cErr.Kind, cErr.Cause)
	if cErr.Detail != "" {
		fmt.Fprintf(b, ": %v", cErr.Detail)
	}
}

// scan tracks byte offsets itself. Skipped kinds still advance the offset, so every position
// is measured the same way the other backend measures it.
func (s *maleeniScanner) scan(src []byte, lines *lineIndex) ([]*Token, error) {
	d, err := mldriver.NewLexer(mldriver.NewLexSpec(s.spec), bytes.NewReader(src))
	if err != nil {
		return nil, err
	}

	var toks []*Token
	offset := 0
	for {
		tok, err := d.Next()
		if err != nil {
			return nil, err
		}
		if tok.EOF {
			break
		}
		if tok.Invalid {
			return nil, unmatchedError(src, lines, offset)
		}

		text := string(tok.Lexeme)
		start := offset
		offset += len(text)
		name := string(s.spec.KindNames[tok.KindID])
		if s.skip[name] {
			continue
		}
		kind, ok := s.kinds[name]
		if !ok {
			return nil, fmt.Errorf("unknown lexical kind: %v", name)
		}
		if kind == kindForbidden {
			return nil, forbiddenError(lines, start, text)
		}
		row, col := lines.position(start)
		toks = append(toks, &Token{
			Kind: kind,
			Text: text,
			Row:  row,
			Col:  col,
		})
	}
	return toks, nil
}

// literalPattern turns a literal into a maleeni pattern matching exactly it. Anything other
// than a letter, a digit or an underscore becomes a code point expression.
func literalPattern(lit string) string {
	var b strings.Builder
	for _, r := range lit {
		if r < utf8.RuneSelf && isWordChar(byte(r)) {
			b.WriteRune(r)
			continue
		}
		if r > 0xFFFF {
			fmt.Fprintf(&b, `\u{%06X}`, r)
		} else {
			fmt.Fprintf(&b, `\u{%04X}`, r)
		}
	}
	return b.String()
}
