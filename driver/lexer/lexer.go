package lexer

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/npillmayer/schuko/tracing"

	verr "github.com/recipelang/ladle/error"
)

// tracer traces with key 'ladle.lexer'.
func tracer() tracing.Trace {
	return tracing.Select("ladle.lexer")
}

type TokenKind string

const (
	KindKeyword     = TokenKind("keyword")
	KindIdentifier  = TokenKind("identifier")
	KindNumber      = TokenKind("number")
	KindString      = TokenKind("string")
	KindOperator    = TokenKind("operator")
	KindPunctuation = TokenKind("punctuation")
	KindEOF         = TokenKind("eof")

	kindForbidden = TokenKind("forbidden")
)

func (k TokenKind) String() string {
	return string(k)
}

// Token is immutable. Row and Col are 1-based; Col counts runes.
type Token struct {
	Kind TokenKind
	Text string
	Row  int
	Col  int
}

func (t *Token) EOF() bool {
	return t.Kind == KindEOF
}

func (t *Token) Position() verr.Position {
	return verr.Position{Row: t.Row, Col: t.Col}
}

func (t *Token) String() string {
	if t.EOF() {
		return fmt.Sprintf("<eof>@%v:%v", t.Row, t.Col)
	}
	return fmt.Sprintf("%v %q@%v:%v", t.Kind, t.Text, t.Row, t.Col)
}

// Spec configures a Lexer. Identifiers, numbers, double-quoted strings and comments have fixed
// shapes; everything else is listed here.
type Spec struct {
	Keywords []string

	// Forbidden words look like identifiers but are rejected with a LexicalError.
	Forbidden []string

	Operators   []string
	Punctuation []string

	// LineComment starts a comment running to the end of the line. Empty disables comments.
	LineComment string
}

// Backend names the scanner generator a Lexer is compiled with.
type Backend string

const (
	BackendMaleeni    = Backend("maleeni")
	BackendLexmachine = Backend("lexmachine")
)

func (b Backend) String() string {
	return string(b)
}

type scanner interface {
	scan(src []byte, lines *lineIndex) ([]*Token, error)
}

// Lexer wraps a compiled DFA. A Lexer is read-only after NewLexer and may tokenize several
// inputs concurrently.
type Lexer struct {
	backend Backend
	scanner scanner
}

type LexerOption func(l *Lexer) error

// WithBackend selects the scanner generator. The default is BackendMaleeni.
func WithBackend(b Backend) LexerOption {
	return func(l *Lexer) error {
		switch b {
		case BackendMaleeni, BackendLexmachine:
			l.backend = b
			return nil
		}
		return fmt.Errorf("unknown lexer backend: %v", b)
	}
}

func NewLexer(spec *Spec, opts ...LexerOption) (*Lexer, error) {
	l := &Lexer{
		backend: BackendMaleeni,
	}
	for _, opt := range opts {
		if err := opt(l); err != nil {
			return nil, err
		}
	}

	var err error
	switch l.backend {
	case BackendLexmachine:
		l.scanner, err = newLexmachineScanner(spec)
	default:
		l.scanner, err = newMaleeniScanner(spec)
	}
	if err != nil {
		tracer().Errorf("Error compiling the %v DFA: %v", l.backend, err)
		return nil, err
	}
	return l, nil
}

func (l *Lexer) Backend() Backend {
	return l.backend
}

// Tokenize returns every token of src followed by exactly one EOF token. The first lexical
// error aborts tokenization, so no token is returned along with an error.
func (l *Lexer) Tokenize(src []byte) ([]*Token, error) {
	lines := newLineIndex(src)
	toks, err := l.scanner.scan(src, lines)
	if err != nil {
		return nil, err
	}

	row, col := lines.position(len(src))
	toks = append(toks, &Token{
		Kind: KindEOF,
		Row:  row,
		Col:  col,
	})
	tracer().Debugf("tokenized %d bytes into %d tokens with %v", len(src), len(toks), l.backend)
	return toks, nil
}

func forbiddenError(lines *lineIndex, offset int, text string) error {
	row, col := lines.position(offset)
	return &verr.LexicalError{
		Position: verr.Position{Row: row, Col: col},
		Text:     text,
		Message:  "forbidden identifier",
	}
}

// unmatchedError reports the input at offset that no pattern accepts.
func unmatchedError(src []byte, lines *lineIndex, offset int) error {
	row, col := lines.position(offset)
	r, _ := utf8.DecodeRune(src[offset:])
	if r == '"' {
		return &verr.LexicalError{
			Position: verr.Position{Row: row, Col: col},
			Text:     firstLine(src[offset:]),
			Message:  "unterminated string",
		}
	}
	return &verr.LexicalError{
		Position: verr.Position{Row: row, Col: col},
		Text:     string(r),
		Message:  "invalid character",
	}
}

func firstLine(b []byte) string {
	s := string(b)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

func sortedByLength(words []string) []string {
	ws := append([]string{}, words...)
	sort.SliceStable(ws, func(i, j int) bool {
		return len(ws[i]) > len(ws[j])
	})
	return ws
}

// lineIndex converts byte offsets into rows and rune columns.
type lineIndex struct {
	src    []byte
	starts []int
}

func newLineIndex(src []byte) *lineIndex {
	starts := []int{0}
	for i, c := range src {
		if c == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &lineIndex{
		src:    src,
		starts: starts,
	}
}

func (li *lineIndex) position(offset int) (int, int) {
	row := sort.Search(len(li.starts), func(i int) bool {
		return li.starts[i] > offset
	})
	start := li.starts[row-1]
	return row, utf8.RuneCount(li.src[start:offset]) + 1
}

func isWordChar(c byte) bool {
	return c == '_' || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || ('0' <= c && c <= '9')
}
