package error

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// Position is 1-based. The zero value means the position is unknown.
type Position struct {
	Row int
	Col int
}

func (p Position) String() string {
	return fmt.Sprintf("%v:%v", p.Row, p.Col)
}

// LexicalError reports text the tokenizer cannot turn into a token.
type LexicalError struct {
	Position
	Text    string
	Message string
}

func (e *LexicalError) Error() string {
	return fmt.Sprintf("%v: lexical error: %v: %q", e.Position, e.Message, e.Text)
}

// MappingError reports a token that has no terminal in the grammar.
type MappingError struct {
	Position
	Kind string
	Text string
}

func (e *MappingError) Error() string {
	return fmt.Sprintf("%v: mapping error: %v %q has no terminal", e.Position, e.Kind, e.Text)
}

// SyntaxError reports the first point at which the input leaves the language. Found is the
// terminal of the lookahead; Expected lists the terminals that would have been accepted
// there, sorted by name.
type SyntaxError struct {
	Position
	Message  string
	Found    string
	Expected []string
}

func (e *SyntaxError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%v: syntax error: %v", e.Position, e.Message)
	if len(e.Expected) > 0 {
		fmt.Fprintf(&b, "; expected: %v", strings.Join(e.Expected, ", "))
	}
	return b.String()
}

// PositionOf returns the position carried by one of the errors of this package.
func PositionOf(err error) (Position, bool) {
	var lexErr *LexicalError
	if errors.As(err, &lexErr) {
		return lexErr.Position, true
	}
	var mapErr *MappingError
	if errors.As(err, &mapErr) {
		return mapErr.Position, true
	}
	var synErr *SyntaxError
	if errors.As(err, &synErr) {
		return synErr.Position, true
	}
	return Position{}, false
}

// SourceError decorates an error with the name of its source and echoes the offending line.
// The line is read from Source when set and from FilePath otherwise.
type SourceError struct {
	Cause      error
	FilePath   string
	Source     []byte
	SourceName string
}

func (e *SourceError) Error() string {
	var b strings.Builder
	if e.SourceName != "" {
		fmt.Fprintf(&b, "%v: ", e.SourceName)
	}
	fmt.Fprintf(&b, "%v", e.Cause)

	pos, ok := PositionOf(e.Cause)
	if !ok {
		return b.String()
	}
	line := e.Line(pos.Row)
	if line != "" {
		fmt.Fprintf(&b, "\n    %v", line)
		if pos.Col > 0 {
			fmt.Fprintf(&b, "\n    %v^", CaretPadding(line, pos.Col))
		}
	}

	return b.String()
}

// CaretPadding returns the indentation that puts a caret under the col-th rune of line. Tabs
// of the line are kept so the caret lines up however wide a terminal draws them.
func CaretPadding(line string, col int) string {
	var b strings.Builder
	n := 0
	for _, r := range line {
		if n >= col-1 {
			break
		}
		if r == '\t' {
			b.WriteRune('\t')
		} else {
			b.WriteRune(' ')
		}
		n++
	}
	if n < col-1 {
		b.WriteString(strings.Repeat(" ", col-1-n))
	}
	return b.String()
}

func (e *SourceError) Unwrap() error {
	return e.Cause
}

// Line returns the row-th line of the source, or "" when it is not available.
func (e *SourceError) Line(row int) string {
	if e.Source != nil {
		return readLine(bytes.NewReader(e.Source), row)
	}
	if e.FilePath == "" {
		return ""
	}
	f, err := os.Open(e.FilePath)
	if err != nil {
		return ""
	}
	defer f.Close()
	return readLine(f, row)
}

func readLine(r io.Reader, row int) string {
	if row <= 0 {
		return ""
	}

	i := 1
	s := bufio.NewScanner(r)
	for s.Scan() {
		if i == row {
			return s.Text()
		}
		i++
	}

	return ""
}
