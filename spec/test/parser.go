package test

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	verr "github.com/recipelang/ladle/error"
)

type VerdictKind string

const (
	VerdictAccept  = VerdictKind("accept")
	VerdictLexical = VerdictKind("lexical")
	VerdictMapping = VerdictKind("mapping")
	VerdictSyntax  = VerdictKind("syntax")
)

func (k VerdictKind) String() string {
	return string(k)
}

func ParseVerdictKind(s string) (VerdictKind, bool) {
	switch k := VerdictKind(s); k {
	case VerdictAccept, VerdictLexical, VerdictMapping, VerdictSyntax:
		return k, true
	}
	return "", false
}

// Verdict is the expected outcome of a test case. Position is optional for rejections.
type Verdict struct {
	Kind     VerdictKind
	Position *verr.Position
}

func (v *Verdict) String() string {
	if v.Position == nil {
		return v.Kind.String()
	}
	return fmt.Sprintf("%v %v", v.Kind, v.Position)
}

type TestCase struct {
	Description string
	Source      []byte
	Verdict     *Verdict
}

// ParseTestCase reads a test case of three parts separated by lines of three or more hyphens:
// a description, the source, and a verdict such as `accept` or `syntax 1:10`.
func ParseTestCase(r io.Reader) (*TestCase, error) {
	parts, err := splitIntoParts(r)
	if err != nil {
		return nil, err
	}
	if len(parts) != 3 {
		return nil, fmt.Errorf("too many or too few part delimiters: a test case consists of just three parts: %v parts found", len(parts))
	}

	line := parts[0].lineCount + parts[1].lineCount + 3
	v, err := parseVerdict(string(parts[2].buf))
	if err != nil {
		return nil, fmt.Errorf("line %v: %w", line, err)
	}

	return &TestCase{
		Description: string(parts[0].buf),
		Source:      parts[1].buf,
		Verdict:     v,
	}, nil
}

var reVerdict = regexp.MustCompile(`^([a-z]+)(?:\s+([0-9]+):([0-9]+))?$`)

func parseVerdict(src string) (*Verdict, error) {
	text := strings.TrimSpace(src)
	m := reVerdict.FindStringSubmatch(text)
	if m == nil {
		return nil, fmt.Errorf("invalid verdict: %q", text)
	}
	kind, ok := ParseVerdictKind(m[1])
	if !ok {
		return nil, fmt.Errorf("unknown verdict: %v", m[1])
	}
	v := &Verdict{
		Kind: kind,
	}
	if m[2] == "" {
		return v, nil
	}
	if kind == VerdictAccept {
		return nil, fmt.Errorf("an accepting verdict cannot have a position")
	}
	row, _ := strconv.Atoi(m[2])
	col, _ := strconv.Atoi(m[3])
	v.Position = &verr.Position{
		Row: row,
		Col: col,
	}
	return v, nil
}

type testCasePart struct {
	buf       []byte
	lineCount int
}

func splitIntoParts(r io.Reader) ([]*testCasePart, error) {
	var bufs []*testCasePart
	s := bufio.NewScanner(r)
	for {
		buf, lineCount, err := readPart(s)
		if err != nil {
			return nil, err
		}
		if buf == nil {
			break
		}
		bufs = append(bufs, &testCasePart{
			buf:       buf,
			lineCount: lineCount,
		})
	}
	if err := s.Err(); err != nil {
		return nil, err
	}
	return bufs, nil
}

var reDelim = regexp.MustCompile(`^\s*---+\s*$`)

func readPart(s *bufio.Scanner) ([]byte, int, error) {
	if !s.Scan() {
		return nil, 0, s.Err()
	}
	buf := &bytes.Buffer{}
	line := s.Bytes()
	if reDelim.Match(line) {
		// (*bytes.Buffer).Bytes() returns nil when nothing has been written.
		return []byte{}, 0, nil
	}
	_, err := buf.Write(line)
	if err != nil {
		return nil, 0, err
	}
	lineCount := 1
	for s.Scan() {
		line := s.Bytes()
		if reDelim.Match(line) {
			return buf.Bytes(), lineCount, nil
		}
		_, err := buf.Write([]byte("\n"))
		if err != nil {
			return nil, 0, err
		}
		_, err = buf.Write(line)
		if err != nil {
			return nil, 0, err
		}
		lineCount++
	}
	if err := s.Err(); err != nil {
		return nil, 0, err
	}
	return buf.Bytes(), lineCount, nil
}
