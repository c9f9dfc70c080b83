package tester

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/npillmayer/schuko/tracing"

	"github.com/recipelang/ladle/descent"
	"github.com/recipelang/ladle/driver"
	"github.com/recipelang/ladle/driver/lexer"
	verr "github.com/recipelang/ladle/error"
	"github.com/recipelang/ladle/lang"
	gspec "github.com/recipelang/ladle/spec/grammar"
	tspec "github.com/recipelang/ladle/spec/test"
)

// tracer traces with key 'ladle.tester'.
func tracer() tracing.Trace {
	return tracing.Select("ladle.tester")
}

// Classify maps the outcome of a recognizer to a verdict kind. An error that is none of
// the recognizer errors is returned as is.
func Classify(err error) (tspec.VerdictKind, error) {
	if err == nil {
		return tspec.VerdictAccept, nil
	}
	var lexErr *verr.LexicalError
	if errors.As(err, &lexErr) {
		return tspec.VerdictLexical, nil
	}
	var mapErr *verr.MappingError
	if errors.As(err, &mapErr) {
		return tspec.VerdictMapping, nil
	}
	var synErr *verr.SyntaxError
	if errors.As(err, &synErr) {
		return tspec.VerdictSyntax, nil
	}
	return "", err
}

// Outcome holds what each recognizer made of one source. A lexical error stops both.
type Outcome struct {
	LL error
	RD error
}

// Agree reports whether both recognizers accepted, or both rejected.
func (o *Outcome) Agree() bool {
	return (o.LL == nil) == (o.RD == nil)
}

// Recognizer runs the table-driven parser and the recursive-descent parser over the same
// tokens. It is safe for concurrent use.
type Recognizer struct {
	gram *driver.Grammar
	lex  *lexer.Lexer
}

func NewRecognizer(cg *gspec.CompiledGrammar) (*Recognizer, error) {
	gram, err := driver.NewGrammar(cg)
	if err != nil {
		return nil, err
	}
	lex, err := lang.NewLexer()
	if err != nil {
		return nil, err
	}
	return &Recognizer{
		gram: gram,
		lex:  lex,
	}, nil
}

func (r *Recognizer) Recognize(src []byte) (*Outcome, error) {
	toks, err := r.lex.Tokenize(src)
	if err != nil {
		return &Outcome{
			LL: err,
			RD: err,
		}, nil
	}

	p, err := driver.NewParser(r.gram, toks, lang.Mapper{})
	if err != nil {
		return nil, err
	}
	o := &Outcome{
		LL: p.Parse(),
	}
	_, o.RD = descent.Parse(toks)
	return o, nil
}

type TestResult struct {
	TestCasePath string
	Expected     *tspec.Verdict
	Outcome      *Outcome
	Error        error
}

func (r *TestResult) String() string {
	if r.Error != nil {
		const indent1 = "    "

		msgLines := strings.Split(r.Error.Error(), "\n")
		return fmt.Sprintf("Failed %v:\n%v%v", r.TestCasePath, indent1, strings.Join(msgLines, "\n"+indent1))
	}
	return fmt.Sprintf("Passed %v", r.TestCasePath)
}

type TestCaseWithMetadata struct {
	TestCase *tspec.TestCase
	FilePath string
	Error    error
}

// ListTestCases reads a test case file, or every file under a directory.
func ListTestCases(testPath string) []*TestCaseWithMetadata {
	fi, err := os.Stat(testPath)
	if err != nil {
		return []*TestCaseWithMetadata{
			{
				FilePath: testPath,
				Error:    err,
			},
		}
	}
	if !fi.IsDir() {
		c, err := parseTestCase(testPath)
		return []*TestCaseWithMetadata{
			{
				TestCase: c,
				FilePath: testPath,
				Error:    err,
			},
		}
	}

	es, err := os.ReadDir(testPath)
	if err != nil {
		return []*TestCaseWithMetadata{
			{
				FilePath: testPath,
				Error:    err,
			},
		}
	}
	var cases []*TestCaseWithMetadata
	for _, e := range es {
		cs := ListTestCases(filepath.Join(testPath, e.Name()))
		cases = append(cases, cs...)
	}
	return cases
}

func parseTestCase(testCasePath string) (*tspec.TestCase, error) {
	f, err := os.Open(testCasePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return tspec.ParseTestCase(f)
}

type RunnerOption func(r *Runner) error

// Workers bounds the number of test cases running at the same time.
func Workers(n int) RunnerOption {
	return func(r *Runner) error {
		if n < 1 {
			return fmt.Errorf("the number of workers must be at least 1: %v", n)
		}
		r.workers = n
		return nil
	}
}

// Runner runs test cases against one compiled grammar.
type Runner struct {
	recognizer *Recognizer
	workers    int
}

func NewRunner(gram *gspec.CompiledGrammar, opts ...RunnerOption) (*Runner, error) {
	rec, err := NewRecognizer(gram)
	if err != nil {
		return nil, err
	}
	r := &Runner{
		recognizer: rec,
		workers:    runtime.NumCPU(),
	}
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Run returns one result per case in the order of cases.
func (r *Runner) Run(cases []*TestCaseWithMetadata) []*TestResult {
	rs := make([]*TestResult, len(cases))
	sem := make(chan struct{}, r.workers)
	var wg sync.WaitGroup
	for i, c := range cases {
		sem <- struct{}{}
		wg.Add(1)
		go func(i int, c *TestCaseWithMetadata) {
			defer func() {
				<-sem
				wg.Done()
			}()
			rs[i] = r.runTest(c)
		}(i, c)
	}
	wg.Wait()
	tracer().Debugf("ran %d test cases with %d workers", len(cases), r.workers)
	return rs
}

func (r *Runner) runTest(c *TestCaseWithMetadata) *TestResult {
	result := &TestResult{
		TestCasePath: c.FilePath,
	}
	if c.Error != nil {
		result.Error = c.Error
		return result
	}
	result.Expected = c.TestCase.Verdict

	o, err := r.recognizer.Recognize(c.TestCase.Source)
	if err != nil {
		result.Error = err
		return result
	}
	result.Outcome = o
	result.Error = check(c.TestCase.Verdict, o)
	return result
}

func check(expected *tspec.Verdict, o *Outcome) error {
	if !o.Agree() {
		return fmt.Errorf("the recognizers disagree:\ntable-driven: %v\nrecursive descent: %v", verdictText(o.LL), verdictText(o.RD))
	}
	kind, err := Classify(o.LL)
	if err != nil {
		return err
	}
	if kind != expected.Kind {
		return fmt.Errorf("unexpected verdict: expected %v but got %v", expected.Kind, verdictText(o.LL))
	}
	if expected.Position != nil {
		pos, _ := verr.PositionOf(o.LL)
		if pos != *expected.Position {
			return fmt.Errorf("unexpected error position: expected %v but got %v: %v", expected.Position, pos, o.LL)
		}
	}
	return nil
}

func verdictText(err error) string {
	if err == nil {
		return tspec.VerdictAccept.String()
	}
	return err.Error()
}
