package driver

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"

	"github.com/recipelang/ladle/driver/lexer"
	verr "github.com/recipelang/ladle/error"
	"github.com/recipelang/ladle/grammar"
	"github.com/recipelang/ladle/lang"
	spec "github.com/recipelang/ladle/spec/grammar"
)

func compileRecipe(t *testing.T, opts ...grammar.CompileOption) *Grammar {
	t.Helper()

	g, err := lang.NewGrammar()
	if err != nil {
		t.Fatal(err)
	}
	cg, _, err := grammar.Compile(g, opts...)
	if err != nil {
		t.Fatal(err)
	}
	gram, err := NewGrammar(cg)
	if err != nil {
		t.Fatal(err)
	}
	return gram
}

func tokenizeRecipe(t *testing.T, src string) []*lexer.Token {
	t.Helper()

	l, err := lang.NewLexer()
	if err != nil {
		t.Fatal(err)
	}
	toks, err := l.Tokenize([]byte(src))
	if err != nil {
		t.Fatal(err)
	}
	return toks
}

func parseRecipe(t *testing.T, gram *Grammar, src string, opts ...ParserOption) (*Parser, error) {
	t.Helper()

	p, err := NewParser(gram, tokenizeRecipe(t, src), lang.Mapper{}, opts...)
	if err != nil {
		t.Fatal(err)
	}
	return p, p.Parse()
}

func TestParser_Parse(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "ladle.driver")
	defer teardown()

	tests := []struct {
		caption string
		src     string
	}{
		{
			caption: "a function declaration",
			src:     `recipe soma(a, b) { put s = a + b; return s; }`,
		},
		{
			caption: "an if statement with an else branch",
			src:     `if (x) { return x; } else { return 0; }`,
		},
		{
			caption: "an else-if chain",
			src:     `if (a < b) { x = 1; } else if (a == b) { x = 2; } else { x = 3; }`,
		},
		{
			caption: "empty input",
			src:     ``,
		},
		{
			caption: "only a comment",
			src:     "// nothing here\n",
		},
		{
			caption: "nested blocks and a bare return",
			src:     `{ { } } while (true) { return; }`,
		},
		{
			caption: "calls, unary operators and chained assignment",
			src:     `a = b = f(1, "two", -x)(g()) * !ok % 2; print(a >= 1 && b != 2 || false);`,
		},
	}
	gram := compileRecipe(t)
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			_, err := parseRecipe(t, gram, tt.src)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestParser_SyntaxErrors(t *testing.T) {
	tests := []struct {
		caption  string
		src      string
		row      int
		col      int
		message  string
		found    string
		expected []string
	}{
		{
			caption:  "a missing semicolon at the end of input",
			src:      `put x = 5`,
			row:      1,
			col:      10,
			message:  "no production for (CallTail, $)",
			found:    "$",
			expected: nil,
		},
		{
			caption:  "a missing assignment",
			src:      `put x 5;`,
			row:      1,
			col:      7,
			message:  "expected ASSIGN, found NUMBER",
			found:    "NUMBER",
			expected: []string{"ASSIGN"},
		},
		{
			caption: "a statement cannot start with else",
			src:     "x;\nelse { }",
			row:     2,
			col:     1,
			message: "no production for (StmtList, KW_else)",
			found:   "KW_else",
		},
		{
			caption:  "an unclosed block",
			src:      `while (x) { x = x - 1;`,
			row:      1,
			col:      23,
			message:  "expected RBRACE, found $",
			found:    "$",
			expected: []string{"RBRACE"},
		},
	}
	gram := compileRecipe(t)
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			_, err := parseRecipe(t, gram, tt.src)
			var synErr *verr.SyntaxError
			if !errors.As(err, &synErr) {
				t.Fatalf("a syntax error was expected; got: %v", err)
			}
			if synErr.Row != tt.row || synErr.Col != tt.col {
				t.Fatalf("unexpected position; want: %v:%v, got: %v", tt.row, tt.col, synErr.Position)
			}
			if synErr.Message != tt.message {
				t.Fatalf("unexpected message; want: %v, got: %v", tt.message, synErr.Message)
			}
			if synErr.Found != tt.found {
				t.Fatalf("unexpected found terminal; want: %v, got: %v", tt.found, synErr.Found)
			}
			if tt.expected != nil && strings.Join(synErr.Expected, " ") != strings.Join(tt.expected, " ") {
				t.Fatalf("unexpected expected terminals; want: %v, got: %v", tt.expected, synErr.Expected)
			}
		})
	}
}

func TestParser_ExpectedTerminalsOfAMissingEntry(t *testing.T) {
	gram := compileRecipe(t)
	_, err := parseRecipe(t, gram, `put x = 5`)
	var synErr *verr.SyntaxError
	if !errors.As(err, &synErr) {
		t.Fatalf("a syntax error was expected; got: %v", err)
	}
	has := map[string]bool{}
	for i, e := range synErr.Expected {
		has[e] = true
		if i > 0 && synErr.Expected[i-1] >= e {
			t.Fatalf("expected terminals must be sorted: %v", synErr.Expected)
		}
	}
	for _, e := range []string{lang.TermSemicolon, lang.TermLParen} {
		if !has[e] {
			t.Fatalf("%v is missing from the expected terminals: %v", e, synErr.Expected)
		}
	}
	if has["$"] {
		t.Fatalf("$ must not be expected: %v", synErr.Expected)
	}
}

func TestParser_MappingErrors(t *testing.T) {
	tests := []struct {
		caption string
		src     string
		row     int
		col     int
		text    string
	}{
		{
			caption: "a reserved word at the beginning",
			src:     `for (x) { }`,
			row:     1,
			col:     1,
			text:    "for",
		},
		{
			caption: "a reserved word after valid statements",
			src:     "x;\ny = nil;",
			row:     2,
			col:     5,
			text:    "nil",
		},
	}
	gram := compileRecipe(t)
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			_, err := parseRecipe(t, gram, tt.src)
			var mapErr *verr.MappingError
			if !errors.As(err, &mapErr) {
				t.Fatalf("a mapping error was expected; got: %v", err)
			}
			if mapErr.Row != tt.row || mapErr.Col != tt.col || mapErr.Text != tt.text {
				t.Fatalf("unexpected error; want: %q@%v:%v, got: %v", tt.text, tt.row, tt.col, mapErr)
			}
		})
	}
}

func TestParser_LexicalErrorsPrecedeParsing(t *testing.T) {
	l, err := lang.NewLexer()
	if err != nil {
		t.Fatal(err)
	}
	toks, err := l.Tokenize([]byte(`let x = 1;`))
	if toks != nil {
		t.Fatalf("no token must be returned; got: %v", toks)
	}
	var lexErr *verr.LexicalError
	if !errors.As(err, &lexErr) {
		t.Fatalf("a lexical error was expected; got: %v", err)
	}
	if lexErr.Row != 1 || lexErr.Col != 1 {
		t.Fatalf("unexpected position: %v", lexErr.Position)
	}
}

func TestParser_UnknownTerminal(t *testing.T) {
	gram := compileGrammar(t, "a", "S -> a")
	toks := genTokens("b")
	p, err := NewParser(gram, toks, IdentityMapper{})
	if err != nil {
		t.Fatal(err)
	}
	err = p.Parse()
	var mapErr *verr.MappingError
	if !errors.As(err, &mapErr) {
		t.Fatalf("a mapping error was expected; got: %v", err)
	}
}

func TestParser_InputNotFullyConsumed(t *testing.T) {
	gram := compileGrammar(t, "a", "S -> a")
	p, err := NewParser(gram, genTokens("a", "a"), IdentityMapper{})
	if err != nil {
		t.Fatal(err)
	}
	err = p.Parse()
	var synErr *verr.SyntaxError
	if !errors.As(err, &synErr) {
		t.Fatalf("a syntax error was expected; got: %v", err)
	}
	if synErr.Message != "input not fully consumed" || synErr.Col != 2 || synErr.Found != "a" {
		t.Fatalf("unexpected error: %v", synErr)
	}
}

func TestParser_LeftRecursiveGrammarNeverReachesTheDriver(t *testing.T) {
	b := grammar.NewGrammarBuilder("test")
	b.Terminals("a", "b")
	for _, r := range parseTestRules(t, "S -> S a", "S -> b") {
		b.Rule(r.lhs, r.rhs...)
	}
	g, err := b.Build()
	if err != nil {
		t.Fatal(err)
	}
	cg, _, err := grammar.Compile(g)
	if err == nil {
		t.Fatal("a left-recursive grammar must not compile")
	}
	if cg != nil {
		t.Fatal("no compiled grammar must be returned along with an error")
	}
	var semErr *grammar.SemanticError
	if !errors.As(err, &semErr) || !strings.Contains(err.Error(), "left recursion") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestNewParser(t *testing.T) {
	gram := compileGrammar(t, "a", "S -> a")
	if _, err := NewParser(gram, []*lexer.Token{}, IdentityMapper{}); err == nil {
		t.Fatal("an empty token sequence must be rejected")
	}
	if _, err := NewParser(gram, genTokens("a")[:1], IdentityMapper{}); err == nil {
		t.Fatal("a token sequence without EOF must be rejected")
	}
	if _, err := NewParser(gram, genTokens("a"), nil); err == nil {
		t.Fatal("a parser without a mapper must be rejected")
	}

	p, err := NewParser(gram, genTokens("a"), IdentityMapper{})
	if err != nil {
		t.Fatal(err)
	}
	if err := p.Parse(); err != nil {
		t.Fatal(err)
	}
	if err := p.Parse(); err == nil {
		t.Fatal("a second run must be rejected")
	}
}

func TestParser_Trace(t *testing.T) {
	gram := compileRecipe(t)

	p, err := parseRecipe(t, gram, `recipe soma(a, b) { put s = a + b; return s; }`, Trace())
	if err != nil {
		t.Fatal(err)
	}
	steps := p.Steps()
	if len(steps) == 0 {
		t.Fatal("a trace must not be empty")
	}

	first := steps[0]
	if first.Index != 1 || first.Action != ActionExpand || first.Production != "Program -> StmtList" {
		t.Fatalf("unexpected first step: %v", first)
	}
	if strings.Join(first.Stack, " ") != "$ Program" || first.Lookahead != "KW_recipe:recipe" {
		t.Fatalf("unexpected first step: %v", first)
	}

	last := steps[len(steps)-1]
	if last.Action != ActionAccept || len(last.Stack) != 0 || last.Lookahead != "$" {
		t.Fatalf("unexpected last step: %v", last)
	}

	counts := map[Action]int{}
	for i, s := range steps {
		if s.Index != i+1 {
			t.Fatalf("steps must be numbered from 1; step #%v has the index %v", i, s.Index)
		}
		counts[s.Action]++
		if s.Action == ActionExpand && s.Production == "" {
			t.Fatalf("an expansion must name its production: %v", s)
		}
		if s.Action != ActionExpand && s.Production != "" {
			t.Fatalf("only an expansion names a production: %v", s)
		}
	}
	if counts[ActionAccept] != 1 {
		t.Fatalf("a trace must contain exactly one ACCEPT; got: %v", counts[ActionAccept])
	}
	if counts[ActionEmpty] == 0 {
		t.Fatal("a trace must contain EMPTY steps")
	}
	// 19 tokens plus the end marker.
	if counts[ActionMatch] != 20 {
		t.Fatalf("unexpected match count; want: 20, got: %v", counts[ActionMatch])
	}

	var b strings.Builder
	if err := PrintTrace(&b, steps); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(b.String()), "\n")
	if len(lines) != len(steps)+1 {
		t.Fatalf("unexpected line count; want: %v, got: %v", len(steps)+1, len(lines))
	}
	if !strings.Contains(lines[len(lines)-1], "ACCEPT") {
		t.Fatalf("the last line must show ACCEPT: %v", lines[len(lines)-1])
	}
}

func TestParser_TraceOfElse(t *testing.T) {
	gram := compileRecipe(t)
	p, err := parseRecipe(t, gram, `if (x) { return x; } else { return 0; }`, Trace())
	if err != nil {
		t.Fatal(err)
	}
	found := false
	for _, s := range p.Steps() {
		if s.Production == "IfElseOpt -> KW_else ElseBody" {
			if s.Lookahead != "KW_else:else" {
				t.Fatalf("unexpected lookahead: %v", s)
			}
			found = true
		}
		if s.Production == "IfElseOpt -> ε" {
			t.Fatalf("the else branch must not be dropped: %v", s)
		}
	}
	if !found {
		t.Fatal("the else branch was not expanded")
	}
}

func TestParser_NoTraceByDefault(t *testing.T) {
	gram := compileRecipe(t)
	p, err := parseRecipe(t, gram, `x;`)
	if err != nil {
		t.Fatal(err)
	}
	if len(p.Steps()) != 0 {
		t.Fatalf("no step must be recorded without Trace(); got: %v", len(p.Steps()))
	}
}

func TestParser_CompressionLevelsAgree(t *testing.T) {
	srcs := []string{
		``,
		`recipe soma(a, b) { put s = a + b; return s; }`,
		`put x = 5`,
		`if (x) { return x; } else { return 0; }`,
		`x;; y;`,
		`f(,);`,
		`while (i < 10) { i = i + 1; } return i`,
		`for (x) { }`,
	}
	levels := []int{grammar.CompressionLevelNone, grammar.CompressionLevelMin, grammar.CompressionLevelMax}
	grams := make([]*Grammar, len(levels))
	for i, lv := range levels {
		grams[i] = compileRecipe(t, grammar.CompressionLevel(lv))
	}
	for _, src := range srcs {
		var want string
		for i, gram := range grams {
			_, err := parseRecipe(t, gram, src)
			got := fmt.Sprint(err)
			if i == 0 {
				want = got
				continue
			}
			if got != want {
				t.Fatalf("compression level %v disagrees on %q; want: %v, got: %v", levels[i], src, want, got)
			}
		}
	}
}

func TestParser_SharedGrammar(t *testing.T) {
	gram := compileRecipe(t)
	srcs := map[string]bool{
		`recipe f(a) { return a * 2; }`: true,
		`put x = f(3);`:                 true,
		`put x = ;`:                     false,
		`if (x) { } else`:               false,
	}
	toks := map[string][]*lexer.Token{}
	for src := range srcs {
		toks[src] = tokenizeRecipe(t, src)
	}

	var wg sync.WaitGroup
	errs := make(chan error, len(srcs)*8)
	for i := 0; i < 8; i++ {
		for src, accept := range srcs {
			wg.Add(1)
			go func(src string, accept bool) {
				defer wg.Done()
				p, err := NewParser(gram, toks[src], lang.Mapper{}, Trace())
				if err != nil {
					errs <- err
					return
				}
				err = p.Parse()
				if (err == nil) != accept {
					errs <- fmt.Errorf("unexpected verdict on %q: %v", src, err)
				}
			}(src, accept)
		}
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
}

func TestGrammar(t *testing.T) {
	if _, err := NewGrammar(nil); err == nil {
		t.Fatal("a nil grammar must be rejected")
	}
	if _, err := NewGrammar(&spec.CompiledGrammar{}); err == nil {
		t.Fatal("a grammar without a syntactic specification must be rejected")
	}

	gram := compileGrammar(t, "a b", "S -> a S b", "S ->")
	if gram.Terminal(gram.EOF()) != "$" {
		t.Fatalf("unexpected EOF terminal: %v", gram.Terminal(gram.EOF()))
	}
	if gram.NonTerminal(gram.StartSymbol()) != "S" {
		t.Fatalf("unexpected start symbol: %v", gram.NonTerminal(gram.StartSymbol()))
	}
	texts := []string{}
	for prod := 1; prod < len(gram.g.Syntactic.LHSSymbols); prod++ {
		texts = append(texts, gram.ProductionText(prod))
	}
	if strings.Join(texts, "; ") != "S -> a S b; S -> ε" {
		t.Fatalf("unexpected productions: %v", texts)
	}
	if gram.AlternativeSymbolCount(1) != 3 || gram.AlternativeSymbolCount(2) != 0 {
		t.Fatalf("unexpected body lengths: %v, %v", gram.AlternativeSymbolCount(1), gram.AlternativeSymbolCount(2))
	}
	if _, ok := gram.TerminalNum("c"); ok {
		t.Fatal("an undeclared terminal must not be found")
	}
}
