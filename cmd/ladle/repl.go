package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/recipelang/ladle/descent"
	"github.com/recipelang/ladle/driver"
	"github.com/recipelang/ladle/driver/lexer"
	verr "github.com/recipelang/ladle/error"
	"github.com/recipelang/ladle/lang"
)

func init() {
	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Parse Recipe programs interactively",
		Long: `repl reads one program per line and runs both parsers on it.
Commands:
  :trace  toggle the trace of the table-driven parser
  :tree   toggle the syntax tree of the recursive-descent parser
  :quit   leave the REPL (or <ctrl>D)`,
		Args: cobra.NoArgs,
		RunE: runREPL,
	}
	rootCmd.AddCommand(cmd)
}

// intp holds the state of an interactive session.
type intp struct {
	gram  *driver.Grammar
	lex   *lexer.Lexer
	repl  *readline.Instance
	trace bool
	tree  bool
}

func runREPL(cmd *cobra.Command, args []string) (retErr error) {
	defer recoverPanic(&retErr)

	cg, _, err := compileRecipe()
	if err != nil {
		return err
	}
	gram, err := driver.NewGrammar(cg)
	if err != nil {
		return err
	}
	lex, err := lang.NewLexer()
	if err != nil {
		return err
	}
	repl, err := readline.New("ladle> ")
	if err != nil {
		return err
	}
	defer repl.Close()

	in := &intp{
		gram: gram,
		lex:  lex,
		repl: repl,
	}
	pterm.Info.Println("Welcome to ladle; quit with <ctrl>D")
	in.loop()
	fmt.Fprintln(os.Stdout, "Good bye!")
	return nil
}

func (in *intp) loop() {
	for {
		line, err := in.repl.Readline()
		if err != nil { // io.EOF or interrupt
			return
		}
		if line = strings.TrimSpace(line); line == "" {
			continue
		}
		if quit := in.eval(line); quit {
			return
		}
	}
}

// eval runs one line. It returns true when the session is over.
func (in *intp) eval(line string) bool {
	switch line {
	case ":quit":
		return true
	case ":trace":
		in.trace = !in.trace
		pterm.Info.Println(fmt.Sprintf("trace: %v", in.trace))
		return false
	case ":tree":
		in.tree = !in.tree
		pterm.Info.Println(fmt.Sprintf("tree: %v", in.tree))
		return false
	}
	if strings.HasPrefix(line, ":") {
		pterm.Error.Println(fmt.Sprintf("unknown command: %v", line))
		return false
	}

	src := []byte(line)
	err := in.parse(src)
	if err != nil {
		tracer().Debugf("rejected %q: %v", line, err)
		fmt.Fprintln(os.Stdout, renderError(&verr.SourceError{
			Cause:  err,
			Source: src,
		}))
		return false
	}
	pterm.Success.Println("accepted")
	return false
}

func (in *intp) parse(src []byte) error {
	toks, err := in.lex.Tokenize(src)
	if err != nil {
		return err
	}

	var opts []driver.ParserOption
	if in.trace {
		opts = append(opts, driver.Trace())
	}
	p, err := driver.NewParser(in.gram, toks, lang.Mapper{}, opts...)
	if err != nil {
		return err
	}
	llErr := p.Parse()
	if in.trace {
		if err := printSteps(os.Stdout, p.Steps(), false); err != nil {
			return err
		}
	}

	prog, rdErr := descent.Parse(toks)
	if (llErr == nil) != (rdErr == nil) {
		return fmt.Errorf("the parsers disagree:\ntable-driven: %v\nrecursive descent: %v", verdictText(llErr), verdictText(rdErr))
	}
	if llErr != nil {
		return llErr
	}
	if in.tree {
		descent.PrintTree(os.Stdout, prog)
	}
	return nil
}
