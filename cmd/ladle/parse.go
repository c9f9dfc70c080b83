package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/recipelang/ladle/descent"
	"github.com/recipelang/ladle/driver"
	"github.com/recipelang/ladle/driver/lexer"
	verr "github.com/recipelang/ladle/error"
	"github.com/recipelang/ladle/grammar"
	"github.com/recipelang/ladle/lang"
)

const (
	recognizerLL   = "ll"
	recognizerRD   = "rd"
	recognizerBoth = "both"
)

var parseFlags = struct {
	source      *string
	recognizer  *string
	trace       *bool
	plain       *bool
	tree        *bool
	cst         *bool
	compression *int
	lexer       *string
}{}

func init() {
	cmd := &cobra.Command{
		Use:     "parse",
		Short:   "Parse a Recipe program",
		Example: `  cat src.recipe | ladle parse --trace`,
		Args:    cobra.NoArgs,
		RunE:    runParse,
	}
	parseFlags.source = cmd.Flags().StringP("source", "s", "", "source file path (default stdin)")
	parseFlags.recognizer = cmd.Flags().StringP("recognizer", "r", recognizerLL, "recognizer to run [ll|rd|both]")
	parseFlags.trace = cmd.Flags().Bool("trace", false, "print every step of the table-driven parser")
	parseFlags.plain = cmd.Flags().Bool("plain", false, "print the trace as plain text instead of a table")
	parseFlags.tree = cmd.Flags().Bool("tree", false, "print the syntax tree built by the recursive-descent parser")
	parseFlags.cst = cmd.Flags().Bool("cst", false, "print the concrete syntax tree built by the table-driven parser")
	parseFlags.compression = cmd.Flags().Int("compression", grammar.CompressionLevelMax, "compression level of the parsing table [0|1|2]")
	parseFlags.lexer = cmd.Flags().String("lexer", lexer.BackendMaleeni.String(), "lexer backend [maleeni|lexmachine]")
	rootCmd.AddCommand(cmd)
}

func runParse(cmd *cobra.Command, args []string) (retErr error) {
	defer recoverPanic(&retErr)

	runLL, runRD, err := selectRecognizers(*parseFlags.recognizer)
	if err != nil {
		return err
	}
	if *parseFlags.tree && !runRD {
		return fmt.Errorf("--tree needs the recursive-descent parser; use --recognizer rd or both")
	}
	if *parseFlags.cst && !runLL {
		return fmt.Errorf("--cst needs the table-driven parser; use --recognizer ll or both")
	}

	var src []byte
	sourceName := "stdin"
	{
		var r io.Reader = os.Stdin
		if *parseFlags.source != "" {
			f, err := os.Open(*parseFlags.source)
			if err != nil {
				return fmt.Errorf("Cannot open the source file %s: %w", *parseFlags.source, err)
			}
			defer f.Close()
			r = f
			sourceName = *parseFlags.source
		}
		src, err = io.ReadAll(r)
		if err != nil {
			return err
		}
	}
	withSource := func(err error) error {
		return &verr.SourceError{
			Cause:      err,
			Source:     src,
			SourceName: sourceName,
		}
	}

	toks, err := tokenize(src, *parseFlags.lexer)
	if err != nil {
		return withSource(err)
	}

	var llErr, rdErr error
	if runLL {
		cg, _, err := compileRecipe(grammar.CompressionLevel(*parseFlags.compression))
		if err != nil {
			return err
		}
		gram, err := driver.NewGrammar(cg)
		if err != nil {
			return err
		}
		var opts []driver.ParserOption
		if *parseFlags.trace {
			opts = append(opts, driver.Trace())
		}
		var treeAct *driver.SyntaxTreeActionSet
		if *parseFlags.cst {
			treeAct = driver.NewSyntaxTreeActionSet(gram)
			opts = append(opts, driver.SemanticAction(treeAct))
		}
		p, err := driver.NewParser(gram, toks, lang.Mapper{}, opts...)
		if err != nil {
			return err
		}
		llErr = p.Parse()
		if *parseFlags.trace {
			if err := printSteps(os.Stdout, p.Steps(), *parseFlags.plain); err != nil {
				return err
			}
		}
		if llErr == nil && treeAct != nil {
			driver.PrintTree(os.Stdout, treeAct.CST())
		}
	}
	if runRD {
		var prog *descent.Program
		prog, rdErr = descent.Parse(toks)
		if rdErr == nil && *parseFlags.tree {
			descent.PrintTree(os.Stdout, prog)
		}
	}

	if runLL && runRD && (llErr == nil) != (rdErr == nil) {
		return fmt.Errorf("the parsers disagree on %v:\ntable-driven: %v\nrecursive descent: %v",
			sourceName, verdictText(llErr), verdictText(rdErr))
	}
	if llErr != nil {
		return withSource(llErr)
	}
	if rdErr != nil {
		return withSource(rdErr)
	}
	pterm.Success.Println("accepted")
	return nil
}

func selectRecognizers(name string) (bool, bool, error) {
	switch name {
	case recognizerLL:
		return true, false, nil
	case recognizerRD:
		return false, true, nil
	case recognizerBoth:
		return true, true, nil
	}
	return false, false, fmt.Errorf("unknown recognizer: %v; use ll, rd or both", name)
}

func tokenize(src []byte, backend string) ([]*lexer.Token, error) {
	lex, err := lang.NewLexer(lexer.WithBackend(lexer.Backend(backend)))
	if err != nil {
		return nil, err
	}
	return lex.Tokenize(src)
}

func verdictText(err error) string {
	if err == nil {
		return "accept"
	}
	return err.Error()
}

func printSteps(w io.Writer, steps []*driver.Step, plain bool) error {
	if plain {
		return driver.PrintTrace(w, steps)
	}
	data := pterm.TableData{
		{"#", "STACK", "LOOKAHEAD", "ACTION", "PRODUCTION"},
	}
	for _, s := range steps {
		data = append(data, []string{
			strconv.Itoa(s.Index),
			strings.Join(s.Stack, " "),
			s.Lookahead,
			string(s.Action),
			s.Production,
		})
	}
	pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	return nil
}
