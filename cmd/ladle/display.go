package main

import (
	"errors"
	"fmt"
	"os"
	"runtime/debug"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/pterm/pterm"

	verr "github.com/recipelang/ladle/error"
	"github.com/recipelang/ladle/grammar"
	"github.com/recipelang/ladle/lang"
	gspec "github.com/recipelang/ladle/spec/grammar"
)

var (
	errorColor     = lipgloss.Color("#EF4444")
	mutedColor     = lipgloss.Color("#6B7280")
	highlightColor = lipgloss.Color("#F59E0B")

	errorStyle = lipgloss.NewStyle().
			Foreground(errorColor).
			Bold(true)

	// Tabs stay tabs so the caret padding lines up with the echoed line.
	sourceStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			TabWidth(lipgloss.NoTabConversion)

	caretStyle = lipgloss.NewStyle().
			Foreground(highlightColor).
			Bold(true)
)

func initDisplay() {
	pterm.Info.Prefix = pterm.Prefix{
		Text:  "  >>",
		Style: pterm.NewStyle(pterm.BgCyan, pterm.FgBlack),
	}
	pterm.Error.Prefix = pterm.Prefix{
		Text:  "  Error",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}
	pterm.Success.Prefix = pterm.Prefix{
		Text:  "  OK",
		Style: pterm.NewStyle(pterm.BgGreen, pterm.FgBlack),
	}
}

// renderError echoes the offending source line with a caret below the error column when
// the error carries a source.
func renderError(err error) string {
	var srcErr *verr.SourceError
	if !errors.As(err, &srcErr) {
		return errorStyle.Render(err.Error())
	}

	var b strings.Builder
	if srcErr.SourceName != "" {
		b.WriteString(errorStyle.Render(fmt.Sprintf("%v: %v", srcErr.SourceName, srcErr.Cause)))
	} else {
		b.WriteString(errorStyle.Render(srcErr.Cause.Error()))
	}
	pos, ok := verr.PositionOf(srcErr.Cause)
	if !ok {
		return b.String()
	}
	line := srcErr.Line(pos.Row)
	if line == "" {
		return b.String()
	}
	fmt.Fprintf(&b, "\n    %v", sourceStyle.Render(line))
	if pos.Col > 0 {
		fmt.Fprintf(&b, "\n    %v%v", verr.CaretPadding(line, pos.Col), caretStyle.Render("^"))
	}
	return b.String()
}

func printError(err error) {
	fmt.Fprintln(os.Stderr, renderError(err))
}

// recoverPanic turns a panic of a command into its error and dumps the stack.
func recoverPanic(retErr *error) {
	v := recover()
	if v == nil {
		return
	}
	err, ok := v.(error)
	if !ok {
		err = fmt.Errorf("an unexpected error occurred: %v", v)
	}
	fmt.Fprintf(os.Stderr, "%v:\n%v", err, string(debug.Stack()))
	*retErr = err
}

func compileRecipe(opts ...grammar.CompileOption) (*gspec.CompiledGrammar, *gspec.Report, error) {
	g, err := lang.NewGrammar()
	if err != nil {
		return nil, nil, fmt.Errorf("Cannot build the Recipe grammar: %w", err)
	}
	cg, report, err := grammar.Compile(g, opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("Cannot compile the Recipe grammar: %w", err)
	}
	return cg, report, nil
}
