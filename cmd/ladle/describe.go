package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	gspec "github.com/recipelang/ladle/spec/grammar"
)

const (
	formatText = "text"
	formatJSON = "json"
)

var describeFlags = struct {
	format *string
}{}

var describeViews = []string{"summary", "productions", "first", "follow", "table", "conflicts"}

func init() {
	cmd := &cobra.Command{
		Use:   "describe [" + strings.Join(describeViews, "|") + "]",
		Short: "Print the analysis of the Recipe grammar",
		Example: `  ladle describe first
  ladle describe table --format json`,
		Args: cobra.MaximumNArgs(1),
		RunE: runDescribe,
	}
	describeFlags.format = cmd.Flags().StringP("format", "f", formatText, "output format [text|json]")
	rootCmd.AddCommand(cmd)
}

func runDescribe(cmd *cobra.Command, args []string) (retErr error) {
	defer recoverPanic(&retErr)

	view := "summary"
	if len(args) > 0 {
		view = args[0]
	}
	if !isDescribeView(view) {
		return fmt.Errorf("unknown view: %v; use one of %v", view, strings.Join(describeViews, ", "))
	}

	cg, report, err := compileRecipe()
	if err != nil {
		return err
	}

	switch *describeFlags.format {
	case formatJSON:
		return writeViewJSON(os.Stdout, view, cg, report)
	case formatText:
		return writeViewText(view, cg, report)
	}
	return fmt.Errorf("unknown format: %v; use text or json", *describeFlags.format)
}

func isDescribeView(view string) bool {
	for _, v := range describeViews {
		if v == view {
			return true
		}
	}
	return false
}

type summary struct {
	Name             string `json:"name"`
	Fingerprint      string `json:"fingerprint"`
	TerminalCount    int    `json:"terminal_count"`
	NonTerminalCount int    `json:"non_terminal_count"`
	ProductionCount  int    `json:"production_count"`
	ConflictCount    int    `json:"conflict_count"`
}

func genSummary(cg *gspec.CompiledGrammar, report *gspec.Report) (*summary, error) {
	fp, err := cg.Fingerprint()
	if err != nil {
		return nil, err
	}
	return &summary{
		Name:             cg.Name,
		Fingerprint:      fp,
		TerminalCount:    len(report.Terminals),
		NonTerminalCount: len(report.NonTerminals),
		ProductionCount:  len(report.Productions),
		ConflictCount:    len(report.Conflicts),
	}, nil
}

func writeViewJSON(w io.Writer, view string, cg *gspec.CompiledGrammar, report *gspec.Report) error {
	var v interface{}
	switch view {
	case "summary":
		s, err := genSummary(cg, report)
		if err != nil {
			return err
		}
		v = s
	case "productions":
		v = report.Productions
	case "first":
		v = report.First
	case "follow":
		v = report.Follow
	case "table":
		v = report.Table
	case "conflicts":
		v = report.Conflicts
	}
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(w, string(b))
	return nil
}

func writeViewText(view string, cg *gspec.CompiledGrammar, report *gspec.Report) error {
	var data pterm.TableData
	switch view {
	case "summary":
		s, err := genSummary(cg, report)
		if err != nil {
			return err
		}
		data = pterm.TableData{
			{"GRAMMAR", s.Name},
			{"FINGERPRINT", s.Fingerprint},
			{"TERMINALS", strconv.Itoa(s.TerminalCount)},
			{"NON-TERMINALS", strconv.Itoa(s.NonTerminalCount)},
			{"PRODUCTIONS", strconv.Itoa(s.ProductionCount)},
			{"CONFLICTS", strconv.Itoa(s.ConflictCount)},
		}
		pterm.DefaultTable.WithData(data).Render()
		return nil
	case "productions":
		data = pterm.TableData{{"#", "PRODUCTION"}}
		for _, p := range report.Productions {
			rhs := "ε"
			if len(p.RHS) > 0 {
				rhs = strings.Join(p.RHS, " ")
			}
			data = append(data, []string{strconv.Itoa(p.Number), p.LHS + " -> " + rhs})
		}
	case "first":
		data = setTable("FIRST", report.First)
	case "follow":
		data = setTable("FOLLOW", report.Follow)
	case "table":
		data = pterm.TableData{{"NON-TERMINAL", "TERMINAL", "#", "PRODUCTION"}}
		for _, e := range report.Table {
			data = append(data, []string{e.NonTerminal, e.Terminal, strconv.Itoa(e.Production), e.Rendering})
		}
	case "conflicts":
		if !report.HasConflicts() {
			pterm.Success.Println("the grammar is LL(1)")
			return nil
		}
		data = pterm.TableData{{"NON-TERMINAL", "TERMINAL", "ADOPTED", "DROPPED"}}
		for _, c := range report.Conflicts {
			data = append(data, []string{
				c.NonTerminal,
				c.Terminal,
				strconv.Itoa(c.AdoptedProduction),
				strconv.Itoa(c.DroppedProduction),
			})
		}
	}
	pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	return nil
}

func setTable(title string, entries []*gspec.SetEntry) pterm.TableData {
	data := pterm.TableData{{"SYMBOL", title}}
	for _, e := range entries {
		data = append(data, []string{e.Symbol, strings.Join(e.Members, " ")})
	}
	return data
}
