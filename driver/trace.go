package driver

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
)

type Action string

const (
	ActionMatch  = Action("MATCH")
	ActionExpand = Action("EXPAND")
	ActionEmpty  = Action("EMPTY")
	ActionAccept = Action("ACCEPT")
)

// Step is a snapshot taken before the parser acts. Stack lists symbols from bottom to top and
// Lookahead has the form "terminal:lexeme", or just "$" at the end of input.
type Step struct {
	Index      int      `json:"index"`
	Stack      []string `json:"stack"`
	Lookahead  string   `json:"lookahead"`
	Action     Action   `json:"action"`
	Production string   `json:"production,omitempty"`
}

func (s *Step) String() string {
	text := fmt.Sprintf("%v [%v] %v %v", s.Index, strings.Join(s.Stack, " "), s.Lookahead, s.Action)
	if s.Production != "" {
		text += " " + s.Production
	}
	return text
}

// PrintTrace writes one line per step with aligned columns.
func PrintTrace(w io.Writer, steps []*Step) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tSTACK\tLOOKAHEAD\tACTION\tPRODUCTION")
	for _, s := range steps {
		fmt.Fprintf(tw, "%v\t%v\t%v\t%v\t%v\n", s.Index, strings.Join(s.Stack, " "), s.Lookahead, s.Action, s.Production)
	}
	return tw.Flush()
}
