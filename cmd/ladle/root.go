package main

import (
	"github.com/npillmayer/schuko/tracing"
	_ "github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/spf13/cobra"
)

// tracer traces with key 'ladle.cli'.
func tracer() tracing.Trace {
	return tracing.Select("ladle.cli")
}

var traceKeys = []string{
	"ladle.grammar",
	"ladle.driver",
	"ladle.lexer",
	"ladle.descent",
	"ladle.tester",
	"ladle.cli",
}

var rootFlags = struct {
	traceLevel *string
}{}

var rootCmd = &cobra.Command{
	Use:   "ladle",
	Short: "Analyze and parse Recipe programs with an LL(1) engine",
	Long: `ladle provides the following features:
- Prints the FIRST and FOLLOW sets and the predictive table of the Recipe grammar.
- Parses Recipe programs with a table-driven parser and a recursive-descent parser.
- Runs test cases through both parsers and checks that they agree.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		initDisplay()
		level := tracing.TraceLevelFromString(*rootFlags.traceLevel)
		for _, key := range traceKeys {
			tracing.Select(key).SetTraceLevel(level)
		}
		tracer().Debugf("trace level is %v", *rootFlags.traceLevel)
	},
	SilenceErrors: true,
	SilenceUsage:  true,
}

func init() {
	rootFlags.traceLevel = rootCmd.PersistentFlags().String("trace-level", "Error", "trace level [Debug|Info|Error]")
}

func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		printError(err)
		return err
	}
	return nil
}
