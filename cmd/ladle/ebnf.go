package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/recipelang/ladle/lang"
)

func init() {
	cmd := &cobra.Command{
		Use:     "ebnf",
		Short:   "Print the Recipe grammar in EBNF",
		Example: `  ladle ebnf > recipe.ebnf`,
		Args:    cobra.NoArgs,
		RunE:    runEBNF,
	}
	rootCmd.AddCommand(cmd)
}

func runEBNF(cmd *cobra.Command, args []string) (retErr error) {
	defer recoverPanic(&retErr)

	g, err := lang.NewGrammar()
	if err != nil {
		return err
	}
	text, err := lang.EBNF(g)
	if err != nil {
		return fmt.Errorf("Cannot render the grammar: %w", err)
	}
	fmt.Fprint(os.Stdout, text)
	return nil
}
