package main

import (
	"errors"
	"fmt"
	"os"
	"runtime"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/recipelang/ladle/tester"
)

var testFlags = struct {
	workers *int
}{}

func init() {
	cmd := &cobra.Command{
		Use:     "test <test file path>|<test directory path>",
		Short:   "Run test cases through both parsers",
		Example: `  ladle test testdata`,
		Args:    cobra.ExactArgs(1),
		RunE:    runTest,
	}
	testFlags.workers = cmd.Flags().IntP("workers", "w", runtime.NumCPU(), "number of test cases running at the same time")
	rootCmd.AddCommand(cmd)
}

func runTest(cmd *cobra.Command, args []string) (retErr error) {
	defer recoverPanic(&retErr)

	cg, _, err := compileRecipe()
	if err != nil {
		return err
	}

	var cs []*tester.TestCaseWithMetadata
	{
		cs = tester.ListTestCases(args[0])
		errOccurred := false
		for _, c := range cs {
			if c.Error != nil {
				fmt.Fprintf(os.Stderr, "Failed to read a test case or a directory: %v\n%v\n", c.FilePath, c.Error)
				errOccurred = true
			}
		}
		if errOccurred {
			return errors.New("Cannot run test")
		}
	}

	r, err := tester.NewRunner(cg, tester.Workers(*testFlags.workers))
	if err != nil {
		return err
	}
	rs := r.Run(cs)
	failed := 0
	for _, res := range rs {
		fmt.Fprintln(os.Stdout, res)
		if res.Error != nil {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("Test failed: %v of %v cases", failed, len(rs))
	}
	pterm.Success.Println(fmt.Sprintf("%v cases passed", len(rs)))
	return nil
}
