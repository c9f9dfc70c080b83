package grammar

import (
	"fmt"

	"github.com/cnf/structhash"
)

// CompiledGrammar is the read-only artifact every parser run shares.
type CompiledGrammar struct {
	Name      string         `json:"name"`
	Syntactic *SyntacticSpec `json:"syntactic"`
}

type RowDisplacementTable struct {
	OriginalRowCount int   `json:"original_row_count"`
	OriginalColCount int   `json:"original_col_count"`
	EmptyValue       int   `json:"empty_value"`
	Entries          []int `json:"entries"`
	Bounds           []int `json:"bounds"`
	RowDisplacement  []int `json:"row_displacement"`
}

type UniqueEntriesTable struct {
	UniqueEntries             *RowDisplacementTable `json:"unique_entries,omitempty"`
	UncompressedUniqueEntries []int                 `json:"uncompressed_unique_entries,omitempty"`
	RowNums                   []int                 `json:"row_nums"`
	OriginalRowCount          int                   `json:"original_row_count"`
	OriginalColCount          int                   `json:"original_col_count"`
}

// SyntacticSpec holds the predictive table. Symbols in production bodies are encoded as
// follows: a terminal t is t's number + 1, a non-terminal n is -(n's number + 1), and ε is 0.
type SyntacticSpec struct {
	// Table has NonTerminalCount rows and TerminalCount columns. A cell holds a production
	// number, or 0 when the cell is empty. Exactly one of Table and UncompressedTable is set.
	Table             *UniqueEntriesTable `json:"table,omitempty"`
	UncompressedTable []int               `json:"uncompressed_table,omitempty"`

	StartSymbol      int      `json:"start_symbol"`
	EOFSymbol        int      `json:"eof_symbol"`
	Terminals        []string `json:"terminals"`
	TerminalCount    int      `json:"terminal_count"`
	NonTerminals     []string `json:"non_terminals"`
	NonTerminalCount int      `json:"non_terminal_count"`

	// Index 0 of the following slices is unused because production numbers start at 1.
	LHSSymbols         []int   `json:"lhs_symbols"`
	RHSSymbols         [][]int `json:"rhs_symbols"`
	AlternativeSymbols []int   `json:"alternative_symbol_counts"`
}

func EncodeTerminal(num int) int {
	return num + 1
}

func EncodeNonTerminal(num int) int {
	return -(num + 1)
}

// DecodeSymbol reverses EncodeTerminal and EncodeNonTerminal. isEmpty is true for ε.
func DecodeSymbol(v int) (num int, isTerminal bool, isEmpty bool) {
	switch {
	case v == 0:
		return 0, false, true
	case v > 0:
		return v - 1, true, false
	default:
		return -v - 1, false, false
	}
}

// Fingerprint hashes the whole compiled grammar. Two compilations of the same grammar have
// the same fingerprint.
func (g *CompiledGrammar) Fingerprint() (string, error) {
	h, err := structhash.Hash(g, 1)
	if err != nil {
		return "", fmt.Errorf("failed to hash a compiled grammar: %w", err)
	}
	return h, nil
}
