package symbol

import (
	"fmt"
	"sort"
)

type SymbolKind string

const (
	KindNil         = SymbolKind("nil")
	KindNonTerminal = SymbolKind("non-terminal")
	KindTerminal    = SymbolKind("terminal")
	KindEmpty       = SymbolKind("empty")
)

func (k SymbolKind) String() string {
	return string(k)
}

type SymbolNum uint16

func (n SymbolNum) Int() int {
	return int(n)
}

// Symbol packs a kind and a number into 16 bits. The number of a terminal is its column in
// the parsing table and the number of a non-terminal is its row.
type Symbol uint16

const (
	maskKindPart    = uint16(0xc000) // 1100 0000 0000 0000
	maskNonTerminal = uint16(0x4000) // 0100 0000 0000 0000
	maskTerminal    = uint16(0x8000) // 1000 0000 0000 0000
	maskEmpty       = uint16(0xc000) // 1100 0000 0000 0000

	maskNumberPart = uint16(0x3fff) // 0011 1111 1111 1111

	SymbolNil   = Symbol(0)                   // 0000 0000 0000 0000
	SymbolEOF   = Symbol(maskTerminal | 0x0)  // 1000 0000 0000 0000: The EOF symbol is treated as a terminal symbol.
	SymbolEmpty = Symbol(maskEmpty | 0x0)     // 1100 0000 0000 0000

	SymbolNameEOF   = "$"
	SymbolNameEmpty = "ε"

	terminalNumMin = SymbolNum(1) // The number 0 is used by the EOF symbol.
	symbolNumMax   = SymbolNum(maskNumberPart)
)

func newSymbol(kind SymbolKind, num SymbolNum) (Symbol, error) {
	if num > symbolNumMax {
		return SymbolNil, fmt.Errorf("a symbol number exceeds the limit; limit: %v, passed: %v", symbolNumMax, num)
	}
	var kindMask uint16
	switch kind {
	case KindNonTerminal:
		kindMask = maskNonTerminal
	case KindTerminal:
		kindMask = maskTerminal
	default:
		return SymbolNil, fmt.Errorf("cannot allocate a symbol of kind %v", kind)
	}
	return Symbol(kindMask | uint16(num)), nil
}

func (s Symbol) String() string {
	var prefix string
	switch s.Kind() {
	case KindNonTerminal:
		prefix = "n"
	case KindTerminal:
		if s == SymbolEOF {
			return "e"
		}
		prefix = "t"
	case KindEmpty:
		return "ε"
	default:
		return "?"
	}
	return fmt.Sprintf("%v%v", prefix, s.Num())
}

func (s Symbol) Kind() SymbolKind {
	switch uint16(s) & maskKindPart {
	case maskNonTerminal:
		return KindNonTerminal
	case maskTerminal:
		return KindTerminal
	case maskEmpty:
		return KindEmpty
	}
	return KindNil
}

func (s Symbol) Num() SymbolNum {
	return SymbolNum(uint16(s) & maskNumberPart)
}

func (s Symbol) Byte() []byte {
	return []byte{byte(uint16(s) >> 8), byte(uint16(s) & 0x00ff)}
}

func (s Symbol) IsNil() bool {
	return s == SymbolNil
}

func (s Symbol) IsEOF() bool {
	return s == SymbolEOF
}

func (s Symbol) IsEmpty() bool {
	return s == SymbolEmpty
}

func (s Symbol) IsTerminal() bool {
	return s.Kind() == KindTerminal
}

func (s Symbol) IsNonTerminal() bool {
	return s.Kind() == KindNonTerminal
}

type SymbolTable struct {
	text2Sym     map[string]Symbol
	sym2Text     map[Symbol]string
	nonTermTexts []string
	termTexts    []string
	nonTermNum   SymbolNum
	termNum      SymbolNum
}

type SymbolTableWriter struct {
	*SymbolTable
}

type SymbolTableReader struct {
	*SymbolTable
}

func NewSymbolTable() *SymbolTable {
	return &SymbolTable{
		text2Sym: map[string]Symbol{
			SymbolNameEOF:   SymbolEOF,
			SymbolNameEmpty: SymbolEmpty,
		},
		sym2Text: map[Symbol]string{
			SymbolEOF:   SymbolNameEOF,
			SymbolEmpty: SymbolNameEmpty,
		},
		termTexts: []string{
			SymbolNameEOF,
		},
		termNum: terminalNumMin,
	}
}

func (t *SymbolTable) Writer() *SymbolTableWriter {
	return &SymbolTableWriter{
		SymbolTable: t,
	}
}

func (t *SymbolTable) Reader() *SymbolTableReader {
	return &SymbolTableReader{
		SymbolTable: t,
	}
}

// RegisterNonTerminalSymbol returns the symbol already bound to text when it is a non-terminal.
func (w *SymbolTableWriter) RegisterNonTerminalSymbol(text string) (Symbol, error) {
	if sym, ok := w.text2Sym[text]; ok {
		if !sym.IsNonTerminal() {
			return SymbolNil, fmt.Errorf("%v is already registered as a %v symbol", text, sym.Kind())
		}
		return sym, nil
	}
	sym, err := newSymbol(KindNonTerminal, w.nonTermNum)
	if err != nil {
		return SymbolNil, err
	}
	w.nonTermNum++
	w.text2Sym[text] = sym
	w.sym2Text[sym] = text
	w.nonTermTexts = append(w.nonTermTexts, text)
	return sym, nil
}

func (w *SymbolTableWriter) RegisterTerminalSymbol(text string) (Symbol, error) {
	if sym, ok := w.text2Sym[text]; ok {
		if !sym.IsTerminal() {
			return SymbolNil, fmt.Errorf("%v is already registered as a %v symbol", text, sym.Kind())
		}
		return sym, nil
	}
	sym, err := newSymbol(KindTerminal, w.termNum)
	if err != nil {
		return SymbolNil, err
	}
	w.termNum++
	w.text2Sym[text] = sym
	w.sym2Text[sym] = text
	w.termTexts = append(w.termTexts, text)
	return sym, nil
}

func (r *SymbolTableReader) ToSymbol(text string) (Symbol, bool) {
	if sym, ok := r.text2Sym[text]; ok {
		return sym, true
	}
	return SymbolNil, false
}

func (r *SymbolTableReader) ToText(sym Symbol) (string, bool) {
	text, ok := r.sym2Text[sym]
	return text, ok
}

// TerminalSymbols returns all terminals, EOF included, ordered by number.
func (r *SymbolTableReader) TerminalSymbols() []Symbol {
	syms := make([]Symbol, 0, r.termNum.Int())
	for sym := range r.sym2Text {
		if !sym.IsTerminal() {
			continue
		}
		syms = append(syms, sym)
	}
	sort.Slice(syms, func(i, j int) bool {
		return syms[i] < syms[j]
	})
	return syms
}

func (r *SymbolTableReader) TerminalTexts() []string {
	return append([]string{}, r.termTexts...)
}

func (r *SymbolTableReader) NonTerminalSymbols() []Symbol {
	syms := make([]Symbol, 0, r.nonTermNum.Int())
	for sym := range r.sym2Text {
		if !sym.IsNonTerminal() {
			continue
		}
		syms = append(syms, sym)
	}
	sort.Slice(syms, func(i, j int) bool {
		return syms[i] < syms[j]
	})
	return syms
}

func (r *SymbolTableReader) NonTerminalTexts() []string {
	return append([]string{}, r.nonTermTexts...)
}

func (r *SymbolTableReader) TerminalCount() int {
	return r.termNum.Int()
}

func (r *SymbolTableReader) NonTerminalCount() int {
	return r.nonTermNum.Int()
}
