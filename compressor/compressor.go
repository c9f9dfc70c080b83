package compressor

import (
	"encoding/binary"
	"fmt"
	"sort"
)

// OriginalTable is a dense row-major table of non-negative entries.
type OriginalTable struct {
	entries  []int
	rowCount int
	colCount int
}

func NewOriginalTable(entries []int, colCount int) (*OriginalTable, error) {
	if len(entries) == 0 {
		return nil, fmt.Errorf("entries is empty")
	}
	if colCount <= 0 {
		return nil, fmt.Errorf("colCount must be >=1")
	}
	if len(entries)%colCount != 0 {
		return nil, fmt.Errorf("entries length or column count are incorrect; entries length: %v, column count: %v", len(entries), colCount)
	}

	return &OriginalTable{
		entries:  entries,
		rowCount: len(entries) / colCount,
		colCount: colCount,
	}, nil
}

func (t *OriginalTable) row(r int) []int {
	return t.entries[r*t.colCount : (r+1)*t.colCount]
}

type Compressor interface {
	Compress(orig *OriginalTable) error
	Lookup(row, col int) (int, error)
	OriginalTableSize() (int, int)
}

var (
	_ Compressor = &UniqueEntriesTable{}
	_ Compressor = &RowDisplacementTable{}
)

// UniqueEntriesTable stores every distinct row once. Parsing tables of LL(1) grammars have
// many identical rows because most non-terminals accept few terminals.
type UniqueEntriesTable struct {
	UniqueEntries    []int
	RowNums          []int
	OriginalRowCount int
	OriginalColCount int
}

func NewUniqueEntriesTable() *UniqueEntriesTable {
	return &UniqueEntriesTable{}
}

func (tab *UniqueEntriesTable) Lookup(row, col int) (int, error) {
	if row < 0 || row >= tab.OriginalRowCount || col < 0 || col >= tab.OriginalColCount {
		return 0, fmt.Errorf("indexes are out of range: [%v, %v]", row, col)
	}
	return tab.UniqueEntries[tab.RowNums[row]*tab.OriginalColCount+col], nil
}

func (tab *UniqueEntriesTable) OriginalTableSize() (int, int) {
	return tab.OriginalRowCount, tab.OriginalColCount
}

// UniqueRowCount returns the number of rows UniqueEntries holds.
func (tab *UniqueEntriesTable) UniqueRowCount() int {
	if tab.OriginalColCount == 0 {
		return 0
	}
	return len(tab.UniqueEntries) / tab.OriginalColCount
}

func (tab *UniqueEntriesTable) Compress(orig *OriginalTable) error {
	var uniqueEntries []int
	rowNums := make([]int, orig.rowCount)
	key2RowNum := map[string]int{}
	for r := 0; r < orig.rowCount; r++ {
		row := orig.row(r)
		key := rowKey(row)
		rowNum, ok := key2RowNum[key]
		if !ok {
			rowNum = len(key2RowNum)
			key2RowNum[key] = rowNum
			uniqueEntries = append(uniqueEntries, row...)
		}
		rowNums[r] = rowNum
	}

	tab.UniqueEntries = uniqueEntries
	tab.RowNums = rowNums
	tab.OriginalRowCount = orig.rowCount
	tab.OriginalColCount = orig.colCount

	return nil
}

func rowKey(row []int) string {
	buf := make([]byte, 0, len(row)*binary.MaxVarintLen64)
	for _, v := range row {
		buf = binary.AppendVarint(buf, int64(v))
	}
	return string(buf)
}

// ForbiddenValue marks a slot of Bounds no row owns.
const ForbiddenValue = -1

// RowDisplacementTable overlays sparse rows into one array. Bounds records which row owns
// each slot so a lookup can tell an entry of another row from its own.
type RowDisplacementTable struct {
	OriginalRowCount int
	OriginalColCount int
	EmptyValue       int
	Entries          []int
	Bounds           []int
	RowDisplacement  []int
}

func NewRowDisplacementTable(emptyValue int) *RowDisplacementTable {
	return &RowDisplacementTable{
		EmptyValue: emptyValue,
	}
}

func (tab *RowDisplacementTable) Lookup(row int, col int) (int, error) {
	if row < 0 || row >= tab.OriginalRowCount || col < 0 || col >= tab.OriginalColCount {
		return tab.EmptyValue, fmt.Errorf("indexes are out of range: [%v, %v]", row, col)
	}
	d := tab.RowDisplacement[row]
	if d+col >= len(tab.Bounds) || tab.Bounds[d+col] != row {
		return tab.EmptyValue, nil
	}
	return tab.Entries[d+col], nil
}

func (tab *RowDisplacementTable) OriginalTableSize() (int, int) {
	return tab.OriginalRowCount, tab.OriginalColCount
}

type occupancy struct {
	row  int
	cols []int
}

func (tab *RowDisplacementTable) Compress(orig *OriginalTable) error {
	rows := make([]occupancy, orig.rowCount)
	for r := 0; r < orig.rowCount; r++ {
		rows[r].row = r
		for c, v := range orig.row(r) {
			if v != tab.EmptyValue {
				rows[r].cols = append(rows[r].cols, c)
			}
		}
	}
	// Dense rows are placed first.
	sort.SliceStable(rows, func(i int, j int) bool {
		return len(rows[i].cols) > len(rows[j].cols)
	})

	size := len(orig.entries)
	entries := make([]int, size)
	bounds := make([]int, size)
	for i := 0; i < size; i++ {
		entries[i] = tab.EmptyValue
		bounds[i] = ForbiddenValue
	}
	rowDisplacement := make([]int, orig.rowCount)
	bottom := orig.colCount

	d := 0
	for _, occ := range rows {
		if len(occ.cols) == 0 {
			continue
		}
		for !fits(bounds, d, occ.cols) {
			d++
		}
		for d+orig.colCount > len(entries) {
			entries = append(entries, tab.EmptyValue)
			bounds = append(bounds, ForbiddenValue)
		}
		rowDisplacement[occ.row] = d
		for _, c := range occ.cols {
			entries[d+c] = orig.entries[occ.row*orig.colCount+c]
			bounds[d+c] = occ.row
		}
		if d+orig.colCount > bottom {
			bottom = d + orig.colCount
		}
		d++
	}

	tab.OriginalRowCount = orig.rowCount
	tab.OriginalColCount = orig.colCount
	tab.Entries = entries[:bottom]
	tab.Bounds = bounds[:bottom]
	tab.RowDisplacement = rowDisplacement

	return nil
}

func fits(bounds []int, d int, cols []int) bool {
	for _, c := range cols {
		if d+c >= len(bounds) {
			continue
		}
		if bounds[d+c] != ForbiddenValue {
			return false
		}
	}
	return true
}
