package feature

import (
	"iter"
	"strings"

	messages "github.com/cucumber/messages/go/v21"
)

// Row is one data row of a step table.
type Row struct {
	cells   []string
	headers []string
}

// Get returns the cell under the named column (case-insensitive), or an
// empty string.
func (r Row) Get(col string) string {
	for i, h := range r.headers {
		if strings.EqualFold(h, col) && i < len(r.cells) {
			return r.cells[i]
		}
	}
	return ""
}

// Cell returns the cell at index, or an empty string when out of range.
func (r Row) Cell(index int) string {
	if index < 0 || index >= len(r.cells) {
		return ""
	}
	return r.cells[index]
}

// Values returns a copy of the cells.
func (r Row) Values() []string {
	return append([]string(nil), r.cells...)
}

// Table is a data table attached to a step. The first row is the header.
type Table struct {
	headers []string
	rows    []Row
}

// NewTable creates a Table from raw cells; data[0] is the header row.
func NewTable(data [][]string) *Table {
	t := &Table{}
	if len(data) == 0 {
		return t
	}

	t.headers = append([]string(nil), data[0]...)
	for _, cells := range data[1:] {
		t.rows = append(t.rows, Row{cells: append([]string(nil), cells...), headers: t.headers})
	}
	return t
}

// newTableFromPickle converts a compiled pickle table. A nil table yields nil.
func newTableFromPickle(pt *messages.PickleTable) *Table {
	if pt == nil {
		return nil
	}

	data := make([][]string, 0, len(pt.Rows))
	for _, row := range pt.Rows {
		cells := make([]string, 0, len(row.Cells))
		for _, cell := range row.Cells {
			cells = append(cells, cell.Value)
		}
		data = append(data, cells)
	}
	return NewTable(data)
}

// Headers returns a copy of the header row.
func (t *Table) Headers() []string {
	return append([]string(nil), t.headers...)
}

// Len returns the number of data rows, excluding the header.
func (t *Table) Len() int {
	return len(t.rows)
}

// Rows iterates over the data rows. The index starts at 0 for the first row
// after the header.
//
//	for i, row := range table.Rows() {
//	    fmt.Println(i, row.Get("name"))
//	}
func (t *Table) Rows() iter.Seq2[int, Row] {
	return func(yield func(int, Row) bool) {
		for i, row := range t.rows {
			if !yield(i, row) {
				return
			}
		}
	}
}

// Pairs reads a two column table as name/value pairs, header included, in
// table order. It suits vertical tables such as
//
//	| user     | doug   |
//	| password | secret |
func (t *Table) Pairs() [][2]string {
	pairs := make([][2]string, 0, len(t.rows)+1)
	all := append([]Row{{cells: t.headers}}, t.rows...)
	for _, row := range all {
		pairs = append(pairs, [2]string{row.Cell(0), row.Cell(1)})
	}
	return pairs
}
