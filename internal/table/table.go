package table

import (
	"github.com/idveil/idveil/internal/shift"
)

// Row maps column names to cell values. Absent keys read as the empty
// string.
type Row map[string]string

// Table is an ordered set of named columns over an ordered set of rows.
// Name carries the worksheet or database table name; it is empty for
// formats with a single unnamed table such as csv.
type Table struct {
	Name    string
	Columns []string
	Rows    []Row
}

func New(name string, columns []string) *Table {
	cols := make([]string, len(columns))
	copy(cols, columns)
	return &Table{Name: name, Columns: cols}
}

func (t *Table) HasColumn(name string) bool {
	return t.columnIndex(name) >= 0
}

func (t *Table) AppendRow(r Row) {
	t.Rows = append(t.Rows, r)
}

func (t *Table) columnIndex(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// insertColumnAfter splices name into the column order immediately to the
// right of after. No-op when after is absent.
func (t *Table) insertColumnAfter(after, name string) {
	idx := t.columnIndex(after)
	if idx < 0 {
		return
	}
	t.Columns = append(t.Columns, "")
	copy(t.Columns[idx+2:], t.Columns[idx+1:])
	t.Columns[idx+1] = name
}

// Mapping relates each source column name to the derived column it
// produces. Matching is exact and case-sensitive.
type Mapping map[string]string

// DefaultMapping returns the built-in identifier columns for a direction:
// forward appends _sanitized to each source, backward recovers the
// original values into the fixed _desanitized names.
func DefaultMapping(dir shift.Direction) Mapping {
	if dir == shift.Backward {
		return Mapping{
			"external_id_sanitized": "external_desanitized",
			"internal_id_sanitized": "internal_desanitized",
		}
	}
	return Mapping{
		"external_id": "external_id_sanitized",
		"internal_id": "internal_id_sanitized",
	}
}

// Augment adds one derived column per mapped source column present in t,
// inserted immediately to the right of its source, with values produced by
// shifting the source value in the given direction. Source columns are
// never modified and the relative order of unrelated columns is kept. A
// table carrying none of the source columns comes back untouched. A
// derived column that already exists keeps its position and has its values
// recomputed, so re-running a batch over its own output does not duplicate
// columns.
func Augment(t *Table, m Mapping, dir shift.Direction) {
	for _, src := range matchedSources(t, m) {
		derived := m[src]
		if !t.HasColumn(derived) {
			t.insertColumnAfter(src, derived)
		}
		codec := shift.NewCodec(dir)
		for _, row := range t.Rows {
			row[derived] = codec.Transform(row[src])
		}
	}
}

// matchedSources returns the mapped source columns present in t, in column
// order so insertion positions are deterministic.
func matchedSources(t *Table, m Mapping) []string {
	var out []string
	for _, c := range t.Columns {
		if _, ok := m[c]; ok {
			out = append(out, c)
		}
	}
	return out
}
