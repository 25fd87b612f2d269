// Package ratings holds the per-user rating table and the logic that merges a
// rating submission into it.
//
// The table mirrors the layout of the rating file: one row per attraction name
// and one column per user. A cell value of 0 means "unrated".
package ratings

import "sort"

// Table is an in-memory copy of the user rating file. It is not safe for
// concurrent use; callers load a fresh table per operation.
type Table struct {
	users []string
	rows  []string
	// index maps an attraction name to its first row.
	index map[string]int
	cells map[string][]float64
}

// NewTable returns an empty table with the given attraction rows.
func NewTable(attractions ...string) *Table {
	t := &Table{
		index: make(map[string]int),
		cells: make(map[string][]float64),
	}
	for _, name := range attractions {
		t.AddAttraction(name)
	}
	return t
}

// Users returns the user columns in file order.
func (t *Table) Users() []string {
	return append([]string(nil), t.users...)
}

// Attractions returns the attraction rows in file order.
func (t *Table) Attractions() []string {
	return append([]string(nil), t.rows...)
}

func (t *Table) Len() int { return len(t.rows) }

func (t *Table) HasUser(user string) bool {
	_, ok := t.cells[user]
	return ok
}

func (t *Table) HasAttraction(name string) bool {
	_, ok := t.index[name]
	return ok
}

// AddAttraction appends a row for name, unrated for every user, and returns
// its row index. Existing rows are returned unchanged.
func (t *Table) AddAttraction(name string) int {
	if i, ok := t.index[name]; ok {
		return i
	}
	return t.AppendRow(name)
}

// AppendRow adds a row even if the name is already present, so duplicate rows
// in a file survive a load/save round trip. Lookups use the first row.
func (t *Table) AppendRow(name string) int {
	i := len(t.rows)
	t.rows = append(t.rows, name)
	if _, ok := t.index[name]; !ok {
		t.index[name] = i
	}
	for user := range t.cells {
		t.cells[user] = append(t.cells[user], 0)
	}
	return i
}

// AddUser creates an all-zero column for user if it does not exist yet.
func (t *Table) AddUser(user string) {
	if t.HasUser(user) {
		return
	}
	t.users = append(t.users, user)
	t.cells[user] = make([]float64, len(t.rows))
}

// Rating returns the user's rating for an attraction, or 0 when the user has
// no column or the attraction has no row.
func (t *Table) Rating(user, attraction string) float64 {
	col, ok := t.cells[user]
	if !ok {
		return 0
	}
	i, ok := t.index[attraction]
	if !ok {
		return 0
	}
	return col[i]
}

// Column returns a copy of the user's ratings keyed by attraction name.
func (t *Table) Column(user string) (map[string]float64, bool) {
	col, ok := t.cells[user]
	if !ok {
		return nil, false
	}
	out := make(map[string]float64, len(t.index))
	for name, i := range t.index {
		out[name] = col[i]
	}
	return out, true
}

// Cell returns the value at a row index for user. Used by the encoder.
func (t *Table) Cell(user string, row int) float64 {
	col, ok := t.cells[user]
	if !ok || row < 0 || row >= len(col) {
		return 0
	}
	return col[row]
}

// SetCell stores a value at a row index, creating the user column if needed.
func (t *Table) SetCell(user string, row int, value float64) {
	t.AddUser(user)
	if row < 0 || row >= len(t.rows) {
		return
	}
	t.cells[user][row] = value
}

// Set stores one rating, creating the user column and attraction row as
// needed. Every row sharing the attraction name is updated.
func (t *Table) Set(user, attraction string, value float64) {
	t.AddUser(user)
	t.AddAttraction(attraction)
	col := t.cells[user]
	for i, name := range t.rows {
		if name == attraction {
			col[i] = value
		}
	}
}

// SetColumn replaces the user's whole column. Attractions missing from values
// are set to 0; names in values without a row get a new row, appended in
// name order.
func (t *Table) SetColumn(user string, values map[string]float64) {
	t.AddUser(user)
	var added []string
	for name := range values {
		if !t.HasAttraction(name) {
			added = append(added, name)
		}
	}
	sort.Strings(added)
	for _, name := range added {
		t.AddAttraction(name)
	}
	col := t.cells[user]
	for i, name := range t.rows {
		col[i] = values[name]
	}
}
