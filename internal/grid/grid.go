// Package grid implements the button grid a post carries: ordered rows
// of ordered button cells, directional insert/delete operations, and
// generation of the editing affordances the composer renders.
package grid

// ActionKind identifies what pressing a finished button does.
type ActionKind string

const (
	// ActionOpenLink opens a URL.
	ActionOpenLink ActionKind = "link"
	// ActionShowAlert pops an alert with stored text.
	ActionShowAlert ActionKind = "alert"
)

// Button is a single cell of the grid.
type Button struct {
	Label string     `json:"label"`
	Kind  ActionKind `json:"kind"`
	Value string     `json:"value"`
}

// Grid is an ordered sequence of rows. Invariants: no row is ever
// empty, and column indices are contiguous per row.
type Grid [][]Button

// Clone returns a deep copy of g.
func (g Grid) Clone() Grid {
	if g == nil {
		return nil
	}
	out := make(Grid, len(g))
	for i, row := range g {
		out[i] = append([]Button(nil), row...)
	}
	return out
}

// Buttons reports the total number of cells.
func (g Grid) Buttons() int {
	n := 0
	for _, row := range g {
		n += len(row)
	}
	return n
}

// At returns the button at (row, col), reporting false when the
// coordinate does not exist. Stale callback taps can carry coordinates
// the grid no longer has; callers fall back to re-rendering.
func (g Grid) At(row, col int) (Button, bool) {
	if row < 0 || row >= len(g) || col < 0 || col >= len(g[row]) {
		return Button{}, false
	}
	return g[row][col], true
}

// InsertRow inserts an empty row at index at; rows at or after that
// index shift down by one. Out-of-range indices clamp to the edges.
func InsertRow(g Grid, at int) Grid {
	if at < 0 {
		at = 0
	}
	if at > len(g) {
		at = len(g)
	}
	out := make(Grid, 0, len(g)+1)
	out = append(out, g[:at]...)
	out = append(out, []Button{})
	out = append(out, g[at:]...)
	return out
}

// InsertCell inserts b into row at column col, shifting later cells in
// that row right by one. When row equals the grid length a fresh
// single-cell row is created.
func InsertCell(g Grid, row, col int, b Button) Grid {
	out := g.Clone()
	if row == len(out) {
		return append(out, []Button{b})
	}
	if row < 0 || row > len(out) {
		return out
	}
	r := out[row]
	if col < 0 {
		col = 0
	}
	if col > len(r) {
		col = len(r)
	}
	r = append(r, Button{})
	copy(r[col+1:], r[col:])
	r[col] = b
	out[row] = r
	return out
}

// ReplaceCell overwrites the button at (row, col) in place.
func ReplaceCell(g Grid, row, col int, b Button) Grid {
	out := g.Clone()
	if row < 0 || row >= len(out) || col < 0 || col >= len(out[row]) {
		return out
	}
	out[row][col] = b
	return out
}

// DeleteCell removes the cell at (row, col), shifting later cells left.
// A row emptied by the deletion is removed and later rows shift up.
func DeleteCell(g Grid, row, col int) Grid {
	out := g.Clone()
	if row < 0 || row >= len(out) || col < 0 || col >= len(out[row]) {
		return out
	}
	r := out[row]
	r = append(r[:col], r[col+1:]...)
	if len(r) == 0 {
		return append(out[:row], out[row+1:]...)
	}
	out[row] = r
	return out
}
