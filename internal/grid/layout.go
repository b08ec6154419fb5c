package grid

// ControlKind enumerates the editing affordances the layout generator
// emits. Spacer is a typed no-op cell used only for visual tiling.
type ControlKind int

const (
	// ControlSpacer is a no-op filler cell.
	ControlSpacer ControlKind = iota
	// ControlAddFirst offers creating the very first button.
	ControlAddFirst
	// ControlAddRowAbove inserts an empty row at Row.
	ControlAddRowAbove
	// ControlAddRowBelow inserts an empty row after the last one; Row
	// carries the insertion index (== grid length).
	ControlAddRowBelow
	// ControlAddCol starts inserting a button at (Row, Col).
	ControlAddCol
	// ControlCell opens the edit menu for the existing button at (Row, Col).
	ControlCell
)

// Control is one rendered affordance of the grid editor.
type Control struct {
	Kind  ControlKind
	Row   int
	Col   int
	Label string
}

// ControlRow is one visual row of controls.
type ControlRow []Control

// Layout generates the editing affordances for g. The output is
// deterministic: the same grid always yields the same control
// coordinates, which is the contract the renderer relies on to map a
// tapped control back to a grid position.
//
// For each grid row the generator emits an "insert row above" strip
// tiled across the row's width, then the row itself as an alternating
// sequence of insert-column controls and cells, opening and closing
// with an insert-column control so a button can land on either edge or
// between any two neighbours. A mirrored "insert row below" strip
// follows the final row. An empty grid collapses to a single
// "add first button" control.
func Layout(g Grid) []ControlRow {
	if len(g) == 0 {
		return []ControlRow{{{Kind: ControlAddFirst}}}
	}

	out := make([]ControlRow, 0, 2*len(g)+1)
	for r, row := range g {
		strip := make(ControlRow, 0, len(row))
		for range row {
			strip = append(strip, Control{Kind: ControlAddRowAbove, Row: r})
		}
		out = append(out, strip)

		line := make(ControlRow, 0, 2*len(row)+1)
		for c, b := range row {
			line = append(line, Control{Kind: ControlAddCol, Row: r, Col: c})
			line = append(line, Control{Kind: ControlCell, Row: r, Col: c, Label: b.Label})
		}
		line = append(line, Control{Kind: ControlAddCol, Row: r, Col: len(row)})
		out = append(out, line)
	}

	last := g[len(g)-1]
	bottom := make(ControlRow, 0, len(last))
	for range last {
		bottom = append(bottom, Control{Kind: ControlAddRowBelow, Row: len(g)})
	}
	out = append(out, bottom)

	return out
}

// Preview renders g as display-only controls, one Control per button.
// Rows shorter than the widest row are padded with spacers so columns
// line up in the preview.
func Preview(g Grid) []ControlRow {
	width := 0
	for _, row := range g {
		if len(row) > width {
			width = len(row)
		}
	}
	out := make([]ControlRow, 0, len(g))
	for r, row := range g {
		line := make(ControlRow, 0, width)
		for c, b := range row {
			line = append(line, Control{Kind: ControlCell, Row: r, Col: c, Label: b.Label})
		}
		for len(line) < width {
			line = append(line, Control{Kind: ControlSpacer})
		}
		out = append(out, line)
	}
	return out
}
