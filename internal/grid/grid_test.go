package grid

import (
	"reflect"
	"testing"
)

func btn(label string) Button {
	return Button{Label: label, Kind: ActionOpenLink, Value: "https://example.com/" + label}
}

func sample() Grid {
	return Grid{
		{btn("a"), btn("b")},
		{btn("c")},
	}
}

func TestInsertThenDeleteRestoresGrid(t *testing.T) {
	g := sample()
	cases := []struct{ row, col int }{
		{0, 0}, {0, 1}, {0, 2}, {1, 0}, {1, 1}, {2, 0},
	}
	for _, tc := range cases {
		inserted := InsertCell(g, tc.row, tc.col, btn("x"))
		restored := DeleteCell(inserted, tc.row, tc.col)
		if !reflect.DeepEqual(restored, g) {
			t.Fatalf("insert+delete at (%d,%d) = %v, want %v", tc.row, tc.col, restored, g)
		}
	}
}

func TestInsertCellShiftsRight(t *testing.T) {
	g := InsertCell(sample(), 0, 1, btn("x"))
	want := Grid{
		{btn("a"), btn("x"), btn("b")},
		{btn("c")},
	}
	if !reflect.DeepEqual(g, want) {
		t.Fatalf("grid = %v, want %v", g, want)
	}
}

func TestInsertCellCreatesTrailingRow(t *testing.T) {
	g := InsertCell(sample(), 2, 0, btn("x"))
	if len(g) != 3 || len(g[2]) != 1 || g[2][0].Label != "x" {
		t.Fatalf("grid = %v", g)
	}
}

func TestInsertRowShiftsDown(t *testing.T) {
	g := InsertRow(sample(), 1)
	if len(g) != 3 {
		t.Fatalf("rows = %d", len(g))
	}
	if len(g[1]) != 0 {
		t.Fatalf("inserted row not empty: %v", g[1])
	}
	if g[2][0].Label != "c" {
		t.Fatalf("later row did not shift: %v", g[2])
	}
}

func TestDeleteLastButtonRemovesRow(t *testing.T) {
	g := DeleteCell(sample(), 1, 0)
	want := Grid{{btn("a"), btn("b")}}
	if !reflect.DeepEqual(g, want) {
		t.Fatalf("grid = %v, want %v", g, want)
	}
}

func TestDeleteRenumbersContiguously(t *testing.T) {
	g := Grid{{btn("a"), btn("b"), btn("c")}}
	g = DeleteCell(g, 0, 1)
	if len(g[0]) != 2 || g[0][0].Label != "a" || g[0][1].Label != "c" {
		t.Fatalf("row = %v", g[0])
	}
	if _, ok := g.At(0, 2); ok {
		t.Fatal("expected no cell at col 2 after delete")
	}
}

func TestReplaceCell(t *testing.T) {
	g := ReplaceCell(sample(), 0, 1, btn("z"))
	if g[0][1].Label != "z" {
		t.Fatalf("row = %v", g[0])
	}
	// Out-of-range replace is a no-op.
	g2 := ReplaceCell(sample(), 5, 0, btn("z"))
	if !reflect.DeepEqual(g2, sample()) {
		t.Fatalf("grid = %v", g2)
	}
}

func TestAtStaleCoordinate(t *testing.T) {
	g := sample()
	if _, ok := g.At(1, 1); ok {
		t.Fatal("expected miss for (1,1)")
	}
	if _, ok := g.At(-1, 0); ok {
		t.Fatal("expected miss for negative row")
	}
	if b, ok := g.At(0, 1); !ok || b.Label != "b" {
		t.Fatalf("At(0,1) = %v %v", b, ok)
	}
}

func TestLayoutEmptyGrid(t *testing.T) {
	rows := Layout(nil)
	if len(rows) != 1 || len(rows[0]) != 1 || rows[0][0].Kind != ControlAddFirst {
		t.Fatalf("layout = %v", rows)
	}
}

func TestLayoutShape(t *testing.T) {
	rows := Layout(sample())
	// Per grid row: one strip + one line; plus a bottom strip.
	if len(rows) != 5 {
		t.Fatalf("control rows = %d, want 5", len(rows))
	}

	strip := rows[0]
	if len(strip) != 2 {
		t.Fatalf("row-above strip width = %d, want 2", len(strip))
	}
	for _, c := range strip {
		if c.Kind != ControlAddRowAbove || c.Row != 0 {
			t.Fatalf("strip control = %+v", c)
		}
	}

	line := rows[1]
	if len(line) != 5 {
		t.Fatalf("line width = %d, want 5", len(line))
	}
	wantKinds := []ControlKind{ControlAddCol, ControlCell, ControlAddCol, ControlCell, ControlAddCol}
	for i, c := range line {
		if c.Kind != wantKinds[i] {
			t.Fatalf("line[%d].Kind = %v, want %v", i, c.Kind, wantKinds[i])
		}
	}
	if line[1].Label != "a" || line[3].Label != "b" {
		t.Fatalf("line labels = %v", line)
	}
	if line[4].Col != 2 {
		t.Fatalf("closing insert-col = %+v", line[4])
	}

	bottom := rows[4]
	if len(bottom) != 1 || bottom[0].Kind != ControlAddRowBelow || bottom[0].Row != 2 {
		t.Fatalf("bottom strip = %v", bottom)
	}
}

func TestLayoutDeterministic(t *testing.T) {
	a := Layout(sample())
	b := Layout(sample())
	if !reflect.DeepEqual(a, b) {
		t.Fatal("layout is not deterministic")
	}
}

func TestPreviewPadsWithSpacers(t *testing.T) {
	rows := Preview(sample())
	if len(rows) != 2 {
		t.Fatalf("preview rows = %d", len(rows))
	}
	if len(rows[1]) != 2 {
		t.Fatalf("short row not padded: %v", rows[1])
	}
	if rows[1][1].Kind != ControlSpacer {
		t.Fatalf("pad cell = %+v", rows[1][1])
	}
}
