package idxfile

import "testing"

// buildSingleRowIndex lays out the three index files for one body row whose
// absolute byte range starts at rowStart and whose cols+1 comma slots
// (as absolute offsets, not yet deltas) are given by absSlots. Every slot is
// relative to a single anchor at (col 0, rowStart), mirroring the common
// case where a row's total length stays well under the slot width's range.
func buildSingleRowIndex(t *testing.T, width SlotWidth, rowStart uint64, absSlots []uint64) (newlines, anchors, commas []byte) {
	t.Helper()

	anchors = make([]byte, AnchorSize)
	PutAnchorPoint(anchors, AnchorPoint{Col: 0, Value: rowStart})

	newlines = make([]byte, RowIndexSize)
	PutRowIndex(newlines, RowIndex{Index: 0, Count: 1})

	commas = make([]byte, len(absSlots)*int(width))
	for i, abs := range absSlots {
		width.PutSlot(commas[i*int(width):], abs-rowStart)
	}
	return newlines, anchors, commas
}

func TestDecoderBoundsSingleAnchor(t *testing.T) {
	// Row "1,2,3\n" starting at absolute offset 100.
	newlines, anchors, commas := buildSingleRowIndex(t, SlotWidth2, 100, []uint64{100, 102, 104, 106})

	d := &Decoder{Newlines: newlines, Anchors: anchors, Commas: commas, Cols: 3, Width: SlotWidth2}

	cases := []struct {
		col         uint64
		start, end  uint64
		off, length uint64
	}{
		{0, 100, 102, 100, 1},
		{1, 102, 104, 102, 1},
		{2, 104, 106, 104, 1},
	}
	for _, c := range cases {
		start, end := d.Bounds(0, c.col)
		if start != c.start || end != c.end {
			t.Fatalf("Bounds(0,%d) = (%d,%d), want (%d,%d)", c.col, start, end, c.start, c.end)
		}
		off, length := CellLen(start, end)
		if off != c.off || length != c.length {
			t.Fatalf("CellLen(%d,%d) = (%d,%d), want (%d,%d)", start, end, off, length, c.off, c.length)
		}
	}
}

func TestDecoderBoundsMultipleAnchors(t *testing.T) {
	// A row with two anchors: the delta from the second slot to the third
	// would overflow a SlotWidth1 (max 255), forcing a spill.
	const width = SlotWidth1
	anchors := make([]byte, AnchorSize*2)
	PutAnchorPoint(anchors[0:], AnchorPoint{Col: 0, Value: 1000})
	PutAnchorPoint(anchors[AnchorSize:], AnchorPoint{Col: 2, Value: 1300})

	newlines := make([]byte, RowIndexSize)
	PutRowIndex(newlines, RowIndex{Index: 0, Count: 2})

	// slots: col0 -> anchor0 (delta 0), col1 -> anchor0 (delta 200),
	// col2 -> anchor1 (delta 0), col3 -> anchor1 (delta 5).
	commas := make([]byte, 4)
	width.PutSlot(commas[0:1], 0)
	width.PutSlot(commas[1:2], 200)
	width.PutSlot(commas[2:3], 0)
	width.PutSlot(commas[3:4], 5)

	d := &Decoder{Newlines: newlines, Anchors: anchors, Commas: commas, Cols: 3, Width: width}

	start, end := d.Bounds(0, 0)
	if start != 1000 || end != 1200 {
		t.Fatalf("Bounds(0,0) = (%d,%d), want (1000,1200)", start, end)
	}
	start, end = d.Bounds(0, 1)
	if start != 1200 || end != 1300 {
		t.Fatalf("Bounds(0,1) = (%d,%d), want (1200,1300)", start, end)
	}
	start, end = d.Bounds(0, 2)
	if start != 1300 || end != 1305 {
		t.Fatalf("Bounds(0,2) = (%d,%d), want (1300,1305)", start, end)
	}
}

func TestCellLenEmptySentinel(t *testing.T) {
	if off, length := CellLen(EmptyOffset, 5); off != 0 || length != 0 {
		t.Fatalf("CellLen(EmptyOffset, 5) = (%d,%d), want (0,0)", off, length)
	}
	if off, length := CellLen(5, EmptyOffset); off != 0 || length != 0 {
		t.Fatalf("CellLen(5, EmptyOffset) = (%d,%d), want (0,0)", off, length)
	}
	if off, length := CellLen(10, 10); off != 0 || length != 0 {
		t.Fatalf("CellLen(10,10) = (%d,%d), want (0,0) (zero-length underflow)", off, length)
	}
}
