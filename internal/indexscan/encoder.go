package indexscan

import (
	"github.com/csvquery/lazycsv/internal/bufio2"
	"github.com/csvquery/lazycsv/internal/idxfile"
)

// encoder writes the comma/anchor/newline index trio for one row at a time.
// It owns the current row's anchor point and accumulates the RowIndex entry
// that beginRow/endRow publish to the newline file. Grounded on
// LazyCSV_ValueToDisk and the row-bookkeeping block of the original's main
// parse loop (lazycsv.c), adapted from raw buffer writes to the three
// bufio2.Writer sinks, following the familiar "accumulate, flush, finalize
// on Close" shape of a buffered index writer.
type encoder struct {
	width idxfile.SlotWidth

	commas   *bufio2.Writer
	anchors  *bufio2.Writer
	newlines *bufio2.Writer

	anchor      idxfile.AnchorPoint
	rowAnchorAt int64 // byte offset into the anchor file where this row's run began
	rowCount    uint64
}

func newEncoder(width idxfile.SlotWidth, commas, anchors, newlines *bufio2.Writer) *encoder {
	return &encoder{width: width, commas: commas, anchors: anchors, newlines: newlines}
}

// beginRow starts a new row's anchor run with a fresh anchor point at
// (col=0, value=val), matching the anchor the original always writes at the
// start of every row before emitting that row's first comma slot.
func (e *encoder) beginRow(val uint64) error {
	e.rowAnchorAt = e.anchors.Offset()
	e.anchor = idxfile.AnchorPoint{Col: 0, Value: val}
	e.rowCount = 1

	buf := make([]byte, idxfile.AnchorSize)
	idxfile.PutAnchorPoint(buf, e.anchor)
	if _, err := e.anchors.Write(buf); err != nil {
		return err
	}
	return e.emit(val, 0)
}

// emit writes the comma slot for column colIndex holding absolute byte
// offset val, spilling a new anchor first if val - e.anchor.Value would
// overflow the configured slot width. Mirrors LazyCSV_ValueToDisk.
func (e *encoder) emit(val uint64, colIndex uint64) error {
	target := val - e.anchor.Value

	if target > e.width.Max() {
		e.anchor = idxfile.AnchorPoint{Col: colIndex + 1, Value: val}
		buf := make([]byte, idxfile.AnchorSize)
		idxfile.PutAnchorPoint(buf, e.anchor)
		if _, err := e.anchors.Write(buf); err != nil {
			return err
		}
		e.rowCount++
		target = 0
	}

	buf := make([]byte, e.width)
	e.width.PutSlot(buf, target)
	_, err := e.commas.Write(buf)
	return err
}

// endRow publishes the RowIndex record describing the anchor run just
// written, pointing the newline file at (rowAnchorAt, rowCount).
func (e *encoder) endRow() error {
	buf := make([]byte, idxfile.RowIndexSize)
	idxfile.PutRowIndex(buf, idxfile.RowIndex{Index: uint64(e.rowAnchorAt), Count: e.rowCount})
	_, err := e.newlines.Write(buf)
	return err
}
