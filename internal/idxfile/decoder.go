package idxfile

import "math"

// EmptyOffset is the decoder's "no such cell" sentinel, mirroring the
// original's SIZE_MAX. The materializer treats any cell whose decoded
// length collapses to this value as the empty byte string.
const EmptyOffset = math.MaxUint64

// Decoder resolves (row, column-slot) pairs into absolute byte offsets in
// the mmapped CSV, using only the three mmapped index files. It holds no
// state beyond those mmaps: every call is a pure function of its arguments.
type Decoder struct {
	Newlines []byte
	Anchors  []byte
	Commas   []byte
	Cols     uint64 // body columns; there are Cols+1 comma slots per row
	Width    SlotWidth
}

// anchorValue returns the Value of the anchor whose Col is the greatest
// Col <= slot, scanning the row's anchor run in anchors[ridx.Index:].
// Grounded on LazyCSV_AnchorValueFromValue in the original: a bounded
// linear check against the last anchor (the common case — most rows carry
// exactly one), falling back to a binary search over Col boundaries.
func anchorValue(anchors []byte, ridx RowIndex, slot uint64) uint64 {
	count := ridx.Count
	base := int(ridx.Index / AnchorSize)

	last := AnchorPointAt(anchors, base+int(count)-1)
	if count == 1 || slot >= last.Col {
		return last.Value
	}

	lo, hi := 0, int(count)-1
	for lo <= hi {
		mid := (lo + hi) / 2
		a := AnchorPointAt(anchors, base+mid)
		next := AnchorPointAt(anchors, base+mid+1)
		switch {
		case slot > next.Col:
			lo = mid + 1
		case slot < a.Col:
			hi = mid - 1
		case slot == next.Col:
			return next.Value
		default:
			return a.Value
		}
	}
	return EmptyOffset
}

// valueFromIndex reconstructs the absolute offset for slot within the row
// described by ridx, given that row's comma-slot base cidx. Mirrors
// LazyCSV_ValueFromIndex.
func (d *Decoder) valueFromIndex(slot uint64, ridx RowIndex, cidx []byte) uint64 {
	delta := d.Width.Slot(cidx[slot*uint64(d.Width):])
	anchor := anchorValue(d.Anchors, ridx, slot)
	if anchor == EmptyOffset {
		return EmptyOffset
	}
	return delta + anchor
}

// Bounds returns the [start, end) absolute byte range of the cell at
// (row, col), where row and col are already adjusted for header-skip bias
// and zero-based from the caller. end is the offset just past the field's
// terminator byte.
func (d *Decoder) Bounds(row, col uint64) (start, end uint64) {
	ridx := RowIndexAt(d.Newlines, row)
	cidx := d.Commas[(d.Cols+1)*row*uint64(d.Width):]

	start = d.valueFromIndex(col, ridx, cidx)
	end = d.valueFromIndex(col+1, ridx, cidx)
	return start, end
}

// CellLen turns a [start, end) byte range into the (offset, length) pair the
// materializer consumes. A zero-length region (end == start, or either bound
// is the EmptyOffset sentinel) materializes as empty.
func CellLen(start, end uint64) (offset, length uint64) {
	if start == EmptyOffset || end == EmptyOffset {
		return 0, 0
	}
	length = end - start - 1
	if length == EmptyOffset { // unsigned underflow: end == start
		return 0, 0
	}
	return start, length
}
