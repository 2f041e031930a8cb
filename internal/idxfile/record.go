// Package idxfile implements the fixed-width on-disk records and the
// random-access decoder that reconstructs absolute CSV byte offsets from
// them. It is the Go analogue of the comma/anchor/newline index trio built
// by package indexscan.
package idxfile

import "encoding/binary"

// AnchorSize is the on-disk size of a single AnchorPoint record.
const AnchorSize = 16

// RowIndexSize is the on-disk size of a single RowIndex record.
const RowIndexSize = 16

// AnchorPoint lets the comma slots of a row store small deltas relative to
// Value instead of full absolute offsets. Col is the column slot at which
// this anchor takes effect; within one row, anchors are written in strictly
// increasing Col order, and every row carries at least one anchor at Col 0.
type AnchorPoint struct {
	Col   uint64
	Value uint64
}

// PutAnchorPoint encodes a into the first AnchorSize bytes of dst.
func PutAnchorPoint(dst []byte, a AnchorPoint) {
	binary.LittleEndian.PutUint64(dst[0:8], a.Col)
	binary.LittleEndian.PutUint64(dst[8:16], a.Value)
}

// AnchorPointAt decodes the AnchorPoint at the given index within a byte
// range holding a contiguous run of anchors (as found in the anchor file).
func AnchorPointAt(anchors []byte, index int) AnchorPoint {
	off := index * AnchorSize
	return AnchorPoint{
		Col:   binary.LittleEndian.Uint64(anchors[off : off+8]),
		Value: binary.LittleEndian.Uint64(anchors[off+8 : off+16]),
	}
}

// RowIndex locates the run of anchors belonging to one CSV row: Index is the
// byte offset into the anchor file where the run begins, Count is the
// number of anchors in the run (always >= 1).
type RowIndex struct {
	Index uint64
	Count uint64
}

// PutRowIndex encodes r into the first RowIndexSize bytes of dst.
func PutRowIndex(dst []byte, r RowIndex) {
	binary.LittleEndian.PutUint64(dst[0:8], r.Index)
	binary.LittleEndian.PutUint64(dst[8:16], r.Count)
}

// RowIndexAt decodes the RowIndex record for row number `row` directly out
// of the memory-mapped newline file.
func RowIndexAt(newlines []byte, row uint64) RowIndex {
	off := row * RowIndexSize
	return RowIndex{
		Index: binary.LittleEndian.Uint64(newlines[off : off+8]),
		Count: binary.LittleEndian.Uint64(newlines[off+8 : off+16]),
	}
}

// SlotWidth is the on-disk byte width of one comma-index slot. The original
// C implementation fixed this at compile time via an INDEX_DTYPE macro
// (uint16_t by default); here it is a runtime Config field instead, since Go
// has no user-facing preprocessor.
type SlotWidth uint8

// Supported slot widths, matching the narrow unsigned integer types the
// original macro could be defined as.
const (
	SlotWidth1 SlotWidth = 1
	SlotWidth2 SlotWidth = 2
	SlotWidth4 SlotWidth = 4
	SlotWidth8 SlotWidth = 8
)

// Valid reports whether w is one of the supported widths.
func (w SlotWidth) Valid() bool {
	switch w {
	case SlotWidth1, SlotWidth2, SlotWidth4, SlotWidth8:
		return true
	}
	return false
}

// Max returns the largest delta that fits in a slot of this width, i.e.
// 2^(8*W) - 1.
func (w SlotWidth) Max() uint64 {
	if w == SlotWidth8 {
		return ^uint64(0)
	}
	return (uint64(1) << (8 * uint(w))) - 1
}

// PutSlot writes the low w bytes of value, little-endian, into dst.
func (w SlotWidth) PutSlot(dst []byte, value uint64) {
	switch w {
	case SlotWidth1:
		dst[0] = byte(value)
	case SlotWidth2:
		binary.LittleEndian.PutUint16(dst, uint16(value))
	case SlotWidth4:
		binary.LittleEndian.PutUint32(dst, uint32(value))
	default:
		binary.LittleEndian.PutUint64(dst, value)
	}
}

// Slot reads a w-byte little-endian unsigned value out of src.
func (w SlotWidth) Slot(src []byte) uint64 {
	switch w {
	case SlotWidth1:
		return uint64(src[0])
	case SlotWidth2:
		return uint64(binary.LittleEndian.Uint16(src))
	case SlotWidth4:
		return uint64(binary.LittleEndian.Uint32(src))
	default:
		return binary.LittleEndian.Uint64(src)
	}
}
