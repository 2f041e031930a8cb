package lazycsv

import "sync/atomic"

// Axis selects which dimension a Sequence walks.
type Axis int

const (
	// AxisRow walks across the columns of one fixed row.
	AxisRow Axis = iota
	// AxisCol walks across the rows of one fixed column.
	AxisCol
)

// Sequence is the row/column axis iterator described by spec.md §4.6: the
// Go analogue of the original's LazyCSV_Iter (row, col, position, stop,
// step, reversed fields, with one of row/col pinned and the other driven by
// position). The original uses a SIZE_MAX sentinel on whichever field is
// not the iteration axis; this carries the same two cases but names them
// with an explicit Axis instead, since Go has no natural sentinel for
// "this field is unused" on a uint64 that reads as clearly.
type Sequence struct {
	reader *Reader

	axis     Axis
	fixed    uint64 // the pinned row (AxisRow) or column (AxisCol)
	position uint64
	stop     uint64
	step     uint64
	reversed bool

	closed bool
}

func newSequence(r *Reader, axis Axis, fixed, position, stop, step uint64, reversed bool) *Sequence {
	atomic.AddInt64(&r.liveIterators, 1)
	return &Sequence{
		reader: r, axis: axis, fixed: fixed,
		position: position, stop: stop, step: step, reversed: reversed,
	}
}

// Close releases this Sequence's claim on its Reader's liveness counter.
// Safe to call more than once. A Sequence that is simply dropped without
// being fully drained or explicitly closed keeps its Reader from releasing
// its mmaps until the process exits or Close is called.
func (s *Sequence) Close() {
	if s.closed {
		return
	}
	s.closed = true
	atomic.AddInt64(&s.reader.liveIterators, -1)
}

// Next advances the iterator and materializes the next cell, mirroring
// LazyCSV_IterNext. The second return value is false once position has
// reached stop, exactly like Python's StopIteration boundary.
func (s *Sequence) Next() (string, bool) {
	if s.position >= s.stop {
		s.Close()
		return "", false
	}

	var row, col uint64
	switch s.axis {
	case AxisRow:
		row = s.fixed
		col = s.axisPosition()
	case AxisCol:
		row = s.axisPosition()
		col = s.fixed
	}

	s.position += s.step

	start, end := s.reader.decoder.Bounds(row, col)
	return s.reader.materialize(start, end), true
}

// axisPosition translates the logical iteration position into the
// underlying row or column, applying the reversed flag the same way
// LazyCSV_IterRow/LazyCSV_IterCol do (mirrored around the axis length). For
// the column axis the header-row bias is added here; for the row axis the
// caller has already folded it into s.fixed.
func (s *Sequence) axisPosition() uint64 {
	switch s.axis {
	case AxisRow:
		if s.reversed {
			return s.reader.cols - 1 - s.position
		}
		return s.position
	default:
		headerBias := uint64(0)
		if !s.reader.skipHeaders {
			headerBias = 1
		}
		if s.reversed {
			return s.reader.rows - 1 - s.position + headerBias
		}
		return s.position + headerBias
	}
}

// ToSlice eagerly materializes every remaining cell, mirroring
// LazyCSV_IterAsList's to_list().
func (s *Sequence) ToSlice() []string {
	out := make([]string, 0, (s.stop-s.position)/max1(s.step))
	for {
		v, ok := s.Next()
		if !ok {
			break
		}
		out = append(out, v)
	}
	return out
}

func max1(v uint64) uint64 {
	if v == 0 {
		return 1
	}
	return v
}
