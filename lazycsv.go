// Package lazycsv implements a lazy, memory-mapped, columnar-accessible CSV
// reader: one streaming pass over a CSV file builds three compact index
// files on disk, after which any cell, row, or column is reachable in O(1)
// time without ever loading the whole file into memory.
package lazycsv

import (
	"os"
	"sync/atomic"

	"github.com/csvquery/lazycsv/internal/idxfile"
	"github.com/csvquery/lazycsv/internal/indexscan"
)

// Reader is an indexed, memory-mapped view of one CSV file. Grounded on the
// teacher's NewScanner/Close open-mmap-close lifecycle
// (internal/indexer/scanner.go), generalized from one mmapped file to four
// (the CSV plus the three index files) and paired with index construction
// up front instead of on first use.
type Reader struct {
	Headers []string
	rows    uint64
	cols    uint64

	csv      *idxfile.MappedFile
	commas   *idxfile.MappedFile
	anchors  *idxfile.MappedFile
	newlines *idxfile.MappedFile

	decoder *idxfile.Decoder
	cache   *byteCache

	quotechar   byte
	unquote     bool
	skipHeaders bool

	scratchDir string

	liveIterators int64
	closed        bool
}

// Open indexes path and returns a Reader over it. The three index files are
// written into a uniquely named scratch subdirectory of cfg.IndexDir (or
// os.TempDir() if unset); that directory is removed by Close.
func Open(path string, cfg Config) (*Reader, error) {
	if cfg.BufferSize < 0 {
		return nil, &IOError{Op: "validate config", Err: ErrInvalidArgument}
	}
	cfg = cfg.withDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	csv, err := idxfile.OpenMapped(path)
	if err != nil {
		return nil, ioError("open csv", err)
	}

	indexDir := cfg.IndexDir
	if indexDir == "" {
		indexDir = os.TempDir()
	}

	build, err := indexscan.Run(csv.Data, path, indexscan.BuildOptions{
		Delimiter:  cfg.Delimiter,
		Quotechar:  cfg.Quotechar,
		Width:      cfg.SlotWidth,
		BufferSize: cfg.BufferSize,
		ScratchDir: indexDir,
		Warn:       cfg.Warn,
	})
	if err != nil {
		csv.Close()
		return nil, ioError("build index", err)
	}

	commas, err := idxfile.OpenMapped(build.CommaPath)
	if err != nil {
		csv.Close()
		os.RemoveAll(build.Dir)
		return nil, ioError("map comma index", err)
	}
	anchors, err := idxfile.OpenMapped(build.AnchorPath)
	if err != nil {
		csv.Close()
		commas.Close()
		os.RemoveAll(build.Dir)
		return nil, ioError("map anchor index", err)
	}
	newlines, err := idxfile.OpenMapped(build.NewlinePath)
	if err != nil {
		csv.Close()
		commas.Close()
		anchors.Close()
		os.RemoveAll(build.Dir)
		return nil, ioError("map newline index", err)
	}

	decoder := &idxfile.Decoder{
		Newlines: newlines.Data,
		Anchors:  anchors.Data,
		Commas:   commas.Data,
		Cols:     build.Stats.Cols,
		Width:    cfg.SlotWidth,
	}

	r := &Reader{
		rows:        build.Stats.TotalRows - 1,
		cols:        build.Stats.Cols,
		csv:         csv,
		commas:      commas,
		anchors:     anchors,
		newlines:    newlines,
		decoder:     decoder,
		cache:       newByteCache(),
		quotechar:   cfg.Quotechar,
		unquote:     !cfg.KeepQuotes,
		skipHeaders: cfg.SkipHeaders,
		scratchDir:  build.Dir,
	}
	if cfg.SkipHeaders {
		r.rows++
	}

	if !cfg.SkipHeaders {
		r.Headers = make([]string, r.cols)
		for i := uint64(0); i < r.cols; i++ {
			start, end := decoder.Bounds(0, i)
			r.Headers[i] = r.materialize(start, end)
		}
	} else {
		r.Headers = []string{}
	}

	return r, nil
}

// Rows returns the number of data rows, excluding the header row unless
// Config.SkipHeaders was set.
func (r *Reader) Rows() uint64 { return r.rows }

// Cols returns the number of fields per row.
func (r *Reader) Cols() uint64 { return r.cols }

func (r *Reader) materialize(start, end uint64) string {
	return materialize(r.csv.Data, r.cache, r.quotechar, r.unquote, start, end)
}

func (r *Reader) headerBias() uint64 {
	if r.skipHeaders {
		return 0
	}
	return 1
}

// Close unmaps the CSV and the three index files and removes their scratch
// directory. It returns ErrReaderBusy without closing anything if any
// Sequence created from this Reader has not yet been closed or fully
// drained — mirroring the explicit-Close discipline the teacher uses around
// its Scanner, generalized to many concurrently open iterators via an
// atomic liveness counter instead of a single owner.
func (r *Reader) Close() error {
	if r.closed {
		return nil
	}
	if atomic.LoadInt64(&r.liveIterators) > 0 {
		return ErrReaderBusy
	}

	r.closed = true

	var firstErr error
	for _, m := range []*idxfile.MappedFile{r.csv, r.commas, r.anchors, r.newlines} {
		if err := m.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if err := os.RemoveAll(r.scratchDir); err != nil && firstErr == nil {
		firstErr = err
	}
	if firstErr != nil {
		return ioError("close reader", firstErr)
	}
	return nil
}

func translateIndex(i int64, n uint64) (uint64, bool) {
	if i < 0 {
		i += int64(n)
	}
	if i < 0 || uint64(i) >= n {
		return 0, false
	}
	return uint64(i), true
}

// Get returns the single cell at (row, col). Negative indices count back
// from the end, matching LazyCSV_GetValue's translation.
func (r *Reader) Get(row, col int64) (string, error) {
	rr, ok := translateIndex(row, r.rows)
	if !ok {
		return "", ErrBoundary
	}
	cc, ok := translateIndex(col, r.cols)
	if !ok {
		return "", ErrBoundary
	}

	start, end := r.decoder.Bounds(rr+r.headerBias(), cc)
	return r.materialize(start, end), nil
}

// Row returns an iterator over the columns of the given row. reversed
// walks from the last column to the first.
func (r *Reader) Row(row int64, reversed bool) (*Sequence, error) {
	rr, ok := translateIndex(row, r.rows)
	if !ok {
		return nil, ErrBoundary
	}
	return newSequence(r, AxisRow, rr+r.headerBias(), 0, r.cols, 1, reversed), nil
}

// Col returns an iterator over the rows of the given column. reversed walks
// from the last row to the first.
func (r *Reader) Col(col int64, reversed bool) (*Sequence, error) {
	cc, ok := translateIndex(col, r.cols)
	if !ok {
		return nil, ErrBoundary
	}
	return newSequence(r, AxisCol, cc, 0, r.rows, 1, reversed), nil
}

// Range describes a Python-style slice: Start/Stop default to the full axis
// when nil, negative values count from the end, and a negative Step
// reverses the walk. It backs SliceRows/SliceCols, the Get-adjacent
// counterpart to Get for ranges instead of single indices.
type Range struct {
	Start *int64
	Stop  *int64
	Step  int64
}

func resolveRange(axisLen uint64, rng Range) (position, stop, step uint64, reversed bool, err error) {
	n := int64(axisLen)

	st := rng.Step
	if st == 0 {
		st = 1
	}

	startSet := rng.Start != nil
	stopSet := rng.Stop != nil

	start := int64(0)
	if startSet {
		start = *rng.Start
	}
	stopVal := n
	if stopSet {
		stopVal = *rng.Stop
	}

	if start < 0 {
		start = n + start
	}
	if stopVal < 0 {
		stopVal = n + stopVal
	}

	if st < 0 {
		reversed = true
		step = uint64(-st)
		if startSet {
			start = n - start - 1
		}
		if stopSet {
			stopVal = n - stopVal - 1
		}
	} else {
		step = uint64(st)
	}

	if start < 0 || stopVal < 0 {
		return 0, 0, 0, false, ErrBoundary
	}

	return uint64(start), uint64(stopVal), step, reversed, nil
}

// SliceRows iterates column col across the row range described by rng,
// the (slice-row, fixed-col) indexing case of the original's __getitem__.
func (r *Reader) SliceRows(rng Range, col int64) (*Sequence, error) {
	cc, ok := translateIndex(col, r.cols)
	if !ok {
		return nil, ErrBoundary
	}
	position, stop, step, reversed, err := resolveRange(r.rows, rng)
	if err != nil {
		return nil, err
	}
	return newSequence(r, AxisCol, cc, position, stop, step, reversed), nil
}

// SliceCols iterates row row across the column range described by rng, the
// (fixed-row, slice-col) indexing case of the original's __getitem__.
func (r *Reader) SliceCols(row int64, rng Range) (*Sequence, error) {
	rr, ok := translateIndex(row, r.rows)
	if !ok {
		return nil, ErrBoundary
	}
	position, stop, step, reversed, err := resolveRange(r.cols, rng)
	if err != nil {
		return nil, err
	}
	return newSequence(r, AxisRow, rr+r.headerBias(), position, stop, step, reversed), nil
}
