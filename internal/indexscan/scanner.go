// Package indexscan implements the one-pass CSV scan that builds the
// comma/anchor/newline index trio consumed by internal/idxfile's decoder.
package indexscan

import (
	"github.com/csvquery/lazycsv/internal/idxfile"
)

const (
	lineFeed       = '\n'
	carriageReturn = '\r'
)

// newlineUnset marks that no row terminator has been observed yet; once set,
// every row in the file is required to use the same style (bare LF, bare
// CR, or CRLF), matching the original's single process-wide `newline` field.
const newlineUnset = 0

// Options configures one scan pass. Delimiter and Quotechar are single
// bytes, matching the original's restriction to ASCII dialect characters.
type Options struct {
	Delimiter byte
	Quotechar byte
	Width     idxfile.SlotWidth
	Warn      func(Warning)
}

// WarningKind distinguishes the two row-shape warnings a scan can raise.
type WarningKind int

const (
	// WarnColumnOverflow fires the first time a row carries more fields
	// than the header row; the extra fields are truncated.
	WarnColumnOverflow WarningKind = iota + 1
	// WarnColumnUnderflow fires the first time a row carries fewer fields
	// than the header row; the missing fields are filled with empty values.
	WarnColumnUnderflow
)

// Warning is delivered at most once per Kind during a single scan.
type Warning struct {
	Kind    WarningKind
	Message string
}

// Stats summarizes the shape of the CSV discovered during the scan.
// TotalRows counts every physical row in the file, header line included;
// the caller decides whether to subtract one for a header row, since that
// is a presentation policy, not a property of the scan itself.
type Stats struct {
	TotalRows uint64
	Cols      uint64 // fields per row
	Newline   byte   // '\n', '\r', '\r'+'\n' (23) for CRLF, or 0 if no terminator was seen
}

// Scan performs the single forward pass over data, a mmapped CSV, writing
// index records through enc. It mirrors the main parse loop of the original
// lazycsv.c byte for byte: the quoted flag, the cm1/cm2 two-byte lookback
// used to tell a bare LF from the LF half of a CRLF pair, and the
// overflow/underflow row-shape handling.
func Scan(data []byte, opts Options, enc *encoder) (Stats, error) {
	n := len(data)

	quotes := newWordBitmap(n)
	delims := newWordBitmap(n)
	newlines := newWordBitmap(n)
	scanCandidates(data, opts.Quotechar, opts.Delimiter, quotes, delims, newlines)

	var (
		quoted    bool
		cm1       byte = lineFeed
		cm2       byte
		cols           = ^uint64(0)
		rowIndex  uint64
		colIndex  uint64
		newline   byte = newlineUnset
		overflow       = ^uint64(0)
		warnedOver, warnedUnder bool
	)

	warn := func(kind WarningKind, msg string) {
		if opts.Warn == nil {
			return
		}
		opts.Warn(Warning{Kind: kind, Message: msg})
	}

	i := 0
	for i < n {
		if overflow != ^uint64(0) && uint64(i) < overflow {
			i++
			continue
		}

		// Fast path: an entire unquoted word with no candidate byte and no
		// possibility of a row-start trigger (colIndex != 0 rules that out)
		// can be skipped in one step, mirroring the teacher's word-at-a-time
		// bitmap scan (internal/simd.Scan) adapted to a sequential pass.
		if !quoted && colIndex != 0 {
			word := i / 64
			if quotes[word]|delims[word]|newlines[word] == 0 {
				wordEnd := (word + 1) * 64
				if wordEnd > n {
					wordEnd = n
				}
				if wordEnd > i {
					cm1 = data[wordEnd-1]
					if wordEnd-2 >= i {
						cm2 = data[wordEnd-2]
					}
					i = wordEnd
					continue
				}
			}
		}

		c := data[i]

		if colIndex == 0 && (cm1 == lineFeed || cm1 == carriageReturn) && cm2 != carriageReturn {
			val := uint64(i)
			if newline == carriageReturn+lineFeed {
				val = uint64(i) + 1
			}
			if err := enc.beginRow(val); err != nil {
				return Stats{}, err
			}
		}

		switch {
		case c == opts.Quotechar:
			quoted = !quoted

		case !quoted && c == opts.Delimiter:
			val := uint64(i) + 1
			if err := enc.emit(val, colIndex); err != nil {
				return Stats{}, err
			}
			if cols == ^uint64(0) || colIndex < cols {
				colIndex++
			} else {
				if !warnedOver {
					warn(WarnColumnOverflow, "column overflow encountered while parsing CSV, extra values will be truncated")
					warnedOver = true
				}
				overflow = uint64(i)
				for overflow < uint64(n) && data[overflow] != lineFeed && data[overflow] != carriageReturn {
					overflow++
				}
			}

		case !quoted && c == lineFeed && cm1 == carriageReturn:
			// second half of a CRLF pair, already accounted for

		case !quoted && (c == carriageReturn || c == lineFeed):
			val := uint64(i) + 1

			if overflow == ^uint64(0) {
				if err := enc.emit(val, colIndex); err != nil {
					return Stats{}, err
				}
			} else {
				overflow = ^uint64(0)
			}

			if rowIndex == 0 {
				cols = colIndex
			} else if colIndex < cols {
				if !warnedUnder {
					warn(WarnColumnUnderflow, "column underflow encountered while parsing CSV, missing values will be filled with the empty bytestring")
					warnedUnder = true
				}
				for colIndex < cols {
					if err := enc.emit(val, colIndex); err != nil {
						return Stats{}, err
					}
					colIndex++
				}
			}

			if newline == newlineUnset {
				if c == carriageReturn && i+1 < n && data[i+1] == lineFeed {
					newline = carriageReturn + lineFeed
				} else {
					newline = c
				}
			}

			if err := enc.endRow(); err != nil {
				return Stats{}, err
			}

			colIndex = 0
			rowIndex++
		}

		cm2 = cm1
		cm1 = c
		i++
	}

	overcounted := n > 0 && (data[n-1] == carriageReturn || data[n-1] == lineFeed)
	if !overcounted {
		if err := enc.emit(uint64(n)+1, colIndex); err != nil {
			return Stats{}, err
		}
		if err := enc.endRow(); err != nil {
			return Stats{}, err
		}
	}

	var overcountedRows uint64
	if overcounted {
		overcountedRows = 1
	}

	return Stats{
		TotalRows: rowIndex - overcountedRows + 1,
		Cols:      cols + 1,
		Newline:   newline,
	}, nil
}
