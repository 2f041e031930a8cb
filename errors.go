package lazycsv

import (
	"errors"
	"fmt"

	"github.com/csvquery/lazycsv/internal/indexscan"
)

// Sentinel errors, in the style of oleg578-swiftcsv's package-scope
// ErrBareQuote et al.: callers match them with errors.Is.
var (
	// ErrInvalidArgument is returned by Open, wrapped in an *IOError, when a
	// Config field is invalid (an unsupported SlotWidth, a negative
	// BufferSize, or a Delimiter equal to Quotechar).
	ErrInvalidArgument = errors.New("lazycsv: invalid argument")
	// ErrBoundary is returned when a row or column index falls outside
	// [0, Rows) or [0, Cols).
	ErrBoundary = errors.New("lazycsv: index out of bounds")
	// ErrReaderBusy is returned by Close when iterators constructed from
	// this Reader are still live.
	ErrReaderBusy = errors.New("lazycsv: reader has live iterators")
)

// IOError wraps an underlying filesystem or mmap failure encountered while
// opening a CSV or building its index files. Open also uses it, with Op
// "validate config", to wrap ErrInvalidArgument for a rejected Config.
type IOError struct {
	Op  string
	Err error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("lazycsv: %s: %v", e.Op, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

func ioError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &IOError{Op: op, Err: err}
}

// WarningKind distinguishes the row-shape warnings a scan can raise.
type WarningKind = indexscan.WarningKind

// The two warning kinds a scan can raise. Re-exported from indexscan so
// callers never need to import that internal package directly.
const (
	WarnColumnOverflow  = indexscan.WarnColumnOverflow
	WarnColumnUnderflow = indexscan.WarnColumnUnderflow
)

// Warning is delivered at most once per Kind during Open, through the
// callback set in Config.Warn. It is the Go-native analogue of the
// original's single PyErr_WarnEx call per warning kind.
type Warning = indexscan.Warning
