package lazycsv

import "github.com/csvquery/lazycsv/internal/idxfile"

// Config holds the construction-time options for Open, mirroring the
// teacher's plain value-struct configuration pattern (writer.WriterConfig,
// indexer.IndexerConfig) rather than functional options, since the teacher
// never uses that pattern either.
type Config struct {
	// Delimiter separates fields. Defaults to ','.
	Delimiter byte
	// Quotechar quotes fields containing the delimiter or a newline.
	// Defaults to '"'.
	Quotechar byte
	// SkipHeaders treats the first row as ordinary data instead of as a
	// header row to parse out into Headers().
	SkipHeaders bool
	// KeepQuotes disables stripping a matching pair of leading/trailing
	// Quotechar bytes from a materialized cell. The zero value strips
	// quotes, matching the original's unquote=True default; set this to
	// keep them verbatim instead.
	KeepQuotes bool
	// BufferSize is the fixed capacity of each of the three index-file
	// writers used during construction. Defaults to 2^21 bytes, matching
	// the original's buffer_size default.
	BufferSize int
	// IndexDir is the parent directory in which a uniquely named scratch
	// subdirectory is created to hold the three index files. Defaults to
	// os.TempDir().
	IndexDir string
	// SlotWidth is the on-disk byte width of one comma-index slot.
	// Defaults to 2, matching the original's INDEX_DTYPE default
	// (uint16_t). Generalizes a compile-time macro into a runtime field,
	// since Go has no user-facing preprocessor.
	SlotWidth idxfile.SlotWidth
	// Warn, if set, receives each row-shape warning Open's index build
	// raises (at most once per WarningKind).
	Warn func(Warning)
}

const defaultBufferSize = 1 << 21

func (c Config) withDefaults() Config {
	if c.Delimiter == 0 {
		c.Delimiter = ','
	}
	if c.Quotechar == 0 {
		c.Quotechar = '"'
	}
	if c.BufferSize <= 0 {
		c.BufferSize = defaultBufferSize
	}
	if c.SlotWidth == 0 {
		c.SlotWidth = idxfile.SlotWidth2
	}
	return c
}

func (c Config) validate() error {
	if !c.SlotWidth.Valid() {
		return &IOError{Op: "validate config", Err: ErrInvalidArgument}
	}
	if c.Delimiter == c.Quotechar {
		return &IOError{Op: "validate config", Err: ErrInvalidArgument}
	}
	return nil
}
