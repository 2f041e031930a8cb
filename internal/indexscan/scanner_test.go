package indexscan

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/csvquery/lazycsv/internal/bufio2"
	"github.com/csvquery/lazycsv/internal/idxfile"
)

// scanToStats runs Scan over data through a throwaway encoder writing into
// t.TempDir(), returning only the derived Stats — enough to exercise the
// scanner's state machine without going through the full Build/mmap path.
func scanToStats(t *testing.T, data []byte, opts Options) Stats {
	t.Helper()

	dir := t.TempDir()
	commaFile, err := os.Create(filepath.Join(dir, "commas"))
	if err != nil {
		t.Fatal(err)
	}
	anchorFile, err := os.Create(filepath.Join(dir, "anchors"))
	if err != nil {
		t.Fatal(err)
	}
	newlineFile, err := os.Create(filepath.Join(dir, "newlines"))
	if err != nil {
		t.Fatal(err)
	}

	if opts.Width == 0 {
		opts.Width = idxfile.SlotWidth2
	}
	if opts.Delimiter == 0 {
		opts.Delimiter = ','
	}
	if opts.Quotechar == 0 {
		opts.Quotechar = '"'
	}

	commaW := bufio2.NewWriter(commaFile, 0)
	anchorW := bufio2.NewWriter(anchorFile, 0)
	newlineW := bufio2.NewWriter(newlineFile, 0)
	enc := newEncoder(opts.Width, commaW, anchorW, newlineW)

	stats, err := Scan(data, opts, enc)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if err := closeAll(commaW, anchorW, newlineW); err != nil {
		t.Fatalf("close writers: %v", err)
	}
	return stats
}

func TestScanBasic(t *testing.T) {
	stats := scanToStats(t, []byte("a,b,c\n1,2,3\n4,5,6\n"), Options{})
	if stats.Cols != 3 {
		t.Errorf("Cols = %d, want 3", stats.Cols)
	}
	if stats.TotalRows != 3 {
		t.Errorf("TotalRows = %d, want 3", stats.TotalRows)
	}
	if stats.Newline != '\n' {
		t.Errorf("Newline = %q, want \\n", stats.Newline)
	}
}

func TestScanCRLF(t *testing.T) {
	stats := scanToStats(t, []byte("h\r\n1\r\n2\r\n"), Options{})
	if stats.Cols != 1 {
		t.Errorf("Cols = %d, want 1", stats.Cols)
	}
	if stats.TotalRows != 3 {
		t.Errorf("TotalRows = %d, want 3", stats.TotalRows)
	}
}

func TestScanBareCR(t *testing.T) {
	stats := scanToStats(t, []byte("h\r1\r2\r"), Options{})
	if stats.Cols != 1 {
		t.Errorf("Cols = %d, want 1", stats.Cols)
	}
	if stats.TotalRows != 3 {
		t.Errorf("TotalRows = %d, want 3", stats.TotalRows)
	}
}

func TestScanNoTrailingTerminator(t *testing.T) {
	stats := scanToStats(t, []byte("a,b\n1,2"), Options{})
	if stats.Cols != 2 {
		t.Errorf("Cols = %d, want 2", stats.Cols)
	}
	if stats.TotalRows != 2 {
		t.Errorf("TotalRows = %d, want 2", stats.TotalRows)
	}
}

func TestScanOverflowWarnsOnce(t *testing.T) {
	var warnings []Warning
	warn := func(w Warning) { warnings = append(warnings, w) }

	stats := scanToStats(t, []byte("a,b,c\n1,2,3,4\n5,6,7,8\n"), Options{Warn: warn})
	if stats.Cols != 3 {
		t.Errorf("Cols = %d, want 3", stats.Cols)
	}

	count := 0
	for _, w := range warnings {
		if w.Kind == WarnColumnOverflow {
			count++
		}
	}
	if count != 1 {
		t.Errorf("overflow warning fired %d times, want 1", count)
	}
}

func TestScanUnderflowWarnsOnce(t *testing.T) {
	var warnings []Warning
	warn := func(w Warning) { warnings = append(warnings, w) }

	stats := scanToStats(t, []byte("a,b,c\n1,2\n4\n"), Options{Warn: warn})
	if stats.Cols != 3 {
		t.Errorf("Cols = %d, want 3", stats.Cols)
	}

	count := 0
	for _, w := range warnings {
		if w.Kind == WarnColumnUnderflow {
			count++
		}
	}
	if count != 1 {
		t.Errorf("underflow warning fired %d times, want 1", count)
	}
}

func TestScanQuotedFieldWithEmbeddedDelimiter(t *testing.T) {
	stats := scanToStats(t, []byte("a,b\n\"x,y\",\"q\"\n"), Options{})
	if stats.Cols != 2 {
		t.Errorf("Cols = %d, want 2 (embedded comma inside quotes must not split the field)", stats.Cols)
	}
}
