package indexscan

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/natefinch/atomic"

	"github.com/csvquery/lazycsv/internal/bufio2"
	"github.com/csvquery/lazycsv/internal/idxfile"
)

// BuildOptions configures index construction. BufferSize is the fixed
// capacity each of the three bufio2.Writers uses before it must flush,
// matching the original's buffer_size constructor argument (default 2^21).
type BuildOptions struct {
	Delimiter  byte
	Quotechar  byte
	Width      idxfile.SlotWidth
	BufferSize int
	ScratchDir string // parent directory the scratch subdirectory is created under
	Warn       func(Warning)
}

// Build is the result of one index construction: the scratch directory and
// the paths of the three index files within it, plus the fingerprint
// sidecar's value and the row/column shape discovered during the scan.
type Build struct {
	Dir         string
	CommaPath   string
	AnchorPath  string
	NewlinePath string
	Fingerprint string
	Stats       Stats
}

const fingerprintFile = "fingerprint"

// Run scans data and writes the comma/anchor/newline index files into a
// freshly created, uniquely named scratch subdirectory of opts.ScratchDir,
// then publishes a fingerprint sidecar recording the size/mtime/content hash
// of the CSV this index was built from. csvPath is used only for that
// fingerprint; data is expected to already be the mmapped contents of it.
func Run(data []byte, csvPath string, opts BuildOptions) (Build, error) {
	dir := filepath.Join(opts.ScratchDir, "lazycsv-"+uuid.NewString())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Build{}, fmt.Errorf("indexscan: create scratch dir: %w", err)
	}

	commaPath := filepath.Join(dir, "commas")
	anchorPath := filepath.Join(dir, "anchors")
	newlinePath := filepath.Join(dir, "newlines")

	commaFile, anchorFile, newlineFile, err := createIndexFiles(commaPath, anchorPath, newlinePath)
	if err != nil {
		os.RemoveAll(dir)
		return Build{}, err
	}

	commaW := bufio2.NewWriter(commaFile, opts.BufferSize)
	anchorW := bufio2.NewWriter(anchorFile, opts.BufferSize)
	newlineW := bufio2.NewWriter(newlineFile, opts.BufferSize)

	enc := newEncoder(opts.Width, commaW, anchorW, newlineW)

	stats, scanErr := Scan(data, Options{
		Delimiter: opts.Delimiter,
		Quotechar: opts.Quotechar,
		Width:     opts.Width,
		Warn:      opts.Warn,
	}, enc)

	closeErr := closeAll(commaW, anchorW, newlineW)

	if scanErr != nil || closeErr != nil {
		os.RemoveAll(dir)
		if scanErr != nil {
			return Build{}, fmt.Errorf("indexscan: scan: %w", scanErr)
		}
		return Build{}, fmt.Errorf("indexscan: finalize index files: %w", closeErr)
	}

	fp, err := fingerprint(csvPath)
	if err != nil {
		os.RemoveAll(dir)
		return Build{}, fmt.Errorf("indexscan: fingerprint: %w", err)
	}
	if err := atomic.WriteFile(filepath.Join(dir, fingerprintFile), strings.NewReader(fp)); err != nil {
		os.RemoveAll(dir)
		return Build{}, fmt.Errorf("indexscan: publish fingerprint: %w", err)
	}

	return Build{
		Dir:         dir,
		CommaPath:   commaPath,
		AnchorPath:  anchorPath,
		NewlinePath: newlinePath,
		Fingerprint: fp,
		Stats:       stats,
	}, nil
}

func createIndexFiles(commaPath, anchorPath, newlinePath string) (*os.File, *os.File, *os.File, error) {
	flags := os.O_WRONLY | os.O_CREATE | os.O_EXCL
	commaFile, err := os.OpenFile(commaPath, flags, 0o600)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("indexscan: create comma file: %w", err)
	}
	anchorFile, err := os.OpenFile(anchorPath, flags, 0o600)
	if err != nil {
		commaFile.Close()
		return nil, nil, nil, fmt.Errorf("indexscan: create anchor file: %w", err)
	}
	newlineFile, err := os.OpenFile(newlinePath, flags, 0o600)
	if err != nil {
		commaFile.Close()
		anchorFile.Close()
		return nil, nil, nil, fmt.Errorf("indexscan: create newline file: %w", err)
	}
	return commaFile, anchorFile, newlineFile, nil
}

func closeAll(writers ...*bufio2.Writer) error {
	var firstErr error
	for _, w := range writers {
		if err := w.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// fingerprint hashes three 512KB samples (start, middle, end) of the CSV
// along with its size and modification time. A full hash would defeat the
// point of lazy, mmap-based access to a file that may be many gigabytes
// large.
func fingerprint(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return "", err
	}

	const sampleSize = 512 * 1024
	size := st.Size()
	buf := make([]byte, sampleSize)
	h := sha1.New()

	n, _ := f.ReadAt(buf, 0)
	h.Write(buf[:n])

	if size > sampleSize*3 {
		n, _ = f.ReadAt(buf, size/2-sampleSize/2)
		h.Write(buf[:n])
	}

	if size > sampleSize {
		start := size - sampleSize
		if start < 0 {
			start = 0
		}
		n, _ = f.ReadAt(buf, start)
		h.Write(buf[:n])
	}

	return fmt.Sprintf("%d-%d-%s", size, st.ModTime().Unix(), hex.EncodeToString(h.Sum(nil))), nil
}
