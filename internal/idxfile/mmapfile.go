package idxfile

import (
	"fmt"
	"os"
)

// MappedFile is a read-only memory-mapped view of a file that is held open
// for the lifetime of the mapping. Index files and the source CSV are both
// represented this way.
type MappedFile struct {
	Data []byte

	f *os.File
}

// OpenMapped opens path and maps its entire contents read-only. The
// underlying descriptor is kept open until Close, matching the teacher's
// scanner, which mmaps once at construction and keeps the descriptor alive
// for the object's lifetime (internal/indexer/scanner.go NewScanner/Close).
func OpenMapped(path string) (*MappedFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("idxfile: open %s: %w", path, err)
	}

	st, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("idxfile: stat %s: %w", path, err)
	}

	if st.Size() == 0 {
		f.Close()
		return &MappedFile{Data: nil, f: nil}, nil
	}

	data, err := mmapFile(f, st.Size())
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("idxfile: mmap %s: %w", path, err)
	}

	return &MappedFile{Data: data, f: f}, nil
}

// Close unmaps the file and releases the descriptor. Safe to call on a
// MappedFile that wraps a zero-length file (no-op).
func (m *MappedFile) Close() error {
	if m == nil || m.f == nil {
		return nil
	}

	var err error
	if m.Data != nil {
		err = munmapFile(m.Data)
	}
	if cerr := m.f.Close(); cerr != nil && err == nil {
		err = cerr
	}
	m.f = nil
	m.Data = nil
	return err
}
