//go:build windows

package idxfile

import (
	"io"
	"os"
)

// mmapFile falls back to a full read on Windows, matching the teacher's own
// documented shortcut (internal/common/mmap_windows.go: "Fallback to
// ReadAll on Windows for now to avoid unsafe pointer arithmetic complexity
// without external lib"). Random access still works; it simply no longer
// shares physical pages with the page cache.
func mmapFile(f *os.File, size int64) ([]byte, error) {
	data := make([]byte, 0, size)
	buf, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}
	return append(data, buf...), nil
}

// munmapFile is a no-op for the ReadAll fallback.
func munmapFile(data []byte) error {
	return nil
}
