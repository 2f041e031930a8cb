//go:build !windows

package idxfile

import (
	"os"

	"golang.org/x/sys/unix"
)

// mmapFile maps the first size bytes of f read-only and shared (MAP_SHARED);
// the mapping is never written through.
// The teacher's own internal/common.MmapFile only ships a Windows fallback
// (io.ReadAll) in the retrieved snapshot; this completes the Unix side for
// real, since spec.md declares mmap mandatory for constant-time access.
func mmapFile(f *os.File, size int64) ([]byte, error) {
	return unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_SHARED)
}

func munmapFile(data []byte) error {
	return unix.Munmap(data)
}
