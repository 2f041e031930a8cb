package lazycsv

import (
	"testing"

	"github.com/csvquery/lazycsv/internal/idxfile"
)

func TestByteCacheReturnsInternedSingleBytes(t *testing.T) {
	c := newByteCache()
	for i := 0; i < 256; i++ {
		got := c.get(byte(i))
		if len(got) != 1 || got[0] != byte(i) {
			t.Fatalf("get(%d) = %q", i, got)
		}
	}
}

func TestMaterializeEmptyAndSingleByte(t *testing.T) {
	cache := newByteCache()
	csv := []byte("x,y\n")

	if got := materialize(csv, cache, '"', true, idxfile.EmptyOffset, idxfile.EmptyOffset); got != "" {
		t.Errorf("materialize(empty sentinel) = %q, want empty", got)
	}
	// zero-length region: start == end, the unsigned underflow handled by CellLen.
	if got := materialize(csv, cache, '"', true, 0, 0); got != "" {
		t.Errorf("materialize(0,0) = %q, want empty", got)
	}
	if got := materialize(csv, cache, '"', true, 0, 2); got != "x" {
		t.Errorf("materialize(0,2) = %q, want %q", got, "x")
	}
}

func TestMaterializeQuoteStripping(t *testing.T) {
	cache := newByteCache()
	csv := []byte(`"hello"` + "\n")

	if got := materialize(csv, cache, '"', true, 0, uint64(len(csv))); got != "hello" {
		t.Errorf("unquote=true: materialize = %q, want %q", got, "hello")
	}
	if got := materialize(csv, cache, '"', false, 0, uint64(len(csv))); got != `"hello"` {
		t.Errorf("unquote=false: materialize = %q, want %q", got, `"hello"`)
	}
}
