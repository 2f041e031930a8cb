package lazycsv

import "github.com/csvquery/lazycsv/internal/idxfile"

// byteCache holds one pre-allocated single-byte string for every possible
// byte value, so repeated one-byte cells share the same Go string header.
// Adapted from the teacher's internal/common.BlockCache: that cache is a
// memory-bounded LRU keyed by an arbitrary string, evicting under memory
// pressure; here the key space is a single byte, fully known in advance, so
// the LRU bookkeeping and eviction policy are unnecessary — a closed
// 256-entry array replaces the map plus intrusive list.
type byteCache struct {
	items [256]string
}

func newByteCache() *byteCache {
	c := &byteCache{}
	for i := range c.items {
		c.items[i] = string([]byte{byte(i)})
	}
	return c
}

func (c *byteCache) get(b byte) string {
	return c.items[b]
}

// materialize turns an (offset, length) pair resolved by idxfile.Decoder
// into the cell's value. It mirrors PyBytes_FromOffsetAndLen from the
// original: a zero-length cell is the empty string, a one-byte cell comes
// from the byte cache, anything else is copied once out of the mmapped CSV
// (escaping the mapping into an owned Go string), with optional
// quote-stripping applied to the view before that copy.
func materialize(csv []byte, cache *byteCache, quotechar byte, unquote bool, start, end uint64) string {
	offset, length := idxfile.CellLen(start, end)

	switch length {
	case 0:
		return ""
	case 1:
		return cache.get(csv[offset])
	}

	cell := csv[offset : offset+length]

	if unquote && cell[0] == quotechar && cell[len(cell)-1] == quotechar {
		cell = cell[1 : len(cell)-1]
	}

	return string(cell)
}
