package indexscan

// wordBitmap holds one set bit per byte position in a scanned chunk: bit i
// of word i/64 is set when byte i matched one of the candidate bytes this
// bitmap tracks. Populates three parallel bitmaps (quotes/delims/newlines)
// for a SIMD-style scan, one pass over the whole file up front, so the
// sequential state machine in scanner.go can skip a whole clean 64-byte
// word at once instead of testing every byte.
type wordBitmap []uint64

// newWordBitmap allocates a bitmap wide enough to cover n bytes.
func newWordBitmap(n int) wordBitmap {
	return make(wordBitmap, (n+63)/64)
}

// set marks byte position i as a candidate.
func (b wordBitmap) set(i int) {
	b[i/64] |= 1 << uint(i%64)
}

// test reports whether byte position i was marked.
func (b wordBitmap) test(i int) bool {
	return b[i/64]&(1<<uint(i%64)) != 0
}

// scanCandidates populates quotes, delims, and newlines with one bit per
// byte of data that matches the quote character, the delimiter, or either
// newline byte (CR or LF) respectively. This is a portable pure-Go scan;
// an assembly-accelerated variant is not reproduced here (see DESIGN.md).
func scanCandidates(data []byte, quotechar, delim byte, quotes, delims, newlines wordBitmap) {
	for i, c := range data {
		switch {
		case c == quotechar:
			quotes.set(i)
		case c == delim:
			delims.set(i)
		case c == '\n' || c == '\r':
			newlines.set(i)
		}
	}
}
