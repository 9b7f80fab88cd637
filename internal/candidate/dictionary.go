package candidate

// DictionarySource is a forward-only sequence of newline-delimited byte
// strings over a shared backing slice (normally a memory-mapped file).
// Advancement never copies: each yielded candidate is a subslice of the
// original bytes.
type DictionarySource struct {
	data []byte
}

// NewDictionarySource wraps data for line-by-line iteration.
func NewDictionarySource(data []byte) *DictionarySource {
	return &DictionarySource{data: data}
}

// DictionaryCursor walks a DictionarySource from a given byte offset to a
// given byte offset (exclusive), realigned by the caller to line boundaries
// when partitioning across workers.
type DictionaryCursor struct {
	data []byte
	pos  int
	end  int
}

// NewCursor returns a cursor over data[start:end]. end may exceed the next
// line boundary; iteration always completes the line it starts, so workers
// partitioning a dictionary should give each cursor an end that is itself a
// line boundary (or the end of the file) to avoid processing the same line
// twice.
func (d *DictionarySource) NewCursor(start, end int) *DictionaryCursor {
	return &DictionaryCursor{data: d.data, pos: start, end: end}
}

// Done reports whether the cursor has reached its end.
func (c *DictionaryCursor) Done() bool { return c.pos >= c.end }

// Next returns the next candidate (the line at the cursor's current
// position, trailing '\r' stripped) and advances past it. It must not be
// called once Done reports true.
func (c *DictionaryCursor) Next() []byte {
	start := c.pos
	nl := indexByte(c.data, '\n', start)
	var line []byte
	if nl < 0 {
		line = c.data[start:]
		c.pos = len(c.data)
	} else {
		line = c.data[start:nl]
		c.pos = nl + 1
	}
	if n := len(line); n > 0 && line[n-1] == '\r' {
		line = line[:n-1]
	}
	return line
}

func indexByte(b []byte, c byte, from int) int {
	for i := from; i < len(b); i++ {
		if b[i] == c {
			return i
		}
	}
	return -1
}

// LineBoundaryAfter returns the offset of the byte immediately following the
// next '\n' at or after pos, or len(data) if there is none. Used to realign
// a worker's nominal chunk boundary onto an actual line start.
func (d *DictionarySource) LineBoundaryAfter(pos int) int {
	if pos >= len(d.data) {
		return len(d.data)
	}
	nl := indexByte(d.data, '\n', pos)
	if nl < 0 {
		return len(d.data)
	}
	return nl + 1
}

// Len returns the size of the backing data.
func (d *DictionarySource) Len() int { return len(d.data) }
