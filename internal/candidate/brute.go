// Package candidate provides the two passphrase sources the search driver
// sweeps: a forward-only dictionary source over newline-delimited bytes, and
// a random-access brute-force source over alphabet^length, indexed by a
// 128-bit integer so the scheduler can partition arbitrarily long runs
// across worker goroutines.
package candidate

import (
	"fmt"
	"regexp"
)

// Index is an opaque position into a BruteSource's candidate space. Zero
// value is index 0.
type Index struct{ v uint128 }

// Add returns i+k.
func (i Index) Add(k uint64) Index { return Index{i.v.addSmall(k)} }

// Mul returns i*k. Used by the driver to partition the index space into
// per-worker subranges without ever collapsing an index into 64 bits.
func (i Index) Mul(k uint64) Index { return Index{i.v.mulSmall(k)} }

// Div returns i/k, rounding down.
func (i Index) Div(k uint64) Index {
	q, _ := i.v.divModSmall(k)
	return Index{q}
}

// Sub returns i-j as a uint64, valid only when i >= j and the difference
// fits in 64 bits (true for any partition size a worker pool would use).
func (i Index) Sub(j Index) uint64 {
	d := i.v.sub(j.v)
	return d.lo
}

// Less reports whether i sorts before j.
func (i Index) Less(j Index) bool { return i.v.cmp(j.v) < 0 }

// Equal reports whether i and j are the same index.
func (i Index) Equal(j Index) bool { return i.v.cmp(j.v) == 0 }

// BruteSource exposes the alphabet^maxLen candidate space as a random-access
// lazy sequence. Construction filters the 7-bit ASCII range through a
// single-character-matching regular expression to build the alphabet, in
// ascending byte order.
//
// Index 0 is, by convention, the 1-character string alphabet[0], not the
// empty string. This means brute-force mode never tries the empty
// passphrase; callers that need the empty passphrase covered must try it
// themselves, since search order and what index 0 means are observable
// behavior.
type BruteSource struct {
	alphabet []byte
	maxLen   int
	total    uint128 // len(alphabet) ^ maxLen
}

// NewBruteSource builds the alphabet by matching alphabetPattern against
// every byte in [0,128) and keeping those that match, then returns a source
// over strings of length 1..maxLen. maxLen is not capped here; the CLI's u8
// length argument is what keeps it at or below 255.
func NewBruteSource(alphabetPattern string, maxLen int) (*BruteSource, error) {
	re, err := regexp.Compile(alphabetPattern)
	if err != nil {
		return nil, fmt.Errorf("invalid alphabet regex %q: %w", alphabetPattern, err)
	}

	var alphabet []byte
	for c := 0; c < 128; c++ {
		if re.MatchString(string(rune(c))) {
			alphabet = append(alphabet, byte(c))
		}
	}
	if len(alphabet) == 0 {
		return nil, fmt.Errorf("alphabet regex %q matches no 7-bit ASCII character", alphabetPattern)
	}
	if maxLen < 1 {
		return nil, fmt.Errorf("brute-force max length must be >= 1, got %d", maxLen)
	}

	total := u128FromUint64(1)
	for i := 0; i < maxLen; i++ {
		total = total.mulSmall(uint64(len(alphabet)))
	}

	return &BruteSource{alphabet: alphabet, maxLen: maxLen, total: total}, nil
}

// Alphabet returns the filtered, sorted alphabet bytes.
func (b *BruteSource) Alphabet() []byte { return b.alphabet }

// Cardinality returns |A|^maxLen, the exclusive upper bound on valid
// indices.
func (b *BruteSource) Cardinality() Index { return Index{b.total} }

// At decomposes index i in base len(alphabet), least-significant digit
// first, and maps each digit through the alphabet. i must be < Cardinality().
func (b *BruteSource) At(i Index) []byte {
	base := uint64(len(b.alphabet))

	if i.v.isZero() {
		return []byte{b.alphabet[0]}
	}

	var digits []byte
	v := i.v
	for !v.isZero() {
		q, r := v.divModSmall(base)
		digits = append(digits, b.alphabet[r])
		v = q
	}
	return digits
}

// Cursor walks the brute-force space sequentially from a starting index,
// maintaining a digit-array cache so Next is amortized O(1) instead of
// redividing the full index by the alphabet size on every step. The per-step
// division would dominate the whole search otherwise.
type Cursor struct {
	src    *BruteSource
	idx    Index
	digits []byte // least-significant first, current candidate's digits
	pw     []byte // scratch buffer Password reuses across calls
}

// NewCursor returns a cursor positioned at start.
func (b *BruteSource) NewCursor(start Index) *Cursor {
	c := &Cursor{src: b}
	c.SeekTo(start)
	return c
}

// SeekTo repositions the cursor at an arbitrary index, paying the full
// base-conversion cost once.
func (c *Cursor) SeekTo(i Index) {
	c.idx = i
	base := uint64(len(c.src.alphabet))

	if i.v.isZero() {
		c.digits = append(c.digits[:0], 0)
		return
	}

	c.digits = c.digits[:0]
	v := i.v
	for !v.isZero() {
		q, r := v.divModSmall(base)
		c.digits = append(c.digits, byte(r))
		v = q
	}
}

// Index returns the cursor's current position.
func (c *Cursor) Index() Index { return c.idx }

// Password returns the candidate passphrase at the cursor's current
// position. The returned slice is owned by the cursor and is overwritten by
// the next Password call; callers that keep a candidate must copy it.
func (c *Cursor) Password() []byte {
	c.pw = c.pw[:0]
	for _, d := range c.digits {
		c.pw = append(c.pw, c.src.alphabet[d])
	}
	return c.pw
}

// Next advances the cursor by one, incrementing the cached digit array with
// carry instead of redividing the index.
func (c *Cursor) Next() {
	base := byte(len(c.src.alphabet) - 1)

	pos := 0
	for pos < len(c.digits) && c.digits[pos] == base {
		c.digits[pos] = 0
		pos++
	}

	if pos == len(c.digits) {
		c.digits = append(c.digits, 1)
	} else {
		c.digits[pos]++
	}

	c.idx = c.idx.Add(1)
}
