package candidate

// uint128 is a 128-bit unsigned integer as a little-endian pair of uint64
// limbs. Go has no native 128-bit integer type, and the brute-force index
// space (alphabet size raised to the configured maximum length) routinely
// overflows 64 bits for realistic alphabet/length combinations.
type uint128 struct {
	lo, hi uint64
}

func u128FromUint64(v uint64) uint128 { return uint128{lo: v} }

// add returns x+y, wrapping on overflow. The index space is never meant to
// wrap in practice; wrapping rather than panicking keeps the arithmetic
// plain unsigned.
func (x uint128) add(y uint128) uint128 {
	lo := x.lo + y.lo
	carry := uint64(0)
	if lo < x.lo {
		carry = 1
	}
	return uint128{lo: lo, hi: x.hi + y.hi + carry}
}

func (x uint128) sub(y uint128) uint128 {
	lo := x.lo - y.lo
	borrow := uint64(0)
	if x.lo < y.lo {
		borrow = 1
	}
	return uint128{lo: lo, hi: x.hi - y.hi - borrow}
}

func (x uint128) addSmall(y uint64) uint128 { return x.add(uint128{lo: y}) }

func (x uint128) cmp(y uint128) int {
	if x.hi != y.hi {
		if x.hi < y.hi {
			return -1
		}
		return 1
	}
	if x.lo != y.lo {
		if x.lo < y.lo {
			return -1
		}
		return 1
	}
	return 0
}

func (x uint128) isZero() bool { return x.lo == 0 && x.hi == 0 }

// mulSmall returns x*y for a small (< 2^32 in practice, alphabet size)
// multiplier y, using the schoolbook split of each 64-bit limb into two
// 32-bit halves so every partial product fits in 64 bits.
func (x uint128) mulSmall(y uint64) uint128 {
	loLo, loHi := mul64(x.lo, y)
	hiLo, _ := mul64(x.hi, y)
	return uint128{lo: loLo, hi: loHi + hiLo}
}

// mul64 returns the low and high 64-bit halves of a*b.
func mul64(a, b uint64) (lo, hi uint64) {
	const mask32 = 0xffffffff
	aLo, aHi := a&mask32, a>>32
	bLo, bHi := b&mask32, b>>32

	t0 := aLo * bLo
	t1 := aLo*bHi + aHi*bLo
	t2 := aHi * bHi

	lo = t0 + (t1 << 32)
	carry := uint64(0)
	if lo < t0 {
		carry = 1
	}
	hi = t2 + (t1 >> 32) + carry
	return lo, hi
}

// divModSmall returns (x/y, x%y) for a small divisor y (an alphabet size,
// always far below 2^32), via standard long division limb by limb.
func (x uint128) divModSmall(y uint64) (q uint128, r uint64) {
	r = 0
	hiQ := divModLimb(x.hi, y, &r)
	loQ := divModLimb(x.lo, y, &r)
	return uint128{lo: loQ, hi: hiQ}, r
}

// divModLimb divides a 64-bit limb, carrying in/out a remainder that spans
// limb boundaries (the remainder from the high limb feeds the high bits of
// the low limb's division).
func divModLimb(limb, y uint64, carryRem *uint64) uint64 {
	// (carryRem:limb) / y, treated as a 128-bit/64-bit division where
	// carryRem < y always holds by construction.
	hi, lo := *carryRem, limb
	var q uint64
	for i := 63; i >= 0; i-- {
		hi = hi<<1 | (lo >> 63)
		lo <<= 1
		if hi >= y {
			hi -= y
			q |= 1 << uint(i)
		}
	}
	*carryRem = hi
	return q
}
