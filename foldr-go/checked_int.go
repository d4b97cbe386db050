package foldr_go

import (
	"math"

	"lukechampine.com/uint128"
)

func absUint64(a int64) uint64 {
	if a < 0 {
		return uint64(-(a + 1)) + 1
	}
	return uint64(a)
}

func addInt64(a, b int64) (int64, bool) {
	r := a + b
	if (a > 0 && b > 0 && r < 0) || (a < 0 && b < 0 && r >= 0) {
		return r, false
	}
	return r, true
}

func subInt64(a, b int64) (int64, bool) {
	r := a - b
	if (b < 0 && r < a) || (b > 0 && r > a) {
		return r, false
	}
	return r, true
}

// / mulInt64 multiplies through a 128-bit product so overflow is detected
// / exactly.
func mulInt64(a, b int64) (int64, bool) {
	p := uint128.From64(absUint64(a)).Mul64(absUint64(b))
	neg := (a < 0) != (b < 0)
	if p.Hi != 0 {
		return a * b, false
	}
	if neg {
		if p.Lo > 1<<63 {
			return a * b, false
		}
		return int64(^p.Lo + 1), true
	}
	if p.Lo > math.MaxInt64 {
		return a * b, false
	}
	return int64(p.Lo), true
}

func divInt64(a, b int64) (int64, bool) {
	if a == math.MinInt64 && b == -1 {
		return a, false
	}
	return a / b, true
}
