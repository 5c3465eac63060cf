package structure

import (
	"math"
	"math/bits"
)

// MaxPowerOfTwo is the largest power of two an int can hold.
const MaxPowerOfTwo = 1 << (bits.UintSize - 2)

// ClampInt truncates n toward zero and clamps it into [lo, hi].
// NaN is treated as lo.
func ClampInt(n float64, lo, hi int) int {
	if math.IsNaN(n) {
		return lo
	}
	t := math.Trunc(n)
	if t <= float64(lo) {
		return lo
	}
	if t >= float64(hi) {
		return hi
	}
	return int(t)
}

// NextPowerOfTwo returns the smallest power of two >= n. n <= 0 yields 1.
// Values above MaxPowerOfTwo saturate to MaxPowerOfTwo.
func NextPowerOfTwo(n int) int {
	if n <= 1 {
		return 1
	}
	if n > MaxPowerOfTwo {
		return MaxPowerOfTwo
	}
	return 1 << bits.Len(uint(n-1))
}

// IsPowerOfTwo reports whether n is a positive power of two.
func IsPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}

// IsEven reports whether n is divisible by two.
func IsEven(n int) bool {
	return n%2 == 0
}
