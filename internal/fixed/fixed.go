// Package fixed provides the integer fixed-point arithmetic used by the OLED
// animations: an exponential moving average of typing speed and the scroll
// physics driven by it.
//
// All quantities are plain ints scaled by FPDiv. A position of 3500 means
// 3.5 pixels. Nothing here allocates or uses floating point.
package fixed

// Fixed-point constants.
const (
	// FPDiv is the fixed-point divisor.
	FPDiv = 1000

	// EMAAlpha is the smoothing factor of the speed average, in FPDiv units.
	EMAAlpha = 200

	// WPMDiv converts a smoothed speed into a per-frame velocity.
	WPMDiv = 20
)

// EMA is an exponential moving average of words per minute held in
// fixed point. The zero value starts at rest.
type EMA struct {
	value int
}

// Update folds one speed sample into the average and returns the new value.
func (e *EMA) Update(wpm uint8) int {
	e.value = (int(wpm)*FPDiv*EMAAlpha + e.value*(FPDiv-EMAAlpha)) / FPDiv
	return e.value
}

// Value returns the current average in fixed point.
func (e *EMA) Value() int {
	return e.value
}

// WPM returns the current average truncated to whole words per minute.
func (e *EMA) WPM() int {
	return e.value / FPDiv
}

// Velocity returns the per-frame scroll velocity derived from the average.
func (e *EMA) Velocity() int {
	return e.value / WPMDiv
}

// Typing reports whether the average is at or above one word per minute.
func (e *EMA) Typing() bool {
	return e.value >= FPDiv
}

// Reset returns the average to rest.
func (e *EMA) Reset() {
	e.value = 0
}

// ScaleLimited maps value from [minIn, maxIn] onto [minOut, maxOut] with
// integer interpolation. Inputs outside the range clamp to the bounds.
func ScaleLimited(value, minIn, maxIn, minOut, maxOut int) int {
	switch {
	case value <= minIn:
		return minOut
	case value >= maxIn:
		return maxOut
	default:
		return (value-minIn)*(maxOut-minOut)/(maxIn-minIn) + minOut
	}
}

// ClosestMultiple returns the multiple of m nearest to n. Exact halves round
// down. n must be non-negative and m positive.
func ClosestMultiple(n, m int) int {
	r := n % m
	if r <= m/2 {
		return n - r
	}
	return n + (m - r)
}

// Wrap returns v modulo m in the range [0, m).
func Wrap(v, m int) int {
	v %= m
	if v < 0 {
		v += m
	}
	return v
}

// Abs returns the absolute value of x.
func Abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// Sign returns -1, 0 or 1 according to the sign of x.
func Sign(x int) int {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	default:
		return 0
	}
}
