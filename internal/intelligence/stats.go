package intelligence

import "math"

// mean returns the arithmetic mean of values, or 0 for an empty slice
func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	sum := 0.0
	for _, v := range values {
		sum += v
	}

	return sum / float64(len(values))
}

// stdDev returns the sample standard deviation of values around m.
// Fewer than two values have no measurable dispersion.
func stdDev(values []float64, m float64) float64 {
	if len(values) < 2 {
		return 0
	}

	sumSquares := 0.0
	for _, v := range values {
		diff := v - m
		sumSquares += diff * diff
	}

	return math.Sqrt(sumSquares / float64(len(values)-1))
}

// coefficientOfVariation returns stddev/mean, or 0 when the mean is zero
func coefficientOfVariation(values []float64) float64 {
	m := mean(values)
	if m == 0 {
		return 0
	}

	return stdDev(values, m) / m
}

// percentChange returns the relative change from first to last in percent,
// or 0 when first is zero
func percentChange(first, last float64) float64 {
	if first == 0 {
		return 0
	}

	return (last - first) / first * 100
}

// clamp bounds v to [lo, hi]
func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}

	return v
}
