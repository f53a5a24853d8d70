// Package stats derives per-round metrics and cross-collection KPIs from
// task and round records. Every function is a pure transformation: inputs are
// never mutated and repeated calls with the same inputs yield identical
// results.
package stats

import "math"

// Rate returns numerator/denominator as a percentage, rounded to two
// decimals. A zero denominator yields nil, never 0 or NaN; consumers render
// nil as "N/A".
func Rate(numerator, denominator int) *float64 {
	if denominator == 0 {
		return nil
	}
	v := round2(float64(numerator) / float64(denominator) * 100)
	return &v
}

// Mean returns the average of values, nil when the slice is empty.
func Mean(values []float64) *float64 {
	if len(values) == 0 {
		return nil
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	m := round2(sum / float64(len(values)))
	return &m
}

// CompareNullLast orders two nullable metrics for ranking. Nil always sorts
// last regardless of direction: a depot with no measurable rate never
// outranks one with a real number.
func CompareNullLast(a, b *float64, descending bool) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	case *a == *b:
		return 0
	}
	if descending == (*a > *b) {
		return -1
	}
	return 1
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
