package dataprocessing

import (
	"math"
	"strconv"
	"strings"
)

// NormalizeCount converts a raw report cell into a non-negative count.
//
// Dots are thousands separators and are removed. A dash is the report's
// "no data" marker and becomes zero. Anything that still fails to parse
// yields 0; the function never fails.
func NormalizeCount(raw string) int64 {
	s := strings.ReplaceAll(raw, ".", "")
	s = strings.ReplaceAll(s, "-", "0")
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}

	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return clampCount(n)
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	if f >= math.MaxInt64 {
		return math.MaxInt64
	}
	return clampCount(int64(f))
}

func clampCount(n int64) int64 {
	if n < 0 {
		return 0
	}
	return n
}
