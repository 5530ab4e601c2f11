package core

import (
	"math"
	"strconv"
	"strings"
)

// ParseNumber parses numeric text: an integer literal (decimal, 0x, 0o or 0b
// prefixed, underscores allowed) or a finite floating point literal.
// Surrounding whitespace is ignored. The bridge's type check and the typed
// ExecutionContext getters both read numeric text through it.
func ParseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	if i, err := strconv.ParseInt(s, 0, 64); err == nil {
		return float64(i), true
	}
	if u, err := strconv.ParseUint(s, 0, 64); err == nil {
		return float64(u), true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}

// parseInteger is ParseNumber restricted to whole numbers.
func parseInteger(s string) (int64, bool) {
	s = strings.TrimSpace(s)
	if i, err := strconv.ParseInt(s, 0, 64); err == nil {
		return i, true
	}
	f, ok := ParseNumber(s)
	if !ok || f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, false
	}
	return int64(f), true
}
