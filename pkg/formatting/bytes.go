// Package formatting parses model output into typed values and converts
// byte sizes to and from human-readable strings.
package formatting

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var units = []string{"B", "KB", "MB", "GB", "TB", "PB", "EB"}

// exponent maps every accepted unit spelling to its power of 1024.
// IEC spellings (KiB) and single-letter shorthand (K) are aliases.
var exponent = func() map[string]int {
	m := make(map[string]int, len(units)*3)
	for i, u := range units {
		m[u] = i
		if i > 0 {
			m[u[:1]] = i
			m[u[:1]+"IB"] = i
		}
	}
	return m
}()

var sizePattern = regexp.MustCompile(`^(\d+(?:\.\d+)?)\s*([A-Za-z]*)$`)

// FormatBytes renders n using base-1024 units with the given number of
// decimal places. Negative sizes keep their sign.
func FormatBytes(n int64, precision int) string {
	precision = max(precision, 0)

	sign := ""
	f := float64(n)
	if f < 0 {
		sign = "-"
		f = -f
	}

	i := 0
	for f >= 1024 && i < len(units)-1 {
		f /= 1024
		i++
	}

	if i == 0 {
		return sign + strconv.FormatFloat(f, 'f', 0, 64) + " B"
	}
	return sign + strconv.FormatFloat(f, 'f', precision, 64) + " " + units[i]
}

// ParseBytes parses sizes such as "20MB", "1.5 GiB", "512k" or "4096".
// Units are base-1024 and case-insensitive. A bare number is bytes.
func ParseBytes(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty byte size string")
	}

	m := sizePattern.FindStringSubmatch(s)
	if m == nil {
		return 0, fmt.Errorf("invalid byte size: %q", s)
	}

	value, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, fmt.Errorf("invalid byte size number: %w", err)
	}

	unit := strings.ToUpper(m[2])
	exp := 0
	if unit != "" {
		var ok bool
		if exp, ok = exponent[unit]; !ok {
			return 0, fmt.Errorf("unknown byte size unit: %q", m[2])
		}
	}

	size := value * math.Pow(1024, float64(exp))
	if size >= math.MaxInt64 {
		return 0, fmt.Errorf("byte size overflows int64: %q", s)
	}
	return int64(size), nil
}
