package export

import (
	"math"
	"strconv"
	"strings"
)

// FormatFloat renders v in shortest round-trip form, keeping one decimal on
// integral values (90 -> "90.0", 86.6 -> "86.6").
func FormatFloat(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// FormatInt renders an integer cell.
func FormatInt(v int) string {
	return strconv.Itoa(v)
}
