package format

import (
	"fmt"
	"time"
)

// FmtQuantity formats a demand quantity (Mt or t/person) with fixed precision.
func FmtQuantity(v float64) string {
	return fmt.Sprintf("%.4f", v)
}

// FmtCoef formats a curve coefficient; they span many orders of magnitude.
func FmtCoef(v float64) string {
	return fmt.Sprintf("%.6g", v)
}

// FmtDuration formats a duration as "Xm Ys", "Ys" or "Nms" below one second.
func FmtDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	s := int(d.Seconds())
	if s >= 60 {
		return fmt.Sprintf("%dm %ds", s/60, s%60)
	}
	return fmt.Sprintf("%ds", s)
}

// Truncate shortens s to maxLen characters, appending "..." if truncated.
func Truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}

// BoolMark returns "✓" for true and "✗" for false.
func BoolMark(v bool) string {
	if v {
		return "✓"
	}
	return "✗"
}
