package format

import (
	"fmt"
	"time"
)

var byteUnits = []struct {
	size int64
	name string
}{
	{1 << 40, "TB"},
	{1 << 30, "GB"},
	{1 << 20, "MB"},
	{1 << 10, "KB"},
}

// FormatBytes renders a byte count with the largest binary unit that fits.
func FormatBytes(b int64) string {
	for _, u := range byteUnits {
		if b < u.size {
			continue
		}

		val := float64(b) / float64(u.size)
		// Use %.0f for whole numbers, %.2f for numbers with decimals
		if val == float64(int64(val)) {
			return fmt.Sprintf("%.0f%s", val, u.name)
		}
		return fmt.Sprintf("%.2f%s", val, u.name)
	}
	return fmt.Sprintf("%dB", b)
}

// FormatDurationHMS prints sub-second durations in seconds and anything
// longer as HH:MM:SS.
func FormatDurationHMS(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%.2fs", d.Seconds())
	}
	totalSeconds := int64(d.Seconds())

	hours := totalSeconds / 3600
	minutes := (totalSeconds % 3600) / 60
	seconds := totalSeconds % 60

	return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
}
