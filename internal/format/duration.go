// Package format renders timer values for display.
package format

import "fmt"

// Duration renders whole seconds as H:MM:SS from one hour upwards, MM:SS below.
// Callers holding fractional seconds truncate before calling.
// Negative input is treated as zero.
func Duration(totalSeconds int64) string {
	if totalSeconds < 0 {
		totalSeconds = 0
	}
	hours := totalSeconds / 3600
	minutes := (totalSeconds % 3600) / 60
	seconds := totalSeconds % 60
	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, seconds)
	}
	return fmt.Sprintf("%02d:%02d", minutes, seconds)
}
