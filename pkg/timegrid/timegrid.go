package timegrid

import (
	"fmt"
	"regexp"
)

// Pattern matches wall-clock times in HH:MM form (00:00-23:59). Callers are
// expected to validate input against it before converting; ToMinutes itself
// does not defend against malformed strings.
var Pattern = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

// ToMinutes converts an HH:MM string into minutes since midnight.
func ToMinutes(t string) int {
	var hours, minutes int
	fmt.Sscanf(t, "%02d:%02d", &hours, &minutes)
	return hours*60 + minutes
}

// FromMinutes converts minutes since midnight into a zero-padded HH:MM string.
func FromMinutes(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// Snap rounds minutes to the nearest multiple of interval.
func Snap(minutes, interval int) int {
	if interval <= 0 {
		return minutes
	}
	remainder := minutes % interval
	if remainder < (interval+1)/2 {
		return minutes - remainder
	}
	return minutes + interval - remainder
}

// MinDuration is the shortest duration a booking may be resized to for a
// given grid interval: one interval, but never under 15 minutes.
func MinDuration(gridInterval int) int {
	if gridInterval > 15 {
		return gridInterval
	}
	return 15
}
