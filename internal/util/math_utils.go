package util

import "math"

// Percentage returns round(100 * part / total) as an int.
// A zero total is defined as 0%, not an error.
func Percentage(part, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(100 * float64(part) / float64(total)))
}
