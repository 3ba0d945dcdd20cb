package youtube

import "time"

// shortMaxDuration is the upload length ceiling for Shorts.
const shortMaxDuration = 3 * time.Minute

// parseISODuration reads the ISO-8601 durations the API emits for video
// lengths (PT1H2M3S, P1DT2H, PT45S). Returns 0 for anything it cannot read.
func parseISODuration(s string) time.Duration {
	if len(s) == 0 || s[0] != 'P' {
		return 0
	}

	var (
		total  time.Duration
		num    int64
		inTime bool
	)
	for _, r := range s[1:] {
		switch {
		case r >= '0' && r <= '9':
			num = num*10 + int64(r-'0')
		case r == 'T':
			inTime = true
			num = 0
		case r == 'D':
			total += time.Duration(num) * 24 * time.Hour
			num = 0
		case r == 'H':
			total += time.Duration(num) * time.Hour
			num = 0
		case r == 'M':
			if inTime {
				total += time.Duration(num) * time.Minute
			} else {
				// Months are approximated; the API never emits them
				// for video durations.
				total += time.Duration(num) * 30 * 24 * time.Hour
			}
			num = 0
		case r == 'S':
			total += time.Duration(num) * time.Second
			num = 0
		default:
			return 0
		}
	}
	return total
}

// isShort classifies a video by length: anything within the Shorts upload
// limit counts. Zero (unknown) durations are treated as longform.
func isShort(d time.Duration) bool {
	return d > 0 && d <= shortMaxDuration
}
