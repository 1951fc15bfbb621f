package geo

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
	_ "time/tzdata"
)

var utcOffsetPattern = regexp.MustCompile(`^([+-])(\d{1,2}):(\d{2})$`)

// NormalizeTimezone turns a provider timezone value into a display label.
//
//	"Asia/Dhaka" -> "Asia/Dhaka (+06:00)"   (offset as of now)
//	"+06:00"     -> "UTC+06:00"
//	"-4:30"      -> "UTC-04:30"
//
// Other values are returned unchanged. An empty value yields nil.
func NormalizeTimezone(tz string, now time.Time) *string {
	if tz == "" {
		return nil
	}

	if isZoneName(tz) {
		if loc, err := time.LoadLocation(tz); err == nil {
			_, offset := now.In(loc).Zone()
			label := fmt.Sprintf("%s (%s)", tz, formatOffset(offset))
			return &label
		}
	}

	if m := utcOffsetPattern.FindStringSubmatch(tz); m != nil {
		hours, _ := strconv.Atoi(m[2])
		minutes, _ := strconv.Atoi(m[3])
		label := fmt.Sprintf("UTC%s%02d:%02d", m[1], hours, minutes)
		return &label
	}

	return &tz
}

// isZoneName filters values time.LoadLocation accepts but that are not IANA
// zone names.
func isZoneName(tz string) bool {
	return tz != "Local" && tz != "-" && !utcOffsetPattern.MatchString(tz)
}

func formatOffset(seconds int) string {
	sign := '+'
	if seconds < 0 {
		sign = '-'
		seconds = -seconds
	}
	return fmt.Sprintf("%c%02d:%02d", sign, seconds/3600, (seconds%3600)/60)
}
