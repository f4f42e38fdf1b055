package script

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ParseTimecode converts an "H:MM:SS.mmm" timestamp into seconds.
func ParseTimecode(s string) (float64, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 3 {
		return 0, fmt.Errorf("timecode %q: want H:MM:SS.mmm", s)
	}

	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 {
		return 0, fmt.Errorf("timecode %q: bad hours", s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 {
		return 0, fmt.Errorf("timecode %q: bad minutes", s)
	}
	sec, err := strconv.ParseFloat(parts[2], 64)
	if err != nil || sec < 0 {
		return 0, fmt.Errorf("timecode %q: bad seconds", s)
	}

	return float64(h)*3600 + float64(m)*60 + sec, nil
}

// FormatTimecode renders seconds as "HH:MM:SS.mmm" with millisecond
// precision. Rounding happens on whole milliseconds first so values like
// 59.9996 carry into the next minute instead of printing a 60th second.
func FormatTimecode(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	ms := int64(math.Round(seconds * 1000))
	h := ms / 3600000
	m := (ms % 3600000) / 60000
	s := (ms % 60000) / 1000
	return fmt.Sprintf("%02d:%02d:%02d.%03d", h, m, s, ms%1000)
}
