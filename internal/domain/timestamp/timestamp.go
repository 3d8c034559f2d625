package timestamp

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Parse converts "MM:SS.mmm" or "HH:MM:SS.mmm" to seconds. Unparsable
// fields count as zero and any other field count yields zero, so a bad cue
// degrades instead of aborting the parse.
func Parse(text string) float64 {
	parts := strings.Split(text, ":")
	switch len(parts) {
	case 2:
		return field(parts[0])*60 + field(parts[1])
	case 3:
		return field(parts[0])*3600 + field(parts[1])*60 + field(parts[2])
	default:
		return 0
	}
}

// Bracket renders "[MM:SS]". Minutes do not roll over into hours.
func Bracket(seconds float64) string {
	mins := whole(seconds / 60)
	secs := whole(math.Mod(seconds, 60))
	return fmt.Sprintf("[%02d:%02d]", mins, secs)
}

// Subtitle renders the SRT form "HH:MM:SS,mmm".
func Subtitle(seconds float64) string {
	hours := whole(seconds / 3600)
	mins := whole(math.Mod(seconds, 3600) / 60)
	secs := whole(math.Mod(seconds, 60))
	millis := whole(math.Mod(seconds, 1) * 1000)
	return fmt.Sprintf("%02d:%02d:%02d,%03d", hours, mins, secs, millis)
}

// field parses a plain decimal number. Hex floats and digit separators,
// which strconv accepts, count as unparsable.
func field(s string) float64 {
	if strings.ContainsAny(s, "xXpP_") {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

// whole floors v and saturates negative and NaN values to zero.
func whole(v float64) uint64 {
	f := math.Floor(v)
	if math.IsNaN(f) || f <= 0 {
		return 0
	}
	if f >= math.MaxUint32 {
		return math.MaxUint32
	}
	return uint64(f)
}
