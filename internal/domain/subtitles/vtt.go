package subtitles

import (
	"regexp"
	"strings"

	"github.com/forPelevin/yttranscriber/internal/domain/timestamp"
	"github.com/forPelevin/yttranscriber/internal/types"
)

var (
	cueTimingRe = regexp.MustCompile(`(\d{1,2}:\d{2}:\d{2}\.\d{3}|\d{1,2}:\d{2}\.\d{3})\s*-->\s*(\d{1,2}:\d{2}:\d{2}\.\d{3}|\d{1,2}:\d{2}\.\d{3})`)
	inlineTagRe = regexp.MustCompile(`<[^>]+>`)
)

// Lines starting with these are file or track headers, never cue text.
var headerPrefixes = []string{"WEBVTT", "Kind:", "Language:"}

type parseState int

const (
	searching parseState = iota
	collecting
)

// ParseVTT turns WebVTT markup into segments in the order the cues appear.
// Cues whose text is empty once tags are stripped are dropped without
// consuming an index.
func ParseVTT(markup string) []types.Segment {
	lines := splitLines(markup)
	segs := []types.Segment{}

	var (
		state      = searching
		start, end float64
		text       []string
	)
	flush := func() {
		if len(text) == 0 {
			return
		}
		joined := strings.Join(text, " ")
		text = nil
		if strings.TrimSpace(joined) == "" {
			return
		}
		segs = append(segs, types.Segment{
			Index:           len(segs),
			Text:            joined,
			StartSeconds:    start,
			EndSeconds:      end,
			DurationSeconds: end - start,
		})
	}

	for i := 0; i < len(lines); {
		switch state {
		case searching:
			m := cueTimingRe.FindStringSubmatch(strings.TrimSpace(lines[i]))
			i++
			if m == nil {
				continue
			}
			start = timestamp.Parse(m[1])
			end = timestamp.Parse(m[2])
			state = collecting

		case collecting:
			line := lines[i]
			// A blank line or the next timing line closes the cue; the timing
			// line is left for the searching state.
			if strings.TrimSpace(line) == "" || cueTimingRe.MatchString(line) {
				flush()
				state = searching
				continue
			}
			if clean, ok := cleanLine(line); ok {
				text = append(text, clean)
			}
			i++
		}
	}
	if state == collecting {
		flush()
	}
	return segs
}

func cleanLine(line string) (string, bool) {
	line = strings.TrimSpace(line)
	for _, p := range headerPrefixes {
		if strings.HasPrefix(line, p) {
			return "", false
		}
	}
	clean := inlineTagRe.ReplaceAllString(line, "")
	return clean, clean != ""
}

func splitLines(s string) []string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	// A trailing newline does not start another line.
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}
	return lines
}
