package render

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"github.com/forPelevin/yttranscriber/internal/domain/timestamp"
	"github.com/forPelevin/yttranscriber/internal/types"
)

// Format selects an output representation.
type Format string

const (
	FormatText Format = "txt"
	FormatSRT  Format = "srt"
	FormatJSON Format = "json"
)

// Formats lists every supported format in help-text order.
var Formats = []Format{FormatText, FormatSRT, FormatJSON}

func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	if lo.Contains(Formats, f) {
		return f, nil
	}
	return "", fmt.Errorf("unknown format %q (want one of %s)", s, strings.Join(lo.Map(Formats, func(f Format, _ int) string { return string(f) }), ", "))
}

type Options struct {
	// Timestamps prefixes each txt line with "[MM:SS]". Ignored by srt and json.
	Timestamps bool
}

func Render(f Format, r types.Result, opts Options) (string, error) {
	switch f {
	case FormatText:
		return Text(r, opts.Timestamps), nil
	case FormatSRT:
		return SRT(r), nil
	case FormatJSON:
		return JSON(r), nil
	default:
		return "", fmt.Errorf("unknown format %q", f)
	}
}

// Text renders one line per segment. No trailing newline.
func Text(r types.Result, withTimestamps bool) string {
	lines := lo.Map(r.Segments, func(s types.Segment, _ int) string {
		if withTimestamps {
			return timestamp.Bracket(s.StartSeconds) + " " + s.Text
		}
		return s.Text
	})
	return strings.Join(lines, "\n")
}

// SRT numbers blocks 1..N by position, not by Segment.Index.
func SRT(r types.Result) string {
	blocks := lo.Map(r.Segments, func(s types.Segment, i int) string {
		var b strings.Builder
		b.WriteString(strconv.Itoa(i + 1))
		b.WriteString("\n")
		b.WriteString(timestamp.Subtitle(s.StartSeconds))
		b.WriteString(" --> ")
		b.WriteString(timestamp.Subtitle(s.EndSeconds))
		b.WriteString("\n")
		b.WriteString(s.Text)
		return b.String()
	})
	return strings.Join(blocks, "\n\n")
}

// JSON pretty-prints the whole result. A value that cannot be encoded
// (NaN or infinite seconds) yields an empty string.
func JSON(r types.Result) string {
	if r.Segments == nil {
		r.Segments = []types.Segment{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return ""
	}
	return strings.TrimSuffix(buf.String(), "\n")
}
