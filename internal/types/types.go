package types

// Segment is one timed caption cue. Index is the 0-based position in the
// parsed sequence; DurationSeconds is EndSeconds - StartSeconds and may be
// zero or negative when the source markup is.
type Segment struct {
	Index           int     `json:"index"`
	Text            string  `json:"text"`
	StartSeconds    float64 `json:"start_seconds"`
	EndSeconds      float64 `json:"end_seconds"`
	DurationSeconds float64 `json:"duration_seconds"`
}

type Metadata struct {
	TotalSegments int    `json:"total_segments"`
	ExtractedAt   string `json:"extracted_at"`
}

type Result struct {
	VideoID  string    `json:"video_id"`
	Language string    `json:"language"`
	Segments []Segment `json:"segments"`
	Metadata Metadata  `json:"metadata"`
}

type TrackKind string

const (
	TrackManual    TrackKind = "manual"
	TrackAutomatic TrackKind = "automatic"
)

// Track describes one caption track advertised by yt-dlp for a video.
type Track struct {
	Language string
	Kind     TrackKind
	Formats  []string
}
