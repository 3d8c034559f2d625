package ports

import "errors"

// Error categories shared by adapters and the use case. Wrap them with %w and
// classify with errors.Is.
var (
	ErrInvalidInput     = errors.New("invalid YouTube URL or video ID")
	ErrToolMissing      = errors.New("yt-dlp is required but not available")
	ErrToolStart        = errors.New("failed to run yt-dlp")
	ErrVideoUnavailable = errors.New("video is unavailable (private/deleted/restricted)")
	ErrFetchFailed      = errors.New("yt-dlp failed")
	ErrNoCaptions       = errors.New("no subtitles available")
	ErrNoTranscript     = errors.New("no transcript content found")
	ErrIO               = errors.New("i/o failure")
)
