package ports

import (
	"context"

	"github.com/forPelevin/yttranscriber/internal/types"
)

// CaptionFetcher downloads the WebVTT caption track of a video into
// scratchDir and returns its contents. The caller owns scratchDir.
type CaptionFetcher interface {
	FetchVTT(ctx context.Context, videoID, lang, scratchDir string) (string, error)
}

type TrackLister interface {
	ListTracks(ctx context.Context, videoID string) ([]types.Track, error)
}

// ToolEnsurer makes sure the external downloader is runnable, installing it
// when allowed.
type ToolEnsurer interface {
	Ensure(ctx context.Context) error
}

type TranscriptCache interface {
	Get(ctx context.Context, videoID, lang string) (markup string, ok bool, err error)
	Put(ctx context.Context, videoID, lang, markup string) error
}

type Clipboard interface {
	WriteAll(text string) error
}
