package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/forPelevin/yttranscriber/internal/domain/subtitles"
	"github.com/forPelevin/yttranscriber/internal/domain/videoid"
	"github.com/forPelevin/yttranscriber/internal/ports"
	"github.com/forPelevin/yttranscriber/internal/types"
)

type Deps struct {
	Fetcher ports.CaptionFetcher
	Tool    ports.ToolEnsurer
	// Cache is optional.
	Cache ports.TranscriptCache
	// Clock defaults to time.Now.
	Clock func() time.Time
	Log   *slog.Logger
}

type Usecase struct{ d Deps }

func New(d Deps) Usecase {
	if d.Clock == nil {
		d.Clock = time.Now
	}
	if d.Log == nil {
		d.Log = slog.New(slog.DiscardHandler)
	}
	return Usecase{d: d}
}

type Input struct {
	// Raw is a video ID or any supported YouTube URL.
	Raw      string
	Language string
	// ScratchRoot is where the per-run scratch dir is created; empty means
	// os.TempDir.
	ScratchRoot string
}

type Result struct {
	Transcript types.Result
	FromCache  bool
}

func (u Usecase) Run(ctx context.Context, in Input) (Result, error) {
	id, ok := videoid.Resolve(in.Raw)
	if !ok {
		return Result{}, ports.ErrInvalidInput
	}
	log := u.d.Log.With("video_id", id, "language", in.Language)

	markup, cached := u.cached(ctx, log, id, in.Language)
	if !cached {
		var err error
		markup, err = u.fetch(ctx, log, id, in)
		if err != nil {
			return Result{}, err
		}
	}

	segs := subtitles.ParseVTT(markup)
	if len(segs) == 0 {
		return Result{}, ports.ErrNoTranscript
	}
	log.Debug("parsed captions", "segments", len(segs), "from_cache", cached)

	if !cached && u.d.Cache != nil {
		if err := u.d.Cache.Put(ctx, id, in.Language, markup); err != nil {
			log.Warn("cache write failed", "error", err)
		}
	}

	return Result{
		Transcript: types.Result{
			VideoID:  id,
			Language: in.Language,
			Segments: segs,
			Metadata: types.Metadata{
				TotalSegments: len(segs),
				ExtractedAt:   u.d.Clock().UTC().Format(time.RFC3339Nano),
			},
		},
		FromCache: cached,
	}, nil
}

func (u Usecase) cached(ctx context.Context, log *slog.Logger, id, lang string) (string, bool) {
	if u.d.Cache == nil {
		return "", false
	}
	markup, ok, err := u.d.Cache.Get(ctx, id, lang)
	if err != nil {
		log.Warn("cache read failed", "error", err)
		return "", false
	}
	return markup, ok
}

// fetch stages the download in a scratch dir that is removed on every path.
func (u Usecase) fetch(ctx context.Context, log *slog.Logger, id string, in Input) (string, error) {
	if err := u.d.Tool.Ensure(ctx); err != nil {
		return "", err
	}

	dir, err := os.MkdirTemp(in.ScratchRoot, "yt-transcriber-*")
	if err != nil {
		return "", fmt.Errorf("%w: failed to create temp directory - %w", ports.ErrIO, err)
	}
	defer func() {
		if err := os.RemoveAll(dir); err != nil {
			log.Warn("scratch cleanup failed", "dir", dir, "error", err)
		}
	}()

	log.Info("fetching captions")
	return u.d.Fetcher.FetchVTT(ctx, id, in.Language, dir)
}
