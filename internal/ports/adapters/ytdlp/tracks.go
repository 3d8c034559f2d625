package ytdlp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"sort"
	"strings"

	"github.com/samber/lo"

	"github.com/forPelevin/yttranscriber/internal/domain/videoid"
	"github.com/forPelevin/yttranscriber/internal/ports"
	"github.com/forPelevin/yttranscriber/internal/types"
)

type subtitleItem struct {
	Ext string `json:"ext"`
	URL string `json:"url"`
}

// infoJSON is the subset of `yt-dlp -j` output needed to list caption
// tracks. Map keys are yt-dlp language codes ("en", "en-orig", "pt-BR").
type infoJSON struct {
	ID                string                    `json:"id"`
	Subtitles         map[string][]subtitleItem `json:"subtitles"`
	AutomaticCaptions map[string][]subtitleItem `json:"automatic_captions"`
}

// ListTracks dumps the video info JSON and returns manual tracks first, then
// automatic ones, each group sorted by language code.
func (a *Adapter) ListTracks(ctx context.Context, videoID string) ([]types.Track, error) {
	args := []string{
		"--no-config",
		"-j",
		"--skip-download",
		"--no-warnings",
		"--no-progress",
		videoid.WatchURL(videoID),
	}
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, a.bin, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return nil, fmt.Errorf("%w: %w", ports.ErrToolStart, err)
		}
		return nil, classifyFailure(stderr.String())
	}
	return parseTracks(stdout.Bytes())
}

func parseTracks(out []byte) ([]types.Track, error) {
	var line []byte
	for _, l := range bytes.Split(out, []byte("\n")) {
		l = bytes.TrimSpace(l)
		if bytes.HasPrefix(l, []byte("{")) {
			line = l
		}
	}
	if line == nil {
		return nil, fmt.Errorf("%w - no JSON in output: %s", ports.ErrFetchFailed, strings.TrimSpace(string(out)))
	}

	var info infoJSON
	if err := json.Unmarshal(line, &info); err != nil {
		return nil, fmt.Errorf("%w - unmarshal yt-dlp output: %w", ports.ErrFetchFailed, err)
	}

	tracks := append(
		collectTracks(info.Subtitles, types.TrackManual),
		collectTracks(info.AutomaticCaptions, types.TrackAutomatic)...,
	)
	return tracks, nil
}

func collectTracks(m map[string][]subtitleItem, kind types.TrackKind) []types.Track {
	langs := lo.Keys(m)
	sort.Strings(langs)
	out := make([]types.Track, 0, len(langs))
	for _, lang := range langs {
		formats := lo.Uniq(lo.FilterMap(m[lang], func(it subtitleItem, _ int) (string, bool) {
			return it.Ext, it.Ext != ""
		}))
		out = append(out, types.Track{Language: lang, Kind: kind, Formats: formats})
	}
	return out
}
