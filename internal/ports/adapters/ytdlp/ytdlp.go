package ytdlp

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/forPelevin/yttranscriber/internal/domain/videoid"
	"github.com/forPelevin/yttranscriber/internal/ports"
)

const defaultBin = "yt-dlp"

type Adapter struct {
	bin string
	log *slog.Logger
}

func New(binPath string, logger *slog.Logger) *Adapter {
	if binPath == "" {
		binPath = defaultBin
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Adapter{bin: binPath, log: logger.With("component", "ytdlp")}
}

func (a *Adapter) Bin() string { return a.bin }

// Available reports whether the binary can be started. A non-zero exit of
// --version still counts as available.
func (a *Adapter) Available(ctx context.Context) bool {
	err := exec.CommandContext(ctx, a.bin, "--version").Run()
	var exitErr *exec.ExitError
	return err == nil || errors.As(err, &exitErr)
}

func (a *Adapter) Version(ctx context.Context) (string, error) {
	out, err := exec.CommandContext(ctx, a.bin, "--version").CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("%w: %s --version: %w\n%s", ports.ErrToolStart, a.bin, err, string(out))
	}
	return strings.TrimSpace(string(out)), nil
}

// FetchVTT asks yt-dlp for manual and automatic subtitles in lang, written as
// <scratchDir>/<id>.<lang>.vtt, and returns the file contents.
func (a *Adapter) FetchVTT(ctx context.Context, videoID, lang, scratchDir string) (string, error) {
	args := []string{
		"--write-sub",
		"--write-auto-sub",
		"--sub-lang", lang,
		"--sub-format", "vtt",
		"--skip-download",
		"--no-warnings",
		"-o", filepath.Join(scratchDir, "%(id)s"),
		videoid.WatchURL(videoID),
	}
	a.log.Debug("fetching captions", "video_id", videoID, "language", lang)
	start := time.Now()

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, a.bin, args...)
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return "", fmt.Errorf("%w: %w", ports.ErrToolStart, err)
		}
		return "", classifyFailure(stderr.String())
	}
	a.log.Debug("yt-dlp finished", "elapsed", time.Since(start).Round(time.Millisecond))

	return readVTT(scratchDir, videoID, lang)
}

func classifyFailure(stderr string) error {
	if strings.Contains(stderr, "unavailable") ||
		strings.Contains(stderr, "private") ||
		strings.Contains(stderr, "deleted") {
		return ports.ErrVideoUnavailable
	}
	return fmt.Errorf("%w - %s", ports.ErrFetchFailed, strings.TrimSpace(stderr))
}

// readVTT prefers <id>.<lang>.vtt, then <id>.<lang>-orig.vtt, then the first
// .vtt file in dir by name.
func readVTT(dir, videoID, lang string) (string, error) {
	for _, name := range []string{
		fmt.Sprintf("%s.%s.vtt", videoID, lang),
		fmt.Sprintf("%s.%s-orig.vtt", videoID, lang),
	} {
		if b, err := os.ReadFile(filepath.Join(dir, name)); err == nil {
			return string(b), nil
		}
	}

	entries, err := os.ReadDir(dir)
	if err == nil {
		for _, e := range entries {
			if e.IsDir() || filepath.Ext(e.Name()) != ".vtt" {
				continue
			}
			if b, err := os.ReadFile(filepath.Join(dir, e.Name())); err == nil {
				return string(b), nil
			}
		}
	}
	return "", fmt.Errorf("%w for this video in '%s' language", ports.ErrNoCaptions, lang)
}
