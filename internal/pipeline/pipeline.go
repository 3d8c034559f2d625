package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/forPelevin/yttranscriber/internal/domain/render"
	"github.com/forPelevin/yttranscriber/internal/domain/videoid"
	"github.com/forPelevin/yttranscriber/internal/language"
	"github.com/forPelevin/yttranscriber/internal/ports"
	"github.com/forPelevin/yttranscriber/internal/ports/adapters/clipboard"
	"github.com/forPelevin/yttranscriber/internal/ports/adapters/installer"
	"github.com/forPelevin/yttranscriber/internal/ports/adapters/sqlitecache"
	"github.com/forPelevin/yttranscriber/internal/ports/adapters/ytdlp"
	"github.com/forPelevin/yttranscriber/internal/types"
	"github.com/forPelevin/yttranscriber/internal/usecase"
)

type Config struct {
	// Input is a video ID or YouTube URL.
	Input      string
	Language   string
	Format     render.Format
	Timestamps bool
	// OutputPath writes the transcript to a file instead of stdout.
	OutputPath      string
	CopyToClipboard bool

	YtDlpPath   string
	AutoInstall bool
	// Timeout bounds the whole run; zero means no limit.
	Timeout time.Duration

	CacheEnabled    bool
	CachePath       string
	CacheTTL        time.Duration
	InstallLockPath string
	// ScratchDir is the parent of the per-run temp dir; empty means os.TempDir.
	ScratchDir string

	Logger *slog.Logger
	Stdout io.Writer
	Stderr io.Writer
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.Input) == "" {
		return fmt.Errorf("%w: input is empty", ports.ErrInvalidInput)
	}
	if strings.TrimSpace(c.Language) == "" {
		return errors.New("language is empty")
	}
	if _, err := render.ParseFormat(string(c.Format)); err != nil {
		return err
	}
	if c.Timeout < 0 {
		return errors.New("timeout must be >= 0")
	}
	if c.CacheEnabled && c.CachePath == "" {
		return errors.New("cache path is required when the cache is enabled")
	}
	return nil
}

func (c Config) withDefaults() Config {
	if c.Logger == nil {
		c.Logger = slog.New(slog.DiscardHandler)
	}
	if c.Stdout == nil {
		c.Stdout = os.Stdout
	}
	if c.Stderr == nil {
		c.Stderr = os.Stderr
	}
	return c
}

// Run fetches, parses and renders the transcript described by cfg and
// delivers it to a file or stdout.
func Run(ctx context.Context, cfg Config) error {
	cfg = cfg.withDefaults()
	log := cfg.Logger

	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	if err := language.Validate(cfg.Language); err != nil {
		log.Warn("language code is not a BCP 47 tag; passing it to yt-dlp as is", "error", err)
	}

	yt := ytdlp.New(cfg.YtDlpPath, log)
	deps := usecase.Deps{
		Fetcher: yt,
		Tool:    installer.New(yt, cfg.InstallLockPath, cfg.AutoInstall, log),
		Log:     log,
	}
	if cfg.CacheEnabled {
		if store := openCache(ctx, cfg, log); store != nil {
			defer func() { _ = store.Close() }()
			deps.Cache = store
		}
	}

	uc := usecase.New(deps)
	res, err := uc.Run(ctx, usecase.Input{
		Raw:         cfg.Input,
		Language:    cfg.Language,
		ScratchRoot: cfg.ScratchDir,
	})
	if err != nil {
		return err
	}

	out, err := render.Render(cfg.Format, res.Transcript, render.Options{Timestamps: cfg.Timestamps})
	if err != nil {
		return err
	}
	var clip ports.Clipboard
	if cfg.CopyToClipboard {
		clip = clipboard.New()
	}
	return deliver(cfg, out, clip)
}

// Tracks lists the caption tracks yt-dlp can see for the video in cfg.Input.
func Tracks(ctx context.Context, cfg Config) (string, []types.Track, error) {
	cfg = cfg.withDefaults()
	id, ok := videoid.Resolve(cfg.Input)
	if !ok {
		return "", nil, ports.ErrInvalidInput
	}
	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	yt := ytdlp.New(cfg.YtDlpPath, cfg.Logger)
	if err := installer.New(yt, cfg.InstallLockPath, cfg.AutoInstall, cfg.Logger).Ensure(ctx); err != nil {
		return "", nil, err
	}
	var lister ports.TrackLister = yt
	tracks, err := lister.ListTracks(ctx, id)
	return id, tracks, err
}

// ToolVersion reports the yt-dlp version, or an error when it cannot run.
func ToolVersion(ctx context.Context, ytdlpPath string) (string, error) {
	return ytdlp.New(ytdlpPath, nil).Version(ctx)
}

// openCache returns nil when the cache cannot be opened; the run then
// proceeds uncached.
func openCache(ctx context.Context, cfg Config, log *slog.Logger) *sqlitecache.Store {
	store, err := sqlitecache.Open(ctx, cfg.CachePath, cfg.CacheTTL)
	if err != nil {
		log.Warn("cache unavailable", "path", cfg.CachePath, "error", err)
		return nil
	}
	if n, err := store.Prune(ctx); err != nil {
		log.Warn("cache prune failed", "error", err)
	} else if n > 0 {
		log.Debug("pruned expired cache entries", "count", n)
	}
	return store
}

// deliver writes out to cfg.OutputPath (without a trailing newline) or to
// stdout followed by a newline. clip is optional.
func deliver(cfg Config, out string, clip ports.Clipboard) error {
	if cfg.OutputPath != "" {
		if err := os.WriteFile(cfg.OutputPath, []byte(out), 0o644); err != nil {
			return fmt.Errorf("%w: failed to write file - %w", ports.ErrIO, err)
		}
		fmt.Fprintf(cfg.Stderr, "Transcript saved to %s\n", cfg.OutputPath)
	} else if _, err := fmt.Fprintln(cfg.Stdout, out); err != nil {
		return fmt.Errorf("%w: write stdout: %w", ports.ErrIO, err)
	}

	if clip != nil {
		if err := clip.WriteAll(out); err != nil {
			cfg.Logger.Warn("copy to clipboard failed", "error", err)
		} else {
			cfg.Logger.Info("transcript copied to clipboard", "bytes", len(out))
		}
	}
	return nil
}

// ensure adapters implement ports
var _ ports.CaptionFetcher = (*ytdlp.Adapter)(nil)
var _ ports.TrackLister = (*ytdlp.Adapter)(nil)
var _ ports.ToolEnsurer = (*installer.Adapter)(nil)
var _ ports.TranscriptCache = (*sqlitecache.Store)(nil)
var _ ports.Clipboard = (*clipboard.Adapter)(nil)
