package installer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"github.com/forPelevin/yttranscriber/internal/ports"
)

const lockRetryDelay = 250 * time.Millisecond

// Checker reports whether the managed tool can be started.
type Checker interface {
	Available(ctx context.Context) bool
}

type manager struct {
	name string
	args []string
}

// Package managers tried in order. Each is used only if it answers --version.
var managers = []manager{
	{name: "pip", args: []string{"install", "--user", "yt-dlp"}},
	{name: "pipx", args: []string{"install", "yt-dlp"}},
	{name: "brew", args: []string{"install", "yt-dlp"}},
}

type Adapter struct {
	check       Checker
	lockPath    string
	autoInstall bool
	out         io.Writer
	log         *slog.Logger

	probe func(ctx context.Context, name string) bool
	run   func(ctx context.Context, name string, args ...string) error
}

// New returns an installer for yt-dlp. lockPath may be empty to skip the
// cross-process lock.
func New(check Checker, lockPath string, autoInstall bool, logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	a := &Adapter{
		check:       check,
		lockPath:    lockPath,
		autoInstall: autoInstall,
		out:         os.Stderr,
		log:         logger.With("component", "installer"),
	}
	a.probe = canStart
	a.run = func(ctx context.Context, name string, args ...string) error {
		cmd := exec.CommandContext(ctx, name, args...)
		cmd.Stdout = a.out
		cmd.Stderr = a.out
		return cmd.Run()
	}
	return a
}

func (a *Adapter) Ensure(ctx context.Context) error {
	if a.check.Available(ctx) {
		return nil
	}
	if !a.autoInstall {
		return fmt.Errorf("%w: please install it manually: pip install yt-dlp", ports.ErrToolMissing)
	}

	unlock, err := a.lock(ctx)
	if err != nil {
		return err
	}
	defer unlock()

	// Another process may have finished installing while we waited.
	if a.check.Available(ctx) {
		return nil
	}

	a.log.Warn("yt-dlp not found, attempting to install")
	if !a.install(ctx) {
		return fmt.Errorf("%w: installation failed; please install it manually: pip install yt-dlp", ports.ErrToolMissing)
	}
	if !a.check.Available(ctx) {
		return fmt.Errorf("%w: installation succeeded but command not found in PATH; try restarting your terminal or adding ~/.local/bin to PATH", ports.ErrToolMissing)
	}
	return nil
}

func (a *Adapter) install(ctx context.Context) bool {
	for _, m := range managers {
		if !a.probe(ctx, m.name) {
			a.log.Debug("package manager not found", "manager", m.name)
			continue
		}
		a.log.Info("installing yt-dlp", "manager", m.name)
		if err := a.run(ctx, m.name, m.args...); err != nil {
			a.log.Warn("install attempt failed", "manager", m.name, "error", err)
			continue
		}
		return true
	}
	return false
}

// canStart reports whether name runs at all; a non-zero exit of --version
// still counts as present.
func canStart(ctx context.Context, name string) bool {
	err := exec.CommandContext(ctx, name, "--version").Run()
	var exitErr *exec.ExitError
	return err == nil || errors.As(err, &exitErr)
}

func (a *Adapter) lock(ctx context.Context) (func(), error) {
	if a.lockPath == "" {
		return func() {}, nil
	}
	if err := os.MkdirAll(filepath.Dir(a.lockPath), 0o755); err != nil {
		return nil, fmt.Errorf("%w: create lock dir: %w", ports.ErrIO, err)
	}
	fl := flock.New(a.lockPath)
	ok, err := fl.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return nil, fmt.Errorf("acquire install lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("acquire install lock %s: not acquired", a.lockPath)
	}
	return func() { _ = fl.Unlock() }, nil
}
