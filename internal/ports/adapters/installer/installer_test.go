package installer

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/forPelevin/yttranscriber/internal/ports"
)

// fakeChecker answers Available from a fixed sequence, repeating the last value.
type fakeChecker struct {
	answers []bool
	calls   int
}

func (f *fakeChecker) Available(context.Context) bool {
	i := f.calls
	f.calls++
	if i >= len(f.answers) {
		i = len(f.answers) - 1
	}
	return f.answers[i]
}

func newTestAdapter(t *testing.T, check Checker, present map[string]bool, failing map[string]bool) (*Adapter, *[]string) {
	t.Helper()
	a := New(check, filepath.Join(t.TempDir(), "locks", "install.lock"), true, nil)
	var ran []string
	a.probe = func(_ context.Context, name string) bool { return present[name] }
	a.run = func(_ context.Context, name string, args ...string) error {
		ran = append(ran, name+" "+strings.Join(args, " "))
		if failing[name] {
			return errors.New("exit status 1")
		}
		return nil
	}
	return a, &ran
}

func TestEnsure_AlreadyAvailable(t *testing.T) {
	check := &fakeChecker{answers: []bool{true}}
	a, ran := newTestAdapter(t, check, nil, nil)
	if err := a.Ensure(context.Background()); err != nil {
		t.Fatalf("Ensure: %v", err)
	}
	if len(*ran) != 0 {
		t.Fatalf("expected no install attempts, got %v", *ran)
	}
}

func TestEnsure_FallsThroughManagers(t *testing.T) {
	check := &fakeChecker{answers: []bool{false, false, true}}
	a, ran := newTestAdapter(t, check,
		map[string]bool{"pip": true, "brew": true},
		map[string]bool{"pip": true},
	)
	if err := a.Ensure(context.Background()); err != nil {
		t.Fatalf("Ensure: %v", err)
	}
	want := []string{"pip install --user yt-dlp", "brew install yt-dlp"}
	if strings.Join(*ran, "|") != strings.Join(want, "|") {
		t.Fatalf("install attempts = %v, want %v", *ran, want)
	}
}

func TestEnsure_NoManagerSucceeds(t *testing.T) {
	check := &fakeChecker{answers: []bool{false}}
	a, _ := newTestAdapter(t, check, map[string]bool{"pipx": true}, map[string]bool{"pipx": true})
	err := a.Ensure(context.Background())
	if !errors.Is(err, ports.ErrToolMissing) {
		t.Fatalf("expected ErrToolMissing, got %v", err)
	}
	if !strings.Contains(err.Error(), "pip install yt-dlp") {
		t.Fatalf("expected manual install hint, got %v", err)
	}
}

func TestEnsure_InstalledButNotOnPath(t *testing.T) {
	check := &fakeChecker{answers: []bool{false}}
	a, _ := newTestAdapter(t, check, map[string]bool{"pip": true}, nil)
	err := a.Ensure(context.Background())
	if !errors.Is(err, ports.ErrToolMissing) || !strings.Contains(err.Error(), "PATH") {
		t.Fatalf("expected PATH hint, got %v", err)
	}
}

func TestEnsure_AutoInstallDisabled(t *testing.T) {
	a := New(&fakeChecker{answers: []bool{false}}, "", false, nil)
	a.run = func(context.Context, string, ...string) error {
		t.Fatal("install must not run when disabled")
		return nil
	}
	if err := a.Ensure(context.Background()); !errors.Is(err, ports.ErrToolMissing) {
		t.Fatalf("expected ErrToolMissing, got %v", err)
	}
}

func TestCanStart(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell script fixture")
	}
	dir := t.TempDir()
	failing := filepath.Join(dir, "pip")
	if err := os.WriteFile(failing, []byte("#!/bin/sh\nexit 2\n"), 0o755); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	if !canStart(context.Background(), failing) {
		t.Fatal("a manager whose --version exits non-zero still counts as present")
	}
	if canStart(context.Background(), filepath.Join(dir, "absent")) {
		t.Fatal("missing binary reported as present")
	}
}
