//go:build integration

package itest

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"
)

const cliTimeout = 60 * time.Second

type robustCase struct {
	name            string
	args            func(t *testing.T, repoRoot string) []string
	env             map[string]string
	wantExit        int
	wantContains    []string
	wantNotContains []string
}

type cliRunResult struct {
	exitCode int
	output   string
}

func TestRobustness_ArgsValidation(t *testing.T) {
	repoRoot := mustRepoRoot(t)

	cases := []robustCase{
		{
			name:         "no args",
			args:         staticArgs(),
			wantExit:     1,
			wantContains: []string{"accepts 1 arg(s), received 0"},
		},
		{
			name:         "too many args",
			args:         staticArgs(fakeVideoID, "extra"),
			wantExit:     1,
			wantContains: []string{"accepts 1 arg(s), received 2"},
		},
		{
			name:         "unknown flag",
			args:         staticArgs(fakeVideoID, "--wat"),
			wantExit:     1,
			wantContains: []string{"unknown flag: --wat"},
		},
		{
			name:         "bad format",
			args:         staticArgs(fakeVideoID, "-f", "ass"),
			wantExit:     1,
			wantContains: []string{`format "ass"`},
		},
		{
			name:         "langs without id",
			args:         staticArgs("langs"),
			wantExit:     1,
			wantContains: []string{"accepts 1 arg(s), received 0"},
		},
	}

	runRobustCases(t, repoRoot, cases)
}

func TestRobustness_InvalidInput(t *testing.T) {
	repoRoot := mustRepoRoot(t)
	absent := filepath.Join(repoRoot, "internal", "itest", "testdata", "no-such-yt-dlp")

	cases := []robustCase{
		{
			name:         "short id",
			args:         staticArgs("abc"),
			env:          map[string]string{"YT_TRANSCRIBER_YTDLP_PATH": absent},
			wantExit:     1,
			wantContains: []string{"Error: Invalid YouTube URL or video ID"},
		},
		{
			name:         "foreign host",
			args:         staticArgs("https://vimeo.com/" + fakeVideoID),
			env:          map[string]string{"YT_TRANSCRIBER_YTDLP_PATH": absent},
			wantExit:     1,
			wantContains: []string{"Invalid YouTube URL"},
		},
		{
			name: "output dir missing",
			args: func(t *testing.T, _ string) []string {
				t.Helper()
				return []string{fakeVideoID, "-o", filepath.Join(t.TempDir(), "missing", "out.txt")}
			},
			wantExit:     4,
			wantContains: []string{"failed to write file"},
		},
		{
			name:         "private video",
			args:         staticArgs("XXXXXXXXXXX", "--no-cache"),
			wantExit:     2,
			wantContains: []string{"Video is unavailable"},
		},
	}

	runRobustCases(t, repoRoot, cases)
}

func TestRobustness_ToolAndConfig(t *testing.T) {
	repoRoot := mustRepoRoot(t)
	absent := filepath.Join(repoRoot, "internal", "itest", "testdata", "no-such-yt-dlp")

	cases := []robustCase{
		{
			name: "yt-dlp missing and auto install disabled",
			args: func(t *testing.T, _ string) []string {
				t.Helper()
				cfg := filepath.Join(t.TempDir(), "config.toml")
				if err := os.WriteFile(cfg, []byte("[ytdlp]\nauto_install = false\n"), 0o644); err != nil {
					t.Fatalf("write config fixture: %v", err)
				}
				return []string{fakeVideoID, "--config", cfg, "--no-cache"}
			},
			env:          map[string]string{"YT_TRANSCRIBER_YTDLP_PATH": absent},
			wantExit:     1,
			wantContains: []string{"pip install yt-dlp"},
		},
		{
			name: "config with unknown key",
			args: func(t *testing.T, _ string) []string {
				t.Helper()
				cfg := filepath.Join(t.TempDir(), "config.yaml")
				if err := os.WriteFile(cfg, []byte("transcript:\n  lang: en\n"), 0o644); err != nil {
					t.Fatalf("write config fixture: %v", err)
				}
				return []string{fakeVideoID, "--config", cfg}
			},
			wantExit:     1,
			wantContains: []string{"Error: config: parse config"},
		},
		{
			name:         "bad format from env",
			args:         staticArgs(fakeVideoID),
			env:          map[string]string{"YT_TRANSCRIBER_FORMAT": "docx"},
			wantExit:     1,
			wantContains: []string{"transcript.format"},
		},
		{
			name:            "bad log format flag",
			args:            staticArgs(fakeVideoID, "--log-format", "xml"),
			wantExit:        1,
			wantContains:    []string{"log format"},
			wantNotContains: []string{"Never gonna"},
		},
	}

	runRobustCases(t, repoRoot, cases)
}

func runRobustCases(t *testing.T, repoRoot string, cases []robustCase) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script fixture")
	}
	ytdlp := writeFakeYtDlp(t)
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			env := mergeMaps(isolatedEnv(t, ytdlp), tc.env)
			res := runCLI(t, repoRoot, tc.args(t, repoRoot), env)
			if res.exitCode == 0 {
				t.Fatalf("expected non-zero exit code, got 0\noutput:\n%s", res.output)
			}
			if tc.wantExit != 0 && res.exitCode != tc.wantExit {
				t.Fatalf("exit code = %d, want %d\noutput:\n%s", res.exitCode, tc.wantExit, res.output)
			}
			for _, want := range tc.wantContains {
				if !strings.Contains(res.output, want) {
					t.Fatalf("expected output to contain %q\noutput:\n%s", want, res.output)
				}
			}
			for _, notWant := range tc.wantNotContains {
				if strings.Contains(res.output, notWant) {
					t.Fatalf("expected output to not contain %q\noutput:\n%s", notWant, res.output)
				}
			}
		})
	}
}

var (
	buildOnce sync.Once
	builtBin  string
	buildErr  error
)

// cliBinary builds the CLI once per test process so exit codes come straight
// from the program rather than from go run.
func cliBinary(t *testing.T, repoRoot string) string {
	t.Helper()
	buildOnce.Do(func() {
		dir, err := os.MkdirTemp("", "yt-transcriber-itest-*")
		if err != nil {
			buildErr = err
			return
		}
		builtBin = filepath.Join(dir, "yt-transcriber")
		cmd := exec.Command("go", "build", "-o", builtBin, "./cmd/yt-transcriber")
		cmd.Dir = repoRoot
		if out, err := cmd.CombinedOutput(); err != nil {
			buildErr = fmt.Errorf("go build: %w\n%s", err, out)
		}
	})
	if buildErr != nil {
		t.Fatalf("build cli: %v", buildErr)
	}
	return builtBin
}

func runCLI(t *testing.T, repoRoot string, args []string, env map[string]string) cliRunResult {
	t.Helper()
	bin := cliBinary(t, repoRoot)

	ctx, cancel := context.WithTimeout(context.Background(), cliTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.Dir = t.TempDir()
	cmd.Env = mergeEnv(
		os.Environ(),
		map[string]string{
			"NO_COLOR": "1",
			"TERM":     "dumb",
		},
		env,
	)

	out, err := cmd.CombinedOutput()
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		t.Fatalf("command timed out after %s: yt-transcriber %s", cliTimeout, strings.Join(args, " "))
	}

	res := cliRunResult{output: string(out)}
	if err == nil {
		res.exitCode = 0
		return res
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		res.exitCode = exitErr.ExitCode()
		return res
	}

	t.Fatalf("run command: %v\noutput:\n%s", err, string(out))
	return cliRunResult{}
}

func mergeMaps(sets ...map[string]string) map[string]string {
	out := map[string]string{}
	for _, set := range sets {
		for k, v := range set {
			out[k] = v
		}
	}
	return out
}

func mergeEnv(base []string, overrides ...map[string]string) []string {
	env := make(map[string]string, len(base))
	for _, kv := range base {
		i := strings.IndexByte(kv, '=')
		if i <= 0 {
			continue
		}
		env[kv[:i]] = kv[i+1:]
	}

	for _, set := range overrides {
		for k, v := range set {
			env[k] = v
		}
	}

	out := make([]string, 0, len(env))
	for k, v := range env {
		out = append(out, fmt.Sprintf("%s=%s", k, v))
	}
	sort.Strings(out)
	return out
}

func mustRepoRoot(t *testing.T) string {
	t.Helper()

	repoRoot, err := findRepoRoot()
	if err != nil {
		t.Fatalf("repo root: %v", err)
	}
	return repoRoot
}

func staticArgs(args ...string) func(t *testing.T, _ string) []string {
	clone := append([]string(nil), args...)
	return func(t *testing.T, _ string) []string {
		t.Helper()
		return append([]string(nil), clone...)
	}
}
