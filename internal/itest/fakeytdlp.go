//go:build integration

package itest

import (
	"os"
	"path/filepath"
	"testing"
)

const fakeVideoID = "dQw4w9WgXcQ"

// fakeYtDlpScript mimics the yt-dlp calls the CLI makes: --version, caption
// download into the -o template and -j track listing.
const fakeYtDlpScript = `#!/bin/sh
if [ "$1" = "--version" ]; then echo 2025.01.01; exit 0; fi
out=""
json=0
for a in "$@"; do
  case "$a" in
    -j) json=1 ;;
    *watch?v=XXXXXXXXXXX*) echo "ERROR: [youtube] XXXXXXXXXXX: Video unavailable. This video is private" >&2; exit 1 ;;
  esac
done
if [ "$json" = "1" ]; then
  echo '{"id":"dQw4w9WgXcQ","subtitles":{"en":[{"ext":"vtt"},{"ext":"srv3"}]},"automatic_captions":{"de-orig":[{"ext":"vtt"}]}}'
  exit 0
fi
while [ $# -gt 0 ]; do
  if [ "$1" = "-o" ]; then out="$2"; fi
  shift
done
base=$(echo "$out" | sed 's/%(id)s/dQw4w9WgXcQ/')
printf 'WEBVTT\nKind: captions\nLanguage: en\n\n00:00:01.000 --> 00:00:04.000\nNever gonna <c.colorE5E5E5>give</c> you up\n\n00:01:02.500 --> 00:01:05.000\nNever gonna let you down\n' > "$base.en.vtt"
`

func writeFakeYtDlp(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "yt-dlp")
	if err := os.WriteFile(path, []byte(fakeYtDlpScript), 0o755); err != nil {
		t.Fatalf("write fake yt-dlp: %v", err)
	}
	return path
}

// isolatedEnv points config, cache and the yt-dlp binary at per-test paths.
func isolatedEnv(t *testing.T, ytdlp string) map[string]string {
	t.Helper()
	return map[string]string{
		"XDG_CONFIG_HOME":           t.TempDir(),
		"YT_TRANSCRIBER_CACHE_DIR":  t.TempDir(),
		"YT_TRANSCRIBER_YTDLP_PATH": ytdlp,
		"YT_TRANSCRIBER_LANGUAGE":   "",
		"YT_TRANSCRIBER_FORMAT":     "",
		"YT_TRANSCRIBER_LOG_LEVEL":  "",
	}
}
