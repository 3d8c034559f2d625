package videoid

import (
	"net/url"
	"regexp"
	"strings"
)

var idRe = regexp.MustCompile(`^[a-zA-Z0-9_-]{11}$`)

const (
	shortHost = "youtu.be"
	mainHost  = "youtube.com"
)

var (
	hostPrefixes = []string{"www.", "m.", "music."}
	pathKeywords = map[string]struct{}{
		"watch":  {},
		"embed":  {},
		"v":      {},
		"shorts": {},
		"live":   {},
		"clip":   {},
	}
)

// Valid reports whether s is a canonical 11-character video ID.
func Valid(s string) bool { return idRe.MatchString(s) }

// Resolve maps a bare ID or a YouTube URL to a canonical video ID.
// A bare ID wins over any URL interpretation.
//
// On youtube.com the first path keyword decides: when the segment after it
// is not a valid ID, resolution fails even if a later keyword would match.
func Resolve(input string) (string, bool) {
	trimmed := strings.TrimSpace(input)
	if Valid(trimmed) {
		return trimmed, true
	}

	u, err := url.Parse(trimmed)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return "", false
	}

	switch normalizeHost(u.Hostname()) {
	case shortHost:
		if segs := pathSegments(u); len(segs) > 0 && Valid(segs[0]) {
			return segs[0], true
		}
	case mainHost:
		if v := u.Query().Get("v"); Valid(v) {
			return v, true
		}
		segs := pathSegments(u)
		for i, seg := range segs {
			if _, ok := pathKeywords[seg]; !ok {
				continue
			}
			if i+1 < len(segs) && Valid(segs[i+1]) {
				return segs[i+1], true
			}
			return "", false
		}
	}
	return "", false
}

// WatchURL is the canonical watch page for id.
func WatchURL(id string) string {
	return "https://www.youtube.com/watch?v=" + id
}

func normalizeHost(host string) string {
	host = strings.ToLower(host)
	for _, p := range hostPrefixes {
		if strings.HasPrefix(host, p) {
			return strings.TrimPrefix(host, p)
		}
	}
	return host
}

func pathSegments(u *url.URL) []string {
	var out []string
	for _, seg := range strings.Split(u.EscapedPath(), "/") {
		if seg != "" {
			out = append(out, seg)
		}
	}
	return out
}
