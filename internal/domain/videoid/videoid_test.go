package videoid

import "testing"

func TestResolve_BareIDs(t *testing.T) {
	for _, id := range []string{"dQw4w9WgXcQ", "___________", "a-b_c-d_e-f", "ABCDEFGHIJK", "01234567890"} {
		got, ok := Resolve(id)
		if !ok || got != id {
			t.Fatalf("Resolve(%q) = %q, %v", id, got, ok)
		}
		got, ok = Resolve("  " + id + "\n")
		if !ok || got != id {
			t.Fatalf("Resolve with whitespace around %q = %q, %v", id, got, ok)
		}
	}
}

func TestResolve_URLShapes(t *testing.T) {
	const id = "dQw4w9WgXcQ"
	hosts := []string{"youtube.com", "www.youtube.com", "m.youtube.com", "music.youtube.com"}
	for _, h := range hosts {
		for _, raw := range []string{
			"https://" + h + "/watch?v=" + id,
			"https://" + h + "/shorts/" + id,
			"https://" + h + "/embed/" + id,
			"https://" + h + "/live/" + id,
			"https://" + h + "/v/" + id + "?feature=share",
			"http://" + h + "/watch?feature=x&v=" + id + "&t=42",
		} {
			got, ok := Resolve(raw)
			if !ok || got != id {
				t.Fatalf("Resolve(%q) = %q, %v", raw, got, ok)
			}
		}
	}

	for _, raw := range []string{
		"https://youtu.be/" + id,
		"https://youtu.be/" + id + "?t=10",
		"https://www.youtu.be/" + id,
		"https://YOUTU.BE/" + id,
	} {
		got, ok := Resolve(raw)
		if !ok || got != id {
			t.Fatalf("Resolve(%q) = %q, %v", raw, got, ok)
		}
	}
}

func TestResolve_Rejects(t *testing.T) {
	tests := []string{
		"",
		"not a url or id",
		"dQw4w9WgXc",   // 10 chars
		"dQw4w9WgXcQQ", // 12 chars
		"dQw4w9WgXc!",
		"youtube.com/watch?v=dQw4w9WgXcQ", // no scheme
		"https://vimeo.com/watch?v=dQw4w9WgXcQ",
		"https://youtu.be/short",
		"https://youtu.be/",
		"https://www.youtube.com/watch?v=tooshort",
		"https://www.youtube.com/channel/dQw4w9WgXcQ",
		"https://www.youtube.com/shorts/",
		"https://www.www.youtube.com/watch?v=dQw4w9WgXcQ", // only one label stripped
	}
	for _, in := range tests {
		if got, ok := Resolve(in); ok {
			t.Fatalf("Resolve(%q) = %q, want rejection", in, got)
		}
	}
}

func TestResolve_FirstKeywordDecides(t *testing.T) {
	// "watch" comes first and is followed by an invalid segment, so the later
	// "shorts" pair is never considered.
	if got, ok := Resolve("https://www.youtube.com/watch/bad/shorts/dQw4w9WgXcQ"); ok {
		t.Fatalf("expected rejection, got %q", got)
	}
	got, ok := Resolve("https://www.youtube.com/channel/x/shorts/dQw4w9WgXcQ")
	if !ok || got != "dQw4w9WgXcQ" {
		t.Fatalf("Resolve = %q, %v", got, ok)
	}
}

func TestResolve_QueryBeatsPath(t *testing.T) {
	got, ok := Resolve("https://www.youtube.com/embed/aaaaaaaaaaa?v=bbbbbbbbbbb")
	if !ok || got != "bbbbbbbbbbb" {
		t.Fatalf("Resolve = %q, %v", got, ok)
	}
	got, ok = Resolve("https://www.youtube.com/embed/aaaaaaaaaaa?v=bad")
	if !ok || got != "aaaaaaaaaaa" {
		t.Fatalf("Resolve = %q, %v", got, ok)
	}
}

func TestWatchURL(t *testing.T) {
	if got := WatchURL("dQw4w9WgXcQ"); got != "https://www.youtube.com/watch?v=dQw4w9WgXcQ" {
		t.Fatalf("WatchURL = %q", got)
	}
}
