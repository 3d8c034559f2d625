// Package language validates and names the caption language codes yt-dlp
// understands. Codes are passed to yt-dlp untouched; the helpers here only
// inspect them.
package language

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// origSuffix marks YouTube's untranslated automatic caption track.
const origSuffix = "-orig"

// Validate reports whether code is a well-formed BCP 47 tag, optionally
// carrying yt-dlp's "-orig" suffix.
func Validate(code string) error {
	base := strings.TrimSuffix(strings.TrimSpace(code), origSuffix)
	if base == "" {
		return fmt.Errorf("language code is empty")
	}
	if _, err := language.Parse(base); err != nil {
		return fmt.Errorf("language code %q: %w", code, err)
	}
	return nil
}

// DisplayName returns the English name of code, e.g. "English" for "en" and
// "German (original)" for "de-orig". Unknown codes come back unchanged.
func DisplayName(code string) string {
	code = strings.TrimSpace(code)
	base, orig := strings.CutSuffix(code, origSuffix)
	tag, err := language.Parse(base)
	if err != nil {
		return code
	}
	name := display.English.Tags().Name(tag)
	if name == "" {
		return code
	}
	if orig {
		name += " (original)"
	}
	return name
}
