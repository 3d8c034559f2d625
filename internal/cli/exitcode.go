package cli

import (
	"errors"

	"github.com/forPelevin/yttranscriber/internal/ports"
)

// exitCode maps an error category to the process exit status. Anything
// unclassified (flag and config errors included) exits 1.
func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, ports.ErrIO):
		return 4
	case errors.Is(err, ports.ErrToolStart):
		return 3
	case errors.Is(err, ports.ErrVideoUnavailable),
		errors.Is(err, ports.ErrFetchFailed),
		errors.Is(err, ports.ErrNoCaptions),
		errors.Is(err, ports.ErrNoTranscript):
		return 2
	default:
		return 1
	}
}
