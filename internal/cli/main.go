package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/forPelevin/yttranscriber/internal/ports"
)

// Version is set at build time with -ldflags "-X ...cli.Version=...".
var Version = "1.0.0"

func Main() {
	_ = godotenv.Load() // best-effort: load .env if present

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, errorLine(err))
		os.Exit(exitCode(err))
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "yt-transcriber <url-or-id>",
		Short:        "Extract YouTube video transcripts with timestamps",
		Args:         cobra.ExactArgs(1),
		Version:      Version,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args[0])
		},
	}

	root.SetOut(os.Stdout)
	root.SetErr(os.Stderr)
	root.SilenceErrors = true

	root.Flags().StringP("format", "f", "txt", "Output format: txt, srt or json")
	root.Flags().StringP("output", "o", "", "Output file path (default: stdout)")
	root.Flags().StringP("language", "l", "en", "Language code for transcript")
	root.Flags().Bool("no-timestamps", false, "Exclude timestamps from TXT output")
	root.Flags().Bool("clipboard", false, "Also copy the transcript to the clipboard")
	root.Flags().Bool("no-cache", false, "Bypass the caption cache")

	pf := root.PersistentFlags()
	pf.String("config", "", "Config file (.toml, .yaml or .yml)")
	pf.String("log-level", "", "Log level: debug, info, warn or error")
	pf.String("log-format", "", "Log format: console or json")

	root.AddCommand(newLangsCmd(), newVersionCmd())
	return root
}

// errorLine renders err for stderr. The two user-facing input failures keep
// their sentence-case wording; everything else is printed as is.
func errorLine(err error) string {
	switch {
	case errors.Is(err, ports.ErrInvalidInput):
		return "Error: Invalid YouTube URL or video ID"
	case errors.Is(err, ports.ErrVideoUnavailable):
		return "Error: Video is unavailable (private/deleted/restricted)"
	}
	return "Error: " + err.Error()
}
