package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/forPelevin/yttranscriber/internal/pipeline"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the yt-transcriber and yt-dlp versions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, _, err := setup(cmd)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "yt-transcriber %s\n", Version)

			ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
			defer cancel()
			v, err := pipeline.ToolVersion(ctx, cfg.YtDlp.Path)
			if err != nil {
				fmt.Fprintf(out, "yt-dlp: not available (path %s)\n", cfg.YtDlp.Path)
				return nil
			}
			fmt.Fprintf(out, "yt-dlp %s\n", v)
			return nil
		},
	}
}
