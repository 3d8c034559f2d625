package cli

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"github.com/forPelevin/yttranscriber/internal/language"
	"github.com/forPelevin/yttranscriber/internal/pipeline"
	"github.com/forPelevin/yttranscriber/internal/types"
)

func newLangsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "langs <url-or-id>",
		Short: "List the caption languages available for a video",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := setup(cmd)
			if err != nil {
				return err
			}
			pc := pipelineConfig(cmd, cfg, log)
			pc.Input = args[0]

			id, tracks, err := pipeline.Tracks(cmd.Context(), pc)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(tracks) == 0 {
				fmt.Fprintf(out, "No caption tracks found for %s\n", id)
				return nil
			}
			fmt.Fprintln(out, renderTracks(tracks))
			return nil
		},
	}
}

func renderTracks(tracks []types.Track) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.Style().Format.Header = text.FormatDefault
	tw.AppendHeader(table.Row{"Code", "Language", "Kind", "Formats"})
	for _, t := range tracks {
		tw.AppendRow(table.Row{t.Language, language.DisplayName(t.Language), string(t.Kind), strings.Join(t.Formats, ", ")})
	}
	return tw.Render()
}
