package cli

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/forPelevin/yttranscriber/internal/config"
	"github.com/forPelevin/yttranscriber/internal/domain/render"
	"github.com/forPelevin/yttranscriber/internal/logging"
	"github.com/forPelevin/yttranscriber/internal/pipeline"
)

func run(cmd *cobra.Command, input string) error {
	cfg, log, err := setup(cmd)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("language") {
		cfg.Transcript.Language, _ = flags.GetString("language")
	}
	if flags.Changed("format") {
		cfg.Transcript.Format, _ = flags.GetString("format")
	}
	if noTS, _ := flags.GetBool("no-timestamps"); flags.Changed("no-timestamps") {
		cfg.Transcript.Timestamps = !noTS
	}
	if noCache, _ := flags.GetBool("no-cache"); flags.Changed("no-cache") {
		cfg.Cache.Enabled = !noCache
	}
	outPath, _ := flags.GetString("output")
	toClipboard, _ := flags.GetBool("clipboard")

	format, err := render.ParseFormat(cfg.Transcript.Format)
	if err != nil {
		return err
	}

	pc := pipelineConfig(cmd, cfg, log)
	pc.Input = input
	pc.Language = cfg.Transcript.Language
	pc.Format = format
	pc.Timestamps = cfg.Transcript.Timestamps
	pc.OutputPath = outPath
	pc.CopyToClipboard = toClipboard

	if err := pc.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return pipeline.Run(cmd.Context(), pc)
}

// setup loads the config file and environment, applies the logging flags and
// builds the logger shared by every subcommand.
func setup(cmd *cobra.Command) (*config.Config, *slog.Logger, error) {
	flags := cmd.Flags()
	path, _ := flags.GetString("config")
	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		return nil, nil, fmt.Errorf("config: %w", err)
	}
	if v, _ := flags.GetString("log-level"); v != "" {
		cfg.Logging.Level = v
	}
	if v, _ := flags.GetString("log-format"); v != "" {
		cfg.Logging.Format = v
	}

	logger, err := logging.New(logging.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Writer: cmd.ErrOrStderr(),
		Color:  logging.ColorEnabled(os.Stderr),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("config: %w", err)
	}
	logger.Debug("config loaded", "path", resolved, "exists", exists)
	return cfg, logger, nil
}

func pipelineConfig(cmd *cobra.Command, cfg *config.Config, log *slog.Logger) pipeline.Config {
	return pipeline.Config{
		Language:        cfg.Transcript.Language,
		YtDlpPath:       cfg.YtDlp.Path,
		AutoInstall:     cfg.YtDlp.AutoInstall,
		Timeout:         time.Duration(cfg.YtDlp.TimeoutSeconds) * time.Second,
		CacheEnabled:    cfg.Cache.Enabled,
		CachePath:       cfg.CachePath(),
		CacheTTL:        time.Duration(cfg.Cache.TTLHours) * time.Hour,
		InstallLockPath: cfg.InstallLockPath(),
		Logger:          log,
		Stdout:          cmd.OutOrStdout(),
		Stderr:          cmd.ErrOrStderr(),
	}
}
