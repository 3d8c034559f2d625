package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/forPelevin/yttranscriber/internal/domain/render"
)

const appName = "yt-transcriber"

// Environment variables that override file values. A .env file in the
// working directory is loaded into the environment by the CLI first.
const (
	EnvLanguage = "YT_TRANSCRIBER_LANGUAGE"
	EnvFormat   = "YT_TRANSCRIBER_FORMAT"
	EnvYtDlp    = "YT_TRANSCRIBER_YTDLP_PATH"
	EnvCacheDir = "YT_TRANSCRIBER_CACHE_DIR"
	EnvLogLevel = "YT_TRANSCRIBER_LOG_LEVEL"
	EnvCacheTTL = "YT_TRANSCRIBER_CACHE_TTL_HOURS"
)

// Transcript holds the defaults for what gets extracted and how it renders.
type Transcript struct {
	Language   string `toml:"language" yaml:"language"`
	Format     string `toml:"format" yaml:"format"`
	Timestamps bool   `toml:"timestamps" yaml:"timestamps"`
}

type YtDlp struct {
	Path           string `toml:"path" yaml:"path"`
	AutoInstall    bool   `toml:"auto_install" yaml:"auto_install"`
	TimeoutSeconds int    `toml:"timeout_seconds" yaml:"timeout_seconds"`
}

// Cache configures the SQLite cache of downloaded caption markup.
type Cache struct {
	Enabled  bool   `toml:"enabled" yaml:"enabled"`
	Dir      string `toml:"dir" yaml:"dir"`
	TTLHours int    `toml:"ttl_hours" yaml:"ttl_hours"`
}

type Logging struct {
	Level  string `toml:"level" yaml:"level"`
	Format string `toml:"format" yaml:"format"`
}

type Config struct {
	Transcript Transcript `toml:"transcript" yaml:"transcript"`
	YtDlp      YtDlp      `toml:"ytdlp" yaml:"ytdlp"`
	Cache      Cache      `toml:"cache" yaml:"cache"`
	Logging    Logging    `toml:"logging" yaml:"logging"`
}

func Default() Config {
	return Config{
		Transcript: Transcript{
			Language:   "en",
			Format:     string(render.FormatText),
			Timestamps: true,
		},
		YtDlp: YtDlp{
			Path:           "yt-dlp",
			AutoInstall:    true,
			TimeoutSeconds: 300,
		},
		Cache: Cache{
			Enabled:  true,
			Dir:      defaultCacheDir(),
			TTLHours: 24 * 7,
		},
		Logging: Logging{
			Level:  "warn",
			Format: "console",
		},
	}
}

// DefaultConfigPath is config.toml under the user config dir.
func DefaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(".", appName+".toml")
	}
	return filepath.Join(dir, appName, "config.toml")
}

// Load reads the config file at path (or the default location when empty),
// applies environment overrides and validates the result. A missing file is
// not an error; the returned bool reports whether it existed.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolved, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}
	if exists {
		data, err := os.ReadFile(resolved)
		if err != nil {
			return nil, "", false, fmt.Errorf("read config: %w", err)
		}
		if err := decode(resolved, data, &cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config %s: %w", resolved, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, "", false, err
	}
	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}
	return &cfg, resolved, exists, nil
}

func decode(path string, data []byte, cfg *Config) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
			return err
		}
		return nil
	default:
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		return dec.Decode(cfg)
	}
}

func resolveConfigPath(path string) (string, bool, error) {
	if strings.TrimSpace(path) == "" {
		path = DefaultConfigPath()
	}
	expanded, err := expandPath(path)
	if err != nil {
		return "", false, err
	}
	info, err := os.Stat(expanded)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return expanded, false, nil
		}
		return "", false, fmt.Errorf("stat config: %w", err)
	}
	if info.IsDir() {
		return "", false, fmt.Errorf("config path %s is a directory", expanded)
	}
	return expanded, true, nil
}

func (c *Config) applyEnv() error {
	if v := strings.TrimSpace(os.Getenv(EnvLanguage)); v != "" {
		c.Transcript.Language = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvFormat)); v != "" {
		c.Transcript.Format = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvYtDlp)); v != "" {
		c.YtDlp.Path = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvCacheDir)); v != "" {
		c.Cache.Dir = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		c.Logging.Level = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvCacheTTL)); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvCacheTTL, err)
		}
		c.Cache.TTLHours = n
	}
	return nil
}

func (c *Config) normalize() error {
	c.Transcript.Language = strings.TrimSpace(c.Transcript.Language)
	c.Transcript.Format = strings.ToLower(strings.TrimSpace(c.Transcript.Format))
	c.YtDlp.Path = strings.TrimSpace(c.YtDlp.Path)
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))

	if c.Cache.Dir == "" {
		c.Cache.Dir = defaultCacheDir()
	}
	dir, err := expandPath(c.Cache.Dir)
	if err != nil {
		return err
	}
	c.Cache.Dir = dir

	if strings.HasPrefix(c.YtDlp.Path, "~") {
		p, err := expandPath(c.YtDlp.Path)
		if err != nil {
			return err
		}
		c.YtDlp.Path = p
	}
	return nil
}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if c.Transcript.Language == "" {
		return errors.New("transcript.language must be set")
	}
	if _, err := render.ParseFormat(c.Transcript.Format); err != nil {
		return fmt.Errorf("transcript.format: %w", err)
	}
	if c.YtDlp.Path == "" {
		return errors.New("ytdlp.path must be set")
	}
	if c.YtDlp.TimeoutSeconds < 0 {
		return errors.New("ytdlp.timeout_seconds must be >= 0")
	}
	if c.Cache.TTLHours < 0 {
		return errors.New("cache.ttl_hours must be >= 0")
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	return nil
}

// CachePath is the SQLite database file inside the cache dir.
func (c *Config) CachePath() string { return filepath.Join(c.Cache.Dir, "captions.db") }

// InstallLockPath guards concurrent yt-dlp installs.
func (c *Config) InstallLockPath() string { return filepath.Join(c.Cache.Dir, "install.lock") }

func defaultCacheDir() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return filepath.Join(os.TempDir(), appName)
	}
	return filepath.Join(dir, appName)
}

func expandPath(path string) (string, error) {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("expand %s: %w", path, err)
		}
		path = filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	return filepath.Clean(path), nil
}
