// Package config loads runtime settings from an optional YAML file, a .env
// file and environment variables, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/ironsheep/cafeteria-menu-ocr/internal/board"
	"github.com/ironsheep/cafeteria-menu-ocr/internal/imaging"
	"github.com/ironsheep/cafeteria-menu-ocr/internal/ocr"
	"github.com/ironsheep/cafeteria-menu-ocr/internal/pipeline"
	"github.com/ironsheep/cafeteria-menu-ocr/internal/store"
)

// Environment variables that override the file.
const (
	EnvDB         = "MENU_OCR_DB"
	EnvAPIKey     = "OCR_SPACE_API_KEY"
	EnvTessdata   = "TESSDATA_PREFIX"
	EnvOCRBackend = "MENU_OCR_OCR_BACKEND"
	EnvLogLevel   = "MENU_OCR_LOG_LEVEL"
)

type Config struct {
	Boards  Boards  `yaml:"boards"`
	HTTP    HTTP    `yaml:"http"`
	OCR     OCR     `yaml:"ocr"`
	Segment Segment `yaml:"segment"`
	Store   Store   `yaml:"store"`
	Log     Log     `yaml:"log"`
}

type Boards struct {
	Faculty string `yaml:"faculty"`
	Student string `yaml:"student"`
}

type HTTP struct {
	UserAgent    string        `yaml:"user_agent"`
	Timeout      time.Duration `yaml:"timeout"`
	ImageTimeout time.Duration `yaml:"image_timeout"`
	MaxAttempts  int           `yaml:"max_attempts"`
	RetryDelay   time.Duration `yaml:"retry_delay"`
}

type OCR struct {
	Backend       string   `yaml:"backend"`
	Languages     []string `yaml:"languages"`
	TessdataDir   string   `yaml:"tessdata_dir"`
	TesseractPath string   `yaml:"tesseract_path"`
	Endpoint      string   `yaml:"endpoint"`
	APIKey        string   `yaml:"api_key"`
}

// Segment places the weekday columns. With DetectRules the columns follow
// the table's vertical rules when they can be found.
type Segment struct {
	imaging.FractionLocator `yaml:",inline"`
	DetectRules             bool `yaml:"detect_rules"`
}

// Locator returns the column locator the settings describe.
func (s Segment) Locator() imaging.ColumnLocator {
	if s.DetectRules {
		return imaging.RuleLocator{Fraction: s.FractionLocator}
	}
	return s.FractionLocator
}

type Store struct {
	Path string `yaml:"path"`
}

type Log struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns a complete configuration.
func Default() *Config {
	fetch := board.DefaultFetchConfig()
	return &Config{
		Boards: Boards{
			Faculty: pipeline.DefaultFacultyBoardURL,
			Student: pipeline.DefaultStudentBoardURL,
		},
		HTTP: HTTP{
			UserAgent:    fetch.UserAgent,
			Timeout:      fetch.Timeout,
			ImageTimeout: fetch.ImageTimeout,
			MaxAttempts:  fetch.MaxAttempts,
			RetryDelay:   fetch.RetryDelay,
		},
		OCR: OCR{
			Backend:   ocr.BackendAuto,
			Languages: append([]string(nil), ocr.DefaultLanguages...),
			Endpoint:  ocr.DefaultOCRSpaceEndpoint,
		},
		Segment: Segment{FractionLocator: imaging.DefaultLocator},
		Store:   Store{Path: store.DefaultPath},
		Log:     Log{Level: "info", Format: "text"},
	}
}

// Load builds the configuration. A missing .env is ignored; a missing file
// at an explicitly given path is not.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.applyEnv(os.Getenv)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(getenv func(string) string) {
	if v := getenv(EnvDB); v != "" {
		c.Store.Path = v
	}
	if v := getenv(EnvAPIKey); v != "" {
		c.OCR.APIKey = v
	}
	if v := getenv(EnvTessdata); v != "" {
		c.OCR.TessdataDir = v
	}
	if v := getenv(EnvOCRBackend); v != "" {
		c.OCR.Backend = v
	}
	if v := getenv(EnvLogLevel); v != "" {
		c.Log.Level = v
	}
}

// Validate rejects values no component can work with.
func (c *Config) Validate() error {
	if err := c.Segment.Validate(); err != nil {
		return fmt.Errorf("segment: %w", err)
	}
	if c.HTTP.MaxAttempts < 1 {
		return fmt.Errorf("http: max_attempts must be at least 1, got %d", c.HTTP.MaxAttempts)
	}
	if c.HTTP.Timeout <= 0 || c.HTTP.ImageTimeout <= 0 {
		return errors.New("http: timeouts must be positive")
	}
	if c.HTTP.RetryDelay < 0 {
		return errors.New("http: retry_delay must not be negative")
	}
	switch strings.ToLower(c.OCR.Backend) {
	case "", ocr.BackendAuto, ocr.BackendTesseract, ocr.BackendTesseractCLI, ocr.BackendOCRSpace:
	default:
		return fmt.Errorf("ocr: unknown backend %q", c.OCR.Backend)
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log: %w", err)
	}
	switch c.Log.Format {
	case "", "text", "json":
	default:
		return fmt.Errorf("log: unknown format %q", c.Log.Format)
	}
	return nil
}

// FetchConfig returns the HTTP settings for board.NewFetcher.
func (c *Config) FetchConfig() board.FetchConfig {
	return board.FetchConfig{
		UserAgent:    c.HTTP.UserAgent,
		Timeout:      c.HTTP.Timeout,
		ImageTimeout: c.HTTP.ImageTimeout,
		MaxAttempts:  c.HTTP.MaxAttempts,
		RetryDelay:   c.HTTP.RetryDelay,
	}
}

// OCROptions returns the settings for ocr.New.
func (c *Config) OCROptions() ocr.Options {
	return ocr.Options{
		Backend:        c.OCR.Backend,
		Languages:      c.OCR.Languages,
		TessdataPrefix: c.OCR.TessdataDir,
		TesseractPath:  c.OCR.TesseractPath,
		APIKey:         c.OCR.APIKey,
		Endpoint:       c.OCR.Endpoint,
	}
}

// Sources returns the bulletin boards to crawl.
func (c *Config) Sources() []pipeline.Source {
	return pipeline.DefaultSources(c.Boards.Faculty, c.Boards.Student)
}

// ParseLevel maps a level name to its slog level.
func ParseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if s == "" {
		return slog.LevelInfo, nil
	}
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("unknown log level %q", s)
	}
	return l, nil
}

// Logger builds the process logger writing to w.
func (c *Config) Logger(w io.Writer) *slog.Logger {
	level, _ := ParseLevel(c.Log.Level)
	opts := &slog.HandlerOptions{Level: level}
	if c.Log.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
