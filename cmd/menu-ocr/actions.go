package main

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/ironsheep/cafeteria-menu-ocr/internal/board"
	"github.com/ironsheep/cafeteria-menu-ocr/internal/config"
	"github.com/ironsheep/cafeteria-menu-ocr/internal/export"
	"github.com/ironsheep/cafeteria-menu-ocr/internal/imaging"
	"github.com/ironsheep/cafeteria-menu-ocr/internal/menu"
	"github.com/ironsheep/cafeteria-menu-ocr/internal/ocr"
	"github.com/ironsheep/cafeteria-menu-ocr/internal/pipeline"
	"github.com/ironsheep/cafeteria-menu-ocr/internal/server"
	"github.com/ironsheep/cafeteria-menu-ocr/internal/store"
)

const envKey = "env"

// env holds what every command needs once flags and config are resolved.
type env struct {
	cfg    *config.Config
	logger *slog.Logger
	now    func() time.Time
}

// setup loads the configuration and installs the logger. Logs go to stderr
// so stdout stays clean for command output and the MCP protocol.
func setup(c *cli.Context) error {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return err
	}
	if lvl := c.String("log-level"); lvl != "" {
		cfg.Log.Level = lvl
		if err := cfg.Validate(); err != nil {
			return err
		}
	}

	logger := cfg.Logger(os.Stderr)
	slog.SetDefault(logger)
	logger.Debug("menu-ocr starting", "version", Version, "build_time", BuildTime, "commit", GitCommit)

	if c.App.Metadata == nil {
		c.App.Metadata = make(map[string]interface{})
	}
	c.App.Metadata[envKey] = &env{cfg: cfg, logger: logger, now: time.Now}
	return nil
}

func getEnv(c *cli.Context) *env {
	return c.App.Metadata[envKey].(*env)
}

// engine builds the configured OCR backend. Without one the pipeline still
// runs and every column becomes a sentinel.
func (e *env) engine(ctx context.Context) ocr.Engine {
	eng, err := ocr.New(e.cfg.OCROptions(), e.logger)
	if err != nil {
		e.logger.Warn("no OCR backend, menus will contain placeholders", "error", err)
		return nil
	}
	info := ocr.Describe(ctx, eng, nil)
	e.logger.Info("OCR backend ready", "backend", info.Backend, "version", info.Version)
	return eng
}

func (e *env) extractor(ctx context.Context) *pipeline.Extractor {
	return pipeline.NewExtractor(e.engine(ctx), e.cfg.Segment.Locator(), e.logger)
}

func (e *env) crawler(ctx context.Context) *pipeline.Crawler {
	fetcher := board.NewFetcher(nil, e.cfg.FetchConfig(), e.logger)
	return pipeline.NewCrawler(fetcher, e.extractor(ctx), e.cfg.Sources(), e.logger)
}

func (e *env) openStore() (*store.Store, error) {
	return store.Open(e.cfg.Store.Path, e.logger)
}

func (e *env) date(s string) (time.Time, error) {
	if s == "" {
		return menu.Day(e.now()), nil
	}
	t, err := time.Parse(menu.DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, want YYYY-MM-DD", s)
	}
	return t, nil
}

// window resolves --from/--to, defaulting to the current Monday..Friday.
func (e *env) window(c *cli.Context) (time.Time, time.Time, error) {
	monday := menu.Monday(e.now())
	from, to := monday, monday.AddDate(0, 0, 4)
	var err error
	if s := c.String("from"); s != "" {
		if from, err = e.date(s); err != nil {
			return from, to, err
		}
	}
	if s := c.String("to"); s != "" {
		if to, err = e.date(s); err != nil {
			return from, to, err
		}
	}
	if to.Before(from) {
		return from, to, errors.New("--to is before --from")
	}
	return from, to, nil
}

func (e *env) save(ctx context.Context, menus []menu.Menu) error {
	st, err := e.openStore()
	if err != nil {
		return err
	}
	defer st.Close()
	_, err = st.Save(ctx, menus)
	return err
}

func writeOutput(w io.Writer, format string, v interface{}) error {
	switch strings.ToLower(format) {
	case "yaml", "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	case "json", "":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

func crawlAction(c *cli.Context) error {
	e := getEnv(c)
	ctx := c.Context
	target, err := e.date(c.String("date"))
	if err != nil {
		return err
	}

	crawler := e.crawler(ctx)
	var menus []menu.Menu
	if name := c.String("restaurant"); name != "" {
		r, err := menu.ParseRestaurant(name)
		if err != nil {
			return err
		}
		menus = crawler.CrawlWeek(ctx, r, target)
	} else {
		menus = crawler.CrawlAll(ctx, target)
	}

	if c.Bool("save") {
		if err := e.save(ctx, menus); err != nil {
			return err
		}
	}
	return writeOutput(c.App.Writer, c.String("format"), menus)
}

func extractAction(c *cli.Context) error {
	e := getEnv(c)
	ctx := c.Context
	if c.NArg() == 0 {
		return errors.New("at least one image path is required")
	}
	r, err := menu.ParseRestaurant(c.String("restaurant"))
	if err != nil {
		return err
	}
	target, err := e.date(c.String("date"))
	if err != nil {
		return err
	}

	images := make([][]byte, 0, c.NArg())
	for _, path := range c.Args().Slice() {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read image: %w", err)
		}
		images = append(images, data)
	}

	menus, err := pipeline.ExtractImages(ctx, e.extractor(ctx), r, c.String("title"), target, images, e.logger)
	if err != nil {
		return err
	}
	if c.Bool("save") {
		if err := e.save(ctx, menus); err != nil {
			return err
		}
	}
	return writeOutput(c.App.Writer, c.String("format"), menus)
}

func overlayAction(c *cli.Context) error {
	e := getEnv(c)
	if c.NArg() != 1 {
		return errors.New("exactly one image path is required")
	}
	img, _, err := imaging.LoadFile(c.Args().First())
	if err != nil {
		return err
	}
	res, err := imaging.ColumnOverlay(img, e.cfg.Segment.Locator(), c.String("color"))
	if err != nil {
		return err
	}
	data, err := base64.StdEncoding.DecodeString(res.ImageBase64)
	if err != nil {
		return err
	}
	out := c.String("out")
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return fmt.Errorf("write overlay: %w", err)
	}
	for i, r := range res.Columns {
		fmt.Fprintf(c.App.Writer, "column %d: %v\n", i, r)
	}
	fmt.Fprintf(c.App.Writer, "wrote %s (%dx%d)\n", out, res.Width, res.Height)
	return nil
}

func listAction(c *cli.Context) error {
	e := getEnv(c)
	from, to, err := e.window(c)
	if err != nil {
		return err
	}
	st, err := e.openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	var recs []store.Record
	if name := c.String("restaurant"); name != "" {
		r, perr := menu.ParseRestaurant(name)
		if perr != nil {
			return perr
		}
		recs, err = st.ByRestaurant(c.Context, r, from, to)
	} else {
		recs, err = st.Range(c.Context, from, to)
	}
	if err != nil {
		return err
	}
	return writeOutput(c.App.Writer, c.String("format"), recs)
}

func exportAction(c *cli.Context) error {
	e := getEnv(c)
	from, to, err := e.window(c)
	if err != nil {
		return err
	}
	st, err := e.openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	recs, err := st.Range(c.Context, from, to)
	if err != nil {
		return err
	}
	data, err := export.XLSX(store.Menus(recs))
	if err != nil {
		return err
	}
	out := c.String("out")
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return fmt.Errorf("write export: %w", err)
	}
	e.logger.Info("export written", "path", out, "menus", len(recs))
	return nil
}

func purgeAction(c *cli.Context) error {
	e := getEnv(c)
	cutoff, err := e.date(c.String("before"))
	if err != nil {
		return err
	}
	st, err := e.openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	n, err := st.ClearBefore(c.Context, cutoff)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "removed %d menus\n", n)
	return nil
}

func serveAction(c *cli.Context) error {
	e := getEnv(c)
	ctx := c.Context

	st, err := e.openStore()
	if err != nil {
		e.logger.Warn("store unavailable, crawl results will not be saved", "error", err)
	} else {
		defer st.Close()
	}

	extractor := e.extractor(ctx)
	fetcher := board.NewFetcher(nil, e.cfg.FetchConfig(), e.logger)
	srv, err := server.New(server.Options{
		Crawler:   pipeline.NewCrawler(fetcher, extractor, e.cfg.Sources(), e.logger),
		Extractor: extractor,
		Store:     st,
		Locator:   e.cfg.Segment.Locator(),
		Version:   Version,
		Logger:    e.logger,
	})
	if err != nil {
		return err
	}
	e.logger.Info("MCP server listening on stdio", "version", Version)
	return srv.Run(ctx)
}
