package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/ironsheep/cafeteria-menu-ocr/internal/board"
	"github.com/ironsheep/cafeteria-menu-ocr/internal/daterange"
	"github.com/ironsheep/cafeteria-menu-ocr/internal/imaging"
	"github.com/ironsheep/cafeteria-menu-ocr/internal/menu"
)

// Default bulletin board listing pages.
const (
	DefaultFacultyBoardURL = "https://www.smu.ac.kr/kor/life/restaurantView3.do"
	DefaultStudentBoardURL = "https://www.smu.ac.kr/kor/life/restaurantView4.do"
)

// Source is a bulletin board that publishes a restaurant's weekly menu as
// images.
type Source struct {
	Restaurant menu.Restaurant
	ListingURL string
	Match      board.TitleMatcher
}

// DefaultSources returns the image-based boards. Empty URLs use the defaults.
func DefaultSources(facultyURL, studentURL string) []Source {
	if facultyURL == "" {
		facultyURL = DefaultFacultyBoardURL
	}
	if studentURL == "" {
		studentURL = DefaultStudentBoardURL
	}
	return []Source{
		{Restaurant: menu.CheonanFaculty, ListingURL: facultyURL, Match: board.FacultyTitle},
		{Restaurant: menu.CheonanStudent, ListingURL: studentURL, Match: board.StudentTitle},
	}
}

// Crawler finds a week's announcement, downloads its images and extracts
// the menus.
type Crawler struct {
	fetcher   *board.Fetcher
	extractor *Extractor
	sources   []Source
	logger    *slog.Logger
}

// NewCrawler creates a Crawler over sources.
func NewCrawler(fetcher *board.Fetcher, extractor *Extractor, sources []Source, logger *slog.Logger) *Crawler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Crawler{fetcher: fetcher, extractor: extractor, sources: sources, logger: logger}
}

// Restaurants lists the restaurants this crawler has a source for.
func (c *Crawler) Restaurants() []menu.Restaurant {
	out := make([]menu.Restaurant, len(c.sources))
	for i, s := range c.sources {
		out[i] = s.Restaurant
	}
	return out
}

func (c *Crawler) source(r menu.Restaurant) (Source, bool) {
	for _, s := range c.sources {
		if s.Restaurant == r {
			return s, true
		}
	}
	return Source{}, false
}

// CrawlWeek returns the menus of r for the week containing target. It never
// fails: any error or an empty result is logged and replaced by the
// sentinel week.
func (c *Crawler) CrawlWeek(ctx context.Context, r menu.Restaurant, target time.Time) []menu.Menu {
	logger := c.logger.With("run_id", uuid.NewString(), "restaurant", string(r), "target", target.Format(menu.DateLayout))

	src, ok := c.source(r)
	if !ok {
		logger.Warn("no image board configured for restaurant")
		return menu.SentinelWeek(r, target)
	}

	start := time.Now()
	menus, err := c.crawl(ctx, src, target, logger)
	if err != nil {
		logger.Warn("crawl failed, using sentinel week", "error", err)
		return menu.SentinelWeek(r, target)
	}
	if len(menus) == 0 {
		logger.Warn("crawl produced no menus, using sentinel week")
		return menu.SentinelWeek(r, target)
	}

	logger.Info("crawl complete", "menus", len(menus), "duration_ms", time.Since(start).Milliseconds())
	return menus
}

func (c *Crawler) crawl(ctx context.Context, src Source, target time.Time, logger *slog.Logger) ([]menu.Menu, error) {
	listing, err := c.fetcher.Page(ctx, src.ListingURL)
	if err != nil {
		return nil, fmt.Errorf("listing: %w", err)
	}
	listingDoc, err := board.Parse(listing)
	if err != nil {
		return nil, err
	}
	article, err := board.FindArticle(listingDoc, src.ListingURL, src.Match, target)
	if err != nil {
		return nil, err
	}
	logger.Debug("article found", "url", article.URL, "title", article.Title)

	page, err := c.fetcher.Page(ctx, article.URL)
	if err != nil {
		return nil, fmt.Errorf("article: %w", err)
	}
	doc, err := board.Parse(page)
	if err != nil {
		return nil, err
	}

	title := board.ArticleTitle(doc)
	dates := daterange.Resolve(title, target)
	urls := board.ImageURLs(doc, article.URL)
	if len(urls) == 0 {
		return nil, board.ErrNoImages
	}
	logger.Info("article resolved", "title", title, "dates", len(dates), "images", len(urls))

	var week Week
	ok := 0
	for _, u := range urls {
		data, err := c.fetcher.Image(ctx, u)
		if err != nil {
			logger.Warn("image download failed", "url", u, "error", err)
			continue
		}
		img, info, err := imaging.Decode(data)
		if err != nil {
			logger.Warn("image decode failed", "url", u, "error", err)
			continue
		}
		logger.Debug("image decoded", "url", u, "width", info.Width, "height", info.Height, "format", info.Format)
		week.Add(c.extractor.Days(ctx, img))
		ok++
	}
	if ok == 0 {
		return nil, fmt.Errorf("all %d images failed", len(urls))
	}

	return Assemble(src.Restaurant, dates, week.Days()), nil
}

// CrawlAll crawls every configured restaurant concurrently and merges the
// results by identity key.
func (c *Crawler) CrawlAll(ctx context.Context, target time.Time) []menu.Menu {
	results := make([][]menu.Menu, len(c.sources))
	var g errgroup.Group
	for i, src := range c.sources {
		i, src := i, src // per-iteration copies (go.mod targets go1.21)
		g.Go(func() error {
			results[i] = c.CrawlWeek(ctx, src.Restaurant, target)
			return nil
		})
	}
	_ = g.Wait() // CrawlWeek substitutes sentinels instead of failing

	var all []menu.Menu
	for _, menus := range results {
		all = append(all, menus...)
	}
	return menu.Dedupe(all)
}

// CrawlDay returns r's menus for day only.
func (c *Crawler) CrawlDay(ctx context.Context, r menu.Restaurant, day time.Time) []menu.Menu {
	want := menu.Day(day)
	var out []menu.Menu
	for _, m := range c.CrawlWeek(ctx, r, day) {
		if m.Date.Equal(want) {
			out = append(out, m)
		}
	}
	return out
}

// ExtractImages runs the image half of the pipeline on already downloaded
// images, for announcements saved by hand. Images that fail to decode are
// skipped; it is an error only if none decode.
func (c *Crawler) ExtractImages(ctx context.Context, r menu.Restaurant, title string, target time.Time, images [][]byte) ([]menu.Menu, error) {
	return ExtractImages(ctx, c.extractor, r, title, target, images, c.logger)
}

// ExtractImages is the standalone form of Crawler.ExtractImages.
func ExtractImages(ctx context.Context, e *Extractor, r menu.Restaurant, title string, target time.Time, images [][]byte, logger *slog.Logger) ([]menu.Menu, error) {
	if logger == nil {
		logger = slog.Default()
	}
	var week Week
	ok := 0
	for i, data := range images {
		img, _, err := imaging.Decode(data)
		if err != nil {
			logger.Warn("image decode failed", "index", i, "error", err)
			continue
		}
		week.Add(e.Days(ctx, img))
		ok++
	}
	if ok == 0 {
		return nil, board.ErrNoImages
	}
	return Assemble(r, daterange.Resolve(title, target), week.Days()), nil
}
