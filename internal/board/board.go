// Package board reads the campus bulletin board: it finds the weekly menu
// announcement in a listing page, extracts the announcement title, and
// resolves the menu image URLs embedded in the article body.
package board

import (
	"bytes"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/ironsheep/cafeteria-menu-ocr/internal/daterange"
)

var (
	// ErrNoArticle means the listing had no announcement matching the board.
	ErrNoArticle = errors.New("no weekly menu article found")
	// ErrNoImages means the article body had no menu images.
	ErrNoImages = errors.New("no menu images in article")
)

// Selectors used against the bulletin board markup.
const (
	articleTitleSelector = "#jwxe_main_content h4"
	articleImageSelector = ".fr-view img"
	viewLinkMarker       = "mode=view"
)

// TitleMatcher decides whether a listing title names a weekly menu post.
type TitleMatcher func(title string) bool

// FacultyTitle matches the faculty cafeteria announcement titles.
func FacultyTitle(title string) bool {
	if strings.Contains(strings.ReplaceAll(title, " ", ""), "교직원식당주간메뉴") {
		return true
	}
	return strings.Contains(title, "교직원식당") || strings.Contains(title, "주간 메뉴")
}

// StudentTitle matches the student cafeteria announcement titles.
func StudentTitle(title string) bool {
	compact := strings.ReplaceAll(title, " ", "")
	return strings.Contains(compact, "주간식단표") || strings.Contains(compact, "주간메뉴")
}

// Article is a candidate announcement from a listing page.
type Article struct {
	URL   string
	Title string
	Dates []time.Time
}

// Parse parses an HTML document.
func Parse(html []byte) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	return doc, nil
}

// Articles lists the announcement links on a listing page that match, in
// page order, each with the dates its title resolves to.
func Articles(doc *goquery.Document, listingURL string, match TitleMatcher, ref time.Time) []Article {
	base, err := url.Parse(listingURL)
	if err != nil {
		return nil
	}

	var out []Article
	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		if !strings.Contains(href, viewLinkMarker) {
			return
		}
		title, ok := a.Attr("title")
		if !ok || strings.TrimSpace(title) == "" {
			title = collapse(a.Text())
		}
		if !match(title) {
			return
		}
		abs, ok := resolve(base, href)
		if !ok {
			return
		}
		out = append(out, Article{URL: abs, Title: title, Dates: daterange.Resolve(title, ref)})
	})
	return out
}

// FindArticle picks the announcement for ref's week: the first candidate
// whose title covers exactly Monday..Friday of that week, else the first
// candidate on the page.
func FindArticle(doc *goquery.Document, listingURL string, match TitleMatcher, ref time.Time) (Article, error) {
	candidates := Articles(doc, listingURL, match, ref)
	if len(candidates) == 0 {
		return Article{}, ErrNoArticle
	}
	for _, c := range candidates {
		if daterange.IsWeekOf(c.Dates, ref) {
			return c, nil
		}
	}
	return candidates[0], nil
}

// ArticleTitle returns the announcement heading, falling back to <title>.
func ArticleTitle(doc *goquery.Document) string {
	if h := doc.Find(articleTitleSelector).First(); h.Length() > 0 {
		return collapse(h.Text())
	}
	return collapse(doc.Find("title").First().Text())
}

// ImageURLs returns the absolute, deduplicated menu image URLs of an article.
// data-path is preferred over src because it points at the undistorted
// original upload.
func ImageURLs(doc *goquery.Document, articleURL string) []string {
	base, err := url.Parse(articleURL)
	if err != nil {
		return nil
	}

	seen := make(map[string]struct{})
	var out []string
	doc.Find(articleImageSelector).Each(func(_ int, img *goquery.Selection) {
		src := img.AttrOr("data-path", "")
		if src == "" {
			src = img.AttrOr("src", "")
		}
		if src == "" {
			return
		}
		abs, ok := resolve(base, src)
		if !ok {
			return
		}
		if _, dup := seen[abs]; dup {
			return
		}
		seen[abs] = struct{}{}
		out = append(out, abs)
	})
	return out
}

// resolve makes ref absolute against base. Entity-escaped ampersands left in
// attribute values by the CMS are unescaped first.
func resolve(base *url.URL, ref string) (string, bool) {
	ref = strings.ReplaceAll(strings.TrimSpace(ref), "&amp;", "&")
	u, err := url.Parse(ref)
	if err != nil {
		return "", false
	}
	return base.ResolveReference(u).String(), true
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
