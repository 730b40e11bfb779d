package board

import (
	"errors"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const listingHTML = `<html><body>
<ul class="board-list">
  <li><a href="/menu/board?mode=list&page=2">다음</a></li>
  <li><a href="?mode=view&amp;articleNo=101" title="교직원 식당 주간 메뉴(2024.2.26~3.1)">지난 주</a></li>
  <li><a href="?mode=view&articleNo=102">교직원 식당 주간 메뉴(2024.3.4~3.8)</a></li>
  <li><a href="?mode=view&articleNo=103">학생식당 주간식단표(3.4.~3.8.)</a></li>
  <li><a href="?mode=view&articleNo=104">도서관 휴관 안내</a></li>
</ul>
</body></html>`

const articleHTML = `<html><head><title>게시판 | 주간식단표</title></head><body>
<div id="jwxe_main_content">
  <h4>  교직원 식당
      주간 메뉴(2024.3.4~3.8) </h4>
  <div class="fr-view">
    <p><img src="/thumb/1.jpg" data-path="/upload/menu1.jpg?v=1&amp;w=2"></p>
    <p><img src="/upload/menu2.png"></p>
    <p><img src="/upload/menu1.jpg?v=1&w=2"></p>
    <p><img alt="empty"></p>
  </div>
</div>
<img src="/logo.png">
</body></html>`

const listingURL = "https://www.example.ac.kr/menu/board.do"

func mustParse(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := Parse([]byte(html))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return doc
}

func TestTitleMatchers(t *testing.T) {
	tests := []struct {
		title   string
		faculty bool
		student bool
	}{
		{"교직원 식당 주간 메뉴(2024.3.4~3.8)", true, true},
		{"교직원식당 주간메뉴", true, true},
		{"학생식당 주간식단표(3.4.~3.8.)", false, true},
		{"학생식당 주 간 식 단 표", false, true},
		{"도서관 휴관 안내", false, false},
	}
	for _, tt := range tests {
		if got := FacultyTitle(tt.title); got != tt.faculty {
			t.Errorf("FacultyTitle(%q) = %v, want %v", tt.title, got, tt.faculty)
		}
		if got := StudentTitle(tt.title); got != tt.student {
			t.Errorf("StudentTitle(%q) = %v, want %v", tt.title, got, tt.student)
		}
	}
}

func TestFindArticle_PrefersTargetWeek(t *testing.T) {
	doc := mustParse(t, listingHTML)
	ref := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)

	got, err := FindArticle(doc, listingURL, FacultyTitle, ref)
	if err != nil {
		t.Fatalf("FindArticle: %v", err)
	}
	want := "https://www.example.ac.kr/menu/board.do?mode=view&articleNo=102"
	if got.URL != want {
		t.Errorf("URL = %q, want %q", got.URL, want)
	}
	if len(got.Dates) != 5 || got.Dates[0].Format("2006-01-02") != "2024-03-04" {
		t.Errorf("Dates = %v", got.Dates)
	}
}

func TestFindArticle_FallsBackToFirst(t *testing.T) {
	doc := mustParse(t, listingHTML)
	ref := time.Date(2024, 6, 12, 0, 0, 0, 0, time.UTC)

	got, err := FindArticle(doc, listingURL, FacultyTitle, ref)
	if err != nil {
		t.Fatalf("FindArticle: %v", err)
	}
	want := "https://www.example.ac.kr/menu/board.do?mode=view&articleNo=101"
	if got.URL != want {
		t.Errorf("URL = %q, want %q", got.URL, want)
	}
	if got.Title != "교직원 식당 주간 메뉴(2024.2.26~3.1)" {
		t.Errorf("Title = %q, want the title attribute", got.Title)
	}
}

func TestFindArticle_NoMatch(t *testing.T) {
	doc := mustParse(t, `<a href="?mode=view&articleNo=1">공지사항</a>`)
	_, err := FindArticle(doc, listingURL, StudentTitle, time.Now())
	if !errors.Is(err, ErrNoArticle) {
		t.Errorf("err = %v, want ErrNoArticle", err)
	}
}

func TestArticleTitle(t *testing.T) {
	doc := mustParse(t, articleHTML)
	if got, want := ArticleTitle(doc), "교직원 식당 주간 메뉴(2024.3.4~3.8)"; got != want {
		t.Errorf("ArticleTitle = %q, want %q", got, want)
	}

	doc = mustParse(t, `<html><head><title> 주간식단표(3.4.~3.8.) </title></head><body></body></html>`)
	if got, want := ArticleTitle(doc), "주간식단표(3.4.~3.8.)"; got != want {
		t.Errorf("ArticleTitle fallback = %q, want %q", got, want)
	}
}

func TestImageURLs(t *testing.T) {
	doc := mustParse(t, articleHTML)
	got := ImageURLs(doc, "https://www.example.ac.kr/menu/board.do?mode=view&articleNo=102")
	want := []string{
		"https://www.example.ac.kr/upload/menu1.jpg?v=1&w=2",
		"https://www.example.ac.kr/upload/menu2.png",
	}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("url %d = %q, want %q", i, got[i], want[i])
		}
	}
}
