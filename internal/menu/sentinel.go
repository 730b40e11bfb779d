package menu

import "time"

// Reserved dish names. They are data, not errors: a Menu whose only item is
// one of these means the source had nothing usable for that meal.
const (
	NoLunchInfo     = "중식정보없음"
	NoBreakfastInfo = "조식정보없음"
	LunchClosed     = "중식 미운영"
	BreakfastClosed = "조식 미운영"
)

var sentinels = map[string]struct{}{
	NoLunchInfo:     {},
	NoBreakfastInfo: {},
	LunchClosed:     {},
	BreakfastClosed: {},
}

// IsSentinel reports whether name is a reserved placeholder rather than a dish.
func IsSentinel(name string) bool {
	_, ok := sentinels[name]
	return ok
}

// Notices are appended to every OCR-derived item list.
var Notices = []string{
	"* 식자재 원산지는 일일메뉴게시판에 별도로 표시하였습니다.",
	"* 위 식단은 식자재 수급에 따라 변경될 수 있습니다.",
}

// WithNotices returns items followed by each notice not already present.
func WithNotices(items []string) []string {
	out := make([]string, len(items), len(items)+len(Notices))
	copy(out, items)
	for _, n := range Notices {
		if !contains(out, n) {
			out = append(out, n)
		}
	}
	return out
}

func contains(items []string, s string) bool {
	for _, it := range items {
		if it == s {
			return true
		}
	}
	return false
}

// Monday returns the Monday of the week containing t.
func Monday(t time.Time) time.Time {
	d := Day(t)
	offset := (int(d.Weekday()) + 6) % 7
	return d.AddDate(0, 0, -offset)
}

// SentinelWeek builds the Monday..Friday fallback for r in the week of ref:
// one lunch Menu per day, plus a breakfast Menu for restaurants that serve it.
func SentinelWeek(r Restaurant, ref time.Time) []Menu {
	monday := Monday(ref)
	var out []Menu
	for i := 0; i < 5; i++ {
		d := monday.AddDate(0, 0, i)
		if r.ServesBreakfast() {
			out = append(out, New(d, r, Breakfast, []string{NoBreakfastInfo}))
		}
		out = append(out, New(d, r, Lunch, []string{NoLunchInfo}))
	}
	return out
}
