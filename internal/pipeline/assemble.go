package pipeline

import (
	"time"

	"github.com/ironsheep/cafeteria-menu-ocr/internal/menu"
	"github.com/ironsheep/cafeteria-menu-ocr/internal/menutext"
)

// Week accumulates per-weekday items across the images of one announcement.
// A week's table is sometimes split over several images, so items for the
// same weekday are merged rather than overwritten. The zero value is ready
// to use.
type Week struct {
	days [][]string
}

// Add merges one image's per-column items.
func (w *Week) Add(days [][]string) {
	for len(w.days) < len(days) {
		w.days = append(w.days, nil)
	}
	for i, items := range days {
		w.days[i] = append(w.days[i], items...)
	}
}

// Days returns the merged items per weekday. Sentinels are dropped from a day
// that has real items from another image, and the rest is deduplicated.
func (w *Week) Days() [][]string {
	out := make([][]string, len(w.days))
	for i, items := range w.days {
		out[i] = mergeDay(items)
	}
	return out
}

func mergeDay(items []string) []string {
	dishes := make([]string, 0, len(items))
	for _, it := range items {
		if !menu.IsSentinel(it) {
			dishes = append(dishes, it)
		}
	}
	if len(dishes) > 0 {
		return menutext.Dedupe(dishes)
	}
	return menutext.Dedupe(items)
}

// Assemble builds the dated Menu records for restaurant r. dates and days are
// paired by index; surplus entries on either side are dropped. Restaurants
// that serve breakfast get a breakfast and a lunch Menu per date, split by
// menutext.SplitMeals. Every item list ends with menu.Notices.
func Assemble(r menu.Restaurant, dates []time.Time, days [][]string) []menu.Menu {
	n := len(dates)
	if len(days) < n {
		n = len(days)
	}

	var out []menu.Menu
	for i := 0; i < n; i++ {
		items := days[i]
		if len(items) == 0 {
			items = []string{menu.NoLunchInfo}
		}

		if r.ServesBreakfast() {
			breakfast, lunch := menutext.SplitMeals(items)
			out = append(out,
				menu.New(dates[i], r, menu.Breakfast, menu.WithNotices(breakfast)),
				menu.New(dates[i], r, menu.Lunch, menu.WithNotices(lunch)),
			)
			continue
		}
		out = append(out, menu.New(dates[i], r, menu.Lunch, menu.WithNotices(items)))
	}
	return out
}
