package menutext

import (
	"regexp"
	"strings"

	"github.com/ironsheep/cafeteria-menu-ocr/internal/menu"
)

var reBareDayNumber = regexp.MustCompile(`^\d{1,2}일$`)

// SplitMeals separates a finalized day of a mixed breakfast/lunch column.
//
// Lines before the first lunch pivot are breakfast, the pivot and everything
// after it are lunch. Without a pivot, lines matching BreakfastItems are
// breakfast and the rest lunch. A breakfast-only closure notice is removed,
// breakfast becomes menu.BreakfastClosed and every other line goes to lunch.
// The two lists never share an item; an item on both sides stays with lunch.
// Empty lists become their sentinels.
func SplitMeals(items []string) (breakfast, lunch []string) {
	closed := false
	filtered := make([]string, 0, len(items))
	for _, it := range items {
		switch {
		case reBareDayNumber.MatchString(it):
		case isBreakfastClosure(it):
			closed = true
		default:
			filtered = append(filtered, it)
		}
	}

	pivot := -1
	for i, it := range filtered {
		if LunchPivots.In(it) {
			pivot = i
			break
		}
	}

	switch {
	case closed:
		breakfast = []string{menu.BreakfastClosed}
		lunch = append(lunch, filtered...)
	case pivot >= 0:
		breakfast = append(breakfast, filtered[:pivot]...)
		lunch = append(lunch, filtered[pivot:]...)
	default:
		for _, it := range filtered {
			if BreakfastItems.In(it) {
				breakfast = append(breakfast, it)
			} else {
				lunch = append(lunch, it)
			}
		}
	}

	lunch = Dedupe(lunch)
	breakfast = without(Dedupe(breakfast), lunch)

	if len(breakfast) == 0 {
		breakfast = []string{menu.NoBreakfastInfo}
	}
	if len(lunch) == 0 {
		lunch = []string{menu.NoLunchInfo}
	}
	return breakfast, lunch
}

func isBreakfastClosure(item string) bool {
	return strings.Contains(item, NotOperating) && BreakfastPrograms.In(item)
}

// without returns items whose Key does not appear in exclude.
func without(items, exclude []string) []string {
	drop := make(map[string]struct{}, len(exclude))
	for _, e := range exclude {
		drop[Key(e)] = struct{}{}
	}
	out := items[:0]
	for _, it := range items {
		if _, ok := drop[Key(it)]; !ok {
			out = append(out, it)
		}
	}
	return out
}
