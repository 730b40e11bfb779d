package menutext

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/ironsheep/cafeteria-menu-ocr/internal/menu"
)

var (
	reUsageSuffix = regexp.MustCompile(`\s*이용이\s*$`)
	reLatinTail   = regexp.MustCompile(`\s+[A-Za-z]{2,}$`)
	reDayNumber   = regexp.MustCompile(`\d{1,2}일`)
)

// FinalizeDay produces the item list for one day from its parsed lines and
// the raw OCR texts they came from. The result is never empty: a closed day
// yields menu.LunchClosed and a day without any dish-like line yields
// menu.NoLunchInfo.
func FinalizeDay(items []string, raw []string) []string {
	if Closure.In(strings.Join(raw, "\n")) {
		return []string{menu.LunchClosed}
	}

	cleaned := make([]string, 0, len(items))
	for _, it := range items {
		if it, ok := finalizeItem(it); ok {
			cleaned = append(cleaned, it)
		}
	}

	if Dishes.Count(cleaned) == 0 {
		return []string{menu.NoLunchInfo}
	}

	for _, c := range Companions {
		if anyContains(cleaned, c.Trigger) && !anyContains(cleaned, c.Unless) {
			cleaned = append(cleaned, c.Add)
		}
	}
	return Dedupe(cleaned)
}

func finalizeItem(it string) (string, bool) {
	it = Normalize(it)
	it = strings.TrimSpace(reUsageSuffix.ReplaceAllString(it, ""))
	it = strings.TrimSpace(reLatinTail.ReplaceAllString(it, ""))

	if ServingFooters.In(it) {
		return "", false
	}
	dish := Dishes.In(it)
	if Noise.In(it) && !dish {
		return "", false
	}
	if utf8.RuneCountInString(it) <= 2 && !dish && !reDayNumber.MatchString(it) {
		return "", false
	}
	return it, true
}

func anyContains(items []string, sub string) bool {
	for _, it := range items {
		if strings.Contains(it, sub) {
			return true
		}
	}
	return false
}
