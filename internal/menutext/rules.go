// Package menutext turns raw OCR output for one menu column into clean dish
// names: line parsing, spelling correction, quality scoring, per-day
// finalization and the breakfast/lunch split for mixed columns.
//
// Every keyword list the package matches against lives in this file as a
// named table. Changing a table changes extraction results, so bump
// RulesVersion with it; stored menus record the version that produced them.
package menutext

import "strings"

// RulesVersion identifies the current set of keyword tables.
const RulesVersion = "2025.12.1"

// Keywords is a named list of substrings.
type Keywords struct {
	Name  string
	Words []string
}

// In reports whether any word occurs in s.
func (k Keywords) In(s string) bool {
	for _, w := range k.Words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

// Count returns how many items contain at least one word.
func (k Keywords) Count(items []string) int {
	n := 0
	for _, it := range items {
		if k.In(it) {
			n++
		}
	}
	return n
}

var (
	// Boilerplate lines printed under every weekly table.
	Boilerplate = Keywords{"boilerplate", []string{
		"식자재 원산지", "메뉴게시판", "별도로 표시", "식단은 식자재 수급", "변경될 수 있습니다",
	}}

	// Closure marks a day the cafeteria does not operate.
	Closure = Keywords{"closure", []string{"연휴", "미운영", "휴무"}}

	// Noise is service boilerplate that is never a dish on its own.
	Noise = Keywords{"noise", []string{"드립니다", "됩니다", "이용", "식당"}}

	// Dishes marks a line as menu-like. It overrides Noise and the short-line
	// filter.
	Dishes = Keywords{"dishes", []string{
		"밥", "국", "찌개", "볶", "김치", "튀김", "무침", "우동", "카레", "샐러드", "장",
	}}

	// ServingFooters are serving-style notes, dropped outright.
	ServingFooters = Keywords{"serving-footers", []string{"대면배식"}}

	// LunchPivots start the lunch section of a mixed breakfast/lunch column.
	LunchPivots = Keywords{"lunch-pivots", []string{
		"오늘의백반", "오늘의 백반", "중식", "백미밥", "보리밥", "차조밥", "쌀국수",
		"설령탕", "설렁탕", "돌솔알밥", "돌솥알밥", "제육덮밥",
	}}

	// BreakfastItems are claimed for breakfast when a column has no pivot.
	BreakfastItems = Keywords{"breakfast-items", []string{
		"라면", "돈까스", "천원의아침밥", "조식", "치킨마요", "생선까스", "고구마돈까스", "치즈돈까스",
	}}

	// BreakfastPrograms combine with NotOperating to close breakfast only.
	BreakfastPrograms = Keywords{"breakfast-programs", []string{"천원의아침밥", "조식"}}
)

// NotOperating is the closure marker the breakfast check looks for.
const NotOperating = "미운영"

// Companion is appended when Trigger is present and nothing matches Unless.
type Companion struct {
	Trigger string
	Unless  string
	Add     string
}

// Companions are customary side pairings OCR tends to miss.
var Companions = []Companion{
	{Trigger: "배추김치", Unless: "샐러드", Add: "그린샐러드&드레싱"},
}

// Replacement is a literal substring substitution.
type Replacement struct {
	From, To string
}

// Misreads are recurring OCR misspellings.
var Misreads = []Replacement{
	{"배배추김치", "배추김치"},
	{"달갈장", "달걀장"},
	{"그린샐러드드레싱", "그린샐러드&드레싱"},
}

// Doubled collapses a qualifier OCR read twice.
var Doubled = []Replacement{
	{"얼큰얼큰", "얼큰"},
	{"실실", "실"},
	{"간간", "간"},
}

// Truncated maps whole lines that are known truncations to the full name.
var Truncated = map[string]string{
	"콩나물국": "얼큰콩나물국",
	"곤약무침": "실곤약무침",
	"장고추지": "간장고추지",
	"육":    "수육",
	"육 Ss": "수육",
}

// Restoration re-inserts Prefix before every occurrence of Dish that lacks
// it.
type Restoration struct {
	Dish   string
	Prefix string
}

// Restorations are qualifiers OCR commonly drops from the start of a dish.
var Restorations = []Restoration{
	{Dish: "추김치", Prefix: "배"},
	{Dish: "콩나물국", Prefix: "얼큰"},
	{Dish: "곤약무침", Prefix: "실"},
	{Dish: "장고추지", Prefix: "간"},
}
