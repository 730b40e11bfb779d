// Package daterange resolves the weekday dates a weekly menu announcement
// covers from its free-text title.
package daterange

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/ironsheep/cafeteria-menu-ocr/internal/menu"
)

var (
	// (2024.3.4~3.8)
	fullRange = regexp.MustCompile(`\((\d{4})\.(\d{1,2})\.(\d{1,2})~(\d{1,2})\.(\d{1,2})\)`)
	// (12.15.~12.19.) with optional trailing dots
	shortRange = regexp.MustCompile(`\((\d{1,2})\.(\d{1,2})\.?~(\d{1,2})\.(\d{1,2})\.?\)`)
)

// StaleYearDays is how far a short-form start date may sit from the reference
// date before the previous year is tried instead. Empirically tuned.
const StaleYearDays = 200

// Resolve returns the consecutive dates covered by title.
//
// The full form "(YYYY.M.D~M.D)" is tried first, then the short form
// "(M.D.~M.D.)" anchored on ref's year, then the Monday..Friday week that
// contains ref. Candidates that are not real calendar dates fall through to
// the next strategy.
func Resolve(title string, ref time.Time) []time.Time {
	compact := strings.ReplaceAll(title, " ", "")

	if m := fullRange.FindStringSubmatch(compact); m != nil {
		n := atoi(m[1:])
		if dates, ok := span(n[0], n[1], n[2], n[3], n[4]); ok {
			return dates
		}
	}

	if m := shortRange.FindStringSubmatch(compact); m != nil {
		n := atoi(m[1:])
		if dates, ok := shortSpan(n[0], n[1], n[2], n[3], ref); ok {
			return dates
		}
	}

	return Week(ref)
}

// Week returns Monday..Friday of the week containing ref.
func Week(ref time.Time) []time.Time {
	monday := menu.Monday(ref)
	out := make([]time.Time, 5)
	for i := range out {
		out[i] = monday.AddDate(0, 0, i)
	}
	return out
}

// IsWeekOf reports whether dates is exactly Monday..Friday of ref's week.
func IsWeekOf(dates []time.Time, ref time.Time) bool {
	if len(dates) == 0 {
		return false
	}
	monday := menu.Monday(ref)
	return dates[0].Equal(monday) && dates[len(dates)-1].Equal(monday.AddDate(0, 0, 4))
}

func shortSpan(startMonth, startDay, endMonth, endDay int, ref time.Time) ([]time.Time, bool) {
	refDay := menu.Day(ref)
	year := refDay.Year()
	start, ok := civil(year, startMonth, startDay)
	if !ok {
		return nil, false
	}
	if absDays(start.Sub(refDay)) > StaleYearDays {
		year--
	}
	return span(year, startMonth, startDay, endMonth, endDay)
}

// span builds start..end inclusive. An end month numerically before the start
// month rolls into the following year.
func span(year, startMonth, startDay, endMonth, endDay int) ([]time.Time, bool) {
	start, ok := civil(year, startMonth, startDay)
	if !ok {
		return nil, false
	}
	endYear := year
	if endMonth < startMonth {
		endYear++
	}
	end, ok := civil(endYear, endMonth, endDay)
	if !ok {
		return nil, false
	}
	count := int(end.Sub(start).Hours()/24) + 1
	if count <= 0 {
		return nil, false
	}
	out := make([]time.Time, count)
	for i := range out {
		out[i] = start.AddDate(0, 0, i)
	}
	return out, true
}

// civil builds a UTC date, rejecting values time.Date would normalize.
func civil(year, month, day int) (time.Time, bool) {
	if month < 1 || month > 12 || day < 1 {
		return time.Time{}, false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || int(t.Month()) != month || t.Day() != day {
		return time.Time{}, false
	}
	return t, true
}

func absDays(d time.Duration) int {
	days := int(d.Hours() / 24)
	if days < 0 {
		return -days
	}
	return days
}

func atoi(parts []string) []int {
	out := make([]int, len(parts))
	for i, p := range parts {
		out[i], _ = strconv.Atoi(p)
	}
	return out
}
