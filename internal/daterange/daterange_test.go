package daterange

import (
	"testing"
	"time"
)

func d(y int, m time.Month, day int) time.Time {
	return time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
}

func format(dates []time.Time) []string {
	out := make([]string, len(dates))
	for i, t := range dates {
		out[i] = t.Format("2006-01-02")
	}
	return out
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name  string
		title string
		ref   time.Time
		first time.Time
		last  time.Time
		count int
	}{
		{
			name:  "full range",
			title: "교직원 식당 주간 메뉴(2024.3.4~3.8)",
			ref:   d(2024, 3, 5),
			first: d(2024, 3, 4), last: d(2024, 3, 8), count: 5,
		},
		{
			name:  "full range with spaces",
			title: "주간 메뉴 ( 2024. 3. 4 ~ 3. 8 )",
			ref:   d(2024, 3, 5),
			first: d(2024, 3, 4), last: d(2024, 3, 8), count: 5,
		},
		{
			name:  "full range crosses new year",
			title: "주간 메뉴(2024.12.30~1.3)",
			ref:   d(2024, 12, 31),
			first: d(2024, 12, 30), last: d(2025, 1, 3), count: 5,
		},
		{
			name:  "short range with dots",
			title: "주간식단표(12.15.~12.19.)",
			ref:   d(2025, 12, 16),
			first: d(2025, 12, 15), last: d(2025, 12, 19), count: 5,
		},
		{
			name:  "short range without trailing dots",
			title: "주간식단표(3.4~3.8)",
			ref:   d(2024, 3, 1),
			first: d(2024, 3, 4), last: d(2024, 3, 8), count: 5,
		},
		{
			name:  "short range from previous year",
			title: "주간식단표(12.15.~12.19.)",
			ref:   d(2026, 1, 10),
			first: d(2025, 12, 15), last: d(2025, 12, 19), count: 5,
		},
		{
			name:  "short range crossing year boundary",
			title: "주간식단표(12.29.~1.2.)",
			ref:   d(2025, 12, 28),
			first: d(2025, 12, 29), last: d(2026, 1, 2), count: 5,
		},
		{
			name:  "three day range",
			title: "주간 메뉴(2024.5.1~5.3)",
			ref:   d(2024, 5, 1),
			first: d(2024, 5, 1), last: d(2024, 5, 3), count: 3,
		},
		{
			name:  "no range falls back to week",
			title: "교직원 식당 안내",
			ref:   d(2024, 3, 7),
			first: d(2024, 3, 4), last: d(2024, 3, 8), count: 5,
		},
		{
			name:  "invalid day falls back to week",
			title: "주간 메뉴(2024.4.31~5.3)",
			ref:   d(2024, 5, 1),
			first: d(2024, 4, 29), last: d(2024, 5, 3), count: 5,
		},
		{
			name:  "invalid short date falls back to week",
			title: "주간식단표(13.1.~13.5.)",
			ref:   d(2024, 5, 1),
			first: d(2024, 4, 29), last: d(2024, 5, 3), count: 5,
		},
		{
			name:  "reversed range falls back to week",
			title: "주간 메뉴(2024.3.8~3.4)",
			ref:   d(2024, 3, 6),
			first: d(2024, 3, 4), last: d(2024, 3, 8), count: 5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Resolve(tt.title, tt.ref)
			if len(got) != tt.count {
				t.Fatalf("got %d dates %v, want %d", len(got), format(got), tt.count)
			}
			if !got[0].Equal(tt.first) || !got[len(got)-1].Equal(tt.last) {
				t.Errorf("got %v, want %s..%s", format(got), tt.first.Format("2006-01-02"), tt.last.Format("2006-01-02"))
			}
			for i := 1; i < len(got); i++ {
				if !got[i].Equal(got[i-1].AddDate(0, 0, 1)) {
					t.Errorf("dates not consecutive: %v", format(got))
					break
				}
			}
		})
	}
}

func TestResolve_FullRangeCountMatchesSpan(t *testing.T) {
	got := Resolve("(2024.2.26~3.1)", d(2024, 2, 27))
	// 2024 is a leap year: 26, 27, 28, 29, 1
	if len(got) != 5 {
		t.Fatalf("got %v, want 5 dates", format(got))
	}
	if !got[3].Equal(d(2024, 2, 29)) {
		t.Errorf("got[3] = %s, want 2024-02-29", got[3].Format("2006-01-02"))
	}
}

func TestIsWeekOf(t *testing.T) {
	ref := d(2024, 3, 6)
	if !IsWeekOf(Week(ref), ref) {
		t.Error("Week(ref) should be the week of ref")
	}
	if IsWeekOf(Week(d(2024, 3, 12)), ref) {
		t.Error("next week should not match")
	}
	if IsWeekOf(nil, ref) {
		t.Error("empty dates should not match")
	}
}

func TestCivil(t *testing.T) {
	if _, ok := civil(2023, 2, 29); ok {
		t.Error("2023-02-29 should be invalid")
	}
	if _, ok := civil(2024, 2, 29); !ok {
		t.Error("2024-02-29 should be valid")
	}
	if _, ok := civil(2024, 0, 1); ok {
		t.Error("month 0 should be invalid")
	}
}
