package menu

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestMonday(t *testing.T) {
	tests := []struct {
		name string
		in   time.Time
		want time.Time
	}{
		{"monday", date(2024, 3, 4), date(2024, 3, 4)},
		{"wednesday", date(2024, 3, 6), date(2024, 3, 4)},
		{"sunday", date(2024, 3, 10), date(2024, 3, 4)},
		{"across year", date(2025, 1, 1), date(2024, 12, 30)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Monday(tt.in); !got.Equal(tt.want) {
				t.Errorf("Monday(%s) = %s, want %s", tt.in.Format(DateLayout), got.Format(DateLayout), tt.want.Format(DateLayout))
			}
		})
	}
}

func TestSentinelWeek_Faculty(t *testing.T) {
	menus := SentinelWeek(CheonanFaculty, date(2024, 3, 7))
	if len(menus) != 5 {
		t.Fatalf("got %d menus, want 5", len(menus))
	}
	for i, m := range menus {
		want := date(2024, 3, 4+i)
		if !m.Date.Equal(want) {
			t.Errorf("menu %d date = %s, want %s", i, m.Date.Format(DateLayout), want.Format(DateLayout))
		}
		if m.MealType != Lunch {
			t.Errorf("menu %d meal = %s, want lunch", i, m.MealType)
		}
		if names := m.ItemNames(); len(names) != 1 || names[0] != NoLunchInfo {
			t.Errorf("menu %d items = %v", i, names)
		}
	}
}

func TestSentinelWeek_Student(t *testing.T) {
	menus := SentinelWeek(CheonanStudent, date(2024, 3, 4))
	if len(menus) != 10 {
		t.Fatalf("got %d menus, want 10", len(menus))
	}
	if menus[0].MealType != Breakfast || menus[0].Items[0].Name != NoBreakfastInfo {
		t.Errorf("first menu = %+v, want breakfast sentinel", menus[0])
	}
	if menus[1].MealType != Lunch || menus[1].Items[0].Name != NoLunchInfo {
		t.Errorf("second menu = %+v, want lunch sentinel", menus[1])
	}
}

func TestWithNotices_Idempotent(t *testing.T) {
	once := WithNotices([]string{"백미밥"})
	twice := WithNotices(once)
	if len(once) != 3 || len(twice) != 3 {
		t.Fatalf("lengths: once=%d twice=%d, want 3", len(once), len(twice))
	}
	for i := range once {
		if once[i] != twice[i] {
			t.Errorf("item %d: %q != %q", i, once[i], twice[i])
		}
	}
}

func TestDedupe_LaterWins(t *testing.T) {
	d := date(2024, 3, 4)
	menus := []Menu{
		New(d, CheonanFaculty, Lunch, []string{"old"}),
		New(d, CheonanStudent, Lunch, []string{"student"}),
		New(d, CheonanFaculty, Lunch, []string{"new"}),
	}
	got := Dedupe(menus)
	if len(got) != 2 {
		t.Fatalf("got %d menus, want 2", len(got))
	}
	if got[0].Items[0].Name != "new" {
		t.Errorf("faculty item = %q, want new", got[0].Items[0].Name)
	}
}

func TestParseRestaurant(t *testing.T) {
	for _, in := range []string{"CHEONAN_FACULTY", "천안_교직원식당"} {
		r, err := ParseRestaurant(in)
		if err != nil || r != CheonanFaculty {
			t.Errorf("ParseRestaurant(%q) = %q, %v", in, r, err)
		}
	}
	if _, err := ParseRestaurant("nowhere"); err == nil {
		t.Error("expected error for unknown restaurant")
	}
}

func TestIsSentinel(t *testing.T) {
	if !IsSentinel(NoLunchInfo) || !IsSentinel(BreakfastClosed) {
		t.Error("sentinels not recognized")
	}
	if IsSentinel("백미밥") {
		t.Error("dish treated as sentinel")
	}
}
