package store

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/ironsheep/cafeteria-menu-ocr/internal/menu"
	"github.com/ironsheep/cafeteria-menu-ocr/internal/menutext"
)

func openTest(t *testing.T) *Store {
	t.Helper()
	s, err := Open(Memory, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func day(d int) time.Time {
	return time.Date(2024, 3, d, 0, 0, 0, 0, time.UTC)
}

func TestSave_ReplacesByKey(t *testing.T) {
	s := openTest(t)
	ctx := context.Background()

	first := menu.New(day(4), menu.CheonanFaculty, menu.Lunch, []string{"백미밥"})
	if _, err := s.Save(ctx, []menu.Menu{first}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	second := menu.New(day(4), menu.CheonanFaculty, menu.Lunch, []string{"카레라이스", "미역국"})
	if _, err := s.Save(ctx, []menu.Menu{second}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	recs, err := s.Daily(ctx, day(4))
	if err != nil {
		t.Fatalf("Daily: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("got %d records, want 1", len(recs))
	}
	if got := recs[0].ItemNames(); !reflect.DeepEqual(got, []string{"카레라이스", "미역국"}) {
		t.Errorf("items = %q", got)
	}
	if recs[0].RulesVersion != menutext.RulesVersion {
		t.Errorf("rules version = %q", recs[0].RulesVersion)
	}
}

func TestGet(t *testing.T) {
	s := openTest(t)
	ctx := context.Background()

	m := menu.New(day(5), menu.CheonanStudent, menu.Breakfast, []string{"토스트"})
	if _, err := s.Save(ctx, []menu.Menu{m}); err != nil {
		t.Fatal(err)
	}

	rec, err := s.Get(ctx, m.Key())
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !reflect.DeepEqual(rec.Menu, m) {
		t.Errorf("Get = %+v, want %+v", rec.Menu, m)
	}

	_, err = s.Get(ctx, menu.Key{Date: "2024-03-05", Restaurant: menu.CheonanStudent, MealType: menu.Lunch})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestQueries(t *testing.T) {
	s := openTest(t)
	ctx := context.Background()

	var menus []menu.Menu
	for d := 4; d <= 8; d++ {
		menus = append(menus,
			menu.New(day(d), menu.CheonanFaculty, menu.Lunch, []string{"백미밥"}),
			menu.New(day(d), menu.CheonanStudent, menu.Lunch, []string{"라면"}),
			menu.New(day(d), menu.CheonanStudent, menu.Breakfast, []string{"토스트"}),
		)
	}
	if n, err := s.Save(ctx, menus); err != nil || n != 15 {
		t.Fatalf("Save = %d, %v", n, err)
	}

	t.Run("range", func(t *testing.T) {
		recs, err := s.Range(ctx, day(5), day(6))
		if err != nil {
			t.Fatal(err)
		}
		if len(recs) != 6 {
			t.Fatalf("got %d records, want 6", len(recs))
		}
		if !recs[0].Date.Equal(day(5)) || !recs[5].Date.Equal(day(6)) {
			t.Errorf("range not ordered by date")
		}
	})

	t.Run("meal order", func(t *testing.T) {
		recs, err := s.ByRestaurant(ctx, menu.CheonanStudent, day(4), day(4))
		if err != nil {
			t.Fatal(err)
		}
		if len(recs) != 2 || recs[0].MealType != menu.Breakfast || recs[1].MealType != menu.Lunch {
			t.Errorf("got %+v, want breakfast then lunch", recs)
		}
	})

	t.Run("purge", func(t *testing.T) {
		n, err := s.ClearBefore(ctx, day(7))
		if err != nil {
			t.Fatal(err)
		}
		if n != 9 {
			t.Errorf("purged %d, want 9", n)
		}
		recs, err := s.Range(ctx, day(1), day(31))
		if err != nil {
			t.Fatal(err)
		}
		if len(recs) != 6 {
			t.Errorf("%d records left, want 6", len(recs))
		}
	})
}

func TestOpen_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "menus.db")
	s, err := Open(path, nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, err := s.Save(context.Background(), []menu.Menu{menu.New(day(4), menu.CheonanFaculty, menu.Lunch, []string{"우동"})}); err != nil {
		t.Fatal(err)
	}
	_ = s.Close()

	s, err = Open(path, nil)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()
	recs, err := s.Daily(context.Background(), day(4))
	if err != nil || len(recs) != 1 {
		t.Fatalf("after reopen got %d records, %v", len(recs), err)
	}
	if s.Path() != path {
		t.Errorf("Path() = %q", s.Path())
	}
}
